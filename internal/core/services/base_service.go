package services

import (
	"context"
	"time"

	"github.com/SscSPs/invoicing_app/internal/middleware"
	"github.com/SscSPs/invoicing_app/internal/platform/clock"
	"github.com/rs/zerolog"
)

// MetricsRecorder receives business events worth counting.
// *metrics.Metrics implements it.
type MetricsRecorder interface {
	InvoiceCreated(status string)
	InvoiceNumberConflict()
	InvoiceNumberExhausted()
	PaymentRecorded()
	InvoiceStatusChanged(from, to string)
}

type noopMetrics struct{}

func (noopMetrics) InvoiceCreated(string)               {}
func (noopMetrics) InvoiceNumberConflict()              {}
func (noopMetrics) InvoiceNumberExhausted()             {}
func (noopMetrics) PaymentRecorded()                    {}
func (noopMetrics) InvoiceStatusChanged(string, string) {}

// BaseService provides common functionality for all services
type BaseService struct {
	Clock   clock.Clock
	Metrics MetricsRecorder
}

func newBaseService() BaseService {
	return BaseService{Clock: clock.Real{}, Metrics: noopMetrics{}}
}

// ServiceOption configures the dependencies shared by every service.
type ServiceOption func(*BaseService)

// WithClock replaces the system clock.
func WithClock(c clock.Clock) ServiceOption {
	return func(s *BaseService) {
		if c != nil {
			s.Clock = c
		}
	}
}

// WithMetrics routes business events to m.
func WithMetrics(m MetricsRecorder) ServiceOption {
	return func(s *BaseService) {
		if m != nil {
			s.Metrics = m
		}
	}
}

func (s *BaseService) apply(options []ServiceOption) {
	for _, option := range options {
		option(s)
	}
}

// GetLogger gets the logger from context or returns the global one
func (s *BaseService) GetLogger(ctx context.Context) *zerolog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting. keyvals alternate keys and values.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	s.GetLogger(ctx).Error().Err(err).Fields(keyvals).Msg(msg)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info().Fields(keyvals).Msg(msg)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug().Fields(keyvals).Msg(msg)
}

// now returns the current time truncated to microseconds, the precision Postgres stores.
func (s *BaseService) now() time.Time {
	return s.Clock.Now().UTC().Truncate(time.Microsecond)
}
