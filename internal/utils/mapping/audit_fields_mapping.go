package mapping

import (
	"time"

	"github.com/SscSPs/invoicing_app/internal/core/domain"
	"github.com/SscSPs/invoicing_app/internal/models"
)

// AuditColumns lists the audit columns in the order AuditInsertArgs returns their values.
const AuditColumns = `created_at, created_by, last_updated_at, last_updated_by`

// TIMESTAMPTZ keeps microseconds.
const storedTimePrecision = time.Microsecond

// ToModelAuditFields converts audit fields for storage. Timestamps are moved
// to UTC and cut to the precision the column keeps.
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     storedTime(d.CreatedAt),
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: storedTime(d.LastUpdatedAt),
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

// ToDomainAuditFields converts stored audit columns, reporting times in UTC
// whatever the session time zone was.
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt.UTC(),
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: m.LastUpdatedAt.UTC(),
		LastUpdatedBy: m.LastUpdatedBy,
	}
}

// AuditInsertArgs returns the values for AuditColumns.
func AuditInsertArgs(m models.AuditFields) []any {
	return []any{m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy}
}

// AuditUpdateArgs returns last_updated_at and last_updated_by. Updates never touch the creation columns.
func AuditUpdateArgs(m models.AuditFields) []any {
	return []any{m.LastUpdatedAt, m.LastUpdatedBy}
}

func storedTime(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC().Truncate(storedTimePrecision)
}
