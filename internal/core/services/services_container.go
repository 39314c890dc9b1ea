package services

import (
	portsrepo "github.com/SscSPs/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/platform/config"
	"github.com/SscSPs/invoicing_app/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, m *metrics.Metrics) *portssvc.ServiceContainer {
	shared := []ServiceOption{WithMetrics(m)}

	return &portssvc.ServiceContainer{
		Client:  NewClientService(repos.ClientRepo, shared...),
		Product: NewProductService(repos.ProductRepo, shared...),
		Invoice: NewInvoiceService(
			repos.InvoiceRepo,
			repos.TxRunner,
			WithMaxNumberAttempts(cfg.InvoiceNumberMaxAttempts),
			WithInvoiceBase(shared...),
		),
		Payment: NewPaymentService(repos.PaymentRepo, repos.TxRunner, shared...),
	}
}
