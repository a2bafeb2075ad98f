package services

import (
	"github.com/efakturaplus/efaktura_backend/internal/core/ports"
)

// NewServiceContainer wires the repositories into the service facades handed
// to the HTTP layer.
func NewServiceContainer(
	entityRepo ports.LegalEntityRepository,
	invoiceRepo ports.InvoiceRepository,
	statusRepo ports.StatusRepository,
) *ports.ServiceContainer {
	return &ports.ServiceContainer{
		LegalEntity: NewLegalEntityService(entityRepo),
		Invoice:     NewInvoiceService(invoiceRepo, entityRepo, statusRepo),
		Status:      NewStatusService(statusRepo, invoiceRepo, entityRepo),
	}
}
