package services_test

import (
	"context"

	"github.com/efakturaplus/efaktura_backend/internal/core/domain"
	"github.com/efakturaplus/efaktura_backend/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// --- Mock LegalEntityRepository ---

type MockLegalEntityRepository struct {
	mock.Mock
}

func (m *MockLegalEntityRepository) SaveLegalEntity(ctx context.Context, entity domain.LegalEntity) (*domain.LegalEntity, error) {
	args := m.Called(ctx, entity)
	var saved *domain.LegalEntity
	if args.Get(0) != nil {
		saved = args.Get(0).(*domain.LegalEntity)
	}
	return saved, args.Error(1)
}

func (m *MockLegalEntityRepository) FindLegalEntityByID(ctx context.Context, id int64) (*domain.LegalEntity, error) {
	args := m.Called(ctx, id)
	var entity *domain.LegalEntity
	if args.Get(0) != nil {
		entity = args.Get(0).(*domain.LegalEntity)
	}
	return entity, args.Error(1)
}

func (m *MockLegalEntityRepository) FindLegalEntityByUsername(ctx context.Context, username string) (*domain.LegalEntity, error) {
	args := m.Called(ctx, username)
	var entity *domain.LegalEntity
	if args.Get(0) != nil {
		entity = args.Get(0).(*domain.LegalEntity)
	}
	return entity, args.Error(1)
}

func (m *MockLegalEntityRepository) FindLegalEntityByTaxID(ctx context.Context, taxID string) (*domain.LegalEntity, error) {
	args := m.Called(ctx, taxID)
	var entity *domain.LegalEntity
	if args.Get(0) != nil {
		entity = args.Get(0).(*domain.LegalEntity)
	}
	return entity, args.Error(1)
}

func (m *MockLegalEntityRepository) FindLegalEntityByNationalID(ctx context.Context, nationalID string) (*domain.LegalEntity, error) {
	args := m.Called(ctx, nationalID)
	var entity *domain.LegalEntity
	if args.Get(0) != nil {
		entity = args.Get(0).(*domain.LegalEntity)
	}
	return entity, args.Error(1)
}

func (m *MockLegalEntityRepository) FindLegalEntitiesByIDs(ctx context.Context, ids []int64) (map[int64]domain.LegalEntity, error) {
	args := m.Called(ctx, ids)
	var entities map[int64]domain.LegalEntity
	if args.Get(0) != nil {
		entities = args.Get(0).(map[int64]domain.LegalEntity)
	}
	return entities, args.Error(1)
}

func (m *MockLegalEntityRepository) FindLegalEntities(ctx context.Context) ([]domain.LegalEntity, error) {
	args := m.Called(ctx)
	var entities []domain.LegalEntity
	if args.Get(0) != nil {
		entities = args.Get(0).([]domain.LegalEntity)
	}
	return entities, args.Error(1)
}

func (m *MockLegalEntityRepository) SetVerified(ctx context.Context, id int64, verified bool) error {
	args := m.Called(ctx, id, verified)
	return args.Error(0)
}

func (m *MockLegalEntityRepository) DeleteLegalEntity(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ ports.LegalEntityRepository = (*MockLegalEntityRepository)(nil)

// --- Mock InvoiceRepository ---

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) CreateInvoiceWithItems(ctx context.Context, invoice domain.Invoice, items []domain.LineItem, initial domain.InvoiceStatus) (*domain.Invoice, error) {
	args := m.Called(ctx, invoice, items, initial)
	var created *domain.Invoice
	if args.Get(0) != nil {
		created = args.Get(0).(*domain.Invoice)
	}
	return created, args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	var invoice *domain.Invoice
	if args.Get(0) != nil {
		invoice = args.Get(0).(*domain.Invoice)
	}
	return invoice, args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoices(ctx context.Context, filter ports.InvoiceFilter) ([]domain.Invoice, int64, error) {
	args := m.Called(ctx, filter)
	var invoices []domain.Invoice
	if args.Get(0) != nil {
		invoices = args.Get(0).([]domain.Invoice)
	}
	return invoices, args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) FindLineItemsByInvoiceID(ctx context.Context, invoiceID int64) ([]domain.LineItem, error) {
	args := m.Called(ctx, invoiceID)
	var items []domain.LineItem
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.LineItem)
	}
	return items, args.Error(1)
}

func (m *MockInvoiceRepository) FindLineItemsByInvoiceIDs(ctx context.Context, invoiceIDs []int64) (map[int64][]domain.LineItem, error) {
	args := m.Called(ctx, invoiceIDs)
	var items map[int64][]domain.LineItem
	if args.Get(0) != nil {
		items = args.Get(0).(map[int64][]domain.LineItem)
	}
	return items, args.Error(1)
}

func (m *MockInvoiceRepository) FindLineItemsMatching(ctx context.Context, filter ports.InvoiceFilter) ([]domain.LineItem, error) {
	args := m.Called(ctx, filter)
	var items []domain.LineItem
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.LineItem)
	}
	return items, args.Error(1)
}

func (m *MockInvoiceRepository) DeleteInvoice(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ ports.InvoiceRepository = (*MockInvoiceRepository)(nil)

// --- Mock StatusRepository ---

type MockStatusRepository struct {
	mock.Mock
}

func (m *MockStatusRepository) FindStatusByInvoiceID(ctx context.Context, invoiceID int64) (*domain.Status, error) {
	args := m.Called(ctx, invoiceID)
	var status *domain.Status
	if args.Get(0) != nil {
		status = args.Get(0).(*domain.Status)
	}
	return status, args.Error(1)
}

func (m *MockStatusRepository) InsertStatus(ctx context.Context, status domain.Status) (*domain.Status, error) {
	args := m.Called(ctx, status)
	var inserted *domain.Status
	if args.Get(0) != nil {
		inserted = args.Get(0).(*domain.Status)
	}
	return inserted, args.Error(1)
}

func (m *MockStatusRepository) UpdateStatus(ctx context.Context, status domain.Status) (*domain.Status, error) {
	args := m.Called(ctx, status)
	var updated *domain.Status
	if args.Get(0) != nil {
		updated = args.Get(0).(*domain.Status)
	}
	return updated, args.Error(1)
}

func (m *MockStatusRepository) CountBySellerGrouped(ctx context.Context, sellerID int64) (int64, map[string]int64, int64, error) {
	args := m.Called(ctx, sellerID)
	var byStatus map[string]int64
	if args.Get(1) != nil {
		byStatus = args.Get(1).(map[string]int64)
	}
	return args.Get(0).(int64), byStatus, args.Get(2).(int64), args.Error(3)
}

func (m *MockStatusRepository) CountForBuyer(ctx context.Context, buyerID int64) (int64, int64, error) {
	args := m.Called(ctx, buyerID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

var _ ports.StatusRepository = (*MockStatusRepository)(nil)
