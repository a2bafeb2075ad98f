package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/efakturaplus/efaktura_backend/internal/apperrors"
	"github.com/efakturaplus/efaktura_backend/internal/core/domain"
	"github.com/efakturaplus/efaktura_backend/internal/core/ports"
	"github.com/efakturaplus/efaktura_backend/internal/dto"
	"github.com/efakturaplus/efaktura_backend/internal/handlers"
	"github.com/efakturaplus/efaktura_backend/internal/utils"
	"github.com/efakturaplus/efaktura_backend/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LegalEntitySvc ---

type MockLegalEntityService struct {
	mock.Mock
}

func (m *MockLegalEntityService) Register(ctx context.Context, req dto.RegisterLegalEntityRequest) (*domain.LegalEntity, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LegalEntity), args.Error(1)
}
func (m *MockLegalEntityService) Authenticate(ctx context.Context, username, password string) (*domain.LegalEntity, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LegalEntity), args.Error(1)
}
func (m *MockLegalEntityService) Verify(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockLegalEntityService) Unverify(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockLegalEntityService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockLegalEntityService) GetByID(ctx context.Context, id int64) (*domain.LegalEntity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LegalEntity), args.Error(1)
}
func (m *MockLegalEntityService) List(ctx context.Context) ([]domain.LegalEntity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LegalEntity), args.Error(1)
}

var _ ports.LegalEntitySvc = (*MockLegalEntityService)(nil)

// --- Mock InvoiceSvc ---

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Issue(ctx context.Context, req dto.IssueInvoiceRequest) (*dto.IssueInvoiceResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.IssueInvoiceResponse), args.Error(1)
}
func (m *MockInvoiceService) GetDetail(ctx context.Context, id int64) (*dto.InvoiceDetailResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.InvoiceDetailResponse), args.Error(1)
}
func (m *MockInvoiceService) ListOutgoing(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListInvoicesResponse), args.Error(1)
}
func (m *MockInvoiceService) ListIncoming(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListInvoicesResponse), args.Error(1)
}
func (m *MockInvoiceService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ ports.InvoiceSvc = (*MockInvoiceService)(nil)

// --- Mock StatusSvc ---

type MockStatusService struct {
	mock.Mock
}

func (m *MockStatusService) Get(ctx context.Context, invoiceID int64) (*domain.Status, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Status), args.Error(1)
}
func (m *MockStatusService) Set(ctx context.Context, invoiceID int64, label string) (*domain.Status, bool, error) {
	args := m.Called(ctx, invoiceID, label)
	var status *domain.Status
	if args.Get(0) != nil {
		status = args.Get(0).(*domain.Status)
	}
	return status, args.Bool(1), args.Error(2)
}
func (m *MockStatusService) Reopen(ctx context.Context, invoiceID int64) (*domain.Status, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Status), args.Error(1)
}
func (m *MockStatusService) SellerStatistics(ctx context.Context, taxID string) (*dto.SellerStatusStatisticsResponse, error) {
	args := m.Called(ctx, taxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SellerStatusStatisticsResponse), args.Error(1)
}
func (m *MockStatusService) BuyerStatistics(ctx context.Context, nationalID string) (*dto.BuyerStatusStatisticsResponse, error) {
	args := m.Called(ctx, nationalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BuyerStatusStatisticsResponse), args.Error(1)
}

var _ ports.StatusSvc = (*MockStatusService)(nil)

// --- Test Suite ---

type InvoiceHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	cfg               *config.Config
	mockEntityService *MockLegalEntityService
	mockInvoiceSvc    *MockInvoiceService
	mockStatusSvc     *MockStatusService
	token             string
}

func (suite *InvoiceHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.cfg = &config.Config{
		JWTSecret:         "test-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "efaktura-plus-test",
		AdminUsername:     "admin",
		AdminPassword:     "admin-secret",
	}
	suite.mockEntityService = new(MockLegalEntityService)
	suite.mockInvoiceSvc = new(MockInvoiceService)
	suite.mockStatusSvc = new(MockStatusService)

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, suite.cfg, &ports.ServiceContainer{
		LegalEntity: suite.mockEntityService,
		Invoice:     suite.mockInvoiceSvc,
		Status:      suite.mockStatusSvc,
	})

	token, err := utils.GenerateJWT("1", suite.cfg.JWTSecret, suite.cfg.JWTExpiryDuration, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)
	suite.token = token
}

func (suite *InvoiceHandlerTestSuite) doJSON(method, path string, body any, authed bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+suite.token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *InvoiceHandlerTestSuite) TestIssueInvoice_Unauthorized() {
	w := suite.doJSON(http.MethodPost, "/api/v1/invoices", gin.H{}, false)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockInvoiceSvc.AssertNotCalled(suite.T(), "Issue", mock.Anything, mock.Anything)
}

func (suite *InvoiceHandlerTestSuite) TestIssueInvoice_Success() {
	body := gin.H{
		"currency":        "RSD",
		"documentType":    "faktura",
		"documentNumber":  2025001,
		"sellerTaxID":     "101234567",
		"buyerNationalID": "0101990710018",
		"transactionDate": "2025-06-01",
		"vatObligation":   "obracunava",
		"lineItems": []gin.H{
			{"lineNumber": 1, "name": "Usluga konsaltinga", "quantity": "2", "unitPrice": "100"},
		},
	}

	resp := &dto.IssueInvoiceResponse{
		InvoiceID:      10,
		DocumentNumber: 2025001,
		NetTotal:       decimal.NewFromInt(200),
		VATTotal:       decimal.NewFromInt(40),
		GrossTotal:     decimal.NewFromInt(240),
		Status:         "primljen",
	}
	suite.mockInvoiceSvc.On("Issue", mock.Anything, mock.MatchedBy(func(req dto.IssueInvoiceRequest) bool {
		return req.DocumentNumber == 2025001 && len(req.LineItems) == 1
	})).Return(resp, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/invoices", body, true)

	suite.Equal(http.StatusCreated, w.Code)
	var got dto.IssueInvoiceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(int64(10), got.InvoiceID)
	suite.Equal("primljen", got.Status)
	suite.mockInvoiceSvc.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestIssueInvoice_MissingFields() {
	body := gin.H{"currency": "RSD"}

	w := suite.doJSON(http.MethodPost, "/api/v1/invoices", body, true)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Contains(w.Body.String(), "errors")
	suite.mockInvoiceSvc.AssertNotCalled(suite.T(), "Issue", mock.Anything, mock.Anything)
}

func (suite *InvoiceHandlerTestSuite) TestIssueInvoice_UnknownVATObligation() {
	body := gin.H{
		"currency":        "RSD",
		"documentType":    "faktura",
		"documentNumber":  2025001,
		"sellerTaxID":     "101234567",
		"buyerNationalID": "0101990710018",
		"transactionDate": "2025-06-01",
		"vatObligation":   "mozda",
		"lineItems": []gin.H{
			{"lineNumber": 1, "name": "Roba", "quantity": "1", "unitPrice": "10"},
		},
	}

	w := suite.doJSON(http.MethodPost, "/api/v1/invoices", body, true)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *InvoiceHandlerTestSuite) TestIssueInvoice_SellerNotFound() {
	body := gin.H{
		"currency":        "RSD",
		"documentType":    "faktura",
		"documentNumber":  2025001,
		"sellerTaxID":     "999999999",
		"buyerNationalID": "0101990710018",
		"transactionDate": "2025-06-01",
		"vatObligation":   "obracunava",
		"lineItems": []gin.H{
			{"lineNumber": 1, "name": "Roba", "quantity": "1", "unitPrice": "10"},
		},
	}
	suite.mockInvoiceSvc.On("Issue", mock.Anything, mock.AnythingOfType("dto.IssueInvoiceRequest")).
		Return(nil, fmt.Errorf("%w: seller not found", apperrors.ErrNotFound)).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/invoices", body, true)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *InvoiceHandlerTestSuite) TestGetInvoice_NotFound() {
	suite.mockInvoiceSvc.On("GetDetail", mock.Anything, int64(99)).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/invoices/99", nil, true)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), "Invoice not found")
}

func (suite *InvoiceHandlerTestSuite) TestGetInvoice_BadID() {
	w := suite.doJSON(http.MethodGet, "/api/v1/invoices/abc", nil, true)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *InvoiceHandlerTestSuite) TestListOutgoing_RequiresTaxID() {
	w := suite.doJSON(http.MethodGet, "/api/v1/invoices/outgoing", nil, true)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "taxID is required")
}

func (suite *InvoiceHandlerTestSuite) TestListOutgoing_Success() {
	resp := &dto.ListInvoicesResponse{
		Items: []dto.InvoiceSummaryResponse{{ID: 30, CounterpartyName: "Beta d.o.o."}},
		Pagination: dto.PaginationResponse{
			Page: 1, PageSize: 15, Total: 1, LastPage: 1,
		},
	}
	suite.mockInvoiceSvc.On("ListOutgoing", mock.Anything, mock.MatchedBy(func(p dto.ListInvoicesParams) bool {
		return p.TaxID == "101234567" && p.Page == 1 && p.PageSize == 15
	})).Return(resp, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/invoices/outgoing?taxID=101234567", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Beta d.o.o.")
	suite.mockInvoiceSvc.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestListIncoming_RequiresNationalID() {
	w := suite.doJSON(http.MethodGet, "/api/v1/invoices/incoming", nil, true)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "nationalID is required")
}

func (suite *InvoiceHandlerTestSuite) TestDeleteInvoice_NoContent() {
	suite.mockInvoiceSvc.On("Delete", mock.Anything, int64(10)).Return(nil).Once()

	w := suite.doJSON(http.MethodDelete, "/api/v1/invoices/10", nil, true)

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *InvoiceHandlerTestSuite) TestGetStatus_DistinguishesMissingInvoiceFromMissingStatus() {
	suite.mockStatusSvc.On("Get", mock.Anything, int64(99)).Return(nil, apperrors.ErrNotFound).Once()
	w := suite.doJSON(http.MethodGet, "/api/v1/invoices/99/status", nil, true)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), "Invoice not found")

	suite.mockStatusSvc.On("Get", mock.Anything, int64(10)).Return(nil, nil).Once()
	w = suite.doJSON(http.MethodGet, "/api/v1/invoices/10/status", nil, true)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), "Invoice has no status yet")
}

func (suite *InvoiceHandlerTestSuite) TestSetStatus_CreatedVsUpdated() {
	created := &domain.Status{ID: 1, InvoiceID: 10, Status: domain.StatusPending}
	suite.mockStatusSvc.On("Set", mock.Anything, int64(10), "na čekanju").Return(created, true, nil).Once()

	w := suite.doJSON(http.MethodPut, "/api/v1/invoices/10/status", gin.H{"status": "na čekanju"}, true)
	suite.Equal(http.StatusCreated, w.Code)

	updated := &domain.Status{ID: 1, InvoiceID: 10, Status: domain.StatusPaid}
	suite.mockStatusSvc.On("Set", mock.Anything, int64(10), "plaćeno").Return(updated, false, nil).Once()

	w = suite.doJSON(http.MethodPut, "/api/v1/invoices/10/status", gin.H{"status": "plaćeno"}, true)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *InvoiceHandlerTestSuite) TestSetStatus_TerminalConflict() {
	suite.mockStatusSvc.On("Set", mock.Anything, int64(10), "na čekanju").
		Return(nil, false, fmt.Errorf("%w: cannot change status", apperrors.ErrConflict)).Once()

	w := suite.doJSON(http.MethodPut, "/api/v1/invoices/10/status", gin.H{"status": "na čekanju"}, true)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *InvoiceHandlerTestSuite) TestReopenStatus() {
	reopened := &domain.Status{ID: 1, InvoiceID: 10, Status: domain.StatusReceived}
	suite.mockStatusSvc.On("Reopen", mock.Anything, int64(10)).Return(reopened, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/invoices/10/status/reopen", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "primljen")
}

func (suite *InvoiceHandlerTestSuite) TestSellerStatistics() {
	stats := &dto.SellerStatusStatisticsResponse{
		Total:         7,
		ByStatus:      map[string]int64{"plaćeno": 3},
		WithoutStatus: 2,
	}
	suite.mockStatusSvc.On("SellerStatistics", mock.Anything, "101234567").Return(stats, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/invoices/statistics/outgoing?taxID=101234567", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "withoutStatus")
}

func (suite *InvoiceHandlerTestSuite) TestRegister_Duplicate() {
	body := gin.H{
		"username":   "alfa",
		"password":   "lozinka123",
		"firstName":  "Marko",
		"lastName":   "Petrović",
		"nationalID": "0101990710018",
		"birthDate":  "1990-01-01",
		"email":      "marko@alfa.rs",
		"phone":      "+381641234567",
		"postalCode": "11000",
		"city":       "Beograd",
		"address":    "Kneza Miloša 1",
	}
	suite.mockEntityService.On("Register", mock.Anything, mock.AnythingOfType("dto.RegisterLegalEntityRequest")).
		Return(nil, fmt.Errorf("%w: username already taken", apperrors.ErrDuplicate)).Once()

	w := suite.doJSON(http.MethodPost, "/auth/register", body, false)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *InvoiceHandlerTestSuite) TestLogin_UnverifiedIsForbidden() {
	suite.mockEntityService.On("Authenticate", mock.Anything, "alfa", "lozinka123").
		Return(nil, apperrors.ErrForbidden).Once()

	w := suite.doJSON(http.MethodPost, "/auth/login", gin.H{"username": "alfa", "password": "lozinka123"}, false)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.Contains(w.Body.String(), "not verified")
}

func (suite *InvoiceHandlerTestSuite) TestLogin_Success() {
	entity := &domain.LegalEntity{ID: 1, Username: "alfa", IsVerified: true}
	suite.mockEntityService.On("Authenticate", mock.Anything, "alfa", "lozinka123").
		Return(entity, nil).Once()

	w := suite.doJSON(http.MethodPost, "/auth/login", gin.H{"username": "alfa", "password": "lozinka123"}, false)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.NotEmpty(resp.Token)
	suite.Equal("alfa", resp.User.Username)

	// The issued token carries the entity id as subject.
	claims, err := utils.ParseAndValidateJWT(resp.Token, suite.cfg.JWTSecret)
	suite.Require().NoError(err)
	suite.Equal("1", claims.Subject)
}

func (suite *InvoiceHandlerTestSuite) TestAdminRoutes_RequireBasicAuth() {
	w := suite.doJSON(http.MethodGet, "/admin/entities", nil, false)
	suite.Equal(http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/admin/entities/5/verify", strings.NewReader(""))
	req.SetBasicAuth("admin", "admin-secret")
	suite.mockEntityService.On("Verify", mock.Anything, int64(5)).Return(nil).Once()

	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
	suite.mockEntityService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestHealth() {
	w := suite.doJSON(http.MethodGet, "/health", nil, false)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func TestInvoiceHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceHandlerTestSuite))
}
