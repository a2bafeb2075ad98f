package services_test

import (
	"context"
	"testing"

	"github.com/efakturaplus/efaktura_backend/internal/apperrors"
	"github.com/efakturaplus/efaktura_backend/internal/core/domain"
	"github.com/efakturaplus/efaktura_backend/internal/core/ports"
	"github.com/efakturaplus/efaktura_backend/internal/core/services"
	"github.com/efakturaplus/efaktura_backend/internal/dto"
	"github.com/efakturaplus/efaktura_backend/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LegalEntityServiceTestSuite struct {
	suite.Suite
	mockEntityRepo *MockLegalEntityRepository
	service        ports.LegalEntitySvc
}

func (suite *LegalEntityServiceTestSuite) SetupTest() {
	suite.mockEntityRepo = new(MockLegalEntityRepository)
	suite.service = services.NewLegalEntityService(suite.mockEntityRepo)
}

func registerRequest() dto.RegisterLegalEntityRequest {
	return dto.RegisterLegalEntityRequest{
		Username:    "alfa",
		Password:    "lozinka123",
		FirstName:   "Marko",
		LastName:    "Petrović",
		NationalID:  "0101990710018",
		BirthDate:   "1990-01-01",
		Email:       "marko@alfa.rs",
		Phone:       "+381641234567",
		CompanyName: "Alfa d.o.o.",
		TaxID:       "101234567",
		PostalCode:  "11000",
		City:        "Beograd",
		Address:     "Kneza Miloša 1",
	}
}

func (suite *LegalEntityServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()
	req := registerRequest()

	suite.mockEntityRepo.On("FindLegalEntityByUsername", ctx, req.Username).Return(nil, nil).Once()
	suite.mockEntityRepo.On("FindLegalEntityByNationalID", ctx, req.NationalID).Return(nil, nil).Once()
	suite.mockEntityRepo.On("FindLegalEntityByTaxID", ctx, req.TaxID).Return(nil, nil).Once()
	suite.mockEntityRepo.On("SaveLegalEntity", ctx, mock.MatchedBy(func(e domain.LegalEntity) bool {
		return e.Username == req.Username &&
			e.PasswordHash != req.Password &&
			e.TaxID != nil && *e.TaxID == req.TaxID &&
			!e.IsVerified
	})).Return(&domain.LegalEntity{ID: 1, Username: req.Username}, nil).Once()

	saved, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(saved)
	suite.Equal(int64(1), saved.ID)
	suite.mockEntityRepo.AssertExpectations(suite.T())
}

func (suite *LegalEntityServiceTestSuite) TestRegister_NoTaxIDSkipsProbe() {
	ctx := context.Background()
	req := registerRequest()
	req.TaxID = ""

	suite.mockEntityRepo.On("FindLegalEntityByUsername", ctx, req.Username).Return(nil, nil).Once()
	suite.mockEntityRepo.On("FindLegalEntityByNationalID", ctx, req.NationalID).Return(nil, nil).Once()
	suite.mockEntityRepo.On("SaveLegalEntity", ctx, mock.MatchedBy(func(e domain.LegalEntity) bool {
		return e.TaxID == nil
	})).Return(&domain.LegalEntity{ID: 2}, nil).Once()

	_, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.mockEntityRepo.AssertNotCalled(suite.T(), "FindLegalEntityByTaxID", mock.Anything, mock.Anything)
	suite.mockEntityRepo.AssertExpectations(suite.T())
}

func (suite *LegalEntityServiceTestSuite) TestRegister_DuplicateUsername() {
	ctx := context.Background()
	req := registerRequest()

	suite.mockEntityRepo.On("FindLegalEntityByUsername", ctx, req.Username).
		Return(&domain.LegalEntity{ID: 7, Username: req.Username}, nil).Once()

	saved, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(saved)
	suite.mockEntityRepo.AssertNotCalled(suite.T(), "SaveLegalEntity", mock.Anything, mock.Anything)
}

func (suite *LegalEntityServiceTestSuite) TestRegister_DuplicateNationalID() {
	ctx := context.Background()
	req := registerRequest()

	suite.mockEntityRepo.On("FindLegalEntityByUsername", ctx, req.Username).Return(nil, nil).Once()
	suite.mockEntityRepo.On("FindLegalEntityByNationalID", ctx, req.NationalID).
		Return(&domain.LegalEntity{ID: 8}, nil).Once()

	_, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *LegalEntityServiceTestSuite) TestRegister_DuplicateTaxID() {
	ctx := context.Background()
	req := registerRequest()

	suite.mockEntityRepo.On("FindLegalEntityByUsername", ctx, req.Username).Return(nil, nil).Once()
	suite.mockEntityRepo.On("FindLegalEntityByNationalID", ctx, req.NationalID).Return(nil, nil).Once()
	suite.mockEntityRepo.On("FindLegalEntityByTaxID", ctx, req.TaxID).
		Return(&domain.LegalEntity{ID: 9}, nil).Once()

	_, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *LegalEntityServiceTestSuite) TestRegister_InvalidBirthDate() {
	ctx := context.Background()
	req := registerRequest()
	req.BirthDate = "01.01.1990"

	suite.mockEntityRepo.On("FindLegalEntityByUsername", ctx, req.Username).Return(nil, nil).Once()
	suite.mockEntityRepo.On("FindLegalEntityByNationalID", ctx, req.NationalID).Return(nil, nil).Once()
	suite.mockEntityRepo.On("FindLegalEntityByTaxID", ctx, req.TaxID).Return(nil, nil).Once()

	_, err := suite.service.Register(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockEntityRepo.AssertNotCalled(suite.T(), "SaveLegalEntity", mock.Anything, mock.Anything)
}

func (suite *LegalEntityServiceTestSuite) TestAuthenticate_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("lozinka123")
	suite.Require().NoError(err)

	entity := &domain.LegalEntity{ID: 1, Username: "alfa", PasswordHash: hash, IsVerified: true}
	suite.mockEntityRepo.On("FindLegalEntityByUsername", ctx, "alfa").Return(entity, nil).Once()

	got, err := suite.service.Authenticate(ctx, "alfa", "lozinka123")

	suite.Require().NoError(err)
	suite.Equal(entity, got)
}

func (suite *LegalEntityServiceTestSuite) TestAuthenticate_UnknownUsername() {
	ctx := context.Background()
	suite.mockEntityRepo.On("FindLegalEntityByUsername", ctx, "nepoznat").Return(nil, nil).Once()

	got, err := suite.service.Authenticate(ctx, "nepoznat", "lozinka123")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Nil(got)
}

func (suite *LegalEntityServiceTestSuite) TestAuthenticate_UnverifiedBeforePasswordCheck() {
	ctx := context.Background()
	hash, err := utils.HashPassword("lozinka123")
	suite.Require().NoError(err)

	entity := &domain.LegalEntity{ID: 1, Username: "alfa", PasswordHash: hash, IsVerified: false}
	suite.mockEntityRepo.On("FindLegalEntityByUsername", ctx, "alfa").Return(entity, nil).Twice()

	// Unverified accounts are rejected with Forbidden regardless of whether
	// the submitted password is correct.
	_, err = suite.service.Authenticate(ctx, "alfa", "lozinka123")
	suite.ErrorIs(err, apperrors.ErrForbidden)

	_, err = suite.service.Authenticate(ctx, "alfa", "pogresna")
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *LegalEntityServiceTestSuite) TestAuthenticate_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("lozinka123")
	suite.Require().NoError(err)

	entity := &domain.LegalEntity{ID: 1, Username: "alfa", PasswordHash: hash, IsVerified: true}
	suite.mockEntityRepo.On("FindLegalEntityByUsername", ctx, "alfa").Return(entity, nil).Once()

	_, err = suite.service.Authenticate(ctx, "alfa", "pogresna")
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *LegalEntityServiceTestSuite) TestVerifyAndUnverify() {
	ctx := context.Background()
	suite.mockEntityRepo.On("SetVerified", ctx, int64(5), true).Return(nil).Once()
	suite.mockEntityRepo.On("SetVerified", ctx, int64(5), false).Return(nil).Once()

	suite.NoError(suite.service.Verify(ctx, 5))
	suite.NoError(suite.service.Unverify(ctx, 5))
	suite.mockEntityRepo.AssertExpectations(suite.T())
}

func (suite *LegalEntityServiceTestSuite) TestGetByID_NotFound() {
	ctx := context.Background()
	suite.mockEntityRepo.On("FindLegalEntityByID", ctx, int64(42)).Return(nil, nil).Once()

	got, err := suite.service.GetByID(ctx, 42)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(got)
}

func TestLegalEntityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LegalEntityServiceTestSuite))
}
