package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/karacadev/backoffice/internal/apperrors"
	"github.com/karacadev/backoffice/internal/core/domain"
	portssvc "github.com/karacadev/backoffice/internal/core/ports/services"
	"github.com/karacadev/backoffice/internal/core/services"
	"github.com/karacadev/backoffice/internal/dto"
)

// --- Mock InstallmentRepository ---
type MockInstallmentRepository struct {
	mock.Mock
}

func (m *MockInstallmentRepository) FindInstallmentByID(ctx context.Context, installmentID int64) (*domain.Installment, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) ListInstallmentsByProject(ctx context.Context, projectID int64) ([]domain.Installment, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) FindDueInstallments(ctx context.Context, asOf time.Time) ([]domain.Installment, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) ListRemindersByInstallment(ctx context.Context, installmentID int64) ([]domain.InstallmentReminder, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InstallmentReminder), args.Error(1)
}

func (m *MockInstallmentRepository) SavePayment(ctx context.Context, installmentID int64, paidAt time.Time, txn domain.Transaction) (*domain.PaymentResult, error) {
	args := m.Called(ctx, installmentID, paidAt, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentResult), args.Error(1)
}

func (m *MockInstallmentRepository) CreateReminder(ctx context.Context, reminder domain.InstallmentReminder) (int64, error) {
	args := m.Called(ctx, reminder)
	return args.Get(0).(int64), args.Error(1)
}

// --- Test Suite ---
type InstallmentServiceTestSuite struct {
	suite.Suite
	mockRepo *MockInstallmentRepository
	service  portssvc.InstallmentSvcFacade
}

func (suite *InstallmentServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockInstallmentRepository)
	suite.service = services.NewInstallmentService(suite.mockRepo)
}

func unpaidInstallment() *domain.Installment {
	return &domain.Installment{
		ID:        5,
		ProjectID: 1,
		SaleID:    2,
		UnitNo:    "A-102",
		Buyer:     "Sara",
		Amount:    decimal.NewFromInt(10000),
		DueDate:   time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

// --- Test Cases ---

func (suite *InstallmentServiceTestSuite) TestPayInstallment_Success() {
	ctx := context.Background()
	payDate := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)
	req := dto.PayInstallmentRequest{Date: payDate}
	result := &domain.PaymentResult{
		Installment: domain.Installment{ID: 5, Paid: true, PaidAt: &payDate},
		Transaction: domain.Transaction{ID: 30, Type: domain.Income},
	}

	suite.mockRepo.On("FindInstallmentByID", ctx, int64(5)).Return(unpaidInstallment(), nil).Once()
	suite.mockRepo.On("SavePayment", ctx, int64(5), payDate, mock.MatchedBy(func(txn domain.Transaction) bool {
		// The ledger amount comes from the installment row, not the request.
		return txn.Type == domain.Income &&
			txn.Amount.Equal(decimal.NewFromInt(10000)) &&
			txn.Approved &&
			txn.Date.Equal(payDate) &&
			txn.Description == "Installment payment of 10000.00 for unit A-102 from Sara"
	})).Return(result, nil).Once()

	got, err := suite.service.PayInstallment(ctx, 5, req, "admin")

	suite.Require().NoError(err)
	suite.Require().NotNil(got)
	suite.True(got.Installment.Paid)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestPayInstallment_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("FindInstallmentByID", ctx, int64(99)).Return(nil, apperrors.ErrNotFound).Once()

	got, err := suite.service.PayInstallment(ctx, 99, dto.PayInstallmentRequest{Date: time.Now().UTC()}, "admin")

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "SavePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InstallmentServiceTestSuite) TestCreateReminder_DefaultNote() {
	ctx := context.Background()

	suite.mockRepo.On("FindInstallmentByID", ctx, int64(5)).Return(unpaidInstallment(), nil).Once()
	suite.mockRepo.On("CreateReminder", ctx, mock.MatchedBy(func(r domain.InstallmentReminder) bool {
		return r.InstallmentID == int64(5) &&
			r.Note == "Installment of 10000.00 for unit A-102 due 2025-05-01"
	})).Return(int64(8), nil).Once()

	reminder, err := suite.service.CreateReminder(ctx, 5, "")

	suite.Require().NoError(err)
	suite.Require().NotNil(reminder)
	suite.Equal(int64(8), reminder.ID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestCreateReminder_CustomNote() {
	ctx := context.Background()

	suite.mockRepo.On("FindInstallmentByID", ctx, int64(5)).Return(unpaidInstallment(), nil).Once()
	suite.mockRepo.On("CreateReminder", ctx, mock.MatchedBy(func(r domain.InstallmentReminder) bool {
		return r.Note == "Called the buyer, promised payment Friday"
	})).Return(int64(9), nil).Once()

	reminder, err := suite.service.CreateReminder(ctx, 5, "Called the buyer, promised payment Friday")

	suite.Require().NoError(err)
	suite.Require().NotNil(reminder)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestGetDueInstallments_Success() {
	ctx := context.Background()
	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	due := []domain.Installment{*unpaidInstallment()}

	suite.mockRepo.On("FindDueInstallments", ctx, asOf).Return(due, nil).Once()

	got, err := suite.service.GetDueInstallments(ctx, asOf)

	suite.Require().NoError(err)
	suite.Len(got, 1)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestInstallmentService(t *testing.T) {
	suite.Run(t, new(InstallmentServiceTestSuite))
}
