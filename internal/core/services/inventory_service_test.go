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

// --- Mock InventoryRepository ---
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) CreateItem(ctx context.Context, item domain.InventoryItem) (int64, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryRepository) FindItemByID(ctx context.Context, itemID int64) (*domain.InventoryItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) ListMovementsByItem(ctx context.Context, itemID int64) ([]domain.Movement, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}

func (m *MockInventoryRepository) DeleteItem(ctx context.Context, itemID int64) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockInventoryRepository) SaveMovement(ctx context.Context, movement domain.Movement, txn domain.Transaction) (*domain.StockChange, error) {
	args := m.Called(ctx, movement, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockChange), args.Error(1)
}

// --- Test Suite ---
type InventoryServiceTestSuite struct {
	suite.Suite
	mockRepo *MockInventoryRepository
	service  portssvc.InventorySvcFacade
}

func (suite *InventoryServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockInventoryRepository)
	suite.service = services.NewInventoryService(suite.mockRepo)
}

func cementItem() *domain.InventoryItem {
	return &domain.InventoryItem{
		ID:           1,
		Name:         "Cement",
		Unit:         "bag",
		Quantity:     decimal.NewFromInt(10),
		MinThreshold: decimal.NewFromInt(5),
	}
}

// --- Test Cases ---

func (suite *InventoryServiceTestSuite) TestCreateItem_Success() {
	ctx := context.Background()
	req := dto.CreateInventoryItemRequest{
		Name:         "Rebar",
		Unit:         "ton",
		MinThreshold: decimal.NewFromInt(2),
	}
	stored := &domain.InventoryItem{ID: 3, Name: "Rebar", Unit: "ton", Quantity: decimal.Zero}

	suite.mockRepo.On("CreateItem", ctx, mock.MatchedBy(func(item domain.InventoryItem) bool {
		return item.Name == req.Name && item.Unit == req.Unit && item.Quantity.IsZero()
	})).Return(int64(3), nil).Once()
	suite.mockRepo.On("FindItemByID", ctx, int64(3)).Return(stored, nil).Once()

	item, err := suite.service.CreateItem(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(item)
	suite.Equal("Rebar", item.Name)
	suite.True(item.Quantity.IsZero(), "stock opens at zero")
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestCreateItem_NegativeThreshold() {
	ctx := context.Background()
	req := dto.CreateInventoryItemRequest{
		Name:         "Sand",
		Unit:         "m3",
		MinThreshold: decimal.NewFromInt(-1),
	}

	item, err := suite.service.CreateItem(ctx, req)

	suite.Require().Error(err)
	suite.Nil(item)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateItem", mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestRecordReceipt_Success() {
	ctx := context.Background()
	req := dto.RecordReceiptRequest{
		ItemID:    1,
		Quantity:  decimal.NewFromInt(20),
		UnitPrice: decimal.RequireFromString("12.50"),
		Supplier:  "BuildCo",
		Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	change := &domain.StockChange{Item: *cementItem()}

	suite.mockRepo.On("FindItemByID", ctx, int64(1)).Return(cementItem(), nil).Once()
	suite.mockRepo.On("SaveMovement", ctx,
		mock.MatchedBy(func(mv domain.Movement) bool {
			return mv.ItemID == int64(1) &&
				mv.Direction == domain.MovementIn &&
				mv.Total.Equal(decimal.RequireFromString("250")) &&
				mv.Counterparty == "BuildCo"
		}),
		mock.MatchedBy(func(txn domain.Transaction) bool {
			return txn.Type == domain.Expense &&
				txn.Amount.Equal(decimal.RequireFromString("250")) &&
				txn.Approved &&
				txn.CreatedBy == "admin" &&
				txn.Description == "Stock receipt: 20 bag Cement @ 12.50 from BuildCo"
		}),
	).Return(change, nil).Once()

	result, err := suite.service.RecordReceipt(ctx, req, "admin")

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal("Cement", result.Item.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestRecordReceipt_UnknownItem() {
	ctx := context.Background()
	req := dto.RecordReceiptRequest{
		ItemID:    99,
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: decimal.NewFromInt(1),
		Date:      time.Now().UTC(),
	}

	suite.mockRepo.On("FindItemByID", ctx, int64(99)).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.RecordReceipt(ctx, req, "admin")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveMovement", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestRecordReceipt_NonPositiveQuantity() {
	ctx := context.Background()
	req := dto.RecordReceiptRequest{
		ItemID:    1,
		Quantity:  decimal.Zero,
		UnitPrice: decimal.NewFromInt(10),
		Date:      time.Now().UTC(),
	}

	result, err := suite.service.RecordReceipt(ctx, req, "admin")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindItemByID", mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestRecordIssue_Success() {
	ctx := context.Background()
	req := dto.RecordIssueRequest{
		ItemID:    1,
		Quantity:  decimal.NewFromInt(4),
		UnitPrice: decimal.NewFromInt(15),
		Project:   "Tower A",
		Date:      time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
	}
	change := &domain.StockChange{Item: *cementItem()}

	suite.mockRepo.On("FindItemByID", ctx, int64(1)).Return(cementItem(), nil).Once()
	suite.mockRepo.On("SaveMovement", ctx,
		mock.MatchedBy(func(mv domain.Movement) bool {
			return mv.Direction == domain.MovementOut && mv.Counterparty == "Tower A"
		}),
		mock.MatchedBy(func(txn domain.Transaction) bool {
			return txn.Type == domain.Expense &&
				txn.Amount.Equal(decimal.NewFromInt(60)) &&
				txn.Description == "Stock issue: 4 bag Cement to Tower A"
		}),
	).Return(change, nil).Once()

	result, err := suite.service.RecordIssue(ctx, req, "admin")

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestListItems_Success() {
	ctx := context.Background()
	expected := []domain.InventoryItem{*cementItem()}

	suite.mockRepo.On("ListItems", ctx).Return(expected, nil).Once()

	items, err := suite.service.ListItems(ctx)

	suite.Require().NoError(err)
	suite.Equal(expected, items)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestInventoryService(t *testing.T) {
	suite.Run(t, new(InventoryServiceTestSuite))
}
