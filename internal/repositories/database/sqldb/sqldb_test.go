package sqldb_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karacadev/backoffice/internal/apperrors"
	"github.com/karacadev/backoffice/internal/core/domain"
	portsrepo "github.com/karacadev/backoffice/internal/core/ports/repositories"
	"github.com/karacadev/backoffice/internal/platform/storage"
	"github.com/karacadev/backoffice/internal/repositories/database/sqldb"
)

func newTestProvider(t *testing.T) portsrepo.RepositoryProvider {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := storage.Open(context.Background(), storage.Config{
		SQLitePath:        filepath.Join(t.TempDir(), "backoffice.db"),
		BootstrapUsername: "admin",
		BootstrapPassword: "secret",
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return sqldb.NewRepositoryProvider(store)
}

func testTxn(txnType domain.TransactionType, amount int64, date time.Time) domain.Transaction {
	return domain.Transaction{
		Type:        txnType,
		Amount:      decimal.NewFromInt(amount),
		Description: "test entry",
		Date:        date,
		Approved:    true,
		CreatedBy:   "admin",
		CreatedAt:   date,
		UpdatedAt:   date,
	}
}

func TestTransactionPagination(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 5; i++ {
		txn := testTxn(domain.Income, int64(i*100), base.Add(time.Duration(i)*time.Hour))
		_, err := provider.TransactionRepo.CreateTransaction(ctx, txn)
		require.NoError(t, err)
	}

	page1, token1, err := provider.TransactionRepo.ListTransactions(ctx, 2, nil)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotNil(t, token1)
	assert.True(t, page1[0].Amount.Equal(decimal.NewFromInt(500)), "newest entry first")
	assert.True(t, page1[1].Amount.Equal(decimal.NewFromInt(400)))

	page2, token2, err := provider.TransactionRepo.ListTransactions(ctx, 2, token1)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	require.NotNil(t, token2)
	assert.True(t, page2[0].Amount.Equal(decimal.NewFromInt(300)))
	assert.True(t, page2[1].Amount.Equal(decimal.NewFromInt(200)))

	page3, token3, err := provider.TransactionRepo.ListTransactions(ctx, 2, token2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Nil(t, token3, "no further pages")
	assert.True(t, page3[0].Amount.Equal(decimal.NewFromInt(100)))

	bad := "not-a-token"
	_, _, err = provider.TransactionRepo.ListTransactions(ctx, 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestApproveAndDeleteTransaction(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	txn := testTxn(domain.Expense, 250, base)
	txn.Approved = false
	id, err := provider.TransactionRepo.CreateTransaction(ctx, txn)
	require.NoError(t, err)

	require.NoError(t, provider.TransactionRepo.ApproveTransaction(ctx, id, base.Add(time.Minute)))

	stored, err := provider.TransactionRepo.FindTransactionByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, stored.Approved)

	err = provider.TransactionRepo.ApproveTransaction(ctx, 99999, base)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, provider.TransactionRepo.DeleteTransaction(ctx, id))
	_, err = provider.TransactionRepo.FindTransactionByID(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSaveMovementAdjustsQuantity(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	itemID, err := provider.InventoryRepo.CreateItem(ctx, domain.InventoryItem{
		Name:         "Cement",
		Unit:         "bag",
		Quantity:     decimal.Zero,
		MinThreshold: decimal.NewFromInt(5),
		CreatedAt:    base,
		UpdatedAt:    base,
	})
	require.NoError(t, err)

	receipt := domain.Movement{
		ItemID:       itemID,
		Direction:    domain.MovementIn,
		Quantity:     decimal.NewFromInt(10),
		UnitPrice:    decimal.NewFromFloat(12.5),
		Total:        decimal.NewFromInt(125),
		Counterparty: "ACME Supplies",
		Date:         base,
		CreatedAt:    base,
	}
	change, err := provider.InventoryRepo.SaveMovement(ctx, receipt, testTxn(domain.Expense, 125, base))
	require.NoError(t, err)
	assert.True(t, change.Item.Quantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, domain.MovementIn, change.Movement.Direction)
	assert.NotZero(t, change.Transaction.ID)

	issue := domain.Movement{
		ItemID:    itemID,
		Direction: domain.MovementOut,
		Quantity:  decimal.NewFromInt(4),
		UnitPrice: decimal.NewFromFloat(12.5),
		Total:     decimal.NewFromInt(50),
		Date:      base.Add(time.Hour),
		CreatedAt: base.Add(time.Hour),
	}
	change, err = provider.InventoryRepo.SaveMovement(ctx, issue, testTxn(domain.Expense, 50, base.Add(time.Hour)))
	require.NoError(t, err)
	assert.True(t, change.Item.Quantity.Equal(decimal.NewFromInt(6)))

	oversized := domain.Movement{
		ItemID:    itemID,
		Direction: domain.MovementOut,
		Quantity:  decimal.NewFromInt(100),
		UnitPrice: decimal.NewFromFloat(12.5),
		Total:     decimal.NewFromInt(1250),
		Date:      base.Add(2 * time.Hour),
		CreatedAt: base.Add(2 * time.Hour),
	}
	change, err = provider.InventoryRepo.SaveMovement(ctx, oversized, testTxn(domain.Expense, 1250, base.Add(2*time.Hour)))
	require.NoError(t, err)
	assert.True(t, change.Item.Quantity.IsZero(), "issue clamps at zero instead of going negative")

	movements, err := provider.InventoryRepo.ListMovementsByItem(ctx, itemID)
	require.NoError(t, err)
	require.Len(t, movements, 3)
	assert.True(t, movements[0].Quantity.Equal(decimal.NewFromInt(100)), "newest movement first")

	_, err = provider.InventoryRepo.SaveMovement(ctx, domain.Movement{ItemID: 99999, Direction: domain.MovementIn, Quantity: decimal.NewFromInt(1), Date: base, CreatedAt: base}, testTxn(domain.Expense, 1, base))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateItemDuplicateName(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	item := domain.InventoryItem{Name: "Rebar", Unit: "ton", Quantity: decimal.Zero, MinThreshold: decimal.Zero, CreatedAt: base, UpdatedAt: base}
	_, err := provider.InventoryRepo.CreateItem(ctx, item)
	require.NoError(t, err)

	_, err = provider.InventoryRepo.CreateItem(ctx, item)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestSaveSaleStampsInstallments(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	projectID, err := provider.ProjectRepo.CreateProject(ctx, domain.Project{Name: "Tower A", Location: "Downtown", Floors: 12, Units: 48, CreatedAt: base})
	require.NoError(t, err)

	sale := domain.ProjectSale{
		ProjectID: projectID,
		UnitNo:    "A-101",
		Buyer:     "J. Doe",
		Price:     decimal.NewFromInt(120000),
		Date:      base,
		CreatedAt: base,
	}
	installments := []domain.Installment{
		{ProjectID: projectID, UnitNo: "A-101", Buyer: "J. Doe", Amount: decimal.NewFromInt(50000), DueDate: base.AddDate(0, 1, 0), CreatedAt: base},
		{ProjectID: projectID, UnitNo: "A-101", Buyer: "J. Doe", Amount: decimal.NewFromInt(50000), DueDate: base.AddDate(0, 2, 0), CreatedAt: base},
	}

	result, err := provider.ProjectRepo.SaveSale(ctx, sale, testTxn(domain.Income, 20000, base), installments)
	require.NoError(t, err)
	require.Len(t, result.Installments, 2)
	assert.NotZero(t, result.Sale.ID)
	for _, inst := range result.Installments {
		assert.Equal(t, result.Sale.ID, inst.SaleID)
		assert.Equal(t, projectID, inst.ProjectID)
		assert.False(t, inst.Paid)
		assert.Nil(t, inst.PaidAt)
	}
	assert.True(t, result.Installments[0].DueDate.Before(result.Installments[1].DueDate), "schedule ordered by due date")

	cashSale := sale
	cashSale.UnitNo = "A-102"
	cashResult, err := provider.ProjectRepo.SaveSale(ctx, cashSale, testTxn(domain.Income, 120000, base), nil)
	require.NoError(t, err)
	assert.Nil(t, cashResult.Installments)
}

func TestDeleteProjectCascades(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	projectID, err := provider.ProjectRepo.CreateProject(ctx, domain.Project{Name: "Tower B", CreatedAt: base})
	require.NoError(t, err)

	costResult, err := provider.ProjectRepo.SaveCost(ctx, domain.ProjectCost{
		ProjectID: projectID,
		Category:  domain.CategoryConstruction,
		Amount:    decimal.NewFromInt(5000),
		Date:      base,
		CreatedAt: base,
	}, testTxn(domain.Expense, 5000, base))
	require.NoError(t, err)

	saleResult, err := provider.ProjectRepo.SaveSale(ctx, domain.ProjectSale{
		ProjectID: projectID,
		UnitNo:    "B-201",
		Buyer:     "K. Lee",
		Price:     decimal.NewFromInt(80000),
		Date:      base,
		CreatedAt: base,
	}, testTxn(domain.Income, 30000, base), []domain.Installment{
		{ProjectID: projectID, UnitNo: "B-201", Buyer: "K. Lee", Amount: decimal.NewFromInt(25000), DueDate: base.AddDate(0, 1, 0), CreatedAt: base},
		{ProjectID: projectID, UnitNo: "B-201", Buyer: "K. Lee", Amount: decimal.NewFromInt(25000), DueDate: base.AddDate(0, 2, 0), CreatedAt: base},
	})
	require.NoError(t, err)
	require.Len(t, saleResult.Installments, 2)

	firstInstallment := saleResult.Installments[0]
	_, err = provider.InstallmentRepo.CreateReminder(ctx, domain.InstallmentReminder{
		InstallmentID: firstInstallment.ID,
		SentAt:        base,
		Note:          "first notice",
	})
	require.NoError(t, err)

	require.NoError(t, provider.ProjectRepo.DeleteProject(ctx, projectID))
	assert.ErrorIs(t, provider.ProjectRepo.DeleteProject(ctx, projectID), apperrors.ErrNotFound)

	_, err = provider.ProjectRepo.FindProjectByID(ctx, projectID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	costs, err := provider.ProjectRepo.ListCostsByProject(ctx, projectID)
	require.NoError(t, err)
	assert.Empty(t, costs)

	sales, err := provider.ProjectRepo.ListSalesByProject(ctx, projectID)
	require.NoError(t, err)
	assert.Empty(t, sales)

	installments, err := provider.InstallmentRepo.ListInstallmentsByProject(ctx, projectID)
	require.NoError(t, err)
	assert.Empty(t, installments)

	reminders, err := provider.InstallmentRepo.ListRemindersByInstallment(ctx, firstInstallment.ID)
	require.NoError(t, err)
	assert.Empty(t, reminders)

	// The ledger keeps its rows: deleting a project never unwinds money.
	_, err = provider.TransactionRepo.FindTransactionByID(ctx, costResult.Transaction.ID)
	assert.NoError(t, err)
	_, err = provider.TransactionRepo.FindTransactionByID(ctx, saleResult.Transaction.ID)
	assert.NoError(t, err)
}

func TestSavePaymentKeepsFirstStamp(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	projectID, err := provider.ProjectRepo.CreateProject(ctx, domain.Project{Name: "Tower C", CreatedAt: base})
	require.NoError(t, err)

	saleResult, err := provider.ProjectRepo.SaveSale(ctx, domain.ProjectSale{
		ProjectID: projectID,
		UnitNo:    "C-301",
		Buyer:     "M. Ali",
		Price:     decimal.NewFromInt(60000),
		Date:      base,
		CreatedAt: base,
	}, testTxn(domain.Income, 0, base), []domain.Installment{
		{ProjectID: projectID, UnitNo: "C-301", Buyer: "M. Ali", Amount: decimal.NewFromInt(60000), DueDate: base.AddDate(0, 1, 0), CreatedAt: base},
	})
	require.NoError(t, err)
	instID := saleResult.Installments[0].ID

	firstPay := base.AddDate(0, 1, 2)
	first, err := provider.InstallmentRepo.SavePayment(ctx, instID, firstPay, testTxn(domain.Income, 60000, firstPay))
	require.NoError(t, err)
	assert.True(t, first.Installment.Paid)
	require.NotNil(t, first.Installment.PaidAt)
	assert.WithinDuration(t, firstPay, *first.Installment.PaidAt, time.Second)

	secondPay := base.AddDate(0, 2, 0)
	second, err := provider.InstallmentRepo.SavePayment(ctx, instID, secondPay, testTxn(domain.Income, 60000, secondPay))
	require.NoError(t, err)
	assert.True(t, second.Installment.Paid)
	require.NotNil(t, second.Installment.PaidAt)
	assert.WithinDuration(t, firstPay, *second.Installment.PaidAt, time.Second, "repeat settlement keeps the original stamp")
	assert.NotEqual(t, first.Transaction.ID, second.Transaction.ID, "each settlement records its own ledger entry")

	_, err = provider.InstallmentRepo.SavePayment(ctx, 99999, firstPay, testTxn(domain.Income, 1, firstPay))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFindDueInstallments(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	projectID, err := provider.ProjectRepo.CreateProject(ctx, domain.Project{Name: "Tower D", CreatedAt: base})
	require.NoError(t, err)

	saleResult, err := provider.ProjectRepo.SaveSale(ctx, domain.ProjectSale{
		ProjectID: projectID,
		UnitNo:    "D-401",
		Buyer:     "S. Chen",
		Price:     decimal.NewFromInt(90000),
		Date:      base,
		CreatedAt: base,
	}, testTxn(domain.Income, 0, base), []domain.Installment{
		{ProjectID: projectID, Amount: decimal.NewFromInt(30000), DueDate: base.AddDate(0, 0, -3), CreatedAt: base},
		{ProjectID: projectID, Amount: decimal.NewFromInt(30000), DueDate: base, CreatedAt: base},
		{ProjectID: projectID, Amount: decimal.NewFromInt(30000), DueDate: base.AddDate(0, 0, 5), CreatedAt: base},
	})
	require.NoError(t, err)

	due, err := provider.InstallmentRepo.FindDueInstallments(ctx, base)
	require.NoError(t, err)
	require.Len(t, due, 2, "only installments due on or before the cutoff")
	assert.True(t, due[0].DueDate.Before(due[1].DueDate))

	earliest := saleResult.Installments[0]
	_, err = provider.InstallmentRepo.SavePayment(ctx, earliest.ID, base, testTxn(domain.Income, 30000, base))
	require.NoError(t, err)

	due, err = provider.InstallmentRepo.FindDueInstallments(ctx, base)
	require.NoError(t, err)
	require.Len(t, due, 1, "paid installments drop out of the due list")
	assert.Equal(t, saleResult.Installments[1].ID, due[0].ID)
}

func TestAccountsAndSessions(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	account := domain.Account{
		Username:     "fatma",
		DisplayName:  "Fatma K.",
		PasswordHash: "x",
		Role:         domain.RoleStaff,
		CreatedAt:    base,
	}
	id, err := provider.AccountRepo.CreateAccount(ctx, account)
	require.NoError(t, err)

	_, err = provider.AccountRepo.CreateAccount(ctx, account)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	found, err := provider.AccountRepo.FindAccountByUsername(ctx, "fatma")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)
	assert.Equal(t, domain.RoleStaff, found.Role)

	_, err = provider.AccountRepo.FindAccountByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	live := domain.Session{Token: "tok-live", AccountID: id, ExpiresAt: base.Add(24 * time.Hour), CreatedAt: base}
	stale := domain.Session{Token: "tok-stale", AccountID: id, ExpiresAt: base.Add(-time.Hour), CreatedAt: base.Add(-25 * time.Hour)}
	require.NoError(t, provider.AccountRepo.SaveSession(ctx, live))
	require.NoError(t, provider.AccountRepo.SaveSession(ctx, stale))

	removed, err := provider.AccountRepo.DeleteExpiredSessions(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = provider.AccountRepo.FindSessionByToken(ctx, "tok-stale")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	session, err := provider.AccountRepo.FindSessionByToken(ctx, "tok-live")
	require.NoError(t, err)
	assert.Equal(t, id, session.AccountID)

	require.NoError(t, provider.AccountRepo.DeleteSession(ctx, "tok-live"))
	_, err = provider.AccountRepo.FindSessionByToken(ctx, "tok-live")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetSnapshot(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := provider.TransactionRepo.CreateTransaction(ctx, testTxn(domain.Income, 100, base))
	require.NoError(t, err)
	_, err = provider.TransactionRepo.CreateTransaction(ctx, testTxn(domain.Income, 50, base.Add(time.Hour)))
	require.NoError(t, err)

	pending := testTxn(domain.Expense, 30, base.Add(2*time.Hour))
	pending.Approved = false
	_, err = provider.TransactionRepo.CreateTransaction(ctx, pending)
	require.NoError(t, err)

	_, err = provider.InventoryRepo.CreateItem(ctx, domain.InventoryItem{
		Name: "Paint", Unit: "can", Quantity: decimal.NewFromInt(2), MinThreshold: decimal.NewFromInt(5), CreatedAt: base, UpdatedAt: base,
	})
	require.NoError(t, err)
	_, err = provider.InventoryRepo.CreateItem(ctx, domain.InventoryItem{
		Name: "Tiles", Unit: "box", Quantity: decimal.NewFromInt(40), MinThreshold: decimal.NewFromInt(10), CreatedAt: base, UpdatedAt: base,
	})
	require.NoError(t, err)

	projectID, err := provider.ProjectRepo.CreateProject(ctx, domain.Project{Name: "Tower E", CreatedAt: base})
	require.NoError(t, err)
	_, err = provider.ProjectRepo.SaveSale(ctx, domain.ProjectSale{
		ProjectID: projectID, UnitNo: "E-501", Buyer: "T. Omar", Price: decimal.NewFromInt(70000), Date: base, CreatedAt: base,
	}, testTxn(domain.Income, 0, base), []domain.Installment{
		{ProjectID: projectID, Amount: decimal.NewFromInt(35000), DueDate: base.AddDate(0, 0, -1), CreatedAt: base},
		{ProjectID: projectID, Amount: decimal.NewFromInt(35000), DueDate: base.AddDate(0, 1, 0), CreatedAt: base},
	})
	require.NoError(t, err)

	snapshot, err := provider.ReportingRepo.GetSnapshot(ctx, base)
	require.NoError(t, err)

	assert.True(t, snapshot.TotalIncome.Equal(decimal.NewFromInt(150)), "income total, got %s", snapshot.TotalIncome)
	assert.True(t, snapshot.TotalExpense.Equal(decimal.NewFromInt(30)), "expense total, got %s", snapshot.TotalExpense)
	assert.True(t, snapshot.Balance.Equal(decimal.NewFromInt(120)), "balance, got %s", snapshot.Balance)
	assert.Equal(t, 4, snapshot.TransactionCount, "three manual entries plus the sale revenue entry")
	assert.Equal(t, 1, snapshot.PendingApprovals)
	assert.Equal(t, 1, snapshot.ProjectCount)
	assert.Equal(t, 2, snapshot.InventoryItemCount)
	assert.Equal(t, 1, snapshot.OverdueInstallments)
	require.Len(t, snapshot.LowStockItems, 1)
	assert.Equal(t, "Paint", snapshot.LowStockItems[0].Name)
}
