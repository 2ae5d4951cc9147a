package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/karacadev/backoffice/internal/apperrors"
	"github.com/karacadev/backoffice/internal/core/domain"
	portsrepo "github.com/karacadev/backoffice/internal/core/ports/repositories"
	"github.com/karacadev/backoffice/internal/platform/storage"
)

const (
	projectColumns = `id, name, location, floors, units, created_at`
	costColumns    = `id, project_id, category, custom_label, amount, date, note, created_at`
	saleColumns    = `id, project_id, unit_no, buyer, price, date, terms, area, payment_method, created_at`
)

type SQLProjectRepository struct {
	store *storage.Store
}

// newSQLProjectRepository creates a new repository for project data.
func newSQLProjectRepository(store *storage.Store) portsrepo.ProjectRepositoryFacade {
	return &SQLProjectRepository{store: store}
}

// Ensure implementation matches interface
var _ portsrepo.ProjectRepositoryFacade = (*SQLProjectRepository)(nil)

func scanProject(row rowScanner, project *domain.Project) error {
	return row.Scan(
		&project.ID,
		&project.Name,
		&project.Location,
		&project.Floors,
		&project.Units,
		&project.CreatedAt,
	)
}

func scanCost(row rowScanner, cost *domain.ProjectCost) error {
	return row.Scan(
		&cost.ID,
		&cost.ProjectID,
		&cost.Category,
		&cost.CustomLabel,
		&cost.Amount,
		&cost.Date,
		&cost.Note,
		&cost.CreatedAt,
	)
}

func scanSale(row rowScanner, sale *domain.ProjectSale) error {
	return row.Scan(
		&sale.ID,
		&sale.ProjectID,
		&sale.UnitNo,
		&sale.Buyer,
		&sale.Price,
		&sale.Date,
		&sale.Terms,
		&sale.Area,
		&sale.PaymentMethod,
		&sale.CreatedAt,
	)
}

func findCostByID(ctx context.Context, q storage.Querier, costID int64) (*domain.ProjectCost, error) {
	query := `SELECT ` + costColumns + ` FROM project_costs WHERE id = ?`

	var cost domain.ProjectCost
	err := scanCost(q.QueryRowContext(ctx, query, costID), &cost)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project cost %d: %w", costID, err)
	}
	return &cost, nil
}

func findSaleByID(ctx context.Context, q storage.Querier, saleID int64) (*domain.ProjectSale, error) {
	query := `SELECT ` + saleColumns + ` FROM project_sales WHERE id = ?`

	var sale domain.ProjectSale
	err := scanSale(q.QueryRowContext(ctx, query, saleID), &sale)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project sale %d: %w", saleID, err)
	}
	return &sale, nil
}

// CreateProject inserts a new project and returns its id.
func (r *SQLProjectRepository) CreateProject(ctx context.Context, project domain.Project) (int64, error) {
	query := `
		INSERT INTO projects (name, location, floors, units, created_at)
		VALUES (?, ?, ?, ?, ?)`

	id, err := r.store.InsertID(ctx, query,
		project.Name,
		project.Location,
		project.Floors,
		project.Units,
		project.CreatedAt,
	)
	if err != nil {
		if r.store.IsDuplicate(err) {
			return 0, fmt.Errorf("%w: project %s", apperrors.ErrDuplicate, project.Name)
		}
		return 0, fmt.Errorf("failed to insert project: %w", err)
	}
	return id, nil
}

// FindProjectByID retrieves a single project by its ID.
func (r *SQLProjectRepository) FindProjectByID(ctx context.Context, projectID int64) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

	var project domain.Project
	err := scanProject(r.store.QueryRowContext(ctx, query, projectID), &project)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project %d: %w", projectID, err)
	}
	return &project, nil
}

// ListProjects retrieves all projects, newest first.
func (r *SQLProjectRepository) ListProjects(ctx context.Context) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC, id DESC`

	rows, err := r.store.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := make([]domain.Project, 0)
	for rows.Next() {
		var project domain.Project
		if err := scanProject(rows, &project); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

// ListCostsByProject retrieves a project's costs, newest first.
func (r *SQLProjectRepository) ListCostsByProject(ctx context.Context, projectID int64) ([]domain.ProjectCost, error) {
	query := `SELECT ` + costColumns + ` FROM project_costs WHERE project_id = ? ORDER BY date DESC, id DESC`

	rows, err := r.store.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query costs for project %d: %w", projectID, err)
	}
	defer rows.Close()

	costs := make([]domain.ProjectCost, 0)
	for rows.Next() {
		var cost domain.ProjectCost
		if err := scanCost(rows, &cost); err != nil {
			return nil, fmt.Errorf("failed to scan project cost row: %w", err)
		}
		costs = append(costs, cost)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project cost rows: %w", err)
	}
	return costs, nil
}

// ListSalesByProject retrieves a project's sales, newest first.
func (r *SQLProjectRepository) ListSalesByProject(ctx context.Context, projectID int64) ([]domain.ProjectSale, error) {
	query := `SELECT ` + saleColumns + ` FROM project_sales WHERE project_id = ? ORDER BY date DESC, id DESC`

	rows, err := r.store.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales for project %d: %w", projectID, err)
	}
	defer rows.Close()

	sales := make([]domain.ProjectSale, 0)
	for rows.Next() {
		var sale domain.ProjectSale
		if err := scanSale(rows, &sale); err != nil {
			return nil, fmt.Errorf("failed to scan project sale row: %w", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project sale rows: %w", err)
	}
	return sales, nil
}

// DeleteProject removes a project; the schema cascades the delete to its
// costs, sales, installments and reminders.
func (r *SQLProjectRepository) DeleteProject(ctx context.Context, projectID int64) error {
	query := `DELETE FROM projects WHERE id = ?`

	res, err := r.store.ExecContext(ctx, query, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project %d: %w", projectID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for project %d: %w", projectID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: project %d", apperrors.ErrNotFound, projectID)
	}
	return nil
}

// SaveCost inserts a project cost together with its derived expense
// transaction and re-reads both rows, all inside one database transaction.
func (r *SQLProjectRepository) SaveCost(ctx context.Context, cost domain.ProjectCost, txn domain.Transaction) (*domain.CostResult, error) {
	var result *domain.CostResult

	err := r.store.WithTx(ctx, func(tx *storage.Tx) error {
		insertQuery := `
			INSERT INTO project_costs (project_id, category, custom_label, amount, date, note, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
		costID, err := tx.InsertID(ctx, insertQuery,
			cost.ProjectID,
			string(cost.Category),
			cost.CustomLabel,
			cost.Amount,
			cost.Date,
			cost.Note,
			cost.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert project cost: %w", err)
		}

		txnID, err := insertTransaction(ctx, tx, txn)
		if err != nil {
			return err
		}

		storedCost, err := findCostByID(ctx, tx, costID)
		if err != nil {
			return err
		}
		storedTxn, err := findTransactionByID(ctx, tx, txnID)
		if err != nil {
			return err
		}

		result = &domain.CostResult{Cost: *storedCost, Transaction: *storedTxn}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SaveSale inserts a sale, its derived revenue transaction and the supplied
// installment schedule in one database transaction. The generated sale id is
// stamped onto every installment before insertion, and the stored schedule is
// read back ordered by due date.
func (r *SQLProjectRepository) SaveSale(ctx context.Context, sale domain.ProjectSale, txn domain.Transaction, installments []domain.Installment) (*domain.SaleResult, error) {
	var result *domain.SaleResult

	err := r.store.WithTx(ctx, func(tx *storage.Tx) error {
		insertQuery := `
			INSERT INTO project_sales (project_id, unit_no, buyer, price, date, terms, area, payment_method, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		saleID, err := tx.InsertID(ctx, insertQuery,
			sale.ProjectID,
			sale.UnitNo,
			sale.Buyer,
			sale.Price,
			sale.Date,
			sale.Terms,
			sale.Area,
			sale.PaymentMethod,
			sale.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert project sale: %w", err)
		}

		txnID, err := insertTransaction(ctx, tx, txn)
		if err != nil {
			return err
		}

		installmentQuery := `
			INSERT INTO project_installments (project_id, sale_id, unit_no, buyer, amount, due_date, paid, paid_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		for _, inst := range installments {
			inst.SaleID = saleID
			if _, err := tx.ExecContext(ctx, installmentQuery,
				inst.ProjectID,
				inst.SaleID,
				inst.UnitNo,
				inst.Buyer,
				inst.Amount,
				inst.DueDate,
				inst.Paid,
				inst.PaidAt,
				inst.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to insert installment for sale %d: %w", saleID, err)
			}
		}

		storedSale, err := findSaleByID(ctx, tx, saleID)
		if err != nil {
			return err
		}
		storedTxn, err := findTransactionByID(ctx, tx, txnID)
		if err != nil {
			return err
		}
		storedInstallments, err := listInstallmentsBySale(ctx, tx, saleID)
		if err != nil {
			return err
		}
		if len(storedInstallments) == 0 {
			storedInstallments = nil
		}

		result = &domain.SaleResult{
			Sale:         *storedSale,
			Transaction:  *storedTxn,
			Installments: storedInstallments,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
