package sqldb

import (
	portsrepo "github.com/karacadev/backoffice/internal/core/ports/repositories"
	"github.com/karacadev/backoffice/internal/platform/storage"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows, letting single-row
// and multi-row reads share one scan helper per table.
type rowScanner interface {
	Scan(dest ...any) error
}

func NewRepositoryProvider(store *storage.Store) portsrepo.RepositoryProvider {
	accountRepo := newSQLAccountRepository(store)
	transactionRepo := newSQLTransactionRepository(store)
	inventoryRepo := newSQLInventoryRepository(store)
	projectRepo := newSQLProjectRepository(store)
	installmentRepo := newSQLInstallmentRepository(store)
	reportingRepo := newSQLReportingRepository(store)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		InventoryRepo:   inventoryRepo,
		ProjectRepo:     projectRepo,
		InstallmentRepo: installmentRepo,
		ReportingRepo:   reportingRepo,
	}
}
