package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Auth        AuthSvcFacade
	Transaction TransactionSvcFacade
	Inventory   InventorySvcFacade
	Project     ProjectSvcFacade
	Installment InstallmentSvcFacade
	Reporting   ReportingService
}
