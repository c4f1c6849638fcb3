package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Auth          AuthSvcFacade
	Staff         StaffSvcFacade
	LedgerAccount LedgerAccountSvcFacade
	KindMapping   KindMappingSvcFacade
	Journal       JournalSvcFacade
	Transaction   TransactionSvcFacade
	DayBook       DayBookSvcFacade
	Reversal      ReversalSvcFacade
	UserAccount   UserAccountSvcFacade
	Audit         AuditSvcFacade
	Reporting     ReportingService
}
