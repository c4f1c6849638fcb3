package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	LedgerAccountRepo LedgerAccountRepositoryFacade
	KindMappingRepo   KindMappingRepositoryFacade
	JournalRepo       JournalRepositoryFacade
	TransactionRepo   TransactionRepositoryFacade
	UserAccountRepo   UserAccountRepositoryFacade
	DayBookRepo       DayBookRepositoryFacade
	SequenceRepo      SequenceRepository
	StaffRepo         StaffRepositoryFacade
	AuditRepo         AuditRepositoryFacade
	ReportingRepo     ReportingRepository
}
