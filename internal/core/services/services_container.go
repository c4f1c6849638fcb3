package services

import (
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	// Create the container structure first
	container := &portssvc.ServiceContainer{}

	// Audit first: nearly every other service records into it.
	container.Audit = NewAuditService(repos.AuditRepo)

	container.Auth = NewAuthService(cfg, repos.StaffRepo)
	container.Staff = NewStaffService(repos.StaffRepo, container.Audit)
	container.UserAccount = NewUserAccountService(repos.UserAccountRepo, container.Audit)

	container.LedgerAccount = NewLedgerAccountService(
		repos.LedgerAccountRepo,
		WithKindMappingRepository(repos.KindMappingRepo),
		WithAuditService(container.Audit),
	)
	container.KindMapping = NewKindMappingService(repos.KindMappingRepo, repos.LedgerAccountRepo, container.Audit)

	container.Journal = NewJournalService(repos.JournalRepo, repos.LedgerAccountRepo, container.Audit)
	container.DayBook = NewDayBookService(repos.DayBookRepo, repos.SequenceRepo, container.Audit)

	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		repos.UserAccountRepo,
		repos.KindMappingRepo,
		container.Journal,
		container.DayBook,
		container.Audit,
	)
	container.Reversal = NewReversalService(
		cfg,
		repos.TransactionRepo,
		repos.KindMappingRepo,
		container.Journal,
		container.DayBook,
		container.Audit,
	)

	container.Reporting = NewReportingService(repos.ReportingRepo, repos.LedgerAccountRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AuthSvcFacade          = (*authService)(nil)
	_ portssvc.StaffSvcFacade         = (*staffService)(nil)
	_ portssvc.LedgerAccountSvcFacade = (*ledgerAccountService)(nil)
	_ portssvc.KindMappingSvcFacade   = (*kindMappingService)(nil)
	_ portssvc.JournalSvcFacade       = (*journalService)(nil)
	_ portssvc.TransactionSvcFacade   = (*transactionService)(nil)
	_ portssvc.DayBookSvcFacade       = (*dayBookService)(nil)
	_ portssvc.ReversalSvcFacade      = (*reversalService)(nil)
	_ portssvc.UserAccountSvcFacade   = (*userAccountService)(nil)
	_ portssvc.AuditSvcFacade         = (*auditService)(nil)
	_ portssvc.ReportingService       = (*reportingService)(nil)
)
