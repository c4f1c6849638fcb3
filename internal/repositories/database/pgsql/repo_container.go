package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	sequenceRepo := newPgxSequenceRepository(dbPool)
	ledgerAccountRepo := newPgxLedgerAccountRepository(dbPool)
	kindMappingRepo := newPgxKindMappingRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, sequenceRepo)
	transactionRepo := newPgxTransactionRepository(dbPool, sequenceRepo)
	userAccountRepo := newPgxUserAccountRepository(dbPool)
	dayBookRepo := newPgxDayBookRepository(dbPool)
	staffRepo := newPgxStaffRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		LedgerAccountRepo: ledgerAccountRepo,
		KindMappingRepo:   kindMappingRepo,
		JournalRepo:       journalRepo,
		TransactionRepo:   transactionRepo,
		UserAccountRepo:   userAccountRepo,
		DayBookRepo:       dayBookRepo,
		SequenceRepo:      sequenceRepo,
		StaffRepo:         staffRepo,
		AuditRepo:         auditRepo,
		ReportingRepo:     reportingRepo,
	}
}
