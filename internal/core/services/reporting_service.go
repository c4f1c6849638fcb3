package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reportingService derives read-only reports from posted journal lines.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.LedgerAccountReader
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, accountRepo portsrepo.LedgerAccountReader) portssvc.ReportingService {
	return &reportingService{
		reportingRepo: reportingRepo,
		accountRepo:   accountRepo,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance generates a trial balance as of a specific date. Each row's
// net balance is presented on the account's normal side, and the debit and
// credit totals must match to the cent on a healthy ledger.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data",
			slog.String("asOf", asOf.Format(time.RFC3339)))
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}
	if rows == nil {
		rows = []domain.TrialBalanceRow{}
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i := range rows {
		rows[i].NetBalance = accounting.NetBalance(rows[i].AccountType, rows[i].Debit, rows[i].Credit)
		totalDebit = totalDebit.Add(rows[i].Debit)
		totalCredit = totalCredit.Add(rows[i].Credit)
	}

	report := &domain.TrialBalance{
		Rows:        rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("asOf", asOf.Format(time.RFC3339)),
		slog.Int("row_count", len(rows)),
		slog.Bool("balanced", totalDebit.Equal(totalCredit)))
	return report, nil
}

// AccountActivity sums posted debits and credits for one ledger account over
// the given period.
func (s *reportingService) AccountActivity(ctx context.Context, accountID string, from, to time.Time) (*domain.AccountActivity, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	debit, credit, err := s.reportingRepo.GetAccountActivity(ctx, accountID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve account activity",
			slog.String("account_id", accountID),
			slog.String("from", from.Format(time.RFC3339)),
			slog.String("to", to.Format(time.RFC3339)))
		return nil, fmt.Errorf("failed to retrieve account activity: %w", err)
	}

	activity := &domain.AccountActivity{
		AccountID:   account.AccountID,
		AccountCode: account.Code,
		Debit:       debit,
		Credit:      credit,
		Net:         accounting.NetBalance(account.AccountType, debit, credit),
	}

	s.LogInfo(ctx, "Account activity report generated successfully",
		slog.String("account_code", account.Code),
		slog.String("net", activity.Net.String()))
	return activity, nil
}
