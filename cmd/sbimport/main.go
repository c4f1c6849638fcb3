// Command sbimport backfills user accounts from a branch's month-end Excel
// workbook. Rows are keyed by account number: unknown numbers become new
// ACTIVE savings accounts, known numbers get their balance refreshed when the
// workbook disagrees with the database. Running it twice is a no-op.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	"github.com/notcool100/astrofinance-ledger/internal/platform/config"
	"github.com/notcool100/astrofinance-ledger/internal/repositories/database/pgsql"
	"github.com/notcool100/astrofinance-ledger/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Imported accounts carry the branch defaults: savings product at 4% annual
// interest, opened on the book-migration date.
var (
	defaultInterestRate = decimal.RequireFromString("4.0")
	defaultOpeningDate  = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Backfilled balances predate the ledger, so this write bypasses the
// transaction processor instead of forging journal history for them.
const updateBalanceQuery = `
	UPDATE user_accounts
	SET balance = $2, last_updated_at = $3, last_updated_by = $4
	WHERE user_account_id = $1;
`

type importStats struct {
	created int
	updated int
	skipped int
	failed  int
}

func main() {
	filePath := flag.String("file", "", "path to the .xlsx workbook")
	sheet := flag.String("sheet", "SB", "worksheet holding the savings accounts")
	importedBy := flag.String("imported-by", "sbimport", "staff ID recorded on rows this run touches")
	dryRun := flag.Bool("dry-run", false, "tally what would change without writing")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if *filePath == "" {
		logger.Error("Missing required -file flag")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		logger.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	repos := pgsql.NewRepositoryProvider(dbPool)

	stats, err := importAccounts(ctx, logger, dbPool, repos.UserAccountRepo, *filePath, *sheet, *importedBy, *dryRun)
	if err != nil {
		logger.Error("Import failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("Import finished",
		slog.Bool("dry_run", *dryRun),
		slog.Int("created", stats.created),
		slog.Int("updated", stats.updated),
		slog.Int("skipped", stats.skipped),
		slog.Int("failed", stats.failed))
	if stats.failed > 0 {
		os.Exit(1)
	}
}

func importAccounts(ctx context.Context, logger *slog.Logger, pool *pgxpool.Pool, accounts portsrepo.UserAccountRepositoryFacade, path, sheet, importedBy string, dryRun bool) (importStats, error) {
	var stats importStats

	f, err := excelize.OpenFile(path)
	if err != nil {
		return stats, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return stats, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	logger.Info("Read worksheet", slog.String("sheet", sheet), slog.Int("rows", len(rows)))

	for i, row := range rows {
		holderName := cell(row, 0)
		accountNumber := cell(row, 1)

		if holderName == "" || accountNumber == "" {
			stats.skipped++
			continue
		}
		// The workbook repeats its header between sections.
		if holderName == "Account Number" || accountNumber == "Account Number" {
			stats.skipped++
			continue
		}

		// Two month-end balance columns; the later month wins when positive.
		previous := parseAmount(cell(row, 2))
		current := parseAmount(cell(row, 4))
		balance := current
		if !current.IsPositive() {
			balance = previous
		}

		if err := upsertAccount(ctx, pool, accounts, holderName, accountNumber, balance, importedBy, dryRun, &stats); err != nil {
			logger.Error("Failed to import row",
				slog.Int("row", i+1),
				slog.String("account_number", accountNumber),
				slog.Any("error", err))
			stats.failed++
		}
	}

	return stats, nil
}

func upsertAccount(ctx context.Context, pool *pgxpool.Pool, accounts portsrepo.UserAccountRepositoryFacade, holderName, accountNumber string, balance decimal.Decimal, importedBy string, dryRun bool, stats *importStats) error {
	existing, err := accounts.FindUserAccountByNumber(ctx, accountNumber)
	switch {
	case err == nil:
		if existing.Balance.Equal(balance) {
			stats.skipped++
			return nil
		}
		if dryRun {
			stats.updated++
			return nil
		}
		if _, err := pool.Exec(ctx, updateBalanceQuery, existing.UserAccountID, balance, time.Now().UTC(), importedBy); err != nil {
			return fmt.Errorf("failed to update balance for account %s: %w", accountNumber, err)
		}
		stats.updated++
		return nil

	case errors.Is(err, apperrors.ErrNotFound):
		if dryRun {
			stats.created++
			return nil
		}
		now := time.Now().UTC()
		account := domain.UserAccount{
			UserAccountID:       uuid.NewString(),
			AccountNumber:       accountNumber,
			HolderName:          holderName,
			AccountType:         domain.AccountTypeSB,
			Balance:             balance,
			InterestRate:        defaultInterestRate,
			Status:              domain.AccountActive,
			OpeningDate:         defaultOpeningDate,
			LastTransactionDate: &now,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     importedBy,
				LastUpdatedAt: now,
				LastUpdatedBy: importedBy,
			},
		}
		if err := accounts.SaveUserAccount(ctx, account); err != nil {
			return err
		}
		stats.created++
		return nil

	default:
		return err
	}
}

// cell returns the trimmed value at idx, or "" when the row is shorter than
// that. excelize truncates trailing empty cells, so short rows are routine.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseAmount reads a workbook balance cell. Blank and unparseable cells
// count as zero; thousands separators are tolerated.
func parseAmount(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.Zero
	}
	return amount
}
