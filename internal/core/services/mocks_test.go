package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// Shared mocks for the service test suites. Each mock implements the full
// facade so any suite can reuse it.

// --- Mock LedgerAccountRepository ---
type MockLedgerAccountRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerAccountRepositoryFacade = (*MockLedgerAccountRepository)(nil)

func (m *MockLedgerAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockLedgerAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockLedgerAccountRepository) FindAccountByNameFuzzy(ctx context.Context, text string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockLedgerAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.LedgerAccount, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.LedgerAccount), args.Error(1)
}

func (m *MockLedgerAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.LedgerAccount, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerAccount), args.Error(1)
}

func (m *MockLedgerAccountRepository) SaveAccount(ctx context.Context, account domain.LedgerAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockLedgerAccountRepository) UpdateAccount(ctx context.Context, account domain.LedgerAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockLedgerAccountRepository) DeactivateAccount(ctx context.Context, accountID string, staffID string, now time.Time) error {
	args := m.Called(ctx, accountID, staffID, now)
	return args.Error(0)
}

// --- Mock KindMappingRepository ---
type MockKindMappingRepository struct {
	mock.Mock
}

var _ portsrepo.KindMappingRepositoryFacade = (*MockKindMappingRepository)(nil)

func (m *MockKindMappingRepository) FindMappingByKind(ctx context.Context, kind domain.TransactionKind) (*domain.KindMapping, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KindMapping), args.Error(1)
}

func (m *MockKindMappingRepository) ListMappings(ctx context.Context) ([]domain.KindMapping, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.KindMapping), args.Error(1)
}

func (m *MockKindMappingRepository) SaveMapping(ctx context.Context, mapping domain.KindMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, from time.Time, to time.Time, includeReversed bool, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, from, to, includeReversed, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByAccountID(ctx context.Context, accountID string, from time.Time, to time.Time) ([]domain.JournalLine, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entry, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) UpdateEntryStatusAndLinks(ctx context.Context, entryID string, status domain.EntryStatus, reversedBy *string, reverses *string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, entryID, status, reversedBy, reverses, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.AccountTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByNumber(ctx context.Context, transactionNumber string) (*domain.AccountTransaction, error) {
	args := m.Called(ctx, transactionNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionsByReference(ctx context.Context, reference string) ([]domain.AccountTransaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByAccount(ctx context.Context, userAccountID string, limit int, nextToken *string) ([]domain.AccountTransaction, *string, error) {
	args := m.Called(ctx, userAccountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.AccountTransaction), returnedNextToken, args.Error(2)
}

func (m *MockTransactionRepository) ListTransactionsByDayBook(ctx context.Context, dayBookID string) ([]domain.AccountTransaction, error) {
	args := m.Called(ctx, dayBookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ListPendingJournal(ctx context.Context, limit int) ([]domain.AccountTransaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTransaction), args.Error(1)
}

func (m *MockTransactionRepository) ApplyTransactions(ctx context.Context, txns []domain.AccountTransaction, dayBookID string) ([]domain.AccountTransaction, error) {
	args := m.Called(ctx, txns, dayBookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTransaction), args.Error(1)
}

func (m *MockTransactionRepository) SetJournalPosted(ctx context.Context, transactionID string, entryID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, transactionID, entryID, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock UserAccountRepository ---
type MockUserAccountRepository struct {
	mock.Mock
}

var _ portsrepo.UserAccountRepositoryFacade = (*MockUserAccountRepository)(nil)

func (m *MockUserAccountRepository) FindUserAccountByID(ctx context.Context, userAccountID string) (*domain.UserAccount, error) {
	args := m.Called(ctx, userAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserAccount), args.Error(1)
}

func (m *MockUserAccountRepository) FindUserAccountByNumber(ctx context.Context, accountNumber string) (*domain.UserAccount, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserAccount), args.Error(1)
}

func (m *MockUserAccountRepository) ListUserAccounts(ctx context.Context, status *domain.UserAccountStatus, limit int, offset int) ([]domain.UserAccount, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserAccount), args.Error(1)
}

func (m *MockUserAccountRepository) SaveUserAccount(ctx context.Context, account domain.UserAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockUserAccountRepository) UpdateUserAccountDetails(ctx context.Context, account domain.UserAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockUserAccountRepository) UpdateUserAccountStatus(ctx context.Context, userAccountID string, status domain.UserAccountStatus, staffID string, now time.Time) error {
	args := m.Called(ctx, userAccountID, status, staffID, now)
	return args.Error(0)
}

// --- Mock DayBookRepository ---
type MockDayBookRepository struct {
	mock.Mock
}

var _ portsrepo.DayBookRepositoryFacade = (*MockDayBookRepository)(nil)

func (m *MockDayBookRepository) FindDayBookByID(ctx context.Context, dayBookID string) (*domain.DayBook, error) {
	args := m.Called(ctx, dayBookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayBook), args.Error(1)
}

func (m *MockDayBookRepository) FindDayBookByDate(ctx context.Context, date time.Time) (*domain.DayBook, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayBook), args.Error(1)
}

func (m *MockDayBookRepository) ListDayBooks(ctx context.Context, from time.Time, to time.Time, limit int, offset int) ([]domain.DayBook, error) {
	args := m.Called(ctx, from, to, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DayBook), args.Error(1)
}

func (m *MockDayBookRepository) EnsureDayBook(ctx context.Context, book domain.DayBook) (*domain.DayBook, error) {
	args := m.Called(ctx, book)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayBook), args.Error(1)
}

func (m *MockDayBookRepository) ReconcileDayBook(ctx context.Context, dayBookID string, physicalCash decimal.Decimal, discrepancy decimal.Decimal, notes string, staffID string, now time.Time) error {
	args := m.Called(ctx, dayBookID, physicalCash, discrepancy, notes, staffID, now)
	return args.Error(0)
}

func (m *MockDayBookRepository) CloseDayBook(ctx context.Context, dayBookID string, staffID string, now time.Time) error {
	args := m.Called(ctx, dayBookID, staffID, now)
	return args.Error(0)
}

// --- Mock SequenceRepository ---
type MockSequenceRepository struct {
	mock.Mock
}

var _ portsrepo.SequenceRepository = (*MockSequenceRepository)(nil)

func (m *MockSequenceRepository) NextValue(ctx context.Context, sequenceKey string) (int64, error) {
	args := m.Called(ctx, sequenceKey)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSequenceRepository) NextValueInTx(ctx context.Context, tx pgx.Tx, sequenceKey string) (int64, error) {
	args := m.Called(ctx, tx, sequenceKey)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock StaffRepository ---
type MockStaffRepository struct {
	mock.Mock
}

var _ portsrepo.StaffRepositoryFacade = (*MockStaffRepository)(nil)

func (m *MockStaffRepository) FindStaffByID(ctx context.Context, staffID string) (*domain.Staff, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}

func (m *MockStaffRepository) FindStaffByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}

func (m *MockStaffRepository) ListStaff(ctx context.Context, limit int, offset int) ([]domain.Staff, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Staff), args.Error(1)
}

func (m *MockStaffRepository) SaveStaff(ctx context.Context, staff domain.Staff) error {
	args := m.Called(ctx, staff)
	return args.Error(0)
}

func (m *MockStaffRepository) UpdateStaff(ctx context.Context, staff domain.Staff) error {
	args := m.Called(ctx, staff)
	return args.Error(0)
}

// --- Mock JournalService (as used by transaction and reversal services) ---
type MockJournalService struct {
	mock.Mock
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

func (m *MockJournalService) PostEntry(ctx context.Context, req dto.PostJournalEntryRequest, creatorStaffID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req, creatorStaffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ReverseEntry(ctx context.Context, entryID string, req dto.ReverseJournalEntryRequest, actingStaffID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, req, actingStaffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) MarkEntryReversed(ctx context.Context, entryID string, reversedByEntryID string, actingStaffID string) error {
	args := m.Called(ctx, entryID, reversedByEntryID, actingStaffID)
	return args.Error(0)
}

func (m *MockJournalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) GetEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalEntriesResponse), args.Error(1)
}

func (m *MockJournalService) ListAccountLines(ctx context.Context, accountID string, from time.Time, to time.Time) ([]domain.JournalLine, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

// --- Mock DayBookService (as used by transaction and reversal services) ---
type MockDayBookService struct {
	mock.Mock
}

var _ portssvc.DayBookSvcFacade = (*MockDayBookService)(nil)

func (m *MockDayBookService) GetDayBookByID(ctx context.Context, dayBookID string) (*domain.DayBook, error) {
	args := m.Called(ctx, dayBookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayBook), args.Error(1)
}

func (m *MockDayBookService) GetDayBookByDate(ctx context.Context, date time.Time) (*domain.DayBook, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayBook), args.Error(1)
}

func (m *MockDayBookService) ListDayBooks(ctx context.Context, params dto.ListDayBooksParams) (*dto.ListDayBooksResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListDayBooksResponse), args.Error(1)
}

func (m *MockDayBookService) EnsureDayBookForDate(ctx context.Context, date time.Time, actingStaffID string) (*domain.DayBook, error) {
	args := m.Called(ctx, date, actingStaffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayBook), args.Error(1)
}

func (m *MockDayBookService) ReconcileDayBook(ctx context.Context, dayBookID string, req dto.ReconcileDayBookRequest, actingStaffID string) (*domain.DayBook, error) {
	args := m.Called(ctx, dayBookID, req, actingStaffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayBook), args.Error(1)
}

func (m *MockDayBookService) CloseDayBook(ctx context.Context, dayBookID string, actingStaffID string) (*domain.DayBook, error) {
	args := m.Called(ctx, dayBookID, actingStaffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayBook), args.Error(1)
}

// --- Mock Audit Repository ---
type MockAuditRepository struct {
	mock.Mock
}

var _ portsrepo.AuditRepositoryFacade = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAuditRepository) ListAuditRecordsByEntity(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, entityType, entityID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}

func (m *MockAuditRepository) ListAuditRecordsByStaff(ctx context.Context, staffID string, from time.Time, to time.Time, limit int) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, staffID, from, to, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}

// --- Mock Reporting Repository ---
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetAccountActivity(ctx context.Context, accountID string, from time.Time, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID, from, to)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

// --- No-op audit service ---
// Suites that don't assert on the audit trail use this to keep mock
// expectations out of the way.
type noopAuditService struct{}

var _ portssvc.AuditSvcFacade = noopAuditService{}

func (noopAuditService) RecordAction(ctx context.Context, record domain.AuditRecord) {}

func (noopAuditService) ListByEntity(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditRecord, error) {
	return nil, nil
}

func (noopAuditService) ListByStaff(ctx context.Context, staffID string, from time.Time, to time.Time, limit int) ([]domain.AuditRecord, error) {
	return nil, nil
}
