package domain

import (
	"fmt"
	"time"
)

// Number prefixes for the stable external identifiers surfaced in reports.
// Sequence keys are the prefix plus the date (e.g. "JE20240115"), so each
// counter resets naturally per calendar date.
const (
	EntryNumberPrefix       = "JE"
	TransactionNumberPrefix = "TXN"
	DayBookNumberPrefix     = "DB"
)

const numberDateLayout = "20060102"

// SequenceKey builds the per-date counter key for a prefix.
func SequenceKey(prefix string, date time.Time) string {
	return prefix + date.Format(numberDateLayout)
}

// FormatEntryNumber renders a journal entry number, e.g. JE20240115-0007.
func FormatEntryNumber(date time.Time, seq int64) string {
	return fmt.Sprintf("%s%s-%04d", EntryNumberPrefix, date.Format(numberDateLayout), seq)
}

// FormatTransactionNumber renders a transaction number, e.g. TXN20240115-0042.
func FormatTransactionNumber(date time.Time, seq int64) string {
	return fmt.Sprintf("%s%s-%04d", TransactionNumberPrefix, date.Format(numberDateLayout), seq)
}

// FormatDayBookNumber renders a day book number, e.g. DB20240115-01.
func FormatDayBookNumber(date time.Time, seq int64) string {
	return fmt.Sprintf("%s%s-%02d", DayBookNumberPrefix, date.Format(numberDateLayout), seq)
}
