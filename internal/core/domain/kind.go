package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a user-account financial event.
type TransactionKind string

const (
	KindDeposit        TransactionKind = "DEPOSIT"
	KindWithdrawal     TransactionKind = "WITHDRAWAL"
	KindInterestCredit TransactionKind = "INTEREST_CREDIT"
	KindFeeDebit       TransactionKind = "FEE_DEBIT"
	KindAdjustment     TransactionKind = "ADJUSTMENT"
	KindTransferIn     TransactionKind = "TRANSFER_IN"
	KindTransferOut    TransactionKind = "TRANSFER_OUT"
)

// AllTransactionKinds lists every TransactionKind. The per-concern tables
// below must cover exactly this set; kind_test.go checks them against it.
var AllTransactionKinds = []TransactionKind{
	KindDeposit,
	KindWithdrawal,
	KindInterestCredit,
	KindFeeDebit,
	KindAdjustment,
	KindTransferIn,
	KindTransferOut,
}

// balanceSigns maps each kind to the sign of its effect on the owning user
// account balance. ADJUSTMENT is 0: the amount itself is signed and applied
// as given.
var balanceSigns = map[TransactionKind]int{
	KindDeposit:        +1,
	KindWithdrawal:     -1,
	KindInterestCredit: +1,
	KindFeeDebit:       -1,
	KindAdjustment:     0,
	KindTransferIn:     +1,
	KindTransferOut:    -1,
}

// kindInverse describes how a kind is compensated: either by the opposite
// kind, or by the same kind with a negated amount.
type kindInverse struct {
	Kind         TransactionKind
	NegateAmount bool
}

// inverseKinds maps each kind to its reversal counterpart.
var inverseKinds = map[TransactionKind]kindInverse{
	KindDeposit:        {Kind: KindWithdrawal},
	KindWithdrawal:     {Kind: KindDeposit},
	KindTransferIn:     {Kind: KindTransferOut},
	KindTransferOut:    {Kind: KindTransferIn},
	KindInterestCredit: {Kind: KindInterestCredit, NegateAmount: true},
	KindFeeDebit:       {Kind: KindFeeDebit, NegateAmount: true},
	KindAdjustment:     {Kind: KindAdjustment, NegateAmount: true},
}

// cashEffectSigns maps each kind to the sign of its effect on physical till
// cash (the day book). Only counter deposits and withdrawals move physical
// cash; interest, fees, adjustments and account-to-account transfers are
// book entries.
var cashEffectSigns = map[TransactionKind]int{
	KindDeposit:        +1,
	KindWithdrawal:     -1,
	KindInterestCredit: 0,
	KindFeeDebit:       0,
	KindAdjustment:     0,
	KindTransferIn:     0,
	KindTransferOut:    0,
}

// IsValidTransactionKind reports whether k is a known kind.
func IsValidTransactionKind(k TransactionKind) bool {
	_, ok := balanceSigns[k]
	return ok
}

// SignedDelta returns the balance delta a transaction of the given kind and
// amount applies to its user account.
func SignedDelta(kind TransactionKind, amount decimal.Decimal) (decimal.Decimal, error) {
	sign, ok := balanceSigns[kind]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown transaction kind %q", kind)
	}
	switch sign {
	case +1:
		return amount, nil
	case -1:
		return amount.Neg(), nil
	default: // ADJUSTMENT: amount carries its own sign
		return amount, nil
	}
}

// RequiresBalanceCheck reports whether the kind is withdrawal-class, i.e.
// must verify balance >= amount before applying.
func RequiresBalanceCheck(kind TransactionKind) bool {
	return balanceSigns[kind] == -1
}

// InverseOf returns the compensating kind for a reversal, and whether the
// compensator keeps the kind and negates the amount instead of swapping.
func InverseOf(kind TransactionKind) (TransactionKind, bool, error) {
	inv, ok := inverseKinds[kind]
	if !ok {
		return "", false, fmt.Errorf("unknown transaction kind %q", kind)
	}
	return inv.Kind, inv.NegateAmount, nil
}

// CashDelta returns the physical-cash delta a transaction of the given kind
// and amount applies to its day book.
func CashDelta(kind TransactionKind, amount decimal.Decimal) (decimal.Decimal, error) {
	sign, ok := cashEffectSigns[kind]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown transaction kind %q", kind)
	}
	switch sign {
	case +1:
		return amount, nil
	case -1:
		return amount.Neg(), nil
	default:
		return decimal.Zero, nil
	}
}
