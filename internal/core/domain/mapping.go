package domain

import "github.com/shopspring/decimal"

// KindMapping routes a transaction kind to the ledger account pair its
// journal entry debits and credits. Mappings are configuration (stored and
// editable), not engine logic, so account routing can change per institution
// without touching posting code.
type KindMapping struct {
	MappingID         string          `json:"mappingID"` // Primary Key (UUID)
	Kind              TransactionKind `json:"kind"`      // Unique
	DebitAccountCode  string          `json:"debitAccountCode"`
	CreditAccountCode string          `json:"creditAccountCode"`
	Description       string          `json:"description"`
	AuditFields
}

// PostingRoute is a resolved mapping for a concrete amount. A negative
// amount swaps the debit/credit pair and is made absolute, so signed
// adjustments and negated compensators post on the correct sides.
type PostingRoute struct {
	Kind              TransactionKind
	DebitAccountCode  string
	CreditAccountCode string
	Amount            decimal.Decimal // always positive
}

// Route resolves the mapping for the given amount, swapping sides when the
// amount is negative.
func (m KindMapping) Route(amount decimal.Decimal) PostingRoute {
	route := PostingRoute{
		Kind:              m.Kind,
		DebitAccountCode:  m.DebitAccountCode,
		CreditAccountCode: m.CreditAccountCode,
		Amount:            amount,
	}
	if amount.IsNegative() {
		route.DebitAccountCode, route.CreditAccountCode = route.CreditAccountCode, route.DebitAccountCode
		route.Amount = amount.Neg()
	}
	return route
}
