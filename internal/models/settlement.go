package models

import "fmt"

// TransferKind distinguishes the two kinds of balance transfer.
type TransferKind string

const (
	// TransferSettlement is a recorded payment from a debtor to a creditor.
	TransferSettlement TransferKind = "settlement"

	// TransferRedistribution spreads a removed member's balance over the
	// remaining members.
	TransferRedistribution TransferKind = "redistribution"
)

// BalanceTransfer moves balance between members without representing any
// consumption. It is folded like an expense: FromID is credited with Amount
// as paid, and each adjustment is added to that member's owed total.
// Adjustments may be negative and need not sum to Amount.
type BalanceTransfer struct {
	// ID is the unique identifier for the transfer (UUID format).
	ID string `json:"id"`

	// GroupID is the group this transfer belongs to.
	GroupID string `json:"group_id"`

	// Kind is settlement or redistribution.
	Kind TransferKind `json:"kind"`

	// FromID is the member credited as payer. For redistributions this is
	// the removed member, who is no longer part of the group.
	FromID string `json:"from_id"`

	// Amount is the magnitude of the transfer.
	Amount float64 `json:"amount"`

	// Adjustments are the signed owed-amount changes per member.
	Adjustments []Split `json:"adjustments"`

	// Description is a human-readable label.
	Description string `json:"description"`

	// Date is the Unix timestamp when the transfer was recorded.
	Date int64 `json:"date"`
}

// NewSettlement builds the transfer recording a payment of amount from
// debtor to creditor. Applying it raises the debtor's balance by amount and
// lowers the creditor's by the same amount.
func NewSettlement(groupID string, from, to Member, amount float64) BalanceTransfer {
	return BalanceTransfer{
		GroupID:     groupID,
		Kind:        TransferSettlement,
		FromID:      from.ID,
		Amount:      amount,
		Adjustments: []Split{{UserID: to.ID, Amount: amount}},
		Description: fmt.Sprintf("Settlement: %s → %s", from.Name, to.Name),
	}
}

// AsExpense renders the transfer as a flagged, paid expense row so it can
// be listed with expenses. The adjustments become the splits unchanged, so
// a settlement gives its recipient a positive split and the row folds into
// the same balances as the transfer.
func (t BalanceTransfer) AsExpense() Expense {
	splits := make([]Split, len(t.Adjustments))
	copy(splits, t.Adjustments)
	return Expense{
		ID:               t.ID,
		GroupID:          t.GroupID,
		Description:      t.Description,
		Amount:           t.Amount,
		Category:         CategoryOther,
		PaidBy:           t.FromID,
		SplitMethod:      SplitCustom,
		Splits:           splits,
		Date:             t.Date,
		IsPaid:           true,
		IsSettlement:     t.Kind == TransferSettlement,
		IsRedistribution: t.Kind == TransferRedistribution,
	}
}

// SettlementInstruction is a suggested payment from a debtor to a creditor.
type SettlementInstruction struct {
	FromID   string  `json:"from_id"`
	FromName string  `json:"from_name"`
	ToID     string  `json:"to_id"`
	ToName   string  `json:"to_name"`
	Amount   float64 `json:"amount"`
}
