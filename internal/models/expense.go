package models

// SplitMethod identifies how an expense amount is divided among members.
type SplitMethod string

const (
	SplitEqual      SplitMethod = "equal"
	SplitPercentage SplitMethod = "percentage"
	SplitCustom     SplitMethod = "custom"
)

// Valid reports whether m is a known split method.
func (m SplitMethod) Valid() bool {
	switch m {
	case SplitEqual, SplitPercentage, SplitCustom:
		return true
	}
	return false
}

// Category classifies an expense for filtering and display.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryEntertainment Category = "entertainment"
	CategoryShopping      Category = "shopping"
	CategoryUtilities     Category = "utilities"
	CategoryTravel        Category = "travel"
	CategoryOther         Category = "other"
)

var categoryNames = map[Category]string{
	CategoryFood:          "Food & Dining",
	CategoryTransport:     "Transportation",
	CategoryEntertainment: "Entertainment",
	CategoryShopping:      "Shopping",
	CategoryUtilities:     "Utilities",
	CategoryTravel:        "Travel",
	CategoryOther:         "Other",
}

// DisplayName returns the human readable name of the category.
// Unknown categories are shown as "Other".
func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return categoryNames[CategoryOther]
}

// Expense records that one member paid an amount on behalf of the group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID references the group the expense belongs to.
	GroupID string `json:"group_id"`

	// Description is the human-readable label (e.g., "Groceries").
	Description string `json:"description"`

	// Amount is the total paid. Always positive for ordinary expenses.
	Amount float64 `json:"amount"`

	// Category is used for filtering and display.
	Category Category `json:"category"`

	// PaidBy is the member ID of the payer.
	PaidBy string `json:"paid_by"`

	// SplitMethod records how Splits were computed.
	SplitMethod SplitMethod `json:"split_method"`

	// Splits are the per-member shares of Amount.
	// For ordinary expenses they sum to Amount within one cent.
	Splits []Split `json:"splits"`

	// Date is the Unix timestamp of the expense.
	Date int64 `json:"date"`

	// IsPaid marks the expense as paid back. It does not affect balances.
	IsPaid bool `json:"is_paid"`

	// IsSettlement marks a settlement shown as an expense: a legacy stored
	// record or a transfer rendered by BalanceTransfer.AsExpense.
	IsSettlement bool `json:"is_settlement,omitempty"`

	// IsRedistribution marks a redistribution shown as an expense.
	IsRedistribution bool `json:"is_redistribution,omitempty"`
}

// IsTransfer reports whether the expense is a balance-transfer row rather
// than a consumption record.
func (e Expense) IsTransfer() bool {
	return e.IsSettlement || e.IsRedistribution
}

// ShareOf returns the split amount attributed to the given member, or 0.
func (e Expense) ShareOf(memberID string) float64 {
	for _, s := range e.Splits {
		if s.UserID == memberID {
			return s.Amount
		}
	}
	return 0
}

// Split is the portion of an amount attributed to one member.
type Split struct {
	UserID string  `json:"user_id"`
	Amount float64 `json:"amount"`
}
