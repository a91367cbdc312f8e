package api

import "github.com/molodeztom/expense-splitting-app/internal/models"

// Share is a per-member percentage or custom amount.
type Share struct {
	MemberID string  `json:"member_id"`
	Value    float64 `json:"value"`
}

// ExpenseInput carries everything needed to compute and record an expense.
type ExpenseInput struct {
	GroupID     string             `json:"group_id"`
	Description string             `json:"description"`
	Amount      float64            `json:"amount"`
	Category    models.Category    `json:"category,omitempty"`
	PaidBy      string             `json:"paid_by"`
	SplitMethod models.SplitMethod `json:"split_method"`
	Shares      []Share            `json:"shares,omitempty"`
	// Date is a Unix timestamp; zero means now.
	Date int64 `json:"date,omitempty"`
}

type CalculateSplitRequest struct {
	GroupID     string             `json:"group_id"`
	Amount      float64            `json:"amount"`
	SplitMethod models.SplitMethod `json:"split_method"`
	Shares      []Share            `json:"shares,omitempty"`
}

type CalculateSplitResponse struct {
	Splits []models.Split `json:"splits"`
}

type CreateExpenseRequest struct {
	Expense ExpenseInput `json:"expense"`
}

type CreateExpenseResponse struct {
	Expense *models.Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense *models.Expense `json:"expense"`
}

// UpdateExpenseRequest replaces an expense. The group cannot change.
type UpdateExpenseRequest struct {
	ExpenseID string       `json:"expense_id"`
	Expense   ExpenseInput `json:"expense"`
}

type UpdateExpenseResponse struct {
	Expense *models.Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

// Sort orders accepted by ListExpenses.
const (
	SortDateDesc   = "date-desc"
	SortDateAsc    = "date-asc"
	SortAmountDesc = "amount-desc"
	SortAmountAsc  = "amount-asc"
)

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
	// Category filters by category when set.
	Category models.Category `json:"category,omitempty"`
	// Sort defaults to date-desc.
	Sort string `json:"sort,omitempty"`
	// MemberID keeps only expenses the member paid or has a share in.
	MemberID string `json:"member_id,omitempty"`
	// IncludeTransfers lists settlements and redistributions as expense
	// rows alongside the expenses.
	IncludeTransfers bool `json:"include_transfers,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []models.Expense `json:"expenses"`
}

type MarkExpensePaidRequest struct {
	ExpenseID string `json:"expense_id"`
}

type MarkExpensePaidResponse struct {
	Expense *models.Expense `json:"expense"`
}

// RecordPaymentRequest records that FromID paid ToID outside the app.
type RecordPaymentRequest struct {
	GroupID string  `json:"group_id"`
	FromID  string  `json:"from_id"`
	ToID    string  `json:"to_id"`
	Amount  float64 `json:"amount"`
}

type RecordPaymentResponse struct {
	Transfer *models.BalanceTransfer `json:"transfer"`
}

type ListTransfersRequest struct {
	GroupID string `json:"group_id"`
}

type ListTransfersResponse struct {
	Transfers []models.BalanceTransfer `json:"transfers"`
}
