package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/molodeztom/expense-splitting-app/internal/calculator"
	"github.com/molodeztom/expense-splitting-app/internal/metrics"
	"github.com/molodeztom/expense-splitting-app/internal/models"
	"github.com/molodeztom/expense-splitting-app/internal/storage"
	"github.com/molodeztom/expense-splitting-app/pkg/api"
	"github.com/molodeztom/expense-splitting-app/pkg/api/apiconnect"
)

// Ensure ExpenseService implements the Connect handler interface
var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	ledger
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, m *metrics.Metrics) *ExpenseService {
	return &ExpenseService{ledger: newLedger(store, m, "")}
}

func toShares(shares []api.Share) []calculator.Share {
	out := make([]calculator.Share, len(shares))
	for i, s := range shares {
		out[i] = calculator.Share{MemberID: s.MemberID, Value: s.Value}
	}
	return out
}

// computeSplits resolves the policy and splits the amount across every
// group member.
func (s *ExpenseService) computeSplits(group *models.Group, amount float64, method models.SplitMethod, shares []api.Share) ([]models.Split, error) {
	policy, err := calculator.PolicyFor(method, toShares(shares))
	if err != nil {
		s.metrics.SplitsRejected.Inc()
		return nil, err
	}

	splits, err := calculator.ComputeSplits(amount, group.Members, policy)
	if err != nil {
		if errors.Is(err, calculator.ErrInvalidSplit) {
			s.metrics.SplitsRejected.Inc()
		}
		return nil, err
	}

	for _, split := range splits {
		slog.Debug("Computed split", "user_id", split.UserID, "amount", split.Amount)
	}
	return splits, nil
}

// buildExpense validates input against the group and computes its splits.
func (s *ExpenseService) buildExpense(group *models.Group, in api.ExpenseInput) (*models.Expense, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, invalidArgument("description required")
	}
	if _, err := memberOf(group, in.PaidBy, "payer"); err != nil {
		return nil, err
	}

	splits, err := s.computeSplits(group, in.Amount, in.SplitMethod, in.Shares)
	if err != nil {
		return nil, err
	}

	category := in.Category
	if category == "" {
		category = models.CategoryOther
	}

	return &models.Expense{
		GroupID:     group.ID,
		Description: description,
		Amount:      in.Amount,
		Category:    category,
		PaidBy:      in.PaidBy,
		SplitMethod: in.SplitMethod,
		Splits:      splits,
		Date:        in.Date,
	}, nil
}

// CalculateSplit previews the splits of an expense without saving it.
func (s *ExpenseService) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	slog.Info("CalculateSplit request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount,
		"split_method", req.Msg.SplitMethod,
	)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("CalculateSplit failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	splits, err := s.computeSplits(group, req.Msg.Amount, req.Msg.SplitMethod, req.Msg.Shares)
	if err != nil {
		slog.Warn("CalculateSplit rejected", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("CalculateSplit completed", "splits_count", len(splits))

	return connect.NewResponse(&api.CalculateSplitResponse{Splits: splits}), nil
}

// CreateExpense computes the splits of a new expense and saves it.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	in := req.Msg.Expense
	slog.Info("CreateExpense request received",
		"group_id", in.GroupID,
		"amount", in.Amount,
		"split_method", in.SplitMethod,
	)

	group, err := s.store.GetGroup(ctx, in.GroupID)
	if err != nil {
		slog.Error("CreateExpense failed - group not found", "group_id", in.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	expense, err := s.buildExpense(group, in)
	if err != nil {
		slog.Warn("CreateExpense rejected", "group_id", in.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	// Save to storage (generates ID and Date)
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return nil, toConnectError(err)
	}

	s.metrics.ExpensesRecorded.WithLabelValues(string(expense.SplitMethod)).Inc()
	slog.Info("Expense saved", "expense_id", expense.ID, "group_id", expense.GroupID)

	return connect.NewResponse(&api.CreateExpenseResponse{Expense: expense}), nil
}

// GetExpense retrieves an expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	slog.Info("GetExpense request received", "expense_id", req.Msg.ExpenseID)

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("GetExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetExpenseResponse{Expense: expense}), nil
}

// UpdateExpense recomputes and replaces an existing expense.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received", "expense_id", req.Msg.ExpenseID)

	existing, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("UpdateExpense failed - expense not found", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}
	if existing.IsTransfer() {
		return nil, connect.NewError(connect.CodeFailedPrecondition,
			fmt.Errorf("expense %s records a balance transfer and cannot be edited", existing.ID))
	}
	if req.Msg.Expense.GroupID != "" && req.Msg.Expense.GroupID != existing.GroupID {
		return nil, invalidArgument("expense cannot move to another group")
	}

	group, err := s.store.GetGroup(ctx, existing.GroupID)
	if err != nil {
		slog.Error("UpdateExpense failed - group not found", "group_id", existing.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	expense, err := s.buildExpense(group, req.Msg.Expense)
	if err != nil {
		slog.Warn("UpdateExpense rejected", "expense_id", existing.ID, "error", err)
		return nil, toConnectError(err)
	}
	expense.ID = existing.ID
	expense.IsPaid = existing.IsPaid
	if expense.Date == 0 {
		expense.Date = existing.Date
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense updated", "expense_id", expense.ID)

	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: expense}), nil
}

// DeleteExpense removes an expense by ID.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense deleted", "expense_id", req.Msg.ExpenseID)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

var expenseOrders = map[string]func(a, b models.Expense) int{
	api.SortDateDesc:   func(a, b models.Expense) int { return cmp.Compare(b.Date, a.Date) },
	api.SortDateAsc:    func(a, b models.Expense) int { return cmp.Compare(a.Date, b.Date) },
	api.SortAmountDesc: func(a, b models.Expense) int { return cmp.Compare(b.Amount, a.Amount) },
	api.SortAmountAsc:  func(a, b models.Expense) int { return cmp.Compare(a.Amount, b.Amount) },
}

// ListExpenses returns a group's expenses, optionally filtered by category
// or member and optionally interleaved with its transfers.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("ListExpenses request received",
		"group_id", groupID,
		"category", req.Msg.Category,
		"member_id", req.Msg.MemberID,
		"sort", req.Msg.Sort,
	)

	sortBy := req.Msg.Sort
	if sortBy == "" {
		sortBy = api.SortDateDesc
	}
	order, ok := expenseOrders[sortBy]
	if !ok {
		return nil, invalidArgument("unknown sort order %q", req.Msg.Sort)
	}

	// Verify group exists
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		slog.Error("ListExpenses failed - group not found", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	if req.Msg.IncludeTransfers {
		transfers, err := s.store.ListTransfersByGroup(ctx, groupID)
		if err != nil {
			slog.Error("ListExpenses failed - could not load transfers", "group_id", groupID, "error", err)
			return nil, toConnectError(err)
		}
		for _, t := range transfers {
			expenses = append(expenses, t.AsExpense())
		}
	}

	if req.Msg.Category != "" {
		expenses = slices.DeleteFunc(expenses, func(e models.Expense) bool {
			return e.Category != req.Msg.Category
		})
	}
	if memberID := req.Msg.MemberID; memberID != "" {
		expenses = slices.DeleteFunc(expenses, func(e models.Expense) bool {
			return e.PaidBy != memberID && e.ShareOf(memberID) == 0
		})
	}
	slices.SortStableFunc(expenses, order)

	slog.Info("ListExpenses successful", "group_id", groupID, "count", len(expenses))

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: expenses}), nil
}

// MarkExpensePaid flags an expense as paid. Balances are unaffected.
func (s *ExpenseService) MarkExpensePaid(ctx context.Context, req *connect.Request[api.MarkExpensePaidRequest]) (*connect.Response[api.MarkExpensePaidResponse], error) {
	slog.Info("MarkExpensePaid request received", "expense_id", req.Msg.ExpenseID)

	if err := s.store.MarkExpensePaid(ctx, req.Msg.ExpenseID); err != nil {
		slog.Error("MarkExpensePaid failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.MarkExpensePaidResponse{Expense: expense}), nil
}

// RecordPayment records a payment from one member to another as a
// settlement transfer.
func (s *ExpenseService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	slog.Info("RecordPayment request received",
		"group_id", req.Msg.GroupID,
		"from_id", req.Msg.FromID,
		"to_id", req.Msg.ToID,
		"amount", req.Msg.Amount,
	)

	if req.Msg.Amount <= 0 {
		return nil, invalidArgument("amount must be positive, got %v", req.Msg.Amount)
	}
	if req.Msg.FromID == req.Msg.ToID {
		return nil, invalidArgument("payer and recipient must differ")
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("RecordPayment failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}
	from, err := memberOf(group, req.Msg.FromID, "payer")
	if err != nil {
		return nil, toConnectError(err)
	}
	to, err := memberOf(group, req.Msg.ToID, "recipient")
	if err != nil {
		return nil, toConnectError(err)
	}

	transfer := models.NewSettlement(group.ID, from, to, req.Msg.Amount)
	transfer.Date = time.Now().Unix()
	if err := s.store.CreateTransfer(ctx, &transfer); err != nil {
		slog.Error("RecordPayment failed", "error", err)
		return nil, toConnectError(err)
	}

	s.metrics.TransfersRecorded.WithLabelValues(string(transfer.Kind)).Inc()
	slog.Info("Payment recorded", "transfer_id", transfer.ID, "description", transfer.Description)

	return connect.NewResponse(&api.RecordPaymentResponse{Transfer: &transfer}), nil
}

// ListTransfers returns the settlement and redistribution history of a group.
func (s *ExpenseService) ListTransfers(ctx context.Context, req *connect.Request[api.ListTransfersRequest]) (*connect.Response[api.ListTransfersResponse], error) {
	slog.Info("ListTransfers request received", "group_id", req.Msg.GroupID)

	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("ListTransfers failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	transfers, err := s.store.ListTransfersByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListTransfers failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ListTransfersResponse{Transfers: transfers}), nil
}
