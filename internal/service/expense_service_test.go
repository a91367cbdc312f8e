package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/molodeztom/expense-splitting-app/internal/models"
	"github.com/molodeztom/expense-splitting-app/pkg/api"
)

func TestCalculateSplit(t *testing.T) {
	c := setupTestServer(t)
	g := createGroup(t, c, "a", "b", "c")

	tests := []struct {
		name     string
		req      *api.CalculateSplitRequest
		want     map[string]float64
		wantCode connect.Code
	}{
		{
			name: "equal split over whole group",
			req:  &api.CalculateSplitRequest{GroupID: g.ID, Amount: 90, SplitMethod: models.SplitEqual},
			want: map[string]float64{"a": 30, "b": 30, "c": 30},
		},
		{
			name: "percentage split",
			req: &api.CalculateSplitRequest{
				GroupID: g.ID, Amount: 200, SplitMethod: models.SplitPercentage,
				Shares: []api.Share{{MemberID: "a", Value: 50}, {MemberID: "b", Value: 30}, {MemberID: "c", Value: 20}},
			},
			want: map[string]float64{"a": 100, "b": 60, "c": 40},
		},
		{
			name: "custom split",
			req: &api.CalculateSplitRequest{
				GroupID: g.ID, Amount: 100, SplitMethod: models.SplitCustom,
				Shares: []api.Share{{MemberID: "a", Value: 70}, {MemberID: "b", Value: 30}},
			},
			want: map[string]float64{"a": 70, "b": 30, "c": 0},
		},
		{
			name: "percentages not summing to 100",
			req: &api.CalculateSplitRequest{
				GroupID: g.ID, Amount: 100, SplitMethod: models.SplitPercentage,
				Shares: []api.Share{{MemberID: "a", Value: 50}, {MemberID: "b", Value: 30}},
			},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "unknown split method",
			req:      &api.CalculateSplitRequest{GroupID: g.ID, Amount: 100, SplitMethod: "shares"},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "non-positive amount",
			req:      &api.CalculateSplitRequest{GroupID: g.ID, Amount: 0, SplitMethod: models.SplitEqual},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name: "custom share outside group",
			req: &api.CalculateSplitRequest{
				GroupID: g.ID, Amount: 10, SplitMethod: models.SplitCustom,
				Shares: []api.Share{{MemberID: "a", Value: 10}, {MemberID: "z", Value: 0}},
			},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name:     "unknown group",
			req:      &api.CalculateSplitRequest{GroupID: "missing", Amount: 10, SplitMethod: models.SplitEqual},
			wantCode: connect.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.expenses.CalculateSplit(context.Background(), connect.NewRequest(tt.req))
			if tt.want == nil {
				assertCode(t, err, tt.wantCode)
				return
			}
			if err != nil {
				t.Fatalf("CalculateSplit failed: %v", err)
			}
			if len(resp.Msg.Splits) != len(tt.want) {
				t.Fatalf("splits: expected %d, got %d", len(tt.want), len(resp.Msg.Splits))
			}
			for _, s := range resp.Msg.Splits {
				if !near(s.Amount, tt.want[s.UserID]) {
					t.Errorf("%s: expected %.2f, got %.4f", s.UserID, tt.want[s.UserID], s.Amount)
				}
			}
		})
	}
}

func TestCreateExpense_And_GetExpense(t *testing.T) {
	c := setupTestServer(t)
	g := createGroup(t, c, "a", "b")

	created := addExpense(t, c, api.ExpenseInput{
		GroupID:     g.ID,
		Description: "  Concert tickets ",
		Amount:      120,
		Category:    models.CategoryEntertainment,
		PaidBy:      "b",
		SplitMethod: models.SplitPercentage,
		Shares:      []api.Share{{MemberID: "a", Value: 25}, {MemberID: "b", Value: 75}},
	})
	if created.ID == "" {
		t.Fatal("expected expense ID")
	}
	if created.Date == 0 {
		t.Error("expected date to default to now")
	}

	resp, err := c.expenses.GetExpense(context.Background(), connect.NewRequest(&api.GetExpenseRequest{ExpenseID: created.ID}))
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	e := resp.Msg.Expense
	if e.Description != "Concert tickets" {
		t.Errorf("description: expected trimmed value, got %q", e.Description)
	}
	if e.Category != models.CategoryEntertainment || e.SplitMethod != models.SplitPercentage {
		t.Errorf("unexpected expense: %+v", e)
	}
	if len(e.Splits) != 2 || !near(e.Splits[0].Amount, 30) || !near(e.Splits[1].Amount, 90) {
		t.Errorf("unexpected splits: %+v", e.Splits)
	}

	_, err = c.expenses.GetExpense(context.Background(), connect.NewRequest(&api.GetExpenseRequest{ExpenseID: "missing"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestCreateExpense_SplitsAcrossWholeGroup(t *testing.T) {
	c := setupTestServer(t)
	g := createGroup(t, c, "a", "b", "c")

	e := addExpense(t, c, api.ExpenseInput{
		GroupID: g.ID, Description: "Groceries", Amount: 90,
		PaidBy: "a", SplitMethod: models.SplitEqual,
	})

	want := []string{"a", "b", "c"}
	if len(e.Splits) != len(want) {
		t.Fatalf("splits: expected one per member (%d), got %+v", len(want), e.Splits)
	}
	for i, id := range want {
		if e.Splits[i].UserID != id || !near(e.Splits[i].Amount, 30) {
			t.Errorf("split %d: expected %s=30, got %+v", i, id, e.Splits[i])
		}
	}

	balances, _ := balancesByID(t, c, g.ID)
	if !near(balances["c"], -30) {
		t.Errorf("c: expected -30, got %.2f", balances["c"])
	}
}

func TestCreateExpense_Invalid(t *testing.T) {
	c := setupTestServer(t)
	g := createGroup(t, c, "a", "b")

	tests := []struct {
		name string
		in   api.ExpenseInput
		want connect.Code
	}{
		{"missing description", api.ExpenseInput{GroupID: g.ID, Amount: 10, PaidBy: "a", SplitMethod: models.SplitEqual}, connect.CodeInvalidArgument},
		{"payer outside group", api.ExpenseInput{GroupID: g.ID, Description: "x", Amount: 10, PaidBy: "z", SplitMethod: models.SplitEqual}, connect.CodeInvalidArgument},
		{"custom shortfall", api.ExpenseInput{
			GroupID: g.ID, Description: "x", Amount: 100, PaidBy: "a", SplitMethod: models.SplitCustom,
			Shares: []api.Share{{MemberID: "a", Value: 99.99}, {MemberID: "b", Value: 0}},
		}, connect.CodeInvalidArgument},
		{"unknown group", api.ExpenseInput{GroupID: "missing", Description: "x", Amount: 10, PaidBy: "a", SplitMethod: models.SplitEqual}, connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.expenses.CreateExpense(context.Background(), connect.NewRequest(&api.CreateExpenseRequest{Expense: tt.in}))
			assertCode(t, err, tt.want)
		})
	}
}

func TestCreateExpense_DefaultsCategory(t *testing.T) {
	c := setupTestServer(t)
	g := createGroup(t, c, "a", "b")

	e := addExpense(t, c, api.ExpenseInput{
		GroupID: g.ID, Description: "Misc", Amount: 8, PaidBy: "a", SplitMethod: models.SplitEqual,
	})
	if e.Category != models.CategoryOther {
		t.Errorf("category: expected other, got %s", e.Category)
	}
}

func TestUpdateExpense(t *testing.T) {
	c := setupTestServer(t)
	g := createGroup(t, c, "a", "b")
	original := addExpense(t, c, api.ExpenseInput{
		GroupID: g.ID, Description: "Lunch", Amount: 40, PaidBy: "a", SplitMethod: models.SplitEqual, Date: 1000,
	})

	resp, err := c.expenses.UpdateExpense(context.Background(), connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseID: original.ID,
		Expense: api.ExpenseInput{
			Description: "Lunch (corrected)",
			Amount:      50,
			PaidBy:      "b",
			SplitMethod: models.SplitCustom,
			Shares:      []api.Share{{MemberID: "a", Value: 35}, {MemberID: "b", Value: 15}},
		},
	}))
	if err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}
	updated := resp.Msg.Expense
	if updated.ID != original.ID || updated.Date != 1000 || updated.GroupID != g.ID {
		t.Errorf("identity fields changed: %+v", updated)
	}

	balances, _ := balancesByID(t, c, g.ID)
	if !near(balances["a"], -35) || !near(balances["b"], 35) {
		t.Errorf("balances after update: %v", balances)
	}

	_, err = c.expenses.UpdateExpense(context.Background(), connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseID: "missing",
		Expense:   api.ExpenseInput{Description: "x", Amount: 1, PaidBy: "a", SplitMethod: models.SplitEqual},
	}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = c.expenses.UpdateExpense(context.Background(), connect.NewRequest(&api.UpdateExpenseRequest{
		ExpenseID: original.ID,
		Expense:   api.ExpenseInput{GroupID: "other", Description: "x", Amount: 1, PaidBy: "a", SplitMethod: models.SplitEqual},
	}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestListExpenses(t *testing.T) {
	c := setupTestServer(t)
	g := createGroup(t, c, "a", "b")

	for _, in := range []api.ExpenseInput{
		{Description: "Pizza", Amount: 30, Category: models.CategoryFood, Date: 300},
		{Description: "Train", Amount: 80, Category: models.CategoryTransport, Date: 100},
		{Description: "Sushi", Amount: 55, Category: models.CategoryFood, Date: 200},
	} {
		in.GroupID = g.ID
		in.PaidBy = "a"
		in.SplitMethod = models.SplitEqual
		addExpense(t, c, in)
	}

	tests := []struct {
		name     string
		category models.Category
		sort     string
		want     []string
	}{
		{"default date-desc", "", "", []string{"Pizza", "Sushi", "Train"}},
		{"date-asc", "", api.SortDateAsc, []string{"Train", "Sushi", "Pizza"}},
		{"amount-desc", "", api.SortAmountDesc, []string{"Train", "Sushi", "Pizza"}},
		{"amount-asc", "", api.SortAmountAsc, []string{"Pizza", "Sushi", "Train"}},
		{"food only", models.CategoryFood, api.SortAmountAsc, []string{"Pizza", "Sushi"}},
		{"empty category", models.CategoryTravel, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.expenses.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{
				GroupID: g.ID, Category: tt.category, Sort: tt.sort,
			}))
			if err != nil {
				t.Fatalf("ListExpenses failed: %v", err)
			}
			if len(resp.Msg.Expenses) != len(tt.want) {
				t.Fatalf("expected %d expenses, got %d", len(tt.want), len(resp.Msg.Expenses))
			}
			for i, e := range resp.Msg.Expenses {
				if e.Description != tt.want[i] {
					t.Errorf("position %d: expected %s, got %s", i, tt.want[i], e.Description)
				}
			}
		})
	}

	_, err := c.expenses.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{GroupID: g.ID, Sort: "random"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = c.expenses.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{GroupID: "missing"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestMarkExpensePaid(t *testing.T) {
	c := setupTestServer(t)
	g := createGroup(t, c, "a", "b")
	e := addExpense(t, c, api.ExpenseInput{
		GroupID: g.ID, Description: "Rent", Amount: 1000, PaidBy: "a", SplitMethod: models.SplitEqual,
	})

	before, _ := balancesByID(t, c, g.ID)

	resp, err := c.expenses.MarkExpensePaid(context.Background(), connect.NewRequest(&api.MarkExpensePaidRequest{ExpenseID: e.ID}))
	if err != nil {
		t.Fatalf("MarkExpensePaid failed: %v", err)
	}
	if !resp.Msg.Expense.IsPaid {
		t.Error("expected expense to be paid")
	}

	after, _ := balancesByID(t, c, g.ID)
	for id := range before {
		if before[id] != after[id] {
			t.Errorf("balance of %s changed from %v to %v", id, before[id], after[id])
		}
	}

	_, err = c.expenses.MarkExpensePaid(context.Background(), connect.NewRequest(&api.MarkExpensePaidRequest{ExpenseID: "missing"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestRecordPayment(t *testing.T) {
	c := setupTestServer(t)
	g := createGroup(t, c, "alice", "bob")
	addExpense(t, c, api.ExpenseInput{
		GroupID: g.ID, Description: "Dinner", Amount: 100, PaidBy: "alice", SplitMethod: models.SplitEqual,
	})

	_, msg := balancesByID(t, c, g.ID)
	if len(msg.Settlements) != 1 {
		t.Fatalf("expected 1 settlement, got %d", len(msg.Settlements))
	}
	plan := msg.Settlements[0]

	resp, err := c.expenses.RecordPayment(context.Background(), connect.NewRequest(&api.RecordPaymentRequest{
		GroupID: g.ID, FromID: plan.FromID, ToID: plan.ToID, Amount: plan.Amount,
	}))
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	transfer := resp.Msg.Transfer
	if transfer.ID == "" || transfer.Kind != models.TransferSettlement {
		t.Errorf("unexpected transfer: %+v", transfer)
	}
	if transfer.Description != "Settlement: bob → alice" {
		t.Errorf("description: got %q", transfer.Description)
	}

	balances, msg := balancesByID(t, c, g.ID)
	for id, b := range balances {
		if !near(b, 0) {
			t.Errorf("balance %s: expected 0 after settling, got %.4f", id, b)
		}
	}
	if len(msg.Settlements) != 0 {
		t.Errorf("expected empty plan after settling, got %d", len(msg.Settlements))
	}

	// Settlements are transfers, not expenses.
	list, err := c.expenses.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{GroupID: g.ID}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(list.Msg.Expenses) != 1 {
		t.Errorf("expected 1 expense, got %d", len(list.Msg.Expenses))
	}

	list, err = c.expenses.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{
		GroupID: g.ID, IncludeTransfers: true, Sort: api.SortAmountAsc,
	}))
	if err != nil {
		t.Fatalf("ListExpenses with transfers failed: %v", err)
	}
	if len(list.Msg.Expenses) != 2 {
		t.Fatalf("expected expense and settlement, got %d rows", len(list.Msg.Expenses))
	}
	row := list.Msg.Expenses[0]
	if !row.IsSettlement || row.ID != transfer.ID || row.PaidBy != "bob" || !near(row.Amount, 50) {
		t.Errorf("unexpected settlement row: %+v", row)
	}
	if len(row.Splits) != 1 || row.Splits[0].UserID != "alice" || !near(row.Splits[0].Amount, 50) {
		t.Errorf("settlement row splits: got %+v", row.Splits)
	}
}

func TestListExpenses_ByMember(t *testing.T) {
	c := setupTestServer(t)
	g := createGroup(t, c, "a", "b", "c")

	addExpense(t, c, api.ExpenseInput{
		GroupID: g.ID, Description: "Books", Amount: 20, PaidBy: "a", SplitMethod: models.SplitCustom,
		Shares: []api.Share{{MemberID: "a", Value: 15}, {MemberID: "b", Value: 5}},
		Date:   100,
	})
	addExpense(t, c, api.ExpenseInput{
		GroupID: g.ID, Description: "Rent", Amount: 300, PaidBy: "b", SplitMethod: models.SplitEqual,
		Date: 200,
	})

	tests := []struct {
		member string
		want   []string
	}{
		{"a", []string{"Rent", "Books"}},
		{"b", []string{"Rent", "Books"}},
		{"c", []string{"Rent"}},
		{"z", nil},
	}
	for _, tt := range tests {
		t.Run(tt.member, func(t *testing.T) {
			resp, err := c.expenses.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{
				GroupID: g.ID, MemberID: tt.member,
			}))
			if err != nil {
				t.Fatalf("ListExpenses failed: %v", err)
			}
			if len(resp.Msg.Expenses) != len(tt.want) {
				t.Fatalf("expected %v, got %d expenses", tt.want, len(resp.Msg.Expenses))
			}
			for i, e := range resp.Msg.Expenses {
				if e.Description != tt.want[i] {
					t.Errorf("position %d: expected %s, got %s", i, tt.want[i], e.Description)
				}
			}
		})
	}
}

func TestRecordPayment_Invalid(t *testing.T) {
	c := setupTestServer(t)
	g := createGroup(t, c, "a", "b")

	tests := []struct {
		name string
		req  *api.RecordPaymentRequest
		want connect.Code
	}{
		{"zero amount", &api.RecordPaymentRequest{GroupID: g.ID, FromID: "a", ToID: "b", Amount: 0}, connect.CodeInvalidArgument},
		{"self payment", &api.RecordPaymentRequest{GroupID: g.ID, FromID: "a", ToID: "a", Amount: 5}, connect.CodeInvalidArgument},
		{"unknown recipient", &api.RecordPaymentRequest{GroupID: g.ID, FromID: "a", ToID: "z", Amount: 5}, connect.CodeInvalidArgument},
		{"unknown group", &api.RecordPaymentRequest{GroupID: "missing", FromID: "a", ToID: "b", Amount: 5}, connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.expenses.RecordPayment(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, tt.want)
		})
	}
}

func TestDeleteExpense(t *testing.T) {
	c := setupTestServer(t)
	g := createGroup(t, c, "a", "b")
	e := addExpense(t, c, api.ExpenseInput{
		GroupID: g.ID, Description: "Coffee", Amount: 6, PaidBy: "a", SplitMethod: models.SplitEqual,
	})

	if _, err := c.expenses.DeleteExpense(context.Background(), connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: e.ID})); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}

	balances, _ := balancesByID(t, c, g.ID)
	for id, b := range balances {
		if b != 0 {
			t.Errorf("balance %s: expected 0 after delete, got %v", id, b)
		}
	}

	_, err := c.expenses.DeleteExpense(context.Background(), connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: e.ID}))
	assertCode(t, err, connect.CodeNotFound)
}
