package calculator

import (
	"math"
	"testing"

	"github.com/molodeztom/expense-splitting-app/internal/models"
)

func TestPlanSettlements(t *testing.T) {
	tests := []struct {
		name     string
		members  []models.Member
		expenses func(t *testing.T, g models.Group) []models.Expense
		want     []models.SettlementInstruction
	}{
		{
			name:    "two members equal split",
			members: []models.Member{alice, bob},
			expenses: func(t *testing.T, g models.Group) []models.Expense {
				return []models.Expense{expense(t, g, "a", 100, EqualSplit{})}
			},
			want: []models.SettlementInstruction{
				{FromID: "b", FromName: "Bob", ToID: "a", ToName: "Alice", Amount: 50},
			},
		},
		{
			name:    "settled member is skipped",
			members: []models.Member{alice, bob, charlie},
			expenses: func(t *testing.T, g models.Group) []models.Expense {
				return []models.Expense{
					expense(t, g, "b", 30, CustomSplit{Shares: []Share{{"c", 30}}}),
				}
			},
			want: []models.SettlementInstruction{
				{FromID: "c", FromName: "Charlie", ToID: "b", ToName: "Bob", Amount: 30},
			},
		},
		{
			name:    "one creditor several debtors",
			members: []models.Member{alice, bob, charlie, diana},
			expenses: func(t *testing.T, g models.Group) []models.Expense {
				return []models.Expense{expense(t, g, "a", 120, EqualSplit{})}
			},
			want: []models.SettlementInstruction{
				{FromID: "b", FromName: "Bob", ToID: "a", ToName: "Alice", Amount: 30},
				{FromID: "c", FromName: "Charlie", ToID: "a", ToName: "Alice", Amount: 30},
				{FromID: "d", FromName: "Diana", ToID: "a", ToName: "Alice", Amount: 30},
			},
		},
		{
			name:    "cursors follow member order, not magnitude",
			members: []models.Member{alice, bob, charlie, diana},
			expenses: func(t *testing.T, g models.Group) []models.Expense {
				// Alice +10, Bob +40, Charlie -40, Diana -10
				return []models.Expense{
					expense(t, g, "a", 10, CustomSplit{Shares: []Share{{"c", 10}}}),
					expense(t, g, "b", 40, CustomSplit{Shares: []Share{{"c", 30}, {"d", 10}}}),
				}
			},
			want: []models.SettlementInstruction{
				{FromID: "c", FromName: "Charlie", ToID: "a", ToName: "Alice", Amount: 10},
				{FromID: "c", FromName: "Charlie", ToID: "b", ToName: "Bob", Amount: 30},
				{FromID: "d", FromName: "Diana", ToID: "b", ToName: "Bob", Amount: 10},
			},
		},
		{
			name:    "sub-cent balances need no payment",
			members: []models.Member{alice, bob},
			expenses: func(t *testing.T, g models.Group) []models.Expense {
				return []models.Expense{{GroupID: g.ID, Amount: 0.005, PaidBy: "a", Splits: []models.Split{{UserID: "b", Amount: 0.005}}}}
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testGroup(tt.members...)
			b := ComputeBalances(g, tt.expenses(t, g))
			got := PlanSettlements(b)

			if len(got) != len(tt.want) {
				t.Fatalf("got %d settlements %+v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				w := tt.want[i]
				if got[i].FromID != w.FromID || got[i].ToID != w.ToID ||
					got[i].FromName != w.FromName || got[i].ToName != w.ToName {
					t.Errorf("settlement %d = %+v, want %+v", i, got[i], w)
				}
				if math.Abs(got[i].Amount-w.Amount) > Epsilon {
					t.Errorf("settlement %d amount = %v, want %v", i, got[i].Amount, w.Amount)
				}
			}
		})
	}
}

func TestBalancesApply(t *testing.T) {
	g := testGroup(alice, bob)
	b := ComputeBalances(g, []models.Expense{expense(t, g, "a", 100, EqualSplit{})})

	settled := b.Apply(PlanSettlements(b))

	wantBalance(t, settled, "a", 0)
	wantBalance(t, settled, "b", 0)
	// Apply must not modify the receiver.
	wantBalance(t, b, "a", 50)
}
