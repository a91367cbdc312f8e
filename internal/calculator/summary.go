package calculator

import (
	"math"

	"github.com/molodeztom/expense-splitting-app/internal/models"
)

// Summary is one member's view of a group.
type Summary struct {
	TotalExpenses float64 // Sum of ordinary expense amounts in the group
	YouOwe        float64
	OwedToYou     float64
	Net           float64
}

// Summarize reports the group's spending and memberID's position in it.
// Legacy transfer expenses do not count towards TotalExpenses.
func Summarize(group models.Group, expenses []models.Expense, balances Balances, memberID string) Summary {
	var s Summary
	for _, e := range expenses {
		if e.GroupID != group.ID || e.IsTransfer() {
			continue
		}
		s.TotalExpenses += e.Amount
	}

	bal, _ := balances.Get(memberID)
	s.Net = bal.Balance
	s.YouOwe = math.Max(0, -bal.Balance)
	s.OwedToYou = math.Max(0, bal.Balance)
	return s
}
