package calculator

import (
	"math"

	"github.com/molodeztom/expense-splitting-app/internal/models"
)

// position is a creditor's or debtor's remaining magnitude during planning.
type position struct {
	id     string
	name   string
	amount float64
}

// PlanSettlements returns payments (debtor -> creditor) that bring every
// balance within Epsilon of zero.
//
// Creditors (balance > Epsilon) and debtors (balance < -Epsilon) are matched
// greedily in member order with two cursors: each step pays the smaller of
// the two remainders and advances whichever side dropped below Epsilon. The
// plan has at most creditors+debtors-1 entries. It is not guaranteed to use
// the fewest possible payments.
func PlanSettlements(b Balances) []models.SettlementInstruction {
	var creditors, debtors []*position
	for _, bal := range b.All() {
		if bal.Balance > Epsilon {
			creditors = append(creditors, &position{id: bal.MemberID, name: bal.Name, amount: bal.Balance})
		} else if bal.Balance < -Epsilon {
			debtors = append(debtors, &position{id: bal.MemberID, name: bal.Name, amount: -bal.Balance})
		}
	}

	var plan []models.SettlementInstruction
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := creditors[i]
		debtor := debtors[j]
		amount := math.Min(creditor.amount, debtor.amount)

		plan = append(plan, models.SettlementInstruction{
			FromID:   debtor.id,
			FromName: debtor.name,
			ToID:     creditor.id,
			ToName:   creditor.name,
			Amount:   amount,
		})

		creditor.amount -= amount
		debtor.amount -= amount

		if creditor.amount < Epsilon {
			i++
		}
		if debtor.amount < Epsilon {
			j++
		}
	}

	return plan
}
