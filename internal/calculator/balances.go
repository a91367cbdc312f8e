package calculator

import (
	"fmt"

	"github.com/molodeztom/expense-splitting-app/internal/models"
)

// Balances maps member IDs to balances, preserving group member order.
// The zero value is an empty mapping.
type Balances struct {
	order []string
	byID  map[string]*models.Balance
}

func newBalances(group models.Group) Balances {
	b := Balances{
		order: make([]string, 0, len(group.Members)),
		byID:  make(map[string]*models.Balance, len(group.Members)),
	}
	for _, m := range group.Members {
		if _, dup := b.byID[m.ID]; dup {
			continue
		}
		b.order = append(b.order, m.ID)
		b.byID[m.ID] = &models.Balance{MemberID: m.ID, Name: m.Name}
	}
	return b
}

// Get returns the balance of the given member.
func (b Balances) Get(memberID string) (models.Balance, bool) {
	bal, ok := b.byID[memberID]
	if !ok {
		return models.Balance{}, false
	}
	return *bal, true
}

// All returns every balance in member order.
func (b Balances) All() []models.Balance {
	out := make([]models.Balance, len(b.order))
	for i, id := range b.order {
		out[i] = *b.byID[id]
	}
	return out
}

// Len returns the number of members.
func (b Balances) Len() int {
	return len(b.order)
}

// Sum returns the total of all net balances. It stays within Epsilon of zero
// for any expense history.
func (b Balances) Sum() float64 {
	var sum float64
	for _, id := range b.order {
		sum += b.byID[id].Balance
	}
	return sum
}

// Apply returns the balances that result from executing every instruction
// in plan. The receiver is left untouched.
func (b Balances) Apply(plan []models.SettlementInstruction) Balances {
	out := b.clone()
	for _, s := range plan {
		out.credit(s.FromID, s.Amount)
		out.debit(s.ToID, s.Amount)
	}
	out.derive()
	return out
}

func (b Balances) clone() Balances {
	out := Balances{
		order: append([]string(nil), b.order...),
		byID:  make(map[string]*models.Balance, len(b.byID)),
	}
	for id, bal := range b.byID {
		c := *bal
		out.byID[id] = &c
	}
	return out
}

// credit adds to a member's paid total. Unknown members are ignored.
func (b Balances) credit(memberID string, amount float64) {
	if bal, ok := b.byID[memberID]; ok {
		bal.Paid += amount
	}
}

// debit adds to a member's owed total. Unknown members are ignored.
func (b Balances) debit(memberID string, amount float64) {
	if bal, ok := b.byID[memberID]; ok {
		bal.Owes += amount
	}
}

func (b Balances) derive() {
	for _, bal := range b.byID {
		bal.Balance = bal.Paid - bal.Owes
	}
}

// ComputeBalances folds a group's expense history into one balance per
// current member.
//
// Algorithm:
// - Every member starts at paid = 0, owes = 0
// - For each expense of the group: payer paid +amount, each split owes +split
// - For each transfer of the group: sender paid +amount, each adjustment owes +adjustment
// - balance = paid - owes
//
// Records of other groups are skipped. Contributions referencing people who
// are no longer members are silently ignored so that history stays readable
// after a member leaves. Legacy settlement and redistribution expenses are
// folded like any other expense.
func ComputeBalances(group models.Group, expenses []models.Expense, transfers ...models.BalanceTransfer) Balances {
	balances := newBalances(group)

	for _, e := range expenses {
		if e.GroupID != group.ID {
			continue
		}
		balances.credit(e.PaidBy, e.Amount)
		for _, s := range e.Splits {
			balances.debit(s.UserID, s.Amount)
		}
	}

	for _, t := range transfers {
		if t.GroupID != group.ID {
			continue
		}
		balances.credit(t.FromID, t.Amount)
		for _, adj := range t.Adjustments {
			balances.debit(adj.UserID, adj.Amount)
		}
	}

	balances.derive()
	return balances
}

// UnknownReferences lists every payer, split or adjustment in the group's
// history that does not name a current member. ComputeBalances ignores
// these; the list is meant for diagnostics.
func UnknownReferences(group models.Group, expenses []models.Expense, transfers ...models.BalanceTransfer) []error {
	var errs []error
	check := func(kind, recordID, memberID string) {
		if !group.HasMember(memberID) {
			errs = append(errs, fmt.Errorf("%s %s: %w %q", kind, recordID, ErrUnknownMember, memberID))
		}
	}

	for _, e := range expenses {
		if e.GroupID != group.ID {
			continue
		}
		check("expense", e.ID, e.PaidBy)
		for _, s := range e.Splits {
			check("expense", e.ID, s.UserID)
		}
	}
	for _, t := range transfers {
		if t.GroupID != group.ID {
			continue
		}
		check("transfer", t.ID, t.FromID)
		for _, adj := range t.Adjustments {
			check("transfer", t.ID, adj.UserID)
		}
	}
	return errs
}
