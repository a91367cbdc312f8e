package calculator

import (
	"fmt"
	"math"

	"github.com/molodeztom/expense-splitting-app/internal/models"
)

// RemovalPolicy decides what happens to the balance of a member who leaves.
type RemovalPolicy string

const (
	// MustSettle refuses the removal while the member has a balance.
	MustSettle RemovalPolicy = "settle"

	// Redistribute spreads the member's balance evenly over the remaining
	// members with a redistribution transfer.
	Redistribute RemovalPolicy = "split"
)

// Valid reports whether p is a known policy.
func (p RemovalPolicy) Valid() bool {
	return p == MustSettle || p == Redistribute
}

// Removal is the outcome of planning a member removal.
type Removal struct {
	// Group is the group without the removed member.
	Group models.Group

	// Balance is the removed member's balance at removal time.
	Balance models.Balance

	// Transfer redistributes the balance, or is nil when nothing is owed
	// either way or nobody remains.
	Transfer *models.BalanceTransfer
}

// PlanRemoval checks whether memberID can leave the group and builds the
// transfer that conserves the group's total balance. balances must have been
// computed for group before the removal. Nothing is mutated; the caller
// persists the new group and the transfer together.
func PlanRemoval(group models.Group, balances Balances, memberID string, policy RemovalPolicy) (Removal, error) {
	member, ok := group.Member(memberID)
	if !ok {
		return Removal{}, fmt.Errorf("remove %q from group %s: %w", memberID, group.ID, ErrUnknownMember)
	}
	if memberID == group.CreatedBy {
		return Removal{}, fmt.Errorf("remove %q from group %s: %w", memberID, group.ID, ErrCreatorRequired)
	}
	if !policy.Valid() {
		return Removal{}, fmt.Errorf("unknown removal policy %q", policy)
	}

	bal, ok := balances.Get(memberID)
	if !ok {
		bal = models.Balance{MemberID: member.ID, Name: member.Name}
	}

	removal := Removal{
		Group:   group.WithoutMember(memberID),
		Balance: bal,
	}

	if policy == MustSettle {
		if math.Abs(bal.Balance) > Epsilon {
			return Removal{}, fmt.Errorf("remove %s: %w (balance %.2f)", member.Name, ErrBalanceNotSettled, bal.Balance)
		}
		return removal, nil
	}

	remaining := removal.Group.Members
	if math.Abs(bal.Balance) < Epsilon || len(remaining) == 0 {
		return removal, nil
	}

	share := bal.Balance / float64(len(remaining))
	adjustments := make([]models.Split, len(remaining))
	for i, m := range remaining {
		adjustments[i] = models.Split{UserID: m.ID, Amount: -share}
	}

	removal.Transfer = &models.BalanceTransfer{
		GroupID:     group.ID,
		Kind:        models.TransferRedistribution,
		FromID:      memberID,
		Amount:      math.Abs(bal.Balance),
		Adjustments: adjustments,
		Description: fmt.Sprintf("Balance redistribution for removed member: %s", bal.Name),
	}
	return removal, nil
}
