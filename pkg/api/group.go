package api

import "github.com/molodeztom/expense-splitting-app/internal/models"

type CreateGroupRequest struct {
	Name string `json:"name"`
	// Members in display order. The first member becomes the creator.
	Members []models.Member `json:"members"`
}

type CreateGroupResponse struct {
	Group *models.Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *models.Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*models.Group `json:"groups"`
}

// UpdateGroupRequest renames a group. Membership changes go through
// AddMember and RemoveMember.
type UpdateGroupRequest struct {
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
}

type UpdateGroupResponse struct {
	Group *models.Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

type AddMemberRequest struct {
	GroupID string        `json:"group_id"`
	Member  models.Member `json:"member"`
}

type AddMemberResponse struct {
	Group *models.Group `json:"group"`
}

type RemoveMemberRequest struct {
	GroupID  string `json:"group_id"`
	MemberID string `json:"member_id"`
	// Policy is "settle" (default) or "split".
	Policy string `json:"policy,omitempty"`
}

type RemoveMemberResponse struct {
	Group *models.Group `json:"group"`
	// Transfer is set when the removed member's balance was redistributed.
	Transfer *models.BalanceTransfer `json:"transfer,omitempty"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

// MemberBalance is a balance with its display form.
type MemberBalance struct {
	models.Balance
	// Formatted is the magnitude of Balance with the currency symbol.
	Formatted string `json:"formatted"`
	// Status is "owed", "owes" or "settled".
	Status string `json:"status"`
}

// Settlement is a suggested payment with its display form.
type Settlement struct {
	models.SettlementInstruction
	Formatted string `json:"formatted"`
}

type GetGroupBalancesResponse struct {
	Currency    string          `json:"currency"`
	Balances    []MemberBalance `json:"balances"`
	Settlements []Settlement    `json:"settlements"`
	// Projected is every balance after the suggested settlements are paid.
	Projected []MemberBalance `json:"projected"`
}

type GetGroupSummaryRequest struct {
	GroupID string `json:"group_id"`
	// MemberID is the member whose position is reported. Defaults to the
	// group creator.
	MemberID string `json:"member_id,omitempty"`
}

type GetGroupSummaryResponse struct {
	Currency      string  `json:"currency"`
	MemberID      string  `json:"member_id"`
	TotalExpenses float64 `json:"total_expenses"`
	YouOwe        float64 `json:"you_owe"`
	OwedToYou     float64 `json:"owed_to_you"`
	Net           float64 `json:"net"`
}
