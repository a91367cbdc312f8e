package service

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"connectrpc.com/connect"

	"github.com/molodeztom/expense-splitting-app/internal/calculator"
	"github.com/molodeztom/expense-splitting-app/internal/metrics"
	"github.com/molodeztom/expense-splitting-app/internal/models"
	"github.com/molodeztom/expense-splitting-app/internal/storage"
	"github.com/molodeztom/expense-splitting-app/pkg/api"
	"github.com/molodeztom/expense-splitting-app/pkg/api/apiconnect"
	"github.com/molodeztom/expense-splitting-app/pkg/currency"
)

// Ensure GroupService implements the Connect handler interface
var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService
type GroupService struct {
	ledger
}

// NewGroupService creates a new GroupService with the given storage backend.
// defaultCurrency formats amounts until a currency is saved in settings.
func NewGroupService(store storage.Store, m *metrics.Metrics, defaultCurrency string) *GroupService {
	return &GroupService{ledger: newLedger(store, m, defaultCurrency)}
}

// validateMembers checks names and rejects duplicate IDs.
func validateMembers(members []models.Member) *connect.Error {
	seen := make(map[string]bool, len(members))
	for i, m := range members {
		if strings.TrimSpace(m.Name) == "" {
			return invalidArgument("member %d: name required", i+1)
		}
		if m.ID == "" {
			continue
		}
		if seen[m.ID] {
			return invalidArgument("duplicate member id %q", m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}

// CreateGroup creates a new group. The first member is the creator.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("group name required")
	}
	if len(req.Msg.Members) == 0 {
		return nil, invalidArgument("at least one member required")
	}
	if err := validateMembers(req.Msg.Members); err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:    name,
		Members: req.Msg.Members,
	}

	// Save to storage (generates IDs, CreatedAt and CreatedBy)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID, "created_by", group.CreatedBy)

	return connect.NewResponse(&api.CreateGroupResponse{Group: group}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "name", group.Name)

	return connect.NewResponse(&api.GetGroupResponse{Group: group}), nil
}

// ListGroups retrieves all groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	slog.Info("ListGroups request received")

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: groups}), nil
}

// UpdateGroup renames an existing group.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	slog.Info("UpdateGroup request received",
		"group_id", req.Msg.GroupID,
		"name", req.Msg.Name,
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("group name required")
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("UpdateGroup failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	group.Name = name
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group updated", "group_id", group.ID)

	return connect.NewResponse(&api.UpdateGroupResponse{Group: group}), nil
}

// DeleteGroup removes a group by ID along with its expenses and transfers.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("DeleteGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddMember appends a member to a group.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received",
		"group_id", req.Msg.GroupID,
		"name", req.Msg.Member.Name,
	)

	if err := validateMembers([]models.Member{req.Msg.Member}); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("AddMember failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}
	if req.Msg.Member.ID != "" && group.HasMember(req.Msg.Member.ID) {
		return nil, invalidArgument("member %q already in group", req.Msg.Member.ID)
	}

	group.Members = append(group.Members, req.Msg.Member)
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("AddMember failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	added := group.Members[len(group.Members)-1]
	slog.Info("Member added", "group_id", group.ID, "member_id", added.ID)

	return connect.NewResponse(&api.AddMemberResponse{Group: group}), nil
}

// RemoveMember removes a member. Under the "settle" policy the member must
// have no balance; under "split" the balance is spread over the remaining
// members by a redistribution transfer written with the removal.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received",
		"group_id", req.Msg.GroupID,
		"member_id", req.Msg.MemberID,
		"policy", req.Msg.Policy,
	)

	policy := calculator.RemovalPolicy(req.Msg.Policy)
	if policy == "" {
		policy = calculator.MustSettle
	}
	if !policy.Valid() {
		return nil, invalidArgument("unknown removal policy %q", req.Msg.Policy)
	}

	// The plan runs inside the removal transaction, so the balance it
	// checks or spreads is the one the member leaves with.
	var removal *calculator.Removal
	err := s.store.RemoveMember(ctx, req.Msg.GroupID, req.Msg.MemberID, func(history storage.GroupHistory) (*models.BalanceTransfer, error) {
		snap := newSnapshot(history)
		if !snap.group.HasMember(req.Msg.MemberID) {
			return nil, connect.NewError(connect.CodeNotFound, memberNotFound(req.Msg.MemberID))
		}

		planned, err := calculator.PlanRemoval(*snap.group, snap.balances, req.Msg.MemberID, policy)
		if err != nil {
			slog.Warn("RemoveMember rejected", "group_id", req.Msg.GroupID, "member_id", req.Msg.MemberID, "error", err)
			return nil, err
		}
		removal = &planned
		return planned.Transfer, nil
	})
	if err != nil {
		slog.Error("RemoveMember failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	s.metrics.MembersRemoved.WithLabelValues(string(policy)).Inc()
	if removal.Transfer != nil {
		s.metrics.TransfersRecorded.WithLabelValues(string(removal.Transfer.Kind)).Inc()
	}

	slog.Info("Member removed",
		"group_id", req.Msg.GroupID,
		"member_id", req.Msg.MemberID,
		"balance", removal.Balance.Balance,
		"redistributed", removal.Transfer != nil,
		"remaining", removal.Group.MemberIDs(),
	)

	group := removal.Group
	return connect.NewResponse(&api.RemoveMemberResponse{
		Group:    &group,
		Transfer: removal.Transfer,
	}), nil
}

// GetGroupBalances calculates balances across all expenses and transfers in a
// group together with the payments that would settle it.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetGroupBalances request received", "group_id", groupID)

	if groupID == "" {
		return nil, invalidArgument("group_id required")
	}

	snap, err := s.load(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupBalances failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	code := s.currency(ctx)
	plan := calculator.PlanSettlements(snap.balances)

	projected := snap.balances.Apply(plan)
	for _, bal := range projected.All() {
		if math.Abs(bal.Balance) >= calculator.Epsilon {
			slog.Warn("Settlement plan leaves a balance open", "group_id", groupID, "member_id", bal.MemberID, "balance", bal.Balance)
		}
	}

	settlements := make([]api.Settlement, len(plan))
	for i, p := range plan {
		slog.Debug("Settlement suggested", "from", p.FromName, "to", p.ToName, "amount", p.Amount)
		settlements[i] = api.Settlement{
			SettlementInstruction: p,
			Formatted:             currency.Format(p.Amount, code),
		}
	}

	slog.Info("GetGroupBalances successful",
		"group_id", groupID,
		"expenses_count", len(snap.expenses),
		"transfers_count", len(snap.transfers),
		"settlements_count", len(plan),
	)

	return connect.NewResponse(&api.GetGroupBalancesResponse{
		Currency:    code,
		Balances:    memberBalances(snap.balances, code),
		Settlements: settlements,
		Projected:   memberBalances(projected, code),
	}), nil
}

func memberBalances(balances calculator.Balances, code string) []api.MemberBalance {
	out := make([]api.MemberBalance, 0, balances.Len())
	for _, bal := range balances.All() {
		out = append(out, api.MemberBalance{
			Balance:   bal,
			Formatted: currency.Format(bal.Balance, code),
			Status:    balanceStatus(bal.Balance),
		})
	}
	return out
}

// GetGroupSummary reports the group's spending and one member's position.
func (s *GroupService) GetGroupSummary(ctx context.Context, req *connect.Request[api.GetGroupSummaryRequest]) (*connect.Response[api.GetGroupSummaryResponse], error) {
	slog.Info("GetGroupSummary request received", "group_id", req.Msg.GroupID, "member_id", req.Msg.MemberID)

	snap, err := s.load(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroupSummary failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	memberID := req.Msg.MemberID
	if memberID == "" {
		memberID = snap.group.CreatedBy
	}
	if !snap.group.HasMember(memberID) {
		return nil, connect.NewError(connect.CodeNotFound, memberNotFound(memberID))
	}

	summary := calculator.Summarize(*snap.group, snap.expenses, snap.balances, memberID)

	return connect.NewResponse(&api.GetGroupSummaryResponse{
		Currency:      s.currency(ctx),
		MemberID:      memberID,
		TotalExpenses: summary.TotalExpenses,
		YouOwe:        summary.YouOwe,
		OwedToYou:     summary.OwedToYou,
		Net:           summary.Net,
	}), nil
}

func balanceStatus(balance float64) string {
	switch {
	case math.Abs(balance) < calculator.Epsilon:
		return "settled"
	case balance > 0:
		return "owed"
	default:
		return "owes"
	}
}
