package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/rpc"
	"github.com/mmynk/settleup/internal/storage"
)

const maxGroupNameLength = 100

// Ensure GroupService implements rpc.GroupServiceHandler
var _ rpc.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService
type GroupService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewGroupService creates a new GroupService with the given storage backend.
// m may be nil.
func NewGroupService(store storage.Store, m *metrics.Metrics) *GroupService {
	return &GroupService{store: store, metrics: m}
}

// cleanMembers trims, drops blanks and de-duplicates member ids, keeping order.
func cleanMembers(members []string) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		m = strings.TrimSpace(m)
		if m != "" && !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out
}

// CreateGroup creates a new group. The caller always becomes a member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[rpc.CreateGroupRequest]) (*connect.Response[rpc.CreateGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("group name required")
	}
	if len(name) > maxGroupNameLength {
		return nil, invalidArgument("group name must be at most %d characters", maxGroupNameLength)
	}

	members := cleanMembers(req.Msg.Members)
	if !slices.Contains(members, userID) {
		members = append(members, userID)
	}

	group := &models.Group{Name: name, Members: members}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))

	return connect.NewResponse(&rpc.CreateGroupResponse{Group: toGroupMessage(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[rpc.GetGroupRequest]) (*connect.Response[rpc.GetGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}

	group, err := checkGroupMember(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&rpc.GetGroupResponse{Group: toGroupMessage(group)}), nil
}

// ListGroups retrieves the caller's groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[rpc.ListGroupsRequest]) (*connect.Response[rpc.ListGroupsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroups(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]rpc.Group, len(groups))
	for i, g := range groups {
		out[i] = *toGroupMessage(g)
	}

	return connect.NewResponse(&rpc.ListGroupsResponse{Groups: out}), nil
}

// UpdateGroup renames a group and replaces its members. The caller must be a
// member and always stays one.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[rpc.UpdateGroupRequest]) (*connect.Response[rpc.UpdateGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("group name required")
	}
	if len(name) > maxGroupNameLength {
		return nil, invalidArgument("group name must be at most %d characters", maxGroupNameLength)
	}

	if _, err := checkGroupMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	members := cleanMembers(req.Msg.Members)
	if !slices.Contains(members, userID) {
		members = append(members, userID)
	}

	group := &models.Group{ID: req.Msg.GroupID, Name: name, Members: members}
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	// Fetch updated group to get CreatedAt
	updated, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		slog.Error("Failed to fetch updated group", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group updated", "group_id", group.ID, "members_count", len(updated.Members))

	return connect.NewResponse(&rpc.UpdateGroupResponse{Group: toGroupMessage(updated)}), nil
}

// DeleteGroup removes a group the caller belongs to. Settlements recorded
// against the group go with it; its bills remain, no longer grouped.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[rpc.DeleteGroupRequest]) (*connect.Response[rpc.DeleteGroupResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}

	if _, err := checkGroupMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&rpc.DeleteGroupResponse{}), nil
}

// AddMembers adds people to a group the caller belongs to.
func (s *GroupService) AddMembers(ctx context.Context, req *connect.Request[rpc.AddMembersRequest]) (*connect.Response[rpc.AddMembersResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}

	members := cleanMembers(req.Msg.Members)
	if len(members) == 0 {
		return nil, invalidArgument("at least one member required")
	}

	if _, err := checkGroupMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	if err := s.store.AddGroupMembers(ctx, req.Msg.GroupID, members); err != nil {
		slog.Error("AddMembers failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.AddMembersResponse{Group: toGroupMessage(group)}), nil
}

// GetGroupBalances calculates net balances across all bills in a group, after
// every recorded payment, and the transfers that settle them.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[rpc.GetGroupBalancesRequest]) (*connect.Response[rpc.GetGroupBalancesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	groupID := req.Msg.GroupID
	if groupID == "" {
		return nil, invalidArgument("group_id required")
	}

	if _, err := checkGroupMember(ctx, s.store, groupID, userID); err != nil {
		return nil, err
	}

	bills, err := s.store.ListBillsByGroup(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupBalances failed - could not list bills", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	payments, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupBalances failed - could not list settlements", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	inputs := make([]calculator.BillInput, len(bills))
	for i, bill := range bills {
		inputs[i] = bill.EngineInput()

		billPayments, err := s.store.ListSettlementsByBill(ctx, bill.ID)
		if err != nil {
			slog.Error("GetGroupBalances failed - could not list bill settlements", "bill_id", bill.ID, "error", err)
			return nil, toConnectError(err)
		}
		payments = append(payments, billPayments...)
	}

	balances, err := calculator.GroupBalances(inputs, models.Transfers(payments))
	if err != nil {
		s.metrics.ObserveCalculation(0, err)
		slog.Error("GetGroupBalances failed - calculation error", "group_id", groupID, "error", err)
		return nil, toConnectError(fmt.Errorf("group %s: %w", groupID, err))
	}

	transfers, err := calculator.MinimizeTransfers(balances)
	s.metrics.ObserveCalculation(len(transfers), err)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("GetGroupBalances successful",
		"group_id", groupID,
		"bills_count", len(bills),
		"payments_count", len(payments),
		"members_count", len(balances),
		"transfers_count", len(transfers),
	)

	return connect.NewResponse(&rpc.GetGroupBalancesResponse{
		Balances:    rpc.NewBalances(balances),
		Settlements: rpc.NewTransfers(transfers),
	}), nil
}
