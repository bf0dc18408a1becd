// Package service implements the settleup.v1 Connect services on top of the
// settlement engine and a storage backend.
package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/rpc"
	"github.com/mmynk/settleup/internal/storage"
)

// Ensure BillService implements rpc.BillServiceHandler
var _ rpc.BillServiceHandler = (*BillService)(nil)

// BillService implements the Connect BillService.
type BillService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewBillService creates a new BillService with the given storage backend.
// m may be nil.
func NewBillService(store storage.Store, m *metrics.Metrics) *BillService {
	return &BillService{store: store, metrics: m}
}

// settle runs the engine on a bill and records the outcome.
func (s *BillService) settle(bill *models.Bill) (*calculator.Result, error) {
	result, err := bill.Settle()
	if err != nil {
		s.metrics.ObserveCalculation(0, err)
		return nil, err
	}
	s.metrics.ObserveCalculation(len(result.Transfers), nil)
	return result, nil
}

// billForCaller loads a bill the caller participates in.
func (s *BillService) billForCaller(ctx context.Context, billID, userID string) (*models.Bill, error) {
	if billID == "" {
		return nil, invalidArgument("bill_id required")
	}
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		slog.Error("Failed to get bill", "bill_id", billID, "error", err)
		return nil, toConnectError(err)
	}
	if !bill.HasParticipant(userID) {
		return nil, permissionDenied("you must be a participant of this bill")
	}
	return bill, nil
}

// checkGroupMember verifies the group exists and the caller belongs to it.
func checkGroupMember(ctx context.Context, store storage.Store, groupID, userID string) (*models.Group, error) {
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		slog.Error("Failed to get group", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}
	if !group.HasMember(userID) {
		return nil, permissionDenied("you must be a member of this group")
	}
	return group, nil
}

// autoAddParticipantsToGroup adds any bill participants not already in the group.
func (s *BillService) autoAddParticipantsToGroup(ctx context.Context, bill *models.Bill) {
	if bill.GroupID == "" {
		return
	}
	group, err := s.store.GetGroup(ctx, bill.GroupID)
	if err != nil {
		slog.Warn("autoAddParticipantsToGroup: failed to get group", "group_id", bill.GroupID, "error", err)
		return
	}

	var newMembers []string
	for _, p := range bill.Participants {
		if !group.HasMember(p.ID) && !slices.Contains(newMembers, p.ID) {
			newMembers = append(newMembers, p.ID)
		}
	}
	if len(newMembers) == 0 {
		return
	}

	if err := s.store.AddGroupMembers(ctx, bill.GroupID, newMembers); err != nil {
		slog.Error("autoAddParticipantsToGroup: failed to add members", "group_id", bill.GroupID, "error", err)
		return
	}
	slog.Info("Auto-added participants to group", "group_id", bill.GroupID, "new_members", newMembers)
}

// Calculate runs the settlement engine on an unsaved bill. It needs no caller identity.
func (s *BillService) Calculate(ctx context.Context, req *connect.Request[rpc.CalculateRequest]) (*connect.Response[rpc.CalculateResponse], error) {
	bill := billFromMessage("", "", "", req.Msg.Items, req.Msg.Participants)

	slog.Debug("Calculate request received",
		"items", len(bill.Items),
		"participants", len(bill.Participants),
	)

	result, err := s.settle(bill)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(rpc.NewCalculateResponse(result)), nil
}

// prepareBill validates a bill built from a request before it is stored.
func (s *BillService) prepareBill(ctx context.Context, bill *models.Bill, userID string) (*calculator.Result, error) {
	if err := bill.Validate(); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if !bill.HasParticipant(userID) {
		return nil, permissionDenied("you must be a participant to save this bill")
	}
	if bill.GroupID != "" {
		if _, err := checkGroupMember(ctx, s.store, bill.GroupID, userID); err != nil {
			return nil, err
		}
	}

	result, err := s.settle(bill)
	if err != nil {
		slog.Warn("Bill rejected by settlement engine", "error", err)
		return nil, toConnectError(err)
	}
	return result, nil
}

// CreateBill validates a bill, persists it and returns its settle-up plan.
func (s *BillService) CreateBill(ctx context.Context, req *connect.Request[rpc.CreateBillRequest]) (*connect.Response[rpc.CreateBillResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	bill := billFromMessage("", req.Msg.Title, req.Msg.GroupID, req.Msg.Items, req.Msg.Participants)
	result, err := s.prepareBill(ctx, bill, userID)
	if err != nil {
		return nil, err
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateBill(ctx, bill); err != nil {
		slog.Error("CreateBill failed", "error", err)
		return nil, toConnectError(err)
	}

	s.autoAddParticipantsToGroup(ctx, bill)

	return connect.NewResponse(&rpc.CreateBillResponse{
		BillID: bill.ID,
		Result: rpc.NewCalculateResponse(result),
	}), nil
}

// GetBill retrieves a bill with its current settle-up plan.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[rpc.GetBillRequest]) (*connect.Response[rpc.GetBillResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	bill, err := s.billForCaller(ctx, req.Msg.BillID, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.settle(bill)
	if err != nil {
		slog.Error("Stored bill failed to settle", "bill_id", bill.ID, "error", err)
		return nil, toConnectError(err)
	}

	msg := toBillMessage(bill)
	if bill.GroupID != "" {
		if group, err := s.store.GetGroup(ctx, bill.GroupID); err == nil {
			msg.GroupName = group.Name
		}
	}

	return connect.NewResponse(&rpc.GetBillResponse{
		Bill:   msg,
		Result: rpc.NewCalculateResponse(result),
	}), nil
}

// UpdateBill replaces the contents of an existing bill.
func (s *BillService) UpdateBill(ctx context.Context, req *connect.Request[rpc.UpdateBillRequest]) (*connect.Response[rpc.UpdateBillResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	// Permission is checked against the stored participants.
	if _, err := s.billForCaller(ctx, req.Msg.BillID, userID); err != nil {
		return nil, err
	}

	bill := billFromMessage(req.Msg.BillID, req.Msg.Title, req.Msg.GroupID, req.Msg.Items, req.Msg.Participants)
	result, err := s.prepareBill(ctx, bill, userID)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateBill(ctx, bill); err != nil {
		slog.Error("UpdateBill failed", "bill_id", bill.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.autoAddParticipantsToGroup(ctx, bill)

	return connect.NewResponse(&rpc.UpdateBillResponse{
		BillID: bill.ID,
		Result: rpc.NewCalculateResponse(result),
	}), nil
}

// DeleteBill deletes a bill and the settlements recorded against it.
func (s *BillService) DeleteBill(ctx context.Context, req *connect.Request[rpc.DeleteBillRequest]) (*connect.Response[rpc.DeleteBillResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.billForCaller(ctx, req.Msg.BillID, userID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteBill(ctx, req.Msg.BillID); err != nil {
		slog.Error("DeleteBill failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.DeleteBillResponse{}), nil
}

// ListBillsByGroup retrieves all bills associated with a group.
func (s *BillService) ListBillsByGroup(ctx context.Context, req *connect.Request[rpc.ListBillsByGroupRequest]) (*connect.Response[rpc.ListBillsByGroupResponse], error) {
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

	bills, err := s.store.ListBillsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListBillsByGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	summaries := make([]rpc.BillSummary, len(bills))
	for i, bill := range bills {
		summaries[i] = toBillSummary(bill)
	}

	return connect.NewResponse(&rpc.ListBillsByGroupResponse{Bills: summaries}), nil
}

// CalculateBill returns balances and suggested settlements for a stored bill,
// optionally after deducting settlements already recorded against it.
func (s *BillService) CalculateBill(ctx context.Context, req *connect.Request[rpc.CalculateBillRequest]) (*connect.Response[rpc.CalculateResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	bill, err := s.billForCaller(ctx, req.Msg.BillID, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.settle(bill)
	if err != nil {
		return nil, toConnectError(err)
	}

	if !req.Msg.ApplyRecorded {
		return connect.NewResponse(rpc.NewCalculateResponse(result)), nil
	}

	recorded, err := s.store.ListSettlementsByBill(ctx, bill.ID)
	if err != nil {
		slog.Error("CalculateBill: failed to list settlements", "bill_id", bill.ID, "error", err)
		return nil, toConnectError(err)
	}

	balances, err := calculator.ApplyTransfers(result.Balances, models.Transfers(recorded))
	if errors.Is(err, calculator.ErrUnknownParticipant) {
		return nil, connect.NewError(connect.CodeFailedPrecondition,
			errors.New("recorded settlements reference people no longer on the bill"))
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	remaining, err := calculator.MinimizeTransfers(balances)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.CalculateResponse{
		Total:       result.Total,
		Balances:    rpc.NewBalances(balances),
		Settlements: rpc.NewTransfers(remaining),
	}), nil
}
