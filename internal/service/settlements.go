package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/rpc"
)

// checkSettlementScope verifies the caller may see the bill or group a
// settlement belongs to, and returns the people allowed on either side.
func (s *BillService) checkSettlementScope(ctx context.Context, billID, groupID, userID string) (func(string) bool, error) {
	if billID != "" {
		bill, err := s.billForCaller(ctx, billID, userID)
		if err != nil {
			return nil, err
		}
		return bill.HasParticipant, nil
	}

	group, err := checkGroupMember(ctx, s.store, groupID, userID)
	if err != nil {
		return nil, err
	}
	return group.HasMember, nil
}

// RecordSettlement records a payment that was made outside the app.
func (s *BillService) RecordSettlement(ctx context.Context, req *connect.Request[rpc.RecordSettlementRequest]) (*connect.Response[rpc.RecordSettlementResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	settlement := &models.Settlement{
		BillID:    req.Msg.BillID,
		GroupID:   req.Msg.GroupID,
		FromID:    req.Msg.FromID,
		ToID:      req.Msg.ToID,
		Amount:    req.Msg.Amount,
		CreatedBy: userID,
		Note:      req.Msg.Note,
	}
	if err := settlement.Validate(); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	isMember, err := s.checkSettlementScope(ctx, settlement.BillID, settlement.GroupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember(settlement.FromID) || !isMember(settlement.ToID) {
		return nil, invalidArgument("both sides of a settlement must belong to the bill or group")
	}

	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("RecordSettlement failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"from", settlement.FromID,
		"to", settlement.ToID,
		"amount", settlement.Amount,
	)

	return connect.NewResponse(&rpc.RecordSettlementResponse{
		Settlement: toSettlementMessage(settlement),
	}), nil
}

// ListSettlements lists the settlements of exactly one bill or group.
func (s *BillService) ListSettlements(ctx context.Context, req *connect.Request[rpc.ListSettlementsRequest]) (*connect.Response[rpc.ListSettlementsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if (req.Msg.BillID == "") == (req.Msg.GroupID == "") {
		return nil, invalidArgument("exactly one of bill_id or group_id is required")
	}

	if _, err := s.checkSettlementScope(ctx, req.Msg.BillID, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	var settlements []*models.Settlement
	if req.Msg.BillID != "" {
		settlements, err = s.store.ListSettlementsByBill(ctx, req.Msg.BillID)
	} else {
		settlements, err = s.store.ListSettlementsByGroup(ctx, req.Msg.GroupID)
	}
	if err != nil {
		slog.Error("ListSettlements failed", "bill_id", req.Msg.BillID, "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]rpc.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = *toSettlementMessage(st)
	}

	return connect.NewResponse(&rpc.ListSettlementsResponse{Settlements: out}), nil
}

// DeleteSettlement removes a settlement. Only its recorder or either party may delete it.
func (s *BillService) DeleteSettlement(ctx context.Context, req *connect.Request[rpc.DeleteSettlementRequest]) (*connect.Response[rpc.DeleteSettlementResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.SettlementID == "" {
		return nil, invalidArgument("settlement_id required")
	}

	settlement, err := s.store.GetSettlement(ctx, req.Msg.SettlementID)
	if err != nil {
		slog.Error("DeleteSettlement: failed to get settlement", "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, toConnectError(err)
	}
	if userID != settlement.CreatedBy && userID != settlement.FromID && userID != settlement.ToID {
		return nil, permissionDenied("only the recorder or a party to the settlement can delete it")
	}

	if err := s.store.DeleteSettlement(ctx, settlement.ID); err != nil {
		slog.Error("DeleteSettlement failed", "settlement_id", settlement.ID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.DeleteSettlementResponse{}), nil
}
