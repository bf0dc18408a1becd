package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/rpc"
	"github.com/mmynk/settleup/internal/storage"
)

var errDiskFull = errors.New("disk full")

func storedBill() *models.Bill {
	return &models.Bill{
		ID:           "b1",
		GroupID:      "g1",
		Items:        []models.Item{{ID: "i1", Description: "Taxi", Amount: 3000}},
		Participants: []models.Participant{{ID: "alice", IsPayer: true}, {ID: "bob"}},
	}
}

func TestBillService_StoreErrors(t *testing.T) {
	ctx := middleware.WithUserID(context.Background(), "alice")

	t.Run("get bill backend failure is internal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := storage.NewMockStore(ctrl)
		store.EXPECT().GetBill(gomock.Any(), "b1").Return(nil, fmt.Errorf("query: %w", errDiskFull))

		_, err := NewBillService(store, nil).GetBill(ctx, connect.NewRequest(&rpc.GetBillRequest{BillID: "b1"}))
		assert.Equal(t, connect.CodeInternal, connect.CodeOf(err))
	})

	t.Run("wrapped not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := storage.NewMockStore(ctrl)
		store.EXPECT().GetBill(gomock.Any(), "b1").Return(nil, fmt.Errorf("bill b1: %w", storage.ErrNotFound))

		_, err := NewBillService(store, nil).CalculateBill(ctx, connect.NewRequest(&rpc.CalculateBillRequest{BillID: "b1"}))
		assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
	})

	t.Run("create bill is not saved when invalid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := storage.NewMockStore(ctrl)
		// No CreateBill expectation: the engine rejects the bill first.

		_, err := NewBillService(store, nil).CreateBill(ctx, connect.NewRequest(&rpc.CreateBillRequest{
			Items:        []rpc.Item{{Description: "x", Amount: 100}},
			Participants: []rpc.Participant{{ID: "alice", IsPayer: true}, {ID: "bob", IsPayer: true}},
		}))
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})

	t.Run("create bill backend failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := storage.NewMockStore(ctrl)
		store.EXPECT().CreateBill(gomock.Any(), gomock.Any()).Return(errDiskFull)

		_, err := NewBillService(store, nil).CreateBill(ctx, connect.NewRequest(&rpc.CreateBillRequest{
			Items:        []rpc.Item{{Description: "x", Amount: 100}},
			Participants: []rpc.Participant{{ID: "alice", IsPayer: true}},
		}))
		assert.Equal(t, connect.CodeInternal, connect.CodeOf(err))
	})

	t.Run("recorded settlement for departed participant", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := storage.NewMockStore(ctrl)
		store.EXPECT().GetBill(gomock.Any(), "b1").Return(storedBill(), nil)
		store.EXPECT().ListSettlementsByBill(gomock.Any(), "b1").Return([]*models.Settlement{
			{ID: "s1", BillID: "b1", FromID: "carol", ToID: "alice", Amount: 500},
		}, nil)

		_, err := NewBillService(store, nil).CalculateBill(ctx, connect.NewRequest(&rpc.CalculateBillRequest{BillID: "b1", ApplyRecorded: true}))
		assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))
	})

	t.Run("auto-add failure does not fail the request", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := storage.NewMockStore(ctrl)
		group := &models.Group{ID: "g1", Members: []string{"alice"}}
		store.EXPECT().GetGroup(gomock.Any(), "g1").Return(group, nil).Times(2)
		store.EXPECT().CreateBill(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *models.Bill) error {
			b.ID = "b2"
			return nil
		})
		store.EXPECT().AddGroupMembers(gomock.Any(), "g1", []string{"bob"}).Return(errDiskFull)

		resp, err := NewBillService(store, nil).CreateBill(ctx, connect.NewRequest(&rpc.CreateBillRequest{
			GroupID:      "g1",
			Items:        []rpc.Item{{Description: "x", Amount: 100}},
			Participants: []rpc.Participant{{ID: "alice", IsPayer: true}, {ID: "bob"}},
		}))
		assert.NoError(t, err)
		assert.Equal(t, "b2", resp.Msg.BillID)
	})
}

func TestGroupService_StoreErrors(t *testing.T) {
	ctx := middleware.WithUserID(context.Background(), "alice")

	ctrl := gomock.NewController(t)
	store := storage.NewMockStore(ctrl)
	store.EXPECT().GetGroup(gomock.Any(), "g1").Return(&models.Group{ID: "g1", Members: []string{"alice"}}, nil)
	store.EXPECT().ListBillsByGroup(gomock.Any(), "g1").Return(nil, errDiskFull)

	_, err := NewGroupService(store, nil).GetGroupBalances(ctx, connect.NewRequest(&rpc.GetGroupBalancesRequest{GroupID: "g1"}))
	assert.Equal(t, connect.CodeInternal, connect.CodeOf(err))

	t.Run("delete group backend failure is internal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := storage.NewMockStore(ctrl)
		store.EXPECT().GetGroup(gomock.Any(), "g1").Return(&models.Group{ID: "g1", Members: []string{"alice"}}, nil)
		store.EXPECT().DeleteGroup(gomock.Any(), "g1").Return(errDiskFull)

		_, err := NewGroupService(store, nil).DeleteGroup(ctx, connect.NewRequest(&rpc.DeleteGroupRequest{GroupID: "g1"}))
		assert.Equal(t, connect.CodeInternal, connect.CodeOf(err))
	})

	t.Run("update group keeps the caller", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := storage.NewMockStore(ctrl)
		store.EXPECT().GetGroup(gomock.Any(), "g1").Return(&models.Group{ID: "g1", Members: []string{"alice"}}, nil)
		store.EXPECT().UpdateGroup(gomock.Any(), &models.Group{ID: "g1", Name: "New", Members: []string{"bob", "alice"}}).Return(nil)
		store.EXPECT().GetGroup(gomock.Any(), "g1").Return(&models.Group{ID: "g1", Name: "New", Members: []string{"alice", "bob"}}, nil)

		resp, err := NewGroupService(store, nil).UpdateGroup(ctx, connect.NewRequest(&rpc.UpdateGroupRequest{
			GroupID: "g1", Name: "New", Members: []string{"bob"},
		}))
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob"}, resp.Msg.Group.Members)
	})
}

func TestToConnectError(t *testing.T) {
	passthrough := connect.NewError(connect.CodeAborted, errors.New("x"))
	assert.Equal(t, connect.CodeAborted, connect.CodeOf(toConnectError(passthrough)))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(toConnectError(fmt.Errorf("group g: %w", storage.ErrNotFound))))
	assert.Equal(t, connect.CodeInternal, connect.CodeOf(toConnectError(errDiskFull)))
}
