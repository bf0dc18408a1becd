// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/settleup/internal/models"
)

// ErrNotFound is returned (wrapped) when a bill, group or settlement does not exist.
var ErrNotFound = errors.New("not found")

//go:generate mockgen -source=store.go -destination=store_mock.go -package=storage

// Store defines the interface for persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	// CreateBill persists a new bill. ID, CreatedAt, item IDs and an empty
	// Title are filled in by the store.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill with its participants, items and shares.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// UpdateBill replaces the bill's title, group, participants and items.
	UpdateBill(ctx context.Context, bill *models.Bill) error

	// DeleteBill removes a bill and everything that belongs to it.
	DeleteBill(ctx context.Context, billID string) error

	// ListBillsByGroup retrieves all bills of a group, newest first.
	ListBillsByGroup(ctx context.Context, groupID string) ([]*models.Bill, error)

	// CreateGroup persists a new group. ID and CreatedAt are filled in by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves the groups that have memberID as a member.
	ListGroups(ctx context.Context, memberID string) ([]*models.Group, error)

	// UpdateGroup replaces a group's name and member list.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group, its members and group-scoped settlements.
	// Its bills are kept and detached from the group.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddGroupMembers adds members to a group, ignoring ones already present.
	AddGroupMembers(ctx context.Context, groupID string, members []string) error

	// CreateSettlement records a completed transfer.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByBill retrieves settlements recorded against a bill.
	ListSettlementsByBill(ctx context.Context, billID string) ([]*models.Settlement, error)

	// ListSettlementsByGroup retrieves settlements recorded against a group.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// DeleteSettlement removes a settlement by ID.
	DeleteSettlement(ctx context.Context, settlementID string) error

	// Close releases any resources held by the store.
	Close() error
}
