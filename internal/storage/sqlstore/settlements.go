package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/money"
)

const settlementColumns = "id, bill_id, group_id, from_id, to_id, amount, created_at, created_by, note"

// CreateSettlement persists a new settlement to the database.
func (s *Store) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	// Generate ID if not set
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	_, err := s.exec(ctx, s.db,
		"INSERT INTO settlements ("+settlementColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		settlement.ID, nullable(settlement.BillID), nullable(settlement.GroupID),
		settlement.FromID, settlement.ToID, int64(settlement.Amount),
		settlement.CreatedAt, settlement.CreatedBy, nullable(settlement.Note),
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSettlement(row scanner) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var (
		billID, groupID, note sql.NullString
		amount                int64
	)
	err := row.Scan(&settlement.ID, &billID, &groupID, &settlement.FromID, &settlement.ToID,
		&amount, &settlement.CreatedAt, &settlement.CreatedBy, &note)
	if err != nil {
		return nil, err
	}

	settlement.BillID = billID.String
	settlement.GroupID = groupID.String
	settlement.Note = note.String
	settlement.Amount = money.Money(amount)
	return settlement, nil
}

// GetSettlement retrieves a settlement by ID.
func (s *Store) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement, err := scanSettlement(s.queryRow(ctx, s.db,
		"SELECT "+settlementColumns+" FROM settlements WHERE id = ?",
		settlementID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("settlement", settlementID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	return settlement, nil
}

// ListSettlementsByBill retrieves all settlements recorded against a bill.
func (s *Store) ListSettlementsByBill(ctx context.Context, billID string) ([]*models.Settlement, error) {
	return s.listSettlements(ctx, "bill_id", billID)
}

// ListSettlementsByGroup retrieves all settlements recorded against a group.
func (s *Store) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	return s.listSettlements(ctx, "group_id", groupID)
}

// listSettlements lists by a fixed scope column, oldest first so that replaying
// them is stable.
func (s *Store) listSettlements(ctx context.Context, column, id string) ([]*models.Settlement, error) {
	rows, err := s.query(ctx, s.db,
		"SELECT "+settlementColumns+" FROM settlements WHERE "+column+" = ? ORDER BY created_at, id",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}

// DeleteSettlement removes a settlement by ID.
func (s *Store) DeleteSettlement(ctx context.Context, settlementID string) error {
	res, err := s.exec(ctx, s.db, "DELETE FROM settlements WHERE id = ?", settlementID)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	return mustAffect(res, "settlement", settlementID)
}
