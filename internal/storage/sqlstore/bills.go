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

// CreateBill persists a new bill to the database.
func (s *Store) CreateBill(ctx context.Context, bill *models.Bill) error {
	// Generate IDs if not set
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.Title == "" {
		bill.Title = models.GenerateTitle(bill.Participants)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = s.exec(ctx, tx,
		"INSERT INTO bills (id, title, group_id, created_at) VALUES (?, ?, ?, ?)",
		bill.ID, bill.Title, nullable(bill.GroupID), bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	if err := s.insertBillChildren(ctx, tx, bill); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// insertBillChildren writes participants, items and explicit shares.
func (s *Store) insertBillChildren(ctx context.Context, tx *sql.Tx, bill *models.Bill) error {
	for pos, p := range bill.Participants {
		_, err := s.exec(ctx, tx,
			"INSERT INTO participants (bill_id, participant_id, name, is_payer, position) VALUES (?, ?, ?, ?, ?)",
			bill.ID, p.ID, p.Name, p.IsPayer, pos,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for pos := range bill.Items {
		item := &bill.Items[pos]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		_, err := s.exec(ctx, tx,
			"INSERT INTO items (id, bill_id, description, amount, explicit_shares, position) VALUES (?, ?, ?, ?, ?, ?)",
			item.ID, bill.ID, item.Description, int64(item.Amount), item.Shares != nil, pos,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		for participantID, share := range item.Shares {
			_, err = s.exec(ctx, tx,
				"INSERT INTO item_shares (item_id, participant_id, amount) VALUES (?, ?, ?)",
				item.ID, participantID, int64(share),
			)
			if err != nil {
				return fmt.Errorf("failed to insert item share: %w", err)
			}
		}
	}

	return nil
}

// GetBill retrieves a bill by ID, including participants, items and shares.
func (s *Store) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill := &models.Bill{}
	var groupID sql.NullString
	err := s.queryRow(ctx, s.db,
		"SELECT id, title, group_id, created_at FROM bills WHERE id = ?",
		billID,
	).Scan(&bill.ID, &bill.Title, &groupID, &bill.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("bill", billID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	bill.GroupID = groupID.String

	if bill.Participants, err = s.loadParticipants(ctx, billID); err != nil {
		return nil, err
	}
	if bill.Items, err = s.loadItems(ctx, billID); err != nil {
		return nil, err
	}

	return bill, nil
}

func (s *Store) loadParticipants(ctx context.Context, billID string) ([]models.Participant, error) {
	rows, err := s.query(ctx, s.db,
		"SELECT participant_id, name, is_payer FROM participants WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.IsPayer); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

func (s *Store) loadItems(ctx context.Context, billID string) ([]models.Item, error) {
	rows, err := s.query(ctx, s.db,
		"SELECT id, description, amount, explicit_shares FROM items WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	byID := make(map[string]int)
	for rows.Next() {
		var (
			item     models.Item
			amount   int64
			explicit bool
		)
		if err := rows.Scan(&item.ID, &item.Description, &amount, &explicit); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Amount = money.Money(amount)
		if explicit {
			item.Shares = make(map[string]money.Money)
		}
		byID[item.ID] = len(items)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	shareRows, err := s.query(ctx, s.db,
		`SELECT s.item_id, s.participant_id, s.amount
		 FROM item_shares s JOIN items i ON i.id = s.item_id
		 WHERE i.bill_id = ?`,
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get item shares: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		var (
			itemID, participantID string
			amount                int64
		)
		if err := shareRows.Scan(&itemID, &participantID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan item share: %w", err)
		}
		i, ok := byID[itemID]
		if !ok || items[i].Shares == nil {
			continue
		}
		items[i].Shares[participantID] = money.Money(amount)
	}
	if err := shareRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item shares: %w", err)
	}

	return items, nil
}

// UpdateBill replaces a bill's title, group, participants and items.
func (s *Store) UpdateBill(ctx context.Context, bill *models.Bill) error {
	if bill.Title == "" {
		bill.Title = models.GenerateTitle(bill.Participants)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := s.exec(ctx, tx,
		"UPDATE bills SET title = ?, group_id = ? WHERE id = ?",
		bill.Title, nullable(bill.GroupID), bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	if err := mustAffect(res, "bill", bill.ID); err != nil {
		return err
	}

	// Items cascade to item_shares.
	if _, err := s.exec(ctx, tx, "DELETE FROM items WHERE bill_id = ?", bill.ID); err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}
	if _, err := s.exec(ctx, tx, "DELETE FROM participants WHERE bill_id = ?", bill.ID); err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}

	if err := s.insertBillChildren(ctx, tx, bill); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteBill removes a bill. Participants, items, shares and bill-scoped
// settlements cascade.
func (s *Store) DeleteBill(ctx context.Context, billID string) error {
	res, err := s.exec(ctx, s.db, "DELETE FROM bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return mustAffect(res, "bill", billID)
}

// ListBillsByGroup retrieves all bills of a group, newest first.
func (s *Store) ListBillsByGroup(ctx context.Context, groupID string) ([]*models.Bill, error) {
	rows, err := s.query(ctx, s.db,
		"SELECT id FROM bills WHERE group_id = ? ORDER BY created_at DESC, id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills by group: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan bill id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	bills := make([]*models.Bill, 0, len(ids))
	for _, id := range ids {
		bill, err := s.GetBill(ctx, id)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}

	return bills, nil
}
