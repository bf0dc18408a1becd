package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/money"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/internal/storage/sqlstore"
)

func newTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_Bills(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateBill generates ID and title", func(t *testing.T) {
		bill := &models.Bill{
			Participants: []models.Participant{
				{ID: "alice", Name: "Alice", IsPayer: true},
				{ID: "bob", Name: "Bob"},
			},
			Items: []models.Item{
				{Description: "Pizza", Amount: 2000},
			},
		}

		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		if bill.ID == "" {
			t.Error("Expected bill ID to be generated")
		}
		if bill.Title != "Split with Alice, Bob" {
			t.Errorf("Title = %q, want generated title", bill.Title)
		}
		if bill.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
		if bill.Items[0].ID == "" {
			t.Error("Expected item ID to be generated")
		}
	})

	t.Run("GetBill round-trips participants, items and shares", func(t *testing.T) {
		original := &models.Bill{
			Title: "Test Dinner",
			Participants: []models.Participant{
				{ID: "diana", IsPayer: true},
				{ID: "charlie", Name: "Charlie"},
			},
			Items: []models.Item{
				{Description: "Steak", Amount: 3000, Shares: map[string]money.Money{"charlie": 3000}},
				{Description: "Salad", Amount: 2000},
				{Description: "Voucher", Amount: -500},
				{Description: "Free bread", Amount: 0, Shares: map[string]money.Money{}},
			},
		}
		if err := store.CreateBill(ctx, original); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		got, err := store.GetBill(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}

		if got.Title != "Test Dinner" {
			t.Errorf("Title mismatch: got %s", got.Title)
		}
		if len(got.Participants) != 2 || got.Participants[0].ID != "diana" || !got.Participants[0].IsPayer {
			t.Errorf("Participants mismatch: %+v", got.Participants)
		}
		if got.Participants[1].Name != "Charlie" || got.Participants[1].IsPayer {
			t.Errorf("Second participant mismatch: %+v", got.Participants[1])
		}
		if len(got.Items) != 4 {
			t.Fatalf("Items count mismatch: got %d, want 4", len(got.Items))
		}
		if got.Items[0].Shares["charlie"] != 3000 {
			t.Errorf("Explicit share lost: %+v", got.Items[0].Shares)
		}
		if got.Items[1].Shares != nil {
			t.Errorf("Even item should have nil shares, got %+v", got.Items[1].Shares)
		}
		if got.Items[2].Amount != -500 {
			t.Errorf("Negative amount mismatch: got %d", got.Items[2].Amount)
		}
		if got.Items[3].Shares == nil {
			t.Error("Empty explicit shares should stay non-nil")
		}
		if got.Total() != original.Total() {
			t.Errorf("Total mismatch: got %s, want %s", got.Total(), original.Total())
		}
	})

	t.Run("GetBill returns ErrNotFound for nonexistent bill", func(t *testing.T) {
		_, err := store.GetBill(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateBill replaces children", func(t *testing.T) {
		bill := &models.Bill{
			Title:        "Before",
			Participants: []models.Participant{{ID: "a", IsPayer: true}, {ID: "b"}},
			Items:        []models.Item{{Description: "One", Amount: 100}},
		}
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		bill.Title = "After"
		bill.Participants = []models.Participant{{ID: "a"}, {ID: "c", IsPayer: true}}
		bill.Items = []models.Item{
			{Description: "Two", Amount: 200},
			{Description: "Three", Amount: 300, Shares: map[string]money.Money{"a": 300}},
		}
		if err := store.UpdateBill(ctx, bill); err != nil {
			t.Fatalf("UpdateBill failed: %v", err)
		}

		got, err := store.GetBill(ctx, bill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if got.Title != "After" || got.PayerID() != "c" || len(got.Items) != 2 {
			t.Errorf("Update not applied: %+v", got)
		}
	})

	t.Run("UpdateBill on missing bill", func(t *testing.T) {
		err := store.UpdateBill(ctx, &models.Bill{ID: "missing", Title: "x"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteBill", func(t *testing.T) {
		bill := &models.Bill{
			Participants: []models.Participant{{ID: "a", IsPayer: true}},
			Items:        []models.Item{{Description: "x", Amount: 1}},
		}
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		if err := store.DeleteBill(ctx, bill.ID); err != nil {
			t.Fatalf("DeleteBill failed: %v", err)
		}
		if _, err := store.GetBill(ctx, bill.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected deleted bill to be gone, got %v", err)
		}
		if err := store.DeleteBill(ctx, bill.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestSQLiteStore_Groups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Roommates", Members: []string{"bob", "alice"}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	other := &models.Group{Name: "Work", Members: []string{"carol"}}
	if err := store.CreateGroup(ctx, other); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	got, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(got.Members) != 2 || got.Members[0] != "alice" {
		t.Errorf("Members mismatch: %v", got.Members)
	}

	if err := store.AddGroupMembers(ctx, group.ID, []string{"alice", "dave"}); err != nil {
		t.Fatalf("AddGroupMembers failed: %v", err)
	}
	got, _ = store.GetGroup(ctx, group.ID)
	if len(got.Members) != 3 {
		t.Errorf("Expected 3 members after add, got %v", got.Members)
	}

	if err := store.AddGroupMembers(ctx, "missing", []string{"x"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	mine, err := store.ListGroups(ctx, "dave")
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != group.ID {
		t.Errorf("ListGroups(dave) = %+v", mine)
	}

	all, err := store.ListGroups(ctx, "")
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 groups, got %d", len(all))
	}

	bill := &models.Bill{
		GroupID:      group.ID,
		Participants: []models.Participant{{ID: "alice", IsPayer: true}, {ID: "bob"}},
		Items:        []models.Item{{Description: "Rent", Amount: 100000}},
	}
	if err := store.CreateBill(ctx, bill); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	bills, err := store.ListBillsByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListBillsByGroup failed: %v", err)
	}
	if len(bills) != 1 || bills[0].Items[0].Amount != 100000 {
		t.Errorf("ListBillsByGroup = %+v", bills)
	}
}

func TestSQLiteStore_Settlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bill := &models.Bill{
		Participants: []models.Participant{{ID: "alice", IsPayer: true}, {ID: "bob"}},
		Items:        []models.Item{{Description: "Taxi", Amount: 3000}},
	}
	if err := store.CreateBill(ctx, bill); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	s := &models.Settlement{BillID: bill.ID, FromID: "bob", ToID: "alice", Amount: 1500, CreatedBy: "bob", Note: "cash"}
	if err := store.CreateSettlement(ctx, s); err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}
	if s.ID == "" || s.CreatedAt == 0 {
		t.Error("Expected ID and CreatedAt to be set")
	}

	got, err := store.GetSettlement(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetSettlement failed: %v", err)
	}
	if got.Amount != 1500 || got.Note != "cash" || got.GroupID != "" || got.BillID != bill.ID {
		t.Errorf("Settlement mismatch: %+v", got)
	}

	list, err := store.ListSettlementsByBill(ctx, bill.ID)
	if err != nil {
		t.Fatalf("ListSettlementsByBill failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 settlement, got %d", len(list))
	}

	if err := store.DeleteSettlement(ctx, s.ID); err != nil {
		t.Fatalf("DeleteSettlement failed: %v", err)
	}
	if _, err := store.GetSettlement(ctx, s.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	// Deleting a bill cascades to its settlements.
	s2 := &models.Settlement{BillID: bill.ID, FromID: "bob", ToID: "alice", Amount: 100, CreatedBy: "bob"}
	if err := store.CreateSettlement(ctx, s2); err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}
	if err := store.DeleteBill(ctx, bill.ID); err != nil {
		t.Fatalf("DeleteBill failed: %v", err)
	}
	if _, err := store.GetSettlement(ctx, s2.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected cascade delete, got %v", err)
	}
}

func TestSQLiteStore_UpdateAndDeleteGroup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Flat", Members: []string{"alice", "bob", "carol"}}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	updated := &models.Group{ID: group.ID, Name: "Old Flat", Members: []string{"dave", "alice"}}
	if err := store.UpdateGroup(ctx, updated); err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}
	got, err := store.GetGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got.Name != "Old Flat" || len(got.Members) != 2 || got.Members[0] != "alice" || got.Members[1] != "dave" {
		t.Errorf("Update not applied: %+v", got)
	}
	if got.CreatedAt != group.CreatedAt {
		t.Errorf("CreatedAt changed: got %d, want %d", got.CreatedAt, group.CreatedAt)
	}

	if err := store.UpdateGroup(ctx, &models.Group{ID: "missing", Name: "x"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	bill := &models.Bill{
		GroupID:      group.ID,
		Participants: []models.Participant{{ID: "alice", IsPayer: true}, {ID: "dave"}},
		Items:        []models.Item{{Description: "Rent", Amount: 100000}},
	}
	if err := store.CreateBill(ctx, bill); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	payment := &models.Settlement{GroupID: group.ID, FromID: "dave", ToID: "alice", Amount: 500, CreatedBy: "dave"}
	if err := store.CreateSettlement(ctx, payment); err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}

	if err := store.DeleteGroup(ctx, group.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}
	if _, err := store.GetGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected deleted group to be gone, got %v", err)
	}
	if _, err := store.GetSettlement(ctx, payment.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected group settlement to cascade, got %v", err)
	}
	mine, err := store.ListGroups(ctx, "alice")
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(mine) != 0 {
		t.Errorf("Expected no groups for alice, got %+v", mine)
	}

	kept, err := store.GetBill(ctx, bill.ID)
	if err != nil {
		t.Fatalf("Expected bill to survive group delete: %v", err)
	}
	if kept.GroupID != "" {
		t.Errorf("Expected bill to be detached, got group %q", kept.GroupID)
	}

	if err := store.DeleteGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}
