package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/money"
)

const maxTitleLength = 200

var (
	ErrTitleTooLong     = errors.New("title must be at most 200 characters")
	ErrEmptyParticipant = errors.New("participant id must not be empty")
	ErrEmptyDescription = errors.New("item description must not be empty")
	ErrEmptyShareHolder = errors.New("share participant id must not be empty")
)

// Bill is a shared expense with priced items and a resolved participant list.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// Title is the human-readable name; generated from participants when empty.
	Title string

	// GroupID optionally links the bill to a group.
	GroupID string

	// Items are the priced lines of the bill. Their amounts sum to the total.
	Items []Item

	// Participants is the final, resolved participant list. Exactly one is the payer.
	Participants []Participant

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64
}

// Participant is one person on a bill.
type Participant struct {
	// ID identifies the person within the bill (and across a group's bills).
	ID string

	// Name is an optional display name.
	Name string

	// IsPayer marks the person who fronted the money.
	IsPayer bool
}

// Item is a single priced line of a bill.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Description is the name of the item (e.g., "Pizza", "Discount").
	Description string

	// Amount is the item's total. Negative amounts model discounts.
	Amount money.Money

	// Shares optionally assigns the amount per participant id. Nil splits the
	// item evenly across all participants.
	Shares map[string]money.Money
}

// Total is the sum of all item amounts.
func (b *Bill) Total() money.Money {
	var total money.Money
	for _, item := range b.Items {
		total += item.Amount
	}
	return total
}

// PayerID returns the first participant flagged as payer, or "" if none is.
func (b *Bill) PayerID() string {
	for _, p := range b.Participants {
		if p.IsPayer {
			return p.ID
		}
	}
	return ""
}

// ParticipantIDs returns the participant ids in bill order.
func (b *Bill) ParticipantIDs() []string {
	ids := make([]string, len(b.Participants))
	for i, p := range b.Participants {
		ids[i] = p.ID
	}
	return ids
}

// HasParticipant reports whether id is on the bill.
func (b *Bill) HasParticipant(id string) bool {
	for _, p := range b.Participants {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Validate checks the shape of the bill. Payer count, duplicate participants and
// share sums are engine preconditions and are reported by the calculator.
func (b *Bill) Validate() error {
	if len(b.Title) > maxTitleLength {
		return ErrTitleTooLong
	}
	for _, p := range b.Participants {
		if strings.TrimSpace(p.ID) == "" {
			return ErrEmptyParticipant
		}
	}
	for i, item := range b.Items {
		if strings.TrimSpace(item.Description) == "" {
			return fmt.Errorf("item %d: %w", i+1, ErrEmptyDescription)
		}
		for id := range item.Shares {
			if strings.TrimSpace(id) == "" {
				return fmt.Errorf("item %d: %w", i+1, ErrEmptyShareHolder)
			}
		}
	}
	return nil
}

// EngineInput converts the bill into calculator input. It is the one place a
// stored bill is turned into balances, so every caller derives totals the same way.
func (b *Bill) EngineInput() calculator.BillInput {
	items := make([]calculator.BillItem, len(b.Items))
	for i, item := range b.Items {
		items[i] = calculator.BillItem{
			Description: item.Description,
			Amount:      item.Amount,
			Shares:      item.Shares,
		}
	}

	participants := make([]calculator.Participant, len(b.Participants))
	for i, p := range b.Participants {
		participants[i] = calculator.Participant{ID: p.ID, IsPayer: p.IsPayer}
	}

	return calculator.BillInput{Items: items, Participants: participants}
}

// Settle runs the settlement engine on the bill.
func (b *Bill) Settle() (*calculator.Result, error) {
	in := b.EngineInput()
	return calculator.Settle(in.Items, in.Participants)
}

// GenerateTitle creates a title from the participant list.
func GenerateTitle(participants []Participant) string {
	if len(participants) == 0 {
		return fmt.Sprintf("Bill - %s", time.Now().Format("Jan 2, 2006"))
	}

	names := make([]string, len(participants))
	for i, p := range participants {
		names[i] = p.DisplayName()
	}
	if len(names) <= 3 {
		return fmt.Sprintf("Split with %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("Split with %s and %d others",
		strings.Join(names[:2], ", "),
		len(names)-2,
	)
}

// DisplayName is the name if set, otherwise the id.
func (p Participant) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
