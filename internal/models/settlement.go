package models

import (
	"errors"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/money"
)

var (
	ErrNonPositiveAmount = errors.New("settlement amount must be positive")
	ErrSelfSettlement    = errors.New("cannot settle with yourself")
	ErrSettlementScope   = errors.New("settlement must belong to exactly one bill or group")
)

// Settlement is a transfer that a caller recorded as paid.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// BillID scopes the settlement to one bill. Mutually exclusive with GroupID.
	BillID string

	// GroupID scopes the settlement to a group. Mutually exclusive with BillID.
	GroupID string

	// FromID is the participant who paid (debtor settling up).
	FromID string

	// ToID is the participant who received the payment (creditor).
	ToID string

	// Amount is the payment amount, always positive.
	Amount money.Money

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// CreatedBy is the user id who recorded this settlement.
	CreatedBy string

	// Note is an optional description for the settlement.
	Note string
}

// Validate checks the settlement before it is stored.
func (s *Settlement) Validate() error {
	if s.Amount <= 0 {
		return ErrNonPositiveAmount
	}
	if s.FromID == "" || s.ToID == "" {
		return ErrEmptyParticipant
	}
	if s.FromID == s.ToID {
		return ErrSelfSettlement
	}
	if (s.BillID == "") == (s.GroupID == "") {
		return ErrSettlementScope
	}
	return nil
}

// Transfer converts the settlement into a calculator transfer.
func (s *Settlement) Transfer() calculator.Transfer {
	return calculator.Transfer{From: s.FromID, To: s.ToID, Amount: s.Amount}
}

// Transfers converts recorded settlements into calculator transfers.
func Transfers(settlements []*Settlement) []calculator.Transfer {
	out := make([]calculator.Transfer, len(settlements))
	for i, s := range settlements {
		out[i] = s.Transfer()
	}
	return out
}
