package calculator

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/mmynk/settleup/internal/money"
)

// ComputeBalances computes what each participant owes, paid and nets for a bill.
//
// Algorithm:
//   - each item is divided by its explicit shares, or evenly among all participants
//   - owed = sum of a participant's shares across items
//   - the payer paid the bill total, everyone else paid nothing
//   - net = paid - owed, which sums to exactly zero
//
// Balances are returned in participant input order. Validation happens before
// any arithmetic.
func ComputeBalances(items []BillItem, participants []Participant) ([]Balance, error) {
	payerID, err := validateParticipants(participants)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(participants))
	known := make(map[string]bool, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
		known[p.ID] = true
	}

	owed := make(map[string]money.Money, len(participants))
	for _, item := range items {
		shares, err := itemShares(item, ids, known)
		if err != nil {
			return nil, err
		}
		for id, share := range shares {
			if owed[id], err = money.Add(owed[id], share); err != nil {
				return nil, ErrOverflow
			}
		}
	}

	total, err := billTotal(items)
	if err != nil {
		return nil, err
	}
	balances := make([]Balance, len(participants))
	for i, p := range participants {
		var paid money.Money
		if p.ID == payerID {
			paid = total
		}
		o := owed[p.ID]
		net := paid - o
		if (o > 0 && net > paid) || (o < 0 && net < paid) {
			return nil, ErrOverflow
		}
		balances[i] = Balance{
			ParticipantID: p.ID,
			Owed:          o,
			Paid:          paid,
			Net:           net,
		}
	}

	return balances, nil
}

// validateParticipants checks the participant list and returns the payer's id.
func validateParticipants(participants []Participant) (string, error) {
	if len(participants) == 0 {
		return "", ErrEmptyParticipants
	}

	var payers []string
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if seen[p.ID] {
			return "", ErrDuplicateParticipant
		}
		seen[p.ID] = true
		if p.IsPayer {
			payers = append(payers, p.ID)
		}
	}

	switch len(payers) {
	case 0:
		return "", ErrMissingPayer
	case 1:
		return payers[0], nil
	default:
		return "", ErrMultiplePayers
	}
}

func billTotal(items []BillItem) (money.Money, error) {
	amounts := make([]money.Money, len(items))
	for i, item := range items {
		amounts[i] = item.Amount
	}
	total, err := money.CheckedSum(amounts...)
	if err != nil {
		return 0, ErrOverflow
	}
	return total, nil
}

// BillInput is one bill's worth of engine input.
type BillInput struct {
	Items        []BillItem
	Participants []Participant
}

// GroupBalances aggregates balances across bills and applies recorded payments.
// A payment From -> To counts as money paid by From and money received by To,
// so the receiver's owed side grows by the same amount and the sum of nets
// stays zero. Balances are returned sorted by participant id.
func GroupBalances(bills []BillInput, payments []Transfer) ([]Balance, error) {
	totals := make(map[string]*Balance)
	get := func(id string) *Balance {
		b, ok := totals[id]
		if !ok {
			b = &Balance{ParticipantID: id}
			totals[id] = b
		}
		return b
	}

	for i, bill := range bills {
		balances, err := ComputeBalances(bill.Items, bill.Participants)
		if err != nil {
			return nil, fmt.Errorf("bill %d: %w", i, err)
		}
		for _, bal := range balances {
			if err := accumulate(get(bal.ParticipantID), bal.Paid, bal.Owed); err != nil {
				return nil, err
			}
		}
	}

	for _, p := range payments {
		if p.Amount <= 0 || p.From == p.To {
			return nil, ValidationError{Reason: fmt.Sprintf("invalid payment %s -> %s", p.From, p.To)}
		}
		if err := accumulate(get(p.From), p.Amount, 0); err != nil {
			return nil, err
		}
		if err := accumulate(get(p.To), 0, p.Amount); err != nil {
			return nil, err
		}
	}

	result := make([]Balance, 0, len(totals))
	for _, b := range totals {
		net, err := money.CheckedSum(b.Paid, -b.Owed)
		if err != nil || b.Owed == math.MinInt64 {
			return nil, ErrOverflow
		}
		b.Net = net
		result = append(result, *b)
	}
	slices.SortFunc(result, func(a, b Balance) int {
		return strings.Compare(a.ParticipantID, b.ParticipantID)
	})

	return result, nil
}

// accumulate adds paid and owed amounts to b, failing with ErrOverflow when
// either side leaves the int64 range.
func accumulate(b *Balance, paid, owed money.Money) error {
	var err error
	if b.Paid, err = money.Add(b.Paid, paid); err != nil {
		return ErrOverflow
	}
	if b.Owed, err = money.Add(b.Owed, owed); err != nil {
		return ErrOverflow
	}
	return nil
}
