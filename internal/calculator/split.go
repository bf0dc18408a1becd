package calculator

import (
	"slices"

	"github.com/mmynk/settleup/internal/money"
)

// EvenSplit divides amount among ids so that the shares sum to amount exactly.
// Every id receives amount/len(ids); the remainder is handed out one minor unit
// at a time to the ids in ascending order. For negative amounts the remainder
// is negative, so the extra units are subtracted.
//
// The returned map is keyed by id. EvenSplit panics on an empty id list.
func EvenSplit(amount money.Money, ids []string) map[string]money.Money {
	n := money.Money(len(ids))
	quotient := amount / n
	remainder := amount % n

	unit := money.Money(remainder.Sign())
	extra := int(remainder.Abs())

	ordered := slices.Clone(ids)
	slices.Sort(ordered)

	shares := make(map[string]money.Money, len(ids))
	for i, id := range ordered {
		share := quotient
		if i < extra {
			share += unit
		}
		shares[id] = share
	}
	return shares
}

// itemShares returns each participant's share of one item, either the
// explicit assignment or an even split across ids.
func itemShares(item BillItem, ids []string, known map[string]bool) (map[string]money.Money, error) {
	if item.Shares == nil {
		return EvenSplit(item.Amount, ids), nil
	}

	amounts := make([]money.Money, 0, len(item.Shares))
	for id, share := range item.Shares {
		if !known[id] {
			return nil, ErrUnknownParticipant
		}
		amounts = append(amounts, share)
	}
	sum, err := money.CheckedSum(amounts...)
	if err != nil {
		return nil, ErrOverflow
	}
	if sum != item.Amount {
		return nil, ErrShareMismatch
	}
	return item.Shares, nil
}
