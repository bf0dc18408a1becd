package calculator

import (
	"github.com/mmynk/settleup/internal/money"
)

// position is a participant's outstanding amount during matching, always positive.
type position struct {
	id     string
	amount money.Money
}

// MinimizeTransfers produces transfers that settle every balance.
//
// Greedy matching: repeatedly pair the largest debtor with the largest creditor
// (ties broken by ascending participant id) and transfer the smaller of the two
// amounts. Each round settles at least one side, so at most n-1 transfers are
// emitted for n non-zero balances. This is not always the theoretical minimum.
//
// Balances whose nets do not sum to zero are rejected with ErrUnbalanced, and
// nets whose total leaves the int64 range with ErrOverflow.
func MinimizeTransfers(balances []Balance) ([]Transfer, error) {
	nets := make([]money.Money, len(balances))
	seen := make(map[string]bool, len(balances))
	for i, b := range balances {
		if seen[b.ParticipantID] {
			return nil, ErrDuplicateParticipant
		}
		seen[b.ParticipantID] = true
		nets[i] = b.Net
	}
	sum, err := money.CheckedSum(nets...)
	if err != nil {
		return nil, ErrOverflow
	}
	if sum != 0 {
		return nil, ErrUnbalanced
	}

	var debtors, creditors []position
	for _, b := range balances {
		switch {
		case b.Net < 0:
			debtors = append(debtors, position{id: b.ParticipantID, amount: -b.Net})
		case b.Net > 0:
			creditors = append(creditors, position{id: b.ParticipantID, amount: b.Net})
		}
	}

	transfers := []Transfer{}
	for len(debtors) > 0 && len(creditors) > 0 {
		di := largest(debtors)
		ci := largest(creditors)

		amount := min(debtors[di].amount, creditors[ci].amount)
		transfers = append(transfers, Transfer{
			From:   debtors[di].id,
			To:     creditors[ci].id,
			Amount: amount,
		})

		debtors[di].amount -= amount
		creditors[ci].amount -= amount
		if debtors[di].amount == 0 {
			debtors = remove(debtors, di)
		}
		if creditors[ci].amount == 0 {
			creditors = remove(creditors, ci)
		}
	}

	return transfers, nil
}

// largest returns the index of the biggest position, preferring the smaller id on ties.
func largest(positions []position) int {
	best := 0
	for i := 1; i < len(positions); i++ {
		p, b := positions[i], positions[best]
		if p.amount > b.amount || (p.amount == b.amount && p.id < b.id) {
			best = i
		}
	}
	return best
}

func remove(positions []position, i int) []position {
	last := len(positions) - 1
	positions[i] = positions[last]
	return positions[:last]
}

// ApplyTransfers returns a copy of balances with the transfers applied, the
// same way GroupBalances counts recorded payments: the sender's paid and net
// rise by the amount, the receiver's owed rises and net falls by it. Net stays
// equal to paid - owed. Applying the output of MinimizeTransfers zeroes every
// net.
func ApplyTransfers(balances []Balance, transfers []Transfer) ([]Balance, error) {
	out := make([]Balance, len(balances))
	index := make(map[string]int, len(balances))
	for i, b := range balances {
		out[i] = b
		index[b.ParticipantID] = i
	}

	for _, t := range transfers {
		from, ok := index[t.From]
		if !ok {
			return nil, ErrUnknownParticipant
		}
		to, ok := index[t.To]
		if !ok {
			return nil, ErrUnknownParticipant
		}
		out[from].Paid += t.Amount
		out[from].Net += t.Amount
		out[to].Owed += t.Amount
		out[to].Net -= t.Amount
	}

	return out, nil
}
