package calculator

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/money"
)

// randomBill builds a valid bill with a mix of even and explicitly assigned items.
func randomBill(r *rand.Rand) ([]BillItem, []Participant) {
	n := 1 + r.IntN(8)
	participants := make([]Participant, n)
	for i := range participants {
		participants[i] = Participant{ID: fmt.Sprintf("p%02d", r.IntN(1000)*10+i)}
	}
	participants[r.IntN(n)].IsPayer = true

	items := make([]BillItem, r.IntN(6))
	for i := range items {
		amount := money.Money(r.IntN(20001) - 2000)
		item := BillItem{Description: fmt.Sprintf("item %d", i), Amount: amount}

		if r.IntN(2) == 0 {
			// Assign everything but a random slice to one person, the rest to another.
			a := participants[r.IntN(n)].ID
			b := participants[r.IntN(n)].ID
			part := money.Money(r.IntN(100))
			item.Shares = map[string]money.Money{a: amount - part}
			item.Shares[b] += part
		}
		items[i] = item
	}

	return items, participants
}

func TestProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))

	for i := 0; i < 500; i++ {
		items, participants := randomBill(r)

		t.Run(fmt.Sprintf("case %d", i), func(t *testing.T) {
			balances, err := ComputeBalances(items, participants)
			require.NoError(t, err)

			var owed, net, itemsTotal money.Money
			for _, b := range balances {
				owed += b.Owed
				net += b.Net
				assert.Equal(t, b.Paid-b.Owed, b.Net, "net = paid - owed for %s", b.ParticipantID)
			}
			for _, item := range items {
				itemsTotal += item.Amount
			}
			assert.Zero(t, net, "conservation")
			assert.Equal(t, itemsTotal, owed, "share reconciliation")

			transfers, err := MinimizeTransfers(balances)
			require.NoError(t, err)

			nonZero := 0
			for _, b := range balances {
				if b.Net != 0 {
					nonZero++
				}
			}
			if nonZero > 0 {
				assert.LessOrEqual(t, len(transfers), nonZero-1, "transfer bound")
			}

			for _, tr := range transfers {
				assert.Positive(t, int64(tr.Amount), "positivity")
				assert.NotEqual(t, tr.From, tr.To)
			}

			settled, err := ApplyTransfers(balances, transfers)
			require.NoError(t, err)
			for _, b := range settled {
				assert.Zero(t, b.Net, "soundness for %s", b.ParticipantID)
				assert.Equal(t, b.Paid-b.Owed, b.Net, "net = paid - owed for %s", b.ParticipantID)
			}

			again, err := ComputeBalances(items, participants)
			require.NoError(t, err)
			assert.Equal(t, balances, again, "determinism of balances")

			transfersAgain, err := MinimizeTransfers(again)
			require.NoError(t, err)
			assert.Equal(t, transfers, transfersAgain, "determinism of transfers")
		})
	}
}

func TestProperties_RemainderStable(t *testing.T) {
	ids := []string{"m", "c", "x", "a", "q", "f", "b"}
	first := EvenSplit(1003, ids)

	for i := 0; i < 50; i++ {
		shuffled := append([]string(nil), ids...)
		rand.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, first, EvenSplit(1003, shuffled))
	}
}
