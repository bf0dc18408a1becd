// Package calculator computes per-participant balances for a bill and the
// transfers that settle them. Every function is pure: inputs are read-only,
// outputs are freshly allocated, and calls are safe to run concurrently.
package calculator

import "github.com/mmynk/settleup/internal/money"

// Participant is one person in the context of a single bill.
type Participant struct {
	ID      string
	IsPayer bool
}

// BillItem is one priced line of a bill.
type BillItem struct {
	Description string
	Amount      money.Money

	// Shares assigns the amount explicitly. Nil means the item is split evenly
	// across every participant of the bill.
	Shares map[string]money.Money
}

// Balance is a participant's position for a bill. Net = Paid - Owed.
type Balance struct {
	ParticipantID string
	Owed          money.Money
	Paid          money.Money
	Net           money.Money // Positive = is owed money, negative = owes money
}

// Transfer is a recommended payment from a debtor to a creditor.
type Transfer struct {
	From   string
	To     string
	Amount money.Money
}

// Result is the output of Settle.
type Result struct {
	Total     money.Money
	Balances  []Balance
	Transfers []Transfer
}
