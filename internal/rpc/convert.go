package rpc

import "github.com/mmynk/settleup/internal/calculator"

// NewCalculateResponse converts an engine result into its wire form.
func NewCalculateResponse(result *calculator.Result) *CalculateResponse {
	return &CalculateResponse{
		Total:       result.Total,
		Balances:    NewBalances(result.Balances),
		Settlements: NewTransfers(result.Transfers),
	}
}

func NewBalances(balances []calculator.Balance) []Balance {
	out := make([]Balance, len(balances))
	for i, b := range balances {
		out[i] = Balance{ParticipantID: b.ParticipantID, Owed: b.Owed, Paid: b.Paid, Net: b.Net}
	}
	return out
}

func NewTransfers(transfers []calculator.Transfer) []Transfer {
	out := make([]Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = Transfer{From: t.From, To: t.To, Amount: t.Amount}
	}
	return out
}
