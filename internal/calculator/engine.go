package calculator

// Settle computes balances for a bill and the transfers that settle them.
func Settle(items []BillItem, participants []Participant) (*Result, error) {
	balances, err := ComputeBalances(items, participants)
	if err != nil {
		return nil, err
	}

	transfers, err := MinimizeTransfers(balances)
	if err != nil {
		return nil, err
	}

	total, err := billTotal(items)
	if err != nil {
		return nil, err
	}

	return &Result{
		Total:     total,
		Balances:  balances,
		Transfers: transfers,
	}, nil
}
