package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/calculator"
)

func TestNewCalculateResponse(t *testing.T) {
	result, err := calculator.Settle(
		[]calculator.BillItem{{Description: "Taxi", Amount: 3000}},
		[]calculator.Participant{{ID: "alice", IsPayer: true}, {ID: "bob"}},
	)
	require.NoError(t, err)

	resp := NewCalculateResponse(result)
	assert.EqualValues(t, 3000, resp.Total)
	assert.Equal(t, []Balance{
		{ParticipantID: "alice", Owed: 1500, Paid: 3000, Net: 1500},
		{ParticipantID: "bob", Owed: 1500, Paid: 0, Net: -1500},
	}, resp.Balances)
	assert.Equal(t, []Transfer{{From: "bob", To: "alice", Amount: 1500}}, resp.Settlements)

	data, err := jsonCodec{}.Marshal(NewCalculateResponse(&calculator.Result{Transfers: []calculator.Transfer{}}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":0,"balances":[],"settlements":[]}`, string(data))
}
