package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/money"
)

func TestJSONCodec(t *testing.T) {
	c := jsonCodec{}
	assert.Equal(t, "json", c.Name())

	data, err := c.Marshal(&Item{Description: "Pizza", Amount: 1250})
	require.NoError(t, err)
	assert.JSONEq(t, `{"description":"Pizza","amount":1250,"shares":null}`, string(data))

	var item Item
	require.NoError(t, c.Unmarshal([]byte(`{"description":"Wine","amount":"12.50","shares":{"bob":"12.50"}}`), &item))
	assert.Equal(t, money.Money(1250), item.Amount)
	assert.Equal(t, map[string]money.Money{"bob": 1250}, item.Shares)

	var empty CalculateRequest
	assert.NoError(t, c.Unmarshal(nil, &empty))
}

// echoBills implements Calculate only; other methods are never called.
type echoBills struct {
	BillServiceHandler
}

func (echoBills) Calculate(_ context.Context, req *connect.Request[CalculateRequest]) (*connect.Response[CalculateResponse], error) {
	var total money.Money
	for _, item := range req.Msg.Items {
		total += item.Amount
	}
	return connect.NewResponse(&CalculateResponse{Total: total}), nil
}

func TestBillServiceHandler_RoundTrip(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle(NewBillServiceHandler(echoBills{}))
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewBillServiceClient(http.DefaultClient, server.URL+"/")
	resp, err := client.Calculate(context.Background(), connect.NewRequest(&CalculateRequest{
		Items: []Item{{Description: "a", Amount: 100}, {Description: "b", Amount: 250}},
	}))
	require.NoError(t, err)
	assert.Equal(t, money.Money(350), resp.Msg.Total)

	res, err := http.Post(server.URL+"/settleup.v1.BillService/Nope", "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
