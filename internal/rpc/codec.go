package rpc

import (
	"connectrpc.com/connect"
	"github.com/goccy/go-json"
)

// jsonCodec marshals plain Go message structs. It registers under the name
// "json", replacing Connect's protojson codec for application/json requests.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// WithJSON configures a handler or client to use the JSON message codec.
func WithJSON() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
