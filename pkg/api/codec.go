// Package api defines the moneytravel wire protocol: Connect procedures
// carrying plain JSON messages with snake_case field names.
package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

var _ connect.Codec = JSONCodec{}

// JSONCodec marshals plain Go structs with encoding/json. It replaces
// Connect's built-in "json" codec, which only accepts protobuf messages.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
