// Package apiconnect wires the ledger services to the Connect protocol.
//
// Messages in package api are plain structs, so every handler and client
// built here is configured with a JSON codec that does not require
// protobuf messages.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// PackageName is the RPC package prefix of every procedure.
const PackageName = "ledger.v1"

// codec encodes messages with encoding/json. It registers under "json" so
// it replaces Connect's protobuf-only JSON codec.
type codec struct{}

func (codec) Name() string { return "json" }

func (codec) Marshal(msg any) ([]byte, error) { return json.Marshal(msg) }

func (codec) Unmarshal(data []byte, msg any) error { return json.Unmarshal(data, msg) }

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(codec{})}, opts...)
}
