package client

import "encoding/json"

// jsonrpcVersion is the protocol version sent with every request.
const jsonrpcVersion = "2.0"

// rpcRequest is the JSON-RPC 2.0 request envelope
type rpcRequest struct {
	Jsonrpc string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// rpcResponse is the JSON-RPC 2.0 response envelope
type rpcResponse struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcErrorObject `json:"error,omitempty"`
}

// rpcErrorObject is the JSON-RPC 2.0 error object
type rpcErrorObject struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}
