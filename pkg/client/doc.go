// Package client provides an HTTP JSON-RPC 2.0 client implementing
// types.RPCClient. It owns the transport concerns the strategies stay
// agnostic of: request envelopes and IDs, authentication headers,
// client-side rate limiting, and transport-level retries with
// exponential backoff.
package client
