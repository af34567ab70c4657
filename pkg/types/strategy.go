package types

import "context"

// StrategyType identifies an execution strategy implementation
type StrategyType string

const (
	// StrategyTypeFallback tries endpoints in order until one succeeds
	StrategyTypeFallback StrategyType = "fallback"
)

// Strategy is an execution policy over a fixed set of RPC clients.
// Implementations decide how attempts are scheduled (in order, raced,
// quorum) but all of them return the same structured outcome so callers
// can swap strategies without changing their handling code.
type Strategy interface {
	// Name returns the constant tag identifying the strategy, e.g.
	// "fallback". It matches ExecutionResult.Metadata.Strategy.
	Name() string

	// Execute runs method with params against the strategy's clients and
	// returns a structured outcome. Endpoint failures, including all
	// endpoints failing, are reported through the result, never through
	// the error return. The error return is reserved for ctx being
	// canceled while an attempt is in flight, in which case no partial
	// result is returned.
	Execute(ctx context.Context, method string, params []any) (*ExecutionResult, error)
}
