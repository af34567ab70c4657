// Package fallback provides the fallback execution strategy.
// It tries RPC endpoints sequentially in configured order until one
// succeeds, recording the outcome and response time of every attempt so
// callers get both the winning result and a full audit trail.
package fallback
