// Package types defines the core interfaces and data structures for RPC Kit.
// It includes the RPC client contract, the execution strategy interface,
// structured execution results with their full attempt audit trail, and
// metrics structures used across all strategy implementations.
package types
