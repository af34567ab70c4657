// Package factory provides strategy registration and creation.
// It lets configuration name a strategy type and get back a
// types.Strategy, so additional strategies (quorum, racing) can slot in
// behind the same interface without changing callers.
package factory

import (
	"fmt"
	"sync"
	"time"

	"github.com/blockpilot/rpckit/pkg/types"
)

// StrategyOptions carries the cross-strategy options a constructor may
// honor.
type StrategyOptions struct {
	// AttemptTimeout bounds each individual endpoint attempt when > 0.
	AttemptTimeout time.Duration

	// MetricsCollector receives the strategy's events when non-nil.
	MetricsCollector types.MetricsCollector
}

// StrategyConstructor builds a strategy over an ordered client list.
type StrategyConstructor func(clients []types.RPCClient, opts StrategyOptions) (types.Strategy, error)

// StrategyFactory creates strategies from registered constructors
type StrategyFactory struct {
	constructors map[types.StrategyType]StrategyConstructor
	mutex        sync.RWMutex
}

// NewStrategyFactory creates an empty factory. Most callers want
// DefaultStrategyFactory instead.
func NewStrategyFactory() *StrategyFactory {
	return &StrategyFactory{
		constructors: make(map[types.StrategyType]StrategyConstructor),
	}
}

// RegisterStrategy registers a constructor for a strategy type,
// replacing any previous registration.
func (f *StrategyFactory) RegisterStrategy(strategyType types.StrategyType, constructor StrategyConstructor) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.constructors[strategyType] = constructor
}

// CreateStrategy creates a strategy instance over the given clients.
func (f *StrategyFactory) CreateStrategy(strategyType types.StrategyType, clients []types.RPCClient, opts StrategyOptions) (types.Strategy, error) {
	f.mutex.RLock()
	constructor, exists := f.constructors[strategyType]
	f.mutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("strategy type %s not registered", strategyType)
	}

	return constructor(clients, opts)
}

// GetSupportedStrategies returns all registered strategy types.
func (f *StrategyFactory) GetSupportedStrategies() []types.StrategyType {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	strategyTypes := make([]types.StrategyType, 0, len(f.constructors))
	for strategyType := range f.constructors {
		strategyTypes = append(strategyTypes, strategyType)
	}

	return strategyTypes
}
