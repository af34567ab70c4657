package factory

import (
	"github.com/blockpilot/rpckit/pkg/strategies/fallback"
	"github.com/blockpilot/rpckit/pkg/types"
)

// RegisterDefaultStrategies registers all built-in strategies with the factory
func RegisterDefaultStrategies(factory *StrategyFactory) {
	factory.RegisterStrategy(types.StrategyTypeFallback, func(clients []types.RPCClient, opts StrategyOptions) (types.Strategy, error) {
		var fallbackOpts []fallback.Option
		if opts.AttemptTimeout > 0 {
			fallbackOpts = append(fallbackOpts, fallback.WithAttemptTimeout(opts.AttemptTimeout))
		}
		if opts.MetricsCollector != nil {
			fallbackOpts = append(fallbackOpts, fallback.WithMetricsCollector(opts.MetricsCollector))
		}
		return fallback.New(clients, fallbackOpts...)
	})
}

// DefaultStrategyFactory returns a factory with all built-in strategies
// registered.
func DefaultStrategyFactory() *StrategyFactory {
	factory := NewStrategyFactory()
	RegisterDefaultStrategies(factory)
	return factory
}
