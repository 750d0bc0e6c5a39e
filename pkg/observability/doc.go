/*
Package observability turns wizard lifecycle events into Prometheus metrics
and structured log lines.

Both are exposed as domain.LifecycleHooks and can be combined with
domain.ChainHooks:

	metrics, _ := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := domain.ChainHooks(metrics.Hooks(), observability.LoggingHooks(logger))
*/
package observability
