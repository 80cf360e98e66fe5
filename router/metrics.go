package router

import (
	"context"

	"github.com/ceyewan/dsrouter/clog"
	"github.com/ceyewan/dsrouter/metrics"
)

// 指标名称
const (
	MetricResolveTotal    = "dsrouter_resolve_total"
	MetricTargetUp        = "dsrouter_target_up"
	MetricPingDuration    = "dsrouter_ping_duration_seconds"
	MetricPoolConnections = "dsrouter_pool_connections"
)

type routerMetrics struct {
	resolves    metrics.Counter
	up          metrics.Gauge
	ping        metrics.Histogram
	connections metrics.Gauge
}

// newRouterMetrics 创建失败的指标退化为 noop，不影响路由
func newRouterMetrics(meter metrics.Meter, logger clog.Logger) *routerMetrics {
	noop := metrics.Discard()
	m := &routerMetrics{}

	var err error
	if m.resolves, err = meter.Counter(MetricResolveTotal, "Number of routing lookups by target and outcome"); err != nil {
		logger.Warn("failed to create metric", clog.String("metric", MetricResolveTotal), clog.Error(err))
		m.resolves, _ = noop.Counter(MetricResolveTotal, "")
	}
	if m.up, err = meter.Gauge(MetricTargetUp, "Whether the last health check of a target succeeded"); err != nil {
		logger.Warn("failed to create metric", clog.String("metric", MetricTargetUp), clog.Error(err))
		m.up, _ = noop.Gauge(MetricTargetUp, "")
	}
	if m.ping, err = meter.Histogram(MetricPingDuration, "Health check ping latency",
		metrics.WithUnit("s"), metrics.WithBuckets(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5)); err != nil {
		logger.Warn("failed to create metric", clog.String("metric", MetricPingDuration), clog.Error(err))
		m.ping, _ = noop.Histogram(MetricPingDuration, "")
	}
	if m.connections, err = meter.Gauge(MetricPoolConnections, "Pool connections by state"); err != nil {
		logger.Warn("failed to create metric", clog.String("metric", MetricPoolConnections), clog.Error(err))
		m.connections, _ = noop.Gauge(MetricPoolConnections, "")
	}
	return m
}

// UnknownTargetLabel 未声明目标在指标中的统一 target 标签值
const UnknownTargetLabel = "_unknown"

// resolved 未声明的 key 来自调用方，统一记为 UnknownTargetLabel
func (m *routerMetrics) resolved(key string, err error) {
	outcome := metrics.Outcome(err)
	if IsRoutingError(err) {
		key, outcome = UnknownTargetLabel, metrics.OutcomeNotFound
	}
	m.resolves.Inc(context.Background(),
		metrics.L(metrics.LabelTarget, key),
		metrics.L(metrics.LabelOutcome, outcome))
}

func (m *routerMetrics) observe(ctx context.Context, st Status) {
	target := metrics.L(metrics.LabelTarget, st.Name)

	up := 1.0
	if st.Err != nil {
		up = 0
	}
	m.up.Set(ctx, up, target)
	m.ping.Record(ctx, st.Latency.Seconds(), target)

	m.connections.Set(ctx, float64(st.Stats.OpenConnections), target, metrics.L(metrics.LabelState, "open"))
	m.connections.Set(ctx, float64(st.Stats.InUse), target, metrics.L(metrics.LabelState, "in_use"))
	m.connections.Set(ctx, float64(st.Stats.Idle), target, metrics.L(metrics.LabelState, "idle"))
}
