// Package metrics 为 dsrouter 提供指标收集能力。
// 基于 OpenTelemetry 构建，通过 Prometheus exporter 暴露。
//
// 快速开始：
//
//	meter, err := metrics.New(&metrics.Config{
//	    Enabled:     true,
//	    ServiceName: "tinyid-server",
//	    Port:        9090,
//	})
//	if err != nil {
//	    return err
//	}
//	defer meter.Shutdown(ctx)
//
//	counter, _ := meter.Counter("dsrouter_resolve_total", "routing lookups")
//	counter.Inc(ctx, metrics.L(metrics.LabelTarget, "db0"), metrics.L(metrics.LabelOutcome, metrics.OutcomeSuccess))
package metrics

import (
	"context"
	"net/http"
)

// Counter 只增不减的累计值
type Counter interface {
	Inc(ctx context.Context, labels ...Label)
	Add(ctx context.Context, val float64, labels ...Label)
}

// Gauge 可任意设置的瞬时值，例如连接池中的空闲连接数
type Gauge interface {
	Set(ctx context.Context, val float64, labels ...Label)
}

// Histogram 值的分布，例如 ping 耗时
type Histogram interface {
	Record(ctx context.Context, val float64, labels ...Label)
}

// Meter 指标创建工厂，创建的指标并发安全
type Meter interface {
	Counter(name string, desc string, opts ...MetricOption) (Counter, error)
	Gauge(name string, desc string, opts ...MetricOption) (Gauge, error)
	Histogram(name string, desc string, opts ...MetricOption) (Histogram, error)

	// Handler 返回 Prometheus 格式的采集 handler，可挂载到已有的 HTTP 服务
	Handler() http.Handler

	// Shutdown 刷新指标并停止内置 HTTP 服务器
	Shutdown(ctx context.Context) error
}

// MetricOption 指标选项
type MetricOption func(*MetricOptions)

// MetricOptions 指标选项结构体
type MetricOptions struct {
	Unit    string
	Buckets []float64
}

// WithUnit 设置指标单位，如 "s"、"By"
func WithUnit(unit string) MetricOption {
	return func(o *MetricOptions) {
		o.Unit = unit
	}
}

// WithBuckets 设置直方图的桶边界
func WithBuckets(buckets ...float64) MetricOption {
	return func(o *MetricOptions) {
		o.Buckets = buckets
	}
}
