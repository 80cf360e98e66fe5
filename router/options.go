package router

import (
	"context"

	"github.com/ceyewan/dsrouter/clog"
	"github.com/ceyewan/dsrouter/metrics"
	"github.com/ceyewan/dsrouter/pool"
)

// BuildFunc 构建单个目标的连接池，默认为 pool.Build
type BuildFunc func(ctx context.Context, typeName, name string, fields map[string]string, opts ...pool.Option) (pool.Handle, error)

// Option 配置 Router 的选项
type Option func(*options)

type options struct {
	logger clog.Logger
	meter  metrics.Meter
	build  BuildFunc
}

// WithLogger 注入日志记录器，自动添加 "router" 命名空间
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMeter 注入指标收集器
func WithMeter(meter metrics.Meter) Option {
	return func(o *options) {
		if meter != nil {
			o.meter = meter
		}
	}
}

// WithBuildFunc 替换连接池构建函数
func WithBuildFunc(build BuildFunc) Option {
	return func(o *options) {
		if build != nil {
			o.build = build
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logger: clog.Discard(),
		meter:  metrics.Discard(),
		build:  pool.Build,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
