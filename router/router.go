// Package router 将一个配置块描述的多个数据库目标组织为统一的路由入口。
//
// 配置块（相对根键）：
//
//	names: db0,db1            # 必填，逗号分隔，声明顺序即 Keys 的顺序
//	type: hikari              # 可选，连接池类型，空白时使用 pool.DefaultType
//	policy: round-robin       # 可选，Select 的选择策略，默认 random
//	db0.driver-class-name: com.mysql.cj.jdbc.Driver
//	db0.url: jdbc:mysql://10.0.0.1:3306/tinyid
//	db0.username: root
//	db0.password: secret
//	db0.maximum-pool-size: 20
//
// New 在启动阶段一次性构建全部连接池，任一目标失败都会关闭已构建的连接池并返回错误。
// 构建完成后路由表不可变，Resolve、Keys、Select 无锁并发安全。
//
// 快速开始：
//
//	r, err := router.New(ctx, props, router.WithLogger(logger), router.WithMeter(meter))
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	h, err := r.Resolve("db0")
//	if err != nil {
//	    return err
//	}
//	rows, err := h.DB().QueryContext(ctx, "SELECT ...")
package router

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ceyewan/dsrouter/clog"
	"github.com/ceyewan/dsrouter/pool"
	"github.com/ceyewan/dsrouter/xerrors"
)

// Properties 相对根键展平后的配置块
type Properties map[string]string

// Router 路由表：目标名到连接池的映射，以及声明顺序的目标名列表
//
// 零值 Router 未初始化，调用任何方法都会 panic。
type Router struct {
	pools    map[string]pool.Handle
	keys     []string
	typeName string
	policy   Policy
	logger   clog.Logger
	metrics  *routerMetrics

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// New 解析配置块并构建所有目标的连接池
//
// 配置错误返回 *pool.ConfigError（errors.Is(err, xerrors.ErrInvalidInput)），
// 连接失败返回包装了 pool.ErrConnect 的错误。失败时不会返回部分构建的 Router。
func New(ctx context.Context, props Properties, opts ...Option) (*Router, error) {
	o := newOptions(opts)
	logger := o.logger.WithNamespace("router")

	names, duplicates := parseNames(props[KeyNames])
	if len(names) == 0 {
		return nil, configError(KeyNames, ErrMissingNames)
	}
	if len(duplicates) > 0 {
		logger.Warn("duplicate target names ignored", clog.Strings("names", duplicates))
	}
	if err := checkNames(names); err != nil {
		return nil, configError(KeyNames, err)
	}

	typeName, err := pool.ResolveType(props[KeyType])
	if err != nil {
		return nil, configError(KeyType, err)
	}

	policy, policyName, err := parsePolicy(props[KeyPolicy])
	if err != nil {
		return nil, configError(KeyPolicy, err)
	}

	logger.Info("initializing router",
		clog.Strings("names", names),
		clog.String("type", typeName),
		clog.String("policy", policyName))

	pools := make(map[string]pool.Handle, len(names))
	built := make([]pool.Handle, 0, len(names))
	for _, name := range names {
		h, err := o.build(ctx, typeName, name, targetFields(props, name), pool.WithLogger(o.logger))
		if err != nil {
			logger.Error("failed to build target, releasing built pools",
				clog.String("target", name),
				clog.Int("built", len(built)),
				clog.Error(err))
			if closeErr := closeAll(built); closeErr != nil {
				logger.Warn("failed to release built pools", clog.Error(closeErr))
			}
			return nil, err
		}
		pools[name] = h
		built = append(built, h)
	}

	r := &Router{
		pools:    pools,
		keys:     names,
		typeName: typeName,
		policy:   policy,
		logger:   logger,
		metrics:  newRouterMetrics(o.meter, logger),
	}
	logger.Info("router ready", clog.Int("targets", len(names)))
	return r, nil
}

// MustNew 类似 New，出错时 panic，仅用于初始化阶段
func MustNew(ctx context.Context, props Properties, opts ...Option) *Router {
	r, err := New(ctx, props, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Router) mustReady() {
	if r == nil || r.pools == nil {
		panic(ErrNotReady)
	}
}

// Resolve 精确查找目标的连接池，没有默认目标
func (r *Router) Resolve(key string) (pool.Handle, error) {
	r.mustReady()
	if r.closed.Load() {
		return nil, ErrClosed
	}

	h, ok := r.pools[key]
	if !ok {
		err := routingError(key)
		r.metrics.resolved(key, err)
		return nil, err
	}
	r.metrics.resolved(key, nil)
	return h, nil
}

// MustResolve 类似 Resolve，出错时 panic，用于启动阶段的依赖装配
func (r *Router) MustResolve(key string) pool.Handle {
	h, err := r.Resolve(key)
	if err != nil {
		panic(err)
	}
	return h
}

// Keys 按声明顺序返回所有目标名，返回值是副本
func (r *Router) Keys() []string {
	r.mustReady()
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Len 目标数量
func (r *Router) Len() int {
	r.mustReady()
	return len(r.keys)
}

// Type 所有目标使用的连接池类型
func (r *Router) Type() string {
	r.mustReady()
	return r.typeName
}

// Select 选择一个目标
//
// ctx 通过 WithKey 携带路由键时精确解析该键，否则按策略选择。
func (r *Router) Select(ctx context.Context) (string, pool.Handle, error) {
	r.mustReady()
	if key, ok := KeyFromContext(ctx); ok {
		h, err := r.Resolve(key)
		return key, h, err
	}
	if r.closed.Load() {
		return "", nil, ErrClosed
	}

	key := r.keys[r.policy.Pick(len(r.keys))]
	r.metrics.resolved(key, nil)
	return key, r.pools[key], nil
}

// Close 关闭所有连接池，可重复调用
func (r *Router) Close() error {
	r.mustReady()
	r.closeOnce.Do(func() {
		r.closed.Store(true)
		r.logger.Info("closing router", clog.Int("targets", len(r.keys)))

		handles := make([]pool.Handle, len(r.keys))
		for i, name := range r.keys {
			handles[i] = r.pools[name]
		}
		r.closeErr = closeAll(handles)
		if r.closeErr != nil {
			r.logger.Error("failed to close some pools", clog.Error(r.closeErr))
		}
	})
	return r.closeErr
}

// closeAll 逆序关闭，合并所有错误
func closeAll(handles []pool.Handle) error {
	var errs []error
	for i := len(handles) - 1; i >= 0; i-- {
		if err := handles[i].Close(); err != nil {
			errs = append(errs, xerrors.Wrapf(err, "close target %q", handles[i].Name()))
		}
	}
	return xerrors.Combine(errs...)
}

// String 用于日志输出
func (r *Router) String() string {
	if r == nil || r.pools == nil {
		return "Router{uninitialized}"
	}
	return "Router{" + strings.Join(r.keys, ",") + "}"
}
