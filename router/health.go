package router

import (
	"context"
	"database/sql"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ceyewan/dsrouter/clog"
	"github.com/ceyewan/dsrouter/xerrors"
)

// Status 单个目标的健康检查结果
type Status struct {
	Name    string
	Err     error
	Latency time.Duration
	Stats   sql.DBStats
}

// Healthy 报告目标是否可用
func (s Status) Healthy() bool {
	return s.Err == nil
}

// HealthCheck 并发 ping 所有目标，结果按声明顺序返回
//
// 单个目标失败不影响其他目标，也不会改变路由表。
func (r *Router) HealthCheck(ctx context.Context) []Status {
	r.mustReady()

	statuses := make([]Status, len(r.keys))
	if r.closed.Load() {
		for i, name := range r.keys {
			statuses[i] = Status{Name: name, Err: ErrClosed}
		}
		return statuses
	}

	var g errgroup.Group
	for i, name := range r.keys {
		h := r.pools[name]
		g.Go(func() error {
			start := time.Now()
			err := h.Ping(ctx)
			statuses[i] = Status{
				Name:    name,
				Err:     err,
				Latency: time.Since(start),
				Stats:   h.Stats(),
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, st := range statuses {
		r.metrics.observe(ctx, st)
		if st.Err != nil {
			r.logger.Warn("target health check failed",
				clog.String("target", st.Name),
				clog.Duration("latency", st.Latency),
				clog.Error(st.Err))
		}
	}
	return statuses
}

// Unhealthy 合并所有失败目标的错误，全部健康时返回 nil
func Unhealthy(statuses []Status) error {
	var errs []error
	for _, st := range statuses {
		if st.Err != nil {
			errs = append(errs, xerrors.WithCode(xerrors.Wrapf(st.Err, "target %q", st.Name), xerrors.CodeUnavailable))
		}
	}
	return xerrors.Combine(errs...)
}
