package pool

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/ceyewan/dsrouter/clog"
)

// pgxHandle 原生 pgxpool 连接池，同时通过 stdlib 暴露为 *sql.DB
type pgxHandle struct {
	*sqlHandle
	pool *pgxpool.Pool
}

func (h *pgxHandle) Pgx() *pgxpool.Pool {
	return h.pool
}

func (h *pgxHandle) Ping(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok && h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	return h.pool.Ping(ctx)
}

// Stats 返回 pgxpool 自身的统计，stdlib 包装的 *sql.DB 不持有连接
func (h *pgxHandle) Stats() sql.DBStats {
	st := h.pool.Stat()
	return sql.DBStats{
		MaxOpenConnections: int(st.MaxConns()),
		OpenConnections:    int(st.TotalConns()),
		InUse:              int(st.AcquiredConns()),
		Idle:               int(st.IdleConns()),
		WaitCount:          st.EmptyAcquireCount(),
		MaxIdleTimeClosed:  st.MaxIdleDestroyCount(),
		MaxLifetimeClosed:  st.MaxLifetimeDestroyCount(),
	}
}

// Close 先关闭 *sql.DB 包装，再关闭 pgxpool
func (h *pgxHandle) Close() error {
	err := h.db.Close()
	h.pool.Close()
	return err
}

func buildPgx(ctx context.Context, t *target) (Handle, error) {
	tuning := defaultPgxTuning()
	decodeTuning(t.desc.Extra, &tuning, t.logger)

	cfg, err := pgxpool.ParseConfig(t.dsn)
	if err != nil {
		return nil, configError(t.desc.Name, FieldURL, fmt.Errorf("%w: %w", ErrMalformedURL, err))
	}
	tuning.apply(cfg)
	t.logger.Debug("pool tuning applied",
		clog.Int("max_conns", int(cfg.MaxConns)),
		clog.Int("min_conns", int(cfg.MinConns)),
		clog.Duration("health_check_period", cfg.HealthCheckPeriod))

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, connectError(t.desc.Name, err)
	}

	h := &pgxHandle{
		sqlHandle: &sqlHandle{
			name:    t.desc.Name,
			typ:     TypePgxPool,
			driver:  Driver{Dialect: DialectPostgres, Name: "pgx"},
			db:      stdlib.OpenDBFromPool(pool),
			timeout: tuning.ConnectTimeout,
		},
		pool: pool,
	}

	if tuning.PingOnBuild {
		if err := h.Ping(ctx); err != nil {
			_ = h.Close()
			return nil, connectError(t.desc.Name, err)
		}
	}
	return h, nil
}

func (p pgxTuning) apply(cfg *pgxpool.Config) {
	if p.MaxConns > 0 {
		cfg.MaxConns = p.MaxConns
	}
	if p.MinConns > 0 && p.MinConns <= cfg.MaxConns {
		cfg.MinConns = p.MinConns
	}
	if p.MaxConnLifetime > 0 {
		cfg.MaxConnLifetime = p.MaxConnLifetime
	}
	if p.MaxConnIdleTime > 0 {
		cfg.MaxConnIdleTime = p.MaxConnIdleTime
	}
	if p.HealthCheckPeriod > 0 {
		cfg.HealthCheckPeriod = p.HealthCheckPeriod
	}
	if p.ConnectTimeout > 0 {
		cfg.ConnConfig.ConnectTimeout = p.ConnectTimeout
	}
}
