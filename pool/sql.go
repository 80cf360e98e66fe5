package pool

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ceyewan/dsrouter/clog"
)

// sqlHandle 基于 database/sql 的连接池，也是 gorm 和 pgxpool 类型的基础
type sqlHandle struct {
	name    string
	typ     string
	driver  Driver
	db      *sql.DB
	timeout time.Duration
}

func (h *sqlHandle) Name() string     { return h.name }
func (h *sqlHandle) Type() string     { return h.typ }
func (h *sqlHandle) Driver() string   { return h.driver.Name }
func (h *sqlHandle) Dialect() Dialect { return h.driver.Dialect }
func (h *sqlHandle) DB() *sql.DB      { return h.db }

// Ping 未设置截止时间时使用 connect-timeout
func (h *sqlHandle) Ping(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok && h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	return h.db.PingContext(ctx)
}

func (h *sqlHandle) Stats() sql.DBStats {
	return h.db.Stats()
}

func (h *sqlHandle) Close() error {
	return h.db.Close()
}

func buildSQL(ctx context.Context, t *target) (Handle, error) {
	tuning := defaultPoolTuning()
	decodeTuning(t.desc.Extra, &tuning, t.logger)

	db, err := openDB(t, tuning.Tracing)
	if err != nil {
		return nil, connectError(t.desc.Name, err)
	}
	tuning.apply(db)
	t.logger.Debug("pool tuning applied", tuning.fields()...)

	h := &sqlHandle{
		name:    t.desc.Name,
		typ:     TypeSQL,
		driver:  t.driver,
		db:      db,
		timeout: tuning.ConnectTimeout,
	}

	if tuning.PingOnBuild {
		if err := h.Ping(ctx); err != nil {
			_ = db.Close()
			return nil, connectError(t.desc.Name, err)
		}
	}
	return h, nil
}

// openDB 打开 *sql.DB，tracing 为 true 时通过 otelsql 包装驱动
func openDB(t *target, tracing bool) (*sql.DB, error) {
	if !tracing {
		return sql.Open(t.driver.Name, t.dsn)
	}

	attrs := otelsql.WithAttributes(attribute.String("db.system", string(t.driver.Dialect)))
	db, err := otelsql.Open(t.driver.Name, t.dsn, otelsql.WithDBName(t.desc.Name), attrs)
	if err != nil {
		return nil, err
	}
	otelsql.ReportDBStatsMetrics(db, otelsql.WithDBName(t.desc.Name), attrs)
	t.logger.Debug("sql tracing enabled")
	return db, nil
}

func (p poolTuning) apply(db *sql.DB) {
	db.SetMaxOpenConns(p.MaxOpenConns)
	db.SetMaxIdleConns(p.MaxIdleConns)
	db.SetConnMaxLifetime(p.ConnMaxLifetime)
	db.SetConnMaxIdleTime(p.ConnMaxIdleTime)
}

func (p poolTuning) fields() []clog.Field {
	return []clog.Field{
		clog.Int("max_open_conns", p.MaxOpenConns),
		clog.Int("max_idle_conns", p.MaxIdleConns),
		clog.Duration("conn_max_lifetime", p.ConnMaxLifetime),
		clog.Duration("conn_max_idle_time", p.ConnMaxIdleTime),
	}
}
