//go:build integration

package router_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/dsrouter/pool"
	"github.com/ceyewan/dsrouter/router"
	"github.com/ceyewan/dsrouter/testkit"
)

// TestIntegration_MixedTargets 同一个路由表中混合 MySQL、PostgreSQL 和 SQLite
func TestIntegration_MixedTargets(t *testing.T) {
	ctx, cancel := testkit.NewContext(t, 2*time.Minute)
	defer cancel()

	props := router.Properties{"names": "mysql0,pg0,local"}
	testkit.AddTarget(props, "mysql0", testkit.NewMySQLTarget(t))
	testkit.AddTarget(props, "pg0", testkit.NewPostgreSQLTarget(t))
	testkit.AddTarget(props, "local", testkit.SQLiteTarget(t))
	props["mysql0.maximum-pool-size"] = "5"
	props["pg0.minimum-idle"] = "1"

	kit := testkit.NewKit(t)
	r, err := router.New(ctx, props, router.WithLogger(kit.Logger), router.WithMeter(kit.Meter))
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"mysql0", "pg0", "local"}, r.Keys())
	for _, st := range r.HealthCheck(ctx) {
		assert.NoError(t, st.Err, st.Name)
	}

	mysqlDB := r.MustResolve("mysql0")
	assert.Equal(t, pool.DialectMySQL, mysqlDB.Dialect())
	assert.Equal(t, 5, mysqlDB.Stats().MaxOpenConnections)

	_, err = mysqlDB.DB().ExecContext(ctx, "CREATE TABLE tiny_id_info (id BIGINT PRIMARY KEY, biz_type VARCHAR(63), max_id BIGINT)")
	require.NoError(t, err)
	_, err = mysqlDB.DB().ExecContext(ctx, "INSERT INTO tiny_id_info VALUES (1, 'test', 1000)")
	require.NoError(t, err)

	var maxID int64
	require.NoError(t, mysqlDB.DB().QueryRowContext(ctx, "SELECT max_id FROM tiny_id_info WHERE biz_type = ?", "test").Scan(&maxID))
	assert.Equal(t, int64(1000), maxID)

	pgDB := r.MustResolve("pg0")
	var version string
	require.NoError(t, pgDB.DB().QueryRowContext(ctx, "SHOW server_version").Scan(&version))
	assert.NotEmpty(t, version)
}

// TestIntegration_PoolTypes 每种连接池类型连接真实的 PostgreSQL
func TestIntegration_PoolTypes(t *testing.T) {
	ctx, cancel := testkit.NewContext(t, 2*time.Minute)
	defer cancel()

	target := testkit.NewPostgreSQLTarget(t)

	for _, typeName := range []string{"hikari", "gorm", "org.postgresql.ds.PGPoolingDataSource"} {
		t.Run(typeName, func(t *testing.T) {
			props := router.Properties{"names": "pg", "type": typeName}
			testkit.AddTarget(props, "pg", target)
			props["pg.tracing"] = "true"

			r, err := router.New(ctx, props)
			require.NoError(t, err)
			defer r.Close()

			h := r.MustResolve("pg")
			require.NoError(t, h.Ping(ctx))

			var one int
			require.NoError(t, h.DB().QueryRowContext(ctx, "SELECT 1").Scan(&one))
			assert.Equal(t, 1, one)

			switch typed := h.(type) {
			case pool.PgxHandle:
				assert.NoError(t, typed.Pgx().Ping(ctx))
				stats := h.Stats()
				assert.Equal(t, int(typed.Pgx().Stat().MaxConns()), stats.MaxOpenConnections)
				assert.GreaterOrEqual(t, stats.OpenConnections, 1)
				assert.Zero(t, stats.InUse)
			case pool.GormHandle:
				assert.NoError(t, typed.Gorm().WithContext(ctx).Exec("SELECT 1").Error)
			}
		})
	}
}

// TestIntegration_PgxDriver 使用 pgx 驱动的 database/sql 连接池
func TestIntegration_PgxDriver(t *testing.T) {
	ctx := context.Background()

	fields := testkit.NewPostgreSQLTarget(t)
	fields["driver-class-name"] = "pgx"

	h, err := pool.Build(ctx, "", "pg", fields)
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, "pgx", h.Driver())
	assert.NoError(t, h.Ping(ctx))
}
