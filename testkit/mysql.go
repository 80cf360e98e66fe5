package testkit

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
)

// NewMySQLTarget 使用 testcontainers 启动 MySQL 容器并返回 JDBC 风格的目标属性
// 生命周期由 t.Cleanup 管理
func NewMySQLTarget(t *testing.T) map[string]string {
	ctx := context.Background()

	container, err := mysql.Run(ctx,
		"mysql:8.0",
		mysql.WithDatabase("dsrouter_db"),
		mysql.WithUsername("dsrouter_user"),
		mysql.WithPassword("dsrouter_password"),
	)
	require.NoError(t, err, "failed to start MySQL container")

	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "3306")
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	waitForMySQL(t, dsn)

	return map[string]string{
		"driver-class-name": "com.mysql.cj.jdbc.Driver",
		"url": fmt.Sprintf("jdbc:mysql://%s:%s/dsrouter_db?useUnicode=true&characterEncoding=UTF-8&useSSL=false&serverTimezone=UTC",
			host, mappedPort.Port()),
		"username": "dsrouter_user",
		"password": "dsrouter_password",
	}
}

// waitForMySQL MySQL 容器需要时间启动，重试直到可以 ping 通
func waitForMySQL(t *testing.T, dsn string) {
	t.Helper()

	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for {
		if err = db.PingContext(ctx); err == nil {
			return
		}
		select {
		case <-ctx.Done():
			require.NoError(t, err, "timeout waiting for mysql to be ready")
			return
		case <-time.After(2 * time.Second):
		}
	}
}
