package testkit

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// NewPostgreSQLTarget 使用 testcontainers 启动 PostgreSQL 容器并返回 JDBC 风格的目标属性
// 生命周期由 t.Cleanup 管理
func NewPostgreSQLTarget(t *testing.T) map[string]string {
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:17-alpine",
		postgres.WithDatabase("dsrouter_db"),
		postgres.WithUsername("dsrouter_user"),
		postgres.WithPassword("dsrouter_password"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")

	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return map[string]string{
		"driver-class-name": "org.postgresql.Driver",
		"url":               fmt.Sprintf("jdbc:postgresql://%s:%s/dsrouter_db?sslmode=disable", host, mappedPort.Port()),
		"username":          "dsrouter_user",
		"password":          "dsrouter_password",
	}
}
