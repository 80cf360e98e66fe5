// Package testkit 提供测试用的公共依赖和数据库目标。
//
// 目标以扁平属性的形式返回，可直接传给 pool.Build，或通过 AddTarget 拼装成路由配置：
//
//	props := map[string]string{"names": "a,b"}
//	testkit.AddTarget(props, "a", testkit.SQLiteTarget(t))
//	testkit.AddTarget(props, "b", testkit.SQLiteTarget(t))
package testkit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/dsrouter/clog"
	"github.com/ceyewan/dsrouter/metrics"
)

// Kit 包含通用的测试依赖
type Kit struct {
	Ctx    context.Context
	Logger clog.Logger
	Meter  metrics.Meter
}

// NewKit 返回一个包含默认依赖的测试工具包
func NewKit(t *testing.T) *Kit {
	return &Kit{
		Ctx:    context.Background(),
		Logger: NewLogger(),
		Meter:  NewMeter(t),
	}
}

// NewLogger 返回一个用于测试的 logger，开发环境格式，适合本地调试
func NewLogger() clog.Logger {
	logger, err := clog.New(clog.NewDevDefaultConfig())
	if err != nil {
		return clog.Discard()
	}
	return logger
}

// NewFileLogger 返回写入临时文件的 debug 级别 JSON logger，以及读取已写入日志的函数
func NewFileLogger(t *testing.T) (clog.Logger, func() string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")
	logger, err := clog.New(&clog.Config{
		Level:  "debug",
		Format: "json",
		Output: path,
	})
	require.NoError(t, err)

	return logger, func() string {
		logger.Flush()
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		return string(data)
	}
}

// NewMeter 返回一个启用的 meter，不启动 HTTP 服务器，测试结束时关闭
func NewMeter(t *testing.T) metrics.Meter {
	meter, err := metrics.New(metrics.NewDevDefaultConfig("dsrouter-test"))
	if err != nil {
		return metrics.Discard()
	}
	t.Cleanup(func() {
		_ = meter.Shutdown(context.Background())
	})
	return meter
}

// NewContext 返回一个带有超时的测试上下文
func NewContext(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// NewID 返回一个唯一的测试 ID (UUID v4 前 8 位)
// 用于生成唯一的数据库名，避免测试间数据冲突
func NewID() string {
	return uuid.New().String()[0:8]
}

// AddTarget 将目标属性以 "<name>." 为前缀写入 props
func AddTarget(props map[string]string, name string, fields map[string]string) {
	for k, v := range fields {
		props[name+"."+k] = v
	}
}
