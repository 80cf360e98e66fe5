// Package pool 根据单个路由目标的配置构建连接池。
//
// 每个目标由一组扁平属性描述：
//
//	driver-class-name: com.mysql.cj.jdbc.Driver
//	url: jdbc:mysql://127.0.0.1:3306/tinyid?useSSL=false
//	username: root
//	password: secret
//	maximum-pool-size: 20
//
// 前四项必填，其余为调优属性，按连接池类型解析，无法识别或无法应用的属性只记录日志。
// 连接池类型由编译期注册表决定（sql、gorm、pgxpool），不支持动态加载。
//
// 快速开始：
//
//	h, err := pool.Build(ctx, "", "db0", fields, pool.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//	row := h.DB().QueryRowContext(ctx, "SELECT 1")
package pool

import (
	"context"
	"fmt"

	"github.com/ceyewan/dsrouter/clog"
)

// Build 为名为 name 的目标构建连接池
//
// typeName 为空时使用 DefaultType。配置错误返回 *ConfigError，
// 连接失败返回包装了 ErrConnect 的错误。
func Build(ctx context.Context, typeName, name string, fields map[string]string, opts ...Option) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o := newOptions(opts)

	tag, err := ResolveType(typeName)
	if err != nil {
		return nil, configError(name, "type", err)
	}

	desc, err := ParseDescriptor(name, fields)
	if err != nil {
		return nil, err
	}

	driver, ok := ResolveDriver(desc.DriverClassName)
	if !ok {
		return nil, configError(name, FieldDriverClassName, fmt.Errorf("%w: %q", ErrUnknownDriver, desc.DriverClassName))
	}

	if err := checkSupport(tag, driver); err != nil {
		return nil, configError(name, FieldDriverClassName, err)
	}

	dsn, err := DSN(driver.Dialect, desc.URL, desc.Username, desc.Password)
	if err != nil {
		return nil, configError(name, FieldURL, fmt.Errorf("%w: %w", ErrMalformedURL, err))
	}

	logger := o.logger.With(
		clog.String("target", name),
		clog.String("type", tag),
		clog.String("driver", driver.Name),
	)
	logger.Info("building connection pool")

	h, err := builderFor(tag)(ctx, &target{
		desc:   desc,
		driver: driver,
		dsn:    dsn,
		logger: logger,
	})
	if err != nil {
		logger.Error("failed to build connection pool", clog.Error(err))
		return nil, err
	}

	logger.Info("connection pool ready")
	return h, nil
}
