package pool

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"

	"github.com/ceyewan/dsrouter/clog"
)

// 支持的连接池类型
const (
	TypeSQL     = "sql"
	TypeGorm    = "gorm"
	TypePgxPool = "pgxpool"

	// DefaultType type 未配置或为空时使用
	DefaultType = TypeSQL
)

// Handle 一个路由目标的连接池
//
// 并发安全由底层的 database/sql、gorm 或 pgxpool 保证。
type Handle interface {
	// Name 路由目标名
	Name() string
	// Type 连接池类型标签，如 "sql"
	Type() string
	// Driver database/sql 驱动名
	Driver() string
	// Dialect 数据库方言
	Dialect() Dialect
	// DB 返回底层的 *sql.DB
	DB() *sql.DB
	// Ping 检查连通性
	Ping(ctx context.Context) error
	// Stats 连接池统计
	Stats() sql.DBStats
	// Close 关闭连接池，释放所有物理连接
	Close() error
}

// GormHandle gorm 类型的连接池
type GormHandle interface {
	Handle
	Gorm() *gorm.DB
}

// PgxHandle pgxpool 类型的连接池
type PgxHandle interface {
	Handle
	Pgx() *pgxpool.Pool
}

// 兼容 tinyid 配置中的实现类名
var typeAliases = map[string]string{
	"sql":                                   TypeSQL,
	"database/sql":                          TypeSQL,
	"hikari":                                TypeSQL,
	"com.zaxxer.hikari.hikaridatasource":    TypeSQL,
	"gorm":                                  TypeGorm,
	"gorm.io/gorm":                          TypeGorm,
	"pgxpool":                               TypePgxPool,
	"pgx":                                   TypePgxPool,
	"org.postgresql.ds.pgpoolingdatasource": TypePgxPool,
}

// ResolveType 将类型标识解析为规范标签，空白返回 DefaultType
func ResolveType(typeName string) (string, error) {
	id := strings.ToLower(strings.TrimSpace(typeName))
	if id == "" {
		return DefaultType, nil
	}
	tag, ok := typeAliases[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}
	return tag, nil
}

// Types 返回支持的规范类型标签
func Types() []string {
	return []string{TypeSQL, TypeGorm, TypePgxPool}
}

// target 构建单个连接池所需的全部输入
type target struct {
	desc   *Descriptor
	driver Driver
	dsn    string
	logger clog.Logger
}

type buildFunc func(ctx context.Context, t *target) (Handle, error)

func builderFor(tag string) buildFunc {
	switch tag {
	case TypeGorm:
		return buildGorm
	case TypePgxPool:
		return buildPgx
	default:
		return buildSQL
	}
}

// checkSupport 校验连接池类型与数据库方言的组合
func checkSupport(tag string, d Driver) error {
	switch {
	case tag == TypeGorm && d.Dialect == DialectSnowflake:
		return fmt.Errorf("%w: gorm has no %s dialect", ErrUnsupported, d.Dialect)
	case tag == TypePgxPool && d.Dialect != DialectPostgres:
		return fmt.Errorf("%w: pgxpool only supports postgres, got %s", ErrUnsupported, d.Dialect)
	}
	return nil
}
