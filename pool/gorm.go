package pool

import (
	"context"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/sharding"

	"github.com/ceyewan/dsrouter/clog"
)

// gormHandle 在 database/sql 连接池之上构建的 *gorm.DB
//
// gorm 借用 sqlHandle 的连接，关闭时只需关闭底层 *sql.DB。
type gormHandle struct {
	*sqlHandle
	gorm *gorm.DB
}

func (h *gormHandle) Gorm() *gorm.DB {
	return h.gorm
}

func buildGorm(ctx context.Context, t *target) (Handle, error) {
	tuning := defaultGormTuning()
	decodeTuning(t.desc.Extra, &tuning, t.logger)

	// otelgorm 负责 span，底层连接不再重复包装
	db, err := openDB(t, false)
	if err != nil {
		return nil, connectError(t.desc.Name, err)
	}
	tuning.Pool.apply(db)
	t.logger.Debug("pool tuning applied", tuning.Pool.fields()...)

	h := &sqlHandle{
		name:    t.desc.Name,
		typ:     TypeGorm,
		driver:  t.driver,
		db:      db,
		timeout: tuning.Pool.ConnectTimeout,
	}

	if tuning.Pool.PingOnBuild {
		if err := h.Ping(ctx); err != nil {
			_ = db.Close()
			return nil, connectError(t.desc.Name, err)
		}
	}

	var dialector gorm.Dialector
	switch t.driver.Dialect {
	case DialectMySQL:
		dialector = mysql.New(mysql.Config{Conn: db, SkipInitializeWithVersion: !tuning.Pool.PingOnBuild})
	case DialectPostgres:
		dialector = postgres.New(postgres.Config{Conn: db})
	default:
		dialector = &sqlite.Dialector{DriverName: t.driver.Name, Conn: db}
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 newGormLogger(t.logger.WithNamespace("gorm"), tuning.LogLevel, tuning.SlowThreshold),
		PrepareStmt:            tuning.PrepareStmt,
		SkipDefaultTransaction: tuning.SkipDefaultTransaction,
		DisableAutomaticPing:   true,
	})
	if err != nil {
		_ = db.Close()
		return nil, connectError(t.desc.Name, err)
	}

	if tuning.Pool.Tracing {
		if err := gormDB.Use(otelgorm.NewPlugin(otelgorm.WithDBName(t.desc.Name))); err != nil {
			t.logger.Warn("failed to register otelgorm plugin", clog.Error(err))
		}
	}
	registerSharding(gormDB, &tuning, t.logger)

	return &gormHandle{sqlHandle: h, gorm: gormDB}, nil
}

// registerSharding 按调优属性注册分表中间件，失败仅记录日志
func registerSharding(db *gorm.DB, tuning *gormTuning, logger clog.Logger) {
	tables := trimAll(tuning.ShardingTables)
	configured := 0
	for _, set := range []bool{tuning.ShardingKey != "", len(tables) > 0, tuning.NumberOfShards > 0} {
		if set {
			configured++
		}
	}
	switch configured {
	case 0:
		return
	case 3:
	default:
		logger.Warn("sharding requires sharding-key, sharding-tables and number-of-shards, skipped")
		return
	}

	names := make([]any, len(tables))
	for i, v := range tables {
		names[i] = v
	}
	middleware := sharding.Register(sharding.Config{
		ShardingKey:         tuning.ShardingKey,
		NumberOfShards:      tuning.NumberOfShards,
		PrimaryKeyGenerator: sharding.PKSnowflake,
	}, names...)

	if err := db.Use(middleware); err != nil {
		logger.Warn("failed to register sharding middleware", clog.Strings("tables", tables), clog.Error(err))
		return
	}
	logger.Info("sharding enabled",
		clog.String("sharding_key", tuning.ShardingKey),
		clog.Strings("tables", tables),
		clog.Int("shards", int(tuning.NumberOfShards)))
}
