package pool

import (
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/ceyewan/dsrouter/clog"
)

// poolTuning database/sql 连接池参数，默认值参照 HikariCP
type poolTuning struct {
	MaxOpenConns    int           `mapstructure:"max-open-conns"`
	MaxIdleConns    int           `mapstructure:"max-idle-conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn-max-lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn-max-idle-time"`
	ConnectTimeout  time.Duration `mapstructure:"connect-timeout"`
	PingOnBuild     bool          `mapstructure:"ping-on-build"`
	Tracing         bool          `mapstructure:"tracing"`
}

func defaultPoolTuning() poolTuning {
	return poolTuning{
		MaxOpenConns:    10,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
		ConnectTimeout:  5 * time.Second,
		PingOnBuild:     true,
	}
}

// gormTuning gorm 类型额外支持的参数
type gormTuning struct {
	Pool poolTuning `mapstructure:",squash"`

	LogLevel               string        `mapstructure:"log-level"`
	SlowThreshold          time.Duration `mapstructure:"slow-threshold"`
	PrepareStmt            bool          `mapstructure:"prepare-stmt"`
	SkipDefaultTransaction bool          `mapstructure:"skip-default-transaction"`

	// 三项同时配置时启用 gorm.io/sharding
	ShardingKey    string   `mapstructure:"sharding-key"`
	ShardingTables []string `mapstructure:"sharding-tables"`
	NumberOfShards uint     `mapstructure:"number-of-shards"`
}

func defaultGormTuning() gormTuning {
	return gormTuning{
		Pool:          defaultPoolTuning(),
		LogLevel:      "warn",
		SlowThreshold: 200 * time.Millisecond,
	}
}

// pgxTuning pgxpool 参数
type pgxTuning struct {
	MaxConns          int32         `mapstructure:"max-open-conns"`
	MinConns          int32         `mapstructure:"max-idle-conns"`
	MaxConnLifetime   time.Duration `mapstructure:"conn-max-lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"conn-max-idle-time"`
	HealthCheckPeriod time.Duration `mapstructure:"health-check-period"`
	ConnectTimeout    time.Duration `mapstructure:"connect-timeout"`
	PingOnBuild       bool          `mapstructure:"ping-on-build"`
}

func defaultPgxTuning() pgxTuning {
	return pgxTuning{
		MaxConns:          10,
		MaxConnLifetime:   30 * time.Minute,
		MaxConnIdleTime:   10 * time.Minute,
		HealthCheckPeriod: time.Minute,
		ConnectTimeout:    5 * time.Second,
		PingOnBuild:       true,
	}
}

// decodeTuning 将调优属性写入 out，尽力而为：
// 未知键记录 debug 日志，无法转换的值记录 warn 日志并保留默认值，从不返回错误。
func decodeTuning(extra map[string]string, out any, logger clog.Logger) {
	if len(extra) == 0 {
		return
	}

	input := make(map[string]any, len(extra))
	for k, v := range extra {
		input[k] = strings.TrimSpace(v)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			durationHook(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		logger.Warn("failed to create tuning decoder", clog.Error(err))
		return
	}

	if err := decoder.Decode(input); err != nil {
		logger.Warn("some tuning properties were not applied", clog.Error(err))
	}

	if unknown := unknownKeys(extra, tuningKeys(reflect.TypeOf(out))); len(unknown) > 0 {
		logger.Debug("ignoring unknown tuning properties", clog.Strings("keys", unknown))
	}
}

// tuningKeys 收集结构体 mapstructure 标签声明的键，展开 squash 字段
func tuningKeys(t reflect.Type) map[string]struct{} {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	keys := make(map[string]struct{})
	if t.Kind() != reflect.Struct {
		return keys
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if slices.Contains(strings.Split(opts, ","), "squash") {
			for k := range tuningKeys(f.Type) {
				keys[k] = struct{}{}
			}
			continue
		}
		if name == "-" || !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		keys[name] = struct{}{}
	}
	return keys
}

func unknownKeys(extra map[string]string, known map[string]struct{}) []string {
	var unknown []string
	for k := range extra {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	slices.Sort(unknown)
	return unknown
}

// durationHook 整数按毫秒解析（与 HikariCP 一致），其余按 time.ParseDuration 解析
func durationHook() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		s := strings.TrimSpace(data.(string))
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Duration(ms) * time.Millisecond, nil
		}
		return time.ParseDuration(s)
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
