package pool

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/snowflakedb/gosnowflake"
	_ "modernc.org/sqlite"
)

// Dialect 数据库方言
type Dialect string

const (
	DialectMySQL     Dialect = "mysql"
	DialectPostgres  Dialect = "postgres"
	DialectSQLite    Dialect = "sqlite"
	DialectSnowflake Dialect = "snowflake"
)

// Driver 解析后的驱动信息
type Driver struct {
	// Dialect 决定 URL 的解析方式和 gorm 方言
	Dialect Dialect
	// Name 是 database/sql 注册的驱动名
	Name string
}

// JDBC 驱动类名和 Go 驱动名都可以作为 driver-class-name，大小写不敏感
var drivers = map[string]Driver{
	"com.mysql.cj.jdbc.driver": {DialectMySQL, "mysql"},
	"com.mysql.jdbc.driver":    {DialectMySQL, "mysql"},
	"org.mariadb.jdbc.driver":  {DialectMySQL, "mysql"},
	"mysql":                    {DialectMySQL, "mysql"},

	"org.postgresql.driver": {DialectPostgres, "postgres"},
	"postgres":              {DialectPostgres, "postgres"},
	"postgresql":            {DialectPostgres, "postgres"},
	"pgx":                   {DialectPostgres, "pgx"},

	"org.sqlite.jdbc": {DialectSQLite, "sqlite"},
	"sqlite":          {DialectSQLite, "sqlite"},
	"sqlite3":         {DialectSQLite, "sqlite"},

	"net.snowflake.client.jdbc.snowflakedriver": {DialectSnowflake, "snowflake"},
	"snowflake": {DialectSnowflake, "snowflake"},
}

// ResolveDriver 将 driver-class-name 解析为 Go 驱动
func ResolveDriver(id string) (Driver, bool) {
	d, ok := drivers[strings.ToLower(strings.TrimSpace(id))]
	return d, ok
}

// Drivers 返回所有可识别的驱动标识，已排序
func Drivers() []string {
	ids := make([]string, 0, len(drivers))
	for id := range drivers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// DSN 将 JDBC 风格的 URL 与凭据转换为驱动可用的连接串
func DSN(dialect Dialect, rawURL, username, password string) (string, error) {
	rest := strings.TrimPrefix(strings.TrimSpace(rawURL), "jdbc:")
	switch dialect {
	case DialectMySQL:
		return mysqlDSN(rest, username, password)
	case DialectPostgres:
		return postgresDSN(rest, username, password)
	case DialectSQLite:
		return sqliteDSN(rest)
	case DialectSnowflake:
		return snowflakeDSN(rest, username, password)
	default:
		return "", fmt.Errorf("unsupported dialect %q", dialect)
	}
}

// Connector/J 专有参数到 go-sql-driver 参数的映射，值为空表示直接丢弃
var mysqlJDBCParams = map[string]string{
	"characterencoding":             "charset",
	"connecttimeout":                "timeout",
	"sockettimeout":                 "readTimeout",
	"servertimezone":                "loc",
	"usessl":                        "tls",
	"allowmultiqueries":             "multiStatements",
	"useunicode":                    "",
	"autoreconnect":                 "",
	"zerodatetimebehavior":          "",
	"rewritebatchedstatements":      "",
	"useserverprepstmts":            "",
	"cacheprepstmts":                "",
	"allowpublickeyretrieval":       "",
	"failoverreadonly":              "",
	"usejdbccomplianttimezoneshift": "",
	"uselegacydatetimecode":         "",
}

func mysqlDSN(rest, username, password string) (string, error) {
	if !strings.HasPrefix(rest, "mysql://") && !strings.HasPrefix(rest, "mariadb://") {
		// go-sql-driver 原生 DSN
		cfg, err := mysql.ParseDSN(rest)
		if err != nil {
			return "", err
		}
		cfg.User = username
		cfg.Passwd = password
		return cfg.FormatDSN(), nil
	}

	u, err := parseURL(rest)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		value := values[len(values)-1]
		native, jdbc := mysqlJDBCParams[strings.ToLower(key)]
		if !jdbc {
			params.Set(key, value)
			continue
		}
		switch native {
		case "":
		case "charset":
			params.Set(native, mysqlCharset(value))
		case "timeout", "readTimeout":
			ms, err := strconv.Atoi(value)
			if err != nil {
				return "", fmt.Errorf("param %s: %w", key, err)
			}
			params.Set(native, strconv.Itoa(ms)+"ms")
			if native == "readTimeout" {
				params.Set("writeTimeout", strconv.Itoa(ms)+"ms")
			}
		default:
			params.Set(native, value)
		}
	}
	if !params.Has("parseTime") {
		params.Set("parseTime", "true")
	}

	dsn := fmt.Sprintf("tcp(%s)/%s", u.Host, strings.TrimPrefix(u.Path, "/"))
	if encoded := params.Encode(); encoded != "" {
		dsn += "?" + encoded
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.User = username
	cfg.Passwd = password
	return cfg.FormatDSN(), nil
}

// parseURL 解析带主机的 URL，错误信息不包含 URL 中的凭据
func parseURL(rest string) (*url.URL, error) {
	u, err := url.Parse(rest)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			return nil, fmt.Errorf("parse url: %w", ue.Err)
		}
		return nil, errors.New("parse url")
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host in %s", u.Redacted())
	}
	return u, nil
}

func mysqlCharset(jdbc string) string {
	switch strings.ToLower(strings.ReplaceAll(jdbc, "-", "")) {
	case "utf8", "utf8mb4":
		return "utf8mb4"
	case "iso88591", "latin1":
		return "latin1"
	default:
		return jdbc
	}
}

// pgJDBC 参数到 libpq 参数的映射
var postgresJDBCParams = map[string]string{
	"currentschema":   "search_path",
	"applicationname": "application_name",
	"connecttimeout":  "connect_timeout",
	"ssl":             "sslmode",
	"sslmode":         "sslmode",
	"sslcert":         "sslcert",
	"sslkey":          "sslkey",
	"sslrootcert":     "sslrootcert",
}

func postgresDSN(rest, username, password string) (string, error) {
	if strings.HasPrefix(rest, "postgresql://") || strings.HasPrefix(rest, "postgres://") {
		u, err := parseURL(rest)
		if err != nil {
			return "", err
		}
		if password == "" {
			u.User = url.User(username)
		} else {
			u.User = url.UserPassword(username, password)
		}

		params := url.Values{}
		for key, values := range u.Query() {
			if len(values) == 0 {
				continue
			}
			value := values[len(values)-1]
			native, ok := postgresJDBCParams[strings.ToLower(key)]
			if !ok {
				params.Set(key, value)
				continue
			}
			if strings.EqualFold(key, "ssl") {
				if strings.EqualFold(value, "true") {
					value = "require"
				} else {
					value = "disable"
				}
			}
			params.Set(native, value)
		}
		u.RawQuery = params.Encode()
		return u.String(), nil
	}

	// libpq keyword/value 形式
	if !strings.Contains(rest, "=") {
		return "", errors.New("unrecognized postgres url")
	}
	return fmt.Sprintf("%s user=%s password=%s", rest, quotePQ(username), quotePQ(password)), nil
}

func quotePQ(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func sqliteDSN(rest string) (string, error) {
	dsn := strings.TrimPrefix(rest, "sqlite:")
	if dsn == "" {
		return "", fmt.Errorf("empty sqlite path")
	}
	return dsn, nil
}

func snowflakeDSN(rest, username, password string) (string, error) {
	rest = strings.TrimPrefix(rest, "snowflake://")
	if rest == "" {
		return "", fmt.Errorf("empty snowflake url")
	}

	// JDBC 使用 db 参数指定数据库
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		query, err := url.ParseQuery(rest[i+1:])
		if err != nil {
			return "", err
		}
		if db := query.Get("db"); db != "" && query.Get("database") == "" {
			query.Del("db")
			query.Set("database", db)
		}
		rest = rest[:i+1] + query.Encode()
	}

	cfg, err := gosnowflake.ParseDSN("user:password@" + rest)
	if err != nil {
		return "", err
	}
	cfg.User = username
	cfg.Password = password
	return gosnowflake.DSN(cfg)
}
