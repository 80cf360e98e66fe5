package pool

import (
	"slices"
	"strings"
	"unicode"
)

// 已知键的规范形式，按去掉分隔符后的小写形式索引。
// driverClassName、driver_class_name、driver-class-name 以及被 viper 转为小写的
// driverclassname 都会映射到同一个规范键。Hikari 的属性名作为别名保留。
var canonicalKeys = map[string]string{
	"driverclassname": FieldDriverClassName,
	"url":             FieldURL,
	"jdbcurl":         FieldURL,
	"username":        FieldUsername,
	"user":            FieldUsername,
	"password":        FieldPassword,

	"maxopenconns":    "max-open-conns",
	"maximumpoolsize": "max-open-conns",
	"maxidleconns":    "max-idle-conns",
	"minimumidle":     "max-idle-conns",
	"connmaxlifetime": "conn-max-lifetime",
	"maxlifetime":     "conn-max-lifetime",
	"connmaxidletime": "conn-max-idle-time",
	"idletimeout":     "conn-max-idle-time",
	"connecttimeout":  "connect-timeout",

	"connectiontimeout": "connect-timeout",
	"healthcheckperiod": "health-check-period",
	"pingonbuild":       "ping-on-build",
	"tracing":           "tracing",

	"loglevel":               "log-level",
	"slowthreshold":          "slow-threshold",
	"preparestmt":            "prepare-stmt",
	"skipdefaulttransaction": "skip-default-transaction",
	"shardingkey":            "sharding-key",
	"shardingtables":         "sharding-tables",
	"numberofshards":         "number-of-shards",
}

// normalizeKey 将属性键转换为规范形式，未知键转换为 kebab-case
func normalizeKey(key string) string {
	kebab := toKebab(strings.TrimSpace(key))
	if canonical, ok := canonicalKeys[strings.ReplaceAll(kebab, "-", "")]; ok {
		return canonical
	}
	return kebab
}

func toKebab(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-':
			b.WriteByte('-')
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeFields 规范化所有键
//
// 同一规范键出现多次时，按原始键排序后最后出现的值生效，结果与 map 遍历顺序无关。
func normalizeFields(fields map[string]string) map[string]string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make(map[string]string, len(fields))
	for _, k := range keys {
		out[normalizeKey(k)] = fields[k]
	}
	return out
}
