package router

import (
	"fmt"
	"strings"
)

// 配置块中的顶层键
const (
	KeyNames  = "names"
	KeyType   = "type"
	KeyPolicy = "policy"
)

// parseNames 按逗号拆分，去除空白和空项，保留首次出现的顺序去重
func parseNames(raw string) (names []string, duplicates []string) {
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			duplicates = append(duplicates, name)
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, duplicates
}

// checkNames 拒绝包含 "." 的目标名
//
// 属性按 "<name>." 前缀归属，名称中带点时 "a" 与 "a.b" 的属性无法区分。
func checkNames(names []string) error {
	for _, name := range names {
		if strings.Contains(name, ".") {
			return fmt.Errorf("%w: %q contains '.'", ErrAmbiguousNames, name)
		}
	}
	return nil
}

// targetFields 取出 "<name>." 开头的属性并去掉前缀
func targetFields(props Properties, name string) map[string]string {
	prefix := name + "."
	fields := make(map[string]string)
	for k, v := range props {
		if field, ok := strings.CutPrefix(k, prefix); ok && field != "" {
			fields[field] = v
		}
	}
	return fields
}

// Names 返回配置块中声明的目标名，已去重并保持声明顺序
func Names(props Properties) []string {
	names, _ := parseNames(props[KeyNames])
	return names
}
