package router

import (
	"context"
	"strings"

	"github.com/ceyewan/dsrouter/config"
)

// DefaultRoot 配置块的默认根键
const DefaultRoot = "datasource.tinyid"

// Load 从 config.Loader 读取 root 下的配置块并构建 Router，root 为空时使用 DefaultRoot
//
// Viper 会把键转为小写，因此 names 中的目标名同样转为小写，Resolve 时需使用小写名称。
func Load(ctx context.Context, loader config.Loader, root string, opts ...Option) (*Router, error) {
	props := LoadProperties(loader, root)
	return New(ctx, props, opts...)
}

// LoadProperties 读取并整理 root 下的配置块
func LoadProperties(loader config.Loader, root string) Properties {
	if root == "" {
		root = DefaultRoot
	}
	props := Properties(loader.Properties(root))
	if names, ok := props[KeyNames]; ok {
		props[KeyNames] = strings.ToLower(names)
	}
	return props
}
