// Package config 为 dsrouter 提供配置加载能力，基于 Viper 实现。
//
// 配置来源及优先级（高到低）：
//   - 环境变量：DSROUTER_DATASOURCE_TINYID_NAMES=db0,db1
//   - .env 文件
//   - 环境特定配置：config.<DSROUTER_ENV>.yaml
//   - 基础配置：config.yaml
//
// 路由配置块通过 Properties 展平为 "<name>.<field>" 形式的字符串映射：
//
//	loader, _ := config.New(&config.Config{Paths: []string{"./conf"}})
//	if err := loader.Load(ctx); err != nil {
//		panic(err)
//	}
//	props := loader.Properties("datasource.tinyid")
//	// props["names"] == "db0,db1"
//	// props["db0.url"] == "jdbc:mysql://127.0.0.1:3306/tinyid"
//
// 注意：Viper 的键不区分大小写，目标名称会被统一转换为小写。
package config

import "context"

// Loader 配置加载器
type Loader interface {
	// Load 从所有来源加载配置，只应在启动阶段调用一次
	Load(ctx context.Context) error

	// Get 获取原始配置值
	Get(key string) any

	// Unmarshal 将整个配置反序列化到结构体
	Unmarshal(v any) error

	// UnmarshalKey 将指定 Key 的配置反序列化到结构体
	UnmarshalKey(key string, v any) error

	// Properties 将 root 下的配置展平为相对 root 的点分键字符串映射。
	// 列表值以逗号连接，空值被忽略。
	Properties(root string) map[string]string

	// Validate 验证当前配置是否为空
	Validate() error
}
