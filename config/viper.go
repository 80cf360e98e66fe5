package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ceyewan/dsrouter/xerrors"
)

// routingKeys 仅通过环境变量提供时也需要识别的顶层键
var routingKeys = []string{"names", "type", "policy"}

// targetKeys 每个已声明目标在仅通过环境变量提供时也需要识别的字段
var targetKeys = []string{"driver-class-name", "url", "username", "password"}

type loader struct {
	v    *viper.Viper
	opts *Config
	mu   sync.Mutex
}

func newLoader(cfg *Config) *loader {
	return &loader{v: viper.New(), opts: cfg}
}

// Load 初始化并从所有来源加载配置
func (l *loader) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.opts.File != "" {
		l.v.SetConfigFile(l.opts.File)
	} else {
		l.v.SetConfigName(l.opts.Name)
		l.v.SetConfigType(l.opts.FileType)
		for _, path := range l.opts.Paths {
			l.v.AddConfigPath(path)
		}
	}

	// 环境变量优先级最高；driver-class-name 中的 "-" 同样替换为 "_"
	l.v.SetEnvPrefix(l.opts.EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	l.v.AutomaticEnv()

	// .env 只补充尚未设置的环境变量，必须在读取配置前完成
	l.loadDotEnv()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return xerrors.Wrapf(err, "failed to read config file %s", l.describeSource())
		}
	}

	if err := l.mergeEnvironmentConfig(); err != nil {
		return err
	}

	return l.validateLocked()
}

// loadDotEnv 依次尝试当前目录和搜索路径下的 .env 文件，缺失不视为错误
func (l *loader) loadDotEnv() {
	candidates := []string{".env"}
	if l.opts.File != "" {
		candidates = append(candidates, filepath.Join(filepath.Dir(l.opts.File), ".env"))
	}
	for _, path := range l.opts.Paths {
		candidates = append(candidates, filepath.Join(path, ".env"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}

// mergeEnvironmentConfig 合并 <name>.<env>.<ext>，env 来自 <PREFIX>_ENV
func (l *loader) mergeEnvironmentConfig() error {
	env := os.Getenv(l.opts.EnvPrefix + "_ENV")
	if env == "" || l.opts.File != "" {
		return nil
	}

	envName := fmt.Sprintf("%s.%s", l.opts.Name, env)
	l.v.SetConfigName(envName)
	defer l.v.SetConfigName(l.opts.Name)

	if err := l.v.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return xerrors.Wrapf(err, "failed to merge environment config %s", envName)
		}
	}
	return nil
}

func (l *loader) describeSource() string {
	if l.opts.File != "" {
		return l.opts.File
	}
	return l.opts.Name
}

func (l *loader) Get(key string) any {
	return l.v.Get(key)
}

func (l *loader) Unmarshal(v any) error {
	return l.v.Unmarshal(v)
}

func (l *loader) UnmarshalKey(key string, v any) error {
	return l.v.UnmarshalKey(key, v)
}

// Properties 展平 root 下的所有叶子节点
func (l *loader) Properties(root string) map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()

	root = strings.ToLower(strings.Trim(root, "."))
	prefix := ""
	if root != "" {
		prefix = root + "."
		for _, k := range routingKeys {
			_ = l.v.BindEnv(prefix + k)
		}
		if names, ok := stringify(l.v.Get(prefix + "names")); ok {
			for _, name := range strings.Split(names, ",") {
				name = strings.ToLower(strings.TrimSpace(name))
				if name == "" {
					continue
				}
				for _, k := range targetKeys {
					_ = l.v.BindEnv(prefix + name + "." + k)
				}
			}
		}
	}

	keys := l.v.AllKeys()
	sort.Strings(keys)

	props := make(map[string]string)
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		value, ok := stringify(l.v.Get(key))
		if !ok {
			continue
		}
		props[strings.TrimPrefix(key, prefix)] = value
	}
	return props
}

func (l *loader) Validate() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.validateLocked()
}

func (l *loader) validateLocked() error {
	if len(l.v.AllKeys()) == 0 {
		return ErrEmptyConfig
	}
	return nil
}

// stringify 将配置值转换为字符串，nil 和嵌套映射视为不存在
func stringify(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []string:
		return strings.Join(v, ","), true
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := stringify(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ","), true
	case map[string]any:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}
