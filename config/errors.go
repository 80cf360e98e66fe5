package config

import "github.com/ceyewan/dsrouter/xerrors"

// ErrEmptyConfig 没有从任何来源加载到配置
var ErrEmptyConfig = xerrors.Wrap(xerrors.ErrInvalidInput, "config: configuration is empty")

// IsInvalidInput 检查错误是否为配置无效
func IsInvalidInput(err error) bool {
	return xerrors.Is(err, xerrors.ErrInvalidInput)
}
