package pool

import (
	"errors"
	"fmt"

	"github.com/ceyewan/dsrouter/xerrors"
)

// Sentinel Errors - 连接池构建专用的哨兵错误
var (
	ErrMissingField  = xerrors.New("pool: mandatory field missing")
	ErrUnknownType   = xerrors.New("pool: unknown pool type")
	ErrUnknownDriver = xerrors.New("pool: unknown driver")
	ErrMalformedURL  = xerrors.New("pool: malformed url")
	ErrUnsupported   = xerrors.New("pool: unsupported driver for pool type")
	ErrConnect       = xerrors.New("pool: connection failed")
)

// ConfigError 目标配置错误，指明出错的目标和字段
//
// 同时匹配 errors.Is(err, xerrors.ErrInvalidInput) 和具体的哨兵错误。
type ConfigError struct {
	Target string
	Field  string
	Err    error
}

func (e *ConfigError) Error() string {
	switch {
	case e.Target != "" && e.Field != "":
		return fmt.Sprintf("target %q field %q: %v", e.Target, e.Field, e.Err)
	case e.Target != "":
		return fmt.Sprintf("target %q: %v", e.Target, e.Err)
	case e.Field != "":
		return fmt.Sprintf("field %q: %v", e.Field, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *ConfigError) Unwrap() []error {
	return []error{e.Err, xerrors.ErrInvalidInput}
}

// IsConfigError 判断错误链中是否包含 *ConfigError
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

func configError(target, field string, err error) error {
	return xerrors.WithCode(&ConfigError{Target: target, Field: field, Err: err}, xerrors.CodeConfigInvalid)
}

func connectError(target string, err error) error {
	return xerrors.WithCode(fmt.Errorf("pool[%s]: %w: %w", target, ErrConnect, err), xerrors.CodeUnavailable)
}
