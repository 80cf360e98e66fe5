package router

import (
	"errors"
	"fmt"

	"github.com/ceyewan/dsrouter/pool"
	"github.com/ceyewan/dsrouter/xerrors"
)

// Sentinel Errors - 路由专用的哨兵错误
var (
	ErrMissingNames   = xerrors.New("router: names is missing or empty")
	ErrAmbiguousNames = xerrors.New("router: target names are prefix-ambiguous")
	ErrUnknownPolicy  = xerrors.New("router: unknown selection policy")
	ErrUnknownTarget  = xerrors.New("router: unknown target")
	ErrNotReady       = xerrors.New("router: not initialized")
	ErrClosed         = xerrors.New("router: closed")
)

// RoutingError 请求了未声明的目标
//
// 同时匹配 errors.Is(err, ErrUnknownTarget) 和 errors.Is(err, xerrors.ErrNotFound)。
type RoutingError struct {
	Key string
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("router: unknown target %q", e.Key)
}

func (e *RoutingError) Unwrap() []error {
	return []error{ErrUnknownTarget, xerrors.ErrNotFound}
}

// IsRoutingError 判断错误链中是否包含 *RoutingError
func IsRoutingError(err error) bool {
	var re *RoutingError
	return errors.As(err, &re)
}

// IsConfigError 判断是否为配置错误，包括目标级别的 *pool.ConfigError
func IsConfigError(err error) bool {
	return pool.IsConfigError(err)
}

func configError(field string, err error) error {
	return xerrors.WithCode(&pool.ConfigError{Field: field, Err: err}, xerrors.CodeConfigInvalid)
}

func routingError(key string) error {
	return xerrors.WithCode(&RoutingError{Key: key}, xerrors.CodeTargetNotFound)
}
