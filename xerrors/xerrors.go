// Package xerrors 提供 dsrouter 统一的错误处理工具。
//
// 错误分为两大类，调用方可以通过 errors.Is 判断：
//   - ErrInvalidInput: 配置缺失或非法，启动阶段致命
//   - ErrNotFound: 请求了未声明的路由目标
//
// 各组件在自己的 errors.go 中定义哨兵错误，并通过 Unwrap 链接到上述分类。
package xerrors

import (
	"errors"
	"fmt"
	"strings"
)

// 错误分类哨兵
var (
	// ErrInvalidInput 配置或输入无效
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound 请求的资源不存在
	ErrNotFound = errors.New("not found")
)

// 机器可读错误码
const (
	CodeConfigInvalid  = "CONFIG_INVALID"
	CodeTargetNotFound = "TARGET_NOT_FOUND"
	CodeUnavailable    = "TARGET_UNAVAILABLE"
)

// Wrap 用上下文信息包装错误，保留错误链。
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf 用格式化的上下文信息包装错误。
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// WithCode 用错误码包装错误。
func WithCode(err error, code string) error {
	if err == nil {
		return nil
	}
	return &CodedError{Code: code, Cause: err}
}

// CodedError 带有机器可读错误码的错误。
type CodedError struct {
	Code  string
	Cause error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %v", e.Code, e.Cause)
	}
	return fmt.Sprintf("[%s]", e.Code)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// GetCode 从错误链中提取错误码。
func GetCode(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

// MultiError 合并多个目标的错误，关闭或巡检多个连接池时使用。
// Error 按顺序列出全部错误，便于定位每个失败的目标。
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	msgs := make([]string, len(m.Errors))
	for i, err := range m.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(msgs), strings.Join(msgs, "; "))
}

func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Combine 将多个错误合并为一个，忽略 nil。
func Combine(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return &MultiError{Errors: nonNil}
	}
}

// 标准库函数再导出
var (
	New    = errors.New
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)
