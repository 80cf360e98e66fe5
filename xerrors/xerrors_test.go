package xerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))

	base := errors.New("base error")
	wrapped := Wrap(base, "context")
	require.Error(t, wrapped)
	assert.Equal(t, "context: base error", wrapped.Error())
	assert.ErrorIs(t, wrapped, base)
}

func TestWrapf(t *testing.T) {
	assert.Nil(t, Wrapf(nil, "target %s", "db0"))

	wrapped := Wrapf(ErrNotFound, "target %s", "db0")
	assert.Equal(t, "target db0: not found", wrapped.Error())
	assert.ErrorIs(t, wrapped, ErrNotFound)
}

func TestWithCode(t *testing.T) {
	assert.Nil(t, WithCode(nil, CodeConfigInvalid))

	coded := WithCode(ErrInvalidInput, CodeConfigInvalid)
	assert.Equal(t, "[CONFIG_INVALID] invalid input", coded.Error())
	assert.Equal(t, CodeConfigInvalid, GetCode(coded))

	// 包装后依然可以提取错误码
	wrapped := Wrap(coded, "build pool")
	assert.Equal(t, CodeConfigInvalid, GetCode(wrapped))
	assert.ErrorIs(t, wrapped, ErrInvalidInput)

	assert.Empty(t, GetCode(errors.New("plain")))
}

func TestCombine(t *testing.T) {
	assert.NoError(t, Combine())
	assert.NoError(t, Combine(nil, nil))

	e1 := errors.New("close db0")
	assert.Equal(t, e1, Combine(nil, e1))

	e2 := errors.New("close db1")
	combined := Combine(e1, nil, e2)
	require.Error(t, combined)
	assert.Equal(t, "2 errors: close db0; close db1", combined.Error())
	assert.ErrorIs(t, combined, e1)
	assert.ErrorIs(t, combined, e2)

	var multi *MultiError
	require.True(t, errors.As(combined, &multi))
	assert.Len(t, multi.Errors, 2)
}
