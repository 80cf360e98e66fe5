package clog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T, level string, opts ...Option) (Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	opts = append(opts, withBuffer(buf))
	logger, err := New(&Config{Level: level, Format: "json", Output: "buffer"}, opts...)
	require.NoError(t, err)
	return logger, buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{name: "empty gets defaults", cfg: &Config{}},
		{name: "json", cfg: &Config{Level: "warn", Format: "json"}},
		{name: "upper case level", cfg: &Config{Level: "ERROR"}},
		{name: "invalid level", cfg: &Config{Level: "verbose"}, wantErr: true},
		{name: "invalid format", cfg: &Config{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, tt.cfg.Level)
			assert.NotEmpty(t, tt.cfg.Format)
			assert.NotEmpty(t, tt.cfg.Output)
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("Warning")
	require.NoError(t, err)
	assert.Equal(t, WarnLevel, lvl)
	assert.Equal(t, "warn", lvl.String())

	_, err = ParseLevel("trace")
	assert.Error(t, err)
}

func TestJSONOutput(t *testing.T) {
	logger, buf := newBufferLogger(t, "info", WithNamespace("dsrouter"))

	logger.Debug("hidden")
	logger.WithNamespace("router").
		With(String("target", "db0")).
		Info("pool built", Int("max_open_conns", 16), Error(nil))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "pool built", lines[0]["msg"])
	assert.Equal(t, "dsrouter.router", lines[0][NamespaceKey])
	assert.Equal(t, "db0", lines[0]["target"])
	assert.EqualValues(t, 16, lines[0]["max_open_conns"])
	_, hasEmpty := lines[0][""]
	assert.False(t, hasEmpty)
}

func TestWithNamespaceDoesNotLeak(t *testing.T) {
	logger, buf := newBufferLogger(t, "info", WithNamespace("app"))

	_ = logger.WithNamespace("router")
	logger.WithNamespace("pool").Info("a")
	logger.Info("b")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "app.pool", lines[0][NamespaceKey])
	assert.Equal(t, "app", lines[1][NamespaceKey])
}

func TestErrorFields(t *testing.T) {
	logger, buf := newBufferLogger(t, "debug")

	logger.Error("build failed", Error(errors.New("missing url")))
	logger.Warn("tuning skipped", ErrorWithCode(errors.New("bad value"), "CONFIG_INVALID"))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "missing url", lines[0]["err_msg"])

	group, ok := lines[1]["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "CONFIG_INVALID", group["code"])
	assert.Equal(t, "bad value", group["msg"])
}

func TestSetLevel(t *testing.T) {
	logger, buf := newBufferLogger(t, "error")

	logger.Info("dropped")
	require.NoError(t, logger.SetLevel(DebugLevel))
	logger.Debug("kept")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["msg"])
	assert.Equal(t, "DEBUG", lines[0]["level"])
}

type ctxKey string

func TestContextFields(t *testing.T) {
	logger, buf := newBufferLogger(t, "info", WithContextField(ctxKey("route"), "route_key"))

	ctx := context.WithValue(context.Background(), ctxKey("route"), "db1")
	logger.InfoContext(ctx, "routed")
	logger.InfoContext(context.Background(), "unrouted")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "db1", lines[0]["route_key"])
	_, ok := lines[1]["route_key"]
	assert.False(t, ok)
}

func TestConsoleFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(&Config{Level: "info", Format: "console", Output: "buffer"}, withBuffer(buf))
	require.NoError(t, err)

	logger.Info("router ready", Strings("keys", []string{"a", "b"}))
	out := buf.String()
	assert.Contains(t, out, "router ready")
	assert.Contains(t, out, "keys=a,b")
}

func TestBufferOutputRequiresBuffer(t *testing.T) {
	_, err := New(&Config{Output: "buffer"})
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.NotPanics(t, func() {
		logger.With(String("k", "v")).WithNamespace("x").Info("nothing")
		assert.NoError(t, logger.SetLevel(DebugLevel))
		logger.Flush()
	})
}
