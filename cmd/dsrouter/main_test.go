package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/dsrouter/testkit"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestKeysCommand(t *testing.T) {
	path := writeConfig(t, `
datasource:
  tinyid:
    names: db0, db1 ,db0
`)
	out, err := execute(t, "keys", "--config", path, "--env-prefix", "DSR_CMD_KEYS")
	require.NoError(t, err)
	assert.Equal(t, "db0\ndb1\n", out)
}

func TestKeysCommand_MissingNames(t *testing.T) {
	path := writeConfig(t, `
other:
  key: value
`)
	_, err := execute(t, "keys", "--config", path, "--env-prefix", "DSR_CMD_MISSING")
	assert.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	path := writeConfig(t, `
datasource:
  tinyid:
    names: a,b
    a:
      driver-class-name: org.sqlite.JDBC
      url: "jdbc:sqlite:file:`+testkit.NewID()+`?mode=memory&cache=shared"
      username: ""
      password: ""
    b:
      driver-class-name: sqlite
      url: "file:`+testkit.NewID()+`?mode=memory&cache=shared"
      username: ""
      password: ""
`)
	out, err := execute(t, "check", "--config", path, "--env-prefix", "DSR_CMD_CHECK", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "TARGET")
	assert.Contains(t, out, "sqlite")
	assert.Contains(t, out, "ok")
}

func TestCheckCommand_MissingField(t *testing.T) {
	path := writeConfig(t, `
datasource:
  tinyid:
    names: a
    a:
      driver-class-name: sqlite
      url: "file:`+testkit.NewID()+`?mode=memory&cache=shared"
      password: ""
`)
	_, err := execute(t, "check", "--config", path, "--env-prefix", "DSR_CMD_FIELD", "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username")
}
