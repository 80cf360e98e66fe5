package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
datasource:
  tinyid:
    names: db0,db1
    type: sql
    db0:
      driver-class-name: com.mysql.cj.jdbc.Driver
      url: jdbc:mysql://127.0.0.1:3306/db0
      username: root
      password: ""
      maximum-pool-size: 16
    db1:
      driver-class-name: com.mysql.cj.jdbc.Driver
      url: jdbc:mysql://127.0.0.1:3306/db1
      username: root
      password: secret
      idle-timeout: 30s
log:
  level: info
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestLoader(t *testing.T, dir, prefix string) Loader {
	t.Helper()
	loader, err := New(&Config{Name: "config", Paths: []string{dir}, EnvPrefix: prefix})
	require.NoError(t, err)
	require.NoError(t, loader.Load(context.Background()))
	return loader
}

func TestPropertiesFlatten(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", baseYAML)

	loader := newTestLoader(t, dir, "DSR_FLAT")
	props := loader.Properties("datasource.tinyid")

	assert.Equal(t, "db0,db1", props["names"])
	assert.Equal(t, "sql", props["type"])
	assert.Equal(t, "com.mysql.cj.jdbc.Driver", props["db0.driver-class-name"])
	assert.Equal(t, "jdbc:mysql://127.0.0.1:3306/db1", props["db1.url"])
	assert.Equal(t, "16", props["db0.maximum-pool-size"])
	assert.Equal(t, "30s", props["db1.idle-timeout"])

	// 空字符串属于“存在”，必须保留
	password, ok := props["db0.password"]
	assert.True(t, ok)
	assert.Empty(t, password)

	// root 之外的键不会出现
	_, ok = props["log.level"]
	assert.False(t, ok)
}

func TestPropertiesListValue(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
datasource:
  tinyid:
    names: [a, b, c]
`)

	loader := newTestLoader(t, dir, "DSR_LIST")
	assert.Equal(t, "a,b,c", loader.Properties(".datasource.tinyid.")["names"])
}

func TestPropertiesEnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", baseYAML)

	t.Setenv("DSR_ENV_DATASOURCE_TINYID_NAMES", "db1")
	t.Setenv("DSR_ENV_DATASOURCE_TINYID_DB1_DRIVER_CLASS_NAME", "mysql")
	t.Setenv("DSR_ENV_DATASOURCE_TINYID_POLICY", "round-robin")

	loader := newTestLoader(t, dir, "dsr_env")
	props := loader.Properties("datasource.tinyid")

	assert.Equal(t, "db1", props["names"])
	assert.Equal(t, "mysql", props["db1.driver-class-name"])
	// 仅存在于环境变量中的顶层键
	assert.Equal(t, "round-robin", props["policy"])
}

func TestPropertiesEnvOnlyTargetFields(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
datasource:
  tinyid:
    names: db0, DB1
    db0:
      driver-class-name: org.sqlite.JDBC
      url: jdbc:sqlite:file:x
      username: u
`)

	t.Setenv("DSR_SECRET_DATASOURCE_TINYID_DB0_PASSWORD", "s3cret")
	t.Setenv("DSR_SECRET_DATASOURCE_TINYID_DB1_URL", "jdbc:sqlite:file:y")
	t.Setenv("DSR_SECRET_DATASOURCE_TINYID_DB2_PASSWORD", "undeclared")

	loader := newTestLoader(t, dir, "DSR_SECRET")
	props := loader.Properties("datasource.tinyid")

	assert.Equal(t, "s3cret", props["db0.password"])
	assert.Equal(t, "u", props["db0.username"])
	assert.Equal(t, "jdbc:sqlite:file:y", props["db1.url"])
	// 未声明的目标不会被绑定
	_, ok := props["db2.password"]
	assert.False(t, ok)
	// 未设置的环境变量不会凭空产生字段
	_, ok = props["db1.password"]
	assert.False(t, ok)
}

func TestEnvironmentSpecificConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", baseYAML)
	writeFile(t, dir, "config.test.yaml", `
datasource:
  tinyid:
    db0:
      url: jdbc:mysql://10.0.0.1:3306/db0
`)
	t.Setenv("DSR_STAGE_ENV", "test")

	loader := newTestLoader(t, dir, "DSR_STAGE")
	props := loader.Properties("datasource.tinyid")

	assert.Equal(t, "jdbc:mysql://10.0.0.1:3306/db0", props["db0.url"])
	assert.Equal(t, "root", props["db0.username"])
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", baseYAML)
	writeFile(t, dir, ".env", "DSR_DOTENV_DATASOURCE_TINYID_DB1_PASSWORD=from-dotenv\n")
	t.Cleanup(func() { _ = os.Unsetenv("DSR_DOTENV_DATASOURCE_TINYID_DB1_PASSWORD") })

	loader := newTestLoader(t, dir, "DSR_DOTENV")
	assert.Equal(t, "from-dotenv", loader.Properties("datasource.tinyid")["db1.password"])
}

func TestExplicitFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "routing.yml", baseYAML)

	loader, err := New(&Config{File: filepath.Join(dir, "routing.yml"), EnvPrefix: "DSR_FILE"})
	require.NoError(t, err)
	require.NoError(t, loader.Load(context.Background()))

	assert.Equal(t, "db0,db1", loader.Get("datasource.tinyid.names"))

	var logCfg struct {
		Level string `mapstructure:"level"`
	}
	require.NoError(t, loader.UnmarshalKey("log", &logCfg))
	assert.Equal(t, "info", logCfg.Level)
}

func TestLoadEmpty(t *testing.T) {
	loader, err := New(&Config{Name: "missing", Paths: []string{t.TempDir()}, EnvPrefix: "DSR_EMPTY"})
	require.NoError(t, err)

	err = loader.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyConfig)
	assert.True(t, IsInvalidInput(err))
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "datasource: [unterminated")

	loader, err := New(&Config{Paths: []string{dir}, EnvPrefix: "DSR_BAD"})
	require.NoError(t, err)
	assert.Error(t, loader.Load(context.Background()))
}

func TestLoadCanceled(t *testing.T) {
	loader, err := New(nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, loader.Load(ctx), context.Canceled)
}
