// Command dsrouter 检查并运行路由配置块。
//
//	dsrouter keys --config ./config.yaml
//	dsrouter check --config ./config.yaml --root datasource.tinyid
//	dsrouter serve --config ./config.yaml --metrics-port 9090
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version:      version,
	Use:          "dsrouter",
	Short:        "Configuration-driven multi-database routing",
	SilenceUsage: true,
	Long: `dsrouter builds one connection pool per target declared under a
configuration root (names, type, <name>.driver-class-name, <name>.url,
<name>.username, <name>.password) and exposes them through a single router.`,
}

var (
	configFile string
	rootKey    string
	envPrefix  string
	logLevel   string
	logFormat  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: ./config.yaml or ./config/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootKey, "root", "datasource.tinyid", "configuration root of the routing block")
	rootCmd.PersistentFlags().StringVar(&envPrefix, "env-prefix", "DSROUTER", "environment variable prefix")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format: console, json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
