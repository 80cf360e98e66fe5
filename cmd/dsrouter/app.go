package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ceyewan/dsrouter/clog"
	"github.com/ceyewan/dsrouter/config"
	"github.com/ceyewan/dsrouter/metrics"
	"github.com/ceyewan/dsrouter/router"
)

func newLogger() (clog.Logger, error) {
	return clog.New(&clog.Config{
		Level:       logLevel,
		Format:      logFormat,
		Output:      "stderr",
		EnableColor: logFormat == "console",
	}, clog.WithNamespace("dsrouter"))
}

func newLoader(ctx context.Context) (config.Loader, error) {
	loader, err := config.New(&config.Config{File: configFile, EnvPrefix: envPrefix})
	if err != nil {
		return nil, err
	}
	if err := loader.Load(ctx); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return loader, nil
}

// openRouter 加载配置并构建路由
func openRouter(cmd *cobra.Command, meter metrics.Meter) (*router.Router, clog.Logger, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	loader, err := newLoader(cmd.Context())
	if err != nil {
		return nil, nil, err
	}

	opts := []router.Option{router.WithLogger(logger)}
	if meter != nil {
		opts = append(opts, router.WithMeter(meter))
	}
	r, err := router.Load(cmd.Context(), loader, rootKey, opts...)
	if err != nil {
		logger.Error("failed to initialize router", clog.Error(err))
		return nil, nil, err
	}
	return r, logger, nil
}
