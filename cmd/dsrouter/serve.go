package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ceyewan/dsrouter/clog"
	"github.com/ceyewan/dsrouter/metrics"
	"github.com/ceyewan/dsrouter/router"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Hold the pools open and expose health and Prometheus metrics",
	Long: `Build the router, run a health check on an interval and serve
/metrics (Prometheus) and /healthz (JSON status per target) until
interrupted. Pools are closed on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr     string
	serveInterval time.Duration
	serveRuntime  bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":9090", "listen address")
	serveCmd.Flags().DurationVar(&serveInterval, "interval", 15*time.Second, "health check interval")
	serveCmd.Flags().BoolVar(&serveRuntime, "runtime-metrics", false, "export Go runtime metrics")
	rootCmd.AddCommand(serveCmd)
}

type targetStatus struct {
	Name      string  `json:"name"`
	Healthy   bool    `json:"healthy"`
	Error     string  `json:"error,omitempty"`
	LatencyMS float64 `json:"latency_ms"`
	Open      int     `json:"open"`
	InUse     int     `json:"in_use"`
	Idle      int     `json:"idle"`
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	meter, err := metrics.New(&metrics.Config{
		Enabled:       true,
		ServiceName:   "dsrouter",
		Version:       version,
		EnableRuntime: serveRuntime,
	})
	if err != nil {
		return fmt.Errorf("create meter: %w", err)
	}
	defer func() { _ = meter.Shutdown(context.Background()) }()

	cmd.SetContext(ctx)
	r, logger, err := openRouter(cmd, meter)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	mux := http.NewServeMux()
	mux.Handle("/metrics", meter.Handler())
	mux.HandleFunc("/healthz", healthHandler(r))

	srv := &http.Server{Addr: serveAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics and health", clog.String("addr", serveAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ticker := time.NewTicker(serveInterval)
	defer ticker.Stop()
	r.HealthCheck(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		case <-ticker.C:
			r.HealthCheck(ctx)
		}
	}
}

func healthHandler(r *router.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		statuses := r.HealthCheck(req.Context())
		body := make([]targetStatus, len(statuses))
		code := http.StatusOK
		for i, st := range statuses {
			body[i] = targetStatus{
				Name:      st.Name,
				Healthy:   st.Healthy(),
				LatencyMS: float64(st.Latency.Microseconds()) / 1000,
				Open:      st.Stats.OpenConnections,
				InUse:     st.Stats.InUse,
				Idle:      st.Stats.Idle,
			}
			if st.Err != nil {
				body[i].Error = st.Err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(body)
	}
}
