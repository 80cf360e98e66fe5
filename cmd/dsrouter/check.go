package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ceyewan/dsrouter/router"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Build every pool and ping each target",
	Long: `Build the router exactly as a service would at startup, ping every
target and print a status table. Exits non-zero when the configuration is
invalid or any target is unreachable.

Examples:
  dsrouter check --config ./config.yaml
  DSROUTER_ENV=prod dsrouter check --root datasource.tinyid`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	r, _, err := openRouter(cmd, nil)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	statuses := r.HealthCheck(cmd.Context())

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TARGET\tTYPE\tDRIVER\tSTATUS\tLATENCY\tOPEN\tIDLE")
	for _, st := range statuses {
		h := r.MustResolve(st.Name)
		status := "ok"
		if st.Err != nil {
			status = st.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			st.Name, h.Type(), h.Driver(), status, st.Latency.Round(time.Microsecond), st.Stats.OpenConnections, st.Stats.Idle)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	return router.Unhealthy(statuses)
}
