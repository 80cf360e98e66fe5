package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ceyewan/dsrouter/router"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Print the declared target names without connecting",
	Long: `Print the target names declared under the configuration root, in
declaration order, after trimming and de-duplication. No pool is built.`,
	Args: cobra.NoArgs,
	RunE: runKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)
}

func runKeys(cmd *cobra.Command, args []string) error {
	loader, err := newLoader(cmd.Context())
	if err != nil {
		return err
	}

	props := router.LoadProperties(loader, rootKey)
	names := router.Names(props)
	if len(names) == 0 {
		return fmt.Errorf("%w under %q", router.ErrMissingNames, rootKey)
	}
	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
