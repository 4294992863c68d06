package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the sleuth daemon is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opCtx, cancel := ctx.opContext(cmd)
			defer cancel()

			health, err := ctx.client().Health(opCtx)
			if err != nil {
				return fmt.Errorf("daemon unreachable at %s: %w", *ctx.serverFlag, err)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, health)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", health.Service, health.Status, health.Time)
			return nil
		},
	}
}
