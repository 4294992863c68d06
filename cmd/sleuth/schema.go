package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSchemaCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Show the dataset schema the query pipeline works against",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opCtx, cancel := ctx.opContext(cmd)
			defer cancel()

			schema, err := ctx.client().Schema(opCtx)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"schema": schema})
			}

			fmt.Fprintln(cmd.OutOrStdout(), schema)
			return nil
		},
	}
}
