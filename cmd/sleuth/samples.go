package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSamplesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "samples",
		Short: "Show example inputs for ask and research",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opCtx, cancel := ctx.opContext(cmd)
			defer cancel()

			samples, err := ctx.client().Samples(opCtx)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, samples)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Sample questions (sleuth ask):")
			for i, q := range samples.Questions {
				fmt.Fprintf(w, "  %2d. %s\n", i+1, q)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Sample research queries (sleuth research):")
			for i, q := range samples.Queries {
				fmt.Fprintf(w, "  %2d. %s\n", i+1, q)
			}
			return nil
		},
	}
}
