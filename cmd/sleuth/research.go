package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sleuth/internal/research"
)

func newResearchCommand(ctx *commandContext) *cobra.Command {
	var maxResults int

	cmd := &cobra.Command{
		Use:   "research <query>",
		Short: "Research a topic on the web and write a cited report",
		Long: "Research searches the web, reads the top results, and writes a\n" +
			"structured report with numbered citations. Progress is streamed\n" +
			"while the daemon works; expect a run to take a minute or two.",
		Example: "  sleuth research \"latest developments in renewable energy\" --max-results 3",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			if ctx.jsonOutput() {
				opCtx, cancel := ctx.opContext(cmd)
				defer cancel()
				out, err := ctx.client().Research(opCtx, query, maxResults)
				if err != nil {
					return err
				}
				return writeJSON(cmd, out)
			}

			streamCtx, cancel := ctx.streamContext(cmd)
			defer cancel()
			events, err := ctx.client().ResearchStream(streamCtx, query, maxResults)
			if err != nil {
				return err
			}
			final, err := followStream(cmd, events)
			if err != nil {
				return err
			}

			var out research.Outcome
			if err := json.Unmarshal(final.Data, &out); err != nil {
				return fmt.Errorf("decode result: %w", err)
			}
			printResearchOutcome(cmd, out)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Number of search results to research (0 uses the server default)")
	return cmd
}

func printResearchOutcome(cmd *cobra.Command, out research.Outcome) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w)

	if !out.Success {
		fmt.Fprintln(w, out.Answer)
		return
	}

	fmt.Fprintln(w, out.Report)
	if len(out.Citations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Citations:")
		for _, c := range out.Citations {
			fmt.Fprintf(w, "  %s\n", c.Formatted)
		}
	}
}
