package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sleuth/internal/dataset"
	"sleuth/internal/sqlquery"
)

func newAskCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a natural language question about the sample dataset",
		Long: "Ask turns a natural language question into SQL, runs it against the\n" +
			"daemon's sample dataset, and explains the results. Progress is\n" +
			"streamed while the daemon works.",
		Example: "  sleuth ask \"What is the average salary by department?\"",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			if ctx.jsonOutput() {
				opCtx, cancel := ctx.opContext(cmd)
				defer cancel()
				out, err := ctx.client().Ask(opCtx, question)
				if err != nil {
					return err
				}
				return writeJSON(cmd, out)
			}

			streamCtx, cancel := ctx.streamContext(cmd)
			defer cancel()
			events, err := ctx.client().AskStream(streamCtx, question)
			if err != nil {
				return err
			}
			final, err := followStream(cmd, events)
			if err != nil {
				return err
			}

			var out sqlquery.Outcome
			if err := json.Unmarshal(final.Data, &out); err != nil {
				return fmt.Errorf("decode result: %w", err)
			}
			printQueryOutcome(cmd, out)
			return nil
		},
	}
	return cmd
}

func printQueryOutcome(cmd *cobra.Command, out sqlquery.Outcome) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w)

	if out.SQL != "" {
		fmt.Fprintf(w, "SQL: %s\n\n", out.SQL)
	}
	if len(out.Columns) > 0 {
		fmt.Fprintln(w, renderResultTable(out.Columns, out.Rows))
		fmt.Fprintf(w, "%d rows\n\n", out.RowCount)
	}
	fmt.Fprintln(w, out.Answer)
}

// renderResultTable lays out query rows under their column names,
// right-aligning columns that hold numbers.
func renderResultTable(columns []string, rows []dataset.Row) string {
	cells := make([][]string, 0, len(rows))
	rightAlign := make([]bool, len(columns))

	for rowIdx, row := range rows {
		line := make([]string, len(columns))
		for i, col := range columns {
			v := row[col]
			line[i] = formatCell(v)
			if rowIdx == 0 {
				switch v.(type) {
				case float64, int64:
					rightAlign[i] = true
				}
			}
		}
		cells = append(cells, line)
	}

	return renderTable(columns, cells, rightAlign)
}
