package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"sleuth/internal/research"
	"sleuth/internal/session"
	"sleuth/internal/sqlquery"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect recorded runs",
	}
	cmd.AddCommand(
		newSessionsListCommand(ctx),
		newSessionsShowCommand(ctx),
		newSessionsClearCommand(ctx),
	)
	return cmd
}

func newSessionsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opCtx, cancel := ctx.opContext(cmd)
			defer cancel()

			sessions, err := ctx.client().Sessions(opCtx)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, sessions)
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded")
				return nil
			}

			rows := make([][]string, 0, len(sessions))
			for _, s := range sessions {
				rows = append(rows, []string{
					s.ID,
					s.Kind,
					truncateCell(s.Request, 48),
					s.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					fmt.Sprintf("%.1fs", s.DurationSeconds),
				})
			}
			headers := []string{"ID", "KIND", "REQUEST", "CREATED", "DURATION"}
			aligns := []bool{false, false, false, false, true}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}
}

func newSessionsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded run including its outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opCtx, cancel := ctx.opContext(cmd)
			defer cancel()

			sess, err := ctx.client().Session(opCtx, args[0])
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, sess)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "ID:       %s\n", sess.ID)
			fmt.Fprintf(w, "Kind:     %s\n", sess.Kind)
			fmt.Fprintf(w, "Request:  %s\n", sess.Request)
			fmt.Fprintf(w, "Created:  %s\n", sess.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(w, "Duration: %.1fs\n", sess.DurationSeconds)

			// Replay the recorded outcome in the same layout the live
			// commands use; fall back to raw JSON if it won't decode.
			switch session.Kind(sess.Kind) {
			case session.KindQuery:
				var out sqlquery.Outcome
				if err := json.Unmarshal(sess.Outcome, &out); err == nil {
					printQueryOutcome(cmd, out)
					return nil
				}
			case session.KindResearch:
				var out research.Outcome
				if err := json.Unmarshal(sess.Outcome, &out); err == nil {
					printResearchOutcome(cmd, out)
					return nil
				}
			}
			fmt.Fprintln(w)
			return writeJSON(cmd, sess.Outcome)
		},
	}
}

func newSessionsClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opCtx, cancel := ctx.opContext(cmd)
			defer cancel()

			cleared, err := ctx.client().ClearSessions(opCtx)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]int{"cleared": cleared})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d sessions\n", cleared)
			return nil
		},
	}
}
