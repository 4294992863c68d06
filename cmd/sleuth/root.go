package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var serverFlag string
	var jsonFlag bool
	var timeoutFlag time.Duration

	ctx := newCommandContext(&serverFlag, &jsonFlag, &timeoutFlag)

	rootCmd := &cobra.Command{
		Use:           "sleuth",
		Short:         "Ask questions of the sample dataset and research topics on the web",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", defaultServerURL(), "Base URL of the sleuth daemon")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Emit raw JSON instead of formatted output")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 60*time.Second, "Timeout for non-streaming requests")

	rootCmd.AddCommand(
		newAskCommand(ctx),
		newResearchCommand(ctx),
		newSessionsCommand(ctx),
		newSamplesCommand(ctx),
		newSchemaCommand(ctx),
		newHealthCommand(ctx),
	)

	return rootCmd
}

func defaultServerURL() string {
	if v := os.Getenv("SLEUTH_SERVER"); v != "" {
		return v
	}
	return "http://localhost:8080"
}
