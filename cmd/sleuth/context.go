package main

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sleuth/internal/client"
)

// commandContext carries the persistent flags shared by every
// subcommand. Flags are read at run time, not construction time, so
// cobra has parsed them by the time they matter.
type commandContext struct {
	serverFlag  *string
	jsonFlag    *bool
	timeoutFlag *time.Duration
}

func newCommandContext(serverFlag *string, jsonFlag *bool, timeoutFlag *time.Duration) *commandContext {
	return &commandContext{
		serverFlag:  serverFlag,
		jsonFlag:    jsonFlag,
		timeoutFlag: timeoutFlag,
	}
}

func (c *commandContext) client() *client.Client {
	return client.New(strings.TrimSpace(*c.serverFlag))
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// opContext bounds a non-streaming request with the --timeout flag.
func (c *commandContext) opContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	if c.timeoutFlag == nil || *c.timeoutFlag <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, *c.timeoutFlag)
}

// streamContext deliberately carries no deadline: research runs can
// outlast any sensible request timeout. Interrupts still cancel it
// through the signal context in main.
func (c *commandContext) streamContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithCancel(parent)
}
