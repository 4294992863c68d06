package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"sleuth/internal/client"
	"sleuth/internal/pipeline"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiBlue  = "\x1b[34m"
)

// followStream prints progress lines as they arrive and returns the
// terminal event. A pipeline-level error event becomes a command
// error.
func followStream(cmd *cobra.Command, events <-chan client.StreamEvent) (*client.Event, error) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for se := range events {
		if se.Err != nil {
			return nil, se.Err
		}
		ev := se.Event
		fmt.Fprintln(out, progressLine(ev, colorize))
		switch ev.Kind {
		case pipeline.KindResult:
			return &ev, nil
		case pipeline.KindError:
			return nil, errors.New(ev.Message)
		}
	}
	return nil, errors.New("stream ended without a result")
}

func progressLine(ev client.Event, colorize bool) string {
	line := fmt.Sprintf("  [%3d%%] %s", ev.Progress, ev.Message)
	if !colorize {
		return line
	}
	switch ev.Kind {
	case pipeline.KindResult:
		return ansiGreen + line + ansiReset
	case pipeline.KindError:
		return ansiRed + line + ansiReset
	default:
		return ansiBlue + line + ansiReset
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
