// Command ninaseq edits NINA sequence files from the shell.
package main

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/AaronLay10/nina-sequence-editor/internal/events"
	"github.com/AaronLay10/nina-sequence-editor/internal/version"
)

func main() {
	if err := newRootCmd(systemClipboard{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cb clipboardIO) *cobra.Command {
	var quiet bool
	var since int64

	root := &cobra.Command{
		Use:          "ninaseq",
		Short:        "Inspect and edit NINA sequence files",
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			since = events.TotalCount()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if !quiet {
				writeEventLog(cmd.ErrOrStderr(), since)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "do not print event log lines")

	root.AddCommand(
		newNewCmd(),
		newStatsCmd(),
		newValidateCmd(),
		newTreeCmd(),
		newCopyCmd(cb),
		newPasteCmd(cb),
		newTargetsCmd(),
	)
	return root
}

// writeEventLog prints every event emitted after seq as one JSON line each.
func writeEventLog(w io.Writer, seq int64) {
	evs, _ := events.Since(seq)
	for _, e := range evs {
		b, err := json.Marshal(e)
		if err != nil {
			continue
		}
		fmt.Fprintln(w, string(b))
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
