package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AaronLay10/nina-sequence-editor/internal/catalog"
	"github.com/AaronLay10/nina-sequence-editor/internal/editor"
	"github.com/AaronLay10/nina-sequence-editor/internal/sequence"
)

func newNewCmd() *cobra.Command {
	var title string
	var force bool
	cmd := &cobra.Command{
		Use:   "new FILE",
		Short: "Create an empty sequence file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}
			st := editor.NewStore(catalog.Builtin(), 0)
			seq := st.NewSequence(title)
			if err := sequence.SaveFile(path, seq); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), seq.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", sequence.DefaultTitle, "sequence title")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE",
		Short: "Print item, condition and trigger counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := sequence.LoadFile(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), sequence.ComputeStats(seq))
		},
	}
}

var errInvalid = errors.New("sequence is invalid")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a sequence file for structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := sequence.LoadFile(args[0])
			if err != nil {
				return err
			}
			res := sequence.Validate(seq)
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Valid {
				return fmt.Errorf("%w: %d errors", errInvalid, len(res.Errors))
			}
			return nil
		},
	}
}

func newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the sequence as an indented tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := sequence.LoadFile(args[0])
			if err != nil {
				return err
			}
			writeTree(cmd.OutOrStdout(), seq)
			return nil
		},
	}
}

func writeTree(w io.Writer, seq *sequence.Sequence) {
	fmt.Fprintln(w, seq.Title)
	for _, t := range seq.GlobalTriggers {
		fmt.Fprintf(w, "  ! %s [%s]\n", t.Name, catalog.ShortTypeName(t.Type))
	}
	for _, area := range sequence.Areas {
		fmt.Fprintf(w, "%s:\n", area)
		writeItems(w, seq.Items(area), 1)
	}
}

func writeItems(w io.Writer, items []*sequence.Item, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, it := range items {
		line := fmt.Sprintf("%s- %s [%s] %s", indent, it.Name, catalog.ShortTypeName(it.Type), it.Status)
		if !it.Enabled {
			line += " (disabled)"
		}
		fmt.Fprintln(w, line)
		for _, c := range it.Conditions {
			fmt.Fprintf(w, "%s  ? %s [%s]\n", indent, c.Name, catalog.ShortTypeName(c.Type))
		}
		for _, t := range it.Triggers {
			fmt.Fprintf(w, "%s  ! %s [%s]\n", indent, t.Name, catalog.ShortTypeName(t.Type))
		}
		writeItems(w, it.Items, depth+1)
	}
}
