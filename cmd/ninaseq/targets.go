package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AaronLay10/nina-sequence-editor/internal/simple"
)

func newTargetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Work with simple target-list sequences",
	}
	cmd.AddCommand(
		newTargetsNewCmd(),
		&cobra.Command{
			Use:   "stats FILE",
			Short: "Print exposure totals, runtime and progress",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := simple.LoadFile(args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), s.Statistics())
			},
		},
		&cobra.Command{
			Use:   "validate FILE",
			Short: "Check a target set for invalid values",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := simple.LoadFile(args[0])
				if err != nil {
					return err
				}
				problems := s.Validate()
				for _, p := range problems {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
				if len(problems) > 0 {
					return fmt.Errorf("%w: %d errors", errInvalid, len(problems))
				}
				return nil
			},
		},
		editTargetsCmd("duplicate FILE TARGET_ID", "Duplicate a target with reset progress",
			func(s *simple.Sequence, id string) error {
				_, err := s.DuplicateTarget(id)
				return err
			}),
		editTargetsCmd("remove FILE TARGET_ID", "Remove a target",
			(*simple.Sequence).RemoveTarget),
		editTargetsCmd("reset FILE TARGET_ID", "Reset the exposure progress of a target",
			(*simple.Sequence).ResetProgress),
		editTargetsCmd("copy-exposures FILE TARGET_ID", "Copy a target's exposure plan to every other target",
			(*simple.Sequence).CopyExposuresToAllTargets),
	)
	return cmd
}

func newTargetsNewCmd() *cobra.Command {
	var title string
	var force bool
	cmd := &cobra.Command{
		Use:   "new FILE",
		Short: "Create a target set with one default target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if _, err := os.Stat(args[0]); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", args[0])
				}
			}
			s := simple.New(title)
			if err := simple.SaveFile(args[0], s); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "target set title")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

// editTargetsCmd loads FILE, applies edit to TARGET_ID and writes it back.
func editTargetsCmd(use, short string, edit func(s *simple.Sequence, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := simple.LoadFile(args[0])
			if err != nil {
				return err
			}
			if err := edit(s, args[1]); err != nil {
				return err
			}
			return simple.SaveFile(args[0], s)
		},
	}
}
