package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"disjoint/internal/diagfmt"
	"disjoint/internal/driver"
)

var capturesCmd = &cobra.Command{
	Use:   "captures [flags] <file.rs|directory>",
	Short: "Show whole-variable and disjoint capture sets of every closure",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaptures,
}

func init() {
	capturesCmd.Flags().String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
}

func runCaptures(cmd *cobra.Command, args []string) error {
	target := args[0]
	s, err := loadSettings(cmd, target)
	if err != nil {
		return err
	}

	opts := driverOptions(cmd, s)
	opts.Cache = nil
	opts.KeepAnalyses = true
	res, err := driver.Check(cmd.Context(), target, opts)
	if err != nil {
		return fmt.Errorf("captures: check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	for i, fr := range res.Files {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if len(res.Files) > 1 {
			fmt.Fprintf(out, "== %s ==\n", res.FileSet.Get(fr.FileID).FormatPath("relative", res.FileSet.BaseDir()))
		}
		if len(fr.Analyses) == 0 {
			fmt.Fprintln(out, "no closures")
			continue
		}
		if err := diagfmt.Captures(out, fr.Analyses, res.FileSet, s.pathMode); err != nil {
			return err
		}
	}
	return nil
}
