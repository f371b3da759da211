package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"disjoint/internal/driver"
	"disjoint/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.rs|directory>",
	Short: "Insert the whole-variable bindings that keep the old drop order",
	Long:  "Run the check and apply the suggested bindings to the source files.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("once", false, "apply only the first available fix")
	fixCmd.Flags().Bool("dry-run", false, "print the fixed sources instead of writing them")
	fixCmd.Flags().String("level", "warn", "default lint level where no attribute sets one (allow|warn|deny)")
	fixCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
}

func runFix(cmd *cobra.Command, args []string) error {
	target := args[0]

	once, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd, target)
	if err != nil {
		return err
	}

	opts := fix.ApplyOptions{Mode: fix.ApplyModeAll, DryRun: dryRun}
	if once {
		opts.Mode = fix.ApplyModeOnce
	}

	driverOpts := driverOptions(cmd, s)
	// every fix counts, not just the ones that would be printed
	driverOpts.MaxDiagnostics = 0
	res, err := driver.Check(cmd.Context(), target, driverOpts)
	if err != nil {
		return fmt.Errorf("fix: check failed: %w", err)
	}

	applied, applyErr := fix.Apply(res.FileSet, res.Bag.Items(), opts)
	return handleApplyResult(cmd.OutOrStdout(), applied, applyErr, dryRun)
}

func handleApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error, dryRun bool) error {
	if res == nil {
		return applyErr
	}

	if len(res.Applied) > 0 {
		verb := "Applied"
		if dryRun {
			verb = "Would apply"
		}
		fmt.Fprintf(out, "%s %d fix(es):\n", verb, len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(out, "  %s [%s] at %s (%d edits, %s)\n",
				item.Title, item.ID, location, item.EditCount, item.Applicability)
		}
	}

	if len(res.FileChanges) > 0 {
		if dryRun {
			for _, change := range res.FileChanges {
				fmt.Fprintf(out, "\n== %s ==\n%s", change.Path, change.Content)
			}
		} else {
			fmt.Fprintln(out, "Updated files:")
			for _, change := range res.FileChanges {
				fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount)
			}
		}
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(out, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}
	if len(res.Applied) == 0 {
		fmt.Fprintln(out, "No fixes applied.")
	}
	return nil
}
