package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"disjoint/internal/driver"
	"disjoint/internal/expect"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [flags] <file.rs|directory>",
	Short: "Compare produced diagnostics with //~ annotations in the sources",
	Long: `Verify checks annotated fixtures: every //~ ERROR, WARN, NOTE or HELP
comment must be matched by a produced diagnostic, and every produced error
or warning must be annotated`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().String("level", "warn", "default lint level where no attribute sets one (allow|warn|deny)")
	verifyCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	target := args[0]
	s, err := loadSettings(cmd, target)
	if err != nil {
		return err
	}

	opts := driverOptions(cmd, s)
	opts.MaxDiagnostics = 0
	res, err := driver.Check(cmd.Context(), target, opts)
	if err != nil {
		return fmt.Errorf("verify: check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, fr := range res.Files {
		path := res.FileSet.Get(fr.FileID).FormatPath("relative", res.FileSet.BaseDir())
		got, err := expect.Check(fr.Bag.Items(), res.FileSet, fr.FileID)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
			continue
		}
		if got.OK() {
			fmt.Fprintf(out, "ok   %s\n", path)
			continue
		}
		failed++
		fmt.Fprintf(out, "FAIL %s\n%s", path, got.Summary(path))
	}

	fmt.Fprintf(out, "%d passed, %d failed\n", len(res.Files)-failed, failed)
	if failed > 0 {
		return errFound
	}
	return nil
}
