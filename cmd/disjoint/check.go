package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"disjoint/internal/diag"
	"disjoint/internal/diagfmt"
	"disjoint/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.rs|directory>",
	Short: "Report closures whose drop order changes under disjoint capture",
	Long: `Check runs the drop-order migration lint over a source file or every *.rs
file within a directory and prints the diagnostics`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json|yaml)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().String("level", "warn", "default lint level where no attribute sets one (allow|warn|deny)")
	checkCmd.Flags().Bool("with-notes", true, "include diagnostic notes (the suggested binding) in output")
	checkCmd.Flags().String("min-severity", "info", "hide diagnostics below this severity (info|warning|error)")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("preview", false, "show the source lines each fix would change")
	checkCmd.Flags().String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	checkCmd.Flags().Bool("cache", false, "reuse results of unchanged files from the disk cache")
	checkCmd.Flags().String("ui", "off", "show a progress view (auto|on|off)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]

	s, err := loadSettings(cmd, target)
	if err != nil {
		return err
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	files, baseDir, err := driver.ResolveTargets(target)
	if err != nil {
		return err
	}

	opts := driverOptions(cmd, s)
	var res *driver.Result
	if shouldUseTUI(mode, len(files)) {
		res, err = runCheckWithUI(cmd.Context(), "checking "+target, baseDir, files, opts)
	} else {
		res, err = driver.CheckFiles(cmd.Context(), baseDir, files, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := renderDiagnostics(out, res, s, withNotes, suggest || preview, preview); err != nil {
		return err
	}
	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings && res.Timings != nil {
		fmt.Fprint(cmd.ErrOrStderr(), res.Timings.Summary())
	}
	if res.Bag.HasErrors() {
		return errFound
	}
	return nil
}

// driverOptions turns settings into driver options, opening the disk cache
// when it is enabled. A cache that cannot be opened only costs speed.
func driverOptions(cmd *cobra.Command, s settings) driver.Options {
	opts := driver.Options{
		Level:          s.level,
		Jobs:           s.jobs,
		MaxDiagnostics: s.maxDiagnostics,
		MinSeverity:    s.minSeverity,
	}
	if s.cache {
		cache, err := driver.OpenDiskCache("disjoint")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: disk cache disabled: %v\n", err)
		} else {
			opts.Cache = cache
		}
	}
	return opts
}

func renderDiagnostics(w io.Writer, res *driver.Result, s settings, withNotes, withFixes, preview bool) error {
	switch s.format {
	case "pretty":
		diagfmt.Pretty(w, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:       s.color,
			Context:     2,
			PathMode:    s.pathMode,
			ShowNotes:   withNotes,
			ShowFixes:   withFixes,
			ShowPreview: preview,
		})
		if res.Bag.Len() > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, summaryLine(res))
		return nil
	case "short":
		return diagfmt.Short(w, res.Bag, res.FileSet, withNotes)
	case "json", "yaml":
		opts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         s.pathMode,
			IncludeNotes:     withNotes,
			IncludeFixes:     withFixes,
			IncludePreviews:  preview,
		}
		if s.format == "yaml" {
			return diagfmt.YAML(w, res.Bag, res.FileSet, opts)
		}
		return diagfmt.JSON(w, res.Bag, res.FileSet, opts)
	default:
		return fmt.Errorf("unknown format: %s", s.format)
	}
}

func summaryLine(res *driver.Result) string {
	var errs, warns int
	for _, d := range res.Bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	cached := 0
	for _, fr := range res.Files {
		if fr.Cached {
			cached++
		}
	}
	line := fmt.Sprintf("checked %d file(s): %d error(s), %d warning(s)", len(res.Files), errs, warns)
	if cached > 0 {
		line += fmt.Sprintf(", %d from cache", cached)
	}
	return line
}
