package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"disjoint/internal/prof"
	"disjoint/internal/version"
)

// errFound is returned after diagnostics with errors have been printed; it
// only sets the exit status.
var errFound = errors.New("errors found")

var (
	traceCleanup = func() {}
	profSession  *prof.Session
)

var rootCmd = &cobra.Command{
	Use:   "disjoint",
	Short: "Drop-order migration checker for disjoint closure captures",
	Long: `disjoint finds closures whose drop behaviour changes when they capture
disjoint fields instead of whole variables, and suggests the bindings that
keep the old behaviour`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		profSession, err = setupProfiling(cmd)
		return err
	},
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(capturesCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "", "colorize output (auto|on|off); defaults to the config value")
	rootCmd.PersistentFlags().String("config", "", "path to disjoint.toml (default: search upward from the target)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to keep (0 = config value)")
	rootCmd.PersistentFlags().String("trace", "", "write a trace to this file (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().Bool("timings", false, "print phase timings to stderr")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go execution trace to this file")

	err := rootCmd.Execute()
	if stopErr := profSession.Stop(); stopErr != nil {
		fmt.Fprintf(os.Stderr, "profile: %v\n", stopErr)
	}
	traceCleanup()
	if err != nil {
		if !errors.Is(err, errFound) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
