package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"disjoint/internal/config"
	"disjoint/internal/diag"
	"disjoint/internal/diagfmt"
	"disjoint/internal/sema"
)

// settings is the config manifest with command-line overrides applied.
type settings struct {
	cfg            config.Config
	level          sema.Level
	jobs           int
	maxDiagnostics int
	cache          bool
	format         string
	color          bool
	pathMode       diagfmt.PathMode
	minSeverity    diag.Severity
}

// loadSettings discovers disjoint.toml from target (or reads --config) and
// layers the flags that were set explicitly on top of it.
func loadSettings(cmd *cobra.Command, target string) (settings, error) {
	root := cmd.Root().PersistentFlags()

	cfgPath, err := root.GetString("config")
	if err != nil {
		return settings{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
	} else {
		cfg, err = config.Discover(target)
	}
	if err != nil {
		return settings{}, err
	}

	s := settings{
		cfg:            cfg,
		jobs:           cfg.Check.Jobs,
		maxDiagnostics: cfg.Check.MaxDiagnostics,
		cache:          cfg.Check.Cache,
		format:         cfg.Output.Format,
	}
	if s.level, err = cfg.LintLevel(); err != nil {
		return settings{}, err
	}

	flags := cmd.Flags()
	if f := flags.Lookup("level"); f != nil && f.Changed {
		lvl, ok := sema.ParseLevel(f.Value.String())
		if !ok {
			return settings{}, fmt.Errorf("invalid --level value %q (expected allow|warn|deny)", f.Value.String())
		}
		s.level = lvl
	}
	if flags.Changed("jobs") {
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return settings{}, err
		}
		if s.jobs < 0 {
			return settings{}, fmt.Errorf("--jobs must not be negative")
		}
	}
	if flags.Changed("cache") {
		if s.cache, err = flags.GetBool("cache"); err != nil {
			return settings{}, err
		}
	}
	if flags.Changed("format") {
		if s.format, err = flags.GetString("format"); err != nil {
			return settings{}, err
		}
	}
	if flags.Changed("path-mode") {
		mode, _ := flags.GetString("path-mode")
		s.pathMode = diagfmt.ParsePathMode(mode)
	}
	if f := flags.Lookup("min-severity"); f != nil && f.Changed {
		sev, ok := diag.ParseSeverity(f.Value.String())
		if !ok {
			return settings{}, fmt.Errorf("invalid --min-severity value %q (expected info|warning|error)", f.Value.String())
		}
		s.minSeverity = sev
	}
	if maxDiags, _ := root.GetInt("max-diagnostics"); maxDiags > 0 {
		s.maxDiagnostics = maxDiags
	}

	colorMode := cfg.Output.Color
	if c, _ := root.GetString("color"); c != "" {
		colorMode = c
	}
	switch colorMode {
	case "on":
		s.color = true
	case "off":
		s.color = false
	case "auto":
		s.color = isTerminal(os.Stdout)
	default:
		return settings{}, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorMode)
	}
	return s, nil
}
