// Package config loads disjoint.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"disjoint/internal/sema"
)

// FileName is the manifest looked up from the checked path upwards.
const FileName = "disjoint.toml"

// ErrUnknownLevel is wrapped by errors about an invalid [lint].level.
var ErrUnknownLevel = errors.New("unknown lint level")

// Error reports an invalid value in a manifest.
type Error struct {
	Path string
	Key  string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Key, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

type Config struct {
	Path   string       `toml:"-"` // manifest the values came from; empty for defaults
	Lint   LintConfig   `toml:"lint"`
	Check  CheckConfig  `toml:"check"`
	Output OutputConfig `toml:"output"`
}

type LintConfig struct {
	Level string `toml:"level"`
}

type CheckConfig struct {
	Jobs           int  `toml:"jobs"` // 0 = GOMAXPROCS
	MaxDiagnostics int  `toml:"max_diagnostics"`
	Cache          bool `toml:"cache"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

var (
	formats = []string{"pretty", "short", "json", "yaml"}
	colors  = []string{"auto", "on", "off"}
)

// Default returns the configuration used when no manifest exists.
func Default() Config {
	return Config{
		Lint:   LintConfig{Level: sema.LevelWarn.String()},
		Check:  CheckConfig{MaxDiagnostics: 100},
		Output: OutputConfig{Format: "pretty", Color: "auto"},
	}
}

// LintLevel parses [lint].level.
func (c Config) LintLevel() (sema.Level, error) {
	lvl, ok := sema.ParseLevel(c.Lint.Level)
	if !ok {
		return sema.LevelWarn, &Error{Path: c.Path, Key: "lint.level", Msg: fmt.Sprintf("%q", c.Lint.Level), Err: ErrUnknownLevel}
	}
	return lvl, nil
}

// Find walks up from startDir to locate disjoint.toml. A file path starts
// the search in its directory.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the manifest for startDir, falling back to
// Default when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Default(), err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Default(), fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Default(), &Error{Path: path, Msg: "unknown keys: " + strings.Join(keys, ", ")}
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks every value that has a closed set of spellings.
func (c Config) Validate() error {
	if _, err := c.LintLevel(); err != nil {
		return err
	}
	if c.Check.Jobs < 0 {
		return &Error{Path: c.Path, Key: "check.jobs", Msg: "must not be negative"}
	}
	if c.Check.MaxDiagnostics < 0 {
		return &Error{Path: c.Path, Key: "check.max_diagnostics", Msg: "must not be negative"}
	}
	if !oneOf(c.Output.Format, formats) {
		return &Error{Path: c.Path, Key: "output.format", Msg: fmt.Sprintf("%q is not one of %s", c.Output.Format, strings.Join(formats, ", "))}
	}
	if !oneOf(c.Output.Color, colors) {
		return &Error{Path: c.Path, Key: "output.color", Msg: fmt.Sprintf("%q is not one of %s", c.Output.Color, strings.Join(colors, ", "))}
	}
	return nil
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}
