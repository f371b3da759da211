package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"disjoint/internal/sema"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	lvl, err := cfg.LintLevel()
	if err != nil || lvl != sema.LevelWarn {
		t.Fatalf("level = %v, %v", lvl, err)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, `
[lint]
level = "deny"
[check]
jobs = 3
cache = true
[output]
format = "json"
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(nested, "x.rs")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	for _, start := range []string{nested, file} {
		cfg, err := Discover(start)
		if err != nil {
			t.Fatalf("Discover(%s): %v", start, err)
		}
		if cfg.Path != path {
			t.Errorf("path = %q, want %q", cfg.Path, path)
		}
		if lvl, _ := cfg.LintLevel(); lvl != sema.LevelDeny {
			t.Errorf("level = %v", lvl)
		}
		if cfg.Check.Jobs != 3 || !cfg.Check.Cache || cfg.Output.Format != "json" {
			t.Errorf("cfg = %+v", cfg)
		}
		// untouched keys keep their defaults
		if cfg.Check.MaxDiagnostics != 100 || cfg.Output.Color != "auto" {
			t.Errorf("defaults lost: %+v", cfg)
		}
	}
}

func TestDiscoverWithoutManifest(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" || cfg.Output.Format != "pretty" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		key  string
	}{
		{"level", "[lint]\nlevel = \"loud\"\n", "lint.level"},
		{"jobs", "[check]\njobs = -1\n", "check.jobs"},
		{"format", "[output]\nformat = \"xml\"\n", "output.format"},
		{"color", "[output]\ncolor = \"sometimes\"\n", "output.color"},
		{"unknown", "[lint]\nlevels = \"deny\"\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			_, err := Load(path)
			var cerr *Error
			if !errors.As(err, &cerr) {
				t.Fatalf("err = %v, want *Error", err)
			}
			if cerr.Key != tt.key || cerr.Path != path {
				t.Errorf("err = %+v", cerr)
			}
			if tt.name == "level" && !errors.Is(err, ErrUnknownLevel) {
				t.Errorf("level error does not wrap ErrUnknownLevel")
			}
		})
	}
}

func TestLoadSyntaxError(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[lint\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
