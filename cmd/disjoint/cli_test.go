package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"disjoint/internal/diag"
	"disjoint/internal/driver"
	"disjoint/internal/fix"
	"disjoint/internal/sema"
)

const fixtureSource = `fn main() {
    let t = (String::new(), String::new());
    let c = || {
        let _t = t.0;
    };
}
`

// newTestCommand builds a root with the persistent flags and one child
// carrying the check flags.
func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "disjoint"}
	root.PersistentFlags().String("color", "", "")
	root.PersistentFlags().String("config", "", "")
	root.PersistentFlags().Int("max-diagnostics", 0, "")
	child := &cobra.Command{Use: "check"}
	child.Flags().String("format", "pretty", "")
	child.Flags().Int("jobs", 0, "")
	child.Flags().String("level", "warn", "")
	child.Flags().Bool("cache", false, "")
	child.Flags().String("path-mode", "auto", "")
	child.Flags().String("min-severity", "info", "")
	root.AddCommand(child)
	// parsing on the child merges the root's persistent flags
	if err := child.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	return child
}

func writeProject(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	if manifest != "" {
		if err := os.WriteFile(filepath.Join(dir, "disjoint.toml"), []byte(manifest), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	src := filepath.Join(dir, "main.rs")
	if err := os.WriteFile(src, []byte(fixtureSource), 0o600); err != nil {
		t.Fatal(err)
	}
	return src
}

func TestLoadSettingsLayers(t *testing.T) {
	src := writeProject(t, "[lint]\nlevel = \"deny\"\n[check]\njobs = 3\n[output]\nformat = \"short\"\ncolor = \"off\"\n")

	s, err := loadSettings(newTestCommand(t), src)
	if err != nil {
		t.Fatal(err)
	}
	if s.level != sema.LevelDeny || s.jobs != 3 || s.format != "short" || s.color {
		t.Errorf("from manifest: %+v", s)
	}

	if s.minSeverity != diag.SevInfo {
		t.Errorf("default min severity = %s", s.minSeverity)
	}

	s, err = loadSettings(newTestCommand(t, "--level", "allow", "--format", "json", "--color", "on", "--max-diagnostics", "7", "--min-severity", "error"), src)
	if err != nil {
		t.Fatal(err)
	}
	if s.level != sema.LevelAllow || s.format != "json" || !s.color || s.maxDiagnostics != 7 || s.minSeverity != diag.SevError {
		t.Errorf("flags must win: %+v", s)
	}
}

func TestLoadSettingsRejectsBadValues(t *testing.T) {
	src := writeProject(t, "")
	for _, args := range [][]string{
		{"--level", "loud"},
		{"--color", "sometimes"},
		{"--jobs", "-1"},
		{"--min-severity", "loud"},
	} {
		if _, err := loadSettings(newTestCommand(t, args...), src); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
}

func TestCheckShowsBindingNoteByDefault(t *testing.T) {
	flag := checkCmd.Flags().Lookup("with-notes")
	if flag == nil {
		t.Fatal("check has no with-notes flag")
	}
	withNotes, err := strconv.ParseBool(flag.DefValue)
	if err != nil || !withNotes {
		t.Fatalf("with-notes default = %q, want true", flag.DefValue)
	}

	src := writeProject(t, "")
	res, err := driver.Check(t.Context(), src, driver.Options{Level: sema.LevelWarn})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := renderDiagnostics(&buf, res, settings{format: "pretty"}, withNotes, false, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "let (t) = (t);") {
		t.Errorf("default output lacks the suggested binding:\n%s", buf.String())
	}
}

func TestRenderFormats(t *testing.T) {
	src := writeProject(t, "")
	res, err := driver.Check(t.Context(), src, driver.Options{Level: sema.LevelWarn})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		format string
		want   []string
	}{
		{"pretty", []string{"WARNING LNT9001", "checked 1 file(s): 0 error(s), 1 warning(s)"}},
		{"short", []string{"warning LNT9001 main.rs:3:13"}},
		{"json", []string{`"code": "LNT9001"`, `"count": 1`}},
		{"yaml", []string{"code: LNT9001", "count: 1"}},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		s := settings{format: tt.format}
		if err := renderDiagnostics(&buf, res, s, true, true, false); err != nil {
			t.Fatalf("%s: %v", tt.format, err)
		}
		for _, want := range tt.want {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("%s output lacks %q:\n%s", tt.format, want, buf.String())
			}
		}
	}

	if err := renderDiagnostics(&bytes.Buffer{}, res, settings{format: "xml"}, false, false, false); err == nil {
		t.Error("unknown format must fail")
	}
}

func TestHandleApplyResultDryRun(t *testing.T) {
	src := writeProject(t, "")
	res, err := driver.Check(t.Context(), src, driver.Options{Level: sema.LevelWarn})
	if err != nil {
		t.Fatal(err)
	}
	applied, applyErr := fix.Apply(res.FileSet, res.Bag.Items(), fix.ApplyOptions{Mode: fix.ApplyModeAll, DryRun: true})

	var buf bytes.Buffer
	if err := handleApplyResult(&buf, applied, applyErr, true); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Would apply 1 fix(es)") || !strings.Contains(out, "    let (t) = (t);\n    let c = || {") {
		t.Errorf("dry run output:\n%s", out)
	}
	if data, _ := os.ReadFile(src); string(data) != fixtureSource {
		t.Error("dry run wrote the file")
	}
}

func TestHandleApplyResultNoFixes(t *testing.T) {
	var buf bytes.Buffer
	res := &fix.ApplyResult{}
	if err := handleApplyResult(&buf, res, fix.ErrNoFixes, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "No applicable fixes found.\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "ON": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("maybe"); err == nil {
		t.Error("expected an error")
	}
	if shouldUseTUI(uiModeOff, 10) || !shouldUseTUI(uiModeOn, 1) {
		t.Error("explicit modes ignored")
	}
}
