package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	// GitCommit and BuildDate are optional
	_ = GitCommit
	_ = BuildDate
}

func TestVersion_CanBeOverridden(t *testing.T) {
	origVersion, origGitCommit, origBuildDate := Version, GitCommit, BuildDate
	defer func() {
		Version, GitCommit, BuildDate = origVersion, origGitCommit, origBuildDate
	}()

	Version = "1.2.3"
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	if Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", Version, "1.2.3")
	}
	if GitCommit != "abc123def456" {
		t.Errorf("GitCommit = %q, want %q", GitCommit, "abc123def456")
	}
	if BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("BuildDate = %q, want %q", BuildDate, "2024-01-15T10:30:00Z")
	}
}

func TestColored(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()
	for _, c := range []*color.Color{versionMajorColor, versionMinorColor, versionPatchColor} {
		c.DisableColor()
		defer c.EnableColor()
	}

	for _, v := range []string{
		"0.1.0",
		"0.1.0-dev",
		"1.2.3-rc.1+build.123",
		"1.0.0+meta",
		"dev",
		"1.2",
	} {
		Version = v
		if got := Colored(); got != v {
			t.Errorf("Colored() = %q, want %q", got, v)
		}
	}
}

func TestColoredHighlightsParts(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()
	versionMajorColor.EnableColor()
	Version = "2.0.1-beta"
	got := Colored()
	if got == Version {
		t.Fatalf("Colored() left %q plain", got)
	}
	if want := versionMajorColor.Sprint("2"); got[:len(want)] != want {
		t.Errorf("Colored() = %q, want prefix %q", got, want)
	}
}

func BenchmarkColored(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Colored()
	}
}
