package sema

import (
	"fmt"
	"strings"

	"disjoint/internal/ast"
	"disjoint/internal/diag"
	"disjoint/internal/source"
)

// LintName is the canonical name of the drop-order migration lint.
const LintName = "disjoint_capture_drop_reorder"

// lintAliases are accepted in lint-level attributes next to LintName.
var lintAliases = map[string]struct{}{
	LintName: {},
	"rust_2021_incompatible_closure_captures": {},
}

// Level is the lint level in effect for a closure.
type Level uint8

const (
	LevelAllow Level = iota
	LevelWarn
	LevelDeny
)

func (l Level) String() string {
	switch l {
	case LevelAllow:
		return "allow"
	case LevelWarn:
		return "warn"
	case LevelDeny:
		return "deny"
	default:
		return fmt.Sprintf("Level(%d)", l)
	}
}

// ParseLevel accepts allow, warn, deny and forbid (an alias of deny).
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "allow":
		return LevelAllow, true
	case "warn", "warning":
		return LevelWarn, true
	case "deny", "forbid", "error":
		return LevelDeny, true
	}
	return LevelAllow, false
}

// Severity maps the level to the diagnostic severity; allow has none.
func (l Level) Severity() (diag.Severity, bool) {
	switch l {
	case LevelWarn:
		return diag.SevWarning, true
	case LevelDeny:
		return diag.SevError, true
	default:
		return diag.SevInfo, false
	}
}

// LintSetting is the resolved level plus the attribute argument that set it.
// Source is empty when the level comes from configuration.
type LintSetting struct {
	Level  Level
	Source source.Span
}

// lintFromAttrs returns the last lint-level attribute naming the lint.
// Unknown names in the disjoint namespace are reported.
func lintFromAttrs(attrs []ast.Attr, inherited LintSetting, r diag.Reporter) LintSetting {
	out := inherited
	for i := range attrs {
		attr := &attrs[i]
		level, ok := ParseLevel(attr.Name)
		if !ok || attr.Name == "error" || attr.Name == "warning" {
			continue
		}
		for _, arg := range attr.Args {
			if _, known := lintAliases[arg.Name]; known {
				out = LintSetting{Level: level, Source: arg.Span}
				continue
			}
			if strings.HasPrefix(arg.Name, "disjoint") && r != nil {
				diag.ReportWarning(r, diag.SemaUnknownLintName, arg.Span,
					fmt.Sprintf("unknown lint: `%s`", arg.Name)).
					WithNote(arg.Span, "help: did you mean `"+LintName+"`?").
					Emit()
			}
		}
	}
	return out
}
