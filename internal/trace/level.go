package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity. Each level admits every scope up to its
// ceiling.
type Level uint8

const (
	LevelOff    Level = iota
	LevelPhase        // the run and its passes
	LevelDetail       // plus one span per file
	LevelDebug        // plus one point per closure
)

var levelNames = [...]string{"off", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level %q, want one of %s", s, strings.Join(levelNames[:], "|"))
}

func (l Level) ceiling() (Scope, bool) {
	switch l {
	case LevelPhase:
		return ScopePass, true
	case LevelDetail:
		return ScopeFile, true
	case LevelDebug:
		return ScopeClosure, true
	}
	return 0, false
}

// ShouldEmit reports whether events of scope are recorded at l.
func (l Level) ShouldEmit(scope Scope) bool {
	top, ok := l.ceiling()
	return ok && scope <= top
}
