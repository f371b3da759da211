package capture

// Entry is one variable's capture under one rule.
type Entry struct {
	Var   Variable
	Mode  Mode
	Paths []CapturedPath
}

// Equal compares the captured paths of two entries.
func (e Entry) Equal(o Entry) bool {
	if e.Var.ID != o.Var.ID || len(e.Paths) != len(o.Paths) {
		return false
	}
	for i := range e.Paths {
		if !e.Paths[i].Path.Equal(o.Paths[i].Path) {
			return false
		}
	}
	return true
}

// ClosureCaptureSet maps each captured variable to its mode and paths,
// ordered by declaration.
type ClosureCaptureSet struct {
	Entries []Entry
}

// Lookup returns the entry for variable id.
func (s ClosureCaptureSet) Lookup(id VarID) (Entry, bool) {
	for _, e := range s.Entries {
		if e.Var.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Sets holds the old (whole-value) and new (precise) capture sets of one
// closure; both have the same keys in the same order.
type Sets struct {
	Old ClosureCaptureSet
	New ClosureCaptureSet
}

// Reduce builds both capture sets from the collected usage. By-value
// variables are captured whole under the old rule and by their disjoint
// paths under the new one; by-reference variables are identical in both.
func Reduce(c *Collected) Sets {
	var sets Sets
	for _, u := range c.Vars {
		newEntry := Entry{Var: u.Var, Mode: u.Mode, Paths: u.Paths}
		oldEntry := newEntry
		if u.Mode == ByValue {
			span := u.Var.Span
			if len(u.Paths) > 0 {
				span = u.Paths[0].Span
			}
			oldEntry.Paths = []CapturedPath{{
				Path: Path{Var: u.Var.ID},
				Mode: ByValue,
				Span: span,
			}}
		}
		sets.Old.Entries = append(sets.Old.Entries, oldEntry)
		sets.New.Entries = append(sets.New.Entries, newEntry)
	}
	return sets
}
