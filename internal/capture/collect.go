package capture

import (
	"slices"
	"sort"

	"disjoint/internal/types"
)

// VarUsage is the collected capture of one variable.
type VarUsage struct {
	Var   Variable
	Mode  Mode
	Paths []CapturedPath // disjoint, ordered by projection
}

// Collected is the Path Collector's output for one closure.
type Collected struct {
	Closure *Closure
	Vars    []VarUsage // declaration order
}

// Collect groups the closure's uses per variable, truncates each path at
// the first indirection boundary and merges paths that are prefixes of one
// another. A use needs ownership when it moves the place or the closure is
// declared `move`.
func Collect(c *Closure, in *types.Interner) *Collected {
	out := &Collected{Closure: c}
	byVar := make(map[VarID][]CapturedPath, len(c.Vars))
	for _, u := range c.Uses {
		v, ok := c.Var(u.Var)
		if !ok {
			continue
		}
		mode := ByReference
		if c.Move || u.Access == Move {
			mode = ByValue
		}
		path, truncated := truncate(in, v.Type, Path{Var: u.Var, Projs: u.Projs})
		byVar[u.Var] = append(byVar[u.Var], CapturedPath{
			Path:      path,
			Mode:      mode,
			Truncated: truncated,
			Span:      u.Span,
		})
	}

	vars := slices.Clone(c.Vars)
	sort.SliceStable(vars, func(i, j int) bool { return vars[i].Order < vars[j].Order })
	for _, v := range vars {
		paths, ok := byVar[v.ID]
		if !ok {
			continue
		}
		merged := mergePrefixes(paths)
		mode := ByReference
		for _, p := range merged {
			if p.Mode == ByValue {
				mode = ByValue
			}
		}
		out.Vars = append(out.Vars, VarUsage{Var: v, Mode: mode, Paths: merged})
	}
	return out
}

// truncate cuts p before the first projection that leaves the variable's
// own storage: a deref, an index, or a field access through a reference,
// raw pointer, Box or Vec. A projection that cannot be typed is kept with
// the rest of the path, so unknown types never make a capture look whole.
func truncate(in *types.Interner, root types.TypeID, p Path) (Path, bool) {
	cur := root
	for i, pr := range p.Projs {
		if pr.Kind != ProjField {
			return p.Prefix(i), true
		}
		tt, ok := in.Lookup(cur)
		if !ok || tt.Kind == types.KindUnknown {
			return p, false
		}
		if tt.IsIndirection() {
			return p.Prefix(i), true
		}
		next, ok := in.FieldType(cur, pr.Index)
		if !ok {
			return p, false
		}
		cur = next
	}
	return p, false
}

// mergePrefixes keeps only the shortest of any prefix-related paths. The
// surviving path takes the strongest mode of the ones it absorbed and the
// earliest use span.
func mergePrefixes(paths []CapturedPath) []CapturedPath {
	sorted := slices.Clone(paths)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Projs) < len(sorted[j].Projs)
	})
	var out []CapturedPath
	for _, p := range sorted {
		absorbed := false
		for i := range out {
			if out[i].IsPrefixOf(p.Path) {
				if p.Mode > out[i].Mode {
					out[i].Mode = p.Mode
				}
				out[i].Truncated = out[i].Truncated || p.Truncated
				if p.Span.Start < out[i].Span.Start {
					out[i].Span = p.Span
				}
				absorbed = true
				break
			}
		}
		if !absorbed {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Compare(out[j].Path) < 0 })
	return out
}
