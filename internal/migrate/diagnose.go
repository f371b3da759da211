package migrate

import (
	"fmt"

	"disjoint/internal/capture"
	"disjoint/internal/dropck"
	"disjoint/internal/types"
)

// Reason tells why a variable needs a whole-value binding.
type Reason uint8

const (
	// DropOrderChanged: the variable is still (partly) dropped through the
	// closure, but at a different relative time.
	DropOrderChanged Reason = iota
	// DropPresenceChanged: the closure no longer drops anything meaningful
	// of the variable.
	DropPresenceChanged
)

func (r Reason) String() string {
	switch r {
	case DropOrderChanged:
		return "drop order changed"
	case DropPresenceChanged:
		return "drop presence changed"
	default:
		return fmt.Sprintf("Reason(%d)", r)
	}
}

// Record is one variable that must be captured whole.
type Record struct {
	Var    capture.Variable
	Reason Reason
	Paths  []capture.Path // by-value paths of the new capture set
}

// Diagnose compares the two capture sets variable by variable and returns
// the variables whose migration changes destructor behaviour, in
// declaration order.
func Diagnose(sets capture.Sets, oracle *dropck.Oracle) []Record {
	var out []Record
	for _, newEntry := range sets.New.Entries {
		if newEntry.Mode == capture.ByReference {
			continue
		}
		oldEntry, ok := sets.Old.Lookup(newEntry.Var.ID)
		if !ok || oldEntry.Equal(newEntry) {
			continue
		}

		var owned []capture.Path
		for _, p := range newEntry.Paths {
			if p.Mode == capture.ByValue {
				owned = append(owned, p.Path)
			}
		}
		in := oracle.Types()
		remainder := remainderSignificance(oracle, in, newEntry.Var.Type, owned, 0)
		captured := dropck.None
		for _, p := range owned {
			ty, ok := capture.TypeOf(in, newEntry.Var.Type, p.Projs)
			if !ok {
				captured = dropck.Join(captured, dropck.Nested)
				continue
			}
			captured = dropck.Join(captured, oracle.Significance(ty))
		}

		if !remainder.Significant() && !captured.Significant() {
			continue
		}
		reason := DropOrderChanged
		if !captured.Significant() {
			reason = DropPresenceChanged
		}
		out = append(out, Record{Var: newEntry.Var, Reason: reason, Paths: owned})
	}
	sortByDeclaration(out)
	return out
}

// remainderSignificance is the significance of the parts of a value of type
// ty that no owned path covers. depth indexes into the projections of owned.
// A destructor-bearing aggregate that is only partly owned counts as Direct:
// its own drop no longer runs as a unit.
func remainderSignificance(oracle *dropck.Oracle, in *types.Interner, ty types.TypeID, owned []capture.Path, depth int) dropck.Significance {
	if len(owned) == 0 {
		return oracle.Significance(ty)
	}
	for _, p := range owned {
		if len(p.Projs) <= depth || p.Projs[depth].Kind != capture.ProjField {
			return dropck.None
		}
	}
	fields := in.Fields(ty)
	if len(fields) == 0 {
		return oracle.Significance(ty)
	}
	acc := dropck.None
	if info, ok := in.StructInfo(ty); ok && info.HasDrop {
		acc = dropck.Direct
	}
	for i, f := range fields {
		var sub []capture.Path
		for _, p := range owned {
			if p.Projs[depth].Index == i {
				sub = append(sub, p)
			}
		}
		acc = dropck.Join(acc, remainderSignificance(oracle, in, f, sub, depth+1))
	}
	return acc
}

func sortByDeclaration(records []Record) {
	for i := 1; i < len(records); i++ {
		for j := i; j > 0 && records[j].Var.Order < records[j-1].Var.Order; j-- {
			records[j], records[j-1] = records[j-1], records[j]
		}
	}
}
