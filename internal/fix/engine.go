// Package fix applies the text edits carried by diagnostics to files.
package fix

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"slices"

	"disjoint/internal/diag"
	"disjoint/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	// ApplyModeOnce applies the first fix only, preferring always-safe ones.
	ApplyModeOnce ApplyMode = iota
	// ApplyModeAll applies every always-safe fix.
	ApplyModeAll
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode ApplyMode
	// DryRun computes the new contents without writing files. Virtual
	// files are only accepted in this mode.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	Content   []byte // resulting file content
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

func (c candidate) skip(reason string) SkippedFix {
	return SkippedFix{ID: c.fix.ID, Title: c.fix.Title, Reason: reason}
}

// Apply collects the fixes carried by diagnostics, selects them per opts and
// splices their edits into the files. A fix is applied whole or not at all.
// ErrNoFixes is returned when nothing was applied.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	res := &ApplyResult{}
	if fs == nil {
		return res, errors.New("fix: FileSet is nil")
	}

	cands, skipped := gatherCandidates(diagnostics)
	res.Skipped = append(res.Skipped, skipped...)
	sortCandidates(cands)
	chosen, rejected := selectCandidates(cands, opts.Mode)
	res.Skipped = append(res.Skipped, rejected...)

	ed := &editor{fs: fs, dryRun: opts.DryRun, files: map[source.FileID]*pendingFile{}}
	for _, c := range chosen {
		n, err := ed.apply(c.fix)
		if err != nil {
			res.Skipped = append(res.Skipped, c.skip(err.Error()))
			continue
		}
		res.Applied = append(res.Applied, AppliedFix{
			ID:            c.fix.ID,
			Title:         c.fix.Title,
			Code:          c.diag.Code,
			Message:       c.diag.Message,
			Applicability: c.fix.Applicability,
			PrimaryPath:   ed.displayPath(c.diag.Primary.File),
			EditCount:     n,
		})
	}
	if len(res.Applied) == 0 {
		return res, ErrNoFixes
	}

	changes, err := ed.flush()
	res.FileChanges = changes
	return res, err
}

// gatherCandidates flattens the fixes of diagnostics in order. Fix IDs are
// shared across diagnostics, so a candidate is keyed by ID plus the primary
// span start of its diagnostic; repeats and fixes without edits are skipped.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
	)
	seen := make(map[string]bool)
	for _, d := range diagnostics {
		for i, f := range d.Fixes {
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d", d.Code.ID(), i)
			}
			c := candidate{diag: d, fix: f, order: len(cands)}
			if len(f.Edits) == 0 {
				skips = append(skips, c.skip("fix has no edits"))
				continue
			}
			key := fmt.Sprintf("%s@%d:%d", f.ID, d.Primary.File, d.Primary.Start)
			if seen[key] {
				skips = append(skips, c.skip("duplicate fix id"))
				continue
			}
			seen[key] = true
			cands = append(cands, c)
		}
	}
	return cands, skips
}

// sortCandidates orders candidates by primary span, then by gather order.
func sortCandidates(cands []candidate) {
	slices.SortStableFunc(cands, func(a, b candidate) int {
		pa, pb := a.diag.Primary, b.diag.Primary
		return cmp.Or(
			cmp.Compare(pa.File, pb.File),
			cmp.Compare(pa.Start, pb.Start),
			cmp.Compare(pa.End, pb.End),
			cmp.Compare(a.order, b.order),
		)
	})
}

func selectCandidates(cands []candidate, mode ApplyMode) ([]candidate, []SkippedFix) {
	isSafe := func(c candidate) bool { return c.fix.Applicability == diag.FixApplicabilityAlwaysSafe }
	switch mode {
	case ApplyModeAll:
		var chosen []candidate
		var skipped []SkippedFix
		for _, c := range cands {
			if isSafe(c) {
				chosen = append(chosen, c)
			} else {
				skipped = append(skipped, c.skip("applicability is "+c.fix.Applicability.String()))
			}
		}
		return chosen, skipped
	case ApplyModeOnce:
		if i := slices.IndexFunc(cands, isSafe); i >= 0 {
			return cands[i : i+1], nil
		}
		if len(cands) > 0 {
			return cands[:1], nil
		}
	}
	return nil, nil
}

// pendingFile is the edited state of one file. done holds the applied edits
// in original offsets sorted by start, so later edits can be shifted.
type pendingFile struct {
	file    *source.File
	content []byte
	done    []diag.TextEdit
	edits   int
}

func (p *pendingFile) clone() *pendingFile {
	c := *p
	c.done = slices.Clone(p.done)
	return &c
}

// shift is the length change that applied edits introduce before pos.
func (p *pendingFile) shift(pos uint32) int {
	delta := 0
	for _, e := range p.done {
		if e.Span.Start > pos {
			break
		}
		if e.Span.End <= pos {
			delta += len(e.NewText) - int(e.Span.End-e.Span.Start)
		}
	}
	return delta
}

func (p *pendingFile) splice(edit diag.TextEdit) error {
	start := int(edit.Span.Start) + p.shift(edit.Span.Start)
	end := int(edit.Span.End) + p.shift(edit.Span.End)
	if start < 0 || end < start || end > len(p.content) {
		return errors.New("edit span out of range")
	}
	if edit.OldText != "" && string(p.content[start:end]) != edit.OldText {
		return errors.New("existing text does not match expected content")
	}
	p.content = slices.Concat(p.content[:start], []byte(edit.NewText), p.content[end:])
	at, _ := slices.BinarySearchFunc(p.done, edit, func(e, t diag.TextEdit) int {
		return cmp.Or(cmp.Compare(e.Span.Start, t.Span.Start), cmp.Compare(e.Span.End, t.Span.End))
	})
	p.done = slices.Insert(p.done, at, edit)
	p.edits++
	return nil
}

type editor struct {
	fs     *source.FileSet
	dryRun bool
	files  map[source.FileID]*pendingFile
}

func (ed *editor) displayPath(id source.FileID) string {
	if f := ed.fs.Get(id); f != nil {
		return f.FormatPath("auto", ed.fs.BaseDir())
	}
	return ""
}

func (ed *editor) pending(id source.FileID) (*pendingFile, error) {
	if p, ok := ed.files[id]; ok {
		return p.clone(), nil
	}
	f := ed.fs.Get(id)
	if f == nil {
		return nil, fmt.Errorf("file %d not found", id)
	}
	if !ed.dryRun && f.Flags&source.FileVirtual != 0 {
		return nil, errors.New("target file is virtual")
	}
	return &pendingFile{file: f, content: f.Content}, nil
}

// apply stages every edit of f and commits them only if all succeed. It
// returns the number of edits applied.
func (ed *editor) apply(f diag.Fix) (int, error) {
	byFile := make(map[source.FileID][]diag.TextEdit)
	var order []source.FileID
	for _, e := range f.Edits {
		if _, ok := byFile[e.Span.File]; !ok {
			order = append(order, e.Span.File)
		}
		byFile[e.Span.File] = append(byFile[e.Span.File], e)
	}

	staged := make(map[source.FileID]*pendingFile, len(order))
	for _, id := range order {
		p, err := ed.pending(id)
		if err != nil {
			return 0, err
		}
		edits := byFile[id]
		if overlapsAny(p.done, edits) {
			return 0, fmt.Errorf("conflicts with previously applied edits in %s", ed.displayPath(id))
		}
		// back to front so earlier offsets stay valid
		slices.SortStableFunc(edits, func(a, b diag.TextEdit) int {
			return cmp.Or(cmp.Compare(b.Span.Start, a.Span.Start), cmp.Compare(b.Span.End, a.Span.End))
		})
		for _, e := range edits {
			if err := p.splice(e); err != nil {
				return 0, err
			}
		}
		staged[id] = p
	}
	for id, p := range staged {
		ed.files[id] = p
	}
	return len(f.Edits), nil
}

// flush writes the edited files unless in dry-run mode and reports them
// sorted by path.
func (ed *editor) flush() ([]FileChange, error) {
	changes := make([]FileChange, 0, len(ed.files))
	for _, p := range ed.files {
		changes = append(changes, FileChange{
			Path:      p.file.FormatPath("relative", ed.fs.BaseDir()),
			EditCount: p.edits,
			Content:   p.content,
		})
	}
	slices.SortFunc(changes, func(a, b FileChange) int { return cmp.Compare(a.Path, b.Path) })
	if ed.dryRun {
		return changes, nil
	}
	for _, p := range ed.files {
		mode := os.FileMode(0o644)
		if info, err := os.Stat(p.file.Path); err == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(p.file.Path, p.content, mode); err != nil {
			return changes, fmt.Errorf("write %s: %w", p.file.Path, err)
		}
	}
	return changes, nil
}

func overlapsAny(done, edits []diag.TextEdit) bool {
	for _, prev := range done {
		for _, e := range edits {
			if spansConflict(prev, e) {
				return true
			}
		}
	}
	return false
}

// spansConflict reports whether two edits overlap as half-open ranges. Two
// insertions never conflict; an insertion conflicts with a range that
// strictly contains its position or starts at it.
func spansConflict(a, b diag.TextEdit) bool {
	as, ae, bs, be := a.Span.Start, a.Span.End, b.Span.Start, b.Span.End
	switch {
	case as == ae && bs == be:
		return false
	case as == ae:
		return bs <= as && as < be
	case bs == be:
		return as <= bs && bs < ae
	}
	return as < be && bs < ae
}
