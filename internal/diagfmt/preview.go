package diagfmt

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"disjoint/internal/diag"
	"disjoint/internal/source"
)

// editPreview holds the whole lines touched by an edit, before and after it.
type editPreview struct {
	before []string
	after  []string
}

func buildFixEditPreview(fs *source.FileSet, edit diag.TextEdit) (editPreview, error) {
	if fs == nil || int(edit.Span.File) >= fs.Len() {
		return editPreview{}, fmt.Errorf("file %d is not loaded", edit.Span.File)
	}
	f := fs.Get(edit.Span.File)
	size, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return editPreview{}, fmt.Errorf("file %s too large: %w", f.Path, err)
	}

	startPos, endPos := fs.Resolve(edit.Span)
	from := lineBounds(f, startPos.Line, size).start
	to := min(max(lineBounds(f, max(endPos.Line, startPos.Line), size).end, from), size)
	if edit.Span.Start < from || edit.Span.End > to || edit.Span.End < edit.Span.Start {
		return editPreview{}, fmt.Errorf("edit %d..%d outside preview block %d..%d",
			edit.Span.Start, edit.Span.End, from, to)
	}

	block := string(f.Content[from:to])
	head := block[:edit.Span.Start-from]
	tail := block[edit.Span.End-from:]
	return editPreview{
		before: previewLines(block),
		after:  previewLines(head + edit.NewText + tail),
	}, nil
}

type bounds struct{ start, end uint32 }

// lineBounds returns the byte range of the 1-based line including its
// newline, clamped to size.
func lineBounds(f *source.File, line, size uint32) bounds {
	var b bounds
	if line >= 2 && int(line-2) < len(f.LineIdx) {
		b.start = f.LineIdx[line-2] + 1
	} else if line >= 2 {
		b.start = size
	}
	b.end = size
	if line >= 1 && int(line-1) < len(f.LineIdx) {
		b.end = f.LineIdx[line-1] + 1
	}
	return b
}

// previewLines splits text into lines without the trailing newline.
func previewLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}
