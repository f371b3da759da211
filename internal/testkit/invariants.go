// Package testkit holds checks shared by the front-end tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"disjoint/internal/ast"
	"disjoint/internal/source"
)

// CheckSpanInvariants runs the span invariants the analysis relies on over
// a parsed file:
//  1. file.Span is non-empty, points at sf and lies within its content;
//  2. every item span (impl methods included) is non-empty and inside its
//     parent span;
//  3. every non-empty expression span of a fn body is well-formed and
//     inside the fn item span.
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	if f.Span.End <= f.Span.Start {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent {
		return fmt.Errorf("file span end beyond content: %d > %d", f.Span.End, lenContent)
	}

	for _, it := range f.Items {
		if err := checkItem(b, it, f.Span, sf.ID); err != nil {
			return err
		}
	}
	return nil
}

func checkItem(b *ast.Builder, id ast.ItemID, parent source.Span, file source.FileID) error {
	item := b.Items.Get(id)
	if item == nil {
		return fmt.Errorf("nil item for id=%d", id)
	}
	sp := item.Span
	if sp.End <= sp.Start {
		return fmt.Errorf("empty item span: %v", sp)
	}
	if sp.File != file {
		return fmt.Errorf("item span file mismatch: got=%d want=%d", sp.File, file)
	}
	if !parent.Contains(sp) {
		return fmt.Errorf("item span %v is outside %v", sp, parent)
	}

	switch item.Kind {
	case ast.ItemImpl:
		impl, _ := b.Items.Impl(id)
		for _, m := range impl.Methods {
			if err := checkItem(b, m, sp, file); err != nil {
				return err
			}
		}
	case ast.ItemFn:
		fn, _ := b.Items.Fn(id)
		var bad error
		b.Inspect(fn.Body, func(e ast.ExprID) bool {
			esp := b.Exprs.Get(e).Span
			if esp.Empty() {
				return true
			}
			if esp.Start > esp.End || !sp.Contains(esp) {
				bad = fmt.Errorf("fn %s: expression span %v is outside %v", fn.Name, esp, sp)
				return false
			}
			return bad == nil
		})
		return bad
	}
	return nil
}
