package diagfmt

import (
	"fmt"
	"io"

	"disjoint/internal/diag"
	"disjoint/internal/source"
)

// Short prints one line per diagnostic in the golden format:
// <SEV> <CODE> <path>:<line>:<col> <Message>
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, withNotes bool) error {
	out := diag.FormatGoldenDiagnostics(bag.Items(), fs, withNotes)
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
