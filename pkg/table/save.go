package table

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shapestone/shape-table/internal/writer"
)

// RowRange selects rows From through To, both inclusive.
type RowRange = writer.RowRange

// SaveOptions controls Save. The zero value writes every row in the
// document's dialect.
type SaveOptions struct {
	// Dialect overrides the document dialect, including its encoding,
	// quote style and line break.
	Dialect *Dialect
	// Header is written before the first row when not nil.
	Header []string
	// Range limits the rows written.
	Range *RowRange
	// RowFilter skips rows for which it returns false.
	RowFilter func(row int) bool
	// Progress is called with the number of rows written so far.
	Progress func(rows int)
	// ProgressEvery defaults to 20000 rows.
	ProgressEvery int
}

// Save writes the table to w and returns the number of table rows written.
func (d *Document) Save(w io.Writer, opts SaveOptions) (int, error) {
	dl := d.Dialect
	if opts.Dialect != nil {
		if err := opts.Dialect.Validate(); err != nil {
			return 0, err
		}
		dl = *opts.Dialect
	}
	return writer.Write(w, d.Table, dl, writer.Options{
		Header:        opts.Header,
		Range:         opts.Range,
		RowFilter:     opts.RowFilter,
		Progress:      opts.Progress,
		ProgressEvery: opts.ProgressEvery,
	})
}

// SaveFile writes the table to the file at path, replacing it.
func (d *Document) SaveFile(path string, opts SaveOptions) (n int, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	n, err = d.Save(f, opts)
	if err != nil {
		return n, fmt.Errorf("save %s: %w", path, err)
	}
	return n, nil
}

// FormatRow returns one row as it would be written in dialect dl, without
// a line terminator.
func FormatRow(fields []string, dl Dialect) string {
	return writer.FormatRow(fields, dl)
}
