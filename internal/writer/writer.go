// Package writer serializes a table back into CSV.
//
// Fields are quoted according to the dialect's QuoteStyle. Inside a quoted
// field the quote character is doubled, or preceded by the escape character
// when the dialect has a distinct one. Every row, the last included, ends
// with the dialect's LineBreak.
package writer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shapestone/shape-table/internal/codec"
	"github.com/shapestone/shape-table/internal/dialect"
	"github.com/shapestone/shape-table/internal/store"
)

// DefaultProgressEvery is the row interval between two Progress calls.
const DefaultProgressEvery = 20000

// RowRange selects rows From through To, both inclusive.
type RowRange struct {
	From, To int
}

// Options tunes Write. The zero value writes every row.
type Options struct {
	// Header is written before the first row when not nil.
	Header []string
	// Range limits the rows written. nil means all rows.
	Range *RowRange
	// RowFilter, when set, skips rows for which it returns false.
	RowFilter func(row int) bool
	// Progress is called with the number of rows written so far.
	Progress func(rows int)
	// ProgressEvery defaults to DefaultProgressEvery.
	ProgressEvery int
}

// Write serializes t to w in dialect d and returns the number of table rows
// written. Output is converted to d.Encoding; UTF-16 and UTF-32 output
// starts with a byte-order mark.
func Write(w io.Writer, t *store.Table, d dialect.Dialect, opts Options) (int, error) {
	bw := bufio.NewWriterSize(w, 64*1024)
	if bom := codec.BOM(d.Encoding); bom != nil {
		if _, err := bw.Write(bom); err != nil {
			return 0, fmt.Errorf("write byte-order mark: %w", err)
		}
	}
	enc := codec.NewWriter(bw, d.Encoding)

	lineBreak := d.LineBreak
	if lineBreak == "" {
		lineBreak = dialect.CRLF
	}
	every := opts.ProgressEvery
	if every <= 0 {
		every = DefaultProgressEvery
	}

	from, to := 0, t.Rows()-1
	if opts.Range != nil {
		from = max(opts.Range.From, 0)
		to = min(opts.Range.To, to)
	}

	buf := make([]byte, 0, 1024)
	writeLine := func(fields []string) error {
		buf = AppendRow(buf[:0], fields, d)
		buf = append(buf, lineBreak...)
		_, err := enc.Write(buf)
		return err
	}

	if opts.Header != nil {
		if err := writeLine(opts.Header); err != nil {
			return 0, fmt.Errorf("write header: %w", err)
		}
	}

	written := 0
	for r := from; r <= to; r++ {
		if opts.RowFilter != nil && !opts.RowFilter(r) {
			continue
		}
		if err := writeLine(t.Row(r)); err != nil {
			return written, fmt.Errorf("write row %d: %w", r, err)
		}
		written++
		if opts.Progress != nil && written%every == 0 {
			opts.Progress(written)
		}
	}

	if err := enc.Close(); err != nil {
		return written, fmt.Errorf("flush encoder: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return written, fmt.Errorf("flush: %w", err)
	}
	return written, nil
}

// AppendRow appends fields joined by the dialect's delimiter to dst.
func AppendRow(dst []byte, fields []string, d dialect.Dialect) []byte {
	for i, f := range fields {
		if i > 0 {
			dst = append(dst, d.Delimiter)
		}
		dst = AppendField(dst, f, d)
	}
	return dst
}

// FormatRow returns fields as one CSV line without terminator.
func FormatRow(fields []string, d dialect.Dialect) string {
	return string(AppendRow(nil, fields, d))
}

// AppendField appends value to dst, quoted if the dialect requires it.
func AppendField(dst []byte, value string, d dialect.Dialect) []byte {
	if !NeedsQuotes(value, d) {
		return append(dst, value...)
	}
	distinct := d.HasDistinctEscape()
	dst = append(dst, d.Quote)
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == d.Quote && distinct:
			dst = append(dst, d.Escape, c)
		case c == d.Quote:
			dst = append(dst, d.Quote, c)
		case distinct && c == d.Escape:
			dst = append(dst, d.Escape, c)
		default:
			dst = append(dst, c)
		}
	}
	return append(dst, d.Quote)
}

// NeedsQuotes reports whether value has to be enclosed in quotes.
func NeedsQuotes(value string, d dialect.Dialect) bool {
	switch d.QuoteStyle {
	case dialect.QuoteAll:
		return true
	case dialect.QuoteNonNumeric:
		if value != "" && !store.IsNumber(value) {
			return true
		}
	}
	if strings.IndexByte(value, d.Delimiter) >= 0 || strings.IndexByte(value, d.Quote) >= 0 {
		return true
	}
	if strings.ContainsAny(value, "\n\r") {
		return true
	}
	return d.HasDistinctEscape() && strings.IndexByte(value, d.Escape) >= 0
}
