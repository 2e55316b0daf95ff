// Package ingest drives the line reader and the parser over a stream and
// stores every completed row in a table.
package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/shapestone/shape-table/internal/dialect"
	"github.com/shapestone/shape-table/internal/linereader"
	"github.com/shapestone/shape-table/internal/parser"
	"github.com/shapestone/shape-table/internal/store"
)

// DefaultProgressEvery is the row interval between two Progress calls.
const DefaultProgressEvery = 25000

// Histogram maps a row's field count to the number of rows with that count.
type Histogram map[int]int

// Widths returns the distinct field counts in ascending order.
func (h Histogram) Widths() []int {
	widths := make([]int, 0, len(h))
	for w := range h {
		widths = append(widths, w)
	}
	slices.Sort(widths)
	return widths
}

// Consistent reports whether all counted rows have the same width.
func (h Histogram) Consistent() bool {
	return len(h) <= 1
}

// Options tunes ParseStream. The zero value parses the whole stream.
type Options struct {
	// MaxLines stops after this many rows. Zero means no limit.
	MaxLines int
	// ResizeRows pads every stored row to the widest row seen so far.
	ResizeRows bool
	// Progress is called with the number of rows stored so far.
	Progress func(rows int)
	// ProgressEvery defaults to DefaultProgressEvery.
	ProgressEvery int
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// ParseStream reads r with dialect d and appends every row to t.
//
// The first d.BOMLength bytes are skipped. The returned histogram counts
// row widths, leaving out a last row that ends at EOF without a line
// terminator and a row closed by an unterminated quote. Decode problems
// never fail the parse; only read errors are returned.
func ParseStream(r io.Reader, t *store.Table, d dialect.Dialect, opts Options) (Histogram, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	every := opts.ProgressEvery
	if every <= 0 {
		every = DefaultProgressEvery
	}

	lr := linereader.New(r, d.Encoding)
	if err := lr.Skip(d.BOMLength); err != nil {
		return nil, fmt.Errorf("skip byte-order mark: %w", err)
	}

	p := parser.New(d)
	hist := make(Histogram)
	rows := 0
	width := t.Columns()

	emit := func(fields []string, counted bool) {
		if counted {
			hist[len(fields)]++
		}
		if opts.ResizeRows {
			switch {
			case len(fields) > width:
				t.Resize(0, len(fields))
				width = len(fields)
			case len(fields) < width:
				for len(fields) < width {
					fields = append(fields, "")
				}
			}
		}
		t.Append(fields)
		rows++
		if opts.Progress != nil && rows%every == 0 {
			opts.Progress(rows)
		}
	}

	for lr.Scan() {
		fields, state := p.ParseLine(lr.Line())
		if state == parser.Enclosed {
			continue
		}
		emit(fields, lr.Terminated())
		if opts.MaxLines > 0 && rows >= opts.MaxLines {
			break
		}
	}
	if err := lr.Err(); err != nil {
		return hist, fmt.Errorf("read line %d: %w", lr.LineNumber()+1, err)
	}
	if p.State() == parser.Enclosed && (opts.MaxLines == 0 || rows < opts.MaxLines) {
		log.Debug("unterminated quoted field at end of input", "line", lr.LineNumber())
		emit(p.Flush(), false)
	}

	log.Debug("stream parsed", "rows", rows, "columns", t.Columns(), "widths", len(hist), "dialect", d.String())
	return hist, nil
}
