// Package table loads delimited text files into a compact in-memory table,
// detecting their encoding and dialect, and writes them back out.
//
// # Loading
//
// Open memory-maps a file and loads it; Load does the same for any
// io.ReadSeeker. Unless a dialect is supplied, both first guess the
// encoding from the byte-order mark or by validating UTF-8, then probe
// the first rows with a fixed set of candidate dialects:
//
//	doc, err := table.Open("orders.csv", table.Options{})
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(doc.Dialect, doc.Confidence, doc.Table.Rows())
//
// Malformed input never fails a load. Invalid byte sequences decode to
// U+FFFD, an unterminated quoted field runs to the end of the input, and
// ragged rows are kept as they are (or padded, with ResizeRows).
//
// # Saving
//
// Save writes the table in the document's dialect or any other one, and
// ExportJSON writes it as JSON arrays or objects.
//
// # Thread Safety
//
// A Document is not safe for concurrent use. Distinct documents share no
// state and may be used from different goroutines.
package table

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/shapestone/shape-table/internal/codec"
	"github.com/shapestone/shape-table/internal/detect"
	"github.com/shapestone/shape-table/internal/dialect"
	"github.com/shapestone/shape-table/internal/ingest"
	"github.com/shapestone/shape-table/internal/mmap"
	"github.com/shapestone/shape-table/internal/store"
)

// Options controls Open and Load. The zero value detects the dialect and
// keeps rows as they are.
type Options struct {
	// Dialect skips dialect detection when set. Its encoding is still
	// guessed when None, and a matching byte-order mark is skipped.
	Dialect *Dialect
	// Fallback is used when no encoding can be determined. Defaults to UTF-8.
	Fallback Encoding
	// ProbeLines is the number of rows parsed per candidate dialect.
	ProbeLines int
	// UTF8SniffLimit is the input size from which UTF-8 validation is
	// skipped. Defaults to 200 MiB.
	UTF8SniffLimit int64
	// ResizeRows pads every row to the widest row.
	ResizeRows bool
	// Progress is called with the number of rows parsed so far.
	Progress func(rows int)
	// ProgressEvery defaults to 25000 rows.
	ProgressEvery int
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Document is a loaded table together with the dialect it was read with.
type Document struct {
	Table *Table
	// Dialect is the dialect used to parse, and the default for Save.
	Dialect Dialect
	// Confidence is the detection confidence, or 1 for a supplied dialect.
	Confidence float64
	// Widths counts rows per field count, leaving out an unterminated last row.
	Widths Histogram
	// Path is the file the document was opened from, if any.
	Path string
}

// New returns an empty document in the default dialect.
func New() *Document {
	return &Document{Table: &Table{}, Dialect: DefaultDialect(), Confidence: 1, Widths: Histogram{}}
}

// Open memory-maps the file at path and loads it. Errors are *OpenError.
func Open(path string, opts Options) (*Document, error) {
	f, err := mmap.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	defer f.Close()

	doc, err := Load(f.Reader(), f.Size(), opts)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	doc.Path = path
	return doc, nil
}

// Load reads size bytes from rs into a new document.
func Load(rs io.ReadSeeker, size int64, opts Options) (*Document, error) {
	log := opts.logger()
	doc := &Document{Table: &Table{}, Confidence: 1}

	if opts.Dialect != nil {
		d, err := supplied(rs, size, *opts.Dialect, opts)
		if err != nil {
			return nil, err
		}
		doc.Dialect = d
	} else {
		enc, bom, err := opts.encoding(rs, size)
		if err != nil {
			return nil, err
		}
		d, confidence, err := detect.GuessDialect(rs, enc, bom, detect.Options{ProbeLines: opts.ProbeLines, Logger: log})
		if err != nil {
			return nil, err
		}
		doc.Dialect, doc.Confidence = d, confidence
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind: %w", err)
	}
	hist, err := ParseStream(rs, doc.Table, doc.Dialect, opts)
	if err != nil {
		return nil, err
	}
	doc.Widths = hist
	log.Info("table loaded",
		"rows", doc.Table.Rows(),
		"columns", doc.Table.Columns(),
		"dialect", doc.Dialect.String(),
		"confidence", doc.Confidence,
	)
	return doc, nil
}

// encoding guesses the encoding of rs, using the fallback when the
// content does not decide.
func (o Options) encoding(rs io.ReadSeeker, size int64) (Encoding, int, error) {
	enc, bom, err := GuessEncoding(rs, size, o.UTF8SniffLimit)
	if err != nil {
		return codec.None, 0, err
	}
	if enc == codec.None {
		enc = o.Fallback
		if enc == codec.None {
			enc = codec.UTF8
		}
		o.logger().Debug("encoding undetermined, using fallback", "encoding", enc)
	}
	return enc, bom, nil
}

// supplied completes a caller's dialect from the stream. An encoding of
// None is guessed like an undetected one. A byte-order mark is skipped
// when it matches the dialect's encoding and d gives no BOMLength.
func supplied(rs io.ReadSeeker, size int64, d Dialect, opts Options) (Dialect, error) {
	switch {
	case d.Encoding == codec.None:
		enc, bom, err := opts.encoding(rs, size)
		if err != nil {
			return d, err
		}
		d.Encoding = enc
		if d.BOMLength == 0 {
			d.BOMLength = bom
		}
	case d.BOMLength == 0:
		enc, bom, err := sniffBOM(rs)
		if err != nil {
			return d, err
		}
		if enc == d.Encoding {
			d.BOMLength = bom
		}
	}
	return d, d.Validate()
}

func sniffBOM(rs io.ReadSeeker) (Encoding, int, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return codec.None, 0, fmt.Errorf("rewind: %w", err)
	}
	var prefix [4]byte
	n, err := io.ReadFull(rs, prefix[:])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return codec.None, 0, fmt.Errorf("read byte-order mark: %w", err)
	}
	enc, bom := codec.DetectBOM(prefix[:n])
	return enc, bom, nil
}

// GuessEncoding returns the encoding of rs and its byte-order mark length.
// See Load for the rules. rs is rewound before it returns.
func GuessEncoding(rs io.ReadSeeker, size, limit int64) (Encoding, int, error) {
	return detect.GuessEncoding(rs, size, limit)
}

// GuessDialect probes the first probeLines rows of rs with every candidate
// dialect and returns the most regular one and a confidence between 0
// and 1. rs is rewound before it returns.
func GuessDialect(rs io.ReadSeeker, enc Encoding, bom, probeLines int) (Dialect, float64, error) {
	return detect.GuessDialect(rs, enc, bom, detect.Options{ProbeLines: probeLines})
}

// ParseStream parses r with d and appends every row to t. It returns the
// row width histogram. Only read errors fail it.
func ParseStream(r io.Reader, t *Table, d Dialect, opts Options) (Histogram, error) {
	return ingest.ParseStream(r, t, d, ingest.Options{
		ResizeRows:    opts.ResizeRows,
		Progress:      opts.Progress,
		ProgressEvery: opts.ProgressEvery,
		Logger:        opts.logger(),
	})
}

// HasHeader reports whether the first row looks like column names.
func (d *Document) HasHeader() bool {
	return detect.HasHeader(d.Table)
}

// Sort reorders the rows by column c.
func (d *Document) Sort(c int, ascending bool, mode SortMode) {
	d.SortWith(c, ascending, mode, SortOptions{})
}

// SortWith is Sort with a yield hook for long sorts.
func (d *Document) SortWith(c int, ascending bool, mode SortMode, opts SortOptions) {
	d.Table.Sort(c, ascending, mode, opts)
}

// Parsers for command line and query values.
var (
	ParseDelimiter  = dialect.ParseDelimiter
	ParseEscape     = dialect.ParseEscape
	ParseQuoteStyle = dialect.ParseQuoteStyle
	ParseEncoding   = codec.ParseEncoding
	ParseSortMode   = store.ParseSortMode
)

// ErrInvalidDialect is returned for a supplied dialect that cannot be parsed.
var ErrInvalidDialect = dialect.ErrInvalidDialect

// DefaultDialect returns the comma separated, double-quote dialect in UTF-8
// with CRLF line breaks.
func DefaultDialect() Dialect {
	return dialect.Default()
}
