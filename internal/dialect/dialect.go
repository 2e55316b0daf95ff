// Package dialect describes one CSV variant: its delimiter, quoting and
// escaping characters, encoding, and how it is written back out.
package dialect

import (
	"errors"
	"fmt"

	"github.com/shapestone/shape-table/internal/codec"
)

// QuoteStyle controls which fields are quoted when a table is serialized.
type QuoteStyle int

const (
	// QuoteWhenNeeded quotes fields containing the delimiter, the quote
	// character or a line break.
	QuoteWhenNeeded QuoteStyle = iota
	// QuoteAll quotes every field.
	QuoteAll
	// QuoteNonNumeric quotes every non-empty field that is not a number.
	QuoteNonNumeric
)

// String returns the name of the quote style.
func (q QuoteStyle) String() string {
	switch q {
	case QuoteWhenNeeded:
		return "needed"
	case QuoteAll:
		return "all"
	case QuoteNonNumeric:
		return "nonnumeric"
	default:
		return fmt.Sprintf("QuoteStyle(%d)", int(q))
	}
}

// ParseQuoteStyle maps "needed", "all" or "nonnumeric" to a QuoteStyle.
func ParseQuoteStyle(s string) (QuoteStyle, error) {
	switch s {
	case "", "needed", "rfc":
		return QuoteWhenNeeded, nil
	case "all":
		return QuoteAll, nil
	case "nonnumeric", "strings":
		return QuoteNonNumeric, nil
	}
	return QuoteWhenNeeded, fmt.Errorf("unknown quote style %q", s)
}

// CRLF is the line terminator used when saving.
const CRLF = "\r\n"

// ErrInvalidDialect is returned by Validate.
var ErrInvalidDialect = errors.New("invalid dialect")

// Dialect is the configuration of a single parse or save. It is passed by
// value and never mutated by the parser.
type Dialect struct {
	// Delimiter separates fields.
	Delimiter byte
	// Quote encloses fields that contain delimiters or line breaks.
	Quote byte
	// Escape equal to Quote means a doubled quote stands for a literal quote.
	// Any other value escapes the character that follows it.
	Escape byte
	// Encoding of the underlying bytes.
	Encoding codec.Encoding
	// BOMLength is the number of leading bytes to skip, 0 to 4.
	BOMLength int
	// QuoteStyle is only consulted when serializing.
	QuoteStyle QuoteStyle
	// LineBreak terminates lines when serializing.
	LineBreak string
}

// Default returns the comma separated, double-quote dialect in UTF-8.
func Default() Dialect {
	return Dialect{
		Delimiter:  ',',
		Quote:      '"',
		Escape:     '"',
		Encoding:   codec.UTF8,
		QuoteStyle: QuoteWhenNeeded,
		LineBreak:  CRLF,
	}
}

// WithDelimiter returns a copy of d using delimiter c.
func (d Dialect) WithDelimiter(c byte) Dialect {
	d.Delimiter = c
	return d
}

// WithEscape returns a copy of d using escape character c.
func (d Dialect) WithEscape(c byte) Dialect {
	d.Escape = c
	return d
}

// HasDistinctEscape reports whether escaping uses its own character
// instead of doubled quotes.
func (d Dialect) HasDistinctEscape() bool {
	return d.Escape != d.Quote
}

// Validate checks the invariants the parser relies on. The parser itself
// never calls it; it is meant for user supplied dialects.
func (d Dialect) Validate() error {
	switch {
	case d.Delimiter == 0:
		return fmt.Errorf("%w: empty delimiter", ErrInvalidDialect)
	case d.Quote == 0:
		return fmt.Errorf("%w: empty quote character", ErrInvalidDialect)
	case d.Delimiter == d.Quote:
		return fmt.Errorf("%w: delimiter and quote are both %q", ErrInvalidDialect, d.Delimiter)
	case d.Delimiter == '\n' || d.Delimiter == '\r':
		return fmt.Errorf("%w: line break used as delimiter", ErrInvalidDialect)
	case d.Delimiter >= 0x80 || d.Quote >= 0x80 || d.Escape >= 0x80:
		return fmt.Errorf("%w: dialect characters must be ASCII", ErrInvalidDialect)
	case d.BOMLength < 0 || d.BOMLength > 4:
		return fmt.Errorf("%w: BOM length %d out of range", ErrInvalidDialect, d.BOMLength)
	}
	return nil
}

// DelimiterName returns a short name for the common delimiters.
func DelimiterName(c byte) string {
	switch c {
	case ',':
		return "COMMA"
	case ';':
		return "SEMI"
	case '\t':
		return "TAB"
	case ':':
		return "COLON"
	case '|':
		return "PIPE"
	}
	return "undef"
}

// ParseDelimiter accepts a single character or one of the names "comma",
// "semicolon", "tab", "pipe", "colon".
func ParseDelimiter(s string) (byte, error) {
	switch s {
	case "comma":
		return ',', nil
	case "semicolon", "semi":
		return ';', nil
	case "tab", `\t`:
		return '\t', nil
	case "pipe":
		return '|', nil
	case "colon":
		return ':', nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: delimiter %q must be a single character", ErrInvalidDialect, s)
	}
	return s[0], nil
}

// ParseEscape accepts a single character, "backslash" or "double" (a
// doubled quote).
func ParseEscape(s string) (byte, error) {
	switch s {
	case "backslash":
		return '\\', nil
	case "double", "quote":
		return '"', nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: escape %q must be a single character", ErrInvalidDialect, s)
	}
	return s[0], nil
}

// String renders the dialect for logs.
func (d Dialect) String() string {
	return fmt.Sprintf("delimiter=%s quote=%q escape=%q encoding=%s bom=%d",
		DelimiterName(d.Delimiter), d.Quote, d.Escape, d.Encoding, d.BOMLength)
}
