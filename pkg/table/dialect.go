package table

import "fmt"

// DialectSpec is a dialect described by names, as given on a command line
// or in a query string. Empty fields keep the base value.
type DialectSpec struct {
	Delimiter  string
	Quote      string
	Escape     string
	Encoding   string
	QuoteStyle string
	// LineBreak is "crlf", "lf" or "cr".
	LineBreak string
}

// IsZero reports whether no field is set.
func (s DialectSpec) IsZero() bool {
	return s == DialectSpec{}
}

// Input returns the dialect for reading: s applied to the default
// dialect, with the encoding left to Load unless s names one.
func (s DialectSpec) Input() (Dialect, error) {
	base := DefaultDialect()
	base.Encoding = None
	return s.Apply(base)
}

// Apply returns base with every set field of s applied. An escape that is
// not given follows the quote character.
func (s DialectSpec) Apply(base Dialect) (Dialect, error) {
	d := base
	var err error
	if s.Delimiter != "" {
		if d.Delimiter, err = ParseDelimiter(s.Delimiter); err != nil {
			return d, err
		}
	}
	if s.Quote != "" {
		escapeFollows := d.Escape == d.Quote
		if len(s.Quote) != 1 {
			return d, fmt.Errorf("%w: quote %q must be a single character", ErrInvalidDialect, s.Quote)
		}
		d.Quote = s.Quote[0]
		if escapeFollows {
			d.Escape = d.Quote
		}
	}
	if s.Escape != "" {
		if d.Escape, err = ParseEscape(s.Escape); err != nil {
			return d, err
		}
		if s.Escape == "double" || s.Escape == "quote" {
			d.Escape = d.Quote
		}
	}
	if s.Encoding != "" {
		enc, err := ParseEncoding(s.Encoding)
		if err != nil {
			return d, fmt.Errorf("%w: %v", ErrInvalidDialect, err)
		}
		if enc != None {
			d.Encoding = enc
		}
	}
	if s.QuoteStyle != "" {
		if d.QuoteStyle, err = ParseQuoteStyle(s.QuoteStyle); err != nil {
			return d, fmt.Errorf("%w: %v", ErrInvalidDialect, err)
		}
	}
	switch s.LineBreak {
	case "":
	case "crlf":
		d.LineBreak = "\r\n"
	case "lf":
		d.LineBreak = "\n"
	case "cr":
		d.LineBreak = "\r"
	default:
		return d, fmt.Errorf("%w: line break %q", ErrInvalidDialect, s.LineBreak)
	}
	return d, d.Validate()
}
