package table

import (
	"github.com/shapestone/shape-table/internal/codec"
	"github.com/shapestone/shape-table/internal/dialect"
	"github.com/shapestone/shape-table/internal/ingest"
	"github.com/shapestone/shape-table/internal/store"
)

type (
	// Table is the packed row store. Rows may hold fewer fields than
	// Columns; missing fields read as empty strings.
	Table = store.Table
	// Dialect configures parsing and saving.
	Dialect = dialect.Dialect
	// Encoding identifies a text encoding.
	Encoding = codec.Encoding
	// QuoteStyle selects which fields Save quotes.
	QuoteStyle = dialect.QuoteStyle
	// SortMode selects how Sort compares cells.
	SortMode = store.SortMode
	// Histogram maps a field count to the number of rows with it.
	Histogram = ingest.Histogram
	// SortOptions sets the yield hook of SortWith.
	SortOptions = store.SortOptions
)

const (
	None    = codec.None
	UTF8    = codec.UTF8
	UTF16LE = codec.UTF16LE
	UTF16BE = codec.UTF16BE
	UTF32LE = codec.UTF32LE
	UTF32BE = codec.UTF32BE
	Latin1  = codec.Latin1
	Latin9  = codec.Latin9
	Win1252 = codec.Win1252
)

const (
	QuoteWhenNeeded = dialect.QuoteWhenNeeded
	QuoteAll        = dialect.QuoteAll
	QuoteNonNumeric = dialect.QuoteNonNumeric
)

const (
	SortNumeric = store.SortNumeric
	SortString  = store.SortString
	SortFold    = store.SortFold
)
