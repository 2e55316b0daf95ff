// Package detect guesses the encoding and dialect of a CSV stream.
//
// Dialect detection probes the first lines of the stream with a fixed set
// of candidate dialects and keeps the one producing the most regular table.
package detect

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/shapestone/shape-table/internal/codec"
	"github.com/shapestone/shape-table/internal/dialect"
	"github.com/shapestone/shape-table/internal/ingest"
	"github.com/shapestone/shape-table/internal/store"
)

// DefaultProbeLines is the number of rows parsed per candidate.
const DefaultProbeLines = 10

// noStructure ranks candidates that found at most one column last.
const noStructure = 999

// Candidates returns the probe dialects in evaluation order. Each carries
// enc and the byte-order mark length bom.
func Candidates(enc codec.Encoding, bom int) []dialect.Dialect {
	if enc == codec.None {
		enc = codec.UTF8
	}
	base := dialect.Default()
	base.Encoding = enc
	base.BOMLength = bom
	return []dialect.Dialect{
		base.WithDelimiter(','),
		base.WithDelimiter(';'),
		base.WithDelimiter('\t'),
		base.WithDelimiter('|'),
		base.WithDelimiter(':'),
		base.WithDelimiter(',').WithEscape('\\'),
		base.WithDelimiter(';').WithEscape('\\'),
	}
}

// Stats returns the widest row and the number of rows narrower than it.
// The first row is left out when there are more, since it is often a
// header. An empty table yields (0, 0), a single row (width, 0).
func Stats(t *store.Table) (columns, shorter int) {
	switch t.Rows() {
	case 0:
		return 0, 0
	case 1:
		return t.FieldCount(0), 0
	}
	for r := 1; r < t.Rows(); r++ {
		columns = max(columns, t.FieldCount(r))
	}
	for r := 1; r < t.Rows(); r++ {
		if t.FieldCount(r) < columns {
			shorter++
		}
	}
	return columns, shorter
}

// Score is the evaluation of one candidate.
type Score struct {
	Dialect dialect.Dialect
	// Columns is the widest probed row, reduced for uncommon dialects.
	Columns int
	// Shorter counts probed rows narrower than the widest one, or is
	// noStructure when the candidate found no columns.
	Shorter int
}

// Options tunes GuessDialect. The zero value uses the defaults.
type Options struct {
	// ProbeLines defaults to DefaultProbeLines.
	ProbeLines int
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// GuessDialect probes rs with every candidate and returns the best dialect
// with a confidence between 0 and 1. The stream is rewound to the start
// before it returns.
func GuessDialect(rs io.ReadSeeker, enc codec.Encoding, bom int, opts Options) (dialect.Dialect, float64, error) {
	scores, err := Rank(rs, enc, bom, opts)
	if err != nil {
		return dialect.Dialect{}, 0, err
	}
	return scores[0].Dialect, Confidence(scores), nil
}

// Rank scores every candidate and returns them best first. The stream is
// rewound to the start before it returns.
func Rank(rs io.ReadSeeker, enc codec.Encoding, bom int, opts Options) ([]Score, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	lines := opts.ProbeLines
	if lines <= 0 {
		lines = DefaultProbeLines
	}

	candidates := Candidates(enc, bom)
	scores := make([]Score, 0, len(candidates))
	probe := &store.Table{}
	for _, d := range candidates {
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewind for probe: %w", err)
		}
		probe.Clear()
		if _, err := ingest.ParseStream(rs, probe, d, ingest.Options{MaxLines: lines, Logger: log}); err != nil {
			return nil, fmt.Errorf("probe %s: %w", dialect.DelimiterName(d.Delimiter), err)
		}
		columns, shorter := Stats(probe)
		if uncommon(d) {
			columns = columns * 70 / 100
		}
		if columns <= 1 && shorter == 0 {
			shorter = noStructure
		}
		log.Debug("dialect probe", "delimiter", dialect.DelimiterName(d.Delimiter), "escape", string(d.Escape), "columns", columns, "shorter", shorter)
		scores = append(scores, Score{Dialect: d, Columns: columns, Shorter: shorter})
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind after probe: %w", err)
	}

	slices.SortStableFunc(scores, func(a, b Score) int {
		if a.Shorter != b.Shorter {
			return a.Shorter - b.Shorter
		}
		return b.Columns - a.Columns
	})
	return scores, nil
}

// Confidence rates a ranking produced by Rank.
func Confidence(scores []Score) float64 {
	if len(scores) == 0 {
		return 0
	}
	confidence := 1.0
	if scores[0].Shorter > 0 {
		confidence /= 2
	}
	if len(scores) > 1 && scores[0].Columns == scores[1].Columns {
		confidence /= 2
	}
	if d := scores[0].Dialect.Delimiter; d == ',' || d == '\t' {
		confidence += (1 - confidence) * 0.5
	}
	return confidence
}

func uncommon(d dialect.Dialect) bool {
	return d.Delimiter == ':' || d.Delimiter == '|' || d.Escape == '\\'
}
