// Package pgcopy copies a table into PostgreSQL with the COPY protocol.
package pgcopy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shapestone/shape-table/internal/store"
)

// ErrNoColumns is returned when the table has nothing to copy.
var ErrNoColumns = errors.New("pgcopy: table has no columns")

// DB is the subset of *pgxpool.Pool, *pgx.Conn and pgx.Tx used here.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Options controls Copy.
type Options struct {
	// Schema qualifies the target table. Empty uses the search path.
	Schema string
	// Create issues CREATE TABLE IF NOT EXISTS with one text column per
	// table column before copying.
	Create bool
	// Header takes column names from row 0 and copies the remaining rows.
	Header bool
	// Columns overrides the generated column names.
	Columns []string
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Copy writes every row of t into the table name and returns the number of
// rows copied. Every cell is sent as text.
func Copy(ctx context.Context, db DB, t *store.Table, name string, opts Options) (int64, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if t.Columns() == 0 {
		return 0, ErrNoColumns
	}

	columns := opts.Columns
	if columns == nil {
		columns = ColumnNames(t, opts.Header)
	}
	if len(columns) != t.Columns() {
		return 0, fmt.Errorf("pgcopy: %d column names for %d columns", len(columns), t.Columns())
	}

	ident := pgx.Identifier{name}
	if opts.Schema != "" {
		ident = pgx.Identifier{opts.Schema, name}
	}

	if opts.Create {
		if _, err := db.Exec(ctx, CreateTableSQL(ident, columns)); err != nil {
			return 0, fmt.Errorf("create table %s: %w", ident.Sanitize(), err)
		}
	}

	src := NewSource(t, opts.Header)
	n, err := db.CopyFrom(ctx, ident, columns, src)
	if err != nil {
		return n, fmt.Errorf("copy into %s: %w", ident.Sanitize(), err)
	}
	log.Info("table copied", "table", ident.Sanitize(), "rows", n, "columns", len(columns))
	return n, nil
}

// CreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement with one
// text column per name.
func CreateTableSQL(ident pgx.Identifier, columns []string) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(ident.Sanitize())
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(pgx.Identifier{c}.Sanitize())
		b.WriteString(" text")
	}
	b.WriteString(")")
	return b.String()
}

// ColumnNames derives one identifier per column. With header set the cells
// of row 0 are lowered and reduced to letters, digits and underscores;
// otherwise, and for blank header cells, names are col_1, col_2 and so on.
// Duplicates get a numeric suffix.
func ColumnNames(t *store.Table, header bool) []string {
	names := make([]string, t.Columns())
	seen := make(map[string]int, len(names))
	for c := range names {
		name := ""
		if header && t.Rows() > 0 {
			name = identifier(t.Get(0, c))
		}
		if name == "" {
			name = "col_" + strconv.Itoa(c+1)
		}
		if n := seen[name]; n > 0 {
			seen[name]++
			name += "_" + strconv.Itoa(n+1)
		}
		seen[name]++
		names[c] = name
	}
	return names
}

func identifier(s string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			underscore = false
		case !underscore && b.Len() > 0:
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// Source adapts a table to pgx.CopyFromSource. Rows are padded to the
// table width.
type Source struct {
	t      *store.Table
	row    int
	values []any
}

var _ pgx.CopyFromSource = (*Source)(nil)

// NewSource returns a source over t, skipping row 0 when skipHeader is set.
func NewSource(t *store.Table, skipHeader bool) *Source {
	s := &Source{t: t, row: -1, values: make([]any, t.Columns())}
	if skipHeader {
		s.row = 0
	}
	return s
}

// Next advances to the next row.
func (s *Source) Next() bool {
	if s.row+1 >= s.t.Rows() {
		return false
	}
	s.row++
	return true
}

// Values returns the cells of the current row.
func (s *Source) Values() ([]any, error) {
	for c, v := range s.t.Row(s.row) {
		s.values[c] = v
	}
	return s.values, nil
}

// Err always returns nil; reading from memory cannot fail.
func (s *Source) Err() error { return nil }
