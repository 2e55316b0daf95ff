// Package store holds table data as one packed string per row.
//
// Fields inside a row are joined by Sentinel, a byte that never occurs in
// valid UTF-8. A row carries its own field count, which may be lower than
// the table's column count; missing trailing fields read as empty.
//
// A Table is owned by a single session and is not safe for concurrent use.
package store

import (
	"slices"
	"strings"
)

// Sentinel separates fields inside a packed row.
const Sentinel byte = 0xFA

const (
	sentinelString = "\xfa"
	replacement    = "\uFFFD"
)

type row struct {
	data   string
	fields int
}

// Table is a grid of rows and columns backed by packed rows.
type Table struct {
	rows    []row
	columns int
}

// New returns a table with the given number of empty rows and columns.
func New(rows, columns int) *Table {
	t := &Table{}
	t.Resize(rows, columns)
	return t
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return len(t.rows) }

// Columns returns the number of columns.
func (t *Table) Columns() int { return t.columns }

// Clear removes all rows and columns.
func (t *Table) Clear() {
	t.rows = nil
	t.columns = 0
}

// Resize grows the table. It never shrinks: existing rows are padded with
// empty fields when columns grows, and new rows are appended pre-padded.
func (t *Table) Resize(rows, columns int) {
	if columns > t.columns {
		for i := range t.rows {
			t.rows[i] = t.rows[i].pad(columns)
		}
		t.columns = columns
	}
	if rows > len(t.rows) {
		blank := emptyRow(t.columns)
		t.rows = slices.Grow(t.rows, rows-len(t.rows))
		for len(t.rows) < rows {
			t.rows = append(t.rows, blank)
		}
	}
}

// Get returns the cell at (r, c), or "" when either index is out of range.
func (t *Table) Get(r, c int) string {
	if r < 0 || r >= len(t.rows) || c < 0 || c >= t.columns {
		return ""
	}
	rw := t.rows[r]
	if c >= rw.fields {
		return ""
	}
	start, end := rw.span(c)
	return rw.data[start:end]
}

// Set stores v at (r, c) and reports whether the indices were in range.
// A Sentinel byte in v is replaced by U+FFFD.
func (t *Table) Set(r, c int, v string) bool {
	if r < 0 || r >= len(t.rows) || c < 0 || c >= t.columns {
		return false
	}
	rw := t.rows[r]
	if c >= rw.fields {
		rw = rw.pad(t.columns)
	}
	start, end := rw.span(c)
	rw.data = rw.data[:start] + sanitize(v) + rw.data[end:]
	t.rows[r] = rw
	return true
}

// Row returns the fields of row r padded to the column count.
func (t *Table) Row(r int) []string {
	if r < 0 || r >= len(t.rows) {
		return nil
	}
	fields := t.rows[r].split()
	for len(fields) < t.columns {
		fields = append(fields, "")
	}
	return fields
}

// RawRow returns the fields of row r as stored, without padding.
func (t *Table) RawRow(r int) []string {
	if r < 0 || r >= len(t.rows) {
		return nil
	}
	return t.rows[r].split()
}

// FieldCount returns the number of fields stored for row r, which may be
// lower than Columns.
func (t *Table) FieldCount(r int) int {
	if r < 0 || r >= len(t.rows) {
		return 0
	}
	return t.rows[r].fields
}

// RowString returns row r with its fields joined by sep.
func (t *Table) RowString(r int, sep string) string {
	if r < 0 || r >= len(t.rows) {
		return ""
	}
	return strings.ReplaceAll(t.rows[r].data, sentinelString, sep)
}

// Append adds a row after the last one and returns its index. The column
// count grows to fit the row.
func (t *Table) Append(fields []string) int {
	t.rows = append(t.rows, pack(fields))
	if len(fields) > t.columns {
		t.columns = len(fields)
	}
	return len(t.rows) - 1
}

// Prepend adds a row before the first one.
func (t *Table) Prepend(fields []string) {
	t.rows = slices.Insert(t.rows, 0, pack(fields))
	if len(fields) > t.columns {
		t.columns = len(fields)
	}
}

// InsertRow adds an empty row before or after row r. An empty table
// accepts r == 0.
func (t *Table) InsertRow(r int, before bool) bool {
	if len(t.rows) == 0 {
		if r != 0 {
			return false
		}
		t.rows = append(t.rows, emptyRow(t.columns))
		return true
	}
	if r < 0 || r >= len(t.rows) {
		return false
	}
	at := r
	if !before {
		at++
	}
	t.rows = slices.Insert(t.rows, at, emptyRow(t.columns))
	return true
}

// InsertColumn adds an empty column before or after column c. A table
// without columns accepts c == 0.
func (t *Table) InsertColumn(c int, before bool) bool {
	if t.columns == 0 {
		if c != 0 {
			return false
		}
		for i := range t.rows {
			t.rows[i] = row{data: "", fields: 1}
		}
		t.columns = 1
		return true
	}
	if c < 0 || c >= t.columns {
		return false
	}
	at := c
	if !before {
		at++
	}
	for i, rw := range t.rows {
		rw = rw.pad(t.columns)
		if at == t.columns {
			rw.data += sentinelString
		} else {
			start, _ := rw.span(at)
			rw.data = rw.data[:start] + sentinelString + rw.data[start:]
		}
		rw.fields++
		t.rows[i] = rw
	}
	t.columns++
	return true
}

// DeleteRows removes rows from through to, both inclusive. The range is
// clipped to the table.
func (t *Table) DeleteRows(from, to int) {
	from = max(from, 0)
	to = min(to, len(t.rows)-1)
	if from > to {
		return
	}
	t.rows = slices.Delete(t.rows, from, to+1)
}

// DeleteColumns removes columns from through to, both inclusive. The range
// is clipped to the table.
func (t *Table) DeleteColumns(from, to int) {
	from = max(from, 0)
	to = min(to, t.columns-1)
	if from > to {
		return
	}
	for i, rw := range t.rows {
		if rw.fields <= from {
			continue
		}
		fields := rw.split()
		fields = slices.Delete(fields, from, min(to+1, len(fields)))
		t.rows[i] = joinPacked(fields)
	}
	t.columns -= to - from + 1
}

// MoveColumns shifts the block of columns from through to by one position.
// The column next to the block takes its place on the other side. It
// reports false when the block is already at the edge.
func (t *Table) MoveColumns(from, to int, right bool) bool {
	if from < 0 || from > to || to >= t.columns {
		return false
	}
	if right && to+1 >= t.columns {
		return false
	}
	if !right && from == 0 {
		return false
	}
	for i, rw := range t.rows {
		fields := rw.pad(t.columns).split()
		if right {
			moved := fields[to+1]
			copy(fields[from+1:to+2], fields[from:to+1])
			fields[from] = moved
		} else {
			moved := fields[from-1]
			copy(fields[from-1:to], fields[from:to+1])
			fields[to] = moved
		}
		t.rows[i] = joinPacked(fields)
	}
	return true
}

// CellContainsLineBreak reports whether the cell at (r, c) spans lines.
func (t *Table) CellContainsLineBreak(r, c int) bool {
	return strings.IndexByte(t.Get(r, c), '\n') >= 0
}

// SplitColumn inserts a column after c and moves everything following the
// first occurrence of sep in each cell of c into it.
func (t *Table) SplitColumn(c int, sep string) bool {
	if sep == "" || c < 0 || c >= t.columns {
		return false
	}
	t.InsertColumn(c, false)
	for r := range t.rows {
		before, after, found := strings.Cut(t.Get(r, c), sep)
		if !found {
			continue
		}
		t.Set(r, c, before)
		t.Set(r, c+1, after)
	}
	return true
}

// MergeColumns joins column c and c+1 with sep into column c and removes
// column c+1.
func (t *Table) MergeColumns(c int, sep string) bool {
	if c < 0 || c >= t.columns-1 {
		return false
	}
	for r := range t.rows {
		t.Set(r, c, t.Get(r, c)+sep+t.Get(r, c+1))
	}
	t.DeleteColumns(c+1, c+1)
	return true
}

// IsNumericColumn reports whether the first maxRows cells of column c are
// numbers. maxRows <= 0 checks every row.
func (t *Table) IsNumericColumn(c, maxRows int) bool {
	if c < 0 || c >= t.columns {
		return false
	}
	if maxRows <= 0 || maxRows > len(t.rows) {
		maxRows = len(t.rows)
	}
	for r := 0; r < maxRows; r++ {
		if !IsNumber(t.Get(r, c)) {
			return false
		}
	}
	return true
}

// IsNumber reports whether s consists only of digits, '.', ',' and '-'.
// The empty string counts as a number.
func IsNumber(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && c != '.' && c != ',' && c != '-' {
			return false
		}
	}
	return true
}

func emptyRow(columns int) row {
	if columns == 0 {
		return row{}
	}
	return row{data: strings.Repeat(sentinelString, columns-1), fields: columns}
}

func pack(fields []string) row {
	if len(fields) == 0 {
		return row{}
	}
	size := len(fields) - 1
	for _, f := range fields {
		size += len(f)
	}
	var b strings.Builder
	b.Grow(size)
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(Sentinel)
		}
		b.WriteString(sanitize(f))
	}
	return row{data: b.String(), fields: len(fields)}
}

// joinPacked repacks fields that were split from a stored row and are
// therefore already sanitized.
func joinPacked(fields []string) row {
	if len(fields) == 0 {
		return row{}
	}
	return row{data: strings.Join(fields, sentinelString), fields: len(fields)}
}

func sanitize(s string) string {
	if strings.IndexByte(s, Sentinel) < 0 {
		return s
	}
	return strings.ReplaceAll(s, sentinelString, replacement)
}

func (rw row) split() []string {
	if rw.fields == 0 {
		return nil
	}
	return strings.Split(rw.data, sentinelString)
}

// span returns the byte bounds of field c. c must be below rw.fields.
func (rw row) span(c int) (start, end int) {
	s := rw.data
	for ; c > 0; c-- {
		start += strings.IndexByte(s[start:], Sentinel) + 1
	}
	end = strings.IndexByte(s[start:], Sentinel)
	if end < 0 {
		return start, len(s)
	}
	return start, start + end
}

func (rw row) pad(columns int) row {
	if rw.fields >= columns {
		return rw
	}
	add := columns - rw.fields
	if rw.fields == 0 {
		add--
	}
	rw.data += strings.Repeat(sentinelString, add)
	rw.fields = columns
	return rw
}
