package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shapestone/shape-table/pkg/table"
)

// ErrOutOfRange is returned for row or column indexes outside the table.
var ErrOutOfRange = errors.New("index out of range")

// Document is an open table guarded by its own lock.
type Document struct {
	ID      uuid.UUID
	Name    string
	Created time.Time

	mu  sync.Mutex
	doc *table.Document
}

// Info summarizes a document.
type Info struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Rows       int       `json:"rows"`
	Columns    int       `json:"columns"`
	Dialect    string    `json:"dialect"`
	Delimiter  string    `json:"delimiter"`
	Encoding   string    `json:"encoding"`
	Confidence float64   `json:"confidence"`
	Header     bool      `json:"header"`
	Created    time.Time `json:"created"`
}

// Do runs fn with exclusive access to the document.
func (d *Document) Do(fn func(doc *table.Document) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.doc)
}

// Info returns a summary of the document.
func (d *Document) Info() Info {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Info{
		ID:         d.ID,
		Name:       d.Name,
		Rows:       d.doc.Table.Rows(),
		Columns:    d.doc.Table.Columns(),
		Dialect:    d.doc.Dialect.String(),
		Delimiter:  string(d.doc.Dialect.Delimiter),
		Encoding:   d.doc.Dialect.Encoding.String(),
		Confidence: d.doc.Confidence,
		Header:     d.doc.HasHeader(),
		Created:    d.Created,
	}
}

// Page returns up to limit rows starting at offset, padded to the column
// count, and the total number of rows.
func (d *Document) Page(offset, limit int) ([][]string, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.doc.Table
	total := t.Rows()
	offset = max(offset, 0)
	end := min(offset+max(limit, 0), total)
	if offset >= end {
		return [][]string{}, total
	}
	rows := make([][]string, 0, end-offset)
	for r := offset; r < end; r++ {
		rows = append(rows, t.Row(r))
	}
	return rows, total
}

// SetCell replaces the cell at row r, column c.
func (d *Document) SetCell(r, c int, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.doc.Table.Set(r, c, value) {
		return fmt.Errorf("cell (%d, %d): %w", r, c, ErrOutOfRange)
	}
	return nil
}

// Sort orders the rows by column c. opts.Yield runs with the document
// locked.
func (d *Document) Sort(c int, ascending bool, mode table.SortMode, opts table.SortOptions) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c < 0 || c >= d.doc.Table.Columns() {
		return fmt.Errorf("column %d: %w", c, ErrOutOfRange)
	}
	d.doc.SortWith(c, ascending, mode, opts)
	return nil
}

// InsertRow adds an empty row before or after row r.
func (d *Document) InsertRow(r int, before bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.doc.Table.InsertRow(r, before) {
		return fmt.Errorf("row %d: %w", r, ErrOutOfRange)
	}
	return nil
}

// InsertColumn adds an empty column before or after column c.
func (d *Document) InsertColumn(c int, before bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.doc.Table.InsertColumn(c, before) {
		return fmt.Errorf("column %d: %w", c, ErrOutOfRange)
	}
	return nil
}

// DeleteRows removes rows from through to, both inclusive.
func (d *Document) DeleteRows(from, to int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if from < 0 || from > to || from >= d.doc.Table.Rows() {
		return fmt.Errorf("rows %d-%d: %w", from, to, ErrOutOfRange)
	}
	d.doc.Table.DeleteRows(from, to)
	return nil
}

// DeleteColumns removes columns from through to, both inclusive.
func (d *Document) DeleteColumns(from, to int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if from < 0 || from > to || from >= d.doc.Table.Columns() {
		return fmt.Errorf("columns %d-%d: %w", from, to, ErrOutOfRange)
	}
	d.doc.Table.DeleteColumns(from, to)
	return nil
}

// MoveColumns shifts columns from through to one position left or right.
func (d *Document) MoveColumns(from, to int, right bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.doc.Table.MoveColumns(from, to, right) {
		return fmt.Errorf("columns %d-%d: %w", from, to, ErrOutOfRange)
	}
	return nil
}
