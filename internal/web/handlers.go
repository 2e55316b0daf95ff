package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shapestone/shape-table/internal/export/pgcopy"
	"github.com/shapestone/shape-table/internal/logging"
	"github.com/shapestone/shape-table/internal/session"
	"github.com/shapestone/shape-table/pkg/table"
)

// defaultPageSize is the number of rows returned when no limit is given.
const defaultPageSize = 100

// maxPageSize caps the limit query parameter.
const maxPageSize = 10000

func (s *Server) document(r *http.Request) (*session.Document, error) {
	return s.registry.Lookup(chi.URLParam(r, "id"))
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(q url.Values, name string, defaultVal int) (int, error) {
	val := q.Get(name)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", errBadRequest, name, val)
	}
	return i, nil
}

// parseBoolParam parses a boolean query parameter with a default value.
func parseBoolParam(q url.Values, name string, defaultVal bool) (bool, error) {
	val := q.Get(name)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q is not a boolean", errBadRequest, name, val)
	}
	return b, nil
}

func dialectSpec(q url.Values) table.DialectSpec {
	return table.DialectSpec{
		Delimiter:  q.Get("delimiter"),
		Quote:      q.Get("quote"),
		Escape:     q.Get("escape"),
		Encoding:   q.Get("encoding"),
		QuoteStyle: q.Get("quoting"),
		LineBreak:  q.Get("linebreak"),
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"documents": s.registry.List()})
}

// handleUpload accepts the file either as the "file" part of a multipart
// form or as the raw request body. Dialect query parameters skip detection.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Ingest.MaxUploadSize)

	name := r.URL.Query().Get("name")
	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			var maxBytes *http.MaxBytesError
			if errors.As(err, &maxBytes) {
				respondError(w, r, err)
				return
			}
			respondError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		defer file.Close()
		src = file
		if name == "" {
			name = path.Base(header.Filename)
		}
	}

	data, err := io.ReadAll(src)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if len(data) == 0 {
		respondError(w, r, table.ErrEmptyInput)
		return
	}
	if name == "" {
		name = "upload.csv"
	}

	q := r.URL.Query()
	opts := s.loadOptions(r.Context(), name)
	if spec := dialectSpec(q); !spec.IsZero() {
		d, err := spec.Input()
		if err != nil {
			respondError(w, r, err)
			return
		}
		if d.BOMLength, err = parseIntParam(q, "bom", 0); err != nil {
			respondError(w, r, err)
			return
		}
		if err := d.Validate(); err != nil {
			respondError(w, r, err)
			return
		}
		opts.Dialect = &d
	}
	if opts.ResizeRows, err = parseBoolParam(q, "resize", opts.ResizeRows); err != nil {
		respondError(w, r, err)
		return
	}

	doc, err := table.Load(bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		respondError(w, r, err)
		return
	}
	d, err := s.registry.Add(name, doc)
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/documents/"+d.ID.String())
	writeJSON(w, http.StatusCreated, d.Info())
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	d, err := s.document(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d.Info())
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	d, err := s.document(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := s.registry.Remove(d.ID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RowsResponse is a page of rows.
type RowsResponse struct {
	Offset int        `json:"offset"`
	Total  int        `json:"total"`
	Rows   [][]string `json:"rows"`
}

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	d, err := s.document(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	q := r.URL.Query()
	offset, err := parseIntParam(q, "offset", 0)
	if err != nil {
		respondError(w, r, err)
		return
	}
	limit, err := parseIntParam(q, "limit", defaultPageSize)
	if err != nil {
		respondError(w, r, err)
		return
	}
	limit = min(max(limit, 0), maxPageSize)

	rows, total := d.Page(offset, limit)
	writeJSON(w, http.StatusOK, RowsResponse{Offset: max(offset, 0), Total: total, Rows: rows})
}

// InsertRequest positions a new row or column.
type InsertRequest struct {
	At     int  `json:"at"`
	Before bool `json:"before"`
}

func (s *Server) handleInsertRow(w http.ResponseWriter, r *http.Request) {
	s.insert(w, r, (*session.Document).InsertRow)
}

func (s *Server) handleInsertColumn(w http.ResponseWriter, r *http.Request) {
	s.insert(w, r, (*session.Document).InsertColumn)
}

func (s *Server) insert(w http.ResponseWriter, r *http.Request, op func(*session.Document, int, bool) error) {
	d, err := s.document(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req InsertRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := op(d, req.At, req.Before); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d.Info())
}

func (s *Server) handleDeleteRows(w http.ResponseWriter, r *http.Request) {
	s.deleteRange(w, r, (*session.Document).DeleteRows)
}

func (s *Server) handleDeleteColumns(w http.ResponseWriter, r *http.Request) {
	s.deleteRange(w, r, (*session.Document).DeleteColumns)
}

// deleteRange reads the inclusive range from the from and to query
// parameters. to defaults to from.
func (s *Server) deleteRange(w http.ResponseWriter, r *http.Request, op func(*session.Document, int, int) error) {
	d, err := s.document(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	q := r.URL.Query()
	if q.Get("from") == "" {
		respondError(w, r, fmt.Errorf("%w: from is required", errBadRequest))
		return
	}
	from, err := parseIntParam(q, "from", 0)
	if err != nil {
		respondError(w, r, err)
		return
	}
	to, err := parseIntParam(q, "to", from)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := op(d, from, to); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d.Info())
}

// MoveRequest shifts a block of columns by one position.
type MoveRequest struct {
	From  int  `json:"from"`
	To    int  `json:"to"`
	Right bool `json:"right"`
}

func (s *Server) handleMoveColumns(w http.ResponseWriter, r *http.Request) {
	d, err := s.document(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req MoveRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := d.MoveColumns(req.From, req.To, req.Right); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d.Info())
}

// CellRequest is the body of a cell update.
type CellRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleSetCell(w http.ResponseWriter, r *http.Request) {
	d, err := s.document(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	row, err1 := strconv.Atoi(chi.URLParam(r, "row"))
	col, err2 := strconv.Atoi(chi.URLParam(r, "col"))
	if err1 != nil || err2 != nil {
		respondError(w, r, fmt.Errorf("%w: row and column must be integers", errBadRequest))
		return
	}
	var req CellRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := d.SetCell(row, col, req.Value); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadOptions builds the parse settings for an upload. Progress is logged
// at debug level every Ingest.ProgressEvery rows.
func (s *Server) loadOptions(ctx context.Context, name string) table.Options {
	log := logging.WithFields(ctx, "upload", name)
	return table.Options{
		ProbeLines:     s.cfg.Ingest.ProbeLines,
		UTF8SniffLimit: s.cfg.Ingest.UTF8SniffLimit,
		ResizeRows:     s.cfg.Ingest.ResizeRows,
		ProgressEvery:  s.cfg.Ingest.ProgressEvery,
		Progress: func(rows int) {
			log.Debug("parse progress", "rows", rows)
		},
		Logger: log,
	}
}

// sortOptions logs sort progress at debug level every Sort.YieldEvery
// comparisons.
func (s *Server) sortOptions(ctx context.Context, d *session.Document) table.SortOptions {
	log := logging.WithFields(ctx, "document", d.ID)
	every := s.cfg.Sort.YieldEvery
	yields := 0
	return table.SortOptions{
		YieldEvery: every,
		Yield: func() {
			if yields > 0 {
				log.Debug("sort progress", "comparisons", yields*every)
			}
			yields++
		},
	}
}

// SortRequest orders the rows by one column.
type SortRequest struct {
	Column    int    `json:"column"`
	Ascending bool   `json:"ascending"`
	Mode      string `json:"mode"`
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	d, err := s.document(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req SortRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	mode, err := table.ParseSortMode(req.Mode)
	if err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if err := d.Sort(req.Column, req.Ascending, mode, s.sortOptions(r.Context(), d)); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDownloadCSV serializes the document. Dialect query parameters
// override the document dialect; from and to select a row range.
func (s *Server) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	d, err := s.document(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	q := r.URL.Query()
	rng, err := rowRange(q)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	var name string
	err = d.Do(func(doc *table.Document) error {
		dl, err := dialectSpec(q).Apply(doc.Dialect)
		if err != nil {
			return err
		}
		name = d.Name
		_, err = doc.Save(&buf, table.SaveOptions{Dialect: &dl, Range: rng})
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleDownloadJSON(w http.ResponseWriter, r *http.Request) {
	d, err := s.document(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	q := r.URL.Query()
	var opts table.JSONOptions
	if opts.Header, err = parseBoolParam(q, "header", false); err != nil {
		respondError(w, r, err)
		return
	}
	if opts.Numbers, err = parseBoolParam(q, "numbers", false); err != nil {
		respondError(w, r, err)
		return
	}
	if opts.Range, err = rowRange(q); err != nil {
		respondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := d.Do(func(doc *table.Document) error { return doc.ExportJSON(&buf, opts) }); err != nil {
		respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func rowRange(q url.Values) (*table.RowRange, error) {
	if q.Get("from") == "" && q.Get("to") == "" {
		return nil, nil
	}
	from, err := parseIntParam(q, "from", 0)
	if err != nil {
		return nil, err
	}
	to, err := parseIntParam(q, "to", int(^uint(0)>>1))
	if err != nil {
		return nil, err
	}
	return &table.RowRange{From: from, To: to}, nil
}

// CopyRequest names the PostgreSQL target of a copy.
type CopyRequest struct {
	Table  string `json:"table"`
	Schema string `json:"schema"`
	Create bool   `json:"create"`
	Header bool   `json:"header"`
}

// CopyResponse reports a finished copy.
type CopyResponse struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		respondError(w, r, errNoDatabase)
		return
	}
	d, err := s.document(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req CopyRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.Table == "" {
		respondError(w, r, fmt.Errorf("%w: table is required", errBadRequest))
		return
	}

	var n int64
	err = d.Do(func(doc *table.Document) error {
		var err error
		n, err = pgcopy.Copy(r.Context(), s.db, doc.Table, req.Table, pgcopy.Options{
			Schema: req.Schema,
			Create: req.Create,
			Header: req.Header,
			Logger: logging.WithFields(r.Context(), "document", d.ID),
		})
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CopyResponse{Table: req.Table, Rows: n})
}
