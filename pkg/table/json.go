package table

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// JSONOptions controls ExportJSON.
type JSONOptions struct {
	// Header turns row 0 into object keys; every other row becomes an
	// object. Without it every row is an array of strings.
	Header bool
	// Numbers writes cells that parse as integers or floats as JSON numbers.
	Numbers bool
	// Range limits the rows written. Row 0 is always the header.
	Range *RowRange
}

// ExportJSON writes the table as a JSON array, one element per row.
// Objects keep the column order of the header. Blank header cells become
// column_N.
func (d *Document) ExportJSON(w io.Writer, opts JSONOptions) error {
	t := d.Table
	first := 0
	var keys []string
	if opts.Header {
		if t.Rows() == 0 {
			return fmt.Errorf("export json with header: %w", ErrEmptyInput)
		}
		keys = make([]string, t.Columns())
		for c, k := range t.Row(0) {
			if strings.TrimSpace(k) == "" {
				k = "column_" + strconv.Itoa(c+1)
			}
			keys[c] = k
		}
		first = 1
	}
	from, to := first, t.Rows()-1
	if opts.Range != nil {
		from = max(opts.Range.From, first)
		to = min(opts.Range.To, to)
	}

	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 1024)
	buf = append(buf, '[')
	n := 0
	for r := from; r <= to; r++ {
		if n > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '\n')
		row := t.Row(r)
		if keys != nil {
			buf = append(buf, '{')
			for c, k := range keys {
				if c > 0 {
					buf = append(buf, ',')
				}
				buf = appendString(buf, k)
				buf = append(buf, ':')
				buf = appendCell(buf, row[c], opts.Numbers)
			}
			buf = append(buf, '}')
		} else {
			buf = append(buf, '[')
			for c, v := range row {
				if c > 0 {
					buf = append(buf, ',')
				}
				buf = appendCell(buf, v, opts.Numbers)
			}
			buf = append(buf, ']')
		}
		n++
		if len(buf) > 32*1024 {
			if _, err := bw.Write(buf); err != nil {
				return fmt.Errorf("write row %d: %w", r, err)
			}
			buf = buf[:0]
		}
	}
	if n > 0 {
		buf = append(buf, '\n')
	}
	buf = append(buf, ']', '\n')
	if _, err := bw.Write(buf); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return bw.Flush()
}

func appendCell(dst []byte, v string, numbers bool) []byte {
	if numbers {
		if num, ok := Number(v); ok {
			return append(dst, num...)
		}
	}
	return appendString(dst, v)
}

// Number returns v as a JSON number literal when it parses as an integer
// or as a finite float.
func Number(v string) (string, bool) {
	s := strings.TrimSpace(v)
	if s == "" {
		return "", false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(i, 10), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return "", false
	}
	return strconv.FormatFloat(f, 'g', -1, 64), true
}

func appendString(dst []byte, s string) []byte {
	b, err := json.Marshal(s)
	if err != nil {
		// Marshal of a string cannot fail.
		panic(err)
	}
	return append(dst, b...)
}
