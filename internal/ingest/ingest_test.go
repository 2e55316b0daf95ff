package ingest

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/shapestone/shape-table/internal/codec"
	"github.com/shapestone/shape-table/internal/dialect"
	"github.com/shapestone/shape-table/internal/store"
)

func rows(t *store.Table) [][]string {
	out := make([][]string, t.Rows())
	for r := range out {
		out[r] = t.RawRow(r)
	}
	return out
}

func TestParseStream(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		dialect dialect.Dialect
		want    [][]string
		hist    Histogram
	}{
		{
			name:    "simple",
			input:   "a,b,c\n1,2,3\n",
			dialect: dialect.Default(),
			want:    [][]string{{"a", "b", "c"}, {"1", "2", "3"}},
			hist:    Histogram{3: 2},
		},
		{
			name:    "last line without terminator is not counted",
			input:   "a,b\r\n1,2",
			dialect: dialect.Default(),
			want:    [][]string{{"a", "b"}, {"1", "2"}},
			hist:    Histogram{2: 1},
		},
		{
			name:    "cr terminated last line is counted",
			input:   "a,b\rc,d\r",
			dialect: dialect.Default(),
			want:    [][]string{{"a", "b"}, {"c", "d"}},
			hist:    Histogram{2: 2},
		},
		{
			name:    "crlf terminated last line is counted",
			input:   "a,b\r\nc,d\r\n",
			dialect: dialect.Default(),
			want:    [][]string{{"a", "b"}, {"c", "d"}},
			hist:    Histogram{2: 2},
		},
		{
			name:    "multi-line quoted field",
			input:   "a,\"line1\nline2\",c\n",
			dialect: dialect.Default(),
			want:    [][]string{{"a", "line1\nline2", "c"}},
			hist:    Histogram{3: 1},
		},
		{
			name:    "ragged rows",
			input:   "a;b;c\n1;2\n3\n",
			dialect: dialect.Default().WithDelimiter(';'),
			want:    [][]string{{"a", "b", "c"}, {"1", "2"}, {"3"}},
			hist:    Histogram{3: 1, 2: 1, 1: 1},
		},
		{
			name:    "unterminated quote flushed",
			input:   "x,y\n1,\"open\n",
			dialect: dialect.Default(),
			want:    [][]string{{"x", "y"}, {"1", "open"}},
			hist:    Histogram{2: 1},
		},
		{
			name:    "empty input",
			input:   "",
			dialect: dialect.Default(),
			want:    [][]string{},
			hist:    Histogram{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := &store.Table{}
			hist, err := ParseStream(strings.NewReader(tt.input), tbl, tt.dialect, Options{})
			if err != nil {
				t.Fatalf("ParseStream() error = %v", err)
			}
			if got := rows(tbl); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("rows = %q, want %q", got, tt.want)
			}
			if !reflect.DeepEqual(hist, tt.hist) {
				t.Errorf("histogram = %v, want %v", hist, tt.hist)
			}
		})
	}
}

func TestParseStreamSkipsBOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, "id,name\n1,x\n"...)
	d := dialect.Default()
	d.BOMLength = 3
	tbl := &store.Table{}
	if _, err := ParseStream(bytes.NewReader(input), tbl, d, Options{}); err != nil {
		t.Fatal(err)
	}
	if tbl.Get(0, 0) != "id" {
		t.Errorf("first cell = %q, want id", tbl.Get(0, 0))
	}
}

func TestParseStreamUTF16(t *testing.T) {
	enc, err := codec.Encode("a,ä\r\nb,€\r\n", codec.UTF16LE)
	if err != nil {
		t.Fatal(err)
	}
	input := append(codec.BOM(codec.UTF16LE), enc...)
	d := dialect.Default()
	d.Encoding = codec.UTF16LE
	d.BOMLength = 2

	tbl := &store.Table{}
	if _, err := ParseStream(bytes.NewReader(input), tbl, d, Options{}); err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"a", "ä"}, {"b", "€"}}
	if got := rows(tbl); !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %q, want %q", got, want)
	}
}

func TestParseStreamLatin1(t *testing.T) {
	d := dialect.Default()
	d.Encoding = codec.Latin1
	tbl := &store.Table{}
	if _, err := ParseStream(bytes.NewReader([]byte("K\xf6ln,\xe9\n")), tbl, d, Options{}); err != nil {
		t.Fatal(err)
	}
	if got := tbl.Row(0); !reflect.DeepEqual(got, []string{"Köln", "é"}) {
		t.Errorf("row = %q", got)
	}
}

func TestParseStreamMaxLines(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("a,b\n")
	}
	tbl := &store.Table{}
	if _, err := ParseStream(strings.NewReader(b.String()), tbl, dialect.Default(), Options{MaxLines: 10}); err != nil {
		t.Fatal(err)
	}
	if tbl.Rows() != 10 {
		t.Errorf("Rows() = %d, want 10", tbl.Rows())
	}
}

func TestParseStreamResizeRows(t *testing.T) {
	tbl := &store.Table{}
	_, err := ParseStream(strings.NewReader("a\nb,c,d\ne,f\n"), tbl, dialect.Default(), Options{ResizeRows: true})
	if err != nil {
		t.Fatal(err)
	}
	for r := 0; r < tbl.Rows(); r++ {
		if n := tbl.FieldCount(r); n != 3 {
			t.Errorf("row %d stores %d fields, want 3", r, n)
		}
	}
}

func TestParseStreamProgress(t *testing.T) {
	var calls []int
	tbl := &store.Table{}
	opts := Options{ProgressEvery: 2, Progress: func(n int) { calls = append(calls, n) }}
	if _, err := ParseStream(strings.NewReader("1\n2\n3\n4\n5\n"), tbl, dialect.Default(), opts); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(calls, []int{2, 4}) {
		t.Errorf("progress calls = %v, want [2 4]", calls)
	}
}

type failingReader struct{ data io.Reader }

var errDisk = errors.New("disk on fire")

func (f *failingReader) Read(p []byte) (int, error) {
	n, err := f.data.Read(p)
	if err == io.EOF {
		return n, errDisk
	}
	return n, err
}

func TestParseStreamReadError(t *testing.T) {
	tbl := &store.Table{}
	_, err := ParseStream(&failingReader{strings.NewReader("a,b\n")}, tbl, dialect.Default(), Options{})
	if !errors.Is(err, errDisk) {
		t.Fatalf("error = %v, want errDisk", err)
	}
}

func TestHistogramWidths(t *testing.T) {
	h := Histogram{5: 1, 2: 7, 3: 1}
	if got := h.Widths(); !reflect.DeepEqual(got, []int{2, 3, 5}) {
		t.Errorf("Widths() = %v", got)
	}
	if h.Consistent() {
		t.Error("Consistent() = true for three widths")
	}
}
