package table

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestExportJSON(t *testing.T) {
	doc := New()
	doc.Table.Append([]string{"name", "", "qty"})
	doc.Table.Append([]string{"Ann \"A\"", "x", "3"})
	doc.Table.Append([]string{"Bo", "y", "2.50"})

	tests := []struct {
		name string
		opts JSONOptions
		want string
	}{
		{
			name: "arrays",
			opts: JSONOptions{},
			want: "[\n[\"name\",\"\",\"qty\"],\n[\"Ann \\\"A\\\"\",\"x\",\"3\"],\n[\"Bo\",\"y\",\"2.50\"]\n]\n",
		},
		{
			name: "objects with numbers",
			opts: JSONOptions{Header: true, Numbers: true},
			want: "[\n{\"name\":\"Ann \\\"A\\\"\",\"column_2\":\"x\",\"qty\":3},\n{\"name\":\"Bo\",\"column_2\":\"y\",\"qty\":2.5}\n]\n",
		},
		{
			name: "range",
			opts: JSONOptions{Header: true, Range: &RowRange{From: 2, To: 9}},
			want: "[\n{\"name\":\"Bo\",\"column_2\":\"y\",\"qty\":\"2.50\"}\n]\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := doc.ExportJSON(&buf, tt.opts); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("ExportJSON() =\n%s\nwant\n%s", buf.String(), tt.want)
			}
			if !json.Valid(buf.Bytes()) {
				t.Error("output is not valid JSON")
			}
		})
	}
}

func TestExportJSONEmpty(t *testing.T) {
	doc := New()
	var buf bytes.Buffer
	if err := doc.ExportJSON(&buf, JSONOptions{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("output = %q", buf.String())
	}
	if err := doc.ExportJSON(&buf, JSONOptions{Header: true}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("header on empty table: error = %v, want ErrEmptyInput", err)
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"42", "42", true},
		{" -7 ", "-7", true},
		{"3.140", "3.14", true},
		{"1e3", "1000", true},
		{"", "", false},
		{"NaN", "", false},
		{"Inf", "", false},
		{"1,5", "", false},
		{"12abc", "", false},
	}
	for _, tt := range tests {
		got, ok := Number(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Number(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
