package table

import (
	"errors"
	"testing"
)

func TestDialectSpecApply(t *testing.T) {
	tests := []struct {
		name string
		spec DialectSpec
		want Dialect
	}{
		{"zero keeps base", DialectSpec{}, DefaultDialect()},
		{
			name: "semicolon latin1",
			spec: DialectSpec{Delimiter: "semicolon", Encoding: "latin1", LineBreak: "lf"},
			want: func() Dialect {
				d := DefaultDialect()
				d.Delimiter, d.Encoding, d.LineBreak = ';', Latin1, "\n"
				return d
			}(),
		},
		{
			name: "single quote keeps doubled escape",
			spec: DialectSpec{Quote: "'"},
			want: func() Dialect {
				d := DefaultDialect()
				d.Quote, d.Escape = '\'', '\''
				return d
			}(),
		},
		{
			name: "backslash escape and quote all",
			spec: DialectSpec{Escape: "backslash", QuoteStyle: "all"},
			want: func() Dialect {
				d := DefaultDialect()
				d.Escape, d.QuoteStyle = '\\', QuoteAll
				return d
			}(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.Apply(DefaultDialect())
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDialectSpecInput(t *testing.T) {
	d, err := DialectSpec{Delimiter: "tab"}.Input()
	if err != nil {
		t.Fatal(err)
	}
	if d.Delimiter != '\t' || d.Encoding != None {
		t.Errorf("Input() = %+v, want tab delimiter and encoding None", d)
	}
	d, err = DialectSpec{Encoding: "utf-16be"}.Input()
	if err != nil {
		t.Fatal(err)
	}
	if d.Encoding != UTF16BE {
		t.Errorf("Input() encoding = %v, want UTF16BE", d.Encoding)
	}
}

func TestDialectSpecApplyErrors(t *testing.T) {
	specs := []DialectSpec{
		{Delimiter: "two"},
		{Quote: "''"},
		{Escape: "xx"},
		{Encoding: "ebcdic"},
		{QuoteStyle: "never"},
		{LineBreak: "nel"},
		{Delimiter: `"`},
	}
	for _, s := range specs {
		if _, err := s.Apply(DefaultDialect()); !errors.Is(err, ErrInvalidDialect) {
			t.Errorf("Apply(%+v) error = %v, want ErrInvalidDialect", s, err)
		}
	}
	if (DialectSpec{Delimiter: ","}).IsZero() || !(DialectSpec{}).IsZero() {
		t.Error("IsZero() wrong")
	}
}
