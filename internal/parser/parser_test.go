package parser

import (
	"reflect"
	"testing"

	"github.com/shapestone/shape-table/internal/dialect"
)

// TestParseLine_SingleLine covers rows that are complete on one physical line.
func TestParseLine_SingleLine(t *testing.T) {
	comma := dialect.Default()
	semi := dialect.Default().WithDelimiter(';')
	backslash := dialect.Default().WithEscape('\\')

	tests := []struct {
		name    string
		dialect dialect.Dialect
		line    string
		want    []string
	}{
		{"simple", comma, "a,b,c", []string{"a", "b", "c"}},
		{"empty line", comma, "", []string{""}},
		{"empty fields", comma, ",,", []string{"", "", ""}},
		{"quoted delimiter", comma, `a,"b,c",d`, []string{"a", "b,c", "d"}},
		{"doubled quote", comma, `"He said ""hi"""`, []string{`He said "hi"`}},
		{"empty quoted field", comma, `"",x`, []string{"", "x"}},
		{"only doubled quotes", comma, `""""`, []string{`"`}},
		{"naked quote mid field", comma, `ab"c,d`, []string{`ab"c`, "d"}},
		{"text after closing quote", comma, `"ab"c,d`, []string{"abc", "d"}},
		{"other delimiter ignored", comma, "a;b", []string{"a;b"}},
		{"semicolon", semi, "a;b,c;d", []string{"a", "b,c", "d"}},
		{"backslash escapes delimiter", backslash, `a\,b,c`, []string{"a,b", "c"}},
		{"backslash escapes quote", backslash, `"say \"x\"",y`, []string{`say "x"`, "y"}},
		{"trailing backslash kept", backslash, `a,b\`, []string{"a", `b\`}},
		{"backslash doubled", backslash, `a\\b`, []string{`a\b`}},
		{"utf8 content", comma, "Köln,€", []string{"Köln", "€"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.dialect)
			got, state := p.ParseLine(tt.line)
			if state != NotEnclosed {
				t.Fatalf("state = %v, want NOT_ENCLOSED", state)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLine(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

// TestParseLine_MultiLine covers quoted fields spanning physical lines.
func TestParseLine_MultiLine(t *testing.T) {
	p := New(dialect.Default())

	fields, state := p.ParseLine(`a,"line1`)
	if state != Enclosed {
		t.Fatalf("state after first line = %v, want ENCLOSED", state)
	}
	if fields != nil {
		t.Errorf("fields while enclosed = %q, want nil", fields)
	}
	if got := p.Pending(); got != "line1" {
		t.Errorf("Pending() = %q, want %q", got, "line1")
	}

	fields, state = p.ParseLine(`line2",c`)
	if state != NotEnclosed {
		t.Fatalf("state after second line = %v, want NOT_ENCLOSED", state)
	}
	want := []string{"a", "line1\nline2", "c"}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("fields = %q, want %q", fields, want)
	}
}

func TestParseLine_ThreePhysicalLines(t *testing.T) {
	p := New(dialect.Default())
	lines := []string{`x,"first`, ``, `third"`}
	var got []string
	for i, line := range lines {
		fields, state := p.ParseLine(line)
		if i < len(lines)-1 && state != Enclosed {
			t.Fatalf("line %d: state = %v, want ENCLOSED", i, state)
		}
		got = fields
	}
	want := []string{"x", "first\n\nthird"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fields = %q, want %q", got, want)
	}
}

func TestParseLine_RowsAreIndependent(t *testing.T) {
	p := New(dialect.Default())
	first, _ := p.ParseLine("a,b,c")
	firstCopy := append([]string(nil), first...)
	second, _ := p.ParseLine("d")
	if !reflect.DeepEqual(second, []string{"d"}) {
		t.Errorf("second row = %q, want [d]", second)
	}
	if !reflect.DeepEqual(firstCopy, []string{"a", "b", "c"}) {
		t.Errorf("first row copy = %q", firstCopy)
	}
}

func TestReset(t *testing.T) {
	p := New(dialect.Default())
	p.ParseLine(`"open`)
	if p.State() != Enclosed {
		t.Fatal("expected ENCLOSED before Reset")
	}
	p.Reset()
	if p.State() != NotEnclosed || p.Pending() != "" {
		t.Fatalf("after Reset: state %v pending %q", p.State(), p.Pending())
	}
	got, _ := p.ParseLine("x,y")
	if !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("row after Reset = %q, want [x y]", got)
	}
}

func TestFlush(t *testing.T) {
	p := New(dialect.Default())
	if p.Flush() != nil {
		t.Error("Flush() on idle parser should return nil")
	}
	p.ParseLine(`a,"unterminated`)
	got := p.Flush()
	want := []string{"a", "unterminated"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flush() = %q, want %q", got, want)
	}
	if p.State() != NotEnclosed {
		t.Error("Flush() left parser enclosed")
	}
}

func TestSplitLine(t *testing.T) {
	got := SplitLine(`1;"2;3";4`, dialect.Default().WithDelimiter(';'))
	want := []string{"1", "2;3", "4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitLine = %q, want %q", got, want)
	}
	got = SplitLine(`a,"open`, dialect.Default())
	want = []string{"a", "open"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitLine unterminated = %q, want %q", got, want)
	}
}

func BenchmarkParseLine(b *testing.B) {
	p := New(dialect.Default())
	line := `12345,"Smith, John",john@example.com,"said ""hello""",2024-01-15,99.5`
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.ParseLine(line)
	}
}
