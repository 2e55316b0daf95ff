// Package parser implements the line-oriented CSV state machine.
//
// The machine has two states. NotEnclosed is the initial and accepting state:
// a line that ends there completes a row. Enclosed means the line ended inside
// a quoted field; the next physical line continues that field, joined by "\n".
//
// A Parser carries this state between calls and belongs to exactly one parse
// session. Reuse it for another document only after Reset.
package parser

import (
	"github.com/shapestone/shape-table/internal/dialect"
)

// State is the machine state after a line has been consumed.
type State int

const (
	// NotEnclosed means the last line completed a row.
	NotEnclosed State = iota
	// Enclosed means a quoted field is still open.
	Enclosed
)

// String returns the state name.
func (s State) String() string {
	if s == Enclosed {
		return "ENCLOSED"
	}
	return "NOT_ENCLOSED"
}

// ParseState is what survives between two physical lines of one row.
type ParseState struct {
	enclosed bool
	// pending holds the open field's content while enclosed.
	pending []byte
	// fields holds the fields of the row completed before the open one.
	fields []string
}

// Parser splits decoded lines into fields according to a dialect.
type Parser struct {
	dialect dialect.Dialect
	state   ParseState
}

// New returns a Parser for d in the NotEnclosed state.
func New(d dialect.Dialect) *Parser {
	return &Parser{
		dialect: d,
		state: ParseState{
			pending: make([]byte, 0, 256),
			fields:  make([]string, 0, 16),
		},
	}
}

// Dialect returns the dialect the parser was created with.
func (p *Parser) Dialect() dialect.Dialect {
	return p.dialect
}

// Reset returns the parser to NotEnclosed with no pending content.
func (p *Parser) Reset() {
	p.state.enclosed = false
	p.state.pending = p.state.pending[:0]
	p.state.fields = p.state.fields[:0]
}

// State reports whether a quoted field is open.
func (p *Parser) State() State {
	if p.state.enclosed {
		return Enclosed
	}
	return NotEnclosed
}

// Pending returns the content accumulated so far for an open quoted field.
func (p *Parser) Pending() string {
	if !p.state.enclosed {
		return ""
	}
	return string(p.state.pending)
}

// ParseLine feeds one physical line, terminator removed, into the machine.
//
// When the returned state is NotEnclosed the row is complete and its fields
// are returned. The slice is reused by the next call. When the state is
// Enclosed no row is returned; feed the following line to the same Parser.
func (p *Parser) ParseLine(line string) ([]string, State) {
	d := p.dialect
	distinctEscape := d.Escape != d.Quote
	st := &p.state

	enclosed := false
	startField := true
	field := st.pending[:0]

	if st.enclosed {
		enclosed = true
		field = append(st.pending, '\n')
	} else {
		st.fields = st.fields[:0]
	}

	n := len(line)
	for i := 0; i < n; i++ {
		c := line[i]

		if distinctEscape && c == d.Escape && i < n-1 {
			field = append(field, line[i+1])
			i++
			continue
		}

		if c == d.Quote {
			if i < n-1 && line[i+1] == d.Quote {
				if enclosed {
					field = append(field, c)
					i++
				} else {
					// Only the first quote is consumed so that "" still
					// closes as an empty quoted field.
					enclosed = true
				}
				continue
			}
			switch {
			case enclosed:
				enclosed = false
			case startField:
				enclosed = true
			default:
				field = append(field, c)
			}
			continue
		}

		startField = false

		if c == d.Delimiter && !enclosed {
			st.fields = append(st.fields, string(field))
			field = field[:0]
			startField = true
			continue
		}

		field = append(field, c)
	}

	if enclosed {
		st.enclosed = true
		st.pending = field
		return nil, Enclosed
	}

	st.fields = append(st.fields, string(field))
	st.enclosed = false
	st.pending = field[:0]
	return st.fields, NotEnclosed
}

// Flush closes an open quoted field at end of input and returns the row it
// belongs to. It returns nil when no field is open.
func (p *Parser) Flush() []string {
	st := &p.state
	if !st.enclosed {
		return nil
	}
	st.fields = append(st.fields, string(st.pending))
	st.enclosed = false
	st.pending = st.pending[:0]
	return st.fields
}

// SplitLine parses a single self-contained line with a fresh parser.
// An unterminated quote keeps the rest of the line in the last field.
func SplitLine(line string, d dialect.Dialect) []string {
	p := New(d)
	if fields, state := p.ParseLine(line); state == NotEnclosed {
		return append([]string(nil), fields...)
	}
	return append([]string(nil), p.Flush()...)
}
