// ABOUTME: Core data model for diagnostics extracted from a TeX engine log.
// ABOUTME: Defines LineRef (none, single line, or line range) and Record with custom JSON forms.

package texlog

import (
	"encoding/json"
	"fmt"
)

// LineRefKind discriminates the three shapes a source-line attribution can take.
type LineRefKind int

const (
	// LineNone means the log gave no resolvable source line.
	LineNone LineRefKind = iota
	// LineSingle is a single source line.
	LineSingle
	// LineRange is an inclusive line range, as in box-overflow notices.
	LineRange
)

// LineRef locates a diagnostic in the source document, if the log allowed
// one to be recovered. The zero value is LineNone. LineRef is a comparable
// value type so it can key deduplication maps directly.
type LineRef struct {
	Kind  LineRefKind
	Start int
	End   int
}

// NoLine returns the empty line reference.
func NoLine() LineRef {
	return LineRef{}
}

// SingleLine returns a reference to one source line.
func SingleLine(n int) LineRef {
	return LineRef{Kind: LineSingle, Start: n}
}

// Lines returns an inclusive range reference.
func Lines(start, end int) LineRef {
	return LineRef{Kind: LineRange, Start: start, End: end}
}

// String renders the reference for human-readable output.
func (r LineRef) String() string {
	switch r.Kind {
	case LineSingle:
		return fmt.Sprintf("line %d", r.Start)
	case LineRange:
		return fmt.Sprintf("lines %d-%d", r.Start, r.End)
	default:
		return ""
	}
}

// Record is a single warning or error extracted from log text. Whether it is
// a warning or an error is carried by which Report sequence it lives in.
type Record struct {
	Message string
	Ref     LineRef
}

// recordJSON is the wire shape: a single line serializes under "line", a
// range under "lines" as a two-element ascending pair, and an absent
// reference omits both fields.
type recordJSON struct {
	Message string `json:"message"`
	Line    *int   `json:"line,omitempty"`
	Lines   []int  `json:"lines,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (rec Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{Message: rec.Message}
	switch rec.Ref.Kind {
	case LineSingle:
		n := rec.Ref.Start
		out.Line = &n
	case LineRange:
		out.Lines = []int{rec.Ref.Start, rec.Ref.End}
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler, accepting the same wire shape
// MarshalJSON produces.
func (rec *Record) UnmarshalJSON(data []byte) error {
	var in recordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	rec.Message = in.Message
	switch {
	case len(in.Lines) == 2:
		rec.Ref = Lines(in.Lines[0], in.Lines[1])
	case in.Line != nil:
		rec.Ref = SingleLine(*in.Line)
	default:
		rec.Ref = NoLine()
	}
	return nil
}
