// ABOUTME: Tests for report assembly, the end-to-end Parse pipeline, and JSON serialization.
// ABOUTME: Exercises the acceptance scenarios plus idempotence and success-verdict properties.

package texlog

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestAssembleEmpty(t *testing.T) {
	rep := Assemble(nil, nil, "")
	if rep.Summary != "0 warnings, 0 errors found" {
		t.Errorf("Summary = %q, want %q", rep.Summary, "0 warnings, 0 errors found")
	}
	if !rep.Success {
		t.Error("Success = false, want true")
	}
	if rep.Warnings == nil || rep.Errors == nil {
		t.Error("Assemble must return non-nil slices")
	}
}

func TestAssembleSuccessIgnoresWarningCount(t *testing.T) {
	warnings := []Record{{Message: "LaTeX Warning: X", Ref: SingleLine(1)}}
	rep := Assemble(warnings, nil, "")
	if !rep.Success {
		t.Error("warnings alone must not fail the document")
	}

	rep = Assemble(nil, []Record{{Message: "! boom"}}, "")
	if rep.Success {
		t.Error("any error must fail the document")
	}
	if rep.Summary != "0 warnings, 1 errors found" {
		t.Errorf("Summary = %q", rep.Summary)
	}
}

func TestParseScenarioA(t *testing.T) {
	rep := Parse("Overfull \\hbox (12.34pt too wide) in paragraph at lines 15--16\n", "")

	if len(rep.Warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(rep.Warnings))
	}
	want := Record{Message: "Overfull \\hbox (12.34pt too wide)", Ref: Lines(15, 16)}
	if !reflect.DeepEqual(rep.Warnings[0], want) {
		t.Errorf("warning = %v, want %v", rep.Warnings[0], want)
	}
	if len(rep.Errors) != 0 {
		t.Errorf("errors = %d, want 0", len(rep.Errors))
	}
	if !rep.Success {
		t.Error("Success = false, want true")
	}
}

func TestParseScenarioB(t *testing.T) {
	rep := Parse("! Undefined control sequence.\nl.20 \\foo\n", "")

	if len(rep.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(rep.Errors))
	}
	want := Record{Message: "! Undefined control sequence.", Ref: SingleLine(20)}
	if !reflect.DeepEqual(rep.Errors[0], want) {
		t.Errorf("error = %v, want %v", rep.Errors[0], want)
	}
	if rep.Success {
		t.Error("Success = true, want false")
	}
	if rep.Summary != "0 warnings, 1 errors found" {
		t.Errorf("Summary = %q", rep.Summary)
	}
}

func TestParseScenarioCEmptyLog(t *testing.T) {
	rep := Parse("", "")

	if len(rep.Warnings) != 0 || len(rep.Errors) != 0 {
		t.Errorf("warnings=%d errors=%d, want 0/0", len(rep.Warnings), len(rep.Errors))
	}
	if rep.Summary != "0 warnings, 0 errors found" {
		t.Errorf("Summary = %q", rep.Summary)
	}
	if !rep.Success {
		t.Error("Success = false, want true")
	}
}

func TestParseIdempotent(t *testing.T) {
	text := "Overfull \\hbox (1pt too wide) in paragraph at lines 2--3\n" +
		"LaTeX Warning: X on line 5\n" +
		"! Missing $ inserted.\nl.25 x_2\n"

	first, err := json.Marshal(Parse(text, "doc.log"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(Parse(text, "doc.log"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("reports differ:\n%s\n%s", first, second)
	}
}

func TestParseNoMarkersMeansSuccess(t *testing.T) {
	text := "LaTeX Warning: There were undefined references\n" +
		"Underfull \\hbox (badness 10000) in paragraph at lines 10--11\n"
	rep := Parse(text, "")
	if len(rep.Errors) != 0 {
		t.Errorf("errors = %d, want 0", len(rep.Errors))
	}
	if !rep.Success {
		t.Error("Success = false, want true")
	}
}

func TestReportJSONShape(t *testing.T) {
	rep := Assemble(
		[]Record{
			{Message: "Overfull \\hbox (1pt too wide)", Ref: Lines(2, 3)},
			{Message: "LaTeX Warning: X", Ref: SingleLine(5)},
			{Message: "LaTeX Warning: no line info"},
		},
		[]Record{{Message: "! Missing $ inserted.", Ref: SingleLine(25)}},
		"/tmp/doc.log",
	)

	data, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)

	for _, want := range []string{
		`"lines":[2,3]`,
		`"line":5`,
		`"line":25`,
		`"summary":"3 warnings, 1 errors found"`,
		`"success":false`,
		`"log_file":"/tmp/doc.log"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON missing %s:\n%s", want, s)
		}
	}
	if strings.Contains(s, `"no line info","line"`) || strings.Contains(s, `"no line info","lines"`) {
		t.Errorf("record without reference must omit line fields:\n%s", s)
	}
}

func TestReportJSONNullLogFile(t *testing.T) {
	data, err := json.Marshal(Assemble(nil, nil, ""))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"log_file":null`) {
		t.Errorf("captured-output report must serialize log_file as null:\n%s", data)
	}
}

func TestReportJSONRoundTrip(t *testing.T) {
	orig := Assemble(
		[]Record{{Message: "LaTeX Warning: X", Ref: SingleLine(5)}},
		[]Record{{Message: "! boom", Ref: Lines(1, 2)}},
		"doc.log",
	)

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Report
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(&back, orig) {
		t.Errorf("round trip mismatch:\n%+v\n%+v", back, orig)
	}
}
