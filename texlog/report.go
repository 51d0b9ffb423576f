// ABOUTME: Assembles extracted warnings and errors into an immutable DiagnosticReport value.
// ABOUTME: Derives the summary line and the success verdict; Parse runs the whole pipeline.

package texlog

import (
	"encoding/json"
	"fmt"
)

// Report is the final structured result of parsing one log text. It is a
// plain value constructed once and never mutated; parsing the same text
// twice yields identical reports.
type Report struct {
	Warnings []Record
	Errors   []Record
	Summary  string
	Success  bool

	// LogFile is the path of the log file the text came from, or empty if
	// the text was captured engine output. Diagnostic only; it plays no
	// part in success or dedup logic.
	LogFile string
}

// Assemble builds a Report from already-extracted warnings and errors. It
// is total: any two sequences, including both empty, produce a valid
// report. Success depends only on the error count.
func Assemble(warnings, errors []Record, logFile string) *Report {
	if warnings == nil {
		warnings = []Record{}
	}
	if errors == nil {
		errors = []Record{}
	}
	return &Report{
		Warnings: warnings,
		Errors:   errors,
		Summary:  fmt.Sprintf("%d warnings, %d errors found", len(warnings), len(errors)),
		Success:  len(errors) == 0,
		LogFile:  logFile,
	}
}

// Parse extracts warnings and errors from raw log text and assembles the
// report. logFile records where the text came from ("" for captured
// output). Parsing never fails: unrecognized content yields an
// under-populated report, not an error.
func Parse(text, logFile string) *Report {
	return Assemble(ExtractWarnings(text), ExtractErrors(text), logFile)
}

type reportJSON struct {
	Warnings []Record `json:"warnings"`
	Errors   []Record `json:"errors"`
	Summary  string   `json:"summary"`
	Success  bool     `json:"success"`
	LogFile  *string  `json:"log_file"`
}

// MarshalJSON implements json.Marshaler. log_file is null when the report
// was built from captured output rather than a log file.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		Warnings: r.Warnings,
		Errors:   r.Errors,
		Summary:  r.Summary,
		Success:  r.Success,
	}
	if out.Warnings == nil {
		out.Warnings = []Record{}
	}
	if out.Errors == nil {
		out.Errors = []Record{}
	}
	if r.LogFile != "" {
		out.LogFile = &r.LogFile
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Report) UnmarshalJSON(data []byte) error {
	var in reportJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.Warnings = in.Warnings
	r.Errors = in.Errors
	r.Summary = in.Summary
	r.Success = in.Success
	if in.LogFile != nil {
		r.LogFile = *in.LogFile
	} else {
		r.LogFile = ""
	}
	return nil
}
