// ABOUTME: Error taxonomy for the TeX engine boundary: input, acquisition, and compilation failures.
// ABOUTME: These are subsystem failures, distinct from a document failing to typeset cleanly.

package tex

import "fmt"

// InputError reports a precondition violation on the document path: the
// file is missing or does not carry the expected extension. Detected before
// any external call, never retried.
type InputError struct {
	Path   string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Path, e.Reason)
}

// AcquisitionError reports that the engine invocation produced no usable
// log text at all: no log file and no captured output. EngineOutput carries
// the engine's raw error text for diagnosis.
type AcquisitionError struct {
	Path         string
	EngineOutput string
	Err          error
}

func (e *AcquisitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("acquire log for %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("acquire log for %s: engine produced no log and no output", e.Path)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// CompilationError reports that the expected PDF artifact was absent after
// both engine passes. Exit codes alone never decide compilation success.
type CompilationError struct {
	Path         string
	EngineOutput string
	Err          error
}

func (e *CompilationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compile %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("compile %s: PDF was not generated", e.Path)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}
