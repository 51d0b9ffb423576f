// ABOUTME: Tests for the engine Runner using stub engine scripts in place of pdflatex.
// ABOUTME: Covers input preconditions, log acquisition, stdout fallback, and compile artifact checks.

package tex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeStubEngine writes an executable shell script that stands in for the
// TeX engine and returns its path.
func writeStubEngine(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "stub-engine")
	script := "#!/bin/sh\n" + body
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub engine: %v", err)
	}
	return path
}

// writeDoc creates a minimal .tex document and returns its path.
func writeDoc(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("\\documentclass{article}\\begin{document}x\\end{document}\n"), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	return path
}

func TestValidateMissingFile(t *testing.T) {
	r := NewRunner()
	_, err := r.Validate(context.Background(), filepath.Join(t.TempDir(), "missing.tex"))

	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %v", err)
	}
}

func TestValidateWrongExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRunner()
	_, err := r.Validate(context.Background(), path)

	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %v", err)
	}
}

func TestValidateEngineMissing(t *testing.T) {
	doc := writeDoc(t, "doc.tex")
	r := NewRunner(WithBinary(filepath.Join(t.TempDir(), "no-such-engine")))

	_, err := r.Validate(context.Background(), doc)

	var acqErr *AcquisitionError
	if !errors.As(err, &acqErr) {
		t.Fatalf("expected AcquisitionError, got %v", err)
	}
}

func TestValidateReadsLogFile(t *testing.T) {
	doc := writeDoc(t, "doc.tex")

	logText := "LaTeX Warning: X on line 5\n! Undefined control sequence.\nl.20 \\foo\n"
	stub := writeStubEngine(t, fmt.Sprintf("printf '%%s' '%s' > \"$PWD/doc.log\"\nexit 1\n", logText))

	r := NewRunner(WithBinary(stub))
	rep, err := r.Validate(context.Background(), doc)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if len(rep.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(rep.Errors))
	}
	if rep.Errors[0].Message != "! Undefined control sequence." {
		t.Errorf("error message = %q", rep.Errors[0].Message)
	}
	if rep.Success {
		t.Error("Success = true, want false")
	}
	wantLog := filepath.Join(filepath.Dir(doc), "doc.log")
	if rep.LogFile != wantLog {
		t.Errorf("LogFile = %q, want %q", rep.LogFile, wantLog)
	}
}

func TestValidateNonzeroExitWithCleanLogSucceeds(t *testing.T) {
	// The engine exit code must not decide the verdict.
	doc := writeDoc(t, "doc.tex")
	stub := writeStubEngine(t, "printf 'This is pdfTeX\\n' > \"$PWD/doc.log\"\nexit 1\n")

	r := NewRunner(WithBinary(stub))
	rep, err := r.Validate(context.Background(), doc)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !rep.Success {
		t.Error("clean log with nonzero exit must still succeed")
	}
}

func TestValidateFallsBackToStdout(t *testing.T) {
	doc := writeDoc(t, "doc.tex")
	stub := writeStubEngine(t, "printf '! Emergency stop.\\n'\n")

	r := NewRunner(WithBinary(stub))
	rep, err := r.Validate(context.Background(), doc)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if rep.LogFile != "" {
		t.Errorf("LogFile = %q, want empty for captured output", rep.LogFile)
	}
	if len(rep.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(rep.Errors))
	}
	if rep.Errors[0].Message != "! Emergency stop." {
		t.Errorf("error message = %q", rep.Errors[0].Message)
	}
}

func TestValidateNoLogNoOutput(t *testing.T) {
	doc := writeDoc(t, "doc.tex")
	stub := writeStubEngine(t, "printf 'engine exploded\\n' >&2\nexit 2\n")

	r := NewRunner(WithBinary(stub))
	_, err := r.Validate(context.Background(), doc)

	var acqErr *AcquisitionError
	if !errors.As(err, &acqErr) {
		t.Fatalf("expected AcquisitionError, got %v", err)
	}
	if acqErr.EngineOutput == "" {
		t.Error("AcquisitionError must carry the engine's raw output")
	}
}

func TestCompileToPDFSuccess(t *testing.T) {
	doc := writeDoc(t, "doc.tex")
	counter := filepath.Join(filepath.Dir(doc), "passes")
	stub := writeStubEngine(t, "echo pass >> \"$PWD/passes\"\ntouch \"$PWD/doc.pdf\"\n")

	r := NewRunner(WithBinary(stub))
	pdfPath, err := r.CompileToPDF(context.Background(), doc)
	if err != nil {
		t.Fatalf("CompileToPDF: %v", err)
	}

	wantPDF := filepath.Join(filepath.Dir(doc), "doc.pdf")
	if pdfPath != wantPDF {
		t.Errorf("pdf path = %q, want %q", pdfPath, wantPDF)
	}

	data, err := os.ReadFile(counter)
	if err != nil {
		t.Fatalf("read pass counter: %v", err)
	}
	passes := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			passes++
		}
	}
	if passes != 2 {
		t.Errorf("engine passes = %d, want 2 (cross-reference resolution)", passes)
	}
}

func TestCompileToPDFNoArtifact(t *testing.T) {
	doc := writeDoc(t, "doc.tex")
	stub := writeStubEngine(t, "exit 0\n")

	r := NewRunner(WithBinary(stub))
	_, err := r.CompileToPDF(context.Background(), doc)

	var compErr *CompilationError
	if !errors.As(err, &compErr) {
		t.Fatalf("expected CompilationError, got %v", err)
	}
}

func TestCompileToPDFMissingDocument(t *testing.T) {
	r := NewRunner()
	_, err := r.CompileToPDF(context.Background(), filepath.Join(t.TempDir(), "missing.tex"))

	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %v", err)
	}
}
