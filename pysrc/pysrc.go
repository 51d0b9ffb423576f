// ABOUTME: Python source introspection: import extraction, function discovery, and file analysis.
// ABOUTME: Pure text scanning over .py files; no Python interpreter is involved.

package pysrc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	importRe   = regexp.MustCompile(`^(?:from\s+\S+\s+import\s+\S+|import\s+\S+)`)
	functionRe = regexp.MustCompile(`^def\s+([^\s(]+)\s*\(`)
)

// Function is a top-level function definition found in a Python file.
type Function struct {
	Name      string `json:"function_name"`
	Line      int    `json:"line_number"`
	Signature string `json:"signature"`
}

// Analysis is the combined result of analyzing one Python file.
type Analysis struct {
	Path      string      `json:"file_path"`
	Imports   []string    `json:"imports"`
	Functions []Function  `json:"functions"`
	Lint      *LintResult `json:"linting,omitempty"`
	LineCount int         `json:"lines_count"`
	IsPackage bool        `json:"is_package"`
}

// Imports extracts import statements from a Python file, in file order.
func Imports(path string) ([]string, error) {
	full, err := resolvePython(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		if m := importRe.FindString(line); m != "" {
			out = append(out, m)
		}
	}
	return out, nil
}

// Functions extracts top-level function definitions with 1-based line
// numbers and the raw signature line. Indented (method) definitions are
// not reported.
func Functions(path string) ([]Function, error) {
	full, err := resolvePython(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var out []Function
	for i, line := range strings.Split(string(data), "\n") {
		if m := functionRe.FindStringSubmatch(line); m != nil {
			out = append(out, Function{
				Name:      m[1],
				Line:      i + 1,
				Signature: strings.TrimSpace(line),
			})
		}
	}
	return out, nil
}

// Analyze combines imports, functions, linting, line count, and package
// membership for one file. Lint unavailability is reported inside the
// result, not as an error.
func Analyze(ctx context.Context, path string) (*Analysis, error) {
	full, err := resolvePython(path)
	if err != nil {
		return nil, err
	}

	imports, err := Imports(full)
	if err != nil {
		return nil, err
	}
	functions, err := Functions(full)
	if err != nil {
		return nil, err
	}

	lint := Lint(ctx, full, false)

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	lineCount := len(strings.Split(string(data), "\n"))
	if strings.HasSuffix(string(data), "\n") {
		lineCount--
	}

	isPackage := false
	if _, statErr := os.Stat(filepath.Join(filepath.Dir(full), "__init__.py")); statErr == nil {
		isPackage = true
	}

	return &Analysis{
		Path:      full,
		Imports:   imports,
		Functions: functions,
		Lint:      lint,
		LineCount: lineCount,
		IsPackage: isPackage,
	}, nil
}

// resolvePython expands and absolutizes the path and checks that it names
// an existing .py file.
func resolvePython(path string) (string, error) {
	p := path
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("file does not exist: %s", path)
	}
	if !strings.EqualFold(filepath.Ext(abs), ".py") {
		return "", fmt.Errorf("not a Python file: %s", path)
	}
	return abs, nil
}
