// ABOUTME: Runs the ruff linter through uv against a Python file inside its project.
// ABOUTME: Missing projects or a missing uv binary produce structured non-success results, not errors.

package pysrc

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// LintResult reports a ruff run. Success means the lint command itself ran;
// whether the file has findings is HasIssues. When Success is false, Error
// explains why the run could not happen and the issue fields are
// meaningless.
type LintResult struct {
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	HasIssues   bool   `json:"has_issues"`
	IssuesCount int    `json:"issues_count"`
	Output      string `json:"formatted_output,omitempty"`
	RawErrors   string `json:"raw_errors,omitempty"`
	Command     string `json:"command_used,omitempty"`
	ExitCode    int    `json:"exit_code"`
}

// Lint checks a Python file with ruff via uv. The project root is found by
// walking up from the file looking for pyproject.toml or uv.lock; ruff runs
// from there so project configuration applies. fix asks ruff to apply
// automatic fixes.
func Lint(ctx context.Context, path string, fix bool) *LintResult {
	full, err := resolvePython(path)
	if err != nil {
		return &LintResult{Error: err.Error()}
	}

	projectDir, found := findProjectRoot(filepath.Dir(full))
	if !found {
		return &LintResult{
			Error: "no Python project found (missing pyproject.toml or uv.lock) in current or parent directories",
		}
	}

	uvPath, err := exec.LookPath("uv")
	if err != nil {
		return &LintResult{Error: "uv command not available", Command: "uv --version"}
	}

	args := []string{"run", "ruff", "check"}
	if fix {
		args = append(args, "--fix")
	}
	args = append(args, "--output-format", "json", full)

	cmd := exec.CommandContext(ctx, uvPath, args...)
	cmd.Dir = projectDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	exitCode := 0
	if runErr != nil {
		exitErr, ok := runErr.(*exec.ExitError)
		if !ok {
			return &LintResult{
				Error:   "error running ruff: " + runErr.Error(),
				Command: "uv " + strings.Join(args, " "),
			}
		}
		exitCode = exitErr.ExitCode()
	}

	result := &LintResult{
		Success:   true,
		Output:    stdout.String(),
		RawErrors: stderr.String(),
		Command:   "uv " + strings.Join(args, " "),
		ExitCode:  exitCode,
	}

	// ruff's JSON output is an array of findings; its length is the count.
	var issues []json.RawMessage
	if err := json.Unmarshal(stdout.Bytes(), &issues); err == nil {
		result.IssuesCount = len(issues)
		result.HasIssues = len(issues) > 0
	} else {
		result.HasIssues = exitCode != 0
	}
	return result
}

// findProjectRoot walks up from dir looking for pyproject.toml or uv.lock.
func findProjectRoot(dir string) (string, bool) {
	for {
		for _, marker := range []string{"pyproject.toml", "uv.lock"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
