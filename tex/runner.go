// ABOUTME: Runner invokes the TeX engine for validation and compilation runs.
// ABOUTME: Handles subprocess setup with process groups, timeouts, and lenient log acquisition.

package tex

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/2389-research/galley/texlog"
)

// DefaultBinary is the engine invoked when none is configured.
const DefaultBinary = "pdflatex"

// DefaultTimeout bounds a single engine pass. The engine's nonstopmode can
// still loop on pathological input, so unbounded runs are not acceptable in
// a tool server.
const DefaultTimeout = 2 * time.Minute

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithBinary sets the engine binary name or path.
func WithBinary(binary string) RunnerOption {
	return func(r *Runner) {
		r.binary = binary
	}
}

// WithTimeout sets the per-pass timeout. Zero disables the timeout.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = d
	}
}

// Runner wraps the typesetting engine. It holds no mutable state between
// calls; a single Runner may be used from multiple goroutines.
type Runner struct {
	binary  string
	timeout time.Duration
}

// NewRunner creates a Runner with the default engine and timeout.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		binary:  DefaultBinary,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// engineResult captures one engine pass.
type engineResult struct {
	stdout   string
	stderr   string
	exitCode int
	startErr error
}

// combinedOutput returns stdout and stderr joined for error reporting.
func (res *engineResult) combinedOutput() string {
	return strings.TrimSpace(res.stdout + "\n" + res.stderr)
}

// Validate runs the engine in draft mode against the document and extracts
// a diagnostic report from whatever log text the run produced. The engine's
// exit code plays no part in the verdict: a nonzero exit with a readable
// log is a normal failed-document case, reported through the parsed errors.
func (r *Runner) Validate(ctx context.Context, texPath string) (*texlog.Report, error) {
	doc, err := resolveDocument(texPath, true)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(doc)
	base := strings.TrimSuffix(filepath.Base(doc), filepath.Ext(doc))

	res := r.run(ctx, dir, "-interaction=nonstopmode", "-draftmode", filepath.Base(doc))
	if res.startErr != nil {
		return nil, &AcquisitionError{Path: texPath, EngineOutput: res.stderr, Err: res.startErr}
	}

	// Prefer the log file; fall back to captured stdout. The log is read
	// leniently: TeX logs are not guaranteed valid UTF-8.
	logPath := filepath.Join(dir, base+".log")
	if text, readErr := readLogLenient(logPath); readErr == nil {
		return texlog.Parse(text, logPath), nil
	}

	if res.stdout != "" {
		return texlog.Parse(res.stdout, ""), nil
	}

	return nil, &AcquisitionError{Path: texPath, EngineOutput: res.combinedOutput()}
}

// CompileToPDF runs the engine twice in full mode so cross-references
// resolve, then verifies the PDF artifact exists. Presence of the artifact,
// not the exit code, decides success.
func (r *Runner) CompileToPDF(ctx context.Context, texPath string) (string, error) {
	doc, err := resolveDocument(texPath, false)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(doc)
	base := strings.TrimSuffix(filepath.Base(doc), filepath.Ext(doc))
	args := []string{"-interaction=nonstopmode", "-output-directory=" + dir, doc}

	var last *engineResult
	for pass := 0; pass < 2; pass++ {
		res := r.run(ctx, dir, args...)
		if res.startErr != nil {
			return "", &CompilationError{Path: texPath, EngineOutput: res.stderr, Err: res.startErr}
		}
		last = res
	}

	pdfPath := filepath.Join(dir, base+".pdf")
	if _, statErr := os.Stat(pdfPath); statErr != nil {
		return "", &CompilationError{Path: texPath, EngineOutput: last.combinedOutput()}
	}
	return pdfPath, nil
}

// run executes one engine pass in dir. Start failures are reported in the
// result rather than as an error so callers can classify them.
func (r *Runner) run(ctx context.Context, dir string, args ...string) *engineResult {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = dir

	// Process group so a timeout kills the engine's children too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		pgid, err := syscall.Getpgid(cmd.Process.Pid)
		if err != nil {
			return cmd.Process.Kill()
		}
		return syscall.Kill(-pgid, syscall.SIGKILL)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return &engineResult{startErr: fmt.Errorf("start %s: %w", r.binary, err)}
	}

	exitCode := 0
	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}

	return &engineResult{
		stdout:   stdout.String(),
		stderr:   stderr.String(),
		exitCode: exitCode,
	}
}

// resolveDocument expands and absolutizes the path and checks the
// preconditions: the file must exist, and when checkExt is set it must
// carry the .tex extension.
func resolveDocument(texPath string, checkExt bool) (string, error) {
	path := expandUser(texPath)
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &InputError{Path: texPath, Reason: err.Error()}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", &InputError{Path: texPath, Reason: "file does not exist"}
	}
	if info.IsDir() {
		return "", &InputError{Path: texPath, Reason: "path is a directory"}
	}
	if checkExt && !strings.HasSuffix(abs, ".tex") {
		return "", &InputError{Path: texPath, Reason: "not a LaTeX file"}
	}
	return abs, nil
}

// expandUser replaces a leading ~ with the current user's home directory.
func expandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// readLogLenient reads a log file as text, replacing invalid byte
// sequences instead of failing. Engine logs routinely mix encodings.
func readLogLenient(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}
