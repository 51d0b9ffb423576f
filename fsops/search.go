// ABOUTME: Content search and glob matching over the workspace tree.
// ABOUTME: Prefers ripgrep when installed and falls back to a pure-Go regex walk.

package fsops

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// SearchOptions tune content searches.
type SearchOptions struct {
	CaseInsensitive bool
	MaxResults      int
	GlobFilter      string
}

// SearchContent searches file contents by regex pattern under path,
// returning "file:line:text" matches one per line.
func (f *FS) SearchContent(pattern, path string, opts SearchOptions) (string, error) {
	root := f.Resolve(path)
	if path == "" {
		root = f.workDir
	}

	if rgPath, err := exec.LookPath("rg"); err == nil {
		return searchWithRipgrep(rgPath, pattern, root, opts)
	}
	return searchWithRegex(pattern, root, opts)
}

func searchWithRipgrep(rgPath, pattern, path string, opts SearchOptions) (string, error) {
	args := []string{pattern}
	if opts.CaseInsensitive {
		args = append(args, "-i")
	}
	if opts.MaxResults > 0 {
		args = append(args, fmt.Sprintf("--max-count=%d", opts.MaxResults))
	}
	if opts.GlobFilter != "" {
		args = append(args, "--glob", opts.GlobFilter)
	}
	args = append(args, "-n", path)

	cmd := exec.Command(rgPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// ripgrep exits 1 when nothing matched
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", fmt.Errorf("ripgrep: %s", stderr.String())
	}
	return stdout.String(), nil
}

func searchWithRegex(pattern, path string, opts SearchOptions) (string, error) {
	flags := ""
	if opts.CaseInsensitive {
		flags = "(?i)"
	}
	re, err := regexp.Compile(flags + pattern)
	if err != nil {
		return "", fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 100
	}

	var buf strings.Builder
	matchCount := 0
	walkErr := filepath.WalkDir(path, func(fpath string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if opts.GlobFilter != "" {
			matched, matchErr := filepath.Match(opts.GlobFilter, d.Name())
			if matchErr != nil || !matched {
				return nil
			}
		}

		file, openErr := os.Open(fpath)
		if openErr != nil {
			return nil
		}
		defer file.Close()

		scanner := bufio.NewScanner(file)
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			if re.MatchString(scanner.Text()) {
				fmt.Fprintf(&buf, "%s:%d:%s\n", fpath, lineNum, scanner.Text())
				matchCount++
				if matchCount >= maxResults {
					return filepath.SkipAll
				}
			}
		}
		return nil
	})
	if walkErr != nil {
		return "", fmt.Errorf("search walk: %w", walkErr)
	}
	return buf.String(), nil
}

// Glob finds files matching a glob pattern relative to path. Patterns
// containing ** match recursively.
func (f *FS) Glob(pattern, path string) ([]string, error) {
	root := f.Resolve(path)
	if path == "" {
		root = f.workDir
	}

	if strings.Contains(pattern, "**") {
		return globRecursive(pattern, root)
	}

	matches, err := filepath.Glob(filepath.Join(root, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob pattern %q: %w", pattern, err)
	}
	return matches, nil
}

func globRecursive(pattern, basePath string) ([]string, error) {
	parts := strings.SplitN(pattern, "**", 2)
	prefix := strings.TrimRight(parts[0], string(filepath.Separator))
	suffix := ""
	if len(parts) > 1 {
		suffix = strings.TrimLeft(parts[1], string(filepath.Separator))
	}

	startDir := basePath
	if prefix != "" {
		startDir = filepath.Join(basePath, prefix)
	}

	var matches []string
	walkErr := filepath.WalkDir(startDir, func(fpath string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if suffix == "" {
			matches = append(matches, fpath)
			return nil
		}
		if matchTrailing(suffix, fpath) {
			matches = append(matches, fpath)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("recursive glob: %w", walkErr)
	}
	return matches, nil
}

// matchTrailing reports whether the final path components of fpath match
// the glob suffix. The suffix's own component count decides how many
// trailing components take part, so "*.tex" matches any basename and
// "sub/*.tex" requires the parent directory too.
func matchTrailing(suffix, fpath string) bool {
	sep := string(filepath.Separator)
	n := strings.Count(suffix, sep) + 1
	comps := strings.Split(fpath, sep)
	if len(comps) < n {
		return false
	}
	tail := strings.Join(comps[len(comps)-n:], sep)
	matched, err := filepath.Match(suffix, tail)
	return err == nil && matched
}
