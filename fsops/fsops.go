// ABOUTME: Filesystem operations backing the file tools: list, read, write, move, copy, info.
// ABOUTME: All paths are expanded and resolved against a configured working directory.

package fsops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is one directory listing entry. Name is relative to the listed
// directory, with subdirectory paths joined for recursive listings.
type Entry struct {
	Name  string `json:"name"`
	IsDir bool   `json:"is_dir"`
	Size  int64  `json:"size"`
}

// ItemInfo describes a single file or directory.
type ItemInfo struct {
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	IsDir    bool      `json:"is_dir"`
	Size     int64     `json:"size"`
	Mode     string    `json:"mode"`
	Modified time.Time `json:"modified"`
}

// FS performs filesystem operations rooted at a working directory. Relative
// paths resolve against it; absolute and ~-prefixed paths are honored as
// given.
type FS struct {
	workDir string
}

// New creates an FS rooted at workDir.
func New(workDir string) *FS {
	return &FS{workDir: workDir}
}

// WorkingDirectory returns the configured root.
func (f *FS) WorkingDirectory() string {
	return f.workDir
}

// Resolve expands a leading ~ and makes the path absolute against the
// working directory.
func (f *FS) Resolve(path string) string {
	path = ExpandUser(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(f.workDir, path)
}

// ExpandUser replaces a leading ~ with the current user's home directory.
func ExpandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// List returns entries in a directory. Depth 0 means immediate children
// only; -1 recurses without limit.
func (f *FS) List(path string, depth int) ([]Entry, error) {
	root := f.Resolve(path)
	if depth == 0 {
		return listFlat(root)
	}
	return listRecursive(root, depth, 0)
}

func listFlat(path string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("list directory %s: %w", path, err)
	}

	var result []Entry
	for _, de := range dirEntries {
		info, err := de.Info()
		if err != nil {
			continue
		}
		result = append(result, Entry{
			Name:  de.Name(),
			IsDir: de.IsDir(),
			Size:  info.Size(),
		})
	}
	return result, nil
}

func listRecursive(path string, maxDepth, currentDepth int) ([]Entry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("list directory %s: %w", path, err)
	}

	var result []Entry
	for _, de := range dirEntries {
		info, err := de.Info()
		if err != nil {
			continue
		}
		result = append(result, Entry{
			Name:  de.Name(),
			IsDir: de.IsDir(),
			Size:  info.Size(),
		})

		if de.IsDir() && (maxDepth == -1 || currentDepth < maxDepth) {
			sub, err := listRecursive(filepath.Join(path, de.Name()), maxDepth, currentDepth+1)
			if err != nil {
				continue
			}
			for _, se := range sub {
				se.Name = filepath.Join(de.Name(), se.Name)
				result = append(result, se)
			}
		}
	}
	return result, nil
}

// Read reads a file and prepends line numbers. Offset is 1-based; limit of
// 0 defaults to 2000. Invalid byte sequences are replaced, never fatal.
func (f *FS) Read(path string, offset, limit int) (string, error) {
	full := f.Resolve(path)
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read file %s: %w", path, err)
	}

	lines := strings.Split(strings.ToValidUTF8(string(data), "�"), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	if limit == 0 {
		limit = 2000
	}
	startIdx := 0
	if offset > 0 {
		startIdx = offset - 1
	}
	if startIdx > len(lines) {
		startIdx = len(lines)
	}
	endIdx := startIdx + limit
	if endIdx > len(lines) {
		endIdx = len(lines)
	}

	var buf strings.Builder
	for i := startIdx; i < endIdx; i++ {
		fmt.Fprintf(&buf, "%4d\t%s\n", i+1, lines[i])
	}
	return buf.String(), nil
}

// ReadChunk reads a byte window from a file. A size of 0 reads to the end.
func (f *FS) ReadChunk(path string, start, size int) (string, error) {
	full := f.Resolve(path)
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read file %s: %w", path, err)
	}

	if start < 0 {
		start = 0
	}
	if start > len(data) {
		start = len(data)
	}
	end := len(data)
	if size > 0 && start+size < end {
		end = start + size
	}
	return strings.ToValidUTF8(string(data[start:end]), "�"), nil
}

// Write writes content to a file, creating parent directories as needed.
func (f *FS) Write(path, content string) error {
	full := f.Resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create directories for %s: %w", path, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write file %s: %w", path, err)
	}
	return nil
}

// CreateDirectory creates a directory and any missing parents.
func (f *FS) CreateDirectory(path string) error {
	full := f.Resolve(path)
	if err := os.MkdirAll(full, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

// Move renames a file or directory. Fails if the destination exists.
func (f *FS) Move(source, destination string) error {
	src := f.Resolve(source)
	dst := f.Resolve(destination)

	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("move %s: destination %s already exists", source, destination)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("move %s to %s: %w", source, destination, err)
	}
	return nil
}

// Copy copies a file, or a directory tree when recursive is set.
func (f *FS) Copy(source, destination string, recursive bool) error {
	src := f.Resolve(source)
	dst := f.Resolve(destination)

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", source, err)
	}

	if info.IsDir() {
		if !recursive {
			return fmt.Errorf("copy %s: is a directory (recursive copy not requested)", source)
		}
		return copyDir(src, dst)
	}
	return copyFile(src, dst, info.Mode())
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create directories for %s: %w", dst, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

func copyDir(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", src, err)
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dst, err)
	}

	for _, de := range entries {
		srcPath := filepath.Join(src, de.Name())
		dstPath := filepath.Join(dst, de.Name())
		if de.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		if err := copyFile(srcPath, dstPath, info.Mode()); err != nil {
			return err
		}
	}
	return nil
}

// Info stats a file or directory.
func (f *FS) Info(path string) (*ItemInfo, error) {
	full := f.Resolve(path)
	info, err := os.Stat(full)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return &ItemInfo{
		Path:     full,
		Name:     info.Name(),
		IsDir:    info.IsDir(),
		Size:     info.Size(),
		Mode:     info.Mode().String(),
		Modified: info.ModTime(),
	}, nil
}

// DirectorySize walks a directory tree and returns total bytes and file
// count. Entries that cannot be read are skipped.
func (f *FS) DirectorySize(path string) (int64, int, error) {
	root := f.Resolve(path)
	info, err := os.Stat(root)
	if err != nil {
		return 0, 0, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return 0, 0, fmt.Errorf("directory size of %s: not a directory", path)
	}

	var total int64
	files := 0
	_ = filepath.WalkDir(root, func(fpath string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		total += fi.Size()
		files++
		return nil
	})
	return total, files, nil
}
