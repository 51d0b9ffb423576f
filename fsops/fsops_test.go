// ABOUTME: Tests for filesystem operations: listing, reading, writing, moving, copying, and stat.
// ABOUTME: All tests operate inside t.TempDir sandboxes.

package fsops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	f := New("/work")

	tests := []struct {
		in   string
		want string
	}{
		{"notes.txt", "/work/notes.txt"},
		{"sub/notes.txt", "/work/sub/notes.txt"},
		{"/abs/notes.txt", "/abs/notes.txt"},
		{"/abs/../notes.txt", "/notes.txt"},
	}
	for _, tt := range tests {
		if got := f.Resolve(tt.in); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	f := New("/work")
	if got := f.Resolve("~/doc.tex"); got != filepath.Join(home, "doc.tex") {
		t.Errorf("Resolve(~/doc.tex) = %q", got)
	}
}

func TestListFlat(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.txt"), "aaa")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	f := New(dir)
	entries, err := f.List(".", 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}

	byName := map[string]Entry{}
	for _, e := range entries {
		byName[e.Name] = e
	}
	if e := byName["a.txt"]; e.IsDir || e.Size != 3 {
		t.Errorf("a.txt entry = %+v", e)
	}
	if e := byName["sub"]; !e.IsDir {
		t.Errorf("sub entry = %+v", e)
	}
}

func TestListRecursive(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "sub", "deep", "x.txt"), "x")

	f := New(dir)
	entries, err := f.List(".", -1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	joined := strings.Join(names, ",")
	for _, want := range []string{"sub", filepath.Join("sub", "deep"), filepath.Join("sub", "deep", "x.txt")} {
		if !strings.Contains(joined, want) {
			t.Errorf("recursive listing missing %q: %v", want, names)
		}
	}
}

func TestReadLineNumbers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	mustWrite(t, path, "alpha\nbeta\ngamma\n")

	f := New(dir)
	got, err := f.Read("f.txt", 2, 1)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "   2\tbeta\n" {
		t.Errorf("Read = %q", got)
	}
}

func TestReadChunk(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "f.txt"), "hello world")

	f := New(dir)
	tests := []struct {
		start, size int
		want        string
	}{
		{0, 5, "hello"},
		{6, 0, "world"},
		{100, 5, ""},
	}
	for _, tt := range tests {
		got, err := f.ReadChunk("f.txt", tt.start, tt.size)
		if err != nil {
			t.Fatalf("ReadChunk(%d, %d): %v", tt.start, tt.size, err)
		}
		if got != tt.want {
			t.Errorf("ReadChunk(%d, %d) = %q, want %q", tt.start, tt.size, got, tt.want)
		}
	}
}

func TestWriteCreatesParents(t *testing.T) {
	dir := t.TempDir()
	f := New(dir)

	if err := f.Write("a/b/c.txt", "content"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "a", "b", "c.txt"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("content = %q", data)
	}
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "src.txt"), "x")

	f := New(dir)
	if err := f.Move("src.txt", "dst.txt"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "src.txt")); !os.IsNotExist(err) {
		t.Error("source still exists after move")
	}
	if _, err := os.Stat(filepath.Join(dir, "dst.txt")); err != nil {
		t.Errorf("destination missing: %v", err)
	}
}

func TestMoveRefusesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "src.txt"), "x")
	mustWrite(t, filepath.Join(dir, "dst.txt"), "y")

	f := New(dir)
	if err := f.Move("src.txt", "dst.txt"); err == nil {
		t.Error("expected error moving onto an existing destination")
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "src.txt"), "payload")

	f := New(dir)
	if err := f.Copy("src.txt", "cp.txt", false); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "cp.txt"))
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("copy content = %q", data)
	}
}

func TestCopyDirectory(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "tree", "sub", "x.txt"), "x")

	f := New(dir)
	if err := f.Copy("tree", "tree2", true); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "tree2", "sub", "x.txt")); err != nil {
		t.Errorf("copied tree missing file: %v", err)
	}

	if err := f.Copy("tree", "tree3", false); err == nil {
		t.Error("expected error copying directory without recursive")
	}
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "f.txt"), "12345")

	f := New(dir)
	info, err := f.Info("f.txt")
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Name != "f.txt" || info.IsDir || info.Size != 5 {
		t.Errorf("Info = %+v", info)
	}
	if info.Modified.IsZero() {
		t.Error("Modified is zero")
	}
}

func TestDirectorySize(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.txt"), "12345")
	mustWrite(t, filepath.Join(dir, "sub", "b.txt"), "123")

	f := New(dir)
	bytes, files, err := f.DirectorySize(".")
	if err != nil {
		t.Fatalf("DirectorySize: %v", err)
	}
	if bytes != 8 || files != 2 {
		t.Errorf("DirectorySize = %d bytes, %d files; want 8, 2", bytes, files)
	}

	if _, _, err := f.DirectorySize("a.txt"); err == nil {
		t.Error("expected error for non-directory")
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
