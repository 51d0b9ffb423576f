// ABOUTME: Toolbox implements the tool handlers exposed over MCP: TeX, filesystem, and Python tools.
// ABOUTME: Handlers are plain typed methods so they can be tested without any transport.

package toolsrv

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/galley/fsops"
	"github.com/2389-research/galley/history"
	"github.com/2389-research/galley/pysrc"
	"github.com/2389-research/galley/tex"
	"github.com/2389-research/galley/texlog"
)

// Toolbox holds the collaborators behind the MCP tools. History is
// optional; when present every validation report is recorded best-effort.
type Toolbox struct {
	ID     string
	Runner *tex.Runner
	Files  *fsops.FS
	Hist   *history.Store
}

// NewToolbox creates a Toolbox with a fresh instance id.
func NewToolbox(runner *tex.Runner, files *fsops.FS, hist *history.Store) *Toolbox {
	return &Toolbox{
		ID:     uuid.NewString(),
		Runner: runner,
		Files:  files,
		Hist:   hist,
	}
}

// Diagnostic is the wire form of one warning or error record.
type Diagnostic struct {
	Message string `json:"message" jsonschema:"the diagnostic message text"`
	Line    int    `json:"line,omitempty" jsonschema:"source line the diagnostic applies to"`
	Lines   []int  `json:"lines,omitempty" jsonschema:"ascending [start, end] source line range"`
}

func toDiagnostic(rec texlog.Record) Diagnostic {
	d := Diagnostic{Message: rec.Message}
	switch rec.Ref.Kind {
	case texlog.LineSingle:
		d.Line = rec.Ref.Start
	case texlog.LineRange:
		d.Lines = []int{rec.Ref.Start, rec.Ref.End}
	}
	return d
}

func toDiagnostics(recs []texlog.Record) []Diagnostic {
	out := make([]Diagnostic, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDiagnostic(rec))
	}
	return out
}

// ValidateInput names the document to validate.
type ValidateInput struct {
	TexPath string `json:"tex_path" jsonschema:"path to the LaTeX file to validate"`
}

// ValidateOutput is the full diagnostic report for one validation run.
type ValidateOutput struct {
	Warnings []Diagnostic `json:"warnings"`
	Errors   []Diagnostic `json:"errors"`
	Summary  string       `json:"summary"`
	Success  bool         `json:"success" jsonschema:"true iff the document typeset without errors"`
	LogFile  *string      `json:"log_file" jsonschema:"path of the log file read, or null if engine output was captured"`
}

// ValidateTex runs the engine in draft mode and extracts all warnings and
// errors from the log.
func (tb *Toolbox) ValidateTex(ctx context.Context, req *mcp.CallToolRequest, in ValidateInput) (*mcp.CallToolResult, ValidateOutput, error) {
	rep, err := tb.Runner.Validate(ctx, in.TexPath)
	if err != nil {
		return nil, ValidateOutput{}, err
	}

	if tb.Hist != nil {
		if _, histErr := tb.Hist.Record(in.TexPath, rep); histErr != nil {
			fmt.Fprintf(os.Stderr, "history: record report: %v\n", histErr)
		}
	}

	out := ValidateOutput{
		Warnings: toDiagnostics(rep.Warnings),
		Errors:   toDiagnostics(rep.Errors),
		Summary:  rep.Summary,
		Success:  rep.Success,
	}
	if rep.LogFile != "" {
		logFile := rep.LogFile
		out.LogFile = &logFile
	}
	return nil, out, nil
}

// CompileInput names the document to compile.
type CompileInput struct {
	TexPath string `json:"tex_path" jsonschema:"path to the LaTeX file to compile"`
}

// CompileOutput carries the produced artifact path.
type CompileOutput struct {
	PDFPath string `json:"pdf_path" jsonschema:"path to the generated PDF"`
}

// CompileToPDF compiles the document to PDF, running the engine twice so
// cross-references resolve.
func (tb *Toolbox) CompileToPDF(ctx context.Context, req *mcp.CallToolRequest, in CompileInput) (*mcp.CallToolResult, CompileOutput, error) {
	pdfPath, err := tb.Runner.CompileToPDF(ctx, in.TexPath)
	if err != nil {
		return nil, CompileOutput{}, err
	}
	return nil, CompileOutput{PDFPath: pdfPath}, nil
}

// ListInput selects a directory and recursion depth.
type ListInput struct {
	Path  string `json:"path" jsonschema:"directory to list"`
	Depth int    `json:"depth,omitempty" jsonschema:"recursion depth, 0 for immediate children, -1 for unlimited"`
}

// ListOutput is a directory listing.
type ListOutput struct {
	Entries []fsops.Entry `json:"entries"`
}

// ListItems lists directory contents.
func (tb *Toolbox) ListItems(ctx context.Context, req *mcp.CallToolRequest, in ListInput) (*mcp.CallToolResult, ListOutput, error) {
	entries, err := tb.Files.List(in.Path, in.Depth)
	if err != nil {
		return nil, ListOutput{}, err
	}
	if entries == nil {
		entries = []fsops.Entry{}
	}
	return nil, ListOutput{Entries: entries}, nil
}

// ReadFileInput selects a file and an optional line window.
type ReadFileInput struct {
	Path   string `json:"path" jsonschema:"file to read"`
	Offset int    `json:"offset,omitempty" jsonschema:"1-based first line to read"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of lines, default 2000"`
}

// ReadFileOutput carries line-numbered file content.
type ReadFileOutput struct {
	Content string `json:"content"`
}

// ReadFile reads a file with line numbers, truncated to the tool budget.
func (tb *Toolbox) ReadFile(ctx context.Context, req *mcp.CallToolRequest, in ReadFileInput) (*mcp.CallToolResult, ReadFileOutput, error) {
	content, err := tb.Files.Read(in.Path, in.Offset, in.Limit)
	if err != nil {
		return nil, ReadFileOutput{}, err
	}
	return nil, ReadFileOutput{Content: truncateFor("read_file", content)}, nil
}

// WriteFileInput names a destination and its new content.
type WriteFileInput struct {
	Path    string `json:"path" jsonschema:"file to write"`
	Content string `json:"content" jsonschema:"full new file content"`
}

// OKOutput acknowledges a side-effecting operation.
type OKOutput struct {
	OK bool `json:"ok"`
}

// WriteFile writes content to a file, creating parent directories.
func (tb *Toolbox) WriteFile(ctx context.Context, req *mcp.CallToolRequest, in WriteFileInput) (*mcp.CallToolResult, OKOutput, error) {
	if err := tb.Files.Write(in.Path, in.Content); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

// PathInput names a single path.
type PathInput struct {
	Path string `json:"path" jsonschema:"target path"`
}

// CreateDirectory creates a directory and any missing parents.
func (tb *Toolbox) CreateDirectory(ctx context.Context, req *mcp.CallToolRequest, in PathInput) (*mcp.CallToolResult, OKOutput, error) {
	if err := tb.Files.CreateDirectory(in.Path); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

// TransferInput names a source and destination for move/copy.
type TransferInput struct {
	Source      string `json:"source" jsonschema:"source path"`
	Destination string `json:"destination" jsonschema:"destination path"`
	Recursive   bool   `json:"recursive,omitempty" jsonschema:"copy directories recursively"`
}

// MoveItem renames a file or directory.
func (tb *Toolbox) MoveItem(ctx context.Context, req *mcp.CallToolRequest, in TransferInput) (*mcp.CallToolResult, OKOutput, error) {
	if err := tb.Files.Move(in.Source, in.Destination); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

// CopyItem copies a file or directory tree.
func (tb *Toolbox) CopyItem(ctx context.Context, req *mcp.CallToolRequest, in TransferInput) (*mcp.CallToolResult, OKOutput, error) {
	if err := tb.Files.Copy(in.Source, in.Destination, in.Recursive); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

// InfoOutput describes one file or directory.
type InfoOutput struct {
	Info fsops.ItemInfo `json:"info"`
}

// GetItemInfo stats a path.
func (tb *Toolbox) GetItemInfo(ctx context.Context, req *mcp.CallToolRequest, in PathInput) (*mcp.CallToolResult, InfoOutput, error) {
	info, err := tb.Files.Info(in.Path)
	if err != nil {
		return nil, InfoOutput{}, err
	}
	return nil, InfoOutput{Info: *info}, nil
}

// ChunkInput selects a byte window of a file.
type ChunkInput struct {
	Path  string `json:"path" jsonschema:"file to read"`
	Start int    `json:"start,omitempty" jsonschema:"byte offset to start from"`
	Size  int    `json:"size,omitempty" jsonschema:"maximum bytes to return, default to end of file"`
}

// ReadFileChunk reads a byte range of a file.
func (tb *Toolbox) ReadFileChunk(ctx context.Context, req *mcp.CallToolRequest, in ChunkInput) (*mcp.CallToolResult, ReadFileOutput, error) {
	content, err := tb.Files.ReadChunk(in.Path, in.Start, in.Size)
	if err != nil {
		return nil, ReadFileOutput{}, err
	}
	return nil, ReadFileOutput{Content: truncateFor("read_file_chunk", content)}, nil
}

// DirSizeOutput totals a directory tree.
type DirSizeOutput struct {
	TotalBytes int64 `json:"total_bytes"`
	FileCount  int   `json:"file_count"`
}

// GetDirectorySize walks a directory tree and totals file sizes.
func (tb *Toolbox) GetDirectorySize(ctx context.Context, req *mcp.CallToolRequest, in PathInput) (*mcp.CallToolResult, DirSizeOutput, error) {
	total, count, err := tb.Files.DirectorySize(in.Path)
	if err != nil {
		return nil, DirSizeOutput{}, err
	}
	return nil, DirSizeOutput{TotalBytes: total, FileCount: count}, nil
}

// WorkDirOutput reports the tool root directory.
type WorkDirOutput struct {
	Path string `json:"path"`
}

// GetWorkingDirectory reports the directory file tools resolve relative
// paths against.
func (tb *Toolbox) GetWorkingDirectory(ctx context.Context, req *mcp.CallToolRequest, in struct{}) (*mcp.CallToolResult, WorkDirOutput, error) {
	return nil, WorkDirOutput{Path: tb.Files.WorkingDirectory()}, nil
}

// SearchFilesInput is a glob pattern and root.
type SearchFilesInput struct {
	Pattern string `json:"pattern" jsonschema:"glob pattern, ** matches recursively"`
	Path    string `json:"path,omitempty" jsonschema:"directory to search under, default working directory"`
}

// SearchFilesOutput lists matching paths.
type SearchFilesOutput struct {
	Matches []string `json:"matches"`
}

// SearchFiles finds files by glob pattern.
func (tb *Toolbox) SearchFiles(ctx context.Context, req *mcp.CallToolRequest, in SearchFilesInput) (*mcp.CallToolResult, SearchFilesOutput, error) {
	matches, err := tb.Files.Glob(in.Pattern, in.Path)
	if err != nil {
		return nil, SearchFilesOutput{}, err
	}
	if matches == nil {
		matches = []string{}
	}
	return nil, SearchFilesOutput{Matches: matches}, nil
}

// SearchContentInput is a regex search over file contents.
type SearchContentInput struct {
	Pattern         string `json:"pattern" jsonschema:"regular expression to search for"`
	Path            string `json:"path,omitempty" jsonschema:"directory to search under, default working directory"`
	CaseInsensitive bool   `json:"case_insensitive,omitempty"`
	MaxResults      int    `json:"max_results,omitempty"`
	GlobFilter      string `json:"glob,omitempty" jsonschema:"only search files whose name matches this glob"`
}

// SearchContentOutput carries file:line:text matches.
type SearchContentOutput struct {
	Results string `json:"results"`
}

// SearchFileContent searches file contents by regex.
func (tb *Toolbox) SearchFileContent(ctx context.Context, req *mcp.CallToolRequest, in SearchContentInput) (*mcp.CallToolResult, SearchContentOutput, error) {
	results, err := tb.Files.SearchContent(in.Pattern, in.Path, fsops.SearchOptions{
		CaseInsensitive: in.CaseInsensitive,
		MaxResults:      in.MaxResults,
		GlobFilter:      in.GlobFilter,
	})
	if err != nil {
		return nil, SearchContentOutput{}, err
	}
	return nil, SearchContentOutput{Results: truncateFor("search_file_content", results)}, nil
}

// PyFileInput names a Python source file.
type PyFileInput struct {
	FilePath string `json:"file_path" jsonschema:"path to the Python file"`
}

// ImportsOutput lists import statements.
type ImportsOutput struct {
	Imports []string `json:"imports"`
}

// GetPythonImports extracts import statements from a Python file.
func (tb *Toolbox) GetPythonImports(ctx context.Context, req *mcp.CallToolRequest, in PyFileInput) (*mcp.CallToolResult, ImportsOutput, error) {
	imports, err := pysrc.Imports(in.FilePath)
	if err != nil {
		return nil, ImportsOutput{}, err
	}
	if imports == nil {
		imports = []string{}
	}
	return nil, ImportsOutput{Imports: imports}, nil
}

// FunctionsOutput lists function definitions.
type FunctionsOutput struct {
	Functions []pysrc.Function `json:"functions"`
}

// ExtractFunctionNames lists top-level function definitions in a Python file.
func (tb *Toolbox) ExtractFunctionNames(ctx context.Context, req *mcp.CallToolRequest, in PyFileInput) (*mcp.CallToolResult, FunctionsOutput, error) {
	functions, err := pysrc.Functions(in.FilePath)
	if err != nil {
		return nil, FunctionsOutput{}, err
	}
	if functions == nil {
		functions = []pysrc.Function{}
	}
	return nil, FunctionsOutput{Functions: functions}, nil
}

// RuffInput selects a Python file and whether to auto-fix.
type RuffInput struct {
	FilePath string `json:"file_path" jsonschema:"path to the Python file"`
	Fix      bool   `json:"fix,omitempty" jsonschema:"apply automatic fixes"`
}

// CheckPythonWithRuff lints a Python file with ruff via uv.
func (tb *Toolbox) CheckPythonWithRuff(ctx context.Context, req *mcp.CallToolRequest, in RuffInput) (*mcp.CallToolResult, pysrc.LintResult, error) {
	return nil, *pysrc.Lint(ctx, in.FilePath, in.Fix), nil
}

// AnalyzePythonFile runs the combined Python file analysis.
func (tb *Toolbox) AnalyzePythonFile(ctx context.Context, req *mcp.CallToolRequest, in PyFileInput) (*mcp.CallToolResult, pysrc.Analysis, error) {
	analysis, err := pysrc.Analyze(ctx, in.FilePath)
	if err != nil {
		return nil, pysrc.Analysis{}, err
	}
	return nil, *analysis, nil
}
