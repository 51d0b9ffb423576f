// ABOUTME: Builds the MCP server, registering the TeX, filesystem, and Python tool handlers.
// ABOUTME: The same server serves the stdio transport and the streamable HTTP endpoint.

package toolsrv

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is stamped by the build; the MCP handshake reports it.
var Version = "dev"

// NewServer builds an MCP server exposing the toolbox.
func NewServer(tb *Toolbox) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "galley",
		Version: Version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_tex",
		Description: "Validate a LaTeX file and return all warnings and errors extracted from the engine log.",
	}, tb.ValidateTex)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile_tex_to_pdf",
		Description: "Compile a TeX file to PDF, running the engine twice to resolve cross-references.",
	}, tb.CompileToPDF)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_items",
		Description: "List files and directories at a path, optionally recursing.",
	}, tb.ListItems)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "read_file",
		Description: "Read a text file with line numbers. Supports an offset/limit line window.",
	}, tb.ReadFile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "read_file_chunk",
		Description: "Read a byte range of a file. Useful for large files that exceed the read_file budget.",
	}, tb.ReadFileChunk)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "write_file",
		Description: "Write content to a file, creating parent directories as needed.",
	}, tb.WriteFile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_directory",
		Description: "Create a directory and any missing parents.",
	}, tb.CreateDirectory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "move_item",
		Description: "Move or rename a file or directory. Fails if the destination exists.",
	}, tb.MoveItem)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "copy_item",
		Description: "Copy a file, or a directory tree when recursive is set.",
	}, tb.CopyItem)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_item_info",
		Description: "Get size, mode, and modification time for a file or directory.",
	}, tb.GetItemInfo)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_directory_size",
		Description: "Total the size and file count of a directory tree.",
	}, tb.GetDirectorySize)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_working_directory",
		Description: "Report the directory file tools resolve relative paths against.",
	}, tb.GetWorkingDirectory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_files",
		Description: "Find files by glob pattern. ** matches recursively.",
	}, tb.SearchFiles)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_file_content",
		Description: "Search file contents by regular expression, returning file:line:text matches.",
	}, tb.SearchFileContent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_python_imports",
		Description: "Extract all import statements from a Python file.",
	}, tb.GetPythonImports)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_function_names",
		Description: "Extract top-level function definitions from a Python file with line numbers.",
	}, tb.ExtractFunctionNames)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_python_with_ruff",
		Description: "Check a Python file with the ruff linter via uv, if available.",
	}, tb.CheckPythonWithRuff)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_python_file",
		Description: "Analyze a Python file: imports, functions, linting, line count, and package membership.",
	}, tb.AnalyzePythonFile)

	return server
}
