// ABOUTME: CLI entrypoint for the galley TeX tool server with stdio, HTTP, and one-shot modes.
// ABOUTME: Wires together the engine runner, filesystem tools, history store, web server, and TUI.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/galley/fsops"
	"github.com/2389-research/galley/history"
	"github.com/2389-research/galley/tex"
	"github.com/2389-research/galley/texlog"
	"github.com/2389-research/galley/toolsrv"
	"github.com/2389-research/galley/tui"
	"github.com/2389-research/galley/web"
)

var version = "dev"

const (
	defaultEngine  = tex.DefaultBinary
	defaultTimeout = tex.DefaultTimeout
)

// config holds all CLI configuration parsed from flags and positional
// arguments.
type config struct {
	httpAddr    string
	dataDir     string
	workDir     string
	engine      string
	timeout     time.Duration
	configFile  string
	configGiven bool
	jsonOutput  bool
	verbose     bool
	showVersion bool
	command     string
	docPath     string
}

func main() {
	loadDotEnv(".env")

	cfg := parseFlags(os.Args[1:])

	if cfg.showVersion {
		fmt.Printf("galley %s\n", version)
		os.Exit(0)
	}

	toolsrv.Version = version
	os.Exit(run(cfg))
}

// parseFlags parses command-line flags and positional arguments into a
// config.
func parseFlags(args []string) config {
	var cfg config
	var timeoutSec int

	fs := flag.NewFlagSet("galley", flag.ContinueOnError)
	fs.StringVar(&cfg.httpAddr, "http", "", "Serve MCP and the report viewer over HTTP at this address instead of stdio")
	fs.StringVar(&cfg.dataDir, "data-dir", "", "Directory for the validation history database")
	fs.StringVar(&cfg.workDir, "workdir", "", "Root directory for file tools (default: current directory)")
	fs.StringVar(&cfg.engine, "engine", defaultEngine, "TeX engine binary")
	fs.IntVar(&timeoutSec, "timeout", int(defaultTimeout/time.Second), "Per-pass engine timeout in seconds (0 disables)")
	fs.StringVar(&cfg.configFile, "config", "", "YAML config file (default: galley.yaml if present)")
	fs.BoolVar(&cfg.jsonOutput, "json", false, "Print reports as JSON in one-shot modes")
	fs.BoolVar(&cfg.verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg.timeout = time.Duration(timeoutSec) * time.Second
	cfg.configGiven = cfg.configFile != ""
	if cfg.configFile == "" {
		cfg.configFile = "galley.yaml"
	}

	if fs.NArg() > 0 {
		cfg.command = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		cfg.docPath = fs.Arg(1)
	}

	return cfg
}

// run dispatches to the appropriate mode. Returns an exit code.
func run(cfg config) int {
	fc, err := loadConfigFile(cfg.configFile, cfg.configGiven)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	mergeConfig(&cfg, fc)

	switch cfg.command {
	case "":
		if cfg.httpAddr != "" {
			return runHTTP(cfg)
		}
		return runStdio(cfg)
	case "validate":
		return runValidate(cfg)
	case "compile":
		return runCompile(cfg)
	case "tui":
		return runTUI(cfg)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n\n", cfg.command)
		printHelp(os.Stderr, version)
		return 2
	}
}

// buildToolbox assembles the runner, file tools, and optional history
// store. The returned cleanup closes the store.
func buildToolbox(cfg config) (*toolsrv.Toolbox, func(), error) {
	runner := tex.NewRunner(tex.WithBinary(cfg.engine), tex.WithTimeout(cfg.timeout))

	workDir := cfg.workDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve working directory: %w", err)
		}
		workDir = wd
	}

	var store *history.Store
	cleanup := func() {}
	if cfg.dataDir != "" {
		if err := os.MkdirAll(cfg.dataDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
		s, err := history.Open(filepath.Join(cfg.dataDir, "history.db"))
		if err != nil {
			return nil, nil, err
		}
		store = s
		cleanup = func() { _ = s.Close() }
	}

	return toolsrv.NewToolbox(runner, fsops.New(workDir), store), cleanup, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()
	return ctx, cancel
}

// runStdio serves MCP over stdin/stdout.
func runStdio(cfg config) int {
	tb, cleanup, err := buildToolbox(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer cleanup()

	ctx, cancel := signalContext()
	defer cancel()

	if cfg.verbose {
		fmt.Fprintf(os.Stderr, "galley %s instance %s serving MCP on stdio\n", version, tb.ID)
	}

	server := toolsrv.NewServer(tb)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runHTTP serves MCP and the report viewer over HTTP.
func runHTTP(cfg config) int {
	tb, cleanup, err := buildToolbox(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer cleanup()

	server, err := web.NewServer(web.ServerConfig{
		Store:      tb.Hist,
		MCPServer:  toolsrv.NewServer(tb),
		InstanceID: tb.ID,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	httpServer := &http.Server{
		Addr:    cfg.httpAddr,
		Handler: server.Handler(),
	}
	go func() {
		<-ctx.Done()
		httpServer.Close()
	}()

	fmt.Fprintf(os.Stderr, "listening on %s\n", cfg.httpAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runValidate validates one document and prints the report.
func runValidate(cfg config) int {
	if cfg.docPath == "" {
		fmt.Fprintln(os.Stderr, "error: validate requires a document path")
		return 2
	}

	runner := tex.NewRunner(tex.WithBinary(cfg.engine), tex.WithTimeout(cfg.timeout))

	ctx, cancel := signalContext()
	defer cancel()

	rep, err := runner.Validate(ctx, cfg.docPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if cfg.dataDir != "" {
		if err := os.MkdirAll(cfg.dataDir, 0o755); err == nil {
			if store, openErr := history.Open(filepath.Join(cfg.dataDir, "history.db")); openErr == nil {
				if _, recErr := store.Record(cfg.docPath, rep); recErr != nil && cfg.verbose {
					fmt.Fprintf(os.Stderr, "history: %v\n", recErr)
				}
				_ = store.Close()
			}
		}
	}

	if cfg.jsonOutput {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
	} else {
		fmt.Print(formatReport(rep))
	}

	if !rep.Success {
		return 1
	}
	return 0
}

// runCompile compiles one document to PDF and prints the artifact path.
func runCompile(cfg config) int {
	if cfg.docPath == "" {
		fmt.Fprintln(os.Stderr, "error: compile requires a document path")
		return 2
	}

	runner := tex.NewRunner(tex.WithBinary(cfg.engine), tex.WithTimeout(cfg.timeout))

	ctx, cancel := signalContext()
	defer cancel()

	pdfPath, err := runner.CompileToPDF(ctx, cfg.docPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Println(pdfPath)
	return 0
}

// runTUI opens the interactive diagnostics viewer.
func runTUI(cfg config) int {
	if cfg.docPath == "" {
		fmt.Fprintln(os.Stderr, "error: tui requires a document path")
		return 2
	}

	runner := tex.NewRunner(tex.WithBinary(cfg.engine), tex.WithTimeout(cfg.timeout))
	model := tui.NewAppModel(runner, cfg.docPath)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// formatReport renders a report for the terminal with severity colors.
func formatReport(rep *texlog.Report) string {
	var b []byte

	verdict := tui.PassStyle.Render("PASS")
	if !rep.Success {
		verdict = tui.FailStyle.Render("FAIL")
	}
	b = fmt.Appendf(b, "%s  %s\n", verdict, rep.Summary)
	if rep.LogFile != "" {
		b = fmt.Appendf(b, "log: %s\n", rep.LogFile)
	}

	for _, rec := range rep.Errors {
		b = appendRecord(b, tui.ErrorStyle.Render("error"), rec)
	}
	for _, rec := range rep.Warnings {
		b = appendRecord(b, tui.WarningStyle.Render("warning"), rec)
	}
	return string(b)
}

func appendRecord(b []byte, label string, rec texlog.Record) []byte {
	if ref := rec.Ref.String(); ref != "" {
		return fmt.Appendf(b, "%s  %s  %s\n", label, rec.Message, tui.LineRefStyle.Render(ref))
	}
	return fmt.Appendf(b, "%s  %s\n", label, rec.Message)
}

// printHelp writes usage information.
func printHelp(w io.Writer, version string) {
	fmt.Fprintf(w, `galley %s - TeX document tool server

Usage:
  galley [flags]                 serve MCP over stdio
  galley -http ADDR [flags]      serve MCP and the report viewer over HTTP
  galley validate DOC.tex        validate a document and print the report
  galley compile DOC.tex         compile a document to PDF
  galley tui DOC.tex             interactive diagnostics viewer

Flags:
  -http ADDR       HTTP listen address (e.g. 127.0.0.1:2389)
  -data-dir DIR    directory for the validation history database
  -workdir DIR     root directory for file tools
  -engine NAME     TeX engine binary (default %s)
  -timeout SEC     per-pass engine timeout in seconds, 0 disables
  -config FILE     YAML config file (default galley.yaml if present)
  -json            print reports as JSON in one-shot modes
  -verbose         verbose output
  -version         print version and exit
`, version, defaultEngine)
}
