// ABOUTME: HTTP server exposing the validation-report viewer and the streamable MCP endpoint.
// ABOUTME: A chi router serves /reports pages from the history store and mounts /mcp when configured.

package web

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/galley/history"
)

// ServerConfig configures the web server.
type ServerConfig struct {
	// Store is the report history; nil disables the /reports pages.
	Store *history.Store
	// MCPServer, when set, is mounted at /mcp over the streamable HTTP
	// transport.
	MCPServer *mcp.Server
	// InstanceID identifies this server process in /healthz.
	InstanceID string
}

// Server is the galley HTTP server.
type Server struct {
	router     chi.Router
	store      *history.Store
	templates  *TemplateEngine
	instanceID string
}

// NewServer builds the router and parses templates.
func NewServer(cfg ServerConfig) (*Server, error) {
	templates, err := NewTemplateEngine()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:     chi.NewRouter(),
		store:      cfg.Store,
		templates:  templates,
		instanceID: cfg.InstanceID,
	}

	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Logger)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/reports", http.StatusFound)
	})
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/reports", s.handleReportList)
	s.router.Get("/reports/{id}", s.handleReportDetail)

	if cfg.MCPServer != nil {
		handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return cfg.MCPServer
		}, nil)
		s.router.Handle("/mcp", handler)
	}

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":   "ok",
		"instance": s.instanceID,
	})
}

func (s *Server) handleReportList(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "report history is not enabled (start with -data-dir)", http.StatusServiceUnavailable)
		return
	}

	entries, err := s.store.ListRecent(50)
	if err != nil {
		log.Printf("list reports: %v", err)
		http.Error(w, "failed to list reports", http.StatusInternalServerError)
		return
	}

	page, err := s.templates.Render("reports.html", map[string]any{"Entries": entries})
	if err != nil {
		log.Printf("render reports: %v", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleReportDetail(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "report history is not enabled (start with -data-dir)", http.StatusServiceUnavailable)
		return
	}

	id := chi.URLParam(r, "id")
	entry, err := s.store.Get(id)
	if err != nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	body, err := markdownToHTML(reportMarkdown(entry))
	if err != nil {
		log.Printf("render report %s: %v", id, err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}

	page, err := s.templates.Render("report.html", map[string]any{
		"ID":      entry.ID,
		"Success": entry.Success,
		"Body":    body,
	})
	if err != nil {
		log.Printf("render report page: %v", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}
