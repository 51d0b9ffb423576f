// ABOUTME: Embedded HTML templates and markdown rendering for the report viewer.
// ABOUTME: Reports are composed as markdown then converted to HTML with goldmark.

package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/2389-research/galley/history"
	"github.com/2389-research/galley/texlog"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateEngine renders the viewer pages. Each page template is parsed
// together with the base layout once at construction.
type TemplateEngine struct {
	pages map[string]*template.Template
}

// NewTemplateEngine parses the embedded templates.
func NewTemplateEngine() (*TemplateEngine, error) {
	pages := map[string]*template.Template{}
	for _, name := range []string{"reports.html", "report.html"} {
		tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &TemplateEngine{pages: pages}, nil
}

// Render executes a page template into w-compatible bytes.
func (te *TemplateEngine) Render(page string, data any) ([]byte, error) {
	tmpl, ok := te.pages[page]
	if !ok {
		return nil, fmt.Errorf("unknown template %s", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return nil, fmt.Errorf("render %s: %w", page, err)
	}
	return buf.Bytes(), nil
}

// reportMarkdown composes a validation report as markdown.
func reportMarkdown(entry *history.Entry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**Document:** `%s`\n\n", entry.DocPath)
	fmt.Fprintf(&b, "**Recorded:** %s\n\n", entry.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "**Summary:** %s\n\n", entry.Summary)
	if entry.Report.LogFile != "" {
		fmt.Fprintf(&b, "**Log file:** `%s`\n\n", entry.Report.LogFile)
	} else {
		b.WriteString("**Log file:** captured engine output\n\n")
	}

	b.WriteString("## Warnings\n\n")
	writeRecordList(&b, entry.Report.Warnings)
	b.WriteString("\n## Errors\n\n")
	writeRecordList(&b, entry.Report.Errors)

	return b.String()
}

func writeRecordList(b *strings.Builder, records []texlog.Record) {
	if len(records) == 0 {
		b.WriteString("_none_\n")
		return
	}
	for _, rec := range records {
		if ref := rec.Ref.String(); ref != "" {
			fmt.Fprintf(b, "- `%s` (%s)\n", rec.Message, ref)
		} else {
			fmt.Fprintf(b, "- `%s`\n", rec.Message)
		}
	}
}

// markdownToHTML converts markdown to HTML using goldmark.
func markdownToHTML(src string) (template.HTML, error) {
	md := goldmark.New()
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
