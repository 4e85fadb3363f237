package handlers

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"vectorvision/internal/contextutil"
)

//go:embed usage.md
var usageMarkdown []byte

var usageTemplate = template.Must(template.New("usage").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>VectorVision</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 900px;
      line-height: 1.6;
    }
    table { border-collapse: collapse; }
    th, td { border: 1px solid #ccc; padding: 0.3rem 0.8rem; text-align: left; }
    code { background: #f3f3f3; padding: 0.1rem 0.3rem; border-radius: 3px; }
  </style>
</head>
<body>
{{.}}
</body>
</html>`))

// UsageHandler serves the API overview page rendered from markdown.
type UsageHandler struct {
	page []byte
}

// NewUsageHandler renders the embedded usage page once.
func NewUsageHandler() (*UsageHandler, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	var body bytes.Buffer
	if err := md.Convert(usageMarkdown, &body); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	var page bytes.Buffer
	if err := usageTemplate.Execute(&page, template.HTML(body.String())); err != nil {
		return nil, fmt.Errorf("execute usage template: %w", err)
	}
	return &UsageHandler{page: page.Bytes()}, nil
}

// ServeHTTP writes the rendered page.
func (h *UsageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.page); err != nil {
		contextutil.LoggerFromContext(r.Context()).WarnContext(r.Context(), "failed to write usage page", "error", err)
	}
}
