package httpserver

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
)

//go:embed index.html
var indexTemplate string

// renderIndexPage bakes the API base URL into the UI page once at startup.
// An empty base URL makes the page call the serving host itself.
func renderIndexPage(apiBaseURL string) ([]byte, error) {
	tmpl, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing index template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ APIBaseURL string }{APIBaseURL: apiBaseURL}); err != nil {
		return nil, fmt.Errorf("rendering index template: %w", err)
	}
	return buf.Bytes(), nil
}
