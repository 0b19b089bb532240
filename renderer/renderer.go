// Package renderer projects the client state into Markdown documents.
//
// Every function is pure: the same input always renders the same text.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/pulse"
)

//go:embed templates/*.md
var templates embed.FS

// Options holds configuration for rendering numbers.
type Options struct {
	Style pulse.Style // Plain by default.
}

// funcs are the helpers available to every template.
var funcs = template.FuncMap{
	"severity": severityLabel,
	"clock":    func(e pulse.LogEntry) string { return e.Timestamp.Format("15:04:05") },
	"orNA": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return pulse.Missing
		}
		return s
	},
}

// renderTemplate renders the embedded template mainFile.
func renderTemplate(templateName, mainFile string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing template %q: %v", mainFile, err)
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
