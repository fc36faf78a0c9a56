// Package renderer turns snapshots and ledgers into markdown.
package renderer

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/etnz/costbasis"
)

//go:embed templates/*.md
var templates embed.FS

var funcs = template.FuncMap{
	"day": day,
}

// SnapshotMarkdown renders the accounting snapshot of one asset.
func SnapshotMarkdown(s costbasis.Snapshot) string {
	return execute("snapshot.md", s, "snapshot_confidence.md", "snapshot_uncovered.md")
}

// execute renders the embedded template main, with the embedded templates it
// includes by file name. Template failures are rendered in place of the
// document: they are programming errors, not user errors.
func execute(main string, data any, includes ...string) string {
	patterns := []string{"templates/" + main}
	for _, inc := range includes {
		patterns = append(patterns, "templates/"+inc)
	}
	tmpl, err := template.New(main).Funcs(funcs).ParseFS(templates, patterns...)
	if err != nil {
		return fmt.Sprintf("cannot parse %s: %v", main, err)
	}
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, main, data); err != nil {
		return fmt.Sprintf("cannot render %s: %v", main, err)
	}
	return b.String()
}
