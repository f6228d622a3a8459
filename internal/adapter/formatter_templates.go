package adapter

import (
	"embed"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/*.tmpl
var formatterTemplateFS embed.FS

var (
	formatterTemplates *template.Template
	formatterOnce      sync.Once
	formatterErr       error
)

// favorite is rebound per execution; the parsed set only needs a placeholder.
func executeFormatterTemplate(name string, data any, favorite func(string) bool) (string, error) {
	formatterOnce.Do(func() {
		funcMap := template.FuncMap{
			"add":      func(a, b int) int { return a + b },
			"rating":   func(r float64) string { return strconv.FormatFloat(r, 'f', -1, 64) },
			"pad":      func(s string, width int) string { return fmt.Sprintf("%-*s", width, s) },
			"favorite": func(string) bool { return false },
		}
		tmpl := template.New("formatter").Funcs(funcMap)
		formatterTemplates, formatterErr = tmpl.ParseFS(formatterTemplateFS, "templates/*.tmpl")
	})

	if formatterErr != nil {
		return "", formatterErr
	}

	tmpl := formatterTemplates.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("template %q not found", name)
	}
	if favorite != nil {
		clone, err := tmpl.Clone()
		if err != nil {
			return "", err
		}
		tmpl = clone.Funcs(template.FuncMap{"favorite": favorite})
	}

	var builder strings.Builder
	if err := tmpl.Execute(&builder, data); err != nil {
		return "", err
	}

	return strings.TrimRight(builder.String(), "\n"), nil
}
