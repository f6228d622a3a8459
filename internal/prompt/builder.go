package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/*.yaml
var templateFS embed.FS

type TemplateName string

const (
	TemplateConciergeSystem TemplateName = "concierge_system.yaml"
)

// Builder holds every embedded prompt template, parsed up front.
type Builder struct {
	set *template.Template
}

var (
	defaultOnce    sync.Once
	defaultBuilder *Builder
	defaultErr     error
)

var funcs = template.FuncMap{
	"plural": func(n int, one, many string) string {
		if n == 1 {
			return one
		}
		return many
	},
}

func NewBuilder() (*Builder, error) {
	set, err := template.New("prompts").
		Option("missingkey=error").
		Funcs(funcs).
		ParseFS(templateFS, "templates/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("parse prompt templates: %w", err)
	}
	return &Builder{set: set}, nil
}

// Default returns a process-wide Builder. It is nil only if the embedded
// templates fail to parse.
func Default() *Builder {
	defaultOnce.Do(func() {
		defaultBuilder, defaultErr = NewBuilder()
	})
	return defaultBuilder
}

func (b *Builder) Render(name TemplateName, data any) (string, error) {
	if b == nil {
		return "", fmt.Errorf("render prompt %s: %w", name, defaultErr)
	}

	var sb strings.Builder
	if err := b.set.ExecuteTemplate(&sb, string(name), data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// Names lists the loaded templates.
func (b *Builder) Names() []TemplateName {
	var names []TemplateName
	for _, t := range b.set.Templates() {
		if strings.HasSuffix(t.Name(), ".yaml") {
			names = append(names, TemplateName(t.Name()))
		}
	}
	return names
}
