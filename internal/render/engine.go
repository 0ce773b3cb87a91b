package render

import (
	"fmt"
	"slices"
	"strings"
)

// Engine names.
const (
	EnginePongo2 = "pongo2"
	EngineGo     = "go"
)

// DefaultEngine is used when neither the caller nor the template names one.
const DefaultEngine = EnginePongo2

// Engine compiles template source into a Renderer.
type Engine interface {
	Name() string
	Compile(name, source string) (Renderer, error)
}

// Renderer executes a compiled template against a context.
type Renderer interface {
	Render(ctx Context) (string, error)
}

// Error reports a failure to compile or execute a template.
type Error struct {
	Template string
	Op       string // "compile" or "render"
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s template %q: %v", e.Op, e.Template, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Engines returns the supported engine names.
func Engines() []string {
	return []string{EnginePongo2, EngineGo}
}

// NewEngine returns the named engine. baseDir is where pongo2 resolves
// {% include %} and {% extends %}; empty means the working directory.
func NewEngine(name, baseDir string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case EnginePongo2, "jinja", "jinja2":
		return newPongoEngine(baseDir)
	case EngineGo, "gotemplate", "text/template":
		return goEngine{}, nil
	default:
		return nil, fmt.Errorf("unknown template engine %q (supported: %s)",
			name, strings.Join(Engines(), ", "))
	}
}

// ValidEngine reports whether name selects a known engine.
func ValidEngine(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "jinja", "jinja2", "gotemplate", "text/template":
		return true
	}
	return slices.Contains(Engines(), strings.ToLower(strings.TrimSpace(name)))
}

// finish normalizes rendered output to end in exactly one newline.
func finish(out string) string {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}
