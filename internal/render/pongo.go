package render

import (
	"fmt"

	"github.com/flosch/pongo2/v6"
)

func init() {
	// Output is Markdown, not HTML.
	pongo2.SetAutoescape(false)

	registerFilter("yaml", func(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		out, err := YAML(in.Interface())
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:yaml", OrigError: err}
		}
		return pongo2.AsValue(out), nil
	})
	registerFilter("hashtags", func(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsValue(Hashtags(in.Interface())), nil
	})
}

func registerFilter(name string, fn pongo2.FilterFunction) {
	if pongo2.FilterExists(name) {
		return
	}
	if err := pongo2.RegisterFilter(name, fn); err != nil {
		panic(fmt.Sprintf("registering pongo2 filter %s: %v", name, err))
	}
}

// pongoEngine renders Jinja2-style templates. Block tags trim their
// trailing newline and leading indentation, matching the usual Jinja
// trim_blocks/lstrip_blocks setup.
type pongoEngine struct {
	set *pongo2.TemplateSet
}

func newPongoEngine(baseDir string) (*pongoEngine, error) {
	loader, err := pongo2.NewLocalFileSystemLoader(baseDir)
	if err != nil {
		return nil, fmt.Errorf("template directory %s: %w", baseDir, err)
	}
	set := pongo2.NewSet("daylio2md", loader)
	set.Options.TrimBlocks = true
	set.Options.LStripBlocks = true
	return &pongoEngine{set: set}, nil
}

func (e *pongoEngine) Name() string { return EnginePongo2 }

func (e *pongoEngine) Compile(name, source string) (Renderer, error) {
	tpl, err := e.set.FromString(source)
	if err != nil {
		return nil, &Error{Template: name, Op: "compile", Err: err}
	}
	return &pongoTemplate{name: name, tpl: tpl}, nil
}

type pongoTemplate struct {
	name string
	tpl  *pongo2.Template
}

func (t *pongoTemplate) Render(ctx Context) (string, error) {
	out, err := t.tpl.Execute(pongo2.Context(ctx))
	if err != nil {
		return "", &Error{Template: t.name, Op: "render", Err: err}
	}
	return finish(out), nil
}
