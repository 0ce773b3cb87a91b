package render

import (
	"strings"
	"text/template"
	"time"
)

// goEngine renders text/template templates.
type goEngine struct{}

func (goEngine) Name() string { return EngineGo }

func (goEngine) Compile(name, source string) (Renderer, error) {
	tpl, err := template.New(name).
		Option("missingkey=zero").
		Funcs(funcMap()).
		Parse(source)
	if err != nil {
		return nil, &Error{Template: name, Op: "compile", Err: err}
	}
	return &goTemplate{name: name, tpl: tpl}, nil
}

type goTemplate struct {
	name string
	tpl  *template.Template
}

func (t *goTemplate) Render(ctx Context) (string, error) {
	var b strings.Builder
	if err := t.tpl.Execute(&b, map[string]any(ctx)); err != nil {
		return "", &Error{Template: t.name, Op: "render", Err: err}
	}
	return finish(b.String()), nil
}

// funcMap mirrors the pongo2 filters so templates port between engines.
//
//	{{ .mood | yaml }}  {{ .tags | hashtags }}
//	{{ .tags | join ", " }}  {{ .timestamp | date "2006-01-02" }}
func funcMap() template.FuncMap {
	return template.FuncMap{
		"yaml":     YAML,
		"hashtags": Hashtags,
		"join": func(sep string, items any) string {
			return strings.Join(stringList(items), sep)
		},
		"date": func(layout string, t time.Time) string {
			return t.Format(layout)
		},
	}
}
