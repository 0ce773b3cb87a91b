// Package render turns normalized journal entries into Markdown through a
// pluggable template engine.
//
// Two engines are available: "pongo2" (Jinja2 syntax, the default) and
// "go" (text/template). Templates are resolved in order:
//  1. an existing file path
//  2. .daylio2md/templates/<name>.md (project-local)
//  3. <config dir>/templates/<name>.md (user global)
//  4. Built-in templates (embedded in binary)
package render
