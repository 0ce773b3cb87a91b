package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/daylio2md/internal/config"
)

// Template is a loaded template file with its metadata.
type Template struct {
	// Metadata from the header comment
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Engine      string `yaml:"engine,omitempty"`

	// Template source (after the header)
	Content string `yaml:"-"`

	// Source location for display: "built-in", "global", "project" or "file"
	Source string `yaml:"-"`

	// Path on disk; empty for built-ins
	Path string `yaml:"-"`
}

// TemplateInfo provides template metadata for listing.
type TemplateInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Engine      string `json:"engine"`
	Source      string `json:"source"`              // "built-in", "global" or "project"
	Overrides   string `json:"overrides,omitempty"` // empty or the source it shadows
}

// Dir returns the directory pongo2 should resolve includes against.
func (t *Template) Dir() string {
	if t.Path == "" {
		return ""
	}
	return filepath.Dir(t.Path)
}

// EngineName returns the engine to compile with: override when set, else
// the template's declared engine, else DefaultEngine.
func (t *Template) EngineName(override string) string {
	switch {
	case strings.TrimSpace(override) != "":
		return override
	case t.Engine != "":
		return t.Engine
	default:
		return DefaultEngine
	}
}

// Compile compiles the template with the selected engine.
func (t *Template) Compile(engineOverride string) (Renderer, error) {
	engine, err := NewEngine(t.EngineName(engineOverride), t.Dir())
	if err != nil {
		return nil, err
	}
	return engine.Compile(t.Name, t.Content)
}

// LoadTemplate loads a template by path or name.
// Resolution order: existing file → project-local → user global → built-in
func LoadTemplate(ref string) (*Template, error) {
	if ref == "" {
		ref = "default"
	}

	// 1. Explicit file
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		tmpl, err := loadFile(ref)
		if err != nil {
			return nil, err
		}
		tmpl.Source = "file"
		return tmpl, nil
	}

	// 2. Project-local
	if tmpl, err := loadFromPath(projectTemplatesDir(), ref); err == nil {
		tmpl.Source = "project"
		return tmpl, nil
	}

	// 3. User global
	if tmpl, err := loadFromPath(globalTemplatesDir(), ref); err == nil {
		tmpl.Source = "global"
		return tmpl, nil
	}

	// 4. Built-in
	if tmpl, err := loadBuiltin(ref); err == nil {
		tmpl.Source = "built-in"
		return tmpl, nil
	}

	return nil, fmt.Errorf("template %q not found", ref)
}

// ListTemplates returns all available templates, project and global ones
// first, then built-ins not shadowed by them.
func ListTemplates() ([]TemplateInfo, error) {
	seen := make(map[string]int) // name -> index in templates
	var templates []TemplateInfo

	sources := []struct {
		name string
		dir  string
	}{
		{"project", projectTemplatesDir()},
		{"global", globalTemplatesDir()},
	}

	for _, src := range sources {
		infos, err := listFromPath(src.dir, src.name)
		if err != nil {
			continue // directory might not exist
		}
		for _, info := range infos {
			if i, exists := seen[info.Name]; exists {
				if templates[i].Overrides == "" {
					templates[i].Overrides = src.name
				}
				continue
			}
			seen[info.Name] = len(templates)
			templates = append(templates, info)
		}
	}

	for _, info := range listBuiltins() {
		if i, exists := seen[info.Name]; exists {
			if templates[i].Overrides == "" {
				templates[i].Overrides = info.Source
			}
			continue
		}
		templates = append(templates, info)
	}

	return templates, nil
}

// projectTemplatesDir returns the project-local templates directory.
func projectTemplatesDir() string {
	return filepath.Join(".daylio2md", "templates")
}

// globalTemplatesDir returns the user's global templates directory.
func globalTemplatesDir() string {
	dir := config.Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "templates")
}

// loadFromPath attempts to load <dir>/<name>.md.
func loadFromPath(dir, name string) (*Template, error) {
	if dir == "" {
		return nil, errors.New("no directory")
	}
	if strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid template name %q", name)
	}
	return loadFile(filepath.Join(dir, name+".md"))
}

func loadFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}
	tmpl, err := parseTemplate(string(data))
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	if tmpl.Name == "" {
		tmpl.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	tmpl.Path = path
	return tmpl, nil
}

// listFromPath lists templates in a directory.
func listFromPath(dir, source string) ([]TemplateInfo, error) {
	if dir == "" {
		return nil, errors.New("no directory")
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var templates []TemplateInfo
	for _, entry := range dirEntries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		tmpl, err := loadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}

		templates = append(templates, TemplateInfo{
			Name:        strings.TrimSuffix(entry.Name(), ".md"),
			Description: tmpl.Description,
			Engine:      tmpl.EngineName(""),
			Source:      source,
		})
	}

	return templates, nil
}

// parseTemplate splits an optional metadata header from the template body.
func parseTemplate(raw string) (*Template, error) {
	header, content := splitHeader(raw)

	var tmpl Template
	if header != "" {
		if err := yaml.Unmarshal([]byte(header), &tmpl); err != nil {
			return nil, fmt.Errorf("invalid header: %w", err)
		}
	}
	if tmpl.Engine != "" && !ValidEngine(tmpl.Engine) {
		return nil, fmt.Errorf("unknown engine %q in header", tmpl.Engine)
	}

	tmpl.Content = content
	return &tmpl, nil
}

// headerKeys are the fields a template header may set.
var headerKeys = map[string]bool{"name": true, "description": true, "engine": true}

// splitHeader separates a leading HTML comment holding YAML metadata from
// the template body. A comment is used rather than --- frontmatter because
// the rendered Markdown usually starts with frontmatter of its own. Any
// other leading comment is left in the body.
//
//	<!--
//	description: Obsidian daily note
//	engine: pongo2
//	-->
func splitHeader(raw string) (header, content string) {
	trimmed := strings.TrimLeft(raw, " \t\r\n")
	if !strings.HasPrefix(trimmed, "<!--") {
		return "", raw
	}

	before, after, ok := strings.Cut(trimmed[len("<!--"):], "-->")
	if !ok {
		return "", raw
	}

	header = strings.TrimSpace(before)
	if !isHeader(header) {
		return "", raw
	}
	return header, strings.TrimLeft(after, "\r\n")
}

// isHeader reports whether a comment body is a YAML mapping of header keys.
func isHeader(body string) bool {
	var fields map[string]any
	if err := yaml.Unmarshal([]byte(body), &fields); err != nil || len(fields) == 0 {
		return false
	}
	for key := range fields {
		if !headerKeys[key] {
			return false
		}
	}
	return true
}
