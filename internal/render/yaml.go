package render

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAML renders v as a single-line YAML value suitable for a frontmatter
// field: scalars are quoted only when needed, sequences and mappings use
// flow style, multi-line strings are double-quoted.
func YAML(v any) (string, error) {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return "", fmt.Errorf("yaml: %w", err)
	}
	inline(&node)

	out, err := yaml.Marshal(&node)
	if err != nil {
		return "", fmt.Errorf("yaml: %w", err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

func inline(node *yaml.Node) {
	switch node.Kind {
	case yaml.SequenceNode, yaml.MappingNode:
		node.Style = yaml.FlowStyle
	case yaml.ScalarNode:
		if strings.Contains(node.Value, "\n") {
			node.Style = yaml.DoubleQuotedStyle
		}
	}
	for _, child := range node.Content {
		inline(child)
	}
}

// Hashtags renders a list of tag names as space-separated #tags, with
// spaces inside a name replaced by dashes.
func Hashtags(v any) string {
	names := stringList(v)
	tags := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !strings.HasPrefix(name, "#") {
			name = "#" + strings.ReplaceAll(name, " ", "-")
		}
		tags = append(tags, name)
	}
	return strings.Join(tags, " ")
}

// stringList flattens the list shapes templates hand to filters into
// strings. Tags and other Stringers contribute their String form.
func stringList(v any) []string {
	var out []string
	switch t := v.(type) {
	case nil:
	case []string:
		out = t
	case []TagRef:
		for _, tag := range t {
			out = append(out, tag.String())
		}
	case []any:
		for _, item := range t {
			out = append(out, fmt.Sprint(item))
		}
	case string:
		out = []string{t}
	default:
		out = []string{fmt.Sprint(t)}
	}
	return out
}
