package render

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExcerptLength is the rune limit of the excerpt exposed to templates.
const ExcerptLength = 140

var (
	excerptParser     goldmark.Markdown
	excerptParserOnce sync.Once
)

func getExcerptParser() goldmark.Markdown {
	excerptParserOnce.Do(func() {
		excerptParser = goldmark.New()
	})
	return excerptParser
}

// Excerpt returns the plain text of a Markdown note collapsed onto one
// line and cut at a word boundary to at most limit runes. A cut excerpt
// ends in an ellipsis.
func Excerpt(markdown string, limit int) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}

	source := []byte(markdown)
	doc := getExcerptParser().Parser().Parse(text.NewReader(source))

	var b strings.Builder
	space := func() {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), " ") {
			b.WriteByte(' ')
		}
	}

	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n := node.(type) {
		case *ast.Text:
			if entering {
				b.Write(n.Segment.Value(source))
				if n.SoftLineBreak() || n.HardLineBreak() {
					space()
				}
			}
		case *ast.String:
			if entering {
				b.Write(n.Value)
			}
		case *ast.AutoLink:
			if entering {
				b.Write(n.Label(source))
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		default:
			if !entering && node.Type() == ast.TypeBlock {
				space()
			}
		}
		return ast.WalkContinue, nil
	})

	return truncate(strings.Join(strings.Fields(b.String()), " "), limit)
}

// truncate cuts s to at most limit runes, backing up to the last space
// when one is available.
func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:limit-1])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
