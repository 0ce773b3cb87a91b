package journal

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"golang.org/x/net/html"
)

// noteConverter turns note HTML into CommonMark with ~~strike~~ support.
var noteConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		strikethrough.NewStrikethroughPlugin(),
	),
)

var (
	// hardBreak matches the trailing spaces CommonMark uses for <br>.
	hardBreak = regexp.MustCompile(` +\n`)
	// blankRuns matches three or more consecutive newlines.
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// NoteMarkdown converts Daylio's rich-text note HTML into Markdown.
// Literal newlines in the note are kept as line breaks. Plain-text notes
// only have their entities unescaped. If the markup cannot be converted
// the note's text content is returned.
func NoteMarkdown(note string) string {
	note = strings.TrimSpace(note)
	if note == "" {
		return ""
	}
	if !strings.Contains(note, "<") {
		return html.UnescapeString(note)
	}

	doc, err := html.Parse(strings.NewReader(strings.ReplaceAll(note, "\n", "<br>")))
	if err != nil {
		return note
	}
	out, err := noteConverter.ConvertNode(doc)
	if err != nil {
		return strings.TrimSpace(textContent(doc))
	}

	md := hardBreak.ReplaceAllString(string(out), "\n")
	md = blankRuns.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md)
}

// textContent concatenates the text nodes under n.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
