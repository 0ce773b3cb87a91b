package render

import (
	"time"

	"github.com/gorewood/daylio2md/internal/journal"
)

// Context is the data a template renders against.
type Context map[string]any

// AssetRef describes one copied media file as templates see it.
type AssetRef struct {
	ID          int64
	Type        string // "photo" or "audio"
	Name        string // file name in the media directory
	Path        string // path relative to the Markdown file
	ArchivePath string // member path inside the backup
	MIME        string // detected media type, e.g. "image/jpeg"
	Original    string // file name recorded by the device, if any
}

// TagRef is one tag as templates see it. It prints as the tag name and
// also exposes id, name, tag (spaces dashed) and hashtag.
type TagRef map[string]any

func newTagRef(t journal.TagDefinition) TagRef {
	return TagRef{
		"id":      t.ID,
		"name":    t.Name,
		"tag":     t.Tag(),
		"hashtag": t.Hashtag(),
	}
}

func (t TagRef) String() string {
	name, _ := t["name"].(string)
	return name
}

// MarshalYAML encodes the tag as its name so {{ tags|yaml }} stays a flat
// list.
func (t TagRef) MarshalYAML() (any, error) {
	return t.String(), nil
}

func (a AssetRef) fields() map[string]any {
	return map[string]any{
		"id":           a.ID,
		"type":         a.Type,
		"name":         a.Name,
		"path":         a.Path,
		"archive_path": a.ArchivePath,
		"mimetype":     a.MIME,
		"original":     a.Original,
	}
}

// NewContext builds the template context for one entry. Every field is
// available both under "entry" and at the top level, so
// {{ entry.mood }} and {{ mood }} render the same value.
func NewContext(entry *journal.Entry, assets []AssetRef) Context {
	refs := make([]map[string]any, 0, len(assets))
	for _, a := range assets {
		refs = append(refs, a.fields())
	}

	tags := make([]TagRef, 0, len(entry.Tags))
	for _, t := range entry.Tags {
		tags = append(tags, newTagRef(t))
	}

	fields := map[string]any{
		"id":        entry.ID,
		"timestamp": entry.Time,
		"iso":       entry.Time.Format(time.RFC3339),
		"date":      entry.Date(),
		"time":      entry.Time.Format("15:04"),
		"weekday":   entry.Time.Weekday().String(),
		"mood":      entry.MoodName,
		"mood_id":   entry.Mood.ID,
		"tags":      tags,
		"hashtags":  entry.Hashtags(),
		"title":     entry.Title,
		"note":      entry.Note,
		"note_text": entry.Note,
		"note_html": entry.NoteHTML,
		"excerpt":   Excerpt(entry.Note, ExcerptLength),
		"assets":    refs,
	}

	ctx := make(Context, len(fields)+1)
	for k, v := range fields {
		ctx[k] = v
	}
	ctx["entry"] = fields
	return ctx
}
