package journal

import (
	"strings"
	"time"
)

// Tag returns the tag name with spaces replaced by dashes.
func (t TagDefinition) Tag() string {
	return strings.ReplaceAll(strings.TrimSpace(t.Name), " ", "-")
}

// Hashtag returns Tag prefixed with '#'.
func (t TagDefinition) Hashtag() string {
	return "#" + t.Tag()
}

// Asset is an asset reference resolved to its definition and its member
// path inside the backup archive.
type Asset struct {
	AssetDefinition
	ArchivePath string
}

// Entry is a normalized day entry: every id resolved to a name or path.
// Entries are built once by a Normalizer and must be treated as read-only.
type Entry struct {
	ID       int64
	Time     time.Time
	Mood     MoodDefinition
	MoodName string
	Tags     []TagDefinition
	Assets   []Asset
	NoteHTML string
	Note     string
	Title    string
	Warnings []MissingReference
}

// Date returns the entry's local date as YYYY-MM-DD.
func (e *Entry) Date() string {
	return e.Time.Format(time.DateOnly)
}

// TagNames returns the tag names in entry order.
func (e *Entry) TagNames() []string {
	names := make([]string, 0, len(e.Tags))
	for _, tag := range e.Tags {
		names = append(names, tag.Name)
	}
	return names
}

// Hashtags returns the #tag form of each tag in entry order.
func (e *Entry) Hashtags() []string {
	tags := make([]string, 0, len(e.Tags))
	for _, tag := range e.Tags {
		tags = append(tags, tag.Hashtag())
	}
	return tags
}

// IsEmpty reports whether the entry has no note text, no title and no
// resolved assets.
func (e *Entry) IsEmpty() bool {
	return strings.TrimSpace(e.Note) == "" &&
		strings.TrimSpace(e.Title) == "" &&
		len(e.Assets) == 0
}
