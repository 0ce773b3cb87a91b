package journal

import (
	"fmt"
	"slices"
	"sort"
)

// MediaLookup resolves an asset id to its member path in the archive.
type MediaLookup interface {
	Lookup(id int64) (string, bool)
}

// Normalizer resolves day entries against the definition tables of one
// payload. The id maps are built once in NewNormalizer.
type Normalizer struct {
	moods  map[int64]MoodDefinition
	tags   map[int64]TagDefinition
	assets map[int64]AssetDefinition
	media  MediaLookup
	days   []DayEntry
}

// NewNormalizer indexes the definition tables of a payload. Media may be
// nil, in which case every asset reference is dropped as missing its file.
// Returns *PayloadFormatError on duplicate ids within a table.
func NewNormalizer(backup *RawBackup, media MediaLookup) (*Normalizer, error) {
	n := &Normalizer{
		moods:  make(map[int64]MoodDefinition, len(backup.CustomMoods)),
		tags:   make(map[int64]TagDefinition, len(backup.Tags)),
		assets: make(map[int64]AssetDefinition, len(backup.Assets)),
		media:  media,
		days:   backup.DayEntries,
	}

	for _, mood := range backup.CustomMoods {
		if _, dup := n.moods[mood.ID]; dup {
			return nil, duplicateID("customMoods", mood.ID)
		}
		n.moods[mood.ID] = mood
	}
	for _, tag := range backup.Tags {
		if _, dup := n.tags[tag.ID]; dup {
			return nil, duplicateID("tags", tag.ID)
		}
		n.tags[tag.ID] = tag
	}
	for _, asset := range backup.Assets {
		if _, dup := n.assets[asset.ID]; dup {
			return nil, duplicateID("assets", asset.ID)
		}
		n.assets[asset.ID] = asset
	}

	seen := make(map[int64]bool, len(backup.DayEntries))
	for _, day := range backup.DayEntries {
		if seen[day.ID] {
			return nil, duplicateID("dayEntries", day.ID)
		}
		seen[day.ID] = true
	}

	return n, nil
}

func duplicateID(key string, id int64) error {
	return &PayloadFormatError{Key: key, Reason: fmt.Sprintf("duplicate id %d", id)}
}

// Normalize resolves one day entry. An unresolved mood is a
// *ResolutionError; unresolved tags and assets are dropped and recorded in
// Entry.Warnings.
func (n *Normalizer) Normalize(day DayEntry) (*Entry, error) {
	mood, ok := n.moods[day.Mood]
	if !ok {
		return nil, &ResolutionError{EntryID: day.ID, MoodID: day.Mood, Reason: "no such mood"}
	}
	moodName, err := mood.Name()
	if err != nil {
		return nil, &ResolutionError{EntryID: day.ID, MoodID: day.Mood, Reason: err.Error()}
	}

	entry := &Entry{
		ID:       day.ID,
		Time:     day.LocalTime(),
		Mood:     mood,
		MoodName: moodName,
		NoteHTML: day.Note,
		Note:     NoteMarkdown(day.Note),
		Title:    day.NoteTitle,
	}
	entry.Tags = n.resolveTags(day, entry)
	entry.Assets = n.resolveAssets(day, entry)

	return entry, nil
}

// resolveTags maps tag ids to definitions, dropping unknown ids.
func (n *Normalizer) resolveTags(day DayEntry, entry *Entry) []TagDefinition {
	tags := make([]TagDefinition, 0, len(day.Tags))
	for _, id := range day.Tags {
		tag, ok := n.tags[id]
		if !ok {
			entry.Warnings = append(entry.Warnings, MissingReference{EntryID: day.ID, Kind: RefTag, RefID: id})
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// resolveAssets maps asset ids to definitions and archive members,
// dropping ids that are undefined or have no media file.
func (n *Normalizer) resolveAssets(day DayEntry, entry *Entry) []Asset {
	assets := make([]Asset, 0, len(day.Assets))
	for _, id := range day.Assets {
		def, ok := n.assets[id]
		if !ok {
			entry.Warnings = append(entry.Warnings, MissingReference{EntryID: day.ID, Kind: RefAsset, RefID: id})
			continue
		}
		member, ok := n.lookupMedia(id)
		if !ok {
			entry.Warnings = append(entry.Warnings, MissingReference{
				EntryID: day.ID, Kind: RefAssetFile, RefID: id, Path: def.RelativePath(),
			})
			continue
		}
		assets = append(assets, Asset{AssetDefinition: def, ArchivePath: member})
	}
	return assets
}

func (n *Normalizer) lookupMedia(id int64) (string, bool) {
	if n.media == nil {
		return "", false
	}
	return n.media.Lookup(id)
}

// NormalizeAll resolves every day entry of the payload. Entries that fail
// are returned as errors alongside the successful ones; successful entries
// are ordered by local time, then id.
func (n *Normalizer) NormalizeAll() ([]*Entry, []error) {
	entries := make([]*Entry, 0, len(n.days))
	var failures []error

	for _, day := range n.days {
		entry, err := n.Normalize(day)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		entries = append(entries, entry)
	}

	SortEntries(entries)
	return entries, failures
}

// SortEntries orders entries by instant, then id.
func SortEntries(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Time.Equal(entries[j].Time) {
			return entries[i].Time.Before(entries[j].Time)
		}
		return entries[i].ID < entries[j].ID
	})
}

// Moods returns the mood definitions sorted by id.
func (n *Normalizer) Moods() []MoodDefinition {
	return sortedValues(n.moods, func(m MoodDefinition) int64 { return m.ID })
}

// Tags returns the tag definitions sorted by id.
func (n *Normalizer) Tags() []TagDefinition {
	return sortedValues(n.tags, func(t TagDefinition) int64 { return t.ID })
}

func sortedValues[T any](m map[int64]T, id func(T) int64) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b T) int {
		switch {
		case id(a) < id(b):
			return -1
		case id(a) > id(b):
			return 1
		default:
			return 0
		}
	})
	return out
}
