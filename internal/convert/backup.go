package convert

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gorewood/daylio2md/internal/backup"
	"github.com/gorewood/daylio2md/internal/journal"
)

// Backup is an opened, decoded and normalized Daylio backup. Close
// releases the archive.
type Backup struct {
	Archive    *backup.Archive
	Raw        *journal.RawBackup
	Normalizer *journal.Normalizer

	// Entries are the successfully normalized entries, ordered by time.
	Entries []*journal.Entry
	// Failures are entries whose mood did not resolve.
	Failures []error
	// VersionWarning is set when an unsupported version was accepted
	// because ignoreVersion was true.
	VersionWarning string
}

// Load opens the archive at path, decodes its payload and normalizes every
// day entry. An unsupported version is an error unless ignoreVersion is set.
func Load(path string, ignoreVersion bool) (*Backup, error) {
	archive, err := backup.Open(path)
	if err != nil {
		return nil, err
	}

	b, err := load(archive, ignoreVersion)
	if err != nil {
		_ = archive.Close()
		return nil, err
	}
	return b, nil
}

func load(archive *backup.Archive, ignoreVersion bool) (*Backup, error) {
	payload, err := archive.Payload()
	if err != nil {
		return nil, err
	}

	raw, err := journal.Decode(payload)
	if err != nil {
		return nil, err
	}

	b := &Backup{Archive: archive, Raw: raw}
	if err := journal.CheckVersion(raw, false); err != nil {
		if !ignoreVersion {
			return nil, err
		}
		b.VersionWarning = err.Error()
	}

	b.Normalizer, err = journal.NewNormalizer(raw, archive.Media())
	if err != nil {
		return nil, err
	}
	b.Entries, b.Failures = b.Normalizer.NormalizeAll()
	return b, nil
}

// Close releases the archive.
func (b *Backup) Close() error {
	return b.Archive.Close()
}

// Warnings returns every dropped reference across all entries.
func (b *Backup) Warnings() []journal.MissingReference {
	var warnings []journal.MissingReference
	for _, entry := range b.Entries {
		warnings = append(warnings, entry.Warnings...)
	}
	return warnings
}

// Count is a name with the number of entries using it.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary describes a backup without converting it.
type Summary struct {
	Path           string  `json:"path"`
	Version        int     `json:"version"`
	Supported      bool    `json:"supported"`
	DayEntries     int     `json:"day_entries"`
	Normalized     int     `json:"normalized"`
	Failed         int     `json:"failed"`
	Empty          int     `json:"empty"`
	Warnings       int     `json:"warnings"`
	Assets         int     `json:"assets"`
	MediaFiles     int     `json:"media_files"`
	MediaBytes     uint64  `json:"media_bytes"`
	FirstDate      string  `json:"first_date,omitempty"`
	LastDate       string  `json:"last_date,omitempty"`
	Moods          []Count `json:"moods"`
	Tags           []Count `json:"tags"`
	VersionWarning string  `json:"version_warning,omitempty"`
}

// Summary counts entries, media and references in the backup.
func (b *Backup) Summary() Summary {
	s := Summary{
		Path:           b.Archive.Path(),
		Version:        b.Raw.Version,
		Supported:      b.Raw.Version == journal.SupportedVersion,
		DayEntries:     len(b.Raw.DayEntries),
		Normalized:     len(b.Entries),
		Failed:         len(b.Failures),
		Assets:         len(b.Raw.Assets),
		VersionWarning: b.VersionWarning,
	}

	media := b.Archive.Media()
	s.MediaFiles = len(media)
	for _, id := range media.IDs() {
		if size, ok := b.Archive.MediaSize(id); ok {
			s.MediaBytes += size
		}
	}

	moodUse := make(map[string]int)
	tagUse := make(map[string]int)
	for _, entry := range b.Entries {
		if entry.IsEmpty() {
			s.Empty++
		}
		s.Warnings += len(entry.Warnings)
		moodUse[entry.MoodName]++
		for _, tag := range entry.Tags {
			tagUse[tag.Name]++
		}
	}
	if n := len(b.Entries); n > 0 {
		s.FirstDate = b.Entries[0].Date()
		s.LastDate = b.Entries[n-1].Date()
	}

	for _, mood := range b.Normalizer.Moods() {
		name, err := mood.Name()
		if err != nil {
			name = fmt.Sprintf("mood %d (unnamed)", mood.ID)
		}
		s.Moods = append(s.Moods, Count{Name: name, Count: moodUse[name]})
	}
	for _, tag := range b.Normalizer.Tags() {
		s.Tags = append(s.Tags, Count{Name: tag.Name, Count: tagUse[tag.Name]})
	}
	sort.SliceStable(s.Tags, func(i, j int) bool { return s.Tags[i].Count > s.Tags[j].Count })

	return s
}

// EntryInfo is a one-line view of an entry for listings.
type EntryInfo struct {
	ID       int64    `json:"id"`
	Date     string   `json:"date"`
	Time     string   `json:"time"`
	Mood     string   `json:"mood"`
	Tags     []string `json:"tags"`
	Title    string   `json:"title,omitempty"`
	Assets   int      `json:"assets"`
	Empty    bool     `json:"empty"`
	Warnings int      `json:"warnings,omitempty"`
}

// Filter narrows ListEntries. Zero values match everything.
type Filter struct {
	Since time.Time // inclusive, compared by local date
	Until time.Time // inclusive, compared by local date
	Mood  string
	Tag   string
	Limit int // most recent N after filtering
}

// ErrBadFilter is returned for filters that can never match.
var ErrBadFilter = errors.New("since is after until")

// ListEntries returns entries matching f in time order.
func (b *Backup) ListEntries(f Filter) ([]EntryInfo, error) {
	if !f.Since.IsZero() && !f.Until.IsZero() && f.Since.After(f.Until) {
		return nil, ErrBadFilter
	}

	var infos []EntryInfo
	for _, entry := range b.Entries {
		if !f.matches(entry) {
			continue
		}
		infos = append(infos, EntryInfo{
			ID:       entry.ID,
			Date:     entry.Date(),
			Time:     entry.Time.Format("15:04"),
			Mood:     entry.MoodName,
			Tags:     entry.TagNames(),
			Title:    entry.Title,
			Assets:   len(entry.Assets),
			Empty:    entry.IsEmpty(),
			Warnings: len(entry.Warnings),
		})
	}

	if f.Limit > 0 && len(infos) > f.Limit {
		infos = infos[len(infos)-f.Limit:]
	}
	return infos, nil
}

func (f Filter) matches(entry *journal.Entry) bool {
	date := entry.Date()
	if !f.Since.IsZero() && date < f.Since.Format(time.DateOnly) {
		return false
	}
	if !f.Until.IsZero() && date > f.Until.Format(time.DateOnly) {
		return false
	}
	if f.Mood != "" && entry.MoodName != f.Mood {
		return false
	}
	if f.Tag != "" {
		found := false
		for _, tag := range entry.Tags {
			if tag.Name == f.Tag || tag.Tag() == f.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
