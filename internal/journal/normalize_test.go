package journal

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

// mediaMap is a MediaLookup backed by a plain map.
type mediaMap map[int64]string

func (m mediaMap) Lookup(id int64) (string, bool) {
	path, ok := m[id]
	return path, ok
}

func sampleBackup() *RawBackup {
	return &RawBackup{
		Version: SupportedVersion,
		CustomMoods: []MoodDefinition{
			{ID: 1, PredefinedNameID: ptr(1)},
			{ID: 7, CustomName: "meh+", PredefinedNameID: ptr(-1)},
		},
		Tags: []TagDefinition{
			{ID: 1, Name: "work"},
			{ID: 2, Name: "long walk"},
		},
		Assets: []AssetDefinition{
			{ID: 12, Type: AssetPhoto, CreatedAt: 1700408759432, CreatedAtOffset: -18000000},
			{ID: 13, Type: AssetAudio, CreatedAt: 1700408759432, CreatedAtOffset: -18000000},
		},
		DayEntries: []DayEntry{
			{
				ID: 3, Datetime: 1700408759432, TimeZoneOffset: -18000000, Mood: 1,
				Tags: []int64{1, 2, 99}, Assets: []int64{12, 13, 404},
				Note: "Went <b>outside</b>.", NoteTitle: "Saturday",
			},
			{ID: 4, Datetime: 1700322359432, TimeZoneOffset: 0, Mood: 7},
			{ID: 5, Datetime: 1700408759432, TimeZoneOffset: 0, Mood: 42},
		},
	}
}

func TestNormalize_ResolvesReferences(t *testing.T) {
	media := mediaMap{12: "assets/photos/2023/11/12"}
	n, err := NewNormalizer(sampleBackup(), media)
	if err != nil {
		t.Fatalf("NewNormalizer() error = %v", err)
	}

	entry, err := n.Normalize(sampleBackup().DayEntries[0])
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if entry.MoodName != "rad" {
		t.Errorf("MoodName = %q, want rad", entry.MoodName)
	}
	if got := entry.TagNames(); !reflect.DeepEqual(got, []string{"work", "long walk"}) {
		t.Errorf("TagNames() = %v, want [work long walk]", got)
	}
	if got := entry.Hashtags(); !reflect.DeepEqual(got, []string{"#work", "#long-walk"}) {
		t.Errorf("Hashtags() = %v", got)
	}
	if len(entry.Assets) != 1 || entry.Assets[0].ID != 12 || entry.Assets[0].ArchivePath != "assets/photos/2023/11/12" {
		t.Errorf("Assets = %+v, want only asset 12 at its archive path", entry.Assets)
	}
	if entry.Note != "Went **outside**." || entry.NoteHTML != "Went <b>outside</b>." {
		t.Errorf("Note = %q, NoteHTML = %q", entry.Note, entry.NoteHTML)
	}
	if entry.Title != "Saturday" {
		t.Errorf("Title = %q", entry.Title)
	}
	if entry.Date() != "2023-11-19" || entry.Time.Hour() != 10 || entry.Time.Minute() != 45 {
		t.Errorf("Time = %s, want 2023-11-19 10:45 local", entry.Time)
	}

	wantWarnings := []MissingReference{
		{EntryID: 3, Kind: RefTag, RefID: 99},
		{EntryID: 3, Kind: RefAssetFile, RefID: 13, Path: "assets/audio/2023/11/13"},
		{EntryID: 3, Kind: RefAsset, RefID: 404},
	}
	if !reflect.DeepEqual(entry.Warnings, wantWarnings) {
		t.Errorf("Warnings = %+v, want %+v", entry.Warnings, wantWarnings)
	}
}

func TestNormalize_MissingMoodAbortsEntry(t *testing.T) {
	n, err := NewNormalizer(sampleBackup(), nil)
	if err != nil {
		t.Fatalf("NewNormalizer() error = %v", err)
	}

	_, err = n.Normalize(DayEntry{ID: 5, Mood: 42})
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Normalize() error = %v, want *ResolutionError", err)
	}
	if resErr.EntryID != 5 || resErr.MoodID != 42 {
		t.Errorf("ResolutionError = %+v", resErr)
	}
}

func TestNormalize_NilMediaDropsAssets(t *testing.T) {
	n, err := NewNormalizer(sampleBackup(), nil)
	if err != nil {
		t.Fatal(err)
	}
	entry, err := n.Normalize(DayEntry{ID: 8, Mood: 1, Assets: []int64{12}})
	if err != nil {
		t.Fatal(err)
	}
	if len(entry.Assets) != 0 {
		t.Errorf("Assets = %+v, want none", entry.Assets)
	}
	if len(entry.Warnings) != 1 || entry.Warnings[0].Kind != RefAssetFile {
		t.Errorf("Warnings = %+v", entry.Warnings)
	}
}

func TestNormalizeAll(t *testing.T) {
	n, err := NewNormalizer(sampleBackup(), mediaMap{12: "assets/photos/2023/11/12"})
	if err != nil {
		t.Fatal(err)
	}

	entries, failures := n.NormalizeAll()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if len(failures) != 1 {
		t.Fatalf("len(failures) = %d, want 1", len(failures))
	}

	// Entry 4 is a day earlier than entry 3.
	if entries[0].ID != 4 || entries[1].ID != 3 {
		t.Errorf("order = [%d %d], want [4 3]", entries[0].ID, entries[1].ID)
	}
	if entries[0].MoodName != "meh+" {
		t.Errorf("custom mood name = %q, want meh+", entries[0].MoodName)
	}
	if !entries[0].IsEmpty() {
		t.Error("entry 4 should be empty")
	}
	if entries[1].IsEmpty() {
		t.Error("entry 3 should not be empty")
	}
}

func TestNewNormalizer_DuplicateIDs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RawBackup)
		wantKey string
	}{
		{
			name:    "moods",
			mutate:  func(b *RawBackup) { b.CustomMoods = append(b.CustomMoods, MoodDefinition{ID: 1}) },
			wantKey: "customMoods",
		},
		{
			name:    "tags",
			mutate:  func(b *RawBackup) { b.Tags = append(b.Tags, TagDefinition{ID: 2, Name: "again"}) },
			wantKey: "tags",
		},
		{
			name:    "assets",
			mutate:  func(b *RawBackup) { b.Assets = append(b.Assets, AssetDefinition{ID: 12, Type: AssetPhoto}) },
			wantKey: "assets",
		},
		{
			name:    "day entries",
			mutate:  func(b *RawBackup) { b.DayEntries = append(b.DayEntries, DayEntry{ID: 3, Mood: 1}) },
			wantKey: "dayEntries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backup := sampleBackup()
			tt.mutate(backup)

			_, err := NewNormalizer(backup, nil)
			var payloadErr *PayloadFormatError
			if !errors.As(err, &payloadErr) {
				t.Fatalf("NewNormalizer() error = %v, want *PayloadFormatError", err)
			}
			if payloadErr.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", payloadErr.Key, tt.wantKey)
			}
		})
	}
}

func TestEntry_IsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{name: "nothing", entry: Entry{}, want: true},
		{name: "whitespace only", entry: Entry{Note: " \n", Title: "\t"}, want: true},
		{name: "note", entry: Entry{Note: "hi"}, want: false},
		{name: "title", entry: Entry{Title: "hi"}, want: false},
		{name: "asset", entry: Entry{Assets: []Asset{{ArchivePath: "assets/photos/1/1/1"}}}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssetDefinition_RelativePath(t *testing.T) {
	asset := AssetDefinition{ID: 12, Type: AssetPhoto, CreatedAt: 1700408759432, CreatedAtOffset: -18000000}
	if got := asset.RelativePath(); got != "assets/photos/2023/11/12" {
		t.Errorf("RelativePath() = %q", got)
	}

	audio := AssetDefinition{ID: 5, Type: AssetAudio, CreatedAt: time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC).UnixMilli(), CreatedAtOffset: -3600000}
	if got := audio.RelativePath(); got != "assets/audio/2023/12/5" {
		t.Errorf("RelativePath() = %q, want local month of creation", got)
	}
}

func TestAssetDefinition_Metadata(t *testing.T) {
	asset := AssetDefinition{ID: 1, AndroidMetadata: `{"Name":"IMG.jpg","LastModified":12,"Orientation":90}`}
	meta, err := asset.Metadata()
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	if meta.Name != "IMG.jpg" || meta.LastModified != 12 || meta.Orientation == nil || *meta.Orientation != 90 {
		t.Errorf("Metadata() = %+v", meta)
	}
	if meta.Duration != nil {
		t.Errorf("Duration = %v, want nil", *meta.Duration)
	}

	if _, err := (AssetDefinition{AndroidMetadata: "{broken"}).Metadata(); err == nil {
		t.Error("Metadata() on broken JSON should fail")
	}
}

func TestMissingReference_String(t *testing.T) {
	tests := []struct {
		ref  MissingReference
		want string
	}{
		{
			ref:  MissingReference{EntryID: 3, Kind: RefTag, RefID: 99},
			want: "entry 3: unknown tag id 99",
		},
		{
			ref:  MissingReference{EntryID: 3, Kind: RefAssetFile, RefID: 13, Path: "assets/audio/2023/11/13"},
			want: "entry 3: asset 13 has no media file in the archive (expected assets/audio/2023/11/13)",
		},
		{
			ref:  MissingReference{EntryID: 3, Kind: RefAssetFile, RefID: 13},
			want: "entry 3: asset 13 has no media file in the archive",
		},
	}
	for _, tt := range tests {
		if got := tt.ref.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
