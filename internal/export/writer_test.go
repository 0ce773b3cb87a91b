package export

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zeebo/blake3"

	"github.com/gorewood/daylio2md/internal/backup/backuptest"
	"github.com/gorewood/daylio2md/internal/journal"
)

type mediaBytes map[int64][]byte

func (m mediaBytes) ReadMedia(id int64) ([]byte, error) {
	data, ok := m[id]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func testEntry() *journal.Entry {
	return &journal.Entry{
		ID:       3,
		Time:     journal.LocalTime(1700408759432, -18000000),
		MoodName: "rad",
		Note:     "hello",
		Assets: []journal.Asset{
			{AssetDefinition: journal.AssetDefinition{ID: 12, Type: journal.AssetPhoto}, ArchivePath: "assets/photos/2023/11/12"},
			{AssetDefinition: journal.AssetDefinition{ID: 13, Type: journal.AssetPhoto}, ArchivePath: "assets/photos/2023/11/13.jpg"},
		},
	}
}

func newTestWriter(t *testing.T, mutate func(*Options)) *Writer {
	t.Helper()
	root := t.TempDir()
	opts := Options{
		MarkdownDir: filepath.Join(root, "notes"),
		MediaDir:    filepath.Join(root, "media"),
	}
	if mutate != nil {
		mutate(&opts)
	}
	w, err := NewWriter(opts)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error = %v", err)
	}
	return w
}

func TestNewWriter_RequiresDirs(t *testing.T) {
	if _, err := NewWriter(Options{MediaDir: "m"}); err == nil {
		t.Error("missing markdown dir should fail")
	}
	if _, err := NewWriter(Options{MarkdownDir: "md"}); err == nil {
		t.Error("missing media dir should fail")
	}
}

func TestMarkdownPath(t *testing.T) {
	entry := testEntry()

	flat, _ := NewWriter(Options{MarkdownDir: "out", MediaDir: "media"})
	if got, want := flat.MarkdownPath(entry), filepath.Join("out", "2023-11-19-daylio-3.md"); got != want {
		t.Errorf("MarkdownPath() = %q, want %q", got, want)
	}

	nested, _ := NewWriter(Options{MarkdownDir: "out", MediaDir: "media", Nested: true})
	if got, want := nested.MarkdownPath(entry), filepath.Join("out", "2023", "11", "2023-11-19-daylio-3.md"); got != want {
		t.Errorf("nested MarkdownPath() = %q, want %q", got, want)
	}

	// The local date decides the name, not the UTC date.
	late := &journal.Entry{ID: 9, Time: time.Date(2023, 12, 31, 23, 30, 0, 0, time.FixedZone("", -5*3600))}
	if got := MarkdownName(late); got != "2023-12-31-daylio-9.md" {
		t.Errorf("MarkdownName() = %q", got)
	}
}

func TestLinkPath(t *testing.T) {
	tests := []struct {
		md, target, want string
	}{
		{filepath.Join("vault", "notes", "a.md"), filepath.Join("vault", "media", "12.png"), "../media/12.png"},
		{filepath.Join("vault", "a.md"), filepath.Join("vault", "12.png"), "12.png"},
		{filepath.Join("vault", "2023", "11", "a.md"), filepath.Join("vault", "media", "12.png"), "../../media/12.png"},
	}
	for _, tt := range tests {
		if got := LinkPath(tt.md, tt.target); got != tt.want {
			t.Errorf("LinkPath(%q, %q) = %q, want %q", tt.md, tt.target, got, tt.want)
		}
	}
}

func TestPlanMedia(t *testing.T) {
	w := newTestWriter(t, nil)
	src := mediaBytes{12: backuptest.PNG, 13: []byte("not really a jpeg")}

	files, err := w.PlanMedia(testEntry(), src)
	if err != nil {
		t.Fatalf("PlanMedia() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(files))
	}
	if files[0].Name != "12.png" || files[0].MIME != "image/png" {
		t.Errorf("files[0] = %s (%s), want 12.png image/png", files[0].Name, files[0].MIME)
	}
	if files[1].Name != "13.jpg" {
		t.Errorf("existing extension should be kept, got %s", files[1].Name)
	}
	if files[0].Path != filepath.Join(w.opts.MediaDir, "12.png") {
		t.Errorf("Path = %s", files[0].Path)
	}
	if files[0].Sum != blake3.Sum256(backuptest.PNG) {
		t.Errorf("Sum = %x, want BLAKE3 of the media bytes", files[0].Sum)
	}

	_, err = w.PlanMedia(testEntry(), mediaBytes{12: backuptest.PNG})
	var writeErr *WriteError
	if !errors.As(err, &writeErr) || writeErr.EntryID != 3 {
		t.Errorf("PlanMedia() with unreadable media error = %v, want *WriteError", err)
	}
}

func TestWriteEntry_Statuses(t *testing.T) {
	w := newTestWriter(t, nil)
	entry := testEntry()
	files, err := w.PlanMedia(entry, mediaBytes{12: backuptest.PNG, 13: []byte("jpeg")})
	if err != nil {
		t.Fatal(err)
	}

	first, err := w.WriteEntry(entry, "# one\n", files)
	if err != nil {
		t.Fatalf("WriteEntry() error = %v", err)
	}
	if first.Markdown.Status != StatusWritten {
		t.Errorf("first write status = %s, want written", first.Markdown.Status)
	}
	for _, m := range first.Media {
		if m.Status != StatusWritten {
			t.Errorf("media %s status = %s, want written", m.Path, m.Status)
		}
	}

	info, err := os.Stat(first.Markdown.Path)
	if err != nil {
		t.Fatal(err)
	}
	mtime := info.ModTime()

	second, err := w.WriteEntry(entry, "# one\n", files)
	if err != nil {
		t.Fatal(err)
	}
	if second.Markdown.Status != StatusUnchanged || second.Media[0].Status != StatusUnchanged {
		t.Errorf("identical rewrite statuses = %s/%s, want unchanged", second.Markdown.Status, second.Media[0].Status)
	}
	info, _ = os.Stat(first.Markdown.Path)
	if !info.ModTime().Equal(mtime) {
		t.Error("unchanged file was rewritten")
	}

	third, err := w.WriteEntry(entry, "# two\n", files)
	if err != nil {
		t.Fatal(err)
	}
	if third.Markdown.Status != StatusWritten {
		t.Errorf("changed content status = %s, want written", third.Markdown.Status)
	}
	data, _ := os.ReadFile(first.Markdown.Path)
	if string(data) != "# two\n" {
		t.Errorf("file content = %q, want whole-file overwrite", data)
	}

	leftovers, _ := filepath.Glob(filepath.Join(w.opts.MarkdownDir, ".tmp-*"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestWriteEntry_KeepExisting(t *testing.T) {
	w := newTestWriter(t, func(o *Options) { o.KeepExisting = true })
	entry := testEntry()
	entry.Assets = nil

	path := w.MarkdownPath(entry)
	if err := os.WriteFile(path, []byte("user edits"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := w.WriteEntry(entry, "# generated\n", nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Markdown.Status != StatusKept {
		t.Errorf("status = %s, want kept", result.Markdown.Status)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "user edits" {
		t.Errorf("existing file was replaced: %q", data)
	}
}

func TestWriteEntry_DryRun(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(Options{
		MarkdownDir: filepath.Join(root, "notes"),
		MediaDir:    filepath.Join(root, "media"),
		DryRun:      true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.EnsureDirs(); err != nil {
		t.Fatal(err)
	}

	entry := testEntry()
	files, err := w.PlanMedia(entry, mediaBytes{12: backuptest.PNG, 13: []byte("x")})
	if err != nil {
		t.Fatal(err)
	}
	result, err := w.WriteEntry(entry, "# x\n", files)
	if err != nil {
		t.Fatal(err)
	}
	if result.Markdown.Status != StatusPlanned {
		t.Errorf("status = %s, want planned", result.Markdown.Status)
	}
	if _, err := os.Stat(filepath.Join(root, "notes")); !os.IsNotExist(err) {
		t.Error("dry run created the output directory")
	}
}

func TestWriteEntry_NestedCreatesDirs(t *testing.T) {
	w := newTestWriter(t, func(o *Options) { o.Nested = true })
	entry := testEntry()
	entry.Assets = nil

	result, err := w.WriteEntry(entry, "x\n", nil)
	if err != nil {
		t.Fatalf("WriteEntry() error = %v", err)
	}
	if _, err := os.Stat(result.Markdown.Path); err != nil {
		t.Errorf("nested file missing: %v", err)
	}
}

func TestWriteEntry_Error(t *testing.T) {
	w := newTestWriter(t, nil)
	entry := testEntry()
	entry.Assets = nil

	// A directory where the file should go cannot be replaced.
	if err := os.MkdirAll(w.MarkdownPath(entry), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := w.WriteEntry(entry, "x\n", nil)
	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("WriteEntry() error = %v, want *WriteError", err)
	}
	if writeErr.Path != w.MarkdownPath(entry) {
		t.Errorf("Path = %q", writeErr.Path)
	}
}

func TestWriteEntry_ReportsMediaDigest(t *testing.T) {
	w := newTestWriter(t, nil)
	entry := testEntry()
	files, err := w.PlanMedia(entry, mediaBytes{12: backuptest.PNG, 13: []byte("jpeg")})
	if err != nil {
		t.Fatal(err)
	}

	want := blake3.Sum256(backuptest.PNG)
	for _, run := range []Status{StatusWritten, StatusUnchanged} {
		result, err := w.WriteEntry(entry, "# note\n", files)
		if err != nil {
			t.Fatalf("WriteEntry() error = %v", err)
		}
		media := result.Media[0]
		if media.Status != run {
			t.Errorf("status = %s, want %s", media.Status, run)
		}
		if media.BLAKE3 != hex.EncodeToString(want[:]) {
			t.Errorf("BLAKE3 = %s, want %x", media.BLAKE3, want)
		}
		if result.Markdown.BLAKE3 != "" {
			t.Errorf("markdown result carries a digest: %s", result.Markdown.BLAKE3)
		}
	}
}
