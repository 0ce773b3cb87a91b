package export

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/zeebo/blake3"

	"github.com/gorewood/daylio2md/internal/journal"
)

// Options configures a Writer.
type Options struct {
	MarkdownDir  string
	MediaDir     string
	Nested       bool // place Markdown files under YYYY/MM subdirectories
	DryRun       bool // report what would be written without touching disk
	KeepExisting bool // leave existing files alone instead of replacing them
}

// Status is the outcome of writing one file.
type Status string

// File write outcomes.
const (
	StatusWritten   Status = "written"
	StatusUnchanged Status = "unchanged"
	StatusKept      Status = "kept"
	StatusPlanned   Status = "planned"
)

// FileResult reports one file written for an entry.
type FileResult struct {
	Path   string `json:"path"`
	Status Status `json:"status"`
	Size   int64  `json:"size"`
	BLAKE3 string `json:"blake3,omitempty"` // hex digest of the content, media only
}

// Result reports everything written for one entry.
type Result struct {
	EntryID  int64        `json:"entry_id"`
	Markdown FileResult   `json:"markdown"`
	Media    []FileResult `json:"media,omitempty"`
}

// WriteError reports a filesystem failure while writing an entry.
type WriteError struct {
	EntryID int64
	Path    string
	Err     error
}

// Error names the entry and the path that failed.
func (e *WriteError) Error() string {
	return fmt.Sprintf("entry %d: writing %s: %v", e.EntryID, e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// MediaSource reads asset bytes by id.
type MediaSource interface {
	ReadMedia(id int64) ([]byte, error)
}

// MediaFile is a resolved asset ready to copy.
type MediaFile struct {
	Asset journal.Asset
	Name  string // file name in the media directory
	Path  string // destination path
	MIME  string
	Data  []byte
	Sum   [32]byte // BLAKE3 of Data
}

// Writer persists rendered entries.
type Writer struct {
	opts Options
}

// NewWriter validates opts and returns a Writer.
func NewWriter(opts Options) (*Writer, error) {
	if opts.MarkdownDir == "" {
		return nil, errors.New("markdown output directory is required")
	}
	if opts.MediaDir == "" {
		return nil, errors.New("media output directory is required")
	}
	return &Writer{opts: opts}, nil
}

// EnsureDirs creates the output directories. It is a no-op in dry-run
// mode.
func (w *Writer) EnsureDirs() error {
	if w.opts.DryRun {
		return nil
	}
	for _, dir := range []string{w.opts.MarkdownDir, w.opts.MediaDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}
	return nil
}

// MarkdownName returns the file name for an entry.
func MarkdownName(entry *journal.Entry) string {
	return entry.Date() + "-daylio-" + strconv.FormatInt(entry.ID, 10) + ".md"
}

// MarkdownPath returns where an entry's Markdown file goes.
func (w *Writer) MarkdownPath(entry *journal.Entry) string {
	if w.opts.Nested {
		return filepath.Join(w.opts.MarkdownDir,
			entry.Time.Format("2006"), entry.Time.Format("01"), MarkdownName(entry))
	}
	return filepath.Join(w.opts.MarkdownDir, MarkdownName(entry))
}

// LinkPath returns target relative to the directory of markdownPath, with
// forward slashes, for use in Markdown links.
func LinkPath(markdownPath, target string) string {
	rel, err := filepath.Rel(filepath.Dir(markdownPath), target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}

// PlanMedia reads each resolved asset of entry and decides its name in the
// media directory. The archive name is kept; when it has no extension one
// is added from the detected content type.
func (w *Writer) PlanMedia(entry *journal.Entry, src MediaSource) ([]MediaFile, error) {
	files := make([]MediaFile, 0, len(entry.Assets))
	for _, asset := range entry.Assets {
		data, err := src.ReadMedia(asset.ID)
		if err != nil {
			return nil, &WriteError{EntryID: entry.ID, Path: asset.ArchivePath, Err: err}
		}

		mime := mimetype.Detect(data)
		name := path.Base(asset.ArchivePath)
		if path.Ext(name) == "" {
			name += mime.Extension()
		}

		files = append(files, MediaFile{
			Asset: asset,
			Name:  name,
			Path:  filepath.Join(w.opts.MediaDir, name),
			MIME:  mime.String(),
			Data:  data,
			Sum:   blake3.Sum256(data),
		})
	}
	return files, nil
}

// WriteEntry writes the media files and then the Markdown for one entry, so
// a written note never links to media that failed to copy.
func (w *Writer) WriteEntry(entry *journal.Entry, markdown string, media []MediaFile) (*Result, error) {
	result := &Result{EntryID: entry.ID}

	for _, file := range media {
		status, err := w.writeFile(file.Path, file.Data, file.Sum)
		if err != nil {
			return nil, &WriteError{EntryID: entry.ID, Path: file.Path, Err: err}
		}
		result.Media = append(result.Media, FileResult{
			Path:   file.Path,
			Status: status,
			Size:   int64(len(file.Data)),
			BLAKE3: hex.EncodeToString(file.Sum[:]),
		})
	}

	mdPath := w.MarkdownPath(entry)
	status, err := w.writeFile(mdPath, []byte(markdown), blake3.Sum256([]byte(markdown)))
	if err != nil {
		return nil, &WriteError{EntryID: entry.ID, Path: mdPath, Err: err}
	}
	result.Markdown = FileResult{Path: mdPath, Status: status, Size: int64(len(markdown))}

	return result, nil
}

// writeFile applies the overwrite policy to a single file.
func (w *Writer) writeFile(path string, data []byte, sum [32]byte) (Status, error) {
	if w.opts.DryRun {
		return StatusPlanned, nil
	}

	switch same, err := sameContent(path, int64(len(data)), sum); {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return "", err
	case w.opts.KeepExisting:
		return StatusKept, nil
	case same:
		return StatusUnchanged, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}
	if err := atomicWrite(path, data); err != nil {
		return "", err
	}
	return StatusWritten, nil
}
