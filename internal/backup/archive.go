// Package backup reads Daylio backup archives.
//
// A backup is a zip container holding one base64-encoded JSON payload
// (backup.daylio) and zero or more media files stored under assets/ in
// year/month folders. Media files carry no extension; the trailing path
// component is the numeric asset id.
package backup

import (
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"
)

// PayloadName is the base name of the payload member inside the archive.
const PayloadName = "backup.daylio"

// mediaRoot is the folder beside the payload that holds media members.
const mediaRoot = "assets/"

// maxPayloadSize caps how much of the payload member is read into memory.
const maxPayloadSize = 256 << 20

// FormatError reports an archive that cannot be used: not a zip container,
// unreadable, or missing the payload member.
type FormatError struct {
	Path   string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backup %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("backup %s: %s", e.Path, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// MediaIndex maps an asset id to the full member path inside the archive.
type MediaIndex map[int64]string

// Lookup returns the archive member path for an asset id.
func (m MediaIndex) Lookup(id int64) (string, bool) {
	member, ok := m[id]
	return member, ok
}

// IDs returns the indexed asset ids in ascending order.
func (m MediaIndex) IDs() []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Archive is an open backup archive. Close must be called to release the
// underlying file handle.
type Archive struct {
	path    string
	closer  io.Closer
	payload *zip.File
	members map[string]*zip.File
	media   MediaIndex
}

// Open opens the backup archive at path and indexes its members.
func Open(path string) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, &FormatError{Path: path, Reason: "not a readable zip archive", Err: err}
	}

	arc, err := newArchive(path, &rc.Reader)
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	arc.closer = rc
	return arc, nil
}

// NewReader indexes an archive held in memory or any other io.ReaderAt.
// The caller owns r; Close on the returned Archive is a no-op.
func NewReader(r io.ReaderAt, size int64, name string) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &FormatError{Path: name, Reason: "not a readable zip archive", Err: err}
	}
	return newArchive(name, zr)
}

// newArchive builds the payload and media indexes for a zip reader.
func newArchive(name string, zr *zip.Reader) (*Archive, error) {
	arc := &Archive{
		path:    name,
		members: make(map[string]*zip.File, len(zr.File)),
		media:   make(MediaIndex),
	}

	for _, file := range zr.File {
		if file.FileInfo().IsDir() {
			continue
		}
		arc.members[file.Name] = file

		if path.Base(file.Name) == PayloadName {
			// Prefer the shallowest payload member when several exist.
			if arc.payload == nil || depth(file.Name) < depth(arc.payload.Name) {
				arc.payload = file
			}
		}
	}

	if arc.payload == nil {
		return nil, &FormatError{Path: name, Reason: "payload " + PayloadName + " not found"}
	}

	root := mediaRootFor(arc.payload.Name)
	for member := range arc.members {
		arc.indexMedia(root, member)
	}
	return arc, nil
}

// mediaRootFor returns the media folder next to the payload member, so a
// backup re-zipped inside a top-level folder keeps its media.
func mediaRootFor(payload string) string {
	dir := path.Dir(payload)
	if dir == "." {
		return mediaRoot
	}
	return dir + "/" + mediaRoot
}

// indexMedia records a media member keyed by its trailing component.
// Members outside root or with a non-numeric name are ignored.
func (a *Archive) indexMedia(root, member string) {
	if !strings.HasPrefix(member, root) {
		return
	}
	base := path.Base(member)
	base = strings.TrimSuffix(base, path.Ext(base))
	id, err := strconv.ParseInt(base, 10, 64)
	if err != nil {
		return
	}
	// Keep the lexically smallest path so duplicate ids index deterministically.
	if existing, ok := a.media[id]; ok && existing < member {
		return
	}
	a.media[id] = member
}

// depth counts path separators in a member name.
func depth(member string) int {
	return strings.Count(member, "/")
}

// Path returns the archive location it was opened from.
func (a *Archive) Path() string {
	return a.path
}

// Close releases the archive file handle.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	if err != nil {
		return fmt.Errorf("closing backup %s: %w", a.path, err)
	}
	return nil
}

// Payload returns the raw (still base64-encoded) payload bytes.
func (a *Archive) Payload() ([]byte, error) {
	data, err := readMember(a.payload, maxPayloadSize)
	if err != nil {
		return nil, &FormatError{Path: a.path, Reason: "reading payload", Err: err}
	}
	return data, nil
}

// Media returns the asset id to member path index.
func (a *Archive) Media() MediaIndex {
	return a.media
}

// OpenMedia opens the media member for an asset id.
func (a *Archive) OpenMedia(id int64) (io.ReadCloser, error) {
	member, ok := a.media[id]
	if !ok {
		return nil, fmt.Errorf("asset %d: %w", id, ErrMediaNotFound)
	}
	file, ok := a.members[member]
	if !ok {
		return nil, fmt.Errorf("asset %d (%s): %w", id, member, ErrMediaNotFound)
	}
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", member, err)
	}
	return rc, nil
}

// ReadMedia reads the full content of the media member for an asset id.
func (a *Archive) ReadMedia(id int64) ([]byte, error) {
	rc, err := a.OpenMedia(id)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck // read-only member

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading asset %d: %w", id, err)
	}
	return data, nil
}

// MediaSize returns the uncompressed size of the media member for an asset id.
func (a *Archive) MediaSize(id int64) (uint64, bool) {
	member, ok := a.media[id]
	if !ok {
		return 0, false
	}
	file, ok := a.members[member]
	if !ok {
		return 0, false
	}
	return file.UncompressedSize64, true
}

// ErrMediaNotFound is returned when an asset id has no media member.
var ErrMediaNotFound = errors.New("media not found in archive")

// readMember reads a zip member fully, failing if it exceeds limit bytes.
func readMember(file *zip.File, limit int64) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer rc.Close() //nolint:errcheck // read-only member

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.Name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s exceeds %d bytes", file.Name, limit)
	}
	return data, nil
}
