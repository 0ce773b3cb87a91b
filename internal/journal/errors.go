package journal

import (
	"fmt"
)

// DecodeError is returned when the payload is not valid base64.
type DecodeError struct {
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("payload is not valid base64: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// PayloadFormatError is returned when the decoded payload is not the
// expected JSON document: invalid JSON, a missing top-level key, a record
// of the wrong shape, or duplicate ids within a definition table.
type PayloadFormatError struct {
	Key    string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *PayloadFormatError) Error() string {
	msg := "invalid payload"
	if e.Key != "" {
		msg += " (" + e.Key + ")"
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *PayloadFormatError) Unwrap() error {
	return e.Err
}

// VersionError is returned when the payload version is not supported.
type VersionError struct {
	Version   int
	Supported int
}

// Error implements the error interface.
func (e *VersionError) Error() string {
	return fmt.Sprintf("unsupported backup version %d (supported: %d)", e.Version, e.Supported)
}

// ResolutionError is returned when a day entry cannot be normalized,
// typically because its mood id does not resolve.
type ResolutionError struct {
	EntryID int64
	MoodID  int64
	Reason  string
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("entry %d: mood %d: %s", e.EntryID, e.MoodID, e.Reason)
}

// RefKind names the kind of a dropped reference.
type RefKind string

// Reference kinds that may be dropped during normalization.
const (
	RefTag       RefKind = "tag"
	RefAsset     RefKind = "asset"
	RefAssetFile RefKind = "asset file"
)

// MissingReference records a tag or asset reference that was dropped
// because it did not resolve. It is a warning, not an error: the entry is
// still converted without the reference.
type MissingReference struct {
	EntryID int64   `json:"entry_id"`
	Kind    RefKind `json:"kind"`
	RefID   int64   `json:"ref_id"`
	Path    string  `json:"expected_path,omitempty"` // conventional member path, asset files only
}

// String describes the dropped reference.
func (m MissingReference) String() string {
	switch m.Kind {
	case RefAssetFile:
		if m.Path == "" {
			return fmt.Sprintf("entry %d: asset %d has no media file in the archive", m.EntryID, m.RefID)
		}
		return fmt.Sprintf("entry %d: asset %d has no media file in the archive (expected %s)", m.EntryID, m.RefID, m.Path)
	default:
		return fmt.Sprintf("entry %d: unknown %s id %d", m.EntryID, m.Kind, m.RefID)
	}
}
