// Package journal decodes the Daylio payload and normalizes day entries.
//
// The payload is base64-encoded JSON. Decode turns it into a RawBackup of
// definition tables and day entries keyed by integer ids; a Normalizer then
// resolves each day entry's mood, tag and asset ids into an Entry ready for
// rendering.
package journal

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// SupportedVersion is the payload version this package is written against.
const SupportedVersion = 15

// requiredKeys lists the top-level payload keys Decode insists on.
var requiredKeys = []string{"version", "customMoods", "tags", "dayEntries", "assets"}

// RawBackup is the decoded payload before any id resolution.
type RawBackup struct {
	Version     int               `json:"version"`
	CustomMoods []MoodDefinition  `json:"customMoods"`
	Tags        []TagDefinition   `json:"tags"`
	DayEntries  []DayEntry        `json:"dayEntries"`
	Assets      []AssetDefinition `json:"assets"`
}

// TagDefinition is a user-defined activity tag.
type TagDefinition struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DayEntry is one journal record as stored in the payload.
type DayEntry struct {
	ID             int64   `json:"id"`
	Datetime       int64   `json:"datetime"`
	TimeZoneOffset int64   `json:"timeZoneOffset"`
	Mood           int64   `json:"mood"`
	Tags           []int64 `json:"tags"`
	Assets         []int64 `json:"assets"`
	Note           string  `json:"note"`
	NoteTitle      string  `json:"note_title"`
}

// LocalTime returns the wall-clock time the entry was recorded at, in the
// zone given by its stored UTC offset.
func (d DayEntry) LocalTime() time.Time {
	return LocalTime(d.Datetime, d.TimeZoneOffset)
}

// LocalTime converts an epoch-millisecond timestamp and a UTC offset in
// milliseconds into a time in a fixed zone of that offset. The process
// time zone is never consulted.
func LocalTime(epochMillis, offsetMillis int64) time.Time {
	zone := time.FixedZone(zoneName(offsetMillis), int(offsetMillis/1000))
	return time.UnixMilli(epochMillis).In(zone)
}

// zoneName formats an offset as UTC±hh:mm.
func zoneName(offsetMillis int64) string {
	sign := '+'
	minutes := offsetMillis / 60000
	if minutes < 0 {
		sign = '-'
		minutes = -minutes
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, minutes/60, minutes%60)
}

// Decode base64-decodes and parses a payload.
// Returns *DecodeError for bad base64 and *PayloadFormatError for invalid
// JSON, missing top-level keys or malformed records.
func Decode(raw []byte) (*RawBackup, error) {
	data, err := decodeBase64(bytes.TrimSpace(raw))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return Parse(data)
}

// decodeBase64 accepts padded and unpadded standard base64, with or
// without line wrapping.
func decodeBase64(raw []byte) ([]byte, error) {
	raw = bytes.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, raw)

	enc := base64.StdEncoding
	if len(raw)%4 != 0 {
		enc = base64.RawStdEncoding
	}
	out := make([]byte, enc.DecodedLen(len(raw)))
	n, err := enc.Decode(out, raw)
	if err != nil {
		return nil, fmt.Errorf("decoding base64: %w", err)
	}
	return out[:n], nil
}

// Parse parses an already base64-decoded payload.
func Parse(data []byte) (*RawBackup, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &PayloadFormatError{Reason: "not a JSON object", Err: err}
	}

	for _, key := range requiredKeys {
		if _, ok := top[key]; !ok {
			return nil, &PayloadFormatError{Key: key, Reason: "missing top-level key"}
		}
	}

	var backup RawBackup
	fields := []struct {
		key    string
		target any
	}{
		{"version", &backup.Version},
		{"customMoods", &backup.CustomMoods},
		{"tags", &backup.Tags},
		{"dayEntries", &backup.DayEntries},
		{"assets", &backup.Assets},
	}
	for _, field := range fields {
		if err := json.Unmarshal(top[field.key], field.target); err != nil {
			return nil, &PayloadFormatError{Key: field.key, Reason: "unexpected shape", Err: err}
		}
	}

	for _, asset := range backup.Assets {
		if !asset.Type.Valid() {
			return nil, &PayloadFormatError{
				Key:    "assets",
				Reason: fmt.Sprintf("asset %d has unknown type %d", asset.ID, asset.Type),
			}
		}
	}

	return &backup, nil
}

// CheckVersion returns *VersionError when the payload version differs from
// SupportedVersion, unless ignore is set.
func CheckVersion(backup *RawBackup, ignore bool) error {
	if ignore || backup.Version == SupportedVersion {
		return nil
	}
	return &VersionError{Version: backup.Version, Supported: SupportedVersion}
}
