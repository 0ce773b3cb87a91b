// Package backuptest builds Daylio backup archives for tests.
package backuptest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
)

// Payload is a minimal Daylio payload. Fields mirror the JSON keys of a
// real export; unset slices are written as empty arrays.
type Payload struct {
	Version     int              `json:"version"`
	CustomMoods []map[string]any `json:"customMoods"`
	Tags        []map[string]any `json:"tags"`
	DayEntries  []map[string]any `json:"dayEntries"`
	Assets      []map[string]any `json:"assets"`
}

// Sample returns a payload with two moods, two tags, one photo asset and
// three day entries. Entry 3 references a missing tag and a missing asset;
// entry 4 is empty.
func Sample() Payload {
	return Payload{
		Version: 15,
		CustomMoods: []map[string]any{
			{"id": 1, "custom_name": "", "mood_group_id": 1, "mood_group_order": 0, "predefined_name_id": 1},
			{"id": 7, "custom_name": "meh+", "mood_group_id": 3, "mood_group_order": 1, "predefined_name_id": -1},
		},
		Tags: []map[string]any{
			{"id": 1, "name": "work"},
			{"id": 2, "name": "long walk"},
		},
		Assets: []map[string]any{
			{
				"id": 12, "type": 1, "checksum": "abc123",
				"createdAt": int64(1700408759432), "createdAtOffset": -18000000,
				"android_metadata": `{"Name":"IMG_1.jpg","LastModified":1700408759000,"Orientation":0}`,
			},
		},
		DayEntries: []map[string]any{
			{
				"id": 3, "datetime": int64(1700408759432), "timeZoneOffset": -18000000,
				"mood": 1, "tags": []int{1, 2, 99}, "assets": []int{12, 404},
				"note": "Went <b>outside</b>.<br>Nice day.", "note_title": "Saturday",
			},
			{
				"id": 4, "datetime": int64(1700495159432), "timeZoneOffset": -18000000,
				"mood": 7, "tags": []int{}, "assets": []int{},
				"note": "", "note_title": "",
			},
		},
	}
}

// Encode returns the base64-encoded JSON form of a payload.
func Encode(t testing.TB, payload any) []byte {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return []byte(base64.StdEncoding.EncodeToString(data))
}

// ZipBytes builds a zip container from member name to content.
func ZipBytes(t testing.TB, members map[string][]byte) []byte {
	t.Helper()

	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip member %s: %v", name, err)
		}
		if _, err := w.Write(members[name]); err != nil {
			t.Fatalf("write zip member %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// Write builds a backup archive from a payload and media members and
// writes it into a temp directory, returning its path.
func Write(t testing.TB, payload any, media map[string][]byte) string {
	t.Helper()

	members := map[string][]byte{"backup.daylio": Encode(t, payload)}
	for name, data := range media {
		members[name] = data
	}

	path := filepath.Join(t.TempDir(), "backup.daylio.zip")
	if err := os.WriteFile(path, ZipBytes(t, members), 0o600); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

// PNG is a tiny valid PNG image for media fixtures.
var PNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

// SampleMedia returns media members matching Sample: asset 12 as a PNG.
func SampleMedia() map[string][]byte {
	return map[string][]byte{"assets/photos/2023/11/12": PNG}
}
