package backup

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorewood/daylio2md/internal/backup/backuptest"
)

func TestOpen_IndexesPayloadAndMedia(t *testing.T) {
	path := backuptest.Write(t, backuptest.Sample(), map[string][]byte{
		"assets/photos/2023/11/12":     backuptest.PNG,
		"assets/audio/2023/12/31.m4a":  []byte("audio"),
		"assets/photos/2023/11/notes":  []byte("not an id"),
		"unrelated/2023/11/77":         []byte("outside assets"),
		"assets/photos/2023/11/.keep/": nil,
	})

	arc, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer arc.Close() //nolint:errcheck // test cleanup

	payload, err := arc.Payload()
	if err != nil {
		t.Fatalf("Payload() error = %v", err)
	}
	if !bytes.Equal(payload, backuptest.Encode(t, backuptest.Sample())) {
		t.Error("Payload() did not return the encoded payload member")
	}

	tests := []struct {
		id     int64
		want   string
		wantOK bool
	}{
		{id: 12, want: "assets/photos/2023/11/12", wantOK: true},
		{id: 31, want: "assets/audio/2023/12/31.m4a", wantOK: true},
		{id: 77, wantOK: false},
		{id: 404, wantOK: false},
	}
	for _, tt := range tests {
		got, ok := arc.Media().Lookup(tt.id)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Lookup(%d) = %q, %v; want %q, %v", tt.id, got, ok, tt.want, tt.wantOK)
		}
	}

	ids := arc.Media().IDs()
	if len(ids) != 2 || ids[0] != 12 || ids[1] != 31 {
		t.Errorf("IDs() = %v, want [12 31]", ids)
	}
}

func TestArchive_ReadMedia(t *testing.T) {
	path := backuptest.Write(t, backuptest.Sample(), backuptest.SampleMedia())

	arc, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer arc.Close() //nolint:errcheck // test cleanup

	data, err := arc.ReadMedia(12)
	if err != nil {
		t.Fatalf("ReadMedia(12) error = %v", err)
	}
	if !bytes.Equal(data, backuptest.PNG) {
		t.Error("ReadMedia(12) returned wrong content")
	}

	size, ok := arc.MediaSize(12)
	if !ok || size != uint64(len(backuptest.PNG)) {
		t.Errorf("MediaSize(12) = %d, %v; want %d, true", size, ok, len(backuptest.PNG))
	}

	_, err = arc.ReadMedia(404)
	if !errors.Is(err, ErrMediaNotFound) {
		t.Errorf("ReadMedia(404) error = %v, want ErrMediaNotFound", err)
	}
}

func TestOpen_MissingPayload(t *testing.T) {
	data := backuptest.ZipBytes(t, map[string][]byte{"assets/photos/2023/11/12": backuptest.PNG})
	path := filepath.Join(t.TempDir(), "nopayload.zip")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path)
	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Open() error = %v, want *FormatError", err)
	}
}

func TestOpen_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(path, []byte("definitely not a zip"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path)
	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Open() error = %v, want *FormatError", err)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.daylio"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open() error = %v, want wrapping os.ErrNotExist", err)
	}
}

func TestNewReader_PrefersShallowPayload(t *testing.T) {
	data := backuptest.ZipBytes(t, map[string][]byte{
		"nested/deeper/backup.daylio": []byte("deep"),
		"backup.daylio":               []byte("top"),
	})

	arc, err := NewReader(bytes.NewReader(data), int64(len(data)), "memory")
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	payload, err := arc.Payload()
	if err != nil {
		t.Fatalf("Payload() error = %v", err)
	}
	if string(payload) != "top" {
		t.Errorf("Payload() = %q, want %q", payload, "top")
	}
	if err := arc.Close(); err != nil {
		t.Errorf("Close() on reader-backed archive = %v, want nil", err)
	}
}

func TestNewReader_MediaBesidePayloadFolder(t *testing.T) {
	data := backuptest.ZipBytes(t, map[string][]byte{
		"Daylio/backup.daylio":            backuptest.Encode(t, backuptest.Sample()),
		"Daylio/assets/photos/2023/11/12": backuptest.PNG,
		"assets/photos/2023/11/99":        []byte("outside the backup folder"),
	})

	arc, err := NewReader(bytes.NewReader(data), int64(len(data)), "memory")
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	got, ok := arc.Media().Lookup(12)
	if !ok || got != "Daylio/assets/photos/2023/11/12" {
		t.Errorf("Lookup(12) = %q, %v; want the member under Daylio/assets", got, ok)
	}
	if _, ok := arc.Media().Lookup(99); ok {
		t.Error("Lookup(99) found media outside the payload's folder")
	}

	media, err := arc.ReadMedia(12)
	if err != nil || !bytes.Equal(media, backuptest.PNG) {
		t.Errorf("ReadMedia(12) = %d bytes, %v", len(media), err)
	}
}
