package journal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// AssetType is the media kind of an asset.
type AssetType int

// Asset types as stored in the payload.
const (
	AssetPhoto AssetType = 1
	AssetAudio AssetType = 2
)

// Valid reports whether t is a known asset type.
func (t AssetType) Valid() bool {
	return t == AssetPhoto || t == AssetAudio
}

// String returns "photo" or "audio".
func (t AssetType) String() string {
	switch t {
	case AssetPhoto:
		return "photo"
	case AssetAudio:
		return "audio"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// folder is the assets/ subfolder Daylio stores this type under.
func (t AssetType) folder() string {
	switch t {
	case AssetAudio:
		return "audio"
	default:
		return "photos"
	}
}

// AssetDefinition is a media attachment as defined in the payload.
// Checksum is carried for reference only; identity is the numeric id.
type AssetDefinition struct {
	ID              int64     `json:"id"`
	Type            AssetType `json:"type"`
	Checksum        string    `json:"checksum"`
	CreatedAt       int64     `json:"createdAt"`
	CreatedAtOffset int64     `json:"createdAtOffset"`
	AndroidMetadata string    `json:"android_metadata"`
}

// Created returns the local creation time of the asset.
func (a AssetDefinition) Created() time.Time {
	return LocalTime(a.CreatedAt, a.CreatedAtOffset)
}

// RelativePath returns the conventional archive location of the asset:
// assets/<photos|audio>/<year>/<month>/<id>.
func (a AssetDefinition) RelativePath() string {
	created := a.Created()
	return fmt.Sprintf("assets/%s/%d/%d/%d", a.Type.folder(), created.Year(), int(created.Month()), a.ID)
}

// AndroidMetadata is the JSON blob Android exports attach to each asset.
type AndroidMetadata struct {
	Name         string `json:"Name"`
	LastModified int64  `json:"LastModified"`
	Orientation  *int   `json:"Orientation,omitempty"`
	Duration     *int64 `json:"Duration,omitempty"`
}

// Metadata parses the android_metadata blob. An empty blob yields a zero
// value and no error.
func (a AssetDefinition) Metadata() (AndroidMetadata, error) {
	var meta AndroidMetadata
	blob := strings.TrimSpace(a.AndroidMetadata)
	if blob == "" {
		return meta, nil
	}
	if err := json.Unmarshal([]byte(blob), &meta); err != nil {
		return AndroidMetadata{}, fmt.Errorf("asset %d metadata: %w", a.ID, err)
	}
	return meta, nil
}
