package journal

import (
	"errors"
	"strings"
)

// Mood is the closed set of moods Daylio ships with. MoodCustom marks a
// definition whose name comes from its custom_name field.
type Mood int

// Predefined moods, keyed by Daylio's predefined_name_id.
const (
	MoodCustom Mood = -1
	MoodRad    Mood = 1
	MoodGood   Mood = 2
	MoodMeh    Mood = 3
	MoodBad    Mood = 4
	MoodAwful  Mood = 5
)

// String returns the mood's canonical name, or "custom".
func (m Mood) String() string {
	switch m {
	case MoodRad:
		return "rad"
	case MoodGood:
		return "good"
	case MoodMeh:
		return "meh"
	case MoodBad:
		return "bad"
	case MoodAwful:
		return "awful"
	case MoodCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Predefined reports whether m is one of the five built-in moods.
func (m Mood) Predefined() bool {
	return m >= MoodRad && m <= MoodAwful
}

// MoodDefinition is a mood as defined in the payload. Group id and order
// place the mood on Daylio's five-point scale; they never affect its name.
type MoodDefinition struct {
	ID               int64  `json:"id"`
	CustomName       string `json:"custom_name"`
	MoodGroupID      int64  `json:"mood_group_id"`
	MoodGroupOrder   int64  `json:"mood_group_order"`
	PredefinedNameID *int64 `json:"predefined_name_id,omitempty"`
}

// errUnnamedMood is returned by Name when a mood has neither a predefined
// name nor a custom one.
var errUnnamedMood = errors.New("mood has no predefined or custom name")

// Kind classifies the definition as a predefined mood or MoodCustom.
// A missing predefined id, -1, or any id outside 1..5 is MoodCustom.
func (d MoodDefinition) Kind() Mood {
	if d.PredefinedNameID == nil {
		return MoodCustom
	}
	if m := Mood(*d.PredefinedNameID); m.Predefined() {
		return m
	}
	return MoodCustom
}

// Name resolves the display name of the mood. Predefined ids 1..5 always
// win over custom_name; otherwise the custom name is used and must not be
// blank.
func (d MoodDefinition) Name() (string, error) {
	kind := d.Kind()
	if kind.Predefined() {
		return kind.String(), nil
	}
	name := strings.TrimSpace(d.CustomName)
	if name == "" {
		return "", errUnnamedMood
	}
	return name, nil
}
