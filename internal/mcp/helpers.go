package mcp

import (
	"errors"
	"fmt"
	"time"

	"github.com/gorewood/daylio2md/internal/convert"
)

// parseDurationOrDate parses a duration string (24h, 7d) or ISO date into a time.
func parseDurationOrDate(value string) (time.Time, error) {
	if duration, err := time.ParseDuration(value); err == nil {
		return time.Now().Add(-duration), nil
	}

	// Day-based duration, e.g. "7d"
	if len(value) > 1 && value[len(value)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(value, "%dd", &days); err == nil && days > 0 {
			return time.Now().AddDate(0, 0, -days), nil
		}
	}

	if parsed, err := time.Parse(time.DateOnly, value); err == nil {
		return parsed, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}

	return time.Time{}, fmt.Errorf("cannot parse %q as duration or date", value)
}

// buildFilter turns list_entries input into a convert.Filter.
func buildFilter(input ListEntriesInput) (convert.Filter, error) {
	filter := convert.Filter{Mood: input.Mood, Tag: input.Tag, Limit: input.Limit}
	if input.Limit < 0 {
		return filter, errors.New("limit must not be negative")
	}
	if input.Since != "" {
		since, err := parseDurationOrDate(input.Since)
		if err != nil {
			return filter, fmt.Errorf("invalid since value: %w", err)
		}
		filter.Since = since
	}
	if input.Until != "" {
		until, err := parseDurationOrDate(input.Until)
		if err != nil {
			return filter, fmt.Errorf("invalid until value: %w", err)
		}
		filter.Until = until
	}
	return filter, nil
}

// loadBackup opens a backup for a read-only tool.
func loadBackup(path string, ignoreVersion bool) (*convert.Backup, error) {
	if path == "" {
		return nil, errors.New("backup path is required")
	}
	b, err := convert.Load(path, ignoreVersion)
	if err != nil {
		return nil, fmt.Errorf("loading backup: %w", err)
	}
	return b, nil
}
