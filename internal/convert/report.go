package convert

import (
	"github.com/gorewood/daylio2md/internal/export"
	"github.com/gorewood/daylio2md/internal/journal"
)

// Failure stages.
const (
	StageResolve = "resolve"
	StageMedia   = "media"
	StageRender  = "render"
	StageWrite   = "write"
)

// Failure records one entry that could not be converted.
type Failure struct {
	EntryID int64  `json:"entry_id"`
	Stage   string `json:"stage"`
	Error   string `json:"error"`
}

// Report summarizes a conversion run.
type Report struct {
	Backup         string `json:"backup"`
	Version        int    `json:"version"`
	VersionWarning string `json:"version_warning,omitempty"`
	Template       string `json:"template"`
	Engine         string `json:"engine"`
	DryRun         bool   `json:"dry_run,omitempty"`

	Total     int `json:"total"`     // day entries in the payload
	Attempted int `json:"attempted"` // entries not skipped as empty
	Converted int `json:"converted"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`

	Written   int   `json:"files_written"`
	Unchanged int   `json:"files_unchanged"`
	Kept      int   `json:"files_kept,omitempty"`
	Planned   int   `json:"files_planned,omitempty"`
	Bytes     int64 `json:"bytes"`

	Failures []Failure                 `json:"failures,omitempty"`
	Warnings []journal.MissingReference `json:"warnings,omitempty"`
	Files    []*export.Result           `json:"files,omitempty"`
}

// AllFailed reports whether at least one entry was attempted and none was
// converted.
func (r *Report) AllFailed() bool {
	return r.Attempted > 0 && r.Converted == 0
}

func (r *Report) fail(entryID int64, stage string, err error) {
	r.Failed++
	r.Failures = append(r.Failures, Failure{EntryID: entryID, Stage: stage, Error: err.Error()})
}

func (r *Report) record(result *export.Result) {
	r.Converted++
	r.Files = append(r.Files, result)
	r.count(result.Markdown)
	for _, media := range result.Media {
		r.count(media)
	}
}

func (r *Report) count(file export.FileResult) {
	switch file.Status {
	case export.StatusWritten:
		r.Written++
		r.Bytes += file.Size
	case export.StatusUnchanged:
		r.Unchanged++
	case export.StatusKept:
		r.Kept++
	case export.StatusPlanned:
		r.Planned++
		r.Bytes += file.Size
	}
}
