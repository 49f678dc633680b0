package journal

import (
	"time"

	"catalog-sync/core/reconcile"

	"github.com/google/uuid"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run is one CLI invocation.
type Run struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Kind       string    `gorm:"size:32;index" json:"kind"`
	Status     string    `gorm:"size:16" json:"status"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Error      string    `gorm:"type:text" json:"error,omitempty"`
	Entries    []Entry   `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"entries,omitempty"`
}

// TableName overrides the GORM table name.
func (Run) TableName() string {
	return "catalog_runs"
}

// Entry is the outcome for one entity within a run.
type Entry struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	RunID    string `gorm:"size:36;index" json:"-"`
	Kind     string `gorm:"size:64" json:"kind"`
	Key      string `gorm:"size:255" json:"key"`
	RemoteID string `gorm:"size:64" json:"remote_id,omitempty"`
	Action   string `gorm:"size:16" json:"action"`
	Error    string `gorm:"type:text" json:"error,omitempty"`
}

// TableName overrides the GORM table name.
func (Entry) TableName() string {
	return "catalog_run_entries"
}

// NewRun starts a run with a fresh id.
func NewRun(kind string, started time.Time) *Run {
	return &Run{ID: uuid.NewString(), Kind: kind, StartedAt: started}
}

// Add appends reconcile results as entries.
func (r *Run) Add(results ...reconcile.Result) {
	for _, res := range results {
		r.Entries = append(r.Entries, Entry{
			RunID:    r.ID,
			Kind:     res.Kind,
			Key:      res.Key,
			RemoteID: res.ID,
			Action:   string(res.Action),
			Error:    res.Error,
		})
	}
}

// Finish stamps the totals and terminal status.
func (r *Run) Finish(summary reconcile.Summary, runErr error, finished time.Time) {
	r.FinishedAt = finished
	r.Created = summary.Created
	r.Updated = summary.Updated
	r.Skipped = summary.Skipped
	r.Failed = summary.Failed
	r.Status = StatusSucceeded
	if runErr != nil {
		r.Status = StatusFailed
		r.Error = runErr.Error()
	}
}
