// Package jobs tracks asset generation jobs: their persisted records, the
// per-step status document the UI polls, and the local runner.
package jobs

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nagdatt/ai-podcast-saas/internal/assets"
	"github.com/nagdatt/ai-podcast-saas/internal/transcript"
)

// ErrNotFound is returned when a job does not exist.
var ErrNotFound = errors.New("job not found")

// State is the overall state of a job.
type State string

const (
	StateQueued    State = "queued"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Terminal reports whether no further transitions happen from s.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Job is one generation run over a transcript.
type Job struct {
	ID          string                 `gorm:"primaryKey;type:text" json:"id"`
	ProjectID   string                 `gorm:"index;type:text" json:"project_id"`
	State       State                  `gorm:"index;type:text" json:"state"`
	Transcript  *transcript.Transcript `gorm:"serializer:json" json:"transcript,omitempty"`
	Status      JobStatus              `gorm:"serializer:json" json:"status"`
	Result      *assets.Bundle         `gorm:"serializer:json" json:"result,omitempty"`
	Error       string                 `json:"error,omitempty"`
	WorkflowID  string                 `json:"workflow_id,omitempty"`
	CreatedAt   time.Time              `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	StartedAt   *time.Time             `json:"started_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
}

// TableName overrides the gorm default.
func (Job) TableName() string {
	return "jobs"
}

// NewJob creates a queued job for a finished transcript.
func NewJob(projectID string, t *transcript.Transcript) *Job {
	return &Job{
		ID:         uuid.NewString(),
		ProjectID:  projectID,
		State:      StateQueued,
		Transcript: t,
		Status:     NewJobStatus(),
		CreatedAt:  time.Now().UTC(),
	}
}

// Models lists the gorm models this package persists.
func Models() []any {
	return []any{&Job{}}
}
