package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/nagdatt/ai-podcast-saas/internal/assets"
)

// Store handles job record CRUD. It does not execute jobs; runners update
// records through it.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewStore creates a new job store.
func NewStore(db *gorm.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// ListFilter specifies criteria for listing jobs.
type ListFilter struct {
	State     State  // empty = all
	ProjectID string // empty = all
	Limit     int    // 0 = default 100
	Offset    int
}

// Create inserts a new job record.
func (s *Store) Create(ctx context.Context, job *Job) error {
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	s.logger.Info("job created", "id", job.ID, "project_id", job.ProjectID)
	return nil
}

// Get returns a job by ID.
func (s *Store) Get(ctx context.Context, id string) (*Job, error) {
	var job Job
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// List returns jobs matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]*Job, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	q := s.db.WithContext(ctx).Model(&Job{}).Omit("transcript", "result")
	if filter.State != "" {
		q = q.Where("state = ?", filter.State)
	}
	if filter.ProjectID != "" {
		q = q.Where("project_id = ?", filter.ProjectID)
	}

	var out []*Job
	if err := q.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return out, nil
}

// update loads a job, applies fn and saves the changed columns in one
// transaction so concurrent step updates never overwrite each other.
func (s *Store) update(ctx context.Context, id string, fn func(*Job)) (*Job, error) {
	var job Job
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&job).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return err
		}
		fn(&job)
		job.UpdatedAt = time.Now().UTC()
		return tx.Model(&job).Select("state", "status", "result", "error", "workflow_id", "updated_at", "started_at", "completed_at").Updates(&job).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return &job, nil
}

// UpdateStep sets one status field.
func (s *Store) UpdateStep(ctx context.Context, id string, step Step, status StepStatus) (*Job, error) {
	if !ValidStep(string(step)) {
		return nil, fmt.Errorf("unknown job step: %q", step)
	}
	return s.update(ctx, id, func(j *Job) {
		j.Status.Set(step, status)
	})
}

// Start marks a job running.
func (s *Store) Start(ctx context.Context, id, workflowID string) (*Job, error) {
	return s.update(ctx, id, func(j *Job) {
		now := time.Now().UTC()
		j.State = StateRunning
		j.StartedAt = &now
		j.Status.ContentGeneration = StepRunning
		if workflowID != "" {
			j.WorkflowID = workflowID
		}
	})
}

// StoreResult saves the generated bundle and completes the job.
func (s *Store) StoreResult(ctx context.Context, id string, b *assets.Bundle) (*Job, error) {
	return s.update(ctx, id, func(j *Job) {
		now := time.Now().UTC()
		j.Result = b
		j.State = StateCompleted
		j.CompletedAt = &now
		j.Error = ""
		j.Status.ContentGeneration = StepCompleted
		for _, kind := range assets.Kinds {
			j.Status.Set(AssetStep(kind), StepCompleted)
		}
	})
}

// Fail records an infrastructure error and fails every unfinished step.
func (s *Store) Fail(ctx context.Context, id string, cause error) (*Job, error) {
	return s.update(ctx, id, func(j *Job) {
		now := time.Now().UTC()
		j.State = StateFailed
		j.CompletedAt = &now
		if cause != nil {
			j.Error = cause.Error()
		}
		j.Status.FailUnfinished()
	})
}
