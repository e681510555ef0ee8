package llmcall

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Store provides access to LLM call records.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new LLM call store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// QueryFilter specifies filters for listing LLM calls.
type QueryFilter struct {
	JobID     string
	Step      string
	PromptKey string
	Provider  string
	Model     string
	After     *time.Time
	Before    *time.Time
	Success   *bool
	Limit     int
	Offset    int
}

// Create inserts calls in one batch.
func (s *Store) Create(ctx context.Context, calls []*Call) error {
	if len(calls) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(calls, 100).Error; err != nil {
		return fmt.Errorf("failed to insert llm calls: %w", err)
	}
	return nil
}

// Get retrieves a single LLM call by ID. Returns nil when not found.
func (s *Store) Get(ctx context.Context, id string) (*Call, error) {
	var call Call
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&call).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return &call, nil
}

// List retrieves LLM calls matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter QueryFilter) ([]Call, error) {
	q := s.filtered(ctx, filter).Order("timestamp DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var calls []Call
	if err := q.Find(&calls).Error; err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return calls, nil
}

// CountByPromptKey returns call counts grouped by prompt key.
func (s *Store) CountByPromptKey(ctx context.Context, jobID string) (map[string]int, error) {
	var rows []struct {
		PromptKey string
		N         int
	}
	err := s.filtered(ctx, QueryFilter{JobID: jobID}).
		Select("prompt_key, COUNT(*) AS n").
		Group("prompt_key").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.PromptKey] = r.N
	}
	return counts, nil
}

func (s *Store) filtered(ctx context.Context, f QueryFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&Call{})
	if f.JobID != "" {
		q = q.Where("job_id = ?", f.JobID)
	}
	if f.Step != "" {
		q = q.Where("step = ?", f.Step)
	}
	if f.PromptKey != "" {
		q = q.Where("prompt_key = ?", f.PromptKey)
	}
	if f.Provider != "" {
		q = q.Where("provider = ?", f.Provider)
	}
	if f.Model != "" {
		q = q.Where("model = ?", f.Model)
	}
	if f.Success != nil {
		q = q.Where("success = ?", *f.Success)
	}
	if f.After != nil {
		q = q.Where("timestamp > ?", *f.After)
	}
	if f.Before != nil {
		q = q.Where("timestamp < ?", *f.Before)
	}
	return q
}
