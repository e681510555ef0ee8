package jobs

import (
	"github.com/nagdatt/ai-podcast-saas/internal/assets"
)

// StepStatus is the state of one tracked step.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
)

// Step names a field of JobStatus.
type Step string

const (
	StepTranscription     Step = "transcription"
	StepContentGeneration Step = "contentGeneration"
)

// AssetStep returns the status field an asset kind reports to.
func AssetStep(kind assets.Kind) Step {
	return Step(kind)
}

// JobStatus is the per-step progress document the UI polls.
type JobStatus struct {
	Transcription     StepStatus `json:"transcription,omitempty"`
	ContentGeneration StepStatus `json:"contentGeneration,omitempty"`
	KeyMoments        StepStatus `json:"keyMoments,omitempty"`
	Summary           StepStatus `json:"summary,omitempty"`
	Social            StepStatus `json:"social,omitempty"`
	Titles            StepStatus `json:"titles,omitempty"`
	Hashtags          StepStatus `json:"hashtags,omitempty"`
	YouTubeTimestamps StepStatus `json:"youtubeTimestamps,omitempty"`
}

// NewJobStatus returns the status of a freshly created job. Transcripts
// arrive finished, so transcription starts out completed.
func NewJobStatus() JobStatus {
	s := JobStatus{
		Transcription:     StepCompleted,
		ContentGeneration: StepPending,
	}
	for _, kind := range assets.Kinds {
		s.Set(AssetStep(kind), StepPending)
	}
	return s
}

// field returns a pointer to the field of step, or nil for unknown steps.
func (s *JobStatus) field(step Step) *StepStatus {
	switch step {
	case StepTranscription:
		return &s.Transcription
	case StepContentGeneration:
		return &s.ContentGeneration
	case Step(assets.KindKeyMoments):
		return &s.KeyMoments
	case Step(assets.KindSummary):
		return &s.Summary
	case Step(assets.KindSocial):
		return &s.Social
	case Step(assets.KindTitles):
		return &s.Titles
	case Step(assets.KindHashtags):
		return &s.Hashtags
	case Step(assets.KindYouTubeTimestamps):
		return &s.YouTubeTimestamps
	}
	return nil
}

// Get returns the status of step.
func (s JobStatus) Get(step Step) StepStatus {
	if f := s.field(step); f != nil {
		return *f
	}
	return ""
}

// Set updates step and reports whether step is known.
func (s *JobStatus) Set(step Step, status StepStatus) bool {
	f := s.field(step)
	if f == nil {
		return false
	}
	*f = status
	return true
}

// FailUnfinished marks every pending or running step failed.
func (s *JobStatus) FailUnfinished() {
	steps := []Step{StepTranscription, StepContentGeneration}
	for _, kind := range assets.Kinds {
		steps = append(steps, AssetStep(kind))
	}
	for _, step := range steps {
		switch s.Get(step) {
		case StepPending, StepRunning:
			s.Set(step, StepFailed)
		}
	}
}

// ValidStep reports whether name is a JobStatus field.
func ValidStep(name string) bool {
	var s JobStatus
	return s.field(Step(name)) != nil
}
