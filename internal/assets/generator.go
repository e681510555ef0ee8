// Package assets turns a finished transcript into marketing assets. Each
// asset is one structured generation with its own prompt, schema and
// fallback; Bundle runs all of them concurrently.
package assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nagdatt/ai-podcast-saas/internal/llmcall"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts/hashtags"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts/keymoments"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts/social"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts/summary"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts/timestamps"
	"github.com/nagdatt/ai-podcast-saas/internal/prompts/titles"
	"github.com/nagdatt/ai-podcast-saas/internal/providers"
	"github.com/nagdatt/ai-podcast-saas/internal/structured"
	"github.com/nagdatt/ai-podcast-saas/internal/transcript"
	"github.com/nagdatt/ai-podcast-saas/internal/workflow"
)

// Config configures a Generator.
type Config struct {
	Client   providers.LLMClient
	Stepper  workflow.Stepper  // defaults to workflow.DirectStepper
	Recorder *llmcall.Recorder // optional
	Prompts  *prompts.Registry // optional, used for prompt hashes
	Logger   *slog.Logger

	Model       string  // empty uses the client default
	Temperature float64 // zero uses the backend default
	RawLogLimit int

	// MaxConcurrency caps how many assets Bundle generates at once.
	// Zero means all of them.
	MaxConcurrency int
}

// Generator runs the asset use cases. Safe for concurrent use; it holds no
// per-request state.
type Generator struct {
	client      providers.LLMClient
	stepper     workflow.Stepper
	recorder    *llmcall.Recorder
	prompts     *prompts.Registry
	logger      *slog.Logger
	model       string
	temperature float64
	rawLogLimit int
	concurrency int
}

// New creates a Generator.
func New(cfg Config) (*Generator, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("assets: LLM client is required")
	}
	if cfg.Stepper == nil {
		cfg.Stepper = workflow.DirectStepper{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.RawLogLimit <= 0 {
		cfg.RawLogLimit = structured.DefaultRawLogLimit
	}
	return &Generator{
		client:      cfg.Client,
		stepper:     cfg.Stepper,
		recorder:    cfg.Recorder,
		prompts:     cfg.Prompts,
		logger:      cfg.Logger,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		rawLogLimit: cfg.RawLogLimit,
		concurrency: cfg.MaxConcurrency,
	}, nil
}

// RegisterPrompts registers every asset prompt with r.
func RegisterPrompts(r *prompts.Registry) {
	summary.RegisterPrompts(r)
	titles.RegisterPrompts(r)
	hashtags.RegisterPrompts(r)
	social.RegisterPrompts(r)
	keymoments.RegisterPrompts(r)
	timestamps.RegisterPrompts(r)
}

type jobIDKey struct{}

// WithJobID tags LLM calls made under ctx with a job id.
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, jobIDKey{}, jobID)
}

// JobIDFrom returns the job id set by WithJobID.
func JobIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(jobIDKey{}).(string)
	return id
}

// caller builds the backend call for a kind, recorded and run as a step.
// Backends that support it are sent the kind's schema.
func (g *Generator) caller(kind Kind, schema *structured.Schema) structured.Caller {
	systemKey, userKey := kind.promptKeys()
	step := kind.StepName()
	responseFormat := providers.JSONSchemaFormat(step, nil)
	if schema != nil {
		responseFormat = providers.JSONSchemaFormat(step, schema.Raw())
	}

	call := func(ctx context.Context, p structured.Prompt) (string, error) {
		req := &providers.ChatRequest{
			Model:          g.model,
			Temperature:    g.temperature,
			ResponseFormat: responseFormat,
		}
		if p.System != "" {
			req.Messages = append(req.Messages, providers.Message{Role: providers.RoleSystem, Content: p.System})
		}
		req.Messages = append(req.Messages, providers.Message{Role: providers.RoleUser, Content: p.User})

		result, err := g.client.Chat(ctx, req)
		opts := llmcall.RecordOptions{
			JobID:     JobIDFrom(ctx),
			Step:      step,
			PromptKey: userKey,
		}
		if g.prompts != nil {
			opts.PromptHash = g.prompts.Hash(systemKey) + ":" + g.prompts.Hash(userKey)
		}
		if g.temperature > 0 {
			temp := g.temperature
			opts.Temperature = &temp
		}
		g.recorder.Record(result, opts)

		if err != nil {
			return "", err
		}
		return result.Content, nil
	}
	return workflow.Wrap(g.stepper, step, call)
}

func generate[T any](ctx context.Context, g *Generator, kind Kind, spec structured.Spec[T], prompt structured.Prompt) structured.Outcome[T] {
	return structured.Generate(ctx, spec, prompt, g.caller(kind, spec.Schema),
		structured.WithLogger(g.logger.With("job_id", JobIDFrom(ctx))),
		structured.WithRawLogLimit(g.rawLogLimit),
	)
}

// Summary generates the episode summary.
func (g *Generator) Summary(ctx context.Context, t *transcript.Transcript) summary.Result {
	return g.summary(ctx, t).Value
}

func (g *Generator) summary(ctx context.Context, t *transcript.Transcript) structured.Outcome[summary.Result] {
	return generate(ctx, g, KindSummary, summary.Spec, summary.Build(t))
}

// Titles generates title suggestions.
func (g *Generator) Titles(ctx context.Context, t *transcript.Transcript) titles.Result {
	return g.titles(ctx, t).Value
}

func (g *Generator) titles(ctx context.Context, t *transcript.Transcript) structured.Outcome[titles.Result] {
	return generate(ctx, g, KindTitles, titles.Spec, titles.Build(t))
}

// Hashtags generates per-platform hashtags.
func (g *Generator) Hashtags(ctx context.Context, t *transcript.Transcript) hashtags.Result {
	return g.hashtags(ctx, t).Value
}

func (g *Generator) hashtags(ctx context.Context, t *transcript.Transcript) structured.Outcome[hashtags.Result] {
	return generate(ctx, g, KindHashtags, hashtags.Spec, hashtags.Build(t))
}

// SocialPosts generates one promotional post per platform.
func (g *Generator) SocialPosts(ctx context.Context, t *transcript.Transcript) social.Result {
	return g.socialPosts(ctx, t).Value
}

func (g *Generator) socialPosts(ctx context.Context, t *transcript.Transcript) structured.Outcome[social.Result] {
	return generate(ctx, g, KindSocial, social.Spec, social.Build(t))
}

// KeyMoments returns one key moment per chapter. Without chapters it returns
// an empty list and makes no call.
func (g *Generator) KeyMoments(ctx context.Context, t *transcript.Transcript) []keymoments.KeyMoment {
	return g.keyMoments(ctx, t).Value
}

func (g *Generator) keyMoments(ctx context.Context, t *transcript.Transcript) structured.Outcome[[]keymoments.KeyMoment] {
	anchors := t.Anchors(0)
	if len(anchors) == 0 {
		g.logger.Info("no chapters, skipping generation", "step", keymoments.StepName)
		return structured.Outcome[[]keymoments.KeyMoment]{Value: []keymoments.KeyMoment{}}
	}
	out := generate(ctx, g, KindKeyMoments, keymoments.Spec, keymoments.Build(anchors))
	return structured.Outcome[[]keymoments.KeyMoment]{
		Value:        keymoments.Merge(anchors, out.Value),
		UsedFallback: out.UsedFallback,
		Err:          out.Err,
		Raw:          out.Raw,
	}
}

// YouTubeTimestamps returns chapter timestamps for a YouTube description,
// capped at the first MaxYouTubeChapters chapters. Without chapters it
// returns an empty list and makes no call.
func (g *Generator) YouTubeTimestamps(ctx context.Context, t *transcript.Transcript) []timestamps.YouTubeTimestamp {
	return g.youtubeTimestamps(ctx, t).Value
}

func (g *Generator) youtubeTimestamps(ctx context.Context, t *transcript.Transcript) structured.Outcome[[]timestamps.YouTubeTimestamp] {
	anchors := t.Anchors(transcript.MaxYouTubeChapters)
	if len(anchors) == 0 {
		g.logger.Info("no chapters, skipping generation", "step", timestamps.StepName)
		return structured.Outcome[[]timestamps.YouTubeTimestamp]{Value: []timestamps.YouTubeTimestamp{}}
	}
	out := generate(ctx, g, KindYouTubeTimestamps, timestamps.Spec, timestamps.Build(anchors))
	return structured.Outcome[[]timestamps.YouTubeTimestamp]{
		Value:        timestamps.Merge(anchors, out.Value),
		UsedFallback: out.UsedFallback,
		Err:          out.Err,
		Raw:          out.Raw,
	}
}

// Result is one generated asset.
type Result struct {
	Kind         Kind
	Value        any
	UsedFallback bool
	// Err is the failure behind a fallback, wrapping one of the
	// structured failure kinds.
	Err error
}

// Transient reports whether the fallback came from a backend call that a
// later attempt might get through.
func (r Result) Transient() bool {
	return r.UsedFallback && errors.Is(r.Err, structured.ErrTransport)
}

func resultOf[T any](kind Kind, o structured.Outcome[T]) Result {
	return Result{Kind: kind, Value: o.Value, UsedFallback: o.UsedFallback, Err: o.Err}
}

// Run generates a single kind. The error is only for an unknown kind;
// generation failures yield the kind's fallback with the cause in Err.
func (g *Generator) Run(ctx context.Context, kind Kind, t *transcript.Transcript) (Result, error) {
	switch kind {
	case KindSummary:
		return resultOf(kind, g.summary(ctx, t)), nil
	case KindTitles:
		return resultOf(kind, g.titles(ctx, t)), nil
	case KindHashtags:
		return resultOf(kind, g.hashtags(ctx, t)), nil
	case KindSocial:
		return resultOf(kind, g.socialPosts(ctx, t)), nil
	case KindKeyMoments:
		return resultOf(kind, g.keyMoments(ctx, t)), nil
	case KindYouTubeTimestamps:
		return resultOf(kind, g.youtubeTimestamps(ctx, t)), nil
	default:
		return Result{Kind: kind}, fmt.Errorf("unknown asset kind: %q", kind)
	}
}

// Generate runs a single kind and returns its value and whether it is the
// fallback.
func (g *Generator) Generate(ctx context.Context, kind Kind, t *transcript.Transcript) (any, bool, error) {
	r, err := g.Run(ctx, kind, t)
	if err != nil {
		return nil, false, err
	}
	return r.Value, r.UsedFallback, nil
}

// Phase is a step lifecycle event.
type Phase string

const (
	PhaseStarted   Phase = "started"
	PhaseCompleted Phase = "completed"
)

// StepObserver is told when each asset starts and finishes.
type StepObserver func(ctx context.Context, kind Kind, phase Phase)

// Bundle generates every asset concurrently. Each asset has its own prompt,
// schema and fallback, so they share no mutable state. The only error is
// ctx being done.
func (g *Generator) Bundle(ctx context.Context, t *transcript.Transcript, observe StepObserver) (*Bundle, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if observe == nil {
		observe = func(context.Context, Kind, Phase) {}
	}

	b := &Bundle{}
	var mu sync.Mutex
	fellBack := func(kind Kind, used bool) {
		if !used {
			return
		}
		mu.Lock()
		b.Fallbacks = append(b.Fallbacks, kind)
		mu.Unlock()
	}

	eg, egCtx := errgroup.WithContext(ctx)
	if g.concurrency > 0 {
		eg.SetLimit(g.concurrency)
	}
	for _, kind := range Kinds {
		eg.Go(func() error {
			observe(egCtx, kind, PhaseStarted)
			var used bool
			switch kind {
			case KindSummary:
				o := g.summary(egCtx, t)
				b.Summary, used = o.Value, o.UsedFallback
			case KindTitles:
				o := g.titles(egCtx, t)
				b.Titles, used = o.Value, o.UsedFallback
			case KindHashtags:
				o := g.hashtags(egCtx, t)
				b.Hashtags, used = o.Value, o.UsedFallback
			case KindSocial:
				o := g.socialPosts(egCtx, t)
				b.Social, used = o.Value, o.UsedFallback
			case KindKeyMoments:
				o := g.keyMoments(egCtx, t)
				b.KeyMoments, used = o.Value, o.UsedFallback
			case KindYouTubeTimestamps:
				o := g.youtubeTimestamps(egCtx, t)
				b.YouTubeTimestamps, used = o.Value, o.UsedFallback
			}
			fellBack(kind, used)
			observe(egCtx, kind, PhaseCompleted)
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("asset generation interrupted: %w", err)
	}
	b.sortFallbacks()
	return b, nil
}
