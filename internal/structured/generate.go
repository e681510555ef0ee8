package structured

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// DefaultRawLogLimit bounds how much raw model text is logged on failure.
const DefaultRawLogLimit = 500

// Prompt is the text sent to a generation backend. Backends without role
// support receive Text().
type Prompt struct {
	System string
	User   string
}

// Text joins the system and user parts the way single-message backends expect.
func (p Prompt) Text() string {
	switch {
	case p.System == "":
		return p.User
	case p.User == "":
		return p.System
	default:
		return p.System + "\n\n" + p.User
	}
}

// Caller sends a prompt to a generation backend and returns the raw text.
// It may be wrapped by a durable step runner that retries.
type Caller func(ctx context.Context, prompt Prompt) (string, error)

// Spec describes one use case: its step name, output contract and the static
// placeholder returned on any failure.
type Spec[T any] struct {
	Name   string
	Schema *Schema
	// Fallback builds the placeholder. A constructor rather than a value so
	// callers can never mutate a shared fallback.
	Fallback func() T
}

// Outcome reports how a generation ended.
type Outcome[T any] struct {
	Value T
	// UsedFallback is true when Value is the fallback.
	UsedFallback bool
	// Err is the failure that triggered the fallback, wrapping ErrTransport,
	// ErrNotFound or ErrValidation.
	Err error
	Raw string
}

type options struct {
	logger      *slog.Logger
	rawLogLimit int
}

// Option configures a generation.
type Option func(*options)

// WithLogger sets the logger used for failure diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRawLogLimit sets how many characters of raw output are logged.
func WithRawLogLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.rawLogLimit = n
		}
	}
}

// Generate calls the backend, extracts and validates the result and reports
// the outcome. It never returns a value that fails spec.Schema.
func Generate[T any](ctx context.Context, spec Spec[T], prompt Prompt, caller Caller, opts ...Option) Outcome[T] {
	o := options{logger: slog.Default(), rawLogLimit: DefaultRawLogLimit}
	for _, opt := range opts {
		opt(&o)
	}

	raw, err := caller(ctx, prompt)
	if err != nil {
		return fallback(spec, o, raw, fmt.Errorf("%w: %v", ErrTransport, err))
	}

	doc, err := ExtractJSON(raw)
	if err != nil {
		return fallback(spec, o, raw, err)
	}

	value, err := Decode[T](doc, spec.Schema)
	if err != nil {
		if !errors.Is(err, ErrValidation) {
			err = fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return fallback(spec, o, raw, err)
	}

	return Outcome[T]{Value: value, Raw: raw}
}

// GenerateWithFallback returns the validated result, or spec's fallback when
// the call, extraction or validation fails. No retries happen here.
func GenerateWithFallback[T any](ctx context.Context, spec Spec[T], prompt Prompt, caller Caller, opts ...Option) T {
	return Generate(ctx, spec, prompt, caller, opts...).Value
}

func fallback[T any](spec Spec[T], o options, raw string, err error) Outcome[T] {
	attrs := []any{
		"step", spec.Name,
		"reason", failureKind(err),
		"error", err,
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		attrs = append(attrs, "field", verr.Field)
	}
	if raw != "" {
		attrs = append(attrs, "raw", Truncate(raw, o.rawLogLimit))
	}
	o.logger.Warn("structured generation failed, using fallback", attrs...)

	return Outcome[T]{
		Value:        spec.Fallback(),
		UsedFallback: true,
		Err:          err,
		Raw:          raw,
	}
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrNotFound):
		return "extraction"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "unknown"
	}
}

// Truncate shortens s to at most n characters, marking the cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n]) + "...[truncated]"
}
