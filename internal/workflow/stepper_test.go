package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagdatt/ai-podcast-saas/internal/structured"
)

func flaky(failures int) (Step, *int) {
	calls := 0
	return func(ctx context.Context) (string, error) {
		calls++
		if calls <= failures {
			return "", errors.New("temporary")
		}
		return "ok", nil
	}, &calls
}

func TestLocalStepper_RetriesUntilSuccess(t *testing.T) {
	s := NewLocalStepper(3, time.Millisecond, nil)
	step, calls := flaky(2)

	out, err := s.Run(context.Background(), "generate-titles", step)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, *calls)
}

func TestLocalStepper_GivesUp(t *testing.T) {
	s := NewLocalStepper(2, time.Millisecond, nil)
	step, calls := flaky(5)

	_, err := s.Run(context.Background(), "generate-titles", step)
	require.Error(t, err)
	assert.Equal(t, "temporary", err.Error())
	assert.Equal(t, 2, *calls)
}

func TestLocalStepper_StopsOnCancel(t *testing.T) {
	s := NewLocalStepper(5, time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := s.Run(ctx, "generate-summary", func(ctx context.Context) (string, error) {
		calls++
		cancel()
		return "", ctx.Err()
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDirectStepper_RunsOnce(t *testing.T) {
	step, calls := flaky(1)
	_, err := DirectStepper{}.Run(context.Background(), "x", step)
	assert.Error(t, err)
	assert.Equal(t, 1, *calls)
}

func TestWrap(t *testing.T) {
	var seen structured.Prompt
	caller := func(ctx context.Context, p structured.Prompt) (string, error) {
		seen = p
		return "raw", nil
	}

	wrapped := Wrap(DirectStepper{}, "generate-hashtags", caller)
	out, err := wrapped(context.Background(), structured.Prompt{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "raw", out)
	assert.Equal(t, "hi", seen.User)
}
