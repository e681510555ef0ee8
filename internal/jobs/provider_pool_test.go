package jobs

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagdatt/ai-podcast-saas/internal/providers"
)

// gatedClient holds every call until release is closed and records the peak
// number of concurrent calls.
type gatedClient struct {
	release chan struct{}
	active  atomic.Int32
	peak    atomic.Int32
}

func (c *gatedClient) Name() string { return "gated" }

func (c *gatedClient) Chat(ctx context.Context, req *providers.ChatRequest) (*providers.ChatResult, error) {
	n := c.active.Add(1)
	defer c.active.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	select {
	case <-c.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &providers.ChatResult{Content: "ok", Success: true}, nil
}

func newTestPool(t *testing.T, client providers.LLMClient, workers int) *ProviderPool {
	t.Helper()
	pool, err := NewProviderPool(ProviderPoolConfig{Client: client, Workers: workers})
	require.NoError(t, err)
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)
	return pool
}

func TestNewProviderPool_RequiresClient(t *testing.T) {
	_, err := NewProviderPool(ProviderPoolConfig{})
	require.Error(t, err)

	pool, err := NewProviderPool(ProviderPoolConfig{Client: providers.NewMockClient()})
	require.NoError(t, err)
	assert.Equal(t, DefaultProviderWorkers, pool.Status().Workers)
}

func TestProviderPool_BoundsConcurrency(t *testing.T) {
	client := &gatedClient{release: make(chan struct{})}
	pool := newTestPool(t, client, 2)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := pool.Chat(context.Background(), &providers.ChatRequest{})
			assert.NoError(t, err)
			assert.Equal(t, "ok", res.Content)
		}()
	}

	require.Eventually(t, func() bool {
		s := pool.Status()
		return s.InFlight == 2 && s.Queued == 4
	}, 2*time.Second, 5*time.Millisecond)

	close(client.release)
	wg.Wait()

	assert.Equal(t, int32(2), client.peak.Load())
	s := pool.Status()
	assert.Equal(t, int64(6), s.Completed)
	assert.Equal(t, int64(0), s.Failed)
	assert.Equal(t, 0, s.InFlight)
	assert.Equal(t, "gated", s.Provider)
}

func TestProviderPool_CountsFailures(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ShouldFail = true
	pool := newTestPool(t, mock, 1)

	_, err := pool.Chat(context.Background(), &providers.ChatRequest{})
	require.Error(t, err)
	assert.Equal(t, int64(1), pool.Status().Failed)
	assert.Equal(t, "mock", pool.Name())
}

func TestProviderPool_CallerCancelWhileQueued(t *testing.T) {
	client := &gatedClient{release: make(chan struct{})}
	pool := newTestPool(t, client, 1)
	defer close(client.release)

	go func() { _, _ = pool.Chat(context.Background(), &providers.ChatRequest{}) }()
	require.Eventually(t, func() bool { return pool.Status().InFlight == 1 }, 2*time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := pool.Chat(ctx, &providers.ChatRequest{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, pool.Status().Queued)
}

func TestProviderPool_StoppedRejectsWork(t *testing.T) {
	pool, err := NewProviderPool(ProviderPoolConfig{Client: providers.NewMockClient(), Workers: 1})
	require.NoError(t, err)
	pool.Start(context.Background())
	pool.Stop()

	_, err = pool.Chat(context.Background(), &providers.ChatRequest{})
	require.ErrorIs(t, err, ErrPoolStopped)
}
