package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nagdatt/ai-podcast-saas/internal/providers"
)

// DefaultProviderWorkers bounds concurrent backend calls when the config
// leaves it unset.
const DefaultProviderWorkers = 8

// ErrPoolStopped is returned by Chat once the pool has been stopped.
var ErrPoolStopped = errors.New("provider pool stopped")

// ProviderPool fronts one LLM client with a fixed set of workers. Every
// running job submits its steps here, so the backend sees at most Workers
// requests at once however many jobs run. Rate limiting stays with the
// client's own limiter.
//
// ProviderPool implements providers.LLMClient.
type ProviderPool struct {
	client  providers.LLMClient
	workers int
	logger  *slog.Logger

	work    chan *poolUnit
	stopped chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	once    sync.Once

	queued    atomic.Int32
	inFlight  atomic.Int32
	completed atomic.Int64
	failed    atomic.Int64
}

// ProviderPoolConfig configures a new provider pool.
type ProviderPoolConfig struct {
	Client providers.LLMClient
	Logger *slog.Logger

	// Number of worker goroutines (default: DefaultProviderWorkers)
	Workers int
}

type poolUnit struct {
	ctx      context.Context
	req      *providers.ChatRequest
	enqueued time.Time
	done     chan poolResult
}

type poolResult struct {
	result *providers.ChatResult
	err    error
}

// PoolStatus is a snapshot of pool activity.
type PoolStatus struct {
	Provider  string `json:"provider"`
	Workers   int    `json:"workers"`
	Queued    int    `json:"queued"`
	InFlight  int    `json:"in_flight"`
	Completed int64  `json:"completed"`
	Failed    int64  `json:"failed"`
}

// NewProviderPool creates a pool. Call Start before submitting work.
func NewProviderPool(cfg ProviderPoolConfig) (*ProviderPool, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("provider pool requires a client")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultProviderWorkers
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProviderPool{
		client:  cfg.Client,
		workers: cfg.Workers,
		logger:  logger.With("component", "provider_pool", "workers", cfg.Workers),
		work:    make(chan *poolUnit),
		stopped: make(chan struct{}),
	}, nil
}

// Start launches the workers. They run until Stop or ctx is cancelled.
func (p *ProviderPool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
	p.logger.Debug("provider pool started")
}

// Stop rejects new work and waits for in-flight calls to return.
func (p *ProviderPool) Stop() {
	p.once.Do(func() {
		close(p.stopped)
		if p.cancel != nil {
			p.cancel()
		}
	})
	p.wg.Wait()
	p.logger.Debug("provider pool stopped")
}

// Name returns the wrapped client's name.
func (p *ProviderPool) Name() string {
	return p.client.Name()
}

// Chat queues req for the next free worker and waits for its result. The
// time spent waiting is added to the result's QueueTime.
func (p *ProviderPool) Chat(ctx context.Context, req *providers.ChatRequest) (*providers.ChatResult, error) {
	unit := &poolUnit{ctx: ctx, req: req, enqueued: time.Now(), done: make(chan poolResult, 1)}

	p.queued.Add(1)
	select {
	case p.work <- unit:
	case <-ctx.Done():
		p.queued.Add(-1)
		return nil, ctx.Err()
	case <-p.stopped:
		p.queued.Add(-1)
		return nil, ErrPoolStopped
	}

	select {
	case r := <-unit.done:
		return r.result, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *ProviderPool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case unit := <-p.work:
			p.queued.Add(-1)
			unit.done <- p.process(unit)
		}
	}
}

func (p *ProviderPool) process(unit *poolUnit) poolResult {
	p.inFlight.Add(1)
	defer p.inFlight.Add(-1)

	wait := time.Since(unit.enqueued)
	if err := unit.ctx.Err(); err != nil {
		p.failed.Add(1)
		return poolResult{err: err}
	}

	result, err := p.client.Chat(unit.ctx, unit.req)
	if result != nil {
		result.QueueTime += wait
	}
	if err != nil || result == nil || !result.Success {
		p.failed.Add(1)
		p.logger.Debug("pooled call failed", "provider", p.client.Name(), "queue_time", wait, "error", err)
	} else {
		p.completed.Add(1)
	}
	return poolResult{result: result, err: err}
}

// Status returns current pool activity.
func (p *ProviderPool) Status() PoolStatus {
	return PoolStatus{
		Provider:  p.client.Name(),
		Workers:   p.workers,
		Queued:    int(p.queued.Load()),
		InFlight:  int(p.inFlight.Load()),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
	}
}
