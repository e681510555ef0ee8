package llmcall

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nagdatt/ai-podcast-saas/internal/providers"
)

// RecorderConfig configures batching.
type RecorderConfig struct {
	BatchSize     int           // Flush after N calls (default: 50)
	FlushInterval time.Duration // Or after duration (default: 2s)
	QueueSize     int           // Buffer size (default: 500)
	Logger        *slog.Logger
}

// Recorder handles fire-and-forget LLM call recording. Calls are queued and
// written in batches so recording never slows a generation step.
type Recorder struct {
	store  *Store
	logger *slog.Logger

	batchSize     int
	flushInterval time.Duration

	queue chan *Call

	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
	mu        sync.RWMutex
	stopped   bool
}

// NewRecorder creates a new LLM call recorder. A nil store disables
// recording.
func NewRecorder(store *Store, cfg RecorderConfig) *Recorder {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 2 * time.Second
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 500
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Recorder{
		store:         store,
		logger:        cfg.Logger,
		batchSize:     cfg.BatchSize,
		flushInterval: cfg.FlushInterval,
		queue:         make(chan *Call, cfg.QueueSize),
	}
}

// Start begins the background writer.
func (r *Recorder) Start() {
	if r == nil || r.store == nil {
		return
	}
	r.startOnce.Do(func() {
		r.wg.Add(1)
		go r.run()
	})
}

// Stop flushes queued calls and stops the writer.
func (r *Recorder) Stop() {
	if r == nil || r.store == nil {
		return
	}
	r.stopOnce.Do(func() {
		r.mu.Lock()
		r.stopped = true
		close(r.queue)
		r.mu.Unlock()
		r.wg.Wait()
	})
}

// Record captures an LLM call asynchronously.
func (r *Recorder) Record(result *providers.ChatResult, opts RecordOptions) {
	r.RecordCall(FromChatResult(result, opts))
}

// RecordCall captures an already-constructed Call asynchronously. Calls are
// dropped when the queue is full or the recorder is stopped.
func (r *Recorder) RecordCall(call *Call) {
	if r == nil || r.store == nil || call == nil {
		return
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.stopped {
		r.logger.Warn("recorder stopped, dropping llm call", "prompt_key", call.PromptKey)
		return
	}
	select {
	case r.queue <- call:
	default:
		r.logger.Warn("recorder queue full, dropping llm call", "prompt_key", call.PromptKey)
	}
}

func (r *Recorder) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	batch := make([]*Call, 0, r.batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := r.store.Create(ctx, batch); err != nil {
			r.logger.Error("failed to write llm calls", "count", len(batch), "error", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case call, ok := <-r.queue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, call)
			if len(batch) >= r.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
