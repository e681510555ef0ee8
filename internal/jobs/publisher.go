package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Update is one status transition as published to listeners.
type Update struct {
	JobID     string    `json:"jobId"`
	State     State     `json:"state"`
	Step      Step      `json:"step,omitempty"`
	Status    JobStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpdateFor builds the update describing job after a change to step.
func UpdateFor(job *Job, step Step) Update {
	return Update{
		JobID:     job.ID,
		State:     job.State,
		Step:      step,
		Status:    job.Status,
		Error:     job.Error,
		UpdatedAt: job.UpdatedAt,
	}
}

// Publisher fans status updates out to listeners.
type Publisher interface {
	Publish(ctx context.Context, u Update) error
	Close() error
}

// NopPublisher discards updates.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Update) error { return nil }
func (NopPublisher) Close() error                          { return nil }

// RedisConfig configures RedisPublisher.
type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	ChannelPrefix string
}

// DefaultChannelPrefix prefixes job channels when none is configured.
const DefaultChannelPrefix = "podsaas:jobs"

// RedisPublisher publishes updates on one redis channel per job.
type RedisPublisher struct {
	rdb    *goredis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisPublisher connects to redis and verifies the connection.
func NewRedisPublisher(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (*RedisPublisher, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	prefix := cfg.ChannelPrefix
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisPublisher{
		rdb:    rdb,
		prefix: prefix,
		logger: logger.With("component", "redis_publisher"),
	}, nil
}

// Channel returns the channel updates for jobID are published on.
func Channel(prefix, jobID string) string {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return prefix + ":" + jobID
}

// Publish sends u on the job's channel.
func (p *RedisPublisher) Publish(ctx context.Context, u Update) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, Channel(p.prefix, u.JobID), raw).Err()
}

// Subscribe calls onUpdate for every update on jobID until ctx is done.
func (p *RedisPublisher) Subscribe(ctx context.Context, jobID string, onUpdate func(Update)) error {
	if onUpdate == nil {
		return fmt.Errorf("onUpdate callback required")
	}
	sub := p.rdb.Subscribe(ctx, Channel(p.prefix, jobID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var u Update
				if err := json.Unmarshal([]byte(m.Payload), &u); err != nil {
					p.logger.Warn("bad job update payload", "error", err)
					continue
				}
				onUpdate(u)
			}
		}
	}()
	return nil
}

// Ping checks the redis connection.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}

// Close closes the redis client.
func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}

// MemoryPublisher keeps updates in memory. Used by tests and the CLI.
type MemoryPublisher struct {
	mu      sync.Mutex
	updates []Update
}

func (m *MemoryPublisher) Publish(_ context.Context, u Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, u)
	return nil
}

func (m *MemoryPublisher) Close() error { return nil }

// Updates returns a copy of everything published so far.
func (m *MemoryPublisher) Updates() []Update {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Update, len(m.updates))
	copy(out, m.updates)
	return out
}
