package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/gamestate/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Publisher sends events to every Source listening on the same prefix.
type Publisher struct {
	client *backend.Client
	cfg    config
}

// NewPublisher creates a publisher.
func NewPublisher(client *backend.Client, opts ...Option) *Publisher {
	return &Publisher{client: client, cfg: newConfig(opts)}
}

// Channel returns the channel an event key is published on.
func (p *Publisher) Channel(key domain.EventKey) string {
	return p.cfg.eventsPrefix() + key.String()
}

// Publish sends e and returns the number of subscribers that received it.
func (p *Publisher) Publish(ctx context.Context, e domain.Event) (int64, error) {
	payload := ""
	if len(e.Args) > 0 {
		data, err := json.Marshal(e.Args)
		if err != nil {
			return 0, fmt.Errorf("encode args: %w", err)
		}
		payload = string(data)
	}
	n, err := p.client.Publish(ctx, p.Channel(e.EventKey), payload).Result()
	if err != nil {
		return 0, fmt.Errorf("redis publish: %w", err)
	}
	return n, nil
}

// Mirror stores the session's active path in Redis whenever it changes, so
// dashboards can read it without talking to the host.
type Mirror struct {
	client *backend.Client
	cfg    config
	ctx    context.Context

	mu   sync.Mutex
	last string
	seen bool
}

// NewMirror creates a mirror. ctx bounds every Redis call it makes.
func NewMirror(ctx context.Context, client *backend.Client, opts ...Option) *Mirror {
	return &Mirror{client: client, cfg: newConfig(opts), ctx: ctx}
}

// Key returns the key holding the snapshot of root.
func (m *Mirror) Key(root string) string {
	return m.cfg.stateKey(root)
}

// Observe is a tick observer (see runner.WithTickObserver).
func (m *Mirror) Observe(s *domain.Snapshot) {
	if s == nil {
		return
	}
	path := strings.Join(s.ActivePath(), domain.PathSeparator)

	m.mu.Lock()
	changed := !m.seen || path != m.last
	m.last, m.seen = path, true
	m.mu.Unlock()
	if !changed {
		return
	}
	if err := m.Store(s); err != nil {
		m.cfg.logger.Warn("redis mirror failed", "err", err)
	}
}

// Store writes s and announces the new active path.
func (m *Mirror) Store(s *domain.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	key := m.Key(s.Name)
	if err := m.client.Set(m.ctx, key, data, m.cfg.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	path := strings.Join(s.ActivePath(), domain.PathSeparator)
	if err := m.client.Publish(m.ctx, key, path).Err(); err != nil {
		return fmt.Errorf("redis publish %q: %w", key, err)
	}
	return nil
}

// Load reads the snapshot stored for root.
func (m *Mirror) Load(ctx context.Context, root string) (*domain.Snapshot, error) {
	data, err := m.client.Get(ctx, m.Key(root)).Bytes()
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", m.Key(root), err)
	}
	var s domain.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}
