package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Source forwards events published on Redis into an EventSink.
type Source struct {
	client *backend.Client
	sink   ports.EventSink
	cfg    config
	ready  chan struct{}
}

// NewSource creates a source that queues events into sink.
func NewSource(client *backend.Client, sink ports.EventSink, opts ...Option) *Source {
	return &Source{
		client: client,
		sink:   sink,
		cfg:    newConfig(opts),
		ready:  make(chan struct{}),
	}
}

// Ready is closed once the subscription is confirmed by the server.
func (s *Source) Ready() <-chan struct{} { return s.ready }

// Run subscribes and forwards events until ctx is cancelled.
func (s *Source) Run(ctx context.Context) error {
	pubsub := s.client.PSubscribe(ctx, s.cfg.eventsPattern())
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe %q: %w", s.cfg.eventsPattern(), err)
	}
	close(s.ready)
	s.cfg.logger.Info("redis event source subscribed", "pattern", s.cfg.eventsPattern())

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.handle(msg)
		}
	}
}

func (s *Source) handle(msg *backend.Message) {
	e, err := decodeMessage(s.cfg.eventsPrefix(), msg.Channel, msg.Payload)
	if err != nil {
		s.cfg.logger.Warn("invalid redis event", "channel", msg.Channel, "err", err)
		return
	}
	if err := s.sink.Enqueue(e); err != nil {
		s.cfg.logger.Warn("redis event not queued", "event", e.String(), "err", err)
	}
}

func decodeMessage(prefix, channel, payload string) (domain.Event, error) {
	key, err := domain.ParseEventKey(strings.TrimPrefix(channel, prefix))
	if err != nil {
		return domain.Event{}, err
	}
	e := domain.Event{EventKey: key}
	if strings.TrimSpace(payload) == "" {
		return e, nil
	}
	if err := json.Unmarshal([]byte(payload), &e.Args); err != nil {
		return domain.Event{}, fmt.Errorf("decode args: %w", err)
	}
	return e, nil
}
