package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"shelfmate/internal/models"
)

// Subscription is an explicit handle on one user's activity stream.
// Callers own its lifecycle: subscribe, range over Events, and Close on
// teardown. Events closes when the subscription ends, whether by Close or
// by transport disconnect; either way the caller keeps its last-known-good
// feed and may re-seed from a fresh fetch.
type Subscription struct {
	pubsub *redis.PubSub
	events chan models.Activity
	cancel context.CancelFunc
}

// Events delivers pushed activity in transport order.
func (s *Subscription) Events() <-chan models.Activity {
	return s.events
}

// Close releases the subscription. Safe to call on all exit paths.
func (s *Subscription) Close() error {
	s.cancel()
	return s.pubsub.Close()
}

type Subscriber struct {
	client *redis.Client
}

func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe opens a subscription to one recipient's activity channel. The
// returned handle must be closed by the caller; if setup fails partway,
// everything acquired so far is released before returning.
func (s *Subscriber) Subscribe(ctx context.Context, userID string) (*Subscription, error) {
	pubsub := s.client.Subscribe(ctx, channelFor(userID))

	// Confirm the subscription before handing it out, so a caller never
	// holds a handle that silently receives nothing.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe activity channel: %w", err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		pubsub: pubsub,
		events: make(chan models.Activity, 16),
		cancel: cancel,
	}

	go sub.pump(subCtx, userID)
	return sub, nil
}

// pump decodes messages until the channel closes or the context ends.
// A malformed payload is logged and skipped rather than tearing the
// subscription down.
func (s *Subscription) pump(ctx context.Context, userID string) {
	defer close(s.events)

	ch := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var activity models.Activity
			if err := json.Unmarshal([]byte(msg.Payload), &activity); err != nil {
				log.Printf("[realtime] Dropping malformed activity for user %s: %v", userID, err)
				continue
			}
			select {
			case s.events <- activity:
			case <-ctx.Done():
				return
			}
		}
	}
}
