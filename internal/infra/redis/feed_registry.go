package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"classroom-service/internal/domain"
	"classroom-service/internal/infra/memory"
	"classroom-service/internal/logging"
	"github.com/redis/go-redis/v9"
)

const feedChannelPrefix = "feed:teacher:"

// FeedRegistry fans results out across instances with Redis pub/sub.
// Publish sends to feed:teacher:{teacherID}; every instance pattern-subscribes
// to feed:teacher:* and hands what arrives to its local subscribers.
type FeedRegistry struct {
	client *redis.Client
	local  *memory.FeedRegistry
	pubsub *redis.PubSub
	done   chan struct{}
}

// NewFeedRegistry subscribes to the feed channels and returns once Redis has
// confirmed the subscription. Close stops forwarding.
func NewFeedRegistry(ctx context.Context, client *redis.Client) (*FeedRegistry, error) {
	pubsub := client.PSubscribe(ctx, feedChannelPrefix+"*")
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe result feed: %w", err)
	}

	r := &FeedRegistry{
		client: client,
		local:  memory.NewFeedRegistry(),
		pubsub: pubsub,
		done:   make(chan struct{}),
	}
	go r.forward(pubsub.Channel())
	return r, nil
}

func (r *FeedRegistry) Subscribe(teacherID string) (<-chan domain.QuizResult, func()) {
	return r.local.Subscribe(teacherID)
}

func (r *FeedRegistry) Publish(ctx context.Context, teacherID string, result domain.QuizResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return r.client.Publish(ctx, feedChannelPrefix+teacherID, payload).Err()
}

func (r *FeedRegistry) Close() error {
	err := r.pubsub.Close()
	<-r.done
	return err
}

func (r *FeedRegistry) forward(messages <-chan *redis.Message) {
	defer close(r.done)
	for msg := range messages {
		teacherID := strings.TrimPrefix(msg.Channel, feedChannelPrefix)
		var result domain.QuizResult
		if err := json.Unmarshal([]byte(msg.Payload), &result); err != nil {
			logging.Logger().WithError(err).WithField("channel", msg.Channel).Warn("dropping malformed feed message")
			continue
		}
		// Ids travel inside the populated references.
		result.QuizID = result.Quiz.ID
		result.StudentID = result.Student.ID
		r.local.Deliver(teacherID, result)
	}
}
