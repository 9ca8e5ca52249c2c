package memory

import (
	"context"
	"sync"

	"classroom-service/internal/domain"
)

const feedBuffer = 8

// FeedRegistry keeps per-teacher subscriber sets in process. Attaching a
// subscriber and removing an idle feed both happen under mu, so a new
// subscriber always lands on the feed Deliver sees.
type FeedRegistry struct {
	mu    sync.Mutex
	feeds map[string]*feed
}

// feed is one teacher's subscriber set. Slow subscribers lose their oldest
// pending result rather than blocking delivery.
type feed struct {
	subscribers map[chan domain.QuizResult]struct{}
}

func NewFeedRegistry() *FeedRegistry {
	return &FeedRegistry{feeds: make(map[string]*feed)}
}

func (r *FeedRegistry) Subscribe(teacherID string) (<-chan domain.QuizResult, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.feeds[teacherID]
	if !ok {
		f = &feed{subscribers: make(map[chan domain.QuizResult]struct{})}
		r.feeds[teacherID] = f
	}
	ch := make(chan domain.QuizResult, feedBuffer)
	f.subscribers[ch] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(f.subscribers, ch)
			close(ch)
			if len(f.subscribers) == 0 && r.feeds[teacherID] == f {
				delete(r.feeds, teacherID)
			}
		})
	}
	return ch, cancel
}

// Publish delivers in process; there is nothing to fail.
func (r *FeedRegistry) Publish(_ context.Context, teacherID string, result domain.QuizResult) error {
	r.Deliver(teacherID, result)
	return nil
}

// Deliver hands result to every local subscriber of teacherID.
func (r *FeedRegistry) Deliver(teacherID string, result domain.QuizResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.feeds[teacherID]
	if !ok {
		return
	}
	for ch := range f.subscribers {
		select {
		case ch <- result:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- result
		}
	}
}

// Subscribers reports how many local subscribers teacherID has.
func (r *FeedRegistry) Subscribers(teacherID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.feeds[teacherID]; ok {
		return len(f.subscribers)
	}
	return 0
}
