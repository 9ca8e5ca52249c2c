package app

import (
	"context"

	"classroom-service/internal/domain"
	"classroom-service/internal/logging"
)

// FeedRegistry delivers results to the live subscribers of a teacher.
// Subscribe must attach atomically: a subscriber is never left on a feed that
// Publish can no longer reach.
type FeedRegistry interface {
	Subscribe(teacherID string) (<-chan domain.QuizResult, func())
	Publish(ctx context.Context, teacherID string, result domain.QuizResult) error
}

// ResultFeed fans newly created results out to the owning teacher's live subscribers.
type ResultFeed struct {
	feeds FeedRegistry
}

func NewResultFeed(feeds FeedRegistry) *ResultFeed {
	return &ResultFeed{feeds: feeds}
}

// Subscribe returns a channel of results for quizzes owned by teacherID.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *ResultFeed) Subscribe(_ context.Context, teacherID string) (<-chan domain.QuizResult, func()) {
	return f.feeds.Subscribe(teacherID)
}

// Publish delivers result to teacherID's subscribers. Delivery is best effort.
func (f *ResultFeed) Publish(ctx context.Context, teacherID string, result domain.QuizResult) {
	if err := f.feeds.Publish(ctx, teacherID, result); err != nil {
		logging.FromContext(ctx).WithError(err).WithField("teacher_id", teacherID).Warn("result feed publish failed")
	}
}
