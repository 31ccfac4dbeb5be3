package resource

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mtran/volunteer-hub/internal/backend"
	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/store"
)

// FeedbackFilter restricts feedback reads. Nil fields match everything.
type FeedbackFilter struct {
	EventID     *string
	Category    *string
	SubmittedBy *string

	// MinRating keeps entries rated at or above the given score.
	MinRating *int
}

// FeedbackStore is the feedback resource store.
type FeedbackStore struct {
	inner *Store[model.Feedback]
}

// NewFeedbackStore creates the feedback store over the given backend.
func NewFeedbackStore(b backend.Backend, actor func() *model.Identity, seeded bool) *FeedbackStore {
	cfg := Config[model.Feedback]{
		Name:       "feedback",
		Collection: b.Collection(store.Key("feedback")),
		Actor:      actor,
		ID:         func(f model.Feedback) string { return f.ID },
		Validate:   validateStoredFeedback,
		OnCreate: func(f *model.Feedback, actor model.Identity, now time.Time) {
			f.ID = uuid.New().String()
			f.SubmittedBy = actor.ID
			f.CreatedAt = now
			f.UpdatedAt = now
		},
		OnUpdate: func(f *model.Feedback, now time.Time) {
			f.UpdatedAt = now
		},
	}
	if seeded {
		cfg.Seed = seedFeedback
	}
	return &FeedbackStore{inner: NewStore(cfg)}
}

// Close drains pending durable writes and stops the store.
func (s *FeedbackStore) Close() { s.inner.Close() }

// Flush blocks until pending durable writes are applied.
func (s *FeedbackStore) Flush() { s.inner.Flush() }

// List returns the feedback entries matching every supplied filter.
func (s *FeedbackStore) List(ctx context.Context, filter FeedbackFilter) ([]model.Feedback, error) {
	return s.inner.List(ctx, func(f model.Feedback) bool {
		if filter.EventID != nil && (f.EventID == nil || *f.EventID != *filter.EventID) {
			return false
		}
		if filter.Category != nil && f.Category != *filter.Category {
			return false
		}
		if filter.SubmittedBy != nil && f.SubmittedBy != *filter.SubmittedBy {
			return false
		}
		if filter.MinRating != nil && f.Rating < *filter.MinRating {
			return false
		}
		return true
	})
}

// Get returns the feedback entry with the given id.
func (s *FeedbackStore) Get(ctx context.Context, id string) (model.Feedback, error) {
	return s.inner.Get(ctx, id)
}

// Create validates and stores a new feedback entry.
func (s *FeedbackStore) Create(ctx context.Context, fb model.Feedback) (model.Feedback, error) {
	if fb.Rating < 1 || fb.Rating > 5 {
		return model.Feedback{}, &ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}
	if fb.Category == "" {
		fb.Category = model.FeedbackCategoryGeneral
	}
	return s.inner.Create(ctx, fb)
}

// Stats aggregates the feedback of one event. An event with no
// feedback yields a zero-valued result.
func (s *FeedbackStore) Stats(ctx context.Context, eventID string) (model.FeedbackStats, error) {
	entries, err := s.List(ctx, FeedbackFilter{EventID: &eventID})
	if err != nil {
		return model.FeedbackStats{}, err
	}

	stats := model.FeedbackStats{
		ByCategory: make(map[string]int),
	}
	if len(entries) == 0 {
		return stats, nil
	}

	ratingSum := 0
	recommends := 0
	for _, f := range entries {
		ratingSum += f.Rating
		if f.WouldRecommend {
			recommends++
		}
		stats.ByCategory[f.Category]++
	}
	stats.Count = len(entries)
	stats.AverageRating = float64(ratingSum) / float64(len(entries))
	stats.RecommendRate = float64(recommends) / float64(len(entries))
	return stats, nil
}

// validateStoredFeedback is the decode check applied to every durable read.
func validateStoredFeedback(f model.Feedback) error {
	if f.ID == "" {
		return fmt.Errorf("feedback record missing id")
	}
	if f.Rating < 1 || f.Rating > 5 {
		return fmt.Errorf("feedback %s has rating %d out of range", f.ID, f.Rating)
	}
	return nil
}
