package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/tests/testutil"
)

func newFeedbackFixture(t *testing.T) *FeedbackStore {
	t.Helper()
	b := testutil.NewLocalBackend(t)
	s := NewFeedbackStore(b, testutil.Actor("vol-1", model.RoleVolunteer), false)
	t.Cleanup(s.Close)
	return s
}

func TestFeedbackRatingBounds(t *testing.T) {
	s := newFeedbackFixture(t)
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		_, err := s.Create(ctx, model.Feedback{Rating: rating})
		assert.True(t, IsValidation(err), "rating %d should be rejected", rating)
	}

	created, err := s.Create(ctx, model.Feedback{Rating: 3})
	require.NoError(t, err)
	assert.Equal(t, model.FeedbackCategoryGeneral, created.Category)
	assert.Equal(t, "vol-1", created.SubmittedBy)
}

func TestFeedbackStats(t *testing.T) {
	s := newFeedbackFixture(t)
	ctx := context.Background()
	event := "evt-1"

	_, err := s.Create(ctx, model.Feedback{
		EventID: &event, Rating: 5, WouldRecommend: true,
		Category: model.FeedbackCategoryOrganization,
	})
	require.NoError(t, err)
	_, err = s.Create(ctx, model.Feedback{
		EventID: &event, Rating: 4, WouldRecommend: false,
		Category: model.FeedbackCategoryOrganization,
	})
	require.NoError(t, err)
	_, err = s.Create(ctx, model.Feedback{
		EventID: &event, Rating: 3, WouldRecommend: true,
		Category: model.FeedbackCategoryVenue,
	})
	require.NoError(t, err)

	stats, err := s.Stats(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Count)
	assert.InDelta(t, 4.0, stats.AverageRating, 0.001)
	assert.InDelta(t, 2.0/3.0, stats.RecommendRate, 0.001)
	assert.Equal(t, 2, stats.ByCategory[model.FeedbackCategoryOrganization])
	assert.Equal(t, 1, stats.ByCategory[model.FeedbackCategoryVenue])
}

func TestFeedbackStatsEmptyEvent(t *testing.T) {
	s := newFeedbackFixture(t)

	stats, err := s.Stats(context.Background(), "evt-no-feedback")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Count)
	assert.Equal(t, 0.0, stats.AverageRating)
	assert.Equal(t, 0.0, stats.RecommendRate)
	assert.NotNil(t, stats.ByCategory)
	assert.Empty(t, stats.ByCategory)
}

func TestFeedbackMinRatingFilter(t *testing.T) {
	s := newFeedbackFixture(t)
	ctx := context.Background()

	for _, rating := range []int{2, 4, 5} {
		_, err := s.Create(ctx, model.Feedback{Rating: rating})
		require.NoError(t, err)
	}

	min := 4
	got, err := s.List(ctx, FeedbackFilter{MinRating: &min})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
