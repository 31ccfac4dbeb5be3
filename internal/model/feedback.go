package model

import "time"

// Feedback category constants.
const (
	FeedbackCategoryGeneral      = "general"
	FeedbackCategoryOrganization = "organization"
	FeedbackCategoryVenue        = "venue"
	FeedbackCategoryCommunity    = "community"
)

// Feedback is a post-event rating and comment from a volunteer.
type Feedback struct {
	ID string `json:"id"`

	// EventID references the rated event; nil for general feedback.
	EventID *string `json:"event_id,omitempty"`

	// Rating is a 1-5 star score.
	Rating int `json:"rating"`

	Comment  string `json:"comment"`
	Category string `json:"category"`

	// WouldRecommend indicates the volunteer would recommend the event.
	WouldRecommend bool `json:"would_recommend"`

	// SubmittedBy is the identity that filed the feedback.
	SubmittedBy string `json:"submitted_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeedbackStats aggregates the feedback of one event.
type FeedbackStats struct {
	Count         int            `json:"count"`
	AverageRating float64        `json:"average_rating"`
	RecommendRate float64        `json:"recommend_rate"`
	ByCategory    map[string]int `json:"by_category"`
}
