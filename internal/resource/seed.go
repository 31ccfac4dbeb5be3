package resource

import (
	"time"

	"github.com/mtran/volunteer-hub/internal/model"
)

// Demo event identifiers referenced by the seeded collections.
const (
	SeedEventBeachCleanup = "evt-beach-cleanup"
	SeedEventFoodDrive    = "evt-food-drive"
)

// seedActorID is the synthetic organizer credited with seeded records.
const seedActorID = "usr-demo-organizer"

func seedBase() time.Time {
	return time.Now().UTC().Add(-96 * time.Hour)
}

// seedTasks is the canonical starting dataset for the tasks collection,
// covering every board column.
func seedTasks() []model.Task {
	base := seedBase()
	beach := SeedEventBeachCleanup
	food := SeedEventFoodDrive

	return []model.Task{
		{
			ID:          "tsk-signage",
			EventID:     &beach,
			Title:       "Design check-in signage",
			Description: "Print and laminate direction signs for the registration tent.",
			Status:      model.TaskStatusBacklog,
			Priority:    model.PriorityLow,
			Tags:        []string{"logistics", "print"},
			CreatedBy:   seedActorID,
			CreatedAt:   base,
			UpdatedAt:   base,
		},
		{
			ID:          "tsk-supplies",
			EventID:     &beach,
			Title:       "Order cleanup supplies",
			Description: "Gloves, grabbers, and biodegradable bags for 60 volunteers.",
			Status:      model.TaskStatusTodo,
			Priority:    model.PriorityHigh,
			Tags:        []string{"supplies"},
			CreatedBy:   seedActorID,
			CreatedAt:   base.Add(2 * time.Hour),
			UpdatedAt:   base.Add(2 * time.Hour),
		},
		{
			ID:          "tsk-roster",
			EventID:     &beach,
			Title:       "Build volunteer shift roster",
			Description: "Morning and afternoon shifts with team captains per zone.",
			Status:      model.TaskStatusProgress,
			Priority:    model.PriorityUrgent,
			Progress:    50,
			Tags:        []string{"volunteers", "scheduling"},
			CreatedBy:   seedActorID,
			CreatedAt:   base.Add(4 * time.Hour),
			UpdatedAt:   base.Add(20 * time.Hour),
		},
		{
			ID:           "tsk-permits",
			EventID:      &beach,
			Title:        "Confirm council permit",
			Description:  "Waiting on parks department sign-off for the foreshore.",
			Status:       model.TaskStatusBlocked,
			Priority:     model.PriorityHigh,
			Tags:         []string{"legal"},
			Dependencies: []string{"tsk-roster"},
			CreatedBy:    seedActorID,
			CreatedAt:    base.Add(6 * time.Hour),
			UpdatedAt:    base.Add(30 * time.Hour),
		},
		{
			ID:          "tsk-flyers",
			EventID:     &food,
			Title:       "Review donation flyer copy",
			Description: "Second pass on the drop-off location list.",
			Status:      model.TaskStatusReview,
			Priority:    model.PriorityMedium,
			Progress:    80,
			Tags:        []string{"outreach"},
			CreatedBy:   seedActorID,
			CreatedAt:   base.Add(8 * time.Hour),
			UpdatedAt:   base.Add(40 * time.Hour),
		},
		{
			ID:          "tsk-venue",
			EventID:     &food,
			Title:       "Book sorting warehouse",
			Description: "Confirmed the community hall for sorting day.",
			Status:      model.TaskStatusCompleted,
			Priority:    model.PriorityMedium,
			Progress:    100,
			Tags:        []string{"venue"},
			CreatedBy:   seedActorID,
			CreatedAt:   base.Add(10 * time.Hour),
			UpdatedAt:   base.Add(48 * time.Hour),
		},
	}
}

// seedExpenses is the canonical starting dataset for the expenses
// collection.
func seedExpenses() []model.Expense {
	base := seedBase()
	beach := SeedEventBeachCleanup
	food := SeedEventFoodDrive
	approver := seedActorID
	approvedAt := base.Add(24 * time.Hour)

	return []model.Expense{
		{
			ID:          "exp-gloves",
			EventID:     &beach,
			Description: "Work gloves, 60 pairs",
			Category:    "supplies",
			Amount:      45000,
			Status:      model.ExpenseStatusApproved,
			SubmittedBy: "usr-demo-volunteer",
			ApprovedBy:  &approver,
			ApprovedAt:  &approvedAt,
			CreatedAt:   base,
			UpdatedAt:   approvedAt,
		},
		{
			ID:          "exp-truck",
			EventID:     &beach,
			Description: "Waste removal truck hire",
			Category:    "transport",
			Amount:      28000,
			Status:      model.ExpenseStatusPending,
			SubmittedBy: "usr-demo-volunteer",
			CreatedAt:   base.Add(12 * time.Hour),
			UpdatedAt:   base.Add(12 * time.Hour),
		},
		{
			ID:          "exp-crates",
			EventID:     &food,
			Description: "Plastic sorting crates",
			Category:    "supplies",
			Amount:      12500,
			Status:      model.ExpenseStatusPending,
			SubmittedBy: seedActorID,
			CreatedAt:   base.Add(18 * time.Hour),
			UpdatedAt:   base.Add(18 * time.Hour),
		},
	}
}

// seedFeedback is the canonical starting dataset for the feedback
// collection.
func seedFeedback() []model.Feedback {
	base := seedBase()
	beach := SeedEventBeachCleanup
	food := SeedEventFoodDrive

	return []model.Feedback{
		{
			ID:             "fbk-beach-1",
			EventID:        &beach,
			Rating:         5,
			Comment:        "Great crew, well organized zones.",
			Category:       model.FeedbackCategoryOrganization,
			WouldRecommend: true,
			SubmittedBy:    "usr-demo-volunteer",
			CreatedAt:      base.Add(50 * time.Hour),
			UpdatedAt:      base.Add(50 * time.Hour),
		},
		{
			ID:             "fbk-beach-2",
			EventID:        &beach,
			Rating:         4,
			Comment:        "More bins near the south car park next time.",
			Category:       model.FeedbackCategoryVenue,
			WouldRecommend: true,
			SubmittedBy:    "usr-demo-volunteer-2",
			CreatedAt:      base.Add(52 * time.Hour),
			UpdatedAt:      base.Add(52 * time.Hour),
		},
		{
			ID:             "fbk-food-1",
			EventID:        &food,
			Rating:         4,
			Comment:        "Sorting line ran smoothly.",
			Category:       model.FeedbackCategoryGeneral,
			WouldRecommend: false,
			SubmittedBy:    "usr-demo-volunteer",
			CreatedAt:      base.Add(60 * time.Hour),
			UpdatedAt:      base.Add(60 * time.Hour),
		},
	}
}

// seedNotifications is the canonical starting dataset for one user's
// notification collection.
func seedNotifications(userID string) []model.Notification {
	base := seedBase()
	beach := SeedEventBeachCleanup

	return []model.Notification{
		{
			ID:        "ntf-welcome",
			UserID:    userID,
			Kind:      model.NotificationKindSystem,
			Title:     "Welcome to VolunteerHub",
			Message:   "Browse upcoming events and grab a task from the board.",
			Read:      true,
			CreatedAt: base,
			UpdatedAt: base,
		},
		{
			ID:        "ntf-roster",
			UserID:    userID,
			EventID:   &beach,
			Kind:      model.NotificationKindTask,
			Title:     "Shift roster updated",
			Message:   "You are on the morning shift for the beach cleanup.",
			CreatedAt: base.Add(30 * time.Hour),
			UpdatedAt: base.Add(30 * time.Hour),
		},
		{
			ID:        "ntf-expense",
			UserID:    userID,
			EventID:   &beach,
			Kind:      model.NotificationKindExpense,
			Title:     "Expense awaiting approval",
			Message:   "Waste removal truck hire is waiting on an organizer.",
			CreatedAt: base.Add(36 * time.Hour),
			UpdatedAt: base.Add(36 * time.Hour),
		},
	}
}
