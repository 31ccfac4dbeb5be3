package resource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mtran/volunteer-hub/internal/backend"
	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/internal/store"
)

// ExpenseFilter restricts expense reads. Nil fields match everything.
type ExpenseFilter struct {
	EventID     *string
	Status      *string
	Category    *string
	SubmittedBy *string
}

// ExpenseStore is the expenses resource store, carrying the secondary
// approval lifecycle on top of the generic contract.
type ExpenseStore struct {
	inner *Store[model.Expense]
}

// NewExpenseStore creates the expenses store over the given backend.
func NewExpenseStore(b backend.Backend, actor func() *model.Identity, seeded bool) *ExpenseStore {
	cfg := Config[model.Expense]{
		Name:       "expenses",
		Collection: b.Collection(store.Key("expenses")),
		Actor:      actor,
		ID:         func(e model.Expense) string { return e.ID },
		Validate:   validateStoredExpense,
		OnCreate: func(e *model.Expense, actor model.Identity, now time.Time) {
			e.ID = uuid.New().String()
			e.SubmittedBy = actor.ID
			e.CreatedAt = now
			e.UpdatedAt = now
		},
		OnUpdate: func(e *model.Expense, now time.Time) {
			e.UpdatedAt = now
		},
	}
	if seeded {
		cfg.Seed = seedExpenses
	}
	return &ExpenseStore{inner: NewStore(cfg)}
}

// Close drains pending durable writes and stops the store.
func (s *ExpenseStore) Close() { s.inner.Close() }

// Flush blocks until pending durable writes are applied.
func (s *ExpenseStore) Flush() { s.inner.Flush() }

// List returns the expenses matching every supplied filter.
func (s *ExpenseStore) List(ctx context.Context, filter ExpenseFilter) ([]model.Expense, error) {
	return s.inner.List(ctx, func(e model.Expense) bool {
		if filter.EventID != nil && (e.EventID == nil || *e.EventID != *filter.EventID) {
			return false
		}
		if filter.Status != nil && e.Status != *filter.Status {
			return false
		}
		if filter.Category != nil && e.Category != *filter.Category {
			return false
		}
		if filter.SubmittedBy != nil && e.SubmittedBy != *filter.SubmittedBy {
			return false
		}
		return true
	})
}

// Get returns the expense with the given id.
func (s *ExpenseStore) Get(ctx context.Context, id string) (model.Expense, error) {
	return s.inner.Get(ctx, id)
}

// Create validates and stores a new pending expense.
func (s *ExpenseStore) Create(ctx context.Context, expense model.Expense) (model.Expense, error) {
	if strings.TrimSpace(expense.Description) == "" {
		return model.Expense{}, &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if expense.Amount <= 0 {
		return model.Expense{}, &ValidationError{Field: "amount", Reason: "must be a positive amount"}
	}
	if expense.Category == "" {
		expense.Category = "general"
	}
	expense.Status = model.ExpenseStatusPending
	expense.ApprovedBy = nil
	expense.ApprovedAt = nil
	return s.inner.Create(ctx, expense)
}

// Update merges the patch into the expense with the given id.
func (s *ExpenseStore) Update(ctx context.Context, id string, patch model.ExpensePatch) (model.Expense, error) {
	if patch.Amount != nil && *patch.Amount <= 0 {
		return model.Expense{}, &ValidationError{Field: "amount", Reason: "must be a positive amount"}
	}
	return s.inner.Update(ctx, id, func(e *model.Expense) {
		if patch.Description != nil {
			e.Description = *patch.Description
		}
		if patch.Category != nil {
			e.Category = *patch.Category
		}
		if patch.Amount != nil {
			e.Amount = *patch.Amount
		}
		if patch.ReceiptURL != nil {
			e.ReceiptURL = *patch.ReceiptURL
		}
	})
}

// Approve transitions the expense to approved, stamping the acting
// identity as the approver.
func (s *ExpenseStore) Approve(ctx context.Context, id string) (model.Expense, error) {
	return s.decide(ctx, id, model.ExpenseStatusApproved)
}

// Reject transitions the expense to rejected, stamping the acting
// identity as the deciding actor.
func (s *ExpenseStore) Reject(ctx context.Context, id string) (model.Expense, error) {
	return s.decide(ctx, id, model.ExpenseStatusRejected)
}

func (s *ExpenseStore) decide(ctx context.Context, id, status string) (model.Expense, error) {
	actor := s.inner.cfg.Actor()
	if actor == nil {
		return model.Expense{}, ErrNotAuthenticated
	}
	now := time.Now().UTC()
	return s.inner.Update(ctx, id, func(e *model.Expense) {
		e.Status = status
		e.ApprovedBy = &actor.ID
		e.ApprovedAt = &now
	})
}

// Summary aggregates the expenses of one event against totalBudget.
// An event with no expenses yields a zero-valued summary.
func (s *ExpenseStore) Summary(ctx context.Context, eventID string, totalBudget int64) (model.ExpenseSummary, error) {
	expenses, err := s.List(ctx, ExpenseFilter{EventID: &eventID})
	if err != nil {
		return model.ExpenseSummary{}, err
	}

	summary := model.ExpenseSummary{
		TotalBudget: totalBudget,
		ByCategory:  make(map[string]int64),
	}
	for _, e := range expenses {
		switch e.Status {
		case model.ExpenseStatusApproved:
			summary.TotalSpent += e.Amount
			summary.ApprovedCount++
			summary.ByCategory[e.Category] += e.Amount
		case model.ExpenseStatusPending:
			summary.PendingAmount += e.Amount
			summary.PendingCount++
		case model.ExpenseStatusRejected:
			summary.RejectedCount++
		}
	}
	summary.Remaining = totalBudget - summary.TotalSpent
	return summary, nil
}

// validateStoredExpense is the decode check applied to every durable read.
func validateStoredExpense(e model.Expense) error {
	if e.ID == "" {
		return fmt.Errorf("expense record missing id")
	}
	switch e.Status {
	case model.ExpenseStatusPending, model.ExpenseStatusApproved, model.ExpenseStatusRejected:
	default:
		return fmt.Errorf("expense %s has unknown status %q", e.ID, e.Status)
	}
	if e.Amount < 0 {
		return fmt.Errorf("expense %s has negative amount", e.ID)
	}
	return nil
}
