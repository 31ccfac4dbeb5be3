package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtran/volunteer-hub/internal/model"
	"github.com/mtran/volunteer-hub/tests/testutil"
)

func newExpenseFixture(t *testing.T) *ExpenseStore {
	t.Helper()
	b := testutil.NewLocalBackend(t)
	s := NewExpenseStore(b, testutil.Actor("org-1", model.RoleOrganizer), false)
	t.Cleanup(s.Close)
	return s
}

func TestExpenseCreateValidation(t *testing.T) {
	s := newExpenseFixture(t)
	ctx := context.Background()

	_, err := s.Create(ctx, model.Expense{Description: "", Amount: 100})
	assert.True(t, IsValidation(err), "got %v", err)

	_, err = s.Create(ctx, model.Expense{Description: "free lunch", Amount: 0})
	assert.True(t, IsValidation(err), "got %v", err)

	_, err = s.Create(ctx, model.Expense{Description: "refund?", Amount: -500})
	assert.True(t, IsValidation(err), "got %v", err)
}

func TestExpenseCreateForcesPending(t *testing.T) {
	s := newExpenseFixture(t)
	ctx := context.Background()

	approver := "sneaky"
	created, err := s.Create(ctx, model.Expense{
		Description: "Tent hire",
		Amount:      9900,
		Status:      model.ExpenseStatusApproved,
		ApprovedBy:  &approver,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusPending, created.Status)
	assert.Nil(t, created.ApprovedBy)
	assert.Nil(t, created.ApprovedAt)
	assert.Equal(t, "org-1", created.SubmittedBy)
	assert.Equal(t, "general", created.Category)
}

func TestApproveStampsActingIdentity(t *testing.T) {
	s := newExpenseFixture(t)
	ctx := context.Background()

	created, err := s.Create(ctx, model.Expense{Description: "Gloves", Amount: 45000})
	require.NoError(t, err)

	approved, err := s.Approve(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "org-1", *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
	assert.False(t, approved.ApprovedAt.IsZero())
}

func TestRejectStampsActingIdentity(t *testing.T) {
	s := newExpenseFixture(t)
	ctx := context.Background()

	created, err := s.Create(ctx, model.Expense{Description: "Helicopter", Amount: 950000})
	require.NoError(t, err)

	rejected, err := s.Reject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseStatusRejected, rejected.Status)
	require.NotNil(t, rejected.ApprovedBy)
	assert.Equal(t, "org-1", *rejected.ApprovedBy)
}

func TestDecideRequiresActor(t *testing.T) {
	b := testutil.NewLocalBackend(t)
	s := NewExpenseStore(b, testutil.NoActor(), false)
	defer s.Close()

	_, err := s.Approve(context.Background(), "whatever")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSummaryAggregatesOneEvent(t *testing.T) {
	s := newExpenseFixture(t)
	ctx := context.Background()
	event := "evt-1"

	glove, err := s.Create(ctx, model.Expense{
		EventID: &event, Description: "Gloves", Category: "supplies", Amount: 45000,
	})
	require.NoError(t, err)
	_, err = s.Approve(ctx, glove.ID)
	require.NoError(t, err)

	_, err = s.Create(ctx, model.Expense{
		EventID: &event, Description: "Truck", Category: "transport", Amount: 28000,
	})
	require.NoError(t, err)

	// An expense on another event stays out of the aggregate.
	other := "evt-2"
	_, err = s.Create(ctx, model.Expense{
		EventID: &other, Description: "Unrelated", Amount: 99999,
	})
	require.NoError(t, err)

	summary, err := s.Summary(ctx, event, 100000)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), summary.TotalBudget)
	assert.Equal(t, int64(45000), summary.TotalSpent)
	assert.Equal(t, int64(28000), summary.PendingAmount)
	assert.Equal(t, int64(55000), summary.Remaining)
	assert.Equal(t, 1, summary.ApprovedCount)
	assert.Equal(t, 1, summary.PendingCount)
	assert.Equal(t, 0, summary.RejectedCount)
	assert.Equal(t, int64(45000), summary.ByCategory["supplies"])
}

func TestSummaryEmptyEventIsZeroValued(t *testing.T) {
	s := newExpenseFixture(t)

	summary, err := s.Summary(context.Background(), "evt-empty", 50000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.TotalSpent)
	assert.Equal(t, int64(0), summary.PendingAmount)
	assert.Equal(t, int64(50000), summary.Remaining)
	assert.Empty(t, summary.ByCategory)
}
