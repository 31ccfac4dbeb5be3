package model

import "time"

// Expense approval status constants.
const (
	ExpenseStatusPending  = "pending"
	ExpenseStatusApproved = "approved"
	ExpenseStatusRejected = "rejected"
)

// Expense is a reimbursable cost submitted against an event budget.
// Amounts are stored in the smallest currency unit to avoid float drift.
type Expense struct {
	ID string `json:"id"`

	// EventID references the owning event; nil for global expenses.
	EventID *string `json:"event_id,omitempty"`

	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      int64  `json:"amount"`
	ReceiptURL  string `json:"receipt_url,omitempty"`

	// Status is one of the ExpenseStatus* constants.
	Status string `json:"status"`

	// SubmittedBy is the identity that filed the expense.
	SubmittedBy string `json:"submitted_by"`

	// ApprovedBy is the identity that approved or rejected the expense.
	// Usually distinct from SubmittedBy, though not enforced.
	ApprovedBy *string    `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExpensePatch is a partial expense update. Nil fields are left unchanged.
type ExpensePatch struct {
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Amount      *int64  `json:"amount,omitempty"`
	ReceiptURL  *string `json:"receipt_url,omitempty"`
}

// ExpenseSummary aggregates the expenses of one event against its budget.
type ExpenseSummary struct {
	TotalBudget   int64            `json:"total_budget"`
	TotalSpent    int64            `json:"total_spent"`
	PendingAmount int64            `json:"pending_amount"`
	Remaining     int64            `json:"remaining"`
	ApprovedCount int              `json:"approved_count"`
	PendingCount  int              `json:"pending_count"`
	RejectedCount int              `json:"rejected_count"`
	ByCategory    map[string]int64 `json:"by_category"`
}
