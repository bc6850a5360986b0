package ports

import (
	"context"

	"github.com/ilungi/gestora-api/internal/core/domain"
)

// CreateTaskInput carries all data for the self-service create path.
type CreateTaskInput struct {
	Title        string
	Description  string
	Status       string // optional; defaults to PENDING
	DaysToFinish int
	Responsibles []string // user ids; empty means "assign the caller"
}

// AdminCreateTaskInput carries all data for the admin batch-create path.
// Responsibles must be non-empty and every id must resolve.
type AdminCreateTaskInput struct {
	Title        string
	Description  string
	Status       string // optional or unknown value; defaults to PENDING
	DaysToFinish int
	Responsibles []string
}

// UpdateTaskInput is a field-wise patch. Nil pointers mean "leave unchanged".
// Which fields are actually applied depends on the caller's role: non-admin
// responsibles may change title, description and status only; EndDate and
// Responsibles are silently ignored for them.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *domain.TaskStatus
	EndDate      *string // RFC 3339; admin only
	Responsibles []string // full replacement set; admin only, nil = unchanged
}

// TaskStats is a per-status task count summary.
type TaskStats struct {
	Total   int64 `json:"totalTasks"`
	Pending int64 `json:"pending"`
	Doing   int64 `json:"doing"`
	Done    int64 `json:"done"`
}

// SystemStats is the admin-only system-wide aggregate.
type SystemStats struct {
	TotalUsers   int64     `json:"totalUsers"`
	AdminUsers   int64     `json:"adminUsers"`
	RegularUsers int64     `json:"regularUsers"`
	TotalTasks   int64     `json:"totalTasks"`
	TaskStats    TaskStats `json:"taskStats"`
}

// TaskService is the role-scoped task visibility and mutation engine. Every
// operation takes the resolved caller identity explicitly.
type TaskService interface {
	// List returns all tasks for admins, and only the tasks the caller is
	// responsible for otherwise.
	List(ctx context.Context, caller domain.Caller) ([]*domain.Task, error)
	// Get returns a single task. Non-admin callers must be in the
	// responsibles set or the call fails with domain.ErrForbidden.
	Get(ctx context.Context, caller domain.Caller, taskID string) (*domain.Task, error)
	// Create is the self-service entry point: the caller becomes creator and,
	// when no responsibles are supplied, the sole responsible.
	Create(ctx context.Context, caller domain.Caller, in CreateTaskInput) (*domain.Task, error)
	// CreateWithResponsibles is the admin batch-create entry point:
	// all-or-nothing resolution of the responsibles list.
	CreateWithResponsibles(ctx context.Context, in AdminCreateTaskInput) (*domain.Task, error)
	// Update applies a role-asymmetric patch after the Get visibility check.
	Update(ctx context.Context, caller domain.Caller, taskID string, in UpdateTaskInput) (*domain.Task, error)
	// UpdateStatus writes a status from the known set; there is no transition
	// guard. The caller must be a responsible member; there is no admin
	// bypass on this entry point.
	UpdateStatus(ctx context.Context, caller domain.Caller, taskID string, status domain.TaskStatus) (*domain.Task, error)
	// Delete removes a task. Non-admin callers must be responsible members.
	Delete(ctx context.Context, caller domain.Caller, taskID string) error
	// Assign adds a user to the responsibles set (idempotent). Admin only.
	Assign(ctx context.Context, taskID, userID string) (*domain.Task, error)
	// AssignMany adds several users at once; unresolved ids are silently
	// skipped. Admin only.
	AssignMany(ctx context.Context, taskID string, userIDs []string) (*domain.Task, error)
	// Unassign removes a user from the responsibles set (no-op if absent).
	// Admin only.
	Unassign(ctx context.Context, taskID, userID string) (*domain.Task, error)
	// TasksByUser lists the tasks a given user is responsible for. Admin only.
	TasksByUser(ctx context.Context, userID string) ([]*domain.Task, error)
	// MyStats returns the caller's per-status task counts.
	MyStats(ctx context.Context, caller domain.Caller) (*TaskStats, error)
	// SystemStats returns system-wide user and task aggregates. Admin only.
	SystemStats(ctx context.Context) (*SystemStats, error)
}
