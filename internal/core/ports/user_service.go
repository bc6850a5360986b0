package ports

import (
	"context"

	"github.com/ilungi/gestora-api/internal/core/domain"
)

// AdminCreateUserInput carries the admin "invite" payload. Password is
// generated server-side and mailed to the new user.
type AdminCreateUserInput struct {
	Name     string
	Email    string
	Phone    string
	Position string
	Role     string // optional; defaults to USER
}

// UpdateUserInput is a field-wise user patch; nil means "leave unchanged".
type UpdateUserInput struct {
	Name  *string
	Phone *string
	Role  *domain.Role
}

// UserSummary is the admin list view: a user plus task membership counts.
type UserSummary struct {
	User             *domain.User `json:"user"`
	TaskCount        int64        `json:"taskCount"`
	CreatedTaskCount int64        `json:"createdTaskCount"`
}

// UserDetail is the admin single-user view with per-status task stats.
type UserDetail struct {
	User      *domain.User `json:"user"`
	TaskStats TaskStats    `json:"taskStats"`
}

// UserService implements user management. The admin-only operations are
// guarded at the route level; the service trusts its callers on that.
type UserService interface {
	List(ctx context.Context) ([]*UserSummary, error)
	Get(ctx context.Context, id string) (*UserDetail, error)
	// CreateUser creates a user with a generated temporary password, mails
	// the credentials to the user and alerts the admin address.
	CreateUser(ctx context.Context, in AdminCreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error)
	// Delete removes a user. Rejected with domain.ErrUserHasTasks while the
	// user is still in any task's responsibles set.
	Delete(ctx context.Context, id string) error
	ChangeRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	FindByRole(ctx context.Context, role domain.Role) ([]*UserSummary, error)
	UpdateProfile(ctx context.Context, id, name, phone string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, newPassword string) (*domain.User, error)
}
