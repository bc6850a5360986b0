package ports

import (
	"context"

	"github.com/ilungi/gestora-api/internal/core/domain"
)

// UserRepository defines persistence operations for user records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDs performs a batch lookup. Ids that do not resolve are simply
	// absent from the result; the caller decides whether that is an error.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	FindByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}
