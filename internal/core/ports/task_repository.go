package ports

import (
	"context"

	"github.com/ilungi/gestora-api/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks. The responsibles
// set lives inside the task document, so membership edits go through Update.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	FindAll(ctx context.Context) ([]*domain.Task, error)
	// FindByResponsible returns the tasks whose responsibles set contains
	// userID, in persistence order.
	FindByResponsible(ctx context.Context, userID string) ([]*domain.Task, error)
	// CountByResponsible reports how many tasks still list userID as a
	// responsible. Used to guard user deletion.
	CountByResponsible(ctx context.Context, userID string) (int64, error)
	// CountByCreator reports how many tasks record userID as creator.
	CountByCreator(ctx context.Context, userID string) (int64, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}
