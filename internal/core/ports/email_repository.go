package ports

import (
	"context"

	"github.com/ilungi/gestora-api/internal/core/domain"
)

// EmailRepository defines persistence operations for the outbound mail audit.
type EmailRepository interface {
	Insert(ctx context.Context, m *domain.EmailMessage) (*domain.EmailMessage, error)
	Update(ctx context.Context, m *domain.EmailMessage) error
	FindByID(ctx context.Context, id string) (*domain.EmailMessage, error)
	FindByStatus(ctx context.Context, status domain.EmailStatus) ([]*domain.EmailMessage, error)
	FindByKind(ctx context.Context, kind string) ([]*domain.EmailMessage, error)
	FindByRecipient(ctx context.Context, recipient string) ([]*domain.EmailMessage, error)
	CountByStatus(ctx context.Context, status domain.EmailStatus) (int64, error)
}
