package contact

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, m domain.ContactMessage) (*domain.ContactMessage, error)
	// List returns messages newest first.
	List(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error)
}
