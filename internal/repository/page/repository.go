package page

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	// List returns pages with their sections; an empty slug matches every page.
	List(ctx context.Context, slug string, includeDrafts bool) ([]domain.Page, error)
	GetByID(ctx context.Context, id string) (*domain.Page, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Page, error)
	Create(ctx context.Context, p domain.Page) (*domain.Page, error)
	// Update writes the page fields; when replaceSections is true the stored
	// sections are replaced by p.Sections in the same transaction.
	Update(ctx context.Context, p domain.Page, replaceSections bool) (*domain.Page, error)
	Delete(ctx context.Context, id string) error
}
