package menu

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Menu, error)
	GetByID(ctx context.Context, id string) (*domain.Menu, error)
	GetByLocation(ctx context.Context, location string) (*domain.Menu, error)
	// Items returns the flat item rows of a menu; callers assemble the tree.
	Items(ctx context.Context, menuID string) ([]domain.MenuItem, error)
	Create(ctx context.Context, m domain.Menu) (*domain.Menu, error)
	// ReplaceItems deletes every item of the menu and inserts the given tree.
	ReplaceItems(ctx context.Context, menuID string, items []*domain.MenuItem) error
	Delete(ctx context.Context, id string) error
}
