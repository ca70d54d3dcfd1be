package blog

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	ListCategories(ctx context.Context) ([]domain.BlogCategory, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.BlogCategory, error)
	CreateCategory(ctx context.Context, c domain.BlogCategory) (*domain.BlogCategory, error)

	ListTags(ctx context.Context) ([]domain.BlogTag, error)
	CreateTag(ctx context.Context, t domain.BlogTag) (*domain.BlogTag, error)

	ListPosts(ctx context.Context, f domain.ContentFilter) (*domain.ContentPage, error)
	GetPostByID(ctx context.Context, id string) (*domain.Content, error)
	GetPostBySlug(ctx context.Context, slug string) (*domain.Content, error)
	// CreatePost inserts the post and its tag links in one transaction.
	CreatePost(ctx context.Context, c domain.Content, tagIDs []string) (*domain.Content, error)
	// UpdatePost writes the post; a non-nil tagIDs replaces its tag links.
	UpdatePost(ctx context.Context, c domain.Content, tagIDs []string) (*domain.Content, error)
	DeletePost(ctx context.Context, id string) error
}
