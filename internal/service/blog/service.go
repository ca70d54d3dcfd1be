package blog

import (
	"context"

	"storefront/internal/domain"
	blogrepo "storefront/internal/repository/blog"
	"storefront/internal/validation"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

type Service struct {
	repo blogrepo.Repository
}

func New(repo blogrepo.Repository) *Service {
	return &Service{repo: repo}
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Slug        string `json:"slug" validate:"max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type TagInput struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug" validate:"max=100"`
}

type PostInput struct {
	Title      string   `json:"title" validate:"required,max=300"`
	Slug       string   `json:"slug" validate:"max=300"`
	Excerpt    string   `json:"excerpt" validate:"max=1000"`
	Body       string   `json:"body" validate:"required"`
	CoverImage string   `json:"coverImage" validate:"omitempty,url"`
	Published  bool     `json:"published"`
	CategoryID *string  `json:"categoryId" validate:"omitempty,uuid"`
	TagIDs     []string `json:"tagIds" validate:"dive,uuid"`
}

// PostUpdate is a partial update; a non-nil TagIDs replaces the post's tags.
type PostUpdate struct {
	Title      *string   `json:"title" validate:"omitnil,min=1,max=300"`
	Slug       *string   `json:"slug" validate:"omitempty,max=300"`
	Excerpt    *string   `json:"excerpt" validate:"omitempty,max=1000"`
	Body       *string   `json:"body" validate:"omitnil,min=1"`
	CoverImage *string   `json:"coverImage" validate:"omitempty,url"`
	Published  *bool     `json:"published"`
	CategoryID *string   `json:"categoryId"`
	TagIDs     *[]string `json:"tagIds" validate:"omitempty,dive,uuid"`
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.BlogCategory, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*domain.BlogCategory, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	slug, err := domain.ResolveSlug(in.Slug, in.Name)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateCategory(ctx, domain.BlogCategory{Name: in.Name, Slug: slug, Description: in.Description})
}

func (s *Service) ListTags(ctx context.Context) ([]domain.BlogTag, error) {
	return s.repo.ListTags(ctx)
}

func (s *Service) CreateTag(ctx context.Context, in TagInput) (*domain.BlogTag, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	slug, err := domain.ResolveSlug(in.Slug, in.Name)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateTag(ctx, domain.BlogTag{Name: in.Name, Slug: slug})
}

func (s *Service) ListPosts(ctx context.Context, f domain.ContentFilter) (*domain.ContentPage, error) {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultLimit
	case f.Limit > MaxLimit:
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.ListPosts(ctx, f)
}

// GetPost returns a post by slug; drafts are visible only when includeDrafts is set.
func (s *Service) GetPost(ctx context.Context, slug string, includeDrafts bool) (*domain.Content, error) {
	c, err := s.repo.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !c.Published && !includeDrafts {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *Service) CreatePost(ctx context.Context, authorID string, in PostInput) (*domain.Content, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	slug, err := domain.ResolveSlug(in.Slug, in.Title)
	if err != nil {
		return nil, err
	}
	c := domain.Content{
		Title:      in.Title,
		Slug:       slug,
		Excerpt:    in.Excerpt,
		Body:       in.Body,
		CoverImage: in.CoverImage,
		Published:  in.Published,
		CategoryID: in.CategoryID,
	}
	if authorID != "" {
		c.AuthorID = &authorID
	}
	return s.repo.CreatePost(ctx, c, in.TagIDs)
}

func (s *Service) UpdatePost(ctx context.Context, id string, in PostUpdate) (*domain.Content, error) {
	if err := domain.CheckID(id); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	c, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		c.Title = *in.Title
	}
	if in.Slug != nil {
		if c.Slug, err = domain.ResolveSlug(*in.Slug, c.Title); err != nil {
			return nil, err
		}
	}
	if in.Excerpt != nil {
		c.Excerpt = *in.Excerpt
	}
	if in.Body != nil {
		c.Body = *in.Body
	}
	if in.CoverImage != nil {
		c.CoverImage = *in.CoverImage
	}
	if in.Published != nil {
		c.Published = *in.Published
	}
	if in.CategoryID != nil {
		if *in.CategoryID == "" {
			c.CategoryID = nil
		} else {
			c.CategoryID = in.CategoryID
		}
	}
	var tagIDs []string
	if in.TagIDs != nil {
		tagIDs = append([]string{}, *in.TagIDs...)
	}
	return s.repo.UpdatePost(ctx, *c, tagIDs)
}

func (s *Service) DeletePost(ctx context.Context, id string) error {
	if err := domain.CheckID(id); err != nil {
		return err
	}
	return s.repo.DeletePost(ctx, id)
}
