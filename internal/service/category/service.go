package category

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/repository/category"
	"storefront/internal/validation"
)

type Service struct {
	repo category.Repository
}

func New(repo category.Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Slug        string  `json:"slug" validate:"max=200"`
	Description string  `json:"description" validate:"max=5000"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,url"`
	ParentID    *string `json:"parentId" validate:"omitempty,uuid"`
	SortOrder   int     `json:"sortOrder"`
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=200"`
	Slug        *string `json:"slug" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
	ParentID    *string `json:"parentId" validate:"omitempty"`
	SortOrder   *int    `json:"sortOrder"`
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

// Tree returns the categories nested by parent.
func (s *Service) Tree(ctx context.Context) ([]*domain.Category, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(all), nil
}

// Get resolves a category by id when ref is a UUID, else by slug.
func (s *Service) Get(ctx context.Context, ref string) (*domain.Category, error) {
	if _, err := uuid.Parse(ref); err == nil {
		c, err := s.repo.GetByID(ctx, ref)
		if err == nil || !errors.Is(err, domain.ErrNotFound) {
			return c, err
		}
	}
	return s.repo.GetBySlug(ctx, ref)
}

// WithChildren returns the ids of the category with the given slug and its
// direct children.
func (s *Service) WithChildren(ctx context.Context, slug string) ([]string, error) {
	root, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := []string{root.ID}
	for _, c := range all {
		if c.ParentID != nil && *c.ParentID == root.ID {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Category, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	slug, err := domain.ResolveSlug(in.Slug, in.Name)
	if err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, "", in.ParentID); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, domain.Category{
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		ParentID:    in.ParentID,
		SortOrder:   in.SortOrder,
	})
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Category, error) {
	if err := domain.CheckID(id); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Slug != nil {
		if c.Slug, err = domain.ResolveSlug(*in.Slug, c.Name); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.ImageURL != nil {
		c.ImageURL = *in.ImageURL
	}
	if in.ParentID != nil {
		// An empty parentId detaches the category.
		if *in.ParentID == "" {
			c.ParentID = nil
		} else {
			if err := s.checkParent(ctx, c.ID, in.ParentID); err != nil {
				return nil, err
			}
			c.ParentID = in.ParentID
		}
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	return s.repo.Update(ctx, *c)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := domain.CheckID(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Upsert inserts or updates by slug.
func (s *Service) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	slug, err := domain.ResolveSlug(c.Slug, c.Name)
	if err != nil {
		return nil, err
	}
	c.Slug = slug
	return s.repo.Upsert(ctx, c)
}

func (s *Service) checkParent(ctx context.Context, selfID string, parentID *string) error {
	if parentID == nil {
		return nil
	}
	if *parentID == selfID {
		return domain.NewValidationError("parentId", "a category cannot be its own parent")
	}
	if _, err := uuid.Parse(*parentID); err != nil {
		return domain.NewValidationError("parentId", "must be a valid id")
	}
	if _, err := s.repo.GetByID(ctx, *parentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError("parentId", "parent category does not exist")
		}
		return err
	}
	if selfID == "" {
		return nil
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	if isDescendant(all, selfID, *parentID) {
		return domain.NewValidationError("parentId", "a category cannot be moved under its own descendant")
	}
	return nil
}

// isDescendant reports whether candidate sits below ancestorID.
func isDescendant(all []domain.Category, ancestorID, candidate string) bool {
	parents := make(map[string]string, len(all))
	for _, c := range all {
		if c.ParentID != nil {
			parents[c.ID] = *c.ParentID
		}
	}
	seen := map[string]bool{}
	for id := candidate; id != "" && !seen[id]; id = parents[id] {
		if id == ancestorID {
			return true
		}
		seen[id] = true
	}
	return false
}

// BuildTree nests categories under their parents. Categories whose parent is
// not in the list become roots. Siblings keep sort_order, then name order.
func BuildTree(all []domain.Category) []*domain.Category {
	nodes := make(map[string]*domain.Category, len(all))
	for i := range all {
		c := all[i]
		c.Children = nil
		nodes[c.ID] = &c
	}
	roots := []*domain.Category{}
	for i := range all {
		node := nodes[all[i].ID]
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	sortCategories(roots)
	return roots
}

func sortCategories(list []*domain.Category) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].SortOrder != list[j].SortOrder {
			return list[i].SortOrder < list[j].SortOrder
		}
		return list[i].Name < list[j].Name
	})
	for _, c := range list {
		sortCategories(c.Children)
	}
}
