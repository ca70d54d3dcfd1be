package menu

import (
	"context"
	"sort"

	"storefront/internal/domain"
	menurepo "storefront/internal/repository/menu"
	"storefront/internal/validation"
)

type Service struct {
	repo menurepo.Repository
}

func New(repo menurepo.Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name     string `json:"name" validate:"required,max=200"`
	Location string `json:"location" validate:"required,max=100"`
}

type ItemInput struct {
	Label    string      `json:"label" validate:"required,max=200"`
	URL      string      `json:"url" validate:"max=2000"`
	Children []ItemInput `json:"children" validate:"dive"`
}

type ReplaceItemsInput struct {
	Items []ItemInput `json:"items" validate:"dive"`
}

func (s *Service) List(ctx context.Context) ([]domain.Menu, error) {
	return s.repo.List(ctx)
}

// GetByLocation returns the menu with its item tree.
func (s *Service) GetByLocation(ctx context.Context, location string) (*domain.Menu, error) {
	m, err := s.repo.GetByLocation(ctx, location)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, m)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Menu, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, domain.Menu{Name: in.Name, Location: in.Location})
}

// ReplaceItems swaps the whole item tree of a menu and returns the result.
func (s *Service) ReplaceItems(ctx context.Context, menuID string, in ReplaceItemsInput) (*domain.Menu, error) {
	if err := domain.CheckID(menuID); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceItems(ctx, menuID, toItems(in.Items)); err != nil {
		return nil, err
	}
	m, err := s.repo.GetByID(ctx, menuID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, m)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := domain.CheckID(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) withItems(ctx context.Context, m *domain.Menu) (*domain.Menu, error) {
	items, err := s.repo.Items(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	m.Items = BuildTree(items)
	return m, nil
}

func toItems(in []ItemInput) []*domain.MenuItem {
	out := make([]*domain.MenuItem, 0, len(in))
	for _, it := range in {
		out = append(out, &domain.MenuItem{Label: it.Label, URL: it.URL, Children: toItems(it.Children)})
	}
	return out
}

// BuildTree nests items under their parents, ordering siblings by sort
// order then label. Items whose parent is missing become roots.
func BuildTree(items []domain.MenuItem) []*domain.MenuItem {
	nodes := make(map[string]*domain.MenuItem, len(items))
	for i := range items {
		it := items[i]
		it.Children = nil
		nodes[it.ID] = &it
	}
	roots := []*domain.MenuItem{}
	for i := range items {
		node := nodes[items[i].ID]
		if node.ParentID != nil {
			if parent, ok := nodes[*node.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	sortItems(roots)
	return roots
}

func sortItems(list []*domain.MenuItem) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].SortOrder != list[j].SortOrder {
			return list[i].SortOrder < list[j].SortOrder
		}
		return list[i].Label < list[j].Label
	})
	for _, it := range list {
		sortItems(it.Children)
	}
}
