package menu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestBuildTree_NestsChildrenInSortOrder(t *testing.T) {
	items := []domain.MenuItem{
		{ID: "3", Label: "Blog", SortOrder: 2},
		{ID: "1", Label: "Shop", SortOrder: 1},
		{ID: "5", Label: "Women", ParentID: strPtr("1"), SortOrder: 1},
		{ID: "4", Label: "Men", ParentID: strPtr("1"), SortOrder: 1},
		{ID: "6", Label: "Sale", ParentID: strPtr("1"), SortOrder: 0},
		{ID: "7", Label: "Ghost", ParentID: strPtr("missing"), SortOrder: 9},
	}

	roots := BuildTree(items)
	require.Len(t, roots, 3)
	require.Equal(t, []string{"Shop", "Blog", "Ghost"}, labels(roots))
	require.Equal(t, []string{"Sale", "Men", "Women"}, labels(roots[0].Children))
}

func TestBuildTree_Empty(t *testing.T) {
	require.Empty(t, BuildTree(nil))
}

func labels(items []*domain.MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Label)
	}
	return out
}

type memoryRepo struct {
	menu  domain.Menu
	items []domain.MenuItem
}

func (r *memoryRepo) List(context.Context) ([]domain.Menu, error) {
	return []domain.Menu{r.menu}, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Menu, error) {
	if id != r.menu.ID {
		return nil, domain.ErrNotFound
	}
	m := r.menu
	return &m, nil
}

func (r *memoryRepo) GetByLocation(_ context.Context, location string) (*domain.Menu, error) {
	if location != r.menu.Location {
		return nil, domain.ErrNotFound
	}
	m := r.menu
	return &m, nil
}

func (r *memoryRepo) Items(context.Context, string) ([]domain.MenuItem, error) {
	return r.items, nil
}

func (r *memoryRepo) Create(_ context.Context, m domain.Menu) (*domain.Menu, error) {
	m.ID = "4b0c6f0e-2f55-4c1b-9a57-6c0d9e3f1a20"
	r.menu = m
	return &m, nil
}

func (r *memoryRepo) ReplaceItems(_ context.Context, menuID string, items []*domain.MenuItem) error {
	if menuID != r.menu.ID {
		return domain.ErrNotFound
	}
	r.items = nil
	var flatten func(parent *string, list []*domain.MenuItem)
	flatten = func(parent *string, list []*domain.MenuItem) {
		for i, it := range list {
			id := it.Label
			r.items = append(r.items, domain.MenuItem{ID: id, ParentID: parent, Label: it.Label, URL: it.URL, SortOrder: i})
			flatten(&id, it.Children)
		}
	}
	flatten(nil, items)
	return nil
}

func (r *memoryRepo) Delete(context.Context, string) error { return nil }

func TestReplaceItems_ReturnsTree(t *testing.T) {
	repo := &memoryRepo{}
	svc := New(repo)
	ctx := context.Background()

	m, err := svc.Create(ctx, CreateInput{Name: "Header", Location: "main"})
	require.NoError(t, err)

	got, err := svc.ReplaceItems(ctx, m.ID, ReplaceItemsInput{Items: []ItemInput{
		{Label: "Shop", URL: "/products", Children: []ItemInput{{Label: "Shoes", URL: "/categories/shoes"}}},
		{Label: "Contact", URL: "/contact"},
	}})
	require.NoError(t, err)
	require.Equal(t, []string{"Shop", "Contact"}, labels(got.Items))
	require.Equal(t, []string{"Shoes"}, labels(got.Items[0].Children))

	_, err = svc.ReplaceItems(ctx, m.ID, ReplaceItemsInput{Items: []ItemInput{{URL: "/x"}}})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.ReplaceItems(ctx, "main", ReplaceItemsInput{})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, "main"), domain.ErrNotFound)

	byLocation, err := svc.GetByLocation(ctx, "main")
	require.NoError(t, err)
	require.Len(t, byLocation.Items, 2)
}
