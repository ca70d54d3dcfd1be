package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	productsvc "storefront/internal/service/product"
)

type stubProductWriter struct {
	items []productsvc.CreateInput
}

func (s *stubProductWriter) Upsert(_ context.Context, in productsvc.CreateInput) (*domain.Product, error) {
	s.items = append(s.items, in)
	return &domain.Product{SKU: in.SKU, Slug: in.Slug}, nil
}

type stubCategoryWriter struct {
	bySlug  map[string]domain.Category
	upserts []domain.Category
}

func newStubCategoryWriter(existing ...domain.Category) *stubCategoryWriter {
	s := &stubCategoryWriter{bySlug: map[string]domain.Category{}}
	for _, c := range existing {
		s.bySlug[c.Slug] = c
	}
	return s
}

func (s *stubCategoryWriter) Get(_ context.Context, ref string) (*domain.Category, error) {
	if c, ok := s.bySlug[ref]; ok {
		return &c, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubCategoryWriter) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	s.upserts = append(s.upserts, c)
	if existing, ok := s.bySlug[c.Slug]; ok {
		c.ID = existing.ID
	} else {
		c.ID = "id-" + c.Slug
	}
	s.bySlug[c.Slug] = c
	return &c, nil
}

func TestCSVImporter_Products(t *testing.T) {
	csvData := `sku,name,slug,description,price_cents,currency,stock,category,featured,published,image_url
MUG-1,Blue Mug,,Stoneware,19900,TRY,5,mugs,yes,true,https://example.com/mug-1.jpg
,,,,,,,,,,https://example.com/mug-1-side.jpg
BOWL-1,Soup Bowl,soup-bowl,,12500,,0,bowls,,false,
`
	products := &stubProductWriter{}
	categories := newStubCategoryWriter(domain.Category{ID: "cat-mugs", Slug: "mugs", Name: "Mugs"})
	imp := NewCSVImporter(strings.NewReader(csvData), products, categories, nil)

	count, err := imp.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Len(t, products.items, 2)

	mug := products.items[0]
	require.Equal(t, "MUG-1", mug.SKU)
	require.EqualValues(t, 19900, mug.PriceCents)
	require.Equal(t, 5, mug.Stock)
	require.True(t, mug.Featured)
	require.True(t, mug.Published)
	require.Equal(t, []string{"https://example.com/mug-1.jpg", "https://example.com/mug-1-side.jpg"}, mug.Images)
	require.Equal(t, "cat-mugs", *mug.CategoryID)

	bowl := products.items[1]
	require.Equal(t, "soup-bowl", bowl.Slug)
	require.False(t, bowl.Published)
	require.Equal(t, "id-bowls", *bowl.CategoryID)

	require.Len(t, categories.upserts, 1)
	require.Equal(t, "Bowls", categories.upserts[0].Name)
}

func TestCSVImporter_ProductRowErrors(t *testing.T) {
	csvData := `sku,name,price_cents
MUG-1,Blue Mug,cheap
`
	imp := NewCSVImporter(strings.NewReader(csvData), &stubProductWriter{}, newStubCategoryWriter(), nil)

	_, err := imp.Run(context.Background())
	require.ErrorContains(t, err, "row 2: price_cents")
}

func TestCSVImporter_Categories(t *testing.T) {
	csvData := `slug,name,parent,description,sort_order
stoneware-mugs,,mugs,Hand made,2
mugs,Mugs,kitchen,,1
kitchen,Kitchen,,,0
`
	categories := newStubCategoryWriter()
	imp := NewCSVImporter(strings.NewReader(csvData), nil, categories, nil)

	count, err := imp.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, count)

	require.Equal(t, "Stoneware Mugs", categories.bySlug["stoneware-mugs"].Name)
	require.Equal(t, 2, categories.bySlug["stoneware-mugs"].SortOrder)
	require.Equal(t, "id-mugs", *categories.bySlug["stoneware-mugs"].ParentID)
	require.Equal(t, "id-kitchen", *categories.bySlug["mugs"].ParentID)
	require.Nil(t, categories.bySlug["kitchen"].ParentID)
	require.Len(t, categories.upserts, 5)
}

func TestDetectKind(t *testing.T) {
	kind, err := DetectKind(strings.NewReader("sku,name,price_cents\nMUG-1,Mug,100\n"))
	require.NoError(t, err)
	require.Equal(t, KindProducts, kind)

	kind, err = DetectKind(strings.NewReader("\ufeffSlug,Name,Parent\nmugs,Mugs,\n"))
	require.NoError(t, err)
	require.Equal(t, KindCategories, kind)

	_, err = DetectKind(strings.NewReader("foo,bar\n1,2\n"))
	require.Error(t, err)
}
