package page

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

type memoryRepo struct {
	pages    map[string]domain.Page
	replaced bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{pages: map[string]domain.Page{}}
}

func (r *memoryRepo) List(_ context.Context, slug string, includeDrafts bool) ([]domain.Page, error) {
	out := []domain.Page{}
	for _, p := range r.pages {
		if (slug == "" || p.Slug == slug) && (includeDrafts || p.Published) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Page, error) {
	p, ok := r.pages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *memoryRepo) GetBySlug(_ context.Context, slug string) (*domain.Page, error) {
	for _, p := range r.pages {
		if p.Slug == slug {
			clone := p
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) Create(_ context.Context, p domain.Page) (*domain.Page, error) {
	p.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(p.Slug)).String()
	r.pages[p.ID] = p
	return &p, nil
}

func (r *memoryRepo) Update(_ context.Context, p domain.Page, replaceSections bool) (*domain.Page, error) {
	r.replaced = replaceSections
	if !replaceSections {
		p.Sections = r.pages[p.ID].Sections
	}
	r.pages[p.ID] = p
	return &p, nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	delete(r.pages, id)
	return nil
}

func TestCreate_OrdersSectionsByIndex(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo)

	p, err := svc.Create(context.Background(), CreateInput{
		Title:     "Hakkımızda",
		Published: true,
		Sections: []SectionInput{
			{Type: domain.SectionHero, Data: json.RawMessage(`{"title":"Biz Kimiz"}`)},
			{Type: domain.SectionRichText, Data: json.RawMessage(`{"html":"<p>metin</p>"}`)},
			{Type: domain.SectionCTA, Data: json.RawMessage(`{"title":"Alışverişe başla","buttonUrl":"/products"}`)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "hakkimizda", p.Slug)
	require.Len(t, p.Sections, 3)
	for i, s := range p.Sections {
		require.Equal(t, i, s.SortOrder)
	}
	require.Equal(t, domain.SectionCTA, p.Sections[2].Type)
}

func TestCreate_RejectsUnknownAndInvalidSections(t *testing.T) {
	svc := New(newMemoryRepo())

	_, err := svc.Create(context.Background(), CreateInput{
		Title: "Bad",
		Sections: []SectionInput{
			{Type: "carousel", Data: json.RawMessage(`{}`)},
			{Type: domain.SectionHero, Data: json.RawMessage(`{"subtitle":"no title"}`)},
		},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
	require.Equal(t, "sections[0].type", verr.Fields[0].Field)
	require.Equal(t, "sections[1].data.title", verr.Fields[1].Field)
}

func TestUpdate_ReplacesSectionsOnlyWhenPresent(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{Title: "Home", Sections: []SectionInput{
		{Type: domain.SectionHero, Data: json.RawMessage(`{"title":"Old"}`)},
	}})
	require.NoError(t, err)

	title := "Home v2"
	updated, err := svc.Update(ctx, p.ID, UpdateInput{Title: &title})
	require.NoError(t, err)
	require.False(t, repo.replaced)
	require.Len(t, updated.Sections, 1)

	sections := []SectionInput{}
	updated, err = svc.Update(ctx, p.ID, UpdateInput{Sections: &sections})
	require.NoError(t, err)
	require.True(t, repo.replaced)
	require.Empty(t, updated.Sections)

	blank := ""
	_, err = svc.Update(ctx, p.ID, UpdateInput{Title: &blank})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetUpdateDelete_MalformedIDIsNotFound(t *testing.T) {
	svc := New(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Get(ctx, "abc")
	require.ErrorIs(t, err, domain.ErrNotFound)
	title := "x"
	_, err = svc.Update(ctx, "abc", UpdateInput{Title: &title})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, "abc"), domain.ErrNotFound)
}

func TestGetPublished_HidesDrafts(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Title: "Draft"})
	require.NoError(t, err)

	_, err = svc.GetPublished(ctx, "draft")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
