package blog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

type stubRepo struct {
	posts       map[string]domain.Content
	lastFilter  domain.ContentFilter
	lastTagIDs  []string
	tagsWereSet bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{posts: map[string]domain.Content{}}
}

func (r *stubRepo) ListCategories(context.Context) ([]domain.BlogCategory, error) {
	return []domain.BlogCategory{}, nil
}

func (r *stubRepo) GetCategoryBySlug(context.Context, string) (*domain.BlogCategory, error) {
	return nil, domain.ErrNotFound
}

func (r *stubRepo) CreateCategory(_ context.Context, c domain.BlogCategory) (*domain.BlogCategory, error) {
	return &c, nil
}

func (r *stubRepo) ListTags(context.Context) ([]domain.BlogTag, error) {
	return []domain.BlogTag{}, nil
}

func (r *stubRepo) CreateTag(_ context.Context, t domain.BlogTag) (*domain.BlogTag, error) {
	return &t, nil
}

func (r *stubRepo) ListPosts(_ context.Context, f domain.ContentFilter) (*domain.ContentPage, error) {
	r.lastFilter = f
	return &domain.ContentPage{Results: []domain.Content{}, Limit: f.Limit, Offset: f.Offset}, nil
}

func (r *stubRepo) GetPostByID(_ context.Context, id string) (*domain.Content, error) {
	c, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *stubRepo) GetPostBySlug(_ context.Context, slug string) (*domain.Content, error) {
	for _, c := range r.posts {
		if c.Slug == slug {
			clone := c
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubRepo) CreatePost(_ context.Context, c domain.Content, tagIDs []string) (*domain.Content, error) {
	c.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(c.Slug)).String()
	r.lastTagIDs = tagIDs
	r.posts[c.ID] = c
	return &c, nil
}

func (r *stubRepo) UpdatePost(_ context.Context, c domain.Content, tagIDs []string) (*domain.Content, error) {
	r.tagsWereSet = tagIDs != nil
	r.lastTagIDs = tagIDs
	r.posts[c.ID] = c
	return &c, nil
}

func (r *stubRepo) DeletePost(context.Context, string) error { return nil }

func TestCreatePost_SetsAuthorAndSlug(t *testing.T) {
	repo := newStubRepo()
	svc := New(repo)
	tag := "7f1c1d52-9b6a-4d7e-9a55-0d6f9f0d1a11"

	c, err := svc.CreatePost(context.Background(), "author-1", PostInput{Title: "Yaz İndirimi Başladı", Body: "...", TagIDs: []string{tag}})
	require.NoError(t, err)
	require.Equal(t, "yaz-indirimi-basladi", c.Slug)
	require.Equal(t, "author-1", *c.AuthorID)
	require.Equal(t, []string{tag}, repo.lastTagIDs)

	_, err = svc.CreatePost(context.Background(), "", PostInput{Title: "x", Body: "y", TagIDs: []string{"not-a-uuid"}})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdatePost_TagsReplacedOnlyWhenGiven(t *testing.T) {
	repo := newStubRepo()
	svc := New(repo)
	ctx := context.Background()

	c, err := svc.CreatePost(ctx, "", PostInput{Title: "Post", Body: "b"})
	require.NoError(t, err)

	published := true
	_, err = svc.UpdatePost(ctx, c.ID, PostUpdate{Published: &published})
	require.NoError(t, err)
	require.False(t, repo.tagsWereSet)

	empty := []string{}
	_, err = svc.UpdatePost(ctx, c.ID, PostUpdate{TagIDs: &empty})
	require.NoError(t, err)
	require.True(t, repo.tagsWereSet)
	require.Empty(t, repo.lastTagIDs)

	blank := ""
	_, err = svc.UpdatePost(ctx, c.ID, PostUpdate{Title: &blank})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.UpdatePost(ctx, "post", PostUpdate{Published: &published})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, svc.DeletePost(ctx, "post"), domain.ErrNotFound)
}

func TestGetPost_HidesDrafts(t *testing.T) {
	repo := newStubRepo()
	svc := New(repo)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, "", PostInput{Title: "Draft", Body: "b"})
	require.NoError(t, err)

	_, err = svc.GetPost(ctx, "draft", false)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.GetPost(ctx, "draft", true)
	require.NoError(t, err)
}

func TestListPosts_ClampsLimit(t *testing.T) {
	repo := newStubRepo()
	svc := New(repo)

	_, err := svc.ListPosts(context.Background(), domain.ContentFilter{Limit: 1000, Offset: -1})
	require.NoError(t, err)
	require.Equal(t, MaxLimit, repo.lastFilter.Limit)
	require.Equal(t, 0, repo.lastFilter.Offset)
}
