package httpserver

import (
	"context"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain"
	addresssvc "storefront/internal/service/address"
	authsvc "storefront/internal/service/auth"
	blogsvc "storefront/internal/service/blog"
	categorysvc "storefront/internal/service/category"
	contactsvc "storefront/internal/service/contact"
	menusvc "storefront/internal/service/menu"
	pagesvc "storefront/internal/service/page"
	paymentsvc "storefront/internal/service/payment"
	productsvc "storefront/internal/service/product"
)

const (
	adminToken = "admin-token"
	userToken  = "user-token"
)

func logDiscard() *zap.Logger {
	return zap.NewNop()
}

func newTestRouter(t *testing.T, db *pgxpool.Pool, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if deps.Auth == nil {
		deps.Auth = newStubAuth()
	}
	router, err := buildRouter(logDiscard(), db, deps)
	require.NoError(t, err)
	return router
}

func serve(router http.Handler, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

type stubAuth struct {
	claims map[string]*authsvc.Claims
	user   *domain.User
	token  string
	err    error
}

func newStubAuth() *stubAuth {
	return &stubAuth{
		claims: map[string]*authsvc.Claims{
			adminToken: {UserID: "admin-id", Email: "admin@example.com", Role: domain.RoleAdmin},
			userToken:  {UserID: "user-id", Email: "user@example.com", Role: domain.RoleUser},
		},
	}
}

func (s *stubAuth) Register(context.Context, authsvc.RegisterInput) (*domain.User, string, error) {
	return s.user, s.token, s.err
}

func (s *stubAuth) Login(context.Context, authsvc.LoginInput) (*domain.User, string, error) {
	return s.user, s.token, s.err
}

func (s *stubAuth) Authenticate(_ context.Context, raw string) (*authsvc.Claims, error) {
	if c, ok := s.claims[raw]; ok {
		return c, nil
	}
	return nil, authsvc.ErrInvalidToken
}

func (s *stubAuth) Me(context.Context, *authsvc.Claims) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubAuth) Logout(context.Context, *authsvc.Claims) error {
	return s.err
}

type stubCategoryService struct {
	categories []domain.Category
	err        error
}

func (s *stubCategoryService) List(context.Context) ([]domain.Category, error) {
	return s.categories, s.err
}

func (s *stubCategoryService) Tree(context.Context) ([]*domain.Category, error) {
	return categorysvc.BuildTree(s.categories), s.err
}

func (s *stubCategoryService) Get(_ context.Context, ref string) (*domain.Category, error) {
	for i := range s.categories {
		if s.categories[i].ID == ref || s.categories[i].Slug == ref {
			return &s.categories[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCategoryService) Create(_ context.Context, in categorysvc.CreateInput) (*domain.Category, error) {
	return &domain.Category{ID: "cat-new", Name: in.Name, Slug: in.Slug}, s.err
}

func (s *stubCategoryService) Update(_ context.Context, id string, _ categorysvc.UpdateInput) (*domain.Category, error) {
	return &domain.Category{ID: id}, s.err
}

func (s *stubCategoryService) Delete(context.Context, string) error {
	return s.err
}

type stubProductService struct {
	products  []domain.Product
	lastQuery productsvc.ListQuery
	err       error
}

func (s *stubProductService) List(_ context.Context, q productsvc.ListQuery) (*domain.ProductPage, error) {
	s.lastQuery = q
	if s.err != nil {
		return nil, s.err
	}
	limit := q.Limit
	if limit == 0 {
		limit = productsvc.DefaultLimit
	}
	return &domain.ProductPage{Results: s.products, Total: len(s.products), Limit: limit, Offset: q.Offset}, nil
}

func (s *stubProductService) GetBySlug(_ context.Context, slug string, includeDrafts bool) (*domain.Product, error) {
	for i := range s.products {
		p := s.products[i]
		if p.Slug == slug && (p.Published || includeDrafts) {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubProductService) Create(_ context.Context, in productsvc.CreateInput) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Product{ID: "prod-new", SKU: in.SKU, Name: in.Name, PriceCents: in.PriceCents, Currency: "TRY"}, nil
}

func (s *stubProductService) Update(_ context.Context, id string, _ productsvc.UpdateInput) (*domain.Product, error) {
	return &domain.Product{ID: id}, s.err
}

func (s *stubProductService) Delete(context.Context, string) error {
	return s.err
}

type stubPageService struct {
	pages []domain.Page
	err   error
}

func (s *stubPageService) List(_ context.Context, slug string, includeDrafts bool) ([]domain.Page, error) {
	out := []domain.Page{}
	for _, p := range s.pages {
		if (slug == "" || p.Slug == slug) && (p.Published || includeDrafts) {
			out = append(out, p)
		}
	}
	return out, s.err
}

func (s *stubPageService) Get(_ context.Context, id string) (*domain.Page, error) {
	for i := range s.pages {
		if s.pages[i].ID == id {
			return &s.pages[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubPageService) GetPublished(_ context.Context, slug string) (*domain.Page, error) {
	for i := range s.pages {
		if s.pages[i].Slug == slug && s.pages[i].Published {
			return &s.pages[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubPageService) Create(_ context.Context, in pagesvc.CreateInput) (*domain.Page, error) {
	return &domain.Page{ID: "page-new", Title: in.Title}, s.err
}

func (s *stubPageService) Update(_ context.Context, id string, _ pagesvc.UpdateInput) (*domain.Page, error) {
	return &domain.Page{ID: id}, s.err
}

func (s *stubPageService) Delete(context.Context, string) error {
	return s.err
}

type stubMenuService struct {
	menus map[string]*domain.Menu
}

func (s *stubMenuService) List(context.Context) ([]domain.Menu, error) {
	out := []domain.Menu{}
	for _, m := range s.menus {
		out = append(out, domain.Menu{ID: m.ID, Name: m.Name, Location: m.Location})
	}
	return out, nil
}

func (s *stubMenuService) GetByLocation(_ context.Context, location string) (*domain.Menu, error) {
	if m, ok := s.menus[location]; ok {
		return m, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubMenuService) Create(_ context.Context, in menusvc.CreateInput) (*domain.Menu, error) {
	return &domain.Menu{ID: "menu-new", Name: in.Name, Location: in.Location}, nil
}

func (s *stubMenuService) ReplaceItems(_ context.Context, menuID string, _ menusvc.ReplaceItemsInput) (*domain.Menu, error) {
	return &domain.Menu{ID: menuID}, nil
}

func (s *stubMenuService) Delete(context.Context, string) error {
	return nil
}

type stubBlogService struct {
	posts        []domain.Content
	lastAuthorID string
	lastFilter   domain.ContentFilter
}

func (s *stubBlogService) ListCategories(context.Context) ([]domain.BlogCategory, error) {
	return []domain.BlogCategory{}, nil
}

func (s *stubBlogService) CreateCategory(_ context.Context, in blogsvc.CategoryInput) (*domain.BlogCategory, error) {
	return &domain.BlogCategory{ID: "bc-new", Name: in.Name}, nil
}

func (s *stubBlogService) ListTags(context.Context) ([]domain.BlogTag, error) {
	return []domain.BlogTag{}, nil
}

func (s *stubBlogService) CreateTag(_ context.Context, in blogsvc.TagInput) (*domain.BlogTag, error) {
	return &domain.BlogTag{ID: "tag-new", Name: in.Name}, nil
}

func (s *stubBlogService) ListPosts(_ context.Context, f domain.ContentFilter) (*domain.ContentPage, error) {
	s.lastFilter = f
	return &domain.ContentPage{Results: s.posts, Total: len(s.posts), Limit: f.Limit, Offset: f.Offset}, nil
}

func (s *stubBlogService) GetPost(_ context.Context, slug string, includeDrafts bool) (*domain.Content, error) {
	for i := range s.posts {
		p := s.posts[i]
		if p.Slug == slug && (p.Published || includeDrafts) {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubBlogService) CreatePost(_ context.Context, authorID string, in blogsvc.PostInput) (*domain.Content, error) {
	s.lastAuthorID = authorID
	return &domain.Content{ID: "post-new", Title: in.Title, AuthorID: &authorID}, nil
}

func (s *stubBlogService) UpdatePost(_ context.Context, id string, _ blogsvc.PostUpdate) (*domain.Content, error) {
	return &domain.Content{ID: id}, nil
}

func (s *stubBlogService) DeletePost(context.Context, string) error {
	return nil
}

type stubAddressService struct {
	lastUserID string
}

func (s *stubAddressService) List(_ context.Context, userID string) ([]domain.Address, error) {
	s.lastUserID = userID
	return []domain.Address{}, nil
}

func (s *stubAddressService) Create(_ context.Context, userID string, in addresssvc.Input) (*domain.Address, error) {
	s.lastUserID = userID
	return &domain.Address{ID: "addr-new", Title: in.Title}, nil
}

func (s *stubAddressService) Update(_ context.Context, userID, id string, _ addresssvc.Update) (*domain.Address, error) {
	s.lastUserID = userID
	if id != "addr-1" {
		return nil, domain.ErrNotFound
	}
	return &domain.Address{ID: id}, nil
}

func (s *stubAddressService) Delete(_ context.Context, userID, _ string) error {
	s.lastUserID = userID
	return nil
}

type memContactRepo struct {
	saved []domain.ContactMessage
}

func (r *memContactRepo) Create(_ context.Context, m domain.ContactMessage) (*domain.ContactMessage, error) {
	m.ID = "msg-1"
	r.saved = append(r.saved, m)
	return &m, nil
}

func (r *memContactRepo) List(context.Context, int, int) ([]domain.ContactMessage, error) {
	return r.saved, nil
}

func newContactService() (*contactsvc.Service, *memContactRepo) {
	repo := &memContactRepo{}
	return contactsvc.New(repo, zap.NewNop()), repo
}

type stubPaymentService struct {
	binInfo *paymentsvc.BINInfo
	binErr  error
}

func (s *stubPaymentService) Mock(context.Context, paymentsvc.MockInput) (*paymentsvc.MockResult, error) {
	return &paymentsvc.MockResult{Status: "approved"}, nil
}

func (s *stubPaymentService) ZiraatForm(context.Context, paymentsvc.ZiraatInput) (*paymentsvc.ZiraatForm, error) {
	return &paymentsvc.ZiraatForm{}, nil
}

func (s *stubPaymentService) ZiraatCallback(context.Context, map[string]string) (*paymentsvc.ZiraatResult, error) {
	return &paymentsvc.ZiraatResult{}, nil
}

func (s *stubPaymentService) LookupBIN(context.Context, string) (*paymentsvc.BINInfo, error) {
	return s.binInfo, s.binErr
}

type stubRenderer struct {
	html template.HTML
	err  error
}

func (s stubRenderer) Sections(context.Context, []domain.PageSection) (template.HTML, error) {
	return s.html, s.err
}
