package httpserver

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/render"
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

type AuthService interface {
	Register(ctx context.Context, in authsvc.RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, in authsvc.LoginInput) (*domain.User, string, error)
	Authenticate(ctx context.Context, raw string) (*authsvc.Claims, error)
	Me(ctx context.Context, c *authsvc.Claims) (*domain.User, error)
	Logout(ctx context.Context, c *authsvc.Claims) error
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Tree(ctx context.Context) ([]*domain.Category, error)
	Get(ctx context.Context, ref string) (*domain.Category, error)
	Create(ctx context.Context, in categorysvc.CreateInput) (*domain.Category, error)
	Update(ctx context.Context, id string, in categorysvc.UpdateInput) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

type ProductService interface {
	List(ctx context.Context, q productsvc.ListQuery) (*domain.ProductPage, error)
	GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*domain.Product, error)
	Create(ctx context.Context, in productsvc.CreateInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in productsvc.UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type PageService interface {
	List(ctx context.Context, slug string, includeDrafts bool) ([]domain.Page, error)
	Get(ctx context.Context, id string) (*domain.Page, error)
	GetPublished(ctx context.Context, slug string) (*domain.Page, error)
	Create(ctx context.Context, in pagesvc.CreateInput) (*domain.Page, error)
	Update(ctx context.Context, id string, in pagesvc.UpdateInput) (*domain.Page, error)
	Delete(ctx context.Context, id string) error
}

type MenuService interface {
	List(ctx context.Context) ([]domain.Menu, error)
	GetByLocation(ctx context.Context, location string) (*domain.Menu, error)
	Create(ctx context.Context, in menusvc.CreateInput) (*domain.Menu, error)
	ReplaceItems(ctx context.Context, menuID string, in menusvc.ReplaceItemsInput) (*domain.Menu, error)
	Delete(ctx context.Context, id string) error
}

type BlogService interface {
	ListCategories(ctx context.Context) ([]domain.BlogCategory, error)
	CreateCategory(ctx context.Context, in blogsvc.CategoryInput) (*domain.BlogCategory, error)
	ListTags(ctx context.Context) ([]domain.BlogTag, error)
	CreateTag(ctx context.Context, in blogsvc.TagInput) (*domain.BlogTag, error)
	ListPosts(ctx context.Context, f domain.ContentFilter) (*domain.ContentPage, error)
	GetPost(ctx context.Context, slug string, includeDrafts bool) (*domain.Content, error)
	CreatePost(ctx context.Context, authorID string, in blogsvc.PostInput) (*domain.Content, error)
	UpdatePost(ctx context.Context, id string, in blogsvc.PostUpdate) (*domain.Content, error)
	DeletePost(ctx context.Context, id string) error
}

type AddressService interface {
	List(ctx context.Context, userID string) ([]domain.Address, error)
	Create(ctx context.Context, userID string, in addresssvc.Input) (*domain.Address, error)
	Update(ctx context.Context, userID, id string, in addresssvc.Update) (*domain.Address, error)
	Delete(ctx context.Context, userID, id string) error
}

type ContactService interface {
	Submit(ctx context.Context, in contactsvc.Input) (*domain.ContactMessage, error)
	List(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error)
}

type PaymentService interface {
	Mock(ctx context.Context, in paymentsvc.MockInput) (*paymentsvc.MockResult, error)
	ZiraatForm(ctx context.Context, in paymentsvc.ZiraatInput) (*paymentsvc.ZiraatForm, error)
	ZiraatCallback(ctx context.Context, fields map[string]string) (*paymentsvc.ZiraatResult, error)
	LookupBIN(ctx context.Context, bin string) (*paymentsvc.BINInfo, error)
}

// SectionRenderer draws the ordered sections of a CMS page.
type SectionRenderer interface {
	Sections(ctx context.Context, sections []domain.PageSection) (template.HTML, error)
}

// Deps carries the services behind the routes. A nil Renderer gets the
// default section renderer; a nil Registry gets a fresh one.
type Deps struct {
	Auth     AuthService
	Category CategoryService
	Product  ProductService
	Page     PageService
	Menu     MenuService
	Blog     BlogService
	Address  AddressService
	Contact  ContactService
	Payment  PaymentService
	Renderer SectionRenderer

	AllowedOrigins []string
	Registry       *prometheus.Registry
}

// buildRouter wires the JSON API, the storefront pages and the operational
// endpoints.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if deps.Renderer == nil {
		r, err := render.New()
		if err != nil {
			return nil, err
		}
		deps.Renderer = r
	}
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	router := gin.New()
	router.Use(requestLogger(logger), recovery(), newHTTPMetrics(reg).middleware(), corsMiddleware(deps.AllowedOrigins))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	registerAPI(router.Group("/api"), deps)

	site, err := newSiteHandler(deps)
	if err != nil {
		return nil, fmt.Errorf("build storefront templates: %w", err)
	}
	router.SetHTMLTemplate(site.tmpl)
	site.register(router)

	router.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			writeError(c, domain.ErrNotFound)
			return
		}
		slug := strings.Trim(path, "/")
		if c.Request.Method == http.MethodGet && slug != "" && !strings.Contains(slug, "/") {
			site.dynamicPage(c, slug)
			return
		}
		site.notFound(c)
	})

	return router, nil
}

func registerAPI(api *gin.RouterGroup, deps Deps) {
	optional := authenticate(deps.Auth, false)
	bearer := authenticate(deps.Auth, true)
	admin := []gin.HandlerFunc{bearer, requireAdmin}

	auth := &authHandler{svc: deps.Auth}
	api.POST("/auth/register", auth.register)
	api.POST("/auth/login", auth.login)
	api.GET("/auth/me", bearer, auth.me)
	api.POST("/auth/logout", bearer, auth.logout)

	categories := &categoryHandler{svc: deps.Category}
	api.GET("/categories", categories.list)
	api.GET("/categories/:ref", categories.get)
	api.POST("/categories", append(admin, categories.create)...)
	api.PATCH("/categories/:ref", append(admin, categories.update)...)
	api.DELETE("/categories/:ref", append(admin, categories.delete)...)

	products := &productHandler{svc: deps.Product}
	api.GET("/products", optional, products.list)
	api.GET("/products/:ref", optional, products.get)
	api.POST("/products", append(admin, products.create)...)
	api.PATCH("/products/:ref", append(admin, products.update)...)
	api.DELETE("/products/:ref", append(admin, products.delete)...)

	pages := &pageHandler{svc: deps.Page}
	api.GET("/pages", optional, pages.list)
	api.GET("/pages/:id", append(admin, pages.get)...)
	api.POST("/pages", append(admin, pages.create)...)
	api.PATCH("/pages/:id", append(admin, pages.update)...)
	api.DELETE("/pages/:id", append(admin, pages.delete)...)

	menus := &menuHandler{svc: deps.Menu}
	api.GET("/menus", append(admin, menus.list)...)
	api.GET("/menus/:ref", menus.getByLocation)
	api.POST("/menus", append(admin, menus.create)...)
	api.PUT("/menus/:ref/items", append(admin, menus.replaceItems)...)
	api.DELETE("/menus/:ref", append(admin, menus.delete)...)

	blog := &blogHandler{svc: deps.Blog}
	api.GET("/blog/categories", blog.listCategories)
	api.POST("/blog/categories", append(admin, blog.createCategory)...)
	api.GET("/blog/tags", blog.listTags)
	api.POST("/blog/tags", append(admin, blog.createTag)...)
	api.GET("/blog/posts", optional, blog.listPosts)
	api.GET("/blog/posts/:ref", optional, blog.getPost)
	api.POST("/blog/posts", append(admin, blog.createPost)...)
	api.PATCH("/blog/posts/:ref", append(admin, blog.updatePost)...)
	api.DELETE("/blog/posts/:ref", append(admin, blog.deletePost)...)

	addresses := &addressHandler{svc: deps.Address}
	own := api.Group("/addresses", bearer)
	own.GET("", addresses.list)
	own.POST("", addresses.create)
	own.PATCH("/:id", addresses.update)
	own.DELETE("/:id", addresses.delete)

	contact := &contactHandler{svc: deps.Contact}
	api.POST("/contact", contact.submit)
	api.GET("/contact", append(admin, contact.list)...)

	payments := &paymentHandler{svc: deps.Payment}
	api.POST("/payments/mock", payments.mock)
	api.POST("/payments/ziraat", payments.ziraatForm)
	api.POST("/payments/ziraat/callback", payments.ziraatCallback)
	api.GET("/payments/bin/:bin", payments.lookupBIN)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
