package httpserver

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logger"
	contactsvc "storefront/internal/service/contact"
	productsvc "storefront/internal/service/product"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	homeFeaturedLimit = 8
	homePostsLimit    = 3
	listingPageSize   = 12
)

// siteHandler serves the server-rendered storefront.
type siteHandler struct {
	deps Deps
	tmpl *template.Template
	md   goldmark.Markdown
}

func newSiteHandler(deps Deps) (*siteHandler, error) {
	s := &siteHandler{
		deps: deps,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
	tmpl, err := template.New("site").Funcs(template.FuncMap{
		"price":    formatPrice,
		"date":     formatDate,
		"markdown": s.markdown,
		"add":      func(a, b int) int { return a + b },
		"sub":      func(a, b int) int { return max(a-b, 0) },
		"firstImage": func(images []string) string {
			if len(images) == 0 {
				return ""
			}
			return images[0]
		},
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	s.tmpl = tmpl
	return s, nil
}

func (s *siteHandler) register(r *gin.Engine) {
	r.GET("/", s.home)
	r.GET("/products", s.products)
	r.GET("/products/:slug", s.product)
	r.GET("/categories/:slug", s.category)
	r.GET("/blog", s.blog)
	r.GET("/blog/:slug", s.post)
	r.GET("/contact", s.contactForm)
	r.POST("/contact", s.contactSubmit)
}

// markdown renders admin-authored post bodies; raw HTML is kept.
func (s *siteHandler) markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src)) //nolint: gosec
	}
	return template.HTML(buf.String()) //nolint: gosec
}

func formatPrice(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, currency)
}

func formatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// view builds the template data shared by every page.
func (s *siteHandler) view(c *gin.Context, title string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["MainMenu"] = s.menuItems(c, "main")
	data["FooterMenu"] = s.menuItems(c, "footer")
	data["Year"] = time.Now().Year()
	return data
}

func (s *siteHandler) menuItems(c *gin.Context, location string) []*domain.MenuItem {
	if s.deps.Menu == nil {
		return nil
	}
	m, err := s.deps.Menu.GetByLocation(c.Request.Context(), location)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn(c.Request.Context(), "load menu", zap.String("location", location), zap.Error(err))
		}
		return nil
	}
	return m.Items
}

func (s *siteHandler) home(c *gin.Context) {
	ctx := c.Request.Context()
	featured := true
	products, err := s.deps.Product.List(ctx, productsvc.ListQuery{Featured: &featured, Limit: homeFeaturedLimit})
	if err != nil {
		s.fail(c, err)
		return
	}
	posts, err := s.deps.Blog.ListPosts(ctx, domain.ContentFilter{Limit: homePostsLimit})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "home", s.view(c, "Home", gin.H{
		"Products": products.Results,
		"Posts":    posts.Results,
	}))
}

func (s *siteHandler) products(c *gin.Context) {
	params := newQueryParams(c)
	offset := params.int("offset", 0)
	if params.err() != nil {
		offset = 0
	}
	q := productsvc.ListQuery{
		CategorySlug: c.Query("category"),
		Query:        c.Query("q"),
		Sort:         c.Query("sort"),
		Limit:        listingPageSize,
		Offset:       offset,
	}
	page, err := s.deps.Product.List(c.Request.Context(), q)
	if err != nil {
		s.fail(c, err)
		return
	}
	categories, err := s.deps.Category.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "products", s.view(c, "Products", gin.H{
		"Page":       page,
		"Categories": categories,
		"Category":   q.CategorySlug,
		"Query":      q.Query,
		"HasPrev":    page.Offset > 0,
		"HasNext":    page.Offset+page.Limit < page.Total,
	}))
}

func (s *siteHandler) product(c *gin.Context) {
	p, err := s.deps.Product.GetBySlug(c.Request.Context(), c.Param("slug"), false)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "product", s.view(c, p.Name, gin.H{"Product": p}))
}

func (s *siteHandler) category(c *gin.Context) {
	ctx := c.Request.Context()
	cat, err := s.deps.Category.Get(ctx, c.Param("slug"))
	if err != nil {
		s.fail(c, err)
		return
	}
	page, err := s.deps.Product.List(ctx, productsvc.ListQuery{CategorySlug: cat.Slug, Limit: productsvc.MaxLimit})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "category", s.view(c, cat.Name, gin.H{
		"Category": cat,
		"Products": page.Results,
	}))
}

func (s *siteHandler) blog(c *gin.Context) {
	params := newQueryParams(c)
	offset := params.int("offset", 0)
	if params.err() != nil {
		offset = 0
	}
	page, err := s.deps.Blog.ListPosts(c.Request.Context(), domain.ContentFilter{
		CategorySlug: c.Query("category"),
		TagSlug:      c.Query("tag"),
		Limit:        listingPageSize,
		Offset:       offset,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "blog", s.view(c, "Blog", gin.H{
		"Page":    page,
		"HasPrev": page.Offset > 0,
		"HasNext": page.Offset+page.Limit < page.Total,
	}))
}

func (s *siteHandler) post(c *gin.Context) {
	post, err := s.deps.Blog.GetPost(c.Request.Context(), c.Param("slug"), false)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "post", s.view(c, post.Title, gin.H{"Post": post}))
}

func (s *siteHandler) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact", s.view(c, "Contact", gin.H{
		"Form":   contactsvc.Input{},
		"Errors": map[string]string{},
	}))
}

func (s *siteHandler) contactSubmit(c *gin.Context) {
	var in contactsvc.Input
	if err := c.ShouldBind(&in); err != nil {
		s.contactErrors(c, in, domain.NewValidationError("body", "could not read the form"))
		return
	}
	if _, err := s.deps.Contact.Submit(c.Request.Context(), in); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			s.contactErrors(c, in, verr)
			return
		}
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "contact", s.view(c, "Contact", gin.H{
		"Form":   contactsvc.Input{},
		"Errors": map[string]string{},
		"Sent":   true,
	}))
}

func (s *siteHandler) contactErrors(c *gin.Context, in contactsvc.Input, verr *domain.ValidationError) {
	errs := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		errs[f.Field] = f.Message
	}
	c.HTML(http.StatusBadRequest, "contact", s.view(c, "Contact", gin.H{
		"Form":   in,
		"Errors": errs,
	}))
}

// dynamicPage renders a published CMS page at /:slug.
func (s *siteHandler) dynamicPage(c *gin.Context, slug string) {
	ctx := c.Request.Context()
	page, err := s.deps.Page.GetPublished(ctx, slug)
	if err != nil {
		s.fail(c, err)
		return
	}
	body, err := s.deps.Renderer.Sections(ctx, page.Sections)
	if err != nil {
		s.fail(c, err)
		return
	}
	title := page.MetaTitle
	if title == "" {
		title = page.Title
	}
	c.HTML(http.StatusOK, "page", s.view(c, title, gin.H{
		"Page":            page,
		"Body":            body,
		"MetaDescription": page.MetaDescription,
	}))
}

func (s *siteHandler) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error", s.view(c, "Page not found", gin.H{
		"Status":  http.StatusNotFound,
		"Message": "The page you are looking for does not exist.",
	}))
}

// fail renders lookups that miss as 404 and everything else as a logged 500.
func (s *siteHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
		s.notFound(c)
		return
	}
	logger.Error(c.Request.Context(), "render page", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.HTML(http.StatusInternalServerError, "error", s.view(c, "Error", gin.H{
		"Status":  http.StatusInternalServerError,
		"Message": "Something went wrong. Please try again later.",
	}))
}
