package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/domain"
	authsvc "storefront/internal/service/auth"
	blogsvc "storefront/internal/service/blog"
	menusvc "storefront/internal/service/menu"
	pagesvc "storefront/internal/service/page"
	productsvc "storefront/internal/service/product"
)

type AdminService interface {
	EnsureAdmin(ctx context.Context, in authsvc.RegisterInput) (*domain.User, error)
}

type CategoryService interface {
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}

type ProductService interface {
	Upsert(ctx context.Context, in productsvc.CreateInput) (*domain.Product, error)
}

type PageService interface {
	List(ctx context.Context, slug string, includeDrafts bool) ([]domain.Page, error)
	Create(ctx context.Context, in pagesvc.CreateInput) (*domain.Page, error)
}

type MenuService interface {
	GetByLocation(ctx context.Context, location string) (*domain.Menu, error)
	Create(ctx context.Context, in menusvc.CreateInput) (*domain.Menu, error)
	ReplaceItems(ctx context.Context, menuID string, in menusvc.ReplaceItemsInput) (*domain.Menu, error)
}

type BlogService interface {
	ListCategories(ctx context.Context) ([]domain.BlogCategory, error)
	CreateCategory(ctx context.Context, in blogsvc.CategoryInput) (*domain.BlogCategory, error)
	ListTags(ctx context.Context) ([]domain.BlogTag, error)
	CreateTag(ctx context.Context, in blogsvc.TagInput) (*domain.BlogTag, error)
	GetPost(ctx context.Context, slug string, includeDrafts bool) (*domain.Content, error)
	CreatePost(ctx context.Context, authorID string, in blogsvc.PostInput) (*domain.Content, error)
}

// Services bundles everything Apply writes through.
type Services struct {
	Admin      AdminService
	Categories CategoryService
	Products   ProductService
	Pages      PageService
	Menus      MenuService
	Blog       BlogService
}

type Admin struct {
	Email    string
	Password string
}

type productSeed struct {
	SKU         string
	Name        string
	Description string
	PriceCents  int64
	Stock       int
	Category    string
	Featured    bool
}

var categories = []domain.Category{
	{Name: "Apparel", Slug: "apparel", Description: "Shirts, hoodies and more", SortOrder: 1},
	{Name: "Home", Slug: "home-goods", Description: "Mugs and everyday objects", SortOrder: 2},
}

var products = []productSeed{
	{SKU: "SKU-DEMO-TSHIRT", Name: "Demo T-Shirt", Description: "Soft cotton tee.", PriceCents: 1999, Stock: 40, Category: "apparel", Featured: true},
	{SKU: "SKU-DEMO-HOODIE", Name: "Demo Hoodie", Description: "Warm fleece hoodie.", PriceCents: 4999, Stock: 15, Category: "apparel"},
	{SKU: "SKU-DEMO-MUG", Name: "Demo Mug", Description: "Ceramic mug with the store logo.", PriceCents: 1299, Stock: 100, Category: "home-goods", Featured: true},
}

// Apply writes demo content through the domain services. Running it twice
// leaves the same data behind.
func Apply(ctx context.Context, svc Services, admin Admin, l *zap.Logger) error {
	user, err := svc.Admin.EnsureAdmin(ctx, authsvc.RegisterInput{
		Email:    admin.Email,
		Password: admin.Password,
		Name:     "Store Admin",
	})
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	l.Info("admin ready", zap.String("email", user.Email))

	categoryIDs := make(map[string]string, len(categories))
	for _, c := range categories {
		saved, err := svc.Categories.Upsert(ctx, c)
		if err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Slug, err)
		}
		categoryIDs[c.Slug] = saved.ID
	}

	for _, p := range products {
		categoryID := categoryIDs[p.Category]
		in := productsvc.CreateInput{
			SKU:         p.SKU,
			Name:        p.Name,
			Description: p.Description,
			PriceCents:  p.PriceCents,
			Currency:    "USD",
			Stock:       p.Stock,
			CategoryID:  &categoryID,
			Featured:    p.Featured,
			Published:   true,
		}
		if _, err := svc.Products.Upsert(ctx, in); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}
	l.Info("catalog seeded", zap.Int("categories", len(categories)), zap.Int("products", len(products)))

	if err := ensurePages(ctx, svc.Pages); err != nil {
		return err
	}
	if err := ensureMenus(ctx, svc.Menus); err != nil {
		return err
	}
	if err := ensureBlog(ctx, svc.Blog, user.ID); err != nil {
		return err
	}
	l.Info("content seeded")
	return nil
}

func ensurePages(ctx context.Context, pages PageService) error {
	defs := []pagesvc.CreateInput{
		{
			Title:     "Home",
			Slug:      "home",
			Published: true,
			Sections: []pagesvc.SectionInput{
				section(domain.SectionHero, domain.HeroSection{
					Title:    "Welcome to the demo store",
					Subtitle: "Everything here is seed data.",
					CTALabel: "Shop now",
					CTAURL:   "/products",
				}),
				section(domain.SectionCTA, domain.CTASection{
					Title:       "Read the blog",
					Text:        "News and guides from the team.",
					ButtonLabel: "Open blog",
					ButtonURL:   "/blog",
				}),
			},
		},
		{
			Title:     "About us",
			Slug:      "about",
			MetaTitle: "About the demo store",
			Published: true,
			Sections: []pagesvc.SectionInput{
				section(domain.SectionRichText, domain.RichTextSection{
					HTML: "<p>We are a small shop built to show off the storefront.</p>",
				}),
			},
		},
	}
	for _, in := range defs {
		existing, err := pages.List(ctx, in.Slug, true)
		if err != nil {
			return fmt.Errorf("list pages %s: %w", in.Slug, err)
		}
		if len(existing) > 0 {
			continue
		}
		if _, err := pages.Create(ctx, in); err != nil {
			return fmt.Errorf("create page %s: %w", in.Slug, err)
		}
	}
	return nil
}

func ensureMenus(ctx context.Context, menus MenuService) error {
	defs := []struct {
		menu  menusvc.CreateInput
		items []menusvc.ItemInput
	}{
		{
			menu: menusvc.CreateInput{Name: "Main navigation", Location: "main"},
			items: []menusvc.ItemInput{
				{Label: "Products", URL: "/products", Children: []menusvc.ItemInput{
					{Label: "Apparel", URL: "/categories/apparel"},
					{Label: "Home", URL: "/categories/home-goods"},
				}},
				{Label: "Blog", URL: "/blog"},
				{Label: "About", URL: "/about"},
			},
		},
		{
			menu: menusvc.CreateInput{Name: "Footer", Location: "footer"},
			items: []menusvc.ItemInput{
				{Label: "Contact", URL: "/contact"},
				{Label: "About", URL: "/about"},
			},
		},
	}
	for _, d := range defs {
		m, err := menus.GetByLocation(ctx, d.menu.Location)
		if errors.Is(err, domain.ErrNotFound) {
			m, err = menus.Create(ctx, d.menu)
		}
		if err != nil {
			return fmt.Errorf("menu %s: %w", d.menu.Location, err)
		}
		if _, err := menus.ReplaceItems(ctx, m.ID, menusvc.ReplaceItemsInput{Items: d.items}); err != nil {
			return fmt.Errorf("menu %s items: %w", d.menu.Location, err)
		}
	}
	return nil
}

func ensureBlog(ctx context.Context, blog BlogService, authorID string) error {
	const postSlug = "hello-world"
	if _, err := blog.GetPost(ctx, postSlug, true); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get post: %w", err)
	}

	categoryID, err := blogCategory(ctx, blog, blogsvc.CategoryInput{Name: "News", Slug: "news"})
	if err != nil {
		return err
	}
	tagID, err := blogTag(ctx, blog, blogsvc.TagInput{Name: "Announcements", Slug: "announcements"})
	if err != nil {
		return err
	}
	_, err = blog.CreatePost(ctx, authorID, blogsvc.PostInput{
		Title:      "Hello, world",
		Slug:       postSlug,
		Excerpt:    "The store is open.",
		Body:       "## We are live\n\nBrowse the [catalog](/products) and tell us what you think.",
		Published:  true,
		CategoryID: &categoryID,
		TagIDs:     []string{tagID},
	})
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func blogCategory(ctx context.Context, blog BlogService, in blogsvc.CategoryInput) (string, error) {
	existing, err := blog.ListCategories(ctx)
	if err != nil {
		return "", fmt.Errorf("list blog categories: %w", err)
	}
	for _, c := range existing {
		if c.Slug == in.Slug {
			return c.ID, nil
		}
	}
	c, err := blog.CreateCategory(ctx, in)
	if err != nil {
		return "", fmt.Errorf("create blog category: %w", err)
	}
	return c.ID, nil
}

func blogTag(ctx context.Context, blog BlogService, in blogsvc.TagInput) (string, error) {
	existing, err := blog.ListTags(ctx)
	if err != nil {
		return "", fmt.Errorf("list blog tags: %w", err)
	}
	for _, t := range existing {
		if t.Slug == in.Slug {
			return t.ID, nil
		}
	}
	t, err := blog.CreateTag(ctx, in)
	if err != nil {
		return "", fmt.Errorf("create blog tag: %w", err)
	}
	return t.ID, nil
}

func section(sectionType string, data any) pagesvc.SectionInput {
	raw, _ := json.Marshal(data) //nolint: errchkjson
	return pagesvc.SectionInput{Type: sectionType, Data: raw}
}
