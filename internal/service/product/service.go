package product

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
	"storefront/internal/validation"
)

const (
	DefaultLimit    = 20
	MaxLimit        = 100
	DefaultCurrency = "TRY"
)

// CategoryResolver expands a category slug into its id and direct children.
type CategoryResolver interface {
	WithChildren(ctx context.Context, slug string) ([]string, error)
}

type Service struct {
	repo       productrepo.Repository
	categories CategoryResolver
}

func New(repo productrepo.Repository, categories CategoryResolver) *Service {
	return &Service{repo: repo, categories: categories}
}

// ListQuery is the caller-facing listing request.
type ListQuery struct {
	CategorySlug  string
	Query         string
	Featured      *bool
	MinPriceCents *int64
	MaxPriceCents *int64
	Sort          string
	Limit         int
	Offset        int
	IncludeDrafts bool
}

type CreateInput struct {
	SKU         string   `json:"sku" validate:"required,max=64"`
	Name        string   `json:"name" validate:"required,max=300"`
	Slug        string   `json:"slug" validate:"max=300"`
	Description string   `json:"description" validate:"max=20000"`
	PriceCents  int64    `json:"priceCents" validate:"gte=0"`
	Currency    string   `json:"currency" validate:"omitempty,len=3"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Images      []string `json:"images" validate:"dive,url"`
	CategoryID  *string  `json:"categoryId" validate:"omitempty,uuid"`
	Featured    bool     `json:"featured"`
	Published   bool     `json:"published"`
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	SKU         *string   `json:"sku" validate:"omitnil,min=1,max=64"`
	Name        *string   `json:"name" validate:"omitnil,min=1,max=300"`
	Slug        *string   `json:"slug" validate:"omitempty,max=300"`
	Description *string   `json:"description" validate:"omitempty,max=20000"`
	PriceCents  *int64    `json:"priceCents" validate:"omitempty,gte=0"`
	Currency    *string   `json:"currency" validate:"omitempty,len=3"`
	Stock       *int      `json:"stock" validate:"omitempty,gte=0"`
	Images      *[]string `json:"images" validate:"omitempty,dive,url"`
	CategoryID  *string   `json:"categoryId"`
	Featured    *bool     `json:"featured"`
	Published   *bool     `json:"published"`
}

func (s *Service) List(ctx context.Context, q ListQuery) (*domain.ProductPage, error) {
	f := domain.ProductFilter{
		Query:         q.Query,
		Featured:      q.Featured,
		MinPriceCents: q.MinPriceCents,
		MaxPriceCents: q.MaxPriceCents,
		IncludeDrafts: q.IncludeDrafts,
		Sort:          normaliseSort(q.Sort),
		Limit:         ClampLimit(q.Limit),
		Offset:        q.Offset,
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if q.CategorySlug != "" {
		ids, err := s.categories.WithChildren(ctx, q.CategorySlug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return &domain.ProductPage{Results: []domain.Product{}, Limit: f.Limit, Offset: f.Offset}, nil
			}
			return nil, err
		}
		f.CategoryIDs = ids
	}
	return s.repo.List(ctx, f)
}

// GetBySlug returns a product; drafts are visible only when includeDrafts is set.
func (s *Service) GetBySlug(ctx context.Context, slug string, includeDrafts bool) (*domain.Product, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.Published && !includeDrafts {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if err := domain.CheckID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	p, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p)
}

// Upsert inserts or updates by SKU.
func (s *Service) Upsert(ctx context.Context, in CreateInput) (*domain.Product, error) {
	p, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Upsert(ctx, p)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Product, error) {
	if err := domain.CheckID(id); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.SKU != nil {
		p.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Slug != nil {
		if p.Slug, err = domain.ResolveSlug(*in.Slug, p.Name); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.PriceCents != nil {
		p.PriceCents = *in.PriceCents
	}
	if in.Currency != nil {
		p.Currency = strings.ToUpper(*in.Currency)
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Images != nil {
		p.Images = *in.Images
	}
	if in.CategoryID != nil {
		if *in.CategoryID == "" {
			p.CategoryID = nil
		} else {
			p.CategoryID = in.CategoryID
		}
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.Published != nil {
		p.Published = *in.Published
	}
	return s.repo.Update(ctx, *p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := domain.CheckID(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) prepare(in CreateInput) (domain.Product, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	if err := validation.Struct(in); err != nil {
		return domain.Product{}, err
	}
	slug, err := domain.ResolveSlug(in.Slug, in.Name)
	if err != nil {
		return domain.Product{}, err
	}
	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}
	images := in.Images
	if images == nil {
		images = []string{}
	}
	return domain.Product{
		SKU:         in.SKU,
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		Currency:    currency,
		Stock:       in.Stock,
		Images:      images,
		CategoryID:  in.CategoryID,
		Featured:    in.Featured,
		Published:   in.Published,
	}, nil
}

// ClampLimit applies the default and maximum page sizes.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

func normaliseSort(s string) string {
	switch s {
	case domain.SortPriceAsc, domain.SortPriceDesc, domain.SortName:
		return s
	default:
		return domain.SortNewest
	}
}
