package product

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/logger"
)

const productColumns = `id::text, sku, name, slug, description, price_cents, currency, stock, images, category_id::text, featured, published, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, l *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(l)}
}

func (r *postgresRepo) List(ctx context.Context, f domain.ProductFilter) (*domain.ProductPage, error) {
	listSQL, listArgs, countSQL, countArgs, err := buildListQueries(f)
	if err != nil {
		return nil, fmt.Errorf("build product query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		r.logger.Error("product repo: count", zap.Error(err))
		return nil, db.MapError(err)
	}

	rows, err := r.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		r.logger.Error("product repo: list", zap.Error(err))
		return nil, db.MapError(err)
	}
	defer rows.Close()

	page := &domain.ProductPage{Results: []domain.Product{}, Total: total, Limit: f.Limit, Offset: f.Offset}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		page.Results = append(page.Results, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("product repo: list", zap.Int("count", len(page.Results)), zap.Int("total", total))
	return page, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug))
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (sku, name, slug, description, price_cents, currency, stock, images, category_id, featured, published)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + productColumns
	out, err := scanProduct(r.pool.QueryRow(ctx, q, p.SKU, p.Name, p.Slug, p.Description, p.PriceCents, p.Currency,
		p.Stock, imagesOrEmpty(p.Images), p.CategoryID, p.Featured, p.Published))
	if err != nil {
		return nil, err
	}
	r.logger.Info("product created", zap.String("id", out.ID), zap.String("slug", out.Slug))
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
UPDATE products
SET sku = $2, name = $3, slug = $4, description = $5, price_cents = $6, currency = $7, stock = $8,
    images = $9, category_id = $10, featured = $11, published = $12, updated_at = now()
WHERE id = $1
RETURNING ` + productColumns
	return scanProduct(r.pool.QueryRow(ctx, q, p.ID, p.SKU, p.Name, p.Slug, p.Description, p.PriceCents, p.Currency,
		p.Stock, imagesOrEmpty(p.Images), p.CategoryID, p.Featured, p.Published))
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return db.MapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Info("product deleted", zap.String("id", id))
	return nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (sku, name, slug, description, price_cents, currency, stock, images, category_id, featured, published)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    slug = EXCLUDED.slug,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    currency = EXCLUDED.currency,
    stock = EXCLUDED.stock,
    images = EXCLUDED.images,
    category_id = COALESCE(EXCLUDED.category_id, products.category_id),
    featured = EXCLUDED.featured,
    published = EXCLUDED.published,
    updated_at = now()
RETURNING ` + productColumns
	out, err := scanProduct(r.pool.QueryRow(ctx, q, p.SKU, p.Name, p.Slug, p.Description, p.PriceCents, p.Currency,
		p.Stock, imagesOrEmpty(p.Images), p.CategoryID, p.Featured, p.Published))
	if err != nil {
		r.logger.Error("product repo: upsert", zap.String("sku", p.SKU), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func imagesOrEmpty(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Slug, &p.Description, &p.PriceCents, &p.Currency, &p.Stock,
		&p.Images, &p.CategoryID, &p.Featured, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, db.MapError(err)
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return &p, nil
}
