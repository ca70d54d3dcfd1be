package blog

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/logger"
)

const postColumns = `c.id::text, c.title, c.slug, c.excerpt, c.body, c.cover_image, c.published, c.published_at,
c.category_id::text, c.author_id::text, c.created_at, c.updated_at`

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, l *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(l)}
}

func (r *postgresRepo) ListCategories(ctx context.Context) ([]domain.BlogCategory, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, name, slug, description FROM blog_categories ORDER BY name ASC`)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	result := []domain.BlogCategory{}
	for rows.Next() {
		var c domain.BlogCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetCategoryBySlug(ctx context.Context, slug string) (*domain.BlogCategory, error) {
	var c domain.BlogCategory
	err := r.pool.QueryRow(ctx, `SELECT id::text, name, slug, description FROM blog_categories WHERE slug = $1`, slug).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description)
	if err != nil {
		return nil, db.MapError(err)
	}
	return &c, nil
}

func (r *postgresRepo) CreateCategory(ctx context.Context, c domain.BlogCategory) (*domain.BlogCategory, error) {
	const q = `
INSERT INTO blog_categories (name, slug, description)
VALUES ($1, $2, $3)
RETURNING id::text, name, slug, description
`
	var out domain.BlogCategory
	if err := r.pool.QueryRow(ctx, q, c.Name, c.Slug, c.Description).Scan(&out.ID, &out.Name, &out.Slug, &out.Description); err != nil {
		return nil, db.MapError(err)
	}
	return &out, nil
}

func (r *postgresRepo) ListTags(ctx context.Context) ([]domain.BlogTag, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, name, slug FROM blog_tags ORDER BY name ASC`)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	result := []domain.BlogTag{}
	for rows.Next() {
		var t domain.BlogTag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *postgresRepo) CreateTag(ctx context.Context, t domain.BlogTag) (*domain.BlogTag, error) {
	var out domain.BlogTag
	err := r.pool.QueryRow(ctx, `INSERT INTO blog_tags (name, slug) VALUES ($1, $2) RETURNING id::text, name, slug`, t.Name, t.Slug).
		Scan(&out.ID, &out.Name, &out.Slug)
	if err != nil {
		return nil, db.MapError(err)
	}
	return &out, nil
}

func (r *postgresRepo) ListPosts(ctx context.Context, f domain.ContentFilter) (*domain.ContentPage, error) {
	listSQL, listArgs, countSQL, countArgs, err := buildListQueries(f)
	if err != nil {
		return nil, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, db.MapError(err)
	}

	rows, err := r.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, db.MapError(err)
	}
	posts := []domain.Content{}
	for rows.Next() {
		c, err := scanPost(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		posts = append(posts, *c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := hydrate(ctx, r.pool, posts); err != nil {
		return nil, err
	}
	return &domain.ContentPage{Results: posts, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

func (r *postgresRepo) GetPostByID(ctx context.Context, id string) (*domain.Content, error) {
	return getPost(ctx, r.pool, `SELECT `+postColumns+` FROM contents c WHERE c.id = $1`, id)
}

func (r *postgresRepo) GetPostBySlug(ctx context.Context, slug string) (*domain.Content, error) {
	return getPost(ctx, r.pool, `SELECT `+postColumns+` FROM contents c WHERE c.slug = $1`, slug)
}

func (r *postgresRepo) CreatePost(ctx context.Context, c domain.Content, tagIDs []string) (*domain.Content, error) {
	var out *domain.Content
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const q = `
INSERT INTO contents AS c (title, slug, excerpt, body, cover_image, published, published_at, category_id, author_id)
VALUES ($1, $2, $3, $4, $5, $6, CASE WHEN $6 THEN now() END, $7, $8)
RETURNING ` + postColumns
		created, err := scanPost(tx.QueryRow(ctx, q,
			c.Title, c.Slug, c.Excerpt, c.Body, c.CoverImage, c.Published, c.CategoryID, c.AuthorID))
		if err != nil {
			return err
		}
		if err := replaceTags(ctx, tx, created.ID, tagIDs); err != nil {
			return err
		}
		out, err = getPost(ctx, tx, `SELECT `+postColumns+` FROM contents c WHERE c.id = $1`, created.ID)
		return err
	})
	if err != nil {
		return nil, db.MapError(err)
	}
	r.logger.Info("blog post created", zap.String("id", out.ID), zap.String("slug", out.Slug), zap.Bool("published", out.Published))
	return out, nil
}

func (r *postgresRepo) UpdatePost(ctx context.Context, c domain.Content, tagIDs []string) (*domain.Content, error) {
	var out *domain.Content
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		// published_at is stamped on the first publish only.
		const q = `
UPDATE contents AS c
SET title = $2, slug = $3, excerpt = $4, body = $5, cover_image = $6, published = $7,
    published_at = CASE WHEN $7 AND c.published_at IS NULL THEN now() ELSE c.published_at END,
    category_id = $8, updated_at = now()
WHERE c.id = $1
RETURNING ` + postColumns
		if _, err := scanPost(tx.QueryRow(ctx, q,
			c.ID, c.Title, c.Slug, c.Excerpt, c.Body, c.CoverImage, c.Published, c.CategoryID)); err != nil {
			return err
		}
		if tagIDs != nil {
			if err := replaceTags(ctx, tx, c.ID, tagIDs); err != nil {
				return err
			}
		}
		var err error
		out, err = getPost(ctx, tx, `SELECT `+postColumns+` FROM contents c WHERE c.id = $1`, c.ID)
		return err
	})
	if err != nil {
		return nil, db.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) DeletePost(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM contents WHERE id = $1`, id)
	if err != nil {
		return db.MapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func replaceTags(ctx context.Context, tx pgx.Tx, contentID string, tagIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM content_tags WHERE content_id = $1`, contentID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
INSERT INTO content_tags (content_id, tag_id)
SELECT $1, t::uuid FROM unnest($2::text[]) AS t
ON CONFLICT DO NOTHING
`, contentID, tagIDs)
	return err
}

func getPost(ctx context.Context, q querier, sql, arg string) (*domain.Content, error) {
	c, err := scanPost(q.QueryRow(ctx, sql, arg))
	if err != nil {
		return nil, err
	}
	posts := []domain.Content{*c}
	if err := hydrate(ctx, q, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// hydrate attaches categories and tags to posts.
func hydrate(ctx context.Context, q querier, posts []domain.Content) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	index := make(map[string]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		index[posts[i].ID] = i
		posts[i].Tags = []domain.BlogTag{}
	}

	rows, err := q.Query(ctx, `
SELECT ct.content_id::text, t.id::text, t.name, t.slug
FROM content_tags ct
JOIN blog_tags t ON t.id = ct.tag_id
WHERE ct.content_id::text = ANY($1)
ORDER BY t.name ASC
`, ids)
	if err != nil {
		return db.MapError(err)
	}
	for rows.Next() {
		var (
			contentID string
			t         domain.BlogTag
		)
		if err := rows.Scan(&contentID, &t.ID, &t.Name, &t.Slug); err != nil {
			rows.Close()
			return err
		}
		i := index[contentID]
		posts[i].Tags = append(posts[i].Tags, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	categories := map[string]*domain.BlogCategory{}
	var categoryIDs []string
	for _, p := range posts {
		if p.CategoryID != nil {
			if _, ok := categories[*p.CategoryID]; !ok {
				categories[*p.CategoryID] = nil
				categoryIDs = append(categoryIDs, *p.CategoryID)
			}
		}
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	rows, err = q.Query(ctx, `SELECT id::text, name, slug, description FROM blog_categories WHERE id::text = ANY($1)`, categoryIDs)
	if err != nil {
		return db.MapError(err)
	}
	defer rows.Close()
	for rows.Next() {
		var c domain.BlogCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description); err != nil {
			return err
		}
		categories[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range posts {
		if posts[i].CategoryID != nil {
			posts[i].Category = categories[*posts[i].CategoryID]
		}
	}
	return nil
}

func scanPost(row pgx.Row) (*domain.Content, error) {
	var c domain.Content
	if err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.Excerpt, &c.Body, &c.CoverImage, &c.Published, &c.PublishedAt,
		&c.CategoryID, &c.AuthorID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, db.MapError(err)
	}
	return &c, nil
}
