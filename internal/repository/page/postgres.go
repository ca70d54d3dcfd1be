package page

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"storefront/internal/db"
	"storefront/internal/domain"
	"storefront/internal/logger"
)

const pageColumns = `id::text, title, slug, meta_title, meta_description, published, created_at, updated_at`

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

func (r *postgresRepo) List(ctx context.Context, slug string, includeDrafts bool) ([]domain.Page, error) {
	const q = `SELECT ` + pageColumns + `
FROM pages
WHERE ($1 = '' OR slug = $1) AND ($2 OR published)
ORDER BY title ASC
`
	rows, err := r.pool.Query(ctx, q, slug, includeDrafts)
	if err != nil {
		return nil, db.MapError(err)
	}
	pages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Page, error) {
		p, err := scanPage(row)
		if err != nil {
			return domain.Page{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, db.MapError(err)
	}
	if err := loadSections(ctx, r.pool, pages); err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Page, error) {
	return r.getOne(ctx, r.pool, `SELECT `+pageColumns+` FROM pages WHERE id = $1`, id)
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Page, error) {
	return r.getOne(ctx, r.pool, `SELECT `+pageColumns+` FROM pages WHERE slug = $1`, slug)
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Page) (*domain.Page, error) {
	var out *domain.Page
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const q = `
INSERT INTO pages (title, slug, meta_title, meta_description, published)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + pageColumns
		created, err := scanPage(tx.QueryRow(ctx, q, p.Title, p.Slug, p.MetaTitle, p.MetaDescription, p.Published))
		if err != nil {
			return err
		}
		if err := insertSections(ctx, tx, created.ID, p.Sections); err != nil {
			return err
		}
		out, err = r.getOne(ctx, tx, `SELECT `+pageColumns+` FROM pages WHERE id = $1`, created.ID)
		return err
	})
	if err != nil {
		return nil, db.MapError(err)
	}
	r.logger.Info("page created", zap.String("id", out.ID), zap.String("slug", out.Slug), zap.Int("sections", len(out.Sections)))
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Page, replaceSections bool) (*domain.Page, error) {
	var out *domain.Page
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const q = `
UPDATE pages
SET title = $2, slug = $3, meta_title = $4, meta_description = $5, published = $6, updated_at = now()
WHERE id = $1
RETURNING ` + pageColumns
		if _, err := scanPage(tx.QueryRow(ctx, q, p.ID, p.Title, p.Slug, p.MetaTitle, p.MetaDescription, p.Published)); err != nil {
			return err
		}
		if replaceSections {
			if _, err := tx.Exec(ctx, `DELETE FROM page_sections WHERE page_id = $1`, p.ID); err != nil {
				return err
			}
			if err := insertSections(ctx, tx, p.ID, p.Sections); err != nil {
				return err
			}
		}
		var err error
		out, err = r.getOne(ctx, tx, `SELECT `+pageColumns+` FROM pages WHERE id = $1`, p.ID)
		return err
	})
	if err != nil {
		return nil, db.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM pages WHERE id = $1`, id)
	if err != nil {
		return db.MapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) getOne(ctx context.Context, q querier, sql string, arg string) (*domain.Page, error) {
	p, err := scanPage(q.QueryRow(ctx, sql, arg))
	if err != nil {
		return nil, db.MapError(err)
	}
	pages := []domain.Page{*p}
	if err := loadSections(ctx, q, pages); err != nil {
		return nil, err
	}
	return &pages[0], nil
}

func insertSections(ctx context.Context, tx pgx.Tx, pageID string, sections []domain.PageSection) error {
	if len(sections) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, s := range sections {
		batch.Queue(`INSERT INTO page_sections (page_id, type, sort_order, data) VALUES ($1, $2, $3, $4)`,
			pageID, s.Type, i, []byte(s.Data))
	}
	return tx.SendBatch(ctx, batch).Close()
}

// loadSections fills Sections on every page with a single query.
func loadSections(ctx context.Context, q querier, pages []domain.Page) error {
	if len(pages) == 0 {
		return nil
	}
	ids := make([]string, len(pages))
	index := make(map[string]int, len(pages))
	for i := range pages {
		ids[i] = pages[i].ID
		index[pages[i].ID] = i
		pages[i].Sections = []domain.PageSection{}
	}
	rows, err := q.Query(ctx, `
SELECT id::text, page_id::text, type, sort_order, data
FROM page_sections
WHERE page_id::text = ANY($1)
ORDER BY page_id, sort_order ASC
`, ids)
	if err != nil {
		return db.MapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			s    domain.PageSection
			data []byte
		)
		if err := rows.Scan(&s.ID, &s.PageID, &s.Type, &s.SortOrder, &data); err != nil {
			return err
		}
		s.Data = data
		i := index[s.PageID]
		pages[i].Sections = append(pages[i].Sections, s)
	}
	return rows.Err()
}

func scanPage(row pgx.Row) (*domain.Page, error) {
	var p domain.Page
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.MetaTitle, &p.MetaDescription, &p.Published, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, db.MapError(err)
	}
	return &p, nil
}
