package menu

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/db"
	"storefront/internal/domain"
)

const menuColumns = `id::text, name, location, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Menu, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+menuColumns+` FROM menus ORDER BY location ASC`)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	result := []domain.Menu{}
	for rows.Next() {
		m, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Menu, error) {
	return scanMenu(r.pool.QueryRow(ctx, `SELECT `+menuColumns+` FROM menus WHERE id = $1`, id))
}

func (r *postgresRepo) GetByLocation(ctx context.Context, location string) (*domain.Menu, error) {
	return scanMenu(r.pool.QueryRow(ctx, `SELECT `+menuColumns+` FROM menus WHERE location = $1`, location))
}

func (r *postgresRepo) Items(ctx context.Context, menuID string) ([]domain.MenuItem, error) {
	const q = `
SELECT id::text, menu_id::text, parent_id::text, label, url, sort_order
FROM menu_items
WHERE menu_id = $1
ORDER BY sort_order ASC, label ASC
`
	rows, err := r.pool.Query(ctx, q, menuID)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	result := []domain.MenuItem{}
	for rows.Next() {
		var it domain.MenuItem
		if err := rows.Scan(&it.ID, &it.MenuID, &it.ParentID, &it.Label, &it.URL, &it.SortOrder); err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	return result, rows.Err()
}

func (r *postgresRepo) Create(ctx context.Context, m domain.Menu) (*domain.Menu, error) {
	return scanMenu(r.pool.QueryRow(ctx,
		`INSERT INTO menus (name, location) VALUES ($1, $2) RETURNING `+menuColumns, m.Name, m.Location))
}

func (r *postgresRepo) ReplaceItems(ctx context.Context, menuID string, items []*domain.MenuItem) error {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM menus WHERE id = $1)`, menuID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM menu_items WHERE menu_id = $1`, menuID); err != nil {
			return err
		}
		return insertItems(ctx, tx, menuID, nil, items)
	})
	return db.MapError(err)
}

func insertItems(ctx context.Context, tx pgx.Tx, menuID string, parentID *string, items []*domain.MenuItem) error {
	const q = `
INSERT INTO menu_items (menu_id, parent_id, label, url, sort_order)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text
`
	for i, it := range items {
		var id string
		if err := tx.QueryRow(ctx, q, menuID, parentID, it.Label, it.URL, i).Scan(&id); err != nil {
			return err
		}
		if len(it.Children) > 0 {
			if err := insertItems(ctx, tx, menuID, &id, it.Children); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM menus WHERE id = $1`, id)
	if err != nil {
		return db.MapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMenu(row pgx.Row) (*domain.Menu, error) {
	var m domain.Menu
	if err := row.Scan(&m.ID, &m.Name, &m.Location, &m.CreatedAt); err != nil {
		return nil, db.MapError(err)
	}
	return &m, nil
}
