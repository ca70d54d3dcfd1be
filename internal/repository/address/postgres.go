package address

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/db"
	"storefront/internal/domain"
)

const addressColumns = `id::text, user_id::text, title, full_name, phone, line1, line2, city, district, postal_code, country, is_default, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	const q = `SELECT ` + addressColumns + `
FROM addresses
WHERE user_id = $1
ORDER BY is_default DESC, created_at ASC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	out := []domain.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *postgresRepo) Get(ctx context.Context, userID, id string) (*domain.Address, error) {
	const q = `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 AND id = $2`
	return scanAddress(r.pool.QueryRow(ctx, q, userID, id))
}

func (r *postgresRepo) Create(ctx context.Context, a domain.Address) (*domain.Address, error) {
	var out *domain.Address
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var count int
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM addresses WHERE user_id = $1`, a.UserID).Scan(&count); err != nil {
			return err
		}
		if count == 0 {
			a.IsDefault = true
		}
		if a.IsDefault {
			if err := clearDefault(ctx, tx, a.UserID, ""); err != nil {
				return err
			}
		}
		const q = `
INSERT INTO addresses (user_id, title, full_name, phone, line1, line2, city, district, postal_code, country, is_default)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + addressColumns
		var err error
		out, err = scanAddress(tx.QueryRow(ctx, q, a.UserID, a.Title, a.FullName, a.Phone, a.Line1, a.Line2,
			a.City, a.District, a.PostalCode, a.Country, a.IsDefault))
		return err
	})
	if err != nil {
		return nil, db.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, a domain.Address) (*domain.Address, error) {
	var out *domain.Address
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if a.IsDefault {
			if err := clearDefault(ctx, tx, a.UserID, a.ID); err != nil {
				return err
			}
		}
		const q = `
UPDATE addresses
SET title = $3, full_name = $4, phone = $5, line1 = $6, line2 = $7, city = $8,
    district = $9, postal_code = $10, country = $11, is_default = $12
WHERE user_id = $1 AND id = $2
RETURNING ` + addressColumns
		var err error
		out, err = scanAddress(tx.QueryRow(ctx, q, a.UserID, a.ID, a.Title, a.FullName, a.Phone, a.Line1, a.Line2,
			a.City, a.District, a.PostalCode, a.Country, a.IsDefault))
		return err
	})
	if err != nil {
		return nil, db.MapError(err)
	}
	return out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, userID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return db.MapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func clearDefault(ctx context.Context, tx pgx.Tx, userID, exceptID string) error {
	_, err := tx.Exec(ctx, `
UPDATE addresses SET is_default = FALSE
WHERE user_id = $1 AND is_default AND ($2 = '' OR id::text <> $2)
`, userID, exceptID)
	return err
}

func scanAddress(row pgx.Row) (*domain.Address, error) {
	var a domain.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Title, &a.FullName, &a.Phone, &a.Line1, &a.Line2,
		&a.City, &a.District, &a.PostalCode, &a.Country, &a.IsDefault, &a.CreatedAt)
	if err != nil {
		return nil, db.MapError(err)
	}
	return &a, nil
}
