package contact

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/db"
	"storefront/internal/domain"
)

const messageColumns = `id::text, name, email, phone, subject, message, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, m domain.ContactMessage) (*domain.ContactMessage, error) {
	const q = `
INSERT INTO contact_messages (name, email, phone, subject, message)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + messageColumns
	return scanMessage(r.pool.QueryRow(ctx, q, m.Name, m.Email, m.Phone, m.Subject, m.Message))
}

func (r *postgresRepo) List(ctx context.Context, limit, offset int) ([]domain.ContactMessage, error) {
	const q = `SELECT ` + messageColumns + `
FROM contact_messages
ORDER BY created_at DESC, id ASC
LIMIT $1 OFFSET $2
`
	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, db.MapError(err)
	}
	defer rows.Close()

	result := []domain.ContactMessage{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	return result, rows.Err()
}

func scanMessage(row pgx.Row) (*domain.ContactMessage, error) {
	var m domain.ContactMessage
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
		return nil, db.MapError(err)
	}
	return &m, nil
}
