package token

import (
	"context"
	"time"
)

// Revocation records a JWT id that must no longer be accepted.
type Revocation struct {
	JTI       string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Repository interface {
	Revoke(ctx context.Context, r Revocation) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// PurgeExpired drops revocations whose token would have expired anyway.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
