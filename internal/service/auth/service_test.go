package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
)

// memoryUserRepo is a lightweight in-memory user repository for tests.
type memoryUserRepo struct {
	byEmail map[string]domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byEmail: make(map[string]domain.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	key := strings.ToLower(u.Email)
	if _, exists := r.byEmail[key]; exists {
		return nil, domain.ErrAlreadyExists
	}
	clone := u
	clone.ID = "user-" + key
	if clone.Role == "" {
		clone.Role = domain.RoleUser
	}
	r.byEmail[key] = clone
	return &clone, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryUserRepo) SetRole(_ context.Context, id, role string) error {
	for k, u := range r.byEmail {
		if u.ID == id {
			u.Role = role
			r.byEmail[k] = u
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memoryUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	for k, u := range r.byEmail {
		if u.ID == id {
			u.PasswordHash = hash
			r.byEmail[k] = u
			return nil
		}
	}
	return domain.ErrNotFound
}

type memoryTokenRepo struct {
	revoked map[string]tokenrepo.Revocation
}

func newMemoryTokenRepo() *memoryTokenRepo {
	return &memoryTokenRepo{revoked: make(map[string]tokenrepo.Revocation)}
}

func (r *memoryTokenRepo) Revoke(_ context.Context, rev tokenrepo.Revocation) error {
	r.revoked[rev.JTI] = rev
	return nil
}

func (r *memoryTokenRepo) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := r.revoked[jti]
	return ok, nil
}

func (r *memoryTokenRepo) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for k, rev := range r.revoked {
		if rev.ExpiresAt.Before(now) {
			delete(r.revoked, k)
			n++
		}
	}
	return n, nil
}

const testSecret = "test-secret"

func newTestService() (*Service, *memoryUserRepo, *memoryTokenRepo) {
	users := newMemoryUserRepo()
	tokens := newMemoryTokenRepo()
	return New(users, tokens, testSecret, time.Hour, nil), users, tokens
}

func TestRegisterAndLogin_TokenCarriesStoredRole(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	u, token, err := svc.Register(ctx, RegisterInput{Email: "  Ada@Example.com ", Password: "Secret123", Name: "Ada"})
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", u.Email)
	require.Equal(t, domain.RoleUser, u.Role)
	require.NotEmpty(t, token)

	require.NoError(t, users.SetRole(ctx, u.ID, domain.RoleAdmin))

	_, token, err = svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "Secret123"})
	require.NoError(t, err)

	parsed := &Claims{}
	_, err = jwt.ParseWithClaims(token, parsed, func(*jwt.Token) (any, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, parsed.Role)
	require.Equal(t, u.ID, parsed.UserID)
	require.Equal(t, u.ID, parsed.Subject)
	require.NotEmpty(t, parsed.ID)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	_, _, err := svc.Register(context.Background(), RegisterInput{Email: "bad", Password: "short", Name: "A"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 3)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	_, _, err := svc.Register(ctx, RegisterInput{Email: "a@b.co", Password: "Secret123", Name: "Ana"})
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, RegisterInput{Email: "A@B.co", Password: "Secret123", Name: "Ana"})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestLogin_InvalidCredentialsAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	_, _, err := svc.Register(ctx, RegisterInput{Email: "a@b.co", Password: "Secret123", Name: "Ana"})
	require.NoError(t, err)

	_, _, errWrong := svc.Login(ctx, LoginInput{Email: "a@b.co", Password: "Wrong1234"})
	_, _, errUnknown := svc.Login(ctx, LoginInput{Email: "nobody@b.co", Password: "Secret123"})
	require.Equal(t, errWrong, errUnknown)
	require.ErrorIs(t, errWrong, domain.ErrUnauthorized)
	require.Equal(t, "invalid credentials", errWrong.Error())
}

func TestAuthenticate_RejectsRevokedExpiredAndForeignTokens(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	_, token, err := svc.Register(ctx, RegisterInput{Email: "a@b.co", Password: "Secret123", Name: "Ana"})
	require.NoError(t, err)

	claims, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))
	_, err = svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrTokenRevoked)

	_, err = svc.Authenticate(ctx, "not-a-jwt")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	other := New(newMemoryUserRepo(), newMemoryTokenRepo(), "other-secret", time.Hour, nil)
	_, err = other.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrInvalidToken)

	svc.tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	_, stale, err := svc.Login(ctx, LoginInput{Email: "a@b.co", Password: "Secret123"})
	require.NoError(t, err)
	svc.tokens.now = time.Now
	_, err = svc.Authenticate(ctx, stale)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestAuthenticate_RejectsNoneAlgorithm(t *testing.T) {
	svc, _, _ := newTestService()
	claims := Claims{UserID: "u1", Role: domain.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{
		ID:        "j1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestEnsureAdminAndSetRole(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	admin, err := svc.EnsureAdmin(ctx, RegisterInput{Email: "root@shop.test", Password: "Admin1234", Name: "Root"})
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, admin.Role)

	again, err := svc.EnsureAdmin(ctx, RegisterInput{Email: "root@shop.test", Password: "Admin5678", Name: "Root"})
	require.NoError(t, err)
	require.Equal(t, admin.ID, again.ID)
	_, _, err = svc.Login(ctx, LoginInput{Email: "root@shop.test", Password: "Admin5678"})
	require.NoError(t, err)

	demoted, err := svc.SetRole(ctx, "root@shop.test", domain.RoleUser)
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, demoted.Role)

	_, err = svc.SetRole(ctx, "root@shop.test", "OWNER")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	token, err := svc.IssueToken(ctx, "root@shop.test", time.Minute)
	require.NoError(t, err)
	claims, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, claims.Role)
}
