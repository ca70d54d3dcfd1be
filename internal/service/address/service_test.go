package address

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

type memoryRepo struct {
	items []domain.Address
	seq   int
}

func (r *memoryRepo) ListByUser(_ context.Context, userID string) ([]domain.Address, error) {
	out := []domain.Address{}
	for _, a := range r.items {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryRepo) Get(_ context.Context, userID, id string) (*domain.Address, error) {
	for _, a := range r.items {
		if a.UserID == userID && a.ID == id {
			clone := a
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) Create(_ context.Context, a domain.Address) (*domain.Address, error) {
	r.seq++
	a.ID = [...]string{
		"11111111-1111-1111-1111-111111111111",
		"22222222-2222-2222-2222-222222222222",
		"33333333-3333-3333-3333-333333333333",
	}[r.seq-1]
	owned, _ := r.ListByUser(context.Background(), a.UserID)
	if len(owned) == 0 {
		a.IsDefault = true
	}
	if a.IsDefault {
		r.clearDefault(a.UserID)
	}
	r.items = append(r.items, a)
	return &a, nil
}

func (r *memoryRepo) Update(_ context.Context, a domain.Address) (*domain.Address, error) {
	if a.IsDefault {
		r.clearDefault(a.UserID)
	}
	for i := range r.items {
		if r.items[i].ID == a.ID {
			r.items[i] = a
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) Delete(_ context.Context, userID, id string) error {
	for i := range r.items {
		if r.items[i].UserID == userID && r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memoryRepo) clearDefault(userID string) {
	for i := range r.items {
		if r.items[i].UserID == userID {
			r.items[i].IsDefault = false
		}
	}
}

func validInput(title string) Input {
	return Input{Title: title, FullName: "Ada Lovelace", Line1: "Main St 1", City: "Istanbul"}
}

func TestCreate_FirstAddressBecomesDefault(t *testing.T) {
	repo := &memoryRepo{}
	svc := New(repo)
	ctx := context.Background()

	home, err := svc.Create(ctx, "u1", validInput("Home"))
	require.NoError(t, err)
	require.True(t, home.IsDefault)
	require.Equal(t, "TR", home.Country)

	work := validInput("Work")
	work.IsDefault = true
	_, err = svc.Create(ctx, "u1", work)
	require.NoError(t, err)

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	defaults := 0
	for _, a := range list {
		if a.IsDefault {
			defaults++
			require.Equal(t, "Work", a.Title)
		}
	}
	require.Equal(t, 1, defaults)
}

func TestUpdateAndDelete_OtherOwnerIsNotFound(t *testing.T) {
	repo := &memoryRepo{}
	svc := New(repo)
	ctx := context.Background()

	a, err := svc.Create(ctx, "owner", validInput("Home"))
	require.NoError(t, err)

	city := "Ankara"
	_, err = svc.Update(ctx, "intruder", a.ID, Update{City: &city})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, "intruder", a.ID), domain.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, "owner", "not-a-uuid"), domain.ErrNotFound)

	blank := ""
	_, err = svc.Update(ctx, "owner", a.ID, Update{City: &blank})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err := svc.Update(ctx, "owner", a.ID, Update{City: &city})
	require.NoError(t, err)
	require.Equal(t, "Ankara", updated.City)
	require.NoError(t, svc.Delete(ctx, "owner", a.ID))
}

func TestCreate_Validation(t *testing.T) {
	svc := New(&memoryRepo{})
	_, err := svc.Create(context.Background(), "u1", Input{Title: "x"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
