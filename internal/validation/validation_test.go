package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=8,strongpassword"`
	Name     string `json:"name" validate:"min=2,max=5"`
	BIN      string `json:"bin" validate:"omitempty,digits"`
}

func TestStruct_ReportsEveryField(t *testing.T) {
	err := Struct(sample{Email: "nope", Password: "abcdefgh", Name: "x", BIN: "12a4"})
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrInvalidInput))

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))

	got := map[string]string{}
	for _, f := range verr.Fields {
		got[f.Field] = f.Message
	}
	require.Equal(t, "must be a valid email", got["email"])
	require.Contains(t, got["password"], "uppercase")
	require.Equal(t, "must be at least 2 characters", got["name"])
	require.Equal(t, "must contain only digits", got["bin"])
}

func TestStruct_Valid(t *testing.T) {
	require.NoError(t, Struct(sample{Email: "a@b.co", Password: "Abcdefg1", Name: "Ana"}))
}
