package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidLuhn(t *testing.T) {
	valid := []string{"4242424242424242", CardDeclined, CardInsufficientFunds, CardExpired, "5555555555554444"}
	for _, n := range valid {
		require.True(t, ValidLuhn(n), n)
	}
	invalid := []string{"4242424242424241", "1234", "4242-4242-4242-4242", "", "42424242424242424242"}
	for _, n := range invalid {
		require.False(t, ValidLuhn(n), n)
	}
	require.True(t, ValidLuhn(NormalizeCardNumber("4242 4242-4242 4242")))
}

func TestExpired(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	require.False(t, expired(10, 2026, now))
	require.False(t, expired(1, 27, now))
	require.True(t, expired(9, 26, now))
	require.True(t, expired(12, 2025, now))
}
