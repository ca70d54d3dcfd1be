package payment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s := New(Config{
		ZiraatGatewayURL: "https://gateway.test/fim/est3Dgate",
		ZiraatClientID:   "190100000",
		ZiraatStoreKey:   "TEST1234",
		PublicBaseURL:    "https://shop.test/",
		BINLookupURL:     "https://bins.test",
	}, nil, nil)
	s.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
	return s
}

func mockInput(card string) MockInput {
	return MockInput{
		CardNumber:  card,
		CardHolder:  "Ada Lovelace",
		ExpiryMonth: 12,
		ExpiryYear:  2030,
		CVV:         "123",
		AmountCents: 15000,
	}
}

func TestMock_OutcomeByTestCard(t *testing.T) {
	svc := newTestService(t)
	cases := []struct {
		card   string
		status string
		code   string
	}{
		{CardDeclined, StatusDeclined, "card_declined"},
		{CardInsufficientFunds, StatusDeclined, "insufficient_funds"},
		{CardExpired, StatusDeclined, "expired_card"},
		{"4242 4242 4242 4242", StatusApproved, ""},
	}
	for _, tc := range cases {
		t.Run(tc.card, func(t *testing.T) {
			res, err := svc.Mock(context.Background(), mockInput(tc.card))
			require.NoError(t, err)
			require.Equal(t, tc.status, res.Status)
			require.Equal(t, tc.code, res.Code)
			require.Equal(t, "TRY", res.Currency)
			if tc.status == StatusApproved {
				_, err := uuid.Parse(res.TransactionID)
				require.NoError(t, err)
				require.Regexp(t, regexp.MustCompile(`^\d{6}$`), res.AuthCode)
			} else {
				require.Empty(t, res.TransactionID)
			}
		})
	}
}

func TestMock_Validation(t *testing.T) {
	svc := newTestService(t)

	in := mockInput("4242424242424241")
	_, err := svc.Mock(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	in = mockInput("4242424242424242")
	in.ExpiryMonth, in.ExpiryYear = 9, 2026
	_, err = svc.Mock(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	in = mockInput("4242424242424242")
	in.CVV = "12a"
	in.AmountCents = 0
	_, err = svc.Mock(context.Background(), in)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
}
