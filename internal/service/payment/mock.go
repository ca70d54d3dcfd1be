package payment

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/validation"
)

const (
	StatusApproved = "approved"
	StatusDeclined = "declined"
)

// Test cards with a fixed decline outcome.
const (
	CardDeclined          = "4000000000000002"
	CardInsufficientFunds = "4000000000009995"
	CardExpired           = "4000000000000069"
)

type MockInput struct {
	CardNumber   string `json:"cardNumber" validate:"required"`
	CardHolder   string `json:"cardHolder" validate:"required,min=2,max=100"`
	ExpiryMonth  int    `json:"expiryMonth" validate:"required,min=1,max=12"`
	ExpiryYear   int    `json:"expiryYear" validate:"required,gte=0"`
	CVV          string `json:"cvv" validate:"required,min=3,max=4,digits"`
	AmountCents  int64  `json:"amountCents" validate:"gt=0"`
	Currency     string `json:"currency" validate:"omitempty,oneof=TRY USD EUR"`
	Installments int    `json:"installments" validate:"omitempty,min=1,max=12"`
}

type MockResult struct {
	Status        string `json:"status"`
	TransactionID string `json:"transactionId,omitempty"`
	AuthCode      string `json:"authCode,omitempty"`
	Code          string `json:"code,omitempty"`
	Message       string `json:"message"`
	AmountCents   int64  `json:"amountCents"`
	Currency      string `json:"currency"`
	Installments  int    `json:"installments"`
}

var declines = map[string]struct{ code, message string }{ //nolint: gochecknoglobals
	CardDeclined:          {"card_declined", "The card was declined."},
	CardInsufficientFunds: {"insufficient_funds", "The card has insufficient funds."},
	CardExpired:           {"expired_card", "The card has expired."},
}

// Mock charges a card against the in-process test gateway.
func (s *Service) Mock(ctx context.Context, in MockInput) (*MockResult, error) {
	in.CardNumber = NormalizeCardNumber(in.CardNumber)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if !ValidLuhn(in.CardNumber) {
		return nil, domain.NewValidationError("cardNumber", "is not a valid card number")
	}
	if expired(in.ExpiryMonth, in.ExpiryYear, s.now()) {
		return nil, domain.NewValidationError("expiryYear", "card is expired")
	}
	if in.Currency == "" {
		in.Currency = "TRY"
	}
	if in.Installments == 0 {
		in.Installments = 1
	}

	res := &MockResult{AmountCents: in.AmountCents, Currency: in.Currency, Installments: in.Installments}
	if d, ok := declines[in.CardNumber]; ok {
		res.Status = StatusDeclined
		res.Code = d.code
		res.Message = d.message
		s.logger.Info("mock payment declined", zap.String("code", d.code), zap.Int64("amount_cents", in.AmountCents))
		return res, nil
	}

	code, err := authCode()
	if err != nil {
		return nil, err
	}
	res.Status = StatusApproved
	res.TransactionID = uuid.NewString()
	res.AuthCode = code
	res.Message = "Payment approved."
	s.logger.Info("mock payment approved", zap.String("transaction_id", res.TransactionID), zap.Int64("amount_cents", in.AmountCents))
	return res, nil
}

func authCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
