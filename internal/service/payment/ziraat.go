package payment

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/validation"
)

// ISO 4217 numeric codes accepted by the gateway.
var currencyCodes = map[string]string{ //nolint: gochecknoglobals
	"TRY": "949",
	"USD": "840",
	"EUR": "978",
}

var mdStatusApproved = map[string]bool{"1": true, "2": true, "3": true, "4": true} //nolint: gochecknoglobals

type ZiraatInput struct {
	AmountCents  int64  `json:"amountCents" validate:"gt=0"`
	Currency     string `json:"currency" validate:"omitempty,oneof=TRY USD EUR"`
	OrderID      string `json:"orderId" validate:"omitempty,max=64"`
	Installments int    `json:"installments" validate:"omitempty,min=0,max=12"`
}

type ZiraatForm struct {
	GatewayURL string            `json:"gatewayUrl"`
	Fields     map[string]string `json:"fields"`
}

type ZiraatResult struct {
	OrderID      string `json:"orderId"`
	Approved     bool   `json:"approved"`
	MDStatus     string `json:"mdStatus"`
	Response     string `json:"response"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// ZiraatForm builds the signed field set the browser posts to the 3D gate.
func (s *Service) ZiraatForm(ctx context.Context, in ZiraatInput) (*ZiraatForm, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Currency == "" {
		in.Currency = "TRY"
	}
	if in.OrderID == "" {
		in.OrderID = uuid.NewString()
	}
	instalment := ""
	if in.Installments > 1 {
		instalment = strconv.Itoa(in.Installments)
	}
	callback := s.cfg.PublicBaseURL + "/api/payments/ziraat/callback"

	fields := map[string]string{
		"clientid":      s.cfg.ZiraatClientID,
		"amount":        formatAmount(in.AmountCents),
		"oid":           in.OrderID,
		"okUrl":         callback,
		"failUrl":       callback,
		"callbackUrl":   callback,
		"rnd":           strconv.FormatInt(s.now().UnixNano(), 10),
		"storetype":     "3d_pay_hosting",
		"hashAlgorithm": "ver3",
		"currency":      currencyCodes[in.Currency],
		"TranType":      "Auth",
		"Instalment":    instalment,
		"lang":          "tr",
	}
	fields["hash"] = HashVer3(fields, s.cfg.ZiraatStoreKey)
	return &ZiraatForm{GatewayURL: s.cfg.ZiraatGatewayURL, Fields: fields}, nil
}

// ZiraatCallback verifies the gateway's signed post and summarises the outcome.
func (s *Service) ZiraatCallback(ctx context.Context, fields map[string]string) (*ZiraatResult, error) {
	posted := ""
	for k, v := range fields {
		if strings.EqualFold(k, "hash") {
			posted = v
		}
	}
	if posted == "" {
		return nil, domain.NewValidationError("HASH", "is required")
	}
	expected := HashVer3(fields, s.cfg.ZiraatStoreKey)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(posted)) != 1 {
		s.logger.Warn("ziraat callback hash mismatch", zap.String("oid", fields["oid"]))
		return nil, domain.NewValidationError("HASH", "does not match")
	}
	res := &ZiraatResult{
		OrderID:      fields["oid"],
		MDStatus:     fields["mdStatus"],
		Response:     fields["Response"],
		ErrorMessage: fields["ErrMsg"],
	}
	res.Approved = res.Response == "Approved" && mdStatusApproved[res.MDStatus]
	s.logger.Info("ziraat callback", zap.String("oid", res.OrderID), zap.Bool("approved", res.Approved), zap.String("md_status", res.MDStatus))
	return res, nil
}

// HashVer3 signs fields with the NestPay "ver3" scheme: values ordered by
// case-insensitive field name (hash and encoding excluded), escaped, joined
// with '|' and followed by the escaped store key, then SHA-512 and base64.
func HashVer3(fields map[string]string, storeKey string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		lk := strings.ToLower(k)
		if lk == "hash" || lk == "encoding" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		li, lj := strings.ToLower(keys[i]), strings.ToLower(keys[j])
		if li != lj {
			return li < lj
		}
		return keys[i] < keys[j]
	})

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(escapeHashValue(fields[k]))
		b.WriteByte('|')
	}
	b.WriteString(escapeHashValue(storeKey))

	sum := sha512.Sum512([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func escapeHashValue(v string) string {
	return strings.NewReplacer(`\`, `\\`, `|`, `\|`).Replace(v)
}

func formatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
