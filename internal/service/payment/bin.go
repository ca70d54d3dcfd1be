package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logger"
)

// BINInfo describes the issuer of a card range.
type BINInfo struct {
	BIN         string `json:"bin"`
	Scheme      string `json:"scheme,omitempty"`
	Type        string `json:"type,omitempty"`
	Brand       string `json:"brand,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	Bank        string `json:"bank,omitempty"`
}

// BINClient queries a binlist.net compatible lookup service. It is safe for
// concurrent use.
type BINClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func NewBINClient(httpClient *http.Client, baseURL string, l *zap.Logger) *BINClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &BINClient{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/"), logger: logger.OrNop(l)}
}

// LookupBIN validates bin and resolves it through the lookup service.
func (s *Service) LookupBIN(ctx context.Context, bin string) (*BINInfo, error) {
	if !validBIN(bin) {
		return nil, domain.NewValidationError("bin", "must be 6 to 8 digits")
	}
	return s.bin.Lookup(ctx, bin)
}

func (c *BINClient) Lookup(ctx context.Context, bin string) (*BINInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+bin, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept-Version", "3")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("bin lookup failed", zap.String("bin", bin), zap.Error(err))
		return nil, fmt.Errorf("%w: bin lookup: %v", domain.ErrUpstream, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: could not read response body: %v", domain.ErrUpstream, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.NewError(domain.ErrNotFound, "bin not found")
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domain.NewError(domain.ErrRateLimited, "bin lookup rate limited")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.logger.Warn("bin lookup unexpected status", zap.Int("status", resp.StatusCode), zap.String("body", strings.TrimSpace(string(b))))
		return nil, fmt.Errorf("%w: bin lookup returned %d", domain.ErrUpstream, resp.StatusCode)
	}

	var payload struct {
		Scheme  string `json:"scheme"`
		Type    string `json:"type"`
		Brand   string `json:"brand"`
		Country struct {
			Name   string `json:"name"`
			Alpha2 string `json:"alpha2"`
		} `json:"country"`
		Bank struct {
			Name string `json:"name"`
		} `json:"bank"`
	}
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, fmt.Errorf("%w: could not decode response: %v", domain.ErrUpstream, err)
	}
	return &BINInfo{
		BIN:         bin,
		Scheme:      payload.Scheme,
		Type:        payload.Type,
		Brand:       payload.Brand,
		Country:     payload.Country.Name,
		CountryCode: payload.Country.Alpha2,
		Bank:        payload.Bank.Name,
	}, nil
}

func validBIN(bin string) bool {
	if len(bin) < 6 || len(bin) > 8 {
		return false
	}
	for _, r := range bin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
