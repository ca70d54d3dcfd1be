// Package payment holds the payment test integrations: a deterministic mock
// gateway, the Ziraat 3D Pay Hosting form builder and a BIN lookup client.
package payment

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront/internal/logger"
)

type Config struct {
	ZiraatGatewayURL string
	ZiraatClientID   string
	ZiraatStoreKey   string
	// PublicBaseURL is where the gateway posts results back to.
	PublicBaseURL string
	BINLookupURL  string
}

type Service struct {
	cfg    Config
	bin    *BINClient
	now    func() time.Time
	logger *zap.Logger
}

func New(cfg Config, httpClient *http.Client, l *zap.Logger) *Service {
	l = logger.OrNop(l)
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return &Service{
		cfg:    cfg,
		bin:    NewBINClient(httpClient, cfg.BINLookupURL, l),
		now:    time.Now,
		logger: l,
	}
}
