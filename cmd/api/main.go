package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/logger"
	"storefront/internal/render"
	addressrepo "storefront/internal/repository/address"
	blogrepo "storefront/internal/repository/blog"
	categoryrepo "storefront/internal/repository/category"
	contactrepo "storefront/internal/repository/contact"
	menurepo "storefront/internal/repository/menu"
	pagerepo "storefront/internal/repository/page"
	productrepo "storefront/internal/repository/product"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
	addresssvc "storefront/internal/service/address"
	authsvc "storefront/internal/service/auth"
	blogsvc "storefront/internal/service/blog"
	categorysvc "storefront/internal/service/category"
	contactsvc "storefront/internal/service/contact"
	menusvc "storefront/internal/service/menu"
	pagesvc "storefront/internal/service/page"
	paymentsvc "storefront/internal/service/payment"
	productsvc "storefront/internal/service/product"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logger.Setup(logger.DevelopmentEnvironment).Fatal("load config", zap.Error(err))
	}
	l := logger.Setup(cfg.Environment).With(zap.String("component", "api"))
	defer l.Sync() //nolint: errcheck

	if err := cfg.Validate(); err != nil {
		l.Fatal("invalid config", zap.Error(err))
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		l.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	renderer, err := render.New()
	if err != nil {
		l.Fatal("init section renderer", zap.Error(err))
	}

	categoryService := categorysvc.New(categoryrepo.NewPostgres(dbpool))
	deps := httpserver.Deps{
		Auth:     authsvc.New(userrepo.NewPostgres(dbpool, l), tokenrepo.NewPostgres(dbpool), cfg.JWT.Secret, cfg.JWT.TTL, l),
		Category: categoryService,
		Product:  productsvc.New(productrepo.NewPostgres(dbpool, l), categoryService),
		Page:     pagesvc.New(pagerepo.NewPostgres(dbpool, l)),
		Menu:     menusvc.New(menurepo.NewPostgres(dbpool)),
		Blog:     blogsvc.New(blogrepo.NewPostgres(dbpool, l)),
		Address:  addresssvc.New(addressrepo.NewPostgres(dbpool)),
		Contact:  contactsvc.New(contactrepo.NewPostgres(dbpool), l),
		Payment: paymentsvc.New(paymentsvc.Config{
			ZiraatGatewayURL: cfg.Payment.ZiraatGatewayURL,
			ZiraatClientID:   cfg.Payment.ZiraatClientID,
			ZiraatStoreKey:   cfg.Payment.ZiraatStoreKey,
			PublicBaseURL:    cfg.PublicBaseURL,
			BINLookupURL:     cfg.Payment.BINLookupURL,
		}, &http.Client{Timeout: cfg.Payment.HTTPTimeout}, l),
		Renderer:       renderer,
		AllowedOrigins: cfg.AllowedOrigins(),
	}

	srv, err := httpserver.New(cfg.HTTPAddr, l, dbpool, deps)
	if err != nil {
		l.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		l.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		l.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		l.Error("graceful shutdown failed", zap.Error(err))
	} else {
		l.Info("server stopped")
	}
}
