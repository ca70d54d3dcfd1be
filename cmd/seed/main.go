package main

import (
	"context"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	blogrepo "storefront/internal/repository/blog"
	categoryrepo "storefront/internal/repository/category"
	menurepo "storefront/internal/repository/menu"
	pagerepo "storefront/internal/repository/page"
	productrepo "storefront/internal/repository/product"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
	"storefront/internal/seed"
	authsvc "storefront/internal/service/auth"
	blogsvc "storefront/internal/service/blog"
	categorysvc "storefront/internal/service/category"
	menusvc "storefront/internal/service/menu"
	pagesvc "storefront/internal/service/page"
	productsvc "storefront/internal/service/product"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logger.Setup(logger.DevelopmentEnvironment).Fatal("load config", zap.Error(err))
	}
	l := logger.Setup(cfg.Environment).With(zap.String("component", "seed"))
	defer l.Sync() //nolint: errcheck

	if err := cfg.ValidateSeed(); err != nil {
		l.Fatal("invalid config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		l.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	categories := categorysvc.New(categoryrepo.NewPostgres(pool))
	svc := seed.Services{
		Admin:      authsvc.New(userrepo.NewPostgres(pool, l), tokenrepo.NewPostgres(pool), cfg.JWT.Secret, cfg.JWT.TTL, l),
		Categories: categories,
		Products:   productsvc.New(productrepo.NewPostgres(pool, l), categories),
		Pages:      pagesvc.New(pagerepo.NewPostgres(pool, l)),
		Menus:      menusvc.New(menurepo.NewPostgres(pool)),
		Blog:       blogsvc.New(blogrepo.NewPostgres(pool, l)),
	}
	admin := seed.Admin{Email: cfg.Seed.AdminEmail, Password: cfg.Seed.AdminPassword}

	if err := seed.Apply(ctx, svc, admin, l); err != nil {
		l.Fatal("seed apply", zap.Error(err))
	}
	l.Info("seed applied")
}
