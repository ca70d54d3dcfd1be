package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	"storefront/internal/migrate"
)

func main() {
	down := flag.Int("down", 0, "Roll back this many migrations instead of applying them")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Setup(logger.DevelopmentEnvironment).Fatal("load config", zap.Error(err))
	}
	l := logger.Setup(cfg.Environment).With(zap.String("component", "migrate"))
	defer l.Sync() //nolint: errcheck

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		l.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if *down > 0 {
		if err := migrate.Rollback(ctx, pool, *down); err != nil {
			l.Fatal("roll back migrations", zap.Error(err))
		}
	} else if err := migrate.Apply(ctx, pool); err != nil {
		l.Fatal("apply migrations", zap.Error(err))
	}

	version, dirty, err := migrate.Version(ctx, pool)
	if err != nil {
		l.Fatal("read schema version", zap.Error(err))
	}
	l.Info("migrations done", zap.Uint("version", version), zap.Bool("dirty", dirty))
}
