// Command admin manages storefront accounts and tokens from the shell.
package main

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
	authsvc "storefront/internal/service/auth"
)

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.Load(path)
	}
	return config.FromEnv()
}

// authService connects to the database and returns the auth service with a
// cleanup function that closes the pool.
func authService(ctx context.Context, cfg config.Config) (*authsvc.Service, func()) {
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal(ctx, "could not connect to db", zap.Error(err))
	}
	l := logger.Get(ctx)
	svc := authsvc.New(userrepo.NewPostgres(pool, l), tokenrepo.NewPostgres(pool), cfg.JWT.Secret, cfg.JWT.TTL, l)
	return svc, func() { closePool(ctx, pool) }
}

func closePool(ctx context.Context, pool *pgxpool.Pool) {
	logger.Debug(ctx, "closing postgres pool")
	pool.Close()
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "admin",
		Short:        "Storefront administration commands",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP("config", "c", "", "Optional YAML config file (environment variables still apply)")

	cfgFn := func(cmd *cobra.Command) config.Config {
		cfg, err := loadConfig(cmd)
		if err != nil {
			logger.Setup(logger.DevelopmentEnvironment).Fatal("could not load config", zap.Error(err))
		}
		l := logger.Setup(cfg.Environment)
		if err := cfg.Validate(); err != nil {
			l.Fatal("invalid config", zap.Error(err))
		}
		return cfg
	}

	rootCmd.AddCommand(
		createAdminCommand(cfgFn),
		promoteCommand(cfgFn),
		tokenCommand(cfgFn),
		purgeRevokedCommand(cfgFn),
	)

	err := rootCmd.Execute()
	_ = logger.Default().Sync()
	if err != nil {
		os.Exit(1)
	}
}
