package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/importer"
	"storefront/internal/logger"
	categoryrepo "storefront/internal/repository/category"
	productrepo "storefront/internal/repository/product"
	categorysvc "storefront/internal/service/category"
	productsvc "storefront/internal/service/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a product or category CSV file")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Setup(logger.DevelopmentEnvironment).Fatal("load config", zap.Error(err))
	}
	l := logger.Setup(cfg.Environment).With(zap.String("component", "importer"))
	defer l.Sync() //nolint: errcheck

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		l.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		l.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	categories := categorysvc.New(categoryrepo.NewPostgres(pool))
	products := productsvc.New(productrepo.NewPostgres(pool, l), categories)
	imp := importer.NewCSVImporter(f, products, categories, l)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		l.Fatal("import failed", zap.Int("imported", count), zap.Error(err))
	}

	fmt.Printf("Imported %d records from %s in %s\n", count, filePath, time.Since(start).Truncate(time.Millisecond))
}
