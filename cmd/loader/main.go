package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/solenta/catalogsearch/internal/config"
	dbRedis "github.com/solenta/catalogsearch/internal/db/redis"
	"github.com/solenta/catalogsearch/internal/domain"
	logpkg "github.com/solenta/catalogsearch/internal/logger"
	"github.com/solenta/catalogsearch/internal/metrics"
	catalogrepo "github.com/solenta/catalogsearch/internal/repository/catalog"
	"github.com/solenta/catalogsearch/internal/repository/embcache"
	openaiEmb "github.com/solenta/catalogsearch/internal/transport/openai"
	ingestuc "github.com/solenta/catalogsearch/internal/usecase/ingest"
	"github.com/solenta/catalogsearch/internal/version"
)

// rawProduct is one entry of the source catalog file.
type rawProduct struct {
	ProductID   string    `json:"product_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Embedding   []float32 `json:"description_embedding,omitempty"`
}

func main() {
	filePath := flag.String("file", "data/products.json", "path to the product catalog JSON file")
	flag.Parse()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting catalog loader",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("file", *filePath),
	)

	products, err := loadProducts(*filePath)
	if err != nil {
		logger.Fatal("Failed to load products", zap.Error(err))
	}
	logger.Info("Loaded products", zap.Int("count", len(products)))

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	metrics.RegisterEmbeddingMetrics()

	embedder := embcache.New(
		openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Timeout:    time.Duration(cfg.Embedding.RequestTimeout) * time.Second,
			Logger:     logger,
		}),
		store, metrics.EmbeddingCacheTotal, logger,
	)

	catalogRepo := catalogrepo.New(store, catalogrepo.Options{
		Collection:      cfg.Index.Name,
		Dimensions:      cfg.Embedding.Dimensions,
		Algorithm:       cfg.Index.VectorAlgorithm,
		TitleWeight:     cfg.Index.TitleWeight,
		HNSWM:           cfg.Index.HNSWM,
		HNSWEFConstruct: cfg.Index.HNSWEFConstruct,
	})
	ingestSvc := ingestuc.New(catalogRepo, embedder, cfg.Embedding.Dimensions).
		WithMaxBatchSize(cfg.Index.MaxBulkSize)

	created, err := ingestSvc.Provision(ctx)
	if err != nil {
		logger.Fatal("Failed to provision index", zap.Error(err))
	}
	logger.Info("Index ready",
		zap.String("index", catalogRepo.IndexName()),
		zap.Bool("created", created),
	)

	succeeded, failed := 0, 0
	for start := 0; start < len(products); start += cfg.Index.MaxBulkSize {
		end := start + cfg.Index.MaxBulkSize
		if end > len(products) {
			end = len(products)
		}

		report, err := ingestSvc.BulkUpsert(ctx, products[start:end])
		if err != nil {
			logger.Fatal("Bulk upsert failed",
				zap.Int("batch_start", start),
				zap.Error(err),
			)
		}

		for _, item := range report.Failed() {
			logger.Warn("Product failed",
				zap.String("id", item.ID()),
				zap.Error(item.Err()),
			)
		}
		succeeded += len(report.Items()) - len(report.Failed())
		failed += len(report.Failed())

		logger.Info("Batch ingested",
			zap.Int("batch_start", start),
			zap.Int("batch_size", end-start),
		)
	}

	logger.Info("Catalog import finished",
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed),
	)
	if failed > 0 {
		os.Exit(1)
	}
}

// loadProducts reads and validates the source catalog file.
func loadProducts(path string) ([]domain.Product, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var raw []rawProduct
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	products := make([]domain.Product, 0, len(raw))
	for i, r := range raw {
		p, err := domain.NewProduct(r.ProductID, r.Title, r.Description, r.Embedding)
		if err != nil {
			return nil, fmt.Errorf("product %d (%s): %w", i, r.ProductID, err)
		}
		products = append(products, p)
	}
	return products, nil
}
