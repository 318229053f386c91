package main

import (
	"fmt"
	"os"

	"tiktok-scraper/cache"
	"tiktok-scraper/config"
	"tiktok-scraper/scraper/tiktok"
	"tiktok-scraper/services"
	"tiktok-scraper/storage"
	"tiktok-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== TikTok Metrics Scraper starting ===")
	logger.Info("Config — accounts: %d | posts: %d | concurrency: %d | rate: %dms",
		len(cfg.Accounts), len(cfg.PostURLs), cfg.MaxConcurrency, cfg.RateLimitMs)

	if len(cfg.Accounts) == 0 && len(cfg.PostURLs) == 0 {
		logger.Error("No scrape targets. Set TIKTOK_ACCOUNTS and/or TIKTOK_POST_URLS.")
		os.Exit(1)
	}

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Make sure Docker is running: docker compose up -d")
		os.Exit(1)
	}
	defer pgWriter.Close()

	contentCache, err := cache.OpenSQLiteStore(cfg.CacheDBPath)
	if err != nil {
		logger.Error("Failed to open content cache: %v", err)
		os.Exit(1)
	}
	defer contentCache.Close()

	// No OCR engine is bundled; plug one in here to enable slide text
	// extraction (it will be memoized through the content cache).
	scraper := tiktok.New(cfg, logger, nil)
	rawAccounts, rawPosts, err := scraper.Scrape()
	if err != nil {
		logger.Error("TikTok scrape failed: %v", err)
	}

	if len(rawAccounts) == 0 && len(rawPosts) == 0 {
		logger.Error("Nothing was scraped. Exiting.")
		os.Exit(1)
	}

	logger.Info("Scraped %d account and %d post snapshots — writing raw CSV...",
		len(rawAccounts), len(rawPosts))

	if err := csvWriter.WriteRaw(rawPosts); err != nil {
		logger.Error("CSV write failed: %v", err)
	} else {
		logger.Info("Raw post snapshots saved to %s", cfg.CSVOutputPath)
	}

	normalizer := services.NewNormalizer(logger, contentCache)
	posts := normalizer.NormalizePosts(rawPosts)
	accounts := normalizer.NormalizeAccounts(rawAccounts)

	if err := pgWriter.WriteAccounts(accounts); err != nil {
		logger.Error("PostgreSQL account write failed: %v", err)
	}
	if err := pgWriter.WritePosts(posts); err != nil {
		logger.Error("PostgreSQL post write failed: %v", err)
	} else {
		logger.Info("Snapshots stored in PostgreSQL (tables: account_snapshots, post_snapshots)")
	}

	dbPosts, err := pgWriter.FetchLatestPosts()
	if err != nil {
		logger.Error("Failed to fetch posts from DB for insights: %v", err)
		dbPosts = posts
	}

	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(dbPosts)
	insightSvc.Print(report)

	fmt.Printf("  Done. Raw CSV → %s | Snapshots → PostgreSQL\n\n", cfg.CSVOutputPath)
}
