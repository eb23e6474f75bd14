package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"molcv/internal/fetch"
	"molcv/pkg/config"
	"molcv/pkg/logger"
)

func main() {
	dataDir := flag.String("p", "", "directory to store downloaded files (default ./data/)")
	indexURL := flag.String("index", "", "dataset index page to scrape for download links")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	// Initialize logger
	if err := logger.Init(*debug); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()

	if flag.NArg() == 0 {
		log.Fatal("At least one dataset required: qm9, decagon")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *indexURL != "" {
		cfg.IndexURL = *indexURL
	}

	client := fetch.NewClient()
	ctx := context.Background()

	for _, arg := range flag.Args() {
		name := strings.ToLower(arg)
		if name != "qm9" && name != "decagon" {
			log.Fatal("Unknown dataset", zap.String("dataset", arg))
		}

		log.Info("Fetching dataset",
			zap.String("dataset", name),
			zap.String("index", cfg.IndexURL),
		)
		paths, err := client.FetchDataset(ctx, cfg.IndexURL, cfg.DataDir, name)
		if err != nil {
			log.Fatal("Fetch failed", zap.String("dataset", name), zap.Error(err))
		}
		log.Info("Dataset fetched", zap.Strings("files", paths))
	}
}
