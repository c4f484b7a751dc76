// Command sheets-init provisions the header row on the configured backend.
// Run it once against a fresh spreadsheet (or sqlite file) before starting
// the server.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"financas/internal/config"
	"financas/internal/log"
	"financas/internal/sheets"
	gsheet "financas/internal/sheets/google"
	"financas/internal/storage"
	"financas/internal/store"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var rows sheets.RowStore
	switch cfg.DataBackend {
	case "sheets":
		cli, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		rows = cli
	case "sqlite":
		db, err := storage.NewSQLiteRowStore(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize sqlite backend", log.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer db.Close()
		rows = db
	default:
		logger.Error("Nothing to initialize for the memory backend", "backend", cfg.DataBackend)
		os.Exit(1)
	}

	if err := store.New(rows).EnsureHeader(ctx); err != nil {
		logger.Error("Header provisioning failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Backend initialized", "backend", cfg.DataBackend)
}
