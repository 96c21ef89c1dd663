package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fixhub/fixhub/internal/config"
	"github.com/fixhub/fixhub/internal/engine"
	"github.com/fixhub/fixhub/internal/storage"
	"github.com/spf13/viper"
)

// defaultDBPath is used when neither the flag, env, nor config file set one.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "fixhub.db"
	}
	return filepath.Join(home, ".local", "share", "fixhub", "fixhub.db")
}

// initStorage opens the database and applies pending migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = defaultDBPath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", dbPath, err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// engineConfig builds the engine configuration from viper-backed settings.
func engineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	if viper.IsSet("engine.strict_stock_matching") {
		cfg.StrictStockMatching = viper.GetBool("engine.strict_stock_matching")
	}
	if viper.IsSet("engine.allow_negative_stock") {
		cfg.AllowNegativeStock = viper.GetBool("engine.allow_negative_stock")
	}
	return cfg
}
