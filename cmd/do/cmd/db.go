package cmd

import (
	"fmt"

	"github.com/ismyyear/lockin/internal/config"
	"github.com/ismyyear/lockin/internal/db"
	"github.com/ismyyear/lockin/internal/logger"
	"github.com/jmoiron/sqlx"
)

// openDB loads config the same way the server does and opens its database.
func openDB() (*config.Config, *sqlx.DB, error) {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), "")

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return cfg, database, nil
}
