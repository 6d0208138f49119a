// Command init-db creates the database schema if it does not exist yet.
// Running it more than once is safe.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wedding-ledger/backend/internal/config"
	"github.com/wedding-ledger/backend/internal/models"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	if err := run(cfg); err != nil {
		log.Fatal().Msg(err.Error())
	}

	log.Info().Str("database", cfg.DatabaseURL).Msg("database initialized")
}

func run(cfg config.Config) error {
	db, err := models.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return models.Migrate(db)
}
