package main

import (
	"flag"

	"github.com/joho/godotenv"

	"github.com/fkhayef/reimburse/internal/config"
	"github.com/fkhayef/reimburse/internal/database"
	"github.com/fkhayef/reimburse/internal/logger"
)

func main() {
	direction := flag.String("direction", string(database.Up), "migration direction: up or down")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := database.Migrate(cfg.DatabaseDriver, cfg.DatabaseURL, database.Direction(*direction)); err != nil {
		log.Fatal().Err(err).Str("direction", *direction).Msg("Migration failed")
	}
	log.Info().Str("direction", *direction).Str("driver", cfg.DatabaseDriver).Msg("Migrations applied")
}
