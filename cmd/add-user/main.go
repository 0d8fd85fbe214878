// Command add-user creates a staff account without going through the API
package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/fkhayef/reimburse/internal/config"
	"github.com/fkhayef/reimburse/internal/database"
	"github.com/fkhayef/reimburse/internal/logger"
	"github.com/fkhayef/reimburse/internal/user"
)

func main() {
	username := flag.String("username", "", "login name")
	email := flag.String("email", "", "email address, used for password resets")
	password := flag.String("password", "", "initial password")
	superuser := flag.Bool("superuser", false, "grant superuser rights")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if *username == "" || *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := database.RunMigrations(cfg.DatabaseDriver, cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	u, err := user.NewService(user.NewRepository(db)).Bootstrap(context.Background(), *username, *email, *password, *superuser)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create user")
		db.Close()
		os.Exit(1)
	}
	log.Info().Int64("id", u.ID).Str("username", u.Username).Bool("superuser", u.IsSuperuser).Msg("User created")
}
