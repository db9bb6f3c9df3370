package main

import (
	"context"
	"flag"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"ringlab/internal/migration"
)

// Applies the archive schema to the configured database and exits.
func main() {
	url := flag.String("database-url", "", "postgres connection string (default $DATABASE_URL)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}

	dsn := *url
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}

	runner := migration.NewRunner()
	if err := runner.Run(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Str("version", runner.Version()).Msg("migrations applied")
}
