package main

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"ringlab/adapters/api"
	"ringlab/adapters/excel"
	"ringlab/adapters/ouraapi"
	"ringlab/adapters/postgres"
	"ringlab/app"
	"ringlab/internal/config"
	"ringlab/internal/errors"
	"ringlab/internal/kb"
	"ringlab/internal/logging"
	"ringlab/internal/metrics"
	"ringlab/internal/migration"
	"ringlab/ports"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Setup(cfg.Log)

	m := metrics.NewRegistry()
	source := ouraapi.New(cfg.Oura, m)

	var archive ports.RecordArchive
	if cfg.Database.URL != "" {
		db, err := connectDatabase(cfg.Database.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize database")
		}
		defer db.Close()
		archive = postgres.NewArchive(db)
	} else {
		log.Info().Msg("DATABASE_URL not set, record archiving disabled")
	}

	service := app.NewAnalysisService(source, archive, kb.NewStatic(),
		excel.NewWriter(cfg.Export), cfg.AnalysisDefaults(), m)
	server := api.NewServer(service, m, cfg.Server.GinMode)

	log.Info().Str("addr", cfg.Server.APIAddr).Msg("serving REST API")
	if err := server.Run(cfg.Server.APIAddr); err != nil {
		log.Fatal().Err(err).Msg("api server failed")
	}
}

func connectDatabase(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}
	if err := migration.NewRunner().Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}
	return db, nil
}
