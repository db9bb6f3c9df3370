package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"ringlab/adapters/excel"
	"ringlab/adapters/ouraapi"
	"ringlab/adapters/postgres"
	"ringlab/app"
	"ringlab/internal/config"
	"ringlab/internal/errors"
	"ringlab/internal/kb"
	"ringlab/internal/logging"
	"ringlab/internal/mcp"
	"ringlab/internal/metrics"
	"ringlab/internal/migration"
	"ringlab/ports"
)

func main() {
	stdio := flag.Bool("stdio", false, "serve MCP over stdin/stdout instead of HTTP")
	flag.Parse()

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
		db, err := initDatabase(cfg)
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
	server := mcp.NewServer(mcp.NewToolRegistry(service), m)

	// Stdio keeps stdout for the protocol; all logging goes to stderr.
	if *stdio {
		log.Info().Msg("serving MCP on stdio")
		if err := server.ServeStdio(context.Background(), os.Stdin, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("stdio server failed")
		}
		return
	}

	log.Info().Str("addr", cfg.Server.MCPAddr).Msg("serving MCP over HTTP")
	if err := http.ListenAndServe(cfg.Server.MCPAddr, server.HTTPHandler()); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// initDatabase connects to the archive database and applies migrations.
func initDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
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
