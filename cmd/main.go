// Package main provides the CLI entrypoint for the blog generation service.
// It wires subcommands (serve, migrate, generate), loads configuration, and
// initializes logging.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"blogbrain/internal/config"
	"blogbrain/internal/crew"
	"blogbrain/pkg/logger"
	"blogbrain/pkg/research"
	"blogbrain/pkg/research/serper"
	"blogbrain/pkg/scraper"
	"blogbrain/pkg/sources"
	"blogbrain/pkg/storage/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// getPostgres creates a PostgreSQL client using configuration values and returns it
// along with a cleanup function to close the connection pool.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, func()) {
	pgsql, err := postgres.New(ctx, postgres.Options{
		Username:           cfg.Database.Username,
		Password:           cfg.Database.Password,
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		Database:           cfg.Database.DatabaseName,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:    cfg.Database.ConnMaxIdleTime,
		MaxOpenConnections: cfg.Database.MaxOpenConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		SslMode:            cfg.Database.SslMode,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create postgres storage", zap.Error(err))
	}

	return pgsql, func() {
		logger.Info(ctx, "closing postgres client...")
		if err = pgsql.Close(); err != nil {
			logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
		}
	}
}

// getCrew builds the research tool set (multi-source search, claim
// verification, page scraping) and the four-agent content pipeline on top of
// it.
func getCrew(ctx context.Context, cfg *config.Config) (*crew.Crew, error) {
	searchClient := serper.New(&http.Client{Timeout: cfg.Search.Timeout}, cfg.Search.APIKey)
	aggregator := research.NewAggregator(searchClient, sources.Default(), research.Options{
		MaxRetries:     cfg.Search.MaxRetries,
		MaxResults:     cfg.Research.MaxResults,
		MinCredibility: cfg.Research.MinCredibility,
		MinSources:     cfg.Research.MinSources,
	})

	tools, err := aggregator.Tools()
	if err != nil {
		return nil, err
	}

	scrapeTool, err := scraper.New(
		&http.Client{Timeout: cfg.Scraper.Timeout},
		cfg.Scraper.MaxContentLength,
	).Tool()
	if err != nil {
		return nil, err
	}
	tools = append(tools, scrapeTool)

	return crew.New(ctx, crew.Config{
		BaseURL:               cfg.LLM.BaseURL,
		APIKey:                cfg.LLM.APIKey,
		Model:                 cfg.LLM.Model,
		MaxSteps:              cfg.LLM.MaxSteps,
		ResearcherTemperature: cfg.LLM.ResearcherTemperature,
		StrategistTemperature: cfg.LLM.StrategistTemperature,
		WriterTemperature:     cfg.LLM.WriterTemperature,
		EditorTemperature:     cfg.LLM.EditorTemperature,
	}, tools)
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use: "blogbrain",
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	configPath := flag.String("c", "config.yml", "The config file path")
	flag.Parse()

	log.Println("loading config ...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file", err)
	}

	logger.Setup(cfg.Environment)

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		migrateCommand(cfg),
		serveCommand(cfg),
		generateCommand(cfg),
	)

	err = rootCmd.Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
