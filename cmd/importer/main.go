package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"street-segment-api/internal/config"
	"street-segment-api/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	file := flag.String("file", "", "Path to the streets JSON file to import")
	configDir := flag.String("config", "configs", "Directory holding app.env")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if *file == "" {
		log.Fatal().Msg("--file flag is required")
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	if cfg.DBSource == "" {
		log.Fatal().Msg("DB_SOURCE is required")
	}

	if err := run(context.Background(), cfg, *file); err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}
}

func run(ctx context.Context, cfg config.Config, path string) error {
	log.Info().Str("file", path).Msg("starting import")

	bounds, err := cfg.CityBounds()
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("importer: failed to open file: %w", err)
	}
	defer f.Close()

	records, stats, err := repository.ParseStreets(f, bounds)
	if err != nil {
		return err
	}
	log.Info().
		Int("streets", stats.Streets).
		Int("fragments", stats.Fragments).
		Int("skipped_streets", stats.SkippedStreets).
		Int("skipped_fragments", stats.SkippedFragments).
		Int("dropped_points", stats.DroppedPoints).
		Int("swapped_points", stats.SwappedPoints).
		Msg("parsed streets file")

	pool, err := repository.OpenPool(ctx, cfg.DBSource)
	if err != nil {
		return err
	}
	defer pool.Close()

	dataset := repository.NewPostgresDataset(pool)
	if err := dataset.EnsureSchema(ctx); err != nil {
		return err
	}

	inserted, err := dataset.ReplaceStreets(ctx, records)
	if err != nil {
		return err
	}

	// Verify data
	loaded, err := dataset.LoadStreets(ctx)
	if err != nil {
		return err
	}
	if len(loaded) != len(records) {
		return fmt.Errorf("importer: street count mismatch: expected %d, got %d", len(records), len(loaded))
	}

	log.Info().Int64("fragments", inserted).Int("streets", len(loaded)).Msg("import finished")
	return nil
}
