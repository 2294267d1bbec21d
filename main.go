package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"catalogue-cleaner/config"
	"catalogue-cleaner/models"
	"catalogue-cleaner/services"
	"catalogue-cleaner/source"
	"catalogue-cleaner/storage"
	"catalogue-cleaner/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	var input, output string
	var rate float64
	flag.StringVar(&input, "input", "", "Path to raw catalogue CSV file (required)")
	flag.StringVar(&input, "i", "", "Shorthand for -input")
	flag.StringVar(&output, "output", "", "Path to output summary CSV file (required)")
	flag.StringVar(&output, "o", "", "Shorthand for -output")
	flag.Float64Var(&rate, "rate", cfg.USDToEURRate, "USD to EUR exchange rate")
	flag.Float64Var(&rate, "r", cfg.USDToEURRate, "Shorthand for -rate")
	flag.Parse()

	if input == "" || output == "" {
		fmt.Fprintln(os.Stderr, "usage: catalogue-cleaner -input <path> -output <path> [-rate <float>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg.InputPath = input
	cfg.OutputPath = output
	cfg.USDToEURRate = rate

	logger.Info("=== Catalogue Cleaner starting ===")
	logger.Info("Config — input: %s | output: %s | rate: %.2f | workers: %d",
		cfg.InputPath, cfg.OutputPath, cfg.USDToEURRate, cfg.MaxWorkers)

	pipeline := services.NewPipeline(cfg, logger)
	records, report, err := pipeline.Run()
	if err != nil {
		var malformed *source.MalformedRecordError
		switch {
		case errors.Is(err, source.ErrInputNotFound):
			logger.Error("Source stage failed: %v", err)
		case errors.As(err, &malformed):
			logger.Error("Source stage failed, feed is corrupt: %v", err)
		default:
			logger.Error("Pipeline failed: %v", err)
		}
		os.Exit(1)
	}

	csvWriter, err := storage.NewCSVWriter(cfg.OutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()

	if err := csvWriter.Write(records); err != nil {
		logger.Error("CSV write failed for %s: %v", cfg.OutputPath, err)
		os.Exit(1)
	}
	logger.Info("Summary written to %s", cfg.OutputPath)

	if cfg.SQLiteOutputPath != "" {
		w, err := storage.NewSQLiteWriter(cfg.SQLiteOutputPath)
		if err != nil {
			logger.Error("Failed to create SQLite writer: %v", err)
			os.Exit(1)
		}
		if err := mirror(w, records); err != nil {
			logger.Error("SQLite write failed: %v", err)
			os.Exit(1)
		}
		logger.Info("Summary mirrored to SQLite at %s", cfg.SQLiteOutputPath)
	}

	if cfg.PostgresEnabled {
		w, err := storage.NewPostgresWriter(cfg.DSN(), logger)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			os.Exit(1)
		}
		defer w.Close()
		if err := w.Write(records); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
			os.Exit(1)
		}
		stored, err := w.FetchAll()
		if err != nil {
			logger.Error("Failed to read back summaries from PostgreSQL: %v", err)
			os.Exit(1)
		}
		logger.Info("Summary mirrored to PostgreSQL (table: product_summaries, %d rows stored)", len(stored))
	}

	logger.Info("Run totals — rows read: %d | priced: %d | dropped by filter: %d | groups: %d",
		report.RowsRead, report.RowsPriced, report.RowsFiltered, report.GroupsEmitted)

	fmt.Printf("  Done. %d product groups → %s\n\n", report.GroupsEmitted, cfg.OutputPath)
}

// mirror writes the summary to a secondary sink and closes it.
func mirror(w storage.SummaryWriter, records []*models.AggregateRecord) error {
	defer w.Close()
	return w.Write(records)
}
