package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/zueribudget/statement-importer/internal/api"
	"github.com/zueribudget/statement-importer/internal/categorizer"
	"github.com/zueribudget/statement-importer/internal/config"
	"github.com/zueribudget/statement-importer/internal/extractor"
	"github.com/zueribudget/statement-importer/internal/logger"
	"github.com/zueribudget/statement-importer/internal/models"
	"github.com/zueribudget/statement-importer/internal/parser"
	"github.com/zueribudget/statement-importer/internal/staging"
	"github.com/zueribudget/statement-importer/internal/writer"
)

const version = "1.0.0"

// uploads are capped at the gateway limit; the extra headroom covers
// multipart framing.
const bodyLimit = staging.MaxDocumentBytes + (2 << 20)

func main() {
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of converting files")
	outputFlag := flag.String("output", "", "Output CSV file path (defaults to input filename with .csv extension)")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Statement Importer

Parses bank statement PDFs (Swiss ZKB-style layouts) into categorized
transactions, exported as CSV or served over HTTP.

Usage:
  statement-importer [flags] <input.pdf> [input2.pdf ...]
  statement-importer --serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert a statement to CSV next to the input
  statement-importer ZKB_Januar_2026.pdf

  # Custom output path
  statement-importer --output=transactions.csv ZKB_Januar_2026.pdf

  # Run the HTTP API (LISTEN_ADDR, STAGING_DIR, LOG_LEVEL from env)
  statement-importer --serve
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-importer v%s\n", version)
		os.Exit(0)
	}

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	gateway, err := staging.NewGateway(cfg.StagingDir, staging.NoopProtection{}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize staging directory")
	}

	ex := extractor.NewPDFExtractor()
	coordinator := parser.NewCoordinator(ex, categorizer.New())
	validator := parser.NewValidator(ex)

	if *serveFlag {
		serve(cfg, log, gateway, coordinator, validator)
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(gateway, validator, coordinator, inputPath, *outputFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func serve(cfg *config.Config, log zerolog.Logger, gateway *staging.Gateway, coordinator *parser.Coordinator, validator *parser.Validator) {
	app := fiber.New(fiber.Config{
		AppName:   "statement-importer v" + version,
		BodyLimit: bodyLimit,
	})
	api.NewHandler(gateway, coordinator, validator, log).RegisterRoutes(app)

	log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func processFile(gateway *staging.Gateway, validator *parser.Validator, coordinator *parser.Coordinator, inputPath, outputPath string) error {
	fmt.Printf("Processing: %s\n", inputPath)

	result, err := staging.WithSecureAccess(gateway, inputPath, func(stagedPath string) (*models.ParseResult, error) {
		if ok, reason := validator.Validate(stagedPath); !ok {
			return nil, fmt.Errorf("document rejected: %s", reason)
		}
		return coordinator.ParseStatement(stagedPath, filepath.Base(inputPath)), nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("  Found %d transaction(s)\n", len(result.Transactions))
	for _, msg := range result.ParseErrors {
		fmt.Printf("  Warning: %s\n", msg)
	}

	outPath := outputPath
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".csv"
	}

	w := &writer.CSVWriter{IncludeSource: true}
	if err := w.WriteToFile(outPath, result); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}

	fmt.Printf("  Output: %s\n", outPath)
	fmt.Println("  Done.")
	return nil
}
