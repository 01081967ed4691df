package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/HiDoYa/finance-pipeline/internal/config"
	"github.com/HiDoYa/finance-pipeline/internal/csvout"
	"github.com/HiDoYa/finance-pipeline/internal/exporter"
	"github.com/HiDoYa/finance-pipeline/internal/logger"
	"github.com/HiDoYa/finance-pipeline/internal/mint"
	"github.com/HiDoYa/finance-pipeline/internal/sheets"
)

func main() {
	// Initialize structured logger with a run ID
	log := logger.New().With().Str("run_id", uuid.New().String()).Logger()

	// Parse CLI flags
	downloadPath := flag.String("download-path", "", "Directory holding the transactions.csv export (default ~/.mintapi)")
	filterPath := flag.String("filter-path", "", "CSV of remove/rename category rules (optional)")
	categoriesPath := flag.String("categories-path", "", "YAML or JSON category grouping file (required)")
	credentialPath := flag.String("credentials", "", "Service account key file (or FINPIPE_GOOGLE_CREDENTIALS)")
	spreadsheetID := flag.String("spreadsheet-id", "", "Target spreadsheet ID (or FINPIPE_SPREADSHEET_ID)")
	csvOut := flag.String("csv-out", "", "Also write the synced rows to this CSV file (optional)")
	dryRun := flag.Bool("dry-run", false, "Dry run mode - preview changes without writing to the spreadsheet")
	flag.Parse()

	opts := config.Options{
		DownloadPath:   *downloadPath,
		FilterPath:     *filterPath,
		CategoriesPath: *categoriesPath,
		CredentialPath: *credentialPath,
		SpreadsheetID:  *spreadsheetID,
		CSVOutPath:     *csvOut,
		DryRun:         *dryRun,
	}
	if err := opts.Resolve(); err != nil {
		log.Fatal().Err(err).Msg("Error: invalid configuration")
	}

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Add logger to context
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("download_path", opts.DownloadPath).
		Str("spreadsheet_id", opts.SpreadsheetID).
		Bool("dry_run", opts.DryRun).
		Msg("Starting sheet sync")

	// Locate the export
	export := &exporter.LocalExport{Dir: opts.DownloadPath}
	exportPath, err := export.Export(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to locate export")
	}

	// Parse and filter transactions
	txns, err := mint.ParseTransactions(exportPath, opts.FilterPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse export")
	}
	log.Info().Int("transactions", len(txns)).Msg("Parsed export")

	// Build the category grouping map
	categoryMap, err := mint.BuildCategoryMap(opts.CategoriesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load category map")
	}

	// Authenticate against the spreadsheet backend
	_, keyJSON, err := config.LoadServiceAccountKey(opts.CredentialPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load credentials")
	}
	client, err := sheets.NewClient(ctx, keyJSON, opts.SpreadsheetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create spreadsheet client")
	}

	// Sync
	engine := sheets.NewEngine(client, opts.DryRun)
	appended, err := engine.Sync(ctx, txns, categoryMap)
	if err != nil {
		log.Fatal().Err(err).Msg("Sync failed")
	}

	// Optional local snapshot of the synced row set
	if opts.CSVOutPath != "" {
		if err := csvout.Write(opts.CSVOutPath, txns); err != nil {
			log.Fatal().Err(err).Msg("Failed to write CSV snapshot")
		}
		log.Info().Str("path", opts.CSVOutPath).Msg("Wrote CSV snapshot")
	}

	fmt.Printf("Sync completed successfully. %d rows appended.\n", appended)
}
