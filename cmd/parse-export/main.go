package main

import (
	"flag"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/HiDoYa/finance-pipeline/internal/csvout"
	"github.com/HiDoYa/finance-pipeline/internal/logger"
	"github.com/HiDoYa/finance-pipeline/internal/mint"
)

// Debug CLI: parse an export locally and print what the sync would
// see, without touching the network.
func main() {
	log := logger.New()

	exportPath := flag.String("export-path", "", "Path to the transactions CSV export (required)")
	filterPath := flag.String("filter-path", "", "CSV of remove/rename category rules (optional)")
	csvOut := flag.String("csv-out", "", "Write the parsed rows to this CSV file (optional)")
	flag.Parse()

	if *exportPath == "" {
		log.Fatal().Msg("Error: --export-path is required")
	}

	txns, err := mint.ParseTransactions(*exportPath, *filterPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse export")
	}

	for _, t := range txns {
		fmt.Printf("%s  %-40s %-20s %10s\n", t.Date, t.Description, t.Category, t.Amount.StringFixed(2))
	}

	totals := make(map[string]decimal.Decimal)
	for _, t := range txns {
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}
	categories := make([]string, 0, len(totals))
	for c := range totals {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	fmt.Printf("\n%d transactions in %d categories:\n", len(txns), len(categories))
	for _, c := range categories {
		fmt.Printf("  %-20s %10s\n", c, totals[c].StringFixed(2))
	}

	if *csvOut != "" {
		if err := csvout.Write(*csvOut, txns); err != nil {
			log.Fatal().Err(err).Msg("Failed to write CSV output")
		}
		log.Info().Str("path", *csvOut).Msg("Wrote CSV output")
	}
}
