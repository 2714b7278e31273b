package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/bib"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/config"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/export"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/scholar"
)

var (
	fetchRoster   string
	fetchCrossref bool
	fetchScholar  bool
	fetchOut      string
	fetchCSV      string
	fetchBibtex   string
)

func init() {
	fetchCmd.Flags().StringVar(&fetchRoster, "roster", "", "Path to the roster YAML file")
	fetchCmd.Flags().BoolVar(&fetchCrossref, "crossref", true, "Search CrossRef for member publications")
	fetchCmd.Flags().BoolVar(&fetchScholar, "scholar", false, "Fetch scholar profile publication lists")
	fetchCmd.Flags().StringVar(&fetchOut, "out", "", "Write the record collection as a JSON file")
	fetchCmd.Flags().StringVar(&fetchCSV, "csv", "", "Write the record table to a CSV file")
	fetchCmd.Flags().StringVar(&fetchBibtex, "bibtex", "", "Write the records as a BibTeX file")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Gather and reconcile member publications",
	Long: `Search external services for every roster member's publications, merge
the results, drop duplicates and backfill missing DOIs by title lookup.

Examples:
  biblyser fetch --roster geus.yml
  biblyser fetch --roster geus.yml --out records.json
  biblyser fetch --roster geus.yml --scholar --csv records.csv`,
	RunE: runFetch,
}

// FetchResult is the fetch command response.
type FetchResult struct {
	Records    int    `json:"records"`
	Duplicates int    `json:"duplicates_removed"`
	OutPath    string `json:"out_path,omitempty"`
	CSVPath    string `json:"csv_path,omitempty"`
	BibtexPath string `json:"bibtex_path,omitempty"`
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	o, err := loadOrganisation(fetchRoster, cfg)
	if err != nil {
		exitWithError(ExitConfigError, "loading roster: %v", err)
	}

	log := logger()
	ctx := context.Background()
	collection := bib.NewCollection(o, log)

	client := crossrefClient(cfg, log)
	if fetchCrossref {
		gatherCrossref(ctx, collection, client)
	}
	if fetchScholar {
		gatherScholar(ctx, collection, scholar.NewClient(scholar.WithLogger(log)))
	}

	duplicates := collection.RemoveDuplicates()
	collection.ResolveDOIs(ctx, client)

	result := FetchResult{
		Records:    len(collection.Records),
		Duplicates: duplicates,
	}

	if fetchOut != "" {
		data, err := json.MarshalIndent(collection.Records, "", "  ")
		if err != nil {
			exitWithError(ExitError, "encoding records: %v", err)
		}
		if err := os.WriteFile(fetchOut, data, 0644); err != nil {
			exitWithError(ExitError, "writing records: %v", err)
		}
		result.OutPath = fetchOut
	}
	if fetchCSV != "" {
		rows := collection.Table(ctx, nil)
		if err := export.WriteCSVFile(fetchCSV, rows); err != nil {
			exitWithError(ExitError, "writing csv: %v", err)
		}
		result.CSVPath = fetchCSV
	}
	if fetchBibtex != "" {
		content := export.ToBibTeXList(collection.Records)
		if err := os.WriteFile(fetchBibtex, []byte(content), 0644); err != nil {
			exitWithError(ExitError, "writing bibtex: %v", err)
		}
		result.BibtexPath = fetchBibtex
	}

	if humanOutput {
		outputHuman("%d records (%d duplicates removed)\n", result.Records, result.Duplicates)
		for _, r := range collection.Records {
			outputHuman("  %s\n", r.Summary())
		}
		return nil
	}
	return outputJSON(result)
}
