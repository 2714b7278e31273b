package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/bib"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/config"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/diversity"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/org"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/review"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/scholar"
)

var (
	divRoster   string
	divName     string
	divYears    int
	divCrossref bool
	divScholar  bool
	divCheck    bool
)

func init() {
	divCmd.Flags().StringVar(&divRoster, "roster", "", "Path to the roster YAML file")
	divCmd.Flags().StringVar(&divName, "name", "", "Analyse a single author instead of a roster")
	divCmd.Flags().IntVar(&divYears, "years", 5, "Only analyse publications from the last N years")
	divCmd.Flags().BoolVar(&divCrossref, "crossref", true, "Search CrossRef for publications")
	divCmd.Flags().BoolVar(&divScholar, "scholar", false, "Fetch scholar profile publication lists")
	divCmd.Flags().BoolVar(&divCheck, "check", false, "Interactively review records and confirm uncertain genders")
	rootCmd.AddCommand(divCmd)
}

var divCmd = &cobra.Command{
	Use:   "div",
	Short: "Compute gender diversity statistics",
	Long: `Gather recent publications, resolve author genders and report the
per-publication gender diversity ratio.

Single-author papers and very large consortium papers are excluded, as are
conference abstracts and discussion preprints.

Examples:
  biblyser div --roster geus.yml
  biblyser div --name "Jane Doe" --years 3 --check`,
	RunE: runDiv,
}

// DivResult is the div command response.
type DivResult struct {
	Records int             `json:"records"`
	After   string          `json:"after"`
	Stats   diversity.Stats `json:"stats"`
}

func runDiv(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	var o *org.Organisation
	if divName != "" {
		o, err = org.FromNames([]string{divName})
	} else {
		o, err = loadOrganisation(divRoster, cfg)
	}
	if err != nil {
		exitWithError(ExitConfigError, "loading organisation: %v", err)
	}

	log := logger()
	ctx := context.Background()
	collection := bib.NewCollection(o, log)

	if divCrossref {
		gatherCrossref(ctx, collection, crossrefClient(cfg, log))
	}
	if divScholar {
		client := scholar.NewClient(scholar.WithLogger(log))
		o.Populate(ctx, client, log)
		gatherScholar(ctx, collection, client)
	}

	collection.RemoveDuplicates()
	collection.RemoveAbstracts()
	collection.RemoveDiscussions()

	cutoff := time.Now().UTC().AddDate(-divYears, 0, 0)
	collection = collection.Recent(cutoff)
	collection.RemoveByAuthorCount(diversity.MinAuthors, diversity.MaxAuthors)

	if divCheck {
		term := review.NewTerminal(os.Stdin, os.Stderr)
		if _, err := collection.Review(term); err != nil {
			exitWithError(ExitError, "reviewing records: %v", err)
		}
	}

	if err := resolveGenders(ctx, collection, cfg, divCheck); err != nil {
		exitWithError(ExitError, "resolving genders: %v", err)
	}

	stats, err := diversity.Aggregate(collection.Records)
	if err != nil {
		if errors.Is(err, diversity.ErrInsufficientData) {
			exitWithError(ExitDataError, "no records with known-gender authors")
		}
		exitWithError(ExitError, "aggregating: %v", err)
	}

	result := DivResult{
		Records: len(collection.Records),
		After:   cutoff.Format("2006-01-02"),
		Stats:   stats,
	}

	if humanOutput {
		outputHuman("%d publications since %s\n", result.Records, result.After)
		outputHuman("diversity ratio: mean %.2f, min %.2f, max %.2f (%d publications)\n",
			stats.Mean, stats.Min, stats.Max, stats.Count)
		return nil
	}
	return outputJSON(result)
}
