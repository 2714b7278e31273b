package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/bib"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/config"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/crossref"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/gender"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/genderdb"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/org"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/review"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/scholar"
)

// loadOrganisation reads the roster given by flag, config, or environment, in
// that order. YAML and CSV rosters are both accepted.
func loadOrganisation(rosterFlag string, cfg *config.Config) (*org.Organisation, error) {
	path := rosterFlag
	if path == "" {
		path = cfg.RosterPath
	}
	if path == "" {
		return nil, fmt.Errorf("no roster given: use --roster or set roster_path in %s", config.Path())
	}
	return org.Load(path)
}

// crossrefClient builds the CrossRef client from config.
func crossrefClient(cfg *config.Config, log zerolog.Logger) *crossref.Client {
	opts := []crossref.Option{crossref.WithLogger(log)}
	if cfg.CrossrefMailto != "" {
		opts = append(opts, crossref.WithMailto(cfg.CrossrefMailto))
	}
	return crossref.NewClient(opts...)
}

// gatherCrossref searches CrossRef for every member under each of their name
// forms and ingests the matches. Search failures for one form are logged and
// the remaining forms still run.
func gatherCrossref(ctx context.Context, c *bib.Collection, client *crossref.Client) {
	for _, member := range c.Org.Names {
		for _, form := range member.AllFormats() {
			hits, err := client.SearchAuthor(ctx, form)
			if err != nil {
				c.Log.Warn().Err(err).Str("author", form).Msg("crossref search failed")
				continue
			}
			c.Ingest(hits)
		}
	}
}

// gatherScholar fetches the publication list of every member with a scholar
// profile ID.
func gatherScholar(ctx context.Context, c *bib.Collection, client *scholar.Client) {
	for _, member := range c.Org.Names {
		if member.ScholarID == "" {
			continue
		}
		hits, err := client.Publications(ctx, member.ScholarID)
		if err != nil {
			c.Log.Warn().Err(err).Str("author", member.Full).Msg("scholar fetch failed")
			continue
		}
		c.Ingest(hits)
	}
}

// resolveGenders runs gender resolution over the collection backed by the
// persistent gender database. Roster members with a known gender seed the
// database view, interactive mode escalates ambiguous names to the terminal,
// and new entries are saved back when done.
func resolveGenders(ctx context.Context, c *bib.Collection, cfg *config.Config, interactive bool) error {
	dbPath := cfg.GenderDBPath
	if dbPath == "" {
		dbPath = config.DefaultGenderDBPath()
	}
	db, err := genderdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	known, err := db.Organisation()
	if err != nil {
		return err
	}
	for _, member := range c.Org.Names {
		if member.Gender != "" && member.Gender != gender.Unknown {
			known.Add(member)
		}
	}

	var genderizeOpts []gender.ClientOption
	if cfg.GenderizeAPIKey != "" {
		genderizeOpts = append(genderizeOpts, gender.WithAPIKey(cfg.GenderizeAPIKey))
	}
	genderizeOpts = append(genderizeOpts, gender.WithLogger(c.Log))

	var confirmer gender.Confirmer
	if interactive {
		confirmer = review.NewTerminal(os.Stdin, os.Stderr)
	}
	resolver := gender.NewResolver(gender.NewClient(genderizeOpts...), confirmer)
	resolver.Log = c.Log

	if err := c.ResolveGenders(ctx, known, resolver); err != nil {
		return err
	}
	return db.SaveOrganisation(known)
}
