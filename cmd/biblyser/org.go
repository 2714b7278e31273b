package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/config"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/review"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/scholar"
)

var (
	orgRoster   string
	orgPopulate bool
	orgCheck    bool
	orgCSV      string
)

func init() {
	orgCmd.Flags().StringVar(&orgRoster, "roster", "", "Path to the roster YAML file")
	orgCmd.Flags().BoolVar(&orgPopulate, "populate", false, "Enrich members from scholar profiles")
	orgCmd.Flags().BoolVar(&orgCheck, "check", false, "Interactively confirm uncertain genders")
	orgCmd.Flags().StringVar(&orgCSV, "csv", "", "Write the organisation table to a CSV file")
	rootCmd.AddCommand(orgCmd)
}

var orgCmd = &cobra.Command{
	Use:   "org",
	Short: "Inspect and enrich the organisation roster",
	Long: `Load the organisation roster, optionally enrich members from scholar
profiles and confirm uncertain gender entries, then report the result.

Examples:
  biblyser org --roster geus.yml
  biblyser org --roster geus.yml --populate --csv members.csv
  biblyser org --roster geus.yml --check`,
	RunE: runOrg,
}

// OrgMember is one roster member in the org command response.
type OrgMember struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Gender      string `json:"gender,omitempty"`
	ORCID       string `json:"orcid,omitempty"`
	ScholarID   string `json:"scholar_id,omitempty"`
	Affiliation string `json:"affiliation,omitempty"`
	HIndex      *int   `json:"h_index,omitempty"`
}

// OrgResult is the org command response.
type OrgResult struct {
	Members []OrgMember `json:"members"`
	CSVPath string      `json:"csv_path,omitempty"`
}

func runOrg(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	o, err := loadOrganisation(orgRoster, cfg)
	if err != nil {
		exitWithError(ExitConfigError, "loading roster: %v", err)
	}

	log := logger()
	ctx := context.Background()

	if orgPopulate {
		o.Populate(ctx, scholar.NewClient(scholar.WithLogger(log)), log)
	}

	if orgCheck {
		term := review.NewTerminal(os.Stdin, os.Stderr)
		for _, member := range o.Names {
			if member.Gender.Confident() {
				continue
			}
			v, err := term.ConfirmGender(member.Full)
			if err != nil {
				exitWithError(ExitError, "confirming gender: %v", err)
			}
			member.Gender = v
		}
	}

	// Write enrichment and confirmations back to the roster.
	if orgPopulate || orgCheck {
		path := orgRoster
		if path == "" {
			path = cfg.RosterPath
		}
		if err := o.SaveRoster(path); err != nil {
			exitWithError(ExitError, "saving roster: %v", err)
		}
	}

	result := OrgResult{Members: make([]OrgMember, 0, len(o.Names))}
	for _, n := range o.Names {
		result.Members = append(result.Members, OrgMember{
			Name:        n.Full,
			Title:       n.Title,
			Gender:      string(n.Gender),
			ORCID:       n.ORCID,
			ScholarID:   n.ScholarID,
			Affiliation: n.Affiliation,
			HIndex:      n.HIndex,
		})
	}

	if orgCSV != "" {
		if err := o.WriteCSVFile(orgCSV); err != nil {
			exitWithError(ExitError, "writing csv: %v", err)
		}
		result.CSVPath = orgCSV
	}

	if humanOutput {
		for _, m := range result.Members {
			outputHuman("%s", m.Name)
			if m.Gender != "" {
				outputHuman(" [%s]", m.Gender)
			}
			if m.Affiliation != "" {
				outputHuman(" (%s)", m.Affiliation)
			}
			outputHuman("\n")
		}
		return nil
	}
	return outputJSON(result)
}
