// Package export writes report tables to CSV and records to BibTeX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/bib"
)

// Columns is the report header, in output order.
var Columns = []string{
	"doi",
	"title",
	"type",
	"journal",
	"date",
	"citations",
	"altmetric",
	"authors",
	"org_led",
	"org_authors",
	"genders",
	"first_gender",
	"last_gender",
	"female_authors",
	"male_authors",
	"nonbinary_authors",
	"affiliations",
	"countries",
}

// WriteCSV writes the report table with a header row. An empty table still
// gets its header so downstream tooling sees a valid file.
func WriteCSV(w io.Writer, rows []bib.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.DOI,
			r.Title,
			r.Type,
			r.Journal,
			r.Date,
			r.Citations,
			r.Altmetric,
			r.Authors,
			r.OrgLed,
			r.OrgAuthors,
			r.Genders,
			r.FirstGender,
			r.LastGender,
			r.FemaleAuthors,
			r.MaleAuthors,
			r.NonBinaryAuthors,
			r.Affiliations,
			r.Countries,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the report table to a file.
func WriteCSVFile(path string, rows []bib.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return WriteCSV(f, rows)
}
