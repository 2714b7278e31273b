package org

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/gender"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/name"
)

// CSVColumns is the stable column set for organisation CSV exports.
// Downstream reporting re-parses this table by column name.
var CSVColumns = []string{
	"full_name",
	"title",
	"guessed_gender",
	"orcid_id",
	"scholar_id",
	"affiliation",
	"h_index",
	"full_initials",
	"single_initials",
	"partial_initials",
	"only_first",
}

// WriteCSV writes the organisation table.
func (o *Organisation) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, n := range o.Names {
		hIndex := ""
		if n.HIndex != nil {
			hIndex = strconv.Itoa(*n.HIndex)
		}
		onlyFirst := n.Full
		if n.First != "" {
			onlyFirst = n.First + " " + n.Last
		}
		row := []string{
			n.Full,
			n.Title,
			string(n.Gender),
			n.ORCID,
			n.ScholarID,
			n.Affiliation,
			hIndex,
			n.FullInitials(),
			n.SingleInitials(),
			n.FirstWithInitials(),
			onlyFirst,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row for %s: %w", n.Full, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the organisation table to a file.
func (o *Organisation) WriteCSVFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return o.WriteCSV(f)
}

// LoadCSV reads an Organisation from a CSV export, typically used as a
// gender database seeded by a previous run.
func LoadCSV(path string) (*Organisation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	nameIdx, ok := col["full_name"]
	if !ok {
		return nil, fmt.Errorf("%w: missing full_name column", ErrInvalidInput)
	}

	field := func(row []string, key string) string {
		i, ok := col[key]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	o := &Organisation{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		n, err := name.New(row[nameIdx])
		if err != nil {
			return nil, fmt.Errorf("row for %q: %w", row[nameIdx], err)
		}
		n.Title = field(row, "title")
		n.Gender = gender.Verdict(field(row, "guessed_gender"))
		n.ORCID = field(row, "orcid_id")
		n.ScholarID = field(row, "scholar_id")
		n.Affiliation = field(row, "affiliation")
		if h := field(row, "h_index"); h != "" {
			if v, err := strconv.Atoi(h); err == nil {
				n.HIndex = &v
			}
		}
		o.Names = append(o.Names, n)
	}
	return o, nil
}
