package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/bib"
)

func TestWriteCSV(t *testing.T) {
	rows := []bib.Row{
		{
			DOI:         "10.1234/abc",
			Title:       "Glacier Mass Balance",
			Date:        "2021-03-15",
			Citations:   "12",
			OrgLed:      "true",
			FirstGender: "female",
		},
		{Title: "Sparse"},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows", len(records))
	}

	header := records[0]
	if len(header) != len(Columns) {
		t.Fatalf("header has %d columns, want %d", len(header), len(Columns))
	}
	if header[0] != "doi" || header[len(header)-1] != "countries" {
		t.Errorf("header = %v", header)
	}

	first := records[1]
	if first[0] != "10.1234/abc" || first[4] != "2021-03-15" || first[8] != "true" {
		t.Errorf("row = %v", first)
	}

	sparse := records[2]
	if len(sparse) != len(Columns) {
		t.Errorf("sparse row has %d fields, want %d", len(sparse), len(Columns))
	}
	if sparse[0] != "" || sparse[1] != "Sparse" {
		t.Errorf("sparse row = %v", sparse)
	}
}

func TestWriteCSVEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("empty table should still write the header, got %d lines", len(records))
	}
}
