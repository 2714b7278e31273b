package bib

import (
	"context"
	"testing"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/gender"
)

func TestTable(t *testing.T) {
	c := testCollection(t,
		Hit{
			DOI:     "10.1234/abc",
			Title:   "Glacier Mass Balance",
			Authors: []string{"Jane Emily Doe", "John Smith"},
			Venue:   "The Cryosphere",
			Type:    "journal-article",
			Date:    date(2021, 3, 15),
		},
		Hit{Title: "Undated and sparse"},
	)
	cites := 12
	c.Records[0].Citations = &cites
	c.Records[0].Genders = []gender.Verdict{gender.Female, gender.Male}
	c.Records[0].Authors[0].Affiliation = "GEUS"
	c.Records[0].Authors[0].Country = "Denmark"
	c.Records[0].Authors[1].Affiliation = "DMI"
	c.Records[0].Authors[1].Country = "Denmark"

	src := &fakeAltmetric{scores: map[string]float64{"10.1234/abc": 7.25}}
	rows := c.Table(context.Background(), src)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	row := rows[0]
	checks := []struct {
		field, got, want string
	}{
		{"doi", row.DOI, "10.1234/abc"},
		{"date", row.Date, "2021-03-15"},
		{"citations", row.Citations, "12"},
		{"altmetric", row.Altmetric, "7.25"},
		{"authors", row.Authors, "Jane Emily Doe, John Smith"},
		{"org_led", row.OrgLed, "true"},
		{"org_authors", row.OrgAuthors, "Jane Emily Doe"},
		{"genders", row.Genders, "female, male"},
		{"first_gender", row.FirstGender, "female"},
		{"last_gender", row.LastGender, "male"},
		{"female_authors", row.FemaleAuthors, "1"},
		{"male_authors", row.MaleAuthors, "1"},
		{"nonbinary_authors", row.NonBinaryAuthors, "0"},
		{"affiliations", row.Affiliations, "GEUS; DMI"},
		{"countries", row.Countries, "Denmark"},
	}
	for _, ck := range checks {
		if ck.got != ck.want {
			t.Errorf("%s = %q, want %q", ck.field, ck.got, ck.want)
		}
	}

	// Sparse record renders absent values as empty strings.
	sparse := rows[1]
	if sparse.Date != "" || sparse.Citations != "" || sparse.Altmetric != "" {
		t.Errorf("sparse row should have empty optional fields: %+v", sparse)
	}
	if sparse.OrgLed != "false" {
		t.Errorf("org_led = %q, want false", sparse.OrgLed)
	}
	if sparse.FirstGender != "" || sparse.FemaleAuthors != "" {
		t.Error("gender columns stay empty before resolution")
	}
}

func TestTableWithoutAltmetricSource(t *testing.T) {
	c := testCollection(t, Hit{DOI: "10.1/x", Title: "T"})
	rows := c.Table(context.Background(), nil)
	if rows[0].Altmetric != "" {
		t.Errorf("altmetric = %q, want empty without a source", rows[0].Altmetric)
	}
}
