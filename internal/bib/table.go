package bib

import (
	"context"
	"strconv"
	"strings"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/gender"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/name"
)

// Row is one flattened record in the report table. All fields are strings;
// an empty string marks an absent value.
type Row struct {
	DOI              string `json:"doi"`
	Title            string `json:"title"`
	Type             string `json:"type"`
	Journal          string `json:"journal"`
	Date             string `json:"date"`
	Citations        string `json:"citations"`
	Altmetric        string `json:"altmetric"`
	Authors          string `json:"authors"`
	OrgLed           string `json:"org_led"`
	OrgAuthors       string `json:"org_authors"`
	Genders          string `json:"genders"`
	FirstGender      string `json:"first_gender"`
	LastGender       string `json:"last_gender"`
	FemaleAuthors    string `json:"female_authors"`
	MaleAuthors      string `json:"male_authors"`
	NonBinaryAuthors string `json:"nonbinary_authors"`
	Affiliations     string `json:"affiliations"`
	Countries        string `json:"countries"`
}

// Table flattens the collection for reporting. When src is non-nil, attention
// scores are fetched lazily for records that do not have one yet.
func (c *Collection) Table(ctx context.Context, src AltmetricSource) []Row {
	rows := make([]Row, 0, len(c.Records))
	for _, r := range c.Records {
		if src != nil {
			r.FetchAltmetric(ctx, src)
		}
		rows = append(rows, c.row(r))
	}
	return rows
}

func (c *Collection) row(r *Record) Row {
	row := Row{
		DOI:     r.DOI,
		Title:   r.Title,
		Type:    r.Type,
		Journal: r.Venue,
		Authors: r.AuthorString(),
		OrgLed:  strconv.FormatBool(r.LeadAuthorInOrg(c.Org)),
	}

	if !r.Date.IsZero() {
		row.Date = r.Date.Format("2006-01-02")
	}
	if r.Citations != nil {
		row.Citations = strconv.Itoa(*r.Citations)
	}
	if r.Altmetric != nil {
		row.Altmetric = strconv.FormatFloat(*r.Altmetric, 'f', -1, 64)
	}

	members := r.AuthorsInOrg(c.Org)
	memberNames := make([]string, 0, len(members))
	for _, m := range members {
		memberNames = append(memberNames, m.Full)
	}
	row.OrgAuthors = strings.Join(memberNames, ", ")

	if len(r.Genders) > 0 {
		verdicts := make([]string, 0, len(r.Genders))
		for _, v := range r.Genders {
			verdicts = append(verdicts, string(v))
		}
		row.Genders = strings.Join(verdicts, ", ")
		row.FirstGender = string(r.Genders[0])
		if len(r.Genders) > 1 {
			row.LastGender = string(r.Genders[len(r.Genders)-1])
		}

		female, male, nonBinary := gender.Count(r.Genders)
		row.FemaleAuthors = strconv.Itoa(female)
		row.MaleAuthors = strconv.Itoa(male)
		row.NonBinaryAuthors = strconv.Itoa(nonBinary)
	}

	row.Affiliations = distinctField(r.Authors, func(n *name.Name) string { return n.Affiliation })
	row.Countries = distinctField(r.Authors, func(n *name.Name) string { return n.Country })
	return row
}

// distinctField joins the non-empty values of one author field, keeping first
// occurrence order.
func distinctField(authors []*name.Name, field func(*name.Name) string) string {
	var values []string
	seen := make(map[string]bool)
	for _, a := range authors {
		v := field(a)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return strings.Join(values, "; ")
}
