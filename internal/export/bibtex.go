package export

import (
	"fmt"
	"strings"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/bib"
)

// ToBibTeX converts a record to a BibTeX entry.
func ToBibTeX(r *bib.Record) string {
	entryType := entryTypeFor(r)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, citationKey(r)))

	if len(r.Authors) > 0 {
		names := make([]string, 0, len(r.Authors))
		for _, a := range r.Authors {
			if a.First != "" {
				names = append(names, a.Last+", "+a.First)
			} else {
				names = append(names, a.Last)
			}
		}
		b.WriteString(fmt.Sprintf("  author = {%s},\n", strings.Join(names, " and ")))
	}

	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(r.Title)))

	if r.Venue != "" {
		fieldName := "journal"
		if entryType == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(r.Venue)))
	}

	if !r.Date.IsZero() {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", r.Date.Year()))
		b.WriteString(fmt.Sprintf("  month = {%d},\n", int(r.Date.Month())))
	}

	if r.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", r.DOI))
	}

	b.WriteString("}\n")
	return b.String()
}

// ToBibTeXList converts multiple records to BibTeX format.
func ToBibTeXList(records []*bib.Record) string {
	var entries []string
	for _, r := range records {
		entries = append(entries, ToBibTeX(r))
	}
	return strings.Join(entries, "\n")
}

// citationKey derives a stable key: lastname + year when possible, the
// synthetic record handle otherwise.
func citationKey(r *bib.Record) string {
	first := r.FirstAuthor()
	if first == nil || r.Date.IsZero() {
		return r.UID
	}
	key := strings.ToLower(strings.ReplaceAll(first.Last, " ", ""))
	return fmt.Sprintf("%s%d", key, r.Date.Year())
}

// entryTypeFor maps a record onto a BibTeX entry type by its declared type
// and venue.
func entryTypeFor(r *bib.Record) string {
	switch r.Type {
	case "proceedings-article", "paper-conference":
		return "inproceedings"
	case "book", "monograph":
		return "book"
	case "book-chapter":
		return "incollection"
	case "report":
		return "techreport"
	case "dissertation":
		return "phdthesis"
	}

	venue := strings.ToLower(r.Venue)
	if strings.Contains(venue, "proceedings") || strings.Contains(venue, "conference") {
		return "inproceedings"
	}
	return "article"
}

// escapeLatex escapes characters with special meaning in LaTeX.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		"&", "\\&",
		"%", "\\%",
		"$", "\\$",
		"#", "\\#",
		"_", "\\_",
	)
	return replacer.Replace(s)
}
