package crossref

import (
	"strings"
	"time"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/bib"
)

// toHit flattens a CrossRef work item into a search hit. Missing date parts
// leave the date zero.
func (w workItem) toHit() bib.Hit {
	hit := bib.Hit{
		DOI:  w.DOI,
		Type: w.Type,
	}
	if len(w.Title) > 0 {
		hit.Title = w.Title[0]
	}
	if len(w.ContainerTitle) > 0 {
		hit.Venue = w.ContainerTitle[0]
	}
	for _, a := range w.Author {
		full := strings.TrimSpace(a.Given + " " + a.Family)
		if full == "" {
			continue
		}
		hit.Authors = append(hit.Authors, full)
	}
	if len(w.Created.DateParts) > 0 {
		hit.Date = fromDateParts(w.Created.DateParts[0])
	}
	cites := w.CitedBy
	hit.Citations = &cites
	return hit
}

// fromDateParts converts CrossRef [year, month, day] parts, padding missing
// month and day with 1.
func fromDateParts(parts []int) time.Time {
	if len(parts) == 0 || parts[0] == 0 {
		return time.Time{}
	}
	year, month, day := parts[0], 1, 1
	if len(parts) > 1 && parts[1] > 0 {
		month = parts[1]
	}
	if len(parts) > 2 && parts[2] > 0 {
		day = parts[2]
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
