package scholar

import (
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/bib"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/org"
)

// parseSearchResult extracts the first profile ID from an author search page.
func parseSearchResult(doc *goquery.Document) string {
	href, ok := doc.Find(".gs_ai_name a").First().Attr("href")
	if !ok {
		return ""
	}
	return userParam(href)
}

// userParam pulls the user= query value out of a profile link.
func userParam(href string) string {
	const key = "user="
	i := strings.Index(href, key)
	if i < 0 {
		return ""
	}
	id := href[i+len(key):]
	if j := strings.IndexByte(id, '&'); j >= 0 {
		id = id[:j]
	}
	return id
}

// parseProfile extracts author metadata from a profile page.
func parseProfile(doc *goquery.Document) org.AuthorProfile {
	p := org.AuthorProfile{
		Affiliation: strings.TrimSpace(doc.Find(".gsc_prf_il").First().Text()),
	}

	// The stats table lists citations, h-index and i10-index rows; the
	// second column of the h-index row is the all-time value.
	doc.Find("#gsc_rsb_st tr").Each(func(_ int, row *goquery.Selection) {
		label := strings.ToLower(row.Find("td").First().Text())
		if !strings.Contains(label, "h-index") {
			return
		}
		value := strings.TrimSpace(row.Find("td").Eq(1).Text())
		if h, err := strconv.Atoi(value); err == nil {
			p.HIndex = h
		}
	})
	return p
}

// parsePublications extracts the publication rows of a profile page. Rows
// without a title are skipped; a missing year leaves the date zero.
func parsePublications(doc *goquery.Document) []bib.Hit {
	var hits []bib.Hit
	doc.Find(".gsc_a_tr").Each(func(_ int, row *goquery.Selection) {
		title := strings.TrimSpace(row.Find(".gsc_a_at").Text())
		if title == "" {
			return
		}

		hit := bib.Hit{Title: title}

		// Two gray lines per row: authors, then venue.
		gray := row.Find(".gs_gray")
		hit.Authors = splitAuthors(gray.Eq(0).Text())
		hit.Venue = strings.TrimSpace(gray.Eq(1).Text())

		if cites := strings.TrimSpace(row.Find(".gsc_a_ac").Text()); cites != "" {
			if n, err := strconv.Atoi(cites); err == nil {
				hit.Citations = &n
			}
		}
		if year := strings.TrimSpace(row.Find(".gsc_a_y span").Text()); year != "" {
			if y, err := strconv.Atoi(year); err == nil {
				hit.Date = time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
			}
		}
		hits = append(hits, hit)
	})
	return hits
}

// splitAuthors splits a comma-separated author line, dropping a trailing
// ellipsis marker for truncated lists.
func splitAuthors(line string) []string {
	var authors []string
	for _, part := range strings.Split(line, ",") {
		a := strings.TrimSpace(part)
		if a == "" || a == "..." || a == "…" {
			continue
		}
		authors = append(authors, a)
	}
	return authors
}
