// Package bib models publication records and the reconciliation passes that
// turn raw search hits into a clean, analysable collection.
package bib

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/gender"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/name"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/org"
)

// ErrMissingIdentity indicates a hit carrying neither a DOI nor a title.
var ErrMissingIdentity = errors.New("record has neither doi nor title")

// Hit is one raw result from an external search service before any
// reconciliation.
type Hit struct {
	DOI       string
	Title     string
	Authors   []string
	Venue     string
	Type      string
	Date      time.Time
	Citations *int
}

// Record is a publication under reconciliation. A zero Date means the
// publication date is unknown. Citations and Altmetric are nil until a
// service has reported them.
type Record struct {
	UID       string       `json:"uid"`
	DOI       string       `json:"doi,omitempty"`
	Title     string       `json:"title,omitempty"`
	Authors   []*name.Name `json:"authors,omitempty"`
	Date      time.Time    `json:"date,omitempty"`
	Type      string       `json:"type,omitempty"`
	Venue     string       `json:"venue,omitempty"`
	Citations *int         `json:"citations,omitempty"`
	Altmetric *float64     `json:"altmetric,omitempty"`

	// Genders is parallel to Authors once ResolveGenders has run.
	Genders []gender.Verdict `json:"genders,omitempty"`

	altmetricSet bool
}

// NewRecord creates a Record with a fresh synthetic handle.
func NewRecord() *Record {
	return &Record{UID: uuid.NewString()}
}

// FromHit converts a search hit into a Record. Author strings that cannot be
// parsed are dropped from the author list rather than failing the record.
func FromHit(h Hit) (*Record, error) {
	if h.DOI == "" && h.Title == "" {
		return nil, ErrMissingIdentity
	}

	r := NewRecord()
	r.DOI = h.DOI
	r.Title = h.Title
	r.Venue = h.Venue
	r.Type = h.Type
	r.Date = h.Date
	r.Citations = h.Citations
	for _, a := range h.Authors {
		n, err := name.New(a)
		if err != nil {
			continue
		}
		r.Authors = append(r.Authors, n)
	}
	return r, nil
}

// FirstAuthor returns the first author, or nil when there are none.
func (r *Record) FirstAuthor() *name.Name {
	if len(r.Authors) == 0 {
		return nil
	}
	return r.Authors[0]
}

// LastAuthor returns the final author, or nil when the record has fewer than
// two authors. A sole author is the first author only.
func (r *Record) LastAuthor() *name.Name {
	if len(r.Authors) < 2 {
		return nil
	}
	return r.Authors[len(r.Authors)-1]
}

// PublishedAfter reports whether the record has a known date on or after the
// cutoff. Undated records are never considered recent.
func (r *Record) PublishedAfter(cutoff time.Time) bool {
	return !r.Date.IsZero() && !r.Date.Before(cutoff)
}

// AuthorsInOrg returns the organisation members appearing in the author list,
// deduplicated by member identity.
func (r *Record) AuthorsInOrg(o *org.Organisation) []*name.Name {
	var members []*name.Name
	seen := make(map[string]bool)
	for _, a := range r.Authors {
		m := findMember(o, a)
		if m == nil || seen[m.Full] {
			continue
		}
		seen[m.Full] = true
		members = append(members, m)
	}
	return members
}

// LeadAuthorInOrg reports whether the first author is an organisation member.
func (r *Record) LeadAuthorInOrg(o *org.Organisation) bool {
	first := r.FirstAuthor()
	return first != nil && findMember(o, first) != nil
}

// findMember looks an author up in the organisation under every rendered
// name form, not just the form the source happened to print. "Jane Emily
// Doe" and member "Jane Doe" meet on the shared form "J. Doe".
func findMember(o *org.Organisation, a *name.Name) *name.Name {
	for _, form := range a.AllFormats() {
		if m := o.Find(form); m != nil {
			return m
		}
	}
	return nil
}

// AuthorString joins author names for display and export.
func (r *Record) AuthorString() string {
	parts := make([]string, 0, len(r.Authors))
	for _, a := range r.Authors {
		parts = append(parts, a.Full)
	}
	return strings.Join(parts, ", ")
}

// Summary is a short human-readable handle used in prompts and logs.
func (r *Record) Summary() string {
	title := r.Title
	if title == "" {
		title = r.DOI
	}
	if r.Date.IsZero() {
		return title
	}
	return fmt.Sprintf("%s (%d)", title, r.Date.Year())
}

// AltmetricSource reports an attention score for a DOI.
type AltmetricSource interface {
	Score(ctx context.Context, doi string) (float64, error)
}

// FetchAltmetric looks up the record's attention score at most once. Missing
// scores and lookup failures leave Altmetric nil; either way the record is
// marked so repeat calls are free.
func (r *Record) FetchAltmetric(ctx context.Context, src AltmetricSource) {
	if r.altmetricSet || r.DOI == "" {
		return
	}
	r.altmetricSet = true
	score, err := src.Score(ctx, r.DOI)
	if err != nil {
		return
	}
	r.Altmetric = &score
}
