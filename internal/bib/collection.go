package bib

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/gender"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/org"
)

// Collection is an ordered set of records tied to the organisation they were
// gathered for.
type Collection struct {
	Org     *org.Organisation
	Records []*Record
	Log     zerolog.Logger
}

// NewCollection creates an empty collection for an organisation.
func NewCollection(o *org.Organisation, log zerolog.Logger) *Collection {
	return &Collection{Org: o, Log: log}
}

// Ingest converts hits into records and appends them. Hits with neither a DOI
// nor a title are logged and skipped.
func (c *Collection) Ingest(hits []Hit) {
	for _, h := range hits {
		r, err := FromHit(h)
		if err != nil {
			c.Log.Warn().Err(err).Str("venue", h.Venue).Msg("skipping hit")
			continue
		}
		c.Records = append(c.Records, r)
	}
}

// removeIndices deletes records at the given positions. Deletion runs in
// descending index order so earlier removals cannot shift later targets.
func (c *Collection) removeIndices(indices []int) {
	sort.Sort(sort.Reverse(sort.IntSlice(indices)))
	for _, i := range indices {
		c.Records = append(c.Records[:i], c.Records[i+1:]...)
	}
}

// RemoveKeyword drops records whose extracted field contains the keyword,
// compared case-insensitively. Records where the field is empty are retained.
// The pass is idempotent.
func (c *Collection) RemoveKeyword(extract func(*Record) string, keyword string) int {
	key := strings.ToLower(keyword)
	var remove []int
	for i, r := range c.Records {
		field := extract(r)
		if field == "" {
			continue
		}
		if strings.Contains(strings.ToLower(field), key) {
			remove = append(remove, i)
		}
	}
	c.removeIndices(remove)
	return len(remove)
}

// RemoveAbstracts drops conference abstracts by venue keyword.
func (c *Collection) RemoveAbstracts() int {
	return c.RemoveKeyword(func(r *Record) string { return r.Venue }, "abstract")
}

// RemoveDiscussions drops discussion-stage preprints by venue keyword.
func (c *Collection) RemoveDiscussions() int {
	return c.RemoveKeyword(func(r *Record) string { return r.Venue }, "discussion")
}

// RemoveDuplicates drops records sharing a DOI or a title with an earlier
// record. Comparison is case-insensitive; records with an empty DOI or title
// never collide on that key. The first occurrence is always the one retained.
func (c *Collection) RemoveDuplicates() int {
	remove := make(map[int]bool)

	markDuplicates := func(key func(*Record) string) {
		seen := make(map[string]bool)
		for i, r := range c.Records {
			k := strings.ToLower(key(r))
			if k == "" {
				continue
			}
			if seen[k] {
				remove[i] = true
				continue
			}
			seen[k] = true
		}
	}
	markDuplicates(func(r *Record) string { return r.DOI })
	markDuplicates(func(r *Record) string { return r.Title })

	indices := make([]int, 0, len(remove))
	for i := range remove {
		indices = append(indices, i)
	}
	c.removeIndices(indices)
	return len(indices)
}

// Recent returns a new collection holding only records published on or after
// the cutoff. The organisation is shared, the record slice is not.
func (c *Collection) Recent(cutoff time.Time) *Collection {
	out := NewCollection(c.Org, c.Log)
	for _, r := range c.Records {
		if r.PublishedAfter(cutoff) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// RemoveByAuthorCount drops records with fewer than min or more than max
// authors.
func (c *Collection) RemoveByAuthorCount(min, max int) int {
	var remove []int
	for i, r := range c.Records {
		n := len(r.Authors)
		if n < min || n > max {
			remove = append(remove, i)
		}
	}
	c.removeIndices(remove)
	return len(remove)
}

// RemovalConfirmer asks a human whether a record should be dropped.
type RemovalConfirmer interface {
	ConfirmRemoval(summary string) (bool, error)
}

// Review walks every record past a reviewer and removes the confirmed ones.
// Returns the number of records removed.
func (c *Collection) Review(confirmer RemovalConfirmer) (int, error) {
	var remove []int
	for i, r := range c.Records {
		drop, err := confirmer.ConfirmRemoval(r.Summary())
		if err != nil {
			return 0, err
		}
		if drop {
			remove = append(remove, i)
		}
	}
	c.removeIndices(remove)
	return len(remove), nil
}

// DOIResolver finds the DOI registered for an exact title.
type DOIResolver interface {
	DOIForTitle(ctx context.Context, title string) (string, error)
}

// ResolveDOIs backfills missing DOIs by title lookup. Failed lookups are
// logged and the record keeps its empty DOI.
func (c *Collection) ResolveDOIs(ctx context.Context, resolver DOIResolver) {
	for _, r := range c.Records {
		if r.DOI != "" || r.Title == "" {
			continue
		}
		doi, err := resolver.DOIForTitle(ctx, r.Title)
		if err != nil {
			c.Log.Debug().Err(err).Str("title", r.Title).Msg("doi lookup failed")
			continue
		}
		r.DOI = doi
	}
}

// ResolveGenders assigns a gender verdict to every author of every record.
// Known authors are looked up in db; unknown authors are resolved and then
// added to db, so the database passed in grows as a side effect and can be
// persisted by the caller afterwards.
func (c *Collection) ResolveGenders(ctx context.Context, db *org.Organisation, r *gender.Resolver) error {
	for _, rec := range c.Records {
		rec.Genders = make([]gender.Verdict, 0, len(rec.Authors))
		for _, a := range rec.Authors {
			if known := db.Find(a.Full); known != nil {
				rec.Genders = append(rec.Genders, known.Gender)
				continue
			}
			v, err := r.Resolve(ctx, a.First, a.Full)
			if err != nil {
				return err
			}
			a.Gender = v
			db.Add(a)
			rec.Genders = append(rec.Genders, v)
		}
	}
	return nil
}
