// Package org models an organisation as an ordered collection of author names.
package org

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/gender"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/name"
)

// ErrInvalidInput indicates unsupported organisation construction input.
var ErrInvalidInput = errors.New("invalid organisation input")

// Organisation is an ordered collection of author names. Duplicates are
// allowed; membership lookup tests all four name forms of every member.
type Organisation struct {
	Names []*name.Name `json:"names"`
}

// New creates an Organisation from Name values.
func New(names ...*name.Name) *Organisation {
	return &Organisation{Names: names}
}

// FromNames creates an Organisation from full-name strings.
func FromNames(fullNames []string) (*Organisation, error) {
	if len(fullNames) == 0 {
		return nil, fmt.Errorf("%w: no names given", ErrInvalidInput)
	}

	o := &Organisation{Names: make([]*name.Name, 0, len(fullNames))}
	for _, full := range fullNames {
		n, err := name.New(full)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		o.Names = append(o.Names, n)
	}
	return o, nil
}

// Find returns the member whose any name form matches the candidate string,
// or nil. When formats collide across members the last match wins, preserving
// the source scan-order semantics; callers avoid the ambiguity by keeping
// member names distinct.
func (o *Organisation) Find(candidate string) *name.Name {
	var found *name.Name
	for _, n := range o.Names {
		if n.Matches(candidate) {
			found = n
		}
	}
	return found
}

// Add appends a member. No uniqueness check is performed; duplicate entries
// are a data-quality concern for the caller.
func (o *Organisation) Add(n *name.Name) {
	o.Names = append(o.Names, n)
}

// AuthorProfile is the subset of a profile-service lookup used to enrich a
// member.
type AuthorProfile struct {
	ID          string
	Affiliation string
	HIndex      int
}

// ProfileSource looks up an author on an external profile service.
type ProfileSource interface {
	AuthorProfile(ctx context.Context, fullName string) (AuthorProfile, error)
}

// Populate enriches every member from the profile service. Lookup failures
// are logged and skipped; the member keeps whatever data it already has.
func (o *Organisation) Populate(ctx context.Context, src ProfileSource, log zerolog.Logger) {
	for _, n := range o.Names {
		profile, err := src.AuthorProfile(ctx, n.Full)
		if err != nil {
			log.Warn().Err(err).Str("name", n.Full).Msg("profile lookup failed")
			continue
		}
		if profile.ID != "" {
			n.ScholarID = profile.ID
		}
		if profile.Affiliation != "" {
			n.Affiliation = profile.Affiliation
		}
		if profile.HIndex > 0 {
			h := profile.HIndex
			n.HIndex = &h
		}
	}
}

// GenderFor returns the stored gender of the member matching the candidate
// string, if any.
func (o *Organisation) GenderFor(candidate string) (gender.Verdict, bool) {
	n := o.Find(candidate)
	if n == nil {
		return gender.Unknown, false
	}
	return n.Gender, true
}
