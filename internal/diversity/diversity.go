// Package diversity computes gender diversity ratios over publication
// author lists.
package diversity

import (
	"errors"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/bib"
	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/gender"
)

// ErrInsufficientData indicates no record contributed a computable ratio.
var ErrInsufficientData = errors.New("no records with known-gender authors")

// Author-count bounds for the diversity analysis. Single-author papers carry
// no collaboration signal and very large consortia swamp the ratio.
const (
	MinAuthors = 2
	MaxAuthors = 20
)

// Stats summarises the ratios of a record collection.
type Stats struct {
	Mean  float64 `json:"mean"`
	Max   float64 `json:"max"`
	Min   float64 `json:"min"`
	Count int     `json:"count"`
}

// Ratio is the share of non-male authors among all authors of a record;
// authors with no confident verdict count in the denominator only. It
// reports false when no author has a confident verdict.
func Ratio(verdicts []gender.Verdict) (float64, bool) {
	female, male, nonBinary := gender.Count(verdicts)
	known := female + male + nonBinary
	if known == 0 {
		return 0, false
	}
	return float64(female+nonBinary) / float64(len(verdicts)), true
}

// Ratios computes one ratio per record, skipping records with no
// known-gender authors.
func Ratios(records []*bib.Record) []float64 {
	var out []float64
	for _, r := range records {
		if ratio, ok := Ratio(r.Genders); ok {
			out = append(out, ratio)
		}
	}
	return out
}

// Aggregate summarises the per-record ratios of a collection.
func Aggregate(records []*bib.Record) (Stats, error) {
	ratios := Ratios(records)
	if len(ratios) == 0 {
		return Stats{}, ErrInsufficientData
	}

	stats := Stats{Max: ratios[0], Min: ratios[0], Count: len(ratios)}
	var sum float64
	for _, r := range ratios {
		sum += r
		if r > stats.Max {
			stats.Max = r
		}
		if r < stats.Min {
			stats.Min = r
		}
	}
	stats.Mean = sum / float64(len(ratios))
	return stats, nil
}
