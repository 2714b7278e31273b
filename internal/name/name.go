// Package name models author identities with derivable name forms.
//
// Every author renders to four deterministic forms (full name, all initials,
// single initial, first name with initialed middle) and membership or
// authorship matching tests a candidate string against all four.
package name

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/GEUS-Glaciology-and-Climate/biblyser/internal/gender"
)

// ErrInvalidName indicates malformed name input at construction.
var ErrInvalidName = errors.New("invalid name input")

// Name is a normalized author identity.
type Name struct {
	First  string `json:"first,omitempty"`
	Middle string `json:"middle,omitempty"`
	Last   string `json:"last"`
	Full   string `json:"full"` // preserves the original input spacing

	Title  string         `json:"title,omitempty"`
	Gender gender.Verdict `json:"gender,omitempty"`

	ORCID     string `json:"orcid,omitempty"`
	ScholarID string `json:"scholar_id,omitempty"`
	ScopusID  string `json:"scopus_id,omitempty"`

	HIndex      *int   `json:"h_index,omitempty"`
	Affiliation string `json:"affiliation,omitempty"`
	Country     string `json:"country,omitempty"`
}

// New creates a Name from a full-name string using whitespace tokenization:
// one token is a bare last name, two tokens are first/last, three or more put
// the interior tokens in the middle name.
func New(full string) (*Name, error) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidName)
	}

	n := &Name{Full: full}
	switch len(parts) {
	case 1:
		n.Last = parts[0]
	case 2:
		n.First = parts[0]
		n.Last = parts[1]
	default:
		n.First = parts[0]
		n.Middle = strings.Join(parts[1:len(parts)-1], " ")
		n.Last = parts[len(parts)-1]
	}
	return n, nil
}

// FromParts creates a Name from ordered name parts: first+last, or
// first+middle+last. Any other length is rejected.
func FromParts(parts []string) (*Name, error) {
	switch len(parts) {
	case 2:
		return &Name{First: parts[0], Last: parts[1], Full: parts[0] + " " + parts[1]}, nil
	case 3:
		return &Name{
			First:  parts[0],
			Middle: parts[1],
			Last:   parts[2],
			Full:   parts[0] + " " + parts[1] + " " + parts[2],
		}, nil
	default:
		return nil, fmt.Errorf("%w: expected 2 or 3 name parts, got %d", ErrInvalidName, len(parts))
	}
}

// initial renders one name token as "X. ". The first letter is taken as a
// rune, not a byte, so accented names keep a valid initial.
func initial(token string) string {
	r, _ := utf8.DecodeRuneInString(token)
	return string(r) + ". "
}

// middleInitials renders every middle-name token as an initial, e.g.
// "Emily Rose" becomes "E. R. ".
func (n *Name) middleInitials() string {
	var b strings.Builder
	for _, part := range strings.Fields(n.Middle) {
		b.WriteString(initial(part))
	}
	return b.String()
}

// FullInitials renders "Jane Emily Doe" as "J. E. Doe".
func (n *Name) FullInitials() string {
	if n.First == "" {
		return n.Full
	}
	if n.Middle == "" {
		return n.SingleInitials()
	}
	return initial(n.First) + n.middleInitials() + n.Last
}

// SingleInitials renders "Jane Emily Doe" as "J. Doe".
func (n *Name) SingleInitials() string {
	if n.First == "" {
		return n.Full
	}
	return initial(n.First) + n.Last
}

// FirstWithInitials renders "Jane Emily Doe" as "Jane E. Doe".
func (n *Name) FirstWithInitials() string {
	if n.First == "" {
		return n.Full
	}
	if n.Middle == "" {
		return n.First + " " + n.Last
	}
	return n.First + " " + n.middleInitials() + n.Last
}

// AllFormats returns the four renderable name forms in a fixed order:
// full name, all initials, single initial, first name with initialed middle.
func (n *Name) AllFormats() []string {
	return []string{n.Full, n.FullInitials(), n.SingleInitials(), n.FirstWithInitials()}
}

// sameName is the single comparison point for name-form matching.
// Deliberately exact: no case folding or unicode normalization is applied.
// Loosening the policy means changing this one function.
func sameName(a, b string) bool {
	return a == b
}

// Matches reports whether the candidate equals any of the four name forms.
func (n *Name) Matches(candidate string) bool {
	for _, f := range n.AllFormats() {
		if sameName(candidate, f) {
			return true
		}
	}
	return false
}

// ResolveGender returns the stored gender if already confident, otherwise
// runs the resolver and caches the result on the Name.
func (n *Name) ResolveGender(ctx context.Context, r *gender.Resolver) (gender.Verdict, error) {
	if n.Gender.Confident() {
		return n.Gender, nil
	}
	v, err := r.Resolve(ctx, n.First, n.Full)
	if err != nil {
		return gender.Unknown, err
	}
	n.Gender = v
	return v, nil
}
