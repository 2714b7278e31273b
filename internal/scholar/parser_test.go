package scholar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const profileHTML = `<html><body>
<div id="gsc_prf_in">Jane Doe</div>
<div class="gsc_prf_il">GEUS, Copenhagen</div>
<table id="gsc_rsb_st">
  <tr><td>Citations</td><td>1200</td><td>800</td></tr>
  <tr><td>h-index</td><td>18</td><td>14</td></tr>
  <tr><td>i10-index</td><td>25</td><td>20</td></tr>
</table>
<table>
  <tr class="gsc_a_tr">
    <td><a class="gsc_a_at">Glacier Mass Balance</a>
      <div class="gs_gray">J Doe, J Smith, ...</div>
      <div class="gs_gray">The Cryosphere 15 (3), 100-120</div>
    </td>
    <td class="gsc_a_c"><a class="gsc_a_ac">42</a></td>
    <td class="gsc_a_y"><span>2021</span></td>
  </tr>
  <tr class="gsc_a_tr">
    <td><a class="gsc_a_at">Unreviewed Report</a>
      <div class="gs_gray">J Doe</div>
      <div class="gs_gray"></div>
    </td>
    <td class="gsc_a_c"><a class="gsc_a_ac"></a></td>
    <td class="gsc_a_y"><span></span></td>
  </tr>
</table>
</body></html>`

const searchHTML = `<html><body>
<div class="gs_ai_name"><a href="/citations?hl=en&user=AbC123xyz&view_op=list_works">Jane Doe</a></div>
<div class="gs_ai_name"><a href="/citations?user=Second456">Jane Doerr</a></div>
</body></html>`

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestParseProfile(t *testing.T) {
	p := parseProfile(docFrom(t, profileHTML))

	if p.Affiliation != "GEUS, Copenhagen" {
		t.Errorf("affiliation = %q", p.Affiliation)
	}
	if p.HIndex != 18 {
		t.Errorf("h-index = %d, want 18", p.HIndex)
	}
}

func TestParsePublications(t *testing.T) {
	hits := parsePublications(docFrom(t, profileHTML))
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}

	first := hits[0]
	if first.Title != "Glacier Mass Balance" {
		t.Errorf("title = %q", first.Title)
	}
	if len(first.Authors) != 2 || first.Authors[0] != "J Doe" || first.Authors[1] != "J Smith" {
		t.Errorf("authors = %v, ellipsis marker should be dropped", first.Authors)
	}
	if first.Venue != "The Cryosphere 15 (3), 100-120" {
		t.Errorf("venue = %q", first.Venue)
	}
	if first.Citations == nil || *first.Citations != 42 {
		t.Errorf("citations = %v, want 42", first.Citations)
	}
	want := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	if !first.Date.Equal(want) {
		t.Errorf("date = %v, want %v", first.Date, want)
	}

	second := hits[1]
	if second.Citations != nil || !second.Date.IsZero() {
		t.Errorf("sparse row should have nil citations and zero date: %+v", second)
	}
}

func TestParseSearchResult(t *testing.T) {
	if id := parseSearchResult(docFrom(t, searchHTML)); id != "AbC123xyz" {
		t.Errorf("id = %q, want first result", id)
	}
	if id := parseSearchResult(docFrom(t, "<html><body></body></html>")); id != "" {
		t.Errorf("id = %q, want empty for no results", id)
	}
}

func TestUserParam(t *testing.T) {
	tests := []struct {
		href, want string
	}{
		{"/citations?user=AbC123", "AbC123"},
		{"/citations?hl=en&user=AbC123&foo=bar", "AbC123"},
		{"/citations?hl=en", ""},
	}
	for _, tt := range tests {
		if got := userParam(tt.href); got != tt.want {
			t.Errorf("userParam(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestAuthorProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("view_op") == "search_authors" {
			w.Write([]byte(searchHTML))
			return
		}
		w.Write([]byte(profileHTML))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	p, err := c.AuthorProfile(context.Background(), "Jane Doe")
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != "AbC123xyz" || p.HIndex != 18 {
		t.Errorf("profile = %+v", p)
	}
}

func TestBlockedProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	if _, err := c.Publications(context.Background(), "AbC123"); !errors.Is(err, ErrBlocked) {
		t.Errorf("error = %v, want ErrBlocked", err)
	}
}
