package crossref

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const worksPayload = `{
  "message": {
    "items": [
      {
        "DOI": "10.1234/abc",
        "title": ["Glacier Mass Balance"],
        "container-title": ["The Cryosphere"],
        "type": "journal-article",
        "author": [
          {"given": "Jane", "family": "Doe"},
          {"given": "John", "family": "Smith"}
        ],
        "created": {"date-parts": [[2021, 3, 15]]},
        "is-referenced-by-count": 12
      },
      {
        "DOI": "10.1234/other",
        "title": ["Unrelated Work"],
        "author": [{"given": "Someone", "family": "Else"}],
        "created": {"date-parts": [[2020]]},
        "is-referenced-by-count": 0
      }
    ]
  }
}`

func testServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL))
}

func TestSearchAuthor(t *testing.T) {
	var gotQuery string
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query.author")
		w.Write([]byte(worksPayload))
	})

	hits, err := c.SearchAuthor(context.Background(), "Jane Doe")
	if err != nil {
		t.Fatal(err)
	}
	if gotQuery != "Jane Doe" {
		t.Errorf("query.author = %q", gotQuery)
	}

	// The loosely matched second item is filtered out.
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}

	hit := hits[0]
	if hit.DOI != "10.1234/abc" || hit.Title != "Glacier Mass Balance" {
		t.Errorf("hit = %+v", hit)
	}
	if hit.Venue != "The Cryosphere" || hit.Type != "journal-article" {
		t.Errorf("venue/type = %q/%q", hit.Venue, hit.Type)
	}
	if len(hit.Authors) != 2 || hit.Authors[0] != "Jane Doe" {
		t.Errorf("authors = %v", hit.Authors)
	}
	want := time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)
	if !hit.Date.Equal(want) {
		t.Errorf("date = %v, want %v", hit.Date, want)
	}
	if hit.Citations == nil || *hit.Citations != 12 {
		t.Errorf("citations = %v, want 12", hit.Citations)
	}
}

func TestSearchAuthorMatchIsCaseInsensitive(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(worksPayload))
	})

	hits, err := c.SearchAuthor(context.Background(), "jane doe")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Errorf("got %d hits, want 1", len(hits))
	}
}

func TestDOIForTitle(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(worksPayload))
	})
	ctx := context.Background()

	t.Run("exact match", func(t *testing.T) {
		doi, err := c.DOIForTitle(ctx, "glacier mass balance")
		if err != nil {
			t.Fatal(err)
		}
		if doi != "10.1234/abc" {
			t.Errorf("doi = %q", doi)
		}
	})

	t.Run("truncated title still matches", func(t *testing.T) {
		doi, err := c.DOIForTitle(ctx, "Glacier Mass Balance…")
		if err != nil {
			t.Fatal(err)
		}
		if doi != "10.1234/abc" {
			t.Errorf("doi = %q", doi)
		}
	})

	t.Run("no exact match", func(t *testing.T) {
		_, err := c.DOIForTitle(ctx, "Glacier Mass")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestStatusHandling(t *testing.T) {
	t.Run("rate limited", func(t *testing.T) {
		c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
		_, err := c.SearchAuthor(context.Background(), "Jane Doe")
		if !errors.Is(err, ErrRateLimited) {
			t.Errorf("error = %v, want ErrRateLimited", err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		_, err := c.SearchAuthor(context.Background(), "Jane Doe")
		if !errors.Is(err, ErrInvalidResponse) {
			t.Errorf("error = %v, want ErrInvalidResponse", err)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		})
		_, err := c.SearchAuthor(context.Background(), "Jane Doe")
		if !errors.Is(err, ErrInvalidResponse) {
			t.Errorf("error = %v, want ErrInvalidResponse", err)
		}
	})
}

func TestMailtoForwarded(t *testing.T) {
	var gotMailto string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMailto = r.URL.Query().Get("mailto")
		w.Write([]byte(`{"message":{"items":[]}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithMailto("team@example.org"))
	if _, err := c.SearchAuthor(context.Background(), "Jane Doe"); err != nil {
		t.Fatal(err)
	}
	if gotMailto != "team@example.org" {
		t.Errorf("mailto = %q", gotMailto)
	}
}

func TestFromDateParts(t *testing.T) {
	tests := []struct {
		parts []int
		want  time.Time
	}{
		{[]int{2021, 3, 15}, time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)},
		{[]int{2020}, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{[]int{2020, 6}, time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)},
		{nil, time.Time{}},
	}
	for _, tt := range tests {
		if got := fromDateParts(tt.parts); !got.Equal(tt.want) {
			t.Errorf("fromDateParts(%v) = %v, want %v", tt.parts, got, tt.want)
		}
	}
}
