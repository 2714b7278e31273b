package gender

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	return c, srv
}

func TestGuessMapping(t *testing.T) {
	tests := []struct {
		name        string
		gender      string
		probability float64
		count       int
		want        Verdict
	}{
		{"confident female", "female", 0.99, 10000, Female},
		{"confident male", "male", 0.95, 5000, Male},
		{"leaning female", "female", 0.8, 300, MostlyFemale},
		{"leaning male", "male", 0.61, 120, MostlyMale},
		{"androgynous", "male", 0.51, 90, Andy},
		{"never seen", "", 0.0, 0, Unknown},
		{"zero count", "female", 0.99, 0, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("name"); got != "Robin" {
					t.Errorf("query name = %q, want Robin", got)
				}
				genderJSON := "null"
				if tt.gender != "" {
					genderJSON = fmt.Sprintf("%q", tt.gender)
				}
				fmt.Fprintf(w, `{"name":"Robin","gender":%s,"probability":%g,"count":%d}`,
					genderJSON, tt.probability, tt.count)
			})
			defer srv.Close()

			got, err := c.Guess(context.Background(), "Robin")
			if err != nil {
				t.Fatalf("Guess error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Guess = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGuessEmptyName(t *testing.T) {
	c := NewClient()
	got, err := c.Guess(context.Background(), "")
	if err != nil {
		t.Fatalf("Guess error: %v", err)
	}
	if got != Unknown {
		t.Errorf("Guess(\"\") = %v, want Unknown", got)
	}
}

func TestGuessRateLimited(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer srv.Close()

	_, err := c.Guess(context.Background(), "Jane")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("error = %v, want ErrRateLimited", err)
	}
}

func TestGuessMalformedPayload(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json")
	})
	defer srv.Close()

	_, err := c.Guess(context.Background(), "Jane")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("error = %v, want ErrInvalidResponse", err)
	}
}

func TestCount(t *testing.T) {
	f, m, nb := Count([]Verdict{Female, Male, Female, NonBinary, Unknown, MostlyMale})
	if f != 2 || m != 1 || nb != 1 {
		t.Errorf("Count = %d/%d/%d, want 2/1/1", f, m, nb)
	}
}
