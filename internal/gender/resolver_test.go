package gender

import (
	"context"
	"errors"
	"testing"
)

type fakeGuesser struct {
	verdict Verdict
	err     error
	calls   int
}

func (g *fakeGuesser) Guess(ctx context.Context, firstName string) (Verdict, error) {
	g.calls++
	return g.verdict, g.err
}

type fakeConfirmer struct {
	verdict Verdict
	calls   int
}

func (c *fakeConfirmer) ConfirmGender(fullName string) (Verdict, error) {
	c.calls++
	return c.verdict, nil
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("confident verdict skips confirmation", func(t *testing.T) {
		guesser := &fakeGuesser{verdict: Female}
		confirmer := &fakeConfirmer{verdict: Male}
		r := NewResolver(guesser, confirmer)

		got, err := r.Resolve(ctx, "Jane", "Jane Doe")
		if err != nil {
			t.Fatal(err)
		}
		if got != Female {
			t.Errorf("Resolve = %v, want female", got)
		}
		if confirmer.calls != 0 {
			t.Errorf("confirmer called %d times, want 0", confirmer.calls)
		}
	})

	t.Run("ambiguous verdict escalates to confirmer", func(t *testing.T) {
		guesser := &fakeGuesser{verdict: MostlyMale}
		confirmer := &fakeConfirmer{verdict: NonBinary}
		r := NewResolver(guesser, confirmer)

		got, err := r.Resolve(ctx, "Robin", "Robin Doe")
		if err != nil {
			t.Fatal(err)
		}
		if got != NonBinary {
			t.Errorf("Resolve = %v, want non-binary from confirmer", got)
		}
		if confirmer.calls != 1 {
			t.Errorf("confirmer called %d times, want 1", confirmer.calls)
		}
	})

	t.Run("ambiguous verdict without confirmer is unknown", func(t *testing.T) {
		r := NewResolver(&fakeGuesser{verdict: Andy}, nil)

		got, err := r.Resolve(ctx, "Robin", "Robin Doe")
		if err != nil {
			t.Fatal(err)
		}
		if got != Unknown {
			t.Errorf("Resolve = %v, want unknown", got)
		}
	})

	t.Run("heuristic failure is non-fatal", func(t *testing.T) {
		guesser := &fakeGuesser{err: errors.New("network down")}
		r := NewResolver(guesser, nil)

		got, err := r.Resolve(ctx, "Jane", "Jane Doe")
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if got != Unknown {
			t.Errorf("Resolve = %v, want unknown after heuristic failure", got)
		}
	})

	t.Run("empty first name skips heuristic", func(t *testing.T) {
		guesser := &fakeGuesser{verdict: Female}
		r := NewResolver(guesser, nil)

		got, err := r.Resolve(ctx, "", "Doe")
		if err != nil {
			t.Fatal(err)
		}
		if got != Unknown {
			t.Errorf("Resolve = %v, want unknown", got)
		}
		if guesser.calls != 0 {
			t.Errorf("guesser called %d times, want 0", guesser.calls)
		}
	})
}
