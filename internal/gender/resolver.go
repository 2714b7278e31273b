package gender

import (
	"context"

	"github.com/rs/zerolog"
)

// Resolver implements the gender escalation policy: heuristic first, human
// confirmation for ambiguous verdicts. Heuristic failures are non-fatal and
// resolve to Unknown.
type Resolver struct {
	Guesser   Guesser
	Confirmer Confirmer // optional; ambiguous verdicts stay Unknown without it
	Log       zerolog.Logger
}

// NewResolver creates a Resolver with a no-op logger.
func NewResolver(g Guesser, c Confirmer) *Resolver {
	return &Resolver{Guesser: g, Confirmer: c, Log: zerolog.Nop()}
}

// Resolve classifies one author. The first name drives the heuristic; the
// full name is what a human is shown when asked to confirm.
func (r *Resolver) Resolve(ctx context.Context, firstName, fullName string) (Verdict, error) {
	verdict := Unknown
	if r.Guesser != nil && firstName != "" {
		v, err := r.Guesser.Guess(ctx, firstName)
		if err != nil {
			r.Log.Warn().Err(err).Str("name", fullName).Msg("gender heuristic failed")
		} else {
			verdict = v
		}
	}

	if verdict.Confident() {
		return verdict, nil
	}

	if r.Confirmer != nil {
		confirmed, err := r.Confirmer.ConfirmGender(fullName)
		if err != nil {
			return Unknown, err
		}
		return confirmed, nil
	}

	return Unknown, nil
}
