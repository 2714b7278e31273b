// Package gender classifies author gender from first names, escalating
// ambiguous verdicts to a human confirmation callback.
package gender

import "context"

// Verdict is a gender classification for a first name.
type Verdict string

// Confident verdicts are final; everything else needs human confirmation.
const (
	Female    Verdict = "female"
	Male      Verdict = "male"
	NonBinary Verdict = "non-binary"

	// Ambiguous verdicts from the heuristic.
	MostlyFemale Verdict = "mostly_female"
	MostlyMale   Verdict = "mostly_male"
	Andy         Verdict = "andy" // androgynous
	Unknown      Verdict = "unknown"
)

// Confident reports whether the verdict is final and needs no confirmation.
func (v Verdict) Confident() bool {
	return v == Female || v == Male || v == NonBinary
}

// Count tallies confident verdicts in a list.
func Count(verdicts []Verdict) (female, male, nonbinary int) {
	for _, v := range verdicts {
		switch v {
		case Female:
			female++
		case Male:
			male++
		case NonBinary:
			nonbinary++
		}
	}
	return female, male, nonbinary
}

// Guesser classifies a first name. Implemented by the Genderize client.
type Guesser interface {
	Guess(ctx context.Context, firstName string) (Verdict, error)
}

// Confirmer resolves an ambiguous verdict by asking a human.
// Implementations return Female, Male, NonBinary, or Unknown when the
// reviewer cannot say.
type Confirmer interface {
	ConfirmGender(fullName string) (Verdict, error)
}
