// internal/game/scoring.go
//
// Per-variant scoring rules. The round engine is variant-agnostic: it
// owns the state machine and delegates every score change to a Scoring
// value injected at construction.

package game

// Scoring converts round events into score changes for one variant.
type Scoring interface {
	// OnReveal returns the score delta awarded when the secret is
	// revealed after the given number of trials and hints.
	OnReveal(trials, hintsUsed int) int

	// OnHint returns the new running score after a hint is taken, and
	// whether a penalty was actually applied.
	OnHint(current int) (int, bool)
}

// BullsAndCowsScoring awards a flat bonus for revealing the secret and
// halves the running score on every hint.
type BullsAndCowsScoring struct{}

const revealBonus = 2000

// OnReveal always awards the flat bonus, regardless of trial count.
func (BullsAndCowsScoring) OnReveal(trials, hintsUsed int) int { return revealBonus }

// OnHint halves the running score (integer floor). There is no cap on
// repeated halving.
func (BullsAndCowsScoring) OnHint(current int) (int, bool) { return current / 2, true }

// ClassicScoring awards a bonus tiered by trial count, divided by the
// number of hints used plus one. Hints cost nothing at hint time; the
// penalty shows up at reveal.
type ClassicScoring struct{}

// OnReveal awards 100 points for a reveal within 2 trials, 50 within 5,
// 20 otherwise, then divides by (hintsUsed + 1) with integer floor.
func (ClassicScoring) OnReveal(trials, hintsUsed int) int {
	base := 20
	switch {
	case trials <= 2:
		base = 100
	case trials <= 5:
		base = 50
	}
	return base / (hintsUsed + 1)
}

// OnHint leaves the score unchanged; hints are charged at reveal time.
func (ClassicScoring) OnHint(current int) (int, bool) { return current, false }
