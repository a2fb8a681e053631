// internal/game/round.go
//
// Round engine for a single game session.
// Responsibilities:
//   - Own the hidden code, the trial history and the running score.
//   - Apply guesses and track the reveal/exhaustion transitions.
//   - Serve hints and the best-trial heuristic.
//   - Delegate all scoring to the injected Scoring strategy.
//
// One Game is live per session and is mutated in place by sequential
// calls; the engine itself is not safe for concurrent use. The random
// source is seeded at construction and reused across rounds, so a fixed
// seed replays an identical session.

package game

import "math/rand"

// MaxTrials is the trial limit after which a round is exhausted.
const MaxTrials = 25

// Game is the round engine bound to one variant.
type Game struct {
	rng      *rand.Rand
	size     int
	domain   Domain
	evaluate EvalFunc
	scoring  Scoring

	secret    Code
	trials    []Code
	results   []Result
	score     int
	revealed  bool
	hintsUsed int
}

// NewBullsAndCows constructs a Bulls and Cows game: binary colours,
// multiset evaluation, flat reveal bonus with score-halving hints.
func NewBullsAndCows(seed int64, size int) *Game {
	return newGame(seed, size, Binary, EvaluateMultiset, BullsAndCowsScoring{})
}

// NewMastermind constructs a classic Mastermind game: six colours,
// greedy evaluation, tiered reveal bonus divided by hints used.
func NewMastermind(seed int64, size int) *Game {
	return newGame(seed, size, Multi, EvaluateClassic, ClassicScoring{})
}

func newGame(seed int64, size int, d Domain, eval EvalFunc, s Scoring) *Game {
	g := &Game{
		rng:      rand.New(rand.NewSource(seed)),
		size:     size,
		domain:   d,
		evaluate: eval,
		scoring:  s,
	}
	g.StartNewRound()
	return g
}

// Size returns the code length of this game.
func (g *Game) Size() int { return g.size }

// Domain returns the colour domain of this game.
func (g *Game) Domain() Domain { return g.domain }

// Score returns the running score. It accumulates across rounds.
func (g *Game) Score() int { return g.score }

// NumberOfTrials returns how many trials the current round has seen.
func (g *Game) NumberOfTrials() int { return len(g.trials) }

// WasSecretRevealed reports whether the current round's secret was found.
func (g *Game) WasSecretRevealed() bool { return g.revealed }

// IsRoundFinished reports whether the round is over, either by reveal
// or by exhausting MaxTrials. A round with no trials is never finished.
func (g *Game) IsRoundFinished() bool {
	if len(g.trials) == 0 {
		return false
	}
	return g.revealed || len(g.trials) >= MaxTrials
}

// Play evaluates a guess against the secret and records the trial.
// Calling Play on a finished round is a silent no-op. When the guess
// matches the secret exactly, the round transitions to revealed and the
// scoring strategy's reveal bonus is applied exactly once. Exhaustion
// leaves the score untouched.
func (g *Game) Play(guess Code) {
	if g.IsRoundFinished() {
		return
	}
	res := g.evaluate(g.secret, guess)
	g.trials = append(g.trials, guess.Clone())
	g.results = append(g.results, res)

	if res.Exact == g.size {
		g.revealed = true
		g.score += g.scoring.OnReveal(len(g.trials), g.hintsUsed)
	}
}

// Hint discloses one colour of the secret, drawn uniformly with
// replacement, charging whatever penalty the variant defines. Hints are
// allowed in any round state, finished rounds included.
func (g *Game) Hint() Colour {
	g.score, _ = g.scoring.OnHint(g.score)
	g.hintsUsed++
	return g.secret.At(g.rng.Intn(g.secret.Len()))
}

// HintsUsed returns how many hints the current round has consumed.
func (g *Game) HintsUsed() int { return g.hintsUsed }

// LastResult returns the score of the most recent trial. The second
// result is false when the round has no trials yet.
func (g *Game) LastResult() (Result, bool) {
	if len(g.results) == 0 {
		return Result{}, false
	}
	return g.results[len(g.results)-1], true
}

// BestTrial returns the strongest trial of the round: most exact
// matches, then most misplaced matches. The history is scanned from the
// most recent trial backwards and only a strictly better result
// replaces the candidate, so among ties the most recent trial wins.
// The second result is false when no trials exist.
func (g *Game) BestTrial() (Code, bool) {
	if len(g.trials) == 0 {
		return Code{}, false
	}
	bestIdx := len(g.trials) - 1
	best := g.results[bestIdx]
	for i := len(g.results) - 2; i >= 0; i-- {
		r := g.results[i]
		if r.Exact > best.Exact || (r.Exact == best.Exact && r.Misplaced > best.Misplaced) {
			best = r
			bestIdx = i
		}
	}
	return g.trials[bestIdx].Clone(), true
}

// StartNewRound draws a fresh secret, clears the trial history and
// resets the per-round flags. The running score carries over.
func (g *Game) StartNewRound() {
	g.secret = g.drawSecret()
	g.trials = g.trials[:0]
	g.results = g.results[:0]
	g.revealed = false
	g.hintsUsed = 0
}

// drawSecret picks one colour per position, uniformly and independently.
func (g *Game) drawSecret() Code {
	palette := g.domain.Colours()
	cs := make([]Colour, g.size)
	for i := range cs {
		cs[i] = palette[g.rng.Intn(len(palette))]
	}
	return NewCode(cs)
}

// setSecret replaces the hidden code. Test hook.
func (g *Game) setSecret(c Code) {
	g.secret = c.Clone()
}
