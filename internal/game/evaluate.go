// internal/game/evaluate.go
//
// Guess evaluation for both variants.
// Responsibilities:
//   - Score a guess against the hidden code as (exact, misplaced).
//   - EvaluateClassic: classic Mastermind greedy pairing.
//   - EvaluateMultiset: Bulls and Cows per-label multiset counting.
//
// The two algorithms share the exact-match pass but resolve the
// remaining positions differently. They are deliberately kept separate:
// the greedy first-available pairing of the classic rules and the
// min-of-counts rule of Bulls and Cows are distinct game rules, not two
// implementations of one rule.

package game

import "fmt"

// Result is the two-part score of a single trial.
type Result struct {
	// Exact counts positions where guess and secret carry the same label.
	Exact int
	// Misplaced counts additional label agreements reachable at other
	// positions, once exact matches are removed from consideration.
	Misplaced int
}

// EvalFunc scores a guess against the hidden code.
// Both codes must have the same length; a mismatch is a caller bug and
// panics rather than returning a recoverable error.
type EvalFunc func(hidden, guess Code) Result

// checkLengths enforces the shared evaluator precondition.
func checkLengths(hidden, guess Code) {
	if hidden.Len() != guess.Len() {
		panic(fmt.Sprintf("game: compare length mismatch: hidden=%d guess=%d", hidden.Len(), guess.Len()))
	}
}

// EvaluateClassic scores a guess under classic Mastermind rules.
//
// Pass 1: positions with equal labels count as Exact and are consumed.
//
// Pass 2: each remaining guess colour scans the remaining secret
// positions left to right and consumes the first label match it finds.
// The pairing is greedy with no backtracking; consumption order is part
// of the rules and must not be "improved".
func EvaluateClassic(hidden, guess Code) Result {
	checkLengths(hidden, guess)
	n := hidden.Len()
	var res Result

	usedHidden := make([]bool, n)
	usedGuess := make([]bool, n)

	for i := 0; i < n; i++ {
		if guess.At(i).Label() == hidden.At(i).Label() {
			res.Exact++
			usedHidden[i] = true
			usedGuess[i] = true
		}
	}

	for i := 0; i < n; i++ {
		if usedGuess[i] {
			continue
		}
		for j := 0; j < n; j++ {
			if usedHidden[j] {
				continue
			}
			if guess.At(i).Label() == hidden.At(j).Label() {
				res.Misplaced++
				usedHidden[j] = true
				break
			}
		}
	}
	return res
}

// EvaluateMultiset scores a guess under Bulls and Cows rules.
//
// The exact pass is the same as the classic evaluator. The remaining
// positions are then tallied per label for secret and guess separately,
// and Misplaced is the per-label minimum of the two tallies, summed.
// This is the optimal bipartite matching by label.
func EvaluateMultiset(hidden, guess Code) Result {
	checkLengths(hidden, guess)
	n := hidden.Len()
	var res Result

	hiddenCount := make(map[string]int)
	guessCount := make(map[string]int)

	for i := 0; i < n; i++ {
		hl, gl := hidden.At(i).Label(), guess.At(i).Label()
		if hl == gl {
			res.Exact++
			continue
		}
		hiddenCount[hl]++
		guessCount[gl]++
	}

	for label, hc := range hiddenCount {
		if gc := guessCount[label]; gc < hc {
			res.Misplaced += gc
		} else {
			res.Misplaced += hc
		}
	}
	return res
}
