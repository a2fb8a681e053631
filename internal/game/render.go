// internal/game/render.go
//
// Textual status rendering for a game. The layout is the legacy format
// that player interfaces already parse:
//
//   Number of Trials = 3
//   Score = 50
//   [?, ?, ?, ?]
//
//   [B, R, Y, G]    1 2
//   [B, B, W, W]    2 0
//
// The secret is masked with "?" until revealed. Trials that repeat an
// earlier identical (guess, result) pair are suppressed.

package game

import (
	"fmt"
	"strings"
)

const eol = "\n"

// String renders the current round state in the legacy status format.
func (g *Game) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Number of Trials = %d%s", g.NumberOfTrials(), eol)
	fmt.Fprintf(&b, "Score = %d%s", g.score, eol)

	if g.revealed {
		b.WriteString(g.secret.String())
	} else {
		b.WriteString("[")
		for i := 0; i < g.size; i++ {
			b.WriteString("?")
			if i < g.size-1 {
				b.WriteString(", ")
			}
		}
		b.WriteString("]")
	}
	b.WriteString(eol)

	if len(g.trials) > 0 {
		b.WriteString("\n")
		first := true
		for i, trial := range g.trials {
			if g.isDuplicateTrial(i) {
				continue
			}
			if !first {
				b.WriteString(eol)
			}
			fmt.Fprintf(&b, "%s    %d %d", trial, g.results[i].Exact, g.results[i].Misplaced)
			first = false
		}
	}

	b.WriteString(eol)
	return b.String()
}

// isDuplicateTrial reports whether trial i repeats an earlier trial with
// an identical guess and identical result.
func (g *Game) isDuplicateTrial(i int) bool {
	for j := 0; j < i; j++ {
		if g.trials[j].Equals(g.trials[i]) &&
			g.results[j].Exact == g.results[i].Exact &&
			g.results[j].Misplaced == g.results[i].Misplaced {
			return true
		}
	}
	return false
}
