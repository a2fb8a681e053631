package game

import "testing"

// fixedGame returns a Mastermind game with a known secret.
func fixedGame(t *testing.T, labels ...string) *Game {
	t.Helper()
	g := NewMastermind(42, len(labels))
	g.setSecret(mustCode(t, Multi, labels...))
	return g
}

func TestNewGame_StartsClean(t *testing.T) {
	g := NewBullsAndCows(7, 4)
	if g.NumberOfTrials() != 0 {
		t.Fatalf("trials = %d, want 0", g.NumberOfTrials())
	}
	if g.WasSecretRevealed() {
		t.Fatal("new game already revealed")
	}
	if g.IsRoundFinished() {
		t.Fatal("round with no trials reported finished")
	}
	if g.Score() != 0 {
		t.Fatalf("score = %d, want 0", g.Score())
	}
}

func TestGame_SeededSecretIsReproducible(t *testing.T) {
	a := NewMastermind(1234, 4)
	b := NewMastermind(1234, 4)
	if !a.secret.Equals(b.secret) {
		t.Fatalf("same seed drew different secrets: %s vs %s", a.secret, b.secret)
	}
	a.StartNewRound()
	b.StartNewRound()
	if !a.secret.Equals(b.secret) {
		t.Fatalf("replay diverged on second round: %s vs %s", a.secret, b.secret)
	}
}

func TestPlay_RevealFinishesRound(t *testing.T) {
	g := fixedGame(t, "B", "R", "Y", "G")
	g.Play(mustCode(t, Multi, "B", "R", "Y", "G"))

	if !g.WasSecretRevealed() {
		t.Fatal("exact guess did not reveal")
	}
	if !g.IsRoundFinished() {
		t.Fatal("revealed round not finished")
	}
	if g.Score() != 100 {
		t.Fatalf("score = %d, want 100 (reveal within 2 trials, no hints)", g.Score())
	}
}

func TestPlay_AfterFinishedIsNoOp(t *testing.T) {
	g := fixedGame(t, "B", "R", "Y", "G")
	g.Play(mustCode(t, Multi, "B", "R", "Y", "G"))

	before := g.NumberOfTrials()
	g.Play(mustCode(t, Multi, "O", "O", "O", "O"))
	if g.NumberOfTrials() != before {
		t.Fatalf("trials changed after finish: %d -> %d", before, g.NumberOfTrials())
	}
	if g.Score() != 100 {
		t.Fatalf("score changed after finish: %d", g.Score())
	}
}

func TestPlay_ExhaustionDoesNotScore(t *testing.T) {
	g := fixedGame(t, "B", "R", "Y", "G")
	wrong := mustCode(t, Multi, "O", "O", "O", "O")
	for i := 0; i < MaxTrials+5; i++ {
		g.Play(wrong)
	}
	if g.NumberOfTrials() != MaxTrials {
		t.Fatalf("trials = %d, want %d", g.NumberOfTrials(), MaxTrials)
	}
	if !g.IsRoundFinished() {
		t.Fatal("exhausted round not finished")
	}
	if g.WasSecretRevealed() {
		t.Fatal("exhausted round reported revealed")
	}
	if g.Score() != 0 {
		t.Fatalf("exhaustion changed score: %d", g.Score())
	}
}

func TestStartNewRound_ResetsRoundStateKeepsScore(t *testing.T) {
	g := fixedGame(t, "B", "R", "Y", "G")
	g.Hint()
	g.Play(mustCode(t, Multi, "B", "R", "Y", "G"))
	scored := g.Score()
	if scored != 50 {
		t.Fatalf("score = %d, want 50 (100 / (1 hint + 1))", scored)
	}

	g.StartNewRound()
	if g.NumberOfTrials() != 0 || g.WasSecretRevealed() || g.HintsUsed() != 0 {
		t.Fatal("round state not reset")
	}
	if g.Score() != scored {
		t.Fatalf("score reset across rounds: %d -> %d", scored, g.Score())
	}
	if _, ok := g.BestTrial(); ok {
		t.Fatal("best trial survived round reset")
	}
}

func TestClassicScoring_Tiers(t *testing.T) {
	cases := []struct {
		trials, hints int
		want          int
	}{
		{1, 0, 100},
		{2, 0, 100},
		{3, 0, 50},
		{5, 0, 50},
		{6, 0, 20},
		{25, 0, 20},
		{2, 1, 50},
		{2, 3, 25},
		{6, 2, 6},
	}
	var s ClassicScoring
	for _, tc := range cases {
		if got := s.OnReveal(tc.trials, tc.hints); got != tc.want {
			t.Errorf("OnReveal(%d, %d) = %d, want %d", tc.trials, tc.hints, got, tc.want)
		}
	}
}

func TestBullsAndCows_RevealBonusAndHintHalving(t *testing.T) {
	g := NewBullsAndCows(99, 4)
	g.setSecret(mustCode(t, Binary, "B", "W", "B", "W"))

	g.Play(mustCode(t, Binary, "W", "B", "W", "B"))
	g.Play(mustCode(t, Binary, "B", "B", "W", "W"))
	g.Play(mustCode(t, Binary, "B", "W", "B", "W"))
	if !g.WasSecretRevealed() {
		t.Fatal("exact guess did not reveal")
	}
	if g.Score() != 2000 {
		t.Fatalf("score = %d, want 2000 regardless of trial count", g.Score())
	}

	g.Hint()
	if g.Score() != 1000 {
		t.Fatalf("score after hint = %d, want 1000", g.Score())
	}
	g.Hint()
	g.Hint()
	if g.Score() != 250 {
		t.Fatalf("score after three hints = %d, want 250", g.Score())
	}
}

func TestHint_DrawsFromSecret(t *testing.T) {
	g := fixedGame(t, "B", "R", "Y", "G")
	inSecret := map[string]bool{"B": true, "R": true, "Y": true, "G": true}
	for i := 0; i < 50; i++ {
		c := g.Hint()
		if !inSecret[c.Label()] {
			t.Fatalf("hint %q not in secret", c.Label())
		}
	}
	if g.HintsUsed() != 50 {
		t.Fatalf("hintsUsed = %d, want 50", g.HintsUsed())
	}
}

func TestBestTrial_EmptyHistory(t *testing.T) {
	g := NewMastermind(3, 4)
	if _, ok := g.BestTrial(); ok {
		t.Fatal("best trial reported for empty history")
	}
}

func TestBestTrial_TiesKeepMostRecent(t *testing.T) {
	// Results (1,2), (3,0), (3,0): the backward scan starts at the most
	// recent trial and only replaces on strict improvement, so the last
	// (3,0) wins.
	g := fixedGame(t, "B", "R", "Y", "G")
	g.Play(mustCode(t, Multi, "B", "Y", "G", "O")) // 1 exact, 2 misplaced
	g.Play(mustCode(t, Multi, "B", "R", "Y", "P")) // 3 exact, 0 misplaced
	g.Play(mustCode(t, Multi, "B", "R", "Y", "O")) // 3 exact, 0 misplaced

	best, ok := g.BestTrial()
	if !ok {
		t.Fatal("no best trial")
	}
	want := mustCode(t, Multi, "B", "R", "Y", "O")
	if !best.Equals(want) {
		t.Fatalf("best = %s, want %s (most recent among ties)", best, want)
	}
}

func TestBestTrial_PrefersMoreExactThenMisplaced(t *testing.T) {
	g := fixedGame(t, "B", "R", "Y", "G")
	g.Play(mustCode(t, Multi, "B", "R", "Y", "P")) // 3 exact
	g.Play(mustCode(t, Multi, "O", "O", "O", "O")) // 0 0
	g.Play(mustCode(t, Multi, "R", "B", "G", "Y")) // 0 exact, 4 misplaced

	best, ok := g.BestTrial()
	if !ok {
		t.Fatal("no best trial")
	}
	want := mustCode(t, Multi, "B", "R", "Y", "P")
	if !best.Equals(want) {
		t.Fatalf("best = %s, want %s", best, want)
	}
}

func TestCode_CloneAndEquality(t *testing.T) {
	a := mustCode(t, Multi, "B", "R", "Y", "G")
	b := a.Clone()
	if !a.Equals(b) {
		t.Fatal("clone not equal to original")
	}
	if !a.Equals(mustCode(t, Multi, "B", "R", "Y", "G")) {
		t.Fatal("structural equality failed")
	}
	if a.Equals(mustCode(t, Multi, "B", "R", "Y", "P")) {
		t.Fatal("different codes compared equal")
	}
	// Binary Black and Multi Blue share the label "B"; equality is on labels.
	if !mustCode(t, Binary, "B", "B").Equals(mustCode(t, Multi, "B", "B")) {
		t.Fatal("label equality must hold across domains")
	}
}
