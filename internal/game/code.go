// internal/game/code.go
//
// Code is an ordered, fixed-length colour sequence: either the hidden
// secret or a player's guess. Codes are immutable once built; every
// accessor that could leak the backing slice returns a copy.

package game

import "strings"

// Code is an immutable colour sequence.
type Code struct {
	colours []Colour
}

// NewCode builds a code from a colour slice. The input is copied, so the
// caller may keep mutating its own slice.
func NewCode(colours []Colour) Code {
	cs := make([]Colour, len(colours))
	copy(cs, colours)
	return Code{colours: cs}
}

// Len returns the number of colours in the code.
func (c Code) Len() int { return len(c.colours) }

// At returns the colour at position i.
func (c Code) At(i int) Colour { return c.colours[i] }

// Colours returns a copy of the colour sequence.
func (c Code) Colours() []Colour {
	out := make([]Colour, len(c.colours))
	copy(out, c.colours)
	return out
}

// Clone returns a deep copy of the code.
func (c Code) Clone() Code { return NewCode(c.colours) }

// Equals reports structural equality: same length and equal labels at
// every position. Colour identity is irrelevant.
func (c Code) Equals(other Code) bool {
	if len(c.colours) != len(other.colours) {
		return false
	}
	for i := range c.colours {
		if c.colours[i].Label() != other.colours[i].Label() {
			return false
		}
	}
	return true
}

// String renders the code as "[B, R, Y, G]".
func (c Code) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, col := range c.colours {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(col.Label())
	}
	b.WriteString("]")
	return b.String()
}
