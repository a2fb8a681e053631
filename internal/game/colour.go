// internal/game/colour.go
//
// Colour domains for the two game variants.
// Defines:
//   - Colour: one symbol of a code, identified by its single-letter label.
//   - Domain: a closed set of colours (Binary for Bulls and Cows,
//     Multi for classic Mastermind).
//
// Equality throughout the engine is defined on labels, not on Colour
// identity: two colours with the same label compare equal even across
// domains.

package game

// Colour is a single symbol from a Domain.
type Colour struct {
	label string // one-letter code used for equality and rendering
	name  string // human-readable name, for menus and hints
}

// Label returns the one-letter code of the colour (e.g. "B").
func (c Colour) Label() string { return c.label }

// Name returns the full colour name (e.g. "Black").
func (c Colour) Name() string { return c.name }

// String renders the colour as its label.
func (c Colour) String() string { return c.label }

// Domain identifies a closed colour set. A game is bound to exactly one
// domain for its whole lifetime.
type Domain int

const (
	// Binary is the two-colour domain used by Bulls and Cows.
	Binary Domain = iota
	// Multi is the six-colour domain used by classic Mastermind.
	Multi
)

var binaryColours = []Colour{
	{"B", "Black"},
	{"W", "White"},
}

var multiColours = []Colour{
	{"B", "Blue"},
	{"R", "Red"},
	{"Y", "Yellow"},
	{"G", "Green"},
	{"P", "Pink"},
	{"O", "Orange"},
}

// Colours returns a copy of all colours in the domain.
func (d Domain) Colours() []Colour {
	src := binaryColours
	if d == Multi {
		src = multiColours
	}
	out := make([]Colour, len(src))
	copy(out, src)
	return out
}

// Parse maps a one-letter label back to a colour of this domain.
// The second result is false when the label is not in the domain.
func (d Domain) Parse(label string) (Colour, bool) {
	src := binaryColours
	if d == Multi {
		src = multiColours
	}
	for _, c := range src {
		if c.label == label {
			return c, true
		}
	}
	return Colour{}, false
}

// String names the domain.
func (d Domain) String() string {
	if d == Multi {
		return "multi"
	}
	return "binary"
}
