package tile

import (
	"fmt"
	"math/rand/v2"
)

const (
	MinPip = 0
	MaxPip = 6

	// SetSize is the number of tiles in a double-six set.
	SetSize = 28

	// HandSize is the number of tiles dealt to each seat.
	HandSize = 7
)

// Tile is one domino: an unordered pair of pip values 0-6.
type Tile struct {
	A int `json:"a"`
	B int `json:"b"`
}

// DoubleSix opens the first hand of a match.
var DoubleSix = Tile{A: 6, B: 6}

func (t Tile) String() string {
	return fmt.Sprintf("[%d|%d]", t.A, t.B)
}

// IsDouble reports whether both faces carry the same value.
func (t Tile) IsDouble() bool {
	return t.A == t.B
}

// Pips returns the tile's point value.
func (t Tile) Pips() int {
	return t.A + t.B
}

// Has reports whether either face carries v.
func (t Tile) Has(v int) bool {
	return t.A == v || t.B == v
}

// Equals compares tiles ignoring face order.
func (t Tile) Equals(o Tile) bool {
	return (t.A == o.A && t.B == o.B) || (t.A == o.B && t.B == o.A)
}

// Reversed returns the tile with its faces swapped.
func (t Tile) Reversed() Tile {
	return Tile{A: t.B, B: t.A}
}

// Set is an ordered collection of tiles.
type Set []Tile

// NewSet generates the 28 tiles of a double-six set, each exactly once.
func NewSet() Set {
	set := make(Set, 0, SetSize)
	for a := MinPip; a <= MaxPip; a++ {
		for b := a; b <= MaxPip; b++ {
			set = append(set, Tile{A: a, B: b})
		}
	}
	return set
}

// Shuffle permutes the set uniformly in place.
func (s Set) Shuffle() {
	rand.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}

// Pips sums the point value of every tile in the set.
func (s Set) Pips() int {
	total := 0
	for _, t := range s {
		total += t.Pips()
	}
	return total
}

// Remove deletes the first tile equal to t (ignoring face order) and reports
// whether it was found.
func (s *Set) Remove(t Tile) bool {
	for i, h := range *s {
		if h.Equals(t) {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether the set holds a tile equal to t.
func (s Set) Contains(t Tile) bool {
	for _, h := range s {
		if h.Equals(t) {
			return true
		}
	}
	return false
}
