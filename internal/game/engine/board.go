package engine

import (
	"github.com/dpimentel/domino-dominicano/internal/game/tile"
)

// Side names one of the two open ends of the board.
type Side string

const (
	SideHead Side = "head"
	SideTail Side = "tail"
)

// Board is the ordered line of placed tiles. Every stored tile is kept
// oriented so that tiles[0].A is the open head value and tiles[len-1].B is
// the open tail value; placing reorients as needed. Insertion only ever
// happens at the two ends.
type Board struct {
	tiles []tile.Tile
}

// Len returns the number of placed tiles.
func (b *Board) Len() int {
	return len(b.tiles)
}

// Empty reports whether no tile has been placed yet.
func (b *Board) Empty() bool {
	return len(b.tiles) == 0
}

// Head returns the open head value, or -1 on an empty board.
func (b *Board) Head() int {
	if len(b.tiles) == 0 {
		return -1
	}
	return b.tiles[0].A
}

// Tail returns the open tail value, or -1 on an empty board.
func (b *Board) Tail() int {
	if len(b.tiles) == 0 {
		return -1
	}
	return b.tiles[len(b.tiles)-1].B
}

// Tiles returns a copy of the placed sequence, head to tail.
func (b *Board) Tiles() []tile.Tile {
	out := make([]tile.Tile, len(b.tiles))
	copy(out, b.tiles)
	return out
}

// Fits reports whether t can legally attach to the given side.
func (b *Board) Fits(t tile.Tile, side Side) bool {
	if b.Empty() {
		return true
	}
	if side == SideHead {
		return t.Has(b.Head())
	}
	return t.Has(b.Tail())
}

// Place attaches t to the given side, reorienting it so the matching face
// touches the open end. The caller has already validated legality.
func (b *Board) Place(t tile.Tile, side Side) {
	if b.Empty() {
		b.tiles = append(b.tiles, t)
		return
	}

	if side == SideHead {
		// The stored tile's B face must touch the current head.
		if t.B != b.Head() {
			t = t.Reversed()
		}
		b.tiles = append([]tile.Tile{t}, b.tiles...)
		return
	}

	// The stored tile's A face must touch the current tail.
	if t.A != b.Tail() {
		t = t.Reversed()
	}
	b.tiles = append(b.tiles, t)
}
