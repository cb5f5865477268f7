// Package card composes randomized 5x5 bingo cards from a square pool.
//
// The first square of the pool is always placed in the center cell as the
// free space. The remaining 24 cells are filled from the rest of the pool:
// distinct squares when the pool is large enough, cyclic repetition
// otherwise. All randomness comes from an explicit *rand.Rand so callers
// control reproducibility through the seed.
package card

import (
	"math/rand/v2"

	"github.com/matzehuels/bingo/pkg/errors"
	"github.com/matzehuels/bingo/pkg/squares"
)

const (
	// Size is the number of rows and columns on a card.
	Size = 5

	// Center is the row and column index of the free space.
	Center = Size / 2

	// Slots is the number of non-free cells on a card.
	Slots = Size*Size - 1
)

// Card is a 5x5 grid of squares, indexed [row][col].
type Card [Size][Size]squares.Square

// NewRand returns a PCG-backed generator for the given seed.
// Equal seeds produce equal card sequences.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Compose builds one card from pool. pool[0] is the free space and must be
// followed by at least one further square.
func Compose(rng *rand.Rand, pool []squares.Square) (Card, error) {
	var c Card
	if len(pool) == 0 {
		return c, errors.New(errors.ErrCodeInvalidInput, "square pool is empty")
	}
	if len(pool) == 1 {
		return c, errors.New(errors.ErrCodeInvalidInput, "square pool has only the free space, need at least one more square")
	}

	chosen := choose(rng, pool[1:])
	rng.Shuffle(len(chosen), func(i, j int) {
		chosen[i], chosen[j] = chosen[j], chosen[i]
	})

	next := 0
	for row := range Size {
		for col := range Size {
			if row == Center && col == Center {
				c[row][col] = pool[0]
				continue
			}
			c[row][col] = chosen[next]
			next++
		}
	}
	return c, nil
}

// choose picks Slots squares from candidates: a uniform sample without
// replacement when there are enough, cyclic repetition otherwise.
func choose(rng *rand.Rand, candidates []squares.Square) []squares.Square {
	out := make([]squares.Square, 0, Slots)
	if len(candidates) < Slots {
		for i := 0; len(out) < Slots; i++ {
			out = append(out, candidates[i%len(candidates)])
		}
		return out
	}

	// Partial Fisher-Yates over the index space leaves the pool untouched.
	idx := make([]int, len(candidates))
	for i := range idx {
		idx[i] = i
	}
	for i := range Slots {
		j := i + rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, candidates[idx[i]])
	}
	return out
}

// At returns the square at row, col.
func (c *Card) At(row, col int) squares.Square {
	return c[row][col]
}

// FreeSpace returns the center square.
func (c *Card) FreeSpace() squares.Square {
	return c[Center][Center]
}

// Cells returns all 25 squares in row-major order.
func (c *Card) Cells() []squares.Square {
	out := make([]squares.Square, 0, Size*Size)
	for row := range Size {
		out = append(out, c[row][:]...)
	}
	return out
}

// Others returns the 24 non-free squares in row-major order.
func (c *Card) Others() []squares.Square {
	out := make([]squares.Square, 0, Slots)
	for row := range Size {
		for col := range Size {
			if row == Center && col == Center {
				continue
			}
			out = append(out, c[row][col])
		}
	}
	return out
}

// Strings returns the card as text rows, row-major.
func (c *Card) Strings() [][]string {
	out := make([][]string, Size)
	for row := range Size {
		out[row] = make([]string, Size)
		for col := range Size {
			out[row][col] = c[row][col].Text()
		}
	}
	return out
}
