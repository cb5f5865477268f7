package card

import (
	"fmt"
	"slices"
	"testing"

	"github.com/matzehuels/bingo/pkg/errors"
	"github.com/matzehuels/bingo/pkg/squares"
)

func pool(n int) []squares.Square {
	out := []squares.Square{"FREE"}
	for i := range n {
		out = append(out, squares.Square(fmt.Sprintf("S%02d", i)))
	}
	return out
}

func TestComposeLetterPool(t *testing.T) {
	p := []squares.Square{"FREE"}
	for r := 'A'; r <= 'X'; r++ {
		p = append(p, squares.Square(string(r)))
	}

	c, err := Compose(NewRand(1), p)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if c.FreeSpace() != "FREE" {
		t.Errorf("center = %q, want FREE", c.FreeSpace())
	}

	got := c.Others()
	slices.Sort(got)
	if !slices.Equal(got, p[1:]) {
		t.Errorf("non-free cells are not a permutation of A..X: %v", got)
	}
}

func TestComposeDistinctWithLargePool(t *testing.T) {
	p := pool(60)
	rng := NewRand(7)

	for i := range 200 {
		c, err := Compose(rng, p)
		if err != nil {
			t.Fatalf("Compose() error = %v", err)
		}
		if c.At(Center, Center) != "FREE" {
			t.Fatalf("card %d: center = %q", i, c.At(Center, Center))
		}

		seen := make(map[squares.Square]bool)
		for _, sq := range c.Others() {
			if sq == "FREE" {
				t.Fatalf("card %d: free space placed outside the center", i)
			}
			if seen[sq] {
				t.Fatalf("card %d: duplicate square %q", i, sq)
			}
			seen[sq] = true
		}
		if len(seen) != Slots {
			t.Fatalf("card %d: %d distinct squares, want %d", i, len(seen), Slots)
		}
	}
}

func TestComposeSmallPoolRepeats(t *testing.T) {
	for _, n := range []int{1, 2, 5, 23} {
		t.Run(fmt.Sprintf("%d candidates", n), func(t *testing.T) {
			p := pool(n)
			c, err := Compose(NewRand(3), p)
			if err != nil {
				t.Fatalf("Compose() error = %v", err)
			}

			cells := c.Cells()
			if len(cells) != Size*Size {
				t.Fatalf("got %d cells, want %d", len(cells), Size*Size)
			}
			for i, sq := range cells {
				if sq == "" {
					t.Errorf("cell %d is empty", i)
				}
			}
			if c.FreeSpace() != "FREE" {
				t.Errorf("center = %q, want FREE", c.FreeSpace())
			}

			counts := make(map[squares.Square]int)
			for _, sq := range c.Others() {
				counts[sq]++
			}
			// Cyclic repetition spreads squares evenly.
			lo, hi := Slots/n, (Slots+n-1)/n
			for sq, k := range counts {
				if k < lo || k > hi {
					t.Errorf("square %q used %d times, want between %d and %d", sq, k, lo, hi)
				}
			}
			if len(counts) != n {
				t.Errorf("%d distinct squares used, want %d", len(counts), n)
			}
		})
	}
}

func TestComposeInvalidPool(t *testing.T) {
	tests := []struct {
		name string
		pool []squares.Square
	}{
		{"empty", nil},
		{"free space only", []squares.Square{"FREE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compose(NewRand(1), tt.pool)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Compose() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestComposeSeedReproducible(t *testing.T) {
	p := pool(40)
	a, _ := Compose(NewRand(42), p)
	b, _ := Compose(NewRand(42), p)
	if a != b {
		t.Error("equal seeds should produce equal cards")
	}
}

func TestComposeDistribution(t *testing.T) {
	// Every candidate should be drawn roughly 24/40 of the time.
	p := pool(40)
	rng := NewRand(99)
	const rounds = 2000

	hits := make(map[squares.Square]int)
	positions := make(map[int]int)
	for range rounds {
		c, err := Compose(rng, p)
		if err != nil {
			t.Fatal(err)
		}
		for _, sq := range c.Others() {
			hits[sq]++
		}
		// Track where S00 lands to check placement is spread out.
		for i, sq := range c.Cells() {
			if sq == "S00" {
				positions[i]++
			}
		}
	}

	want := float64(rounds) * float64(Slots) / 40
	for sq, n := range hits {
		if f := float64(n); f < want*0.8 || f > want*1.2 {
			t.Errorf("square %s drawn %d times, expected about %.0f", sq, n, want)
		}
	}
	if len(positions) != Slots {
		t.Errorf("S00 appeared in %d distinct cells, want %d", len(positions), Slots)
	}
	if positions[Center*Size+Center] != 0 {
		t.Error("S00 should never land in the center")
	}
}

func TestCardStrings(t *testing.T) {
	c, err := Compose(NewRand(5), pool(30))
	if err != nil {
		t.Fatal(err)
	}
	rows := c.Strings()
	if len(rows) != Size || len(rows[0]) != Size {
		t.Fatalf("Strings() shape = %dx%d", len(rows), len(rows[0]))
	}
	if rows[Center][Center] != "FREE" {
		t.Errorf("Strings() center = %q", rows[Center][Center])
	}
}
