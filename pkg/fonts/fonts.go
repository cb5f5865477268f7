package fonts

import (
	"errors"
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Tier is a text size step. Larger tiers come first.
type Tier int

const (
	Large Tier = iota
	Medium
	Small
)

var tierNames = [...]string{"large", "medium", "small"}

func (t Tier) String() string {
	if t < Large || t > Small {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}

// Smaller returns the next smaller tier. Small stays Small.
func (t Tier) Smaller() Tier {
	if t >= Small {
		return Small
	}
	return t + 1
}

// Sizes are the pixel sizes of the three tiers.
type Sizes struct {
	Large  float64 `toml:"large"`
	Medium float64 `toml:"medium"`
	Small  float64 `toml:"small"`
}

// DefaultSizes are the tier sizes for a 300 DPI card template.
var DefaultSizes = Sizes{Large: 70, Medium: 60, Small: 50}

// Of returns the size of tier t.
func (s Sizes) Of(t Tier) float64 {
	switch t {
	case Large:
		return s.Large
	case Medium:
		return s.Medium
	default:
		return s.Small
	}
}

// Validate reports sizes that are not positive or not descending.
func (s Sizes) Validate() error {
	if s.Large <= 0 || s.Medium <= 0 || s.Small <= 0 {
		return fmt.Errorf("font sizes must be positive, got %v/%v/%v", s.Large, s.Medium, s.Small)
	}
	if s.Large < s.Medium || s.Medium < s.Small {
		return fmt.Errorf("font sizes must not increase from large to small, got %v/%v/%v", s.Large, s.Medium, s.Small)
	}
	return nil
}

// Face wraps a font.Face with float pixel metrics.
type Face struct {
	face   font.Face
	height float64
	ascent float64
}

func newFace(f font.Face) *Face {
	bounds, _ := font.BoundString(f, "Ay")
	return &Face{
		face:   f,
		height: toFloat(bounds.Max.Y - bounds.Min.Y),
		ascent: toFloat(f.Metrics().Ascent),
	}
}

// Measure returns the advance width of s.
func (f *Face) Measure(s string) float64 {
	return toFloat(font.MeasureString(f.face, s))
}

// Height is the ink height of "Ay", the reference glyph pair for line spacing.
func (f *Face) Height() float64 { return f.height }

// Ascent is the distance from the top of a line to its baseline.
func (f *Face) Ascent() float64 { return f.ascent }

// Font returns the underlying face for drawing.
func (f *Face) Font() font.Face { return f.face }

func toFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64
}

// Set is a resolved font family: normal and bold faces for every tier.
type Set struct {
	name      string
	normal    [3]*Face
	bold      [3]*Face
	resizable bool
}

// Name is the family the set was loaded from.
func (s *Set) Name() string { return s.name }

// Normal returns the regular face for tier t.
func (s *Set) Normal(t Tier) *Face { return s.normal[clamp(t)] }

// Bold returns the bold face for tier t.
func (s *Set) Bold(t Tier) *Face { return s.bold[clamp(t)] }

// Resizable reports whether the tiers have distinct sizes.
func (s *Set) Resizable() bool { return s.resizable }

// Demote returns the tier below t, or t itself when the set cannot be resized.
func (s *Set) Demote(t Tier) Tier {
	if !s.resizable {
		return t
	}
	return t.Smaller()
}

// Close releases every face in the set.
func (s *Set) Close() error {
	var errs []error
	seen := make(map[font.Face]bool)
	for _, faces := range [][3]*Face{s.normal, s.bold} {
		for _, f := range faces {
			if f == nil || seen[f.face] {
				continue
			}
			seen[f.face] = true
			if err := f.face.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func clamp(t Tier) Tier {
	switch {
	case t < Large:
		return Large
	case t > Small:
		return Small
	}
	return t
}
