package render

import (
	"image/color"

	"github.com/matzehuels/bingo/pkg/fonts"
	"github.com/matzehuels/bingo/pkg/squares"
	"github.com/matzehuels/bingo/pkg/text"
)

// Line limits before a block moves to a smaller tier.
const (
	maxBlockLines     = 4
	maxMainLines      = 2
	maxSecondaryLines = 3
)

// Extra space added to the "Ay" height of a face to get the line height.
const (
	blockLeading   = 4
	twoLineLeading = 2
)

// Layout holds the geometry and colours of a rendered card.
type Layout struct {
	// CardTop is the y offset of the grid in template pixels.
	CardTop float64
	// CardScale is the grid width as a fraction of the template width.
	CardScale float64
	// BorderWidth is the stroke width of cell outlines.
	BorderWidth float64
	// Padding is subtracted from the cell width to get the wrap width and
	// from the cell height to get the room for a single block.
	Padding float64
	// Inset is the distance kept between two-line text and the cell
	// edges, and between the main and secondary blocks.
	Inset float64

	TextColor   color.Color
	CellColor   color.Color
	BorderColor color.Color
}

// DefaultLayout returns the layout for a 300 DPI letter-size template.
func DefaultLayout() Layout {
	return Layout{
		CardTop:     950,
		CardScale:   0.85,
		BorderWidth: 3,
		Padding:     40,
		Inset:       20,
		TextColor:   color.Black,
		CellColor:   color.White,
		BorderColor: color.Black,
	}
}

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	X, Y, W, H float64
}

// PlacedLine is a wrapped line with the top-left corner of its text box.
type PlacedLine struct {
	Line text.Line
	Tier fonts.Tier
	X, Y float64
}

// Cell is the laid out text of one square.
type Cell struct {
	Kind squares.Kind
	// Main is the tier of the single block, or of the first line of a
	// two-line square.
	Main fonts.Tier
	// Secondary is the tier of the second line of a two-line square.
	Secondary fonts.Tier
	Lines     []PlacedLine
}

// LayoutCell positions the text of sq inside r.
func LayoutCell(sq squares.Square, r Rect, set *fonts.Set, l Layout) Cell {
	switch kind := sq.Kind(); kind {
	case squares.TwoLine:
		return layoutTwoLine(sq, r, set, l)
	case squares.Block:
		return layoutBlock(kind, sq.Text(), fonts.Medium, r, set, l)
	default:
		return layoutBlock(kind, sq.Text(), fonts.Large, r, set, l)
	}
}

// block is a wrapped run of text at one tier.
type block struct {
	tier  fonts.Tier
	lines []text.Line
}

func wrapAt(s string, tier fonts.Tier, set *fonts.Set, width float64) block {
	return block{
		tier:  tier,
		lines: text.Wrap(s, set.Normal(tier), set.Bold(tier), width),
	}
}

// shrinkToLines demotes b until it has at most max lines or cannot shrink.
func shrinkToLines(b block, s string, max int, set *fonts.Set, width float64) block {
	for len(b.lines) > max {
		next := set.Demote(b.tier)
		if next == b.tier {
			break
		}
		b = wrapAt(s, next, set, width)
	}
	return b
}

func (b block) height(set *fonts.Set, leading float64) float64 {
	return float64(len(b.lines)) * lineHeight(set, b.tier, leading)
}

func lineHeight(set *fonts.Set, tier fonts.Tier, leading float64) float64 {
	return set.Normal(tier).Height() + leading
}

func layoutBlock(kind squares.Kind, s string, tier fonts.Tier, r Rect, set *fonts.Set, l Layout) Cell {
	width := r.W - l.Padding
	b := shrinkToLines(wrapAt(s, tier, set, width), s, maxBlockLines, set, width)

	if b.height(set, blockLeading) > r.H-l.Padding {
		if next := set.Demote(b.tier); next != b.tier {
			b = wrapAt(s, next, set, width)
		}
	}

	top := r.Y + (r.H-b.height(set, blockLeading))/2
	return Cell{
		Kind:  kind,
		Main:  b.tier,
		Lines: place(nil, b, top, r, set, blockLeading),
	}
}

func layoutTwoLine(sq squares.Square, r Rect, set *fonts.Set, l Layout) Cell {
	width := r.W - l.Padding
	mainText, secText := sq.Main(), sq.Secondary()

	main := shrinkToLines(wrapAt(mainText, fonts.Large, set, width), mainText, maxMainLines, set, width)
	sec := shrinkToLines(wrapAt(secText, fonts.Small, set, width), secText, maxSecondaryLines, set, width)

	// Both blocks plus the gap between them must fit inside the insets.
	// Shrink the main text first, then the secondary.
	room := r.H - 2*l.Inset
	for main.height(set, twoLineLeading)+l.Inset+sec.height(set, twoLineLeading) > room {
		if next := set.Demote(main.tier); next != main.tier {
			main = wrapAt(mainText, next, set, width)
			continue
		}
		if next := set.Demote(sec.tier); next != sec.tier {
			sec = wrapAt(secText, next, set, width)
			continue
		}
		break
	}

	secHeight := sec.height(set, twoLineLeading)
	secTop := r.Y + r.H - l.Inset - secHeight

	mainHeight := main.height(set, twoLineLeading)
	mainTop := r.Y + (r.H-mainHeight)/2
	if mainTop+mainHeight > secTop-l.Inset {
		mainTop = secTop - l.Inset - mainHeight
	}
	if mainTop < r.Y+l.Inset {
		mainTop = r.Y + l.Inset
	}

	lines := place(nil, main, mainTop, r, set, twoLineLeading)
	lines = place(lines, sec, secTop, r, set, twoLineLeading)
	return Cell{
		Kind:      squares.TwoLine,
		Main:      main.tier,
		Secondary: sec.tier,
		Lines:     lines,
	}
}

// place appends the lines of b stacked from top, each centered in r.
func place(dst []PlacedLine, b block, top float64, r Rect, set *fonts.Set, leading float64) []PlacedLine {
	lh := lineHeight(set, b.tier, leading)
	for i, line := range b.lines {
		w := text.LineWidth(line, set.Normal(b.tier), set.Bold(b.tier))
		dst = append(dst, PlacedLine{
			Line: line,
			Tier: b.tier,
			X:    r.X + (r.W-w)/2,
			Y:    top + float64(i)*lh,
		})
	}
	return dst
}
