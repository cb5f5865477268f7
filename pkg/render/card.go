package render

import (
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/bingo/pkg/card"
	"github.com/matzehuels/bingo/pkg/errors"
	"github.com/matzehuels/bingo/pkg/fonts"
)

// Grid is the placement of the card grid on the template.
type Grid struct {
	Left, Top float64
	// Cell is the side length of one square cell.
	Cell float64
}

// Width is the side length of the whole grid.
func (g Grid) Width() float64 { return g.Cell * card.Size }

// CellRect returns the rectangle of the cell at row, col.
func (g Grid) CellRect(row, col int) Rect {
	return Rect{
		X: g.Left + float64(col)*g.Cell,
		Y: g.Top + float64(row)*g.Cell,
		W: g.Cell,
		H: g.Cell,
	}
}

// GridFor centers a grid of l.CardScale times the template width at l.CardTop.
func GridFor(bounds image.Rectangle, l Layout) Grid {
	w := float64(bounds.Dx()) * l.CardScale
	return Grid{
		Left: float64(bounds.Min.X) + (float64(bounds.Dx())-w)/2,
		Top:  float64(bounds.Min.Y) + l.CardTop,
		Cell: w / card.Size,
	}
}

// Renderer letters cards onto a template. It is not safe for concurrent use
// because font faces keep glyph caches.
type Renderer struct {
	template image.Image
	fonts    *fonts.Set
	layout   Layout
	grid     Grid
}

// NewRenderer validates that the grid fits inside the template.
func NewRenderer(template image.Image, set *fonts.Set, l Layout) (*Renderer, error) {
	if template == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "template image is nil")
	}
	if set == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "font set is nil")
	}
	if l.CardScale <= 0 || l.CardScale > 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "card scale %v must be in (0, 1]", l.CardScale)
	}

	b := template.Bounds()
	g := GridFor(b, l)
	if l.CardTop < 0 || g.Top+g.Width() > float64(b.Max.Y) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"card grid (top %.0f, size %.0f) does not fit a %dx%d template",
			l.CardTop, g.Width(), b.Dx(), b.Dy())
	}
	return &Renderer{template: template, fonts: set, layout: l, grid: g}, nil
}

// Grid returns the grid placement used for every card.
func (r *Renderer) Grid() Grid { return r.grid }

// Render returns a copy of the template with c drawn on it.
func (r *Renderer) Render(c card.Card) image.Image {
	dc := gg.NewContextForImage(r.template)
	for row := range card.Size {
		for col := range card.Size {
			rect := r.grid.CellRect(row, col)
			r.drawCell(dc, rect)
			r.drawText(dc, LayoutCell(c[row][col], rect, r.fonts, r.layout))
		}
	}
	return dc.Image()
}

func (r *Renderer) drawCell(dc *gg.Context, rect Rect) {
	dc.DrawRectangle(rect.X, rect.Y, rect.W, rect.H)
	dc.SetColor(r.layout.CellColor)
	dc.Fill()

	dc.DrawRectangle(rect.X, rect.Y, rect.W, rect.H)
	dc.SetLineWidth(r.layout.BorderWidth)
	dc.SetColor(r.layout.BorderColor)
	dc.Stroke()
}

// drawText draws every token in its own face, advancing by its measured
// width plus a normal-weight space between tokens.
func (r *Renderer) drawText(dc *gg.Context, cell Cell) {
	dc.SetColor(r.layout.TextColor)
	for _, pl := range cell.Lines {
		normal, bold := r.fonts.Normal(pl.Tier), r.fonts.Bold(pl.Tier)
		space := normal.Measure(" ")
		x := pl.X
		for i, tok := range pl.Line {
			face := normal
			if tok.Emphasized {
				face = bold
			}
			dc.SetFontFace(face.Font())
			dc.DrawString(tok.Text, x, pl.Y+face.Ascent())
			x += face.Measure(tok.Text)
			if i < len(pl.Line)-1 {
				x += space
			}
		}
	}
}

// LoadTemplate opens the card template, honouring EXIF orientation.
func LoadTemplate(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "card template %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode card template %s", path)
	}
	return img, nil
}
