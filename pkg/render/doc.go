// Package render draws bingo cards onto a template image.
//
// # Overview
//
// A card is a 5x5 grid placed on a copy of the template: 85% of the
// template width, horizontally centered, with its top edge at a fixed
// offset. Every cell is filled white, outlined in black and lettered with
// shrink-to-fit text.
//
//	tmpl, err := render.LoadTemplate("bingo_template.png")
//	r, err := render.NewRenderer(tmpl, set, render.DefaultLayout())
//	img := r.Render(c)
//	err = render.SavePNG("finals/bingo_card_001.png", img, render.DPI)
//
// # Cell Layout
//
// [LayoutCell] positions the text of one square without drawing it. A
// square with one line is a single block at the large tier. A square with
// two lines puts the first line at the large tier in the middle of the cell
// and the second at the small tier near the bottom. Anything longer is a
// single block at the medium tier. Each block is word-wrapped and moved to
// a smaller tier while it has too many lines or does not fit vertically.
//
// # Output
//
// [SavePNG] writes a pHYs chunk so printers pick up the intended
// resolution.
package render
