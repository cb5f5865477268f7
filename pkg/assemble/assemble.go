// Package assemble lays rendered card images out in printable PDFs.
//
// [Full] puts one card per page, scaled to fit and centered. [Compact] puts
// four cards per page in a 2x2 grid with a "Card NN" label under each card
// and a page number in the footer. Unreadable images are logged, recorded in
// the [Report] and skipped; pages are only added when a card lands on them,
// so a skipped card never leaves a blank page.
package assemble

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"

	"github.com/matzehuels/bingo/pkg/buildinfo"
	"github.com/matzehuels/bingo/pkg/errors"
)

// File names used by the generator and the assembler.
const (
	CardPattern   = "bingo_card_*.png"
	FullOutput    = "bingo_cards_printable.pdf"
	CompactOutput = "bingo_cards_compact.pdf"
)

// Mode selects which PDFs are produced.
type Mode string

const (
	ModeFull    Mode = "full"
	ModeCompact Mode = "compact"
	ModeBoth    Mode = "both"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeFull, ModeCompact, ModeBoth:
		return true
	}
	return false
}

// Options configures PDF assembly.
type Options struct {
	// PageSize is an fpdf page size name such as "Letter" or "A4".
	PageSize string
	// Margin is the compact-mode margin in points.
	Margin float64
	// CompactMaxPixels bounds the longer image side in compact mode.
	// Zero keeps the images at full resolution.
	CompactMaxPixels int
	// Title is written into the document metadata.
	Title  string
	Logger *log.Logger
}

// Defaults for Options.
const (
	DefaultPageSize         = "Letter"
	DefaultMargin           = 20.0
	DefaultCompactMaxPixels = 1200
)

// ValidateAndSetDefaults fills zero fields and rejects invalid ones.
func (o *Options) ValidateAndSetDefaults() error {
	if o.PageSize == "" {
		o.PageSize = DefaultPageSize
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if err := checkPageSize(o.PageSize); err != nil {
		return err
	}
	if o.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "margin must not be negative, got %v", o.Margin)
	}
	if o.CompactMaxPixels < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "compact max pixels must not be negative, got %d", o.CompactMaxPixels)
	}
	if o.Title == "" {
		o.Title = "Bingo Cards"
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// checkPageSize rejects page size names fpdf does not know. fpdf would
// otherwise keep the error and report a 0x0 page.
func checkPageSize(name string) error {
	pdf := fpdf.New("P", "pt", name, "")
	if err := pdf.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "page size %q", name)
	}
	return nil
}

// FindCards returns the files in dir matching pattern. Shorter names sort
// first so that card_100 follows card_99.
func FindCards(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "card directory %s", dir)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "card directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", dir)
	}

	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "card pattern %q", pattern)
	}
	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeNoCards, "no files matching %s in %s", pattern, dir)
	}
	slices.SortFunc(files, func(a, b string) int {
		if len(a) != len(b) {
			return len(a) - len(b)
		}
		return strings.Compare(a, b)
	})
	return files, nil
}

// Placement records where one card was drawn.
type Placement struct {
	Path string
	Page int
	X, Y float64
	W, H float64
	// Label is the caption printed under the card, empty in full mode.
	Label string
}

// Failure is a card image that could not be placed.
type Failure struct {
	Path string
	Err  error
}

// Report summarizes one assembled document.
type Report struct {
	Output     string
	Pages      int
	Placements []Placement
	Failures   []Failure
}

// Err returns the failures as a *errors.PartialError, or nil.
func (r *Report) Err() error {
	pe := &errors.PartialError{Total: len(r.Placements) + len(r.Failures)}
	for _, f := range r.Failures {
		pe.Add(filepath.Base(f.Path), f.Err)
	}
	return pe.OrNil()
}

// document wraps an fpdf document and the report being built for it.
type document struct {
	pdf    *fpdf.Fpdf
	opts   Options
	report *Report
	images int
}

func newDocument(opts Options) (*document, error) {
	pdf := fpdf.New("P", "pt", opts.PageSize, "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(opts.Title, true)
	pdf.SetCreator(buildinfo.Generator(), true)
	if err := pdf.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "create pdf")
	}
	return &document{pdf: pdf, opts: opts, report: &Report{}}, nil
}

// register decodes path, optionally downsizes it and adds it to the
// document. fpdf errors are cleared so later cards can still be placed.
func (d *document) register(path string, maxPixels int) (name string, w, h float64, err error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", 0, 0, fmt.Errorf("decode: %w", err)
	}
	if maxPixels > 0 {
		img = imaging.Fit(img, maxPixels, maxPixels, imaging.Lanczos)
	}
	img = flatten(img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", 0, 0, fmt.Errorf("encode: %w", err)
	}

	name = fmt.Sprintf("card%d", d.images)
	d.images++
	d.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, &buf)
	if d.pdf.Err() {
		err := d.pdf.Error()
		d.pdf.ClearError()
		return "", 0, 0, fmt.Errorf("embed: %w", err)
	}

	b := img.Bounds()
	return name, float64(b.Dx()), float64(b.Dy()), nil
}

// flatten composites img onto white as an 8-bit opaque image, which fpdf
// embeds without a soft mask.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

func (d *document) fail(path string, err error) {
	d.opts.Logger.Warn("skipping card", "file", filepath.Base(path), "error", err)
	d.report.Failures = append(d.report.Failures, Failure{Path: path, Err: err})
}

func (d *document) addPage() {
	d.pdf.AddPage()
	d.report.Pages++
}

func (d *document) place(name string, p Placement) {
	d.pdf.ImageOptions(name, p.X, p.Y, p.W, p.H, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	p.Page = d.report.Pages
	d.report.Placements = append(d.report.Placements, p)
}

// finish writes the document to output unless no card was placed.
func (d *document) finish(output string, total int) (*Report, error) {
	if len(d.report.Placements) == 0 {
		return d.report, errors.Wrap(errors.ErrCodeNoCards, d.report.Err(),
			"none of the %d card images could be used", total)
	}
	if err := d.pdf.OutputFileAndClose(output); err != nil {
		return d.report, errors.Wrap(errors.ErrCodeRender, err, "write %s", output)
	}
	d.report.Output = output
	d.opts.Logger.Debug("wrote pdf", "file", output, "pages", d.report.Pages, "cards", len(d.report.Placements))
	return d.report, nil
}

// Full writes one card per page to output, each scaled to fit the page with
// its aspect ratio kept and centered.
func Full(ctx context.Context, files []string, output string, opts Options) (*Report, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeNoCards, "no card images to assemble")
	}

	d, err := newDocument(opts)
	if err != nil {
		return nil, err
	}
	pw, ph := d.pdf.GetPageSize()
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, iw, ih, err := d.register(path, 0)
		if err != nil {
			d.fail(path, err)
			continue
		}

		scale := min(pw/iw, ph/ih)
		w, h := iw*scale, ih*scale
		d.addPage()
		d.place(name, Placement{Path: path, X: (pw - w) / 2, Y: (ph - h) / 2, W: w, H: h})
	}
	return d.finish(output, len(files))
}

// Compact writes four cards per page to output in a 2x2 grid. Each card is
// stretched to its grid rectangle and labelled with its position in files.
func Compact(ctx context.Context, files []string, output string, opts Options) (*Report, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeNoCards, "no card images to assemble")
	}

	d, err := newDocument(opts)
	if err != nil {
		return nil, err
	}
	pw, ph := d.pdf.GetPageSize()
	m := opts.Margin
	cw, ch := (pw-3*m)/2, (ph-3*m)/2
	if cw <= 0 || ch <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "margin %v leaves no room on a %vx%v page", m, pw, ph)
	}
	slots := [4][2]float64{
		{m, m},
		{2*m + cw, m},
		{m, 2*m + ch},
		{2*m + cw, 2*m + ch},
	}

	slot := 0
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, _, _, err := d.register(path, opts.CompactMaxPixels)
		if err != nil {
			d.fail(path, err)
			continue
		}

		if slot == 0 {
			d.addPage()
			d.footer(pw, ph)
		}
		x, y := slots[slot][0], slots[slot][1]
		label := fmt.Sprintf("Card %02d", i+1)
		d.place(name, Placement{Path: path, X: x, Y: y, W: cw, H: ch, Label: label})

		d.pdf.SetFont("Helvetica", "", 8)
		d.pdf.Text(x+5, y+ch+15, label)

		slot = (slot + 1) % len(slots)
	}
	return d.finish(output, len(files))
}

func (d *document) footer(pw, ph float64) {
	s := fmt.Sprintf("Page %d", d.report.Pages)
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.Text((pw-d.pdf.GetStringWidth(s))/2, ph-10, s)
}
