// Package pipeline runs the two bingo workflows end to end.
//
// This package ties the library packages together so the CLI stays thin:
//
//  1. Generate: parse the square pool, resolve fonts, compose cards and
//     write one PNG per card plus a run manifest
//  2. Assemble: collect the card PNGs and lay them out as printable PDFs
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Generate(ctx, pipeline.Options{Count: 12})
//	if err != nil {
//	    return err
//	}
//	reports, err := runner.Assemble(ctx, pipeline.AssembleOptions{Mode: assemble.ModeBoth})
//
// Both stages check the context between cards, so a cancelled run stops
// after the card in progress.
package pipeline

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bingo/pkg/assemble"
	"github.com/matzehuels/bingo/pkg/card"
	"github.com/matzehuels/bingo/pkg/errors"
	"github.com/matzehuels/bingo/pkg/fonts"
	"github.com/matzehuels/bingo/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultCount is the number of cards generated when none is requested.
	DefaultCount = 12

	// DefaultSquares is the square pool file.
	DefaultSquares = "bingo_squares.txt"

	// DefaultTemplate is the card background image.
	DefaultTemplate = "bingo_template.png"

	// DefaultOutputDir receives the card images and the manifest.
	DefaultOutputDir = "finals"

	// DefaultFilePattern names card images by their 1-based index.
	DefaultFilePattern = "bingo_card_%02d.png"
)

// =============================================================================
// Options - Generate Configuration
// =============================================================================

// Options configures a generation run.
type Options struct {
	Squares     string
	Template    string
	OutputDir   string
	FilePattern string
	Count       int
	// Seed drives card composition. Zero picks a random seed, which is
	// reported in the result and the manifest.
	Seed uint64
	DPI  float64

	Layout      render.Layout
	FontSizes   fonts.Sizes
	FontSources []fonts.Source

	Logger *log.Logger
	// Progress is called after each card is written.
	Progress func(done, total int)

	validated bool
}

// ValidateAndSetDefaults checks fields and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Squares == "" {
		o.Squares = DefaultSquares
	}
	if o.Template == "" {
		o.Template = DefaultTemplate
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.FilePattern == "" {
		o.FilePattern = DefaultFilePattern
	}
	if o.Count == 0 {
		o.Count = DefaultCount
	}
	if o.Seed == 0 {
		o.Seed = rand.Uint64()
	}
	if o.DPI == 0 {
		o.DPI = render.DPI
	}
	if o.Layout == (render.Layout{}) {
		o.Layout = render.DefaultLayout()
	}
	if o.FontSizes == (fonts.Sizes{}) {
		o.FontSizes = fonts.DefaultSizes
	}
	if o.FontSources == nil {
		o.FontSources = fonts.DefaultSources(nil)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := errors.ValidateCardCount(o.Count); err != nil {
		return err
	}
	if err := errors.ValidateFilePattern(o.FilePattern); err != nil {
		return err
	}
	if err := errors.ValidateDir(o.OutputDir); err != nil {
		return err
	}
	if o.DPI < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "dpi must be positive, got %v", o.DPI)
	}
	o.validated = true
	return nil
}

// Result describes a finished generation run.
type Result struct {
	RunID string
	Seed  uint64
	// Font is the family the cards were lettered with.
	Font     string
	Cards    []card.Card
	Files    []string
	Manifest string
	Stats    Stats
}

// Stats contains generation statistics.
type Stats struct {
	PoolSize   int
	CardCount  int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// =============================================================================
// AssembleOptions - PDF Configuration
// =============================================================================

// AssembleOptions configures PDF assembly.
type AssembleOptions struct {
	// Dir holds the card images.
	Dir string
	// FilePattern is the generator's naming pattern; the glob for finding
	// cards is derived from it.
	FilePattern string
	// OutputDir receives the PDFs.
	OutputDir string
	Mode      assemble.Mode
	PDF       assemble.Options
	Logger    *log.Logger
}

// ValidateAndSetDefaults checks fields and applies defaults.
func (o *AssembleOptions) ValidateAndSetDefaults() error {
	if o.Dir == "" {
		o.Dir = DefaultOutputDir
	}
	if o.FilePattern == "" {
		o.FilePattern = DefaultFilePattern
	}
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	if o.Mode == "" {
		o.Mode = assemble.ModeBoth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.PDF.Logger == nil {
		o.PDF.Logger = o.Logger
	}

	if !o.Mode.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid mode %q (must be one of: full, compact, both)", o.Mode)
	}
	if err := errors.ValidateFilePattern(o.FilePattern); err != nil {
		return err
	}
	return o.PDF.ValidateAndSetDefaults()
}

// GlobFor turns a printf file pattern into a glob by replacing its verb
// with "*", so "bingo_card_%02d.png" becomes "bingo_card_*.png".
func GlobFor(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(pattern) && pattern[i+1] == '%' {
			b.WriteByte('%')
			i++
			continue
		}
		// Skip flags, width and precision up to the verb letter.
		j := i + 1
		for j < len(pattern) && strings.IndexByte("+-# 0123456789.", pattern[j]) >= 0 {
			j++
		}
		b.WriteByte('*')
		i = j
	}
	return b.String()
}

func cardFile(pattern string, n int) string {
	return fmt.Sprintf(pattern, n)
}
