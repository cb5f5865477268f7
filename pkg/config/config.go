// Package config loads the optional bingo.toml settings file.
//
// Every setting has a default, so the file only needs the keys a user wants
// to change. Unknown keys are rejected to catch typos early.
//
//	[generate]
//	squares = "office_squares.txt"
//	default_count = 20
//
//	[layout]
//	text_color = "#1a1a1a"
//
//	[[fonts.families]]
//	name = "Georgia"
//	regular = "georgia.ttf"
//	bold = "georgiab.ttf"
//
//	[pdf]
//	page_size = "A4"
package config

import (
	"fmt"
	"image/color"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/bingo/pkg/assemble"
	"github.com/matzehuels/bingo/pkg/errors"
	"github.com/matzehuels/bingo/pkg/fonts"
	"github.com/matzehuels/bingo/pkg/render"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "bingo.toml"

// Config is the complete settings file.
type Config struct {
	Generate Generate `toml:"generate"`
	Layout   Layout   `toml:"layout"`
	Fonts    Fonts    `toml:"fonts"`
	PDF      PDF      `toml:"pdf"`
}

// Generate configures card generation.
type Generate struct {
	Squares      string  `toml:"squares"`
	Template     string  `toml:"template"`
	OutputDir    string  `toml:"output_dir"`
	FilePattern  string  `toml:"file_pattern"`
	DefaultCount int     `toml:"default_count"`
	DPI          float64 `toml:"dpi"`
}

// Layout configures card geometry and colours. Colours are hex strings.
type Layout struct {
	CardTop     float64 `toml:"card_top"`
	CardScale   float64 `toml:"card_scale"`
	BorderWidth float64 `toml:"border_width"`
	Padding     float64 `toml:"padding"`
	Inset       float64 `toml:"inset"`
	TextColor   string  `toml:"text_color"`
	CellColor   string  `toml:"cell_color"`
	BorderColor string  `toml:"border_color"`
}

// Fonts configures tier sizes and the family fallback order.
type Fonts struct {
	Sizes    fonts.Sizes    `toml:"sizes"`
	Families []fonts.Family `toml:"families"`
}

// PDF configures the assembler.
type PDF struct {
	// Dir holds the card images; OutputDir receives the PDFs.
	Dir              string  `toml:"dir"`
	OutputDir        string  `toml:"output_dir"`
	PageSize         string  `toml:"page_size"`
	Margin           float64 `toml:"margin"`
	CompactMaxPixels int     `toml:"compact_max_pixels"`
	// Mode skips the interactive menu when set.
	Mode string `toml:"mode"`
}

// Default returns the built-in settings.
func Default() Config {
	l := render.DefaultLayout()
	return Config{
		Generate: Generate{
			Squares:      "bingo_squares.txt",
			Template:     "bingo_template.png",
			OutputDir:    "finals",
			FilePattern:  "bingo_card_%02d.png",
			DefaultCount: 12,
			DPI:          render.DPI,
		},
		Layout: Layout{
			CardTop:     l.CardTop,
			CardScale:   l.CardScale,
			BorderWidth: l.BorderWidth,
			Padding:     l.Padding,
			Inset:       l.Inset,
			TextColor:   "#000000",
			CellColor:   "#ffffff",
			BorderColor: "#000000",
		},
		Fonts: Fonts{
			Sizes:    fonts.DefaultSizes,
			Families: fonts.DefaultFamilies(),
		},
		PDF: PDF{
			Dir:              "finals",
			OutputDir:        ".",
			PageSize:         assemble.DefaultPageSize,
			Margin:           assemble.DefaultMargin,
			CompactMaxPixels: assemble.DefaultCompactMaxPixels,
		},
	}
}

// Load decodes path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Resolve loads path when given. Otherwise it loads DefaultFile if present
// and falls back to Default. The returned string names the file used, or
// is empty for the defaults.
func Resolve(path string) (Config, string, error) {
	if path != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		cfg, err := Load(DefaultFile)
		return cfg, DefaultFile, err
	}
	return Default(), "", nil
}

// Validate checks every section.
func (c Config) Validate() error {
	g := c.Generate
	if g.Squares == "" || g.Template == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "generate.squares and generate.template must be set")
	}
	if err := errors.ValidateDir(g.OutputDir); err != nil {
		return err
	}
	if err := errors.ValidateFilePattern(g.FilePattern); err != nil {
		return err
	}
	if err := errors.ValidateCardCount(g.DefaultCount); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "generate.default_count")
	}
	if g.DPI <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "generate.dpi must be positive, got %v", g.DPI)
	}

	if _, err := c.Layout.Render(); err != nil {
		return err
	}

	if err := c.Fonts.Sizes.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "fonts.sizes")
	}
	for i, f := range c.Fonts.Families {
		if f.Regular == "" || f.Bold == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "fonts.families[%d] needs both regular and bold files", i)
		}
	}

	if err := errors.ValidateDir(c.PDF.Dir); err != nil {
		return err
	}
	if err := errors.ValidateDir(c.PDF.OutputDir); err != nil {
		return err
	}
	if c.PDF.Mode != "" && !assemble.Mode(c.PDF.Mode).Valid() {
		return errors.New(errors.ErrCodeInvalidConfig, "pdf.mode must be full, compact or both, got %q", c.PDF.Mode)
	}
	opts := c.PDF.Options()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	return nil
}

// Render converts the section to a render.Layout.
func (l Layout) Render() (render.Layout, error) {
	out := render.Layout{
		CardTop:     l.CardTop,
		CardScale:   l.CardScale,
		BorderWidth: l.BorderWidth,
		Padding:     l.Padding,
		Inset:       l.Inset,
	}
	if l.CardTop < 0 || l.BorderWidth < 0 || l.Padding < 0 || l.Inset < 0 {
		return out, errors.New(errors.ErrCodeInvalidConfig, "layout distances must not be negative")
	}
	if l.CardScale <= 0 || l.CardScale > 1 {
		return out, errors.New(errors.ErrCodeInvalidConfig, "layout.card_scale must be in (0, 1], got %v", l.CardScale)
	}

	var err error
	if out.TextColor, err = parseColor("layout.text_color", l.TextColor); err != nil {
		return out, err
	}
	if out.CellColor, err = parseColor("layout.cell_color", l.CellColor); err != nil {
		return out, err
	}
	if out.BorderColor, err = parseColor("layout.border_color", l.BorderColor); err != nil {
		return out, err
	}
	return out, nil
}

func parseColor(key, hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", key)
	}
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Options converts the section to assemble.Options.
func (p PDF) Options() assemble.Options {
	return assemble.Options{
		PageSize:         p.PageSize,
		Margin:           p.Margin,
		CompactMaxPixels: p.CompactMaxPixels,
	}
}

// Sources returns the font fallback chain for the configured families.
func (f Fonts) Sources() []fonts.Source {
	return fonts.DefaultSources(f.Families)
}

// String renders the effective settings as TOML.
func (c Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
