package fonts

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/flopp/go-findfont"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Source is one attempt in the font resolution chain.
type Source interface {
	fmt.Stringer
	Load(sizes Sizes) (*Set, error)
}

// Family is a TrueType family given as a regular and a bold file. Each file
// is used as a path if it exists and is otherwise searched for in the system
// font directories.
type Family struct {
	Name    string `toml:"name"`
	Regular string `toml:"regular"`
	Bold    string `toml:"bold"`
}

// DefaultFamilies are tried in order before the embedded fonts.
func DefaultFamilies() []Family {
	return []Family{
		{Name: "Goudy Old Style", Regular: "GOUDOS.TTF", Bold: "GOUDOSB.TTF"},
		{Name: "Arial", Regular: "arial.ttf", Bold: "arialbd.ttf"},
	}
}

// DefaultSources builds the full chain: families (DefaultFamilies when nil),
// then the Go fonts, then the bitmap face.
func DefaultSources(families []Family) []Source {
	if families == nil {
		families = DefaultFamilies()
	}
	sources := make([]Source, 0, len(families)+2)
	for _, f := range families {
		sources = append(sources, f)
	}
	return append(sources, GoFonts(), Bitmap())
}

// Resolve returns the set from the first source that loads.
func Resolve(sources []Source, sizes Sizes, logger *log.Logger) (*Set, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := sizes.Validate(); err != nil {
		return nil, err
	}

	var errs []error
	for _, src := range sources {
		set, err := src.Load(sizes)
		if err != nil {
			logger.Debug("font unavailable, falling back", "family", src.String(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", src.String(), err))
			continue
		}
		logger.Debug("using font", "family", set.Name(), "resizable", set.Resizable())
		return set, nil
	}
	if len(errs) == 0 {
		return nil, errors.New("no font sources configured")
	}
	return nil, fmt.Errorf("no usable font: %w", errors.Join(errs...))
}

func (f Family) String() string {
	if f.Name != "" {
		return f.Name
	}
	return f.Regular
}

// Load reads both files and builds faces for every tier.
func (f Family) Load(sizes Sizes) (*Set, error) {
	regular, err := readFont(f.Regular)
	if err != nil {
		return nil, err
	}
	bold, err := readFont(f.Bold)
	if err != nil {
		return nil, err
	}
	return newTrueTypeSet(f.String(), regular, bold, sizes)
}

func readFont(name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("font file not set")
	}
	path := name
	if _, err := os.Stat(name); err != nil {
		if path, err = findfont.Find(name); err != nil {
			return nil, err
		}
	}
	return os.ReadFile(path)
}

type goFonts struct{}

// GoFonts returns the Go font family compiled into the binary.
func GoFonts() Source { return goFonts{} }

func (goFonts) String() string { return "Go" }

func (goFonts) Load(sizes Sizes) (*Set, error) {
	return newTrueTypeSet("Go", goregular.TTF, gobold.TTF, sizes)
}

type bitmap struct{}

// Bitmap returns the fixed 7x13 face. It always loads and ignores sizes.
func Bitmap() Source { return bitmap{} }

func (bitmap) String() string { return "basicfont 7x13" }

func (bitmap) Load(Sizes) (*Set, error) {
	f := newFace(basicfont.Face7x13)
	set := &Set{name: "basicfont 7x13"}
	for t := Large; t <= Small; t++ {
		set.normal[t] = f
		set.bold[t] = f
	}
	return set, nil
}

func newTrueTypeSet(name string, regular, bold []byte, sizes Sizes) (*Set, error) {
	regularFont, err := opentype.Parse(regular)
	if err != nil {
		return nil, fmt.Errorf("parse regular: %w", err)
	}
	boldFont, err := opentype.Parse(bold)
	if err != nil {
		return nil, fmt.Errorf("parse bold: %w", err)
	}

	set := &Set{name: name, resizable: true}
	for t := Large; t <= Small; t++ {
		if set.normal[t], err = newSizedFace(regularFont, sizes.Of(t)); err != nil {
			_ = set.Close()
			return nil, err
		}
		if set.bold[t], err = newSizedFace(boldFont, sizes.Of(t)); err != nil {
			_ = set.Close()
			return nil, err
		}
	}
	return set, nil
}

// newSizedFace builds a face whose em size is px pixels.
func newSizedFace(f *opentype.Font, px float64) (*Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("face at %vpx: %w", px, err)
	}
	return newFace(face), nil
}
