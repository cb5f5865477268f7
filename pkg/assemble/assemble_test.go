package assemble

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/bingo/pkg/errors"
)

// writeCards writes n small card images into dir and returns their paths.
func writeCards(t *testing.T, dir string, n int) []string {
	t.Helper()
	var paths []string
	for i := 1; i <= n; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 85, 110))
		for y := 0; y < 110; y++ {
			for x := 0; x < 85; x++ {
				img.Set(x, y, color.RGBA{uint8(i * 20), 100, 200, 255})
			}
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(dir, fmt.Sprintf("bingo_card_%03d.png", i))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}
	return paths
}

// checkPDF verifies path is a PDF with wantPages page objects.
func checkPDF(t *testing.T, path string, wantPages int) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("%s is not a PDF", path)
	}
	if got := bytes.Count(data, []byte("<</Type /Page\n")); got != wantPages {
		t.Errorf("%s has %d page objects, want %d", filepath.Base(path), got, wantPages)
	}
}

func TestFindCards(t *testing.T) {
	dir := t.TempDir()
	writeCards(t, dir, 3)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := FindCards(dir, CardPattern)
	if err != nil {
		t.Fatalf("FindCards: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("got %d files, want 3", len(files))
	}
	for i, f := range files {
		if want := fmt.Sprintf("bingo_card_%03d.png", i+1); filepath.Base(f) != want {
			t.Errorf("files[%d] = %s, want %s", i, filepath.Base(f), want)
		}
	}
}

func TestFindCardsNumericOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"bingo_card_100.png", "bingo_card_99.png", "bingo_card_09.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	files, err := FindCards(dir, CardPattern)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, f := range files {
		got = append(got, filepath.Base(f))
	}
	want := []string{"bingo_card_09.png", "bingo_card_99.png", "bingo_card_100.png"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestFindCardsErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := FindCards(filepath.Join(dir, "missing"), CardPattern)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing dir: got %v, want FILE_NOT_FOUND", err)
	}

	_, err = FindCards(dir, CardPattern)
	if !errors.Is(err, errors.ErrCodeNoCards) {
		t.Errorf("empty dir: got %v, want NO_CARDS", err)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = FindCards(file, CardPattern)
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("file as dir: got %v, want INVALID_PATH", err)
	}
}

func TestFull(t *testing.T) {
	dir := t.TempDir()
	files := writeCards(t, dir, 3)
	out := filepath.Join(dir, FullOutput)

	report, err := Full(context.Background(), files, out, Options{})
	if err != nil {
		t.Fatalf("Full: %v", err)
	}
	if report.Pages != 3 || len(report.Placements) != 3 {
		t.Fatalf("pages %d placements %d, want 3 and 3", report.Pages, len(report.Placements))
	}
	checkPDF(t, out, 3)

	// Letter is 612x792pt; an 85x110 image scales by 7.2 to fill the width.
	p := report.Placements[0]
	if p.W != 612 || p.X != 0 {
		t.Errorf("placement %+v, want full width", p)
	}
	if p.Y+p.H/2 != 396 {
		t.Errorf("placement %+v not vertically centered", p)
	}
	for i, p := range report.Placements {
		if p.Page != i+1 {
			t.Errorf("placement %d on page %d", i, p.Page)
		}
	}
}

func TestCompact(t *testing.T) {
	tests := []struct {
		cards     int
		wantPages int
	}{
		{1, 1},
		{4, 1},
		{5, 2},
		{9, 3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d cards", tt.cards), func(t *testing.T) {
			dir := t.TempDir()
			files := writeCards(t, dir, tt.cards)
			out := filepath.Join(dir, CompactOutput)

			report, err := Compact(context.Background(), files, out, Options{})
			if err != nil {
				t.Fatalf("Compact: %v", err)
			}
			if report.Pages != tt.wantPages {
				t.Errorf("pages = %d, want %d", report.Pages, tt.wantPages)
			}
			perPage := map[int]int{}
			for _, p := range report.Placements {
				perPage[p.Page]++
			}
			for page := 1; page < report.Pages; page++ {
				if perPage[page] != 4 {
					t.Errorf("page %d holds %d cards, want 4", page, perPage[page])
				}
			}
			checkPDF(t, out, tt.wantPages)
		})
	}
}

func TestCompactGeometry(t *testing.T) {
	dir := t.TempDir()
	files := writeCards(t, dir, 4)

	report, err := Compact(context.Background(), files, filepath.Join(dir, CompactOutput), Options{})
	if err != nil {
		t.Fatal(err)
	}
	cw, ch := (612-3*DefaultMargin)/2, (792-3*DefaultMargin)/2
	want := []Placement{
		{X: 20, Y: 20},
		{X: 40 + cw, Y: 20},
		{X: 20, Y: 40 + ch},
		{X: 40 + cw, Y: 40 + ch},
	}
	for i, p := range report.Placements {
		if p.X != want[i].X || p.Y != want[i].Y || p.W != cw || p.H != ch {
			t.Errorf("placement %d = %+v, want at (%v, %v) size %vx%v", i, p, want[i].X, want[i].Y, cw, ch)
		}
		if wantLabel := fmt.Sprintf("Card %02d", i+1); p.Label != wantLabel {
			t.Errorf("label = %q, want %q", p.Label, wantLabel)
		}
	}
}

func TestBrokenCardSkipped(t *testing.T) {
	dir := t.TempDir()
	files := writeCards(t, dir, 5)
	if err := os.WriteFile(files[1], []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	full, err := Full(context.Background(), files, filepath.Join(dir, FullOutput), Options{})
	if err != nil {
		t.Fatalf("Full: %v", err)
	}
	if full.Pages != 4 || len(full.Failures) != 1 || full.Failures[0].Path != files[1] {
		t.Errorf("full: pages %d failures %+v", full.Pages, full.Failures)
	}
	checkPDF(t, full.Output, 4)
	if !errors.Is(full.Err(), errors.ErrCodePartial) {
		t.Errorf("Err() = %v, want partial failure", full.Err())
	}

	compact, err := Compact(context.Background(), files, filepath.Join(dir, CompactOutput), Options{})
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}
	if compact.Pages != 1 || len(compact.Placements) != 4 {
		t.Errorf("compact: pages %d placements %d, want 1 and 4", compact.Pages, len(compact.Placements))
	}
	checkPDF(t, compact.Output, 1)
	if got := compact.Placements[1].Label; got != "Card 03" {
		t.Errorf("label after skipped card = %q, want Card 03", got)
	}
}

func TestAllCardsBroken(t *testing.T) {
	dir := t.TempDir()
	files := writeCards(t, dir, 2)
	for _, f := range files {
		if err := os.WriteFile(f, []byte("garbage"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	out := filepath.Join(dir, FullOutput)

	report, err := Full(context.Background(), files, out, Options{})
	if !errors.Is(err, errors.ErrCodeNoCards) {
		t.Fatalf("got %v, want NO_CARDS", err)
	}
	if len(report.Failures) != 2 {
		t.Errorf("failures = %d, want 2", len(report.Failures))
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("pdf written despite no usable cards: %v", err)
	}

	if _, err := Compact(context.Background(), nil, out, Options{}); !errors.Is(err, errors.ErrCodeNoCards) {
		t.Errorf("no files: got %v, want NO_CARDS", err)
	}
}

func TestUnknownPageSize(t *testing.T) {
	dir := t.TempDir()
	files := writeCards(t, dir, 3)

	builders := map[string]func(context.Context, []string, string, Options) (*Report, error){
		"full":    Full,
		"compact": Compact,
	}
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			out := filepath.Join(dir, name+".pdf")
			report, err := build(context.Background(), files, out, Options{PageSize: "Lettr"})
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Fatalf("got report %+v err %v, want INVALID_CONFIG", report, err)
			}
			if _, err := os.Stat(out); !os.IsNotExist(err) {
				t.Errorf("pdf written for an unknown page size: %v", err)
			}
		})
	}
}

func TestReportErr(t *testing.T) {
	r := &Report{Placements: []Placement{{Path: "a.png"}}}
	if err := r.Err(); err != nil {
		t.Errorf("Err() = %v, want nil without failures", err)
	}
}

func TestAssembleCancelled(t *testing.T) {
	dir := t.TempDir()
	files := writeCards(t, dir, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Full(ctx, files, filepath.Join(dir, FullOutput), Options{}); err != context.Canceled {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	o := Options{}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.PageSize != "Letter" || o.Margin != 20 || o.Logger == nil {
		t.Errorf("defaults not applied: %+v", o)
	}

	bad := Options{Margin: -1}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("negative margin: got %v, want INVALID_CONFIG", err)
	}

	a4 := Options{PageSize: "A4"}
	if err := a4.ValidateAndSetDefaults(); err != nil {
		t.Errorf("A4: %v", err)
	}

	typo := Options{PageSize: "Lettr"}
	if err := typo.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown page size: got %v, want INVALID_CONFIG", err)
	}

	if !ModeBoth.Valid() || Mode("neither").Valid() {
		t.Error("Mode.Valid mismatch")
	}
}
