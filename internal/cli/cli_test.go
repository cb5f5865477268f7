package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/bingo/pkg/assemble"
	"github.com/matzehuels/bingo/pkg/config"
	"github.com/matzehuels/bingo/pkg/errors"
	"github.com/matzehuels/bingo/pkg/pipeline"
)

const testConfig = `
[generate]
squares = "squares.txt"
template = "template.png"
output_dir = "cards"

[layout]
card_top = 50.0

[fonts.sizes]
large = 24.0
medium = 20.0
small = 16.0

[pdf]
dir = "cards"
output_dir = "out"
`

// setupWorkspace creates a squares file, a template and a settings file in
// a temp dir and makes it the working directory.
func setupWorkspace(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	pool := "FREE\nSPACE\n\nCoffee spill\n\nLate again\n\nWi-Fi down\n\nReply all\n\nYou're on mute\n\nNew acronym"
	if err := os.WriteFile("squares.txt", []byte(pool), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := imaging.Save(imaging.New(600, 800, color.White), "template.png"); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(config.DefaultFile, []byte(testConfig), 0o644); err != nil {
		t.Fatal(err)
	}
}

// execute runs the root command with args and stdin input, returning what
// the command printed for the user.
func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), input, args...)
}

func executeContext(t *testing.T, ctx context.Context, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(&bytes.Buffer{}, log.InfoLevel)
	c.In = strings.NewReader(input)
	c.Out = &out

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	for _, name := range []string{"generate", "pdf", "config"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}

func TestGenerateAndPDF(t *testing.T) {
	setupWorkspace(t)

	out, err := execute(t, "", "generate", "--count", "5", "--seed", "42")
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "All 5 bingo cards generated") {
		t.Errorf("generate output = %q", out)
	}
	if !strings.Contains(out, "42") {
		t.Errorf("seed missing from summary: %q", out)
	}
	files, _ := filepath.Glob(filepath.Join("cards", "bingo_card_*.png"))
	if len(files) != 5 {
		t.Fatalf("got %d card files, want 5", len(files))
	}
	m, err := pipeline.ReadManifest(filepath.Join("cards", pipeline.ManifestFile))
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if m.Seed != 42 || len(m.Cards) != 5 {
		t.Errorf("manifest seed=%d cards=%d", m.Seed, len(m.Cards))
	}

	out, err = execute(t, "", "pdf", "--mode", "both")
	if err != nil {
		t.Fatalf("pdf: %v\n%s", err, out)
	}
	for _, name := range []string{assemble.FullOutput, assemble.CompactOutput} {
		if _, err := os.Stat(filepath.Join("out", name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
		if !strings.Contains(out, name) {
			t.Errorf("summary missing %s: %q", name, out)
		}
	}
}

func TestGenerateCancelled(t *testing.T) {
	setupWorkspace(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := executeContext(t, ctx, "", "generate", "-n", "2")
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if strings.Contains(out, "failed") {
		t.Errorf("cancelled run reported as a failure: %q", out)
	}
}

func TestPDFReportsSkippedCards(t *testing.T) {
	setupWorkspace(t)
	if _, err := execute(t, "", "generate", "-n", "3", "--seed", "5"); err != nil {
		t.Fatal(err)
	}
	broken := filepath.Join("cards", "bingo_card_02.png")
	if err := os.WriteFile(broken, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "pdf", "-m", "full")
	if err != nil {
		t.Fatalf("pdf: %v\n%s", err, out)
	}
	if !strings.Contains(out, "1 of 3 cards skipped") {
		t.Errorf("skip summary missing: %q", out)
	}
	if !strings.Contains(out, "bingo_card_02.png") {
		t.Errorf("skipped file not named: %q", out)
	}
}

func TestGeneratePromptsForCount(t *testing.T) {
	setupWorkspace(t)

	out, err := execute(t, "2\n", "generate", "--seed", "1")
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "How many bingo cards would you like to generate? (default: 12): ") {
		t.Errorf("count prompt missing: %q", out)
	}
	files, _ := filepath.Glob(filepath.Join("cards", "bingo_card_*.png"))
	if len(files) != 2 {
		t.Errorf("got %d card files, want 2", len(files))
	}
}

func TestGenerateInvalidCount(t *testing.T) {
	setupWorkspace(t)

	_, err := execute(t, "", "generate", "--count", "0")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestGenerateMissingSquares(t *testing.T) {
	setupWorkspace(t)

	_, err := execute(t, "", "generate", "--count", "1", "--squares", "nope.txt")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestPDFMenuPrompt(t *testing.T) {
	setupWorkspace(t)
	if _, err := execute(t, "", "generate", "-n", "1", "--seed", "3"); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "9\n2\n", "pdf")
	if err != nil {
		t.Fatalf("pdf: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Invalid choice") {
		t.Errorf("invalid choice not reported: %q", out)
	}
	if _, err := os.Stat(filepath.Join("out", assemble.CompactOutput)); err != nil {
		t.Errorf("compact PDF not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join("out", assemble.FullOutput)); err == nil {
		t.Error("full PDF written for a compact choice")
	}
}

func TestPDFExit(t *testing.T) {
	setupWorkspace(t)

	out, err := execute(t, "4\n", "pdf")
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !strings.Contains(out, "Goodbye!") {
		t.Errorf("exit message missing: %q", out)
	}
}

func TestPDFErrors(t *testing.T) {
	setupWorkspace(t)

	tests := []struct {
		name string
		args []string
		code errors.Code
		msg  string
	}{
		{"missing folder", []string{"pdf", "-m", "full"}, errors.ErrCodeFileNotFound, "not found"},
		{"bad mode", []string{"pdf", "-m", "poster"}, errors.ErrCodeInvalidInput, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
			if tt.msg != "" && !strings.Contains(out, tt.msg) {
				t.Errorf("output = %q, want %q", out, tt.msg)
			}
		})
	}

	if err := os.Mkdir("cards", 0o755); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "", "pdf", "-m", "compact")
	if !errors.Is(err, errors.ErrCodeNoCards) {
		t.Errorf("err = %v, want NO_CARDS", err)
	}
	if !strings.Contains(out, "No bingo card files found") {
		t.Errorf("output = %q", out)
	}
}

func TestConfigRaw(t *testing.T) {
	setupWorkspace(t)

	out, err := execute(t, "", "config", "--raw")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	var cfg config.Config
	if _, err := toml.Decode(out, &cfg); err != nil {
		t.Fatalf("--raw output is not TOML: %v\n%s", err, out)
	}
	if cfg.Layout.CardTop != 50 || cfg.PDF.OutputDir != "out" {
		t.Errorf("round trip lost settings: %+v", cfg)
	}
}

func TestConfigShow(t *testing.T) {
	setupWorkspace(t)

	out, err := execute(t, "", "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, want := range []string{config.DefaultFile, "squares.txt", "template.png", "ask"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q: %q", want, out)
		}
	}
}

func TestConfigFlagMissingFile(t *testing.T) {
	setupWorkspace(t)

	_, err := execute(t, "", "--config", "missing.toml", "config")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}
