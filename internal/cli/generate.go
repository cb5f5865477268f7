package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bingo/pkg/config"
	"github.com/matzehuels/bingo/pkg/errors"
	"github.com/matzehuels/bingo/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
// Empty values fall back to the settings file.
type generateOpts struct {
	count     int    // cards to generate; prompts when unset
	seed      uint64 // composition seed; random when unset
	squares   string // square pool file
	template  string // card template image
	outputDir string // directory for card images
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate bingo card images",
		Long: `Generate randomized bingo cards as PNG images.

Squares are read from the pool file, separated by blank lines. The first
square is the free space and always sits in the center. Every other cell
gets a distinct square when the pool has at least 24 more, otherwise
squares repeat as evenly as possible.

Without --count you are asked how many cards to make. The seed of every
run is written to manifest.json next to the images; pass it back with
--seed to reproduce the same cards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("count") {
				if opts.count, err = promptCount(bufio.NewReader(c.In), c.Out, cfg.Generate.DefaultCount); err != nil {
					return err
				}
			}
			return c.runGenerate(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", 0, "number of cards (skips the prompt)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed for reproducible cards (0 = random)")
	cmd.Flags().StringVar(&opts.squares, "squares", "", "square pool file (default from config: bingo_squares.txt)")
	cmd.Flags().StringVar(&opts.template, "template", "", "card template image (default from config: bingo_template.png)")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "output directory (default from config: finals)")

	return cmd
}

// pipelineOptions merges flags over the settings file.
func (o generateOpts) pipelineOptions(cfg config.Config) (pipeline.Options, error) {
	layout, err := cfg.Layout.Render()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Squares:     cfg.Generate.Squares,
		Template:    cfg.Generate.Template,
		OutputDir:   cfg.Generate.OutputDir,
		FilePattern: cfg.Generate.FilePattern,
		Count:       o.count,
		Seed:        o.seed,
		DPI:         cfg.Generate.DPI,
		Layout:      layout,
		FontSizes:   cfg.Fonts.Sizes,
		FontSources: cfg.Fonts.Sources(),
	}
	if o.squares != "" {
		opts.Squares = o.squares
	}
	if o.template != "" {
		opts.Template = o.template
	}
	if o.outputDir != "" {
		opts.OutputDir = o.outputDir
	}
	return opts, nil
}

// runGenerate renders the cards behind a spinner and prints a summary.
func (c *CLI) runGenerate(ctx context.Context, cfg config.Config, gopts generateOpts) error {
	opts, err := gopts.pipelineOptions(cfg)
	if err != nil {
		return err
	}
	if err := errors.ValidateCardCount(opts.Count); err != nil {
		return err
	}
	opts.Logger = c.Logger

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Generating %d bingo cards...", opts.Count))
	opts.Progress = func(done, total int) {
		spinner.SetMessage(fmt.Sprintf("Rendered card %d of %d", done, total))
	}
	spinner.Start()

	result, err := c.newRunner().Generate(ctx, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return err
		}
		spinner.StopWithError(c.Out, "Card generation failed")
		return err
	}
	spinner.StopWithSuccess(c.Out, fmt.Sprintf("All %d bingo cards generated in %s", len(result.Files), StyleValue.Render(opts.OutputDir)))
	prog.done(fmt.Sprintf("Rendered %d cards", len(result.Files)))

	printKeyValue(c.Out, "Seed", strconv.FormatUint(result.Seed, 10))
	printKeyValue(c.Out, "Font", result.Font)
	printKeyValue(c.Out, "Run", result.RunID)
	if n := len(result.Files); n > 0 {
		printFile(c.Out, result.Files[0])
		if n > 1 {
			printFile(c.Out, result.Files[n-1])
		}
	}
	printFile(c.Out, result.Manifest)
	printDetail(c.Out, "Reproduce with: %s generate -n %d --seed %d", appName, len(result.Files), result.Seed)
	return nil
}
