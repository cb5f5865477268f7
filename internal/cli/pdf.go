package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bingo/pkg/assemble"
	"github.com/matzehuels/bingo/pkg/config"
	"github.com/matzehuels/bingo/pkg/errors"
	"github.com/matzehuels/bingo/pkg/pipeline"
)

// pdfCommand creates the pdf command.
func (c *CLI) pdfCommand() *cobra.Command {
	var (
		mode   string
		dir    string
		output string
	)

	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Assemble generated cards into printable PDFs",
		Long: `Assemble the generated card images into printable PDFs.

Full size writes bingo_cards_printable.pdf with one card per page. Compact
writes bingo_cards_compact.pdf with four labelled cards per page. Cards
that cannot be read are reported and skipped.

Without --mode a menu asks which layout to produce.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if mode == "" {
				mode = cfg.PDF.Mode
			}

			var m assemble.Mode
			if mode != "" {
				m = assemble.Mode(mode)
				if !m.Valid() {
					return errors.New(errors.ErrCodeInvalidInput, "invalid mode %q (must be one of: full, compact, both)", mode)
				}
			} else {
				var exit bool
				if m, exit, err = c.chooseMode(); err != nil {
					return err
				}
				if exit {
					printInfo(c.Out, "Goodbye!")
					return nil
				}
			}

			opts := pipeline.AssembleOptions{
				Dir:         cfg.PDF.Dir,
				FilePattern: cfg.Generate.FilePattern,
				OutputDir:   cfg.PDF.OutputDir,
				Mode:        m,
				PDF:         cfg.PDF.Options(),
			}
			if dir != "" {
				opts.Dir = dir
			}
			if output != "" {
				opts.OutputDir = output
			}
			return c.runPDF(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "layout: full, compact or both (skips the menu)")
	cmd.Flags().StringVar(&dir, "dir", "", "directory with card images (default from config: finals)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "directory for the PDFs (default: current directory)")

	return cmd
}

// chooseMode shows the bubbletea menu on a terminal and a numbered line
// prompt otherwise.
func (c *CLI) chooseMode() (assemble.Mode, bool, error) {
	if isTerminal(c.In, c.Out) {
		return runModeMenu(c.In, c.Out)
	}
	return promptMode(bufio.NewReader(c.In), c.Out)
}

// runPDF assembles the PDFs behind a spinner and prints a summary table.
func (c *CLI) runPDF(ctx context.Context, opts pipeline.AssembleOptions) error {
	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	spinner := newSpinner(ctx, os.Stderr, "Creating PDF...")
	spinner.Start()
	reports, err := c.newRunner().Assemble(ctx, opts)
	if err != nil {
		switch {
		case spinner.Cancelled():
			spinner.Stop()
		case errors.Is(err, errors.ErrCodeFileNotFound):
			spinner.StopWithError(c.Out, fmt.Sprintf("Card folder %s not found, run 'bingo generate' first", opts.Dir))
		case errors.Is(err, errors.ErrCodeNoCards):
			spinner.StopWithError(c.Out, fmt.Sprintf("No bingo card files found in %s", opts.Dir))
		default:
			spinner.StopWithError(c.Out, "PDF creation failed")
		}
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Assembled %d PDFs", len(reports)))

	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{
			filepath.Base(r.Output),
			strconv.Itoa(r.Pages),
			strconv.Itoa(len(r.Placements)),
			strconv.Itoa(len(r.Failures)),
		})
	}
	fmt.Fprintln(c.Out, renderTable([]string{"PDF", "Pages", "Cards", "Skipped"}, rows))

	for _, r := range reports {
		printSuccess(c.Out, "PDF created: %s", StyleValue.Render(r.Output))
		pe, ok := r.Err().(*errors.PartialError)
		if !ok {
			continue
		}
		printWarning(c.Out, "%d of %d cards skipped", pe.Len(), pe.Total)
		for _, f := range r.Failures {
			printDetail(c.Out, "%s: %v", filepath.Base(f.Path), f.Err)
		}
	}
	return nil
}

// loadedMode is the mode a settings file asks for, for display.
func loadedMode(cfg config.Config) string {
	if cfg.PDF.Mode == "" {
		return "ask"
	}
	return cfg.PDF.Mode
}
