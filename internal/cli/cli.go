// Package cli implements the bingo command-line interface.
//
// This package provides the two bingo workflows as cobra commands. The CLI
// is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - generate: Compose random cards and write them as PNGs
//   - pdf: Lay the generated PNGs out as printable PDFs
//   - config: Print the effective settings
//
// Both workflows ask for missing input interactively. Flags skip the
// prompts for scripted use.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports which font family was picked and why others were skipped.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bingo/pkg/buildinfo"
	"github.com/matzehuels/bingo/pkg/config"
	"github.com/matzehuels/bingo/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "bingo"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// In and Out carry interactive prompts. They default to the process's
	// standard streams.
	In  io.Reader
	Out io.Writer

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Bingo generates printable bingo cards",
		Long:         `Bingo draws randomized 5x5 bingo cards from a pool of squares, letters them onto a template image and lays them out as printable PDFs.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (default: ./"+config.DefaultFile+" if present)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.pdfCommand())
	root.AddCommand(c.configCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// loadConfig resolves the --config flag, logging which file was used.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, used, err := config.Resolve(c.configPath)
	if err != nil {
		return cfg, err
	}
	if used != "" {
		c.Logger.Debug("loaded config", "file", used)
	}
	return cfg, nil
}
