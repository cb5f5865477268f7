package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bingo/pkg/config"
	"github.com/matzehuels/bingo/pkg/fonts"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective settings",
		Long: `Show the effective settings after merging the settings file over the
defaults, and the font family cards would be lettered with.

Use --raw to print the settings as TOML, ready to save as bingo.toml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, used, err := config.Resolve(c.configPath)
			if err != nil {
				return err
			}
			if raw {
				fmt.Fprint(c.Out, cfg.String())
				return nil
			}
			return c.showConfig(cfg, used)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the settings as TOML")
	return cmd
}

func (c *CLI) showConfig(cfg config.Config, used string) error {
	source := used
	if source == "" {
		source = "built-in defaults"
	}
	set, err := fonts.Resolve(cfg.Fonts.Sources(), cfg.Fonts.Sizes, c.Logger)
	if err != nil {
		return err
	}
	defer set.Close()

	fmt.Fprintln(c.Out, StyleTitle.Render("Settings"))
	printKeyValue(c.Out, "Source", source)
	printKeyValue(c.Out, "Squares", cfg.Generate.Squares)
	printKeyValue(c.Out, "Template", cfg.Generate.Template)
	printKeyValue(c.Out, "Output", cfg.Generate.OutputDir)
	printKeyValue(c.Out, "Cards", fmt.Sprintf("%d by default", cfg.Generate.DefaultCount))
	printKeyValue(c.Out, "Font", set.Name())
	if !set.Resizable() {
		printWarning(c.Out, "No scalable font found; long squares may overflow their cells")
	}
	printKeyValue(c.Out, "Page size", cfg.PDF.PageSize)
	printKeyValue(c.Out, "PDF mode", loadedMode(cfg))
	return nil
}
