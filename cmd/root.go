package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/apanov/nodemap/internal/config"
	"github.com/apanov/nodemap/internal/document"
	"github.com/apanov/nodemap/internal/editor"
	"github.com/apanov/nodemap/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "nodemap [file]",
	Short: "nodemap — a node graph editor for the terminal",
	Long: ui.Brand.Sprint("nodemap") + " — edit directed node graphs on a canvas\n" +
		ui.Subtle.Sprint("Place nodes, connect them, and save the map as JSON"),
	Version: document.Version,
	Args:    cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !config.Load().UI.Color {
			color.NoColor = true
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var loaded *document.Document
		if len(args) == 1 {
			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("cannot open %q: %w", path, err)
			}
			doc, err := document.Load(path)
			if err != nil {
				return err
			}
			loaded = doc
		}

		cfg := config.Load()
		ed := editor.New(document.New(), cfg, nil)
		if loaded != nil {
			// OpenDocument adopts directly, or asks first when the file
			// carries a foreign version.
			ed.OpenDocument(loaded)
		}
		return ed.Run()
	},
}

func init() {
	rootCmd.SetVersionTemplate("nodemap {{ .Version }}\n")

	rootCmd.AddCommand(
		infoCmd(),
		exportCmd(),
		configCmd(),
		completionCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
