package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/apanov/nodemap/internal/config"
	"github.com/apanov/nodemap/internal/ui"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the active configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.Load()

			ui.Banner("configuration")
			fmt.Printf("  Config dir:  %s\n\n", config.ConfigDir())

			ui.Table([]string{"KEY", "VALUE"}, [][]string{
				{"ui.color", fmt.Sprintf("%v", cfg.UI.Color)},
				{"editor.confirm_delete", fmt.Sprintf("%v", cfg.Editor.ConfirmDelete)},
				{"editor.mouse", fmt.Sprintf("%v", cfg.Editor.MouseEnabled)},
				{"browse.dir", cfg.BrowseDir()},
			})
		},
	}

	cmd.AddCommand(configInitCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(config.Default()); err != nil {
				return err
			}
			ui.Good.Printf("Wrote %s\n", filepath.Join(config.ConfigDir(), "config.toml"))
			return nil
		},
	}
}
