package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apanov/nodemap/internal/document"
	"github.com/apanov/nodemap/internal/render"
	"github.com/apanov/nodemap/internal/ui"
)

func exportCmd() *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a map as PNG or Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.Load(args[0])
			if err != nil {
				return err
			}

			if output == "" {
				base := strings.TrimSuffix(args[0], "."+document.FileExt)
				output = base + "." + format
			}

			switch format {
			case "png":
				if err := render.WritePNG(doc, output, nil); err != nil {
					return err
				}
			case "dot":
				if err := os.WriteFile(output, []byte(doc.ExportDOT()), 0o644); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q (want png or dot)", format)
			}

			ui.Good.Printf("Exported %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "png", "Output format: png or dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (defaults next to the input)")
	return cmd
}
