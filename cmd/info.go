package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apanov/nodemap/internal/document"
	"github.com/apanov/nodemap/internal/ui"
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show a summary of a map file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.Load(args[0])
			if err != nil {
				return err
			}

			ui.Banner("map info")

			fmt.Printf("  File:     %s\n", doc.Path)
			fmt.Printf("  Version:  %s", doc.FileVersion)
			if doc.FileVersion != document.Version {
				ui.Warn.Printf("  (running %s)", document.Version)
			}
			fmt.Println()
			fmt.Printf("  Nodes:    %d\n", len(doc.Nodes))
			fmt.Printf("  Edges:    %d\n\n", doc.EdgeCount())

			if len(doc.Nodes) == 0 {
				ui.Subtle.Println("  (empty map)")
				return nil
			}

			rows := make([][]string, 0, len(doc.Nodes))
			for _, id := range doc.IDs() {
				n := doc.Node(id)
				targets := doc.Targets(id)
				out := make([]string, len(targets))
				for i, trg := range targets {
					out[i] = "#" + strconv.Itoa(trg)
				}
				rows = append(rows, []string{
					"#" + strconv.Itoa(id),
					n.Text,
					fmt.Sprintf("(%d, %d)", n.X, n.Y),
					strings.Join(out, ", "),
				})
			}
			ui.Table([]string{"ID", "LABEL", "POSITION", "CONNECTS TO"}, rows)
			return nil
		},
	}
}
