package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Output colors for the command-line surface (the editor styles its own
// cells with lipgloss).
var (
	Brand  = color.New(color.FgHiCyan, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// MaxLabelLen caps rendered node captions; longer labels get an ellipsis.
// Shared by the canvas and the PNG renderer so both surfaces cut labels
// identically.
const MaxLabelLen = 32

// TruncateLabel applies the caption limit and reports whether the label
// was cut.
func TruncateLabel(s string) (string, bool) {
	runes := []rune(s)
	if len(runes) > MaxLabelLen-3 {
		return string(runes[:MaxLabelLen-4]) + "...", true
	}
	return s, false
}

// Banner prints the branded section header used by the CLI subcommands.
func Banner(subtitle string) {
	fmt.Printf("%s — %s\n\n", Brand.Sprint("nodemap"), subtitle)
}

// Table prints a simple aligned table.
func Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += fmt.Sprintf("%-*s  ", widths[i], h)
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Println(headerLine)
	Subtle.Println(sepLine)

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += fmt.Sprintf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Println(line)
	}
}
