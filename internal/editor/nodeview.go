package editor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/apanov/nodemap/internal/palette"
)

// Glyph runes for the circular node widget. The glyph spans three cells,
// (circle), which is also its hit box.
const (
	glyphCircle         = '○'
	glyphCircleSelected = '●'
)

// nodeView is the visual wrapper around one document node. Position lives
// in the document; the view only owns its stroke color, chosen once at
// creation. Selection state is derived from the editor's selection set,
// never stored here.
type nodeView struct {
	id     int
	color  palette.Color
	stroke lipgloss.Style
	dimmed lipgloss.Style
}

func newNodeView(id int, choose palette.Chooser) *nodeView {
	c := palette.For(id, choose)
	return &nodeView{
		id:     id,
		color:  c,
		stroke: lipgloss.NewStyle().Foreground(lipgloss.Color(c.ANSI)),
		dimmed: lipgloss.NewStyle().Foreground(lipgloss.Color(c.DimANSI)),
	}
}

// glyph returns the circle rune and its style for the current selection
// state: stroke color with the background fill normally, the dimmed color
// standing in for the dimmed fill when selected.
func (v *nodeView) glyph(selected bool) (rune, lipgloss.Style) {
	if selected {
		return glyphCircleSelected, v.dimmed
	}
	return glyphCircle, v.stroke
}
