package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/apanov/nodemap/internal/document"
	"github.com/apanov/nodemap/internal/ui"
)

var (
	titleStyle     = lipgloss.NewStyle().Reverse(true).Bold(true)
	statusStyle    = lipgloss.NewStyle().Background(lipgloss.Color("252")).Foreground(lipgloss.Color("0"))
	edgeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelSelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	menuStyle      = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252"))
	menuPickStyle  = lipgloss.NewStyle().Background(lipgloss.Color("252")).Foreground(lipgloss.Color("0"))
	aboutKeyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	aboutHeadStyle = lipgloss.NewStyle().Bold(true)
)

type cell struct{ x, y int }

// grid is one frame of the canvas: runes plus an optional style per cell.
type grid struct {
	w, h   int
	runes  [][]rune
	styles map[cell]lipgloss.Style
}

func newGrid(w, h int) *grid {
	rows := make([][]rune, h)
	for i := range rows {
		row := make([]rune, w)
		for j := range row {
			row[j] = ' '
		}
		rows[i] = row
	}
	return &grid{w: w, h: h, runes: rows, styles: make(map[cell]lipgloss.Style)}
}

func (g *grid) set(x, y int, r rune, style lipgloss.Style) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.runes[y][x] = r
	g.styles[cell{x, y}] = style
}

func (g *grid) setPlain(x, y int, r rune) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.runes[y][x] = r
	delete(g.styles, cell{x, y})
}

func (g *grid) render() string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			r := g.runes[y][x]
			if style, ok := g.styles[cell{x, y}]; ok {
				b.WriteString(style.Render(string(r)))
			} else {
				b.WriteRune(r)
			}
		}
		if y < g.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (e *Editor) View() string {
	var body string
	switch e.mode {
	case modeFile:
		body = e.fileView()
	case modeAbout:
		body = e.aboutView()
	default:
		body = e.canvasView()
	}

	title := titleStyle.Render(padLine(e.titleText(), e.width))
	status := statusStyle.Render(padLine(e.statusLine(), e.width))
	return title + "\n" + body + "\n" + status
}

// canvasView paints edges, labels, and node glyphs into a cell grid, then
// overlays any open context menu and the cursor.
func (e *Editor) canvasView() string {
	g := newGrid(e.width, e.canvasHeight())

	e.drawEdges(g)
	e.drawLabels(g)
	e.drawGlyphs(g)

	if e.drag != nil && e.drag.moved {
		if v, ok := e.views[e.drag.nodeID]; ok {
			r, style := v.glyph(e.isSelected(v.id))
			g.set(e.cursorX, e.cursorY, r, style)
		}
	}

	if e.mode == modeNodeMenu || e.mode == modeCanvasMenu {
		e.drawMenu(g)
	}

	if e.mode == modeCanvas && e.drag == nil {
		g.setPlain(e.cursorX, e.cursorY, '█')
	}

	return g.render()
}

// drawEdges draws a line between the glyph centers of every source/target
// pair in the edge map.
func (e *Editor) drawEdges(g *grid) {
	for _, src := range e.doc.IDs() {
		sn := e.doc.Node(src)
		for _, trg := range e.doc.Targets(src) {
			tn := e.doc.Node(trg)
			if tn == nil {
				continue
			}
			drawLine(g, sn.X, sn.Y, tn.X, tn.Y)
		}
	}
}

// drawLine plots a straight segment with a rune chosen from the dominant
// direction.
func drawLine(g *grid, x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	var r rune
	switch {
	case dy == 0:
		r = '─'
	case dx == 0:
		r = '│'
	case (x2-x1 > 0) == (y2-y1 > 0):
		r = '╲'
	default:
		r = '╱'
	}

	// Bresenham.
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	x, y := x1, y1
	for {
		g.set(x, y, r, edgeStyle)
		if x == x2 && y == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// drawGlyphs paints the three-cell circle widget of every node.
func (e *Editor) drawGlyphs(g *grid) {
	for _, id := range e.doc.IDs() {
		n := e.doc.Node(id)
		v := e.views[id]
		if v == nil {
			continue
		}
		selected := e.isSelected(id)
		r, style := v.glyph(selected)
		g.set(n.X-1, n.Y, '(', v.stroke)
		g.set(n.X, n.Y, r, style)
		g.set(n.X+1, n.Y, ')', v.stroke)
	}
}

// drawLabels renders each node's caption one row below the glyph: centered
// when it fits whole, left-aligned at the glyph's edge when truncated, bold
// white for selected nodes.
func (e *Editor) drawLabels(g *grid) {
	for _, id := range e.doc.IDs() {
		n := e.doc.Node(id)
		label, truncated := ui.TruncateLabel(n.Text)
		if label == "" {
			continue
		}

		style := labelStyle
		if e.isSelected(id) {
			style = labelSelStyle
		}

		x := n.X - len(label)/2
		if truncated {
			x = n.X - 1
		}
		y := n.Y + 1
		for i, r := range label {
			g.set(x+i, y, r, style)
		}
	}
}

func (e *Editor) drawMenu(g *grid) {
	w := 0
	for _, item := range e.menuItems {
		if len(item) > w {
			w = len(item)
		}
	}
	w += 2

	x := e.menuX
	y := e.menuY + 1
	if x+w > g.w {
		x = g.w - w
	}
	if x < 0 {
		x = 0
	}

	for i, item := range e.menuItems {
		style := menuStyle
		if i == e.menuIndex {
			style = menuPickStyle
		}
		line := " " + item + strings.Repeat(" ", w-len(item)-1)
		for j, r := range line {
			g.set(x+j, y+i, r, style)
		}
	}
}

// fileView replaces the canvas with the open/save prompt: a listing of
// document files in the browse directory above a path input.
func (e *Editor) fileView() string {
	var b strings.Builder

	switch e.fileOp {
	case fileOpOpen:
		b.WriteString("Open file - " + e.browseDir + "\n")
	case fileOpSaveAs:
		b.WriteString("Save as - " + e.browseDir + "\n")
	}
	b.WriteString(strings.Repeat("─", e.width) + "\n")

	maxFiles := e.canvasHeight() - 4
	if maxFiles < 1 {
		maxFiles = 1
	}
	start := 0
	if e.fileIndex >= maxFiles {
		start = e.fileIndex - maxFiles + 1
	}
	end := start + maxFiles
	if end > len(e.fileList) {
		end = len(e.fileList)
	}

	if len(e.fileList) == 0 {
		b.WriteString(aboutKeyStyle.Render("(no ."+document.FileExt+" files here)") + "\n")
	}
	for i := start; i < end; i++ {
		if i == e.fileIndex {
			b.WriteString("> " + e.fileList[i] + " <\n")
		} else {
			b.WriteString("  " + e.fileList[i] + "\n")
		}
	}

	b.WriteString(strings.Repeat("─", e.width) + "\n")
	before, after := e.inputHalves()
	b.WriteString("Filename: " + before + "█" + after)

	lines := strings.Count(b.String(), "\n") + 1
	for lines < e.canvasHeight() {
		b.WriteString("\n")
		lines++
	}
	return b.String()
}

// aboutView is the read-only About dialog plus the key reference.
func (e *Editor) aboutView() string {
	rows := []string{
		"",
		"  " + aboutHeadStyle.Render(AppName),
		"",
		"  Author    " + Author,
		"  Version   " + document.Version,
		"",
		"  " + aboutKeyStyle.Render("arrows/hjkl move cursor   enter select   t toggle select"),
		"  " + aboutKeyStyle.Render("a add node    r rename    x delete      esc clear selection"),
		"  " + aboutKeyStyle.Render("ctrl+j connect selected   ctrl+d disconnect selected"),
		"  " + aboutKeyStyle.Render("n new   o open   s/F2 save   S save as   q quit"),
		"",
		"  " + aboutKeyStyle.Render("Press any key to close."),
	}
	for len(rows) < e.canvasHeight() {
		rows = append(rows, "")
	}
	return strings.Join(rows[:e.canvasHeight()], "\n")
}

// statusLine folds the modal prompts into the bottom bar, the way the
// terminal editors in this family do.
func (e *Editor) statusLine() string {
	switch e.mode {
	case modeRename:
		before, after := e.inputHalves()
		return fmt.Sprintf("Enter new name for node (#%d): %s█%s | Enter=confirm, Esc=cancel",
			e.menuNode, before, after)
	case modeConfirmDelete:
		n := e.doc.Node(e.menuNode)
		text := ""
		if n != nil {
			text = n.Text
		}
		return fmt.Sprintf("Are you sure you want to delete node %q (id=%d)? (y/n)", text, e.menuNode)
	case modeConfirmQuit:
		name := e.doc.Path
		if name == "" {
			name = "[No Name]"
		}
		return fmt.Sprintf("Save changes to %q? (y=save, n=discard, Esc=cancel)", name)
	case modeConfirmVersion:
		return fmt.Sprintf("%q is created with another application version. Attempt to open it anyway? (y/n)", e.pendingPath)
	case modeNodeMenu, modeCanvasMenu:
		return "↑/↓=choose, Enter=apply, Esc=close"
	case modeFile:
		if e.fileOp == fileOpOpen {
			return "↑/↓=navigate, Enter=open, Esc=cancel"
		}
		return "Enter=save, Esc=cancel"
	}
	return e.statusText()
}

func padLine(s string, w int) string {
	if len([]rune(s)) >= w {
		return string([]rune(s)[:w])
	}
	return s + strings.Repeat(" ", w-len([]rune(s)))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
