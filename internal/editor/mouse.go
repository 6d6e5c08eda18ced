package editor

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleMouse routes terminal mouse events. The canvas grid starts one row
// below the title line, so screen Y is shifted before hit-testing.
func (e *Editor) handleMouse(ev tea.MouseEvent) (tea.Model, tea.Cmd) {
	if e.mode != modeCanvas && e.mode != modeNodeMenu && e.mode != modeCanvasMenu {
		// Modal prompts are keyboard-only.
		return e, nil
	}

	x := ev.X
	y := ev.Y - 1
	if y < 0 {
		return e, nil
	}
	e.cursorX = x
	e.cursorY = y

	switch ev.Action {
	case tea.MouseActionPress:
		// Any click dismisses an open context menu first.
		if e.mode == modeNodeMenu || e.mode == modeCanvasMenu {
			e.mode = modeCanvas
		}
		switch ev.Button {
		case tea.MouseButtonLeft:
			e.pressLeft(x, y, ev.Ctrl)
		case tea.MouseButtonRight:
			e.pressRight(x, y, ev.Ctrl)
		}

	case tea.MouseActionMotion:
		if e.drag != nil {
			e.drag.moved = true
		}

	case tea.MouseActionRelease:
		e.drop(x, y)
	}

	return e, nil
}

func (e *Editor) pressLeft(x, y int, ctrl bool) {
	e.errMsg = ""
	if id, ok := e.nodeAt(x, y); ok {
		e.clickNode(id, ctrl)
		e.drag = &dragSession{nodeID: id}
		return
	}
	// Empty canvas: plain click clears the selection, ctrl is ignored.
	if !ctrl {
		e.clearSelection()
	}
}

func (e *Editor) pressRight(x, y int, ctrl bool) {
	e.errMsg = ""
	if id, ok := e.nodeAt(x, y); ok {
		e.clickNode(id, ctrl)
		e.openNodeMenu(id, x, y)
		return
	}
	if !ctrl {
		e.clearSelection()
	}
	e.openCanvasMenu(x, y)
}

// drop finishes a drag: the session must exist and its node must still be
// around, anything else is rejected. The glyph center lands on the drop
// point.
func (e *Editor) drop(x, y int) {
	session := e.drag
	e.drag = nil
	if session == nil || !session.moved {
		return
	}
	if e.doc.Node(session.nodeID) == nil {
		return
	}
	e.moveNode(session.nodeID, x, y)
}

// nodeAt returns the topmost node whose glyph covers the cell, scanning
// ids in descending order so later nodes win overlaps.
func (e *Editor) nodeAt(x, y int) (int, bool) {
	ids := e.doc.IDs()
	for i := len(ids) - 1; i >= 0; i-- {
		n := e.doc.Node(ids[i])
		if y == n.Y && x >= n.X-1 && x <= n.X+1 {
			return ids[i], true
		}
	}
	return 0, false
}
