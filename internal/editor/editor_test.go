package editor

import (
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/apanov/nodemap/internal/config"
	"github.com/apanov/nodemap/internal/document"
)

func newTestEditor() *Editor {
	cfg := config.Default()
	cfg.Browse.Dir = os.TempDir()
	e := New(document.New(), cfg, nil)
	e.width = 80
	e.height = 24
	return e
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+j":
		return tea.KeyMsg{Type: tea.KeyCtrlJ}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// press delivers a mouse press at world canvas coordinates.
func press(e *Editor, btn tea.MouseButton, x, y int, ctrl bool) {
	e.handleMouse(tea.MouseEvent{X: x, Y: y + 1, Action: tea.MouseActionPress, Button: btn, Ctrl: ctrl})
}

func motion(e *Editor, x, y int) {
	e.handleMouse(tea.MouseEvent{X: x, Y: y + 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
}

func release(e *Editor, x, y int) {
	e.handleMouse(tea.MouseEvent{X: x, Y: y + 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestClickSelects(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	e.addNodeAt(30, 5)
	e.unsaved = false

	press(e, tea.MouseButtonLeft, 10, 5, false)
	if !e.isSelected(1) {
		t.Fatal("click should select node 1")
	}

	press(e, tea.MouseButtonLeft, 30, 5, false)
	if e.isSelected(1) || !e.isSelected(2) {
		t.Error("plain click should move the selection to node 2")
	}
}

func TestCtrlClickTogglesMembership(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	e.addNodeAt(30, 5)

	press(e, tea.MouseButtonLeft, 10, 5, false)
	press(e, tea.MouseButtonLeft, 30, 5, true)
	if !e.isSelected(1) || !e.isSelected(2) {
		t.Fatal("ctrl+click should extend the selection")
	}

	press(e, tea.MouseButtonLeft, 30, 5, true)
	if e.isSelected(2) {
		t.Error("ctrl+click on a selected node should deselect it")
	}
	if !e.isSelected(1) {
		t.Error("node 1 should remain selected")
	}
}

func TestBackgroundClickClearsSelection(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	press(e, tea.MouseButtonLeft, 10, 5, false)

	press(e, tea.MouseButtonLeft, 60, 15, false)
	if len(e.selection) != 0 {
		t.Error("background click should clear the selection")
	}

	press(e, tea.MouseButtonLeft, 10, 5, false)
	press(e, tea.MouseButtonLeft, 60, 15, true)
	if !e.isSelected(1) {
		t.Error("ctrl+click on background should keep the selection")
	}
}

func TestGlyphHitBox(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)

	for _, x := range []int{9, 10, 11} {
		if id, ok := e.nodeAt(x, 5); !ok || id != 1 {
			t.Errorf("cell (%d, 5) should hit node 1", x)
		}
	}
	if _, ok := e.nodeAt(12, 5); ok {
		t.Error("cell (12, 5) is outside the glyph")
	}
	if _, ok := e.nodeAt(10, 6); ok {
		t.Error("the label row is not part of the hit box")
	}
}

func TestDragMovesNodeCenterToDropPoint(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	e.unsaved = false

	press(e, tea.MouseButtonLeft, 10, 5, false)
	motion(e, 20, 8)
	release(e, 40, 12)

	n := e.doc.Node(1)
	if n.X != 40 || n.Y != 12 {
		t.Fatalf("expected node centered at drop point (40, 12), got (%d, %d)", n.X, n.Y)
	}
	if !e.unsaved {
		t.Error("moving a node must mark the document unsaved")
	}
	if e.statusText() != "Moved node 1 to (40, 12)." {
		t.Errorf("unexpected drag status: %q", e.statusText())
	}
}

func TestReleaseWithoutMotionDoesNotMove(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	e.unsaved = false

	press(e, tea.MouseButtonLeft, 10, 5, false)
	release(e, 10, 5)

	n := e.doc.Node(1)
	if n.X != 10 || n.Y != 5 {
		t.Errorf("click without motion must not move the node, got (%d, %d)", n.X, n.Y)
	}
	if e.unsaved {
		t.Error("a plain click is not a mutation")
	}
}

func TestDropWithoutSessionIsRejected(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	e.unsaved = false

	// Release with no drag session in flight: nothing to validate, no-op.
	release(e, 40, 12)
	if e.unsaved {
		t.Error("an unsolicited drop must be ignored")
	}
	n := e.doc.Node(1)
	if n.X != 10 || n.Y != 5 {
		t.Error("node must not move on an unsolicited drop")
	}
}

func TestConnectDisconnectSelected(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	e.addNodeAt(30, 5)
	e.addNodeAt(20, 10)
	e.addToSelection(1)
	e.addToSelection(2)
	e.addToSelection(3)

	e.handleCanvasKey(key("ctrl+j"))
	if e.doc.EdgeCount() != 6 {
		t.Fatalf("expected 6 edges after connect, got %d", e.doc.EdgeCount())
	}

	e.handleCanvasKey(key("ctrl+d"))
	if e.doc.EdgeCount() != 0 {
		t.Fatalf("expected 0 edges after disconnect, got %d", e.doc.EdgeCount())
	}
}

func TestConnectNeedsTwoNodes(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	e.addToSelection(1)
	e.unsaved = false

	e.connectSelected()
	if e.doc.EdgeCount() != 0 || e.unsaved {
		t.Error("connecting a single node should do nothing")
	}
}

func TestRenameFlow(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	e.unsaved = false

	e.startRename(1)
	if e.mode != modeRename {
		t.Fatal("expected rename mode")
	}
	if e.input != "Node 1" {
		t.Fatalf("rename prompt should start from the current label, got %q", e.input)
	}

	// Wipe the prefill and type a new name.
	for range "Node 1" {
		e.handleRenameKey(key("backspace"))
	}
	for _, r := range "edge router" {
		e.handleRenameKey(key(string(r)))
	}
	e.handleRenameKey(key("enter"))

	if got := e.doc.Node(1).Text; got != "edge router" {
		t.Errorf("expected label 'edge router', got %q", got)
	}
	if !e.unsaved {
		t.Error("rename must mark the document unsaved")
	}
	if e.mode != modeCanvas {
		t.Error("rename prompt should close on enter")
	}
}

func TestRenameEmptyLeavesLabel(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	e.unsaved = false

	e.startRename(1)
	for range "Node 1" {
		e.handleRenameKey(key("backspace"))
	}
	e.handleRenameKey(key("enter"))

	if got := e.doc.Node(1).Text; got != "Node 1" {
		t.Errorf("empty input must leave the label, got %q", got)
	}
	if e.unsaved {
		t.Error("an empty rename is not a mutation")
	}
}

func TestRenameEscapeCancels(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	e.unsaved = false

	e.startRename(1)
	e.handleRenameKey(key("esc"))

	if got := e.doc.Node(1).Text; got != "Node 1" {
		t.Errorf("cancelled rename must leave the label, got %q", got)
	}
	if e.unsaved {
		t.Error("a cancelled rename is not a mutation")
	}
}

func TestRenameMultibyteLabel(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	e.doc.Rename(1, "aé")

	e.startRename(1)
	if e.inputPos != 2 {
		t.Fatalf("cursor should count runes, got %d", e.inputPos)
	}
	e.handleRenameKey(key("backspace"))
	e.handleRenameKey(key("enter"))

	got := e.doc.Node(1).Text
	if !utf8.ValidString(got) {
		t.Fatalf("label is invalid UTF-8 after backspace: %q", got)
	}
	if got != "a" {
		t.Errorf("expected label 'a', got %q", got)
	}
}

func TestEditInputMultibyteCursor(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	e.doc.Rename(1, "héllo")

	e.startRename(1)
	for i := 0; i < 4; i++ {
		e.handleRenameKey(tea.KeyMsg{Type: tea.KeyLeft})
	}
	e.handleRenameKey(key("x"))
	e.handleRenameKey(key("enter"))

	if got := e.doc.Node(1).Text; got != "hxéllo" {
		t.Errorf("expected 'hxéllo', got %q", got)
	}
}

func TestDeleteFlowCascades(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	e.addNodeAt(30, 5)
	e.doc.Connect([]int{1, 2})
	e.unsaved = false

	e.startDelete(2)
	if e.mode != modeConfirmDelete {
		t.Fatal("expected delete confirmation")
	}
	e.handleConfirmDeleteKey(key("y"))

	if e.doc.Node(2) != nil {
		t.Error("node 2 should be deleted")
	}
	if _, ok := e.views[2]; ok {
		t.Error("view for node 2 should be destroyed")
	}
	if e.doc.HasEdge(1, 2) {
		t.Error("edges targeting the deleted node must be scrubbed")
	}
	if !e.unsaved {
		t.Error("delete must mark the document unsaved")
	}
}

func TestDeleteDeclined(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	e.unsaved = false

	e.startDelete(1)
	e.handleConfirmDeleteKey(key("n"))

	if e.doc.Node(1) == nil {
		t.Error("declining must keep the node")
	}
	if e.unsaved {
		t.Error("a declined delete is not a mutation")
	}
}

func TestDeleteWithoutConfirmSetting(t *testing.T) {
	e := newTestEditor()
	e.cfg.Editor.ConfirmDelete = false
	e.addNodeAt(10, 5)

	e.startDelete(1)
	if e.mode != modeCanvas {
		t.Error("confirm_delete=false should skip the prompt")
	}
	if e.doc.Node(1) != nil {
		t.Error("node should be deleted immediately")
	}
}

func TestContextMenusViaRightClick(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)

	press(e, tea.MouseButtonRight, 10, 5, false)
	if e.mode != modeNodeMenu {
		t.Fatal("right click on a node should open the node menu")
	}
	if !e.isSelected(1) {
		t.Error("right click selects the node too")
	}
	if e.menuItems[0] != menuRename || e.menuItems[1] != menuDelete {
		t.Errorf("unexpected node menu: %v", e.menuItems)
	}

	e.handleMenuKey(key("esc"))
	press(e, tea.MouseButtonRight, 50, 12, false)
	if e.mode != modeCanvasMenu {
		t.Fatal("right click on empty canvas should open the canvas menu")
	}
	e.handleMenuKey(key("enter")) // Add node...
	if e.doc.Node(2) == nil {
		t.Fatal("canvas menu should add a node")
	}
	n := e.doc.Node(2)
	if n.X != 50 || n.Y != 12 {
		t.Errorf("node should be created at the click position, got (%d, %d)", n.X, n.Y)
	}
	if n.Text != "Node 2" {
		t.Errorf("expected default label 'Node 2', got %q", n.Text)
	}
}

func TestDirtyFlagLifecycle(t *testing.T) {
	e := newTestEditor()
	if e.unsaved {
		t.Fatal("fresh editor must start clean")
	}

	e.addNodeAt(10, 5)
	if !e.unsaved {
		t.Fatal("adding a node must set the dirty flag")
	}

	path := filepath.Join(t.TempDir(), "map.json")
	if err := e.doc.Save(path); err != nil {
		t.Fatal(err)
	}
	e.unsaved = true
	if cmd := e.save(); cmd != nil {
		t.Fatal("plain save should not quit")
	}
	if e.unsaved {
		t.Error("successful save must clear the dirty flag")
	}

	e.addNodeAt(20, 5)
	if !e.unsaved {
		t.Error("mutation after save must set the dirty flag again")
	}

	e.newDocument()
	if e.unsaved {
		t.Error("a fresh document is clean")
	}
}

func TestSaveWithoutPathPrompts(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)

	if cmd := e.save(); cmd != nil {
		t.Fatal("save without a bound path must not quit")
	}
	if e.mode != modeFile || e.fileOp != fileOpSaveAs {
		t.Error("save without a bound path should delegate to Save As")
	}
}

func TestSaveAsAppendsExtension(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	dir := t.TempDir()
	e.browseDir = dir

	e.startFilePrompt(fileOpSaveAs)
	for _, r := range "mymap" {
		e.handleFileKey(key(string(r)))
	}
	e.handleFileKey(key("enter"))

	want := filepath.Join(dir, "mymap.json")
	if e.doc.Path != want {
		t.Fatalf("expected bound path %q, got %q", want, e.doc.Path)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}
	if e.unsaved {
		t.Error("save as must clear the dirty flag")
	}
	if e.browseDir != dir {
		t.Errorf("browse dir should follow the saved file, got %q", e.browseDir)
	}
}

func TestOpenMalformedKeepsDocument(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)

	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{broken"), 0o644)

	before := e.doc
	e.openPath(path)

	if e.doc != before {
		t.Fatal("a failed open must leave the current document untouched")
	}
	if e.errMsg == "" {
		t.Error("a failed open should surface an error")
	}
}

func TestOpenVersionMismatchFlow(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	e.unsaved = false

	path := filepath.Join(t.TempDir(), "old.json")
	raw := `{"version":"v9.9.9","nodes":{"7":{"x":1,"y":2,"text":"legacy"}},"edges":{}}`
	os.WriteFile(path, []byte(raw), 0o644)

	e.openPath(path)
	if e.mode != modeConfirmVersion {
		t.Fatal("foreign version should prompt before adopting")
	}
	if e.doc.Node(7) != nil {
		t.Fatal("document must not change before confirmation")
	}

	// Decline: no state change.
	e.handleConfirmVersionKey(key("n"))
	if e.doc.Node(7) != nil || e.pending != nil {
		t.Fatal("declining must discard the pending document")
	}

	// Accept on a second attempt.
	e.openPath(path)
	e.handleConfirmVersionKey(key("y"))
	if e.doc.Node(7) == nil {
		t.Fatal("accepting must adopt the loaded document")
	}
	if e.unsaved {
		t.Error("a fresh load is clean")
	}
	if _, ok := e.views[7]; !ok {
		t.Error("views must be rebuilt for the loaded nodes")
	}
}

func TestOpenDocumentAdoptsOrPrompts(t *testing.T) {
	e := newTestEditor()

	path := filepath.Join(t.TempDir(), "old.json")
	raw := `{"version":"v9.9.9","nodes":{"7":{"x":1,"y":2,"text":"legacy"}},"edges":{}}`
	os.WriteFile(path, []byte(raw), 0o644)
	loaded, err := document.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	// A foreign version is parked behind the prompt, not re-read from disk.
	os.Remove(path)
	e.OpenDocument(loaded)
	if e.mode != modeConfirmVersion {
		t.Fatal("foreign version should prompt before adopting")
	}
	e.handleConfirmVersionKey(key("y"))
	if e.doc.Node(7) == nil {
		t.Fatal("accepting must adopt the handed-over document")
	}

	// A matching version is adopted directly.
	fresh := document.New()
	fresh.AddNode(3, 4)
	e.OpenDocument(fresh)
	if e.mode != modeCanvas || e.doc != fresh {
		t.Error("matching version should adopt without a prompt")
	}
}

func TestQuitFlow(t *testing.T) {
	e := newTestEditor()
	if !isQuit(e.requestQuit()) {
		t.Fatal("clean editor should quit immediately")
	}

	e.addNodeAt(10, 5)
	if cmd := e.requestQuit(); cmd != nil {
		t.Fatal("dirty editor must prompt, not quit")
	}
	if e.mode != modeConfirmQuit {
		t.Fatal("expected quit confirmation")
	}

	// Cancel.
	e.handleConfirmQuitKey(key("esc"))
	if e.mode != modeCanvas {
		t.Error("escape should abort the exit")
	}

	// Discard.
	e.requestQuit()
	_, cmd := e.handleConfirmQuitKey(key("n"))
	if !isQuit(cmd) {
		t.Error("'n' should discard and quit")
	}

	// Save first; the document has a bound path, so this quits directly.
	path := filepath.Join(t.TempDir(), "map.json")
	if err := e.doc.Save(path); err != nil {
		t.Fatal(err)
	}
	e.unsaved = true
	e.requestQuit()
	_, cmd = e.handleConfirmQuitKey(key("y"))
	if !isQuit(cmd) {
		t.Error("'y' with a bound path should save and quit")
	}
	if e.unsaved {
		t.Error("the exit save must clear the dirty flag")
	}
}

func TestQuitSaveAsCancelAbortsExit(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)

	e.requestQuit()
	_, cmd := e.handleConfirmQuitKey(key("y"))
	if cmd != nil {
		t.Fatal("unbound document should fall into Save As, not quit yet")
	}
	if e.mode != modeFile {
		t.Fatal("expected the Save As prompt")
	}

	_, cmd = e.handleFileKey(key("esc"))
	if cmd != nil {
		t.Error("cancelling the save must abort the exit")
	}
	if e.quitAfterSave {
		t.Error("the pending exit must be forgotten")
	}
}

func TestQuitSaveAsCompletesExit(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	dir := t.TempDir()
	e.browseDir = dir

	e.requestQuit()
	e.handleConfirmQuitKey(key("y"))
	for _, r := range "final" {
		e.handleFileKey(key(string(r)))
	}
	_, cmd := e.handleFileKey(key("enter"))
	if !isQuit(cmd) {
		t.Fatal("completing the exit save should quit")
	}
	if _, err := os.Stat(filepath.Join(dir, "final.json")); err != nil {
		t.Errorf("exit save should write the file: %v", err)
	}
}

func TestSelectionStatusLine(t *testing.T) {
	e := newTestEditor()
	e.addNodeAt(10, 5)
	e.addNodeAt(30, 5)
	e.addToSelection(2)
	e.addToSelection(1)

	want := "Selected nodes (2 total): #1, #2."
	if got := e.statusText(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	e.clearSelection()
	if got := e.statusText(); got != "Ready." {
		t.Errorf("expected 'Ready.' after clearing, got %q", got)
	}
}

func TestTitleText(t *testing.T) {
	e := newTestEditor()
	if got := e.titleText(); got != "[No Name] - NodeMap" {
		t.Errorf("unexpected title: %q", got)
	}

	e.addNodeAt(10, 5)
	if got := e.titleText(); got != "* [No Name] - NodeMap" {
		t.Errorf("dirty marker missing: %q", got)
	}

	path := filepath.Join(t.TempDir(), "net.json")
	if err := e.doc.Save(path); err != nil {
		t.Fatal(err)
	}
	e.unsaved = false
	want := "net.json (" + path + ") - NodeMap"
	if got := e.titleText(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestOpenPromptListsDocuments(t *testing.T) {
	e := newTestEditor()
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "b.json"), []byte("{}"), 0o644)
	os.WriteFile(filepath.Join(dir, "a.json"), []byte("{}"), 0o644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
	e.browseDir = dir

	e.startFilePrompt(fileOpOpen)
	if len(e.fileList) != 2 || e.fileList[0] != "a.json" || e.fileList[1] != "b.json" {
		t.Fatalf("expected sorted document listing, got %v", e.fileList)
	}
	if e.input != "a.json" {
		t.Errorf("the first entry should be preselected, got %q", e.input)
	}
}
