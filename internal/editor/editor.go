// Package editor implements the interactive canvas: a full-screen
// bubbletea program that owns the document, one view per node, the
// selection set, and the unsaved-changes flag. All document mutations made
// here go through document methods; the editor only coordinates.
package editor

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/apanov/nodemap/internal/config"
	"github.com/apanov/nodemap/internal/document"
	"github.com/apanov/nodemap/internal/palette"
)

const (
	// AppName, Author and the document version make up the About dialog.
	AppName = "NodeMap"
	Author  = "Artem Panov"
)

type mode int

const (
	modeCanvas mode = iota
	modeNodeMenu
	modeCanvasMenu
	modeRename
	modeConfirmDelete
	modeConfirmQuit
	modeConfirmVersion
	modeFile
	modeAbout
)

type fileOp int

const (
	fileOpOpen fileOp = iota
	fileOpSaveAs
)

// dragSession carries the identity of the node being dragged. The drop
// handler validates it by type and by the node still existing, not by a
// payload marker string.
type dragSession struct {
	nodeID int
	moved  bool
}

// Editor is the bubbletea model for one open document.
type Editor struct {
	doc       *document.Document
	views     map[int]*nodeView
	selection map[int]struct{}
	unsaved   bool

	cfg    *config.Config
	choose palette.Chooser

	width  int
	height int

	cursorX int
	cursorY int

	mode   mode
	status string
	errMsg string

	// context menu state
	menuItems []string
	menuIndex int
	menuNode  int
	menuX     int
	menuY     int

	// text input for rename and file prompts; the cursor is a rune index
	input    string
	inputPos int

	fileOp        fileOp
	fileList      []string
	fileIndex     int
	browseDir     string
	quitAfterSave bool

	// document held back by the version-mismatch prompt
	pending     *document.Document
	pendingPath string

	drag *dragSession
}

// New builds an editor around a document. A nil chooser selects the default
// deterministic palette assignment.
func New(doc *document.Document, cfg *config.Config, choose palette.Chooser) *Editor {
	e := &Editor{
		doc:       doc,
		views:     make(map[int]*nodeView),
		selection: make(map[int]struct{}),
		cfg:       cfg,
		choose:    choose,
		width:     80,
		height:    24,
		status:    "Ready.",
		browseDir: cfg.BrowseDir(),
		menuNode:  -1,
	}
	if doc.Path != "" {
		e.browseDir = filepath.Dir(doc.Path)
	}
	e.initializeViews()
	return e
}

// Run starts the event loop in the alternate screen, with mouse reporting
// when the config allows it.
func (e *Editor) Run() error {
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if e.cfg.Editor.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(e, opts...)
	_, err := p.Run()
	return err
}

// initializeViews rebuilds the id->view mapping from the document.
func (e *Editor) initializeViews() {
	e.views = make(map[int]*nodeView, len(e.doc.Nodes))
	for id := range e.doc.Nodes {
		e.views[id] = newNodeView(id, e.choose)
	}
}

func (e *Editor) Init() tea.Cmd {
	return nil
}

func (e *Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width = msg.Width
		e.height = msg.Height
		e.clampCursor()
		return e, nil

	case tea.MouseMsg:
		return e.handleMouse(tea.MouseEvent(msg))

	case tea.KeyMsg:
		return e.handleKey(msg)
	}
	return e, nil
}

func (e *Editor) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch e.mode {
	case modeCanvas:
		return e.handleCanvasKey(msg)
	case modeNodeMenu, modeCanvasMenu:
		return e.handleMenuKey(msg)
	case modeRename:
		return e.handleRenameKey(msg)
	case modeConfirmDelete:
		return e.handleConfirmDeleteKey(msg)
	case modeConfirmQuit:
		return e.handleConfirmQuitKey(msg)
	case modeConfirmVersion:
		return e.handleConfirmVersionKey(msg)
	case modeFile:
		return e.handleFileKey(msg)
	case modeAbout:
		e.mode = modeCanvas
		return e, nil
	}
	return e, nil
}

func (e *Editor) handleCanvasKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e.errMsg = ""
	switch msg.String() {
	case "up", "k":
		e.cursorY--
	case "down", "j":
		e.cursorY++
	case "left", "h":
		e.cursorX--
	case "right", "l":
		e.cursorX++
	case "enter":
		if id, ok := e.nodeAt(e.cursorX, e.cursorY); ok {
			e.clickNode(id, false)
		}
	case "t":
		// Keyboard stand-in for ctrl+click: toggle membership.
		if id, ok := e.nodeAt(e.cursorX, e.cursorY); ok {
			e.clickNode(id, true)
		}
	case "esc":
		e.clearSelection()
	case "a":
		e.addNodeAt(e.cursorX, e.cursorY)
	case "r":
		if id, ok := e.actionTarget(); ok {
			e.startRename(id)
		}
	case "x", "delete":
		if id, ok := e.actionTarget(); ok {
			e.startDelete(id)
		}
	case "ctrl+j":
		e.connectSelected()
	case "ctrl+d":
		e.disconnectSelected()
	case "n":
		e.newDocument()
	case "o":
		e.startFilePrompt(fileOpOpen)
	case "s", "f2":
		return e, e.save()
	case "S":
		e.startFilePrompt(fileOpSaveAs)
	case "q", "ctrl+q":
		return e, e.requestQuit()
	case "?":
		e.mode = modeAbout
	}
	e.clampCursor()
	return e, nil
}

// actionTarget picks the node a keyboard action applies to: the node under
// the cursor, or the single selected node.
func (e *Editor) actionTarget() (int, bool) {
	if id, ok := e.nodeAt(e.cursorX, e.cursorY); ok {
		return id, true
	}
	if len(e.selection) == 1 {
		for id := range e.selection {
			return id, true
		}
	}
	return 0, false
}

func (e *Editor) clampCursor() {
	if e.cursorX < 0 {
		e.cursorX = 0
	}
	if e.cursorY < 0 {
		e.cursorY = 0
	}
	if e.width > 0 && e.cursorX >= e.width {
		e.cursorX = e.width - 1
	}
	maxY := e.canvasHeight() - 1
	if maxY >= 0 && e.cursorY > maxY {
		e.cursorY = maxY
	}
}

// canvasHeight is the grid height left after the title and status lines.
func (e *Editor) canvasHeight() int {
	h := e.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

// ── Selection ──

func (e *Editor) isSelected(id int) bool {
	_, ok := e.selection[id]
	return ok
}

func (e *Editor) addToSelection(id int) {
	e.selection[id] = struct{}{}
	e.updateSelectionStatus()
}

func (e *Editor) removeFromSelection(id int) {
	delete(e.selection, id)
	e.updateSelectionStatus()
}

func (e *Editor) clearSelection() {
	e.selection = make(map[int]struct{})
	e.updateSelectionStatus()
}

func (e *Editor) selectedIDs() []int {
	ids := make([]int, 0, len(e.selection))
	for id := range e.selection {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// clickNode applies the click rules: without the modifier the click clears
// everything first, then the node's membership is toggled.
func (e *Editor) clickNode(id int, ctrl bool) {
	if !ctrl {
		e.clearSelection()
	}
	if e.isSelected(id) {
		e.removeFromSelection(id)
	} else {
		e.addToSelection(id)
	}
}

func (e *Editor) updateSelectionStatus() {
	if len(e.selection) == 0 {
		e.status = ""
		return
	}
	ids := e.selectedIDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("#%d", id)
	}
	e.status = fmt.Sprintf("Selected nodes (%d total): %s.", len(ids), strings.Join(parts, ", "))
}

// ── Mutations ──

func (e *Editor) markUnsaved() {
	e.unsaved = true
}

func (e *Editor) addNodeAt(x, y int) {
	id := e.doc.AddNode(x, y)
	e.views[id] = newNodeView(id, e.choose)
	e.markUnsaved()
}

func (e *Editor) deleteNode(id int) {
	n := e.doc.Node(id)
	if n == nil {
		return
	}
	if err := e.doc.RemoveNode(id); err != nil {
		e.errMsg = err.Error()
		return
	}
	delete(e.views, id)
	e.removeFromSelection(id)
	e.markUnsaved()
}

func (e *Editor) connectSelected() {
	if len(e.selection) < 2 {
		e.status = "Select at least two nodes to connect."
		return
	}
	e.doc.Connect(e.selectedIDs())
	e.markUnsaved()
}

func (e *Editor) disconnectSelected() {
	if len(e.selection) < 2 {
		e.status = "Select at least two nodes to disconnect."
		return
	}
	e.doc.Disconnect(e.selectedIDs())
	e.markUnsaved()
}

func (e *Editor) moveNode(id, x, y int) {
	if err := e.doc.MoveNode(id, x, y); err != nil {
		e.errMsg = err.Error()
		return
	}
	e.markUnsaved()
	e.status = fmt.Sprintf("Moved node %d to (%d, %d).", id, x, y)
}

// ── Rename / delete dialogs ──

func (e *Editor) startRename(id int) {
	n := e.doc.Node(id)
	if n == nil {
		return
	}
	e.mode = modeRename
	e.menuNode = id
	e.input = n.Text
	e.inputPos = len([]rune(e.input))
}

func (e *Editor) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		e.mode = modeCanvas
	case "enter":
		// Empty input leaves the name unchanged, like a cancelled prompt.
		if e.input != "" {
			if err := e.doc.Rename(e.menuNode, e.input); err == nil {
				e.markUnsaved()
			}
		}
		e.mode = modeCanvas
	default:
		e.editInput(msg)
	}
	return e, nil
}

func (e *Editor) startDelete(id int) {
	if e.doc.Node(id) == nil {
		return
	}
	if !e.cfg.Editor.ConfirmDelete {
		e.deleteNode(id)
		return
	}
	e.mode = modeConfirmDelete
	e.menuNode = id
}

func (e *Editor) handleConfirmDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		e.deleteNode(e.menuNode)
		e.mode = modeCanvas
	case "n", "N", "esc":
		e.mode = modeCanvas
	}
	return e, nil
}

// ── Shell actions ──

func (e *Editor) newDocument() {
	e.doc = document.New()
	e.initializeViews()
	e.clearSelection()
	e.unsaved = false
	e.status = "Ready."
}

// OpenDocument hands the editor an already-loaded document, with the same
// version-mismatch confirmation the interactive open uses. The CLI uses it
// for the startup file argument so the file is parsed once.
func (e *Editor) OpenDocument(doc *document.Document) {
	if doc.FileVersion != document.Version {
		e.pending = doc
		e.pendingPath = doc.Path
		e.mode = modeConfirmVersion
		return
	}
	e.adoptDocument(doc)
}

// openPath loads a file. Failures leave the current document untouched; a
// foreign version holds the loaded document behind a confirmation prompt.
func (e *Editor) openPath(path string) {
	loaded, err := document.Load(path)
	if err != nil {
		e.errMsg = err.Error()
		return
	}
	e.OpenDocument(loaded)
}

func (e *Editor) adoptDocument(doc *document.Document) {
	e.doc = doc
	e.initializeViews()
	e.clearSelection()
	e.unsaved = false
	if doc.Path != "" {
		e.browseDir = filepath.Dir(doc.Path)
	}
	e.status = fmt.Sprintf("Opened file: %s", doc.Path)
}

func (e *Editor) handleConfirmVersionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		e.adoptDocument(e.pending)
		e.pending = nil
		e.pendingPath = ""
		e.mode = modeCanvas
	case "n", "N", "esc":
		e.pending = nil
		e.pendingPath = ""
		e.mode = modeCanvas
	}
	return e, nil
}

// save writes to the bound path, or falls through to Save As when the
// document has never been saved. Returns a quit command when a save was the
// last step of a confirmed exit.
func (e *Editor) save() tea.Cmd {
	if e.doc.Path == "" {
		e.startFilePrompt(fileOpSaveAs)
		return nil
	}
	if err := e.doc.Save(e.doc.Path); err != nil {
		e.errMsg = err.Error()
		e.quitAfterSave = false
		return nil
	}
	e.unsaved = false
	e.status = fmt.Sprintf("Saved file: %s", e.doc.Path)
	if e.quitAfterSave {
		e.quitAfterSave = false
		return tea.Quit
	}
	return nil
}

// requestQuit starts the exit flow: quit immediately when clean, otherwise
// ask Yes/No/Cancel.
func (e *Editor) requestQuit() tea.Cmd {
	if !e.unsaved {
		return tea.Quit
	}
	e.mode = modeConfirmQuit
	return nil
}

func (e *Editor) handleConfirmQuitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		// Save, then quit; a cancelled Save As aborts the exit.
		e.mode = modeCanvas
		e.quitAfterSave = true
		return e, e.save()
	case "n", "N":
		return e, tea.Quit
	case "esc", "c", "C":
		e.mode = modeCanvas
	}
	return e, nil
}

// ── Context menus ──

const (
	menuRename  = "Rename..."
	menuDelete  = "Delete"
	menuAddNode = "Add node..."
)

func (e *Editor) openNodeMenu(id, x, y int) {
	e.mode = modeNodeMenu
	e.menuItems = []string{menuRename, menuDelete}
	e.menuIndex = 0
	e.menuNode = id
	e.menuX = x
	e.menuY = y
}

func (e *Editor) openCanvasMenu(x, y int) {
	e.mode = modeCanvasMenu
	e.menuItems = []string{menuAddNode}
	e.menuIndex = 0
	e.menuNode = -1
	e.menuX = x
	e.menuY = y
}

func (e *Editor) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		e.mode = modeCanvas
	case "up", "k":
		if e.menuIndex > 0 {
			e.menuIndex--
		}
	case "down", "j":
		if e.menuIndex < len(e.menuItems)-1 {
			e.menuIndex++
		}
	case "enter":
		item := e.menuItems[e.menuIndex]
		e.mode = modeCanvas
		e.runMenuItem(item)
	}
	return e, nil
}

func (e *Editor) runMenuItem(item string) {
	switch item {
	case menuRename:
		e.startRename(e.menuNode)
	case menuDelete:
		e.startDelete(e.menuNode)
	case menuAddNode:
		e.addNodeAt(e.menuX, e.menuY)
	}
}

// ── Text input editing (rename and file prompts share it) ──

// editInput operates on runes, not bytes: the cursor position counts
// characters, so editing around multibyte labels never splits a character.
func (e *Editor) editInput(msg tea.KeyMsg) {
	runes := []rune(e.input)
	switch msg.String() {
	case "left":
		if e.inputPos > 0 {
			e.inputPos--
		}
	case "right":
		if e.inputPos < len(runes) {
			e.inputPos++
		}
	case "home", "ctrl+a":
		e.inputPos = 0
	case "end", "ctrl+e":
		e.inputPos = len(runes)
	case "backspace":
		if e.inputPos > 0 {
			e.input = string(runes[:e.inputPos-1]) + string(runes[e.inputPos:])
			e.inputPos--
		}
	case "ctrl+u":
		e.input = string(runes[e.inputPos:])
		e.inputPos = 0
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			ins := msg.Runes
			if msg.Type == tea.KeySpace {
				ins = []rune{' '}
			}
			e.input = string(runes[:e.inputPos]) + string(ins) + string(runes[e.inputPos:])
			e.inputPos += len(ins)
		}
	}
}

// inputHalves splits the prompt text at the cursor for rendering.
func (e *Editor) inputHalves() (string, string) {
	runes := []rune(e.input)
	return string(runes[:e.inputPos]), string(runes[e.inputPos:])
}

// ── Title / status ──

func (e *Editor) titleText() string {
	fileInfo := "[No Name]"
	if e.doc.Path != "" {
		fileInfo = fmt.Sprintf("%s (%s)", filepath.Base(e.doc.Path), e.doc.Path)
	}
	marker := ""
	if e.unsaved {
		marker = "* "
	}
	return fmt.Sprintf("%s%s - %s", marker, fileInfo, AppName)
}

func (e *Editor) statusText() string {
	if e.errMsg != "" {
		return "ERROR: " + e.errMsg
	}
	if e.status == "" {
		return "Ready."
	}
	return e.status
}
