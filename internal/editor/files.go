package editor

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/apanov/nodemap/internal/document"
)

// startFilePrompt opens the path prompt, the terminal stand-in for the
// native file picker. Browsing starts where the last open/save happened.
func (e *Editor) startFilePrompt(op fileOp) {
	e.mode = modeFile
	e.fileOp = op
	e.input = ""
	e.inputPos = 0
	e.fileList = listDocuments(e.browseDir)
	e.fileIndex = -1
	if op == fileOpOpen && len(e.fileList) > 0 {
		e.fileIndex = 0
		e.input = e.fileList[0]
		e.inputPos = len([]rune(e.input))
	}
	if op == fileOpSaveAs && e.doc.Path != "" {
		e.input = filepath.Base(e.doc.Path)
		e.inputPos = len([]rune(e.input))
	}
}

// listDocuments returns the document files in a directory, sorted.
func listDocuments(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), "."+document.FileExt) {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files
}

func (e *Editor) handleFileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Cancelling a Save As that was part of a confirmed exit aborts
		// the exit.
		e.quitAfterSave = false
		e.mode = modeCanvas
		return e, nil

	case "up":
		if e.fileOp == fileOpOpen && len(e.fileList) > 0 && e.fileIndex > 0 {
			e.fileIndex--
			e.input = e.fileList[e.fileIndex]
			e.inputPos = len([]rune(e.input))
		}
		return e, nil

	case "down":
		if e.fileOp == fileOpOpen && e.fileIndex < len(e.fileList)-1 {
			e.fileIndex++
			e.input = e.fileList[e.fileIndex]
			e.inputPos = len([]rune(e.input))
		}
		return e, nil

	case "enter":
		return e.commitFilePrompt()

	default:
		e.editInput(msg)
		// Typing a name by hand detaches the list selection.
		e.fileIndex = -1
		return e, nil
	}
}

func (e *Editor) commitFilePrompt() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(e.input)
	if name == "" {
		return e, nil
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.browseDir, path)
	}

	switch e.fileOp {
	case fileOpOpen:
		e.mode = modeCanvas
		e.openPath(path)
		return e, nil

	case fileOpSaveAs:
		path = document.EnsureExt(path)
		e.mode = modeCanvas
		if err := e.doc.Save(path); err != nil {
			e.errMsg = err.Error()
			e.quitAfterSave = false
			return e, nil
		}
		e.unsaved = false
		e.browseDir = filepath.Dir(path)
		e.status = "Saved file: " + path
		if e.quitAfterSave {
			e.quitAfterSave = false
			return e, tea.Quit
		}
		return e, nil
	}
	return e, nil
}
