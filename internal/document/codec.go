package document

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// On-disk schema. Node ids are object keys, so they travel as strings and
// are converted back to integers on load. A node missing from "edges" has
// no outgoing edges.
type fileNode struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Text string `json:"text"`
}

type fileDocument struct {
	Version string              `json:"version"`
	Nodes   map[string]fileNode `json:"nodes"`
	Edges   map[string][]int    `json:"edges"`
}

// Load reads a document file. A version mismatch is not an error at this
// layer: the caller inspects FileVersion and decides whether to keep the
// result. Unreadable or malformed files return an error and no document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fd fileDocument
	if err := json.Unmarshal(data, &fd); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	d := New()
	d.FileVersion = fd.Version
	d.Path = path

	for key, fn := range fd.Nodes {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("parse %s: bad node id %q", path, key)
		}
		d.Nodes[id] = &Node{X: fn.X, Y: fn.Y, Text: fn.Text}
	}
	for key, targets := range fd.Edges {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("parse %s: bad edge id %q", path, key)
		}
		set := make(map[int]struct{}, len(targets))
		for _, trg := range targets {
			set[trg] = struct{}{}
		}
		d.Edges[id] = set
	}

	return d, nil
}

// Save writes the document to path, binds the document to it, and stamps
// the running application version. Edge sets serialize as unordered lists;
// they are sorted here only to keep the output stable.
func (d *Document) Save(path string) error {
	fd := fileDocument{
		Version: Version,
		Nodes:   make(map[string]fileNode, len(d.Nodes)),
		Edges:   make(map[string][]int, len(d.Edges)),
	}
	for id, n := range d.Nodes {
		fd.Nodes[strconv.Itoa(id)] = fileNode{X: n.X, Y: n.Y, Text: n.Text}
	}
	for id, targets := range d.Edges {
		list := make([]int, 0, len(targets))
		for trg := range targets {
			list = append(list, trg)
		}
		sort.Ints(list)
		fd.Edges[strconv.Itoa(id)] = list
	}

	data, err := json.Marshal(fd)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	d.Path = path
	d.FileVersion = Version
	return nil
}

// EnsureExt appends the document extension unless the path already carries
// it (case-insensitive).
func EnsureExt(path string) string {
	if strings.HasSuffix(strings.ToLower(path), "."+FileExt) {
		return path
	}
	if !strings.HasSuffix(path, ".") {
		path += "."
	}
	return path + FileExt
}

// ExportDOT returns the document in Graphviz DOT format, nodes sorted by id
// for deterministic output.
func (d *Document) ExportDOT() string {
	var b strings.Builder
	b.WriteString("digraph nodemap {\n")
	b.WriteString("  node [shape=circle];\n\n")

	for _, id := range d.IDs() {
		n := d.Nodes[id]
		b.WriteString(fmt.Sprintf("  n%d [label=%q, pos=\"%d,%d\"];\n", id, n.Text, n.X, n.Y))
	}

	b.WriteString("\n")
	for _, id := range d.IDs() {
		for _, trg := range d.Targets(id) {
			b.WriteString(fmt.Sprintf("  n%d -> n%d;\n", id, trg))
		}
	}

	b.WriteString("}\n")
	return b.String()
}
