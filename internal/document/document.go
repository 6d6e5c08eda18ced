// Package document holds the in-memory model of one node map: the node
// table, the directed edge sets, and the JSON codec used by open/save.
// Every mutation goes through a method here so the node/edge consistency
// invariant is enforced in one place.
package document

import (
	"fmt"
	"sort"
)

// Version is written into every saved document and compared on open.
const Version = "v0.0.0"

// FileExt is the document file extension (without the dot).
const FileExt = "json"

// Node is one labeled point of the graph. Position is in canvas cells.
type Node struct {
	X    int
	Y    int
	Text string
}

// Document is the complete state of one graph: nodes keyed by id, directed
// adjacency sets keyed by source id, the version string read from disk, and
// the file path the document is bound to ("" for an unsaved document).
type Document struct {
	Nodes map[int]*Node
	Edges map[int]map[int]struct{}

	// FileVersion is the version string the document was loaded with.
	// It equals Version for fresh documents and anything the file said
	// for loaded ones; the editor prompts when they differ.
	FileVersion string

	// Path is the bound file path, or "" when the document has never
	// been saved.
	Path string
}

// New returns an empty document with no nodes or edges.
func New() *Document {
	return &Document{
		Nodes:       make(map[int]*Node),
		Edges:       make(map[int]map[int]struct{}),
		FileVersion: Version,
	}
}

// NextID returns one greater than the current maximum node id, or 1 for an
// empty document. Single-threaded edits only, like everything else here.
func (d *Document) NextID() int {
	maxID := 0
	for id := range d.Nodes {
		if id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// AddNode creates a node at (x, y) with an auto-generated id, the default
// "Node <id>" label, and an empty outgoing edge set. Returns the new id.
func (d *Document) AddNode(x, y int) int {
	id := d.NextID()
	d.Nodes[id] = &Node{X: x, Y: y, Text: fmt.Sprintf("Node %d", id)}
	d.Edges[id] = make(map[int]struct{})
	return id
}

// RemoveNode deletes a node, its outgoing edge set, and every edge that
// targets it. No edge references the id once this returns.
func (d *Document) RemoveNode(id int) error {
	if _, ok := d.Nodes[id]; !ok {
		return fmt.Errorf("node not found: %d", id)
	}
	delete(d.Nodes, id)
	delete(d.Edges, id)
	for _, targets := range d.Edges {
		delete(targets, id)
	}
	return nil
}

// Rename replaces a node's label.
func (d *Document) Rename(id int, text string) error {
	n, ok := d.Nodes[id]
	if !ok {
		return fmt.Errorf("node not found: %d", id)
	}
	n.Text = text
	return nil
}

// MoveNode writes a new position. This is the only write path for node
// coordinates.
func (d *Document) MoveNode(id, x, y int) error {
	n, ok := d.Nodes[id]
	if !ok {
		return fmt.Errorf("node not found: %d", id)
	}
	n.X = x
	n.Y = y
	return nil
}

// Node returns a node by id, or nil.
func (d *Document) Node(id int) *Node {
	return d.Nodes[id]
}

// Connect adds a directed edge for every ordered pair of distinct ids, so a
// three-node selection produces all six edges of the clique. Ids without a
// node entry are skipped; repeating the call changes nothing.
func (d *Document) Connect(ids []int) {
	for _, src := range ids {
		if _, ok := d.Nodes[src]; !ok {
			continue
		}
		for _, trg := range ids {
			if src == trg {
				continue
			}
			if _, ok := d.Nodes[trg]; !ok {
				continue
			}
			if d.Edges[src] == nil {
				d.Edges[src] = make(map[int]struct{})
			}
			d.Edges[src][trg] = struct{}{}
		}
	}
}

// Disconnect removes the edge for every ordered pair of distinct ids.
// Absent edges are a silent no-op.
func (d *Document) Disconnect(ids []int) {
	for _, src := range ids {
		targets, ok := d.Edges[src]
		if !ok {
			continue
		}
		for _, trg := range ids {
			if src != trg {
				delete(targets, trg)
			}
		}
	}
}

// HasEdge reports whether the directed edge src->trg exists.
func (d *Document) HasEdge(src, trg int) bool {
	_, ok := d.Edges[src][trg]
	return ok
}

// EdgeCount returns the total number of directed edges.
func (d *Document) EdgeCount() int {
	n := 0
	for _, targets := range d.Edges {
		n += len(targets)
	}
	return n
}

// IDs returns all node ids in ascending order.
func (d *Document) IDs() []int {
	ids := make([]int, 0, len(d.Nodes))
	for id := range d.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Targets returns the outgoing edge targets of a node in ascending order.
func (d *Document) Targets(id int) []int {
	targets := make([]int, 0, len(d.Edges[id]))
	for trg := range d.Edges[id] {
		targets = append(targets, trg)
	}
	sort.Ints(targets)
	return targets
}

// Stats holds summary counts for one document.
type Stats struct {
	Nodes int
	Edges int
}

// GetStats returns summary statistics.
func (d *Document) GetStats() Stats {
	return Stats{Nodes: len(d.Nodes), Edges: d.EdgeCount()}
}
