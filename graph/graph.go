// Package graph provides the node/edge model that the generator grows and the
// layout stepper relaxes. The model is owned by a single thread of control and
// is not safe for concurrent use.
package graph

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Errors reported by rejected mutations. Callers that grow a graph
// speculatively treat them as "skip", not as failures.
var (
	ErrDuplicateNode = errors.New("node already exists")
	ErrDuplicateEdge = errors.New("edge already exists")
	ErrSelfLoop      = errors.New("edge endpoints are identical")
	ErrMissingNode   = errors.New("edge endpoint not in graph")
)

// Payload is the attachment slot on a node. Position is the record shared
// with every proxy bound to the node; Proxy is the node's renderable stand-in.
type Payload struct {
	Position *Position
	Proxy    any
}

// Node is a graph vertex identified by an integer id.
type Node struct {
	ID    int
	Title string
	Data  Payload
}

// NewNode creates a node with the given id and no payload.
func NewNode(id int) *Node {
	return &Node{ID: id}
}

// Label returns the title, or the id when the node has no title.
func (n *Node) Label() string {
	if n.Title != "" {
		return n.Title
	}
	return fmt.Sprint(n.ID)
}

// Edge connects two nodes. Edges are undirected for comparison purposes.
type Edge struct {
	Source int
	Target int
}

type edgeKey struct{ lo, hi int }

func keyOf(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{lo: a, hi: b}
}

// Layout is the part of the layout stepper contract the graph keeps a
// reference to once layout begins.
type Layout interface {
	Step()
	IsConverged() bool
}

// Graph holds nodes keyed by id plus an undirected edge set.
type Graph struct {
	ID    string
	Limit int

	nodes   map[int]*Node
	order   []*Node
	edges   []Edge
	edgeSet map[edgeKey]struct{}
	layout  Layout
}

// NewGraph creates an empty Graph carrying the given growth limit.
func NewGraph(limit int) *Graph {
	return &Graph{
		ID:      uuid.New().String(),
		Limit:   limit,
		nodes:   make(map[int]*Node),
		edgeSet: make(map[edgeKey]struct{}),
	}
}

// AddNode inserts n. A node whose id is already present is rejected with
// ErrDuplicateNode and the graph is left untouched.
func (g *Graph) AddNode(n *Node) error {
	if _, ok := g.nodes[n.ID]; ok {
		return fmt.Errorf("add node %d: %w", n.ID, ErrDuplicateNode)
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n)
	return nil
}

// AddEdge connects a and b. Both must exist, must differ, and must not
// already be connected in either orientation.
func (g *Graph) AddEdge(a, b int) error {
	if _, ok := g.nodes[a]; !ok {
		return fmt.Errorf("add edge (%d,%d): %d: %w", a, b, a, ErrMissingNode)
	}
	if _, ok := g.nodes[b]; !ok {
		return fmt.Errorf("add edge (%d,%d): %d: %w", a, b, b, ErrMissingNode)
	}
	if a == b {
		return fmt.Errorf("add edge (%d,%d): %w", a, b, ErrSelfLoop)
	}
	k := keyOf(a, b)
	if _, ok := g.edgeSet[k]; ok {
		return fmt.Errorf("add edge (%d,%d): %w", a, b, ErrDuplicateEdge)
	}
	g.edgeSet[k] = struct{}{}
	g.edges = append(g.edges, Edge{Source: a, Target: b})
	return nil
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id int) *Node {
	return g.nodes[id]
}

// HasNode reports whether id is present.
func (g *Graph) HasNode(id int) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether a and b are connected, ignoring orientation.
func (g *Graph) HasEdge(a, b int) bool {
	_, ok := g.edgeSet[keyOf(a, b)]
	return ok
}

// Nodes returns the nodes in insertion order. The slice must not be modified.
func (g *Graph) Nodes() []*Node {
	return g.order
}

// Edges returns the edges in insertion order. The slice must not be modified.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// SetLayout records the active layout stepper.
func (g *Graph) SetLayout(l Layout) {
	g.layout = l
}

// Layout returns the active layout stepper, or nil before layout begins.
func (g *Graph) Layout() Layout {
	return g.layout
}
