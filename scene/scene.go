// Package scene keeps one renderable proxy per node and per edge in step with
// the graph while the layout moves nodes around.
//
// Proxies never copy coordinates. A node proxy holds the same *graph.Position
// the node carries in its payload, and an edge proxy holds the two endpoint
// pointers. The layout stepper is the only writer of those records; the scene
// and the renderers only read them.
package scene

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/TFMV/simplegraph/graph"
)

// Layout modes.
const (
	Mode2D = "2d"
	Mode3D = "3d"
)

// DefaultArea is the half-extent of the region new nodes are scattered in.
const DefaultArea = 10000

// LabelOffset is added to a node's position to place its label.
var LabelOffset = graph.Position{Y: -100}

// Rand is the random source used to scatter new nodes.
type Rand interface {
	Intn(n int) int
}

// NodeProxy is the visual marker for one node.
type NodeProxy struct {
	ID       int
	Node     *graph.Node
	Position *graph.Position
	// Skin selects the node's texture/colour, cycling through Limit skins.
	Skin int
}

// EdgeProxy is the connector drawn between two nodes.
type EdgeProxy struct {
	Source, Target int
	From, To       *graph.Position
	dirty          bool
}

// Dirty reports whether the connector geometry needs to be redrawn.
func (e *EdgeProxy) Dirty() bool { return e.dirty }

// MarkDirty flags the connector geometry for redraw.
func (e *EdgeProxy) MarkDirty() { e.dirty = true }

// Label is a text proxy that follows a node.
type Label struct {
	NodeID int
	Text   string
	// Position is derived from the node position on every refresh.
	Position graph.Position
	// Facing is the unit vector from the label toward the viewpoint.
	Facing graph.Position
	anchor *graph.Position
}

// Options configures a Scene.
type Options struct {
	Mode       string
	ShowLabels bool
	Limit      int
	Area       int
	Rand       Rand
	Logger     *log.Logger
}

// Scene holds every proxy created for a graph.
type Scene struct {
	opts   Options
	nodes  []*NodeProxy
	edges  []*EdgeProxy
	labels []*Label
}

// NewScene creates an empty scene.
func NewScene(opts Options) *Scene {
	if opts.Mode == "" {
		opts.Mode = Mode2D
	}
	if opts.Area <= 0 {
		opts.Area = DefaultArea
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Scene{opts: opts}
}

// NodeAdded allocates the node's position, scatters it inside the area and
// creates its proxy (and label, when labels are on). index is the expansion
// step that produced the node.
func (s *Scene) NodeAdded(n *graph.Node, index int) {
	p := &graph.Position{
		X: s.scatter(),
		Y: s.scatter(),
	}
	if s.opts.Mode == Mode3D {
		p.Z = s.scatter()
	}

	proxy := &NodeProxy{
		ID:       n.ID,
		Node:     n,
		Position: p,
		Skin:     s.skin(index),
	}
	n.Data.Position = p
	n.Data.Proxy = proxy
	s.nodes = append(s.nodes, proxy)

	if s.opts.ShowLabels {
		s.labels = append(s.labels, &Label{
			NodeID:   n.ID,
			Text:     n.Label(),
			Position: p.Add(LabelOffset),
			anchor:   p,
		})
	}
}

// EdgeAdded creates a connector bound to both endpoint positions.
func (s *Scene) EdgeAdded(source, target *graph.Node) {
	if source.Data.Position == nil || target.Data.Position == nil {
		s.opts.Logger.Warn("edge endpoint has no position", "source", source.ID, "target", target.ID)
		return
	}
	s.edges = append(s.edges, &EdgeProxy{
		Source: source.ID,
		Target: target.ID,
		From:   source.Data.Position,
		To:     target.Data.Position,
		dirty:  true,
	})
}

// Refresh runs once per tick after the layout step. Connector geometry is
// flagged for redraw and labels are moved next to their nodes, turned toward
// the viewpoint.
func (s *Scene) Refresh(viewpoint graph.Position) {
	for _, e := range s.edges {
		e.MarkDirty()
	}
	if !s.opts.ShowLabels {
		return
	}
	for _, l := range s.labels {
		l.Position = l.anchor.Add(LabelOffset)
		l.Facing = viewpoint.Sub(l.Position).Unit()
	}
}

// ClearDirty resets the redraw flag on every connector. The frame loop calls it
// once the tick's render has succeeded; renderers only read the flags.
func (s *Scene) ClearDirty() {
	for _, e := range s.edges {
		e.dirty = false
	}
}

// NodeProxies returns every node proxy, in creation order.
func (s *Scene) NodeProxies() []*NodeProxy { return s.nodes }

// EdgeProxies returns every connector proxy, in creation order.
func (s *Scene) EdgeProxies() []*EdgeProxy { return s.edges }

// Labels returns every label proxy; empty when labels are off.
func (s *Scene) Labels() []*Label { return s.labels }

// Mode returns the scene's layout mode.
func (s *Scene) Mode() string { return s.opts.Mode }

// scatter draws an integer coordinate uniformly from [-Area, Area].
func (s *Scene) scatter() float64 {
	a := s.opts.Area
	return float64(s.opts.Rand.Intn(2*a+1) - a)
}

func (s *Scene) skin(index int) int {
	if s.opts.Limit <= 0 {
		return 1
	}
	return index%s.opts.Limit + 1
}
