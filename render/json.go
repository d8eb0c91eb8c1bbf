package render

import (
	"encoding/json"

	"github.com/TFMV/simplegraph/graph"
	"github.com/TFMV/simplegraph/scene"
)

// Snapshot is the serializable state of a scene.
type Snapshot struct {
	Mode       string          `json:"mode"`
	Background string          `json:"background"`
	Nodes      []SnapshotNode  `json:"nodes"`
	Edges      []SnapshotEdge  `json:"edges"`
	Labels     []SnapshotLabel `json:"labels,omitempty"`
}

// SnapshotNode is one node proxy.
type SnapshotNode struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Skin  int     `json:"skin"`
	Color string  `json:"color"`
}

// SnapshotEdge is one connector proxy.
type SnapshotEdge struct {
	Source int `json:"source"`
	Target int `json:"target"`
}

// SnapshotLabel is one label proxy.
type SnapshotLabel struct {
	NodeID int     `json:"nodeId"`
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
}

// NewSnapshot captures the current world positions of every proxy.
func NewSnapshot(s *scene.Scene, palette *scene.Palette) Snapshot {
	if palette == nil {
		palette = scene.DefaultPalette()
	}
	snap := Snapshot{
		Mode:       s.Mode(),
		Background: palette.Background,
		Nodes:      make([]SnapshotNode, 0, len(s.NodeProxies())),
		Edges:      make([]SnapshotEdge, 0, len(s.EdgeProxies())),
	}
	for _, n := range s.NodeProxies() {
		snap.Nodes = append(snap.Nodes, SnapshotNode{
			ID:    n.ID,
			Title: n.Node.Title,
			X:     n.Position.X,
			Y:     n.Position.Y,
			Z:     n.Position.Z,
			Skin:  n.Skin,
			Color: palette.NodeColor(n.Skin),
		})
	}
	for _, e := range s.EdgeProxies() {
		snap.Edges = append(snap.Edges, SnapshotEdge{Source: e.Source, Target: e.Target})
	}
	for _, l := range s.Labels() {
		snap.Labels = append(snap.Labels, SnapshotLabel{
			NodeID: l.NodeID,
			Text:   l.Text,
			X:      l.Position.X,
			Y:      l.Position.Y,
			Z:      l.Position.Z,
		})
	}
	return snap
}

// JSON renders the scene as an indented JSON snapshot.
type JSON struct {
	output
	palette *scene.Palette
}

// NewJSON creates a JSON renderer.
func NewJSON(palette *scene.Palette) *JSON {
	return &JSON{palette: palette}
}

// Name returns the name of the renderer
func (r *JSON) Name() string {
	return "JSON Renderer"
}

// Render marshals a snapshot of the scene.
func (r *JSON) Render(s *scene.Scene, _ graph.Position) error {
	data, err := json.MarshalIndent(NewSnapshot(s, r.palette), "", "  ")
	if err != nil {
		return err
	}
	r.data = data
	return nil
}
