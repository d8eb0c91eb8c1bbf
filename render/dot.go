package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/TFMV/simplegraph/graph"
	"github.com/TFMV/simplegraph/scene"
)

// DOT renders the scene in Graphviz DOT format with every node pinned to its
// laid out position, so neato reproduces the layout instead of computing one.
type DOT struct {
	output
	opts Options
}

// NewDOT creates a DOT renderer.
func NewDOT(opts Options) *DOT {
	return &DOT{opts: opts.withDefaults()}
}

// Name returns the name of the renderer
func (r *DOT) Name() string {
	return "DOT Renderer"
}

// Render creates a DOT representation of the scene
func (r *DOT) Render(s *scene.Scene, viewpoint graph.Position) error {
	r.data = []byte(ToDOT(s, viewpoint, r.opts))
	return nil
}

// ToDOT converts the scene to an undirected DOT graph. Positions are in
// points with the origin at the bottom left, as Graphviz expects.
func ToDOT(s *scene.Scene, viewpoint graph.Position, opts Options) string {
	opts = opts.withDefaults()
	view := fit(s, viewpoint, opts.Width, opts.Height, opts.NodeSize+opts.FontSize, true)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  graph [bgcolor=%q, splines=false, outputorder=edgesfirst];\n", opts.Palette.Background)
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fixedsize=true, width=%g, fontname=\"Arial\", fontsize=%g];\n",
		2*opts.NodeSize/72.0, opts.FontSize)
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=%g];\n", opts.Palette.EdgeColor, opts.EdgeWidth)
	buf.WriteString("\n")

	for _, n := range s.NodeProxies() {
		x, y, ok := view.canvas(*n.Position)
		if !ok {
			continue
		}
		label := ""
		if opts.ShowLabels {
			label = n.Node.Label()
		}
		fmt.Fprintf(&buf, "  \"%d\" [label=%q, fillcolor=%q, pos=\"%.2f,%.2f!\"];\n",
			n.ID, label, opts.Palette.NodeColor(n.Skin), x, opts.Height-y)
	}

	buf.WriteString("\n")
	for _, e := range s.EdgeProxies() {
		fmt.Fprintf(&buf, "  \"%d\" -- \"%d\";\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// PNG rasterizes the pinned DOT output with Graphviz.
type PNG struct {
	output
	opts Options
}

// NewPNG creates a PNG renderer.
func NewPNG(opts Options) *PNG {
	return &PNG{opts: opts.withDefaults()}
}

// Name returns the name of the renderer
func (r *PNG) Name() string {
	return "PNG Renderer"
}

// Render creates a PNG image of the scene
func (r *PNG) Render(s *scene.Scene, viewpoint graph.Position) error {
	out, err := RenderDOT(context.Background(), ToDOT(s, viewpoint, r.opts), graphviz.PNG)
	if err != nil {
		return err
	}
	r.data = out
	return nil
}

// RenderDOT lays out dot with neato, honouring pinned positions, and encodes
// it in format.
func RenderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
