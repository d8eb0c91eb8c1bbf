package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/TFMV/simplegraph/graph"
	"github.com/TFMV/simplegraph/scene"
)

// SVG renders the scene as Scalable Vector Graphics.
type SVG struct {
	output
	opts Options
}

// NewSVG creates an SVG renderer.
func NewSVG(opts Options) *SVG {
	return &SVG{opts: opts.withDefaults()}
}

// Name returns the name of the renderer
func (r *SVG) Name() string {
	return "SVG Renderer"
}

// Render creates an SVG representation of the scene
func (r *SVG) Render(s *scene.Scene, viewpoint graph.Position) error {
	o := r.opts
	view := fit(s, viewpoint, o.Width, o.Height, o.NodeSize+o.FontSize, true)
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, o.Width, o.Height, o.Width, o.Height, o.Palette.Background)

	buf.WriteString("<g class=\"edges\">\n")
	for _, e := range s.EdgeProxies() {
		x1, y1, ok1 := view.canvas(*e.From)
		x2, y2, ok2 := view.canvas(*e.To)
		if !ok1 || !ok2 {
			continue
		}
		fmt.Fprintf(&buf, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%g"/>
`, x1, y1, x2, y2, o.Palette.EdgeColor, o.EdgeWidth)
	}
	buf.WriteString("</g>\n")

	buf.WriteString("<g class=\"nodes\">\n")
	for _, n := range s.NodeProxies() {
		x, y, ok := view.canvas(*n.Position)
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, `<circle id="node-%d" cx="%.2f" cy="%.2f" r="%g" fill="%s" stroke="rgba(0,0,0,0.3)" stroke-width="0.5"/>
`, n.ID, x, y, o.NodeSize, o.Palette.NodeColor(n.Skin))
	}
	buf.WriteString("</g>\n")

	if o.ShowLabels {
		buf.WriteString("<g class=\"labels\">\n")
		for _, l := range s.Labels() {
			x, y, ok := view.canvas(l.Position)
			if !ok {
				continue
			}
			fmt.Fprintf(&buf, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%g" fill="#333333" text-anchor="middle">%s</text>
`, x, y, o.FontSize, html.EscapeString(l.Text))
		}
		buf.WriteString("</g>\n")
	}

	buf.WriteString(`</svg>`)
	r.data = buf.Bytes()
	return nil
}
