// Package render draws a scene into one of several output formats. Every
// renderer keeps the last frame it produced so hosts can serve or save it.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/TFMV/simplegraph/graph"
	"github.com/TFMV/simplegraph/scene"
)

// Output formats.
const (
	FormatASCII = "ascii"
	FormatSVG   = "svg"
	FormatDOT   = "dot"
	FormatPNG   = "png"
	FormatJSON  = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatASCII, FormatSVG, FormatDOT, FormatPNG, FormatJSON}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render draws the scene as seen from viewpoint.
	Render(s *scene.Scene, viewpoint graph.Position) error

	// Name returns the name of the renderer
	Name() string

	// Frame returns the output of the last successful Render.
	Frame() []byte
}

// Options defines rendering configuration options
type Options struct {
	Width      float64 // Width of the output
	Height     float64 // Height of the output
	NodeSize   float64 // Node radius
	EdgeWidth  float64 // Connector stroke width
	FontSize   float64 // Font size for labels
	ShowLabels bool    // Show node labels
	Palette    *scene.Palette
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions() Options {
	return Options{
		Width:     800,
		Height:    600,
		NodeSize:  6,
		EdgeWidth: 1,
		FontSize:  10,
		Palette:   scene.DefaultPalette(),
	}
}

func (o Options) withDefaults() Options {
	d := NewDefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.NodeSize <= 0 {
		o.NodeSize = d.NodeSize
	}
	if o.EdgeWidth <= 0 {
		o.EdgeWidth = d.EdgeWidth
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.Palette == nil {
		o.Palette = d.Palette
	}
	return o
}

// New returns the renderer for format.
func New(format string, opts Options) (Renderer, error) {
	opts = opts.withDefaults()
	switch strings.ToLower(format) {
	case FormatASCII:
		// Scale down for character cells, with an adjustment for their aspect ratio.
		return NewASCII(max(int(opts.Width/10), 40), max(int(opts.Height/20), 20), opts.ShowLabels), nil
	case FormatSVG:
		return NewSVG(opts), nil
	case FormatDOT:
		return NewDOT(opts), nil
	case FormatPNG:
		return NewPNG(opts), nil
	case FormatJSON:
		return NewJSON(opts.Palette), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// output holds the last frame a renderer produced.
type output struct {
	data []byte
}

// Frame returns the output of the last successful Render.
func (o *output) Frame() []byte { return o.data }

// project maps a world position onto the view plane. In 3d mode the scene is
// seen in perspective from viewpoint, looking down the Z axis; positions at or
// behind the viewpoint are not visible.
func project(p, vp graph.Position, mode string) (x, y float64, ok bool) {
	if mode != scene.Mode3D || vp.Z <= 0 {
		return p.X, p.Y, true
	}
	depth := vp.Z - p.Z
	if depth <= 0 {
		return 0, 0, false
	}
	f := vp.Z / depth
	return vp.X + (p.X-vp.X)*f, vp.Y + (p.Y-vp.Y)*f, true
}

// viewport fits the projected node positions into a canvas.
type viewport struct {
	vp     graph.Position
	mode   string
	width  float64
	height float64
	margin float64

	minX, minY float64
	maxX, maxY float64
	sx, sy     float64
}

func fit(s *scene.Scene, vp graph.Position, width, height, margin float64, keepAspect bool) viewport {
	v := viewport{vp: vp, mode: s.Mode(), width: width, height: height, margin: margin}

	first := true
	for _, n := range s.NodeProxies() {
		x, y, ok := project(*n.Position, vp, v.mode)
		if !ok {
			continue
		}
		if first {
			v.minX, v.maxX, v.minY, v.maxY = x, x, y, y
			first = false
			continue
		}
		v.minX = math.Min(v.minX, x)
		v.maxX = math.Max(v.maxX, x)
		v.minY = math.Min(v.minY, y)
		v.maxY = math.Max(v.maxY, y)
	}

	dx := v.maxX - v.minX
	if dx == 0 {
		dx = 1
	}
	dy := v.maxY - v.minY
	if dy == 0 {
		dy = 1
	}
	v.sx = (width - 2*margin) / dx
	v.sy = (height - 2*margin) / dy
	if keepAspect {
		sc := math.Min(v.sx, v.sy)
		v.sx, v.sy = sc, sc
	}
	return v
}

// canvas maps a world position to canvas coordinates, Y pointing down.
func (v viewport) canvas(p graph.Position) (x, y float64, ok bool) {
	px, py, ok := project(p, v.vp, v.mode)
	if !ok {
		return 0, 0, false
	}
	padX := (v.width - 2*v.margin - (v.maxX-v.minX)*v.sx) / 2
	padY := (v.height - 2*v.margin - (v.maxY-v.minY)*v.sy) / 2
	x = v.margin + padX + (px-v.minX)*v.sx
	y = v.margin + padY + (v.maxY-py)*v.sy
	return x, y, true
}

// clamp restricts val to [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Absolute value of an integer
func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
