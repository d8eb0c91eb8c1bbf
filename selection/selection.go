// Package selection turns pointer input into "object under cursor" answers
// against the scene's node proxies.
//
// Input handlers only record pointer state; the hit test runs when the frame
// loop calls Resolve, after positions for the tick are final.
package selection

import (
	"math"

	"github.com/TFMV/simplegraph/graph"
	"github.com/TFMV/simplegraph/scene"
)

// Projector maps a world position to screen coordinates. ok is false when
// the position is not visible.
type Projector interface {
	Project(p graph.Position) (x, y float64, ok bool)
}

// Callbacks receive selection changes. Any of them may be nil.
type Callbacks struct {
	// Selected fires when the proxy under the pointer changes to p.
	Selected func(p *scene.NodeProxy)
	// Deselected fires when the pointer leaves the last selected proxy.
	Deselected func()
	// Clicked fires for a click that lands on a proxy.
	Clicked func(p *scene.NodeProxy)
}

// DefaultRadius is the hit radius in screen units.
const DefaultRadius = 1.5

// Picker is the pointer-driven selection adapter.
type Picker struct {
	projector Projector
	radius    float64
	cb        Callbacks

	x, y    float64
	inside  bool
	clicked bool
	current *scene.NodeProxy
}

// NewPicker creates a picker. A non-positive radius selects DefaultRadius.
func NewPicker(proj Projector, radius float64, cb Callbacks) *Picker {
	if radius <= 0 {
		radius = DefaultRadius
	}
	return &Picker{projector: proj, radius: radius, cb: cb}
}

// SetProjector replaces the projector used for hit testing.
func (p *Picker) SetProjector(proj Projector) {
	p.projector = proj
}

// Move records the pointer position.
func (p *Picker) Move(x, y float64) {
	p.x, p.y, p.inside = x, y, true
}

// Click records a click at the given position; it is handled on the next Resolve.
func (p *Picker) Click(x, y float64) {
	p.Move(x, y)
	p.clicked = true
}

// Leave records that the pointer left the surface.
func (p *Picker) Leave() {
	p.inside = false
}

// Current returns the proxy currently selected, or nil.
func (p *Picker) Current() *scene.NodeProxy {
	return p.current
}

// Resolve hit-tests the recorded pointer against proxies and fires callbacks
// for any change since the previous call.
func (p *Picker) Resolve(proxies []*scene.NodeProxy) {
	hit := p.hitTest(proxies)

	if hit != p.current {
		p.current = hit
		switch {
		case hit != nil && p.cb.Selected != nil:
			p.cb.Selected(hit)
		case hit == nil && p.cb.Deselected != nil:
			p.cb.Deselected()
		}
	}

	if p.clicked {
		p.clicked = false
		if hit != nil && p.cb.Clicked != nil {
			p.cb.Clicked(hit)
		}
	}
}

// hitTest returns the nearest proxy within the radius, preferring the one
// created first on ties.
func (p *Picker) hitTest(proxies []*scene.NodeProxy) *scene.NodeProxy {
	if !p.inside || p.projector == nil {
		return nil
	}
	var best *scene.NodeProxy
	bestDist := math.Inf(1)
	for _, proxy := range proxies {
		sx, sy, ok := p.projector.Project(*proxy.Position)
		if !ok {
			continue
		}
		d := math.Hypot(sx-p.x, sy-p.y)
		if d <= p.radius && d < bestDist {
			best, bestDist = proxy, d
		}
	}
	return best
}
