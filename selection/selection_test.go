package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TFMV/simplegraph/graph"
	"github.com/TFMV/simplegraph/scene"
)

// identity projects world X/Y straight onto the screen and hides negative Z.
type identity struct{}

func (identity) Project(p graph.Position) (float64, float64, bool) {
	return p.X, p.Y, p.Z >= 0
}

func proxy(id int, x, y, z float64) *scene.NodeProxy {
	return &scene.NodeProxy{ID: id, Position: &graph.Position{X: x, Y: y, Z: z}}
}

type events struct {
	selected   []int
	deselected int
	clicked    []int
}

func (e *events) callbacks() Callbacks {
	return Callbacks{
		Selected:   func(p *scene.NodeProxy) { e.selected = append(e.selected, p.ID) },
		Deselected: func() { e.deselected++ },
		Clicked:    func(p *scene.NodeProxy) { e.clicked = append(e.clicked, p.ID) },
	}
}

func TestResolveSelectsNearest(t *testing.T) {
	ev := &events{}
	p := NewPicker(identity{}, 2, ev.callbacks())
	proxies := []*scene.NodeProxy{proxy(0, 0, 0, 0), proxy(1, 3, 0, 0), proxy(2, 10, 10, 0)}

	p.Move(2.2, 0)
	p.Resolve(proxies)
	assert.Equal(t, []int{1}, ev.selected)
	assert.Equal(t, 1, p.Current().ID)

	// Unchanged hit fires nothing.
	p.Resolve(proxies)
	assert.Equal(t, []int{1}, ev.selected)

	p.Move(50, 50)
	p.Resolve(proxies)
	assert.Equal(t, 1, ev.deselected)
	assert.Nil(t, p.Current())
}

func TestResolveFollowsMovingProxy(t *testing.T) {
	ev := &events{}
	p := NewPicker(identity{}, 1, ev.callbacks())
	target := proxy(7, 100, 100, 0)
	proxies := []*scene.NodeProxy{target}

	p.Move(0, 0)
	p.Resolve(proxies)
	assert.Empty(t, ev.selected)

	target.Position.X, target.Position.Y = 0.5, 0
	p.Resolve(proxies)
	assert.Equal(t, []int{7}, ev.selected)
}

func TestHiddenProxiesAreIgnored(t *testing.T) {
	ev := &events{}
	p := NewPicker(identity{}, 5, ev.callbacks())
	p.Move(0, 0)
	p.Resolve([]*scene.NodeProxy{proxy(0, 0, 0, -1)})
	assert.Empty(t, ev.selected)
}

func TestLeaveDeselects(t *testing.T) {
	ev := &events{}
	p := NewPicker(identity{}, 0, ev.callbacks())
	proxies := []*scene.NodeProxy{proxy(0, 0, 0, 0)}

	p.Move(0, 0)
	p.Resolve(proxies)
	p.Leave()
	p.Resolve(proxies)
	assert.Equal(t, []int{0}, ev.selected)
	assert.Equal(t, 1, ev.deselected)
}

func TestClickFiresOnceOnHit(t *testing.T) {
	ev := &events{}
	p := NewPicker(identity{}, 1, ev.callbacks())
	proxies := []*scene.NodeProxy{proxy(4, 0, 0, 0)}

	p.Click(0, 0)
	p.Resolve(proxies)
	p.Resolve(proxies)
	assert.Equal(t, []int{4}, ev.clicked)

	p.Click(30, 30)
	p.Resolve(proxies)
	assert.Equal(t, []int{4}, ev.clicked)
}

func TestNoProjectorResolvesNothing(t *testing.T) {
	ev := &events{}
	p := NewPicker(nil, 1, ev.callbacks())
	p.Move(0, 0)
	p.Resolve([]*scene.NodeProxy{proxy(0, 0, 0, 0)})
	assert.Empty(t, ev.selected)

	p.SetProjector(identity{})
	p.Resolve([]*scene.NodeProxy{proxy(0, 0, 0, 0)})
	assert.Equal(t, []int{0}, ev.selected)
}

func TestNilCallbacksAreSafe(t *testing.T) {
	p := NewPicker(identity{}, 1, Callbacks{})
	p.Click(0, 0)
	p.Resolve([]*scene.NodeProxy{proxy(0, 0, 0, 0)})
	p.Leave()
	p.Resolve(nil)
}
