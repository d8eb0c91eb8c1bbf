// Package generator grows a connected graph by breadth-first random expansion.
//
// Expansion starts from a root node with id 0. Each expansion step dequeues one
// node, draws a fan-out k uniformly from [1, NumEdges] and proposes children with
// ids i*step for i in 1..k. Ids derived this way repeat across steps; a repeated
// id is rejected by the graph and neither a node hook nor an edge is produced
// for that candidate. Growth stops once the step counter reaches NumNodes or the
// queue drains.
package generator

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/TFMV/simplegraph/graph"
)

// Rand is the random source used for fan-out draws. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Observer receives creation hooks synchronously while the graph grows.
type Observer interface {
	// NodeAdded fires once per accepted node, before it is enqueued.
	// index is the expansion step that produced the node (0 for the root).
	NodeAdded(n *graph.Node, index int)
	// EdgeAdded fires once per accepted edge.
	EdgeAdded(source, target *graph.Node)
}

// Options configures a Generator.
type Options struct {
	NumNodes int
	NumEdges int
	Limit    int
	Rand     Rand
	Observer Observer
	Logger   *log.Logger
}

// Result describes a finished expansion.
type Result struct {
	Graph *graph.Graph
	// Steps is the number of expansion steps performed.
	Steps int
	// FanOuts holds the fan-out drawn at each step, in order.
	FanOuts []int
}

// Generator grows graphs according to its Options.
type Generator struct {
	opts Options
}

// New validates opts and returns a Generator. A nil Rand is replaced by a
// time-seeded source and a nil Observer by a no-op.
func New(opts Options) (*Generator, error) {
	if opts.NumNodes < 1 {
		return nil, fmt.Errorf("numNodes must be at least 1, got %d", opts.NumNodes)
	}
	if opts.NumEdges < 1 {
		return nil, fmt.Errorf("numEdges must be at least 1, got %d", opts.NumEdges)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Generator{opts: opts}, nil
}

// Generate builds a new graph.
func (gen *Generator) Generate() *Result {
	o := gen.opts
	g := graph.NewGraph(o.Limit)
	res := &Result{Graph: g}

	root := graph.NewNode(0)
	root.Title = title(root.ID)
	// An empty graph cannot reject the root.
	_ = g.AddNode(root)
	o.Observer.NodeAdded(root, 0)

	queue := []*graph.Node{root}
	steps := 1
	for len(queue) > 0 && steps < o.NumNodes {
		current := queue[0]
		queue = queue[1:]

		k := gen.fanOut()
		res.FanOuts = append(res.FanOuts, k)

		for i := 1; i <= k; i++ {
			child := graph.NewNode(i * steps)
			if err := g.AddNode(child); err != nil {
				o.Logger.Debug("candidate rejected", "step", steps, "id", child.ID)
				continue
			}
			child.Title = title(child.ID)
			o.Observer.NodeAdded(child, steps)
			queue = append(queue, child)

			if err := g.AddEdge(current.ID, child.ID); err != nil {
				if !errors.Is(err, graph.ErrDuplicateEdge) {
					o.Logger.Warn("edge rejected", "err", err)
				}
				continue
			}
			o.Observer.EdgeAdded(current, child)
		}
		steps++
		res.Steps++
	}

	o.Logger.Debug("graph generated",
		"graph", g.ID, "steps", res.Steps, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return res
}

// fanOut draws uniformly from [1, NumEdges].
func (gen *Generator) fanOut() int {
	return 1 + gen.opts.Rand.Intn(gen.opts.NumEdges)
}

func title(id int) string {
	return fmt.Sprintf("This is node %d", id)
}

type nopObserver struct{}

func (nopObserver) NodeAdded(*graph.Node, int)         {}
func (nopObserver) EdgeAdded(*graph.Node, *graph.Node) {}
