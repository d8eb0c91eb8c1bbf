package graph

import "math"

// Position is the mutable coordinate record shared between a node and every
// proxy bound to it. Only the layout stepper writes to it; the scene and the
// renderers read it each tick.
type Position struct {
	X, Y, Z float64
}

// Add returns p + q.
func (p Position) Add(q Position) Position {
	return Position{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// Sub returns p - q.
func (p Position) Sub(q Position) Position {
	return Position{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Scale returns p * s.
func (p Position) Scale(s float64) Position {
	return Position{X: p.X * s, Y: p.Y * s, Z: p.Z * s}
}

// Len returns the Euclidean length of p.
func (p Position) Len() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Unit returns p scaled to length 1, or the zero vector if p has no length.
func (p Position) Unit() Position {
	l := p.Len()
	if l == 0 {
		return Position{}
	}
	return p.Scale(1 / l)
}
