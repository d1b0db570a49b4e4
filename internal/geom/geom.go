// Package geom provides the 2D geometry helpers shared by the scene engine.
package geom

import "math"

// Point is a position in device-pixel canvas coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Box is an axis-aligned bounding box.
type Box struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Bounds returns the bounding box of pts. ok is false when pts is empty.
func Bounds(pts []Point) (b Box, ok bool) {
	if len(pts) == 0 {
		return Box{}, false
	}
	b = Box{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, p := range pts {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b, true
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the box.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the box.
func (b Box) Center() Point {
	return Point{X: b.MinX + b.Width()/2, Y: b.MinY + b.Height()/2}
}

// Frame is a rotated coordinate frame: an origin in world space plus a
// rotation in radians about it.
type Frame struct {
	Origin Point
	Angle  float64
}

// ToLocal maps a world point into the frame's unrotated local space.
func (f Frame) ToLocal(p Point) Point {
	cos, sin := math.Cos(f.Angle), math.Sin(f.Angle)
	dx := p.X - f.Origin.X
	dy := p.Y - f.Origin.Y
	return Point{X: cos*dx + sin*dy, Y: -sin*dx + cos*dy}
}

// ToWorld maps a local point back into world space.
func (f Frame) ToWorld(p Point) Point {
	cos, sin := math.Cos(f.Angle), math.Sin(f.Angle)
	return Point{
		X: f.Origin.X + cos*p.X - sin*p.Y,
		Y: f.Origin.Y + sin*p.X + cos*p.Y,
	}
}

// Cross returns the z component of (a-o) x (b-o). Positive values mean
// o→a→b turns counter-clockwise in a y-up system.
func Cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
