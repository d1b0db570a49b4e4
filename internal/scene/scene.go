// Package scene holds the editable vector scene: committed strokes, shapes,
// the stroke being drawn, and the bounded undo/redo history over them.
package scene

import (
	"fmt"
	"slices"

	"github.com/ayusman/airsketch/internal/geom"
)

// MinShapeSize is the floor for a shape's width and height after any edit.
const MinShapeSize = 20.0

// ShapeType names a geometric primitive.
type ShapeType string

const (
	Circle   ShapeType = "circle"
	Rect     ShapeType = "rect"
	Triangle ShapeType = "triangle"
)

// ParseShapeType validates a shape type name.
func ParseShapeType(s string) (ShapeType, error) {
	switch t := ShapeType(s); t {
	case Circle, Rect, Triangle:
		return t, nil
	}
	return "", fmt.Errorf("unknown shape type %q", s)
}

// StrokePoint is a captured stroke sample. T is the capture time in
// milliseconds.
type StrokePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	T int64   `json:"t"`
}

// Pt drops the timestamp.
func (p StrokePoint) Pt() geom.Point { return geom.Point{X: p.X, Y: p.Y} }

// Stroke is a freehand polyline. Points keep drawing order.
type Stroke struct {
	Points []StrokePoint `json:"points"`
	Color  string        `json:"color"`
	Size   float64       `json:"size"`
}

// Committable reports whether the stroke has enough points to keep.
func (s *Stroke) Committable() bool {
	return s != nil && len(s.Points) > 1
}

// Last returns the most recently appended point.
func (s *Stroke) Last() (StrokePoint, bool) {
	if len(s.Points) == 0 {
		return StrokePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Geom returns the stroke points without timestamps.
func (s *Stroke) Geom() []geom.Point {
	pts := make([]geom.Point, len(s.Points))
	for i, p := range s.Points {
		pts[i] = p.Pt()
	}
	return pts
}

// Clone returns a deep copy.
func (s Stroke) Clone() Stroke {
	s.Points = slices.Clone(s.Points)
	return s
}

// Shape is a recognized or inserted primitive. (CX, CY) is the local
// frame origin in world space, Angle the rotation about it in radians,
// W and H the unrotated extents.
type Shape struct {
	Type     ShapeType `json:"type"`
	CX       float64   `json:"cx"`
	CY       float64   `json:"cy"`
	W        float64   `json:"w"`
	H        float64   `json:"h"`
	Angle    float64   `json:"angle"`
	Color    string    `json:"color"`
	Selected bool      `json:"selected"`
}

// Frame returns the shape's local coordinate frame.
func (s *Shape) Frame() geom.Frame {
	return geom.Frame{Origin: geom.Point{X: s.CX, Y: s.CY}, Angle: s.Angle}
}

// Contains reports whether the world point lies inside the shape's local
// bounding box.
func (s *Shape) Contains(p geom.Point) bool {
	l := s.Frame().ToLocal(p)
	return abs(l.X) <= s.W/2 && abs(l.Y) <= s.H/2
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Scene is the live drawing state. The zero value is an empty scene.
type Scene struct {
	Strokes []Stroke `json:"strokes"`
	Shapes  []Shape  `json:"shapes"`
	// Current is the stroke being drawn; it is not part of Strokes and is
	// never captured by history.
	Current *Stroke `json:"current,omitempty"`
}

// AddStroke appends a committed stroke.
func (s *Scene) AddStroke(st Stroke) {
	s.Strokes = append(s.Strokes, st)
}

// AddShape appends a shape on top of the existing ones.
func (s *Scene) AddShape(sh Shape) {
	s.Shapes = append(s.Shapes, sh)
}

// RemoveShape deletes the shape at index i. Out of range is a no-op.
func (s *Scene) RemoveShape(i int) {
	if i < 0 || i >= len(s.Shapes) {
		return
	}
	s.Shapes = slices.Delete(s.Shapes, i, i+1)
}

// RemoveStrokesWhere drops every committed stroke for which match returns
// true and reports how many were removed.
func (s *Scene) RemoveStrokesWhere(match func(*Stroke) bool) int {
	before := len(s.Strokes)
	s.Strokes = slices.DeleteFunc(s.Strokes, func(st Stroke) bool { return match(&st) })
	return before - len(s.Strokes)
}

// Select marks exactly the shape at index i as selected; any index out of
// range clears the selection.
func (s *Scene) Select(i int) {
	for j := range s.Shapes {
		s.Shapes[j].Selected = j == i
	}
}

// SelectedIndex returns the index of the selected shape, or -1.
func (s *Scene) SelectedIndex() int {
	return slices.IndexFunc(s.Shapes, func(sh Shape) bool { return sh.Selected })
}

// Clear drops all committed content and the stroke in progress.
func (s *Scene) Clear() {
	s.Strokes = nil
	s.Shapes = nil
	s.Current = nil
}

// Content is the committed part of a scene: what history snapshots and
// what a saved drawing holds.
type Content struct {
	Strokes []Stroke `json:"strokes"`
	Shapes  []Shape  `json:"shapes"`
}

// Snapshot deep-copies the committed content.
func (s *Scene) Snapshot() Content {
	c := Content{
		Strokes: make([]Stroke, len(s.Strokes)),
		Shapes:  slices.Clone(s.Shapes),
	}
	for i, st := range s.Strokes {
		c.Strokes[i] = st.Clone()
	}
	if c.Shapes == nil {
		c.Shapes = []Shape{}
	}
	return c
}

// Restore replaces the committed content, leaving Current untouched.
func (s *Scene) Restore(c Content) {
	s.Strokes = c.Strokes
	s.Shapes = c.Shapes
}

// Clone deep-copies the whole scene including the stroke in progress.
func (s *Scene) Clone() Scene {
	c := s.Snapshot()
	out := Scene{Strokes: c.Strokes, Shapes: c.Shapes}
	if s.Current != nil {
		cur := s.Current.Clone()
		out.Current = &cur
	}
	return out
}
