// Package edit implements pinch-driven selection and transformation of
// shapes: move, corner resize, rotate and delete.
package edit

import (
	"math"

	"github.com/ayusman/airsketch/internal/geom"
	"github.com/ayusman/airsketch/internal/gesture"
	"github.com/ayusman/airsketch/internal/scene"
)

// Handle geometry in CSS pixels, scaled by the display pixel ratio.
const (
	HandleOffset = 16.0
	HandleRadius = 18.0
)

// Mode is the transformation applied while the pinch is held.
type Mode string

const (
	ModeNone        Mode = ""
	ModeMove        Mode = "move"
	ModeTopLeft     Mode = "top-left"
	ModeTopRight    Mode = "top-right"
	ModeBottomLeft  Mode = "bottom-left"
	ModeBottomRight Mode = "bottom-right"
	ModeRotate      Mode = "rotate"
	ModeDelete      Mode = "delete"
)

// IsResize reports whether m is one of the corner handles.
func (m Mode) IsResize() bool {
	switch m {
	case ModeTopLeft, ModeTopRight, ModeBottomLeft, ModeBottomRight:
		return true
	}
	return false
}

// Handle is an interactive control point of the selected shape.
type Handle struct {
	Key   Mode       `json:"key"`
	Local geom.Point `json:"-"`
	World geom.Point `json:"world"`
}

// Handles returns the six handles of sh in hit-test order: four corners,
// rotate, delete.
func Handles(sh *scene.Shape, pixelRatio float64) []Handle {
	hw, hh := sh.W/2, sh.H/2
	off := HandleOffset * pixelRatio

	handles := []Handle{
		{Key: ModeTopLeft, Local: geom.Point{X: -hw, Y: -hh}},
		{Key: ModeTopRight, Local: geom.Point{X: hw, Y: -hh}},
		{Key: ModeBottomLeft, Local: geom.Point{X: -hw, Y: hh}},
		{Key: ModeBottomRight, Local: geom.Point{X: hw, Y: hh}},
		{Key: ModeRotate, Local: geom.Point{X: 0, Y: -hh - off}},
		{Key: ModeDelete, Local: geom.Point{X: hw + off, Y: -hh - off}},
	}
	f := sh.Frame()
	for i := range handles {
		handles[i].World = f.ToWorld(handles[i].Local)
	}
	return handles
}

// State is the held target and active transformation.
type State struct {
	Target int  `json:"target"` // index into Shapes, -1 for none
	Mode   Mode `json:"mode"`
}

var idle = State{Target: -1}

// Result describes what one Step did.
type Result struct {
	State State
	// Active is the handle under the pointer this frame, if any.
	Active Mode
	// Mutated is true when the scene's committed content changed.
	Mutated bool
	// Deleted is true when the target was removed this frame.
	Deleted bool
}

// Machine tracks the edit state across frames.
type Machine struct {
	state State
}

// NewMachine returns a machine with no target.
func NewMachine() *Machine {
	return &Machine{state: idle}
}

// State returns the current target and mode.
func (m *Machine) State() State { return m.state }

// Reset drops the held target.
func (m *Machine) Reset() { m.state = idle }

// Step processes one frame in edit mode. History is pushed exactly once
// when a pinch starts a transformation.
func (m *Machine) Step(sc *scene.Scene, hist *scene.History, sig gesture.Signal, pixelRatio float64) Result {
	if !sig.HandPresent {
		m.Reset()
		return Result{State: m.state}
	}

	target := m.state.Target
	if target >= len(sc.Shapes) {
		// The held shape vanished underneath us (undo, clear).
		target = -1
		m.state = idle
	}
	if target < 0 {
		target = hitTest(sc.Shapes, sig.Target)
	}

	sc.Select(target)
	if target < 0 {
		m.state = idle
		return Result{State: m.state}
	}

	sh := &sc.Shapes[target]
	active := activeHandle(Handles(sh, pixelRatio), sig.Target, HandleRadius*pixelRatio)

	if !sig.Pinching {
		m.state = State{Target: target, Mode: ModeNone}
		return Result{State: m.state, Active: active}
	}

	// The mode latches on pinch-down; a handle passing under the pointer
	// mid-drag does not take over.
	if m.state.Mode == ModeNone {
		hist.Push(sc)
		mode := active
		if mode == ModeNone {
			mode = ModeMove
		}
		m.state = State{Target: target, Mode: mode}
	}

	res := Result{Active: active, Mutated: true}
	switch mode := m.state.Mode; {
	case mode == ModeMove:
		sh.CX, sh.CY = sig.Target.X, sig.Target.Y
	case mode == ModeRotate:
		sh.Angle = math.Atan2(sig.Target.Y-sh.CY, sig.Target.X-sh.CX)
	case mode == ModeDelete:
		sc.RemoveShape(target)
		m.state = idle
		res.Deleted = true
	case mode.IsResize():
		resize(sh, mode, sig.Target)
	}
	res.State = m.state
	return res
}

// hitTest returns the topmost shape containing p, or -1.
func hitTest(shapes []scene.Shape, p geom.Point) int {
	for i := len(shapes) - 1; i >= 0; i-- {
		if shapes[i].Contains(p) {
			return i
		}
	}
	return -1
}

func activeHandle(handles []Handle, p geom.Point, radius float64) Mode {
	for _, h := range handles {
		if geom.Dist(p, h.World) < radius {
			return h.Key
		}
	}
	return ModeNone
}

// resize moves the dragged edges to the pointer while the opposite edges
// stay put. Dimensions never drop below scene.MinShapeSize.
func resize(sh *scene.Shape, mode Mode, p geom.Point) {
	l := sh.Frame().ToLocal(p)
	var shift geom.Point

	switch mode {
	case ModeTopLeft, ModeBottomLeft:
		w := math.Max(scene.MinShapeSize, sh.W/2-l.X)
		shift.X = -(w - sh.W) / 2
		sh.W = w
	case ModeTopRight, ModeBottomRight:
		w := math.Max(scene.MinShapeSize, l.X+sh.W/2)
		shift.X = (w - sh.W) / 2
		sh.W = w
	}
	switch mode {
	case ModeTopLeft, ModeTopRight:
		h := math.Max(scene.MinShapeSize, sh.H/2-l.Y)
		shift.Y = -(h - sh.H) / 2
		sh.H = h
	case ModeBottomLeft, ModeBottomRight:
		h := math.Max(scene.MinShapeSize, l.Y+sh.H/2)
		shift.Y = (h - sh.H) / 2
		sh.H = h
	}

	origin := sh.Frame().ToWorld(shift)
	sh.CX, sh.CY = origin.X, origin.Y
}
