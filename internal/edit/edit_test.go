package edit

import (
	"math"
	"testing"

	"github.com/ayusman/airsketch/internal/geom"
	"github.com/ayusman/airsketch/internal/gesture"
	"github.com/ayusman/airsketch/internal/scene"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func hover(x, y float64) gesture.Signal {
	return gesture.Signal{HandPresent: true, Target: geom.Point{X: x, Y: y}}
}

func pinch(x, y float64) gesture.Signal {
	return gesture.Signal{HandPresent: true, Pinching: true, Target: geom.Point{X: x, Y: y}}
}

func newRectScene() *scene.Scene {
	sc := &scene.Scene{}
	sc.AddShape(scene.Shape{Type: scene.Rect, CX: 200, CY: 200, W: 100, H: 80, Color: "#000"})
	return sc
}

func TestHandles(t *testing.T) {
	sh := scene.Shape{CX: 200, CY: 200, W: 100, H: 80}

	tests := []struct {
		ratio float64
		want  map[Mode]geom.Point
	}{
		{1, map[Mode]geom.Point{
			ModeTopLeft:     {X: 150, Y: 160},
			ModeTopRight:    {X: 250, Y: 160},
			ModeBottomLeft:  {X: 150, Y: 240},
			ModeBottomRight: {X: 250, Y: 240},
			ModeRotate:      {X: 200, Y: 144},
			ModeDelete:      {X: 266, Y: 144},
		}},
		{2, map[Mode]geom.Point{
			ModeRotate: {X: 200, Y: 128},
			ModeDelete: {X: 282, Y: 128},
		}},
	}

	for _, tt := range tests {
		handles := Handles(&sh, tt.ratio)
		if len(handles) != 6 {
			t.Fatalf("len(handles) = %d, want 6", len(handles))
		}
		order := []Mode{ModeTopLeft, ModeTopRight, ModeBottomLeft, ModeBottomRight, ModeRotate, ModeDelete}
		for i, h := range handles {
			if h.Key != order[i] {
				t.Errorf("handles[%d].Key = %q, want %q", i, h.Key, order[i])
			}
			if want, ok := tt.want[h.Key]; ok {
				if !near(h.World.X, want.X) || !near(h.World.Y, want.Y) {
					t.Errorf("ratio %v: %s at %+v, want %+v", tt.ratio, h.Key, h.World, want)
				}
			}
		}
	}
}

func TestHandlesFollowRotation(t *testing.T) {
	sh := scene.Shape{CX: 0, CY: 0, W: 100, H: 80, Angle: math.Pi / 2}
	handles := Handles(&sh, 1)

	// A quarter turn maps local (x, y) to world (-y, x).
	rot := handles[4].World
	if !near(rot.X, 56) || !near(rot.Y, 0) {
		t.Errorf("rotate handle at %+v, want (56, 0)", rot)
	}
}

func TestStepNoHandResets(t *testing.T) {
	sc := newRectScene()
	h := scene.NewHistory(0)
	m := NewMachine()

	m.Step(sc, h, hover(200, 200), 1)
	if m.State().Target != 0 {
		t.Fatalf("Target = %d, want 0", m.State().Target)
	}

	res := m.Step(sc, h, gesture.Idle, 1)
	if res.State.Target != -1 || res.State.Mode != ModeNone {
		t.Errorf("State after no hand = %+v, want reset", res.State)
	}
}

func TestStepHoverSelectsTopmost(t *testing.T) {
	sc := newRectScene()
	sc.AddShape(scene.Shape{Type: scene.Circle, CX: 230, CY: 200, W: 60, H: 60})
	h := scene.NewHistory(0)
	m := NewMachine()

	res := m.Step(sc, h, hover(220, 200), 1)
	if res.State.Target != 1 {
		t.Fatalf("Target = %d, want topmost 1", res.State.Target)
	}
	if !sc.Shapes[1].Selected || sc.Shapes[0].Selected {
		t.Errorf("selection = [%v %v], want only shape 1", sc.Shapes[0].Selected, sc.Shapes[1].Selected)
	}
	if res.Mutated {
		t.Error("hover should not mutate")
	}
	if undo, _ := h.Depth(); undo != 0 {
		t.Errorf("undo depth = %d, want 0", undo)
	}
}

func TestStepHoverOutsideClearsSelection(t *testing.T) {
	sc := newRectScene()
	sc.Shapes[0].Selected = true
	m := NewMachine()

	res := m.Step(sc, scene.NewHistory(0), hover(10, 10), 1)
	if res.State.Target != -1 {
		t.Errorf("Target = %d, want -1", res.State.Target)
	}
	if sc.SelectedIndex() != -1 {
		t.Errorf("SelectedIndex = %d, want -1", sc.SelectedIndex())
	}
}

func TestStepHeldTargetSurvivesLeavingBox(t *testing.T) {
	sc := newRectScene()
	h := scene.NewHistory(0)
	m := NewMachine()

	m.Step(sc, h, hover(200, 200), 1)
	res := m.Step(sc, h, hover(200, 144), 1)
	if res.State.Target != 0 {
		t.Fatalf("Target = %d, want 0 held", res.State.Target)
	}
	if res.Active != ModeRotate {
		t.Errorf("Active = %q, want rotate", res.Active)
	}
}

func TestStepDropsStaleTarget(t *testing.T) {
	sc := newRectScene()
	sc.AddShape(scene.Shape{Type: scene.Circle, CX: 500, CY: 500, W: 60, H: 60})
	h := scene.NewHistory(0)
	m := NewMachine()

	m.Step(sc, h, hover(500, 500), 1)
	sc.RemoveShape(1)

	res := m.Step(sc, h, hover(200, 200), 1)
	if res.State.Target != 0 {
		t.Errorf("Target = %d, want reacquired 0", res.State.Target)
	}
}

func TestStepMove(t *testing.T) {
	sc := newRectScene()
	h := scene.NewHistory(0)
	m := NewMachine()

	m.Step(sc, h, hover(200, 200), 1)
	res := m.Step(sc, h, pinch(200, 200), 1)
	if res.State.Mode != ModeMove {
		t.Fatalf("Mode = %q, want move", res.State.Mode)
	}
	// Passes within reach of the bottom-right handle.
	if res := m.Step(sc, h, pinch(260, 230), 1); res.State.Mode != ModeMove {
		t.Fatalf("Mode mid-drag = %q, want move latched", res.State.Mode)
	}
	m.Step(sc, h, pinch(300, 250), 1)

	sh := sc.Shapes[0]
	if sh.CX != 300 || sh.CY != 250 {
		t.Errorf("center = (%v, %v), want (300, 250)", sh.CX, sh.CY)
	}
	if sh.W != 100 || sh.H != 80 {
		t.Errorf("size changed to %vx%v", sh.W, sh.H)
	}
	if undo, _ := h.Depth(); undo != 1 {
		t.Errorf("undo depth = %d, want 1 push per pinch", undo)
	}

	res = m.Step(sc, h, hover(300, 250), 1)
	if res.State.Mode != ModeNone || res.State.Target != 0 {
		t.Errorf("after release State = %+v, want held target with no mode", res.State)
	}

	if !h.Undo(sc) {
		t.Fatal("Undo returned false")
	}
	if sc.Shapes[0].CX != 200 || sc.Shapes[0].CY != 200 {
		t.Errorf("after undo center = (%v, %v), want (200, 200)", sc.Shapes[0].CX, sc.Shapes[0].CY)
	}
}

func TestStepOnePushPerPinch(t *testing.T) {
	sc := newRectScene()
	h := scene.NewHistory(0)
	m := NewMachine()

	m.Step(sc, h, hover(200, 200), 1)
	for i := 0; i < 3; i++ {
		m.Step(sc, h, pinch(200+float64(i), 200), 1)
		m.Step(sc, h, pinch(210+float64(i), 200), 1)
		m.Step(sc, h, hover(210+float64(i), 200), 1)
	}
	if undo, _ := h.Depth(); undo != 3 {
		t.Errorf("undo depth = %d, want 3", undo)
	}
}

func TestStepRotate(t *testing.T) {
	sc := newRectScene()
	h := scene.NewHistory(0)
	m := NewMachine()

	m.Step(sc, h, hover(200, 200), 1)
	res := m.Step(sc, h, pinch(200, 144), 1)
	if res.State.Mode != ModeRotate {
		t.Fatalf("Mode = %q, want rotate", res.State.Mode)
	}
	if got := sc.Shapes[0].Angle; !near(got, -math.Pi/2) {
		t.Errorf("Angle = %v, want -pi/2", got)
	}

	m.Step(sc, h, pinch(260, 200), 1)
	if got := sc.Shapes[0].Angle; !near(got, 0) {
		t.Errorf("Angle = %v, want 0", got)
	}
	if sc.Shapes[0].CX != 200 || sc.Shapes[0].CY != 200 {
		t.Error("rotate moved the center")
	}
}

func TestStepDelete(t *testing.T) {
	sc := newRectScene()
	h := scene.NewHistory(0)
	m := NewMachine()

	m.Step(sc, h, hover(200, 200), 1)
	res := m.Step(sc, h, pinch(266, 144), 1)
	if !res.Deleted {
		t.Fatal("Deleted = false")
	}
	if len(sc.Shapes) != 0 {
		t.Errorf("len(Shapes) = %d, want 0", len(sc.Shapes))
	}
	if res.State.Target != -1 {
		t.Errorf("Target = %d, want -1", res.State.Target)
	}

	h.Undo(sc)
	if len(sc.Shapes) != 1 {
		t.Errorf("after undo len(Shapes) = %d, want 1", len(sc.Shapes))
	}
}

func TestStepResizePinsOppositeCorner(t *testing.T) {
	tests := []struct {
		name         string
		grab, drag   geom.Point
		wantW, wantH float64
		wantCX       float64
		wantCY       float64
	}{
		{"bottom-right", geom.Point{X: 250, Y: 240}, geom.Point{X: 270, Y: 260}, 120, 100, 210, 210},
		{"top-left", geom.Point{X: 150, Y: 160}, geom.Point{X: 130, Y: 150}, 120, 90, 190, 195},
		{"top-right", geom.Point{X: 250, Y: 160}, geom.Point{X: 230, Y: 150}, 80, 90, 190, 195},
		{"bottom-left", geom.Point{X: 150, Y: 240}, geom.Point{X: 170, Y: 230}, 80, 70, 210, 195},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newRectScene()
			h := scene.NewHistory(0)
			m := NewMachine()

			m.Step(sc, h, hover(200, 200), 1)
			res := m.Step(sc, h, pinch(tt.grab.X, tt.grab.Y), 1)
			if string(res.State.Mode) != tt.name {
				t.Fatalf("Mode = %q, want %q", res.State.Mode, tt.name)
			}
			sh := sc.Shapes[0]
			if !near(sh.W, 100) || !near(sh.H, 80) {
				t.Fatalf("grabbing resized to %vx%v", sh.W, sh.H)
			}

			m.Step(sc, h, pinch(tt.drag.X, tt.drag.Y), 1)
			sh = sc.Shapes[0]
			if !near(sh.W, tt.wantW) || !near(sh.H, tt.wantH) {
				t.Errorf("size = %vx%v, want %vx%v", sh.W, sh.H, tt.wantW, tt.wantH)
			}
			if !near(sh.CX, tt.wantCX) || !near(sh.CY, tt.wantCY) {
				t.Errorf("center = (%v, %v), want (%v, %v)", sh.CX, sh.CY, tt.wantCX, tt.wantCY)
			}
		})
	}
}

func TestStepResizeRotatedKeepsOppositeCorner(t *testing.T) {
	sc := &scene.Scene{}
	sc.AddShape(scene.Shape{Type: scene.Rect, CX: 200, CY: 200, W: 100, H: 60, Angle: math.Pi / 6})
	h := scene.NewHistory(0)
	m := NewMachine()

	before := Handles(&sc.Shapes[0], 1)
	anchor := before[0].World
	grab := before[3].World

	m.Step(sc, h, hover(200, 200), 1)
	m.Step(sc, h, pinch(grab.X, grab.Y), 1)
	drag := sc.Shapes[0].Frame().ToWorld(geom.Point{X: 80, Y: 50})
	m.Step(sc, h, pinch(drag.X, drag.Y), 1)

	sh := sc.Shapes[0]
	if !near(sh.W, 130) || !near(sh.H, 80) {
		t.Errorf("size = %vx%v, want 130x80", sh.W, sh.H)
	}
	after := Handles(&sh, 1)[0].World
	if !near(after.X, anchor.X) || !near(after.Y, anchor.Y) {
		t.Errorf("top-left moved from %+v to %+v", anchor, after)
	}
	if !near(sh.Angle, math.Pi/6) {
		t.Errorf("Angle = %v, want pi/6", sh.Angle)
	}
}

func TestStepResizeClampsToMinimum(t *testing.T) {
	sc := newRectScene()
	h := scene.NewHistory(0)
	m := NewMachine()

	m.Step(sc, h, hover(200, 200), 1)
	m.Step(sc, h, pinch(250, 240), 1)
	m.Step(sc, h, pinch(100, 100), 1)
	m.Step(sc, h, pinch(90, 90), 1)

	sh := sc.Shapes[0]
	if sh.W != scene.MinShapeSize || sh.H != scene.MinShapeSize {
		t.Errorf("size = %vx%v, want clamped to %v", sh.W, sh.H, scene.MinShapeSize)
	}
	// Left and top edges stay where they were.
	if left := sh.CX - sh.W/2; math.Abs(left-150) > eps {
		t.Errorf("left edge = %v, want 150", left)
	}
	if top := sh.CY - sh.H/2; math.Abs(top-160) > eps {
		t.Errorf("top edge = %v, want 160", top)
	}
}

func TestModeIsResize(t *testing.T) {
	for _, m := range []Mode{ModeTopLeft, ModeTopRight, ModeBottomLeft, ModeBottomRight} {
		if !m.IsResize() {
			t.Errorf("%q.IsResize() = false", m)
		}
	}
	for _, m := range []Mode{ModeNone, ModeMove, ModeRotate, ModeDelete} {
		if m.IsResize() {
			t.Errorf("%q.IsResize() = true", m)
		}
	}
}
