package session

import (
	"github.com/ayusman/airsketch/internal/detector/landmark"
	"github.com/ayusman/airsketch/internal/edit"
	"github.com/ayusman/airsketch/internal/geom"
	"github.com/ayusman/airsketch/internal/scene"
)

// View is an immutable copy of everything a renderer needs for one frame.
type View struct {
	Seq          uint64         `json:"seq"`
	Mode         Mode           `json:"mode"`
	CanvasWidth  float64        `json:"canvasWidth"`
	CanvasHeight float64        `json:"canvasHeight"`
	PixelRatio   float64        `json:"pixelRatio"`
	Strokes      []scene.Stroke `json:"strokes"`
	Shapes       []scene.Shape  `json:"shapes"`
	Current      *scene.Stroke  `json:"current,omitempty"`
	Handles      []edit.Handle  `json:"handles,omitempty"`
	Edit         edit.State     `json:"edit"`
	Hand         *HandOverlay   `json:"hand,omitempty"`
	Suggestions  []string       `json:"suggestions"`
	CanUndo      bool           `json:"canUndo"`
	CanRedo      bool           `json:"canRedo"`
}

// HandOverlay is the detected hand in canvas pixels.
type HandOverlay struct {
	Points   []geom.Point `json:"points"`
	Target   geom.Point   `json:"target"`
	Pinching bool         `json:"pinching"`
}

// View snapshots the session for publishing.
func (s *Session) View() View {
	sc := s.scene.Clone()
	v := View{
		Seq:          s.seq,
		Mode:         s.settings.Mode,
		CanvasWidth:  s.settings.CanvasWidth,
		CanvasHeight: s.settings.CanvasHeight,
		PixelRatio:   s.settings.PixelRatio,
		Strokes:      sc.Strokes,
		Shapes:       sc.Shapes,
		Current:      sc.Current,
		Edit:         s.editor.State(),
		Suggestions:  []string{},
		CanUndo:      s.history.CanUndo(),
		CanRedo:      s.history.CanRedo(),
	}
	if i := sc.SelectedIndex(); i >= 0 && s.settings.Mode == ModeEdit {
		v.Handles = edit.Handles(&sc.Shapes[i], s.settings.PixelRatio)
	}
	if s.settings.ShowHands && len(s.hands) > 0 {
		v.Hand = s.overlay(&s.hands[0])
	}
	if s.suggester != nil {
		v.Suggestions = s.suggester.Items()
	}
	return v
}

func (s *Session) overlay(h *landmark.Hand) *HandOverlay {
	pts := make([]geom.Point, len(h.Points))
	for i, p := range h.Points {
		pts[i] = geom.Point{X: p.X * s.settings.CanvasWidth, Y: p.Y * s.settings.CanvasHeight}
	}
	return &HandOverlay{Points: pts, Target: s.signal.Target, Pinching: s.signal.Pinching}
}
