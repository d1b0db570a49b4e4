// Package session is the per-frame controller of the drawing engine. It
// routes pinch signals to drawing, erasing or the edit machine and owns
// the scene together with its history.
//
// A Session is not safe for concurrent use. The app confines it to the
// frame loop goroutine and runs user commands there too.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/ayusman/airsketch/internal/detector/landmark"
	"github.com/ayusman/airsketch/internal/edit"
	"github.com/ayusman/airsketch/internal/geom"
	"github.com/ayusman/airsketch/internal/gesture"
	"github.com/ayusman/airsketch/internal/recognize"
	"github.com/ayusman/airsketch/internal/scene"
	"github.com/ayusman/airsketch/internal/suggest"
)

// Scene constants in CSS pixels, scaled by the pixel ratio.
const (
	PointSpacing     = 2.0
	InsertedSize     = 220.0
	InsertedRectRate = 0.75
)

// Suggester receives naming requests and holds the current suggestions.
type Suggester interface {
	Trigger(req suggest.Request) error
	Items() []string
	Reset()
}

// Config assembles a session.
type Config struct {
	Settings       Settings         `yaml:"settings"`
	Recognizer     recognize.Config `yaml:"recognizer"`
	PinchThreshold float64          `yaml:"pinch_threshold"`
	HistoryLimit   int              `yaml:"history_limit"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		Settings:       DefaultSettings(),
		Recognizer:     recognize.DefaultConfig(),
		PinchThreshold: gesture.PinchThreshold,
		HistoryLimit:   scene.HistoryLimit,
	}
}

// Delta reports what one processed frame did.
type Delta struct {
	Signal gesture.Signal
	// Committed is true when the in-progress stroke was committed.
	Committed bool
	// Recognized is the shape snapped from the committed stroke.
	Recognized *scene.Shape
	// Erased counts strokes removed this frame.
	Erased int
	// Edit is the edit machine result in edit mode.
	Edit edit.Result
}

// Session holds the scene and everything that mutates it.
type Session struct {
	settings   Settings
	scene      scene.Scene
	history    *scene.History
	editor     *edit.Machine
	recognizer *recognize.Recognizer
	classifier gesture.Classifier
	suggester  Suggester

	// erasing latches the single history push of an erase pinch.
	erasing bool
	hands   []landmark.Hand
	signal  gesture.Signal
	seq     uint64
	now     func() time.Time
}

// New creates a session. sug may be nil when no naming service is
// configured.
func New(cfg Config, sug Suggester) (*Session, error) {
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		settings:   cfg.Settings,
		history:    scene.NewHistory(cfg.HistoryLimit),
		editor:     edit.NewMachine(),
		recognizer: recognize.New(cfg.Recognizer),
		classifier: gesture.Classifier{Threshold: cfg.PinchThreshold},
		suggester:  sug,
		now:        time.Now,
	}, nil
}

// ProcessSample advances the session by one tracking frame.
func (s *Session) ProcessSample(hands []landmark.Hand) Delta {
	s.seq++
	s.hands = hands

	sig := s.classifier.Classify(hands, s.settings.CanvasWidth, s.settings.CanvasHeight)
	s.signal = sig
	d := Delta{Signal: sig}

	switch {
	case sig.Pinching && s.settings.Mode == ModeDraw:
		s.extend(sig.Target)
	case sig.Pinching && s.settings.Mode == ModeErase:
		d.Erased = s.erase(sig.Target)
	default:
		d.Committed, d.Recognized = s.commitCurrent()
	}
	if !sig.Pinching {
		s.erasing = false
	}

	if s.settings.Mode == ModeEdit {
		d.Edit = s.editor.Step(&s.scene, s.history, sig, s.settings.PixelRatio)
	}
	return d
}

func (s *Session) extend(p geom.Point) {
	pr := s.settings.PixelRatio
	if s.scene.Current == nil {
		s.scene.Current = &scene.Stroke{
			Color: s.settings.Color,
			Size:  s.settings.Width * pr,
		}
	}

	cur := s.scene.Current
	if last, ok := cur.Last(); ok && geom.Dist(last.Pt(), p) <= PointSpacing*pr {
		return
	}
	cur.Points = append(cur.Points, scene.StrokePoint{X: p.X, Y: p.Y, T: s.now().UnixMilli()})
	s.requestSuggestions(true)
}

func (s *Session) erase(p geom.Point) int {
	if !s.erasing {
		s.erasing = true
		if len(s.scene.Strokes) > 0 {
			s.history.Push(&s.scene)
		}
	}

	radius := s.settings.EraseRadius * s.settings.PixelRatio
	return s.scene.RemoveStrokesWhere(func(st *scene.Stroke) bool {
		for _, q := range st.Points {
			if geom.Dist(q.Pt(), p) < radius {
				return true
			}
		}
		return false
	})
}

// commitCurrent commits the in-progress stroke if it has at least two
// points and always clears it.
func (s *Session) commitCurrent() (bool, *scene.Shape) {
	cur := s.scene.Current
	s.scene.Current = nil
	if !cur.Committable() {
		return false, nil
	}
	return true, s.commitStroke(*cur)
}

func (s *Session) commitStroke(st scene.Stroke) *scene.Shape {
	s.history.Push(&s.scene)
	s.scene.AddStroke(st)

	var shape *scene.Shape
	if s.settings.Snap {
		if sh, ok := s.snap(&st); ok {
			s.scene.AddShape(sh)
			shape = &sh
		}
	}
	s.requestSuggestions(false)
	return shape
}

func (s *Session) snap(st *scene.Stroke) (scene.Shape, bool) {
	pinned, err := s.settings.pinnedType()
	if err == nil && pinned != "" {
		return s.recognizer.Fit(st, pinned)
	}
	return s.recognizer.Detect(st, s.settings.PixelRatio)
}

func (s *Session) requestSuggestions(includeCurrent bool) {
	if s.suggester == nil {
		return
	}
	var cur *scene.Stroke
	if includeCurrent {
		cur = s.scene.Current
	}
	req := suggest.BuildRequest(s.scene.Strokes, cur,
		s.settings.CanvasWidth, s.settings.CanvasHeight, s.settings.PixelRatio)
	// Throttled and empty requests are expected and silent.
	_ = s.suggester.Trigger(req)
}

// Undo restores the previous snapshot. It reports whether anything changed.
func (s *Session) Undo() bool {
	s.editor.Reset()
	return s.history.Undo(&s.scene)
}

// Redo re-applies the last undone snapshot.
func (s *Session) Redo() bool {
	s.editor.Reset()
	return s.history.Redo(&s.scene)
}

// Clear drops all content, including the stroke in progress, and empties
// the suggestion list.
func (s *Session) Clear() {
	s.history.Push(&s.scene)
	s.scene.Clear()
	s.editor.Reset()
	if s.suggester != nil {
		s.suggester.Reset()
	}
}

// InsertSuggestion adds a shape for a suggested label, centred on the
// canvas.
func (s *Session) InsertSuggestion(label string) scene.Shape {
	t := TypeFromLabel(label)
	pr := s.settings.PixelRatio
	w := InsertedSize * pr
	h := w
	if t == scene.Rect {
		h = w * InsertedRectRate
	}

	sh := scene.Shape{
		Type:  t,
		CX:    s.settings.CanvasWidth / 2,
		CY:    s.settings.CanvasHeight / 2,
		W:     w,
		H:     h,
		Color: s.settings.Color,
	}
	s.history.Push(&s.scene)
	s.scene.AddShape(sh)
	return sh
}

// TypeFromLabel maps a free-form suggestion label to a shape type.
// Unknown labels become rectangles.
func TypeFromLabel(label string) scene.ShapeType {
	name := strings.ToLower(label)
	switch {
	case strings.Contains(name, "circle"), strings.Contains(name, "oval"), strings.Contains(name, "round"):
		return scene.Circle
	case strings.Contains(name, "square"), strings.Contains(name, "rect"):
		return scene.Rect
	case strings.Contains(name, "triangle"):
		return scene.Triangle
	}
	return scene.Rect
}

// SetShapeType changes the type of the selected shape. It reports whether
// a shape was selected; "auto" and non-edit modes are no-ops.
func (s *Session) SetShapeType(name string) (bool, error) {
	if name == TargetAuto {
		return false, nil
	}
	t, err := scene.ParseShapeType(name)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrInvalidShapeType, name)
	}
	if s.settings.Mode != ModeEdit {
		return false, nil
	}
	i := s.scene.SelectedIndex()
	if i < 0 {
		return false, nil
	}
	s.history.Push(&s.scene)
	s.scene.Shapes[i].Type = t
	return true, nil
}

// Load replaces the committed content with a saved drawing.
func (s *Session) Load(c scene.Content) {
	s.history.Push(&s.scene)
	s.editor.Reset()
	loaded := scene.Scene{Strokes: c.Strokes, Shapes: c.Shapes}
	s.scene.Restore(loaded.Snapshot())
	s.scene.Select(-1)
}

// Content returns a deep copy of the committed content.
func (s *Session) Content() scene.Content {
	return s.scene.Snapshot()
}

// Settings returns the current settings.
func (s *Session) Settings() Settings { return s.settings }

// UpdateSettings validates and applies new settings. Leaving edit mode
// drops the selection.
func (s *Session) UpdateSettings(next Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if s.settings.Mode == ModeEdit && next.Mode != ModeEdit {
		s.editor.Reset()
		s.scene.Select(-1)
	}
	s.settings = next
	return nil
}

// SetMode switches the pinch mode.
func (s *Session) SetMode(name string) error {
	m, err := ParseMode(name)
	if err != nil {
		return err
	}
	next := s.settings
	next.Mode = m
	return s.UpdateSettings(next)
}
