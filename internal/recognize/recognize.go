// Package recognize classifies finished freehand strokes as geometric
// primitives.
package recognize

import (
	"cmp"
	"math"
	"slices"

	"github.com/ayusman/airsketch/internal/geom"
	"github.com/ayusman/airsketch/internal/scene"
)

// Empirical thresholds for auto-detection. Distances are in CSS pixels
// and are scaled by the display pixel ratio before use.
const (
	MinPoints        = 8
	ClosureDistance  = 25.0
	CircleSamples    = 32
	CircleTolerance  = 0.12
	SquareAspectLow  = 0.75
	SquareAspectHigh = 1.25
	HullSamples      = 12
)

// Config holds the recognizer thresholds. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	MinPoints       int     `yaml:"min_points"`
	ClosureDistance float64 `yaml:"closure_distance"`
	CircleTolerance float64 `yaml:"circle_tolerance"`
	AspectLow       float64 `yaml:"aspect_low"`
	AspectHigh      float64 `yaml:"aspect_high"`
}

// DefaultConfig returns the thresholds the air-drawing UI was tuned with.
func DefaultConfig() Config {
	return Config{
		MinPoints:       MinPoints,
		ClosureDistance: ClosureDistance,
		CircleTolerance: CircleTolerance,
		AspectLow:       SquareAspectLow,
		AspectHigh:      SquareAspectHigh,
	}
}

// Recognizer turns strokes into shapes.
type Recognizer struct {
	cfg Config
}

// New creates a Recognizer with the given thresholds.
func New(cfg Config) *Recognizer {
	return &Recognizer{cfg: cfg}
}

// Detect runs auto-detection on a finished stroke. ok is false when the
// stroke does not look like any supported primitive.
func (r *Recognizer) Detect(st *scene.Stroke, pixelRatio float64) (sh scene.Shape, ok bool) {
	pts := st.Geom()
	if len(pts) < r.cfg.MinPoints {
		return scene.Shape{}, false
	}
	if geom.Dist(pts[0], pts[len(pts)-1]) >= r.cfg.ClosureDistance*pixelRatio {
		return scene.Shape{}, false
	}

	box, _ := geom.Bounds(pts)
	c := box.Center()
	w, h := box.Width(), box.Height()

	if isCircular(pts, c, w, h, r.cfg.CircleTolerance) {
		size := math.Max(w, h)
		return newShape(scene.Circle, c, size, size, st.Color), true
	}

	if aspect := w / h; aspect > r.cfg.AspectLow && aspect < r.cfg.AspectHigh {
		return newShape(scene.Rect, c, w, h, st.Color), true
	}

	if len(convexHull(sample(pts, HullSamples))) == 3 {
		return newShape(scene.Triangle, c, w, h, st.Color), true
	}

	return scene.Shape{}, false
}

// Fit fits a shape of the requested type to the stroke's bounding box.
func (r *Recognizer) Fit(st *scene.Stroke, t scene.ShapeType) (scene.Shape, bool) {
	box, ok := geom.Bounds(st.Geom())
	if !ok {
		return scene.Shape{}, false
	}
	c := box.Center()
	w, h := box.Width(), box.Height()

	switch t {
	case scene.Circle:
		size := math.Max(w, h)
		return newShape(scene.Circle, c, size, size, st.Color), true
	case scene.Rect, scene.Triangle:
		return newShape(t, c, w, h, st.Color), true
	}
	return scene.Shape{}, false
}

func newShape(t scene.ShapeType, c geom.Point, w, h float64, color string) scene.Shape {
	return scene.Shape{Type: t, CX: c.X, CY: c.Y, W: w, H: h, Color: color}
}

// isCircular compares each sampled point's distance from the box centre
// against the mean radius (w+h)/4.
func isCircular(pts []geom.Point, c geom.Point, w, h, tolerance float64) bool {
	rAvg := (w + h) / 4
	samples := sample(pts, CircleSamples)

	var dev float64
	for _, p := range samples {
		dev += math.Abs(geom.Dist(p, c) - rAvg)
	}
	dev /= float64(len(samples))

	return dev < tolerance*rAvg
}

// sample keeps every ceil(len/n)-th point starting from the first.
func sample(pts []geom.Point, n int) []geom.Point {
	step := (len(pts) + n - 1) / n
	if step < 1 {
		step = 1
	}
	out := make([]geom.Point, 0, n)
	for i := 0; i < len(pts); i += step {
		out = append(out, pts[i])
	}
	return out
}

// convexHull computes the hull with Andrew's monotone chain. Collinear
// points are pruned.
func convexHull(pts []geom.Point) []geom.Point {
	sorted := slices.Clone(pts)
	slices.SortFunc(sorted, func(a, b geom.Point) int {
		if a.X == b.X {
			return cmp.Compare(a.Y, b.Y)
		}
		return cmp.Compare(a.X, b.X)
	})

	var lower []geom.Point
	for _, p := range sorted {
		for len(lower) >= 2 && geom.Cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []geom.Point
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && geom.Cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	if len(lower) == 0 {
		return nil
	}
	hull := append(lower[:len(lower)-1:len(lower)-1], upper[:len(upper)-1]...)
	return hull
}
