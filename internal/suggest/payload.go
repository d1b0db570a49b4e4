package suggest

import (
	"math"
	"strings"

	"github.com/ayusman/airsketch/internal/geom"
	"github.com/ayusman/airsketch/internal/scene"
)

// Payload shaping limits.
const (
	RecentStrokes  = 4
	PayloadSamples = 32
	MaxSuggestions = 5
)

// StrokePayload is one stroke as sent to the naming service. Points are
// [x, y] pairs normalized to the canvas size.
type StrokePayload struct {
	Color  string       `json:"color"`
	Size   float64      `json:"size"`
	Points [][2]float64 `json:"points"`
}

// Request is the naming service request body.
type Request struct {
	Strokes []StrokePayload `json:"strokes"`
	Width   float64         `json:"width"`
	Height  float64         `json:"height"`
}

// Response is the naming service response body.
type Response struct {
	Suggestions []string `json:"suggestions"`
	Error       string   `json:"error,omitempty"`
	Detail      string   `json:"detail,omitempty"`
}

// BuildRequest shapes the most recent committed strokes, plus current
// when it has more than one point, into a naming request.
func BuildRequest(committed []scene.Stroke, current *scene.Stroke, width, height, pixelRatio float64) Request {
	recent := committed
	if len(recent) > RecentStrokes {
		recent = recent[len(recent)-RecentStrokes:]
	}

	req := Request{
		Strokes: make([]StrokePayload, 0, len(recent)+1),
		Width:   width,
		Height:  height,
	}
	for i := range recent {
		req.Strokes = append(req.Strokes, simplify(&recent[i], width, height, pixelRatio))
	}
	if current.Committable() {
		req.Strokes = append(req.Strokes, simplify(current, width, height, pixelRatio))
	}
	return req
}

func simplify(st *scene.Stroke, width, height, pixelRatio float64) StrokePayload {
	n := len(st.Points)
	step := int(math.Ceil(float64(n) / PayloadSamples))
	if step < 1 {
		step = 1
	}
	if pixelRatio <= 0 {
		pixelRatio = 1
	}

	pts := make([][2]float64, 0, n/step+1)
	for i := 0; i < n; i += step {
		p := st.Points[i]
		pts = append(pts, [2]float64{geom.Round(p.X/width, 4), geom.Round(p.Y/height, 4)})
	}
	return StrokePayload{
		Color:  st.Color,
		Size:   geom.Round(st.Size/pixelRatio, 2),
		Points: pts,
	}
}

// Clean trims names, drops empty ones and keeps at most MaxSuggestions.
func Clean(names []string) []string {
	out := make([]string, 0, min(len(names), MaxSuggestions))
	for _, n := range names {
		if len(out) == MaxSuggestions {
			break
		}
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
