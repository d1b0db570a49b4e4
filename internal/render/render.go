// Package render rasterizes scene views onto camera frames with gocv.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"gocv.io/x/gocv"

	"github.com/ayusman/airsketch/internal/edit"
	"github.com/ayusman/airsketch/internal/geom"
	"github.com/ayusman/airsketch/internal/scene"
	"github.com/ayusman/airsketch/internal/session"
)

// Stroke widths and marker sizes, in CSS pixels (scaled by the pixel ratio).
const (
	ShapeLineWidth = 3
	HandleSize     = 10
	DashLength     = 8
	LandmarkRadius = 3
	TargetRadius   = 8
)

// ErrEmptyFrame is returned when drawing onto an empty Mat.
var ErrEmptyFrame = errors.New("empty frame")

// Palette holds the overlay colors.
type Palette struct {
	Selection color.RGBA
	Resize    color.RGBA
	Rotate    color.RGBA
	Delete    color.RGBA
	Landmark  color.RGBA
	Hover     color.RGBA
	Pinch     color.RGBA
	Fallback  color.RGBA
}

// DefaultPalette returns the colors of the browser canvas UI.
func DefaultPalette() Palette {
	return Palette{
		Selection: mustColor("#7aa2f7"),
		Resize:    mustColor("#7aa2f7"),
		Rotate:    mustColor("#ffd166"),
		Delete:    mustColor("#ff5a5f"),
		Landmark:  mustColor("#00e0ff"),
		Hover:     mustColor("#ffffff"),
		Pinch:     mustColor("#44ff88"),
		Fallback:  mustColor("#ffffff"),
	}
}

// Renderer draws views. It holds no per-frame state and is safe for
// concurrent use.
type Renderer struct {
	palette Palette
}

// New creates a renderer with the given palette.
func New(p Palette) *Renderer {
	return &Renderer{palette: p}
}

// Compose returns a new Mat with the view drawn over a copy of frame. A nil
// or empty frame yields a black canvas of the view's size. The caller
// closes the result.
func (r *Renderer) Compose(frame *gocv.Mat, v session.View) gocv.Mat {
	var out gocv.Mat
	if frame == nil || frame.Empty() {
		w, h := int(math.Round(v.CanvasWidth)), int(math.Round(v.CanvasHeight))
		if w <= 0 || h <= 0 {
			w, h = 1, 1
		}
		out = gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), h, w, gocv.MatTypeCV8UC3)
	} else {
		out = frame.Clone()
	}
	// out is never empty here.
	_ = r.Draw(&out, v)
	return out
}

// Draw renders v onto dst in place. Canvas coordinates are scaled to the
// Mat's size.
func (r *Renderer) Draw(dst *gocv.Mat, v session.View) error {
	if dst == nil || dst.Empty() {
		return ErrEmptyFrame
	}
	c := r.canvas(dst, v)

	for i := range v.Strokes {
		c.stroke(&v.Strokes[i])
	}
	if v.Current != nil {
		c.stroke(v.Current)
	}
	for i := range v.Shapes {
		c.shape(&v.Shapes[i])
	}
	if len(v.Handles) > 0 {
		c.handles(v.Handles)
	}
	if v.Hand != nil {
		c.hand(v.Hand)
	}
	return nil
}

// canvas maps view coordinates onto one Mat.
type canvas struct {
	dst     *gocv.Mat
	palette Palette
	sx, sy  float64
	pr      float64
}

func (r *Renderer) canvas(dst *gocv.Mat, v session.View) *canvas {
	sx, sy := 1.0, 1.0
	if v.CanvasWidth > 0 {
		sx = float64(dst.Cols()) / v.CanvasWidth
	}
	if v.CanvasHeight > 0 {
		sy = float64(dst.Rows()) / v.CanvasHeight
	}
	pr := v.PixelRatio
	if pr <= 0 {
		pr = 1
	}
	return &canvas{dst: dst, palette: r.palette, sx: sx, sy: sy, pr: pr}
}

func (c *canvas) pt(p geom.Point) image.Point {
	return image.Pt(int(math.Round(p.X*c.sx)), int(math.Round(p.Y*c.sy)))
}

// px converts a canvas length to at least one Mat pixel.
func (c *canvas) px(length float64) int {
	n := int(math.Round(length * math.Min(c.sx, c.sy)))
	if n < 1 {
		return 1
	}
	return n
}

func (c *canvas) color(hex string) color.RGBA {
	col, err := ParseColor(hex)
	if err != nil {
		return c.palette.Fallback
	}
	return col
}

func (c *canvas) stroke(st *scene.Stroke) {
	if len(st.Points) == 0 {
		return
	}
	col := c.color(st.Color)
	width := c.px(st.Size)
	if len(st.Points) == 1 {
		gocv.Circle(c.dst, c.pt(st.Points[0].Pt()), max(width/2, 1), col, -1)
		return
	}
	for i := 1; i < len(st.Points); i++ {
		gocv.Line(c.dst, c.pt(st.Points[i-1].Pt()), c.pt(st.Points[i].Pt()), col, width)
	}
}

func (c *canvas) shape(sh *scene.Shape) {
	col := c.color(sh.Color)
	width := c.px(ShapeLineWidth * c.pr)

	switch sh.Type {
	case scene.Circle:
		radius := math.Max(sh.W, sh.H) / 2
		gocv.Circle(c.dst, c.pt(geom.Point{X: sh.CX, Y: sh.CY}), c.px(radius), col, width)
	case scene.Triangle:
		c.polygon(sh, []geom.Point{
			{X: 0, Y: -sh.H / 2},
			{X: -sh.W / 2, Y: sh.H / 2},
			{X: sh.W / 2, Y: sh.H / 2},
		}, col, width)
	default:
		c.polygon(sh, corners(sh), col, width)
	}

	if sh.Selected {
		c.dashed(sh, corners(sh))
	}
}

func corners(sh *scene.Shape) []geom.Point {
	hw, hh := sh.W/2, sh.H/2
	return []geom.Point{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
}

func (c *canvas) polygon(sh *scene.Shape, local []geom.Point, col color.RGBA, width int) {
	f := sh.Frame()
	pts := make([]image.Point, len(local))
	for i, p := range local {
		pts[i] = c.pt(f.ToWorld(p))
	}
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()
	gocv.Polylines(c.dst, pv, true, col, width)
}

// dashed outlines the selection box with alternating dashes.
func (c *canvas) dashed(sh *scene.Shape, local []geom.Point) {
	f := sh.Frame()
	dash := DashLength * c.pr
	width := c.px(c.pr)
	for i := range local {
		a, b := f.ToWorld(local[i]), f.ToWorld(local[(i+1)%len(local)])
		length := geom.Dist(a, b)
		if length == 0 {
			continue
		}
		for s := 0.0; s < length; s += 2 * dash {
			e := math.Min(s+dash, length)
			p := geom.Point{X: a.X + (b.X-a.X)*s/length, Y: a.Y + (b.Y-a.Y)*s/length}
			q := geom.Point{X: a.X + (b.X-a.X)*e/length, Y: a.Y + (b.Y-a.Y)*e/length}
			gocv.Line(c.dst, c.pt(p), c.pt(q), c.palette.Selection, width)
		}
	}
}

func (c *canvas) handles(hs []edit.Handle) {
	half := HandleSize * c.pr / 2
	for _, h := range hs {
		col := c.palette.Resize
		switch h.Key {
		case edit.ModeRotate:
			col = c.palette.Rotate
		case edit.ModeDelete:
			col = c.palette.Delete
		}
		tl := c.pt(geom.Point{X: h.World.X - half, Y: h.World.Y - half})
		br := c.pt(geom.Point{X: h.World.X + half, Y: h.World.Y + half})
		gocv.Rectangle(c.dst, image.Rectangle{Min: tl, Max: br}, col, -1)
	}
}

func (c *canvas) hand(h *session.HandOverlay) {
	radius := c.px(LandmarkRadius * c.pr)
	for _, p := range h.Points {
		gocv.Circle(c.dst, c.pt(p), radius, c.palette.Landmark, -1)
	}
	col := c.palette.Hover
	if h.Pinching {
		col = c.palette.Pinch
	}
	gocv.Circle(c.dst, c.pt(h.Target), c.px(TargetRadius*c.pr), col, c.px(2*c.pr))
}

// ParseColor parses #rgb or #rrggbb into an opaque color.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

func mustColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
