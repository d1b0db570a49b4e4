// Package export writes the committed scene as a vector PDF.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/ayusman/airsketch/internal/geom"
	"github.com/ayusman/airsketch/internal/render"
	"github.com/ayusman/airsketch/internal/scene"
)

// Page layout in millimetres.
const (
	Margin        = 10.0
	ShapeLineMM   = 0.8
	TitleFontSize = 10.0
)

// ErrInvalidCanvas is returned when the canvas size is not positive.
var ErrInvalidCanvas = errors.New("canvas size must be positive")

// Options controls the PDF layout.
type Options struct {
	// Title is printed in the top margin when set.
	Title string
	// Width and Height are the canvas size the scene was drawn on.
	Width  float64
	Height float64
	// Uncompressed disables stream compression.
	Uncompressed bool
}

// WritePDF renders content onto one A4 page scaled to fit and writes it to w.
func WritePDF(w io.Writer, content scene.Content, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return ErrInvalidCanvas
	}

	orientation := "L"
	if opts.Height > opts.Width {
		orientation = "P"
	}
	p := gofpdf.New(orientation, "mm", "A4", "")
	p.SetCompression(!opts.Uncompressed)
	p.SetTitle(opts.Title, true)
	p.SetCreator("airsketch", true)
	p.AddPage()

	pageW, pageH := p.GetPageSize()
	scale := math.Min((pageW-2*Margin)/opts.Width, (pageH-2*Margin)/opts.Height)
	m := mapper{
		scale: scale,
		ox:    (pageW - opts.Width*scale) / 2,
		oy:    (pageH - opts.Height*scale) / 2,
	}

	if opts.Title != "" {
		p.SetFont("Helvetica", "", TitleFontSize)
		p.SetTextColor(0, 0, 0)
		p.Text(Margin, Margin-2, opts.Title)
	}

	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")
	for i := range content.Strokes {
		m.stroke(p, &content.Strokes[i])
	}
	p.SetLineWidth(ShapeLineMM)
	for i := range content.Shapes {
		m.shape(p, &content.Shapes[i])
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// mapper converts canvas pixels to page millimetres.
type mapper struct {
	scale  float64
	ox, oy float64
}

func (m mapper) pt(p geom.Point) (float64, float64) {
	return m.ox + p.X*m.scale, m.oy + p.Y*m.scale
}

func setDrawColor(p *gofpdf.Fpdf, hex string) {
	c, err := render.ParseColor(hex)
	if err != nil {
		p.SetDrawColor(0, 0, 0)
		return
	}
	p.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func (m mapper) stroke(p *gofpdf.Fpdf, st *scene.Stroke) {
	if len(st.Points) < 2 {
		return
	}
	setDrawColor(p, st.Color)
	p.SetLineWidth(math.Max(st.Size*m.scale, 0.1))
	for i := 1; i < len(st.Points); i++ {
		x1, y1 := m.pt(st.Points[i-1].Pt())
		x2, y2 := m.pt(st.Points[i].Pt())
		p.Line(x1, y1, x2, y2)
	}
}

func (m mapper) shape(p *gofpdf.Fpdf, sh *scene.Shape) {
	setDrawColor(p, sh.Color)

	switch sh.Type {
	case scene.Circle:
		x, y := m.pt(geom.Point{X: sh.CX, Y: sh.CY})
		p.Circle(x, y, math.Max(sh.W, sh.H)/2*m.scale, "D")
		return
	case scene.Triangle:
		m.polygon(p, sh, []geom.Point{
			{X: 0, Y: -sh.H / 2},
			{X: -sh.W / 2, Y: sh.H / 2},
			{X: sh.W / 2, Y: sh.H / 2},
		})
	default:
		hw, hh := sh.W/2, sh.H/2
		m.polygon(p, sh, []geom.Point{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}})
	}
}

func (m mapper) polygon(p *gofpdf.Fpdf, sh *scene.Shape, local []geom.Point) {
	f := sh.Frame()
	pts := make([]gofpdf.PointType, len(local))
	for i, lp := range local {
		x, y := m.pt(f.ToWorld(lp))
		pts[i] = gofpdf.PointType{X: x, Y: y}
	}
	p.Polygon(pts, "D")
}
