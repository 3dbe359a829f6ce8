package icon

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/vector"
)

// SVGRasterizer renders the SVG document itself
type SVGRasterizer struct{}

func (SVGRasterizer) Name() string { return "svg" }

func (SVGRasterizer) Rasterize(svg []byte, size int) (img image.Image, err error) {
	if len(svg) == 0 {
		return nil, errors.New("no SVG input")
	}

	// oksvg panics on some malformed path data.
	defer func() {
		if rec := recover(); rec != nil {
			img, err = nil, fmt.Errorf("svg renderer panicked: %v", rec)
		}
	}()

	parsed, err := oksvg.ReadIconStream(bytes.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}

	parsed.SetTarget(0, 0, float64(size), float64(size))
	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	parsed.Draw(rasterx.NewDasher(size, size, scanner), 1)

	return rgba, nil
}

// FishOutline is the simplified icon outline on a 24x24 grid
var FishOutline = [][2]float32{
	{2, 16}, {6, 10}, {11, 6}, {16, 8}, {22, 12}, {18, 18}, {11, 23}, {6, 16}, {2, 8},
}

// StrokeColor of the built-in icon (#5B5B5B)
var StrokeColor = color.RGBA{R: 0x5b, G: 0x5b, B: 0x5b, A: 0xff}

// FallbackRasterizer ignores the SVG and draws the built-in outline
type FallbackRasterizer struct{}

func (FallbackRasterizer) Name() string { return "builtin" }

func (FallbackRasterizer) Rasterize(_ []byte, size int) (image.Image, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid size %d", size)
	}

	scale := float32(size) / 24
	pts := make([][2]float32, len(FishOutline))
	for i, p := range FishOutline {
		pts[i] = [2]float32{p[0] * scale, p[1] * scale}
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	strokePolyline(dst, pts, 2*scale, StrokeColor)
	return dst, nil
}

// strokePolyline fills one quad per segment and a disc per vertex. All subpaths share the
// same winding so overlaps do not cancel out.
func strokePolyline(dst draw.Image, pts [][2]float32, width float32, c color.Color) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	half := width / 2

	for i := 0; i+1 < len(pts); i++ {
		a, e := pts[i], pts[i+1]
		dx, dy := e[0]-a[0], e[1]-a[1]
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half

		z.MoveTo(a[0]+nx, a[1]+ny)
		z.LineTo(e[0]+nx, e[1]+ny)
		z.LineTo(e[0]-nx, e[1]-ny)
		z.LineTo(a[0]-nx, a[1]-ny)
		z.ClosePath()
	}

	const segments = 16
	for _, p := range pts {
		for k := 0; k <= segments; k++ {
			theta := -2 * math.Pi * float64(k) / segments
			x := p[0] + half*float32(math.Cos(theta))
			y := p[1] + half*float32(math.Sin(theta))
			if k == 0 {
				z.MoveTo(x, y)
			} else {
				z.LineTo(x, y)
			}
		}
		z.ClosePath()
	}

	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}
