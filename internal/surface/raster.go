package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// stampDisc paints a filled disc of the given diameter centred on (cx, cy).
// Stamping the brush at every step of a segment gives round caps and joins.
func stampDisc(img *image.RGBA, cx, cy, diameter int, col color.RGBA) {
	b := img.Bounds()
	if diameter <= 1 {
		if image.Pt(cx, cy).In(b) {
			img.SetRGBA(cx, cy, col)
		}
		return
	}
	// Even diameters centre the disc between pixels so it spans exactly
	// diameter pixels across.
	lo := -diameter / 2
	hi := lo + diameter - 1
	mid := float64(lo+hi) / 2
	r := float64(diameter) / 2
	r2 := r * r
	for dy := lo; dy <= hi; dy++ {
		for dx := lo; dx <= hi; dx++ {
			fx, fy := float64(dx)-mid, float64(dy)-mid
			if fx*fx+fy*fy > r2 {
				continue
			}
			px := cx + dx
			py := cy + dy
			if image.Pt(px, py).In(b) {
				img.SetRGBA(px, py, col)
			}
		}
	}
}

// drawSegment rasterises a straight segment with a round brush.
func drawSegment(img *image.RGBA, p0, p1 image.Point, style Style) {
	x0, y0, x1, y1 := p0.X, p0.Y, p1.X, p1.Y
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		stampDisc(img, x0, y0, style.Width, style.Color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func fill(img *image.RGBA, col color.RGBA) {
	draw.Draw(img, img.Bounds(), &image.Uniform{col}, image.Point{}, draw.Src)
}

// ParseColor accepts CSS colour names and #RRGGBB / #RRGGBBAA values.
func ParseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	if strings.HasPrefix(spec, "#") && (len(spec) == 7 || len(spec) == 9) {
		val, err := strconv.ParseUint(spec[1:], 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		if len(spec) == 7 {
			return color.RGBA{uint8(val >> 16), uint8(val >> 8), uint8(val), 255}, nil
		}
		return color.RGBA{uint8(val >> 24), uint8(val >> 16), uint8(val >> 8), uint8(val)}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

// FormatColor renders col as #RRGGBB, or #RRGGBBAA when not opaque.
func FormatColor(col color.RGBA) string {
	if col.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", col.R, col.G, col.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", col.R, col.G, col.B, col.A)
}
