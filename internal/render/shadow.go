// Package render paints the soft effects drawn around panes in the window.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"sync"
)

// ShadowOptions configures the drop shadow cast by a pane.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// PaneShadow returns the shadow cast by the canvas and result panes.
func PaneShadow() ShadowOptions {
	return ShadowOptions{
		Radius:  6,
		Offset:  image.Pt(3, 4),
		Opacity: 0.35,
	}
}

type maskKey struct {
	size   image.Point
	radius int
}

// masks caches blurred rectangles; pane sizes rarely change between frames.
var masks sync.Map // maskKey -> *image.Gray

// DropShadow paints the shadow of the rectangle pane onto dst in col. The
// shadow is clipped to dst and the pane area itself is left for the caller
// to cover.
func DropShadow(dst *image.RGBA, pane image.Rectangle, col color.RGBA, opts ShadowOptions) {
	if dst == nil || pane.Empty() || opts.Opacity <= 0 {
		return
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}

	mask := shadowMask(pane.Size(), radius)
	at := pane.Inset(-radius).Add(opts.Offset)
	col.A = uint8(float64(col.A)*opacity + 0.5)
	if col.A == 0 {
		return
	}
	draw.DrawMask(dst, at, image.NewUniform(col), image.Point{}, mask, image.Point{}, draw.Over)
}

func shadowMask(size image.Point, radius int) *image.Gray {
	key := maskKey{size: size, radius: radius}
	if m, ok := masks.Load(key); ok {
		return m.(*image.Gray)
	}
	padded := image.Rect(0, 0, size.X+2*radius, size.Y+2*radius)
	solid := image.NewGray(padded)
	draw.Draw(solid, image.Rect(radius, radius, radius+size.X, radius+size.Y), image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)
	m := blurGray(solid, radius)
	masks.Store(key, m)
	return m
}

// blurGray is a separable box blur using running sums per row and column.
func blurGray(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	tmp := image.NewGray(bounds)
	dst := image.NewGray(bounds)

	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(row[x])
		}
		for x := 0; x < w; x++ {
			x0, x1 := max(x-radius, 0), min(x+radius, w-1)
			tmp.Pix[y*tmp.Stride+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(y-radius, 0), min(y+radius, h-1)
			dst.Pix[y*dst.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return dst
}
