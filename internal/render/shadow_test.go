package render

import (
	"image"
	"image/color"
	"testing"
)

func TestDropShadowFallsOutsidePane(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 60, 60))
	pane := image.Rect(10, 10, 40, 40)
	DropShadow(dst, pane, color.RGBA{A: 255}, ShadowOptions{Radius: 4, Offset: image.Pt(5, 5), Opacity: 1})

	// Below and right of the pane the offset shadow is dense.
	if got := dst.RGBAAt(42, 42).A; got == 0 {
		t.Fatalf("expected shadow alpha at the offset corner")
	}
	// Far from the pane nothing is painted.
	if got := dst.RGBAAt(2, 55).A; got != 0 {
		t.Fatalf("unexpected alpha %d far from the pane", got)
	}
}

func TestDropShadowOpacityZeroIsNoop(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	DropShadow(dst, image.Rect(2, 2, 10, 10), color.RGBA{A: 255}, ShadowOptions{Radius: 2, Offset: image.Pt(1, 1)})
	for _, v := range dst.Pix {
		if v != 0 {
			t.Fatalf("opacity 0 painted pixels")
		}
	}
}

func TestDropShadowClipsToDestination(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	// Mostly outside dst; must not panic.
	DropShadow(dst, image.Rect(-20, -20, 5, 5), color.RGBA{A: 255}, PaneShadow())
	DropShadow(dst, image.Rect(8, 8, 30, 30), color.RGBA{A: 255}, PaneShadow())
}

func TestBlurGraySpreadsEvenly(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 5, 1))
	src.SetGray(2, 0, color.Gray{Y: 90})
	out := blurGray(src, 1)
	want := []uint8{0, 30, 30, 30, 0}
	for x, w := range want {
		if got := out.GrayAt(x, 0).Y; got != w {
			t.Fatalf("x=%d: got %d want %d", x, got, w)
		}
	}
}

func TestShadowMaskIsCached(t *testing.T) {
	a := shadowMask(image.Pt(7, 9), 3)
	b := shadowMask(image.Pt(7, 9), 3)
	if a != b {
		t.Fatalf("expected cached mask")
	}
	if got := a.Bounds().Size(); got != image.Pt(13, 15) {
		t.Fatalf("mask size = %v", got)
	}
}
