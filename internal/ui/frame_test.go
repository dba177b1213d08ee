package ui

import (
	"context"
	"image"
	"reflect"
	"testing"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/sketchgen/internal/surface"
	"github.com/example/sketchgen/internal/theme"
)

func TestComputeLayoutKeepsCanvasUnscaled(t *testing.T) {
	canvas := image.Pt(surface.DefaultWidth, surface.DefaultHeight)
	win := preferredSize(canvas)
	l := computeLayout(win, canvas)

	if l.canvas.Size() != canvas {
		t.Fatalf("canvas size = %v, want %v", l.canvas.Size(), canvas)
	}
	if l.result.Size() != canvas {
		t.Fatalf("result size = %v, want %v", l.result.Size(), canvas)
	}
	if l.canvas.Overlaps(l.result) {
		t.Fatalf("canvas %v overlaps result %v", l.canvas, l.result)
	}
	if !l.caption.Max.In(image.Rect(0, 0, win.X+1, l.shortcuts.Min.Y+1)) {
		t.Fatalf("caption %v runs into the shortcut bar %v", l.caption, l.shortcuts)
	}
	if l.canvas.Min.Y < l.tabs.Max.Y {
		t.Fatalf("canvas %v under the tabs %v", l.canvas, l.tabs)
	}
}

func TestComputeLayoutCentresInWideWindow(t *testing.T) {
	canvas := image.Pt(100, 80)
	l := computeLayout(image.Pt(1000, 400), canvas)
	left := l.canvas.Min.X
	right := 1000 - l.result.Max.X
	if d := left - right; d < -1 || d > 1 {
		t.Fatalf("content not centred: left %d right %d", left, right)
	}
}

func TestFitRect(t *testing.T) {
	cases := []struct {
		src  image.Point
		dst  image.Rectangle
		want image.Rectangle
	}{
		{image.Pt(100, 50), image.Rect(0, 0, 200, 200), image.Rect(0, 50, 200, 150)},
		{image.Pt(50, 100), image.Rect(0, 0, 200, 200), image.Rect(50, 0, 150, 200)},
		{image.Pt(0, 10), image.Rect(0, 0, 10, 10), image.Rectangle{}},
	}
	for _, c := range cases {
		if got := fitRect(c.src, c.dst); got != c.want {
			t.Errorf("fitRect(%v, %v) = %v, want %v", c.src, c.dst, got, c.want)
		}
	}
}

func TestWrapText(t *testing.T) {
	face := basicfont.Face7x13
	got := wrapText(face, "aaa bbb  ccc", 50)
	want := []string{"aaa bbb", "ccc"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrapText = %q, want %q", got, want)
	}
	if got := wrapText(face, "", 50); len(got) != 0 {
		t.Fatalf("empty input wrapped to %q", got)
	}
	if got := wrapText(face, "supercalifragilistic", 20); len(got) != 1 {
		t.Fatalf("long word should keep its own line, got %q", got)
	}
}

func TestNextWidth(t *testing.T) {
	cases := []struct{ cur, dir, want int }{
		{3, 1, 5},
		{3, -1, 2},
		{12, 1, 12},
		{1, -1, 1},
		{4, 1, 5},
	}
	for _, c := range cases {
		if got := nextWidth(c.cur, c.dir); got != c.want {
			t.Errorf("nextWidth(%d, %d) = %d, want %d", c.cur, c.dir, got, c.want)
		}
	}
}

func TestRenderSketchFrame(t *testing.T) {
	rig := newTestRig(t)
	origin := rig.sess.layout().canvas.Min
	rig.sess.handleMouse(mouseAt(origin.Add(image.Pt(10, 10)), mouse.DirPress))
	rig.sess.handleMouse(mouseAt(origin.Add(image.Pt(90, 10)), mouse.DirNone))
	rig.sess.handleMouse(mouseAt(origin.Add(image.Pt(90, 10)), mouse.DirRelease))

	st := rig.sess.paintState(theme.Default(), 0)
	dst := image.NewRGBA(image.Rect(0, 0, st.width, st.height))
	if !renderFrame(context.Background(), dst, st) {
		t.Fatalf("render reported cancellation")
	}
	if got := dst.RGBAAt(origin.X+50, origin.Y+10); got != surface.DefaultColor {
		t.Fatalf("stroke pixel = %v, want %v", got, surface.DefaultColor)
	}
	if got := dst.RGBAAt(origin.X+50, origin.Y+200); got != surface.DefaultPaper {
		t.Fatalf("paper pixel = %v, want %v", got, surface.DefaultPaper)
	}
}

func TestRenderDescribeFrameWithLoader(t *testing.T) {
	rig := newTestRig(t)
	rig.sess.action("mode")
	rig.app.textView.SetLoading(true)
	st := rig.sess.paintState(theme.Default(), 3)
	if st.mode != modeDescribe || !st.result.loading {
		t.Fatalf("paint state = %+v", st.mode)
	}
	dst := image.NewRGBA(image.Rect(0, 0, st.width, st.height))
	if !renderFrame(context.Background(), dst, st) {
		t.Fatalf("render reported cancellation")
	}
}

func TestRenderStopsWhenCancelled(t *testing.T) {
	rig := newTestRig(t)
	st := rig.sess.paintState(theme.Default(), 0)
	dst := image.NewRGBA(image.Rect(0, 0, st.width, st.height))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if renderFrame(ctx, dst, st) {
		t.Fatalf("render should report a cancelled frame")
	}
}
