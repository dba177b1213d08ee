package ui

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/example/sketchgen/internal/blob"
	"github.com/example/sketchgen/internal/generate"
	"github.com/example/sketchgen/internal/surface"
)

func solidPNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

type recordingBackend struct {
	mu    sync.Mutex
	reqs  []generate.Request
	reply []byte
	err   error
}

func (b *recordingBackend) Generate(_ context.Context, req generate.Request) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reqs = append(b.reqs, req)
	return b.reply, b.err
}

func (b *recordingBackend) requests() []generate.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]generate.Request(nil), b.reqs...)
}

type testRig struct {
	app     *App
	sess    *session
	sketchB *recordingBackend
	textB   *recordingBackend
	copied  [][]byte
	caption string
	paste   []byte
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	surf, err := surface.New(surface.DefaultWidth, surface.DefaultHeight)
	if err != nil {
		t.Fatalf("surface: %v", err)
	}
	store := blob.NewStore()
	rig := &testRig{
		sketchB: &recordingBackend{reply: solidPNG(t, color.RGBA{255, 0, 0, 255})},
		textB:   &recordingBackend{reply: solidPNG(t, color.RGBA{0, 0, 255, 255})},
	}
	sketchView := NewResultView(store, nil, log)
	textView := NewResultView(store, nil, log)
	sketch := generate.New(rig.sketchB, sketchView, store, generate.WithLogger(log))
	text := generate.New(rig.textB, textView, store,
		generate.WithValidator(generate.RequireDescription),
		generate.WithFailureMessage(generate.DetailedFailure),
		generate.WithLogger(log))

	rig.app = New(surf,
		WithSketch(sketch, sketchView),
		WithText(text, textView),
		WithSaveDir(t.TempDir()),
		WithLogger(log),
	)
	rig.app.copyFn = func(data []byte, caption string) error {
		rig.copied = append(rig.copied, data)
		rig.caption = caption
		return nil
	}
	rig.app.pasteFn = func() ([]byte, error) {
		if rig.paste == nil {
			return nil, errors.New("clipboard empty")
		}
		return rig.paste, nil
	}
	rig.sess = newSession(context.Background(), rig.app, preferredSize(surf.Size()), func() {})
	return rig
}

func press(r rune) key.Event { return key.Event{Rune: r, Direction: key.DirPress} }

func pressCode(c key.Code) key.Event { return key.Event{Rune: -1, Code: c, Direction: key.DirPress} }

func ctrlPress(r rune) key.Event {
	return key.Event{Rune: r, Direction: key.DirPress, Modifiers: key.ModControl}
}

func mouseAt(p image.Point, dir mouse.Direction) mouse.Event {
	return mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: dir}
}

func TestMouseStrokeDrawsOnCanvas(t *testing.T) {
	rig := newTestRig(t)
	origin := rig.sess.layout().canvas.Min

	rig.sess.handleMouse(mouseAt(origin.Add(image.Pt(10, 20)), mouse.DirPress))
	if !rig.app.surface.Drawing() {
		t.Fatalf("press inside the canvas should start a stroke")
	}
	rig.sess.handleMouse(mouseAt(origin.Add(image.Pt(60, 20)), mouse.DirNone))
	rig.sess.handleMouse(mouseAt(origin.Add(image.Pt(60, 20)), mouse.DirRelease))

	if got := rig.app.surface.HistoryLen(); got != 2 {
		t.Fatalf("history length = %d, want 2", got)
	}
	if got := rig.app.surface.Image().RGBAAt(35, 20); got != surface.DefaultColor {
		t.Fatalf("pixel on the stroke = %v, want %v", got, surface.DefaultColor)
	}
}

func TestMouseLeavingCanvasEndsStroke(t *testing.T) {
	rig := newTestRig(t)
	l := rig.sess.layout()

	rig.sess.handleMouse(mouseAt(l.canvas.Min.Add(image.Pt(5, 5)), mouse.DirPress))
	rig.sess.handleMouse(mouseAt(l.result.Min.Add(image.Pt(5, 5)), mouse.DirNone))
	if rig.app.surface.Drawing() {
		t.Fatalf("leaving the canvas should end the stroke")
	}
	if got := rig.app.surface.HistoryLen(); got != 2 {
		t.Fatalf("history length = %d, want 2", got)
	}
}

func TestPaletteClickSetsPen(t *testing.T) {
	rig := newTestRig(t)
	colors, widths := swatchRects(rig.sess.layout().palette)

	rig.sess.handleMouse(mouseAt(colors[2].Min.Add(image.Pt(2, 2)), mouse.DirPress))
	if got := rig.app.surface.Style().Color; got != palette[2].Color {
		t.Fatalf("colour = %v, want %v", got, palette[2].Color)
	}
	rig.sess.handleMouse(mouseAt(widths[4].Min.Add(image.Pt(2, 2)), mouse.DirPress))
	if got := rig.app.surface.Style().Width; got != penWidths[4] {
		t.Fatalf("width = %d, want %d", got, penWidths[4])
	}
}

func TestSketchKeys(t *testing.T) {
	rig := newTestRig(t)
	origin := rig.sess.layout().canvas.Min
	rig.sess.handleMouse(mouseAt(origin.Add(image.Pt(10, 10)), mouse.DirPress))
	rig.sess.handleMouse(mouseAt(origin.Add(image.Pt(30, 10)), mouse.DirRelease))

	rig.sess.handleKey(press('u'))
	if got := rig.app.surface.HistoryLen(); got != 1 {
		t.Fatalf("after undo history length = %d, want 1", got)
	}

	rig.sess.handleKey(press(']'))
	if got := rig.app.surface.Style().Width; got != 5 {
		t.Fatalf("width after ] = %d, want 5", got)
	}
	rig.sess.handleKey(press('['))
	rig.sess.handleKey(press('['))
	if got := rig.app.surface.Style().Width; got != 2 {
		t.Fatalf("width after [[ = %d, want 2", got)
	}

	if rig.sess.handleKey(press('q')) != true {
		t.Fatalf("q should close the window")
	}
}

func TestSketchGenerateSaveAndCopy(t *testing.T) {
	rig := newTestRig(t)

	rig.sess.handleKey(press('g'))
	rig.sess.inflight.Wait()

	reqs := rig.sketchB.requests()
	if len(reqs) != 1 {
		t.Fatalf("backend calls = %d, want 1", len(reqs))
	}
	if reqs[0].ImageMIME != "image/png" || len(reqs[0].Image) == 0 {
		t.Fatalf("sketch request carries no PNG: %+v", reqs[0].ImageMIME)
	}
	rs := rig.app.sketchView.snapshot()
	if !rs.hasResult() || !rs.trigger || rs.loading {
		t.Fatalf("unexpected view state %+v", rs)
	}

	rig.sess.handleKey(press('s'))
	path := filepath.Join(rig.app.saveDir, generate.DownloadName)
	saved, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if !bytes.Equal(saved, rig.sketchB.reply) {
		t.Fatalf("download differs from the returned bytes")
	}

	rig.sess.handleKey(press('y'))
	if len(rig.copied) != 1 || !bytes.Equal(rig.copied[0], rig.sketchB.reply) {
		t.Fatalf("copy did not receive the result bytes")
	}
	if rig.caption == "" {
		t.Fatalf("copy should carry the caption")
	}
}

func TestDescribeTypingAndValidation(t *testing.T) {
	rig := newTestRig(t)
	rig.sess.handleKey(pressCode(key.CodeTab))
	if rig.sess.mode != modeDescribe {
		t.Fatalf("tab should switch to describe mode")
	}

	rig.sess.handleKey(pressCode(key.CodeReturnEnter))
	rig.sess.inflight.Wait()
	if n := len(rig.textB.requests()); n != 0 {
		t.Fatalf("empty description reached the backend %d times", n)
	}
	if got := rig.app.textView.snapshot().validation; got != "Please provide a description." {
		t.Fatalf("validation = %q", got)
	}

	for _, r := range "a cat!" {
		rig.sess.handleKey(press(r))
	}
	rig.sess.handleKey(pressCode(key.CodeDeleteBackspace))
	if rig.sess.description != "a cat" {
		t.Fatalf("description = %q, want %q", rig.sess.description, "a cat")
	}
	if got := rig.app.textView.snapshot().validation; got != "" {
		t.Fatalf("editing should clear validation, got %q", got)
	}

	// Plain letters are text here, not sketch shortcuts.
	if rig.sess.handleKey(press('q')) {
		t.Fatalf("q in describe mode must not close the window")
	}
	if rig.sess.description != "a catq" {
		t.Fatalf("description = %q", rig.sess.description)
	}
}

func TestDescribeWithPastedReference(t *testing.T) {
	rig := newTestRig(t)
	rig.paste = solidPNG(t, color.RGBA{0, 255, 0, 255})
	rig.sess.handleKey(pressCode(key.CodeTab))
	for _, r := range "tree" {
		rig.sess.handleKey(press(r))
	}
	rig.sess.handleKey(ctrlPress('v'))
	if rig.sess.referenceImg == nil {
		t.Fatalf("paste should attach a reference image")
	}

	rig.sess.handleKey(pressCode(key.CodeReturnEnter))
	rig.sess.inflight.Wait()
	reqs := rig.textB.requests()
	if len(reqs) != 1 {
		t.Fatalf("backend calls = %d, want 1", len(reqs))
	}
	if reqs[0].Description != "tree" || !bytes.Equal(reqs[0].Image, rig.paste) || reqs[0].ImageMIME != "image/png" {
		t.Fatalf("unexpected request %+v", reqs[0].Description)
	}
	if !rig.app.textView.snapshot().hasResult() {
		t.Fatalf("text view should show the result")
	}
	if rig.app.sketchView.snapshot().hasResult() {
		t.Fatalf("sketch view must be untouched by the text path")
	}

	rig.sess.handleKey(ctrlPress('r'))
	if rig.sess.reference != nil {
		t.Fatalf("ctrl+r should drop the reference")
	}
}

func TestPasteWithoutImageKeepsReference(t *testing.T) {
	rig := newTestRig(t)
	rig.sess.action("mode")
	rig.sess.action("paste")
	if rig.sess.reference != nil {
		t.Fatalf("failed paste should leave no reference")
	}
}

func TestTextFailureShowsDetailedMessage(t *testing.T) {
	rig := newTestRig(t)
	rig.textB.reply = nil
	rig.textB.err = &generate.ResponseError{Status: 503, Message: "model loading"}
	rig.sess.action("mode")
	rig.sess.description = "boat"
	rig.sess.action("generate")
	rig.sess.inflight.Wait()

	rs := rig.app.textView.snapshot()
	if rs.failure != "Error: model loading" {
		t.Fatalf("failure = %q", rs.failure)
	}
	if !rs.trigger {
		t.Fatalf("trigger should be re-enabled after failure")
	}
}

func TestShortcutsReflectState(t *testing.T) {
	rig := newTestRig(t)
	disabled := map[string]bool{}
	for _, sc := range rig.sess.shortcuts() {
		disabled[sc.action] = sc.disabled
	}
	if !disabled["save"] || !disabled["copy"] || !disabled["undo"] {
		t.Fatalf("save, copy and undo should start disabled: %v", disabled)
	}
	if disabled["generate"] {
		t.Fatalf("generate should start enabled")
	}
}

func TestTabAt(t *testing.T) {
	bar := image.Rect(0, 0, 400, tabHeight)
	cases := []struct {
		x    int
		want int
	}{
		{10, -1},
		{85, int(modeSketch)},
		{170, int(modeDescribe)},
		{300, -1},
	}
	for _, c := range cases {
		if got := tabAt(bar, image.Pt(c.x, 5)); got != c.want {
			t.Errorf("tabAt(%d) = %d, want %d", c.x, got, c.want)
		}
	}
}

func TestTouchTrackerKeepsFirstContactPrimary(t *testing.T) {
	var tr touchTracker
	ev := tr.apply(touch.Event{X: 10, Y: 10, Sequence: 1, Type: touch.TypeBegin})
	if ev.Kind != surface.Press || len(ev.Touches) != 1 {
		t.Fatalf("first begin = %+v", ev)
	}
	ev = tr.apply(touch.Event{X: 50, Y: 50, Sequence: 2, Type: touch.TypeBegin})
	if ev.Touches[0] != image.Pt(10, 10) {
		t.Fatalf("primary contact moved to %v", ev.Touches[0])
	}
	ev = tr.apply(touch.Event{X: 12, Y: 14, Sequence: 1, Type: touch.TypeMove})
	if ev.Kind != surface.Move || ev.Touches[0] != image.Pt(12, 14) {
		t.Fatalf("move = %+v", ev)
	}
	ev = tr.apply(touch.Event{X: 12, Y: 14, Sequence: 1, Type: touch.TypeEnd})
	if ev.Kind != surface.Release || len(ev.Touches) != 1 || ev.Touches[0] != image.Pt(50, 50) {
		t.Fatalf("end = %+v", ev)
	}
}

func TestTouchStrokeIgnoredInDescribeMode(t *testing.T) {
	rig := newTestRig(t)
	rig.sess.action("mode")
	origin := rig.sess.layout().canvas.Min
	rig.sess.handleTouch(touch.Event{X: float32(origin.X + 5), Y: float32(origin.Y + 5), Sequence: 1, Type: touch.TypeBegin})
	if rig.app.surface.Drawing() {
		t.Fatalf("touch in describe mode should not draw")
	}
}
