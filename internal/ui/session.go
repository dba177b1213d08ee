package ui

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"github.com/example/sketchgen/internal/generate"
	"github.com/example/sketchgen/internal/surface"
	"github.com/example/sketchgen/internal/theme"
)

const messageDuration = 2 * time.Second

// session is the state owned by the window's event loop. Only the loop
// goroutine calls its methods; generation runs on goroutines of its own and
// reports back through the ResultViews.
type session struct {
	app   *App
	ctx   context.Context
	win   image.Point
	mode  mode
	input *surface.Input

	description  string
	reference    []byte
	referenceImg image.Image

	hoverShortcut int
	message       string
	messageUntil  time.Time
	touches       touchTracker

	repaint  func()
	inflight sync.WaitGroup
}

func newSession(ctx context.Context, app *App, win image.Point, repaint func()) *session {
	s := &session{app: app, ctx: ctx, win: win, hoverShortcut: -1, repaint: repaint}
	s.input = surface.NewInput(app.surface, surface.ViewportFunc(func() image.Rectangle {
		return s.layout().canvas
	}))
	return s
}

func (s *session) layout() layout {
	return computeLayout(s.win, s.app.surface.Size())
}

func (s *session) resize(win image.Point) {
	s.win = win
}

func (s *session) controller() (*generate.Controller, *ResultView) {
	if s.mode == modeDescribe {
		return s.app.text, s.app.textView
	}
	return s.app.sketch, s.app.sketchView
}

func (s *session) setMessage(format string, args ...any) {
	s.message = fmt.Sprintf(format, args...)
	s.messageUntil = time.Now().Add(messageDuration)
	s.app.log.Info(s.message)
}

func (s *session) shortcuts() []Shortcut {
	_, view := s.controller()
	rs := view.snapshot()
	var sc []Shortcut
	if s.mode == modeDescribe {
		sc = []Shortcut{
			{label: "Enter:generate", action: "generate", disabled: !rs.trigger},
			{label: "^V:paste image", action: "paste"},
			{label: "^R:remove image", action: "unref", disabled: s.reference == nil},
			{label: "^S:download", action: "save", disabled: !rs.hasResult()},
			{label: "^Y:copy", action: "copy", disabled: !rs.hasResult()},
			{label: "Tab:sketch", action: "mode"},
		}
	} else {
		sc = []Shortcut{
			{label: "G:generate", action: "generate", disabled: !rs.trigger},
			{label: "U:undo", action: "undo", disabled: s.app.surface.HistoryLen() < 2},
			{label: "C:clear", action: "clear"},
			{label: "S:download", action: "save", disabled: !rs.hasResult()},
			{label: "Y:copy", action: "copy", disabled: !rs.hasResult()},
			{label: "[ ]:width", action: "widthup"},
			{label: "Tab:describe", action: "mode"},
			{label: "Q:quit", action: "quit"},
		}
	}
	layoutShortcuts(s.layout().shortcuts, sc)
	return sc
}

func (s *session) paintState(th *theme.Theme, phase int) paintState {
	_, view := s.controller()
	return paintState{
		width:         s.win.X,
		height:        s.win.Y,
		theme:         th,
		mode:          s.mode,
		canvas:        s.app.surface.Image(),
		style:         s.app.surface.Style(),
		result:        view.snapshot(),
		description:   s.description,
		reference:     s.referenceImg,
		shortcuts:     s.shortcuts(),
		hoverShortcut: s.hoverShortcut,
		message:       s.message,
		messageUntil:  s.messageUntil,
		phase:         phase,
	}
}

// action runs a named command. It reports true when the window should close.
func (s *session) action(name string) bool {
	switch name {
	case "generate":
		s.generate()
	case "undo":
		if err := s.app.surface.Undo(); err != nil {
			s.app.log.WithError(err).Error("undo")
		}
	case "clear":
		if err := s.app.surface.Clear(); err != nil {
			s.app.log.WithError(err).Error("clear")
		}
	case "save":
		s.save()
	case "copy":
		s.copyResult()
	case "paste":
		s.pasteReference()
	case "unref":
		s.reference, s.referenceImg = nil, nil
	case "mode":
		if s.mode == modeSketch {
			s.mode = modeDescribe
		} else {
			s.mode = modeSketch
		}
		s.hoverShortcut = -1
	case "widthup", "widthdown":
		dir := 1
		if name == "widthdown" {
			dir = -1
		}
		s.app.surface.SetWidth(nextWidth(s.app.surface.Style().Width, dir))
	case "quit":
		return true
	}
	s.repaint()
	return false
}

func (s *session) generate() {
	ctrl, view := s.controller()
	if !view.snapshot().trigger {
		return
	}
	var req generate.Request
	if s.mode == modeDescribe {
		req = generate.Request{Description: s.description}
		if s.reference != nil {
			req.Image, req.ImageName, req.ImageMIME = s.reference, "reference.png", "image/png"
		}
	} else {
		var err error
		if req, err = generate.SketchRequest(s.app.surface); err != nil {
			s.app.log.WithError(err).Error("export sketch")
			return
		}
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		res, err := ctrl.Generate(s.ctx, req)
		if err != nil {
			s.app.log.WithError(err).WithField("seq", res.Seq).Debug("generate finished")
		}
	}()
}

func (s *session) save() {
	ctrl, _ := s.controller()
	path, err := ctrl.Download(s.app.saveDir)
	if err != nil {
		s.app.log.WithError(err).Warn("save")
		return
	}
	s.setMessage("saved %s", path)
	s.app.notifier.Save(path)
}

func (s *session) copyResult() {
	ctrl, view := s.controller()
	data, err := ctrl.ResultBytes()
	if err != nil {
		s.app.log.WithError(err).Warn("copy")
		return
	}
	c := view.snapshot().caption
	if err := s.app.copyFn(data, strings.TrimSpace(c.Line1+"\n"+c.Line2)); err != nil {
		s.app.log.WithError(err).Warn("copy")
		return
	}
	s.setMessage("image copied to clipboard")
	s.app.notifier.Copy("image")
}

func (s *session) pasteReference() {
	data, err := s.app.pasteFn()
	if err != nil {
		s.app.log.WithError(err).Warn("paste reference")
		return
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		s.app.log.WithError(err).Warn("paste reference")
		return
	}
	s.reference, s.referenceImg = data, img
	s.setMessage("reference image attached")
}

// handleMouse returns true when the window should close.
func (s *session) handleMouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	l := s.layout()

	if s.app.surface.Drawing() {
		switch {
		case e.Direction == mouse.DirRelease:
			s.pointer(surface.Release, p)
		case e.Direction == mouse.DirNone && !p.In(l.canvas):
			s.pointer(surface.Leave, p)
		case e.Direction == mouse.DirNone:
			s.pointer(surface.Move, p)
		}
		return false
	}

	if s.message != "" && time.Now().Before(s.messageUntil) && e.Direction == mouse.DirPress {
		s.messageUntil = time.Time{}
		s.repaint()
		return false
	}

	press := e.Direction == mouse.DirPress && e.Button == mouse.ButtonLeft
	switch {
	case p.In(l.shortcuts):
		hover := -1
		for i, sc := range s.shortcuts() {
			if !p.In(sc.rect) {
				continue
			}
			hover = i
			if press && !sc.disabled {
				return s.action(sc.action)
			}
		}
		if hover != s.hoverShortcut {
			s.hoverShortcut = hover
			s.repaint()
		}
	case p.In(l.tabs):
		if press {
			if m := tabAt(l.tabs, p); m >= 0 && mode(m) != s.mode {
				s.action("mode")
			}
		}
	case s.mode == modeSketch && p.In(l.canvas):
		if press {
			s.pointer(surface.Press, p)
		}
	case s.mode == modeSketch && p.In(l.palette):
		if press {
			s.pickSwatch(l.palette, p)
		}
	default:
		if s.hoverShortcut != -1 {
			s.hoverShortcut = -1
			s.repaint()
		}
	}
	return false
}

func tabAt(bar image.Rectangle, p image.Point) int {
	x := p.X - bar.Min.X - 80
	if x < 0 || x >= 160 {
		return -1
	}
	return x / 80
}

func (s *session) pickSwatch(row image.Rectangle, p image.Point) {
	colors, widths := swatchRects(row)
	for i, r := range colors {
		if p.In(r) {
			s.app.surface.SetColor(palette[i].Color)
			s.repaint()
			return
		}
	}
	for i, r := range widths {
		if p.In(r) {
			s.app.surface.SetWidth(penWidths[i])
			s.repaint()
			return
		}
	}
}

func (s *session) pointer(kind surface.Kind, p image.Point) {
	if _, err := s.input.Handle(surface.Event{Kind: kind, Source: surface.Mouse, Client: p}); err != nil {
		s.app.log.WithError(err).Error("stroke")
	}
	s.repaint()
}

func (s *session) handleTouch(e touch.Event) {
	if s.mode != modeSketch {
		return
	}
	ev := s.touches.apply(e)
	if _, err := s.input.Handle(ev); err != nil {
		s.app.log.WithError(err).Error("stroke")
	}
	s.repaint()
}

// handleKey returns true when the window should close.
func (s *session) handleKey(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	ctrl := e.Modifiers&key.ModControl != 0
	r := unicode.ToLower(e.Rune)

	if e.Code == key.CodeTab {
		return s.action("mode")
	}

	if s.mode == modeDescribe {
		switch {
		case ctrl && r == 's':
			return s.action("save")
		case ctrl && (r == 'y' || r == 'c'):
			return s.action("copy")
		case ctrl && r == 'v':
			return s.action("paste")
		case ctrl && r == 'r':
			return s.action("unref")
		case ctrl:
			return false
		case e.Code == key.CodeReturnEnter:
			return s.action("generate")
		case e.Code == key.CodeEscape:
			return s.action("mode")
		case e.Code == key.CodeDeleteBackspace:
			if s.description != "" {
				_, size := utf8.DecodeLastRuneInString(s.description)
				s.description = s.description[:len(s.description)-size]
				s.app.textView.clearValidation()
				s.repaint()
			}
		case e.Rune >= ' ' && e.Rune != utf8.RuneError:
			s.description += string(e.Rune)
			s.app.textView.clearValidation()
			s.repaint()
		}
		return false
	}

	switch {
	case ctrl && r == 'z', !ctrl && r == 'u':
		return s.action("undo")
	case ctrl && r == 'c', !ctrl && r == 'y':
		return s.action("copy")
	case r == 's':
		return s.action("save")
	case ctrl:
		return false
	case r == 'g', e.Code == key.CodeReturnEnter:
		return s.action("generate")
	case r == 'c':
		return s.action("clear")
	case r == '[':
		return s.action("widthdown")
	case r == ']':
		return s.action("widthup")
	case r == 'q', e.Code == key.CodeEscape:
		return s.action("quit")
	}
	return false
}

// touchTracker orders active contacts so the first finger down stays primary.
type touchTracker struct {
	order []touch.Sequence
	pos   map[touch.Sequence]image.Point
}

func (t *touchTracker) apply(e touch.Event) surface.Event {
	if t.pos == nil {
		t.pos = make(map[touch.Sequence]image.Point)
	}
	p := image.Pt(int(e.X), int(e.Y))
	kind := surface.Move
	switch e.Type {
	case touch.TypeBegin:
		if _, ok := t.pos[e.Sequence]; !ok {
			t.order = append(t.order, e.Sequence)
		}
		t.pos[e.Sequence] = p
		kind = surface.Press
	case touch.TypeMove:
		if _, ok := t.pos[e.Sequence]; ok {
			t.pos[e.Sequence] = p
		}
	case touch.TypeEnd:
		delete(t.pos, e.Sequence)
		for i, seq := range t.order {
			if seq == e.Sequence {
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}
		kind = surface.Release
	}
	touches := make([]image.Point, 0, len(t.order))
	for _, seq := range t.order {
		touches = append(touches, t.pos[seq])
	}
	return surface.Event{Kind: kind, Source: surface.Touch, Client: p, Touches: touches}
}
