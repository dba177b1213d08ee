// Package ui is the desktop window: a drawing canvas, a description editor
// and a result pane for each generation path, driven by shiny.
package ui

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"

	"github.com/example/sketchgen/internal/clipboard"
	"github.com/example/sketchgen/internal/generate"
	"github.com/example/sketchgen/internal/notify"
	"github.com/example/sketchgen/internal/surface"
	"github.com/example/sketchgen/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

const spinnerInterval = 80 * time.Millisecond

// App holds what the window shows and acts on.
type App struct {
	surface    *surface.Surface
	sketch     *generate.Controller
	sketchView *ResultView
	text       *generate.Controller
	textView   *ResultView
	theme      *theme.Theme
	saveDir    string
	notifier   *notify.Notifier
	log        logrus.FieldLogger
	onClose    func()

	copyFn  func(data []byte, caption string) error
	pasteFn func() ([]byte, error)

	closeOnce sync.Once
}

// Option modifies an App during creation.
type Option func(*App)

// WithSketch binds the sketch path's controller and its result pane.
func WithSketch(c *generate.Controller, v *ResultView) Option {
	return func(a *App) { a.sketch, a.sketchView = c, v }
}

// WithText binds the description path's controller and its result pane.
func WithText(c *generate.Controller, v *ResultView) Option {
	return func(a *App) { a.text, a.textView = c, v }
}

// WithTheme sets the palette.
func WithTheme(t *theme.Theme) Option { return func(a *App) { a.theme = t } }

// WithSaveDir sets where downloads are written.
func WithSaveDir(dir string) Option { return func(a *App) { a.saveDir = dir } }

// WithNotifier sets the desktop notifier.
func WithNotifier(n *notify.Notifier) Option { return func(a *App) { a.notifier = n } }

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option { return func(a *App) { a.log = l } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *App) { a.onClose = fn } }

// New creates an App around s. Both paths must be bound with WithSketch and
// WithText.
func New(s *surface.Surface, opts ...Option) *App {
	a := &App{
		surface: s,
		theme:   theme.Default(),
		log:     logrus.StandardLogger(),
		copyFn:  clipboard.CopyResult,
		pasteFn: clipboard.ReadPNG,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *App) close() {
	a.closeOnce.Do(func() {
		a.sketch.Close()
		a.text.Close()
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *App) Run() { driver.Main(a.Main) }

// Main runs the event loop on an existing screen.
func (a *App) Main(s screen.Screen) {
	want := preferredSize(a.surface.Size())
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: want.X, Height: want.Y, Title: "SketchGen"})
	if err != nil {
		a.log.WithError(err).Fatal("new window")
	}
	defer w.Release()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer a.close()

	repaint := func() { w.Send(paint.Event{}) }
	a.sketchView.setOnChange(repaint)
	a.textView.setOnChange(repaint)
	defer a.sketchView.setOnChange(nil)
	defer a.textView.setOnChange(nil)

	sess := newSession(ctx, a, want, repaint)

	// Keep the loader animating while either path is pending.
	var phase atomic.Int64
	go func() {
		t := time.NewTicker(spinnerInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if a.sketchView.snapshot().loading || a.textView.snapshot().loading {
					phase.Add(1)
					repaint()
				}
			}
		}
	}()

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	logPaint := func(err error) { a.log.WithError(err).Error("new buffer") }
	go func() {
		for st := range paintCh {
			fctx, fcancel := context.WithCancel(ctx)
			paintMu.Lock()
			paintCancel = fcancel
			paintMu.Unlock()
			drawFrame(fctx, s, w, st, logPaint)
			paintMu.Lock()
			paintCancel = nil
			if fctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			fcancel()
		}
	}()

	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}
	// shutdown abandons pending requests and waits for their goroutines so
	// no view callback reaches a released window.
	shutdown := func() {
		stopPaint()
		cancel()
		sess.inflight.Wait()
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				shutdown()
				return
			}
		case size.Event:
			sess.resize(image.Pt(e.WidthPx, e.HeightPx))
			repaint()
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := sess.paintState(a.theme, int(phase.Load()))
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if sess.handleMouse(e) {
				shutdown()
				return
			}
		case touch.Event:
			sess.handleTouch(e)
		case key.Event:
			if sess.handleKey(e) {
				shutdown()
				return
			}
		case error:
			a.log.WithError(e).Error("window event")
		}
	}
}
