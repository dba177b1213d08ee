package ui

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/webp"

	"github.com/example/sketchgen/internal/blob"
	"github.com/example/sketchgen/internal/generate"
	"github.com/example/sketchgen/internal/notify"
)

// ResultView is the result pane of one entry point. Controllers call it from
// their own goroutines; the window reads it through snapshot when painting.
type ResultView struct {
	store    *blob.Store
	notifier *notify.Notifier
	log      logrus.FieldLogger

	mu         sync.Mutex
	changed    func()
	trigger    bool
	loading    bool
	handle     blob.Handle
	image      image.Image
	caption    generate.Caption
	failure    string
	validation string
}

var _ generate.View = (*ResultView)(nil)

// NewResultView shows results registered in store. notifier may be nil.
func NewResultView(store *blob.Store, notifier *notify.Notifier, log logrus.FieldLogger) *ResultView {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ResultView{store: store, notifier: notifier, log: log, trigger: true}
}

// resultState is an immutable copy of the pane for one frame.
type resultState struct {
	trigger    bool
	loading    bool
	image      image.Image
	caption    generate.Caption
	failure    string
	validation string
}

// hasResult reports whether download and copy are available.
func (s resultState) hasResult() bool { return s.image != nil }

func (v *ResultView) snapshot() resultState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return resultState{
		trigger:    v.trigger,
		loading:    v.loading,
		image:      v.image,
		caption:    v.caption,
		failure:    v.failure,
		validation: v.validation,
	}
}

func (v *ResultView) setOnChange(fn func()) {
	v.mu.Lock()
	v.changed = fn
	v.mu.Unlock()
}

// update runs fn under the lock and requests a repaint afterwards.
func (v *ResultView) update(fn func()) {
	v.mu.Lock()
	fn()
	changed := v.changed
	v.mu.Unlock()
	if changed != nil {
		changed()
	}
}

func (v *ResultView) SetTriggerEnabled(enabled bool) {
	v.update(func() { v.trigger = enabled })
}

func (v *ResultView) SetLoading(loading bool) {
	v.update(func() { v.loading = loading })
}

func (v *ResultView) HideResult() {
	v.update(func() {
		v.handle = ""
		v.image = nil
		v.caption = generate.Caption{}
		v.failure = ""
		v.validation = ""
	})
}

func (v *ResultView) ShowResult(h blob.Handle, caption generate.Caption) {
	data, mime, ok := v.store.Open(h)
	if !ok {
		v.log.WithField("handle", h).Warn("result handle not resident")
		return
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		v.log.WithError(err).Warn("decode result for display")
		v.ShowFailure(generate.FixedFailure(err))
		return
	}
	v.update(func() {
		v.handle = h
		v.image = img
		v.caption = caption
		v.failure = ""
	})
	if v.notifier != nil {
		go v.notifier.Generated(caption.Line1, data, mime)
	}
}

func (v *ResultView) ShowFailure(message string) {
	v.update(func() { v.failure = message })
	if v.notifier != nil {
		go v.notifier.Failed(message)
	}
}

func (v *ResultView) ShowValidation(message string) {
	v.update(func() { v.validation = message })
}

// clearValidation hides a validation message once the user edits the input.
func (v *ResultView) clearValidation() {
	v.update(func() { v.validation = "" })
}
