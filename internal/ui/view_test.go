package ui

import (
	"image/color"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/example/sketchgen/internal/blob"
	"github.com/example/sketchgen/internal/generate"
)

func TestResultViewShowAndHide(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	store := blob.NewStore()
	v := NewResultView(store, nil, log)
	changes := 0
	v.setOnChange(func() { changes++ })

	h := store.Create(solidPNG(t, color.RGBA{1, 2, 3, 255}), "image/png")
	v.ShowResult(h, generate.Caption{Line1: "one", Line2: "two"})
	rs := v.snapshot()
	if !rs.hasResult() || rs.caption.Line1 != "one" {
		t.Fatalf("result not shown: %+v", rs)
	}
	if changes == 0 {
		t.Fatalf("showing a result should request a repaint")
	}

	v.ShowValidation("bad")
	v.HideResult()
	rs = v.snapshot()
	if rs.hasResult() || rs.failure != "" || rs.validation != "" {
		t.Fatalf("hide left state behind: %+v", rs)
	}
}

func TestResultViewMissingHandle(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	v := NewResultView(blob.NewStore(), nil, log)
	v.ShowResult("blob:gone", generate.Caption{})
	if v.snapshot().hasResult() {
		t.Fatalf("revoked handle should not display")
	}
	if hook.LastEntry() == nil {
		t.Fatalf("expected a warning for the missing handle")
	}
}

func TestResultViewUndecodablePayload(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	store := blob.NewStore()
	v := NewResultView(store, nil, log)
	h := store.Create([]byte("not an image"), "image/png")
	v.ShowResult(h, generate.Caption{})
	rs := v.snapshot()
	if rs.hasResult() {
		t.Fatalf("undecodable payload should not display")
	}
	if rs.failure != generate.FixedFailure(nil) {
		t.Fatalf("failure = %q", rs.failure)
	}
}

func TestResultViewTriggerAndLoading(t *testing.T) {
	v := NewResultView(blob.NewStore(), nil, nil)
	if !v.snapshot().trigger {
		t.Fatalf("trigger should start enabled")
	}
	v.SetTriggerEnabled(false)
	v.SetLoading(true)
	rs := v.snapshot()
	if rs.trigger || !rs.loading {
		t.Fatalf("state = %+v", rs)
	}
	v.ShowFailure("nope")
	v.clearValidation()
	if got := v.snapshot().failure; got != "nope" {
		t.Fatalf("clearing validation touched the failure: %q", got)
	}
}
