package surface

import (
	"image"
	"testing"
)

func TestInputTranslatesWithCurrentBounds(t *testing.T) {
	s := newTestSurface(t)
	bounds := image.Rect(100, 100, 164, 148)
	in := NewInput(s, ViewportFunc(func() image.Rectangle { return bounds }))

	events := []Event{
		{Kind: Press, Client: image.Pt(110, 120)},
		{Kind: Move, Client: image.Pt(130, 120)},
		{Kind: Release, Client: image.Pt(130, 120)},
	}
	for _, ev := range events {
		if _, err := in.Handle(ev); err != nil {
			t.Fatal(err)
		}
	}
	if got := s.Image().RGBAAt(20, 20); got != DefaultColor {
		t.Fatalf("expected ink at canvas (20,20), got %+v", got)
	}

	// The window moved the canvas; the next stroke must use the new origin.
	bounds = image.Rect(0, 0, 64, 48)
	for _, ev := range []Event{
		{Kind: Press, Client: image.Pt(10, 40)},
		{Kind: Move, Client: image.Pt(30, 40)},
		{Kind: Leave},
	} {
		if _, err := in.Handle(ev); err != nil {
			t.Fatal(err)
		}
	}
	if got := s.Image().RGBAAt(20, 40); got != DefaultColor {
		t.Fatalf("expected ink at canvas (20,40), got %+v", got)
	}
	if got := s.HistoryLen(); got != 3 {
		t.Fatalf("history = %d, want 3", got)
	}
}

func TestInputMoveOutsideDragIsIgnored(t *testing.T) {
	s := newTestSurface(t)
	in := NewInput(s, ViewportFunc(func() image.Rectangle { return image.Rect(0, 0, 64, 48) }))
	if _, err := in.Handle(Event{Kind: Move, Client: image.Pt(10, 10)}); err != nil {
		t.Fatal(err)
	}
	if _, err := in.Handle(Event{Kind: Release}); err != nil {
		t.Fatal(err)
	}
	if got := s.Image().RGBAAt(10, 10); got != DefaultPaper {
		t.Fatalf("pixel = %+v, want paper", got)
	}
	if got := s.HistoryLen(); got != 1 {
		t.Fatalf("history = %d, want 1", got)
	}
}

func TestInputTouchUsesPrimaryContact(t *testing.T) {
	s := newTestSurface(t)
	in := NewInput(s, ViewportFunc(func() image.Rectangle { return image.Rect(10, 10, 74, 58) }))

	suppress, err := in.Handle(Event{Kind: Press, Source: Touch})
	if err != nil {
		t.Fatal(err)
	}
	if !suppress {
		t.Fatal("touch events must suppress default gestures")
	}
	if s.Drawing() {
		t.Fatal("touch press without contacts started a stroke")
	}

	steps := []Event{
		{Kind: Press, Source: Touch, Touches: []image.Point{{20, 30}, {60, 50}}},
		{Kind: Move, Source: Touch, Touches: []image.Point{{40, 30}, {60, 10}}},
		{Kind: Release, Source: Touch},
	}
	for _, ev := range steps {
		suppress, err := in.Handle(ev)
		if err != nil {
			t.Fatal(err)
		}
		if !suppress {
			t.Fatalf("event %+v not suppressed", ev)
		}
	}
	if got := s.Image().RGBAAt(20, 20); got != DefaultColor {
		t.Fatalf("expected ink from primary contact, got %+v", got)
	}
	if got := s.HistoryLen(); got != 2 {
		t.Fatalf("history = %d, want 2", got)
	}

	if suppress, _ := in.Handle(Event{Kind: Press, Client: image.Pt(15, 15)}); suppress {
		t.Fatal("mouse events must not request suppression")
	}
}
