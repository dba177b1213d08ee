package ui

import (
	"image"

	"golang.org/x/image/font"
)

const (
	tabHeight     = 24
	bottomHeight  = 24
	margin        = 12
	swatchSize    = 16
	swatchRow     = swatchSize + 8
	captionHeight = 48
)

// layout holds every pane in window coordinates.
type layout struct {
	tabs      image.Rectangle
	canvas    image.Rectangle
	palette   image.Rectangle
	result    image.Rectangle
	caption   image.Rectangle
	shortcuts image.Rectangle
}

// preferredSize is the window size that shows both panes without clipping.
func preferredSize(canvas image.Point) image.Point {
	below := captionHeight
	if swatchRow > below {
		below = swatchRow
	}
	return image.Pt(
		2*canvas.X+3*margin,
		tabHeight+margin+canvas.Y+4+below+margin+bottomHeight,
	)
}

// computeLayout places the canvas and the result pane side by side, centred
// horizontally. The canvas is never scaled, so pointer positions map to
// canvas pixels by subtracting canvas.Min.
func computeLayout(win, canvas image.Point) layout {
	content := 2*canvas.X + margin
	x0 := (win.X - content) / 2
	if x0 < margin {
		x0 = margin
	}
	y0 := tabHeight + margin

	var l layout
	l.tabs = image.Rect(0, 0, win.X, tabHeight)
	l.canvas = image.Rectangle{Min: image.Pt(x0, y0), Max: image.Pt(x0, y0).Add(canvas)}
	l.palette = image.Rect(l.canvas.Min.X, l.canvas.Max.Y+4, l.canvas.Max.X, l.canvas.Max.Y+4+swatchRow)
	l.result = image.Rect(l.canvas.Max.X+margin, y0, l.canvas.Max.X+margin+canvas.X, y0+canvas.Y)
	l.caption = image.Rect(l.result.Min.X, l.result.Max.Y+4, l.result.Max.X, l.result.Max.Y+4+captionHeight)
	l.shortcuts = image.Rect(0, win.Y-bottomHeight, win.X, win.Y)
	return l
}

// fitRect scales src to fit inside dst keeping its aspect ratio, centred.
func fitRect(src image.Point, dst image.Rectangle) image.Rectangle {
	if src.X <= 0 || src.Y <= 0 || dst.Empty() {
		return image.Rectangle{}
	}
	dw, dh := dst.Dx(), dst.Dy()
	w, h := dw, src.Y*dw/src.X
	if h > dh {
		w, h = src.X*dh/src.Y, dh
	}
	x := dst.Min.X + (dw-w)/2
	y := dst.Min.Y + (dh-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// wrapText breaks s into lines no wider than max pixels. A single word wider
// than max gets a line of its own.
func wrapText(face font.Face, s string, max int) []string {
	d := &font.Drawer{Face: face}
	var lines []string
	var line string
	for _, word := range splitWords(s) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if line != "" && d.MeasureString(candidate).Ceil() > max {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func splitWords(s string) []string {
	var words []string
	start := -1
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\n' {
			if start >= 0 {
				words = append(words, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, s[start:])
	}
	return words
}
