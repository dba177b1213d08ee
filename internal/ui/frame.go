package ui

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"time"

	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/sketchgen/internal/render"
	"github.com/example/sketchgen/internal/surface"
	"github.com/example/sketchgen/internal/theme"
)

type mode int

const (
	modeSketch mode = iota
	modeDescribe
)

func (m mode) title() string {
	if m == modeDescribe {
		return "Describe"
	}
	return "Sketch"
}

// paintState is everything one frame needs. It holds copies only, so the
// paint goroutine never touches state owned by the event loop.
type paintState struct {
	width, height int
	theme         *theme.Theme
	mode          mode
	canvas        *image.RGBA
	style         surface.Style
	result        resultState
	description   string
	reference     image.Image
	shortcuts     []Shortcut
	hoverShortcut int
	message       string
	messageUntil  time.Time
	phase         int
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState, log func(error)) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log(err)
		return
	}
	defer b.Release()

	if !renderFrame(ctx, b.RGBA(), st) {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// renderFrame paints st into dst. It reports false when ctx was cancelled part way.
func renderFrame(ctx context.Context, dst *image.RGBA, st paintState) bool {
	th := st.theme
	l := computeLayout(image.Pt(st.width, st.height), st.canvas.Bounds().Size())
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)
	shadow := render.PaneShadow()
	render.DropShadow(dst, l.canvas, color.RGBA{A: 255}, shadow)
	render.DropShadow(dst, l.result, color.RGBA{A: 255}, shadow)

	drawTabs(dst, l.tabs, th, st.mode)
	if ctx.Err() != nil {
		return false
	}

	switch st.mode {
	case modeSketch:
		draw.Draw(dst, l.canvas, st.canvas, st.canvas.Bounds().Min, draw.Src)
		drawRect(dst, l.canvas.Inset(-1), th.ButtonBorder, 1)
		drawPalette(dst, l.palette, th, st.style)
	case modeDescribe:
		drawDescription(dst, l, th, st)
	}
	if ctx.Err() != nil {
		return false
	}

	drawResult(dst, l, th, st.result, st.phase)
	if ctx.Err() != nil {
		return false
	}

	draw.Draw(dst, l.shortcuts, &image.Uniform{th.PanelBackground}, image.Point{}, draw.Src)
	for i := range st.shortcuts {
		state := StateDefault
		if i == st.hoverShortcut {
			state = StateHover
		}
		st.shortcuts[i].Draw(dst, th, state)
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		_, face := faces()
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Text), Face: face}
		wmsg := d.MeasureString(st.message).Ceil()
		ascent := face.Metrics().Ascent.Ceil()
		descent := face.Metrics().Descent.Ceil()
		px := (st.width - wmsg) / 2
		py := (st.height-ascent-descent)/2 + ascent
		rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
		bg := th.PanelBackground
		bg.A = 230
		draw.Draw(dst, rect, &image.Uniform{bg}, image.Point{}, draw.Over)
		drawRect(dst, rect, th.ButtonBorder, 2)
		d.Dot = fixed.P(px, py)
		d.DrawString(st.message)
	}
	return ctx.Err() == nil
}

func drawTabs(dst *image.RGBA, bar image.Rectangle, th *theme.Theme, cur mode) {
	draw.Draw(dst, bar, &image.Uniform{th.PanelBackground}, image.Point{}, draw.Src)
	title := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Text), Face: basicfont.Face7x13,
		Dot: fixed.P(bar.Min.X+4, bar.Min.Y+16)}
	title.DrawString("SketchGen")

	x := bar.Min.X + 80
	for _, m := range []mode{modeSketch, modeDescribe} {
		r := image.Rect(x, bar.Min.Y, x+80, bar.Max.Y)
		col := th.ButtonBackground
		if m == cur {
			col = th.ButtonBackgroundPress
		}
		draw.Draw(dst, r, &image.Uniform{col}, image.Point{}, draw.Src)
		drawRect(dst, r, th.ButtonBorder, 1)
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ButtonText), Face: basicfont.Face7x13,
			Dot: fixed.P(r.Min.X+6, r.Min.Y+16)}
		d.DrawString(m.title())
		x += 80
	}
}

func drawPalette(dst *image.RGBA, row image.Rectangle, th *theme.Theme, style surface.Style) {
	colors, widths := swatchRects(row)
	for i, r := range colors {
		draw.Draw(dst, r, &image.Uniform{palette[i].Color}, image.Point{}, draw.Src)
		border, thick := th.ButtonBorder, 1
		if palette[i].Color == style.Color {
			border, thick = th.Loader, 2
		}
		drawRect(dst, r.Inset(-1), border, thick)
	}
	for i, r := range widths {
		draw.Draw(dst, r, &image.Uniform{th.PanelBackground}, image.Point{}, draw.Src)
		c := r.Min.Add(image.Pt(swatchSize/2, swatchSize/2))
		radius := penWidths[i] / 2
		if radius < 1 {
			radius = 1
		}
		drawFilledCircle(dst, c.X, c.Y, radius, th.Text)
		border, thick := th.ButtonBorder, 1
		if penWidths[i] == style.Width {
			border, thick = th.Loader, 2
		}
		drawRect(dst, r.Inset(-1), border, thick)
	}
}

func drawDescription(dst *image.RGBA, l layout, th *theme.Theme, st paintState) {
	box := l.canvas
	draw.Draw(dst, box, &image.Uniform{th.PanelBackground}, image.Point{}, draw.Src)
	drawRect(dst, box.Inset(-1), th.ButtonBorder, 1)

	face, _ := faces()
	inner := box.Inset(8)
	text := st.description + "|"
	if st.description == "" {
		text = "Describe the image you want, then press Enter.|"
	}
	col := color.Color(th.Text)
	if st.description == "" {
		col = th.TextMuted
	}
	lines := wrapText(face, text, inner.Dx())
	drawLines(dst, face, col, lines, inner.Min)

	// Reference image thumbnail in the bottom right corner of the box.
	if st.reference != nil {
		thumbArea := image.Rect(inner.Max.X-120, inner.Max.Y-90, inner.Max.X, inner.Max.Y)
		dr := fitRect(st.reference.Bounds().Size(), thumbArea)
		xdraw.ApproxBiLinear.Scale(dst, dr, st.reference, st.reference.Bounds(), draw.Over, nil)
		drawRect(dst, dr.Inset(-1), th.ButtonBorder, 1)
	}

	if st.result.validation != "" {
		drawLines(dst, basicfont.Face7x13, th.Error, []string{st.result.validation}, l.palette.Min.Add(image.Pt(0, 4)))
	}
}

func drawResult(dst *image.RGBA, l layout, th *theme.Theme, rs resultState, phase int) {
	draw.Draw(dst, l.result, &image.Uniform{th.Placeholder}, image.Point{}, draw.Src)
	drawRect(dst, l.result.Inset(-1), th.ButtonBorder, 1)
	center := image.Pt((l.result.Min.X+l.result.Max.X)/2, (l.result.Min.Y+l.result.Max.Y)/2)
	face, _ := faces()

	switch {
	case rs.loading:
		drawSpinner(dst, center, 24, th.Loader, th.Placeholder, phase%12)
	case rs.image != nil:
		dr := fitRect(rs.image.Bounds().Size(), l.result)
		xdraw.ApproxBiLinear.Scale(dst, dr, rs.image, rs.image.Bounds(), draw.Over, nil)
		lines := append(wrapText(face, rs.caption.Line1, l.caption.Dx()), wrapText(face, rs.caption.Line2, l.caption.Dx())...)
		drawLines(dst, face, th.TextMuted, lines, l.caption.Min)
	case rs.failure != "":
		drawCross(dst, center.Sub(image.Pt(0, 20)), 12, th.Error)
		lines := wrapText(face, rs.failure, l.result.Dx()-16)
		drawLines(dst, face, th.Error, lines, image.Pt(l.result.Min.X+8, center.Y+8))
	default:
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.TextMuted), Face: basicfont.Face7x13}
		msg := "Your generated image will appear here"
		w := d.MeasureString(msg).Ceil()
		d.Dot = fixed.P(center.X-w/2, center.Y)
		d.DrawString(msg)
	}
}
