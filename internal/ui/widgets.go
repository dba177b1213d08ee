package ui

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/sketchgen/internal/theme"
)

// PaletteColor is a named swatch.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var palette = []PaletteColor{
	{"Black", color.RGBA{0, 0, 0, 255}},
	{"White", color.RGBA{255, 255, 255, 255}},
	{"Red", color.RGBA{255, 0, 0, 255}},
	{"Lime", color.RGBA{0, 255, 0, 255}},
	{"Blue", color.RGBA{0, 0, 255, 255}},
	{"Yellow", color.RGBA{255, 255, 0, 255}},
	{"Cyan", color.RGBA{0, 255, 255, 255}},
	{"Magenta", color.RGBA{255, 0, 255, 255}},
	{"Maroon", color.RGBA{128, 0, 0, 255}},
	{"Green", color.RGBA{0, 128, 0, 255}},
	{"Navy", color.RGBA{0, 0, 128, 255}},
	{"Orange", color.RGBA{255, 165, 0, 255}},
	{"Teal", color.RGBA{0, 128, 128, 255}},
	{"Purple", color.RGBA{128, 0, 128, 255}},
	{"Gray", color.RGBA{128, 128, 128, 255}},
}

// Palette returns a copy of the swatches offered next to the canvas.
func Palette() []PaletteColor {
	out := make([]PaletteColor, len(palette))
	copy(out, palette)
	return out
}

var penWidths = []int{1, 2, 3, 5, 8, 12}

// PenWidths returns the stroke widths offered next to the palette.
func PenWidths() []int { return append([]int(nil), penWidths...) }

// nextWidth steps through penWidths from the current width.
func nextWidth(cur, dir int) int {
	idx := 0
	for i, w := range penWidths {
		if w <= cur {
			idx = i
		}
	}
	idx += dir
	if idx < 0 {
		idx = 0
	}
	if idx >= len(penWidths) {
		idx = len(penWidths) - 1
	}
	return penWidths[idx]
}

var (
	facesOnce   sync.Once
	captionFace font.Face = basicfont.Face7x13
	messageFace font.Face = basicfont.Face7x13
)

// faces parses the bundled Go font once. On failure the bitmap face stays.
func faces() (caption, message font.Face) {
	facesOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return
		}
		if face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 14, DPI: 72, Hinting: font.HintingFull}); err == nil {
			captionFace = face
		}
		if face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 24, DPI: 72, Hinting: font.HintingFull}); err == nil {
			messageFace = face
		}
	})
	return captionFace, messageFace
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Shortcut is a labelled button in the bottom bar.
type Shortcut struct {
	label    string
	action   string
	disabled bool
	rect     image.Rectangle
}

func (s *Shortcut) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	col := th.ButtonBackground
	switch {
	case s.disabled:
		col = th.ButtonBackgroundDisabled
	case state == StateHover:
		col = th.ButtonBackgroundHover
	case state == StatePressed:
		col = th.ButtonBackgroundPress
	}
	draw.Draw(dst, s.rect, &image.Uniform{col}, image.Point{}, draw.Src)
	drawRect(dst, s.rect, th.ButtonBorder, 1)
	text := th.ButtonText
	if s.disabled {
		text = th.TextMuted
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(text), Face: basicfont.Face7x13,
		Dot: fixed.P(s.rect.Min.X+2, s.rect.Min.Y+14)}
	d.DrawString(s.label)
}

// layoutShortcuts assigns rectangles left to right inside bar.
func layoutShortcuts(bar image.Rectangle, shortcuts []Shortcut) {
	meas := &font.Drawer{Face: basicfont.Face7x13}
	x := bar.Min.X + 4
	y := bar.Min.Y + 16
	for i := range shortcuts {
		w := meas.MeasureString(shortcuts[i].label).Ceil()
		shortcuts[i].rect = image.Rect(x-2, y-14, x+w+2, y+4)
		x = shortcuts[i].rect.Max.X + 8
	}
}

// swatchRects lays the palette and pen widths out in one row.
func swatchRects(row image.Rectangle) (colors, widths []image.Rectangle) {
	x := row.Min.X
	y := row.Min.Y + (row.Dy()-swatchSize)/2
	for range palette {
		colors = append(colors, image.Rect(x, y, x+swatchSize, y+swatchSize))
		x += swatchSize + 4
	}
	x += 8
	for range penWidths {
		widths = append(widths, image.Rect(x, y, x+swatchSize, y+swatchSize))
		x += swatchSize + 4
	}
	return colors, widths
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := &image.Uniform{col}
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
}

func drawFilledCircle(img *image.RGBA, cx, cy, r int, col color.Color) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				img.Set(cx+x, cy+y, col)
			}
		}
	}
}

// drawSpinner paints a ring of dots whose strongest dot advances with phase.
func drawSpinner(img *image.RGBA, center image.Point, radius int, col, bg color.RGBA, phase int) {
	const dots = 12
	for i := 0; i < dots; i++ {
		angle := 2 * math.Pi * float64(i) / dots
		x := center.X + int(math.Round(float64(radius)*math.Cos(angle)))
		y := center.Y + int(math.Round(float64(radius)*math.Sin(angle)))
		age := (phase - i + dots) % dots
		drawFilledCircle(img, x, y, 3, mix(bg, col, dots-age, dots))
	}
}

// mix returns a + (b-a)*num/den per channel.
func mix(a, b color.RGBA, num, den int) color.RGBA {
	ch := func(x, y uint8) uint8 { return uint8(int(x) + (int(y)-int(x))*num/den) }
	return color.RGBA{ch(a.R, b.R), ch(a.G, b.G), ch(a.B, b.B), 255}
}

// drawCross paints the failure glyph.
func drawCross(img *image.RGBA, center image.Point, size int, col color.Color) {
	for i := -size; i <= size; i++ {
		for t := -1; t <= 1; t++ {
			img.Set(center.X+i+t, center.Y+i, col)
			img.Set(center.X+i+t, center.Y-i, col)
		}
	}
}

func drawLines(dst *image.RGBA, face font.Face, col color.Color, lines []string, at image.Point) {
	m := face.Metrics()
	lh := (m.Ascent + m.Descent).Ceil() + 2
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
	y := at.Y + m.Ascent.Ceil()
	for _, line := range lines {
		d.Dot = fixed.P(at.X, y)
		d.DrawString(line)
		y += lh
	}
}
