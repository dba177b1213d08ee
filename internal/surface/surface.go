// Package surface implements the sketch canvas: a raster, the pen style and an
// undo history of encoded snapshots.
package surface

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"strings"
)

const (
	DefaultWidth    = 500
	DefaultHeight   = 400
	DefaultPenWidth = 3
)

var (
	DefaultColor = color.RGBA{0, 0, 0, 255}
	DefaultPaper = color.RGBA{255, 255, 255, 255}
)

// Format identifies an encoding for exported rasters.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// ParseFormat resolves a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// MIME returns the media type for the format.
func (f Format) MIME() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Style is the pen used for new segments. Caps and joins are always round.
type Style struct {
	Color color.RGBA
	Width int
}

// Snapshot is a PNG encoding of the whole raster at one instant.
type Snapshot []byte

// Surface owns the raster and its undo history. It is not safe for
// concurrent use; callers confine it to one goroutine or guard it.
type Surface struct {
	img   *image.RGBA
	paper color.RGBA
	style Style

	active bool
	last   image.Point

	history []Snapshot
}

// Option configures a Surface during creation.
type Option func(*Surface)

// WithStyle sets the initial pen.
func WithStyle(st Style) Option { return func(s *Surface) { s.style = st } }

// WithPaper sets the colour of a blank canvas.
func WithPaper(col color.RGBA) Option { return func(s *Surface) { s.paper = col } }

// New allocates a blank raster and records it as the history floor.
func New(width, height int, opts ...Option) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	s := &Surface{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		paper: DefaultPaper,
		style: Style{Color: DefaultColor, Width: DefaultPenWidth},
	}
	for _, o := range opts {
		o(s)
	}
	if s.style.Width < 1 {
		s.style.Width = 1
	}
	fill(s.img, s.paper)
	if err := s.push(); err != nil {
		return nil, err
	}
	return s, nil
}

// Size returns the raster dimensions.
func (s *Surface) Size() image.Point { return s.img.Bounds().Size() }

// Style returns the current pen.
func (s *Surface) Style() Style { return s.style }

// SetColor changes the pen colour for subsequent segments.
func (s *Surface) SetColor(col color.RGBA) { s.style.Color = col }

// SetWidth changes the pen width for subsequent segments.
func (s *Surface) SetWidth(w int) {
	if w < 1 {
		w = 1
	}
	s.style.Width = w
}

// Drawing reports whether a stroke session is active.
func (s *Surface) Drawing() bool { return s.active }

// HistoryLen returns the number of snapshots held, including the blank floor.
func (s *Surface) HistoryLen() int { return len(s.history) }

// BeginStroke starts a stroke session at p. Calling it during a session
// re-anchors the session at p.
func (s *Surface) BeginStroke(p image.Point) {
	s.active = true
	s.last = p
}

// ExtendStroke draws a segment from the last point to p. Without an active
// session it does nothing.
func (s *Surface) ExtendStroke(p image.Point) {
	if !s.active {
		return
	}
	drawSegment(s.img, s.last, p, s.style)
	s.last = p
}

// EndStroke closes the session and records one snapshot for it.
func (s *Surface) EndStroke() error {
	if !s.active {
		return nil
	}
	s.active = false
	return s.push()
}

// Undo drops the newest snapshot and repaints the raster from the one below
// it. The blank floor snapshot is never removed. An active session is
// abandoned.
func (s *Surface) Undo() error {
	s.active = false
	if len(s.history) <= 1 {
		return nil
	}
	prev := s.history[len(s.history)-2]
	if err := s.restore(prev); err != nil {
		return fmt.Errorf("undo: %w", err)
	}
	s.history[len(s.history)-1] = nil
	s.history = s.history[:len(s.history)-1]
	return nil
}

// Clear wipes the raster and discards all history.
func (s *Surface) Clear() error {
	s.active = false
	fill(s.img, s.paper)
	s.history = nil
	return s.push()
}

// Image returns a copy of the raster.
func (s *Surface) Image() *image.RGBA {
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// Export encodes the current raster without modifying it.
func (s *Surface) Export(f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatPNG:
		err = png.Encode(&buf, s.img)
	case FormatJPEG:
		err = jpeg.Encode(&buf, s.img, &jpeg.Options{Quality: 92})
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", f, err)
	}
	return buf.Bytes(), nil
}

// ExportBase64 is Export followed by standard base64 encoding.
func (s *Surface) ExportBase64(f Format) (string, error) {
	data, err := s.Export(f)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Load draws img at the origin over a blank canvas, cropping anything outside
// the raster. The history is reset with the loaded raster as its floor.
func (s *Surface) Load(img image.Image) error {
	if img == nil {
		return errors.New("load: nil image")
	}
	s.active = false
	fill(s.img, s.paper)
	draw.Draw(s.img, s.img.Bounds(), img, img.Bounds().Min, draw.Over)
	s.history = nil
	return s.push()
}

func (s *Surface) push() error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.img); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	s.history = append(s.history, Snapshot(buf.Bytes()))
	return nil
}

func (s *Surface) restore(snap Snapshot) error {
	img, err := png.Decode(bytes.NewReader(snap))
	if err != nil {
		return err
	}
	fill(s.img, color.RGBA{})
	draw.Draw(s.img, s.img.Bounds(), img, img.Bounds().Min, draw.Src)
	return nil
}
