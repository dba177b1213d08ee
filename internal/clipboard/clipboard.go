// Package clipboard publishes generated images and their captions to the
// system clipboard and reads reference images from it.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/webp"
)

// Item is what a single copy publishes. Either field may be empty.
type Item struct {
	PNG  []byte
	Text string
}

var errEmpty = errors.New("nothing to copy")

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// ToPNG returns data as PNG, re-encoding any other decodable format.
func ToPNG(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, pngSignature) {
		return data, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return EncodePNG(img)
}

// EncodePNG encodes img for the clipboard.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CopyResult publishes a generated image together with its caption.
func CopyResult(data []byte, caption string) error {
	p, err := ToPNG(data)
	if err != nil {
		return err
	}
	return Write(Item{PNG: p, Text: caption})
}
