package inference

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/example/sketchgen/internal/generate"
)

// TextToImage posts a description, and optionally a reference image, as a
// multipart form.
type TextToImage struct {
	*Client
	Model string
}

// Generate sends the trimmed description as the "inputs" field and the
// reference image, if any, as the "image" file field.
func (t *TextToImage) Generate(ctx context.Context, r generate.Request) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("inputs", strings.TrimSpace(r.Description)); err != nil {
		return nil, fmt.Errorf("write inputs: %w", err)
	}
	if len(r.Image) > 0 {
		name := r.ImageName
		if name == "" {
			name = "image"
		}
		ctype := r.ImageMIME
		if ctype == "" {
			ctype = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, name))
		h.Set("Content-Type", ctype)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(r.Image); err != nil {
			return nil, fmt.Errorf("write image part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	model := t.Model
	if model == "" {
		model = DefaultTextModel
	}
	req, err := newRequest(ctx, t.endpoint(model), mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	return t.do(req, jsonErrorMessage)
}
