package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/example/sketchgen/internal/generate"
)

// Params are the generation parameters sent with a sketch.
type Params struct {
	NegativePrompt    string  `json:"negative_prompt"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
}

// DefaultParams returns the parameters the sketch path uses out of the box.
func DefaultParams() Params {
	return Params{
		NegativePrompt:    "blurry, bad quality, distorted",
		NumInferenceSteps: 30,
		GuidanceScale:     7.5,
	}
}

type sketchPayload struct {
	Inputs     string `json:"inputs"`
	Parameters Params `json:"parameters"`
}

// SketchToImage posts the sketch raster as base64 inside a JSON body. Failure
// responses are reported without a server message. Zero Params mean
// DefaultParams.
type SketchToImage struct {
	*Client
	Model  string
	Params Params
}

func (s *SketchToImage) Generate(ctx context.Context, r generate.Request) ([]byte, error) {
	params := s.Params
	if params == (Params{}) {
		params = DefaultParams()
	}
	body, err := json.Marshal(sketchPayload{
		Inputs:     base64.StdEncoding.EncodeToString(r.Image),
		Parameters: params,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	model := s.Model
	if model == "" {
		model = DefaultSketchModel
	}
	req, err := newRequest(ctx, s.endpoint(model), "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return s.do(req, nil)
}
