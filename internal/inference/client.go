// Package inference talks to a hosted image-generation inference API. Both
// clients implement generate.Backend and issue exactly one HTTP request per
// call, without retries.
package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/sketchgen/internal/generate"
)

const (
	DefaultBaseURL     = "https://api-inference.huggingface.co/models/"
	DefaultTextModel   = "stabilityai/stable-diffusion-2"
	DefaultSketchModel = "stabilityai/stable-diffusion-xl-base-1.0"
	DefaultTimeout     = 2 * time.Minute
)

// maxBody bounds how much of a response is held in memory. A success body
// over the limit is rejected rather than truncated.
var maxBody int64 = 64 << 20

// Client holds what both endpoints share. The token is supplied by the
// caller, normally resolved from configuration or the environment.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Log        logrus.FieldLogger
}

// NewClient returns a client with defaults for empty values.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: timeout},
		Log:        logrus.StandardLogger(),
	}
}

func (c *Client) endpoint(model string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(model, "/")
}

func (c *Client) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}

// do sends req and returns the success body. errMessage extracts a server
// supplied message from a failure body; it may be nil.
func (c *Client) do(req *http.Request, errMessage func([]byte) string) ([]byte, error) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	log := c.logger().WithField("url", req.URL.String())
	start := time.Now()

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		log.WithError(err).Debug("inference: request failed")
		return nil, &generate.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, &generate.TransportError{Err: fmt.Errorf("read response: %w", err)}
	}
	oversized := int64(len(body)) > maxBody
	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "elapsed": time.Since(start).Round(time.Millisecond)})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		rerr := &generate.ResponseError{Status: resp.StatusCode}
		if errMessage != nil && !oversized {
			rerr.Message = errMessage(body)
		}
		log.WithError(rerr).Debug("inference: error response")
		return nil, rerr
	}
	if oversized {
		derr := &generate.DecodeError{Err: fmt.Errorf("response exceeds %d bytes", maxBody)}
		log.WithError(derr).Debug("inference: oversized response")
		return nil, derr
	}
	log.WithField("bytes", len(body)).Debug("inference: response")
	return body, nil
}

type apiError struct {
	Error string `json:"error"`
}

// jsonErrorMessage reads {"error": "..."} bodies.
func jsonErrorMessage(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return strings.TrimSpace(e.Error)
}

var (
	_ generate.Backend = (*TextToImage)(nil)
	_ generate.Backend = (*SketchToImage)(nil)
)

func newRequest(ctx context.Context, url, contentType string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return req, nil
}
