// Package generate drives the lifecycle of image generation requests: input
// validation, the pending/success/failure transitions of the UI and the
// bookkeeping of the displayed result.
package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/webp"

	"github.com/example/sketchgen/internal/blob"
	"github.com/example/sketchgen/internal/surface"
)

// DownloadName is the file name used when saving the displayed result.
const DownloadName = "ai-generated-image.png"

// State is the lifecycle position of a request.
type State int

const (
	Idle State = iota
	Pending
	Success
	Failure
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Request is built once per generate action and not modified afterwards.
type Request struct {
	Description string
	Image       []byte
	ImageName   string
	ImageMIME   string
}

// SketchRequest captures the current raster of s as a PNG request.
func SketchRequest(s *surface.Surface) (Request, error) {
	data, err := s.Export(surface.FormatPNG)
	if err != nil {
		return Request{}, fmt.Errorf("export sketch: %w", err)
	}
	return Request{Image: data, ImageName: "sketch.png", ImageMIME: surface.FormatPNG.MIME()}, nil
}

// Backend performs the single outbound call for a request and returns the
// raw image payload.
type Backend interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, req Request) ([]byte, error)

func (f BackendFunc) Generate(ctx context.Context, req Request) ([]byte, error) { return f(ctx, req) }

// View receives every user-visible effect of the controller. Implementations
// must not call back into the controller.
type View interface {
	SetTriggerEnabled(enabled bool)
	SetLoading(loading bool)
	// HideResult hides the result image, its caption, the download
	// affordance and any failure message.
	HideResult()
	ShowResult(h blob.Handle, caption Caption)
	ShowFailure(message string)
	ShowValidation(message string)
}

// Validator rejects a request before anything is issued.
type Validator func(Request) error

// RequireDescription is the text entry point rule: a non-blank description.
func RequireDescription(req Request) error {
	if strings.TrimSpace(req.Description) == "" {
		return &ValidationError{Message: "Please provide a description."}
	}
	return nil
}

// AcceptAll is the sketch entry point rule: the raster is always present.
func AcceptAll(Request) error { return nil }

// Result is the outcome of one request, tagged with its issue sequence.
type Result struct {
	Seq     uint64
	State   State
	Handle  blob.Handle
	MIME    string
	Caption Caption
	Err     error
}

// Controller owns the displayed result. Requests are tagged with a
// monotonically increasing sequence number and only the most recently issued
// one may change the view.
type Controller struct {
	backend  Backend
	view     View
	store    *blob.Store
	captions *Captioner
	validate Validator
	failure  func(error) string
	log      logrus.FieldLogger

	mu      sync.Mutex
	seq     uint64
	current Result
}

// Option modifies a Controller during creation.
type Option func(*Controller)

// WithValidator sets the entry point's precondition.
func WithValidator(v Validator) Option { return func(c *Controller) { c.validate = v } }

// WithFailureMessage sets how errors are rendered for the user.
func WithFailureMessage(fn func(error) string) Option {
	return func(c *Controller) { c.failure = fn }
}

// WithCaptioner injects the caption source.
func WithCaptioner(cp *Captioner) Option { return func(c *Controller) { c.captions = cp } }

// WithLogger sets the diagnostic logger.
func WithLogger(l logrus.FieldLogger) Option { return func(c *Controller) { c.log = l } }

// New creates a controller in the Idle state.
func New(backend Backend, view View, store *blob.Store, opts ...Option) *Controller {
	c := &Controller{
		backend:  backend,
		view:     view,
		store:    store,
		validate: AcceptAll,
		failure:  FixedFailure,
	}
	for _, o := range opts {
		o(c)
	}
	if c.store == nil {
		c.store = blob.NewStore()
	}
	if c.captions == nil {
		c.captions = NewCaptioner(nil)
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	return c
}

// Store returns the handle store results are registered in.
func (c *Controller) Store() *blob.Store { return c.store }

// Current returns the latest issued request's result.
func (c *Controller) Current() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Generate validates req, issues exactly one backend call and applies the
// outcome to the view unless a newer request was issued in the meantime.
func (c *Controller) Generate(ctx context.Context, req Request) (Result, error) {
	if err := c.validate(req); err != nil {
		c.log.WithError(err).Debug("generate: rejected input")
		c.view.ShowValidation(validationMessage(err))
		return Result{State: Idle, Err: err}, err
	}

	seq := c.begin()
	log := c.log.WithField("seq", seq)
	log.Debug("generate: pending")

	data, err := c.backend.Generate(ctx, req)
	var mime string
	if err == nil {
		mime, err = sniff(data)
	}
	return c.complete(log, seq, data, mime, err)
}

func (c *Controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	// A new request supersedes the displayed result straight away.
	c.store.Revoke(c.current.Handle)
	c.current = Result{Seq: c.seq, State: Pending}
	c.view.SetTriggerEnabled(false)
	c.view.HideResult()
	c.view.SetLoading(true)
	return c.seq
}

func (c *Controller) complete(log logrus.FieldLogger, seq uint64, data []byte, mime string, err error) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		log.WithField("latest", c.seq).WithError(err).Debug("generate: discarding superseded outcome")
		return Result{Seq: seq, State: outcome(err), Err: ErrSuperseded}, ErrSuperseded
	}

	defer func() {
		c.view.SetTriggerEnabled(true)
		c.view.SetLoading(false)
	}()

	if err != nil {
		log.WithError(err).Warn("generate: failed")
		c.current = Result{Seq: seq, State: Failure, Err: err}
		c.view.ShowFailure(c.failure(err))
		return c.current, err
	}

	h := c.store.Create(data, mime)
	c.current = Result{Seq: seq, State: Success, Handle: h, MIME: mime, Caption: c.captions.Next()}
	log.WithFields(logrus.Fields{"bytes": len(data), "mime": mime}).Info("generate: image ready")
	c.view.ShowResult(h, c.current.Caption)
	return c.current, nil
}

// Download writes the displayed result into dir under DownloadName. The
// resident bytes are written as they are, without re-encoding.
func (c *Controller) Download(dir string) (string, error) {
	data, err := c.ResultBytes()
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, DownloadName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

// ResultBytes returns the resident payload of the displayed result.
func (c *Controller) ResultBytes() ([]byte, error) {
	cur := c.Current()
	if cur.State != Success {
		return nil, ErrNoResult
	}
	data, _, ok := c.store.Open(cur.Handle)
	if !ok {
		return nil, ErrNoResult
	}
	return data, nil
}

// Close releases the displayed result.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Revoke(c.current.Handle)
	c.current = Result{Seq: c.seq}
}

func validationMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}

func outcome(err error) State {
	if err != nil {
		return Failure
	}
	return Success
}

func sniff(data []byte) (string, error) {
	if len(data) == 0 {
		return "", &DecodeError{Err: fmt.Errorf("empty payload")}
	}
	// Decode fully so a valid header over truncated pixel data is rejected.
	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", &DecodeError{Err: err}
	}
	return "image/" + format, nil
}
