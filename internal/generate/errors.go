package generate

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrValidation = errors.New("invalid generation input")
	ErrTransport  = errors.New("inference endpoint unreachable")
	ErrResponse   = errors.New("inference endpoint returned an error")
	ErrDecode     = errors.New("result is not a decodable image")

	// ErrSuperseded is returned to a caller whose request completed after a
	// newer one was issued. Its outcome was discarded.
	ErrSuperseded = errors.New("superseded by a newer request")
	ErrNoResult   = errors.New("no generated image to save")
)

const genericFailure = "Failed to generate image."

// ValidationError reports input rejected before any request was issued.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string        { return e.Message }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// TransportError wraps a network failure.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string        { return fmt.Sprintf("request failed: %v", e.Err) }
func (e *TransportError) Unwrap() error        { return e.Err }
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ResponseError reports a non-success HTTP status. Message holds the server
// supplied explanation when one was extracted.
type ResponseError struct {
	Status  int
	Message string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d", e.Status)
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

func (e *ResponseError) Is(target error) bool { return target == ErrResponse }

// DecodeError reports a success response whose body is not an image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string        { return fmt.Sprintf("decode result: %v", e.Err) }
func (e *DecodeError) Unwrap() error        { return e.Err }
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// FixedFailure is the failure text of the sketch entry point; it never
// exposes details.
func FixedFailure(error) string {
	return genericFailure + " Please try again."
}

// DetailedFailure is the failure text of the text entry point. It surfaces
// the server message when one was provided.
func DetailedFailure(err error) string {
	var rerr *ResponseError
	if errors.As(err, &rerr) && rerr.Message != "" {
		return "Error: " + rerr.Message
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	if errors.Is(err, ErrTransport) || errors.Is(err, ErrDecode) {
		return "Error: " + err.Error()
	}
	return "Error: " + genericFailure
}
