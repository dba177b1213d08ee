package inference

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/example/sketchgen/internal/generate"
)

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL+"/models/", "test-token", 0)
	c.Log, _ = logtest.NewNullLogger()
	return c
}

func TestTextToImageMultipart(t *testing.T) {
	var gotPath, gotAuth, gotInputs, gotImageName string
	var gotImage []byte
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotInputs = r.FormValue("inputs")
		if f, hdr, err := r.FormFile("image"); err == nil {
			gotImageName = hdr.Filename
			gotImage, _ = io.ReadAll(f)
			f.Close()
		}
		w.Write([]byte("IMAGE"))
	})
	tti := &TextToImage{Client: c}

	out, err := tti.Generate(context.Background(), generate.Request{
		Description: "  a red fox  ",
		Image:       []byte{1, 2, 3},
		ImageName:   "ref.png",
		ImageMIME:   "image/png",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "IMAGE" {
		t.Fatalf("body = %q", out)
	}
	if gotPath != "/models/"+DefaultTextModel {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("auth = %q", gotAuth)
	}
	if gotInputs != "a red fox" {
		t.Fatalf("inputs = %q", gotInputs)
	}
	if gotImageName != "ref.png" || string(gotImage) != "\x01\x02\x03" {
		t.Fatalf("image = %q %v", gotImageName, gotImage)
	}
}

func TestTextToImageWithoutImage(t *testing.T) {
	hasImage := true
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		_, _, err := r.FormFile("image")
		hasImage = err == nil
		w.Write([]byte("IMAGE"))
	})
	if _, err := (&TextToImage{Client: c}).Generate(context.Background(), generate.Request{Description: "x"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if hasImage {
		t.Fatal("image field sent without a reference image")
	}
}

func TestTextToImageErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"json error", http.StatusServiceUnavailable, `{"error":"Model is currently loading"}`, "Model is currently loading"},
		{"plain body", http.StatusInternalServerError, `oops`, ""},
		{"empty error", http.StatusBadRequest, `{"error":""}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := (&TextToImage{Client: c}).Generate(context.Background(), generate.Request{Description: "x"})
			var rerr *generate.ResponseError
			if !errors.As(err, &rerr) {
				t.Fatalf("err = %v, want ResponseError", err)
			}
			if rerr.Status != tt.status || rerr.Message != tt.message {
				t.Fatalf("got %d %q", rerr.Status, rerr.Message)
			}
		})
	}
}

func TestSketchToImagePayload(t *testing.T) {
	var got struct {
		Inputs     string `json:"inputs"`
		Parameters Params `json:"parameters"`
	}
	var ctype string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		ctype = r.Header.Get("Content-Type")
		if r.URL.Path != "/models/"+DefaultSketchModel {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Write([]byte("IMAGE"))
	})
	raster := []byte("\x89PNG fake")
	if _, err := (&SketchToImage{Client: c}).Generate(context.Background(), generate.Request{Image: raster}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if ctype != "application/json" {
		t.Fatalf("content type = %q", ctype)
	}
	if got.Inputs != base64.StdEncoding.EncodeToString(raster) {
		t.Fatalf("inputs = %q", got.Inputs)
	}
	if got.Parameters != DefaultParams() {
		t.Fatalf("parameters = %+v", got.Parameters)
	}
}

func TestSketchToImageErrorHasNoMessage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"Model is currently loading"}`))
	})
	_, err := (&SketchToImage{Client: c}).Generate(context.Background(), generate.Request{})
	var rerr *generate.ResponseError
	if !errors.As(err, &rerr) || rerr.Status != http.StatusServiceUnavailable || rerr.Message != "" {
		t.Fatalf("err = %#v", err)
	}
	if generate.FixedFailure(err) != "Failed to generate image. Please try again." {
		t.Fatalf("message = %q", generate.FixedFailure(err))
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, "", 0)
	c.Log, _ = logtest.NewNullLogger()
	_, err := (&TextToImage{Client: c}).Generate(context.Background(), generate.Request{Description: "x"})
	if !errors.Is(err, generate.ErrTransport) {
		t.Fatalf("err = %v, want transport", err)
	}
}

func TestNoTokenNoAuthorization(t *testing.T) {
	var auth []string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Values("Authorization")
		w.Write([]byte("IMAGE"))
	})
	c.Token = ""
	if _, err := (&SketchToImage{Client: c}).Generate(context.Background(), generate.Request{}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(auth) != 0 {
		t.Fatalf("authorization sent: %v", auth)
	}
}

func TestOversizedResponseIsRejected(t *testing.T) {
	old := maxBody
	maxBody = 16
	t.Cleanup(func() { maxBody = old })

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 17))
	})
	data, err := (&SketchToImage{Client: c}).Generate(context.Background(), generate.Request{})
	if !errors.Is(err, generate.ErrDecode) {
		t.Fatalf("err = %v, want decode", err)
	}
	if data != nil {
		t.Fatalf("returned %d bytes", len(data))
	}
}

func TestResponseAtLimitIsKept(t *testing.T) {
	old := maxBody
	maxBody = 16
	t.Cleanup(func() { maxBody = old })

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 16))
	})
	data, err := (&SketchToImage{Client: c}).Generate(context.Background(), generate.Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(data) != 16 {
		t.Fatalf("len = %d, want 16", len(data))
	}
}
