package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/sketchgen/internal/blob"
	"github.com/example/sketchgen/internal/generate"
)

// textCmd sends a description, and optionally a reference image, to the
// text-to-image model.
type textCmd struct {
	description   string
	image         string
	fromClipboard bool
	generation
	*root
	fs *flag.FlagSet
}

func (t *textCmd) FlagSet() *flag.FlagSet {
	return t.fs
}

func parseTextCmd(args []string, r *root) (*textCmd, error) {
	fs := flag.NewFlagSet("text", flag.ExitOnError)
	t := &textCmd{root: r, fs: fs}
	fs.Usage = usageFunc(t)
	fs.StringVar(&t.description, "d", "", "description of the image to generate")
	fs.StringVar(&t.description, "description", "", "description of the image to generate")
	fs.StringVar(&t.image, "image", "", "reference image sent with the description")
	fs.BoolVar(&t.fromClipboard, "from-clipboard", false, "read the reference image from the clipboard")
	fs.BoolVar(&t.fromClipboard, "from-clip", false, "read the reference image from the clipboard (alias)")
	t.register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	// Remaining words are taken as the description.
	if t.description == "" && fs.NArg() > 0 {
		t.description = strings.Join(fs.Args(), " ")
	}
	if t.image != "" && t.fromClipboard {
		return nil, fmt.Errorf("-image and -from-clipboard cannot be used together")
	}
	return t, nil
}

func (t *textCmd) request() (generate.Request, error) {
	req := generate.Request{Description: t.description}
	var (
		data []byte
		name string
		err  error
	)
	switch {
	case t.image != "":
		if data, err = os.ReadFile(t.image); err != nil {
			return req, fmt.Errorf("read reference image: %w", err)
		}
		name = filepath.Base(t.image)
	case t.fromClipboard:
		if data, err = readClipboardFn(); err != nil {
			return req, fmt.Errorf("read clipboard: %w", err)
		}
		name = "reference.png"
	default:
		return req, nil
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return req, fmt.Errorf("reference image: %w", err)
	}
	req.Image, req.ImageName, req.ImageMIME = data, name, http.DetectContentType(data)
	return req, nil
}

func (t *textCmd) Run() error {
	// A blank description is rejected by the controller before any
	// reference image is read.
	req := generate.Request{Description: t.description}
	if generate.RequireDescription(req) == nil {
		var err error
		if req, err = t.request(); err != nil {
			return err
		}
	}
	view := &cliView{log: t.log}
	ctrl := t.textController(view, blob.NewStore())
	return t.run(t.root, ctrl, view, req)
}
