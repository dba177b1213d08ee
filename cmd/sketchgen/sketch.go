package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/example/sketchgen/internal/blob"
	"github.com/example/sketchgen/internal/generate"
)

// sketchCmd sends a sketch, loaded from an image or drawn from a stroke
// script, to the sketch-to-image model.
type sketchCmd struct {
	file   string
	script string
	generation
	*root
	fs *flag.FlagSet
}

func (s *sketchCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseSketchCmd(args []string, r *root) (*sketchCmd, error) {
	fs := flag.NewFlagSet("sketch", flag.ExitOnError)
	s := &sketchCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	fs.StringVar(&s.file, "file", "", "sketch image to send")
	fs.StringVar(&s.script, "script", "", "stroke script to draw and send (- for stdin)")
	s.register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: s}
	}
	switch {
	case s.file == "" && s.script == "":
		return nil, fmt.Errorf("one of -file or -script is required")
	case s.file != "" && s.script != "":
		return nil, fmt.Errorf("-file and -script cannot be used together")
	}
	return s, nil
}

func (s *sketchCmd) Run() error {
	surf, err := s.newSurface()
	if err != nil {
		return err
	}
	if s.script != "" {
		if surf, err = sketchFromScript(s.root, s.script); err != nil {
			return err
		}
	} else {
		data, err := os.ReadFile(s.file)
		if err != nil {
			return fmt.Errorf("read sketch: %w", err)
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("decode sketch %s: %w", s.file, err)
		}
		if err := surf.Load(img); err != nil {
			return err
		}
	}
	req, err := generate.SketchRequest(surf)
	if err != nil {
		return err
	}
	view := &cliView{log: s.log}
	ctrl := s.sketchController(view, blob.NewStore())
	return s.run(s.root, ctrl, view, req)
}
