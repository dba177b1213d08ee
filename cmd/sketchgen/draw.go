package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/sketchgen/internal/surface"
)

// drawCmd replays a stroke script onto a blank canvas and exports it.
type drawCmd struct {
	script string
	output string
	format string
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.script, "script", "", "stroke script to replay (- for stdin)")
	fs.StringVar(&d.output, "output", "sketch.png", "output file path")
	fs.StringVar(&d.format, "format", "png", "output format (png or jpeg)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if d.script == "" {
		return nil, fmt.Errorf("-script is required")
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: d}
	}
	return d, nil
}

func (d *drawCmd) Run() error {
	format, err := surface.ParseFormat(d.format)
	if err != nil {
		return err
	}
	s, err := sketchFromScript(d.root, d.script)
	if err != nil {
		return err
	}
	data, err := s.Export(format)
	if err != nil {
		return fmt.Errorf("export sketch: %w", err)
	}
	if err := os.WriteFile(d.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", d.output, err)
	}
	d.log.WithField("path", d.output).Info("sketch written")
	d.notifySave(d.output)
	return nil
}

// sketchFromScript builds a canvas from the [canvas] section and replays
// the script named by path onto it.
func sketchFromScript(r *root, path string) (*surface.Surface, error) {
	var in *os.File
	if path == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		in = f
	}
	ops, err := parseScript(in)
	if err != nil {
		return nil, err
	}
	s, err := r.newSurface()
	if err != nil {
		return nil, err
	}
	if err := replay(s, ops); err != nil {
		return nil, err
	}
	return s, nil
}
