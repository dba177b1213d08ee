package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/example/sketchgen/internal/blob"
	"github.com/example/sketchgen/internal/ui"
)

// windowCmd opens the drawing window.
type windowCmd struct {
	file string
	*root
	fs *flag.FlagSet
}

func (w *windowCmd) FlagSet() *flag.FlagSet {
	return w.fs
}

func parseWindowCmd(args []string, r *root) (*windowCmd, error) {
	fs := flag.NewFlagSet("window", flag.ExitOnError)
	w := &windowCmd{root: r, fs: fs}
	fs.Usage = usageFunc(w)
	fs.StringVar(&w.file, "file", "", "image to start the canvas from")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: w}
	}
	return w, nil
}

func (w *windowCmd) Run() error {
	surf, err := w.newSurface()
	if err != nil {
		return err
	}
	if w.file != "" {
		data, err := os.ReadFile(w.file)
		if err != nil {
			return fmt.Errorf("read %s: %w", w.file, err)
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("decode %s: %w", w.file, err)
		}
		if err := surf.Load(img); err != nil {
			return err
		}
	}

	store := blob.NewStore()
	sketchView := ui.NewResultView(store, w.notifier, w.log)
	textView := ui.NewResultView(store, w.notifier, w.log)
	app := ui.New(surf,
		ui.WithSketch(w.sketchController(sketchView, store), sketchView),
		ui.WithText(w.textController(textView, store), textView),
		ui.WithTheme(w.activeTheme),
		ui.WithSaveDir(w.config.SaveDir),
		ui.WithNotifier(w.notifier),
		ui.WithLogger(w.log),
		ui.WithOnClose(func() {
			w.log.WithField("resident", store.Len()).Debug("window closed")
		}),
	)
	app.Run()
	return nil
}
