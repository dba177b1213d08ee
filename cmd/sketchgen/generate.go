package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/example/sketchgen/internal/blob"
	"github.com/example/sketchgen/internal/clipboard"
	"github.com/example/sketchgen/internal/generate"
)

var (
	copyResultFn    = clipboard.CopyResult
	readClipboardFn = clipboard.ReadPNG
)

// cliView is the terminal rendition of a result pane: it remembers what the
// controller asked it to show so the command can report it.
type cliView struct {
	log logrus.FieldLogger

	mu         sync.Mutex
	shown      blob.Handle
	caption    generate.Caption
	failure    string
	validation string
}

var _ generate.View = (*cliView)(nil)

func (v *cliView) SetTriggerEnabled(bool) {}

func (v *cliView) SetLoading(loading bool) {
	if loading {
		v.log.Info("generating image...")
	}
}

func (v *cliView) HideResult() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.shown, v.caption, v.failure = "", generate.Caption{}, ""
}

func (v *cliView) ShowResult(h blob.Handle, c generate.Caption) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.shown, v.caption = h, c
}

func (v *cliView) ShowFailure(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.failure = msg
}

func (v *cliView) ShowValidation(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.validation = msg
}

// message is the user facing text for the last rejected or failed request.
func (v *cliView) message() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.validation != "" {
		return v.validation
	}
	return v.failure
}

// generationError carries the message the view was given while keeping the
// underlying cause available to errors.Is and errors.As.
type generationError struct {
	msg string
	err error
}

func (e *generationError) Error() string { return e.msg }

func (e *generationError) Unwrap() error { return e.err }

// generation is what sketch and text share once the request is built.
type generation struct {
	output      string
	toClipboard bool
}

func (g *generation) register(fs *flag.FlagSet) {
	fs.StringVar(&g.output, "output", "", "output file (default ai-generated-image.png in save_dir)")
	fs.BoolVar(&g.toClipboard, "to-clipboard", false, "copy the generated image and caption to the clipboard")
	fs.BoolVar(&g.toClipboard, "to-clip", false, "copy the generated image and caption to the clipboard (alias)")
}

// run issues req through ctrl and delivers the result to a file and, when
// asked, the clipboard. The caption is printed to stdout.
func (g *generation) run(r *root, ctrl *generate.Controller, view *cliView, req generate.Request) error {
	defer ctrl.Close()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := ctrl.Generate(ctx, req)
	if err != nil {
		msg := view.message()
		if msg == "" {
			msg = err.Error()
		}
		r.notifier.Failed(msg)
		return &generationError{msg: msg, err: err}
	}
	if data, err := ctrl.ResultBytes(); err == nil {
		r.notifier.Generated(res.Caption.Line1, data, res.MIME)
	}

	var path string
	if g.output == "" {
		if path, err = ctrl.Download(r.config.SaveDir); err != nil {
			return err
		}
	} else {
		data, err := ctrl.ResultBytes()
		if err != nil {
			return err
		}
		if err := os.WriteFile(g.output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", g.output, err)
		}
		path = g.output
	}
	r.log.WithFields(logrus.Fields{"path": path, "mime": res.MIME}).Info("image saved")
	r.notifySave(path)

	fmt.Fprintln(r.stdout, res.Caption.Line1)
	fmt.Fprintln(r.stdout, res.Caption.Line2)

	if g.toClipboard {
		data, err := ctrl.ResultBytes()
		if err != nil {
			return err
		}
		caption := strings.TrimSpace(res.Caption.Line1 + "\n" + res.Caption.Line2)
		if err := copyResultFn(data, caption); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		r.notifyCopy("image")
	}
	return nil
}
