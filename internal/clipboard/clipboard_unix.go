//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	return initErr
}

// Write publishes it. The cgo backend holds one format at a time, so an
// image takes precedence over text.
func Write(it Item) error {
	if len(it.PNG) == 0 && it.Text == "" {
		return errEmpty
	}
	if err := ensureInit(); err != nil {
		return err
	}
	if len(it.PNG) > 0 {
		clipboard.Write(clipboard.FmtImage, it.PNG)
		return nil
	}
	clipboard.Write(clipboard.FmtText, []byte(it.Text))
	return nil
}

// ReadPNG returns the PNG image currently on the clipboard.
func ReadPNG() ([]byte, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data := clipboard.Read(clipboard.FmtImage)
	if len(data) == 0 {
		return nil, fmt.Errorf("clipboard does not contain image data")
	}
	return data, nil
}
