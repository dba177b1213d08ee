//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"fmt"
)

// Write is unsupported on this platform.
func Write(Item) error {
	return fmt.Errorf("clipboard operations are not supported on this platform")
}

// ReadPNG is unsupported on this platform.
func ReadPNG() ([]byte, error) {
	return nil, fmt.Errorf("clipboard image operations are not supported on this platform")
}
