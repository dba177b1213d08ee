package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader resolves a theme name. A name naming an existing file is parsed
// directly. Otherwise NAME.theme is looked up in the embedded defaults and
// then in Dirs, in order.
type Loader struct {
	Dirs []string
}

func NewLoader() *Loader {
	return &Loader{Dirs: SearchDirs()}
}

// SearchDirs is the user theme directory ($XDG_CONFIG_HOME/sketchgen/themes,
// else ~/.config/sketchgen/themes) followed by sketchgen/themes under each
// $XDG_DATA_DIRS entry.
func SearchDirs() []string {
	var dirs []string
	cfg := os.Getenv("XDG_CONFIG_HOME")
	if !filepath.IsAbs(cfg) {
		cfg = ""
		if home, err := os.UserHomeDir(); err == nil {
			cfg = filepath.Join(home, ".config")
		}
	}
	if cfg != "" {
		dirs = append(dirs, filepath.Join(cfg, "sketchgen", "themes"))
	}
	data := os.Getenv("XDG_DATA_DIRS")
	if data == "" {
		data = "/usr/local/share:/usr/share"
	}
	for _, d := range filepath.SplitList(data) {
		if filepath.IsAbs(d) {
			dirs = append(dirs, filepath.Join(d, "sketchgen", "themes"))
		}
	}
	return dirs
}

func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if fi, err := os.Stat(name); err == nil && fi.Mode().IsRegular() {
		return parseFile(name)
	}

	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}
	if f, err := EmbeddedThemes.Open("defaults/" + filename); err == nil {
		defer f.Close()
		return Parse(f)
	}
	for _, dir := range l.Dirs {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return parseFile(path)
		}
	}
	return nil, fmt.Errorf("theme %q not found", name)
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", path, err)
	}
	return t, nil
}
