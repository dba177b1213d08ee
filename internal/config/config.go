package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/sketchgen/internal/inference"
	"github.com/example/sketchgen/internal/surface"
	"github.com/example/sketchgen/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Generate bool
	Save     bool
	Copy     bool
}

// Inference configures the hosted endpoint. Token is normally left empty and
// resolved from the environment variable named by TokenEnv.
type Inference struct {
	BaseURL  string
	Token    string
	TokenEnv string
	Timeout  time.Duration
}

// Sketch configures the sketch-to-image path.
type Sketch struct {
	Model          string
	NegativePrompt string
	Steps          int
	Guidance       float64
}

// Text configures the text-to-image path.
type Text struct {
	Model string
}

// Canvas configures the drawing surface.
type Canvas struct {
	Width    int
	Height   int
	Color    string
	PenWidth int
}

// Config holds the application configuration.
type Config struct {
	Theme     string
	SaveDir   string
	LogLevel  string
	Inference Inference
	Sketch    Sketch
	Text      Text
	Canvas    Canvas
	Notify    Notify
	Themes    map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	p := inference.DefaultParams()
	return &Config{
		Theme:    "", // Empty falls back to the environment or the default theme
		LogLevel: "info",
		Inference: Inference{
			BaseURL:  inference.DefaultBaseURL,
			TokenEnv: DefaultTokenEnv,
			Timeout:  inference.DefaultTimeout,
		},
		Sketch: Sketch{
			Model:          inference.DefaultSketchModel,
			NegativePrompt: p.NegativePrompt,
			Steps:          p.NumInferenceSteps,
			Guidance:       p.GuidanceScale,
		},
		Text: Text{Model: inference.DefaultTextModel},
		Canvas: Canvas{
			Width:    surface.DefaultWidth,
			Height:   surface.DefaultHeight,
			Color:    surface.FormatColor(surface.DefaultColor),
			PenWidth: surface.DefaultPenWidth,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// Params returns the sketch generation parameters.
func (c *Config) Params() inference.Params {
	return inference.Params{
		NegativePrompt:    c.Sketch.NegativePrompt,
		NumInferenceSteps: c.Sketch.Steps,
		GuidanceScale:     c.Sketch.Guidance,
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
// A literal token is never written back out.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.LogLevel != "" {
		fmt.Fprintf(&sb, "log_level = %s\n", c.LogLevel)
	}
	sb.WriteString("\n")

	sb.WriteString("[inference]\n")
	fmt.Fprintf(&sb, "base_url = %s\n", c.Inference.BaseURL)
	if c.Inference.TokenEnv != "" {
		fmt.Fprintf(&sb, "token_env = %s\n", c.Inference.TokenEnv)
	}
	fmt.Fprintf(&sb, "timeout = %s\n", c.Inference.Timeout)
	sb.WriteString("\n")

	sb.WriteString("[sketch]\n")
	fmt.Fprintf(&sb, "model = %s\n", c.Sketch.Model)
	fmt.Fprintf(&sb, "negative_prompt = %q\n", c.Sketch.NegativePrompt)
	fmt.Fprintf(&sb, "steps = %d\n", c.Sketch.Steps)
	fmt.Fprintf(&sb, "guidance = %g\n", c.Sketch.Guidance)
	sb.WriteString("\n")

	sb.WriteString("[text]\n")
	fmt.Fprintf(&sb, "model = %s\n", c.Text.Model)
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Canvas.Height)
	fmt.Fprintf(&sb, "color = %s\n", c.Canvas.Color)
	fmt.Fprintf(&sb, "pen_width = %d\n", c.Canvas.PenWidth)
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "generate = %v\n", c.Notify.Generate)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, nc := range t.Colors() {
			fmt.Fprintf(&sb, "%s: %s\n", nc.Name, theme.Hex(nc.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
