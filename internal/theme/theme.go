package theme

import (
	"image/color"
)

// Theme defines the color palette for the application UI.
type Theme struct {
	Name string

	// General
	Background      color.RGBA // Window background behind the panes
	PanelBackground color.RGBA // Canvas and result pane frames
	Text            color.RGBA
	TextMuted       color.RGBA // Captions and placeholders
	Error           color.RGBA // Failure and validation messages

	// Shortcut bar buttons
	ButtonBackground         color.RGBA
	ButtonBackgroundHover    color.RGBA
	ButtonBackgroundPress    color.RGBA
	ButtonBackgroundDisabled color.RGBA
	ButtonText               color.RGBA
	ButtonBorder             color.RGBA

	// Result pane
	Loader      color.RGBA
	Placeholder color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                     "Default",
		Background:               color.RGBA{240, 240, 240, 255},
		PanelBackground:          color.RGBA{255, 255, 255, 255},
		Text:                     color.RGBA{0, 0, 0, 255},
		TextMuted:                color.RGBA{90, 90, 90, 255},
		Error:                    color.RGBA{200, 30, 30, 255},
		ButtonBackground:         color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover:    color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress:    color.RGBA{150, 150, 150, 255},
		ButtonBackgroundDisabled: color.RGBA{225, 225, 225, 255},
		ButtonText:               color.RGBA{0, 0, 0, 255},
		ButtonBorder:             color.RGBA{0, 0, 0, 255},
		Loader:                   color.RGBA{52, 152, 219, 255},
		Placeholder:              color.RGBA{230, 230, 230, 255},
	}
}

// Dark is the built-in dark palette.
func Dark() *Theme {
	return &Theme{
		Name:                     "Dark",
		Background:               color.RGBA{30, 30, 30, 255},
		PanelBackground:          color.RGBA{45, 45, 45, 255},
		Text:                     color.RGBA{230, 230, 230, 255},
		TextMuted:                color.RGBA{160, 160, 160, 255},
		Error:                    color.RGBA{255, 110, 110, 255},
		ButtonBackground:         color.RGBA{70, 70, 70, 255},
		ButtonBackgroundHover:    color.RGBA{90, 90, 90, 255},
		ButtonBackgroundPress:    color.RGBA{110, 110, 110, 255},
		ButtonBackgroundDisabled: color.RGBA{50, 50, 50, 255},
		ButtonText:               color.RGBA{230, 230, 230, 255},
		ButtonBorder:             color.RGBA{120, 120, 120, 255},
		Loader:                   color.RGBA{52, 152, 219, 255},
		Placeholder:              color.RGBA{60, 60, 60, 255},
	}
}

// Colors lists the color fields of t by name, in declaration order.
func (t *Theme) Colors() []NamedColor {
	return colorFields(t)
}

// NamedColor is one palette entry.
type NamedColor struct {
	Name  string
	Color color.RGBA
}
