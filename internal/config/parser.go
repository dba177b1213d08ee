package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/sketchgen/internal/surface"
	"github.com/example/sketchgen/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	// Context for parsing
	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			currentTheme = nil

			if strings.HasPrefix(strings.ToLower(currentSection), "theme.") {
				themeName := currentSection[len("theme."):]
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Parse Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		// Remove quotes if present
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			if uq, err := strconv.Unquote(value); err == nil {
				value = uq
			} else {
				value = value[1 : len(value)-1]
			}
		}

		var err error
		section := strings.ToLower(currentSection)
		switch {
		case currentTheme != nil:
			err = currentTheme.Set(key, value)
		case section == "":
			err = setRootField(cfg, key, value)
		case section == "inference":
			err = setInferenceField(&cfg.Inference, key, value)
		case section == "sketch":
			err = setSketchField(&cfg.Sketch, key, value)
		case section == "text":
			if key == "model" {
				cfg.Text.Model = value
			}
		case section == "canvas":
			err = setCanvasField(&cfg.Canvas, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch key {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "log_level":
		cfg.LogLevel = value
	}
	return nil
}

func setInferenceField(in *Inference, key, value string) error {
	switch key {
	case "base_url":
		in.BaseURL = value
	case "token":
		in.Token = value
	case "token_env":
		in.TokenEnv = value
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for key %s: %w", key, err)
		}
		in.Timeout = d
	}
	return nil
}

func setSketchField(s *Sketch, key, value string) error {
	switch key {
	case "model":
		s.Model = value
	case "negative_prompt":
		s.NegativePrompt = value
	case "steps":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid step count %q", value)
		}
		s.Steps = n
	case "guidance":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
		s.Guidance = f
	}
	return nil
}

func setCanvasField(c *Canvas, key, value string) error {
	switch key {
	case "width", "height", "pen_width":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid %s %q", key, value)
		}
		switch key {
		case "width":
			c.Width = n
		case "height":
			c.Height = n
		default:
			c.PenWidth = n
		}
	case "color":
		if _, err := surface.ParseColor(value); err != nil {
			return err
		}
		c.Color = value
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch key {
	case "generate":
		n.Generate = b
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}
