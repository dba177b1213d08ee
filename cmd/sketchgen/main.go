package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/example/sketchgen/internal/blob"
	"github.com/example/sketchgen/internal/config"
	"github.com/example/sketchgen/internal/generate"
	"github.com/example/sketchgen/internal/inference"
	"github.com/example/sketchgen/internal/notify"
	"github.com/example/sketchgen/internal/surface"
	"github.com/example/sketchgen/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs             *flag.FlagSet
	program        string
	notifier       *notify.Notifier
	config         *config.Config
	log            *logrus.Logger
	stdout         io.Writer
	configPath     string
	logLevel       string
	envFile        string
	generateAlerts bool
	saveAlerts     bool
	copyAlerts     bool
	themeName      string
	activeTheme    *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)

	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		log.WithError(err).Warn("failed to load config")
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("sketchgen", flag.ExitOnError),
		program:  "sketchgen",
		notifier: notify.New(prefs).WithLogger(log),
		config:   cfg,
		log:      log,
		stdout:   os.Stdout,
	}
	r.fs.StringVar(&r.configPath, "config", "", "configuration file to load instead of the default search path")
	r.fs.StringVar(&r.logLevel, "loglevel", "", "log level (panic, fatal, error, warn, info, debug, trace)")
	r.fs.StringVar(&r.envFile, "env", ".env", "dotenv file with SKETCHGEN_TOKEN or HF_TOKEN")
	r.fs.BoolVar(&r.generateAlerts, "notify-generate", cfg.Notify.Generate, "show a desktop notification when an image is generated")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (light, dark or a .theme file)")
	r.fs.Usage = usageFunc(r)
	return r
}

// reloadConfig replaces the config with the file named by -config. Notify
// flags given on the command line keep their values.
func (r *root) reloadConfig() error {
	if r.configPath == "" {
		return nil
	}
	f, err := os.Open(r.configPath)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	cfg, err := config.Parse(f)
	if err != nil {
		return fmt.Errorf("parse config %s: %w", r.configPath, err)
	}
	set := map[string]bool{}
	r.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["notify-generate"] {
		r.generateAlerts = cfg.Notify.Generate
	}
	if !set["notify-save"] {
		r.saveAlerts = cfg.Notify.Save
	}
	if !set["notify-copy"] {
		r.copyAlerts = cfg.Notify.Copy
	}
	r.config = cfg
	return nil
}

func (r *root) setupLogging() error {
	level := r.logLevel
	if level == "" {
		level = os.Getenv("SKETCHGEN_LOGLEVEL")
	}
	if level == "" {
		level = r.config.LogLevel
	}
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	r.log.SetLevel(lvl)
	return nil
}

func (r *root) loadTheme() {
	themeName := r.themeName
	if themeName == "" {
		themeName = os.Getenv("SKETCHGEN_THEME")
	}
	if themeName == "" {
		themeName = r.config.Theme
	}

	if cfgTheme, ok := r.config.Themes[themeName]; ok {
		r.activeTheme = cfgTheme
		return
	}
	t, err := theme.NewLoader().Load(themeName)
	if err != nil {
		if themeName != "" && themeName != "default" {
			r.log.WithError(err).WithField("theme", themeName).Warn("failed to load theme, using default")
		}
		t = theme.Default()
	}
	r.activeTheme = t
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if err := r.reloadConfig(); err != nil {
		return err
	}
	if err := r.setupLogging(); err != nil {
		return err
	}
	if err := config.LoadEnv(r.envFile); err != nil {
		r.log.WithError(err).WithField("file", r.envFile).Warn("failed to load env file")
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventGenerate, r.generateAlerts)
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	r.loadTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "sketch":
		cmd, err = parseSketchCmd(subArgs, r)
	case "text":
		cmd, err = parseTextCmd(subArgs, r)
	case "window":
		cmd, err = parseWindowCmd(subArgs, r)
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r)
	case "widths":
		cmd, err = parseWidthsCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			r.log.Error(err)
			os.Exit(1)
		}
	}
}

// newSurface builds a blank canvas from the [canvas] section.
func (r *root) newSurface() (*surface.Surface, error) {
	c := r.config.Canvas
	col, err := surface.ParseColor(c.Color)
	if err != nil {
		return nil, fmt.Errorf("canvas color: %w", err)
	}
	return surface.New(c.Width, c.Height, surface.WithStyle(surface.Style{Color: col, Width: c.PenWidth}))
}

func (r *root) client() *inference.Client {
	in := r.config.Inference
	token := r.config.ResolveToken()
	if token == "" {
		r.log.Warn("no API token configured; set SKETCHGEN_TOKEN or HF_TOKEN")
	}
	c := inference.NewClient(in.BaseURL, token, in.Timeout)
	c.Log = r.log
	return c
}

// sketchController wires the sketch path: fixed failure text, no validation.
func (r *root) sketchController(view generate.View, store *blob.Store) *generate.Controller {
	backend := &inference.SketchToImage{Client: r.client(), Model: r.config.Sketch.Model, Params: r.config.Params()}
	return generate.New(backend, view, store,
		generate.WithFailureMessage(generate.FixedFailure),
		generate.WithLogger(r.log.WithField("path", "sketch")))
}

// textController wires the text path: description required, detailed failures.
func (r *root) textController(view generate.View, store *blob.Store) *generate.Controller {
	backend := &inference.TextToImage{Client: r.client(), Model: r.config.Text.Model}
	return generate.New(backend, view, store,
		generate.WithValidator(generate.RequireDescription),
		generate.WithFailureMessage(generate.DetailedFailure),
		generate.WithLogger(r.log.WithField("path", "text")))
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}
