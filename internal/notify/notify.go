// Package notify turns generation, save and copy events into desktop
// notifications according to the user's preferences.
package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/example/sketchgen/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventGenerate fires when an image has been generated.
	EventGenerate Event = "generate"
	// EventFailure fires when generation failed. It follows the generate toggle.
	EventFailure Event = "failure"
	// EventSave fires when a result is written to disk.
	EventSave Event = "save"
	// EventCopy fires when a result is copied to the clipboard.
	EventCopy Event = "copy"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: platform.AppName,
		Events: map[Event]EventPreference{
			EventGenerate: {Template: "%s"},
			EventFailure:  {Template: "%s"},
			EventSave:     {Template: "Saved %s"},
			EventCopy:     {Template: "Copied %s to clipboard"},
		},
	}
}

// LoadPreferences overlays SKETCHGEN_NOTIFY_* environment variables on the
// defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("SKETCHGEN_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			eventPrefs := prefs.Events[event]
			eventPrefs.Template = v
			prefs.Events[event] = eventPrefs
		}
	}
	apply("SKETCHGEN_NOTIFY_GENERATE_TEXT", EventGenerate)
	apply("SKETCHGEN_NOTIFY_FAILURE_TEXT", EventFailure)
	apply("SKETCHGEN_NOTIFY_SAVE_TEXT", EventSave)
	apply("SKETCHGEN_NOTIFY_COPY_TEXT", EventCopy)
	return prefs
}

// SendFunc delivers one notification.
type SendFunc func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    SendFunc
	log     logrus.FieldLogger
}

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{
		prefs:   cloned,
		enabled: make(map[Event]bool),
		send:    platform.Notify,
		log:     logrus.StandardLogger(),
	}
}

// WithSender replaces the platform delivery, mostly for tests.
func (n *Notifier) WithSender(fn SendFunc) *Notifier {
	n.send = fn
	return n
}

// WithLogger sets where delivery errors are reported.
func (n *Notifier) WithLogger(l logrus.FieldLogger) *Notifier {
	n.log = l
	return n
}

// Enable toggles the notifier for the provided event. Enabling generate also
// enables failure notifications.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
	if event == EventGenerate {
		n.enabled[EventFailure] = enabled
	}
}

// Generated announces a new result with a preview of its bytes.
func (n *Notifier) Generated(caption string, data []byte, mime string) {
	if !n.enabledFor(EventGenerate) {
		return
	}
	opts := platform.Options{Urgency: platform.UrgencyNormal}
	if len(data) > 0 {
		if path, cleanup, err := writePreview(data, mime); err != nil {
			n.log.WithError(err).Warn("notification preview")
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	if strings.TrimSpace(caption) == "" {
		caption = "Image generated"
	}
	n.dispatch(EventGenerate, caption, opts)
}

// Failed reports the message shown in the failure affordance.
func (n *Notifier) Failed(message string) {
	n.dispatch(EventFailure, message, platform.Options{Urgency: platform.UrgencyCritical})
}

// Save sends a save notification including the written filename when available.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{Urgency: platform.UrgencyLow}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy sends a clipboard notification.
func (n *Notifier) Copy(detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, platform.Options{Urgency: platform.UrgencyLow})
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	template := strings.TrimSpace(n.template(event))
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		n.log.WithError(err).WithField("event", event).Warn("notification failed")
	}
}

func (n *Notifier) template(event Event) string {
	if pref, ok := n.prefs.Events[event]; ok {
		return pref.Template
	}
	return ""
}

func writePreview(data []byte, mime string) (string, func(), error) {
	ext := ".png"
	switch mime {
	case "image/jpeg":
		ext = ".jpg"
	case "image/gif":
		ext = ".gif"
	case "image/webp":
		ext = ".webp"
	}
	f, err := os.CreateTemp("", "sketchgen-preview-*"+ext)
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		_ = os.Remove(path)
	}
	return path, cleanup, nil
}
