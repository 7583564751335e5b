// Package app wires the Mudra gesture engine together: the pose classifier,
// the stroke recognizer, the tracker with its views and listeners, and the
// persisted runtime settings.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/draw"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/listener"
	"github.com/ayusman/mudra/internal/log"
	"github.com/ayusman/mudra/internal/schedule"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tracker"
)

// FrameBufferSize is how many frames may queue ahead of the loop before the
// landmark feed blocks.
const FrameBufferSize = 8

// Config holds configuration options for the application.
type Config struct {
	Settings config.Config
	// Store is optional. Without it no trained templates are loaded and
	// runtime settings are not persisted.
	Store  *store.Store
	Logger *slog.Logger

	// Scheduler replaces the real timer scheduler, e.g. with a
	// schedule.Manual clock for replaying a recorded session.
	Scheduler schedule.Scheduler
	// Surface replaces the gocv overlay.
	Surface draw.Surface
}

// App owns the frame loop and everything listeners need.
type App struct {
	config Config
	log    *slog.Logger

	classifier *gesture.PoseClassifier
	recognizer *gesture.Recognizer
	tracker    *tracker.Tracker
	timers     *schedule.TimerScheduler
	overlay    *draw.MatSurface
	frames     chan hand.Frame

	// paths holds the names of stored stroke templates added to the
	// recognizer, so a reload can drop deleted ones.
	paths map[string]bool

	mu          sync.RWMutex
	lastGesture string
	onGesture   []func(string)
	cancel      context.CancelFunc
	done        chan struct{}
	dispose     func()
	stopOnce    sync.Once
}

// New builds the application from cfg. Views and listeners are created
// immediately; the frame loop starts with Start.
func New(cfg Config) (*App, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	settings := cfg.Settings

	a := &App{
		config:     cfg,
		log:        log.WithComponent(cfg.Logger, "app"),
		classifier: gesture.NewPoseClassifier(gesture.NewStaticMatcher()),
		frames:     make(chan hand.Frame, FrameBufferSize),
		paths:      make(map[string]bool),
	}

	if settings.Recognizer.Builtins {
		a.recognizer = gesture.NewDefaultRecognizer(settings.Recognizer.Options()...)
	} else {
		a.recognizer = gesture.NewRecognizer(settings.Recognizer.Options()...)
	}

	scheduler := cfg.Scheduler
	var timers <-chan func()
	if scheduler == nil {
		a.timers = schedule.NewTimerScheduler(16)
		scheduler = a.timers
		timers = a.timers.C()
	}

	surface := cfg.Surface
	if surface == nil {
		a.overlay = draw.NewMatSurface(settings.Canvas.Width, settings.Canvas.Height)
		surface = a.overlay
	}

	a.tracker = tracker.New(tracker.Options{
		Classifier: a.classifier,
		Projection: settings.Canvas.Projection(),
		Timers:     timers,
		Logger:     log.WithComponent(cfg.Logger, "tracker"),
	})

	if err := a.buildViews(scheduler, surface); err != nil {
		a.tracker.Close()
		return nil, err
	}
	if err := a.restoreSettings(); err != nil {
		a.tracker.Close()
		return nil, err
	}
	a.dispose = a.tracker.Observe(a.onEvent)
	return a, nil
}

func (a *App) buildViews(scheduler schedule.Scheduler, surface draw.Surface) error {
	settings := a.config.Settings
	lg := log.WithComponent(a.config.Logger, "listener")

	for _, vc := range settings.Views {
		v := tracker.NewView(vc.Name)
		for i, lc := range vc.Listeners {
			name := lc.Name
			if name == "" {
				name = fmt.Sprintf("%s/%s-%d", vc.Name, lc.Kind, i)
			}
			opts := listener.Options{
				Name:       name,
				Region:     lc.Region,
				Pairs:      lc.Pairs,
				Frames:     v.Frames(),
				Subjects:   v.Subjects(),
				Surface:    surface,
				Scheduler:  scheduler,
				Logger:     lg.With("view", vc.Name),
				Thresholds: settings.Gestures.Thresholds(),
				Recognizer: a.recognizer,
				Data:       lc.Data,
			}
			if lc.Roles != nil {
				opts.Roles = *lc.Roles
			}
			l, err := listener.Build(lc.Kind, opts)
			if err != nil {
				v.Close()
				return fmt.Errorf("view %q: %w", vc.Name, err)
			}
			v.Add(l)
		}
		a.tracker.AddView(v)
	}

	if settings.ActiveView != "" {
		if err := a.tracker.SetActiveView(context.Background(), settings.ActiveView); err != nil {
			return err
		}
	}
	return nil
}

// restoreSettings applies the enabled flag and active view saved by a
// previous run. A saved view that no longer exists is ignored.
func (a *App) restoreSettings() error {
	if a.config.Store == nil {
		return nil
	}
	repo := a.config.Store.Settings()

	v, err := repo.Get(store.SettingEnabled)
	switch {
	case err == nil:
		if enabled, perr := strconv.ParseBool(v); perr == nil {
			a.tracker.SetEnabled(enabled)
		}
	case !errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("restore enabled: %w", err)
	}

	v, err = repo.Get(store.SettingActiveView)
	switch {
	case err == nil:
		if serr := a.tracker.SetActiveView(context.Background(), v); serr != nil {
			a.log.Warn("saved view not restored", "view", v, "error", serr)
		}
	case !errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("restore active view: %w", err)
	}
	return nil
}

func (a *App) saveSetting(key, value string) {
	if a.config.Store == nil {
		return
	}
	if err := a.config.Store.Settings().Set(key, value); err != nil {
		a.log.Error("failed to save setting", "key", key, "error", err)
	}
}

// SetEnabled enables or disables gesture detection. Disabling abandons
// gestures in progress.
func (a *App) SetEnabled(enabled bool) {
	a.tracker.SetEnabled(enabled)
	a.saveSetting(store.SettingEnabled, strconv.FormatBool(enabled))
	a.log.Info("detection toggled", "enabled", enabled)
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	return a.tracker.Enabled()
}

// SetActiveView switches dispatch to the named view and remembers it.
func (a *App) SetActiveView(ctx context.Context, name string) error {
	if err := a.tracker.SetActiveView(ctx, name); err != nil {
		return err
	}
	a.saveSetting(store.SettingActiveView, name)
	return nil
}

// ViewNames lists the configured views in order.
func (a *App) ViewNames() []string {
	names := make([]string, 0, len(a.config.Settings.Views))
	for _, v := range a.config.Settings.Views {
		names = append(names, v.Name)
	}
	return names
}

// LoadTemplates loads trained templates from the store: static templates
// into the pose matcher, dynamic ones into the stroke recognizer. It runs on
// the frame loop when the loop is running.
func (a *App) LoadTemplates(ctx context.Context) error {
	if a.config.Store == nil {
		return nil
	}

	repo := a.config.Store.Templates()
	templates, err := repo.List()
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}

	matcher := gesture.NewStaticMatcher()
	paths := make(map[string][]geometry.Point)
	for _, t := range templates {
		switch t.Type {
		case store.TemplateTypeStatic:
			landmarks, err := repo.Landmarks(t.ID)
			if err != nil {
				a.log.Warn("failed to load landmarks", "template", t.Name, "error", err)
				continue
			}
			if len(landmarks) != hand.NumLandmarks {
				a.log.Debug("template not trained yet", "template", t.Name)
				continue
			}
			matcher.AddTemplate(&gesture.Template{
				ID:        t.ID,
				Name:      t.Name,
				Type:      gesture.TypeStatic,
				Label:     hand.Label(t.Label),
				Landmarks: landmarks,
				Tolerance: t.Tolerance,
			})

		case store.TemplateTypeDynamic:
			path, err := repo.Path(t.ID)
			if err != nil {
				a.log.Warn("failed to load path", "template", t.Name, "error", err)
				continue
			}
			if len(path) >= 2 {
				paths[t.Name] = path
			}
		}
	}

	err = a.tracker.Do(ctx, func() {
		a.classifier.Matcher = matcher

		for name := range a.paths {
			if _, ok := paths[name]; !ok {
				a.recognizer.Remove(name)
				delete(a.paths, name)
			}
		}
		for name, path := range paths {
			if err := a.recognizer.Add(name, path); err != nil {
				a.log.Warn("failed to add stroke template", "template", name, "error", err)
				continue
			}
			a.paths[name] = true
		}
	})
	if err != nil {
		return err
	}

	a.log.Info("templates loaded", "poses", matcher.Len(), "strokes", len(paths))
	return nil
}

// ReloadTemplates is LoadTemplates for callbacks without a context, such as
// the template API's change hook.
func (a *App) ReloadTemplates() {
	if err := a.LoadTemplates(context.Background()); err != nil {
		a.log.Error("failed to reload templates", "error", err)
	}
}

// OnGesture registers fn to receive a short description of every confirmed
// gesture. fn runs on the frame loop and must not block.
func (a *App) OnGesture(fn func(name string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onGesture = append(a.onGesture, fn)
}

// LastGesture returns the description of the last published gesture event.
func (a *App) LastGesture() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastGesture
}

func (a *App) onEvent(e tracker.Event) {
	name := describe(e)

	a.mu.Lock()
	a.lastGesture = name
	fns := append([]func(string){}, a.onGesture...)
	a.mu.Unlock()

	a.log.Info("gesture", "view", e.View, "subject", e.Subject, "event", name)
	for _, fn := range fns {
		fn(name)
	}
}

// describe names an event for display.
func describe(e tracker.Event) string {
	switch p := e.Payload.(type) {
	case listener.AreaEvent:
		return "area " + string(p.Type)
	case listener.PlaybackEvent:
		return "playback " + string(p.Kind)
	case listener.SelectionEvent:
		return "select " + string(p.Kind)
	case listener.OpenHandEvent:
		return "open hand " + string(p.Side)
	case listener.HighlightEvent:
		return fmt.Sprintf("highlight %d points", len(p.Points))
	case listener.StrokeEvent:
		if p.Match != nil {
			return "stroke " + p.Match.Name
		}
		return "stroke"
	}
	return e.Subject
}

// Tracker returns the frame router.
func (a *App) Tracker() *tracker.Tracker {
	return a.tracker
}

// Frames returns the channel the landmark feed pushes frames into.
func (a *App) Frames() chan<- hand.Frame {
	return a.frames
}

// Overlay returns the gocv overlay, or nil when Config.Surface replaced it.
func (a *App) Overlay() *draw.MatSurface {
	return a.overlay
}

// Recognizer returns the stroke recognizer.
func (a *App) Recognizer() *gesture.Recognizer {
	return a.recognizer
}

// StaticMatcher returns the pose template matcher.
func (a *App) StaticMatcher() *gesture.StaticMatcher {
	return a.classifier.Matcher
}
