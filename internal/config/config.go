// Package config loads the Mudra configuration from a YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/listener"
	"github.com/ayusman/mudra/internal/log"
)

// CurrentVersion is written by Save. Bump it when the layout changes
// incompatibly.
const CurrentVersion = 1

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

// CanvasConfig is the pixel space landmarks are projected onto.
type CanvasConfig struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	Mirror bool `yaml:"mirror"`
}

// Projection maps normalized upstream landmarks onto the canvas.
func (c CanvasConfig) Projection() hand.Projection {
	return hand.CanvasProjection(float64(c.Width), float64(c.Height), c.Mirror)
}

// GestureConfig holds the confirmation thresholds.
type GestureConfig struct {
	WindowMs     int     `yaml:"window_ms"`
	Drift        float64 `yaml:"drift"`
	Pinch        float64 `yaml:"pinch"`
	SliderHeight float64 `yaml:"slider_height"`
	MinTrace     int     `yaml:"min_trace"`
}

// Thresholds converts g for listener construction.
func (g GestureConfig) Thresholds() listener.Thresholds {
	return listener.Thresholds{
		Window:       time.Duration(g.WindowMs) * time.Millisecond,
		Drift:        g.Drift,
		Pinch:        g.Pinch,
		SliderHeight: g.SliderHeight,
		MinTrace:     g.MinTrace,
	}
}

type RecognizerConfig struct {
	Points      int     `yaml:"points"`
	MaxDistance float64 `yaml:"max_distance"`
	// Scorer selects how candidate strokes are compared: ScorerPath or
	// ScorerDTW. Empty means ScorerPath.
	Scorer string `yaml:"scorer,omitempty"`
	// Builtins loads the bundled stroke library.
	Builtins bool `yaml:"builtins"`
}

// Stroke scorers.
const (
	// ScorerPath compares resampled points pairwise, searching rotations.
	ScorerPath = "path"
	// ScorerDTW uses dynamic time warping and tolerates uneven drawing speed.
	ScorerDTW = "dtw"
)

// Options converts r for gesture.NewRecognizer.
func (r RecognizerConfig) Options() []gesture.RecognizerOption {
	opts := []gesture.RecognizerOption{
		gesture.WithSamplePoints(r.Points),
		gesture.WithMaxDistance(r.MaxDistance),
	}
	if r.Scorer == ScorerDTW {
		opts = append(opts, gesture.WithScorer(gesture.ScoreDTW))
	}
	return opts
}

type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ListenerConfig places one listener on a view.
type ListenerConfig struct {
	Kind   listener.Kind   `yaml:"kind"`
	Name   string          `yaml:"name"`
	Region listener.Region `yaml:"region"`
	Roles  *hand.Roles     `yaml:"roles,omitempty"`
	Pairs  []gesture.Pair  `yaml:"pairs,omitempty"`
	// Data is the polyline a highlight listener selects from.
	Data []geometry.Point `yaml:"data,omitempty"`
}

// ViewConfig is one screen and the listeners laid over it.
type ViewConfig struct {
	Name      string           `yaml:"name"`
	Listeners []ListenerConfig `yaml:"listeners"`
}

type Config struct {
	ConfigVersion int              `yaml:"config_version"`
	Server        ServerConfig     `yaml:"server"`
	Store         StoreConfig      `yaml:"store"`
	Canvas        CanvasConfig     `yaml:"canvas"`
	Gestures      GestureConfig    `yaml:"gestures"`
	Recognizer    RecognizerConfig `yaml:"recognizer"`
	Logging       log.Options      `yaml:"logging"`
	Tray          TrayConfig       `yaml:"tray"`
	// ActiveView is the view dispatched to at startup. Empty selects the
	// first view.
	ActiveView string       `yaml:"active_view"`
	Views      []ViewConfig `yaml:"views"`
}

// Defaults returns the built-in configuration: one full-canvas view with a
// foreshadowing listener.
func Defaults() Config {
	canvas := CanvasConfig{Width: 1280, Height: 720, Mirror: true}
	return Config{
		ConfigVersion: CurrentVersion,
		Server:        ServerConfig{Addr: ":8080", StaticDir: "web"},
		Store:         StoreConfig{Path: "mudra.db"},
		Canvas:        canvas,
		Gestures: GestureConfig{
			WindowMs:     1000,
			Drift:        30,
			Pinch:        gesture.DefaultPinchThreshold,
			SliderHeight: 50,
			MinTrace:     8,
		},
		Recognizer: RecognizerConfig{
			Points:      gesture.DefaultSamplePoints,
			MaxDistance: gesture.DefaultMaxDistance,
			Scorer:      ScorerPath,
			Builtins:    true,
		},
		Logging: log.Options{Level: "info", Format: "console"},
		Tray:    TrayConfig{Enabled: true},
		Views: []ViewConfig{{
			Name: "main",
			Listeners: []ListenerConfig{{
				Kind: listener.KindForeshadowing,
				Name: "foreshadowing",
				Region: listener.Region{Dimensions: geometry.Dimensions{
					Width:  float64(canvas.Width),
					Height: float64(canvas.Height),
				}},
			}},
		}},
	}
}

// Env var names used as overrides.
const (
	EnvAddr         = "MUDRA_ADDR"
	EnvStaticDir    = "MUDRA_STATIC_DIR"
	EnvDBPath       = "MUDRA_DB"
	EnvCanvasWidth  = "MUDRA_CANVAS_WIDTH"
	EnvCanvasHeight = "MUDRA_CANVAS_HEIGHT"
	EnvMirror       = "MUDRA_MIRROR"
	EnvWindowMs     = "MUDRA_WINDOW_MS"
	EnvTray         = "MUDRA_TRAY"
	EnvScorer       = "MUDRA_SCORER"
	EnvLogLevel     = "MUDRA_LOG_LEVEL"
	EnvLogFormat    = "MUDRA_LOG_FORMAT"
	EnvLogFile      = "MUDRA_LOG_FILE"
)

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	cfg.ConfigVersion = CurrentVersion
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate reports every layout problem at once.
func (c Config) Validate() error {
	var errs []error
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas: size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height))
	}
	if len(c.Views) == 0 {
		errs = append(errs, errors.New("views: at least one view is required"))
	}
	switch c.Recognizer.Scorer {
	case "", ScorerPath, ScorerDTW:
	default:
		errs = append(errs, fmt.Errorf("recognizer.scorer: must be %q or %q, got %q", ScorerPath, ScorerDTW, c.Recognizer.Scorer))
	}

	known := make(map[listener.Kind]bool)
	for _, k := range listener.Kinds() {
		known[k] = true
	}
	seen := make(map[string]bool)
	for i, v := range c.Views {
		if v.Name == "" {
			errs = append(errs, fmt.Errorf("views[%d]: name is required", i))
		} else if seen[v.Name] {
			errs = append(errs, fmt.Errorf("views[%d]: duplicate name %q", i, v.Name))
		}
		seen[v.Name] = true

		for j, l := range v.Listeners {
			if !known[l.Kind] {
				errs = append(errs, fmt.Errorf("views[%d].listeners[%d]: unknown kind %q", i, j, l.Kind))
			}
			if l.Region.Dimensions.Width <= 0 || l.Region.Dimensions.Height <= 0 {
				errs = append(errs, fmt.Errorf("views[%d].listeners[%d]: region must have a positive size", i, j))
			}
			if r := l.Roles; r != nil && (r.Dominant == r.NonDominant || !validSide(r.Dominant) || !validSide(r.NonDominant)) {
				errs = append(errs, fmt.Errorf("views[%d].listeners[%d]: roles must name both hands", i, j))
			}
		}
	}
	if c.ActiveView != "" && !seen[c.ActiveView] {
		errs = append(errs, fmt.Errorf("active_view: unknown view %q", c.ActiveView))
	}
	return errors.Join(errs...)
}

func validSide(s hand.Side) bool {
	return s == hand.Left || s == hand.Right
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		cfg.Server.Addr = v
	}
	if v, ok := os.LookupEnv(EnvStaticDir); ok {
		cfg.Server.StaticDir = strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvDBPath)); v != "" {
		cfg.Store.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvScorer)); v != "" {
		cfg.Recognizer.Scorer = strings.ToLower(v)
	}
	if n, ok := envInt(EnvCanvasWidth); ok {
		cfg.Canvas.Width = n
	}
	if n, ok := envInt(EnvCanvasHeight); ok {
		cfg.Canvas.Height = n
	}
	if b, ok := envBool(EnvMirror); ok {
		cfg.Canvas.Mirror = b
	}
	if n, ok := envInt(EnvWindowMs); ok {
		cfg.Gestures.WindowMs = n
	}
	if b, ok := envBool(EnvTray); ok {
		cfg.Tray.Enabled = b
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func envInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(key string) (bool, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false, false
	}
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes", true
}
