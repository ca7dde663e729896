// Package config handles loading and saving tooey configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/tooey/config.yaml
//   - Data:    ~/.local/share/tooey/
//   - State:   ~/.local/state/tooey/ (session history)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/davidRoussov/json-to-terminal/pkg/navigator"
)

// appName names the XDG subdirectories.
const appName = "tooey"

// StartDepth is the navigation start depth: a fixed level, or Auto to let
// the coherent depth estimator pick one. It reads and writes as either an
// integer or the string "auto".
type StartDepth int

// Auto selects the estimated start depth.
const Auto StartDepth = StartDepth(navigator.AutoDepth)

// ParseStartDepth accepts "auto" (any case) or a non-negative integer.
func ParseStartDepth(s string) (StartDepth, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "auto") {
		return Auto, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("start_depth: want \"auto\" or a non-negative integer, got %q", s)
	}
	return StartDepth(n), nil
}

// UnmarshalYAML accepts "auto" or a non-negative integer.
func (d *StartDepth) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseStartDepth(value.Value)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Set implements flag.Value.
func (d *StartDepth) Set(s string) error {
	v, err := ParseStartDepth(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalYAML writes Auto as "auto".
func (d StartDepth) MarshalYAML() (any, error) {
	if d == Auto {
		return "auto", nil
	}
	return int(d), nil
}

func (d StartDepth) String() string {
	if d == Auto {
		return "auto"
	}
	return strconv.Itoa(int(d))
}

// RenderConfig controls the line renderer.
type RenderConfig struct {
	WrapWidth      int  `yaml:"wrap_width,omitempty"`      // Columns before wrapping (default 160)
	MaxLines       int  `yaml:"max_lines,omitempty"`       // Lines per node before truncation (default 20)
	Indent         int  `yaml:"indent"`                    // Columns per nesting level (default 2)
	SeparateGroups bool `yaml:"separate_groups,omitempty"` // Blank line before nested groups
}

// NavigationConfig controls where a session starts.
type NavigationConfig struct {
	StartDepth  StartDepth `yaml:"start_depth"`
	PrimaryOnly bool       `yaml:"primary_only,omitempty"`
	KeepEmpty   bool       `yaml:"keep_empty,omitempty"` // Show nodes that would render nothing
}

// PaletteConfig holds the colours as hex strings (#rrggbb).
type PaletteConfig struct {
	Background string `yaml:"background,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Emphasis   string `yaml:"emphasis,omitempty"`  // Main primary content
	Attention  string `yaml:"attention,omitempty"` // Selection highlight
	Accent     string `yaml:"accent,omitempty"`    // URLs, header
	Muted      string `yaml:"muted,omitempty"`     // Header info, status line, truncation marker
}

// HistoryConfig controls the session history database.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"` // Default: StateDir()/history.db
}

// Config is the top-level configuration for tooey.
type Config struct {
	Render     RenderConfig        `yaml:"render"`
	Navigation NavigationConfig    `yaml:"navigation"`
	Palette    PaletteConfig       `yaml:"palette,omitempty"`
	History    HistoryConfig       `yaml:"history"`
	Watch      bool                `yaml:"watch,omitempty"`
	Keys       map[string][]string `yaml:"keys,omitempty"` // Event name -> key bindings
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Render: RenderConfig{
			WrapWidth: 160,
			MaxLines:  20,
			Indent:    2,
		},
		Navigation: NavigationConfig{
			StartDepth: Auto,
		},
		Palette: PaletteConfig{
			Background: "#1b1d1e",
			Foreground: "#f8f8f2",
			Emphasis:   "#e6db74",
			Attention:  "#f92672",
			Accent:     "#66d9ef",
			Muted:      "#75715e",
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// xdgDir returns $env/tooey, or ~/fallback/tooey when env is unset.
func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append(append([]string{home}, fallback...), appName)...)
}

func ConfigDir() string { return xdgDir("XDG_CONFIG_HOME", ".config") }

// StateDir holds the session history.
func StateDir() string { return xdgDir("XDG_STATE_HOME", ".local", "state") }

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// HistoryPath returns the configured history database path, falling back
// to history.db in the state directory.
func (c Config) HistoryPath() string {
	if c.History.Path != "" {
		return expandHome(c.History.Path)
	}
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "history.db")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist. Keys missing from the
// file keep their defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveTo writes cfg as YAML, creating the directory if needed.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate reports every problem in c joined into one error.
func (c Config) Validate() error {
	var errs []error
	if c.Render.WrapWidth < 0 {
		errs = append(errs, fmt.Errorf("render.wrap_width must not be negative, got %d", c.Render.WrapWidth))
	}
	if c.Render.MaxLines < 0 {
		errs = append(errs, fmt.Errorf("render.max_lines must not be negative, got %d", c.Render.MaxLines))
	}
	if c.Render.Indent < 0 {
		errs = append(errs, fmt.Errorf("render.indent must not be negative, got %d", c.Render.Indent))
	}
	if c.Navigation.StartDepth < Auto {
		errs = append(errs, fmt.Errorf("navigation.start_depth must be auto or >= 0, got %d", c.Navigation.StartDepth))
	}

	colors := []struct{ name, value string }{
		{"background", c.Palette.Background},
		{"foreground", c.Palette.Foreground},
		{"emphasis", c.Palette.Emphasis},
		{"attention", c.Palette.Attention},
		{"accent", c.Palette.Accent},
		{"muted", c.Palette.Muted},
	}
	for _, col := range colors {
		if col.value != "" && !hexColor.MatchString(col.value) {
			errs = append(errs, fmt.Errorf("palette.%s: %q is not a #rgb or #rrggbb colour", col.name, col.value))
		}
	}

	for name, keys := range c.Keys {
		if _, ok := navigator.ParseEvent(name); !ok && !uiActions[name] {
			errs = append(errs, fmt.Errorf("keys: unknown action %q", name))
			continue
		}
		if len(keys) == 0 {
			errs = append(errs, fmt.Errorf("keys.%s: no keys bound", name))
		}
	}

	return errors.Join(errs...)
}

// uiActions are key actions handled by the terminal UI rather than the
// navigator.
var uiActions = map[string]bool{"copy": true, "help": true}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
