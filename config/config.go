// Package config loads the settings file shared by the simulations.
//
// Settings are read once at startup and then passed by pointer to the systems
// that need them; nothing mutates them afterwards.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/plus3/ecstoys/input"
	"gopkg.in/yaml.v3"
)

// Settings is the root of the settings file.
type Settings struct {
	Window Window `yaml:"window"`
	Food   Food   `yaml:"food"`
	Swarm  Swarm  `yaml:"swarm"`
	Camera Camera `yaml:"camera"`
	Log    Log    `yaml:"log"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	// TPS is the number of simulation ticks per second.
	TPS int `yaml:"tps"`
}

// Food configures the food toy. Food spawns within [-Width,Width) x [-Height,Height).
type Food struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Cap     int     `yaml:"cap"`
	Timeout Seconds `yaml:"timeout"`
	Radius  float64 `yaml:"radius"`
}

// Swarm configures the nanobot toy.
type Swarm struct {
	Groups       int     `yaml:"groups"`
	BotsPerGroup int     `yaml:"bots_per_group"`
	GroupSpacing float64 `yaml:"group_spacing"`
	SpawnRadius  float64 `yaml:"spawn_radius"`
	InitialSpeed float64 `yaml:"initial_speed"`

	SeparationRadius   float64 `yaml:"separation_radius"`
	SeparationStrength float64 `yaml:"separation_strength"`
	// MaxSpeed caps bot speed after separation; zero disables the cap.
	MaxSpeed float64 `yaml:"max_speed"`

	BotRadius       float64 `yaml:"bot_radius"`
	HighlightRadius float64 `yaml:"highlight_radius"`
}

type Camera struct {
	PanButton input.Button `yaml:"pan_button"`
	// KeySpeed is the keyboard pan speed in world units per second.
	KeySpeed float64 `yaml:"key_speed"`
}

type Log struct {
	Level slog.Level `yaml:"level"`
}

// Seconds is a duration written as a number of seconds in the settings file.
type Seconds float64

func (s Seconds) Duration() time.Duration {
	return time.Duration(math.Round(float64(s) * float64(time.Second)))
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Window: Window{Width: 1280, Height: 720, Title: "ecstoys", TPS: 60},
		Food: Food{
			Width:   1000,
			Height:  1000,
			Cap:     100,
			Timeout: 2,
			Radius:  6,
		},
		Swarm: Swarm{
			Groups:             3,
			BotsPerGroup:       24,
			GroupSpacing:       260,
			SpawnRadius:        60,
			InitialSpeed:       20,
			SeparationRadius:   24,
			SeparationStrength: 120,
			MaxSpeed:           80,
			BotRadius:          5,
			HighlightRadius:    9,
		},
		Camera: Camera{PanButton: input.ButtonRight, KeySpeed: 400},
		Log:    Log{Level: slog.LevelInfo},
	}
}

// Load reads settings from path. Fields missing from the file keep their
// defaults; unknown fields are an error.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates settings from YAML.
func Parse(data []byte) (*Settings, error) {
	settings := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode settings: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &settings, nil
}

// Validate reports every out-of-range field.
func (s *Settings) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(s.Window.Width > 0 && s.Window.Height > 0, "window size must be positive, got %dx%d", s.Window.Width, s.Window.Height)
	check(s.Window.TPS > 0, "window.tps must be positive, got %d", s.Window.TPS)

	check(s.Food.Width > 0, "food.width must be positive, got %g", s.Food.Width)
	check(s.Food.Height > 0, "food.height must be positive, got %g", s.Food.Height)
	check(s.Food.Cap >= 0, "food.cap must not be negative, got %d", s.Food.Cap)
	check(s.Food.Timeout > 0, "food.timeout must be positive, got %g", float64(s.Food.Timeout))
	check(s.Food.Radius > 0, "food.radius must be positive, got %g", s.Food.Radius)

	check(s.Swarm.Groups >= 0, "swarm.groups must not be negative, got %d", s.Swarm.Groups)
	check(s.Swarm.BotsPerGroup >= 0, "swarm.bots_per_group must not be negative, got %d", s.Swarm.BotsPerGroup)
	check(s.Swarm.SpawnRadius >= 0, "swarm.spawn_radius must not be negative, got %g", s.Swarm.SpawnRadius)
	check(s.Swarm.SeparationRadius > 0, "swarm.separation_radius must be positive, got %g", s.Swarm.SeparationRadius)
	check(s.Swarm.SeparationStrength >= 0, "swarm.separation_strength must not be negative, got %g", s.Swarm.SeparationStrength)
	check(s.Swarm.MaxSpeed >= 0, "swarm.max_speed must not be negative, got %g", s.Swarm.MaxSpeed)
	check(s.Swarm.BotRadius > 0, "swarm.bot_radius must be positive, got %g", s.Swarm.BotRadius)
	check(s.Swarm.HighlightRadius > 0, "swarm.highlight_radius must be positive, got %g", s.Swarm.HighlightRadius)

	check(s.Camera.KeySpeed >= 0, "camera.key_speed must not be negative, got %g", s.Camera.KeySpeed)

	return errors.Join(errs...)
}
