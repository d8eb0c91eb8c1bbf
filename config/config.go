// Package config holds the options read once at startup: the layout mode,
// layout tuning, optional features and graph generation parameters.
//
// A missing or zero option takes its default. An explicit out of range value
// is a validation error.
package config

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/TFMV/simplegraph/physics"
	"github.com/TFMV/simplegraph/scene"
)

// Defaults
const (
	DefaultLayout     = "2d"
	DefaultWidth      = 2000
	DefaultHeight     = 2000
	DefaultIterations = 100
	DefaultLimit      = 39
	DefaultNumNodes   = 390
	DefaultNumEdges   = 4
)

// validate is a singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// GraphLayout tunes the layout stepper.
type GraphLayout struct {
	Width      float64 `toml:"width" json:"width" validate:"gt=0"`
	Height     float64 `toml:"height" json:"height" validate:"gt=0"`
	Iterations int     `toml:"iterations" json:"iterations" validate:"min=1"`
	Layout     string  `toml:"layout" json:"layout" validate:"oneof=2d 3d"`
	Noise      float64 `toml:"noise" json:"noise" validate:"gte=0,lte=1"`
}

// Config is the full option set.
type Config struct {
	Layout      string      `toml:"layout" json:"layout" validate:"oneof=2d 3d"`
	GraphLayout GraphLayout `toml:"graphLayout" json:"graphLayout"`
	ShowStats   bool        `toml:"showStats" json:"showStats"`
	ShowInfo    bool        `toml:"showInfo" json:"showInfo"`
	ShowLabels  bool        `toml:"showLabels" json:"showLabels"`
	Selection   bool        `toml:"selection" json:"selection"`
	Limit       int         `toml:"limit" json:"limit" validate:"min=1"`
	NumNodes    int         `toml:"numNodes" json:"numNodes" validate:"min=1"`
	NumEdges    int         `toml:"numEdges" json:"numEdges" validate:"min=1"`
	// Seed makes generation and scattering reproducible; 0 seeds from the clock.
	Seed int64 `toml:"seed" json:"seed"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	c := Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults replaces every unset or zero option with its default.
// graphLayout.layout falls back to the top-level layout.
func (c *Config) ApplyDefaults() {
	if c.Layout == "" {
		c.Layout = DefaultLayout
	}
	if c.GraphLayout.Width == 0 {
		c.GraphLayout.Width = DefaultWidth
	}
	if c.GraphLayout.Height == 0 {
		c.GraphLayout.Height = DefaultHeight
	}
	if c.GraphLayout.Iterations == 0 {
		c.GraphLayout.Iterations = DefaultIterations
	}
	if c.GraphLayout.Layout == "" {
		c.GraphLayout.Layout = c.Layout
	}
	if c.Limit == 0 {
		c.Limit = DefaultLimit
	}
	if c.NumNodes == 0 {
		c.NumNodes = DefaultNumNodes
	}
	if c.NumEdges == 0 {
		c.NumEdges = DefaultNumEdges
	}
}

// Validate checks the option ranges. Call it after ApplyDefaults.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config cannot be nil")
	}
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// Load reads a TOML file, fills in defaults and validates the result.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	var c Config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return finish(c, md)
}

// Parse is Load for an in-memory TOML document.
func Parse(data string) (Config, error) {
	var c Config
	md, err := toml.Decode(data, &c)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return finish(c, md)
}

func finish(c Config, md toml.MetaData) (Config, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Physics returns the layout stepper configuration.
func (c *Config) Physics() physics.Config {
	return physics.Config{
		Width:      c.GraphLayout.Width,
		Height:     c.GraphLayout.Height,
		Iterations: c.GraphLayout.Iterations,
		Kind:       c.GraphLayout.Layout,
		Noise:      c.GraphLayout.Noise,
		Seed:       c.Seed,
	}
}

// Palette returns the colors frames are drawn with. A noisy layout gets the
// dark surreal scheme.
func (c *Config) Palette() *scene.Palette {
	if c.GraphLayout.Noise > 0 {
		return scene.SurrealPalette()
	}
	return scene.DefaultPalette()
}

// Scene returns the scene options. r is used to scatter new nodes.
func (c *Config) Scene(r scene.Rand) scene.Options {
	return scene.Options{
		Mode:       c.Layout,
		ShowLabels: c.ShowLabels,
		Limit:      c.Limit,
		Rand:       r,
	}
}

// Rand returns a random source seeded from Seed, or from the clock when Seed
// is zero.
func (c *Config) Rand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s], got %v", field, param, e.Value())
		default:
			return fmt.Errorf("%s: failed validation %s", field, e.Tag())
		}
	}
	return err
}
