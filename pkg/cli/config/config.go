package config

import (
	"errors"
	"io/fs"
	"os"
	"regexp"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/Rajgohel2908/Memora/pkg/domain/model/graph"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
)

// AppConfig represents the optional TOML configuration file
type AppConfig struct {
	Timezone string  `toml:"timezone"`
	Palette  Palette `toml:"palette"`
}

// Palette overrides colors of the built-in palette. Empty values keep the
// default.
type Palette struct {
	Moods       map[string]string `toml:"moods"`
	Neutral     string            `toml:"neutral"`
	MonthBorder string            `toml:"month_border"`
	YearBorder  string            `toml:"year_border"`
}

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func validateColor(c string) error {
	if c == "" || colorPattern.MatchString(c) {
		return nil
	}
	return goerr.Wrap(ErrInvalidColor, "invalid palette color", goerr.V(ColorKey, c))
}

// Validate checks if the Palette is valid
func (p *Palette) Validate() error {
	for mood, color := range p.Moods {
		if !types.Mood(mood).IsValid() {
			return goerr.Wrap(ErrUnknownMood, "invalid palette entry", goerr.V(MoodKey, mood))
		}
		if err := validateColor(color); err != nil {
			return goerr.Wrap(err, "invalid mood color", goerr.V(MoodKey, mood))
		}
	}
	for _, c := range []string{p.Neutral, p.MonthBorder, p.YearBorder} {
		if err := validateColor(c); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if _, err := a.Location(); err != nil {
		return err
	}
	if err := a.Palette.Validate(); err != nil {
		return goerr.Wrap(err, "invalid palette")
	}
	return nil
}

// Location returns the time zone used for calendar grouping. An empty
// timezone means UTC.
func (a *AppConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidTimezone, err.Error(), goerr.V(TimezoneKey, a.Timezone))
	}
	return loc, nil
}

// ToPalette returns the built-in palette with the configured overrides applied
func (a *AppConfig) ToPalette() graph.Palette {
	override := graph.Palette{
		Moods:       make(map[types.Mood]graph.Color, len(a.Palette.Moods)),
		Neutral:     graph.Color(a.Palette.Neutral),
		MonthBorder: graph.Color(a.Palette.MonthBorder),
		YearBorder:  graph.Color(a.Palette.YearBorder),
	}
	for mood, color := range a.Palette.Moods {
		override.Moods[types.Mood(mood)] = graph.Color(color)
	}
	return graph.DefaultPalette().Merge(override)
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, err.Error(), goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config",
			goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// AppConfigFile holds the --config flag
type AppConfigFile struct {
	path string
}

func (x *AppConfigFile) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the TOML configuration file (palette and timezone)",
			Destination: &x.path,
			Sources:     cli.EnvVars("MEMORA_CONFIG"),
		},
	}
}

// Path returns the configured file path
func (x *AppConfigFile) Path() string {
	return x.path
}

// Configure loads the file, or returns the defaults when no path is set
func (x *AppConfigFile) Configure() (*AppConfig, error) {
	if x.path == "" {
		return &AppConfig{}, nil
	}
	return LoadAppConfiguration(x.path)
}
