package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/Rajgohel2908/Memora/pkg/cli/config"
	"github.com/Rajgohel2908/Memora/pkg/domain/model/graph"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadAppConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name: "valid configuration",
			content: `
timezone = "Asia/Tokyo"

[palette]
neutral = "#AAAAAA"
month_border = "#111111"

[palette.moods]
happy = "#FFD700"
reflective = "#336699"
`,
		},
		{
			name:    "empty file",
			content: ``,
		},
		{
			name: "unknown mood",
			content: `
[palette.moods]
furious = "#FF0000"
`,
			wantErr: config.ErrUnknownMood,
		},
		{
			name: "malformed color",
			content: `
[palette]
neutral = "grey"
`,
			wantErr: config.ErrInvalidColor,
		},
		{
			name:    "unknown timezone",
			content: `timezone = "Mars/Olympus"`,
			wantErr: config.ErrInvalidTimezone,
		},
		{
			name:    "broken TOML",
			content: `timezone = `,
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.LoadAppConfiguration(writeConfig(t, tt.content))
			if tt.wantErr != nil {
				gt.Error(t, err).Required()
				gt.Bool(t, errors.Is(err, tt.wantErr)).True()
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, cfg).NotNil()
		})
	}
}

func TestLoadAppConfiguration_NotFound(t *testing.T) {
	_, err := config.LoadAppConfiguration(filepath.Join(t.TempDir(), "missing.toml"))
	gt.Bool(t, errors.Is(err, config.ErrConfigNotFound)).True()
}

func TestAppConfig_ToPalette(t *testing.T) {
	cfg, err := config.LoadAppConfiguration(writeConfig(t, `
[palette]
neutral = "#AAAAAA"

[palette.moods]
happy = "#FFD700"
`))
	gt.NoError(t, err).Required()

	p := cfg.ToPalette()
	def := graph.DefaultPalette()

	gt.Value(t, p.MoodColor(types.MoodHappy)).Equal(graph.Color("#FFD700"))
	gt.Value(t, p.MoodColor(types.MoodPeaceful)).Equal(def.MoodColor(types.MoodPeaceful))
	gt.Value(t, p.Neutral).Equal(graph.Color("#AAAAAA"))
	gt.Value(t, p.MoodColor(types.MoodNone)).Equal(graph.Color("#AAAAAA"))
	gt.Value(t, p.YearBorder).Equal(def.YearBorder)
}

func TestAppConfig_Location(t *testing.T) {
	t.Run("defaults to UTC", func(t *testing.T) {
		loc, err := (&config.AppConfig{}).Location()
		gt.NoError(t, err).Required()
		gt.Value(t, loc).Equal(time.UTC)
	})

	t.Run("named zone", func(t *testing.T) {
		loc, err := (&config.AppConfig{Timezone: "Europe/Berlin"}).Location()
		gt.NoError(t, err).Required()
		gt.Value(t, loc.String()).Equal("Europe/Berlin")
	})
}

func TestAppConfigFile_Configure(t *testing.T) {
	var f config.AppConfigFile
	cfg, err := f.Configure()
	gt.NoError(t, err).Required()
	gt.Value(t, cfg.Timezone).Equal("")
	gt.Value(t, cfg.ToPalette().Neutral).Equal(graph.DefaultPalette().Neutral)
}
