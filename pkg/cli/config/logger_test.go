package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/Rajgohel2908/Memora/pkg/cli/config"
	"github.com/Rajgohel2908/Memora/pkg/utils/logging"
)

type credentials struct {
	User  string
	Token string
}

func TestLogger_Configure(t *testing.T) {
	prev := logging.Default()
	t.Cleanup(func() { logging.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "memora.log")
	closer, err := config.NewLoggerForTest("info", "json", path).Configure()
	gt.NoError(t, err).Required()

	logging.Default().Debug("hidden")
	logging.Default().Info("visible", "creds", credentials{User: "alice", Token: "s3cr3t-value"})
	closer()

	data, err := os.ReadFile(path)
	gt.NoError(t, err).Required()
	out := string(data)
	gt.String(t, out).Contains("visible")
	gt.String(t, out).Contains("alice")
	gt.String(t, out).NotContains("hidden")
	gt.String(t, out).NotContains("s3cr3t-value")
}

func TestLogger_ConfigureErrors(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{name: "unknown level", level: "verbose", format: "json"},
		{name: "unknown format", level: "info", format: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := logging.Default()
			t.Cleanup(func() { logging.SetDefault(prev) })

			_, err := config.NewLoggerForTest(tt.level, tt.format, "stderr").Configure()
			gt.Bool(t, errors.Is(err, config.ErrInvalidConfig)).True()
			gt.Value(t, logging.Default()).Equal(prev)
		})
	}
}
