package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/Rajgohel2908/Memora/pkg/cli"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestRun_ValidateCommand_ValidConfig(t *testing.T) {
	configPath := writeFile(t, "config.toml", `
timezone = "Asia/Kolkata"

[palette]
neutral = "#B0B0B0"

[palette.moods]
happy = "#FFCC00"
`)

	err := cli.Run(context.Background(), []string{"memora", "--log-output", "stderr", "validate", "--config", configPath}, "test")
	gt.NoError(t, err)
}

func TestRun_ValidateCommand_InvalidConfig(t *testing.T) {
	configPath := writeFile(t, "config.toml", `
[palette.moods]
furious = "#FF0000"
`)

	err := cli.Run(context.Background(), []string{"memora", "--log-output", "stderr", "validate", "--config", configPath}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_ValidateCommand_MissingConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nonexistent.toml")

	err := cli.Run(context.Background(), []string{"memora", "--log-output", "stderr", "validate", "--config", configPath}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_ValidateCommand_CheckUserWithMemory(t *testing.T) {
	// Empty in-memory repository has nothing malformed
	err := cli.Run(context.Background(), []string{
		"memora", "--log-output", "stderr", "validate",
		"--check-user", "U001",
		"--strict",
		"--repository-backend", "memory",
	}, "test")
	gt.NoError(t, err)
}

func TestRun_InvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{"memora", "--log-level", "loud", "validate"}, "test")
	gt.Value(t, err).NotNil()
}
