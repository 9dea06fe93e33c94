package cli_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/Rajgohel2908/Memora/pkg/cli"
	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
	"github.com/Rajgohel2908/Memora/pkg/repository/sqlite"
)

func seedDatabase(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "memora.db")

	repo, err := sqlite.New(ctx, path)
	gt.NoError(t, err).Required()
	defer func() { gt.NoError(t, repo.Close()) }()

	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	}
	seeds := []*model.Memory{
		{UserID: "U001", Title: "Beach", MemoryDate: day(2023, time.July, 1), Mood: types.MoodHappy, Tags: []string{"travel"}},
		{UserID: "U001", Title: "Lunch", MemoryDate: day(2023, time.July, 1), Mood: types.MoodPeaceful},
		{UserID: "U001", Title: "Mountain", MemoryDate: day(2023, time.August, 9), Mood: types.MoodAdventurous, Tags: []string{"travel"}},
		{UserID: "U001", Title: "New year", MemoryDate: day(2024, time.January, 1), Mood: types.MoodReflective},
		{UserID: "U002", Title: "Other user", MemoryDate: day(2024, time.March, 3)},
	}
	for _, m := range seeds {
		_, err := repo.Memory().Create(ctx, m)
		gt.NoError(t, err).Required()
	}
	return path
}

type sceneFile struct {
	Nodes []struct {
		ID string `json:"id"`
	} `json:"nodes"`
	Edges []json.RawMessage `json:"edges"`
}

func TestRun_GraphCommand_JSON(t *testing.T) {
	dbPath := seedDatabase(t)

	tests := []struct {
		resolution string
		wantNodes  int
		wantEdges  int
	}{
		// 3 chronological edges plus 1 same-day edge
		{resolution: "day", wantNodes: 4, wantEdges: 4},
		{resolution: "month", wantNodes: 3, wantEdges: 2},
		{resolution: "year", wantNodes: 2, wantEdges: 1},
	}

	for _, tt := range tests {
		t.Run(tt.resolution, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "scene.json")
			err := cli.Run(context.Background(), []string{
				"memora", "--log-output", "stderr", "graph",
				"--user", "U001",
				"--resolution", tt.resolution,
				"--filter", "tag:travel",
				"--json",
				"--output", out,
				"--repository-backend", "sqlite",
				"--sqlite-path", dbPath,
			}, "test")
			gt.NoError(t, err).Required()

			data, err := os.ReadFile(out)
			gt.NoError(t, err).Required()

			var scene sceneFile
			gt.NoError(t, json.Unmarshal(data, &scene)).Required()
			gt.Array(t, scene.Nodes).Length(tt.wantNodes)
			gt.Array(t, scene.Edges).Length(tt.wantEdges)
		})
	}
}

func TestRun_GraphCommand_Summary(t *testing.T) {
	dbPath := seedDatabase(t)
	out := filepath.Join(t.TempDir(), "summary.txt")

	err := cli.Run(context.Background(), []string{
		"memora", "--log-output", "stderr", "graph",
		"--user", "U001",
		"--resolution", "month",
		"--output", out,
		"--repository-backend", "sqlite",
		"--sqlite-path", dbPath,
	}, "test")
	gt.NoError(t, err).Required()

	data, err := os.ReadFile(out)
	gt.NoError(t, err).Required()
	gt.String(t, string(data)).Contains("3 nodes, 2 chronological edges, 0 same-day edges")
}

func TestRun_GraphCommand_InvalidResolution(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"memora", "--log-output", "stderr", "graph",
		"--user", "U001",
		"--resolution", "week",
		"--repository-backend", "memory",
	}, "test")
	gt.Value(t, err).NotNil()
}
