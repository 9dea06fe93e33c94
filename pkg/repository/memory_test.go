package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
	"github.com/Rajgohel2908/Memora/pkg/repository/firestore"
	"github.com/Rajgohel2908/Memora/pkg/repository/memory"
	"github.com/Rajgohel2908/Memora/pkg/repository/sqlite"
)

func isNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) ||
		errors.Is(err, firestore.ErrNotFound) ||
		errors.Is(err, sqlite.ErrNotFound)
}

// newUserID returns a user ID unique to the test run so that shared
// backends do not see each other's data.
func newUserID() model.UserID {
	return model.UserID(fmt.Sprintf("user-%d", time.Now().UnixNano()))
}

func runMemoryRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		userID := newUserID()
		created, err := repo.Memory().Create(ctx, &model.Memory{
			UserID:     userID,
			Title:      "First snow",
			Content:    "The whole street turned white overnight",
			MemoryDate: time.Date(2024, 1, 7, 9, 0, 0, 0, time.UTC),
			Mood:       types.MoodPeaceful,
			Tags:       []string{"winter", "home"},
			Photos:     []string{"/uploads/snow.jpg"},
			AudioURL:   "/uploads/wind.mp3",
			Location:   &model.Location{Lat: 43.06, Lng: 141.35},
		})
		gt.NoError(t, err).Required()

		gt.String(t, string(created.ID)).NotEqual("")
		gt.Bool(t, created.CreatedAt.IsZero()).False()
		gt.Bool(t, created.UpdatedAt.IsZero()).False()

		got, err := repo.Memory().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(created.ID)
		gt.Value(t, got.UserID).Equal(userID)
		gt.Value(t, got.Title).Equal("First snow")
		gt.Value(t, got.Content).Equal("The whole street turned white overnight")
		gt.Bool(t, got.MemoryDate.Equal(time.Date(2024, 1, 7, 9, 0, 0, 0, time.UTC))).True()
		gt.Value(t, got.Mood).Equal(types.MoodPeaceful)
		gt.Value(t, got.Tags).Equal([]string{"winter", "home"})
		gt.Value(t, got.Photos).Equal([]string{"/uploads/snow.jpg"})
		gt.Value(t, got.AudioURL).Equal("/uploads/wind.mp3")
		gt.Value(t, got.Location).NotNil()
		gt.Value(t, got.Location.Lat).Equal(43.06)
		gt.Value(t, got.Location.Lng).Equal(141.35)
	})

	t.Run("Create keeps a preset ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		id := model.NewMemoryID()
		created, err := repo.Memory().Create(ctx, &model.Memory{
			ID:         id,
			UserID:     newUserID(),
			MemoryDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).Equal(id)
	})

	t.Run("Get returns not found for unknown ID", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Memory().Get(context.Background(), model.NewMemoryID())
		gt.Value(t, err).NotNil()
		gt.Bool(t, isNotFound(err)).True()
	})

	t.Run("Update replaces fields and keeps CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Memory().Create(ctx, &model.Memory{
			UserID:     newUserID(),
			Title:      "Draft",
			MemoryDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Tags:       []string{"draft"},
		})
		gt.NoError(t, err).Required()

		changed := created.Clone()
		changed.Title = "Final"
		changed.Mood = types.MoodGrateful
		changed.Tags = []string{"final"}
		changed.Location = nil

		updated, err := repo.Memory().Update(ctx, changed)
		gt.NoError(t, err).Required()
		gt.Bool(t, updated.CreatedAt.Sub(created.CreatedAt).Abs() < time.Millisecond).True()
		gt.Bool(t, updated.UpdatedAt.After(created.UpdatedAt.Add(-time.Millisecond))).True()

		got, err := repo.Memory().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal("Final")
		gt.Value(t, got.Mood).Equal(types.MoodGrateful)
		gt.Value(t, got.Tags).Equal([]string{"final"})
	})

	t.Run("Update returns not found for unknown ID", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Memory().Update(context.Background(), &model.Memory{
			ID:         model.NewMemoryID(),
			UserID:     newUserID(),
			MemoryDate: time.Now(),
		})
		gt.Value(t, err).NotNil()
		gt.Bool(t, isNotFound(err)).True()
	})

	t.Run("Delete removes memory", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Memory().Create(ctx, &model.Memory{
			UserID:     newUserID(),
			MemoryDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Memory().Delete(ctx, created.ID)).Required()

		_, err = repo.Memory().Get(ctx, created.ID)
		gt.Bool(t, isNotFound(err)).True()

		err = repo.Memory().Delete(ctx, created.ID)
		gt.Bool(t, isNotFound(err)).True()
	})

	t.Run("ListByUser sorts by memory date and isolates users", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		userID := newUserID()
		other := newUserID() + "-other"
		dates := []time.Time{
			time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		}
		for i, d := range dates {
			_, err := repo.Memory().Create(ctx, &model.Memory{
				UserID:     userID,
				Title:      fmt.Sprintf("m%d", i),
				MemoryDate: d,
			})
			gt.NoError(t, err).Required()
		}
		_, err := repo.Memory().Create(ctx, &model.Memory{
			UserID:     other,
			MemoryDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		gt.NoError(t, err).Required()

		list, err := repo.Memory().ListByUser(ctx, userID)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(3)
		gt.Value(t, list[0].Title).Equal("m1")
		gt.Value(t, list[1].Title).Equal("m2")
		gt.Value(t, list[2].Title).Equal("m0")

		desc, err := repo.Memory().ListByUser(ctx, userID, interfaces.WithDescending())
		gt.NoError(t, err).Required()
		gt.Array(t, desc).Length(3)
		gt.Value(t, desc[0].Title).Equal("m0")
		gt.Value(t, desc[2].Title).Equal("m1")

		page, err := repo.Memory().ListByUser(ctx, userID, interfaces.WithLimit(2), interfaces.WithOffset(1))
		gt.NoError(t, err).Required()
		gt.Array(t, page).Length(2)
		gt.Value(t, page[0].Title).Equal("m2")
		gt.Value(t, page[1].Title).Equal("m0")

		beyond, err := repo.Memory().ListByUser(ctx, userID, interfaces.WithOffset(10))
		gt.NoError(t, err).Required()
		gt.Array(t, beyond).Length(0)

		count, err := repo.Memory().CountByUser(ctx, userID)
		gt.NoError(t, err).Required()
		gt.Value(t, count).Equal(3)
	})

	t.Run("ListByUser returns empty slice for unknown user", func(t *testing.T) {
		repo := newRepo(t)
		list, err := repo.Memory().ListByUser(context.Background(), newUserID())
		gt.NoError(t, err).Required()
		gt.True(t, list != nil)
		gt.Array(t, list).Length(0)
	})

	t.Run("returned memories are copies", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Memory().Create(ctx, &model.Memory{
			UserID:     newUserID(),
			MemoryDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Tags:       []string{"original"},
		})
		gt.NoError(t, err).Required()
		created.Tags[0] = "mutated"

		got, err := repo.Memory().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Tags).Equal([]string{"original"})
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix("test"))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func newSQLiteRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	repo, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "memora.db"))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func TestMemoryMemoryRepository(t *testing.T) {
	runMemoryRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestSQLiteMemoryRepository(t *testing.T) {
	runMemoryRepositoryTest(t, newSQLiteRepository)
}

func TestFirestoreMemoryRepository(t *testing.T) {
	runMemoryRepositoryTest(t, newFirestoreRepository)
}
