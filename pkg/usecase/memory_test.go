package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
	"github.com/Rajgohel2908/Memora/pkg/repository/memory"
	"github.com/Rajgohel2908/Memora/pkg/service/storage"
	"github.com/Rajgohel2908/Memora/pkg/usecase"
)

func newMemoryUseCase(t *testing.T) (*usecase.MemoryUseCase, *storage.Local) {
	t.Helper()
	blobs, err := storage.NewLocal(t.TempDir())
	gt.NoError(t, err).Required()
	return usecase.NewMemoryUseCase(memory.New(), blobs, time.UTC), blobs
}

func photo(name string) usecase.FileUpload {
	return usecase.FileUpload{
		Filename:    name,
		ContentType: "image/jpeg",
		Content:     strings.NewReader("jpeg:" + name),
	}
}

func blobExists(t *testing.T, blobs *storage.Local, url string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(blobs.Dir(), strings.TrimPrefix(url, storage.LocalURLPrefix)))
	return err == nil
}

func TestMemoryUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes input and stores photos", func(t *testing.T) {
		uc, blobs := newMemoryUseCase(t)
		date := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

		mem, err := uc.Create(ctx, "user-1", usecase.CreateMemoryInput{
			Title:      "  New Year  ",
			MemoryDate: date,
			Mood:       " Happy ",
			Tags:       []string{"Family", "family", " "},
			Location:   &usecase.LocationInput{Lat: 35.6, Lng: 139.7},
			Photos:     []usecase.FileUpload{photo("a.jpg"), photo("b.png")},
		})
		gt.NoError(t, err).Required()

		gt.Value(t, mem.Title).Equal("New Year")
		gt.Value(t, mem.Mood).Equal(types.MoodHappy)
		gt.Array(t, mem.Tags).Length(1)
		gt.Value(t, mem.Tags[0]).Equal("family")
		gt.Value(t, mem.MemoryDate).Equal(date)
		gt.Array(t, mem.Photos).Length(2)
		gt.Bool(t, strings.HasSuffix(mem.Photos[0], ".jpg")).True()
		gt.Bool(t, strings.HasSuffix(mem.Photos[1], ".png")).True()
		for _, p := range mem.Photos {
			gt.Bool(t, blobExists(t, blobs, p)).True()
		}

		got, err := uc.Get(ctx, "user-1", mem.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Title).Equal("New Year")
	})

	t.Run("defaults memory date to now", func(t *testing.T) {
		uc, _ := newMemoryUseCase(t)
		before := time.Now().Add(-time.Second)

		mem, err := uc.Create(ctx, "user-1", usecase.CreateMemoryInput{Title: "today"})
		gt.NoError(t, err).Required()
		gt.Bool(t, mem.MemoryDate.After(before)).True()
	})

	testCases := []struct {
		name  string
		input usecase.CreateMemoryInput
		want  error
	}{
		{
			name:  "unknown mood",
			input: usecase.CreateMemoryInput{Title: "x", Mood: "angry"},
			want:  usecase.ErrInvalidInput,
		},
		{
			name:  "title too long",
			input: usecase.CreateMemoryInput{Title: strings.Repeat("a", 201)},
			want:  usecase.ErrInvalidInput,
		},
		{
			name:  "latitude out of range",
			input: usecase.CreateMemoryInput{Title: "x", Location: &usecase.LocationInput{Lat: 91}},
			want:  usecase.ErrInvalidInput,
		},
		{
			name: "photo with wrong content type",
			input: usecase.CreateMemoryInput{Title: "x", Photos: []usecase.FileUpload{{
				Filename: "a.txt", ContentType: "text/plain", Content: strings.NewReader("x"),
			}}},
			want: usecase.ErrInvalidInput,
		},
		{
			name: "too many photos",
			input: usecase.CreateMemoryInput{Title: "x", Photos: []usecase.FileUpload{
				photo("1.jpg"), photo("2.jpg"), photo("3.jpg"), photo("4.jpg"), photo("5.jpg"), photo("6.jpg"),
				photo("7.jpg"), photo("8.jpg"), photo("9.jpg"), photo("10.jpg"), photo("11.jpg"),
			}},
			want: usecase.ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			uc, blobs := newMemoryUseCase(t)
			_, err := uc.Create(ctx, "user-1", tc.input)
			gt.Value(t, err).NotNil()
			gt.Bool(t, errors.Is(err, tc.want)).True()

			entries, err := os.ReadDir(blobs.Dir())
			gt.NoError(t, err).Required()
			gt.Array(t, entries).Length(0)
		})
	}

	t.Run("uploads disabled without storage", func(t *testing.T) {
		uc := usecase.NewMemoryUseCase(memory.New(), nil, nil)
		_, err := uc.Create(ctx, "user-1", usecase.CreateMemoryInput{
			Title:  "x",
			Photos: []usecase.FileUpload{photo("a.jpg")},
		})
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
	})
}

func TestMemoryUseCase_Access(t *testing.T) {
	ctx := context.Background()
	uc, _ := newMemoryUseCase(t)

	mem, err := uc.Create(ctx, "owner", usecase.CreateMemoryInput{
		Title:         "shared",
		Collaborators: []string{"friend"},
	})
	gt.NoError(t, err).Required()

	t.Run("collaborator can read", func(t *testing.T) {
		_, err := uc.Get(ctx, "friend", mem.ID)
		gt.NoError(t, err)
	})

	t.Run("stranger cannot read", func(t *testing.T) {
		_, err := uc.Get(ctx, "stranger", mem.ID)
		gt.Bool(t, errors.Is(err, usecase.ErrAccessDenied)).True()
	})

	t.Run("collaborator cannot update", func(t *testing.T) {
		title := "hijacked"
		_, err := uc.Update(ctx, "friend", mem.ID, usecase.UpdateMemoryInput{Title: &title})
		gt.Bool(t, errors.Is(err, usecase.ErrAccessDenied)).True()
	})

	t.Run("collaborator cannot delete", func(t *testing.T) {
		err := uc.Delete(ctx, "friend", mem.ID)
		gt.Bool(t, errors.Is(err, usecase.ErrAccessDenied)).True()
	})

	t.Run("unknown memory", func(t *testing.T) {
		_, err := uc.Get(ctx, "owner", model.NewMemoryID())
		gt.Bool(t, errors.Is(err, usecase.ErrMemoryNotFound)).True()
	})
}

func TestMemoryUseCase_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps selected photos and appends new ones", func(t *testing.T) {
		uc, blobs := newMemoryUseCase(t)
		mem, err := uc.Create(ctx, "user-1", usecase.CreateMemoryInput{
			Title:  "trip",
			Photos: []usecase.FileUpload{photo("a.jpg"), photo("b.jpg")},
		})
		gt.NoError(t, err).Required()
		dropped := mem.Photos[0]
		kept := mem.Photos[1]

		mood := "peaceful"
		updated, err := uc.Update(ctx, "user-1", mem.ID, usecase.UpdateMemoryInput{
			Mood:           &mood,
			ExistingPhotos: []string{kept, "/uploads/not-mine.jpg"},
			Photos:         []usecase.FileUpload{photo("c.jpg")},
		})
		gt.NoError(t, err).Required()

		gt.Value(t, updated.Title).Equal("trip")
		gt.Value(t, updated.Mood).Equal(types.MoodPeaceful)
		gt.Array(t, updated.Photos).Length(2)
		gt.Value(t, updated.Photos[0]).Equal(kept)
		gt.Bool(t, blobExists(t, blobs, updated.Photos[1])).True()
		gt.Bool(t, blobExists(t, blobs, dropped)).False()
	})

	t.Run("rejects more than ten photos in total", func(t *testing.T) {
		uc, _ := newMemoryUseCase(t)
		photos := make([]usecase.FileUpload, 0, 10)
		for i := range 10 {
			photos = append(photos, photo(string(rune('a'+i))+".jpg"))
		}
		mem, err := uc.Create(ctx, "user-1", usecase.CreateMemoryInput{Title: "full", Photos: photos})
		gt.NoError(t, err).Required()

		_, err = uc.Update(ctx, "user-1", mem.ID, usecase.UpdateMemoryInput{
			Photos: []usecase.FileUpload{photo("extra.jpg")},
		})
		gt.Bool(t, errors.Is(err, usecase.ErrTooManyFiles)).True()
	})

	t.Run("replaces and removes audio", func(t *testing.T) {
		uc, blobs := newMemoryUseCase(t)
		mem, err := uc.Create(ctx, "user-1", usecase.CreateMemoryInput{
			Title: "song",
			Audio: &usecase.FileUpload{Filename: "a.mp3", ContentType: "audio/mpeg", Content: strings.NewReader("mp3")},
		})
		gt.NoError(t, err).Required()
		gt.String(t, mem.AudioURL).NotEqual("")

		updated, err := uc.Update(ctx, "user-1", mem.ID, usecase.UpdateMemoryInput{RemoveAudio: true})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.AudioURL).Equal("")
		gt.Bool(t, blobExists(t, blobs, mem.AudioURL)).False()
	})
}

func TestMemoryUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	uc, blobs := newMemoryUseCase(t)

	mem, err := uc.Create(ctx, "user-1", usecase.CreateMemoryInput{
		Title:  "gone",
		Photos: []usecase.FileUpload{photo("a.jpg")},
	})
	gt.NoError(t, err).Required()

	gt.NoError(t, uc.Delete(ctx, "user-1", mem.ID)).Required()
	gt.Bool(t, blobExists(t, blobs, mem.Photos[0])).False()

	_, err = uc.Get(ctx, "user-1", mem.ID)
	gt.Bool(t, errors.Is(err, usecase.ErrMemoryNotFound)).True()

	err = uc.Delete(ctx, "user-1", mem.ID)
	gt.Bool(t, errors.Is(err, usecase.ErrMemoryNotFound)).True()
}

func TestMemoryUseCase_ListAndTimeline(t *testing.T) {
	ctx := context.Background()
	uc, _ := newMemoryUseCase(t)

	dates := []time.Time{
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		_, err := uc.Create(ctx, "user-1", usecase.CreateMemoryInput{
			Title:      string(rune('A' + i)),
			MemoryDate: d,
		})
		gt.NoError(t, err).Required()
	}
	_, err := uc.Create(ctx, "user-2", usecase.CreateMemoryInput{Title: "other"})
	gt.NoError(t, err).Required()

	t.Run("newest first by default", func(t *testing.T) {
		page, err := uc.List(ctx, "user-1", usecase.ListMemoriesInput{Limit: 3})
		gt.NoError(t, err).Required()
		gt.Value(t, page.Total).Equal(4)
		gt.Value(t, page.Pages).Equal(2)
		gt.Value(t, page.Page).Equal(1)
		gt.Array(t, page.Memories).Length(3)
		gt.Value(t, page.Memories[0].Title).Equal("A")
		gt.Value(t, page.Memories[2].Title).Equal("D")
	})

	t.Run("second page ascending", func(t *testing.T) {
		page, err := uc.List(ctx, "user-1", usecase.ListMemoriesInput{Sort: "memoryDate", Page: 2, Limit: 3})
		gt.NoError(t, err).Required()
		gt.Array(t, page.Memories).Length(1)
		gt.Value(t, page.Memories[0].Title).Equal("A")
	})

	t.Run("unsupported sort", func(t *testing.T) {
		_, err := uc.List(ctx, "user-1", usecase.ListMemoriesInput{Sort: "title"})
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
	})

	t.Run("timeline groups by year and month", func(t *testing.T) {
		years, err := uc.Timeline(ctx, "user-1")
		gt.NoError(t, err).Required()
		gt.Array(t, years).Length(2)

		gt.Value(t, years[0].Year).Equal(2023)
		gt.Array(t, years[0].Months).Length(1)

		gt.Value(t, years[1].Year).Equal(2024)
		gt.Array(t, years[1].Months).Length(2)
		gt.Value(t, years[1].Months[0].Month).Equal(time.January)
		gt.Value(t, years[1].Months[1].Month).Equal(time.March)
		gt.Array(t, years[1].Months[1].Memories).Length(2)
		gt.Value(t, years[1].Months[1].Memories[0].Title).Equal("C")
	})
}

func TestMemoryUseCase_OnChange(t *testing.T) {
	ctx := context.Background()
	uc, _ := newMemoryUseCase(t)

	var calls []model.UserID
	uc.OnChange(func(ctx context.Context, userID model.UserID) error {
		calls = append(calls, userID)
		return nil
	})

	mem, err := uc.Create(ctx, "user-1", usecase.CreateMemoryInput{Title: "x"})
	gt.NoError(t, err).Required()
	title := "y"
	_, err = uc.Update(ctx, "user-1", mem.ID, usecase.UpdateMemoryInput{Title: &title})
	gt.NoError(t, err).Required()
	gt.NoError(t, uc.Delete(ctx, "user-1", mem.ID)).Required()

	gt.Array(t, calls).Length(3)

	_, err = uc.Create(ctx, "user-1", usecase.CreateMemoryInput{Title: "x", Mood: "angry"})
	gt.Value(t, err).NotNil()
	gt.Array(t, calls).Length(3)
}
