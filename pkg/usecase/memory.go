package usecase

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
	"github.com/Rajgohel2908/Memora/pkg/utils/errutil"
	"github.com/Rajgohel2908/Memora/pkg/utils/logging"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// FileUpload is an uploaded photo or audio file
type FileUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// LocationInput is the client form of model.Location
type LocationInput struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// CreateMemoryInput is the input of MemoryUseCase.Create. A zero MemoryDate
// means "now".
type CreateMemoryInput struct {
	Title         string         `json:"title" validate:"max=200"`
	Content       string         `json:"content" validate:"max=5000"`
	MemoryDate    time.Time      `json:"memoryDate"`
	Mood          string         `json:"mood" validate:"mood"`
	Tags          []string       `json:"tags" validate:"max=50,dive,max=50"`
	Location      *LocationInput `json:"location" validate:"omitempty"`
	Collaborators []string       `json:"collaborators" validate:"max=50,dive,required"`

	Photos []FileUpload `json:"-" validate:"max=10"`
	Audio  *FileUpload  `json:"-"`
}

// UpdateMemoryInput is a partial update. Nil fields keep their current
// value. ExistingPhotos selects which current photos to keep; new Photos
// are appended after them.
type UpdateMemoryInput struct {
	Title          *string        `json:"title" validate:"omitempty,max=200"`
	Content        *string        `json:"content" validate:"omitempty,max=5000"`
	MemoryDate     *time.Time     `json:"memoryDate"`
	Mood           *string        `json:"mood" validate:"omitempty,mood"`
	Tags           []string       `json:"tags" validate:"omitempty,max=50,dive,max=50"`
	Location       *LocationInput `json:"location" validate:"omitempty"`
	Collaborators  []string       `json:"collaborators" validate:"omitempty,max=50,dive,required"`
	ExistingPhotos []string       `json:"existingPhotos" validate:"omitempty,max=10"`
	RemoveAudio    bool           `json:"removeAudio"`

	Photos []FileUpload `json:"-" validate:"max=10"`
	Audio  *FileUpload  `json:"-"`
}

// ListMemoriesInput selects one page of a user's memories. Sort is
// "memoryDate" (oldest first) or "-memoryDate" (newest first, default).
type ListMemoriesInput struct {
	Sort  string
	Page  int
	Limit int
}

// MemoryPage is one page of memories
type MemoryPage struct {
	Memories []*model.Memory `json:"memories"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	Pages    int             `json:"pages"`
}

// TimelineMonth groups the memories of one calendar month
type TimelineMonth struct {
	Month    time.Month      `json:"month"`
	Memories []*model.Memory `json:"memories"`
}

// TimelineYear groups the months of one calendar year
type TimelineYear struct {
	Year   int             `json:"year"`
	Months []TimelineMonth `json:"months"`
}

// ChangeListener is notified after a user's memories changed
type ChangeListener func(ctx context.Context, userID model.UserID) error

type MemoryUseCase struct {
	repo      interfaces.Repository
	storage   interfaces.BlobStorage
	location  *time.Location
	listeners []ChangeListener
	now       func() time.Time
}

func NewMemoryUseCase(repo interfaces.Repository, storage interfaces.BlobStorage, loc *time.Location) *MemoryUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &MemoryUseCase{
		repo:     repo,
		storage:  storage,
		location: loc,
		now:      time.Now,
	}
}

// OnChange registers a listener called after every create, update and
// delete. Listeners run in the caller's goroutine; callers wanting
// asynchronous delivery wrap them.
func (uc *MemoryUseCase) OnChange(listener ChangeListener) {
	uc.listeners = append(uc.listeners, listener)
}

func (uc *MemoryUseCase) notify(ctx context.Context, userID model.UserID) {
	for _, l := range uc.listeners {
		if err := l(ctx, userID); err != nil {
			errutil.Handle(ctx, err, "memory change listener failed")
		}
	}
}

func (uc *MemoryUseCase) Create(ctx context.Context, userID model.UserID, input CreateMemoryInput) (*model.Memory, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Mood = normalizeMood(input.Mood)
	if err := model.ValidateStruct(input); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, err.Error(), goerr.V(UserIDKey, userID))
	}

	mem := &model.Memory{
		ID:         model.NewMemoryID(),
		UserID:     userID,
		Title:      input.Title,
		Content:    input.Content,
		MemoryDate: input.MemoryDate,
		Mood:       types.Mood(input.Mood),
		Tags:       model.NormalizeTags(input.Tags),
	}
	if mem.MemoryDate.IsZero() {
		mem.MemoryDate = uc.now().UTC()
	}
	if input.Location != nil {
		mem.Location = &model.Location{Lat: input.Location.Lat, Lng: input.Location.Lng}
	}
	mem.Collaborators = toUserIDs(input.Collaborators)

	uploaded, err := uc.upload(ctx, input.Photos, input.Audio)
	if err != nil {
		return nil, err
	}
	mem.Photos = uploaded.photos
	mem.AudioURL = uploaded.audio

	if err := mem.Validate(); err != nil {
		uc.discard(ctx, uploaded.all())
		return nil, goerr.Wrap(ErrInvalidInput, err.Error(), goerr.V(UserIDKey, userID))
	}

	created, err := uc.repo.Memory().Create(ctx, mem)
	if err != nil {
		uc.discard(ctx, uploaded.all())
		return nil, goerr.Wrap(err, "failed to create memory", goerr.V(UserIDKey, userID))
	}

	logging.From(ctx).Info("memory created",
		"memory_id", created.ID,
		"user_id", userID,
		"photos", len(created.Photos),
	)
	uc.notify(ctx, userID)
	return created, nil
}

// Get returns a memory readable by userID: the owner or a collaborator
func (uc *MemoryUseCase) Get(ctx context.Context, userID model.UserID, id model.MemoryID) (*model.Memory, error) {
	mem, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !mem.IsOwnedBy(userID) && !slices.Contains(mem.Collaborators, userID) {
		return nil, goerr.Wrap(ErrAccessDenied, "memory is not shared with user",
			goerr.V(MemoryIDKey, id),
			goerr.V(UserIDKey, userID))
	}
	return mem, nil
}

func (uc *MemoryUseCase) get(ctx context.Context, id model.MemoryID) (*model.Memory, error) {
	mem, err := uc.repo.Memory().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrMemoryNotFound, "memory not found", goerr.V(MemoryIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get memory", goerr.V(MemoryIDKey, id))
	}
	return mem, nil
}

func (uc *MemoryUseCase) getOwned(ctx context.Context, userID model.UserID, id model.MemoryID) (*model.Memory, error) {
	mem, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !mem.IsOwnedBy(userID) {
		return nil, goerr.Wrap(ErrAccessDenied, "only the owner can modify a memory",
			goerr.V(MemoryIDKey, id),
			goerr.V(UserIDKey, userID))
	}
	return mem, nil
}

func (uc *MemoryUseCase) Update(ctx context.Context, userID model.UserID, id model.MemoryID, input UpdateMemoryInput) (*model.Memory, error) {
	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		input.Title = &trimmed
	}
	if input.Mood != nil {
		mood := normalizeMood(*input.Mood)
		input.Mood = &mood
	}
	if err := model.ValidateStruct(input); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, err.Error(), goerr.V(MemoryIDKey, id))
	}

	current, err := uc.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	mem := current.Clone()
	if input.Title != nil {
		mem.Title = *input.Title
	}
	if input.Content != nil {
		mem.Content = *input.Content
	}
	if input.MemoryDate != nil && !input.MemoryDate.IsZero() {
		mem.MemoryDate = *input.MemoryDate
	}
	if input.Mood != nil {
		mem.Mood = types.Mood(*input.Mood)
	}
	if input.Tags != nil {
		mem.Tags = model.NormalizeTags(input.Tags)
	}
	if input.Location != nil {
		mem.Location = &model.Location{Lat: input.Location.Lat, Lng: input.Location.Lng}
	}
	if input.Collaborators != nil {
		mem.Collaborators = toUserIDs(input.Collaborators)
	}

	kept := current.Photos
	if input.ExistingPhotos != nil {
		kept = make([]string, 0, len(input.ExistingPhotos))
		for _, p := range input.ExistingPhotos {
			// Only references already attached to this memory can be kept.
			if slices.Contains(current.Photos, p) && !slices.Contains(kept, p) {
				kept = append(kept, p)
			}
		}
	}
	if len(kept)+len(input.Photos) > model.MaxPhotos {
		return nil, goerr.Wrap(ErrTooManyFiles, "a memory can hold at most 10 photos",
			goerr.V(MemoryIDKey, id),
			goerr.V("count", len(kept)+len(input.Photos)))
	}

	uploaded, err := uc.upload(ctx, input.Photos, input.Audio)
	if err != nil {
		return nil, err
	}
	mem.Photos = append(slices.Clone(kept), uploaded.photos...)
	switch {
	case uploaded.audio != "":
		mem.AudioURL = uploaded.audio
	case input.RemoveAudio:
		mem.AudioURL = ""
	}

	if err := mem.Validate(); err != nil {
		uc.discard(ctx, uploaded.all())
		return nil, goerr.Wrap(ErrInvalidInput, err.Error(), goerr.V(MemoryIDKey, id))
	}

	updated, err := uc.repo.Memory().Update(ctx, mem)
	if err != nil {
		uc.discard(ctx, uploaded.all())
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrMemoryNotFound, "memory was deleted during update", goerr.V(MemoryIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to update memory", goerr.V(MemoryIDKey, id))
	}

	var orphaned []string
	for _, p := range current.Photos {
		if !slices.Contains(updated.Photos, p) {
			orphaned = append(orphaned, p)
		}
	}
	if current.AudioURL != "" && current.AudioURL != updated.AudioURL {
		orphaned = append(orphaned, current.AudioURL)
	}
	uc.discard(ctx, orphaned)

	uc.notify(ctx, userID)
	return updated, nil
}

func (uc *MemoryUseCase) Delete(ctx context.Context, userID model.UserID, id model.MemoryID) error {
	current, err := uc.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := uc.repo.Memory().Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrMemoryNotFound, "memory not found", goerr.V(MemoryIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete memory", goerr.V(MemoryIDKey, id))
	}

	blobs := slices.Clone(current.Photos)
	if current.AudioURL != "" {
		blobs = append(blobs, current.AudioURL)
	}
	uc.discard(ctx, blobs)

	logging.From(ctx).Info("memory deleted", "memory_id", id, "user_id", userID)
	uc.notify(ctx, userID)
	return nil
}

// List returns one page of the user's memories
func (uc *MemoryUseCase) List(ctx context.Context, userID model.UserID, input ListMemoriesInput) (*MemoryPage, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	limit = min(limit, MaxPageLimit)
	page := max(input.Page, 1)

	opts := []interfaces.ListMemoryOption{
		interfaces.WithLimit(limit),
		interfaces.WithOffset((page - 1) * limit),
	}
	switch input.Sort {
	case "", "-memoryDate":
		opts = append(opts, interfaces.WithDescending())
	case "memoryDate":
	default:
		return nil, goerr.Wrap(ErrInvalidInput, "unsupported sort order", goerr.V("sort", input.Sort))
	}

	memories, err := uc.repo.Memory().ListByUser(ctx, userID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list memories", goerr.V(UserIDKey, userID))
	}
	total, err := uc.repo.Memory().CountByUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count memories", goerr.V(UserIDKey, userID))
	}

	return &MemoryPage{
		Memories: memories,
		Total:    total,
		Page:     page,
		Pages:    (total + limit - 1) / limit,
	}, nil
}

// ListAll returns every memory of the user, oldest first
func (uc *MemoryUseCase) ListAll(ctx context.Context, userID model.UserID) ([]*model.Memory, error) {
	memories, err := uc.repo.Memory().ListByUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list memories", goerr.V(UserIDKey, userID))
	}
	return memories, nil
}

// Timeline groups the user's memories by year and month, oldest first
func (uc *MemoryUseCase) Timeline(ctx context.Context, userID model.UserID) ([]TimelineYear, error) {
	memories, err := uc.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	years := []TimelineYear{}
	for _, m := range memories {
		date := m.MemoryDate.In(uc.location)
		if len(years) == 0 || years[len(years)-1].Year != date.Year() {
			years = append(years, TimelineYear{Year: date.Year()})
		}
		y := &years[len(years)-1]
		if len(y.Months) == 0 || y.Months[len(y.Months)-1].Month != date.Month() {
			y.Months = append(y.Months, TimelineMonth{Month: date.Month()})
		}
		month := &y.Months[len(y.Months)-1]
		month.Memories = append(month.Memories, m)
	}
	return years, nil
}

type uploadResult struct {
	photos []string
	audio  string
}

func (r uploadResult) all() []string {
	if r.audio == "" {
		return r.photos
	}
	return append(slices.Clone(r.photos), r.audio)
}

// upload stores every file in parallel. On failure the files that did make
// it are removed again.
func (uc *MemoryUseCase) upload(ctx context.Context, photos []FileUpload, audio *FileUpload) (uploadResult, error) {
	var result uploadResult
	if len(photos) == 0 && audio == nil {
		return result, nil
	}
	if uc.storage == nil {
		return result, goerr.Wrap(ErrInvalidInput, "file uploads are disabled")
	}

	for _, p := range photos {
		if !strings.HasPrefix(p.ContentType, "image/") {
			return result, goerr.Wrap(ErrInvalidInput, "photo must be an image",
				goerr.V("filename", p.Filename),
				goerr.V("content_type", p.ContentType))
		}
	}
	if audio != nil && !strings.HasPrefix(audio.ContentType, "audio/") {
		return result, goerr.Wrap(ErrInvalidInput, "audio file has wrong type",
			goerr.V("filename", audio.Filename),
			goerr.V("content_type", audio.ContentType))
	}

	urls := make([]string, len(photos))
	var audioURL string

	eg, egCtx := errgroup.WithContext(ctx)
	for i, p := range photos {
		eg.Go(func() error {
			url, err := uc.storage.Put(egCtx, blobName(p.Filename), p.ContentType, p.Content)
			if err != nil {
				return goerr.Wrap(err, "failed to store photo", goerr.V("filename", p.Filename))
			}
			urls[i] = url
			return nil
		})
	}
	if audio != nil {
		eg.Go(func() error {
			url, err := uc.storage.Put(egCtx, blobName(audio.Filename), audio.ContentType, audio.Content)
			if err != nil {
				return goerr.Wrap(err, "failed to store audio", goerr.V("filename", audio.Filename))
			}
			audioURL = url
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		var stored []string
		for _, u := range append(urls, audioURL) {
			if u != "" {
				stored = append(stored, u)
			}
		}
		uc.discard(ctx, stored)
		return uploadResult{}, err
	}

	result.photos = urls
	result.audio = audioURL
	return result, nil
}

// discard removes blobs that are no longer referenced. Failures are logged
// only; a leaked blob never fails the request.
func (uc *MemoryUseCase) discard(ctx context.Context, urls []string) {
	if uc.storage == nil {
		return
	}
	for _, u := range urls {
		if err := uc.storage.Delete(ctx, u); err != nil {
			errutil.Handle(ctx, err, "failed to delete blob")
		}
	}
}

func blobName(filename string) string {
	return uuid.New().String() + strings.ToLower(filepath.Ext(filename))
}

func normalizeMood(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toUserIDs(ids []string) []model.UserID {
	var result []model.UserID
	for _, id := range ids {
		uid := model.UserID(strings.TrimSpace(id))
		if uid != "" && !slices.Contains(result, uid) {
			result = append(result, uid)
		}
	}
	return result
}
