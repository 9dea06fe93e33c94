package http

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/usecase"
	"github.com/Rajgohel2908/Memora/pkg/utils/errutil"
	"github.com/Rajgohel2908/Memora/pkg/utils/safe"
)

const maxUploadMemory = 32 << 20

type locationResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type memoryResponse struct {
	ID            string            `json:"id"`
	UserID        string            `json:"userId"`
	Title         string            `json:"title"`
	Content       string            `json:"content"`
	MemoryDate    time.Time         `json:"memoryDate"`
	Mood          string            `json:"mood"`
	Tags          []string          `json:"tags"`
	Photos        []string          `json:"photos"`
	AudioURL      string            `json:"audioUrl,omitempty"`
	Location      *locationResponse `json:"location,omitempty"`
	Collaborators []string          `json:"collaborators"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func toMemoryResponse(m *model.Memory) memoryResponse {
	resp := memoryResponse{
		ID:            string(m.ID),
		UserID:        string(m.UserID),
		Title:         m.Title,
		Content:       m.Content,
		MemoryDate:    m.MemoryDate,
		Mood:          m.Mood.String(),
		Tags:          append([]string{}, m.Tags...),
		Photos:        append([]string{}, m.Photos...),
		AudioURL:      m.AudioURL,
		Collaborators: make([]string, 0, len(m.Collaborators)),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Location != nil {
		resp.Location = &locationResponse{Lat: m.Location.Lat, Lng: m.Location.Lng}
	}
	for _, c := range m.Collaborators {
		resp.Collaborators = append(resp.Collaborators, string(c))
	}
	return resp
}

func toMemoryResponses(memories []*model.Memory) []memoryResponse {
	resp := make([]memoryResponse, 0, len(memories))
	for _, m := range memories {
		resp = append(resp, toMemoryResponse(m))
	}
	return resp
}

type memoryListResponse struct {
	Memories []memoryResponse `json:"memories"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
}

type timelineMonthResponse struct {
	Month    int              `json:"month"`
	Name     string           `json:"name"`
	Memories []memoryResponse `json:"memories"`
}

type timelineYearResponse struct {
	Year   int                     `json:"year"`
	Months []timelineMonthResponse `json:"months"`
}

type memoryHandler struct {
	memory *usecase.MemoryUseCase
}

func (h *memoryHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	q := r.URL.Query()
	input := usecase.ListMemoriesInput{Sort: q.Get("sort")}
	if input.Page, err = queryInt(q.Get("page")); err != nil {
		handleError(w, r, err)
		return
	}
	if input.Limit, err = queryInt(q.Get("limit")); err != nil {
		handleError(w, r, err)
		return
	}

	page, err := h.memory.List(r.Context(), userID, input)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, memoryListResponse{
		Memories: toMemoryResponses(page.Memories),
		Total:    page.Total,
		Page:     page.Page,
		Pages:    page.Pages,
	})
}

func (h *memoryHandler) timeline(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	years, err := h.memory.Timeline(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]timelineYearResponse, 0, len(years))
	for _, y := range years {
		yr := timelineYearResponse{Year: y.Year, Months: make([]timelineMonthResponse, 0, len(y.Months))}
		for _, m := range y.Months {
			yr.Months = append(yr.Months, timelineMonthResponse{
				Month:    int(m.Month),
				Name:     m.Month.String(),
				Memories: toMemoryResponses(m.Memories),
			})
		}
		resp = append(resp, yr)
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (h *memoryHandler) get(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	mem, err := h.memory.Get(r.Context(), userID, model.MemoryID(chi.URLParam(r, "id")))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toMemoryResponse(mem))
}

func (h *memoryHandler) create(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var input usecase.CreateMemoryInput
	if isMultipart(r) {
		form, err := parseMultipart(r)
		if err != nil {
			handleError(w, r, err)
			return
		}
		defer form.close(r)

		input = usecase.CreateMemoryInput{
			Title:         form.value("title"),
			Content:       form.value("content"),
			Mood:          form.value("mood"),
			Tags:          form.list("tags"),
			Collaborators: form.list("collaborators"),
		}
		if input.MemoryDate, err = form.date("memoryDate"); err != nil {
			handleError(w, r, err)
			return
		}
		if input.Location, err = form.location(); err != nil {
			handleError(w, r, err)
			return
		}
		if input.Photos, input.Audio, err = form.uploads(); err != nil {
			handleError(w, r, err)
			return
		}
	} else if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	mem, err := h.memory.Create(r.Context(), userID, input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusCreated, toMemoryResponse(mem))
}

func (h *memoryHandler) update(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var input usecase.UpdateMemoryInput
	if isMultipart(r) {
		form, err := parseMultipart(r)
		if err != nil {
			handleError(w, r, err)
			return
		}
		defer form.close(r)

		input.Title = form.optional("title")
		input.Content = form.optional("content")
		input.Mood = form.optional("mood")
		if form.has("tags") {
			input.Tags = form.list("tags")
		}
		if form.has("collaborators") {
			input.Collaborators = form.list("collaborators")
		}
		if form.has("existingPhotos") {
			input.ExistingPhotos = form.list("existingPhotos")
		}
		input.RemoveAudio = form.value("removeAudio") == "true"

		if form.has("memoryDate") {
			date, err := form.date("memoryDate")
			if err != nil {
				handleError(w, r, err)
				return
			}
			input.MemoryDate = &date
		}
		if input.Location, err = form.location(); err != nil {
			handleError(w, r, err)
			return
		}
		if input.Photos, input.Audio, err = form.uploads(); err != nil {
			handleError(w, r, err)
			return
		}
	} else if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	mem, err := h.memory.Update(r.Context(), userID, model.MemoryID(chi.URLParam(r, "id")), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, toMemoryResponse(mem))
}

func (h *memoryHandler) delete(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := h.memory.Delete(r.Context(), userID, model.MemoryID(chi.URLParam(r, "id"))); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, successResponse{Success: true})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return goerr.Wrap(usecase.ErrInvalidInput, "malformed JSON body", goerr.V("cause", err.Error()))
	}
	return nil
}

func queryInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, goerr.Wrap(usecase.ErrInvalidInput, "expected a non-negative integer", goerr.V("value", s))
	}
	return n, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// memoryForm is a parsed multipart memory form. Open files are closed by
// close once the use case returned.
type memoryForm struct {
	form  *multipart.Form
	files []multipart.File
}

func parseMultipart(r *http.Request) (*memoryForm, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, goerr.Wrap(usecase.ErrInvalidInput, "malformed multipart form", goerr.V("cause", err.Error()))
	}
	return &memoryForm{form: r.MultipartForm}, nil
}

func (f *memoryForm) close(r *http.Request) {
	for _, file := range f.files {
		safe.Close(r.Context(), file)
	}
	if err := f.form.RemoveAll(); err != nil {
		errutil.Handle(r.Context(), err, "failed to remove multipart temp files")
	}
}

func (f *memoryForm) has(key string) bool {
	_, ok := f.form.Value[key]
	return ok
}

func (f *memoryForm) value(key string) string {
	if v := f.form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (f *memoryForm) optional(key string) *string {
	if !f.has(key) {
		return nil
	}
	v := f.value(key)
	return &v
}

// list accepts repeated fields, a JSON array or a comma separated value
func (f *memoryForm) list(key string) []string {
	values := f.form.Value[key]
	if len(values) == 1 {
		raw := strings.TrimSpace(values[0])
		if strings.HasPrefix(raw, "[") {
			var arr []string
			if err := json.Unmarshal([]byte(raw), &arr); err == nil {
				return arr
			}
		}
		values = strings.Split(raw, ",")
	}

	result := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}

func (f *memoryForm) date(key string) (time.Time, error) {
	return parseDate(f.value(key))
}

func (f *memoryForm) location() (*usecase.LocationInput, error) {
	lat, lng := f.value("lat"), f.value("lng")
	if lat == "" && lng == "" {
		return nil, nil
	}

	var loc usecase.LocationInput
	var err error
	if loc.Lat, err = strconv.ParseFloat(lat, 64); err != nil {
		return nil, goerr.Wrap(usecase.ErrInvalidInput, "invalid latitude", goerr.V("lat", lat))
	}
	if loc.Lng, err = strconv.ParseFloat(lng, 64); err != nil {
		return nil, goerr.Wrap(usecase.ErrInvalidInput, "invalid longitude", goerr.V("lng", lng))
	}
	return &loc, nil
}

func (f *memoryForm) uploads() ([]usecase.FileUpload, *usecase.FileUpload, error) {
	var photos []usecase.FileUpload
	for _, fh := range f.form.File["photos"] {
		upload, err := f.open(fh)
		if err != nil {
			return nil, nil, err
		}
		photos = append(photos, upload)
	}

	var audio *usecase.FileUpload
	if fhs := f.form.File["audio"]; len(fhs) > 0 {
		upload, err := f.open(fhs[0])
		if err != nil {
			return nil, nil, err
		}
		audio = &upload
	}
	return photos, audio, nil
}

func (f *memoryForm) open(fh *multipart.FileHeader) (usecase.FileUpload, error) {
	file, err := fh.Open()
	if err != nil {
		return usecase.FileUpload{}, goerr.Wrap(err, "failed to open uploaded file", goerr.V("filename", fh.Filename))
	}
	f.files = append(f.files, file)
	return usecase.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     file,
	}, nil
}

// parseDate accepts RFC 3339 timestamps and plain dates. An empty value is
// the zero time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, goerr.Wrap(usecase.ErrInvalidInput, "invalid date", goerr.V("value", s))
}
