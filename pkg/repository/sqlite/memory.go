package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
)

const memoryColumns = `id, user_id, title, content, memory_date, mood, tags, photos,
	audio_url, lat, lng, collaborators, created_at, updated_at`

type memoryRepository struct {
	db *sql.DB
}

func newMemoryRepository(db *sql.DB) *memoryRepository {
	return &memoryRepository{db: db}
}

// memoryRow is the column representation of model.Memory. Times are stored
// as Unix nanoseconds so that ORDER BY is chronological; string lists are
// JSON arrays.
type memoryRow struct {
	ID            string
	UserID        string
	Title         string
	Content       string
	MemoryDate    int64
	Mood          string
	Tags          string
	Photos        string
	AudioURL      string
	Lat           sql.NullFloat64
	Lng           sql.NullFloat64
	Collaborators string
	CreatedAt     int64
	UpdatedAt     int64
}

func toMemoryRow(m *model.Memory) (*memoryRow, error) {
	row := &memoryRow{
		ID:         string(m.ID),
		UserID:     string(m.UserID),
		Title:      m.Title,
		Content:    m.Content,
		MemoryDate: m.MemoryDate.UnixNano(),
		Mood:       m.Mood.String(),
		AudioURL:   m.AudioURL,
		CreatedAt:  m.CreatedAt.UnixNano(),
		UpdatedAt:  m.UpdatedAt.UnixNano(),
	}
	if m.Location != nil {
		row.Lat = sql.NullFloat64{Float64: m.Location.Lat, Valid: true}
		row.Lng = sql.NullFloat64{Float64: m.Location.Lng, Valid: true}
	}

	var err error
	if row.Tags, err = encodeList(m.Tags); err != nil {
		return nil, err
	}
	if row.Photos, err = encodeList(m.Photos); err != nil {
		return nil, err
	}
	if row.Collaborators, err = encodeList(m.Collaborators); err != nil {
		return nil, err
	}
	return row, nil
}

func fromMemoryRow(row *memoryRow) (*model.Memory, error) {
	m := &model.Memory{
		ID:         model.MemoryID(row.ID),
		UserID:     model.UserID(row.UserID),
		Title:      row.Title,
		Content:    row.Content,
		MemoryDate: time.Unix(0, row.MemoryDate).UTC(),
		Mood:       types.Mood(row.Mood),
		AudioURL:   row.AudioURL,
		CreatedAt:  time.Unix(0, row.CreatedAt).UTC(),
		UpdatedAt:  time.Unix(0, row.UpdatedAt).UTC(),
	}
	if row.Lat.Valid && row.Lng.Valid {
		m.Location = &model.Location{Lat: row.Lat.Float64, Lng: row.Lng.Float64}
	}

	if err := decodeList(row.Tags, &m.Tags); err != nil {
		return nil, err
	}
	if err := decodeList(row.Photos, &m.Photos); err != nil {
		return nil, err
	}
	if err := decodeList(row.Collaborators, &m.Collaborators); err != nil {
		return nil, err
	}
	return m, nil
}

func encodeList[T any](v []T) (string, error) {
	if len(v) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode list column")
	}
	return string(b), nil
}

func decodeList[T any](s string, dst *[]T) error {
	var v []T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return goerr.Wrap(err, "failed to decode list column", goerr.V("value", s))
	}
	if len(v) > 0 {
		*dst = v
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMemory(s scanner) (*model.Memory, error) {
	var row memoryRow
	if err := s.Scan(
		&row.ID, &row.UserID, &row.Title, &row.Content, &row.MemoryDate, &row.Mood,
		&row.Tags, &row.Photos, &row.AudioURL, &row.Lat, &row.Lng,
		&row.Collaborators, &row.CreatedAt, &row.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return fromMemoryRow(&row)
}

func (r *memoryRepository) Create(ctx context.Context, mem *model.Memory) (*model.Memory, error) {
	created := mem.Clone()
	if created.ID == "" {
		created.ID = model.NewMemoryID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	row, err := toMemoryRow(created)
	if err != nil {
		return nil, err
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO memories (`+memoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.UserID, row.Title, row.Content, row.MemoryDate, row.Mood,
		row.Tags, row.Photos, row.AudioURL, row.Lat, row.Lng,
		row.Collaborators, row.CreatedAt, row.UpdatedAt,
	); err != nil {
		return nil, goerr.Wrap(err, "failed to create memory", goerr.V(model.MemoryIDKey, created.ID))
	}

	return created, nil
}

func (r *memoryRepository) Get(ctx context.Context, memoryID model.MemoryID) (*model.Memory, error) {
	m, err := scanMemory(r.db.QueryRowContext(ctx,
		`SELECT `+memoryColumns+` FROM memories WHERE id = ?`, string(memoryID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "memory not found", goerr.V(model.MemoryIDKey, memoryID))
		}
		return nil, goerr.Wrap(err, "failed to get memory", goerr.V(model.MemoryIDKey, memoryID))
	}
	return m, nil
}

func (r *memoryRepository) Update(ctx context.Context, mem *model.Memory) (*model.Memory, error) {
	existing, err := r.Get(ctx, mem.ID)
	if err != nil {
		return nil, err
	}

	updated := mem.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	row, err := toMemoryRow(updated)
	if err != nil {
		return nil, err
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE memories SET user_id = ?, title = ?, content = ?, memory_date = ?, mood = ?,
			tags = ?, photos = ?, audio_url = ?, lat = ?, lng = ?, collaborators = ?, updated_at = ?
		WHERE id = ?`,
		row.UserID, row.Title, row.Content, row.MemoryDate, row.Mood,
		row.Tags, row.Photos, row.AudioURL, row.Lat, row.Lng, row.Collaborators, row.UpdatedAt,
		row.ID,
	); err != nil {
		return nil, goerr.Wrap(err, "failed to update memory", goerr.V(model.MemoryIDKey, mem.ID))
	}

	return updated, nil
}

func (r *memoryRepository) Delete(ctx context.Context, memoryID model.MemoryID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM memories WHERE id = ?`, string(memoryID))
	if err != nil {
		return goerr.Wrap(err, "failed to delete memory", goerr.V(model.MemoryIDKey, memoryID))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, "failed to read affected rows", goerr.V(model.MemoryIDKey, memoryID))
	}
	if n == 0 {
		return goerr.Wrap(ErrNotFound, "memory not found", goerr.V(model.MemoryIDKey, memoryID))
	}
	return nil
}

func (r *memoryRepository) ListByUser(ctx context.Context, userID model.UserID, opts ...interfaces.ListMemoryOption) ([]*model.Memory, error) {
	cfg := interfaces.BuildListMemoryConfig(opts...)

	order := "ASC"
	if cfg.Descending() {
		order = "DESC"
	}
	limit := -1
	if cfg.Limit() > 0 {
		limit = cfg.Limit()
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+memoryColumns+` FROM memories WHERE user_id = ?
		ORDER BY memory_date `+order+`, created_at `+order+`, id `+order+`
		LIMIT ? OFFSET ?`,
		string(userID), limit, cfg.Offset())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list memories", goerr.V(model.UserIDKey, userID))
	}
	defer rows.Close()

	memories := make([]*model.Memory, 0)
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan memory", goerr.V(model.UserIDKey, userID))
		}
		memories = append(memories, m)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate memories", goerr.V(model.UserIDKey, userID))
	}

	return memories, nil
}

func (r *memoryRepository) CountByUser(ctx context.Context, userID model.UserID) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memories WHERE user_id = ?`, string(userID),
	).Scan(&count); err != nil {
		return 0, goerr.Wrap(err, "failed to count memories", goerr.V(model.UserIDKey, userID))
	}
	return count, nil
}
