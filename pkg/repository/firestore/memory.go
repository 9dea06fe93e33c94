package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
)

// memoryDoc is the Firestore document representation of model.Memory
type memoryDoc struct {
	ID            model.MemoryID `firestore:"ID"`
	UserID        model.UserID   `firestore:"UserID"`
	Title         string         `firestore:"Title"`
	Content       string         `firestore:"Content"`
	MemoryDate    time.Time      `firestore:"MemoryDate"`
	Mood          string         `firestore:"Mood"`
	Tags          []string       `firestore:"Tags"`
	Photos        []string       `firestore:"Photos"`
	AudioURL      string         `firestore:"AudioURL"`
	Location      *locationDoc   `firestore:"Location,omitempty"`
	Collaborators []string       `firestore:"Collaborators"`
	CreatedAt     time.Time      `firestore:"CreatedAt"`
	UpdatedAt     time.Time      `firestore:"UpdatedAt"`
}

type locationDoc struct {
	Lat float64 `firestore:"Lat"`
	Lng float64 `firestore:"Lng"`
}

func toMemoryDoc(m *model.Memory) *memoryDoc {
	doc := &memoryDoc{
		ID:         m.ID,
		UserID:     m.UserID,
		Title:      m.Title,
		Content:    m.Content,
		MemoryDate: m.MemoryDate,
		Mood:       m.Mood.String(),
		Tags:       m.Tags,
		Photos:     m.Photos,
		AudioURL:   m.AudioURL,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.Location != nil {
		doc.Location = &locationDoc{Lat: m.Location.Lat, Lng: m.Location.Lng}
	}
	for _, c := range m.Collaborators {
		doc.Collaborators = append(doc.Collaborators, string(c))
	}
	return doc
}

func fromMemoryDoc(d *memoryDoc) *model.Memory {
	m := &model.Memory{
		ID:         d.ID,
		UserID:     d.UserID,
		Title:      d.Title,
		Content:    d.Content,
		MemoryDate: d.MemoryDate,
		Mood:       types.Mood(d.Mood),
		Tags:       d.Tags,
		Photos:     d.Photos,
		AudioURL:   d.AudioURL,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	if d.Location != nil {
		m.Location = &model.Location{Lat: d.Location.Lat, Lng: d.Location.Lng}
	}
	for _, c := range d.Collaborators {
		m.Collaborators = append(m.Collaborators, model.UserID(c))
	}
	return m
}

type memoryRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newMemoryRepository(client *firestore.Client) *memoryRepository {
	return &memoryRepository{client: client}
}

func (r *memoryRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + MemoriesCollection)
	}
	return r.client.Collection(MemoriesCollection)
}

func (r *memoryRepository) Create(ctx context.Context, mem *model.Memory) (*model.Memory, error) {
	created := mem.Clone()
	if created.ID == "" {
		created.ID = model.NewMemoryID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.collection().Doc(string(created.ID))
	if _, err := docRef.Create(ctx, toMemoryDoc(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create memory", goerr.V(model.MemoryIDKey, created.ID))
	}

	return created, nil
}

func (r *memoryRepository) Get(ctx context.Context, memoryID model.MemoryID) (*model.Memory, error) {
	doc, err := r.collection().Doc(string(memoryID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "memory not found", goerr.V(model.MemoryIDKey, memoryID))
		}
		return nil, goerr.Wrap(err, "failed to get memory", goerr.V(model.MemoryIDKey, memoryID))
	}

	var d memoryDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal memory", goerr.V(model.MemoryIDKey, memoryID))
	}

	return fromMemoryDoc(&d), nil
}

func (r *memoryRepository) Update(ctx context.Context, mem *model.Memory) (*model.Memory, error) {
	docRef := r.collection().Doc(string(mem.ID))

	var updated *model.Memory
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "memory not found", goerr.V(model.MemoryIDKey, mem.ID))
			}
			return goerr.Wrap(err, "failed to get memory", goerr.V(model.MemoryIDKey, mem.ID))
		}

		var existing memoryDoc
		if err := snap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal memory", goerr.V(model.MemoryIDKey, mem.ID))
		}

		updated = mem.Clone()
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		return tx.Set(docRef, toMemoryDoc(updated))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update memory", goerr.V(model.MemoryIDKey, mem.ID))
	}

	return updated, nil
}

func (r *memoryRepository) Delete(ctx context.Context, memoryID model.MemoryID) error {
	docRef := r.collection().Doc(string(memoryID))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "memory not found", goerr.V(model.MemoryIDKey, memoryID))
		}
		return goerr.Wrap(err, "failed to get memory", goerr.V(model.MemoryIDKey, memoryID))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete memory", goerr.V(model.MemoryIDKey, memoryID))
	}

	return nil
}

// ListByUser relies on the composite index (UserID, MemoryDate, CreatedAt)
// created by the migrate command.
func (r *memoryRepository) ListByUser(ctx context.Context, userID model.UserID, opts ...interfaces.ListMemoryOption) ([]*model.Memory, error) {
	cfg := interfaces.BuildListMemoryConfig(opts...)

	dir := firestore.Asc
	if cfg.Descending() {
		dir = firestore.Desc
	}

	q := r.collection().
		Where("UserID", "==", string(userID)).
		OrderBy("MemoryDate", dir).
		OrderBy("CreatedAt", dir).
		OrderBy(firestore.DocumentID, dir)
	if cfg.Offset() > 0 {
		q = q.Offset(cfg.Offset())
	}
	if cfg.Limit() > 0 {
		q = q.Limit(cfg.Limit())
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	memories := make([]*model.Memory, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate memories", goerr.V(model.UserIDKey, userID))
		}

		var d memoryDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal memory", goerr.V(model.UserIDKey, userID))
		}

		memories = append(memories, fromMemoryDoc(&d))
	}

	return memories, nil
}

func (r *memoryRepository) CountByUser(ctx context.Context, userID model.UserID) (int, error) {
	iter := r.collection().
		Where("UserID", "==", string(userID)).
		Select().
		Documents(ctx)
	defer iter.Stop()

	var count int
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, goerr.Wrap(err, "failed to count memories", goerr.V(model.UserIDKey, userID))
		}
		count++
	}
	return count, nil
}
