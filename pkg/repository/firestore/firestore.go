package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"

	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
)

// MemoriesCollection is the base name of the collection holding memories
const MemoriesCollection = "memories"

type Firestore struct {
	client *firestore.Client
	memory *memoryRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes every collection name, e.g. "staging" gives
// "staging_memories".
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.memory.collectionPrefix = prefix
	}
}

// New connects to the Firestore database databaseID of projectID. An empty
// databaseID selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client: client,
		memory: newMemoryRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Memory() interfaces.MemoryRepository {
	return f.memory
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
