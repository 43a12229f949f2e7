package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/mcoot/gamenight/internal/dependencies/random"
	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	collections map[model.Collection]map[string]json.RawMessage
	random      random.Random
	broker      *storage.Broker
}

// New creates a new in-memory storage instance
func New() *Storage {
	return NewWithRandom(random.New())
}

// NewWithRandom creates an in-memory storage with a custom id source (for testing)
func NewWithRandom(rnd random.Random) *Storage {
	collections := make(map[model.Collection]map[string]json.RawMessage)
	for _, c := range model.Collections() {
		collections[c] = make(map[string]json.RawMessage)
	}
	return &Storage{
		collections: collections,
		random:      rnd,
		broker:      storage.NewBroker(),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Subscribe(ctx context.Context, collection model.Collection) (*storage.Subscription, error) {
	if !collection.Valid() {
		return nil, model.ErrUnknownCollection
	}

	// Hold the read lock so no write can publish between taking the
	// initial snapshot and registering
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub := s.broker.Subscribe(collection)
	sub.Deliver(s.snapshotLocked(collection))
	sub.CloseWithContext(ctx)
	return sub, nil
}

func (s *Storage) List(ctx context.Context, collection model.Collection) (storage.Snapshot, error) {
	if !collection.Valid() {
		return storage.Snapshot{}, model.ErrUnknownCollection
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(collection), nil
}

func (s *Storage) Get(ctx context.Context, collection model.Collection, id string) (storage.Document, error) {
	if !collection.Valid() {
		return storage.Document{}, model.ErrUnknownCollection
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.collections[collection][id]
	if !ok {
		return storage.Document{}, model.ErrDocumentNotFound
	}
	return storage.Document{ID: id, Data: cloneRaw(data)}, nil
}

func (s *Storage) Append(ctx context.Context, collection model.Collection, data any) (string, error) {
	if !collection.Valid() {
		return "", model.ErrUnknownCollection
	}
	encoded, err := storage.Encode(data)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.random.NewID()
	s.collections[collection][id] = cloneRaw(encoded)
	s.publishLocked(collection)
	return id, nil
}

func (s *Storage) Set(ctx context.Context, collection model.Collection, id string, data any) error {
	if !collection.Valid() {
		return model.ErrUnknownCollection
	}
	encoded, err := storage.Encode(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection][id] = cloneRaw(encoded)
	s.publishLocked(collection)
	return nil
}

func (s *Storage) Patch(ctx context.Context, collection model.Collection, id string, fields map[string]any) error {
	if !collection.Valid() {
		return model.ErrUnknownCollection
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	merged, err := storage.MergeFields(s.collections[collection][id], fields)
	if err != nil {
		return err
	}
	s.collections[collection][id] = merged
	s.publishLocked(collection)
	return nil
}

func (s *Storage) Remove(ctx context.Context, collection model.Collection, id string) error {
	if !collection.Valid() {
		return model.ErrUnknownCollection
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[collection][id]; !ok {
		return nil
	}
	delete(s.collections[collection], id)
	s.publishLocked(collection)
	return nil
}

func (s *Storage) Close() error {
	s.broker.CloseAll()
	return nil
}

// snapshotLocked builds a snapshot; caller must hold s.mu
func (s *Storage) snapshotLocked(collection model.Collection) storage.Snapshot {
	docs := s.collections[collection]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	snap := storage.Snapshot{
		Collection: collection,
		Documents:  make([]storage.Document, 0, len(ids)),
	}
	for _, id := range ids {
		snap.Documents = append(snap.Documents, storage.Document{ID: id, Data: cloneRaw(docs[id])})
	}
	return snap
}

// publishLocked notifies subscribers; caller must hold the write lock so
// snapshots are published in write order
func (s *Storage) publishLocked(collection model.Collection) {
	if s.broker.SubscriberCount(collection) == 0 {
		return
	}
	s.broker.Publish(s.snapshotLocked(collection))
}

func cloneRaw(data json.RawMessage) json.RawMessage {
	out := make(json.RawMessage, len(data))
	copy(out, data)
	return out
}
