package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/gamenight/internal/dependencies/random"
	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/storage"
)

// errPatchContention is returned when a patch loses the optimistic lock
// more times than the configured retries
var errPatchContention = errors.New("patch retries exhausted")

// Storage is a Redis-backed implementation of the storage interface.
// Each collection is a HASH; every write publishes the collection name on
// a change channel, which drives subscriptions.
type Storage struct {
	client *redis.Client
	cfg    Config
	random random.Random
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg, random.New()), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, rnd random.Random) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	if cfg.PatchRetries <= 0 {
		cfg.PatchRetries = DefaultConfig().PatchRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
		random: rnd,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Subscribe(ctx context.Context, collection model.Collection) (*storage.Subscription, error) {
	if !collection.Valid() {
		return nil, model.ErrUnknownCollection
	}

	pubsub := s.client.Subscribe(ctx, changesChannel(s.cfg.KeyPrefix, collection))
	// Wait for the subscription to be confirmed so no write made after
	// this call returns can be missed
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	sub := storage.NewSubscription(collection, func() {
		_ = pubsub.Close()
	})

	initial, err := s.List(ctx, collection)
	if err != nil {
		sub.Close()
		return nil, err
	}
	sub.Deliver(initial)

	go func() {
		messages := pubsub.Channel()
		for {
			select {
			case <-sub.Done():
				return
			case <-ctx.Done():
				sub.Close()
				return
			case _, ok := <-messages:
				if !ok {
					sub.Close()
					return
				}
				snap, err := s.List(ctx, collection)
				if err != nil {
					continue // Next change notice retries the read
				}
				sub.Deliver(snap)
			}
		}
	}()

	return sub, nil
}

func (s *Storage) List(ctx context.Context, collection model.Collection) (storage.Snapshot, error) {
	if !collection.Valid() {
		return storage.Snapshot{}, model.ErrUnknownCollection
	}

	values, err := s.client.HGetAll(ctx, collectionKey(s.cfg.KeyPrefix, collection)).Result()
	if err != nil {
		return storage.Snapshot{}, err
	}

	snap := storage.Snapshot{
		Collection: collection,
		Documents:  make([]storage.Document, 0, len(values)),
	}
	for id, data := range values {
		snap.Documents = append(snap.Documents, storage.Document{ID: id, Data: []byte(data)})
	}
	storage.SortDocuments(snap.Documents)
	return snap, nil
}

func (s *Storage) Get(ctx context.Context, collection model.Collection, id string) (storage.Document, error) {
	if !collection.Valid() {
		return storage.Document{}, model.ErrUnknownCollection
	}

	data, err := s.client.HGet(ctx, collectionKey(s.cfg.KeyPrefix, collection), id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return storage.Document{}, model.ErrDocumentNotFound
		}
		return storage.Document{}, err
	}
	return storage.Document{ID: id, Data: data}, nil
}

func (s *Storage) Append(ctx context.Context, collection model.Collection, data any) (string, error) {
	if !collection.Valid() {
		return "", model.ErrUnknownCollection
	}
	encoded, err := storage.Encode(data)
	if err != nil {
		return "", err
	}

	id := s.random.NewID()
	key := collectionKey(s.cfg.KeyPrefix, collection)

	// Store and notify in one MULTI so subscribers never see the notice
	// before the data
	var created *redis.BoolCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		created = pipe.HSetNX(ctx, key, id, []byte(encoded))
		pipe.Publish(ctx, changesChannel(s.cfg.KeyPrefix, collection), string(collection))
		return nil
	})
	if err != nil {
		return "", err
	}
	if !created.Val() {
		return "", fmt.Errorf("append %s: id %s already exists", collection, id)
	}
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

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, collectionKey(s.cfg.KeyPrefix, collection), id, []byte(encoded))
		pipe.Publish(ctx, changesChannel(s.cfg.KeyPrefix, collection), string(collection))
		return nil
	})
	return err
}

func (s *Storage) Patch(ctx context.Context, collection model.Collection, id string, fields map[string]any) error {
	if !collection.Valid() {
		return model.ErrUnknownCollection
	}

	key := collectionKey(s.cfg.KeyPrefix, collection)

	// Read-merge-write under WATCH so a concurrent write to the same
	// collection restarts the merge instead of being overwritten
	txf := func(tx *redis.Tx) error {
		existing, err := tx.HGet(ctx, key, id).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		merged, err := storage.MergeFields(existing, fields)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, id, []byte(merged))
			pipe.Publish(ctx, changesChannel(s.cfg.KeyPrefix, collection), string(collection))
			return nil
		})
		return err
	}

	for i := 0; i < s.cfg.PatchRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue // Lost the optimistic lock, retry
		}
		return err
	}
	return fmt.Errorf("patch %s/%s: %w", collection, id, errPatchContention)
}

func (s *Storage) Remove(ctx context.Context, collection model.Collection, id string) error {
	if !collection.Valid() {
		return model.ErrUnknownCollection
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, collectionKey(s.cfg.KeyPrefix, collection), id)
		pipe.Publish(ctx, changesChannel(s.cfg.KeyPrefix, collection), string(collection))
		return nil
	})
	return err
}
