package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mcoot/gamenight/internal/dependencies/random"
	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       TEXT NOT NULL,
	PRIMARY KEY (collection, id)
);`

// Storage is a SQLite-backed implementation of the storage interface.
// Change notification is in-process only: subscribers see writes made
// through this Storage value, not by other processes sharing the file.
type Storage struct {
	db     *sql.DB
	random random.Random
	broker *storage.Broker

	// writeMu orders writes with their published snapshots
	writeMu sync.Mutex
}

// New opens (or creates) the database at path
func New(path string) (*Storage, error) {
	return NewWithRandom(path, random.New())
}

// NewWithRandom opens the database with a custom id source (for testing)
func NewWithRandom(path string, rnd random.Random) (*Storage, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Storage{
		db:     db,
		random: rnd,
		broker: storage.NewBroker(),
	}, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Subscribe(ctx context.Context, collection model.Collection) (*storage.Subscription, error) {
	if !collection.Valid() {
		return nil, model.ErrUnknownCollection
	}

	// Block writers so nothing is published between the initial read and
	// registration
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	sub := s.broker.Subscribe(collection)
	sub.Deliver(snap)
	sub.CloseWithContext(ctx)
	return sub, nil
}

func (s *Storage) List(ctx context.Context, collection model.Collection) (storage.Snapshot, error) {
	if !collection.Valid() {
		return storage.Snapshot{}, model.ErrUnknownCollection
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = ? ORDER BY id`, string(collection))
	if err != nil {
		return storage.Snapshot{}, err
	}
	defer func() { _ = rows.Close() }()

	snap := storage.Snapshot{Collection: collection, Documents: []storage.Document{}}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return storage.Snapshot{}, err
		}
		snap.Documents = append(snap.Documents, storage.Document{ID: id, Data: []byte(data)})
	}
	return snap, rows.Err()
}

func (s *Storage) Get(ctx context.Context, collection model.Collection, id string) (storage.Document, error) {
	if !collection.Valid() {
		return storage.Document{}, model.ErrUnknownCollection
	}

	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, string(collection), id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Document{}, model.ErrDocumentNotFound
		}
		return storage.Document{}, err
	}
	return storage.Document{ID: id, Data: []byte(data)}, nil
}

func (s *Storage) Append(ctx context.Context, collection model.Collection, data any) (string, error) {
	if !collection.Valid() {
		return "", model.ErrUnknownCollection
	}
	encoded, err := storage.Encode(data)
	if err != nil {
		return "", err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	id := s.random.NewID()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)`,
		string(collection), id, string(encoded))
	if err != nil {
		return "", err
	}
	s.publishLocked(ctx, collection)
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

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := upsert(ctx, s.db, collection, id, encoded); err != nil {
		return err
	}
	s.publishLocked(ctx, collection)
	return nil
}

func (s *Storage) Patch(ctx context.Context, collection model.Collection, id string, fields map[string]any) error {
	if !collection.Valid() {
		return model.ErrUnknownCollection
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, string(collection), id).Scan(&existing)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	merged, err := storage.MergeFields([]byte(existing), fields)
	if err != nil {
		return err
	}
	if err := upsert(ctx, tx, collection, id, merged); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.publishLocked(ctx, collection)
	return nil
}

func (s *Storage) Remove(ctx context.Context, collection model.Collection, id string) error {
	if !collection.Valid() {
		return model.ErrUnknownCollection
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, string(collection), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		s.publishLocked(ctx, collection)
	}
	return nil
}

// Close closes all subscriptions and the database
func (s *Storage) Close() error {
	s.broker.CloseAll()
	return s.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, collection model.Collection, id string, data []byte) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data`,
		string(collection), id, string(data))
	return err
}

// publishLocked notifies subscribers; caller must hold writeMu
func (s *Storage) publishLocked(ctx context.Context, collection model.Collection) {
	if s.broker.SubscriberCount(collection) == 0 {
		return
	}
	snap, err := s.List(ctx, collection)
	if err != nil {
		return
	}
	s.broker.Publish(snap)
}
