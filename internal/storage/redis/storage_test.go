package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gamenight/internal/dependencies/mocks"
	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.ContractSuite
	mini    *miniredis.Miniredis
	random  *mocks.MockRandom
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.random = mocks.NewMockRandom()
	s.storage = NewWithClient(client, DefaultConfig(), s.random)
	s.Storage = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestDocumentsLiveInCollectionHash() {
	s.Require().NoError(s.storage.Set(s.Ctx, model.CollectionGames, "g1", map[string]any{"name": "Azul"}))

	s.True(s.mini.Exists("gamenight:collection:games"))
	s.JSONEq(`{"name":"Azul"}`, s.mini.HGet("gamenight:collection:games", "g1"))
}

func (s *StorageSuite) TestKeyPrefix() {
	cfg := DefaultConfig()
	cfg.KeyPrefix = "other"
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	store := NewWithClient(client, cfg, s.random)
	defer func() { _ = store.Close() }()

	s.Require().NoError(store.Set(s.Ctx, model.CollectionGames, "g1", map[string]any{"name": "Azul"}))

	s.True(s.mini.Exists("other:collection:games"))
	s.False(s.mini.Exists("gamenight:collection:games"))
}

func (s *StorageSuite) TestAppendRejectsIDCollision() {
	s.random.QueueID("dup", "dup")

	_, err := s.storage.Append(s.Ctx, model.CollectionMatches, map[string]any{"winner": "a"})
	s.Require().NoError(err)

	_, err = s.storage.Append(s.Ctx, model.CollectionMatches, map[string]any{"winner": "b"})
	s.Error(err)

	doc, err := s.storage.Get(s.Ctx, model.CollectionMatches, "dup")
	s.Require().NoError(err)
	s.JSONEq(`{"winner":"a"}`, string(doc.Data))
}

func (s *StorageSuite) TestSubscribersInSeparateClientsSeeWrites() {
	other := NewWithClient(redis.NewClient(&redis.Options{Addr: s.mini.Addr()}), DefaultConfig(), s.random)
	defer func() { _ = other.Close() }()

	sub, err := s.storage.Subscribe(s.Ctx, model.CollectionPlayers)
	s.Require().NoError(err)
	defer sub.Close()
	s.Len(s.Next(sub).Documents, 0)

	s.Require().NoError(other.Set(s.Ctx, model.CollectionPlayers, "p1", map[string]any{"name": "Alice"}))

	snap := s.Next(sub)
	s.Require().Len(snap.Documents, 1)
	s.Equal("p1", snap.Documents[0].ID)
}
