// Package storagetest holds the behaviour every storage backend shares, as
// a suite each backend's tests embed.
package storagetest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/storage"
)

// ContractSuite runs the shared storage tests against Storage. Embedding
// suites must set Storage in their SetupTest.
type ContractSuite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

const waitFor = 2 * time.Second

// Next waits for the next snapshot on a subscription
func (s *ContractSuite) Next(sub *storage.Subscription) storage.Snapshot {
	s.T().Helper()
	select {
	case snap, ok := <-sub.C():
		s.Require().True(ok, "subscription closed")
		return snap
	case <-time.After(waitFor):
		s.FailNow("timed out waiting for snapshot")
		return storage.Snapshot{}
	}
}

func (s *ContractSuite) decode(doc storage.Document) map[string]any {
	var out map[string]any
	s.Require().NoError(json.Unmarshal(doc.Data, &out))
	return out
}

func (s *ContractSuite) TestAppendAssignsIDsInOrder() {
	first, err := s.Storage.Append(s.Ctx, model.CollectionMatches, map[string]any{"winner": "a"})
	s.Require().NoError(err)
	second, err := s.Storage.Append(s.Ctx, model.CollectionMatches, map[string]any{"winner": "b"})
	s.Require().NoError(err)
	s.NotEqual(first, second)

	snap, err := s.Storage.List(s.Ctx, model.CollectionMatches)
	s.Require().NoError(err)
	s.Require().Len(snap.Documents, 2)
	s.Equal(first, snap.Documents[0].ID)
	s.Equal(second, snap.Documents[1].ID)
	s.Equal("b", s.decode(snap.Documents[1])["winner"])
}

func (s *ContractSuite) TestSetAndGet() {
	err := s.Storage.Set(s.Ctx, model.CollectionGames, "catan", map[string]any{"name": "Catan"})
	s.Require().NoError(err)

	doc, err := s.Storage.Get(s.Ctx, model.CollectionGames, "catan")
	s.Require().NoError(err)
	s.Equal("catan", doc.ID)
	s.Equal("Catan", s.decode(doc)["name"])

	// Set replaces the whole record
	err = s.Storage.Set(s.Ctx, model.CollectionGames, "catan", map[string]any{"type": "euro"})
	s.Require().NoError(err)
	doc, err = s.Storage.Get(s.Ctx, model.CollectionGames, "catan")
	s.Require().NoError(err)
	s.NotContains(s.decode(doc), "name")
}

func (s *ContractSuite) TestGetMissing() {
	_, err := s.Storage.Get(s.Ctx, model.CollectionPlayers, "nobody")
	s.ErrorIs(err, model.ErrDocumentNotFound)
}

func (s *ContractSuite) TestUnknownCollection() {
	_, err := s.Storage.List(s.Ctx, model.Collection("scores"))
	s.ErrorIs(err, model.ErrUnknownCollection)

	_, err = s.Storage.Append(s.Ctx, model.Collection("scores"), map[string]any{})
	s.ErrorIs(err, model.ErrUnknownCollection)
}

func (s *ContractSuite) TestPatchMergesTopLevelFields() {
	err := s.Storage.Set(s.Ctx, model.CollectionPlayers, "p1", map[string]any{
		"name":  "Alice",
		"elo":   1000,
		"games": map[string]any{"catan": map[string]any{"played": 1}},
	})
	s.Require().NoError(err)

	err = s.Storage.Patch(s.Ctx, model.CollectionPlayers, "p1", map[string]any{
		"elo":   1016,
		"games": map[string]any{"azul": map[string]any{"played": 1}},
	})
	s.Require().NoError(err)

	doc, err := s.Storage.Get(s.Ctx, model.CollectionPlayers, "p1")
	s.Require().NoError(err)
	got := s.decode(doc)
	s.Equal("Alice", got["name"])
	s.EqualValues(1016, got["elo"])

	// Nested objects are replaced, not merged
	games := got["games"].(map[string]any)
	s.Contains(games, "azul")
	s.NotContains(games, "catan")
}

func (s *ContractSuite) TestPatchNilRemovesField() {
	err := s.Storage.Set(s.Ctx, model.CollectionPlayers, "p1", map[string]any{"name": "Alice", "eloDelta": 16})
	s.Require().NoError(err)

	err = s.Storage.Patch(s.Ctx, model.CollectionPlayers, "p1", map[string]any{"eloDelta": nil})
	s.Require().NoError(err)

	doc, err := s.Storage.Get(s.Ctx, model.CollectionPlayers, "p1")
	s.Require().NoError(err)
	s.NotContains(s.decode(doc), "eloDelta")
}

func (s *ContractSuite) TestPatchCreatesMissingDocument() {
	err := s.Storage.Patch(s.Ctx, model.CollectionPlayers, "ghost", map[string]any{"gamesWon": 1})
	s.Require().NoError(err)

	doc, err := s.Storage.Get(s.Ctx, model.CollectionPlayers, "ghost")
	s.Require().NoError(err)
	s.EqualValues(1, s.decode(doc)["gamesWon"])
}

func (s *ContractSuite) TestRemove() {
	s.Require().NoError(s.Storage.Set(s.Ctx, model.CollectionGames, "g1", map[string]any{"name": "Azul"}))
	s.Require().NoError(s.Storage.Remove(s.Ctx, model.CollectionGames, "g1"))

	_, err := s.Storage.Get(s.Ctx, model.CollectionGames, "g1")
	s.ErrorIs(err, model.ErrDocumentNotFound)

	// Removing again is not an error
	s.NoError(s.Storage.Remove(s.Ctx, model.CollectionGames, "g1"))
}

func (s *ContractSuite) TestSubscribeDeliversInitialAndChanges() {
	s.Require().NoError(s.Storage.Set(s.Ctx, model.CollectionGames, "g1", map[string]any{"name": "Azul"}))

	sub, err := s.Storage.Subscribe(s.Ctx, model.CollectionGames)
	s.Require().NoError(err)
	defer sub.Close()

	initial := s.Next(sub)
	s.Equal(model.CollectionGames, initial.Collection)
	s.Require().Len(initial.Documents, 1)

	s.Require().NoError(s.Storage.Set(s.Ctx, model.CollectionGames, "g2", map[string]any{"name": "Catan"}))

	s.Eventually(func() bool {
		select {
		case snap := <-sub.C():
			return len(snap.Documents) == 2
		default:
			return false
		}
	}, waitFor, 10*time.Millisecond)
}

func (s *ContractSuite) TestSubscribeIgnoresOtherCollections() {
	sub, err := s.Storage.Subscribe(s.Ctx, model.CollectionGames)
	s.Require().NoError(err)
	defer sub.Close()
	s.Next(sub)

	s.Require().NoError(s.Storage.Set(s.Ctx, model.CollectionPlayers, "p1", map[string]any{"name": "Alice"}))

	s.Never(func() bool {
		select {
		case <-sub.C():
			return true
		default:
			return false
		}
	}, 200*time.Millisecond, 20*time.Millisecond)
}

func (s *ContractSuite) TestSubscriptionClosesWithContext() {
	ctx, cancel := context.WithCancel(s.Ctx)
	sub, err := s.Storage.Subscribe(ctx, model.CollectionMatches)
	s.Require().NoError(err)
	s.Next(sub)

	cancel()

	select {
	case <-sub.Done():
	case <-time.After(waitFor):
		s.FailNow("subscription not closed after cancel")
	}
}
