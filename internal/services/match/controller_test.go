package match

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gamenight/internal/dependencies/mocks"
	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/services/rating"
	"github.com/mcoot/gamenight/internal/storage"
	"github.com/mcoot/gamenight/internal/storage/memory"
	"github.com/mcoot/gamenight/internal/testutil"
)

// failingStorage fails all reads, or writes for selected players or matches
type failingStorage struct {
	storage.Storage
	failPlayer  string
	failMatches bool
	failReads   bool
}

var (
	errWriteFailed = errors.New("write failed")
	errReadFailed  = errors.New("read failed")
)

func (f *failingStorage) Patch(ctx context.Context, c model.Collection, id string, fields map[string]any) error {
	if c == model.CollectionPlayers && id == f.failPlayer {
		return errWriteFailed
	}
	return f.Storage.Patch(ctx, c, id, fields)
}

func (f *failingStorage) Get(ctx context.Context, c model.Collection, id string) (storage.Document, error) {
	if f.failReads {
		return storage.Document{}, errReadFailed
	}
	return f.Storage.Get(ctx, c, id)
}

func (f *failingStorage) Append(ctx context.Context, c model.Collection, data any) (string, error) {
	if c == model.CollectionMatches && f.failMatches {
		return "", errWriteFailed
	}
	return f.Storage.Append(ctx, c, data)
}

type ControllerSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	ctx     context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.storage = memory.NewWithRandom(s.random)
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC))
	s.clock.Step = time.Minute
	s.ctx = context.Background()
}

func (s *ControllerSuite) newController(store storage.Storage, scheme model.RatingScheme) *Controller {
	return NewController(store, scheme, rating.ModeSequential, s.clock, testutil.NopLogger())
}

func (s *ControllerSuite) addPlayer(id string, scheme model.RatingScheme) {
	p := model.NewPlayer(id, model.ColourBlue, scheme)
	s.Require().NoError(s.storage.Set(s.ctx, model.CollectionPlayers, id, p))
}

func (s *ControllerSuite) player(id string) model.Player {
	doc, err := s.storage.Get(s.ctx, model.CollectionPlayers, id)
	s.Require().NoError(err)
	p, err := storage.DecodePlayer(doc)
	s.Require().NoError(err)
	return p
}

func (s *ControllerSuite) matches() []model.Match {
	snap, err := s.storage.List(s.ctx, model.CollectionMatches)
	s.Require().NoError(err)
	return storage.DecodeMatches(snap)
}

func (s *ControllerSuite) snapshotAll() map[model.Collection]storage.Snapshot {
	out := make(map[model.Collection]storage.Snapshot)
	for _, c := range model.Collections() {
		snap, err := s.storage.List(s.ctx, c)
		s.Require().NoError(err)
		out[c] = snap
	}
	return out
}

// Validation tests

func (s *ControllerSuite) TestRejections() {
	s.addPlayer("p1", model.SchemeBayes)
	s.addPlayer("p2", model.SchemeBayes)
	controller := s.newController(s.storage, model.SchemeBayes)
	before := s.snapshotAll()

	cases := []struct {
		name string
		req  SubmitRequest
	}{
		{"single participant", SubmitRequest{Players: []model.PlayerID{"p1"}, Winner: "p1", GameID: "g1"}},
		{"winner not a participant", SubmitRequest{Players: []model.PlayerID{"p1", "p2"}, Winner: "p3", GameID: "g1"}},
		{"no winner", SubmitRequest{Players: []model.PlayerID{"p1", "p2"}, GameID: "g1"}},
		{"no game", SubmitRequest{Players: []model.PlayerID{"p1", "p2"}, Winner: "p1"}},
	}

	for _, tc := range cases {
		result, err := controller.Submit(s.ctx, tc.req)
		s.NoError(err, tc.name)
		s.False(result.Accepted, tc.name)
		s.Nil(result.Match, tc.name)
	}

	s.Equal(before, s.snapshotAll())
}

func (s *ControllerSuite) TestEloDoesNotNeedGame() {
	s.addPlayer("p1", model.SchemeElo)
	s.addPlayer("p2", model.SchemeElo)
	controller := s.newController(s.storage, model.SchemeElo)

	result, err := controller.Submit(s.ctx, SubmitRequest{Players: []model.PlayerID{"p1", "p2"}, Winner: "p1"})
	s.Require().NoError(err)
	s.True(result.Accepted)
}

// Elo tests

func (s *ControllerSuite) TestEloSubmission() {
	s.addPlayer("p1", model.SchemeElo)
	s.addPlayer("p2", model.SchemeElo)
	s.random.QueueID("m1")
	controller := s.newController(s.storage, model.SchemeElo)

	result, err := controller.Submit(s.ctx, SubmitRequest{Players: []model.PlayerID{"p1", "p2"}, Winner: "p2"})
	s.Require().NoError(err)
	s.True(result.Accepted)
	s.Equal(model.MatchID("m1"), result.Match.ID)

	p1, p2 := s.player("p1"), s.player("p2")
	s.Equal(984.0, p1.Elo)
	s.Equal(-16.0, p1.EloDelta)
	s.Equal(1, p1.GamesLost)
	s.Equal(0, p1.GamesWon)
	s.Equal(1016.0, p2.Elo)
	s.Equal(16.0, p2.EloDelta)
	s.Equal(1, p2.GamesWon)

	matches := s.matches()
	s.Require().Len(matches, 1)
	s.Equal(model.PlayerID("p2"), matches[0].Winner)
	s.Equal(s.clock.CurrentTime.Add(-time.Minute).UnixMilli(), matches[0].Timestamp)
}

func (s *ControllerSuite) TestDoubleSubmitCountsTwice() {
	s.addPlayer("p1", model.SchemeElo)
	s.addPlayer("p2", model.SchemeElo)
	controller := s.newController(s.storage, model.SchemeElo)
	req := SubmitRequest{Players: []model.PlayerID{"p1", "p2"}, Winner: "p1"}

	_, err := controller.Submit(s.ctx, req)
	s.Require().NoError(err)
	_, err = controller.Submit(s.ctx, req)
	s.Require().NoError(err)

	s.Equal(2, s.player("p1").GamesWon)
	s.Equal(2, s.player("p2").GamesLost)

	matches := s.matches()
	s.Require().Len(matches, 2)
	s.NotEqual(matches[0].ID, matches[1].ID)
	s.Less(matches[0].Timestamp, matches[1].Timestamp)
}

func (s *ControllerSuite) TestUnknownParticipantDropped() {
	s.addPlayer("p1", model.SchemeElo)
	s.addPlayer("p2", model.SchemeElo)
	controller := s.newController(s.storage, model.SchemeElo)

	result, err := controller.Submit(s.ctx, SubmitRequest{Players: []model.PlayerID{"p1", "ghost", "p2"}, Winner: "p1"})
	s.Require().NoError(err)

	// Only resolved players are rated; the match keeps the submitted list
	s.Len(result.Updates, 2)
	s.Equal(1016.0, s.player("p1").Elo)
	s.Equal([]model.PlayerID{"p1", "ghost", "p2"}, s.matches()[0].Players)

	_, err = s.storage.Get(s.ctx, model.CollectionPlayers, "ghost")
	s.ErrorIs(err, model.ErrDocumentNotFound)
}

// Bayes tests

func (s *ControllerSuite) TestBayesSubmission() {
	s.addPlayer("p1", model.SchemeBayes)
	s.addPlayer("p2", model.SchemeBayes)
	s.addPlayer("p3", model.SchemeBayes)
	controller := s.newController(s.storage, model.SchemeBayes)

	result, err := controller.Submit(s.ctx, SubmitRequest{
		Players: []model.PlayerID{"p1", "p2", "p3"},
		Winner:  "p3",
		GameID:  "azul",
	})
	s.Require().NoError(err)
	s.True(result.Accepted)
	s.Equal(model.GameID("azul"), result.Match.GameID)

	winner, _ := s.player("p3").StatsFor("azul")
	s.Equal(2.0, winner.BayesAlpha)
	s.InDelta(2.0/3, winner.BayesWinRate, 1e-12)

	for _, id := range []string{"p1", "p2"} {
		loser, ok := s.player(id).StatsFor("azul")
		s.Require().True(ok)
		s.InDelta(1.0/3, loser.BayesWinRate, 1e-12)
		s.Equal(1, loser.GamesLost)
	}
}

func (s *ControllerSuite) TestBayesKeepsOtherGames() {
	s.addPlayer("p1", model.SchemeBayes)
	s.addPlayer("p2", model.SchemeBayes)
	controller := s.newController(s.storage, model.SchemeBayes)

	_, err := controller.Submit(s.ctx, SubmitRequest{Players: []model.PlayerID{"p1", "p2"}, Winner: "p1", GameID: "azul"})
	s.Require().NoError(err)
	_, err = controller.Submit(s.ctx, SubmitRequest{Players: []model.PlayerID{"p1", "p2"}, Winner: "p2", GameID: "catan"})
	s.Require().NoError(err)

	p1 := s.player("p1")
	s.Len(p1.Games, 2)
	s.Equal(1, p1.Games["azul"].GamesWon)
	s.Equal(1, p1.Games["catan"].GamesLost)
}

// Failure tests

func (s *ControllerSuite) TestPatchFailureStillRecordsMatch() {
	s.addPlayer("p1", model.SchemeElo)
	s.addPlayer("p2", model.SchemeElo)
	store := &failingStorage{Storage: s.storage, failPlayer: "p1"}
	controller := s.newController(store, model.SchemeElo)

	result, err := controller.Submit(s.ctx, SubmitRequest{Players: []model.PlayerID{"p1", "p2"}, Winner: "p1"})
	s.ErrorIs(err, errWriteFailed)
	s.True(result.Accepted)

	// No rollback: p2 and the match are written, p1 is not
	s.Equal(0, s.player("p1").GamesWon)
	s.Equal(1, s.player("p2").GamesLost)
	s.Len(s.matches(), 1)
}

func (s *ControllerSuite) TestAppendFailureKeepsStats() {
	s.addPlayer("p1", model.SchemeElo)
	s.addPlayer("p2", model.SchemeElo)
	store := &failingStorage{Storage: s.storage, failMatches: true}
	controller := s.newController(store, model.SchemeElo)

	result, err := controller.Submit(s.ctx, SubmitRequest{Players: []model.PlayerID{"p1", "p2"}, Winner: "p1"})
	s.ErrorIs(err, errWriteFailed)
	s.True(result.Accepted)
	s.Empty(result.Match.ID)

	s.Equal(1, s.player("p1").GamesWon)
	s.Empty(s.matches())
}

func (s *ControllerSuite) TestReadFailureWritesNothing() {
	s.addPlayer("p1", model.SchemeElo)
	s.addPlayer("p2", model.SchemeElo)
	before := s.snapshotAll()
	controller := s.newController(&failingStorage{Storage: s.storage, failReads: true}, model.SchemeElo)

	result, err := controller.Submit(s.ctx, SubmitRequest{Players: []model.PlayerID{"p1", "p2"}, Winner: "p1"})
	s.ErrorIs(err, errReadFailed)
	s.False(result.Accepted)
	s.Equal(before, s.snapshotAll())
}

func (s *ControllerSuite) TestBayesConsecutiveGamesKeepEachOther() {
	s.addPlayer("p1", model.SchemeBayes)
	s.addPlayer("p2", model.SchemeBayes)
	controller := s.newController(s.storage, model.SchemeBayes)

	_, err := controller.Submit(s.ctx, SubmitRequest{Players: []model.PlayerID{"p1", "p2"}, Winner: "p1", GameID: "catan"})
	s.Require().NoError(err)
	_, err = controller.Submit(s.ctx, SubmitRequest{Players: []model.PlayerID{"p1", "p2"}, Winner: "p2", GameID: "azul"})
	s.Require().NoError(err)

	p1 := s.player("p1")
	s.Require().Len(p1.Games, 2)
	s.Equal(1, p1.Games["catan"].GamesWon)
	s.Equal(1, p1.Games["azul"].GamesLost)
}

func (s *ControllerSuite) TestBayesRepairsInconsistentStats() {
	p := model.NewPlayer("p1", model.ColourBlue, model.SchemeBayes)
	p.Games = map[model.GameID]model.GameStats{
		"catan": {BayesAlpha: 10, BayesBeta: 1, BayesWinRate: 10.0 / 11, GamesPlayed: 3, GamesWon: 2, GamesLost: 1},
	}
	s.Require().NoError(s.storage.Set(s.ctx, model.CollectionPlayers, "p1", p))
	s.addPlayer("p2", model.SchemeBayes)
	controller := s.newController(s.storage, model.SchemeBayes)

	_, err := controller.Submit(s.ctx, SubmitRequest{Players: []model.PlayerID{"p1", "p2"}, Winner: "p1", GameID: "catan"})
	s.Require().NoError(err)

	stats := s.player("p1").Games["catan"]
	s.True(rating.ValidateStats(stats))
	s.Equal(4.0, stats.BayesAlpha)
	s.Equal(2.0, stats.BayesBeta)
	s.Equal(4, stats.GamesPlayed)
}
