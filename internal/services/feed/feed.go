// Package feed keeps the latest decoded snapshot of every collection,
// fed by live store subscriptions.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/gamenight/internal/dependencies/clock"
	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/storage"
)

const listenerBuffer = 16

// Feed is the in-memory view of the store that reads are served from
type Feed struct {
	store  storage.Storage
	clock  clock.Clock
	logger *slog.Logger

	mu      sync.RWMutex
	players []model.Player
	games   []model.Game
	matches []model.Match
	seen    map[model.Collection]bool

	ready     chan struct{}
	readyOnce sync.Once

	listenMu  sync.Mutex
	listeners map[int]chan model.ChangeEvent
	nextID    int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a feed over store. Call Start to begin receiving data.
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Feed {
	return &Feed{
		store:     store,
		clock:     clk,
		logger:    logger,
		players:   []model.Player{},
		games:     []model.Game{},
		matches:   []model.Match{},
		seen:      make(map[model.Collection]bool),
		ready:     make(chan struct{}),
		listeners: make(map[int]chan model.ChangeEvent),
	}
}

// Start subscribes to every collection. Snapshots are applied in the
// background until ctx is done or Close is called.
func (f *Feed) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel

	for _, collection := range model.Collections() {
		sub, err := f.store.Subscribe(ctx, collection)
		if err != nil {
			cancel()
			f.wg.Wait()
			return fmt.Errorf("subscribe to %s: %w", collection, err)
		}

		f.wg.Add(1)
		go f.run(ctx, sub)
	}
	return nil
}

func (f *Feed) run(ctx context.Context, sub *storage.Subscription) {
	defer f.wg.Done()
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-sub.C():
			if !ok {
				f.logger.Warn("subscription ended", slog.String("collection", string(sub.Collection())))
				return
			}
			f.apply(snap)
		}
	}
}

// apply replaces the cached contents of the snapshot's collection
func (f *Feed) apply(snap storage.Snapshot) {
	f.mu.Lock()
	switch snap.Collection {
	case model.CollectionPlayers:
		f.players = storage.DecodePlayers(snap)
	case model.CollectionGames:
		f.games = storage.DecodeGames(snap)
	case model.CollectionMatches:
		f.matches = storage.DecodeMatches(snap)
	default:
		f.mu.Unlock()
		return
	}
	f.seen[snap.Collection] = true
	allSeen := len(f.seen) == len(model.Collections())
	f.mu.Unlock()

	f.logger.Debug("snapshot applied",
		slog.String("collection", string(snap.Collection)),
		slog.Int("documents", len(snap.Documents)),
	)

	if allSeen {
		f.readyOnce.Do(func() { close(f.ready) })
	}
	f.notify(model.ChangeEvent{Collection: snap.Collection, Timestamp: f.clock.Now()})
}

func (f *Feed) notify(event model.ChangeEvent) {
	f.listenMu.Lock()
	defer f.listenMu.Unlock()
	for _, ch := range f.listeners {
		select {
		case ch <- event:
		default:
			// Listener is behind; it will pick up the state on its next read
		}
	}
}

// Ready is closed once every collection has delivered its first snapshot
func (f *Feed) Ready() <-chan struct{} {
	return f.ready
}

// WaitReady blocks until the feed is ready or ctx is done
func (f *Feed) WaitReady(ctx context.Context) error {
	select {
	case <-f.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Listen returns a channel of change events and a function to stop
// listening. Events are dropped for a listener that falls behind.
func (f *Feed) Listen() (<-chan model.ChangeEvent, func()) {
	f.listenMu.Lock()
	defer f.listenMu.Unlock()

	id := f.nextID
	f.nextID++
	ch := make(chan model.ChangeEvent, listenerBuffer)
	f.listeners[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.listenMu.Lock()
			defer f.listenMu.Unlock()
			delete(f.listeners, id)
			close(ch)
		})
	}
}

// Close stops all subscriptions and waits for them to finish
func (f *Feed) Close() {
	if f.cancel != nil {
		f.cancel()
	}
	f.wg.Wait()
}

// Players returns a copy of the current roster
func (f *Feed) Players() []model.Player {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]model.Player, len(f.players))
	for i, p := range f.players {
		out[i] = clonePlayer(p)
	}
	return out
}

// Games returns a copy of the current games
func (f *Feed) Games() []model.Game {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]model.Game, len(f.games))
	copy(out, f.games)
	return out
}

// Matches returns a copy of the current matches
func (f *Feed) Matches() []model.Match {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]model.Match, len(f.matches))
	for i, m := range f.matches {
		m.Players = append([]model.PlayerID(nil), m.Players...)
		out[i] = m
	}
	return out
}

// Player returns one player from the current roster
func (f *Feed) Player(id model.PlayerID) (model.Player, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, p := range f.players {
		if p.ID == id {
			return clonePlayer(p), true
		}
	}
	return model.Player{}, false
}

// Game returns one game
func (f *Feed) Game(id model.GameID) (model.Game, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, g := range f.games {
		if g.ID == id {
			return g, true
		}
	}
	return model.Game{}, false
}

func clonePlayer(p model.Player) model.Player {
	if p.Games != nil {
		games := make(map[model.GameID]model.GameStats, len(p.Games))
		for id, s := range p.Games {
			games[id] = s
		}
		p.Games = games
	}
	return p
}
