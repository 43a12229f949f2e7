package sse

import (
	"context"
	"log/slog"

	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/web/templates"
)

// Event names pushed to web clients
const (
	EventScoreboardUpdate = "scoreboard-update"
	EventHistoryUpdate    = "history-update"
	EventProfileUpdate    = "profile-update"
)

// Broadcaster turns collection changes into SSE messages for every open hub
type Broadcaster struct {
	hubManager *HubManager
	renderer   *Renderer
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, renderer *Renderer, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		renderer:   renderer,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Run broadcasts every change event until ctx is done or events is closed
func (b *Broadcaster) Run(ctx context.Context, events <-chan model.ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			b.BroadcastChange(ev)
		}
	}
}

// BroadcastChange notifies every hub of a change to one collection
func (b *Broadcaster) BroadcastChange(ev model.ChangeEvent) {
	for _, hub := range b.hubManager.Hubs() {
		topic := hub.Topic()

		if topic == TopicChanges {
			hub.BroadcastEvent(string(ev.Collection), string(ev.Collection))
			continue
		}

		if topic == TopicHistory {
			b.broadcastRendered(hub, EventHistoryUpdate, templates.HistoryFragmentID, b.renderer.RenderHistory)
			continue
		}

		if gameID, ok := scoreboardGame(topic); ok {
			// Games only affect the scoreboard through the game picker
			if ev.Collection == model.CollectionGames {
				continue
			}
			b.broadcastRendered(hub, EventScoreboardUpdate, templates.ScoreboardFragmentID, func() (string, error) {
				return b.renderer.RenderScoreboard(gameID)
			})
			continue
		}

		if playerID, ok := profilePlayer(topic); ok {
			b.broadcastRendered(hub, EventProfileUpdate, templates.ProfileFragmentID, func() (string, error) {
				return b.renderer.RenderProfile(playerID)
			})
		}
	}
}

func (b *Broadcaster) broadcastRendered(hub *Hub, event, fragmentID string, render func() (string, error)) {
	if hub.ClientCount() == 0 {
		return
	}
	html, err := render()
	if err != nil {
		b.logger.Error("sse failed to render fragment",
			slog.String("topic", hub.Topic()),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(event, WrapForOOBSwap(fragmentID, html))
}
