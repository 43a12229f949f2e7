package handler

import (
	"net/http"

	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/services/feed"
	"github.com/mcoot/gamenight/internal/services/ranking"
	"github.com/mcoot/gamenight/internal/web/sse"
	"github.com/mcoot/gamenight/internal/web/templates"
)

// ScoreboardHandler handles the read-only pages and their event streams
type ScoreboardHandler struct {
	feed       *feed.Feed
	scheme     model.RatingScheme
	hubManager *sse.HubManager
}

// NewScoreboardHandler creates a new ScoreboardHandler
func NewScoreboardHandler(feed *feed.Feed, scheme model.RatingScheme, hubManager *sse.HubManager) *ScoreboardHandler {
	return &ScoreboardHandler{
		feed:       feed,
		scheme:     scheme,
		hubManager: hubManager,
	}
}

// Scoreboard renders the leaderboard. Under the bayes scheme the game is
// chosen with ?game=.
func (h *ScoreboardHandler) Scoreboard(w http.ResponseWriter, r *http.Request) {
	var gameID model.GameID
	if h.scheme == model.SchemeBayes {
		gameID = model.GameID(r.URL.Query().Get("game"))
		if gameID != "" {
			if _, ok := h.feed.Game(gameID); !ok {
				renderError(w, r, http.StatusNotFound, "Game not found")
				return
			}
		}
	}

	data := templates.ScoreboardData{
		PageData:     pageData(r, "Scoreboard"),
		Scheme:       h.scheme,
		Games:        h.feed.Games(),
		SelectedGame: gameID,
		Rows:         ranking.Leaderboard(h.feed.Players(), h.scheme, gameID),
		Topic:        sse.ScoreboardTopic(gameID),
	}
	render(w, http.StatusOK, "scoreboard", data)
}

// History renders the match history, optionally for one player with ?player=
func (h *ScoreboardHandler) History(w http.ResponseWriter, r *http.Request) {
	filter := model.PlayerID(r.URL.Query().Get("player"))

	data := templates.HistoryData{
		PageData: pageData(r, "History"),
		Entries:  ranking.History(h.feed.Matches(), h.feed.Players(), h.feed.Games(), filter),
		Topic:    sse.TopicHistory,
	}
	render(w, http.StatusOK, "history", data)
}

// Events streams updates for the topic named by ?topic=
func (h *ScoreboardHandler) Events(w http.ResponseWriter, r *http.Request) {
	topic, ok := sse.ParseTopic(r.URL.Query().Get("topic"))
	if !ok {
		http.Error(w, "Unknown topic", http.StatusBadRequest)
		return
	}

	hub := h.hubManager.GetOrCreateHub(topic)
	sse.ServeSSE(w, r, hub)
}
