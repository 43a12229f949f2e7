package handler

import (
	"net/http"

	"github.com/mcoot/gamenight/internal/api/response"
	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/services/feed"
	"github.com/mcoot/gamenight/internal/services/ranking"
)

// ScoreboardHandler serves the leaderboard
type ScoreboardHandler struct {
	feed   *feed.Feed
	scheme model.RatingScheme
}

// NewScoreboardHandler creates a new scoreboard handler
func NewScoreboardHandler(feed *feed.Feed, scheme model.RatingScheme) *ScoreboardHandler {
	return &ScoreboardHandler{
		feed:   feed,
		scheme: scheme,
	}
}

// Get handles GET /api/v1/scoreboard. Under the bayes scheme ?game= picks
// the game; without it the board is empty.
func (h *ScoreboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	var gameID model.GameID
	if h.scheme.RequiresGame() {
		gameID = model.GameID(r.URL.Query().Get("game"))
		if gameID != "" {
			if _, ok := h.feed.Game(gameID); !ok {
				WriteError(w, model.ErrGameNotFound)
				return
			}
		}
	}

	rows := ranking.Leaderboard(h.feed.Players(), h.scheme, gameID)
	response.JSON(w, http.StatusOK, response.ScoreboardFromRows(h.scheme, gameID, rows))
}
