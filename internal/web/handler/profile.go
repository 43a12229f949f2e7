package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/services/feed"
	"github.com/mcoot/gamenight/internal/services/ranking"
	"github.com/mcoot/gamenight/internal/web/sse"
	"github.com/mcoot/gamenight/internal/web/templates"
)

// ProfileHandler handles player pages
type ProfileHandler struct {
	feed   *feed.Feed
	scheme model.RatingScheme
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(feed *feed.Feed, scheme model.RatingScheme) *ProfileHandler {
	return &ProfileHandler{feed: feed, scheme: scheme}
}

// View renders a player's profile
func (h *ProfileHandler) View(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	view, err := ranking.Profile(id, h.feed.Players(), h.feed.Games(), h.feed.Matches(), h.scheme)
	if errors.Is(err, model.ErrPlayerNotFound) {
		renderError(w, r, http.StatusNotFound, "Player not found")
		return
	}
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "Failed to load player")
		return
	}

	data := templates.ProfileData{
		PageData: pageData(r, view.Player.Name),
		Scheme:   h.scheme,
		Profile:  view,
		Topic:    sse.ProfileTopic(id),
	}
	render(w, http.StatusOK, "profile", data)
}
