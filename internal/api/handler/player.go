package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gamenight/internal/api/request"
	"github.com/mcoot/gamenight/internal/api/response"
	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/services/feed"
	"github.com/mcoot/gamenight/internal/services/ranking"
	"github.com/mcoot/gamenight/internal/services/roster"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	feed             *feed.Feed
	rosterController *roster.Controller
	scheme           model.RatingScheme
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(feed *feed.Feed, rosterController *roster.Controller, scheme model.RatingScheme) *PlayerHandler {
	return &PlayerHandler{
		feed:             feed,
		rosterController: rosterController,
		scheme:           scheme,
	}
}

// List handles GET /api/v1/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players := h.feed.Players()
	resp := response.PlayerList{Players: make([]response.Player, len(players))}
	for i := range players {
		resp.Players[i] = response.PlayerFromModel(&players[i])
	}
	response.JSON(w, http.StatusOK, resp)
}

// Create handles POST /api/v1/players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePlayerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	player, err := h.rosterController.AddPlayer(r.Context(), req.Name, req.Colour)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PlayerFromModel(player))
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	profile, err := ranking.Profile(id, h.feed.Players(), h.feed.Games(), h.feed.Matches(), h.scheme)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProfileFromView(profile))
}

// Delete handles DELETE /api/v1/players/{id}
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	if err := h.rosterController.RemovePlayer(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
