package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gamenight/internal/api/request"
	"github.com/mcoot/gamenight/internal/api/response"
	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/services/feed"
	"github.com/mcoot/gamenight/internal/services/roster"
)

// GameHandler handles game catalogue endpoints
type GameHandler struct {
	feed             *feed.Feed
	rosterController *roster.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(feed *feed.Feed, rosterController *roster.Controller) *GameHandler {
	return &GameHandler{
		feed:             feed,
		rosterController: rosterController,
	}
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games := h.feed.Games()
	resp := response.GameList{Games: make([]response.Game, len(games))}
	for i := range games {
		resp.Games[i] = response.GameFromModel(&games[i])
	}
	response.JSON(w, http.StatusOK, resp)
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	game, err := h.rosterController.AddGame(r.Context(), req.Name, req.Type)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(game))
}

// Rename handles PATCH /api/v1/games/{id}
func (h *GameHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	var req request.RenameGameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	game, err := h.rosterController.RenameGame(r.Context(), id, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	if err := h.rosterController.RemoveGame(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
