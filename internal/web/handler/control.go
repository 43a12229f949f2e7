package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/services/feed"
	"github.com/mcoot/gamenight/internal/services/match"
	"github.com/mcoot/gamenight/internal/services/roster"
	"github.com/mcoot/gamenight/internal/web/middleware"
	"github.com/mcoot/gamenight/internal/web/templates"
)

const controlPath = "/control"

// ControlHandler handles roster edits and match submission
type ControlHandler struct {
	feed             *feed.Feed
	rosterController *roster.Controller
	matchController  *match.Controller
	logger           *slog.Logger
}

// NewControlHandler creates a new ControlHandler
func NewControlHandler(feed *feed.Feed, rosterController *roster.Controller, matchController *match.Controller, logger *slog.Logger) *ControlHandler {
	return &ControlHandler{
		feed:             feed,
		rosterController: rosterController,
		matchController:  matchController,
		logger:           logger,
	}
}

// View renders the control page
func (h *ControlHandler) View(w http.ResponseWriter, r *http.Request) {
	data := templates.ControlData{
		PageData: pageData(r, "Control"),
		Scheme:   h.matchController.Scheme(),
		Players:  h.feed.Players(),
		Games:    h.feed.Games(),
		Colours:  model.Colours(),
	}
	render(w, http.StatusOK, "control", data)
}

// SubmitMatch handles the match report form
func (h *ControlHandler) SubmitMatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.done(w, r, "error", "Invalid form data")
		return
	}

	req := match.SubmitRequest{
		Winner: model.PlayerID(r.FormValue("winner")),
		GameID: model.GameID(r.FormValue("game_id")),
	}
	for _, id := range r.Form["players"] {
		req.Players = append(req.Players, model.PlayerID(id))
	}

	result, err := h.matchController.Submit(r.Context(), req)
	switch {
	case err != nil && !result.Accepted:
		h.logger.Error("web match submission failed", slog.String("error", err.Error()))
		h.done(w, r, "error", "The match could not be recorded")
	case err != nil:
		h.logger.Error("web match submission failed", slog.String("error", err.Error()))
		h.done(w, r, "error", "The match was only partly recorded")
	case !result.Accepted:
		h.done(w, r, "error", "Choose at least two players, a winner among them and a game")
	default:
		h.done(w, r, "success", "Match recorded")
	}
}

// AddPlayer handles the add player form
func (h *ControlHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.done(w, r, "error", "Invalid form data")
		return
	}

	player, err := h.rosterController.AddPlayer(r.Context(), r.FormValue("name"), r.FormValue("colour"))
	if err != nil {
		h.done(w, r, "error", rosterMessage(err))
		return
	}
	h.done(w, r, "success", "Added "+player.Name)
}

// RemovePlayer handles player removal
func (h *ControlHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])
	if err := h.rosterController.RemovePlayer(r.Context(), id); err != nil {
		h.done(w, r, "error", rosterMessage(err))
		return
	}
	h.done(w, r, "success", "Player removed")
}

// AddGame handles the add game form
func (h *ControlHandler) AddGame(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.done(w, r, "error", "Invalid form data")
		return
	}

	game, err := h.rosterController.AddGame(r.Context(), r.FormValue("name"), r.FormValue("type"))
	if err != nil {
		h.done(w, r, "error", rosterMessage(err))
		return
	}
	h.done(w, r, "success", "Added "+game.Name)
}

// RenameGame handles the rename game form
func (h *ControlHandler) RenameGame(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.done(w, r, "error", "Invalid form data")
		return
	}

	id := model.GameID(mux.Vars(r)["id"])
	game, err := h.rosterController.RenameGame(r.Context(), id, r.FormValue("name"))
	if err != nil {
		h.done(w, r, "error", rosterMessage(err))
		return
	}
	h.done(w, r, "success", "Renamed to "+game.Name)
}

// RemoveGame handles game removal
func (h *ControlHandler) RemoveGame(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])
	if err := h.rosterController.RemoveGame(r.Context(), id); err != nil {
		h.done(w, r, "error", rosterMessage(err))
		return
	}
	h.done(w, r, "success", "Game removed")
}

// done flashes a message and returns to the control page
func (h *ControlHandler) done(w http.ResponseWriter, r *http.Request, flashType, message string) {
	middleware.SetFlash(w, flashType, message)
	http.Redirect(w, r, controlPath, http.StatusSeeOther)
}

func rosterMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidName):
		return "Name is required"
	case errors.Is(err, model.ErrInvalidColour):
		return "Pick one of the listed colours"
	case errors.Is(err, model.ErrPlayerNotFound):
		return "Player not found"
	case errors.Is(err, model.ErrGameNotFound):
		return "Game not found"
	default:
		return "Something went wrong, try again"
	}
}
