package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/gamenight/internal/api/apierr"
	"github.com/mcoot/gamenight/internal/api/request"
	"github.com/mcoot/gamenight/internal/api/response"
	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/services/feed"
	"github.com/mcoot/gamenight/internal/services/match"
	"github.com/mcoot/gamenight/internal/services/ranking"
)

// MatchHandler handles match reporting and history
type MatchHandler struct {
	feed            *feed.Feed
	matchController *match.Controller
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(feed *feed.Feed, matchController *match.Controller) *MatchHandler {
	return &MatchHandler{
		feed:            feed,
		matchController: matchController,
	}
}

// History handles GET /api/v1/matches, newest first. ?player= narrows to
// matches that player took part in.
func (h *MatchHandler) History(w http.ResponseWriter, r *http.Request) {
	filter := model.PlayerID(r.URL.Query().Get("player"))
	entries := ranking.History(h.feed.Matches(), h.feed.Players(), h.feed.Games(), filter)
	response.JSON(w, http.StatusOK, response.HistoryFromEntries(entries))
}

// Get handles GET /api/v1/matches/{id}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.MatchID(mux.Vars(r)["id"])
	entry, err := ranking.Entry(id, h.feed.Matches(), h.feed.Players(), h.feed.Games())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.HistoryEntryFromModel(entry))
}

// Submit handles POST /api/v1/matches. A submission that fails validation
// is answered with accepted=false and records nothing.
func (h *MatchHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitMatchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	players := make([]model.PlayerID, len(req.Players))
	for i, p := range req.Players {
		players[i] = model.PlayerID(p)
	}

	result, err := h.matchController.Submit(r.Context(), match.SubmitRequest{
		Players: players,
		Winner:  model.PlayerID(req.Winner),
		GameID:  model.GameID(req.GameID),
	})
	if err != nil {
		if !result.Accepted {
			// Participants could not be loaded; nothing was written
			WriteError(w, apierr.NewInternalError())
			return
		}
		WriteError(w, apierr.NewStoreWriteError(err))
		return
	}

	resp := response.SubmitMatchResponse{Accepted: result.Accepted}
	if !result.Accepted {
		response.JSON(w, http.StatusOK, resp)
		return
	}

	m := response.MatchFromModel(result.Match)
	resp.Match = &m
	response.JSON(w, http.StatusCreated, resp)
}
