package sse

import (
	"errors"

	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/services/ranking"
	"github.com/mcoot/gamenight/internal/web/templates"
)

// Source is the current view of the store that fragments are rendered from
type Source interface {
	Players() []model.Player
	Games() []model.Game
	Matches() []model.Match
}

// Renderer renders the page fragments pushed to web clients
type Renderer struct {
	source Source
	scheme model.RatingScheme
}

// NewRenderer creates a new Renderer
func NewRenderer(source Source, scheme model.RatingScheme) *Renderer {
	return &Renderer{source: source, scheme: scheme}
}

// RenderScoreboard renders the leaderboard table for a game
func (r *Renderer) RenderScoreboard(gameID model.GameID) (string, error) {
	return templates.Fragment("scoreboard-table", templates.ScoreboardData{
		Scheme:       r.scheme,
		SelectedGame: gameID,
		Rows:         ranking.Leaderboard(r.source.Players(), r.scheme, gameID),
	})
}

// RenderHistory renders the full match history list
func (r *Renderer) RenderHistory() (string, error) {
	return templates.Fragment("history-list", templates.HistoryData{
		Entries: ranking.History(r.source.Matches(), r.source.Players(), r.source.Games(), ""),
	})
}

// RenderProfile renders a player's profile card
func (r *Renderer) RenderProfile(id model.PlayerID) (string, error) {
	view, err := ranking.Profile(id, r.source.Players(), r.source.Games(), r.source.Matches(), r.scheme)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return `<p class="empty muted">Player not found.</p>`, nil
	}
	if err != nil {
		return "", err
	}
	return templates.Fragment("profile-card", templates.ProfileData{Scheme: r.scheme, Profile: view})
}

// WrapForOOBSwap wraps HTML in a div with hx-swap-oob for out-of-band swaps
func WrapForOOBSwap(id, html string) string {
	return `<div id="` + id + `" hx-swap-oob="true">` + html + `</div>`
}
