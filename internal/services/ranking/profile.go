package ranking

import (
	"sort"

	"github.com/mcoot/gamenight/internal/model"
)

// GameStatRow is a player's record for one game
type GameStatRow struct {
	GameID   model.GameID    `json:"gameId"`
	GameName string          `json:"gameName"`
	Stats    model.GameStats `json:"stats"`
}

// ProfileView is everything shown on a player's page
type ProfileView struct {
	Player     model.Player   `json:"player"`
	Played     int            `json:"played"`
	Won        int            `json:"won"`
	Lost       int            `json:"lost"`
	WinPercent float64        `json:"winPercent"` // 0-100
	Elo        float64        `json:"elo,omitempty"`
	EloDelta   float64        `json:"eloDelta,omitempty"`
	Games      []GameStatRow  `json:"games,omitempty"`
	History    []HistoryEntry `json:"history"`
}

// Profile builds the profile of one player
func Profile(playerID model.PlayerID, players []model.Player, games []model.Game, matches []model.Match, scheme model.RatingScheme) (ProfileView, error) {
	var player *model.Player
	for i := range players {
		if players[i].ID == playerID {
			player = &players[i]
			break
		}
	}
	if player == nil {
		return ProfileView{}, model.ErrPlayerNotFound
	}

	view := ProfileView{
		Player:  *player,
		History: History(matches, players, games, playerID),
	}

	switch scheme {
	case model.SchemeBayes:
		names := make(map[model.GameID]string, len(games))
		for _, g := range games {
			names[g.ID] = g.Name
		}
		for id, stats := range player.Games {
			name, ok := names[id]
			if !ok {
				name = UnknownGame
			}
			view.Games = append(view.Games, GameStatRow{GameID: id, GameName: name, Stats: stats})
			view.Played += stats.GamesPlayed
			view.Won += stats.GamesWon
			view.Lost += stats.GamesLost
		}
		sort.Slice(view.Games, func(i, j int) bool {
			if view.Games[i].GameName != view.Games[j].GameName {
				return view.Games[i].GameName < view.Games[j].GameName
			}
			return view.Games[i].GameID < view.Games[j].GameID
		})
	default:
		view.Played = player.GamesPlayed()
		view.Won = player.GamesWon
		view.Lost = player.GamesLost
		view.Elo = player.Elo
		view.EloDelta = player.EloDelta
	}

	if view.Played > 0 {
		view.WinPercent = float64(view.Won) / float64(view.Played) * 100
	}
	return view, nil
}
