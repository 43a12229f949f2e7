package ranking

import (
	"sort"

	"github.com/mcoot/gamenight/internal/model"
)

// Row is one leaderboard line
type Row struct {
	Position    int          `json:"position"` // 1-based
	Player      model.Player `json:"player"`
	Rating      float64      `json:"rating"` // elo, or bayesWinRate for the game
	EloDelta    float64      `json:"eloDelta,omitempty"`
	WinRate     float64      `json:"winRate"`
	Played      int          `json:"played"`
	Won         int          `json:"won"`
	Lost        int          `json:"lost"`
	Established bool         `json:"established"`
}

// Leaderboard orders players for display. Under the elo scheme every
// player is ranked by rating. Under the bayes scheme only players with
// stats for gameID are ranked: established players first, then newcomers,
// each band by win rate. Ties keep roster order.
func Leaderboard(players []model.Player, scheme model.RatingScheme, gameID model.GameID) []Row {
	var rows []Row
	switch scheme {
	case model.SchemeElo:
		rows = eloRows(players)
	case model.SchemeBayes:
		if gameID == "" {
			return []Row{}
		}
		rows = bayesRows(players, gameID)
	default:
		return []Row{}
	}

	for i := range rows {
		rows[i].Position = i + 1
	}
	return rows
}

func eloRows(players []model.Player) []Row {
	rows := make([]Row, 0, len(players))
	for _, p := range players {
		rows = append(rows, Row{
			Player:      p,
			Rating:      p.Elo,
			EloDelta:    p.EloDelta,
			WinRate:     p.WinPercent(),
			Played:      p.GamesPlayed(),
			Won:         p.GamesWon,
			Lost:        p.GamesLost,
			Established: p.GamesPlayed() >= model.EstablishedThreshold,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Rating > rows[j].Rating
	})
	return rows
}

func bayesRows(players []model.Player, gameID model.GameID) []Row {
	rows := make([]Row, 0, len(players))
	for _, p := range players {
		stats, ok := p.StatsFor(gameID)
		if !ok {
			continue
		}
		rows = append(rows, Row{
			Player:      p,
			Rating:      stats.BayesWinRate,
			WinRate:     stats.BayesWinRate,
			Played:      stats.GamesPlayed,
			Won:         stats.GamesWon,
			Lost:        stats.GamesLost,
			Established: stats.Established(),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Rating > rows[j].Rating
	})

	// Partition into bands, keeping the win-rate order within each
	established := make([]Row, 0, len(rows))
	newcomers := make([]Row, 0)
	for _, r := range rows {
		if r.Established {
			established = append(established, r)
		} else {
			newcomers = append(newcomers, r)
		}
	}
	return append(established, newcomers...)
}
