package rating

import (
	"github.com/mcoot/gamenight/internal/model"
)

// ApplyBayes returns the participant's stats for gameID after one more
// match, starting from the uniform prior if they have never played it
func ApplyBayes(p model.Player, gameID model.GameID, isWinner bool) model.GameStats {
	stats, ok := p.StatsFor(gameID)
	if !ok {
		stats = model.PriorStats()
	}

	stats.GamesPlayed++
	if isWinner {
		stats.BayesAlpha++
		stats.GamesWon++
	} else {
		stats.BayesBeta++
		stats.GamesLost++
	}
	stats.BayesWinRate = stats.BayesAlpha / (stats.BayesAlpha + stats.BayesBeta)
	return stats
}

// GamesPatch returns the store patch writing updated stats for one game.
// The whole games map is sent since patches merge at the top level only.
func GamesPatch(p model.Player, gameID model.GameID, stats model.GameStats) map[string]any {
	games := make(map[model.GameID]model.GameStats, len(p.Games)+1)
	for id, s := range p.Games {
		games[id] = s
	}
	games[gameID] = stats
	return map[string]any{"games": games}
}

// ValidateStats reports whether stats satisfy the Beta-Bernoulli
// bookkeeping invariants
func ValidateStats(s model.GameStats) bool {
	const eps = 1e-9
	if s.GamesWon < 0 || s.GamesLost < 0 {
		return false
	}
	if s.GamesPlayed != s.GamesWon+s.GamesLost {
		return false
	}
	if !approx(s.BayesAlpha, float64(1+s.GamesWon), eps) || !approx(s.BayesBeta, float64(1+s.GamesLost), eps) {
		return false
	}
	return approx(s.BayesWinRate, s.BayesAlpha/(s.BayesAlpha+s.BayesBeta), eps)
}

// RepairStats rebuilds the posterior from the win and loss counters, which
// are taken as the source of truth. Negative counters are treated as zero.
func RepairStats(s model.GameStats) model.GameStats {
	won, lost := max(s.GamesWon, 0), max(s.GamesLost, 0)
	alpha, beta := float64(1+won), float64(1+lost)
	return model.GameStats{
		BayesAlpha:   alpha,
		BayesBeta:    beta,
		BayesWinRate: alpha / (alpha + beta),
		GamesPlayed:  won + lost,
		GamesWon:     won,
		GamesLost:    lost,
	}
}

func approx(a, b, eps float64) bool {
	d := a - b
	return d < eps && d > -eps
}
