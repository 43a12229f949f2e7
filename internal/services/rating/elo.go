package rating

import (
	"errors"
	"fmt"
	"math"

	"github.com/mcoot/gamenight/internal/model"
)

// K is the Elo K-factor applied to every pairwise comparison
const K = 32

// EloMode selects how a multi-player match is resolved into rating changes
type EloMode string

const (
	// ModeSequential applies each pairwise comparison in turn, rounding
	// after every step. The result depends on opponent order.
	ModeSequential EloMode = "sequential"
	// ModeSimultaneous sums the pairwise changes against pre-match ratings
	// and rounds once
	ModeSimultaneous EloMode = "simultaneous"
)

// ErrUnknownEloMode is returned when parsing an unrecognised mode
var ErrUnknownEloMode = errors.New("unknown elo mode")

// ParseEloMode parses a mode name; empty selects sequential
func ParseEloMode(s string) (EloMode, error) {
	switch EloMode(s) {
	case "", ModeSequential:
		return ModeSequential, nil
	case ModeSimultaneous:
		return ModeSimultaneous, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEloMode, s)
	}
}

// EloResult is a participant's global-scheme record after one match
type EloResult struct {
	Elo       float64 `json:"elo"`
	EloDelta  float64 `json:"eloDelta"`
	GamesWon  int     `json:"gamesWon"`
	GamesLost int     `json:"gamesLost"`
}

// Fields returns the result as a store patch
func (r EloResult) Fields() map[string]any {
	return map[string]any{
		"elo":       r.Elo,
		"eloDelta":  r.EloDelta,
		"gamesWon":  r.GamesWon,
		"gamesLost": r.GamesLost,
	}
}

// ExpectedScore is the probability the Elo model gives a player rated own
// of beating a player rated opp
func ExpectedScore(own, opp float64) float64 {
	return 1 / (1 + math.Pow(10, (opp-own)/400))
}

// UpdateRating returns current moved by one comparison against opp, rounded
// to a whole number (halves round up)
func UpdateRating(current, opp, score, k float64) float64 {
	return roundHalfUp(current + k*(score-ExpectedScore(current, opp)))
}

// ApplyElo computes every participant's new rating and counters for a
// match won by winner. Opponents are always taken at their pre-match
// rating. A participant listed more than once is not compared with itself
// and receives the same result for each listing.
func ApplyElo(participants []model.Player, winner model.PlayerID, mode EloMode) map[model.PlayerID]EloResult {
	results := make(map[model.PlayerID]EloResult, len(participants))

	for _, p := range participants {
		if _, done := results[p.ID]; done {
			continue
		}

		score := 0.0
		if p.ID == winner {
			score = 1
		}

		var elo float64
		switch mode {
		case ModeSimultaneous:
			var sum float64
			for _, opp := range participants {
				if opp.ID == p.ID {
					continue
				}
				sum += K * (score - ExpectedScore(p.Elo, opp.Elo))
			}
			elo = roundHalfUp(p.Elo + sum)
		default:
			elo = p.Elo
			for _, opp := range participants {
				if opp.ID == p.ID {
					continue
				}
				elo = UpdateRating(elo, opp.Elo, score, K)
			}
		}

		res := EloResult{
			Elo:       elo,
			EloDelta:  elo - p.Elo,
			GamesWon:  p.GamesWon,
			GamesLost: p.GamesLost,
		}
		if p.ID == winner {
			res.GamesWon++
		} else {
			res.GamesLost++
		}
		results[p.ID] = res
	}

	return results
}

func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
