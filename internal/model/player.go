package model

import "encoding/json"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// DefaultElo is the rating a newly registered player starts from
const DefaultElo = 1000

// EstablishedThreshold is the number of games for one title after which a
// player is ranked in the established band
const EstablishedThreshold = 3

// Player is a roster entry. Which rating fields are populated depends on
// the rating scheme the engine runs with: Elo/EloDelta/GamesWon/GamesLost
// for the global Elo scheme, Games for the per-game Bayesian scheme.
type Player struct {
	ID     PlayerID `json:"-"`
	Name   string   `json:"name"`
	Colour Colour   `json:"colour"`

	// Global Elo scheme
	Elo       float64 `json:"elo"`
	EloDelta  float64 `json:"eloDelta"`
	GamesWon  int     `json:"gamesWon"`
	GamesLost int     `json:"gamesLost"`

	// Per-game Bayesian scheme
	Games map[GameID]GameStats `json:"games"`
}

type eloRecord struct {
	Name      string  `json:"name"`
	Colour    Colour  `json:"colour"`
	Elo       float64 `json:"elo"`
	EloDelta  float64 `json:"eloDelta"`
	GamesWon  int     `json:"gamesWon"`
	GamesLost int     `json:"gamesLost"`
}

type bayesRecord struct {
	Name   string               `json:"name"`
	Colour Colour               `json:"colour"`
	Games  map[GameID]GameStats `json:"games"`
}

// MarshalJSON writes exactly one scheme's record shape. A player with a
// games map (even an empty one) is a Bayesian record; any other player is
// an Elo record with all four fields present.
func (p Player) MarshalJSON() ([]byte, error) {
	if p.Games != nil {
		return json.Marshal(bayesRecord{Name: p.Name, Colour: p.Colour, Games: p.Games})
	}
	return json.Marshal(eloRecord{
		Name:      p.Name,
		Colour:    p.Colour,
		Elo:       p.Elo,
		EloDelta:  p.EloDelta,
		GamesWon:  p.GamesWon,
		GamesLost: p.GamesLost,
	})
}

// NewPlayer creates a player record with default stats for the given scheme
func NewPlayer(name string, colour Colour, scheme RatingScheme) *Player {
	p := &Player{
		Name:   name,
		Colour: colour,
	}
	switch scheme {
	case SchemeElo:
		p.Elo = DefaultElo
	case SchemeBayes:
		p.Games = make(map[GameID]GameStats)
	}
	return p
}

// GamesPlayed returns the number of matches counted by the global counters
func (p *Player) GamesPlayed() int {
	return p.GamesWon + p.GamesLost
}

// WinPercent returns won/played in [0,1], or 0 before any match
func (p *Player) WinPercent() float64 {
	played := p.GamesPlayed()
	if played == 0 {
		return 0
	}
	return float64(p.GamesWon) / float64(played)
}

// StatsFor returns the player's stats for a game and whether any exist
func (p *Player) StatsFor(gameID GameID) (GameStats, bool) {
	stats, ok := p.Games[gameID]
	return stats, ok
}

// GameStats is a player's Beta-Bernoulli record for a single game
type GameStats struct {
	BayesAlpha   float64 `json:"bayesAlpha"`
	BayesBeta    float64 `json:"bayesBeta"`
	BayesWinRate float64 `json:"bayesWinRate"`
	GamesPlayed  int     `json:"gamesPlayed"`
	GamesWon     int     `json:"gamesWon"`
	GamesLost    int     `json:"gamesLost"`
}

// PriorStats returns the uniform prior used before a player's first match of a game
func PriorStats() GameStats {
	return GameStats{
		BayesAlpha:   1,
		BayesBeta:    1,
		BayesWinRate: 0.5,
	}
}

// Established reports whether enough games have been played to leave the newcomer band
func (s GameStats) Established() bool {
	return s.GamesPlayed >= EstablishedThreshold
}
