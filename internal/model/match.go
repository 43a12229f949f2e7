package model

import "time"

// MatchID uniquely identifies a reported match
type MatchID string

// Match is an immutable record of one finished match
type Match struct {
	ID        MatchID    `json:"-"`
	Timestamp int64      `json:"timestamp"` // epoch milliseconds
	Players   []PlayerID `json:"players"`
	Winner    PlayerID   `json:"winner"`
	GameID    GameID     `json:"gameId,omitempty"`
}

// Time returns the match timestamp as a time.Time
func (m *Match) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}

// HasPlayer returns true if the player took part in the match
func (m *Match) HasPlayer(id PlayerID) bool {
	for _, p := range m.Players {
		if p == id {
			return true
		}
	}
	return false
}
