package ranking

import (
	"sort"

	"github.com/mcoot/gamenight/internal/model"
)

// Placeholders for references to removed records
const (
	UnknownPlayer    = "Unknown"
	UnknownGame      = "Unknown Game"
	UnknownPlayerHex = "#444"
)

// Participant is a match participant resolved for display
type Participant struct {
	ID       model.PlayerID `json:"id"`
	Name     string         `json:"name"`
	Colour   string         `json:"colour"` // hex
	IsWinner bool           `json:"isWinner"`
}

// HistoryEntry is a match resolved against the current roster and games
type HistoryEntry struct {
	Match        model.Match   `json:"match"`
	GameName     string        `json:"gameName"`
	ImageSlug    string        `json:"imageSlug"`
	Participants []Participant `json:"participants"` // winner first
	WinnerName   string        `json:"winnerName"`
}

// History resolves matches newest first. With a non-empty filter only that
// player's matches are included. Dangling player and game references are
// rendered with placeholders.
func History(matches []model.Match, players []model.Player, games []model.Game, filter model.PlayerID) []HistoryEntry {
	playerMap := make(map[model.PlayerID]model.Player, len(players))
	for _, p := range players {
		playerMap[p.ID] = p
	}
	gameMap := make(map[model.GameID]model.Game, len(games))
	for _, g := range games {
		gameMap[g.ID] = g
	}

	selected := make([]model.Match, 0, len(matches))
	for _, m := range matches {
		if filter != "" && !m.HasPlayer(filter) {
			continue
		}
		selected = append(selected, m)
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Timestamp > selected[j].Timestamp
	})

	entries := make([]HistoryEntry, 0, len(selected))
	for _, m := range selected {
		gameName := UnknownGame
		if g, ok := gameMap[m.GameID]; ok && g.Name != "" {
			gameName = g.Name
		}

		entry := HistoryEntry{
			Match:      m,
			GameName:   gameName,
			ImageSlug:  model.ImageSlug(gameName),
			WinnerName: displayName(playerMap, m.Winner),
		}
		for _, id := range orderWinnerFirst(m) {
			entry.Participants = append(entry.Participants, participant(playerMap, id, id == m.Winner))
		}
		entries = append(entries, entry)
	}
	return entries
}

// Entry resolves a single match by id. It returns model.ErrMatchNotFound
// when no match has that id.
func Entry(id model.MatchID, matches []model.Match, players []model.Player, games []model.Game) (HistoryEntry, error) {
	for _, m := range matches {
		if m.ID == id {
			return History([]model.Match{m}, players, games, "")[0], nil
		}
	}
	return HistoryEntry{}, model.ErrMatchNotFound
}

func orderWinnerFirst(m model.Match) []model.PlayerID {
	ordered := make([]model.PlayerID, 0, len(m.Players)+1)
	if m.Winner != "" {
		ordered = append(ordered, m.Winner)
	}
	for _, id := range m.Players {
		if id != m.Winner && id != "" {
			ordered = append(ordered, id)
		}
	}
	return ordered
}

func participant(players map[model.PlayerID]model.Player, id model.PlayerID, isWinner bool) Participant {
	p, ok := players[id]
	if !ok {
		return Participant{ID: id, Name: UnknownPlayer, Colour: UnknownPlayerHex, IsWinner: isWinner}
	}
	return Participant{ID: id, Name: p.Name, Colour: p.Colour.Hex(), IsWinner: isWinner}
}

func displayName(players map[model.PlayerID]model.Player, id model.PlayerID) string {
	if p, ok := players[id]; ok {
		return p.Name
	}
	return UnknownPlayer
}
