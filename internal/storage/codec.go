package storage

import (
	"encoding/json"

	"github.com/mcoot/gamenight/internal/model"
)

// DecodePlayer decodes a player document. Records from before ratings were
// tracked have no elo field and are given the default rating.
func DecodePlayer(doc Document) (model.Player, error) {
	var p model.Player
	if err := json.Unmarshal(doc.Data, &p); err != nil {
		return model.Player{}, err
	}
	p.ID = model.PlayerID(doc.ID)

	var probe struct {
		Elo *float64 `json:"elo"`
	}
	if err := json.Unmarshal(doc.Data, &probe); err == nil && probe.Elo == nil {
		p.Elo = model.DefaultElo
	}
	return p, nil
}

// DecodeGame decodes a game document
func DecodeGame(doc Document) (model.Game, error) {
	var g model.Game
	if err := json.Unmarshal(doc.Data, &g); err != nil {
		return model.Game{}, err
	}
	g.ID = model.GameID(doc.ID)
	return g, nil
}

// DecodeMatch decodes a match document
func DecodeMatch(doc Document) (model.Match, error) {
	var m model.Match
	if err := json.Unmarshal(doc.Data, &m); err != nil {
		return model.Match{}, err
	}
	m.ID = model.MatchID(doc.ID)
	return m, nil
}

// DecodePlayers decodes a players snapshot, skipping malformed records
func DecodePlayers(snap Snapshot) []model.Player {
	return decodeAll(snap, DecodePlayer)
}

// DecodeGames decodes a games snapshot, skipping malformed records
func DecodeGames(snap Snapshot) []model.Game {
	return decodeAll(snap, DecodeGame)
}

// DecodeMatches decodes a matches snapshot, skipping malformed records
func DecodeMatches(snap Snapshot) []model.Match {
	return decodeAll(snap, DecodeMatch)
}

func decodeAll[T any](snap Snapshot, decode func(Document) (T, error)) []T {
	out := make([]T, 0, len(snap.Documents))
	for _, doc := range snap.Documents {
		v, err := decode(doc)
		if err != nil {
			continue // Skip invalid data
		}
		out = append(out, v)
	}
	return out
}
