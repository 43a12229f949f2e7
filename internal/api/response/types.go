package response

import (
	"time"

	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/services/auth"
	"github.com/mcoot/gamenight/internal/services/ranking"
)

// Player represents a player in API responses
type Player struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Colour     string               `json:"colour"`
	ColourHex  string               `json:"colour_hex"`
	Elo        float64              `json:"elo,omitempty"`
	EloDelta   float64              `json:"elo_delta,omitempty"`
	Played     int                  `json:"played"`
	Won        int                  `json:"won"`
	Lost       int                  `json:"lost"`
	WinRate    float64              `json:"win_rate"` // 0-1
	Games      map[string]GameStats `json:"games,omitempty"`
}

// GameStats is a player's record for one game
type GameStats struct {
	BayesAlpha   float64 `json:"bayes_alpha"`
	BayesBeta    float64 `json:"bayes_beta"`
	BayesWinRate float64 `json:"bayes_win_rate"`
	Played       int     `json:"played"`
	Won          int     `json:"won"`
	Lost         int     `json:"lost"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	resp := Player{
		ID:         string(p.ID),
		Name:       p.Name,
		Colour:     string(p.Colour),
		ColourHex:  p.Colour.Hex(),
		Elo:        p.Elo,
		EloDelta:   p.EloDelta,
		Played:     p.GamesPlayed(),
		Won:        p.GamesWon,
		Lost:       p.GamesLost,
		WinRate:    p.WinPercent(),
	}
	if len(p.Games) > 0 {
		resp.Games = make(map[string]GameStats, len(p.Games))
		for id, s := range p.Games {
			resp.Games[string(id)] = gameStatsFromModel(s)
		}
	}
	return resp
}

func gameStatsFromModel(s model.GameStats) GameStats {
	return GameStats{
		BayesAlpha:   s.BayesAlpha,
		BayesBeta:    s.BayesBeta,
		BayesWinRate: s.BayesWinRate,
		Played:       s.GamesPlayed,
		Won:          s.GamesWon,
		Lost:         s.GamesLost,
	}
}

// PlayerList is the response for listing players
type PlayerList struct {
	Players []Player `json:"players"`
}

// Game represents a game in API responses
type Game struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type,omitempty"`
	ImageSlug string `json:"image_slug"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	return Game{
		ID:        string(g.ID),
		Name:      g.Name,
		Type:      g.Type,
		ImageSlug: g.ImageSlug(),
	}
}

// GameList is the response for listing games
type GameList struct {
	Games []Game `json:"games"`
}

// Match represents a recorded match in API responses
type Match struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Players   []string  `json:"players"`
	Winner    string    `json:"winner"`
	GameID    string    `json:"game_id,omitempty"`
}

// MatchFromModel converts a model.Match to a response Match
func MatchFromModel(m *model.Match) Match {
	players := make([]string, len(m.Players))
	for i, p := range m.Players {
		players[i] = string(p)
	}
	return Match{
		ID:        string(m.ID),
		Timestamp: m.Time().UTC(),
		Players:   players,
		Winner:    string(m.Winner),
		GameID:    string(m.GameID),
	}
}

// SubmitMatchResponse is the response for reporting a match. A rejected
// submission has Accepted false and no match.
type SubmitMatchResponse struct {
	Accepted bool   `json:"accepted"`
	Match    *Match `json:"match,omitempty"`
}

// ScoreboardRow is one leaderboard line
type ScoreboardRow struct {
	Position    int     `json:"position"`
	Player      Player  `json:"player"`
	Rating      float64 `json:"rating"`
	EloDelta    float64 `json:"elo_delta,omitempty"`
	WinRate     float64 `json:"win_rate"`
	Played      int     `json:"played"`
	Won         int     `json:"won"`
	Lost        int     `json:"lost"`
	Established bool    `json:"established"`
}

// Scoreboard is the response for the leaderboard
type Scoreboard struct {
	Scheme string          `json:"scheme"`
	GameID string          `json:"game_id,omitempty"`
	Rows   []ScoreboardRow `json:"rows"`
}

// ScoreboardFromRows converts leaderboard rows to a response Scoreboard
func ScoreboardFromRows(scheme model.RatingScheme, gameID model.GameID, rows []ranking.Row) Scoreboard {
	resp := Scoreboard{
		Scheme: string(scheme),
		GameID: string(gameID),
		Rows:   make([]ScoreboardRow, len(rows)),
	}
	for i, row := range rows {
		resp.Rows[i] = ScoreboardRow{
			Position:    row.Position,
			Player:      PlayerFromModel(&row.Player),
			Rating:      row.Rating,
			EloDelta:    row.EloDelta,
			WinRate:     row.WinRate,
			Played:      row.Played,
			Won:         row.Won,
			Lost:        row.Lost,
			Established: row.Established,
		}
	}
	return resp
}

// Participant is a player in a history entry
type Participant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ColourHex string `json:"colour_hex"`
	IsWinner  bool   `json:"is_winner"`
}

// HistoryEntry is a match with names resolved
type HistoryEntry struct {
	Match        Match         `json:"match"`
	GameName     string        `json:"game_name"`
	ImageSlug    string        `json:"image_slug"`
	WinnerName   string        `json:"winner_name"`
	Participants []Participant `json:"participants"`
}

// History is the response for match history, newest first
type History struct {
	Entries []HistoryEntry `json:"entries"`
}

// HistoryFromEntries converts ranking history entries
func HistoryFromEntries(entries []ranking.HistoryEntry) History {
	resp := History{Entries: make([]HistoryEntry, len(entries))}
	for i, e := range entries {
		resp.Entries[i] = historyEntry(e)
	}
	return resp
}

// HistoryEntryFromModel converts a single resolved match
func HistoryEntryFromModel(e ranking.HistoryEntry) HistoryEntry {
	return historyEntry(e)
}

func historyEntry(e ranking.HistoryEntry) HistoryEntry {
	participants := make([]Participant, len(e.Participants))
	for i, p := range e.Participants {
		participants[i] = Participant{
			ID:        string(p.ID),
			Name:      p.Name,
			ColourHex: p.Colour,
			IsWinner:  p.IsWinner,
		}
	}
	return HistoryEntry{
		Match:        MatchFromModel(&e.Match),
		GameName:     e.GameName,
		ImageSlug:    e.ImageSlug,
		WinnerName:   e.WinnerName,
		Participants: participants,
	}
}

// GameStatRow is a player's record for one game on their profile
type GameStatRow struct {
	GameID   string    `json:"game_id"`
	GameName string    `json:"game_name"`
	Stats    GameStats `json:"stats"`
}

// Profile is the response for a player's profile
type Profile struct {
	Player     Player         `json:"player"`
	Played     int            `json:"played"`
	Won        int            `json:"won"`
	Lost       int            `json:"lost"`
	WinPercent float64        `json:"win_percent"`
	Games      []GameStatRow  `json:"games,omitempty"`
	History    []HistoryEntry `json:"history"`
}

// ProfileFromView converts a ranking profile
func ProfileFromView(v ranking.ProfileView) Profile {
	resp := Profile{
		Player:     PlayerFromModel(&v.Player),
		Played:     v.Played,
		Won:        v.Won,
		Lost:       v.Lost,
		WinPercent: v.WinPercent,
		History:    make([]HistoryEntry, len(v.History)),
	}
	for _, g := range v.Games {
		resp.Games = append(resp.Games, GameStatRow{
			GameID:   string(g.GameID),
			GameName: g.GameName,
			Stats:    gameStatsFromModel(g.Stats),
		})
	}
	for i, e := range v.History {
		resp.History[i] = historyEntry(e)
	}
	return resp
}

// Session is the response for opening a control session
type Session struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SessionFromModel converts an auth.Session
func SessionFromModel(s *auth.Session) Session {
	return Session{
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt.UTC(),
	}
}
