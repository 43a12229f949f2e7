package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/gamenight/internal/api/response"
)

func TestOutput_ScoreboardElo(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput("text", &buf, &buf)

	out.Print(response.Scoreboard{
		Scheme: "elo",
		Rows: []response.ScoreboardRow{
			{Position: 1, Player: response.Player{Name: "Alice"}, Rating: 1016, EloDelta: 16, Played: 1, Won: 1},
			{Position: 2, Player: response.Player{Name: "Bob"}, Rating: 984, EloDelta: -16, Played: 1, Lost: 1},
			{Position: 4, Player: response.Player{Name: "Dan"}, Rating: 1000},
		},
	})

	text := buf.String()
	assert.Contains(t, text, "RANK")
	assert.Contains(t, text, "🥇")
	assert.Contains(t, text, "1016 (+16)")
	assert.Contains(t, text, "984 (-16)")
	assert.Contains(t, text, "#4")
}

func TestOutput_ScoreboardBayes(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput("text", &buf, &buf)

	out.Print(response.Scoreboard{Scheme: "bayes"})
	assert.Contains(t, buf.String(), "--game")

	buf.Reset()
	out.Print(response.Scoreboard{
		Scheme: "bayes",
		GameID: "g1",
		Rows: []response.ScoreboardRow{
			{Position: 1, Player: response.Player{Name: "Alice"}, Rating: 0.75, Played: 4, Established: true},
			{Position: 2, Player: response.Player{Name: "Bob"}, Rating: 2.0 / 3.0, Played: 1},
		},
	})
	text := buf.String()
	assert.Contains(t, text, "75.0%")
	assert.Contains(t, text, "66.7% (new)")
}

func TestOutput_History(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput("text", &buf, &buf)

	out.Print(response.History{Entries: []response.HistoryEntry{{
		Match:      response.Match{Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
		GameName:   "Catan",
		WinnerName: "Alice",
		Participants: []response.Participant{
			{Name: "Alice", IsWinner: true},
			{Name: "Unknown"},
		},
	}}})

	text := buf.String()
	assert.Contains(t, text, "1 Jan 2024 12:00")
	assert.Contains(t, text, "Catan")
	assert.Contains(t, text, "Alice, Unknown")
}

func TestOutput_SubmitResult(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput("text", &buf, &buf)

	out.Print(response.SubmitMatchResponse{Accepted: false})
	assert.Contains(t, buf.String(), "Match not recorded")

	buf.Reset()
	out.Print(response.SubmitMatchResponse{Accepted: true, Match: &response.Match{ID: "m1"}})
	assert.Equal(t, "Match recorded (m1)\n", buf.String())
}

func TestOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput("json", &buf, &buf)

	out.PrintMessage("Player removed")
	assert.JSONEq(t, `{"message":"Player removed"}`, buf.String())

	buf.Reset()
	out.PrintError(errors.New("boom"))
	assert.JSONEq(t, `{"error":{"message":"boom"}}`, buf.String())
}

func TestOutput_EmptyLists(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput("text", &buf, &buf)

	out.Print(response.PlayerList{})
	out.Print(response.GameList{})
	out.Print(response.History{})
	assert.Equal(t, "No players\nNo games\nNo matches\n", buf.String())
}
