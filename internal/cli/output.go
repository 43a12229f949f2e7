package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mcoot/gamenight/internal/api/response"
	"github.com/mcoot/gamenight/internal/web/templates"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
}

// NewOutput creates a new Output formatter writing to w, with errors to errW
func NewOutput(format string, w, errW io.Writer) *Output {
	return &Output{format: format, w: w, errW: errW}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.errW, string(data))
	} else {
		fmt.Fprintf(o.errW, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Player:
		o.printPlayer(v)
	case response.PlayerList:
		o.printPlayerList(v)
	case response.Profile:
		o.printProfile(v)
	case response.Game:
		o.printGame(v)
	case response.GameList:
		o.printGameList(v)
	case response.Scoreboard:
		o.printScoreboard(v)
	case response.History:
		o.printHistory(v.Entries)
	case response.SubmitMatchResponse:
		o.printSubmitResult(v)
	case response.Session:
		o.printSession(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
	Server string `json:"server,omitempty"`
}

func (o *Output) table() *tabwriter.Writer {
	return tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
}

func (o *Output) printPlayer(p response.Player) {
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.Name, p.ID)
	fmt.Fprintf(o.w, "Colour: %s\n", p.Colour)
	if p.Elo != 0 {
		fmt.Fprintln(o.w, strings.TrimSpace(fmt.Sprintf("Elo: %.0f %s", p.Elo, templates.Delta(p.EloDelta))))
	}
}

func (o *Output) printPlayerList(l response.PlayerList) {
	if len(l.Players) == 0 {
		fmt.Fprintln(o.w, "No players")
		return
	}

	tw := o.table()
	fmt.Fprintln(tw, "ID\tNAME\tCOLOUR\tPLAYED\tWIN %")
	for _, p := range l.Players {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Colour, p.Played, templates.Percent(p.WinRate))
	}
	_ = tw.Flush()
}

func (o *Output) printProfile(p response.Profile) {
	o.printPlayer(p.Player)
	fmt.Fprintf(o.w, "Played: %d  Won: %d  Lost: %d  Win: %.1f%%\n", p.Played, p.Won, p.Lost, p.WinPercent)

	if len(p.Games) > 0 {
		fmt.Fprintln(o.w, "\nGames:")
		tw := o.table()
		fmt.Fprintln(tw, "GAME\tWIN RATE\tPLAYED\tWON\tLOST")
		for _, g := range p.Games {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n",
				g.GameName, templates.Percent(g.Stats.BayesWinRate), g.Stats.Played, g.Stats.Won, g.Stats.Lost)
		}
		_ = tw.Flush()
	}

	if len(p.History) > 0 {
		fmt.Fprintln(o.w, "\nMatches:")
		o.printHistory(p.History)
	}
}

func (o *Output) printGame(g response.Game) {
	fmt.Fprintf(o.w, "Game: %s (%s)\n", g.Name, g.ID)
	if g.Type != "" {
		fmt.Fprintf(o.w, "Type: %s\n", g.Type)
	}
}

func (o *Output) printGameList(l response.GameList) {
	if len(l.Games) == 0 {
		fmt.Fprintln(o.w, "No games")
		return
	}

	tw := o.table()
	fmt.Fprintln(tw, "ID\tNAME\tTYPE")
	for _, g := range l.Games {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", g.ID, g.Name, g.Type)
	}
	_ = tw.Flush()
}

func (o *Output) printScoreboard(s response.Scoreboard) {
	if len(s.Rows) == 0 {
		if s.Scheme == "bayes" && s.GameID == "" {
			fmt.Fprintln(o.w, "Pick a game with --game to see its scoreboard")
		} else {
			fmt.Fprintln(o.w, "No players ranked yet")
		}
		return
	}

	tw := o.table()
	fmt.Fprintln(tw, "RANK\tPLAYER\tRATING\tPLAYED\tWON\tLOST")
	for _, row := range s.Rows {
		rating := fmt.Sprintf("%.0f %s", row.Rating, templates.Delta(row.EloDelta))
		if s.Scheme == "bayes" {
			rating = templates.Percent(row.Rating)
			if !row.Established {
				rating += " (new)"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
			templates.Medal(row.Position), row.Player.Name, strings.TrimSpace(rating), row.Played, row.Won, row.Lost)
	}
	_ = tw.Flush()
}

func (o *Output) printHistory(entries []response.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(o.w, "No matches")
		return
	}

	tw := o.table()
	fmt.Fprintln(tw, "WHEN\tGAME\tWINNER\tPLAYERS")
	for _, e := range entries {
		names := make([]string, len(e.Participants))
		for i, p := range e.Participants {
			names[i] = p.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			e.Match.Timestamp.Format("2 Jan 2006 15:04"), e.GameName, e.WinnerName, strings.Join(names, ", "))
	}
	_ = tw.Flush()
}

func (o *Output) printSubmitResult(r response.SubmitMatchResponse) {
	if !r.Accepted || r.Match == nil {
		fmt.Fprintln(o.w, "Match not recorded: needs at least two players, a winner among them and, for bayes, a game")
		return
	}
	fmt.Fprintf(o.w, "Match recorded (%s)\n", r.Match.ID)
}

func (o *Output) printSession(s response.Session) {
	fmt.Fprintf(o.w, "Token: %s\n", s.SessionToken)
	fmt.Fprintf(o.w, "Expires: %s\n", s.ExpiresAt.Format("2 Jan 2006 15:04 MST"))
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	if h.Server != "" {
		fmt.Fprintf(o.w, "Server: %s\n", h.Server)
	}
}
