// Package templates renders the web pages and the fragments pushed over SSE.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"time"

	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/services/ranking"
)

//go:embed html/*.html
var files embed.FS

// Fragment ids targeted by out-of-band swaps
const (
	ScoreboardFragmentID = "scoreboard"
	HistoryFragmentID    = "history"
	ProfileFragmentID    = "profile"
)

var pages = map[string]*template.Template{}

func init() {
	for _, page := range []string{"scoreboard", "history", "profile", "control", "login", "error"} {
		pages[page] = template.Must(
			template.New("layout.html").Funcs(funcs).ParseFS(files, "html/layout.html", "html/partials.html", "html/"+page+".html"),
		)
	}
	pages["partials"] = template.Must(template.New("partials.html").Funcs(funcs).ParseFS(files, "html/partials.html"))
}

var funcs = template.FuncMap{
	"medal":     Medal,
	"delta":     Delta,
	"percent":   Percent,
	"round":     func(f float64) string { return fmt.Sprintf("%.0f", f) },
	"matchTime": MatchTime,
	"colourHex": func(c model.Colour) string { return c.Hex() },
	"isElo":     func(s model.RatingScheme) bool { return s == model.SchemeElo },
	"sprintf":   fmt.Sprintf,
	"historyOf": func(entries []ranking.HistoryEntry) HistoryData { return HistoryData{Entries: entries} },
}

// Medal labels a 1-based leaderboard position
func Medal(position int) string {
	switch position {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("#%d", position)
	}
}

// Delta formats a rating change as "(+n)" or "(-n)", or "" when zero
func Delta(d float64) string {
	if d == 0 {
		return ""
	}
	if d > 0 {
		return fmt.Sprintf("(+%.0f)", d)
	}
	return fmt.Sprintf("(-%.0f)", math.Abs(d))
}

// Percent formats a [0,1] rate as a percentage with one decimal
func Percent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// MatchTime formats an epoch-millisecond timestamp
func MatchTime(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2 Jan 2006 15:04")
}

// FlashMessage is a one-shot notice shown on the next page
type FlashMessage struct {
	Type    string // "success", "error" or "info"
	Message string
}

// PageData is shared by every page
type PageData struct {
	Title   string
	Flash   *FlashMessage
	Control bool // a control session is active
}

// ScoreboardData renders the leaderboard page
type ScoreboardData struct {
	PageData
	Scheme       model.RatingScheme
	Games        []model.Game
	SelectedGame model.GameID
	Rows         []ranking.Row
	Topic        string
}

// HistoryData renders the match history page
type HistoryData struct {
	PageData
	Entries []ranking.HistoryEntry
	Topic   string
}

// ProfileData renders a player's page
type ProfileData struct {
	PageData
	Scheme  model.RatingScheme
	Profile ranking.ProfileView
	Topic   string
}

// ControlData renders the control page
type ControlData struct {
	PageData
	Scheme  model.RatingScheme
	Players []model.Player
	Games   []model.Game
	Colours []model.Colour
}

// LoginData renders the control login page
type LoginData struct {
	PageData
	Next string
}

// ErrorData renders an error page
type ErrorData struct {
	PageData
	Status  int
	Message string
}

// Render writes a full page
func Render(w io.Writer, page string, data any) error {
	t, ok := pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}

// Fragment renders a named partial to a string
func Fragment(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := pages["partials"].ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
