package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/services/auth"
)

const testPassphrase = "board-games-forever"

func newProtectedServer(t *testing.T) *webTestServer {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassphrase), bcrypt.MinCost)
	require.NoError(t, err)
	return newWebTestServerWithAuth(t, model.SchemeElo, auth.Config{PassphraseHash: string(hash)})
}

func TestControlPageOpenWithoutPassphrase(t *testing.T) {
	ts := newWebTestServer(t, model.SchemeBayes)
	ts.addPlayer("Alice", model.ColourRed)
	ts.addGame("Catan")

	rr := ts.get("/control")
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)

	assertContainsElement(t, doc, "form.submit-match")
	assertContainsElement(t, doc, "form.submit-match select[name=game_id]")
	assertContainsElement(t, doc, "form.add-player")
	assertContainsElement(t, doc, "form.add-game")
	assertContainsText(t, doc, "ul.players", "Alice")
	assert.Equal(t, len(model.Colours()), doc.Find("form.add-player select[name=colour] option").Length())
}

func TestControlEloHasNoGamePicker(t *testing.T) {
	ts := newWebTestServer(t, model.SchemeElo)

	doc := parseHTML(ts.get("/control").Body)
	assertNotContainsElement(t, doc, "form.submit-match select[name=game_id]")
}

func TestAddPlayerViaControl(t *testing.T) {
	ts := newWebTestServer(t, model.SchemeElo)

	rr := ts.post("/control/players", url.Values{"name": {"  Dana  "}, "colour": {"purple"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/control", rr.Header().Get("Location"))

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-success", "Added Dana")

	require.True(t, ts.app.WaitFor(func() bool { return len(ts.app.Feed.Players()) == 1 }))
	p := ts.app.Feed.Players()[0]
	assert.Equal(t, "Dana", p.Name)
	assert.Equal(t, model.ColourPurple, p.Colour)
	assert.Equal(t, float64(model.DefaultElo), p.Elo)
}

func TestAddPlayerValidation(t *testing.T) {
	ts := newWebTestServer(t, model.SchemeElo)

	rr := ts.post("/control/players", url.Values{"name": {"Dana"}, "colour": {"magenta"}})
	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "Pick one of the listed colours")

	rr = ts.post("/control/players", url.Values{"name": {"   "}, "colour": {"blue"}})
	doc = parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "Name is required")

	players, err := ts.app.Storage.List(t.Context(), model.CollectionPlayers)
	require.NoError(t, err)
	assert.Empty(t, players.Documents)
}

func TestRemovePlayerViaControl(t *testing.T) {
	ts := newWebTestServer(t, model.SchemeElo)
	alice := ts.addPlayer("Alice", model.ColourRed)

	rr := ts.post("/control/players/"+string(alice)+"/delete", nil)
	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-success", "Player removed")
	require.True(t, ts.app.WaitFor(func() bool { return len(ts.app.Feed.Players()) == 0 }))

	rr = ts.post("/control/players/"+string(alice)+"/delete", nil)
	doc = parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "Player not found")
}

func TestGameLifecycleViaControl(t *testing.T) {
	ts := newWebTestServer(t, model.SchemeBayes)

	rr := ts.post("/control/games", url.Values{"name": {"Catan"}, "type": {"strategy"}})
	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-success", "Added Catan")
	require.True(t, ts.app.WaitFor(func() bool { return len(ts.app.Feed.Games()) == 1 }))
	game := ts.app.Feed.Games()[0]
	assert.Equal(t, "strategy", game.Type)

	rr = ts.post("/control/games/"+string(game.ID), url.Values{"name": {"Settlers"}})
	doc = parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-success", "Renamed to Settlers")
	require.True(t, ts.app.WaitFor(func() bool {
		g, _ := ts.app.Feed.Game(game.ID)
		return g.Name == "Settlers"
	}))
	renamed, _ := ts.app.Feed.Game(game.ID)
	assert.Empty(t, renamed.Type, "rename overwrites the record")

	rr = ts.post("/control/games/"+string(game.ID)+"/delete", nil)
	doc = parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-success", "Game removed")
	require.True(t, ts.app.WaitFor(func() bool { return len(ts.app.Feed.Games()) == 0 }))

	rr = ts.post("/control/games/"+string(game.ID), url.Values{"name": {"Again"}})
	doc = parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "Game not found")
}

func TestSubmitMatchViaControl(t *testing.T) {
	ts := newWebTestServer(t, model.SchemeBayes)
	catan := ts.addGame("Catan")
	alice := ts.addPlayer("Alice", model.ColourRed)
	bob := ts.addPlayer("Bob", model.ColourBlue)

	form := url.Values{
		"game_id": {string(catan)},
		"players": {string(alice), string(bob)},
		"winner":  {string(bob)},
	}
	rr := ts.post("/control/matches", form)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-success", "Match recorded")

	ts.waitForMatches(1)
	m := ts.app.Feed.Matches()[0]
	assert.Equal(t, []model.PlayerID{alice, bob}, m.Players)
	assert.Equal(t, bob, m.Winner)
	assert.Equal(t, catan, m.GameID)
}

func TestSubmitMatchRejected(t *testing.T) {
	ts := newWebTestServer(t, model.SchemeBayes)
	catan := ts.addGame("Catan")
	alice := ts.addPlayer("Alice", model.ColourRed)
	bob := ts.addPlayer("Bob", model.ColourBlue)
	carol := ts.addPlayer("Carol", model.ColourGreen)

	tests := []struct {
		name string
		form url.Values
	}{
		{"no game", url.Values{"players": {string(alice), string(bob)}, "winner": {string(alice)}}},
		{"one player", url.Values{"game_id": {string(catan)}, "players": {string(alice)}, "winner": {string(alice)}}},
		{"winner not playing", url.Values{"game_id": {string(catan)}, "players": {string(alice), string(bob)}, "winner": {string(carol)}}},
		{"no winner", url.Values{"game_id": {string(catan)}, "players": {string(alice), string(bob)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.post("/control/matches", tt.form)
			doc := parseHTML(ts.followRedirect(rr).Body)
			assertContainsText(t, doc, ".flash-error", "Choose at least two players")
		})
	}

	matches, err := ts.app.Storage.List(t.Context(), model.CollectionMatches)
	require.NoError(t, err)
	assert.Empty(t, matches.Documents)
}

func TestControlRequiresLogin(t *testing.T) {
	ts := newProtectedServer(t)

	rr := ts.get("/control")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/control/login?next=%2Fcontrol", rr.Header().Get("Location"))

	rr = ts.post("/control/players", url.Values{"name": {"Mallory"}, "colour": {"red"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "/control/login")

	players, err := ts.app.Storage.List(t.Context(), model.CollectionPlayers)
	require.NoError(t, err)
	assert.Empty(t, players.Documents)
}

func TestLoginPage(t *testing.T) {
	ts := newProtectedServer(t)

	rr := ts.get("/control/login?next=/control")
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)

	assertContainsElement(t, doc, "form.login input[name=passphrase]")
	assert.Equal(t, "/control", doc.Find("input[name=next]").AttrOr("value", ""))
}

func TestLoginWrongPassphrase(t *testing.T) {
	ts := newProtectedServer(t)

	rr := ts.post("/control/login", url.Values{"passphrase": {"guess"}, "next": {"/control"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.False(t, ts.cookies.hasSession())

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "Wrong passphrase")
}

func TestLoginAndLogout(t *testing.T) {
	ts := newProtectedServer(t)

	rr := ts.post("/control/login", url.Values{"passphrase": {testPassphrase}, "next": {"/control"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/control", rr.Header().Get("Location"))
	require.True(t, ts.cookies.hasSession())

	rr = ts.followRedirect(rr)
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-success", "Control unlocked")
	assertContainsElement(t, doc, `nav form[action="/control/logout"]`)

	// Visiting the login page again goes straight to control
	rr = ts.get("/control/login")
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	rr = ts.post("/control/logout", nil)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.False(t, ts.cookies.hasSession())

	rr = ts.get("/control")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestLoginIgnoresOffsiteNext(t *testing.T) {
	ts := newProtectedServer(t)

	rr := ts.post("/control/login", url.Values{"passphrase": {testPassphrase}, "next": {"//evil.example"}})
	assert.Equal(t, "/control", rr.Header().Get("Location"))
}

func TestInvalidatedSessionRejected(t *testing.T) {
	ts := newProtectedServer(t)

	ts.post("/control/login", url.Values{"passphrase": {testPassphrase}})
	require.True(t, ts.cookies.hasSession())
	ts.app.AuthService.InvalidateSession(ts.cookies.cookies["session"].Value)

	rr := ts.get("/control")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}
