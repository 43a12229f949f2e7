package web_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/gamenight/internal/factory"
	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/services/auth"
	"github.com/mcoot/gamenight/internal/services/match"
	"github.com/mcoot/gamenight/internal/testutil"
	"github.com/mcoot/gamenight/internal/web"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	cookies *cookieJar
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T, scheme model.RatingScheme) *webTestServer {
	return newWebTestServerWithAuth(t, scheme, auth.Config{})
}

// newWebTestServerWithAuth creates a test server with a control passphrase configured
func newWebTestServerWithAuth(t *testing.T, scheme model.RatingScheme, authCfg auth.Config) *webTestServer {
	t.Helper()

	app := factory.NewTestApp(scheme, authCfg)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, app.Start(ctx))
	t.Cleanup(func() {
		cancel()
		_ = app.Close()
	})

	router := web.NewRouter(web.RouterConfig{
		Logger:           testutil.NopLogger(),
		AuthService:      app.AuthService,
		Feed:             app.Feed,
		RosterController: app.RosterController,
		MatchController:  app.MatchController,
		HubManager:       app.HubManager,
		StaticDir:        "", // No static files in tests
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil)
}

// post makes a POST request with form data
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form)
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// hasSession returns true if the session cookie is set
func (j *cookieJar) hasSession() bool {
	_, ok := j.cookies["session"]
	return ok
}

// Helper functions for common test operations

// addPlayer registers a player and waits for it to reach the feed
func (ts *webTestServer) addPlayer(name string, colour model.Colour) model.PlayerID {
	ts.t.Helper()
	p, err := ts.app.RosterController.AddPlayer(ts.t.Context(), name, string(colour))
	require.NoError(ts.t, err)
	require.True(ts.t, ts.app.WaitFor(func() bool {
		_, ok := ts.app.Feed.Player(p.ID)
		return ok
	}), "player never reached the feed")
	return p.ID
}

// addGame adds a game and waits for it to reach the feed
func (ts *webTestServer) addGame(name string) model.GameID {
	ts.t.Helper()
	g, err := ts.app.RosterController.AddGame(ts.t.Context(), name, "")
	require.NoError(ts.t, err)
	require.True(ts.t, ts.app.WaitFor(func() bool {
		_, ok := ts.app.Feed.Game(g.ID)
		return ok
	}), "game never reached the feed")
	return g.ID
}

// submitMatch records a match and waits for the feed to see the match and
// every participant's updated stats, so the next submission rates from them
func (ts *webTestServer) submitMatch(gameID model.GameID, winner model.PlayerID, players ...model.PlayerID) {
	ts.t.Helper()
	before := make(map[model.PlayerID]int, len(players))
	for _, id := range players {
		before[id] = ts.played(id, gameID)
	}
	matches := len(ts.app.Feed.Matches())

	result, err := ts.app.MatchController.Submit(ts.t.Context(), match.SubmitRequest{
		Players: players,
		Winner:  winner,
		GameID:  gameID,
	})
	require.NoError(ts.t, err)
	require.True(ts.t, result.Accepted)

	ts.waitForMatches(matches + 1)
	require.True(ts.t, ts.app.WaitFor(func() bool {
		for id, n := range before {
			if ts.played(id, gameID) != n+1 {
				return false
			}
		}
		return true
	}), "participant stats never reached the feed")
}

// played counts a player's matches under the active scheme
func (ts *webTestServer) played(id model.PlayerID, gameID model.GameID) int {
	p, _ := ts.app.Feed.Player(id)
	if ts.app.Scheme == model.SchemeBayes {
		stats, _ := p.StatsFor(gameID)
		return stats.GamesPlayed
	}
	return p.GamesPlayed()
}

func (ts *webTestServer) waitForMatches(n int) {
	ts.t.Helper()
	require.True(ts.t, ts.app.WaitFor(func() bool {
		return len(ts.app.Feed.Matches()) == n
	}), "expected %d matches in the feed", n)
}

// followRedirect follows a redirect and returns the response
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	location := rr.Header().Get("Location")
	require.NotEmpty(ts.t, location, "Expected Location header for redirect")
	return ts.get(location)
}

// Assertion helpers

// assertContainsElement asserts that the document contains an element matching the selector
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
	}
}

// assertNotContainsElement asserts that the document does not contain an element matching the selector
func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() > 0 {
		t.Errorf("Expected NOT to find element matching %q, but found %d", selector, doc.Find(selector).Length())
	}
}

// assertContainsText asserts that the element matching the selector contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("Expected element %q to contain %q, but got %q", selector, text, el.Text())
	}
}
