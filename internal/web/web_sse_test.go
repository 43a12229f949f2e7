package web_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/gamenight/internal/model"
	"github.com/mcoot/gamenight/internal/web/sse"
)

// TestSSE_EndpointHeaders verifies the SSE endpoint returns correct headers
func TestSSE_EndpointHeaders(t *testing.T) {
	ts := newWebTestServer(t, model.SchemeElo)

	req := httptest.NewRequest(http.MethodGet, "/events?topic=scoreboard", nil)

	// Use a context with timeout since SSE is a long-running connection
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Verify SSE headers
	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rr.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rr.Header().Get("Connection"))
	assert.Equal(t, "no", rr.Header().Get("X-Accel-Buffering"))
}

// TestSSE_InitialEvents verifies the SSE endpoint sends a connected event
func TestSSE_InitialEvents(t *testing.T) {
	ts := newWebTestServer(t, model.SchemeElo)

	req := httptest.NewRequest(http.MethodGet, "/events?topic=history", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	body := rr.Body.String()
	assert.Contains(t, body, "event: connected", "Expected connected event in SSE response")
	assert.Contains(t, body, `data: {"status":"connected","topic":"history"}`, "Expected connected event data")
}

// TestSSE_RejectsUnknownTopic verifies topics are validated
func TestSSE_RejectsUnknownTopic(t *testing.T) {
	ts := newWebTestServer(t, model.SchemeElo)

	for _, path := range []string{"/events", "/events?topic=tavern", "/events?topic=player:"} {
		rr := ts.get(path)
		assert.Equal(t, http.StatusBadRequest, rr.Code, path)
		assert.NotEqual(t, "text/event-stream", rr.Header().Get("Content-Type"), path)
	}
}

// TestSSE_HubCreatedOnConnect verifies hubs are created lazily per topic
func TestSSE_HubCreatedOnConnect(t *testing.T) {
	ts := newWebTestServer(t, model.SchemeElo)
	topic := sse.ProfileTopic("p1")

	assert.Nil(t, ts.app.HubManager.GetHub(topic), "Hub should not exist before SSE connection")

	req := httptest.NewRequest(http.MethodGet, "/events?topic="+topic, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.NotNil(t, ts.app.HubManager.GetHub(topic), "Hub should exist after SSE connection")
}

// sseStream connects to a running server and returns a reader positioned
// after the connected event
func sseStream(t *testing.T, serverURL, topic string) *bufio.Reader {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL+"/events?topic="+topic, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "event: connected\n", line)

	// data line and blank separator
	_, err = reader.ReadString('\n')
	require.NoError(t, err)
	_, err = reader.ReadString('\n')
	require.NoError(t, err)

	return reader
}

// readEvent reads one SSE event, skipping keepalive comments
func readEvent(t *testing.T, reader *bufio.Reader) (name, data string) {
	t.Helper()
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSuffix(line, "\n")

		switch {
		case line == "" && name != "":
			return name, strings.Join(lines, "\n")
		case line == "", strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			lines = append(lines, strings.TrimPrefix(line, "data: "))
		}
	}
}

// TestSSE_ChangeEventsReceived verifies collection changes reach the changes topic
func TestSSE_ChangeEventsReceived(t *testing.T) {
	ts := newWebTestServer(t, model.SchemeElo)
	server := httptest.NewServer(ts.handler)
	defer server.Close()

	reader := sseStream(t, server.URL, sse.TopicChanges)

	_, err := ts.app.RosterController.AddPlayer(t.Context(), "Alice", "red")
	require.NoError(t, err)

	name, data := readEvent(t, reader)
	assert.Equal(t, "players", name)
	assert.Equal(t, "players", data)
}

// TestSSE_ScoreboardUpdateReceived verifies a match pushes a re-rendered scoreboard
func TestSSE_ScoreboardUpdateReceived(t *testing.T) {
	ts := newWebTestServer(t, model.SchemeElo)
	alice := ts.addPlayer("Alice", model.ColourRed)
	bob := ts.addPlayer("Bob", model.ColourBlue)

	server := httptest.NewServer(ts.handler)
	defer server.Close()

	reader := sseStream(t, server.URL, sse.ScoreboardTopic(""))

	ts.submitMatch("", bob, alice, bob)

	// Every players snapshot re-renders the table; wait for the one with the result
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		name, data := readEvent(t, reader)
		require.Equal(t, sse.EventScoreboardUpdate, name)
		require.Contains(t, data, `id="scoreboard" hx-swap-oob="true"`)
		if strings.Contains(data, "(+16)") {
			return
		}
	}
	t.Fatal("scoreboard update with the new ratings never arrived")
}
