package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/gamenight/internal/testutil"
)

func TestLogging_SkipsStaticAssets(t *testing.T) {
	logger, rec := testutil.NewLogRecorder()
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/static/games/catan.png", nil))
	assert.Empty(t, rec.Records())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/scoreboard", nil))
	entry, ok := rec.Find("http request")
	require.True(t, ok)
	assert.Equal(t, "web", entry["component"])
	assert.Equal(t, "/scoreboard", entry["path"])
}
