package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/gamenight/internal/dependencies/mocks"
	"github.com/mcoot/gamenight/internal/services/auth"
)

func newGuarded(t *testing.T, passphrase string) (http.Handler, *auth.Service) {
	t.Helper()

	cfg := auth.Config{}
	if passphrase != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.MinCost)
		require.NoError(t, err)
		cfg.PassphraseHash = string(hash)
	}
	svc := auth.New(mocks.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), cfg)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return Control(svc)(ok), svc
}

func serve(h http.Handler, header, cookie string) int {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: cookie})
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestControl_DisabledAllowsAll(t *testing.T) {
	h, _ := newGuarded(t, "")
	assert.Equal(t, http.StatusNoContent, serve(h, "", ""))
}

func TestControl_Credentials(t *testing.T) {
	h, svc := newGuarded(t, "sesame")
	session, err := svc.Login("sesame")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"no credentials", "", "", http.StatusUnauthorized},
		{"wrong passphrase", "Bearer open", "", http.StatusUnauthorized},
		{"passphrase as bearer", "Bearer sesame", "", http.StatusNoContent},
		{"session as bearer", "Bearer " + session.Token, "", http.StatusNoContent},
		{"session cookie", "", session.Token, http.StatusNoContent},
		{"basic scheme ignored", "Basic sesame", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(h, tt.header, tt.cookie))
		})
	}
}
