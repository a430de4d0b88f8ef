package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/warden/internal/application/auth"
	"github.com/amirhosseinghanipour/warden/internal/domain"
	infraauth "github.com/amirhosseinghanipour/warden/internal/infrastructure/auth"
)

func TestRequireSession(t *testing.T) {
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	codec := infraauth.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), "warden", "").
		WithClock(func() time.Time { return now })
	mw := NewRequireSession(auth.NewSessionGuard(codec), zerolog.Nop())

	var seen domain.SessionClaims
	h := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		seen = c
		w.WriteHeader(http.StatusNoContent)
	}))

	token, _, err := codec.Issue(domain.SessionClaims{AccountID: 3, Email: "m@x.com", Name: "M"}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, domain.AccountID(3), seen.AccountID)

	cases := []struct {
		header  string
		advance time.Duration
		message string
	}{
		{"", 0, "Authentication token is required."},
		{"Bearer garbage", 0, "Invalid authentication token."},
		{"Bearer " + token, 2 * time.Hour, "Session expired. Please log in again."},
	}
	for _, tc := range cases {
		now = now.Add(tc.advance)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body struct {
			Success bool `json:"success"`
			Error   struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, tc.message, body.Error.Message)
	}
}

func TestRecovererWritesGenericError(t *testing.T) {
	h := Recoverer(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("db password is hunter2")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.Contains(t, rec.Body.String(), "An unexpected error occurred on the server.")
}

func TestIPRateLimiterMemory(t *testing.T) {
	mw, err := NewIPRateLimiter("2-M", nil)
	require.NoError(t, err)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "198.51.100.1:4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	disabled, err := NewIPRateLimiter("", nil)
	require.NoError(t, err)
	assert.NotNil(t, disabled)

	_, err = NewIPRateLimiter("lots", nil)
	assert.Error(t, err)
}
