package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/warden/internal/application/auth"
	"github.com/amirhosseinghanipour/warden/internal/application/ports"
	"github.com/amirhosseinghanipour/warden/internal/domain"
	infraauth "github.com/amirhosseinghanipour/warden/internal/infrastructure/auth"
	"github.com/amirhosseinghanipour/warden/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/warden/internal/infrastructure/persistence/memory"
)

type plainVerifier struct{}

func (plainVerifier) Matches(plaintext, hash string) bool { return hash == "hash:"+plaintext }

type recordingEnqueuer struct {
	mu     sync.Mutex
	events []ports.AuditEvent
}

func (e *recordingEnqueuer) EnqueueAuditEvent(ctx context.Context, event ports.AuditEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return nil
}

type envelopeBody struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Message string         `json:"message"`
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func setup(t *testing.T) (*AuthHandler, *memory.CredentialStore, *recordingEnqueuer, *infraauth.TokenCodec) {
	t.Helper()
	store := memory.NewCredentialStore()
	store.Put(domain.Account{ID: 1, Name: "User One", Email: "u1@x.com", PasswordHash: "hash:secret123"})
	codec := infraauth.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), "warden", "")
	authn := auth.NewAuthenticator(store, plainVerifier{}, codec, auth.Policy{LockoutThreshold: 5})
	enq := &recordingEnqueuer{}
	return NewAuthHandler(authn, enq, zerolog.Nop()), store, enq, codec
}

func postLogin(h *AuthHandler, body string) (*httptest.ResponseRecorder, envelopeBody) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.RemoteAddr = "192.0.2.10:51234"
	req.Header.Set("User-Agent", "curl/8.0")
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	var env envelopeBody
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestLoginSuccess(t *testing.T) {
	h, store, enq, codec := setup(t)

	rec, env := postLogin(h, `{"email":" U1@x.com ","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, env.Success)

	var data loginResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, domain.AccountSummary{ID: 1, Name: "User One", Email: "u1@x.com"}, data.User)
	assert.NotContains(t, string(env.Data), "hash:")

	claims, err := codec.Verify(data.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1@x.com", claims.Email)

	attempts := store.Attempts()
	require.Len(t, attempts, 1)
	assert.Equal(t, "192.0.2.10", attempts[0].SourceAddress)
	assert.Equal(t, "curl/8.0", attempts[0].ClientDescriptor)

	require.Len(t, enq.events, 1)
	assert.True(t, enq.events[0].Success)
	assert.Equal(t, int64(1), enq.events[0].AccountID)
	assert.NotEmpty(t, enq.events[0].ID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	h, store, enq, _ := setup(t)

	rec1, env1 := postLogin(h, `{"email":"u1@x.com","password":"wrong"}`)
	rec2, env2 := postLogin(h, `{"email":"ghost@x.com","password":"secret123"}`)
	for _, rec := range []*httptest.ResponseRecorder{rec1, rec2} {
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	assert.Equal(t, "Invalid email or password.", env1.Error.Message)
	assert.Equal(t, env1.Error, env2.Error)
	assert.Len(t, store.Attempts(), 2)
	assert.Len(t, enq.events, 2)
}

func TestLoginLocked(t *testing.T) {
	h, store, _, _ := setup(t)
	until := time.Now().Add(5 * time.Minute)
	store.Put(domain.Account{ID: 2, Name: "U2", Email: "u2@x.com", PasswordHash: "hash:pw", LockoutUntil: &until})

	rec, env := postLogin(h, `{"email":"u2@x.com","password":"pw"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "account_locked", env.Error.Code)
	assert.Equal(t, float64(5), env.Error.Details["retryAfterMinutes"])
}

func TestLoginValidation(t *testing.T) {
	h, store, enq, _ := setup(t)
	for _, body := range []string{`{`, `{"email":"nope","password":"x"}`, `{"email":"u1@x.com"}`} {
		rec, env := postLogin(h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "validation_error", env.Error.Code)
	}
	assert.Empty(t, store.Attempts())
	assert.Empty(t, enq.events)
}

func TestMe(t *testing.T) {
	h, _, _, _ := setup(t)
	claims := domain.SessionClaims{AccountID: 4, Email: "m@x.com", Name: "M", IssuedAt: time.Unix(100, 0).UTC(), ExpiresAt: time.Unix(200, 0).UTC()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req = req.WithContext(middleware.WithClaims(req.Context(), claims))
	rec := httptest.NewRecorder()
	h.Me(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env envelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var data meResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, domain.AccountID(4), data.User.ID)

	rec = httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", SanitizeEmail("  A@B.com "))
	assert.Equal(t, "", SanitizeEmail(strings.Repeat("a", 250)+"@b.com"))
	assert.Equal(t, "unknown", ClientDescriptor(" "))
}

func TestClientDescriptorKeepsValidUTF8(t *testing.T) {
	got := ClientDescriptor(strings.Repeat("a", 511) + "é")
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", 511), got)

	got = ClientDescriptor(strings.Repeat("é", 300))
	assert.True(t, utf8.ValidString(got))
	assert.Len(t, got, MaxClientBytes)

	assert.Equal(t, "curl/8.0", ClientDescriptor("curl/\xff8.0"))
}
