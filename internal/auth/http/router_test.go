package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	httpapi "github.com/website-kz/sentinel/internal/auth/http"
	"github.com/website-kz/sentinel/internal/auth/service"
	"github.com/website-kz/sentinel/internal/auth/store/drivers/sqlite"
	"github.com/website-kz/sentinel/pkg/cryptox"
	"github.com/website-kz/sentinel/pkg/jwtx"
)

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

type captureSender struct {
	mu     sync.Mutex
	bodies []string
}

func (s *captureSender) Send(_ context.Context, _, _, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies = append(s.bodies, body)
	return nil
}

func (s *captureSender) lastCode(t *testing.T) string {
	t.Helper()

	s.mu.Lock()
	defer s.mu.Unlock()

	require.NotEmpty(t, s.bodies, "no mail was delivered")
	code := codePattern.FindString(s.bodies[len(s.bodies)-1])
	require.NotEmpty(t, code)
	return code
}

func newTestRouter(t *testing.T) (*httpapi.Router, *captureSender) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	pemKey, err := jwtx.GenerateEd25519PEM()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.Add(signer.PublicJWK()))

	sender := &captureSender{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := httpapi.NewRouter(keys, "test", st, logger)
	router.AuthService = &service.AuthService{
		Store:  st,
		Hasher: cryptox.NewHasher("test-pepper"),
		Codes:  &service.CodeService{Store: st},
		Tokens: &service.TokenService{Signer: signer, Issuer: "sentinel-test"},
		Mail:   sender,
	}
	router.ApplyRoutes()

	return router, sender
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/auth/register", map[string]string{
		"email":    "alice@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same email again conflicts.
	rec = doJSON(t, router, http.MethodPost, "/v1/auth/register", map[string]string{
		"email":    "alice@example.com",
		"password": "another password",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "email_taken")
}

func TestRegisterEndpoint_BadRequests(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body any
	}{
		{"invalid email", map[string]string{"email": "nope", "password": "longenoughpassword"}},
		{"weak password", map[string]string{"email": "bob@example.com", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/v1/auth/register", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, rec.Body.String(), "invalid_request")
		})
	}

	t.Run("malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", bytes.NewBufferString("{nope"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginAndVerifyFlow(t *testing.T) {
	router, sender := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/auth/register", map[string]string{
		"email":    "alice@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Login code sent")

	rec = doJSON(t, router, http.MethodPost, "/v1/auth/verify", map[string]string{
		"email": "alice@example.com",
		"code":  sender.lastCode(t),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	// Replay is rejected with a stable error code.
	rec = doJSON(t, router, http.MethodPost, "/v1/auth/verify", map[string]string{
		"email": "alice@example.com",
		"code":  sender.lastCode(t),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "code_already_used")
}

func TestLoginEndpoint_InvalidCredentials(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/auth/register", map[string]string{
		"email":    "alice@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong password",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_credentials")

	// Unknown accounts produce the identical response.
	rec2 := doJSON(t, router, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    "mallory@example.com",
		"password": "wrong password",
	})
	require.Equal(t, rec.Code, rec2.Code)
	require.JSONEq(t, rec.Body.String(), rec2.Body.String())
}

func TestVerifyEndpoint_NoCode(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/auth/verify", map[string]string{
		"email": "nobody@example.com",
		"code":  "123456",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "code_not_found")
}

func TestLoginEndpoint_RateLimited(t *testing.T) {
	router, _ := newTestRouter(t)

	var last int
	for i := range 10 {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewBufferString(`{}`))
		req.RemoteAddr = "198.51.100.7:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		last = rec.Code

		if rec.Code == http.StatusTooManyRequests {
			require.GreaterOrEqual(t, i+1, 6, "limit should not trip before the strict budget is spent")
			return
		}
	}
	require.Equal(t, http.StatusTooManyRequests, last, "repeated logins should eventually be throttled")
}

func TestJWKSEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var jwks jwtx.JWKS
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jwks))
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
	require.Equal(t, "test-key", jwks.Keys[0].Kid)
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/livez", "/readyz"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			require.Contains(t, rec.Body.String(), `"status":"ok"`)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/register", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
