package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/walleto/walleto/internal/mailer"
	"github.com/walleto/walleto/internal/service"
	"github.com/walleto/walleto/internal/store/drivers/sqlite"
	"github.com/walleto/walleto/pkg/cryptox"
	"github.com/walleto/walleto/pkg/httpx"
	"github.com/walleto/walleto/pkg/jwtx"
)

type testMailer struct {
	sent []mailer.Message
}

func (m *testMailer) Send(_ context.Context, msg mailer.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

type apiEnv struct {
	srv    *httptest.Server
	mail   *testMailer
	signer *jwtx.HS256
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	// generous budgets so tests never trip the limiter
	big := httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	origStrict, origModerate := httpx.StrictLimit, httpx.ModerateLimit
	httpx.StrictLimit, httpx.ModerateLimit = big, big
	t.Cleanup(func() { httpx.StrictLimit, httpx.ModerateLimit = origStrict, origModerate })

	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	signer, err := jwtx.NewHS256([]byte("test-secret-test-secret-test-secr"), "walleto-test")
	require.NoError(t, err)

	mail := &testMailer{}
	handler := NewRouter(Config{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Verifier: signer,
		Auth:     service.NewAuthService(s, signer, mail, "https://walleto.test", "walleto-test"),
		Expenses: service.NewExpenseService(s),
		Store:    s,
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &apiEnv{srv: srv, mail: mail, signer: signer}
}

func (env *apiEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, env.srv.URL+path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := env.srv.Client().Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, raw
}

func (env *apiEnv) register(t *testing.T, name, email, password string) (token string) {
	t.Helper()

	resp, raw := env.do(t, http.MethodPost, "/v1/auth/register", "", map[string]any{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestRegisterAndLogin(t *testing.T) {
	env := newAPIEnv(t)

	resp, raw := env.do(t, http.MethodPost, "/v1/auth/register", "", map[string]any{
		"name": "Alice", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var reg struct {
		Token           string `json:"token"`
		VerificationURL string `json:"verificationUrl"`
		User            struct {
			ID       string `json:"id"`
			Email    string `json:"email"`
			Verified bool   `json:"verified"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(raw, &reg))
	require.NotEmpty(t, reg.Token)
	require.NotEmpty(t, reg.User.ID)
	require.False(t, reg.User.Verified)
	require.Contains(t, reg.VerificationURL, "/v1/auth/verify-email/")

	// wrong password
	resp, raw = env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "wrong-pass",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, string(raw), "Invalid credentials")

	// unknown email yields the identical response
	resp, raw2 := env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email": "nobody@example.com", "password": "wrong-pass",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.JSONEq(t, string(raw), string(raw2))

	// right password
	resp, raw = env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(raw, &login))

	claims, err := env.signer.Verify(login.Token)
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, claims.Subject)
}

func TestRegisterValidation(t *testing.T) {
	env := newAPIEnv(t)

	resp, raw := env.do(t, http.MethodPost, "/v1/auth/register", "", map[string]any{
		"name": "A", "email": "not-an-email", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out struct {
		Message string `json:"message"`
		Errors  []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Equal(t, "Validation Error", out.Message)
	require.Len(t, out.Errors, 3)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	env := newAPIEnv(t)
	env.register(t, "Alice", "alice@example.com", "secret123")

	resp, raw := env.do(t, http.MethodPost, "/v1/auth/register", "", map[string]any{
		"name": "Impostor", "email": "alice@example.com", "password": "other-pass",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Contains(t, string(raw), "Email already in use")
}

func TestVerifyEmailEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	env.register(t, "Alice", "alice@example.com", "secret123")

	require.NotEmpty(t, env.mail.sent)
	body := env.mail.sent[0].Body
	start := strings.Index(body, "https://walleto.test")
	require.GreaterOrEqual(t, start, 0)
	end := strings.IndexAny(body[start:], " \n")
	link := body[start : start+end]
	path := strings.TrimPrefix(link, "https://walleto.test")

	resp, raw := env.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	require.Contains(t, string(raw), "Email verified")

	// the link is single use
	resp, raw = env.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, string(raw), "Invalid or expired token")
}

func TestPasswordResetEndpoints(t *testing.T) {
	env := newAPIEnv(t)
	env.register(t, "Alice", "alice@example.com", "secret123")

	resp, raw := env.do(t, http.MethodPost, "/v1/auth/forgot-password", "", map[string]any{
		"email": "alice@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	// unknown email is a 404, a deliberate contract quirk
	resp, _ = env.do(t, http.MethodPost, "/v1/auth/forgot-password", "", map[string]any{
		"email": "nobody@example.com",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := env.mail.sent[len(env.mail.sent)-1].Body
	start := strings.Index(body, "https://walleto.test")
	end := strings.IndexAny(body[start:], " \n")
	path := strings.TrimPrefix(body[start:start+end], "https://walleto.test")

	resp, raw = env.do(t, http.MethodPost, path, "", map[string]any{"password": "brand-new-pass"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, _ = env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email": "alice@example.com", "password": "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// reused link fails
	resp, _ = env.do(t, http.MethodPost, path, "", map[string]any{"password": "third-pass"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExpensesRequireAuth(t *testing.T) {
	env := newAPIEnv(t)

	resp, raw := env.do(t, http.MethodGet, "/v1/expenses", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, string(raw), "Not authorized")

	resp, _ = env.do(t, http.MethodGet, "/v1/expenses", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestExpenseLifecycle(t *testing.T) {
	env := newAPIEnv(t)
	token := env.register(t, "Alice", "alice@example.com", "secret123")

	resp, raw := env.do(t, http.MethodPost, "/v1/expenses", token, map[string]any{
		"title":         "Coffee",
		"amount":        4.5,
		"category":      "Food",
		"paymentMethod": "Card",
		"merchant":      "Starbucks",
		"date":          "2024-03-01T09:05:42Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var created struct {
		ID       string  `json:"id"`
		Amount   float64 `json:"amount"`
		GroupKey string  `json:"groupKey"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))
	require.Equal(t, "Starbucks_202403010905", created.GroupKey)

	resp, raw = env.do(t, http.MethodGet, "/v1/expenses", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)

	// partial patch: only amount changes, the group key survives
	resp, raw = env.do(t, http.MethodPut, "/v1/expenses/"+created.ID, token, map[string]any{
		"amount": 6.0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var updated struct {
		Amount   float64 `json:"amount"`
		GroupKey string  `json:"groupKey"`
		Title    string  `json:"title"`
	}
	require.NoError(t, json.Unmarshal(raw, &updated))
	require.Equal(t, 6.0, updated.Amount)
	require.Equal(t, "Coffee", updated.Title)
	require.Equal(t, "Starbucks_202403010905", updated.GroupKey)

	// a blank merchant clears the key
	resp, raw = env.do(t, http.MethodPut, "/v1/expenses/"+created.ID, token, map[string]any{
		"merchant": "",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotContains(t, string(raw), "groupKey")

	resp, raw = env.do(t, http.MethodDelete, "/v1/expenses/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(raw), "Expense removed")

	resp, _ = env.do(t, http.MethodGet, "/v1/expenses/"+created.ID, token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExpenseCrossUserIndistinguishable(t *testing.T) {
	env := newAPIEnv(t)
	alice := env.register(t, "Alice", "alice@example.com", "secret123")
	mallory := env.register(t, "Mallory", "mallory@example.com", "secret456")

	resp, raw := env.do(t, http.MethodPost, "/v1/expenses", alice, map[string]any{
		"title": "Groceries", "amount": 42.0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &created))

	// someone else's record and a missing record answer identically
	resp, ownBody := env.do(t, http.MethodGet, "/v1/expenses/"+created.ID, mallory, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, missingBody := env.do(t, http.MethodGet, "/v1/expenses/does-not-exist", mallory, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.JSONEq(t, string(missingBody), string(ownBody))

	resp, _ = env.do(t, http.MethodDelete, "/v1/expenses/"+created.ID, mallory, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// still intact for the owner
	resp, _ = env.do(t, http.MethodGet, "/v1/expenses/"+created.ID, alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestExpenseValidation(t *testing.T) {
	env := newAPIEnv(t)
	token := env.register(t, "Alice", "alice@example.com", "secret123")

	resp, raw := env.do(t, http.MethodPost, "/v1/expenses", token, map[string]any{
		"title": "", "amount": -1, "category": "Gadgets",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out struct {
		Message string `json:"message"`
		Errors  []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Equal(t, "Validation Error", out.Message)
	require.Len(t, out.Errors, 3)
}

func TestHealthAndMetrics(t *testing.T) {
	env := newAPIEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(raw), "http_requests_total")
}

func TestStrictRateLimitOnAuth(t *testing.T) {
	env := newAPIEnv(t)

	// shrink the budget for a router built after this point
	orig := httpx.StrictLimit
	httpx.StrictLimit = httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	t.Cleanup(func() { httpx.StrictLimit = orig })

	limited := NewRouter(Config{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Verifier: env.signer,
		Auth:     service.NewAuthService(nil, env.signer, env.mail, "https://walleto.test", "walleto-test"),
		Expenses: service.NewExpenseService(nil),
		Store:    nil,
	})

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(`{}`))
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		last = rec.Code
	}
	require.Equal(t, http.StatusTooManyRequests, last)
}
