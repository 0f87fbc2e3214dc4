package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sangkips/pos-terminal/internal/domain/entity"
	"github.com/sangkips/pos-terminal/internal/infrastructure/backend"
	"github.com/sangkips/pos-terminal/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func newMemIdempotencyRepo() *memIdempotencyRepo {
	return &memIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
}

func (r *memIdempotencyRepo) GetByKey(_ context.Context, key, scope string) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[scope+"/"+key], nil
}

func (r *memIdempotencyRepo) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[ikey.Scope+"/"+ikey.Key] = ikey
	return nil
}

func (r *memIdempotencyRepo) DeleteExpired(context.Context) error { return nil }

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	secret := "shared-secret"
	signed := func(exp time.Time) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "op-7", "exp": exp.Unix()})
		s, err := tok.SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	var gotOperator, gotToken string
	newRouter := func(cfg AuthConfig) *gin.Engine {
		r := gin.New()
		r.GET("/", AuthMiddleware(cfg), func(c *gin.Context) {
			gotOperator = GetOperatorID(c)
			gotToken, _ = backend.AccessTokenFrom(c.Request.Context())
			c.Status(http.StatusOK)
		})
		return r
	}

	verifying := newRouter(AuthConfig{Inspector: utils.NewTokenInspector(secret)})
	opaque := newRouter(AuthConfig{Inspector: utils.NewTokenInspector("")})
	kiosk := newRouter(AuthConfig{Inspector: utils.NewTokenInspector(""), ServiceToken: "svc"})

	valid := signed(time.Now().Add(time.Hour))
	tests := []struct {
		name     string
		router   *gin.Engine
		header   string
		want     int
		operator string
	}{
		{"missing header", verifying, "", http.StatusUnauthorized, ""},
		{"wrong scheme", verifying, "Basic abc", http.StatusUnauthorized, ""},
		{"valid jwt", verifying, "Bearer " + valid, http.StatusOK, "op-7"},
		{"expired jwt", verifying, "Bearer " + signed(time.Now().Add(-time.Hour)), http.StatusUnauthorized, ""},
		{"opaque rejected when verifying", verifying, "Bearer opaque", http.StatusUnauthorized, ""},
		{"opaque forwarded", opaque, "Bearer opaque", http.StatusOK, ""},
		{"kiosk without header", kiosk, "", http.StatusOK, ServiceOperator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotOperator, gotToken = "", ""
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := serve(tt.router, http.MethodGet, "/", headers)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			if w.Code == http.StatusOK && gotOperator != tt.operator {
				t.Errorf("operator = %q, want %q", gotOperator, tt.operator)
			}
		})
	}

	serve(opaque, http.MethodGet, "/", map[string]string{"Authorization": "Bearer opaque"})
	if gotToken != "opaque" {
		t.Errorf("forwarded token = %q, want opaque", gotToken)
	}
}

func TestTerminalMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/t/:terminal_id", TerminalMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, GetTerminalID(c))
	})

	for path, want := range map[string]int{
		"/t/till-1":         http.StatusOK,
		"/t/7c9e_AB":        http.StatusOK,
		"/t/till.1":         http.StatusBadRequest,
		"/t/" + longID(101): http.StatusBadRequest,
	} {
		if w := serve(r, http.MethodGet, path, nil); w.Code != want {
			t.Errorf("%s: status = %d, want %d", path, w.Code, want)
		}
	}
}

func longID(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}

func TestIdempotencyStoresOnlySuccess(t *testing.T) {
	repo := newMemIdempotencyRepo()
	calls := 0
	status := http.StatusBadGateway

	r := gin.New()
	r.POST("/t/:terminal_id/checkout", TerminalMiddleware(), Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		c.JSON(status, gin.H{"call": calls})
	})
	headers := map[string]string{IdempotencyKeyHeader: "k1"}

	// A failed attempt is not stored, so the retry runs the handler again.
	if w := serve(r, http.MethodPost, "/t/a/checkout", headers); w.Code != http.StatusBadGateway {
		t.Fatalf("first status = %d", w.Code)
	}
	status = http.StatusCreated
	first := serve(r, http.MethodPost, "/t/a/checkout", headers)
	if first.Code != http.StatusCreated || calls != 2 {
		t.Fatalf("retry: status=%d calls=%d", first.Code, calls)
	}

	replay := serve(r, http.MethodPost, "/t/a/checkout", headers)
	if calls != 2 || replay.Header().Get("X-Idempotency-Replayed") != "true" || replay.Body.String() != first.Body.String() {
		t.Errorf("replay: calls=%d body=%s", calls, replay.Body.String())
	}

	// Same key from another terminal is a different request.
	serve(r, http.MethodPost, "/t/b/checkout", headers)
	if calls != 3 {
		t.Errorf("calls = %d after other terminal, want 3", calls)
	}
}

func TestIdempotencyRerunsExpiredKey(t *testing.T) {
	repo := newMemIdempotencyRepo()
	repo.keys["|a/k1"] = &entity.IdempotencyKey{
		Key: "k1", Scope: "|a", ResponseCode: http.StatusCreated,
		ResponseBody: `{"call":0}`, ExpiresAt: time.Now().Add(-time.Minute),
	}
	calls := 0

	r := gin.New()
	r.POST("/t/:terminal_id/checkout", TerminalMiddleware(), Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})
	headers := map[string]string{IdempotencyKeyHeader: "k1"}

	first := serve(r, http.MethodPost, "/t/a/checkout", headers)
	if calls != 1 || first.Header().Get("X-Idempotency-Replayed") != "" {
		t.Fatalf("expired key replayed: calls=%d", calls)
	}
	replay := serve(r, http.MethodPost, "/t/a/checkout", headers)
	if calls != 1 || replay.Body.String() != first.Body.String() {
		t.Errorf("new response not stored: calls=%d body=%s", calls, replay.Body.String())
	}
}

func TestRateLimiterPerTerminal(t *testing.T) {
	rl := NewTerminalRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	defer rl.Stop()

	r := gin.New()
	r.GET("/t/:terminal_id", TerminalMiddleware(), rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		if w := serve(r, http.MethodGet, "/t/a", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}
	w := serve(r, http.MethodGet, "/t/a", nil)
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") != "1" {
		t.Errorf("third request: status = %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/t/b", nil); w.Code != http.StatusOK {
		t.Errorf("other terminal limited: status = %d", w.Code)
	}
	if got := rl.Stats()["active_terminals"]; got != 2 {
		t.Errorf("active terminals = %v, want 2", got)
	}
}
