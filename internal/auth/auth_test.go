package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	repo "phlab/internal/repo"
)

type memRepo struct {
	mu    sync.Mutex
	users []repo.User
}

func (m *memRepo) CreateUser(_ context.Context, login, email, password string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Login == login {
			return 0, errors.New("duplicate login")
		}
	}
	id := len(m.users) + 1
	m.users = append(m.users, repo.User{ID: id, Login: login, Email: email, Password: password})
	return id, nil
}

func (m *memRepo) GetByLogin(_ context.Context, login string) (repo.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Login == login {
			return u, nil
		}
	}
	return repo.User{}, repo.ErrNotFound
}

func (m *memRepo) GetByID(_ context.Context, id int) (repo.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return repo.User{}, repo.ErrNotFound
}

func newEnv() *Authenv {
	return &Authenv{JWTkey: []byte("test-key"), Repo: &memRepo{}}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestRegisterLoginAndMiddleware(t *testing.T) {
	env := newEnv()

	rec := httptest.NewRecorder()
	env.RegisterHandler(rec, httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"login":" ana ","email":"ana@example.com","password":"secret1"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(t, rec)

	var gotID int
	var gotLogin string
	protected := env.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserID(r.Context())
		gotLogin = UserLogin(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || gotID != 1 || gotLogin != "ana" {
		t.Fatalf("middleware: status %d, id %d, login %q", rec.Code, gotID, gotLogin)
	}

	rec = httptest.NewRecorder()
	env.AuthHandler(rec, httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"login":"ana","password":"secret1"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}
	sessionCookie(t, rec)
}

func TestRegisterValidation(t *testing.T) {
	env := newEnv()
	tests := []struct {
		body string
		code int
	}{
		{`{"login":"bob","email":"b@example.com","password":"123"}`, http.StatusBadRequest},
		{`{"login":"","email":"b@example.com","password":"123456"}`, http.StatusBadRequest},
		{`nope`, http.StatusBadRequest},
		{`{"login":"bob","email":"b@example.com","password":"123456"}`, http.StatusCreated},
		{`{"login":"bob","email":"b@example.com","password":"123456"}`, http.StatusConflict},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		env.RegisterHandler(rec, httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(tt.body)))
		if rec.Code != tt.code {
			t.Errorf("%s: status = %d, want %d", tt.body, rec.Code, tt.code)
		}
	}
}

func TestLoginRejected(t *testing.T) {
	env := newEnv()
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.Repo.CreateUser(context.Background(), "ana", "a@example.com", hash); err != nil {
		t.Fatal(err)
	}

	for _, body := range []string{
		`{"login":"ana","password":"wrong"}`,
		`{"login":"nobody","password":"secret1"}`,
	} {
		rec := httptest.NewRecorder()
		env.AuthHandler(rec, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body)))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", body, rec.Code)
		}
	}
}

func TestMiddlewareRejectsBadTokens(t *testing.T) {
	env := newEnv()
	protected := env.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached")
	}))

	other := &Authenv{JWTkey: []byte("other-key")}
	forged, _ := other.IssueToken(1, "ana", time.Now())
	expired, _ := env.IssueToken(1, "ana", time.Now().Add(-2*TokenTTL))
	noLogin, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1}).SignedString(env.JWTkey)

	for name, value := range map[string]string{
		"forged":   forged,
		"expired":  expired,
		"no login": noLogin,
		"garbage":  "abc",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: value})
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no cookie: status = %d", rec.Code)
	}
}

func TestLogout(t *testing.T) {
	rec := httptest.NewRecorder()
	newEnv().LogoutHandler(rec, httptest.NewRequest(http.MethodPost, "/api/logout", nil))
	c := sessionCookie(t, rec)
	if c.MaxAge >= 0 || c.Value != "" {
		t.Errorf("logout cookie = %+v", c)
	}
}

func TestLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	h := limiter.LimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:" + []string{"1000", "1001", "1002"}[i]
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests && rec.Header().Get("Retry-After") == "" {
			t.Error("missing Retry-After")
		}
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other client limited: %d", rec.Code)
	}
}

func TestLimiterCleanup(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	now := time.Now()
	limiter.getLimiter("10.0.0.1", now.Add(-5*time.Minute))
	limiter.getLimiter("10.0.0.2", now)
	if n := limiter.clients(); n != 2 {
		t.Fatalf("clients = %d, want 2", n)
	}

	limiter.cleanup(now)
	if n := limiter.clients(); n != 1 {
		t.Fatalf("clients after cleanup = %d, want 1", n)
	}
	if _, ok := limiter.ips["10.0.0.2"]; !ok {
		t.Error("active client evicted")
	}

	slow := NewIPRateLimiter(0.01, 5)
	if got := slow.idleAfter(); got != 500*time.Second {
		t.Errorf("idleAfter = %v, want 500s", got)
	}
}
