package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/litoralapp/litoral/internal/auth"
	"github.com/litoralapp/litoral/internal/db"
)

const testAdminPassword = "super-secret-admin"

func newTestServer(t *testing.T) *Server {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing admin password: %v", err)
	}

	srv, err := NewServer(database, auth.Config{
		AdminEmail:        "admin@litoral.app",
		AdminPasswordHash: string(hash),
		JWTSecret:         "test-secret",
		BaseURL:           "http://localhost:8080",
		UploadDir:         t.TempDir(),
		DevMode:           true,
	})
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}
	return srv
}

// do runs one request through the full middleware chain.
func do(t *testing.T, srv *Server, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}

	r := httptest.NewRequest(method, path, &buf)
	// Distinct per-test address keeps the auth rate limiter from
	// coupling unrelated tests.
	r.RemoteAddr = t.Name() + ":1234"
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return v
}

// signup registers an account and returns its session cookies.
func signup(t *testing.T, srv *Server, role, name, email, password string) []*http.Cookie {
	t.Helper()

	w := do(t, srv, "POST", "/api/auth/signup", map[string]string{
		"role": role, "name": name, "email": email, "password": password,
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup %s: status = %d, body = %s", email, w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

func login(t *testing.T, srv *Server, email, password string) ([]*http.Cookie, loginResponse) {
	t.Helper()

	w := do(t, srv, "POST", "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status = %d, body = %s", email, w.Code, w.Body.String())
	}
	return w.Result().Cookies(), decode[loginResponse](t, w)
}

func TestSignupLoginAndMe(t *testing.T) {
	srv := newTestServer(t)

	signup(t, srv, "tourist", "Maria Souza", "maria@example.com", "password123")

	cookies, resp := login(t, srv, "maria@example.com", "password123")
	if resp.Record.Role != auth.RoleTourist {
		t.Errorf("role = %q, want tourist", resp.Record.Role)
	}
	if resp.Redirect != "/user-profile" {
		t.Errorf("redirect = %q, want /user-profile", resp.Redirect)
	}

	w := do(t, srv, "GET", "/api/auth/me", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("me: status = %d", w.Code)
	}
	rec := decode[auth.SessionRecord](t, w)
	if rec.Email != "maria@example.com" || rec.TouristID == nil {
		t.Errorf("me = %+v", rec)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	srv := newTestServer(t)
	signup(t, srv, "tourist", "Maria", "maria@example.com", "password123")

	w := do(t, srv, "POST", "/api/auth/login", map[string]string{
		"email": "maria@example.com", "password": "wrong-password",
	}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	signup(t, srv, "tourist", "Maria", "maria@example.com", "password123")

	w := do(t, srv, "POST", "/api/auth/signup", map[string]string{
		"role": "realtor", "name": "Maria", "email": "maria@example.com", "password": "password123",
	}, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestSignupWeakPassword(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, "POST", "/api/auth/signup", map[string]string{
		"role": "tourist", "name": "Maria", "email": "maria@example.com", "password": "short",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSignupWeakPasswordLeavesNoProfile(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, "POST", "/api/auth/signup", map[string]string{
		"role": "tourist", "name": "Ana", "email": "ana@example.com", "password": "short",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("weak signup: status = %d, want 400", w.Code)
	}

	// The rejected signup must not create a profile row.
	if tr, err := srv.tourists.GetByEmail("ana@example.com"); err != nil || tr != nil {
		t.Errorf("tourist after rejected signup = %+v, %v; want none", tr, err)
	}

	// The email stays usable: a retry with a valid password succeeds.
	w = do(t, srv, "POST", "/api/auth/signup", map[string]string{
		"role": "tourist", "name": "Ana", "email": "ana@example.com", "password": "password123",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("retry signup: status = %d, body = %s", w.Code, w.Body.String())
	}

	if _, resp := login(t, srv, "ana@example.com", "password123"); resp.Record.TouristID == nil {
		t.Error("retried account missing tourist profile")
	}
}

func TestAdminLogin(t *testing.T) {
	srv := newTestServer(t)

	_, resp := login(t, srv, "admin@litoral.app", testAdminPassword)
	if resp.Record.Role != auth.RoleAdmin {
		t.Errorf("role = %q, want admin", resp.Record.Role)
	}
	if resp.Redirect != "/dashboard" {
		t.Errorf("redirect = %q, want /dashboard", resp.Redirect)
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	srv := newTestServer(t)
	cookies := signup(t, srv, "tourist", "Maria", "maria@example.com", "password123")

	if w := do(t, srv, "POST", "/api/auth/logout", nil, cookies); w.Code != http.StatusOK {
		t.Fatalf("logout: status = %d", w.Code)
	}

	// The old cookie no longer maps to a session row.
	if w := do(t, srv, "GET", "/api/auth/me", nil, cookies); w.Code != http.StatusUnauthorized {
		t.Errorf("me after logout: status = %d, want 401", w.Code)
	}
}

func TestSwitchContextOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	// A business and an influencer linked to it.
	signup(t, srv, "business", "Quiosque do Leo", "leo-biz@example.com", "password123")
	cookies := signup(t, srv, "influencer", "Leo Costa", "leo@example.com", "password123")

	// Link influencer -> business directly in the store.
	biz, err := srv.businesses.GetByEmail("leo-biz@example.com")
	if err != nil || biz == nil {
		t.Fatalf("loading business: %v", err)
	}
	inf, err := srv.influencers.GetByEmail("leo@example.com")
	if err != nil || inf == nil {
		t.Fatalf("loading influencer: %v", err)
	}
	inf.BusinessID = &biz.ID
	if err := srv.influencers.Update(inf); err != nil {
		t.Fatalf("linking influencer: %v", err)
	}

	// Re-login so the session record carries the link.
	cookies, _ = login(t, srv, "leo@example.com", "password123")

	w := do(t, srv, "POST", "/api/auth/switch-context", map[string]string{"target": "business"}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("switch: status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decode[loginResponse](t, w)
	if resp.Record.Role != auth.RoleBusiness {
		t.Errorf("role = %q, want business", resp.Record.Role)
	}
	if resp.Record.InfluencerID == nil {
		t.Error("influencer linkage lost after switch")
	}
	if resp.Redirect != "/business-profile" {
		t.Errorf("redirect = %q", resp.Redirect)
	}

	// The same session now loads as business everywhere.
	me := decode[auth.SessionRecord](t, do(t, srv, "GET", "/api/auth/me", nil, cookies))
	if me.Role != auth.RoleBusiness {
		t.Errorf("me role = %q after switch, want business", me.Role)
	}
}

func TestSwitchContextWithoutLink(t *testing.T) {
	srv := newTestServer(t)
	cookies := signup(t, srv, "influencer", "Solo", "solo@example.com", "password123")

	w := do(t, srv, "POST", "/api/auth/switch-context", map[string]string{"target": "business"}, cookies)
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestTokenIssuedForSession(t *testing.T) {
	srv := newTestServer(t)
	cookies := signup(t, srv, "realtor", "Ana", "ana@example.com", "password123")

	w := do(t, srv, "POST", "/api/auth/token", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("token: status = %d", w.Code)
	}
	resp := decode[map[string]string](t, w)
	if resp["token"] == "" {
		t.Fatal("empty token")
	}

	// The JWT authenticates API calls without a cookie.
	r := httptest.NewRequest("GET", "/api/auth/me", nil)
	r.Header.Set("Authorization", "Bearer "+resp["token"])
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Errorf("me with JWT: status = %d", rec.Code)
	}
}

func TestDashboardRedirectWithoutSession(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, "GET", "/user-profile", nil, nil)
	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want redirect to login", w.Code)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, "GET", "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}
