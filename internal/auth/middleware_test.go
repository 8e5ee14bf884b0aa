package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSessionRedirectsDashboards(t *testing.T) {
	sessions := NewSessionStore(testDB(t))
	handler := RequireSession(sessions, okHandler())

	for _, path := range []string{"/dashboard", "/business-profile", "/realtor-dashboard/listings"} {
		r := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusSeeOther {
			t.Errorf("%s: status = %d, want redirect", path, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/login" {
			t.Errorf("%s: location = %q, want /login", path, loc)
		}
	}
}

func TestRequireSessionAllowsPublicPages(t *testing.T) {
	sessions := NewSessionStore(testDB(t))
	handler := RequireSession(sessions, okHandler())

	for _, path := range []string{"/", "/login", "/properties", "/cities/3"} {
		r := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, w.Code)
		}
	}
}

func TestRequireSessionAttachesRecord(t *testing.T) {
	sessions := NewSessionStore(testDB(t))

	w := httptest.NewRecorder()
	if err := sessions.Save(w, &SessionRecord{Email: "maria@example.com", Role: RoleTourist}); err != nil {
		t.Fatalf("save: %v", err)
	}

	var got *SessionRecord
	handler := RequireSession(sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = RecordFromContext(r)
	}))

	r := httptest.NewRequest("GET", "/user-profile", nil)
	r.AddCookie(sessionCookieFrom(t, w))
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if got == nil || got.Email != "maria@example.com" {
		t.Errorf("record from context = %+v, want maria@example.com", got)
	}
}

func TestRequireAPIAuthPublicReads(t *testing.T) {
	d := testDB(t)
	handler := RequireAPIAuth(NewTokenIssuer("s"), NewAPIKeyStore(d), NewCredentialStore(d), NewSessionStore(d), okHandler())

	for _, path := range []string{"/api/properties", "/api/properties/5", "/api/cities", "/api/posts"} {
		r := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Errorf("GET %s: status = %d, want 200 (public)", path, w.Code)
		}
	}
}

func TestRequireAPIAuthRejectsAnonymousWrites(t *testing.T) {
	d := testDB(t)
	handler := RequireAPIAuth(NewTokenIssuer("s"), NewAPIKeyStore(d), NewCredentialStore(d), NewSessionStore(d), okHandler())

	r := httptest.NewRequest("POST", "/api/properties/5/favorite", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAPIAuthAcceptsJWT(t *testing.T) {
	d := testDB(t)
	issuer := NewTokenIssuer("s")
	handler := RequireAPIAuth(issuer, NewAPIKeyStore(d), NewCredentialStore(d), NewSessionStore(d), okHandler())

	token, err := issuer.Issue(&SessionRecord{ID: 7, Email: "maria@example.com", Role: RoleTourist})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	r := httptest.NewRequest("GET", "/api/favorites", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with valid token", w.Code)
	}
}

func TestRequireAPIAuthAcceptsAPIKey(t *testing.T) {
	d := testDB(t)
	apiKeys := NewAPIKeyStore(d)
	creds := NewCredentialStore(d)
	if err := creds.Register("ops@example.com", "password123", RoleBusiness, 4); err != nil {
		t.Fatalf("register: %v", err)
	}
	raw, _, err := apiKeys.Create("ops@example.com", "integration")
	if err != nil {
		t.Fatalf("create key: %v", err)
	}

	var got *SessionRecord
	handler := RequireAPIAuth(NewTokenIssuer("s"), apiKeys, creds, NewSessionStore(d), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = RecordFromContext(r)
	}))

	r := httptest.NewRequest("GET", "/api/favorites", nil)
	r.Header.Set("Authorization", "Bearer "+raw)
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if got == nil || got.Email != "ops@example.com" || got.Role != RoleBusiness {
		t.Errorf("record = %+v, want ops@example.com with business role", got)
	}
}

func TestRequireAPIAuthKeyManagementNeedsSession(t *testing.T) {
	d := testDB(t)
	apiKeys := NewAPIKeyStore(d)
	raw, _, err := apiKeys.Create("ops@example.com", "integration")
	if err != nil {
		t.Fatalf("create key: %v", err)
	}

	handler := RequireAPIAuth(NewTokenIssuer("s"), apiKeys, NewCredentialStore(d), NewSessionStore(d), okHandler())

	// An API key must not be able to manage keys
	r := httptest.NewRequest("GET", "/api/keys", nil)
	r.Header.Set("Authorization", "Bearer "+raw)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for key-based access to key management", w.Code)
	}
}

func TestRequireAPIAuthRateLimits(t *testing.T) {
	d := testDB(t)
	handler := RequireAPIAuth(NewTokenIssuer("s"), NewAPIKeyStore(d), NewCredentialStore(d), NewSessionStore(d), okHandler())

	var last int
	for i := 0; i < rateLimitMaxFail+2; i++ {
		r := httptest.NewRequest("POST", "/api/compare/1", nil)
		r.RemoteAddr = "10.9.8.7:1234"
		r.Header.Set("Authorization", "Bearer bogus")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		last = w.Code
	}

	if last != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429 after repeated failures", last)
	}
}
