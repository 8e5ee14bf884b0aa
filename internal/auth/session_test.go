package auth

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func sessionCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatalf("expected cookie named %q", cookieName)
	return nil
}

func TestSessionSaveAndLoad(t *testing.T) {
	store := NewSessionStore(testDB(t))

	touristID := int64(12)
	points := int64(340)
	rec := &SessionRecord{
		ID:            12,
		Email:         "maria@example.com",
		FullName:      "Maria Souza",
		Role:          RoleTourist,
		TouristID:     &touristID,
		PointsBalance: &points,
		UserCode:      "MAR340",
	}

	w := httptest.NewRecorder()
	if err := store.Save(w, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	// A fresh request with the cookie simulates a page reload.
	r := httptest.NewRequest("GET", "/user-profile", nil)
	r.AddCookie(sessionCookieFrom(t, w))

	got, err := store.Load(r)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatal("expected a session record")
	}
	if !reflect.DeepEqual(got, rec) {
		t.Errorf("loaded record = %+v, want %+v", got, rec)
	}
}

func TestSessionLoadNoCookie(t *testing.T) {
	store := NewSessionStore(testDB(t))

	r := httptest.NewRequest("GET", "/", nil)
	rec, err := store.Load(r)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil record without cookie, got %+v", rec)
	}
}

func TestSessionLoadCorruptRecord(t *testing.T) {
	d := testDB(t)
	store := NewSessionStore(d)

	// Plant a session row whose payload is not valid JSON.
	if _, err := d.Exec(
		"INSERT INTO sessions (id, record_json, expires_at) VALUES (?, ?, datetime('now', '+1 day'))",
		"corrupt-session", "{not json!",
	); err != nil {
		t.Fatalf("plant corrupt row: %v", err)
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: cookieName, Value: "corrupt-session"})

	rec, err := store.Load(r)
	if err != nil {
		t.Fatalf("load should not fail on corrupt data: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil record for corrupt session, got %+v", rec)
	}

	// Corrupt row must be gone
	var count int
	if err := d.QueryRow("SELECT COUNT(*) FROM sessions WHERE id = 'corrupt-session'").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Error("corrupt session row was not removed")
	}
}

func TestSessionClear(t *testing.T) {
	store := NewSessionStore(testDB(t))

	w := httptest.NewRecorder()
	if err := store.Save(w, &SessionRecord{Email: "x@example.com", Role: RoleTourist}); err != nil {
		t.Fatalf("save: %v", err)
	}
	cookie := sessionCookieFrom(t, w)

	r := httptest.NewRequest("POST", "/auth/logout", nil)
	r.AddCookie(cookie)
	w2 := httptest.NewRecorder()
	if err := store.Clear(w2, r); err != nil {
		t.Fatalf("clear: %v", err)
	}

	r2 := httptest.NewRequest("GET", "/", nil)
	r2.AddCookie(cookie)
	rec, err := store.Load(r2)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec != nil {
		t.Error("expected nil record after clear")
	}
}

func TestSwitchContextPreservesInfluencerLink(t *testing.T) {
	store := NewSessionStore(testDB(t))

	infID := int64(3)
	bizID := int64(9)
	rec := &SessionRecord{
		ID:           3,
		Email:        "leo@example.com",
		FullName:     "Leo Costa",
		Role:         RoleInfluencer,
		InfluencerID: &infID,
		BusinessID:   &bizID,
	}

	w := httptest.NewRecorder()
	if err := store.Save(w, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	cookie := sessionCookieFrom(t, w)

	// Switch into the linked business
	r := httptest.NewRequest("POST", "/auth/switch-context", nil)
	r.AddCookie(cookie)
	cashback := 12.5
	switched, err := store.SwitchContext(r, ContextPatch{
		Role:            RoleBusiness,
		FullName:        "Quiosque do Leo",
		ID:              9,
		BusinessID:      &bizID,
		Status:          "approved",
		CashbackBalance: &cashback,
	})
	if err != nil {
		t.Fatalf("switch: %v", err)
	}

	if switched.Role != RoleBusiness {
		t.Errorf("role = %q, want business", switched.Role)
	}
	if switched.FullName != "Quiosque do Leo" {
		t.Errorf("full_name = %q, want business name", switched.FullName)
	}
	if switched.InfluencerID == nil || *switched.InfluencerID != infID {
		t.Fatal("influencer linkage lost on switch; reverse switch impossible")
	}

	// A later Load must see the switched record, same cookie.
	r2 := httptest.NewRequest("GET", "/business-profile", nil)
	r2.AddCookie(cookie)
	got, err := store.Load(r2)
	if err != nil {
		t.Fatalf("load after switch: %v", err)
	}
	if got.Role != RoleBusiness || got.InfluencerID == nil {
		t.Errorf("persisted record = %+v, want switched role with linkage", got)
	}
}

func TestSwitchContextWithoutSession(t *testing.T) {
	store := NewSessionStore(testDB(t))

	r := httptest.NewRequest("POST", "/auth/switch-context", nil)
	if _, err := store.SwitchContext(r, ContextPatch{Role: RoleBusiness}); err == nil {
		t.Fatal("expected error without a session")
	}
}

func TestSessionCleanup(t *testing.T) {
	d := testDB(t)
	store := NewSessionStore(d)

	if _, err := d.Exec(
		"INSERT INTO sessions (id, record_json, expires_at) VALUES ('old', '{}', datetime('now', '-1 day'))",
	); err != nil {
		t.Fatalf("plant expired row: %v", err)
	}

	if err := store.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	var count int
	if err := d.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected expired sessions removed, %d remain", count)
	}
}
