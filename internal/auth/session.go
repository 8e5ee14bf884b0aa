package auth

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	sessionExpiry = 30 * 24 * time.Hour // 30 days
	cookieName    = "litoral_session"
)

// SessionStore is the single source of truth for "who is logged in."
// Each session is one SQLite row holding the serialized record; the client
// only ever carries the opaque session ID in an HttpOnly cookie.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore creates a session store.
func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save creates a new session for the record and sets the cookie.
// The row is committed before Save returns, so a redirect issued after it
// cannot race a mount-time Load on the destination page.
func (s *SessionStore) Save(w http.ResponseWriter, rec *SessionRecord) error {
	id, err := generateSessionID()
	if err != nil {
		return fmt.Errorf("generating session ID: %w", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("serializing session record: %w", err)
	}

	expiresAt := time.Now().Add(sessionExpiry)

	if _, err := s.db.Exec(
		"INSERT INTO sessions (id, record_json, expires_at) VALUES (?, ?, ?)",
		id, string(data), expiresAt,
	); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// Load reads the session record for the request's cookie.
// Returns (nil, nil) when there is no session. A corrupt stored record is
// treated as logged-out: the row is removed and nil is returned, never a
// parse error.
func (s *SessionStore) Load(r *http.Request) (*SessionRecord, error) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil, nil
	}

	var data string
	var expiresAt time.Time

	err = s.db.QueryRow(
		"SELECT record_json, expires_at FROM sessions WHERE id = ?",
		cookie.Value,
	).Scan(&data, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	if time.Now().After(expiresAt) {
		if _, delErr := s.db.Exec("DELETE FROM sessions WHERE id = ?", cookie.Value); delErr != nil {
			return nil, fmt.Errorf("deleting expired session: %w", delErr)
		}
		return nil, nil
	}

	var rec SessionRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		if _, delErr := s.db.Exec("DELETE FROM sessions WHERE id = ?", cookie.Value); delErr != nil {
			return nil, fmt.Errorf("deleting corrupt session: %w", delErr)
		}
		return nil, nil
	}

	return &rec, nil
}

// SessionID returns the request's session ID, or "" when absent.
// Used to key per-session transient state like the compare list.
func (s *SessionStore) SessionID(r *http.Request) string {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Clear removes the session row and expires the cookie.
func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil // no session to clear
	}

	if _, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", cookie.Value); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// SwitchContext shallow-merges the patch onto the current record and
// rewrites the same session row, so every later Load sees the new role.
// Returns the updated record.
func (s *SessionStore) SwitchContext(r *http.Request, patch ContextPatch) (*SessionRecord, error) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil, fmt.Errorf("no active session")
	}

	rec, err := s.Load(r)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("no active session")
	}

	patch.apply(rec)

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("serializing session record: %w", err)
	}

	result, err := s.db.Exec(
		"UPDATE sessions SET record_json = ? WHERE id = ?",
		string(data), cookie.Value,
	)
	if err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("session disappeared during switch")
	}

	return rec, nil
}

// Cleanup removes expired sessions.
func (s *SessionStore) Cleanup() error {
	if _, err := s.db.Exec(
		"DELETE FROM sessions WHERE expires_at < ?",
		time.Now(),
	); err != nil {
		return fmt.Errorf("cleaning up sessions: %w", err)
	}
	return nil
}

func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
