package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials signals wrong email or password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrWeakPassword signals password doesn't meet requirements.
	ErrWeakPassword = errors.New("auth: password must be at least 8 characters")
)

// Credential is one row of the unified login table: every account, whatever
// its role, is keyed here by lower-cased email.
type Credential struct {
	Email        string
	PasswordHash string
	Role         Role
	ProfileID    int64
}

// CredentialStore manages login credentials in SQLite.
type CredentialStore struct {
	db *sql.DB
}

// NewCredentialStore creates a credential store.
func NewCredentialStore(db *sql.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// ValidatePassword checks the signup password policy. Callers that
// create other state alongside the credential must run this first so a
// rejected password leaves nothing behind.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Register hashes the password and inserts a credential row.
// Role may be empty for imported legacy profiles; the resolver then falls
// back to probing the profile collections.
func (s *CredentialStore) Register(email, password string, role Role, profileID int64) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("auth: email is required")
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if role != "" && !ValidRole(role) {
		return fmt.Errorf("auth: invalid role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}

	if _, err := s.db.Exec(
		"INSERT INTO credentials (email, password_hash, role, profile_id) VALUES (?, ?, ?, ?)",
		email, string(hash), string(role), profileID,
	); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "PRIMARY") {
			return fmt.Errorf("auth: account already exists: %s", email)
		}
		return fmt.Errorf("auth: storing credential: %w", err)
	}

	return nil
}

// Get returns the credential for an email, or nil if none exists.
func (s *CredentialStore) Get(email string) (*Credential, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var c Credential
	var role string
	err := s.db.QueryRow(
		"SELECT email, password_hash, role, profile_id FROM credentials WHERE email = ?",
		email,
	).Scan(&c.Email, &c.PasswordHash, &role, &c.ProfileID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("auth: querying credential: %w", err)
	}

	c.Role = Role(role)
	return &c, nil
}

// Verify checks a password against the stored hash for an email.
// Returns the credential on success, ErrInvalidCredentials otherwise.
func (s *CredentialStore) Verify(email, password string) (*Credential, error) {
	c, err := s.Get(email)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return c, nil
}

// UpdatePassword re-hashes and stores a new password.
func (s *CredentialStore) UpdatePassword(email, password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}

	result, err := s.db.Exec(
		"UPDATE credentials SET password_hash = ? WHERE email = ?",
		string(hash), strings.ToLower(strings.TrimSpace(email)),
	)
	if err != nil {
		return fmt.Errorf("auth: updating password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("auth: checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("auth: account not found")
	}

	return nil
}

// Delete removes a credential row.
func (s *CredentialStore) Delete(email string) error {
	_, err := s.db.Exec(
		"DELETE FROM credentials WHERE email = ?",
		strings.ToLower(strings.TrimSpace(email)),
	)
	if err != nil {
		return fmt.Errorf("auth: deleting credential: %w", err)
	}
	return nil
}
