package auth

import (
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-webauthn/webauthn/webauthn"
)

// PasskeyAccount implements webauthn.User for a marketplace account,
// identified by its login email.
type PasskeyAccount struct {
	email       string
	displayName string
	credentials []webauthn.Credential
}

// NewPasskeyAccount creates a PasskeyAccount for the given email.
func NewPasskeyAccount(email, displayName string, credentials []webauthn.Credential) *PasskeyAccount {
	return &PasskeyAccount{
		email:       strings.ToLower(email),
		displayName: displayName,
		credentials: credentials,
	}
}

// WebAuthnID returns a stable user ID derived from the email.
func (a *PasskeyAccount) WebAuthnID() []byte {
	h := sha256.Sum256([]byte(a.email))
	return h[:]
}

// WebAuthnName returns the login email.
func (a *PasskeyAccount) WebAuthnName() string { return a.email }

// WebAuthnDisplayName returns the display name, falling back to the email.
func (a *PasskeyAccount) WebAuthnDisplayName() string {
	if a.displayName != "" {
		return a.displayName
	}
	return a.email
}

// WebAuthnCredentials returns the stored credentials.
func (a *PasskeyAccount) WebAuthnCredentials() []webauthn.Credential { return a.credentials }

// PasskeyStore manages passkey credentials in SQLite.
type PasskeyStore struct {
	db *sql.DB
}

// NewPasskeyStore creates a passkey store.
func NewPasskeyStore(db *sql.DB) *PasskeyStore {
	return &PasskeyStore{db: db}
}

// StoredPasskey is a passkey credential with metadata.
type StoredPasskey struct {
	ID         string
	Email      string
	Name       string
	Credential webauthn.Credential
}

// Save stores a new passkey credential for an account.
func (s *PasskeyStore) Save(email, name string, cred *webauthn.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshaling credential: %w", err)
	}

	id := fmt.Sprintf("%x", cred.ID)
	if _, err := s.db.Exec(
		"INSERT INTO passkey_credentials (id, email, name, credential_json) VALUES (?, ?, ?, ?)",
		id, strings.ToLower(email), name, string(data),
	); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}

	return nil
}

// ListByEmail returns all passkeys registered for the given email.
func (s *PasskeyStore) ListByEmail(email string) ([]StoredPasskey, error) {
	rows, err := s.db.Query(
		"SELECT id, email, name, credential_json FROM passkey_credentials WHERE email = ?",
		strings.ToLower(email),
	)
	if err != nil {
		return nil, fmt.Errorf("querying credentials: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("closing rows: %v\n", cerr)
		}
	}()

	var result []StoredPasskey
	for rows.Next() {
		var sp StoredPasskey
		var data string
		if err := rows.Scan(&sp.ID, &sp.Email, &sp.Name, &data); err != nil {
			return nil, fmt.Errorf("scanning credential: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &sp.Credential); err != nil {
			return nil, fmt.Errorf("unmarshaling credential: %w", err)
		}
		result = append(result, sp)
	}

	return result, rows.Err()
}

// WebAuthnCredentials returns just the webauthn.Credential slice for an email.
func (s *PasskeyStore) WebAuthnCredentials(email string) ([]webauthn.Credential, error) {
	stored, err := s.ListByEmail(email)
	if err != nil {
		return nil, err
	}

	creds := make([]webauthn.Credential, len(stored))
	for i, sp := range stored {
		creds[i] = sp.Credential
	}

	return creds, nil
}

// FindEmailByCredentialID resolves which account a credential belongs to,
// used by discoverable (usernameless) passkey login.
func (s *PasskeyStore) FindEmailByCredentialID(credentialID []byte) (string, error) {
	id := fmt.Sprintf("%x", credentialID)

	var email string
	err := s.db.QueryRow(
		"SELECT email FROM passkey_credentials WHERE id = ?", id,
	).Scan(&email)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("unknown passkey credential")
	}
	if err != nil {
		return "", fmt.Errorf("querying credential: %w", err)
	}

	return email, nil
}

// Delete removes a credential owned by the given account.
func (s *PasskeyStore) Delete(id, email string) error {
	result, err := s.db.Exec(
		"DELETE FROM passkey_credentials WHERE id = ? AND email = ?",
		id, strings.ToLower(email),
	)
	if err != nil {
		return fmt.Errorf("deleting credential: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("credential not found")
	}

	return nil
}
