package auth

import (
	"strings"
	"testing"
)

func TestAPIKeyCreateAndValidate(t *testing.T) {
	store := NewAPIKeyStore(testDB(t))

	raw, key, err := store.Create("ops@example.com", "ci-bot")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(raw, "lt_") {
		t.Errorf("raw key = %q, want lt_ prefix", raw)
	}
	if key.Name != "ci-bot" || key.Email != "ops@example.com" {
		t.Errorf("stored key = %+v", key)
	}

	email, ok, err := store.Validate(raw)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !ok {
		t.Fatal("expected key to validate")
	}
	if email != "ops@example.com" {
		t.Errorf("email = %q, want ops@example.com", email)
	}
}

func TestAPIKeyValidateUnknown(t *testing.T) {
	store := NewAPIKeyStore(testDB(t))

	_, ok, err := store.Validate("lt_deadbeef")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if ok {
		t.Fatal("bogus key validated")
	}
}

func TestAPIKeyRawNeverStored(t *testing.T) {
	d := testDB(t)
	store := NewAPIKeyStore(d)

	raw, _, err := store.Create("ops@example.com", "ci-bot")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var hash string
	if err := d.QueryRow("SELECT key_hash FROM api_keys").Scan(&hash); err != nil {
		t.Fatalf("query: %v", err)
	}
	if hash == raw {
		t.Fatal("raw key stored instead of hash")
	}
}

func TestAPIKeyListAndDelete(t *testing.T) {
	store := NewAPIKeyStore(testDB(t))

	_, key, err := store.Create("ops@example.com", "ci-bot")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := store.Create("other@example.com", "theirs"); err != nil {
		t.Fatalf("create second: %v", err)
	}

	keys, err := store.ListByEmail("ops@example.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("got %d keys, want 1 (scoped to email)", len(keys))
	}

	// Deleting someone else's key must fail
	if err := store.Delete(key.ID, "other@example.com"); err == nil {
		t.Fatal("expected error deleting another account's key")
	}

	if err := store.Delete(key.ID, "ops@example.com"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	keys, err = store.ListByEmail("ops@example.com")
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("got %d keys after delete, want 0", len(keys))
	}
}
