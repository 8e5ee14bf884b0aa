package listing

import (
	"database/sql"
	"fmt"
)

// FavoriteStore persists the per-account favorites set. Toggling is a
// self-inverse operation: toggling the same property twice restores the
// original set.
type FavoriteStore struct {
	db *sql.DB
}

// NewFavoriteStore creates a favorite store.
func NewFavoriteStore(db *sql.DB) *FavoriteStore {
	return &FavoriteStore{db: db}
}

// Toggle flips membership of propertyID in the account's favorites set
// and reports whether the property is a favorite after the call.
func (s *FavoriteStore) Toggle(email string, propertyID int64) (bool, error) {
	result, err := s.db.Exec(
		"DELETE FROM favorites WHERE account_email = ? AND property_id = ?",
		email, propertyID,
	)
	if err != nil {
		return false, fmt.Errorf("removing favorite: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking affected rows: %w", err)
	}
	if removed > 0 {
		return false, nil
	}

	_, err = s.db.Exec(
		"INSERT INTO favorites (account_email, property_id) VALUES (?, ?)",
		email, propertyID,
	)
	if err != nil {
		return false, fmt.Errorf("adding favorite: %w", err)
	}

	return true, nil
}

// Set returns the account's favorites as a membership set.
func (s *FavoriteStore) Set(email string) (map[int64]bool, error) {
	rows, err := s.db.Query("SELECT property_id FROM favorites WHERE account_email = ?", email)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	set := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		set[id] = true
	}

	return set, rows.Err()
}

// List returns the account's favorite property IDs in insertion order.
func (s *FavoriteStore) List(email string) ([]int64, error) {
	rows, err := s.db.Query(
		"SELECT property_id FROM favorites WHERE account_email = ? ORDER BY id",
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Clear removes every favorite for an account.
func (s *FavoriteStore) Clear(email string) error {
	if _, err := s.db.Exec("DELETE FROM favorites WHERE account_email = ?", email); err != nil {
		return fmt.Errorf("clearing favorites: %w", err)
	}
	return nil
}
