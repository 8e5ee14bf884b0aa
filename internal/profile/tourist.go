package profile

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Tourist is a traveler account profile.
type Tourist struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	UserCode        string    `json:"user_code,omitempty"`
	PointsBalance   int64     `json:"points_balance"`
	CashbackBalance float64   `json:"cashback_balance"`
	CreatedAt       time.Time `json:"created_at"`
}

// TouristRepository provides CRUD operations for tourists.
type TouristRepository struct {
	db *sql.DB
}

// NewTouristRepository creates a tourist repository.
func NewTouristRepository(db *sql.DB) *TouristRepository {
	return &TouristRepository{db: db}
}

const touristColumns = "id, name, email, phone, avatar_url, user_code, points_balance, cashback_balance, created_at"

func scanTourist(row interface{ Scan(...interface{}) error }) (*Tourist, error) {
	var t Tourist
	err := row.Scan(
		&t.ID, &t.Name, &t.Email, &t.Phone, &t.AvatarURL,
		&t.UserCode, &t.PointsBalance, &t.CashbackBalance, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create adds a tourist and returns it with its generated ID.
func (r *TouristRepository) Create(t *Tourist) (*Tourist, error) {
	if strings.TrimSpace(t.Name) == "" || strings.TrimSpace(t.Email) == "" {
		return nil, fmt.Errorf("name and email are required")
	}

	result, err := r.db.Exec(
		"INSERT INTO tourists (name, email, phone, avatar_url, user_code) VALUES (?, ?, ?, ?, ?)",
		strings.TrimSpace(t.Name), strings.ToLower(strings.TrimSpace(t.Email)),
		t.Phone, t.AvatarURL, t.UserCode,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("tourist already exists: %s", t.Email)
		}
		return nil, fmt.Errorf("inserting tourist: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a tourist by ID.
func (r *TouristRepository) GetByID(id int64) (*Tourist, error) {
	row := r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM tourists WHERE id = ?", touristColumns), id,
	)
	t, err := scanTourist(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tourist %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying tourist %d: %w", id, err)
	}
	return t, nil
}

// GetByEmail returns a tourist by email (case-insensitive), or nil if absent.
func (r *TouristRepository) GetByEmail(email string) (*Tourist, error) {
	row := r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM tourists WHERE LOWER(email) = ?", touristColumns),
		strings.ToLower(strings.TrimSpace(email)),
	)
	t, err := scanTourist(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying tourist by email: %w", err)
	}
	return t, nil
}

// List returns all tourists, newest first.
func (r *TouristRepository) List() ([]*Tourist, error) {
	rows, err := r.db.Query(
		fmt.Sprintf("SELECT %s FROM tourists ORDER BY created_at DESC, id DESC", touristColumns),
	)
	if err != nil {
		return nil, fmt.Errorf("listing tourists: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var tourists []*Tourist
	for rows.Next() {
		t, err := scanTourist(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tourist: %w", err)
		}
		tourists = append(tourists, t)
	}

	return tourists, rows.Err()
}

// Update modifies the mutable fields of a tourist.
func (r *TouristRepository) Update(t *Tourist) error {
	result, err := r.db.Exec(
		"UPDATE tourists SET name = ?, phone = ?, avatar_url = ?, user_code = ?, points_balance = ?, cashback_balance = ? WHERE id = ?",
		t.Name, t.Phone, t.AvatarURL, t.UserCode, t.PointsBalance, t.CashbackBalance, t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating tourist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("tourist %d not found", t.ID)
	}

	return nil
}

// Delete removes a tourist by ID.
func (r *TouristRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM tourists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting tourist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("tourist %d not found", id)
	}

	return nil
}
