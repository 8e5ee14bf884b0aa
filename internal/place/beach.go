package place

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Beach belongs to a city and carries descriptive metadata shown on
// destination pages.
type Beach struct {
	ID          int64     `json:"id"`
	CityID      int64     `json:"city_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeachRepository provides CRUD operations for beaches.
type BeachRepository struct {
	db *sql.DB
}

// NewBeachRepository creates a beach repository.
func NewBeachRepository(db *sql.DB) *BeachRepository {
	return &BeachRepository{db: db}
}

const beachColumns = "id, city_id, name, description, cover_url, created_at"

func scanBeach(row interface{ Scan(...interface{}) error }) (*Beach, error) {
	var b Beach
	err := row.Scan(&b.ID, &b.CityID, &b.Name, &b.Description, &b.CoverURL, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create adds a beach under an existing city.
func (r *BeachRepository) Create(b *Beach) (*Beach, error) {
	if strings.TrimSpace(b.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if b.CityID == 0 {
		return nil, fmt.Errorf("city_id is required")
	}

	result, err := r.db.Exec(
		"INSERT INTO beaches (city_id, name, description, cover_url) VALUES (?, ?, ?, ?)",
		b.CityID, strings.TrimSpace(b.Name), b.Description, b.CoverURL,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting beach: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a beach by ID.
func (r *BeachRepository) GetByID(id int64) (*Beach, error) {
	row := r.db.QueryRow(fmt.Sprintf("SELECT %s FROM beaches WHERE id = ?", beachColumns), id)
	b, err := scanBeach(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("beach %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying beach %d: %w", id, err)
	}
	return b, nil
}

// List returns beaches, optionally restricted to one city.
func (r *BeachRepository) List(cityID int64) ([]*Beach, error) {
	query := fmt.Sprintf("SELECT %s FROM beaches", beachColumns)
	var args []interface{}
	if cityID != 0 {
		query += " WHERE city_id = ?"
		args = append(args, cityID)
	}
	query += " ORDER BY name"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing beaches: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var beaches []*Beach
	for rows.Next() {
		b, err := scanBeach(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning beach: %w", err)
		}
		beaches = append(beaches, b)
	}

	return beaches, rows.Err()
}

// Update modifies the mutable fields of a beach.
func (r *BeachRepository) Update(b *Beach) error {
	result, err := r.db.Exec(
		"UPDATE beaches SET city_id = ?, name = ?, description = ?, cover_url = ? WHERE id = ?",
		b.CityID, b.Name, b.Description, b.CoverURL, b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating beach: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("beach %d not found", b.ID)
	}

	return nil
}

// Delete removes a beach by ID.
func (r *BeachRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM beaches WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting beach: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("beach %d not found", id)
	}

	return nil
}
