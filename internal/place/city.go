// Package place provides the destination catalog: cities, beaches, and
// business categories.
package place

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// City is a coastal destination.
type City struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	State       string    `json:"state,omitempty"`
	Description string    `json:"description,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CityRepository provides CRUD operations for cities.
type CityRepository struct {
	db *sql.DB
}

// NewCityRepository creates a city repository.
func NewCityRepository(db *sql.DB) *CityRepository {
	return &CityRepository{db: db}
}

const cityColumns = "id, name, state, description, cover_url, created_at"

func scanCity(row interface{ Scan(...interface{}) error }) (*City, error) {
	var c City
	err := row.Scan(&c.ID, &c.Name, &c.State, &c.Description, &c.CoverURL, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create adds a city and returns it with its generated ID.
func (r *CityRepository) Create(c *City) (*City, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	result, err := r.db.Exec(
		"INSERT INTO cities (name, state, description, cover_url) VALUES (?, ?, ?, ?)",
		strings.TrimSpace(c.Name), c.State, c.Description, c.CoverURL,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting city: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a city by ID.
func (r *CityRepository) GetByID(id int64) (*City, error) {
	row := r.db.QueryRow(fmt.Sprintf("SELECT %s FROM cities WHERE id = ?", cityColumns), id)
	c, err := scanCity(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("city %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying city %d: %w", id, err)
	}
	return c, nil
}

// List returns all cities ordered by name.
func (r *CityRepository) List() ([]*City, error) {
	rows, err := r.db.Query(fmt.Sprintf("SELECT %s FROM cities ORDER BY name", cityColumns))
	if err != nil {
		return nil, fmt.Errorf("listing cities: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var cities []*City
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning city: %w", err)
		}
		cities = append(cities, c)
	}

	return cities, rows.Err()
}

// Update modifies the mutable fields of a city.
func (r *CityRepository) Update(c *City) error {
	result, err := r.db.Exec(
		"UPDATE cities SET name = ?, state = ?, description = ?, cover_url = ? WHERE id = ?",
		c.Name, c.State, c.Description, c.CoverURL, c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating city: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("city %d not found", c.ID)
	}

	return nil
}

// Delete removes a city by ID. Beaches cascade.
func (r *CityRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM cities WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting city: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("city %d not found", id)
	}

	return nil
}
