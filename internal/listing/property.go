// Package listing holds property listings and the client-side style
// filter, sort, favorite, and compare machinery built on top of them.
package listing

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Property types.
const (
	TypeSale      = "sale"
	TypeRent      = "rent"
	TypeTemporary = "temporary"
)

// ValidType reports whether s is a known property type.
func ValidType(s string) bool {
	switch s {
	case TypeSale, TypeRent, TypeTemporary:
		return true
	}
	return false
}

// Property is a real-estate listing published by a realtor.
type Property struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Address      string    `json:"address,omitempty"`
	Neighborhood string    `json:"neighborhood,omitempty"`
	CityID       *int64    `json:"city_id,omitempty"`
	CategoryID   *int64    `json:"category_id,omitempty"`
	RealtorID    *int64    `json:"realtor_id,omitempty"`
	Type         string    `json:"property_type"`
	Price        int64     `json:"price"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	Area         float64   `json:"area"`
	CoverURL     string    `json:"cover_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Repository provides CRUD operations for properties.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a property repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const propertyColumns = `id, title, description, address, neighborhood, city_id,
	category_id, realtor_id, property_type, price, bedrooms, bathrooms, area,
	cover_url, created_at, updated_at`

func scanProperty(row interface{ Scan(...interface{}) error }) (*Property, error) {
	var p Property
	var cityID, categoryID, realtorID sql.NullInt64

	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Address, &p.Neighborhood,
		&cityID, &categoryID, &realtorID, &p.Type, &p.Price, &p.Bedrooms,
		&p.Bathrooms, &p.Area, &p.CoverURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if cityID.Valid {
		p.CityID = &cityID.Int64
	}
	if categoryID.Valid {
		p.CategoryID = &categoryID.Int64
	}
	if realtorID.Valid {
		p.RealtorID = &realtorID.Int64
	}

	return &p, nil
}

// Create adds a property and returns it with its generated ID.
func (r *Repository) Create(p *Property) (*Property, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if p.Type == "" {
		p.Type = TypeSale
	}
	if !ValidType(p.Type) {
		return nil, fmt.Errorf("invalid property type %q", p.Type)
	}
	if p.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}

	result, err := r.db.Exec(
		`INSERT INTO properties (title, description, address, neighborhood, city_id,
			category_id, realtor_id, property_type, price, bedrooms, bathrooms, area, cover_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(p.Title), p.Description, p.Address, p.Neighborhood,
		p.CityID, p.CategoryID, p.RealtorID, p.Type, p.Price, p.Bedrooms,
		p.Bathrooms, p.Area, p.CoverURL,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting property: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a property by ID.
func (r *Repository) GetByID(id int64) (*Property, error) {
	row := r.db.QueryRow(fmt.Sprintf("SELECT %s FROM properties WHERE id = ?", propertyColumns), id)
	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("property %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying property %d: %w", id, err)
	}
	return p, nil
}

// List returns all properties, newest first. Filtering and sorting
// beyond this baseline happen in memory via Apply.
func (r *Repository) List() ([]*Property, error) {
	rows, err := r.db.Query(fmt.Sprintf("SELECT %s FROM properties ORDER BY created_at DESC, id DESC", propertyColumns))
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var properties []*Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		properties = append(properties, p)
	}

	return properties, rows.Err()
}

// ListByRealtor returns the properties published by one realtor, newest first.
func (r *Repository) ListByRealtor(realtorID int64) ([]*Property, error) {
	rows, err := r.db.Query(
		fmt.Sprintf("SELECT %s FROM properties WHERE realtor_id = ? ORDER BY created_at DESC, id DESC", propertyColumns),
		realtorID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing properties for realtor %d: %w", realtorID, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var properties []*Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		properties = append(properties, p)
	}

	return properties, rows.Err()
}

// Update modifies the mutable fields of a property.
func (r *Repository) Update(p *Property) error {
	if !ValidType(p.Type) {
		return fmt.Errorf("invalid property type %q", p.Type)
	}

	result, err := r.db.Exec(
		`UPDATE properties SET title = ?, description = ?, address = ?, neighborhood = ?,
			city_id = ?, category_id = ?, property_type = ?, price = ?, bedrooms = ?,
			bathrooms = ?, area = ?, cover_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		p.Title, p.Description, p.Address, p.Neighborhood, p.CityID, p.CategoryID,
		p.Type, p.Price, p.Bedrooms, p.Bathrooms, p.Area, p.CoverURL, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("property %d not found", p.ID)
	}

	return nil
}

// Delete removes a property by ID.
func (r *Repository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("property %d not found", id)
	}

	return nil
}
