package profile

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// ServiceProvider is a local service profile (boat tours, surf lessons,
// transfers).
type ServiceProvider struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	ServiceType string         `json:"service_type,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	CityID      *int64         `json:"city_id,omitempty"`
	Status      ApprovalStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ServiceProviderRepository provides CRUD operations for service providers.
type ServiceProviderRepository struct {
	db *sql.DB
}

// NewServiceProviderRepository creates a service provider repository.
func NewServiceProviderRepository(db *sql.DB) *ServiceProviderRepository {
	return &ServiceProviderRepository{db: db}
}

const providerColumns = "id, name, email, service_type, phone, city_id, status, created_at"

func scanProvider(row interface{ Scan(...interface{}) error }) (*ServiceProvider, error) {
	var sp ServiceProvider
	var cityID sql.NullInt64
	var status string
	err := row.Scan(
		&sp.ID, &sp.Name, &sp.Email, &sp.ServiceType, &sp.Phone,
		&cityID, &status, &sp.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cityID.Valid {
		sp.CityID = &cityID.Int64
	}
	sp.Status = ApprovalStatus(status)
	return &sp, nil
}

// Create adds a service provider and returns it with its generated ID.
func (r *ServiceProviderRepository) Create(sp *ServiceProvider) (*ServiceProvider, error) {
	if strings.TrimSpace(sp.Name) == "" || strings.TrimSpace(sp.Email) == "" {
		return nil, fmt.Errorf("name and email are required")
	}

	result, err := r.db.Exec(
		"INSERT INTO service_providers (name, email, service_type, phone, city_id) VALUES (?, ?, ?, ?, ?)",
		strings.TrimSpace(sp.Name), strings.ToLower(strings.TrimSpace(sp.Email)),
		sp.ServiceType, sp.Phone, sp.CityID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("service provider already exists: %s", sp.Email)
		}
		return nil, fmt.Errorf("inserting service provider: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a service provider by ID.
func (r *ServiceProviderRepository) GetByID(id int64) (*ServiceProvider, error) {
	row := r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM service_providers WHERE id = ?", providerColumns), id,
	)
	sp, err := scanProvider(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("service provider %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying service provider %d: %w", id, err)
	}
	return sp, nil
}

// GetByEmail returns a service provider by email (case-insensitive),
// or nil if absent.
func (r *ServiceProviderRepository) GetByEmail(email string) (*ServiceProvider, error) {
	row := r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM service_providers WHERE LOWER(email) = ?", providerColumns),
		strings.ToLower(strings.TrimSpace(email)),
	)
	sp, err := scanProvider(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying service provider by email: %w", err)
	}
	return sp, nil
}

// List returns service providers, optionally restricted to one city.
func (r *ServiceProviderRepository) List(cityID *int64) ([]*ServiceProvider, error) {
	query := fmt.Sprintf("SELECT %s FROM service_providers", providerColumns)
	var args []interface{}
	if cityID != nil {
		query += " WHERE city_id = ?"
		args = append(args, *cityID)
	}
	query += " ORDER BY name"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing service providers: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var providers []*ServiceProvider
	for rows.Next() {
		sp, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning service provider: %w", err)
		}
		providers = append(providers, sp)
	}

	return providers, rows.Err()
}

// Update modifies the mutable fields of a service provider.
func (r *ServiceProviderRepository) Update(sp *ServiceProvider) error {
	result, err := r.db.Exec(
		"UPDATE service_providers SET name = ?, service_type = ?, phone = ?, city_id = ? WHERE id = ?",
		sp.Name, sp.ServiceType, sp.Phone, sp.CityID, sp.ID,
	)
	if err != nil {
		return fmt.Errorf("updating service provider: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("service provider %d not found", sp.ID)
	}

	return nil
}

// Delete removes a service provider by ID.
func (r *ServiceProviderRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM service_providers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting service provider: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("service provider %d not found", id)
	}

	return nil
}
