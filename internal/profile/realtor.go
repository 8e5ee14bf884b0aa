package profile

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Realtor is a real-estate agent profile. New realtors start in the
// pending approval state and cannot publish listings until approved.
type Realtor struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone,omitempty"`
	CompanyName   string         `json:"company_name,omitempty"`
	LicenseNumber string         `json:"license_number,omitempty"`
	Status        ApprovalStatus `json:"status"`
	AvatarURL     string         `json:"avatar_url,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// RealtorRepository provides CRUD operations for realtors.
type RealtorRepository struct {
	db *sql.DB
}

// NewRealtorRepository creates a realtor repository.
func NewRealtorRepository(db *sql.DB) *RealtorRepository {
	return &RealtorRepository{db: db}
}

const realtorColumns = "id, name, email, phone, company_name, license_number, status, avatar_url, created_at"

func scanRealtor(row interface{ Scan(...interface{}) error }) (*Realtor, error) {
	var rl Realtor
	var status string
	err := row.Scan(
		&rl.ID, &rl.Name, &rl.Email, &rl.Phone, &rl.CompanyName,
		&rl.LicenseNumber, &status, &rl.AvatarURL, &rl.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rl.Status = ApprovalStatus(status)
	return &rl, nil
}

// Create adds a realtor in the pending state.
func (r *RealtorRepository) Create(rl *Realtor) (*Realtor, error) {
	if strings.TrimSpace(rl.Name) == "" || strings.TrimSpace(rl.Email) == "" {
		return nil, fmt.Errorf("name and email are required")
	}

	result, err := r.db.Exec(
		"INSERT INTO realtors (name, email, phone, company_name, license_number, avatar_url) VALUES (?, ?, ?, ?, ?, ?)",
		strings.TrimSpace(rl.Name), strings.ToLower(strings.TrimSpace(rl.Email)),
		rl.Phone, rl.CompanyName, rl.LicenseNumber, rl.AvatarURL,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("realtor already exists: %s", rl.Email)
		}
		return nil, fmt.Errorf("inserting realtor: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a realtor by ID.
func (r *RealtorRepository) GetByID(id int64) (*Realtor, error) {
	row := r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM realtors WHERE id = ?", realtorColumns), id,
	)
	rl, err := scanRealtor(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("realtor %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying realtor %d: %w", id, err)
	}
	return rl, nil
}

// GetByEmail returns a realtor by email (case-insensitive), or nil if absent.
func (r *RealtorRepository) GetByEmail(email string) (*Realtor, error) {
	row := r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM realtors WHERE LOWER(email) = ?", realtorColumns),
		strings.ToLower(strings.TrimSpace(email)),
	)
	rl, err := scanRealtor(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying realtor by email: %w", err)
	}
	return rl, nil
}

// List returns all realtors, optionally restricted to one approval status.
func (r *RealtorRepository) List(status ApprovalStatus) ([]*Realtor, error) {
	query := fmt.Sprintf("SELECT %s FROM realtors", realtorColumns)
	var args []interface{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing realtors: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var realtors []*Realtor
	for rows.Next() {
		rl, err := scanRealtor(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning realtor: %w", err)
		}
		realtors = append(realtors, rl)
	}

	return realtors, rows.Err()
}

// Update modifies the mutable fields of a realtor.
func (r *RealtorRepository) Update(rl *Realtor) error {
	result, err := r.db.Exec(
		"UPDATE realtors SET name = ?, phone = ?, company_name = ?, license_number = ?, avatar_url = ? WHERE id = ?",
		rl.Name, rl.Phone, rl.CompanyName, rl.LicenseNumber, rl.AvatarURL, rl.ID,
	)
	if err != nil {
		return fmt.Errorf("updating realtor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("realtor %d not found", rl.ID)
	}

	return nil
}

// SetStatus moves a realtor through the approval workflow.
func (r *RealtorRepository) SetStatus(id int64, status ApprovalStatus) error {
	if !ValidApprovalStatus(string(status)) {
		return fmt.Errorf("invalid approval status: %s", status)
	}

	result, err := r.db.Exec(
		"UPDATE realtors SET status = ? WHERE id = ?", string(status), id,
	)
	if err != nil {
		return fmt.Errorf("updating realtor status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("realtor %d not found", id)
	}

	return nil
}

// Delete removes a realtor by ID. Their properties cascade.
func (r *RealtorRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM realtors WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting realtor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("realtor %d not found", id)
	}

	return nil
}
