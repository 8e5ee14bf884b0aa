package profile

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Business is a local business profile (restaurants, rentals, tour
// operators). Logins match on BusinessEmail.
type Business struct {
	ID              int64          `json:"id"`
	BusinessName    string         `json:"business_name"`
	BusinessEmail   string         `json:"business_email"`
	Phone           string         `json:"phone,omitempty"`
	CityID          *int64         `json:"city_id,omitempty"`
	CategoryID      *int64         `json:"category_id,omitempty"`
	Description     string         `json:"description,omitempty"`
	Status          ApprovalStatus `json:"status"`
	CashbackBalance float64        `json:"cashback_balance"`
	CoverURL        string         `json:"cover_url,omitempty"`
	Instagram       string         `json:"instagram,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// BusinessRepository provides CRUD operations for businesses.
type BusinessRepository struct {
	db *sql.DB
}

// NewBusinessRepository creates a business repository.
func NewBusinessRepository(db *sql.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

const businessColumns = "id, business_name, business_email, phone, city_id, category_id, description, status, cashback_balance, cover_url, instagram, created_at"

func scanBusiness(row interface{ Scan(...interface{}) error }) (*Business, error) {
	var b Business
	var cityID, categoryID sql.NullInt64
	var status string
	err := row.Scan(
		&b.ID, &b.BusinessName, &b.BusinessEmail, &b.Phone,
		&cityID, &categoryID, &b.Description, &status,
		&b.CashbackBalance, &b.CoverURL, &b.Instagram, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cityID.Valid {
		b.CityID = &cityID.Int64
	}
	if categoryID.Valid {
		b.CategoryID = &categoryID.Int64
	}
	b.Status = ApprovalStatus(status)
	return &b, nil
}

// Create adds a business in the pending state.
func (r *BusinessRepository) Create(b *Business) (*Business, error) {
	if strings.TrimSpace(b.BusinessName) == "" || strings.TrimSpace(b.BusinessEmail) == "" {
		return nil, fmt.Errorf("business_name and business_email are required")
	}

	result, err := r.db.Exec(
		"INSERT INTO businesses (business_name, business_email, phone, city_id, category_id, description, cover_url, instagram) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		strings.TrimSpace(b.BusinessName), strings.ToLower(strings.TrimSpace(b.BusinessEmail)),
		b.Phone, b.CityID, b.CategoryID, b.Description, b.CoverURL, b.Instagram,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("business already exists: %s", b.BusinessEmail)
		}
		return nil, fmt.Errorf("inserting business: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a business by ID.
func (r *BusinessRepository) GetByID(id int64) (*Business, error) {
	row := r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM businesses WHERE id = ?", businessColumns), id,
	)
	b, err := scanBusiness(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("business %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying business %d: %w", id, err)
	}
	return b, nil
}

// GetByEmail returns a business by its login email (case-insensitive),
// or nil if absent.
func (r *BusinessRepository) GetByEmail(email string) (*Business, error) {
	row := r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM businesses WHERE LOWER(business_email) = ?", businessColumns),
		strings.ToLower(strings.TrimSpace(email)),
	)
	b, err := scanBusiness(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying business by email: %w", err)
	}
	return b, nil
}

// ListOptions restricts List results.
type BusinessListOptions struct {
	CityID     *int64
	CategoryID *int64
	Status     ApprovalStatus
}

// List returns businesses, optionally filtered by city, category, or status.
func (r *BusinessRepository) List(opts BusinessListOptions) ([]*Business, error) {
	query := fmt.Sprintf("SELECT %s FROM businesses", businessColumns)
	var conditions []string
	var args []interface{}

	if opts.CityID != nil {
		conditions = append(conditions, "city_id = ?")
		args = append(args, *opts.CityID)
	}
	if opts.CategoryID != nil {
		conditions = append(conditions, "category_id = ?")
		args = append(args, *opts.CategoryID)
	}
	if opts.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(opts.Status))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY business_name"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing businesses: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var businesses []*Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning business: %w", err)
		}
		businesses = append(businesses, b)
	}

	return businesses, rows.Err()
}

// Update modifies the mutable fields of a business.
func (r *BusinessRepository) Update(b *Business) error {
	result, err := r.db.Exec(
		"UPDATE businesses SET business_name = ?, phone = ?, city_id = ?, category_id = ?, description = ?, cover_url = ?, instagram = ?, cashback_balance = ? WHERE id = ?",
		b.BusinessName, b.Phone, b.CityID, b.CategoryID, b.Description,
		b.CoverURL, b.Instagram, b.CashbackBalance, b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating business: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("business %d not found", b.ID)
	}

	return nil
}

// SetStatus moves a business through the approval workflow.
func (r *BusinessRepository) SetStatus(id int64, status ApprovalStatus) error {
	if !ValidApprovalStatus(string(status)) {
		return fmt.Errorf("invalid approval status: %s", status)
	}

	result, err := r.db.Exec(
		"UPDATE businesses SET status = ? WHERE id = ?", string(status), id,
	)
	if err != nil {
		return fmt.Errorf("updating business status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("business %d not found", id)
	}

	return nil
}

// Delete removes a business by ID.
func (r *BusinessRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM businesses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting business: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("business %d not found", id)
	}

	return nil
}
