package profile

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Influencer is a content-creator profile. An influencer may be linked to a
// secondary profile (a business, realtor, or service provider they also
// own) and can switch session context into it.
type Influencer struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	UserCode          string    `json:"user_code,omitempty"`
	AvatarURL         string    `json:"avatar_url,omitempty"`
	BusinessID        *int64    `json:"business_id,omitempty"`
	RealtorID         *int64    `json:"realtor_id,omitempty"`
	ServiceProviderID *int64    `json:"service_provider_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// InfluencerRepository provides CRUD operations for influencers.
type InfluencerRepository struct {
	db *sql.DB
}

// NewInfluencerRepository creates an influencer repository.
func NewInfluencerRepository(db *sql.DB) *InfluencerRepository {
	return &InfluencerRepository{db: db}
}

const influencerColumns = "id, name, email, user_code, avatar_url, business_id, realtor_id, service_provider_id, created_at"

func scanInfluencer(row interface{ Scan(...interface{}) error }) (*Influencer, error) {
	var inf Influencer
	var businessID, realtorID, providerID sql.NullInt64
	err := row.Scan(
		&inf.ID, &inf.Name, &inf.Email, &inf.UserCode, &inf.AvatarURL,
		&businessID, &realtorID, &providerID, &inf.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if businessID.Valid {
		inf.BusinessID = &businessID.Int64
	}
	if realtorID.Valid {
		inf.RealtorID = &realtorID.Int64
	}
	if providerID.Valid {
		inf.ServiceProviderID = &providerID.Int64
	}
	return &inf, nil
}

// Create adds an influencer and returns it with its generated ID.
func (r *InfluencerRepository) Create(inf *Influencer) (*Influencer, error) {
	if strings.TrimSpace(inf.Name) == "" || strings.TrimSpace(inf.Email) == "" {
		return nil, fmt.Errorf("name and email are required")
	}

	result, err := r.db.Exec(
		"INSERT INTO influencers (name, email, user_code, avatar_url, business_id, realtor_id, service_provider_id) VALUES (?, ?, ?, ?, ?, ?, ?)",
		strings.TrimSpace(inf.Name), strings.ToLower(strings.TrimSpace(inf.Email)),
		inf.UserCode, inf.AvatarURL, inf.BusinessID, inf.RealtorID, inf.ServiceProviderID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("influencer already exists: %s", inf.Email)
		}
		return nil, fmt.Errorf("inserting influencer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns an influencer by ID.
func (r *InfluencerRepository) GetByID(id int64) (*Influencer, error) {
	row := r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM influencers WHERE id = ?", influencerColumns), id,
	)
	inf, err := scanInfluencer(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("influencer %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying influencer %d: %w", id, err)
	}
	return inf, nil
}

// GetByEmail returns an influencer by email (case-insensitive), or nil if absent.
func (r *InfluencerRepository) GetByEmail(email string) (*Influencer, error) {
	row := r.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM influencers WHERE LOWER(email) = ?", influencerColumns),
		strings.ToLower(strings.TrimSpace(email)),
	)
	inf, err := scanInfluencer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying influencer by email: %w", err)
	}
	return inf, nil
}

// List returns all influencers, newest first.
func (r *InfluencerRepository) List() ([]*Influencer, error) {
	rows, err := r.db.Query(
		fmt.Sprintf("SELECT %s FROM influencers ORDER BY created_at DESC, id DESC", influencerColumns),
	)
	if err != nil {
		return nil, fmt.Errorf("listing influencers: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var influencers []*Influencer
	for rows.Next() {
		inf, err := scanInfluencer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning influencer: %w", err)
		}
		influencers = append(influencers, inf)
	}

	return influencers, rows.Err()
}

// Update modifies the mutable fields of an influencer, including the
// secondary-profile links.
func (r *InfluencerRepository) Update(inf *Influencer) error {
	result, err := r.db.Exec(
		"UPDATE influencers SET name = ?, user_code = ?, avatar_url = ?, business_id = ?, realtor_id = ?, service_provider_id = ? WHERE id = ?",
		inf.Name, inf.UserCode, inf.AvatarURL,
		inf.BusinessID, inf.RealtorID, inf.ServiceProviderID, inf.ID,
	)
	if err != nil {
		return fmt.Errorf("updating influencer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("influencer %d not found", inf.ID)
	}

	return nil
}

// Delete removes an influencer by ID.
func (r *InfluencerRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM influencers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting influencer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("influencer %d not found", id)
	}

	return nil
}
