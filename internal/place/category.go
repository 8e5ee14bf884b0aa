package place

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Category classifies businesses and property listings.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryRepository provides CRUD operations for categories.
type CategoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a category repository.
func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = "id, name, icon, created_at"

func scanCategory(row interface{ Scan(...interface{}) error }) (*Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Icon, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create adds a category.
func (r *CategoryRepository) Create(c *Category) (*Category, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	result, err := r.db.Exec("INSERT INTO categories (name, icon) VALUES (?, ?)", name, c.Icon)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("category %q already exists", name)
		}
		return nil, fmt.Errorf("inserting category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a category by ID.
func (r *CategoryRepository) GetByID(id int64) (*Category, error) {
	row := r.db.QueryRow(fmt.Sprintf("SELECT %s FROM categories WHERE id = ?", categoryColumns), id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying category %d: %w", id, err)
	}
	return c, nil
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List() ([]*Category, error) {
	rows, err := r.db.Query(fmt.Sprintf("SELECT %s FROM categories ORDER BY name", categoryColumns))
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var categories []*Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// Delete removes a category by ID.
func (r *CategoryRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("category %d not found", id)
	}

	return nil
}
