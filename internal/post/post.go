// Package post implements the community feed shared by all roles.
package post

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Post is a community feed entry. The author snapshot (role, id, name)
// is denormalized so posts survive profile edits and deletions.
type Post struct {
	ID         int64     `json:"id"`
	AuthorRole string    `json:"author_role"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Body       string    `json:"body"`
	ImageURL   string    `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Repository provides CRUD operations for community posts.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a post repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const postColumns = "id, author_role, author_id, author_name, body, image_url, created_at"

func scanPost(row interface{ Scan(...interface{}) error }) (*Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.AuthorRole, &p.AuthorID, &p.AuthorName, &p.Body, &p.ImageURL, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create adds a post to the feed.
func (r *Repository) Create(p *Post) (*Post, error) {
	if strings.TrimSpace(p.Body) == "" {
		return nil, fmt.Errorf("body is required")
	}
	if p.AuthorRole == "" || p.AuthorID == 0 {
		return nil, fmt.Errorf("author is required")
	}

	result, err := r.db.Exec(
		"INSERT INTO posts (author_role, author_id, author_name, body, image_url) VALUES (?, ?, ?, ?, ?)",
		p.AuthorRole, p.AuthorID, p.AuthorName, strings.TrimSpace(p.Body), p.ImageURL,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a post by ID.
func (r *Repository) GetByID(id int64) (*Post, error) {
	row := r.db.QueryRow(fmt.Sprintf("SELECT %s FROM posts WHERE id = ?", postColumns), id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("post %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying post %d: %w", id, err)
	}
	return p, nil
}

// List returns feed posts, newest first, up to limit (0 means all).
func (r *Repository) List(limit int) ([]*Post, error) {
	query := fmt.Sprintf("SELECT %s FROM posts ORDER BY created_at DESC, id DESC", postColumns)
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var posts []*Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

// ListByAuthor returns one author's posts, newest first.
func (r *Repository) ListByAuthor(role string, authorID int64) ([]*Post, error) {
	rows, err := r.db.Query(
		fmt.Sprintf("SELECT %s FROM posts WHERE author_role = ? AND author_id = ? ORDER BY created_at DESC, id DESC", postColumns),
		role, authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing posts for %s %d: %w", role, authorID, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var posts []*Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

// Delete removes a post, but only when the caller is its author.
func (r *Repository) Delete(id int64, role string, authorID int64) error {
	result, err := r.db.Exec(
		"DELETE FROM posts WHERE id = ? AND author_role = ? AND author_id = ?",
		id, role, authorID,
	)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("post %d not found for this author", id)
	}

	return nil
}
