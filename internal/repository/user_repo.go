package repository

import (
	"database/sql"
	"time"

	"strokeclash/internal/database"
	"strokeclash/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindOrCreate returns the user with the given username, creating it if
// missing. The insert is a no-op upsert on the unique username so concurrent
// callers racing on the same name all land on one row.
func (r *UserRepository) FindOrCreate(username string) (*models.User, error) {
	err := r.db.Upsert("users",
		[]string{"username"},
		[]string{"username"},
		[]string{"username"},
		username,
	)
	if err != nil {
		return nil, err
	}
	return r.GetByUsername(username)
}

// GetByUsername retrieves a user by username, nil when not found
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	query := `
		SELECT id, username, display_name, email, created_at, updated_at
		FROM users
		WHERE username = ?
	`

	user := &models.User{}
	err := r.db.QueryRow(query, username).Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user by id, nil when not found
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	query := `
		SELECT id, username, display_name, email, created_at, updated_at
		FROM users
		WHERE id = ?
	`

	user := &models.User{}
	err := r.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUsersWithDueReviews returns users who have an email on file and at
// least one character due for review
func (r *UserRepository) GetUsersWithDueReviews(now time.Time) ([]models.User, error) {
	query := `
		SELECT DISTINCT u.id, u.username, u.display_name, u.email, u.created_at, u.updated_at
		FROM users u
		JOIN user_progress p ON p.user_id = u.id
		WHERE u.email != '' AND p.next_review_at IS NOT NULL AND p.next_review_at <= ?
	`

	rows, err := r.db.Query(query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.DisplayName,
			&user.Email,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}
