package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/racso574/duoot-api/internal/models"
	"github.com/racso574/duoot-api/pkg/apperrors"
	"github.com/racso574/duoot-api/pkg/database"
)

// Repository handles user persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new user. A duplicate email or username is reported as
// ErrConflict via the unique constraints, not a pre-check.
func (r *Repository) Create(ctx context.Context, username, email, passwordHash, profileImage string) (*models.User, error) {
	const q = `INSERT INTO users (username, email, password_hash, profile_image)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id, username, email, password_hash, COALESCE(profile_image, ''), created_at`
	var u models.User
	err := r.pool.QueryRow(ctx, q, username, email, passwordHash, profileImage).
		Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.ProfileImage, &u.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("email or username already taken: %w", apperrors.ErrConflict)
		}
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByEmail returns a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *Repository) getOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	q := `SELECT id, username, email, password_hash, COALESCE(profile_image, ''), created_at FROM users ` + where
	var u models.User
	err := r.pool.QueryRow(ctx, q, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.ProfileImage, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUsername returns the username for an id.
func (r *Repository) GetUsername(ctx context.Context, id int64) (string, error) {
	var username string
	err := r.pool.QueryRow(ctx, `SELECT username FROM users WHERE id = $1`, id).Scan(&username)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return username, nil
}

// Delete removes a user. The schema cascades the deletion to their posts,
// votes, comments and trait links.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
