package comments

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

// Repository handles comment persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a comments repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create attaches a comment to a post with a server-assigned timestamp.
func (r *Repository) Create(ctx context.Context, postID, userID int64, content string) (*models.Comment, error) {
	if content == "" {
		return nil, fmt.Errorf("comment text must not be empty: %w", apperrors.ErrInvalidArgument)
	}
	const q = `INSERT INTO comments (user_id, post_id, content) VALUES ($1, $2, $3)
		RETURNING id, created_at`
	cm := models.Comment{UserID: userID, PostID: postID, Content: content}
	err := r.pool.QueryRow(ctx, q, userID, postID, content).Scan(&cm.ID, &cm.CreatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("post %d: %w", postID, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &cm, nil
}

// ListForPost returns a post's comments, oldest first.
func (r *Repository) ListForPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("post %d: %w", postID, apperrors.ErrNotFound)
	}

	const q = `SELECT id, user_id, post_id, content, created_at FROM comments
		WHERE post_id = $1 ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, q, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Comment
	for rows.Next() {
		var cm models.Comment
		if err := rows.Scan(&cm.ID, &cm.UserID, &cm.PostID, &cm.Content, &cm.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, cm)
	}
	return list, rows.Err()
}

// Owner returns the author of a comment.
func (r *Repository) Owner(ctx context.Context, commentID int64) (int64, error) {
	var userID int64
	err := r.pool.QueryRow(ctx, `SELECT user_id FROM comments WHERE id = $1`, commentID).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("comment %d: %w", commentID, apperrors.ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// Delete removes a comment.
func (r *Repository) Delete(ctx context.Context, commentID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("comment %d: %w", commentID, apperrors.ErrNotFound)
	}
	return nil
}
