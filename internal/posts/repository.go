package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/racso574/duoot-api/internal/models"
	"github.com/racso574/duoot-api/pkg/apperrors"
)

// NewChoice is one choice of a post being created. Choices are numbered by
// their position in the request, starting at 1.
type NewChoice struct {
	TextContent string `json:"text_content" binding:"required"`
	ImageURL    string `json:"image_url"`
}

// Repository handles post persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a posts repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a post with its choices and category links in one
// transaction: either every row is visible afterwards or none.
func (r *Repository) Create(ctx context.Context, ownerID int64, title, description string, choices []NewChoice, categoryIDs []int64) (*models.Post, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", apperrors.ErrInvalidArgument)
	}
	if len(choices) < 2 {
		return nil, fmt.Errorf("a post needs at least two choices: %w", apperrors.ErrInvalidArgument)
	}
	distinct := dedupe(categoryIDs)
	if len(distinct) > 0 {
		var known int
		if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE id = ANY($1)`, distinct).Scan(&known); err != nil {
			return nil, err
		}
		if known != len(distinct) {
			return nil, fmt.Errorf("one or more category ids do not exist: %w", apperrors.ErrInvalidArgument)
		}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	p := &models.Post{UserID: ownerID, Title: title, Description: description}
	const insertPost = `INSERT INTO posts (user_id, title, description) VALUES ($1, $2, $3)
		RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insertPost, ownerID, title, description).Scan(&p.ID, &p.CreatedAt); err != nil {
		return nil, err
	}

	const insertChoice = `INSERT INTO choices (post_id, choice_number, text_content, image_url)
		VALUES ($1, $2, $3, NULLIF($4, '')) RETURNING id`
	for i, nc := range choices {
		ch := models.Choice{
			PostID:       p.ID,
			ChoiceNumber: i + 1,
			TextContent:  nc.TextContent,
			ImageURL:     nc.ImageURL,
		}
		if err := tx.QueryRow(ctx, insertChoice, p.ID, ch.ChoiceNumber, ch.TextContent, ch.ImageURL).Scan(&ch.ID); err != nil {
			return nil, err
		}
		p.Choices = append(p.Choices, ch)
	}

	const insertLink = `INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)`
	for _, catID := range distinct {
		if _, err := tx.Exec(ctx, insertLink, p.ID, catID); err != nil {
			return nil, err
		}
	}
	p.CategoryIDs = distinct

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID returns a post with its choices and category ids.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	const q = `SELECT id, user_id, title, description, created_at FROM posts WHERE id = $1`
	var p models.Post
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	list := []models.Post{p}
	if err := r.attachChoicesAndCategories(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// List returns posts with their choices and category ids, newest first,
// optionally filtered by category. Vote and comment payloads are fetched
// through their own endpoints to bound response size.
func (r *Repository) List(ctx context.Context, categoryID *int64) ([]models.Post, error) {
	q := `SELECT p.id, p.user_id, p.title, p.description, p.created_at FROM posts p`
	var args []interface{}
	if categoryID != nil {
		q += ` JOIN post_categories pc ON pc.post_id = p.id AND pc.category_id = $1`
		args = append(args, *categoryID)
	}
	q += ` ORDER BY p.created_at DESC, p.id DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachChoicesAndCategories(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) attachChoicesAndCategories(ctx context.Context, list []models.Post) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]int64, len(list))
	index := make(map[int64]*models.Post, len(list))
	for i := range list {
		ids[i] = list[i].ID
		index[list[i].ID] = &list[i]
	}

	const choiceQ = `SELECT id, post_id, choice_number, text_content, COALESCE(image_url, '')
		FROM choices WHERE post_id = ANY($1) ORDER BY post_id, choice_number`
	rows, err := r.pool.Query(ctx, choiceQ, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var ch models.Choice
		if err := rows.Scan(&ch.ID, &ch.PostID, &ch.ChoiceNumber, &ch.TextContent, &ch.ImageURL); err != nil {
			return err
		}
		if p, ok := index[ch.PostID]; ok {
			p.Choices = append(p.Choices, ch)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	const catQ = `SELECT post_id, category_id FROM post_categories WHERE post_id = ANY($1) ORDER BY post_id, category_id`
	catRows, err := r.pool.Query(ctx, catQ, ids)
	if err != nil {
		return err
	}
	defer catRows.Close()
	for catRows.Next() {
		var postID, catID int64
		if err := catRows.Scan(&postID, &catID); err != nil {
			return err
		}
		if p, ok := index[postID]; ok {
			p.CategoryIDs = append(p.CategoryIDs, catID)
		}
	}
	return catRows.Err()
}

// OwnerID returns the owning user id of a post.
func (r *Repository) OwnerID(ctx context.Context, postID int64) (int64, error) {
	var ownerID int64
	err := r.pool.QueryRow(ctx, `SELECT user_id FROM posts WHERE id = $1`, postID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("post %d: %w", postID, apperrors.ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	return ownerID, nil
}

// RequireOwner fails with ErrForbidden unless requesterID owns the post,
// ErrNotFound when the post is absent.
func (r *Repository) RequireOwner(ctx context.Context, postID, requesterID int64) error {
	ownerID, err := r.OwnerID(ctx, postID)
	if err != nil {
		return err
	}
	if ownerID != requesterID {
		return fmt.Errorf("post %d is not owned by user %d: %w", postID, requesterID, apperrors.ErrForbidden)
	}
	return nil
}

// Update changes a post's title and description. The creation date is kept.
func (r *Repository) Update(ctx context.Context, id, requesterID int64, title, description string) error {
	if title == "" {
		return fmt.Errorf("title is required: %w", apperrors.ErrInvalidArgument)
	}
	if err := r.RequireOwner(ctx, id, requesterID); err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `UPDATE posts SET title = $1, description = $2 WHERE id = $3`, title, description, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Deleted between the ownership check and the write.
		return fmt.Errorf("post %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// Delete removes a post. The schema cascades to choices, votes, comments and
// category links.
func (r *Repository) Delete(ctx context.Context, id, requesterID int64) error {
	if err := r.RequireOwner(ctx, id, requesterID); err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %d: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
