// Package polls implements the poll engine: choices, votes and tallies.
//
// The one-vote-per-(user, post) invariant is carried by the UNIQUE(user_id,
// post_id) constraint and a single-statement upsert, so concurrent casts from
// the same user can never produce two rows.
package polls

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

// Repository handles choice and vote persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a polls repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// AddChoice appends a choice to a post. The choice number must be >= 1 and
// unused within the post. Ownership is checked by the handler before calling.
func (r *Repository) AddChoice(ctx context.Context, postID int64, number int, text, imageURL string) (*models.Choice, error) {
	if number < 1 {
		return nil, fmt.Errorf("choice number must be >= 1: %w", apperrors.ErrInvalidArgument)
	}
	if text == "" {
		return nil, fmt.Errorf("choice text is required: %w", apperrors.ErrInvalidArgument)
	}
	const q = `INSERT INTO choices (post_id, choice_number, text_content, image_url)
		VALUES ($1, $2, $3, NULLIF($4, '')) RETURNING id`
	ch := models.Choice{PostID: postID, ChoiceNumber: number, TextContent: text, ImageURL: imageURL}
	err := r.pool.QueryRow(ctx, q, postID, number, text, imageURL).Scan(&ch.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("choice number %d already used for post %d: %w", number, postID, apperrors.ErrInvalidArgument)
		}
		if database.IsForeignKeyViolation(err) {
			// Post deleted after the ownership check.
			return nil, fmt.Errorf("post %d: %w", postID, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &ch, nil
}

// ListChoices returns the choices of a post in choice number order.
func (r *Repository) ListChoices(ctx context.Context, postID int64) ([]models.Choice, error) {
	if err := r.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	const q = `SELECT id, post_id, choice_number, text_content, COALESCE(image_url, '')
		FROM choices WHERE post_id = $1 ORDER BY choice_number`
	rows, err := r.pool.Query(ctx, q, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Choice
	for rows.Next() {
		var ch models.Choice
		if err := rows.Scan(&ch.ID, &ch.PostID, &ch.ChoiceNumber, &ch.TextContent, &ch.ImageURL); err != nil {
			return nil, err
		}
		list = append(list, ch)
	}
	return list, rows.Err()
}

// ChoicePost returns the parent post id of a choice.
func (r *Repository) ChoicePost(ctx context.Context, choiceID int64) (int64, error) {
	var postID int64
	err := r.pool.QueryRow(ctx, `SELECT post_id FROM choices WHERE id = $1`, choiceID).Scan(&postID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("choice %d: %w", choiceID, apperrors.ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	return postID, nil
}

// DeleteChoice removes a choice; votes referencing it go with it.
func (r *Repository) DeleteChoice(ctx context.Context, choiceID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM choices WHERE id = $1`, choiceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("choice %d: %w", choiceID, apperrors.ErrNotFound)
	}
	return nil
}

// CastVote records or overwrites the voter's selection for a post. Re-voting
// replaces the choice and refreshes the timestamp, identical choice included.
// The returned updated flag is false for a first vote, true for an overwrite.
func (r *Repository) CastVote(ctx context.Context, postID, choiceID, voterID int64) (*models.Vote, bool, error) {
	var belongs bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM choices WHERE id = $1 AND post_id = $2)`, choiceID, postID).Scan(&belongs); err != nil {
		return nil, false, err
	}
	if !belongs {
		if err := r.requirePost(ctx, postID); err != nil {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("choice %d does not belong to post %d: %w", choiceID, postID, apperrors.ErrNotFound)
	}

	// xmax = 0 only for a freshly inserted row, so it distinguishes
	// "recorded" from "updated" without a second round trip.
	const q = `INSERT INTO votes (user_id, post_id, choice_id) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, post_id) DO UPDATE SET choice_id = EXCLUDED.choice_id, voted_at = NOW()
		RETURNING id, voted_at, (xmax = 0)`
	v := models.Vote{UserID: voterID, PostID: postID, ChoiceID: choiceID}
	var inserted bool
	err := r.pool.QueryRow(ctx, q, voterID, postID, choiceID).Scan(&v.ID, &v.VotedAt, &inserted)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, false, fmt.Errorf("post %d: %w", postID, apperrors.ErrNotFound)
		}
		return nil, false, err
	}
	return &v, !inserted, nil
}

// Tally returns the vote count for every choice of the post, zero-count
// choices included, in choice number order.
func (r *Repository) Tally(ctx context.Context, postID int64) ([]models.ChoiceTally, error) {
	if err := r.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	const q = `SELECT c.id, c.choice_number, c.text_content, COUNT(v.id)
		FROM choices c
		LEFT JOIN votes v ON v.choice_id = c.id
		WHERE c.post_id = $1
		GROUP BY c.id, c.choice_number, c.text_content
		ORDER BY c.choice_number`
	rows, err := r.pool.Query(ctx, q, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.ChoiceTally
	for rows.Next() {
		var t models.ChoiceTally
		if err := rows.Scan(&t.ChoiceID, &t.ChoiceNumber, &t.TextContent, &t.Votes); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// ListForPost returns the raw votes of a post.
func (r *Repository) ListForPost(ctx context.Context, postID int64) ([]models.Vote, error) {
	if err := r.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	const q = `SELECT id, user_id, post_id, choice_id, voted_at FROM votes WHERE post_id = $1 ORDER BY voted_at, id`
	rows, err := r.pool.Query(ctx, q, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Vote
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.UserID, &v.PostID, &v.ChoiceID, &v.VotedAt); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// ListForUser returns every vote cast by the user with the referenced post's title.
func (r *Repository) ListForUser(ctx context.Context, userID int64) ([]models.UserVote, error) {
	const q = `SELECT v.id, v.user_id, v.post_id, v.choice_id, v.voted_at, p.title
		FROM votes v
		JOIN posts p ON p.id = v.post_id
		WHERE v.user_id = $1
		ORDER BY v.voted_at DESC, v.id DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.UserVote
	for rows.Next() {
		var uv models.UserVote
		if err := rows.Scan(&uv.ID, &uv.UserID, &uv.PostID, &uv.ChoiceID, &uv.VotedAt, &uv.PostTitle); err != nil {
			return nil, err
		}
		list = append(list, uv)
	}
	return list, rows.Err()
}

// VoteOwner returns the user id that cast a vote.
func (r *Repository) VoteOwner(ctx context.Context, voteID int64) (int64, error) {
	var userID int64
	err := r.pool.QueryRow(ctx, `SELECT user_id FROM votes WHERE id = $1`, voteID).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("vote %d: %w", voteID, apperrors.ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// DeleteVote removes a vote.
func (r *Repository) DeleteVote(ctx context.Context, voteID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM votes WHERE id = $1`, voteID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vote %d: %w", voteID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *Repository) requirePost(ctx context.Context, postID int64) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("post %d: %w", postID, apperrors.ErrNotFound)
	}
	return nil
}
