package traits

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/racso574/duoot-api/internal/models"
	"github.com/racso574/duoot-api/pkg/apperrors"
)

// Repository handles personality trait persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a traits repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListAvailable returns the full trait catalog.
func (r *Repository) ListAvailable(ctx context.Context) ([]models.PersonalityTrait, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, description FROM personality_traits ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.PersonalityTrait
	for rows.Next() {
		var t models.PersonalityTrait
		if err := rows.Scan(&t.ID, &t.Description); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// ListForUser returns the traits a user has selected.
func (r *Repository) ListForUser(ctx context.Context, userID int64) ([]models.PersonalityTrait, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("user %d: %w", userID, apperrors.ErrNotFound)
	}

	const q = `SELECT pt.id, pt.description
		FROM user_traits ut
		JOIN personality_traits pt ON pt.id = ut.trait_id
		WHERE ut.user_id = $1
		ORDER BY pt.id`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.PersonalityTrait
	for rows.Next() {
		var t models.PersonalityTrait
		if err := rows.Scan(&t.ID, &t.Description); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Add attaches traits to a user. All ids must exist; inserts are idempotent,
// and either every link lands or none do.
func (r *Repository) Add(ctx context.Context, userID int64, traitIDs []int64) error {
	if len(traitIDs) == 0 {
		return fmt.Errorf("trait id list must not be empty: %w", apperrors.ErrInvalidArgument)
	}
	distinct := dedupe(traitIDs)

	var known int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM personality_traits WHERE id = ANY($1)`, distinct).Scan(&known); err != nil {
		return err
	}
	if known != len(distinct) {
		return fmt.Errorf("one or more trait ids do not exist: %w", apperrors.ErrInvalidArgument)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, id := range distinct {
		const q = `INSERT INTO user_traits (user_id, trait_id) VALUES ($1, $2)
			ON CONFLICT (user_id, trait_id) DO NOTHING`
		if _, err := tx.Exec(ctx, q, userID, id); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
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
