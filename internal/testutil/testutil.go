// Package testutil provides helpers for database-backed tests. Tests using
// SetupTestDB are skipped unless TEST_DATABASE_URL points at a disposable
// PostgreSQL database; the schema is dropped and re-migrated per test.
package testutil

import (
	"context"
	"testing"

	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/racso574/duoot-api/pkg/database"
)

// SetupTestDB returns a pool against a freshly migrated schema, or skips the
// test when TEST_DATABASE_URL is not set.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `DROP TABLE IF EXISTS
		user_traits, personality_traits, post_categories, categories,
		comments, votes, choices, posts, users CASCADE`)
	if err != nil {
		t.Fatalf("clean test database: %v", err)
	}

	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return pool
}

// CreateUser inserts a user and returns its id. The password hash is a fixed
// placeholder; use the auth handler tests for real credential flows.
func CreateUser(t *testing.T, pool *pgxpool.Pool, username string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, 'x') RETURNING id`,
		username, username+"@example.com",
	).Scan(&id)
	if err != nil {
		t.Fatalf("create test user %s: %v", username, err)
	}
	return id
}

// CreatePost inserts a post with the given choice texts (numbered from 1)
// and returns the post id and choice ids in order.
func CreatePost(t *testing.T, pool *pgxpool.Pool, userID int64, title string, choiceTexts ...string) (int64, []int64) {
	t.Helper()

	ctx := context.Background()
	var postID int64
	err := pool.QueryRow(ctx,
		`INSERT INTO posts (user_id, title, description) VALUES ($1, $2, '') RETURNING id`,
		userID, title,
	).Scan(&postID)
	if err != nil {
		t.Fatalf("create test post %q: %v", title, err)
	}

	choiceIDs := make([]int64, 0, len(choiceTexts))
	for i, text := range choiceTexts {
		var choiceID int64
		err := pool.QueryRow(ctx,
			`INSERT INTO choices (post_id, choice_number, text_content) VALUES ($1, $2, $3) RETURNING id`,
			postID, i+1, text,
		).Scan(&choiceID)
		if err != nil {
			t.Fatalf("create test choice %q: %v", text, err)
		}
		choiceIDs = append(choiceIDs, choiceID)
	}
	return postID, choiceIDs
}

// CountRows returns the row count of a table, optionally filtered.
func CountRows(t *testing.T, pool *pgxpool.Pool, table, where string, args ...interface{}) int {
	t.Helper()

	q := `SELECT COUNT(*) FROM ` + table
	if where != "" {
		q += ` WHERE ` + where
	}
	var n int
	if err := pool.QueryRow(context.Background(), q, args...).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
