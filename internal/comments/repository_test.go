package comments

import (
	"context"
	"errors"
	"testing"

	"github.com/racso574/duoot-api/internal/testutil"
	"github.com/racso574/duoot-api/pkg/apperrors"
)

func TestCreateAndList(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	owner := testutil.CreateUser(t, pool, "alice")
	commenter := testutil.CreateUser(t, pool, "bob")
	postID, _ := testutil.CreatePost(t, pool, owner, "Discuss", "Yes", "No")

	first, err := repo.Create(ctx, postID, commenter, "first!")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.UserID != commenter || first.PostID != postID {
		t.Errorf("comment = %+v", first)
	}
	if _, err := repo.Create(ctx, postID, owner, "thanks for voting"); err != nil {
		t.Fatalf("Create second: %v", err)
	}

	list, err := repo.ListForPost(ctx, postID)
	if err != nil {
		t.Fatalf("ListForPost: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("comments = %d, want 2", len(list))
	}
	if list[0].Content != "first!" {
		t.Errorf("comments out of order: first is %q", list[0].Content)
	}
}

func TestCreateRejections(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	owner := testutil.CreateUser(t, pool, "alice")
	postID, _ := testutil.CreatePost(t, pool, owner, "Discuss", "Yes", "No")

	if _, err := repo.Create(ctx, postID, owner, ""); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("empty content error = %v, want ErrInvalidArgument", err)
	}
	if _, err := repo.Create(ctx, 99999, owner, "hello"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("absent post error = %v, want ErrNotFound", err)
	}
	if _, err := repo.ListForPost(ctx, 99999); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("ListForPost(absent) error = %v, want ErrNotFound", err)
	}
	if n := testutil.CountRows(t, pool, "comments", ""); n != 0 {
		t.Errorf("comment rows = %d, want 0", n)
	}
}

func TestDelete(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	owner := testutil.CreateUser(t, pool, "alice")
	commenter := testutil.CreateUser(t, pool, "bob")
	postID, _ := testutil.CreatePost(t, pool, owner, "Discuss", "Yes", "No")

	comment, err := repo.Create(ctx, postID, commenter, "delete me")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	author, err := repo.Owner(ctx, comment.ID)
	if err != nil {
		t.Fatalf("Owner: %v", err)
	}
	if author != commenter {
		t.Errorf("Owner = %d, want %d", author, commenter)
	}

	if err := repo.Delete(ctx, comment.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, comment.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Delete(absent) error = %v, want ErrNotFound", err)
	}
	if _, err := repo.Owner(ctx, comment.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Owner(absent) error = %v, want ErrNotFound", err)
	}
}
