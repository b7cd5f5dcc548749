package categories

import (
	"context"
	"testing"

	"github.com/racso574/duoot-api/internal/testutil"
)

func TestList(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := NewRepository(pool)

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) == 0 {
		t.Fatal("no seeded categories")
	}
	for i := 1; i < len(list); i++ {
		if list[i].ID <= list[i-1].ID {
			t.Fatalf("categories not ordered by id: %v before %v", list[i-1].ID, list[i].ID)
		}
	}
	for _, cat := range list {
		if cat.Name == "" {
			t.Errorf("category %d has empty name", cat.ID)
		}
	}
}
