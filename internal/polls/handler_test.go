package polls

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/racso574/duoot-api/internal/auth"
	"github.com/racso574/duoot-api/internal/middleware"
	"github.com/racso574/duoot-api/internal/posts"
	"github.com/racso574/duoot-api/internal/testutil"
)

func newTestRouter(pool *pgxpool.Pool, jwtSvc *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewRepository(pool), posts.NewRepository(pool))

	r := gin.New()
	r.GET("/posts/:id/tally", h.Tally)
	r.GET("/posts/:id/choices", h.ListChoices)
	authed := r.Group("/", middleware.JWT(jwtSvc))
	authed.POST("/posts/:id/choices", h.AddChoice)
	authed.POST("/posts/:id/votes", h.CastVote)
	authed.DELETE("/votes/:id", h.DeleteVote)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, url, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestVoteEndpoints(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	jwtSvc := auth.NewJWTService("test-secret", 1)
	r := newTestRouter(pool, jwtSvc)

	ownerID := testutil.CreateUser(t, pool, "alice")
	voterID := testutil.CreateUser(t, pool, "bob")
	postID, choiceIDs := testutil.CreatePost(t, pool, ownerID, "Cats or Dogs", "Cats", "Dogs")

	voterToken, err := jwtSvc.Generate(voterID, "bob")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	votesURL := fmt.Sprintf("/posts/%d/votes", postID)

	// Unauthenticated votes are rejected.
	if w := doJSON(t, r, http.MethodPost, votesURL, "", gin.H{"choice_id": choiceIDs[0]}); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous vote status = %d, want 401", w.Code)
	}

	w := doJSON(t, r, http.MethodPost, votesURL, voterToken, gin.H{"choice_id": choiceIDs[0]})
	if w.Code != http.StatusOK {
		t.Fatalf("first vote status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Status string `json:"status"`
			Vote   struct {
				ID int64 `json:"id"`
			} `json:"vote"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Status != StatusRecorded {
		t.Errorf("first vote status = %q, want %q", resp.Data.Status, StatusRecorded)
	}
	voteID := resp.Data.Vote.ID

	w = doJSON(t, r, http.MethodPost, votesURL, voterToken, gin.H{"choice_id": choiceIDs[1]})
	if w.Code != http.StatusOK {
		t.Fatalf("second vote status = %d, body %s", w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Status != StatusUpdated {
		t.Errorf("second vote status = %q, want %q", resp.Data.Status, StatusUpdated)
	}

	// A choice from no post of this id is a 404, not a stray row.
	if w := doJSON(t, r, http.MethodPost, votesURL, voterToken, gin.H{"choice_id": int64(99999)}); w.Code != http.StatusNotFound {
		t.Errorf("vote for absent choice status = %d, want 404", w.Code)
	}

	// Only the voter may retract.
	ownerToken, err := jwtSvc.Generate(ownerID, "alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	deleteURL := fmt.Sprintf("/votes/%d", voteID)
	if w := doJSON(t, r, http.MethodDelete, deleteURL, ownerToken, nil); w.Code != http.StatusForbidden {
		t.Errorf("foreign vote delete status = %d, want 403", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, deleteURL, voterToken, nil); w.Code != http.StatusNoContent {
		t.Errorf("vote delete status = %d, want 204", w.Code)
	}
	if n := testutil.CountRows(t, pool, "votes", "user_id = $1", voterID); n != 0 {
		t.Errorf("votes left after retract = %d, want 0", n)
	}
}

func TestAddChoiceRequiresOwnership(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	jwtSvc := auth.NewJWTService("test-secret", 1)
	r := newTestRouter(pool, jwtSvc)

	ownerID := testutil.CreateUser(t, pool, "alice")
	strangerID := testutil.CreateUser(t, pool, "mallory")
	postID, _ := testutil.CreatePost(t, pool, ownerID, "Extendable", "One", "Two")

	url := fmt.Sprintf("/posts/%d/choices", postID)
	body := gin.H{"choice_number": 3, "text_content": "Three"}

	strangerToken, err := jwtSvc.Generate(strangerID, "mallory")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if w := doJSON(t, r, http.MethodPost, url, strangerToken, body); w.Code != http.StatusForbidden {
		t.Errorf("stranger add choice status = %d, want 403", w.Code)
	}
	if n := testutil.CountRows(t, pool, "choices", "post_id = $1", postID); n != 2 {
		t.Errorf("choices after rejected add = %d, want 2", n)
	}

	ownerToken, err := jwtSvc.Generate(ownerID, "alice")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if w := doJSON(t, r, http.MethodPost, url, ownerToken, body); w.Code != http.StatusCreated {
		t.Errorf("owner add choice status = %d, want 201", w.Code)
	}

	// Duplicate ordinal is a client error.
	if w := doJSON(t, r, http.MethodPost, url, ownerToken, body); w.Code != http.StatusBadRequest {
		t.Errorf("duplicate choice number status = %d, want 400", w.Code)
	}
}

func TestTallyEndpoint(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	jwtSvc := auth.NewJWTService("test-secret", 1)
	r := newTestRouter(pool, jwtSvc)

	ownerID := testutil.CreateUser(t, pool, "alice")
	postID, choiceIDs := testutil.CreatePost(t, pool, ownerID, "Cats or Dogs", "Cats", "Dogs")

	voterID := testutil.CreateUser(t, pool, "bob")
	token, err := jwtSvc.Generate(voterID, "bob")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/posts/%d/votes", postID), token, gin.H{"choice_id": choiceIDs[0]}); w.Code != http.StatusOK {
		t.Fatalf("vote status = %d", w.Code)
	}

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/posts/%d/tally", postID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("tally status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data []struct {
			ChoiceID int64 `json:"choice_id"`
			Votes    int64 `json:"votes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("tally entries = %d, want 2", len(resp.Data))
	}
	if resp.Data[0].Votes != 1 || resp.Data[1].Votes != 0 {
		t.Errorf("tally = %+v, want 1/0", resp.Data)
	}

	if w := doJSON(t, r, http.MethodGet, "/posts/99999/tally", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("tally of absent post status = %d, want 404", w.Code)
	}
}
