package polls

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/racso574/duoot-api/internal/middleware"
	"github.com/racso574/duoot-api/internal/posts"
	"github.com/racso574/duoot-api/pkg/response"
)

// AddChoiceRequest is the body for POST /posts/:id/choices.
type AddChoiceRequest struct {
	ChoiceNumber int    `json:"choice_number" binding:"required,min=1"`
	TextContent  string `json:"text_content" binding:"required"`
	ImageURL     string `json:"image_url"`
}

// CastVoteRequest is the body for POST /posts/:id/votes.
type CastVoteRequest struct {
	ChoiceID int64 `json:"choice_id" binding:"required"`
}

// Vote cast confirmation statuses.
const (
	StatusRecorded = "recorded"
	StatusUpdated  = "updated"
)

// Handler handles choice, vote and tally HTTP endpoints.
type Handler struct {
	repo     *Repository
	postRepo *posts.Repository
}

// NewHandler creates a polls handler.
func NewHandler(repo *Repository, postRepo *posts.Repository) *Handler {
	return &Handler{repo: repo, postRepo: postRepo}
}

// AddChoice handles POST /posts/:id/choices (post owner only).
func (h *Handler) AddChoice(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := middleware.UserID(c)

	var req AddChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.postRepo.RequireOwner(c.Request.Context(), postID, userID); err != nil {
		response.Error(c, err)
		return
	}
	choice, err := h.repo.AddChoice(c.Request.Context(), postID, req.ChoiceNumber, req.TextContent, req.ImageURL)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, choice)
}

// ListChoices handles GET /posts/:id/choices.
func (h *Handler) ListChoices(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.repo.ListChoices(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// DeleteChoice handles DELETE /choices/:id (post owner only).
func (h *Handler) DeleteChoice(c *gin.Context) {
	choiceID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := middleware.UserID(c)

	postID, err := h.repo.ChoicePost(c.Request.Context(), choiceID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.postRepo.RequireOwner(c.Request.Context(), postID, userID); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.repo.DeleteChoice(c.Request.Context(), choiceID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CastVote handles POST /posts/:id/votes. Any authenticated user may vote;
// re-voting overwrites the prior selection.
func (h *Handler) CastVote(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := middleware.UserID(c)

	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	vote, updated, err := h.repo.CastVote(c.Request.Context(), postID, req.ChoiceID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := StatusRecorded
	if updated {
		status = StatusUpdated
	}
	response.OK(c, gin.H{"vote": vote, "status": status})
}

// Tally handles GET /posts/:id/tally.
func (h *Handler) Tally(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	tally, err := h.repo.Tally(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, tally)
}

// ListVotesForPost handles GET /posts/:id/votes.
func (h *Handler) ListVotesForPost(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.repo.ListForPost(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// ListMyVotes handles GET /users/me/votes.
func (h *Handler) ListMyVotes(c *gin.Context) {
	userID := middleware.UserID(c)
	list, err := h.repo.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// DeleteVote handles DELETE /votes/:id (voter only).
func (h *Handler) DeleteVote(c *gin.Context) {
	voteID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := middleware.UserID(c)

	owner, err := h.repo.VoteOwner(c.Request.Context(), voteID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if owner != userID {
		response.Forbidden(c, "vote belongs to another user")
		return
	}
	if err := h.repo.DeleteVote(c.Request.Context(), voteID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
