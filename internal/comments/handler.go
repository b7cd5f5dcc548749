package comments

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/racso574/duoot-api/internal/middleware"
	"github.com/racso574/duoot-api/pkg/response"
)

// CreateRequest is the body for POST /posts/:id/comments.
type CreateRequest struct {
	Content string `json:"content" binding:"required"`
}

// Handler handles comment HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a comments handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /posts/:id/comments.
func (h *Handler) Create(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := middleware.UserID(c)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	comment, err := h.repo.Create(c.Request.Context(), postID, userID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}

// ListForPost handles GET /posts/:id/comments.
func (h *Handler) ListForPost(c *gin.Context) {
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

// Delete handles DELETE /comments/:id (author only).
func (h *Handler) Delete(c *gin.Context) {
	commentID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := middleware.UserID(c)

	owner, err := h.repo.Owner(c.Request.Context(), commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if owner != userID {
		response.Forbidden(c, "comment belongs to another user")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), commentID); err != nil {
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
