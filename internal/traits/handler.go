package traits

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/racso574/duoot-api/internal/middleware"
	"github.com/racso574/duoot-api/pkg/response"
)

// AddRequest is the body for PUT /users/me/traits.
type AddRequest struct {
	TraitIDs []int64 `json:"trait_ids" binding:"required"`
}

// Handler handles personality trait HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a traits handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// ListAvailable handles GET /traits.
func (h *Handler) ListAvailable(c *gin.Context) {
	list, err := h.repo.ListAvailable(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// ListForUser handles GET /users/:id/traits.
func (h *Handler) ListForUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID <= 0 {
		response.BadRequest(c, "invalid user id")
		return
	}
	list, err := h.repo.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Add handles PUT /users/me/traits.
func (h *Handler) Add(c *gin.Context) {
	userID := middleware.UserID(c)

	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.repo.Add(c.Request.Context(), userID, req.TraitIDs); err != nil {
		response.Error(c, err)
		return
	}

	list, err := h.repo.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}
