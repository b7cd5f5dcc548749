package posts

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/racso574/duoot-api/internal/middleware"
	"github.com/racso574/duoot-api/pkg/response"
)

// CreateRequest is the body for POST /posts.
type CreateRequest struct {
	Title       string      `json:"title" binding:"required"`
	Description string      `json:"description"`
	Choices     []NewChoice `json:"choices" binding:"required"`
	CategoryIDs []int64     `json:"category_ids"`
}

// UpdateRequest is the body for PUT /posts/:id.
type UpdateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// Handler handles post HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a posts handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /posts.
func (h *Handler) Create(c *gin.Context) {
	userID := middleware.UserID(c)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	post, err := h.repo.Create(c.Request.Context(), userID, req.Title, req.Description, req.Choices, req.CategoryIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, post)
}

// GetByID handles GET /posts/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	post, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, post)
}

// List handles GET /posts with an optional ?category= filter.
func (h *Handler) List(c *gin.Context) {
	var categoryID *int64
	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(c, "invalid category filter")
			return
		}
		categoryID = &id
	}
	list, err := h.repo.List(c.Request.Context(), categoryID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

// Update handles PUT /posts/:id (owner only).
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := middleware.UserID(c)

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.repo.Update(c.Request.Context(), id, userID, req.Title, req.Description); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete handles DELETE /posts/:id (owner only).
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID := middleware.UserID(c)
	if err := h.repo.Delete(c.Request.Context(), id, userID); err != nil {
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
