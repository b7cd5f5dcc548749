package categories

import (
	"github.com/gin-gonic/gin"

	"github.com/racso574/duoot-api/pkg/response"
)

// Handler handles category HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a categories handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /categories.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}
