package auth

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/racso574/duoot-api/internal/models"
	"github.com/racso574/duoot-api/pkg/response"
	"github.com/racso574/duoot-api/pkg/storage"
	"github.com/racso574/duoot-api/pkg/utils"
)

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// MeResponse is the authenticated user with their personality traits.
type MeResponse struct {
	models.UserPublic
	Traits []models.PersonalityTrait `json:"traits"`
}

// TraitLister loads a user's selected personality traits. Implemented by
// the traits repository; declared here to keep the dependency one-way.
type TraitLister interface {
	ListForUser(ctx context.Context, userID int64) ([]models.PersonalityTrait, error)
}

// Handler handles auth and user HTTP endpoints.
type Handler struct {
	repo   *Repository
	traits TraitLister
	jwt    *JWTService
	images *storage.S3 // nil when S3 is not configured
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, traits TraitLister, jwt *JWTService, images *storage.S3, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, traits: traits, jwt: jwt, images: images, logger: logger}
}

// Register handles POST /auth/register (multipart form: email, username,
// password, optional profile_image file).
func (h *Handler) Register(c *gin.Context) {
	email := c.PostForm("email")
	username := c.PostForm("username")
	password := c.PostForm("password")
	if email == "" || username == "" || password == "" {
		response.BadRequest(c, "email, username and password are required")
		return
	}
	if len(password) < 6 {
		response.BadRequest(c, "password must be at least 6 characters")
		return
	}

	imageKey := ""
	if file, err := c.FormFile("profile_image"); err == nil && file.Size > 0 {
		if h.images == nil {
			response.BadRequest(c, "image upload is not available")
			return
		}
		if !storage.ValidateImageFilename(file.Filename) {
			response.BadRequest(c, "invalid image format: allowed are .jpg, .jpeg, .png, .gif")
			return
		}
		if file.Size > storage.MaxImageSize {
			response.BadRequest(c, "image exceeds the 5MB limit")
			return
		}
		src, err := file.Open()
		if err != nil {
			response.Internal(c, "failed to read profile image")
			return
		}
		defer src.Close()
		key := storage.ProfileKey(file.Filename)
		imageKey, err = h.images.Upload(c.Request.Context(), key, storage.ContentTypeForFilename(file.Filename), src)
		if err != nil {
			h.logger.Error("profile image upload", zap.Error(err))
			response.Internal(c, "failed to store profile image")
			return
		}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	user, err := h.repo.Create(c.Request.Context(), username, email, hash, imageKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Username)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}

	response.Created(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Unauthorized(c, "invalid email or password")
		return
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Username)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}

	response.OK(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Me handles GET /users/me.
func (h *Handler) Me(c *gin.Context) {
	userID := c.MustGet(ContextUserID).(int64)
	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	userTraits, err := h.traits.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, MeResponse{UserPublic: user.ToPublic(), Traits: userTraits})
}

// GetUsername handles GET /users/:id/username (public).
func (h *Handler) GetUsername(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	username, err := h.repo.GetUsername(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"username": username})
}

// ProfileImage handles GET /users/me/profile-image, streaming the stored
// image bytes with their content type.
func (h *Handler) ProfileImage(c *gin.Context) {
	userID := c.MustGet(ContextUserID).(int64)
	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if user.ProfileImage == "" || h.images == nil {
		response.NotFound(c, "no profile image")
		return
	}
	body, contentType, err := h.images.GetObjectStream(c.Request.Context(), user.ProfileImage)
	if err != nil {
		h.logger.Error("profile image fetch", zap.String("key", user.ProfileImage), zap.Error(err))
		response.Internal(c, "failed to load profile image")
		return
	}
	defer body.Close()
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(user.ProfileImage)
	}
	c.DataFromReader(http.StatusOK, -1, contentType, body, nil)
}

// DeleteMe handles DELETE /users/me. Owned posts, votes, comments and trait
// links go with the account.
func (h *Handler) DeleteMe(c *gin.Context) {
	userID := c.MustGet(ContextUserID).(int64)
	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.repo.Delete(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	if user.ProfileImage != "" && h.images != nil {
		if err := h.images.Delete(c.Request.Context(), user.ProfileImage); err != nil {
			h.logger.Warn("profile image cleanup", zap.Error(err))
		}
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
