package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/blog-api/internal/models"
	"github.com/blog-api/internal/service"
)

// UserHandler handles registration and session endpoints
type UserHandler struct {
	users service.UserService
	log   zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(services *service.Services, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		users: services.User,
		log:   log.With().Str("handler", "user").Logger(),
	}
}

// Register handles POST /user
func (h *UserHandler) Register(c *gin.Context) {
	var in models.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}

	user, token, err := h.users.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header(AuthHeader, token)
	c.JSON(http.StatusOK, user)
}

// Login handles POST /user/login
func (h *UserHandler) Login(c *gin.Context) {
	var in models.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badBody(c)
		return
	}

	user, token, err := h.users.Login(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header(AuthHeader, token)
	c.JSON(http.StatusOK, user)
}

// Logout handles DELETE /user/logout
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.users.Logout(c.Request.Context(), callerFrom(c), c.GetString(tokenKey)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusOK)
}
