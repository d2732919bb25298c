package handlers

import (
	"errors"
	"net/http"
	"strings"

	"travelbook/internal/services"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	// Login accepts either the email or the username.
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req services.RegisterInput
	if !BindJSONOrError(c, &req) {
		return
	}
	u, err := h.Auth.Register(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

// POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	login := strings.TrimSpace(req.Email)
	if login == "" {
		login = strings.TrimSpace(req.Username)
	}
	if login == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "email/username and password are required", nil)
		return
	}

	token, u, err := h.Auth.Login(c.Request.Context(), login, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "invalid_credentials", "invalid email/username or password", nil)
			return
		}
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}

// GET /api/auth/me
func (h *Handlers) Me(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		return
	}
	u, err := h.Auth.Me(c.Request.Context(), rc.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
