package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-relay/internal/accounts"
	"chat-relay/internal/telemetry"
)

// AccountHandler serves registration and login.
type AccountHandler struct {
	service *accounts.Service
	audit   *telemetry.AuditEmitter
}

// NewAccountHandler builds an AccountHandler. The audit emitter may be nil.
func NewAccountHandler(service *accounts.Service, audit *telemetry.AuditEmitter) *AccountHandler {
	return &AccountHandler{service: service, audit: audit}
}

// SaveUser registers a new account with a bcrypt-hashed password.
func (h *AccountHandler) SaveUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Register(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "user registered", requestIDFromContext(c), nil)
	c.JSON(http.StatusOK, gin.H{"success": "user created"})
}

// Login verifies credentials. Unknown email and bad password are both
// 401; storage failure is 500.
func (h *AccountHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "user logged in", requestIDFromContext(c), &user.ID)
	c.JSON(http.StatusOK, gin.H{"success": "login ok", "username": user.Username})
}
