package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"oils-admin/internal/auth"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthHandler struct {
	issuer      *auth.Issuer
	credentials auth.Credentials
}

func NewAuthHandler(issuer *auth.Issuer, credentials auth.Credentials) *AuthHandler {
	return &AuthHandler{issuer: issuer, credentials: credentials}
}

// POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.credentials.Check(req.Username, req.Password); err != nil {
		respondError(c, err, "log in")
		return
	}

	token, exp, err := h.issuer.Issue(h.credentials.Username)
	if err != nil {
		respondError(c, err, "issue token")
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer", ExpiresAt: exp})
}

// GET /healthz
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
