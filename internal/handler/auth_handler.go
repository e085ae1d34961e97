package handler

import (
	"errors"
	"net/http"

	"evenza/internal/middleware"
	"evenza/internal/service"
	"evenza/pkg/app_errors"
	"evenza/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth service.AuthService
}

func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) RegisterRoutes(r *gin.Engine, rl *middleware.RateLimiter) {
	router := r.Group("/api/v1/auth", middleware.RateLimit(rl))
	{
		router.POST("register", h.Register)
		router.POST("verify", h.Verify)
		router.POST("login", h.Login)
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type VerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	user, err := h.auth.Register(c, req.Email, req.Password)
	if err != nil {
		h.handleError(c, err, "Register")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"uid": user.ID, "email": user.Email})
}

func (h *AuthHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.auth.Verify(c, req.Email, req.Code); err != nil {
		h.handleError(c, err, "Verify")
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	token, ident, err := h.auth.Login(c, req.Email, req.Password)
	if err != nil {
		h.handleError(c, err, "Login")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"uid":           ident.UID,
		"email":         ident.Email,
		"emailVerified": ident.EmailVerified,
	})
}

func (h *AuthHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, app_errors.ErrEmailTaken):
		log.Warn("Email already registered")
		c.JSON(http.StatusConflict, gin.H{"error": "This email is already registered."})
	case errors.Is(err, app_errors.ErrBadCredential):
		log.Warn("Bad credential")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
	case errors.Is(err, app_errors.ErrBadCode):
		log.Warn("Bad verification code")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification code."})
	case errors.Is(err, app_errors.ErrUserNotFound):
		log.Warn("User not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
	case errors.Is(err, app_errors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
