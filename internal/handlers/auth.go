package handlers

import (
	"errors"
	"net/http"

	"task-tracker/internal/middleware"
	"task-tracker/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db     *gorm.DB
	users  services.UserService
	tokens *services.TokenService
	log    *logrus.Logger
}

func NewAuthHandler(db *gorm.DB, users services.UserService, tokens *services.TokenService, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{db: db, users: users, tokens: tokens, log: log}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	const op = "handlers.AuthHandler.Register"
	log := h.log.WithField("operation", op)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	user, err := h.users.Register(h.db, req.Email, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateIdentifier):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		case errors.Is(err, services.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.WithError(err).Error("registration failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		}
		return
	}

	log.WithField("user_id", user.ID).Info("user registered")
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	const op = "handlers.AuthHandler.Login"
	log := h.log.WithField("operation", op)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	user, err := h.users.Authenticate(h.db, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		log.WithError(err).Error("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.WithError(err).Error("token issue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   h.tokens.TTLSeconds(),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	user, err := h.users.GetByID(h.db, ownerID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		h.log.WithError(err).Error("load current user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, user)
}
