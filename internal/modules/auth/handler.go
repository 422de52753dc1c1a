package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"educenter/internal/middleware"
	"educenter/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	protected.GET("/auth/me", h.Me)
	protected.POST("/auth/register", adminOnly, h.Register)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
		case errors.Is(err, ErrAccountLocked):
			response.Error(c, http.StatusTooManyRequests, "ACCOUNT_LOCKED", "Too many failed attempts, try again later")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		}
		return
	}

	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	u, err := h.service.Register(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			response.BadRequest(c, err)
		case errors.Is(err, ErrEmailAlreadyExists):
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "Email already registered")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "REGISTER_FAILED", "Failed to register user")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": toPublic(u)})
}

func (h *Handler) Me(c *gin.Context) {
	u, err := h.service.Me(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User no longer exists")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load profile")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": toPublic(u)})
}
