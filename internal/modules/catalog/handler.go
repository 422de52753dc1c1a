package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"educenter/internal/domain"
	"educenter/internal/middleware"
	"educenter/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	rg.GET("/rooms", h.ListRooms)
	rg.POST("/rooms", adminOnly, h.CreateRoom)
	rg.GET("/employees", h.ListEmployees)
	rg.POST("/employees", adminOnly, h.CreateEmployee)
}

/* ---------- ROOM HANDLERS ---------- */

func (h *Handler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	room, err := h.service.CreateRoom(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"room": room})
}

func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.service.ListRooms(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

/* ---------- EMPLOYEE HANDLERS ---------- */

func (h *Handler) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	e, err := h.service.CreateEmployee(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"employee": e})
}

func (h *Handler) ListEmployees(c *gin.Context) {
	kind := domain.EmployeeKind(c.Query("kind"))
	list, err := h.service.ListEmployees(c.Request.Context(), middleware.ActorFrom(c), kind)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"employees": list})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		response.BadRequest(c, err)
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process catalog request")
	}
}
