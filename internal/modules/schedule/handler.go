package schedule

import (
	"errors"
	"net/http"
	"strconv"

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

// RegisterRoutes mounts session routes. manage guards the write endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, manage gin.HandlerFunc) {
	sessions := rg.Group("/sessions")
	{
		sessions.GET("", h.List)
		sessions.GET("/:id", h.Get)
		sessions.POST("/check", h.Check)
		sessions.POST("", manage, h.Create)
		sessions.PUT("/:id", manage, h.Update)
		sessions.DELETE("/:id", manage, h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateSessionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	out, err := h.service.CreateSessions(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"sessions": out})
}

func (h *Handler) Check(c *gin.Context) {
	var req CreateSessionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	out, err := h.service.CheckSessions(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	out, err := h.service.UpdateSession(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": out})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteSession(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	out, err := h.service.GetSession(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": out})
}

func (h *Handler) List(c *gin.Context) {
	var q ListSessionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}
	out, err := h.service.ListSessions(c.Request.Context(), middleware.ActorFrom(c), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sessions": out})
}

func (h *Handler) fail(c *gin.Context, err error) {
	var cerr *ConflictError
	switch {
	case errors.As(err, &cerr):
		first, _ := cerr.Result.First()
		response.ErrorWithDetails(c, http.StatusConflict, "SCHEDULE_CONFLICT",
			first.Message(cerr.Location), viewConflicts(cerr.Result, cerr.Location))
	case errors.Is(err, ErrOverbooking):
		response.Error(c, http.StatusConflict, "SCHEDULE_CONFLICT",
			"Resource was booked by a concurrent request, please re-check availability")
	case errors.Is(err, ErrInvalidInput):
		response.BadRequest(c, err)
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Session not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process session request")
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid session ID")
		return 0, false
	}
	return id, true
}
