package billing

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, manage, adminOnly gin.HandlerFunc) {
	invoices := rg.Group("/invoices")
	{
		invoices.GET("", h.List)
		invoices.GET("/:id", h.Get)
		invoices.POST("", manage, h.Create)
		invoices.POST("/:id/issue", manage, h.Issue)
		invoices.POST("/:id/payments", manage, h.RecordPayment)
		invoices.POST("/:id/reconcile", manage, h.Reconcile)
		invoices.DELETE("/:id", adminOnly, h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	inv, err := h.service.CreateInvoice(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"invoice": inv})
}

func (h *Handler) Issue(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	inv, err := h.service.IssueInvoice(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"invoice": inv})
}

func (h *Handler) RecordPayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}
	out, err := h.service.RecordPayment(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, out)
}

func (h *Handler) Reconcile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	out, err := h.service.ReconcileInvoice(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	inv, err := h.service.GetInvoice(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"invoice": inv})
}

func (h *Handler) List(c *gin.Context) {
	var q ListInvoicesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err)
		return
	}
	out, err := h.service.ListInvoices(c.Request.Context(), middleware.ActorFrom(c), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"invoices": out})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteInvoice(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		response.Error(c, http.StatusBadRequest, "INVALID_AMOUNT", err.Error())
	case errors.Is(err, ErrInvalidInput):
		response.BadRequest(c, err)
	case errors.Is(err, ErrInvoiceNotIssued):
		response.Error(c, http.StatusConflict, "INVOICE_NOT_ISSUED", "Invoice must be issued before payments are recorded")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", err.Error())
	case errors.Is(err, ErrInvoiceHasPayments):
		response.Error(c, http.StatusConflict, "INVOICE_HAS_PAYMENTS", "Invoices with recorded payments cannot be deleted")
	case errors.Is(err, ErrInvoiceNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Invoice not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process invoice request")
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid invoice ID")
		return 0, false
	}
	return id, true
}
