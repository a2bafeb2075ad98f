package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/efakturaplus/efaktura_backend/internal/apperrors"
	"github.com/efakturaplus/efaktura_backend/internal/core/ports"
	"github.com/efakturaplus/efaktura_backend/internal/dto"
	"github.com/efakturaplus/efaktura_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusHandler handles the invoice lifecycle endpoints.
type statusHandler struct {
	statusService ports.StatusSvc
}

func newStatusHandler(statusService ports.StatusSvc) *statusHandler {
	return &statusHandler{statusService: statusService}
}

// registerStatusRoutes registers the status routes nested under /invoices.
func registerStatusRoutes(invoices *gin.RouterGroup, statusService ports.StatusSvc) {
	h := newStatusHandler(statusService)

	invoices.GET("/:id/status", h.getStatus)
	invoices.PUT("/:id/status", h.setStatus)
	invoices.POST("/:id/status/reopen", h.reopenStatus)
	invoices.GET("/statistics/outgoing", h.sellerStatistics)
	invoices.GET("/statistics/incoming", h.buyerStatistics)
}

// getStatus returns the current status. A missing invoice is 404; an
// existing invoice without a status row is 404 with a distinct message.
func (h *statusHandler) getStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	status, err := h.statusService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		} else {
			logger.Error("Failed to get status", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve status"})
		}
		return
	}
	if status == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice has no status yet"})
		return
	}

	c.JSON(http.StatusOK, dto.ToStatusResponse(status))
}

// setStatus upserts the status label: 201 when a status row was created,
// 200 when the existing one was overwritten.
func (h *statusHandler) setStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed", "errors": fieldErrors(err)})
		return
	}

	status, created, err := h.statusService.Set(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to set status", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set status"})
		}
		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	logger.Info("Status updated", slog.Int64("invoice_id", id), slog.String("status", string(status.Status)))
	c.JSON(code, dto.ToStatusResponse(status))
}

// reopenStatus moves a terminal invoice back to received.
func (h *statusHandler) reopenStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	status, err := h.statusService.Reopen(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to reopen status", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reopen status"})
		}
		return
	}

	logger.Info("Invoice reopened", slog.Int64("invoice_id", id))
	c.JSON(http.StatusOK, dto.ToStatusResponse(status))
}

// sellerStatistics counts outgoing invoices per status for the dashboard.
func (h *statusHandler) sellerStatistics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	taxID := c.Query("taxID")
	if taxID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taxID is required"})
		return
	}

	stats, err := h.statusService.SellerStatistics(c.Request.Context(), taxID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to get seller statistics", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate statistics"})
		}
		return
	}

	c.JSON(http.StatusOK, stats)
}

// buyerStatistics counts incoming invoices and how many are still new.
func (h *statusHandler) buyerStatistics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	nationalID := c.Query("nationalID")
	if nationalID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nationalID is required"})
		return
	}

	stats, err := h.statusService.BuyerStatistics(c.Request.Context(), nationalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to get buyer statistics", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate statistics"})
		}
		return
	}

	c.JSON(http.StatusOK, stats)
}
