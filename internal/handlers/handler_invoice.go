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

// invoiceHandler handles invoice issuance, detail and the seller/buyer
// listing views.
type invoiceHandler struct {
	invoiceService ports.InvoiceSvc
}

func newInvoiceHandler(invoiceService ports.InvoiceSvc) *invoiceHandler {
	return &invoiceHandler{invoiceService: invoiceService}
}

// registerInvoiceRoutes registers all invoice-related routes.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService ports.InvoiceSvc, statusService ports.StatusSvc) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.issueInvoice)
		invoices.GET("/outgoing", h.listOutgoing)
		invoices.GET("/incoming", h.listIncoming)
		invoices.GET("/:id", h.getInvoice)
		invoices.DELETE("/:id", h.deleteInvoice)
	}

	registerStatusRoutes(invoices, statusService)
}

// issueInvoice creates an invoice, its line items and the initial status in
// one transaction and reports the derived totals.
func (h *invoiceHandler) issueInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.IssueInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind issue invoice request", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed", "errors": fieldErrors(err)})
		return
	}

	resp, err := h.invoiceService.Issue(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			// transactional failure; everything has been rolled back
			logger.Error("Failed to issue invoice", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue invoice"})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// getInvoice returns the full document detail used by the detail view and
// the PDF renderer.
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	detail, err := h.invoiceService.GetDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		} else {
			logger.Error("Failed to get invoice detail", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invoice"})
		}
		return
	}

	c.JSON(http.StatusOK, detail)
}

// listOutgoing returns the seller view, selected by tax id.
func (h *invoiceHandler) listOutgoing(c *gin.Context) {
	h.list(c, true)
}

// listIncoming returns the buyer view, selected by national id.
func (h *invoiceHandler) listIncoming(c *gin.Context) {
	h.list(c, false)
}

func (h *invoiceHandler) list(c *gin.Context, outgoing bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind listing params", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	var (
		resp *dto.ListInvoicesResponse
		err  error
	)
	if outgoing {
		if params.TaxID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "taxID is required"})
			return
		}
		resp, err = h.invoiceService.ListOutgoing(c.Request.Context(), params)
	} else {
		if params.NationalID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nationalID is required"})
			return
		}
		resp, err = h.invoiceService.ListIncoming(c.Request.Context(), params)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list invoices", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list invoices"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		} else {
			logger.Error("Failed to delete invoice", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete invoice"})
		}
		return
	}

	logger.Info("Invoice deleted", slog.Int64("invoice_id", id))
	c.Status(http.StatusNoContent)
}
