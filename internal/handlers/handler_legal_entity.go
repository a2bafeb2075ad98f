package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/efakturaplus/efaktura_backend/internal/apperrors"
	"github.com/efakturaplus/efaktura_backend/internal/core/ports"
	"github.com/efakturaplus/efaktura_backend/internal/dto"
	"github.com/efakturaplus/efaktura_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// legalEntityHandler handles the administrator directory endpoints:
// listing, verification workflow and account removal.
type legalEntityHandler struct {
	entityService ports.LegalEntitySvc
}

func newLegalEntityHandler(entityService ports.LegalEntitySvc) *legalEntityHandler {
	return &legalEntityHandler{entityService: entityService}
}

// registerLegalEntityRoutes registers the admin-guarded directory routes.
func registerLegalEntityRoutes(rg *gin.RouterGroup, entityService ports.LegalEntitySvc) {
	h := newLegalEntityHandler(entityService)

	entities := rg.Group("/entities")
	{
		entities.GET("", h.listEntities)
		entities.POST("/:id/verify", h.verifyEntity)
		entities.POST("/:id/unverify", h.unverifyEntity)
		entities.DELETE("/:id", h.deleteEntity)
	}
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter"})
		return 0, false
	}
	return id, true
}

// listEntities returns the full directory without password material.
func (h *legalEntityHandler) listEntities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entities, err := h.entityService.List(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list legal entities", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list legal entities"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListLegalEntitiesResponse(entities))
}

func (h *legalEntityHandler) verifyEntity(c *gin.Context) {
	h.setVerified(c, true)
}

func (h *legalEntityHandler) unverifyEntity(c *gin.Context) {
	h.setVerified(c, false)
}

func (h *legalEntityHandler) setVerified(c *gin.Context, verified bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var err error
	if verified {
		err = h.entityService.Verify(c.Request.Context(), id)
	} else {
		err = h.entityService.Unverify(c.Request.Context(), id)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Legal entity not found"})
		} else {
			logger.Error("Failed to update verification flag", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update verification"})
		}
		return
	}

	logger.Info("Verification flag updated", slog.Int64("entity_id", id), slog.Bool("verified", verified))
	c.JSON(http.StatusOK, gin.H{"message": "Verification updated"})
}

// deleteEntity hard-deletes an account. Every invoice the entity appears on,
// as seller or as buyer, is removed by the database cascades.
func (h *legalEntityHandler) deleteEntity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.entityService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Legal entity not found"})
		} else {
			logger.Error("Failed to delete legal entity", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete legal entity"})
		}
		return
	}

	logger.Info("Legal entity deleted", slog.Int64("entity_id", id))
	c.Status(http.StatusNoContent)
}
