package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/efakturaplus/efaktura_backend/internal/apperrors"
	"github.com/efakturaplus/efaktura_backend/internal/core/ports"
	"github.com/efakturaplus/efaktura_backend/internal/dto"
	"github.com/efakturaplus/efaktura_backend/internal/middleware"
	"github.com/efakturaplus/efaktura_backend/internal/utils"
	"github.com/efakturaplus/efaktura_backend/pkg/config"
	"github.com/gin-gonic/gin"
	"strconv"
)

// authHandler handles registration and login for legal entities.
type authHandler struct {
	cfg           *config.Config
	entityService ports.LegalEntitySvc
}

func newAuthHandler(cfg *config.Config, entityService ports.LegalEntitySvc) *authHandler {
	return &authHandler{cfg: cfg, entityService: entityService}
}

// registerAuthRoutes registers the public authentication routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, entityService ports.LegalEntitySvc) {
	h := newAuthHandler(cfg, entityService)

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}
}

// register creates an unverified legal entity account.
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterLegalEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind registration request", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Validation failed", "errors": fieldErrors(err)})
		return
	}

	entity, err := h.entityService.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Registration conflict", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to register legal entity", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		}
		return
	}

	logger.Info("Legal entity registered", slog.Int64("entity_id", entity.ID))
	c.JSON(http.StatusCreated, dto.ToLegalEntityResponse(entity))
}

// login authenticates a verified entity and issues a JWT.
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entity, err := h.entityService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("Login attempt on unverified account", slog.String("username", req.Username))
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is not verified yet. Please wait for administrator approval."})
		case errors.Is(err, apperrors.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong username or password"})
		default:
			logger.Error("Failed to authenticate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
		}
		return
	}

	token, err := utils.GenerateJWT(strconv.FormatInt(entity.ID, 10), h.cfg.JWTSecret, h.cfg.JWTExpiryDuration, h.cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to generate token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
		return
	}

	logger.Info("Login successful", slog.Int64("entity_id", entity.ID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  dto.ToLegalEntityResponse(entity),
	})
}
