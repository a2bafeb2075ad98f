package handlers

import (
	"errors"

	"github.com/efakturaplus/efaktura_backend/internal/core/ports"
	"github.com/efakturaplus/efaktura_backend/internal/middleware"
	"github.com/efakturaplus/efaktura_backend/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *ports.ServiceContainer) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Public authentication routes
	registerAuthRoutes(r, cfg, services.LegalEntity)

	// API v1 routes behind JWT auth
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	registerInvoiceRoutes(v1, services.Invoice, services.Status)

	// Administrator routes behind the injected admin credential check
	adminVerifier := middleware.NewConfigAdminVerifier(cfg.AdminUsername, cfg.AdminPassword)
	admin := r.Group("/admin", middleware.AdminAuth(adminVerifier))
	registerLegalEntityRoutes(admin, services.LegalEntity)
}

// fieldErrors turns a binding error into per-field messages for 422
// responses. Non-validator errors collapse into a single "body" entry.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out[fe.Field()] = "failed validation on '" + fe.Tag() + "'"
		}
		return out
	}
	out["body"] = err.Error()
	return out
}
