package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hes0o/clinic-management-system/pkg/utils"
)

// RequireRole gates an endpoint to staff holding one of the given roles.
// Admins pass every gate.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				return utils.Respond(c, http.StatusUnauthorized, "Missing or invalid JWT claims", nil)
			}
			if claims.Role == "admin" {
				return next(c)
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			return utils.Respond(c, http.StatusForbidden, "Insufficient role", nil)
		}
	}
}
