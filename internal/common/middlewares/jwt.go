package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hes0o/clinic-management-system/pkg/utils"
)

// ContextKeyClaims is the echo.Context key under which validated claims are
// stored for downstream handlers.
const ContextKeyClaims = "claims"

// JWTMiddleware validates the Bearer token and stores the claims on the
// request context.
func JWTMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return utils.Respond(c, http.StatusUnauthorized, "Authorization header missing", nil)
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return utils.Respond(c, http.StatusUnauthorized, "Invalid authorization header", nil)
			}
			claims, err := utils.ValidateJWTToken(parts[1])
			if err != nil {
				return utils.Respond(c, http.StatusUnauthorized, "Invalid token: "+err.Error(), nil)
			}
			c.Set(ContextKeyClaims, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the validated claims stored by JWTMiddleware, or nil.
func ClaimsFrom(c echo.Context) *utils.Claims {
	claims, _ := c.Get(ContextKeyClaims).(*utils.Claims)
	return claims
}
