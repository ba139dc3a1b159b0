package middleware

import (
	"net/http"
	"strings"

	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/jwtutil"
	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/logger"
	"github.com/hashreftech/jewellery-billing-software-sub000/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware verifies the JWT token and extracts claims
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Extract the token from the Authorization header
		tokenString := c.Request().Header.Get("Authorization")
		if tokenString == "" {
			log.Warn("Missing authorization token")
			prometheus.IncAuth(false)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}

		// Remove "Bearer " prefix if present
		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:7]) == "BEARER " {
			tokenString = tokenString[7:]
		}

		claims, err := jwtutil.ValidateToken(tokenString)
		if err != nil {
			log.Warn("Invalid token", zap.Error(err))
			prometheus.IncAuth(false)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}
		prometheus.IncAuth(true)

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		log = log.With(
			zap.Uint("user_id", claims.UserID),
			zap.String("email", claims.Email),
			zap.String("role", claims.Role),
		)
		c.Set("logger", log)

		return next(c)
	}
}

// RequireRoles rejects callers whose token role is not one of roles.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			for _, r := range roles {
				if strings.EqualFold(role, r) {
					return next(c)
				}
			}

			logger.FromContext(c).Warn("Insufficient role",
				zap.String("role", role),
				zap.Strings("required", roles))
			prometheus.IncForbidden()
			return c.JSON(http.StatusForbidden, echo.Map{
				"error": "insufficient role for this operation",
			})
		}
	}
}
