package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sentiscope/sentiment-api/internal/core/domain"
	"github.com/sentiscope/sentiment-api/internal/core/ports"
)

// ContextKeyAccountID is where Auth stores the authenticated account id.
const ContextKeyAccountID = "account_id"

// Auth resolves the bearer token and injects the account id into context.
// A missing token is 401; a token that fails verification is 403.
func Auth(auth ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			accountID, err := auth.Authenticate(bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)))
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
				}
				return echo.NewHTTPError(http.StatusForbidden, "Invalid or expired token")
			}

			c.Set(ContextKeyAccountID, accountID)
			return next(c)
		}
	}
}

// bearerToken returns the second space-separated field of the header, or ""
// when there is none. The scheme itself is not checked, and a doubled space
// leaves the token empty.
func bearerToken(header string) string {
	parts := strings.Split(strings.TrimSpace(header), " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
