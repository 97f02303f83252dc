package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sentiscope/sentiment-api/internal/api/middleware"
)

// ctxAccountID extracts the account id injected by the Auth middleware.
// Its absence means the route was mounted without Auth.
func ctxAccountID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.ContextKeyAccountID).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return id, nil
}
