package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Status is the status code a request will finish with once err has been
// through echo's error handler. An error that is not an *echo.HTTPError on an
// uncommitted response becomes a 500.
func Status(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	if c.Response().Committed {
		return c.Response().Status
	}
	return http.StatusInternalServerError
}
