package utils

import (
	"github.com/labstack/echo/v4"
)

func GetRequestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

func GetIPAddress(c echo.Context) string {
	return c.Request().RemoteAddr
}

// ReadRequest binds the request body into v and runs struct validation.
func ReadRequest(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return err
	}
	return ValidateStruct(c.Request().Context(), v)
}
