package utils

import "github.com/labstack/echo/v4"

// Respond writes the API envelope every endpoint shares.
func Respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"status":  status,
		"message": message,
		"data":    data,
	})
}
