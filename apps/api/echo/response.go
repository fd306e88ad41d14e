package echoapi

import (
	"github.com/labstack/echo/v4"
)

type (
	successEnvelope struct {
		Success bool        `json:"success"`
		Data    interface{} `json:"data"`
	}

	errorEnvelope struct {
		Success bool              `json:"success"`
		Error   string            `json:"error"`
		Errors  map[string]string `json:"errors,omitempty"`
	}
)

// respond wraps data in the API's uniform success envelope.
func respond(ctx echo.Context, code int, data interface{}) error {
	return ctx.JSON(code, successEnvelope{Success: true, Data: data})
}
