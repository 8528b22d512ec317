// internal/api/handlers/validation_handler.go
package handlers

import (
	"net/http"

	"notaria-api-server/internal/validator"

	"github.com/gin-gonic/gin"
)

type ValidationHandler struct {
	Validator *validator.Service
}

// Validate resuelve un código QR o número de documento, sin autenticación.
func (h *ValidationHandler) Validate(c *gin.Context) {
	code := c.Param("code")

	result, err := h.Validator.Validate(c.Request.Context(), code, c.ClientIP())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
