package handlers

import (
	"net/http"

	"notaria-api-server/internal/domerr"
	"notaria-api-server/internal/lifecycle"

	"github.com/gin-gonic/gin"
)

// statusFor maps a domain error code to its HTTP status.
func statusFor(err error) int {
	switch domerr.CodeOf(err) {
	case domerr.CodeValidation, domerr.CodeInvalidCredential:
		return http.StatusBadRequest
	case domerr.CodeAuthenticationFailed:
		return http.StatusUnauthorized
	case domerr.CodeNotFound:
		return http.StatusNotFound
	case domerr.CodeInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error(), "code": string(domerr.CodeOf(err))})
}

// actorFromContext rebuilds the acting identity from the values the auth
// middleware stored.
func actorFromContext(c *gin.Context) lifecycle.Actor {
	return lifecycle.Actor{
		ID:    c.GetString("user_email"),
		Role:  c.GetString("user_role"),
		IP:    c.ClientIP(),
		Agent: c.Request.UserAgent(),
	}
}
