// Package handlers contains the gin HTTP handlers. Handlers bind and
// authorize requests, delegate to services and attach failures to the gin
// context for the error middleware to translate.
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/izzico/izzico-backend/errors"
	"github.com/izzico/izzico-backend/middleware"
)

// requireUserID pulls the authenticated user ID set by the auth middleware.
// A missing ID means the route was wired without auth; treat it as a server
// fault, not a client one.
func requireUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		_ = c.Error(errors.InternalServerError("missing authenticated user in context"))
		return "", false
	}
	return userID, true
}

// requireUUIDParam validates a path parameter as a UUID.
func requireUUIDParam(c *gin.Context, name string) (string, bool) {
	value := c.Param(name)
	if _, err := uuid.Parse(value); err != nil {
		_ = c.Error(errors.ValidationFailed("invalid "+name, value))
		return "", false
	}
	return value, true
}
